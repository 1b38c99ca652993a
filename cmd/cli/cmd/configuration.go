package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"blind-configurator/api"
	"blind-configurator/core/measure"
	"blind-configurator/core/types"
	"blind-configurator/internal/errors"
)

// configurationFlags describe one blind on the command line. A --file is
// read first; explicit flags override it.
type configurationFlags struct {
	file        string
	frame       string
	fabric      string
	fabricColor string
	mount       string
	width       string
	height      string
	guarantee   bool
	control     string
	remote      bool
	hubs        int
	name        string
}

func (f *configurationFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVar(&f.file, "file", "", "configuration file (JSON or YAML)")
	fs.StringVar(&f.frame, "frame", "", "frame colour id")
	fs.StringVar(&f.fabric, "fabric", "", "fabric type id")
	fs.StringVar(&f.fabricColor, "fabric-color", "", "fabric colour id")
	fs.StringVar(&f.mount, "mount", "", "mount type id (inside, outside)")
	fs.StringVarP(&f.width, "width", "W", "", "width in millimetres")
	fs.StringVarP(&f.height, "height", "H", "", "height in millimetres")
	fs.BoolVar(&f.guarantee, "guarantee", false, "add the measurement guarantee")
	fs.StringVar(&f.control, "control", types.ControlMotorised, "control type (manual, motorised)")
	fs.BoolVar(&f.remote, "remote", false, "add an additional remote")
	fs.IntVar(&f.hubs, "hubs", 0, "number of smart hubs")
	fs.StringVar(&f.name, "name", "", "window name")
}

// build assembles the configuration from the file and any set flags
func (f *configurationFlags) build(cmd *cobra.Command) (types.Configuration, error) {
	cfg := types.NewConfiguration()
	if f.file != "" {
		loaded, err := readConfiguration(f.file)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
	}

	changed := cmd.Flags().Changed
	if changed("frame") {
		cfg.FrameColor = f.frame
	}
	if changed("fabric") {
		cfg.FabricType = f.fabric
	}
	if changed("fabric-color") {
		cfg.FabricColor = f.fabricColor
	}
	if changed("mount") {
		cfg.MountType = f.mount
	}
	if changed("width") {
		cfg.Width = measure.RawText(f.width).Millimetres()
	}
	if changed("height") {
		cfg.Height = measure.RawText(f.height).Millimetres()
	}
	if changed("guarantee") {
		cfg.MeasurementGuarantee = f.guarantee
	}
	if changed("control") {
		cfg.ControlType = f.control
	}
	if changed("remote") {
		cfg.AdditionalRemote = f.remote
	}
	if changed("hubs") {
		cfg.SmartHubQuantity = f.hubs
	}
	if changed("name") {
		cfg.WindowName = f.name
	}
	if cfg.SmartHubQuantity < 0 {
		cfg.SmartHubQuantity = 0
	}
	return cfg, nil
}

// readConfiguration decodes a configuration file. JSON accepts every
// dimension form the HTTP API accepts; YAML takes plain millimetres.
func readConfiguration(path string) (types.Configuration, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.Configuration{}, errors.Wrap(errors.TypeInput, "read configuration file", err).
			WithContext("path", path)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		cfg := types.NewConfiguration()
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, errors.Wrap(errors.TypeInput, "parse configuration file", err).
				WithContext("path", path)
		}
		cfg.Width = measure.FromMillimetres(cfg.Width)
		cfg.Height = measure.FromMillimetres(cfg.Height)
		return cfg, nil
	default:
		var req api.ConfigurationRequest
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			return types.Configuration{}, errors.Wrap(errors.TypeInput, "parse configuration file", err).
				WithContext("path", path)
		}
		return req.Configuration(), nil
	}
}
