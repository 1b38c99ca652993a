package catalog

import (
	"strings"
	"testing"

	"blind-configurator/core/types"
	"blind-configurator/internal/errors"
)

// TestDefaultCatalogShape proves the shipped options match what is on sale
func TestDefaultCatalogShape(t *testing.T) {
	c := Default()

	if n := len(c.List(KindFrameColor)); n != 4 {
		t.Errorf("frame colours = %d, want 4", n)
	}
	if n := len(c.List(KindMount)); n != 2 {
		t.Errorf("mounts = %d, want 2", n)
	}
	if n := len(c.List(KindControl)); n != 2 {
		t.Errorf("controls = %d, want 2", n)
	}
	for _, ft := range []string{"duo-blockout", "lereve-blockout"} {
		colours := c.FabricColors(ft)
		if len(colours) != 10 {
			t.Errorf("%s colours = %d, want 10", ft, len(colours))
		}
		prefix := strings.TrimSuffix(ft, "-blockout") + "-"
		for _, col := range colours {
			if !strings.HasPrefix(col.ID, prefix) {
				t.Errorf("%s colour %q missing prefix %q", ft, col.ID, prefix)
			}
		}
	}

	stats := c.Stats()
	if stats.Total != 4+2+20+2+2 {
		t.Errorf("total options = %d, want 30", stats.Total)
	}
}

// TestListKeepsRegistrationOrder proves listings are stable for display
func TestListKeepsRegistrationOrder(t *testing.T) {
	frames := Default().List(KindFrameColor)
	want := []string{"black", "white", "silver", "cream"}
	for i, id := range want {
		if frames[i].ID != id {
			t.Errorf("frames[%d] = %q, want %q", i, frames[i].ID, id)
		}
	}
}

// TestRegisterReplaces proves re-registering keeps one entry
func TestRegisterReplaces(t *testing.T) {
	c := NewCatalog()
	c.Register(Option{Kind: KindMount, ID: "inside", Name: "Old"})
	c.Register(Option{Kind: KindMount, ID: "inside", Name: "New"})
	if n := len(c.List(KindMount)); n != 1 {
		t.Fatalf("mounts = %d, want 1", n)
	}
	if got := c.Label(KindMount, "inside"); got != "New" {
		t.Errorf("label = %q, want New", got)
	}
	if got := c.Label(KindMount, "ceiling"); got != "ceiling" {
		t.Errorf("unknown label = %q, want id", got)
	}
}

func validConfiguration() types.Configuration {
	cfg := types.NewConfiguration()
	cfg.FrameColor = "black"
	cfg.FabricType = "duo-blockout"
	cfg.FabricColor = "duo-aztec"
	cfg.MountType = "inside"
	cfg.Width = 1300
	cfg.Height = 1200
	cfg.WindowName = "Kitchen"
	return cfg
}

// TestValidateAcceptsKnownOptions proves a fully chosen configuration passes
func TestValidateAcceptsKnownOptions(t *testing.T) {
	if err := Default().Validate(validConfiguration()); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

// TestValidateIgnoresEmptyFields proves unchosen fields are not catalog errors
func TestValidateIgnoresEmptyFields(t *testing.T) {
	if err := Default().Validate(types.NewConfiguration()); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

// TestValidateReportsEveryProblem proves problems are aggregated into one input error
func TestValidateReportsEveryProblem(t *testing.T) {
	cfg := validConfiguration()
	cfg.FrameColor = "gold"
	cfg.MountType = "ceiling"
	cfg.ControlType = "voice"

	err := Default().Validate(cfg)
	if !errors.IsType(err, errors.TypeInput) {
		t.Fatalf("error = %v, want input error", err)
	}
	e, _ := errors.As(err)
	for _, field := range []string{"frame_color", "mount_type", "control_type"} {
		if _, ok := e.Context[field]; !ok {
			t.Errorf("missing problem for %s in %v", field, e.Context)
		}
	}
}

// TestValidateFabricColourBelongsToType proves colours cannot cross fabric families
func TestValidateFabricColourBelongsToType(t *testing.T) {
	cfg := validConfiguration()
	cfg.FabricColor = "lereve-aztec"

	err := Default().Validate(cfg)
	if err == nil {
		t.Fatal("expected error for cross-family colour")
	}
	if !strings.Contains(err.Error(), "not offered") {
		t.Errorf("error = %q, want mention of not offered", err)
	}

	cfg.FabricColor = "duo-tartan"
	if err := Default().Validate(cfg); err == nil || !strings.Contains(err.Error(), "unknown fabric colour") {
		t.Errorf("error = %v, want unknown fabric colour", err)
	}
}

// TestListingGroupsColours proves the wire listing nests colours under their fabric
func TestListingGroupsColours(t *testing.T) {
	l := Default().Listing()
	if len(l.FabricColors) != 2 {
		t.Fatalf("fabric colour groups = %d, want 2", len(l.FabricColors))
	}
	if l.FabricColors["lereve-blockout"][0].Parent != "lereve-blockout" {
		t.Errorf("colour parent mismatch")
	}
	ids := Default().FabricTypeIDs()
	if len(ids) != 2 || ids[0] != "duo-blockout" {
		t.Errorf("fabric type ids = %v", ids)
	}
}
