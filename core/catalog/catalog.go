// Package catalog - Authoritative option catalog
// Defines every selectable frame, fabric, mount and control option.
// This is the source of truth for what a configuration may contain.
package catalog

import (
	"sort"
)

// Kind classifies an option by the configuration field it fills
type Kind int

const (
	// KindFrameColor - fills frame_color
	KindFrameColor Kind = iota
	// KindFabricType - fills fabric_type
	KindFabricType
	// KindFabricColor - fills fabric_color, scoped to a fabric type
	KindFabricColor
	// KindMount - fills mount_type
	KindMount
	// KindControl - fills control_type
	KindControl
)

// String returns string representation
func (k Kind) String() string {
	switch k {
	case KindFrameColor:
		return "frame_color"
	case KindFabricType:
		return "fabric_type"
	case KindFabricColor:
		return "fabric_color"
	case KindMount:
		return "mount_type"
	case KindControl:
		return "control_type"
	default:
		return "unknown"
	}
}

// Option is a catalog entry for one selectable value
type Option struct {
	Kind        Kind   `json:"-"`
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	// Parent is the fabric type a fabric colour belongs to
	Parent string `json:"parent,omitempty"`
}

// Catalog is the authoritative option catalog
type Catalog struct {
	entries map[string]*Option
	order   map[Kind][]string
}

// NewCatalog creates an empty catalog
func NewCatalog() *Catalog {
	return &Catalog{
		entries: make(map[string]*Option),
		order:   make(map[Kind][]string),
	}
}

func key(kind Kind, id string) string {
	return kind.String() + ":" + id
}

// Register adds an option. Registering the same kind and id twice replaces it.
func (c *Catalog) Register(opt Option) {
	k := key(opt.Kind, opt.ID)
	if _, exists := c.entries[k]; !exists {
		c.order[opt.Kind] = append(c.order[opt.Kind], opt.ID)
	}
	c.entries[k] = &opt
}

// Get returns an option entry
func (c *Catalog) Get(kind Kind, id string) (*Option, bool) {
	opt, ok := c.entries[key(kind, id)]
	return opt, ok
}

// Has reports whether an option exists
func (c *Catalog) Has(kind Kind, id string) bool {
	_, ok := c.Get(kind, id)
	return ok
}

// List returns the options of a kind in registration order
func (c *Catalog) List(kind Kind) []Option {
	ids := c.order[kind]
	result := make([]Option, 0, len(ids))
	for _, id := range ids {
		result = append(result, *c.entries[key(kind, id)])
	}
	return result
}

// FabricColors returns the colours offered for one fabric type
func (c *Catalog) FabricColors(fabricType string) []Option {
	var result []Option
	for _, opt := range c.List(KindFabricColor) {
		if opt.Parent == fabricType {
			result = append(result, opt)
		}
	}
	return result
}

// Label returns the display name for an option, or the id when unknown
func (c *Catalog) Label(kind Kind, id string) string {
	if opt, ok := c.Get(kind, id); ok {
		return opt.Name
	}
	return id
}

// Stats returns catalog statistics
func (c *Catalog) Stats() Stats {
	stats := Stats{ByKind: make(map[string]int)}
	for _, opt := range c.entries {
		stats.Total++
		stats.ByKind[opt.Kind.String()]++
	}
	return stats
}

// Stats holds catalog statistics
type Stats struct {
	Total  int
	ByKind map[string]int
}

// Listing is the wire form of the whole catalog
type Listing struct {
	FrameColors  []Option            `json:"frame_colors"`
	FabricTypes  []Option            `json:"fabric_types"`
	FabricColors map[string][]Option `json:"fabric_colors"`
	Mounts       []Option            `json:"mount_types"`
	Controls     []Option            `json:"control_types"`
}

// Listing groups the catalog for display
func (c *Catalog) Listing() Listing {
	l := Listing{
		FrameColors:  c.List(KindFrameColor),
		FabricTypes:  c.List(KindFabricType),
		FabricColors: make(map[string][]Option),
		Mounts:       c.List(KindMount),
		Controls:     c.List(KindControl),
	}
	for _, ft := range l.FabricTypes {
		l.FabricColors[ft.ID] = c.FabricColors(ft.ID)
	}
	return l
}

// FabricTypeIDs returns the registered fabric type ids, sorted
func (c *Catalog) FabricTypeIDs() []string {
	ids := append([]string(nil), c.order[KindFabricType]...)
	sort.Strings(ids)
	return ids
}
