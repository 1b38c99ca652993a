// Package catalog - Shipped options
package catalog

import (
	"strings"

	"blind-configurator/core/types"
)

var fabricColorNames = []string{
	"Aztec", "Graphite", "Linen", "Charcoal", "Stone",
	"Silver", "Pearl", "Sandstone", "Canvas", "Champagne",
}

// Default returns the catalog of options currently on sale
func Default() *Catalog {
	c := NewCatalog()
	RegisterOptions(c)
	return c
}

// RegisterOptions populates the catalog with every option on sale
func RegisterOptions(c *Catalog) {
	// Frames
	c.Register(Option{Kind: KindFrameColor, ID: "black", Name: "Black"})
	c.Register(Option{Kind: KindFrameColor, ID: "white", Name: "White"})
	c.Register(Option{Kind: KindFrameColor, ID: "silver", Name: "Silver"})
	c.Register(Option{Kind: KindFrameColor, ID: "cream", Name: "Cream"})

	// Fabrics
	registerFabric(c, "duo", Option{Kind: KindFabricType, ID: "duo-blockout", Name: "DUO Blockout", Description: "Premium blockout with textured weave"})
	registerFabric(c, "lereve", Option{Kind: KindFabricType, ID: "lereve-blockout", Name: "LeReve Blockout", Description: "Elegant blockout with woven pattern"})

	// Mounting
	c.Register(Option{Kind: KindMount, ID: "inside", Name: "Inside Mount", Description: "Blind fits inside the window frame"})
	c.Register(Option{Kind: KindMount, ID: "outside", Name: "Outside Mount", Description: "Blind mounts on the wall above the window"})

	// Control
	c.Register(Option{Kind: KindControl, ID: types.ControlManual, Name: "Manual Control", Description: "Traditional cord or chain operation"})
	c.Register(Option{Kind: KindControl, ID: types.ControlMotorised, Name: "Motorised", Description: "Electric motor with remote control"})
}

func registerFabric(c *Catalog, prefix string, fabric Option) {
	c.Register(fabric)
	for _, name := range fabricColorNames {
		c.Register(Option{
			Kind:   KindFabricColor,
			ID:     prefix + "-" + strings.ToLower(name),
			Name:   name,
			Parent: fabric.ID,
		})
	}
}
