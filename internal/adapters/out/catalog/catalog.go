// Package catalog serves the read-only menu from a YAML document. The default
// menu is embedded in the binary; a file path overrides it.
package catalog

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"os"

	"coffeeshop/internal/core/domain/model/catalog"
	"coffeeshop/internal/core/domain/model/kernel"
	"coffeeshop/internal/pkg/errs"

	"gopkg.in/yaml.v3"
)

//go:embed menu.yaml
var defaultMenu []byte

type menuDocument struct {
	Items []menuItem `yaml:"items"`
}

type menuItem struct {
	ID       string `yaml:"id"`
	Name     string `yaml:"name"`
	Price    int64  `yaml:"price"`
	Category string `yaml:"category"`
}

// StaticCatalog implements ports.Catalog over an immutable in-memory menu.
type StaticCatalog struct {
	items []catalog.Item
	byID  map[string]catalog.Item
}

// Default returns the embedded menu.
func Default() (*StaticCatalog, error) {
	return Parse(defaultMenu)
}

// Load reads the menu from path, or returns the embedded menu when path is empty.
func Load(path string) (*StaticCatalog, error) {
	if path == "" {
		return Default()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read menu %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes a menu document. Unknown fields, duplicate ids and invalid
// items are rejected so a typo never silently removes a drink.
func Parse(data []byte) (*StaticCatalog, error) {
	var doc menuDocument
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode menu: %w", err)
	}

	c := &StaticCatalog{
		items: make([]catalog.Item, 0, len(doc.Items)),
		byID:  make(map[string]catalog.Item, len(doc.Items)),
	}

	var problems []error
	for i, mi := range doc.Items {
		price, err := kernel.NewMoney(mi.Price)
		if err != nil {
			problems = append(problems, fmt.Errorf("item %d (%s): %w", i, mi.ID, err))
			continue
		}
		item, err := catalog.NewItem(mi.ID, mi.Name, price, catalog.Category(mi.Category))
		if err != nil {
			problems = append(problems, fmt.Errorf("item %d (%s): %w", i, mi.ID, err))
			continue
		}
		if _, dup := c.byID[item.ID()]; dup {
			problems = append(problems, fmt.Errorf("item %d: duplicate id %q", i, item.ID()))
			continue
		}
		c.items = append(c.items, item)
		c.byID[item.ID()] = item
	}

	if err := errors.Join(problems...); err != nil {
		return nil, err
	}
	if len(c.items) == 0 {
		return nil, errors.New("menu has no items")
	}
	return c, nil
}

func (c *StaticCatalog) Item(_ context.Context, id string) (catalog.Item, error) {
	item, ok := c.byID[id]
	if !ok {
		return catalog.Item{}, errs.NewObjectNotFoundError("catalogItemId", id)
	}
	return item, nil
}

// Items returns the menu in document order.
func (c *StaticCatalog) Items(_ context.Context) ([]catalog.Item, error) {
	out := make([]catalog.Item, len(c.items))
	copy(out, c.items)
	return out, nil
}
