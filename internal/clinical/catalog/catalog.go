// Package catalog holds the intervention catalog and filters it against an
// assessed wound into recommended and misaligned products.
package catalog

import (
	"encoding/json"
	"fmt"
	"sort"

	"woundcare-workers/internal/models"
)

const (
	RuleKeyTimers = "timers"
	ScaleResvech  = "resvech"
)

type Bound string

const (
	BoundMin Bound = "min"
	BoundMax Bound = "max"
)

// Threshold is one numeric inclusion or exclusion rule.
type Threshold struct {
	Key       string           `json:"key"`
	Component models.Component `json:"component"`
	Limit     int              `json:"limit"`
}

// RuleSet is the alignment contract of one product.
type RuleSet struct {
	Triggers map[models.Axis][]string
	Min      []Threshold
	Max      []Threshold
}

// MarshalJSON writes the rule set back in configuration form.
func (r RuleSet) MarshalJSON() ([]byte, error) {
	out := make(map[string]interface{}, len(r.Min)+len(r.Max)+1)
	if len(r.Triggers) > 0 {
		triggers := make(map[string][]string, len(r.Triggers))
		for axis, keywords := range r.Triggers {
			triggers[string(axis)] = keywords
		}
		out[RuleKeyTimers] = triggers
	}
	for _, t := range r.Min {
		out[t.Key] = t.Limit
	}
	for _, t := range r.Max {
		out[t.Key] = t.Limit
	}
	return json.Marshal(out)
}

func (r RuleSet) clone() RuleSet {
	c := RuleSet{
		Min: append([]Threshold(nil), r.Min...),
		Max: append([]Threshold(nil), r.Max...),
	}
	if r.Triggers != nil {
		c.Triggers = make(map[models.Axis][]string, len(r.Triggers))
		for k, v := range r.Triggers {
			c.Triggers[k] = append([]string(nil), v...)
		}
	}
	return c
}

// triggerAxes returns the trigger axes in canonical TIMERS order.
func (r RuleSet) triggerAxes() []models.Axis {
	axes := make([]models.Axis, 0, len(r.Triggers))
	for _, a := range models.AllAxes {
		if _, ok := r.Triggers[a]; ok {
			axes = append(axes, a)
		}
	}
	return axes
}

type Product struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Manufacturer string  `json:"manufacturer,omitempty"`
	Category     string  `json:"category,omitempty"`
	Description  string  `json:"description,omitempty"`
	Alignment    string  `json:"alignment,omitempty"`
	Link         string  `json:"link,omitempty"`
	Rules        RuleSet `json:"rules"`
}

func (p Product) clone() Product {
	p.Rules = p.Rules.clone()
	return p
}

// Catalog is an immutable, ordered product list. It is safe for concurrent use.
type Catalog struct {
	version  string
	products []Product
}

func (c *Catalog) Version() string {
	return c.version
}

func (c *Catalog) Len() int {
	return len(c.products)
}

// Products returns a deep copy of the products in catalog order.
func (c *Catalog) Products() []Product {
	out := make([]Product, len(c.products))
	for i, p := range c.products {
		out[i] = p.clone()
	}
	return out
}

// Product looks up a product by id.
func (c *Catalog) Product(id string) (Product, bool) {
	for _, p := range c.products {
		if p.ID == id {
			return p.clone(), true
		}
	}
	return Product{}, false
}

type document struct {
	Version  string    `json:"version,omitempty"`
	Products []Product `json:"products"`
}

// MarshalJSON writes the catalog in the same form Parse reads.
func (c *Catalog) MarshalJSON() ([]byte, error) {
	products := c.products
	if products == nil {
		products = []Product{}
	}
	return json.Marshal(document{Version: c.version, Products: products})
}

// LoadError lists every problem found while loading a catalog.
type LoadError struct {
	Source   string
	Problems []string
}

func (e *LoadError) Error() string {
	src := e.Source
	if src == "" {
		src = "catalog"
	}
	if len(e.Problems) == 1 {
		return fmt.Sprintf("%s: %s", src, e.Problems[0])
	}
	return fmt.Sprintf("%s: %d problems: %v", src, len(e.Problems), e.Problems)
}

func sortThresholds(ts []Threshold) {
	sort.Slice(ts, func(i, j int) bool { return ts[i].Key < ts[j].Key })
}
