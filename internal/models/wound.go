// internal/models/wound.go
package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// WoundParameters is one wound observation as supplied by the caller.
// Absent numeric fields decode to zero and absent descriptions to "".
type WoundParameters struct {
	Size                  int `json:"size"`
	Depth                 int `json:"depth"`
	Edges                 int `json:"edges"`
	TissueType            int `json:"tissueType"`
	Exudate               int `json:"exudate"`
	InfectionInflammation int `json:"infectionInflammation"`

	TissueDescription  string `json:"tissueDescription,omitempty"`
	ExudateDescription string `json:"exudateDescription,omitempty"`
	EdgesDescription   string `json:"edgesDescription,omitempty"`
}

// Component names one numeric field of WoundParameters.
type Component string

const (
	ComponentSize      Component = "size"
	ComponentDepth     Component = "depth"
	ComponentEdges     Component = "edges"
	ComponentTissue    Component = "tissue"
	ComponentExudate   Component = "exudate"
	ComponentInfection Component = "infection"

	// ComponentTotal is only meaningful in catalog rules, where it refers to the severity score.
	ComponentTotal Component = "total"
)

// ScoredComponents lists the components that contribute to the severity score, in display order.
var ScoredComponents = []Component{
	ComponentSize,
	ComponentDepth,
	ComponentEdges,
	ComponentTissue,
	ComponentExudate,
	ComponentInfection,
}

var componentAliases = map[string]Component{
	"size":                   ComponentSize,
	"dimension":              ComponentSize,
	"dim":                    ComponentSize,
	"depth":                  ComponentDepth,
	"edges":                  ComponentEdges,
	"edge":                   ComponentEdges,
	"tissue":                 ComponentTissue,
	"tissue_type":            ComponentTissue,
	"slough":                 ComponentTissue,
	"necrosis":               ComponentTissue,
	"bed":                    ComponentTissue,
	"exudate":                ComponentExudate,
	"infection":              ComponentInfection,
	"inflammation":           ComponentInfection,
	"infection_inflammation": ComponentInfection,
	"inf":                    ComponentInfection,
	"total":                  ComponentTotal,
	"score":                  ComponentTotal,
}

// ParseComponent resolves a component name or one of its aliases.
func ParseComponent(name string) (Component, bool) {
	c, ok := componentAliases[strings.ToLower(strings.TrimSpace(name))]
	return c, ok
}

// Value returns the points recorded for c. Negative inputs count as zero.
// ComponentTotal is not a field and reports false.
func (p WoundParameters) Value(c Component) (int, bool) {
	var v int
	switch c {
	case ComponentSize:
		v = p.Size
	case ComponentDepth:
		v = p.Depth
	case ComponentEdges:
		v = p.Edges
	case ComponentTissue:
		v = p.TissueType
	case ComponentExudate:
		v = p.Exudate
	case ComponentInfection:
		v = p.InfectionInflammation
	default:
		return 0, false
	}
	if v < 0 {
		v = 0
	}
	return v, true
}

// Points is Value without the presence flag.
func (p WoundParameters) Points(c Component) int {
	v, _ := p.Value(c)
	return v
}

// parametersWire keeps numeric components as written so whole numbers with a
// fraction or exponent ("3.0", "1e2") decode like plain integers.
type parametersWire struct {
	Size                  json.Number `json:"size"`
	Depth                 json.Number `json:"depth"`
	Edges                 json.Number `json:"edges"`
	TissueType            json.Number `json:"tissueType"`
	Exudate               json.Number `json:"exudate"`
	InfectionInflammation json.Number `json:"infectionInflammation"`

	TissueDescription  string `json:"tissueDescription"`
	ExudateDescription string `json:"exudateDescription"`
	EdgesDescription   string `json:"edgesDescription"`
}

func (w parametersWire) apply(p *WoundParameters) error {
	numbers := []struct {
		field string
		raw   json.Number
		dst   *int
	}{
		{"size", w.Size, &p.Size},
		{"depth", w.Depth, &p.Depth},
		{"edges", w.Edges, &p.Edges},
		{"tissueType", w.TissueType, &p.TissueType},
		{"exudate", w.Exudate, &p.Exudate},
		{"infectionInflammation", w.InfectionInflammation, &p.InfectionInflammation},
	}
	for _, n := range numbers {
		v, err := wholeNumber(n.raw)
		if err != nil {
			return fmt.Errorf("%s: %w", n.field, err)
		}
		*n.dst = v
	}
	p.TissueDescription = w.TissueDescription
	p.ExudateDescription = w.ExudateDescription
	p.EdgesDescription = w.EdgesDescription
	return nil
}

// wholeNumber converts a JSON number to int. Absent numbers are zero and values
// outside the int range saturate.
func wholeNumber(n json.Number) (int, error) {
	if n == "" {
		return 0, nil
	}
	if i, err := strconv.ParseInt(string(n), 10, 0); err == nil {
		return int(i), nil
	}
	f, err := strconv.ParseFloat(string(n), 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0, fmt.Errorf("invalid number %q", string(n))
	}
	if f != math.Trunc(f) {
		return 0, fmt.Errorf("%s is not a whole number", string(n))
	}
	switch {
	case f >= math.MaxInt:
		return math.MaxInt, nil
	case f <= math.MinInt:
		return math.MinInt, nil
	}
	return int(f), nil
}

// UnmarshalJSON accepts whole numbers in any JSON spelling for the numeric
// components. Fractional values are rejected.
func (p *WoundParameters) UnmarshalJSON(data []byte) error {
	var w parametersWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	var out WoundParameters
	if err := w.apply(&out); err != nil {
		return err
	}
	*p = out
	return nil
}

// DecodeParametersStrict decodes one parameters object from r like
// UnmarshalJSON but rejects unknown fields.
func DecodeParametersStrict(r io.Reader) (WoundParameters, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	var w parametersWire
	if err := dec.Decode(&w); err != nil {
		return WoundParameters{}, err
	}
	var p WoundParameters
	if err := w.apply(&p); err != nil {
		return WoundParameters{}, err
	}
	return p, nil
}
