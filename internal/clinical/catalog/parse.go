package catalog

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"woundcare-workers/internal/models"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"
)

//go:embed schema.json
var schemaJSON string

//go:embed default.json
var defaultJSON []byte

var schemaLoader = gojsonschema.NewStringLoader(schemaJSON)

type rawProduct struct {
	ID           string                     `json:"id"`
	Name         string                     `json:"name"`
	Manufacturer string                     `json:"manufacturer"`
	Category     string                     `json:"category"`
	Description  string                     `json:"description"`
	Alignment    string                     `json:"alignment"`
	Link         string                     `json:"link"`
	Rules        map[string]json.RawMessage `json:"rules"`
}

type rawCatalog struct {
	Version  string       `json:"version"`
	Products []rawProduct `json:"products"`
}

// Parse validates a JSON catalog document and builds the catalog. Structural
// problems are checked against the embedded schema first, then every rule is
// checked semantically. All problems are reported together in a *LoadError.
func Parse(data []byte) (*Catalog, error) {
	return parse("", data)
}

// ParseFrom is Parse with source named in any LoadError.
func ParseFrom(source string, data []byte) (*Catalog, error) {
	return parse(source, data)
}

func parse(source string, data []byte) (*Catalog, error) {
	result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewBytesLoader(data))
	if err != nil {
		return nil, &LoadError{Source: source, Problems: []string{fmt.Sprintf("invalid JSON: %v", err)}}
	}
	if !result.Valid() {
		problems := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			problems = append(problems, e.String())
		}
		return nil, &LoadError{Source: source, Problems: problems}
	}

	var raw rawCatalog
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &LoadError{Source: source, Problems: []string{fmt.Sprintf("decode catalog: %v", err)}}
	}

	var problems []string
	seen := make(map[string]int, len(raw.Products))
	products := make([]Product, 0, len(raw.Products))

	for i, rp := range raw.Products {
		where := fmt.Sprintf("products[%d]", i)
		id := strings.TrimSpace(rp.ID)
		if id == "" {
			problems = append(problems, where+": id is required")
		} else {
			where = fmt.Sprintf("products[%d] (%s)", i, id)
			if prev, dup := seen[id]; dup {
				problems = append(problems, fmt.Sprintf("%s: duplicate id, first defined at products[%d]", where, prev))
			} else {
				seen[id] = i
			}
		}
		if strings.TrimSpace(rp.Name) == "" {
			problems = append(problems, where+": name is required")
		}

		rules, ruleProblems := parseRules(rp.Rules)
		for _, p := range ruleProblems {
			problems = append(problems, where+": "+p)
		}

		products = append(products, Product{
			ID:           id,
			Name:         rp.Name,
			Manufacturer: rp.Manufacturer,
			Category:     rp.Category,
			Description:  rp.Description,
			Alignment:    rp.Alignment,
			Link:         rp.Link,
			Rules:        rules,
		})
	}

	if len(problems) > 0 {
		return nil, &LoadError{Source: source, Problems: problems}
	}
	return &Catalog{version: raw.Version, products: products}, nil
}

func parseRules(raw map[string]json.RawMessage) (RuleSet, []string) {
	var (
		rules    RuleSet
		problems []string
	)
	for key, value := range raw {
		if key == RuleKeyTimers {
			triggers, p := parseTriggers(value)
			rules.Triggers = triggers
			problems = append(problems, p...)
			continue
		}

		bound, component, err := parseRuleKey(key)
		if err != nil {
			problems = append(problems, err.Error())
			continue
		}
		limit, err := parseLimit(value)
		if err != nil {
			problems = append(problems, fmt.Sprintf("rule %q: %v", key, err))
			continue
		}

		t := Threshold{Key: key, Component: component, Limit: limit}
		if bound == BoundMin {
			rules.Min = append(rules.Min, t)
		} else {
			rules.Max = append(rules.Max, t)
		}
	}
	sortThresholds(rules.Min)
	sortThresholds(rules.Max)
	sort.Strings(problems)
	return rules, problems
}

func parseTriggers(value json.RawMessage) (map[models.Axis][]string, []string) {
	var raw map[string][]string
	if err := json.Unmarshal(value, &raw); err != nil {
		return nil, []string{fmt.Sprintf("rule %q: %v", RuleKeyTimers, err)}
	}
	var problems []string
	triggers := make(map[models.Axis][]string, len(raw))
	for key, keywords := range raw {
		axis, err := models.ParseAxis(key)
		if err != nil {
			problems = append(problems, fmt.Sprintf("rule %q: %v", RuleKeyTimers, err))
			continue
		}
		if len(keywords) == 0 {
			problems = append(problems, fmt.Sprintf("rule %q: axis %s has an empty trigger list", RuleKeyTimers, axis))
			continue
		}
		for _, k := range keywords {
			if strings.TrimSpace(k) == "" {
				problems = append(problems, fmt.Sprintf("rule %q: axis %s has a blank keyword", RuleKeyTimers, axis))
			}
		}
		triggers[axis] = append(triggers[axis], keywords...)
	}
	return triggers, problems
}

// parseRuleKey splits "<scale>_<min|max>_<component>".
func parseRuleKey(key string) (Bound, models.Component, error) {
	parts := strings.SplitN(key, "_", 3)
	if len(parts) != 3 {
		return "", "", fmt.Errorf("unknown rule key %q", key)
	}
	if parts[0] != ScaleResvech {
		return "", "", fmt.Errorf("rule %q: unknown scale %q", key, parts[0])
	}
	bound := Bound(parts[1])
	if bound != BoundMin && bound != BoundMax {
		return "", "", fmt.Errorf("rule %q: bound must be min or max", key)
	}
	component, ok := models.ParseComponent(parts[2])
	if !ok {
		return "", "", fmt.Errorf("rule %q: unknown component %q", key, parts[2])
	}
	return bound, component, nil
}

func parseLimit(value json.RawMessage) (int, error) {
	dec := json.NewDecoder(bytes.NewReader(value))
	dec.UseNumber()
	var n json.Number
	if err := dec.Decode(&n); err != nil {
		return 0, fmt.Errorf("limit must be a number")
	}
	v, err := n.Int64()
	if err != nil {
		return 0, fmt.Errorf("limit %s is not an integer", n)
	}
	if v < 0 {
		return 0, fmt.Errorf("limit %d is negative", v)
	}
	return int(v), nil
}

// LoadFile reads a JSON or YAML catalog. YAML is chosen by the .yaml or .yml extension.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = yamlToJSON(data)
		if err != nil {
			return nil, &LoadError{Source: path, Problems: []string{err.Error()}}
		}
	}
	return parse(path, data)
}

// ParseYAML converts a YAML document to JSON and parses it.
func ParseYAML(data []byte) (*Catalog, error) {
	converted, err := yamlToJSON(data)
	if err != nil {
		return nil, &LoadError{Problems: []string{err.Error()}}
	}
	return Parse(converted)
}

func yamlToJSON(data []byte) ([]byte, error) {
	var doc interface{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("invalid YAML: %w", err)
	}
	normalized, err := normalizeYAML(doc)
	if err != nil {
		return nil, err
	}
	return json.Marshal(normalized)
}

func normalizeYAML(v interface{}) (interface{}, error) {
	switch t := v.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(t))
		for k, val := range t {
			n, err := normalizeYAML(val)
			if err != nil {
				return nil, err
			}
			out[k] = n
		}
		return out, nil
	case map[interface{}]interface{}:
		out := make(map[string]interface{}, len(t))
		for k, val := range t {
			n, err := normalizeYAML(val)
			if err != nil {
				return nil, err
			}
			out[fmt.Sprint(k)] = n
		}
		return out, nil
	case []interface{}:
		out := make([]interface{}, len(t))
		for i, val := range t {
			n, err := normalizeYAML(val)
			if err != nil {
				return nil, err
			}
			out[i] = n
		}
		return out, nil
	default:
		return v, nil
	}
}

// Default returns the built-in catalog.
func Default() *Catalog {
	c, err := parse("default.json", defaultJSON)
	if err != nil {
		panic(fmt.Sprintf("built-in catalog is invalid: %v", err))
	}
	return c
}
