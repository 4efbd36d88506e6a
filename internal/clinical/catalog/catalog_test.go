package catalog

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"woundcare-workers/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	versajetID = "s-n-versajet-01"
	acticoatID = "s-n-acticoat-01"
	allevynID  = "s-n-allevyn-01"
	regranexID = "smith-regranex-01"
)

var (
	viable     = models.AxisAssessment{Axis: models.AxisTissue, Status: "Viable", Action: "Maintain healthy bed"}
	nonViable  = models.AxisAssessment{Axis: models.AxisTissue, Status: "Non-viable tissue", Action: "Debridement required", Triggered: true}
	infected   = models.AxisAssessment{Axis: models.AxisInfection, Status: "Infection/Biofilm suspected", Action: "Antimicrobials/Anti-biofilm agents", Triggered: true}
	controlled = models.AxisAssessment{Axis: models.AxisInfection, Status: "Controlled", Action: "Monitor for signs"}
	macerated  = models.AxisAssessment{Axis: models.AxisMoisture, Status: "Maceration risk", Action: "Absorbent dressings", Triggered: true}
	balanced   = models.AxisAssessment{Axis: models.AxisMoisture, Status: "Balanced", Action: "Protect moisture balance"}
)

func axes(as ...models.AxisAssessment) map[models.Axis]models.AxisAssessment {
	out := make(map[models.Axis]models.AxisAssessment, len(as))
	for _, a := range as {
		out[a.Axis] = a
	}
	return out
}

func ids(views []ProductView) []string {
	out := make([]string, 0, len(views))
	for _, v := range views {
		out = append(out, v.ID)
	}
	return out
}

func findView(views []ProductView, id string) (ProductView, bool) {
	for _, v := range views {
		if v.ID == id {
			return v, true
		}
	}
	return ProductView{}, false
}

func TestDefault(t *testing.T) {
	cat := Default()

	require.Equal(t, 4, cat.Len())
	products := cat.Products()
	assert.Equal(t, []string{versajetID, acticoatID, allevynID, regranexID},
		[]string{products[0].ID, products[1].ID, products[2].ID, products[3].ID})

	regranex, ok := cat.Product(regranexID)
	require.True(t, ok)
	assert.Equal(t, []string{"Viable", "Healthy"}, regranex.Rules.Triggers[models.AxisTissue])
	assert.Equal(t, []Threshold{
		{Key: "resvech_max_infection", Component: models.ComponentInfection, Limit: 2},
		{Key: "resvech_max_slough", Component: models.ComponentTissue, Limit: 2},
	}, regranex.Rules.Max)
	assert.Empty(t, regranex.Rules.Min)
}

func TestFilter_HighInfectionMisalignsRegenerativeGel(t *testing.T) {
	params := models.WoundParameters{InfectionInflammation: 10}

	res := Filter(Default(), axes(viable, infected, balanced), 10, params)

	misaligned, ok := findView(res.Misaligned, regranexID)
	require.True(t, ok, "REGRANEX must be misaligned")
	require.Len(t, misaligned.RejectionReasons, 1)
	assert.Equal(t, "Contraindicated: High infection/inflammation (10, max 2)", misaligned.RejectionReasons[0])
	assert.Contains(t, misaligned.RejectionReasons[0], "10")

	assert.Equal(t, []string{acticoatID}, ids(res.Recommended))
}

func TestFilter_ExclusionBeatsInclusion(t *testing.T) {
	// Trigger and threshold both include ACTICOAT; an exclusion added on top must win.
	data := []byte(`{"products":[{"id":"p1","name":"Silver","rules":{
		"timers":{"I":["Infection"]},
		"resvech_min_infection":3,
		"resvech_max_total":20}}]}`)
	cat, err := Parse(data)
	require.NoError(t, err)

	params := models.WoundParameters{Size: 6, Depth: 3, Edges: 4, TissueType: 4, Exudate: 3, InfectionInflammation: 12}
	res := Filter(cat, axes(infected), 32, params)

	assert.Empty(t, res.Recommended)
	require.Len(t, res.Misaligned, 1)
	v := res.Misaligned[0]
	assert.Len(t, v.MatchedRules, 2)
	assert.Equal(t, []string{"Contraindicated: Severity score (32, max 20)"}, v.RejectionReasons)
}

func TestFilter_CleanBedRecommendsRegenerativeGel(t *testing.T) {
	params := models.WoundParameters{Size: 2, Edges: 1, TissueType: 1, InfectionInflammation: 1}

	res := Filter(Default(), axes(viable, controlled, balanced), 5, params)

	assert.Equal(t, []string{regranexID}, ids(res.Recommended))
	assert.Empty(t, res.Misaligned)
	assert.Equal(t, []string{`timers.T: "Viable" matches "Viable"`}, res.Recommended[0].MatchedRules)
}

func TestFilter_ReportsEveryExclusion(t *testing.T) {
	params := models.WoundParameters{TissueType: 3, InfectionInflammation: 5}

	res := Filter(Default(), axes(viable, infected), 8, params)

	v, ok := findView(res.Misaligned, regranexID)
	require.True(t, ok)
	assert.Equal(t, []string{
		"Contraindicated: High infection/inflammation (5, max 2)",
		"Contraindicated: Necrotic/slough load (3, max 2)",
	}, v.RejectionReasons)
}

func TestFilter_ResultListsAreDisjoint(t *testing.T) {
	cases := []struct {
		params models.WoundParameters
		axes   map[models.Axis]models.AxisAssessment
	}{
		{models.WoundParameters{}, axes(viable, controlled, balanced)},
		{models.WoundParameters{TissueType: 4, Exudate: 3}, axes(nonViable, controlled, macerated)},
		{models.WoundParameters{InfectionInflammation: 14}, axes(nonViable, infected, macerated)},
		{models.WoundParameters{TissueType: 2, InfectionInflammation: 2}, axes(viable, controlled)},
		{models.WoundParameters{TissueType: 6, Exudate: 5, InfectionInflammation: 3}, axes(nonViable, infected, balanced)},
	}

	for _, c := range cases {
		score := 0
		for _, comp := range models.ScoredComponents {
			score += c.params.Points(comp)
		}
		res := Filter(Default(), c.axes, score, c.params)

		seen := map[string]bool{}
		for _, id := range ids(res.Recommended) {
			seen[id] = true
		}
		for _, v := range res.Misaligned {
			assert.False(t, seen[v.ID], "product %s in both lists", v.ID)
			assert.NotEmpty(t, v.RejectionReasons)
		}
		for _, v := range res.Recommended {
			assert.Empty(t, v.RejectionReasons)
			assert.NotEmpty(t, v.MatchedRules)
		}
	}
}

func TestFilter_NonViableTissueRecommendsDebridement(t *testing.T) {
	params := models.WoundParameters{TissueType: 4, Exudate: 3}

	res := Filter(Default(), axes(nonViable, controlled, macerated), 7, params)

	assert.Equal(t, []string{versajetID, allevynID}, ids(res.Recommended))
	// "Non-viable tissue" contains "viable", so the regenerative gel matches and is then excluded on slough load.
	v, ok := findView(res.Misaligned, regranexID)
	require.True(t, ok)
	assert.Equal(t, []string{"Contraindicated: Necrotic/slough load (4, max 2)"}, v.RejectionReasons)
}

func TestFilter_NilCatalog(t *testing.T) {
	res := Filter(nil, nil, 0, models.WoundParameters{})
	assert.NotNil(t, res.Recommended)
	assert.NotNil(t, res.Misaligned)
	assert.Empty(t, res.Recommended)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		problem string
	}{
		{
			name:    "invalid json",
			data:    `{"products": [`,
			problem: "invalid JSON",
		},
		{
			name:    "products not an array",
			data:    `{"products": {}}`,
			problem: "products",
		},
		{
			name:    "missing name",
			data:    `{"products":[{"id":"a","rules":{}}]}`,
			problem: "name is required",
		},
		{
			name:    "unknown scale",
			data:    `{"products":[{"id":"a","name":"A","rules":{"braden_min_tissue":2}}]}`,
			problem: `unknown scale "braden"`,
		},
		{
			name:    "unknown bound",
			data:    `{"products":[{"id":"a","name":"A","rules":{"resvech_mid_tissue":2}}]}`,
			problem: "bound must be min or max",
		},
		{
			name:    "unknown component",
			data:    `{"products":[{"id":"a","name":"A","rules":{"resvech_min_colour":2}}]}`,
			problem: `unknown component "colour"`,
		},
		{
			name:    "malformed key",
			data:    `{"products":[{"id":"a","name":"A","rules":{"threshold":2}}]}`,
			problem: `unknown rule key "threshold"`,
		},
		{
			name:    "unknown axis",
			data:    `{"products":[{"id":"a","name":"A","rules":{"timers":{"X":["foo"]}}}]}`,
			problem: `unknown TIMERS axis "X"`,
		},
		{
			name:    "empty trigger list",
			data:    `{"products":[{"id":"a","name":"A","rules":{"timers":{"T":[]}}}]}`,
			problem: "empty trigger list",
		},
		{
			name:    "negative limit",
			data:    `{"products":[{"id":"a","name":"A","rules":{"resvech_max_infection":-1}}]}`,
			problem: "limit -1 is negative",
		},
		{
			name:    "fractional limit",
			data:    `{"products":[{"id":"a","name":"A","rules":{"resvech_max_infection":2.5}}]}`,
			problem: "is not an integer",
		},
		{
			name:    "non numeric limit",
			data:    `{"products":[{"id":"a","name":"A","rules":{"resvech_max_infection":"two"}}]}`,
			problem: "resvech_max_infection",
		},
		{
			name:    "duplicate id",
			data:    `{"products":[{"id":"a","name":"A"},{"id":"a","name":"B"}]}`,
			problem: "duplicate id",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cat, err := Parse([]byte(tt.data))
			require.Error(t, err)
			assert.Nil(t, cat)

			var loadErr *LoadError
			require.True(t, errors.As(err, &loadErr))
			assert.Contains(t, err.Error(), tt.problem)
		})
	}
}

func TestParse_CollectsEveryProblem(t *testing.T) {
	data := []byte(`{"products":[
		{"id":"a","name":"A","rules":{"resvech_min_colour":1,"resvech_max_infection":-2}},
		{"id":"a","name":"B","rules":{"timers":{"Q":["x"]}}}
	]}`)

	_, err := Parse(data)
	var loadErr *LoadError
	require.True(t, errors.As(err, &loadErr))
	assert.Len(t, loadErr.Problems, 4)
}

func TestParse_AcceptsAliasesAndLowercaseAxes(t *testing.T) {
	data := []byte(`{"version":"test","products":[{"id":"a","name":"A","rules":{
		"timers":{"e":["Stalled"]},
		"resvech_min_dimension":3,
		"resvech_max_score":30}}]}`)

	cat, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, "test", cat.Version())

	p, ok := cat.Product("a")
	require.True(t, ok)
	assert.Equal(t, []string{"Stalled"}, p.Rules.Triggers[models.AxisEdge])
	assert.Equal(t, models.ComponentSize, p.Rules.Min[0].Component)
	assert.Equal(t, models.ComponentTotal, p.Rules.Max[0].Component)
}

func TestCatalog_ProductsReturnsCopy(t *testing.T) {
	cat := Default()

	products := cat.Products()
	products[0].Name = "changed"
	products[0].Rules.Triggers[models.AxisTissue][0] = "changed"
	products[3].Rules.Max[0].Limit = 99

	fresh := cat.Products()
	assert.Equal(t, "VERSAJET Hydrosurgery System", fresh[0].Name)
	assert.Equal(t, "Non-viable", fresh[0].Rules.Triggers[models.AxisTissue][0])
	assert.Equal(t, 2, fresh[3].Rules.Max[0].Limit)
}

func TestCatalog_MarshalRoundTrip(t *testing.T) {
	data, err := json.Marshal(Default())
	require.NoError(t, err)

	again, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, Default().Products(), again.Products())
	assert.Equal(t, Default().Version(), again.Version())
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()

	yamlPath := filepath.Join(dir, "catalog.yaml")
	require.NoError(t, os.WriteFile(yamlPath, []byte(`
version: "local"
products:
  - id: foam-01
    name: Foam
    category: Exudate Management
    rules:
      timers:
        M: [Maceration]
      resvech_min_exudate: 3
`), 0o600))

	cat, err := LoadFile(yamlPath)
	require.NoError(t, err)
	assert.Equal(t, "local", cat.Version())
	p, ok := cat.Product("foam-01")
	require.True(t, ok)
	assert.Equal(t, []string{"Maceration"}, p.Rules.Triggers[models.AxisMoisture])

	jsonPath := filepath.Join(dir, "catalog.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(`{"products":[{"id":"x","name":"X","rules":{"resvech_min_bogus":1}}]}`), 0o600))
	_, err = LoadFile(jsonPath)
	var loadErr *LoadError
	require.True(t, errors.As(err, &loadErr))
	assert.Equal(t, jsonPath, loadErr.Source)

	_, err = LoadFile(filepath.Join(dir, "missing.json"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestLoadFile_ExampleCatalog(t *testing.T) {
	cat, err := LoadFile(filepath.Join("..", "..", "..", "configs", "catalog.example.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "2024.1-local", cat.Version())
	assert.Equal(t, 5, cat.Len())

	p, ok := cat.Product("compression-wrap-01")
	require.True(t, ok)
	require.Len(t, p.Rules.Max, 1)
	assert.Equal(t, models.ComponentInfection, p.Rules.Max[0].Component)
}
