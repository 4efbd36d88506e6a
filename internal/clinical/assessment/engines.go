package assessment

import (
	"fmt"
	"sort"

	"woundcare-workers/internal/clinical/catalog"
	"woundcare-workers/internal/clinical/resvech"
)

// Engines holds one engine per built-in rule table, all sharing one catalog.
type Engines struct {
	defaultVersion string
	byVersion      map[string]*Engine
}

// NewEngines builds an engine for every built-in rule table. defaultVersion
// must be one of them; "" selects resvech.DefaultVersion.
func NewEngines(defaultVersion string, cat *catalog.Catalog, opts ...Option) (*Engines, error) {
	if defaultVersion == "" {
		defaultVersion = resvech.DefaultVersion
	}
	set := &Engines{defaultVersion: defaultVersion, byVersion: make(map[string]*Engine)}
	for _, table := range resvech.Tables() {
		e, err := New(table, cat, opts...)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", table.Version, err)
		}
		set.byVersion[table.Version] = e
	}
	if _, ok := set.byVersion[defaultVersion]; !ok {
		return nil, fmt.Errorf("unknown default rule table %q (available: %v)", defaultVersion, set.Versions())
	}
	return set, nil
}

// Get returns the engine for version, or the default engine for "".
func (s *Engines) Get(version string) (*Engine, bool) {
	if version == "" {
		version = s.defaultVersion
	}
	e, ok := s.byVersion[version]
	return e, ok
}

func (s *Engines) Default() *Engine {
	return s.byVersion[s.defaultVersion]
}

func (s *Engines) Versions() []string {
	versions := make([]string, 0, len(s.byVersion))
	for v := range s.byVersion {
		versions = append(versions, v)
	}
	sort.Strings(versions)
	return versions
}
