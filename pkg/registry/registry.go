// pkg/registry/registry.go
package registry

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
)

func LoadRegistry(path string) (*ActivityRegistry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var reg ActivityRegistry
	if err := json.Unmarshal(data, &reg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := reg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &reg, nil
}

// Validate checks required fields and that task types are unique.
func (r *ActivityRegistry) Validate() error {
	if r.Version == "" {
		return fmt.Errorf("registry version is required")
	}
	seen := make(map[string]bool, len(r.Activities))
	for i, a := range r.Activities {
		if a.ID == "" || a.TaskType == "" {
			return fmt.Errorf("activities[%d]: id and taskType are required", i)
		}
		if seen[a.TaskType] {
			return fmt.Errorf("activities[%d]: duplicate taskType %q", i, a.TaskType)
		}
		seen[a.TaskType] = true
	}
	return nil
}

// Find returns the activity served under taskType.
func (r *ActivityRegistry) Find(taskType string) (Activity, bool) {
	for _, a := range r.Activities {
		if a.TaskType == taskType {
			return a, true
		}
	}
	return Activity{}, false
}

// Sort orders activities by task type.
func (r *ActivityRegistry) Sort() {
	sort.Slice(r.Activities, func(i, j int) bool {
		return r.Activities[i].TaskType < r.Activities[j].TaskType
	})
}

// Write encodes the registry as indented JSON.
func (r *ActivityRegistry) Write(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}
