// pkg/registry/schema.go
package registry

// ActivityRegistry describes the service tasks a worker process can serve,
// for process modelers and for the /activities endpoint.
type ActivityRegistry struct {
	Version    string     `json:"version"`
	Activities []Activity `json:"activities"`
}

type Activity struct {
	ID          string      `json:"id"`
	DisplayName string      `json:"displayName"`
	Description string      `json:"description"`
	Category    string      `json:"category"`
	TaskType    string      `json:"taskType"`
	InputSchema interface{} `json:"inputSchema,omitempty"`
	Outputs     []string    `json:"outputs"`
	// ErrorCodes are the BPMN error codes the task may throw.
	ErrorCodes []string `json:"errorCodes"`
	Timeout    string   `json:"timeout"`
	Retries    int      `json:"retries"`
	Enabled    bool     `json:"enabled"`
	Tags       []string `json:"tags,omitempty"`
}
