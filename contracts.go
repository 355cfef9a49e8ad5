// Package apigwv2 defines the machine-readable output of the apigwv2 CLI.
//
// The CLI exposes Amazon API Gateway V2 operations as subcommands:
//
//	apigwv2 get-api-mapping example.com --ApiMappingId abc
//	apigwv2 update-vpc-link vpc-123 --Name edge --force
//
// Successful calls write the selected output to stdout. The types in this
// package describe everything else the CLI emits as JSON or YAML: operation
// listings, per-item failures and run summaries.
package apigwv2

// OperationList is the JSON output from `apigwv2 operations`.
type OperationList struct {
	Operations []OperationInfo `json:"operations" yaml:"operations"`
}

// OperationInfo describes one registered operation.
type OperationInfo struct {
	Name          string          `json:"name" yaml:"name"`
	Command       string          `json:"command" yaml:"command"`
	Synopsis      string          `json:"synopsis,omitempty" yaml:"synopsis,omitempty"`
	Mutating      bool            `json:"mutating" yaml:"mutating"`
	DefaultSelect string          `json:"defaultSelect" yaml:"defaultSelect"`
	PassThrough   string          `json:"passThrough,omitempty" yaml:"passThrough,omitempty"`
	Parameters    []ParameterInfo `json:"parameters" yaml:"parameters"`
	Fields        []string        `json:"fields,omitempty" yaml:"fields,omitempty"`
}

// ParameterInfo describes one operation parameter.
type ParameterInfo struct {
	Name     string `json:"name" yaml:"name"`
	Required bool   `json:"required" yaml:"required"`
	// Position is nil for parameters that can only be given by name.
	Position      *int   `json:"position,omitempty" yaml:"position,omitempty"`
	Pipeline      bool   `json:"pipeline" yaml:"pipeline"`
	PipelineValue bool   `json:"pipelineValue,omitempty" yaml:"pipelineValue,omitempty"`
	Description   string `json:"description,omitempty" yaml:"description,omitempty"`
}

// Failure kinds.
const (
	KindValidation = "validation"
	KindTransport  = "transport"
	KindService    = "service"
	KindInput      = "input"
	KindError      = "error"
)

// Failure is written to stderr for each failed item when the output format
// is json or yaml.
type Failure struct {
	Index     int      `json:"index" yaml:"index"`
	Operation string   `json:"operation" yaml:"operation"`
	Kind      string   `json:"kind" yaml:"kind"` // "validation", "transport", "service", "input", "error"
	Message   string   `json:"message" yaml:"message"`
	Code      string   `json:"code,omitempty" yaml:"code,omitempty"`
	RequestID string   `json:"requestId,omitempty" yaml:"requestId,omitempty"`
	Warnings  []string `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// RunSummary counts the outcomes of one batch, as reported by `apigwv2 watch`.
type RunSummary struct {
	Total     int `json:"total" yaml:"total"`
	Succeeded int `json:"succeeded" yaml:"succeeded"`
	Failed    int `json:"failed" yaml:"failed"`
	Declined  int `json:"declined" yaml:"declined"`
	Invalid   int `json:"invalid" yaml:"invalid"`
}

// OK reports whether the batch had no failures.
func (s RunSummary) OK() bool {
	return s.Failed == 0
}
