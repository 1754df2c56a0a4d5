package types

// Category represents capability categories
type Category string

const (
	CategoryPlot     Category = "plot"
	CategoryAnalysis Category = "analysis"
	CategoryCorpus   Category = "corpus"
	CategorySystem   Category = "system"
)

// Capability represents a capability definition
type Capability struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Category    Category `json:"category"`
	Operations  []string `json:"operations"`
	Tools       []Tool   `json:"tools"`
}

// Tool represents a capability tool
type Tool struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Parameters  []Parameter `json:"parameters"`
	Returns     string      `json:"returns"`
}

// Parameter represents a tool parameter
type Parameter struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Description string `json:"description"`
	Required    bool   `json:"required"`
}

// Context provides execution context for capability tools
type Context struct {
	SessionID *string `json:"session_id,omitempty"`
	UserID    *string `json:"user_id,omitempty"`
}

// Result represents a tool execution result
type Result struct {
	Success bool                   `json:"success"`
	Data    map[string]interface{} `json:"data,omitempty"`
	Error   *string                `json:"error,omitempty"`
}
