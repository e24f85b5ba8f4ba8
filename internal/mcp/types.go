package mcp

// ToggleScratchpadInput is the input for the toggle_scratchpad tool.
type ToggleScratchpadInput struct {
	Name string `json:"name" jsonschema:"required,Name of the configured scratchpad to toggle"`
}

// ToggleScratchpadOutput is the output for the toggle_scratchpad tool.
type ToggleScratchpadOutput struct {
	Name  string `json:"name"`
	State string `json:"state"` // state after the toggle was processed
}

// ListScratchpadsInput is the input for the list_scratchpads tool.
type ListScratchpadsInput struct{}

// ScratchpadSummary describes one configured scratchpad.
type ScratchpadSummary struct {
	Name     string `json:"name"`
	Command  string `json:"command"`
	Hotkey   string `json:"hotkey,omitempty"`
	State    string `json:"state"` // empty, pending, hidden, visible
	WindowID uint32 `json:"window_id,omitempty"`
}

// ListScratchpadsOutput is the output for the list_scratchpads tool.
type ListScratchpadsOutput struct {
	Scratchpads []ScratchpadSummary `json:"scratchpads"`
}

// GetStatusInput is the input for the get_status tool.
type GetStatusInput struct{}

// GetStatusOutput is the output for the get_status tool.
type GetStatusOutput struct {
	DaemonRunning bool   `json:"daemon_running"`
	UptimeSeconds int64  `json:"uptime_seconds"`
	Scratchpads   int    `json:"scratchpads"`
	Visible       int    `json:"visible"`
	Message       string `json:"message,omitempty"`
}
