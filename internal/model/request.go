package model

import (
	"time"
)

// Request log type tags
const (
	// LogTypeDirect marks requests issued by resource commands
	LogTypeDirect = "D"
	// LogTypeRaw marks requests issued through the raw request command
	LogTypeRaw = "R"
)

// ReqLog represents one line of the request log
type ReqLog struct {
	Date     int64  `json:"date"` // epoch milliseconds
	Method   string `json:"method"`
	Response int    `json:"response"`
	Type     string `json:"type"`
	Domain   string `json:"domain"`
	Path     string `json:"path"`
	Ref      string `json:"ref,omitempty"`
}

// Time returns the log date as a time value
func (l ReqLog) Time() time.Time {
	return time.UnixMilli(l.Date)
}

// FlagOptions are the per-command options derived from CLI flags
type FlagOptions struct {
	WriteFile    string `json:"write_file"`
	ResponseType string `json:"response_type"` // json, yaml or text
	Prompt       bool   `json:"prompt"`
	Silent       bool   `json:"silent"`
	DebugMode    bool   `json:"debug_mode"`
}

// View is the result of comparing two renderings of a resource
type View struct {
	Output       string `json:"output"`
	Additions    int    `json:"additions"`
	Subtractions int    `json:"subtractions"`
	TotalChanges int    `json:"total_changes"`
}

// ErrorLog represents a fatal error report saved for later inspection
type ErrorLog struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Kind      string    `json:"kind"`
	Lines     []string  `json:"lines"`
	Command   string    `json:"command"`
}
