package model

// RawRow is one decoded feed row as stored before normalisation.
type RawRow struct {
	ID         string
	AgentRef   string
	Source     string // file path or URL the row came from
	Attributes map[string]string
}
