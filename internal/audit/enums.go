package audit

import "strings"

// Type selects the field rules and the scoring table for a row.
type Type string

const (
	TypeStore Type = "store"
	TypeILMS  Type = "ilms"
	TypeXFE   Type = "xfe"

	// TypeUnknown is only produced by header detection.
	TypeUnknown Type = "unknown"
)

// Types lists the real audit types in detection priority order.
var Types = []Type{TypeStore, TypeILMS, TypeXFE}

func (t Type) Valid() bool {
	switch t {
	case TypeStore, TypeILMS, TypeXFE:
		return true
	}
	return false
}

// ParseType maps user input such as "XFE" or " store " to a Type.
// Anything else yields TypeUnknown.
func ParseType(s string) Type {
	t := Type(strings.ToLower(strings.TrimSpace(s)))
	if t.Valid() {
		return t
	}
	return TypeUnknown
}

// Status is the lifecycle state of an audit.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// ScoreSource records where a record's score came from.
type ScoreSource string

const (
	ScoreExplicit   ScoreSource = "explicit"
	ScoreCalculated ScoreSource = "calculated"
)

func (s ScoreSource) Valid() bool {
	return s == ScoreExplicit || s == ScoreCalculated
}
