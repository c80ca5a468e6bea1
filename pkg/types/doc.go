// Package types defines the domain entities (Task, Subtask, Plan,
// HistoryEvent), the flat Document representation used for persistence,
// the RecordStore interface implemented by every backing tier, and the
// standard errors shared across the organza storage layer.
package types
