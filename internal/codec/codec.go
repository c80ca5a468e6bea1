// Package codec converts between domain entities and the flat Document
// representation shared by every backing tier. Encoding is total over
// valid entities; decoding fails with types.ErrMalformedRecord when a
// required field is missing or of the wrong shape, and ignores unknown
// extra fields so documents written by newer versions decode safely.
//
// Timestamps are persisted as RFC 3339 strings in UTC; decoded times are
// therefore always UTC. Subtasks and plan tasks are encoded as ordered
// sequences, never sets, to preserve user-authored order.
package codec

import (
	"fmt"
	"time"

	"github.com/viniciusgf/organza/pkg/types"
)

// Document field names at the persistence boundary.
const (
	fieldID           = "id"
	fieldTitle        = "title"
	fieldDescription  = "description"
	fieldPriority     = "priority"
	fieldCompleted    = "completed"
	fieldCreatedAt    = "created_at"
	fieldSubtasks     = "subtasks"
	fieldTasks        = "tasks"
	fieldSource       = "source"
	fieldSubjectID    = "subject_id"
	fieldSubjectTitle = "subject_title"
	fieldEventType    = "event_type"
	fieldDetails      = "details"
	fieldTimestamp    = "timestamp"
)

// EncodeTask converts a Task into its document representation.
func EncodeTask(t types.Task) types.Document {
	subtasks := make([]any, 0, len(t.Subtasks))
	for _, s := range t.Subtasks {
		subtasks = append(subtasks, types.Document{
			fieldID:          s.ID,
			fieldTitle:       s.Title,
			fieldDescription: s.Description,
			fieldCompleted:   s.Completed,
		})
	}
	return types.Document{
		fieldID:          t.ID,
		fieldTitle:       t.Title,
		fieldDescription: t.Description,
		fieldPriority:    t.Priority,
		fieldCompleted:   t.Completed,
		fieldCreatedAt:   encodeTime(t.CreatedAt),
		fieldSubtasks:    subtasks,
	}
}

// DecodeTask converts a document back into a Task.
// Returns types.ErrMalformedRecord (wrapped) on missing or ill-shaped
// required fields. Unknown extra fields are ignored.
func DecodeTask(doc types.Document) (types.Task, error) {
	var t types.Task
	var err error

	if t.ID, err = stringField(doc, fieldID); err != nil {
		return types.Task{}, err
	}
	if t.Title, err = stringField(doc, fieldTitle); err != nil {
		return types.Task{}, err
	}
	t.Description = optionalString(doc, fieldDescription)
	if t.Priority, err = stringField(doc, fieldPriority); err != nil {
		return types.Task{}, err
	}
	if !types.ValidPriority(t.Priority) {
		return types.Task{}, malformed("%s: unknown priority %q", fieldPriority, t.Priority)
	}
	if t.Completed, err = boolField(doc, fieldCompleted); err != nil {
		return types.Task{}, err
	}
	if t.CreatedAt, err = timeField(doc, fieldCreatedAt); err != nil {
		return types.Task{}, err
	}
	if t.Subtasks, err = decodeSubtasks(doc); err != nil {
		return types.Task{}, err
	}
	return t, nil
}

// EncodePlan converts a Plan into its document representation. Task
// snapshots are embedded as nested task documents, in order.
func EncodePlan(p types.Plan) types.Document {
	tasks := make([]any, 0, len(p.Tasks))
	for _, t := range p.Tasks {
		tasks = append(tasks, EncodeTask(t))
	}
	return types.Document{
		fieldID:        p.ID,
		fieldTitle:     p.Title,
		fieldTasks:     tasks,
		fieldCreatedAt: encodeTime(p.CreatedAt),
		fieldSource:    p.Source,
	}
}

// DecodePlan converts a document back into a Plan.
func DecodePlan(doc types.Document) (types.Plan, error) {
	var p types.Plan
	var err error

	if p.ID, err = stringField(doc, fieldID); err != nil {
		return types.Plan{}, err
	}
	if p.Title, err = stringField(doc, fieldTitle); err != nil {
		return types.Plan{}, err
	}
	if p.Source, err = stringField(doc, fieldSource); err != nil {
		return types.Plan{}, err
	}
	if !types.ValidSource(p.Source) {
		return types.Plan{}, malformed("%s: unknown source %q", fieldSource, p.Source)
	}
	if p.CreatedAt, err = timeField(doc, fieldCreatedAt); err != nil {
		return types.Plan{}, err
	}

	raw, ok := doc[fieldTasks]
	if !ok || raw == nil {
		return p, nil
	}
	seq, ok := raw.([]any)
	if !ok {
		return types.Plan{}, malformed("%s: not a sequence", fieldTasks)
	}
	// An empty sequence decodes to a nil slice so that a Plan with no
	// task snapshots survives an encode/decode cycle unchanged.
	for i, el := range seq {
		sub, ok := el.(map[string]any)
		if !ok {
			return types.Plan{}, malformed("%s[%d]: not a document", fieldTasks, i)
		}
		t, err := DecodeTask(sub)
		if err != nil {
			return types.Plan{}, err
		}
		p.Tasks = append(p.Tasks, t)
	}
	return p, nil
}

// EncodeEvent converts a HistoryEvent into its document representation.
func EncodeEvent(e types.HistoryEvent) types.Document {
	return types.Document{
		fieldID:           e.ID,
		fieldSubjectID:    e.SubjectID,
		fieldSubjectTitle: e.SubjectTitle,
		fieldEventType:    e.EventType,
		fieldDetails:      e.Details,
		fieldTimestamp:    encodeTime(e.Timestamp),
	}
}

// DecodeEvent converts a document back into a HistoryEvent.
func DecodeEvent(doc types.Document) (types.HistoryEvent, error) {
	var e types.HistoryEvent
	var err error

	if e.ID, err = stringField(doc, fieldID); err != nil {
		return types.HistoryEvent{}, err
	}
	if e.SubjectID, err = stringField(doc, fieldSubjectID); err != nil {
		return types.HistoryEvent{}, err
	}
	e.SubjectTitle = optionalString(doc, fieldSubjectTitle)
	if e.EventType, err = stringField(doc, fieldEventType); err != nil {
		return types.HistoryEvent{}, err
	}
	if !types.ValidEventType(e.EventType) {
		return types.HistoryEvent{}, malformed("%s: unknown event type %q", fieldEventType, e.EventType)
	}
	e.Details = optionalString(doc, fieldDetails)
	if e.Timestamp, err = timeField(doc, fieldTimestamp); err != nil {
		return types.HistoryEvent{}, err
	}
	return e, nil
}

func decodeSubtasks(doc types.Document) ([]types.Subtask, error) {
	raw, ok := doc[fieldSubtasks]
	if !ok || raw == nil {
		return nil, nil
	}
	seq, ok := raw.([]any)
	if !ok {
		return nil, malformed("%s: not a sequence", fieldSubtasks)
	}
	// Nil for an empty sequence: a Task without subtasks must decode
	// back to the entity it was encoded from.
	var subtasks []types.Subtask
	for i, el := range seq {
		sub, ok := el.(map[string]any)
		if !ok {
			return nil, malformed("%s[%d]: not a document", fieldSubtasks, i)
		}
		var s types.Subtask
		var err error
		if s.ID, err = stringField(sub, fieldID); err != nil {
			return nil, err
		}
		if s.Title, err = stringField(sub, fieldTitle); err != nil {
			return nil, err
		}
		s.Description = optionalString(sub, fieldDescription)
		if s.Completed, err = boolField(sub, fieldCompleted); err != nil {
			return nil, err
		}
		subtasks = append(subtasks, s)
	}
	return subtasks, nil
}

func encodeTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func stringField(doc types.Document, key string) (string, error) {
	raw, ok := doc[key]
	if !ok {
		return "", malformed("%s: missing", key)
	}
	s, ok := raw.(string)
	if !ok {
		return "", malformed("%s: not a string", key)
	}
	return s, nil
}

// optionalString returns the field value when present and a string,
// and "" otherwise. Optional fields decode safely when absent.
func optionalString(doc types.Document, key string) string {
	s, _ := doc[key].(string)
	return s
}

func boolField(doc types.Document, key string) (bool, error) {
	raw, ok := doc[key]
	if !ok {
		return false, malformed("%s: missing", key)
	}
	b, ok := raw.(bool)
	if !ok {
		return false, malformed("%s: not a bool", key)
	}
	return b, nil
}

func timeField(doc types.Document, key string) (time.Time, error) {
	s, err := stringField(doc, key)
	if err != nil {
		return time.Time{}, err
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, malformed("%s: unparsable timestamp %q", key, s)
	}
	return t, nil
}

func malformed(format string, args ...any) error {
	return fmt.Errorf("%w: %s", types.ErrMalformedRecord, fmt.Sprintf(format, args...))
}
