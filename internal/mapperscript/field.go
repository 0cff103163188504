package mapperscript

import "strings"

// Fields is the fixed set of playlist attributes a script may read or
// write via "@name" syntax. Names are canonicalized to lower case on
// storage; matching against this set is case-insensitive.
var Fields = []string{
	"name", "title", "caption", "group", "id", "chno", "logo",
	"logo_small", "parent_code", "audio_track", "time_shift",
	"rec", "url", "epg_channel_id", "epg_id",
}

var fieldSet = func() map[string]struct{} {
	m := make(map[string]struct{}, len(Fields))
	for _, f := range Fields {
		m[f] = struct{}{}
	}
	return m
}()

// CanonicalField lower-cases a field name and reports whether it belongs
// to the recognized set.
func CanonicalField(name string) (string, bool) {
	lower := strings.ToLower(name)
	_, ok := fieldSet[lower]
	return lower, ok
}

// FieldAccessor is the single collaborator the evaluator mutates. It is
// externally owned: the evaluator never constructs one, only borrows it
// mutably for the duration of one Eval call.
type FieldAccessor interface {
	// Get returns the current value of field and whether it is set.
	Get(field string) (string, bool)
	// Set stores value under field.
	Set(field string, value string)
}

// RecordAccessor is a FieldAccessor backed by a plain map, used by the CLI
// and by tests in place of a real playlist item.
type RecordAccessor struct {
	Fields map[string]string
}

// NewRecordAccessor builds a RecordAccessor from an initial field set. The
// supplied map is copied so callers may keep mutating their own copy.
func NewRecordAccessor(fields map[string]string) *RecordAccessor {
	copied := make(map[string]string, len(fields))
	for k, v := range fields {
		canon, ok := CanonicalField(k)
		if !ok {
			canon = strings.ToLower(k)
		}
		copied[canon] = v
	}
	return &RecordAccessor{Fields: copied}
}

func (r *RecordAccessor) Get(field string) (string, bool) {
	v, ok := r.Fields[strings.ToLower(field)]
	return v, ok
}

func (r *RecordAccessor) Set(field string, value string) {
	r.Fields[strings.ToLower(field)] = value
}
