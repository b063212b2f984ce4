// Package catalog reads and writes the JSON metadata catalog.
//
// A catalog is a single JSON array of entry objects. Only two fields carry
// meaning here: "identifier" and "date". Every other field is opaque and
// must survive a load/save round trip byte for byte, so entries keep their
// fields as raw JSON instead of decoding into a fixed struct.
package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Field names with defined semantics. All other entry fields pass through
// untouched.
const (
	FieldIdentifier    = "identifier"
	FieldDate          = "date"
	FieldThumbnailPath = "thumbnailPath"
	FieldPathWarning   = "pathWarning"
)

// Entry is one catalog record. The zero value is an empty entry.
type Entry struct {
	fields map[string]json.RawMessage
}

// NewEntry builds an entry from pre-encoded fields. The map is copied.
func NewEntry(fields map[string]json.RawMessage) Entry {
	e := Entry{fields: make(map[string]json.RawMessage, len(fields))}
	for name, value := range fields {
		e.fields[name] = value
	}
	return e
}

// Identifier returns the entry's identifier, or "" when the field is
// absent, null, or not a string.
func (e Entry) Identifier() string {
	return e.stringField(FieldIdentifier)
}

// Date returns the entry's raw date value, or "" when the field is absent,
// null, or not a string.
func (e Entry) Date() string {
	return e.stringField(FieldDate)
}

// ThumbnailPath returns the entry's thumbnail path annotation, or "" when
// none has been written.
func (e Entry) ThumbnailPath() string {
	return e.stringField(FieldThumbnailPath)
}

// PathWarning returns the entry's path warning annotation, or "" when none
// has been written.
func (e Entry) PathWarning() string {
	return e.stringField(FieldPathWarning)
}

// Field returns the raw JSON value of a field.
func (e Entry) Field(name string) (json.RawMessage, bool) {
	value, ok := e.fields[name]
	return value, ok
}

// Len returns the number of fields.
func (e Entry) Len() int {
	return len(e.fields)
}

// Clone returns an independent copy of the entry.
func (e Entry) Clone() Entry {
	clone := Entry{fields: make(map[string]json.RawMessage, len(e.fields))}
	for name, value := range e.fields {
		copied := make(json.RawMessage, len(value))
		copy(copied, value)
		clone.fields[name] = copied
	}
	return clone
}

func (e Entry) stringField(name string) string {
	raw, ok := e.fields[name]
	if !ok {
		return ""
	}
	var value string
	if err := json.Unmarshal(raw, &value); err != nil {
		return ""
	}
	return value
}

// Annotations is the fixed set of fields the thumbnail path planner may
// write into an entry.
type Annotations struct {
	ThumbnailPath string
	PathWarning   string
}

// Annotate returns a copy of the entry with the annotation fields applied.
// An empty annotation value removes the corresponding field, so stale
// warnings from earlier runs do not linger once the condition clears.
func (e Entry) Annotate(a Annotations) Entry {
	out := e.Clone()
	if out.fields == nil {
		out.fields = make(map[string]json.RawMessage, 2)
	}
	out.setOrClear(FieldThumbnailPath, a.ThumbnailPath)
	out.setOrClear(FieldPathWarning, a.PathWarning)
	return out
}

func (e *Entry) setOrClear(name, value string) {
	if value == "" {
		delete(e.fields, name)
		return
	}
	encoded, err := json.Marshal(value)
	if err != nil {
		return
	}
	e.fields[name] = encoded
}

// MarshalJSON encodes the entry as a JSON object. Keys are emitted in
// sorted order; field order inside an object carries no meaning in the
// catalog contract.
func (e Entry) MarshalJSON() ([]byte, error) {
	if e.fields == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(e.fields)
}

// UnmarshalJSON decodes a catalog object, keeping every field raw.
func (e *Entry) UnmarshalJSON(data []byte) error {
	fields := make(map[string]json.RawMessage)
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	e.fields = fields
	return nil
}

// Load reads a catalog file. A missing file or a top level that is not an
// array of objects is a fatal error; entry order is preserved.
func Load(path string) ([]Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %q: %w", path, err)
	}
	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parse catalog %q: %w", path, err)
	}
	return entries, nil
}

// Save writes entries as an indented JSON array. The parent directory is
// created if needed. Callers pass a derived output path; sources are never
// rewritten in place.
func Save(path string, entries []Entry) error {
	if entries == nil {
		entries = []Entry{}
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("encode catalog: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create catalog directory: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write catalog %q: %w", path, err)
	}
	return nil
}
