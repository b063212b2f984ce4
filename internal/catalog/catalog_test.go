package catalog

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestEntryAccessors(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		wantID   string
		wantDate string
	}{
		{"both present", `{"identifier":"msdos_PacMan_1983","date":"1983-01-01T00:00:00Z"}`, "msdos_PacMan_1983", "1983-01-01T00:00:00Z"},
		{"date absent", `{"identifier":"msdos_PacMan_1983"}`, "msdos_PacMan_1983", ""},
		{"date null", `{"identifier":"x","date":null}`, "x", ""},
		{"date not a string", `{"identifier":"x","date":1983}`, "x", ""},
		{"identifier absent", `{"title":"Pac-Man"}`, "", ""},
		{"empty object", `{}`, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var entry Entry
			if err := json.Unmarshal([]byte(tt.raw), &entry); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if got := entry.Identifier(); got != tt.wantID {
				t.Errorf("Identifier() = %q, want %q", got, tt.wantID)
			}
			if got := entry.Date(); got != tt.wantDate {
				t.Errorf("Date() = %q, want %q", got, tt.wantDate)
			}
		})
	}
}

func TestUnknownFieldsPassThrough(t *testing.T) {
	raw := `{"identifier":"a_b_c","date":"1990","publisher":"Example Soft","tags":["arcade",{"deep":true}],"score":9.75}`
	var entry Entry
	if err := json.Unmarshal([]byte(raw), &entry); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	value, ok := entry.Field("tags")
	if !ok {
		t.Fatal("tags field lost")
	}
	if !bytes.Equal(value, []byte(`["arcade",{"deep":true}]`)) {
		t.Fatalf("tags bytes changed: %s", value)
	}

	encoded, err := json.Marshal(entry)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var back Entry
	if err := json.Unmarshal(encoded, &back); err != nil {
		t.Fatalf("round trip unmarshal: %v", err)
	}
	for _, field := range []string{"identifier", "date", "publisher", "tags", "score"} {
		orig, _ := entry.Field(field)
		got, ok := back.Field(field)
		if !ok || !bytes.Equal(orig, got) {
			t.Fatalf("field %q changed across round trip: %s vs %s", field, orig, got)
		}
	}
}

func TestAnnotate(t *testing.T) {
	var entry Entry
	if err := json.Unmarshal([]byte(`{"identifier":"x_y","extra":"kept"}`), &entry); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	annotated := entry.Annotate(Annotations{ThumbnailPath: "1983/x_y", PathWarning: "folder not yet moved"})
	if got := annotated.stringField(FieldThumbnailPath); got != "1983/x_y" {
		t.Errorf("thumbnailPath = %q, want 1983/x_y", got)
	}
	if got := annotated.stringField(FieldPathWarning); got != "folder not yet moved" {
		t.Errorf("pathWarning = %q", got)
	}
	if _, ok := entry.Field(FieldThumbnailPath); ok {
		t.Error("Annotate mutated the receiver")
	}

	// Re-annotating without a warning clears the stale one.
	cleared := annotated.Annotate(Annotations{ThumbnailPath: "1983/x_y"})
	if _, ok := cleared.Field(FieldPathWarning); ok {
		t.Error("stale pathWarning survived re-annotation")
	}
	if got := cleared.stringField(FieldThumbnailPath); got != "1983/x_y" {
		t.Errorf("thumbnailPath after clear = %q", got)
	}
	if value, _ := cleared.Field("extra"); !bytes.Equal(value, []byte(`"kept"`)) {
		t.Errorf("extra field = %s, want \"kept\"", value)
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()

	if _, err := Load(filepath.Join(dir, "absent.json")); err == nil {
		t.Fatal("missing file should be a fatal error")
	}

	bad := filepath.Join(dir, "object.json")
	if err := os.WriteFile(bad, []byte(`{"identifier":"x"}`), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(bad); err == nil {
		t.Fatal("non-array top level should be a fatal error")
	}

	scalar := filepath.Join(dir, "scalars.json")
	if err := os.WriteFile(scalar, []byte(`["just","strings"]`), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(scalar); err == nil {
		t.Fatal("array of non-objects should be a fatal error")
	}
}

func TestSaveAndLoadPreserveOrder(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "catalog.json")
	payload := `[{"identifier":"b_second","date":"1984"},{"identifier":"a_first","date":"1983"}]`
	if err := os.WriteFile(source, []byte(payload), 0o644); err != nil {
		t.Fatal(err)
	}

	entries, err := Load(source)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(entries))
	}
	if entries[0].Identifier() != "b_second" || entries[1].Identifier() != "a_first" {
		t.Fatal("input order not preserved")
	}

	out := filepath.Join(dir, "nested", "out.json")
	if err := Save(out, entries); err != nil {
		t.Fatalf("save: %v", err)
	}
	reloaded, err := Load(out)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if len(reloaded) != 2 || reloaded[0].Identifier() != "b_second" {
		t.Fatal("saved catalog lost order or entries")
	}
}

func TestSaveEmptyCatalogIsArray(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.json")
	if err := Save(path, nil); err != nil {
		t.Fatalf("save: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		t.Fatalf("empty catalog should still be a JSON array: %v", err)
	}
}
