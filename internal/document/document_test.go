package document

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestNew_SingleEmptyLine(t *testing.T) {
	d := New()
	if d.LineCount() != 1 {
		t.Fatalf("LineCount() = %d, want 1", d.LineCount())
	}
	if d.Line(0) != "" {
		t.Errorf("Line(0) = %q, want empty", d.Line(0))
	}
	if d.Modified() {
		t.Error("new document should not be modified")
	}
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    []string
	}{
		{"simple", "hello\nworld\n", []string{"hello", "world"}},
		{"no trailing newline", "hello\nworld", []string{"hello", "world"}},
		{"empty file", "", []string{""}},
		{"blank lines kept", "a\n\nb\n", []string{"a", "", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "f.txt")
			if err := os.WriteFile(path, []byte(tt.content), 0o644); err != nil {
				t.Fatal(err)
			}
			d, err := Load(path)
			if err != nil {
				t.Fatalf("Load() error: %v", err)
			}
			if d.LineCount() != len(tt.want) {
				t.Fatalf("LineCount() = %d, want %d", d.LineCount(), len(tt.want))
			}
			for i, want := range tt.want {
				if d.Line(i) != want {
					t.Errorf("Line(%d) = %q, want %q", i, d.Line(i), want)
				}
			}
		})
	}
}

func TestLoad_Missing(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("Load() of missing file should fail")
	}
}

func TestSave_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "f.txt")
	if err := os.WriteFile(path, []byte("one\ntwo"), 0o644); err != nil {
		t.Fatal(err)
	}

	d, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	d.InsertChar(0, 3, '!')
	if !d.Modified() {
		t.Error("document should be modified after edit")
	}
	if err := d.Save(); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	if d.Modified() {
		t.Error("Save() should clear the modified flag")
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "one!\ntwo" {
		t.Errorf("saved content = %q, want %q", got, "one!\ntwo")
	}
}

func TestSave_NoFilename(t *testing.T) {
	d := New()
	if err := d.Save(); !errors.Is(err, ErrNoFilename) {
		t.Errorf("Save() error = %v, want ErrNoFilename", err)
	}
}

func TestInsertChar(t *testing.T) {
	d := New()
	d.InsertChar(0, 0, 'b')
	d.InsertChar(0, 0, 'a')
	d.InsertChar(0, 99, 'c') // past end appends
	if d.Line(0) != "abc" {
		t.Errorf("Line(0) = %q, want %q", d.Line(0), "abc")
	}

	d.InsertChar(5, 0, 'x') // out-of-range row is a no-op
	if d.LineCount() != 1 {
		t.Errorf("LineCount() = %d, want 1", d.LineCount())
	}
}

func TestDeleteChar(t *testing.T) {
	d := New()
	for _, c := range "abc" {
		d.InsertChar(0, d.LineLen(0), c)
	}

	if !d.DeleteChar(0, 1) {
		t.Error("DeleteChar(0, 1) should report a deletion")
	}
	if d.Line(0) != "ac" {
		t.Errorf("Line(0) = %q, want %q", d.Line(0), "ac")
	}
	if d.DeleteChar(0, 99) {
		t.Error("DeleteChar past end should be a no-op")
	}
	if d.DeleteChar(5, 0) {
		t.Error("DeleteChar on missing row should be a no-op")
	}
}

func TestDeleteLine_NeverEmpty(t *testing.T) {
	d := New()
	d.InsertLine(1, "second")

	if !d.DeleteLine(0) {
		t.Error("DeleteLine(0) should report a deletion")
	}
	if d.Line(0) != "second" {
		t.Errorf("Line(0) = %q, want %q", d.Line(0), "second")
	}

	// Deleting the only line leaves one empty line.
	if !d.DeleteLine(0) {
		t.Error("DeleteLine(0) should report a deletion")
	}
	if d.LineCount() != 1 || d.Line(0) != "" {
		t.Errorf("document = %v, want single empty line", d.Lines())
	}
}

func TestUndo(t *testing.T) {
	d := New()
	d.InsertChar(0, 0, 'a')
	d.InsertChar(0, 1, 'b')

	x, y, ok := d.Undo()
	if !ok {
		t.Fatal("Undo() should succeed")
	}
	if x != 1 || y != 0 {
		t.Errorf("Undo() cursor = (%d, %d), want (1, 0)", x, y)
	}
	if d.Line(0) != "a" {
		t.Errorf("Line(0) = %q, want %q", d.Line(0), "a")
	}

	if _, _, ok := d.Undo(); !ok {
		t.Fatal("second Undo() should succeed")
	}
	if d.Line(0) != "" {
		t.Errorf("Line(0) = %q, want empty", d.Line(0))
	}

	if _, _, ok := d.Undo(); ok {
		t.Error("Undo() on empty log should report ok=false")
	}
}
