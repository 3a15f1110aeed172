package todo

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func TestLoadAndSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "todos.json")
	f := NewFile(path)

	original := []Todo{
		{ID: "a", Task: "Housework", Status: StatusPending},
		{ID: "b", Task: "Groceries", Status: StatusCompleted},
		{ID: "c", Task: "Taxes", Status: StatusInProgress},
	}

	if err := f.Save(original); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := f.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(loaded) != len(original) {
		t.Fatalf("count: got %d, want %d", len(loaded), len(original))
	}
	for i := range original {
		if loaded[i] != original[i] {
			t.Errorf("[%d]: got %+v, want %+v", i, loaded[i], original[i])
		}
	}
}

func TestSaveEmptyRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "todos.json")
	f := NewFile(path)

	if err := f.Save(nil); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "[]\n" {
		t.Errorf("empty file contents: got %q, want %q", data, "[]\n")
	}

	loaded, err := f.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded == nil || len(loaded) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", loaded)
	}
}

func TestLoadMissingFile(t *testing.T) {
	f := NewFile(filepath.Join(t.TempDir(), "missing.json"))
	todos, err := f.Load()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if todos == nil || len(todos) != 0 {
		t.Errorf("expected empty list, got %#v", todos)
	}
}

func TestLoadReadError(t *testing.T) {
	// A directory cannot be read as a file.
	f := NewFile(t.TempDir())
	_, err := f.Load()
	if err == nil {
		t.Fatal("expected error reading a directory")
	}
	if errors.Is(err, ErrCorrupt) {
		t.Errorf("read error should not be reported as corrupt: %v", err)
	}
	if !strings.Contains(err.Error(), "read todo file") {
		t.Errorf("unexpected message: %v", err)
	}
}

func TestLoadMalformed(t *testing.T) {
	tests := []struct {
		name     string
		contents string
		wantPath string
	}{
		{"empty file", "", ""},
		{"not json", "hello", ""},
		{"object instead of array", `{"id":"a"}`, ""},
		{"null", "null", ""},
		{"trailing data", `[] []`, ""},
		{"missing status", `[{"id":"a","task":"t"}]`, "[0]"},
		{"bad status", `[{"id":"a","task":"t","status":"Done"}]`, "[0].status"},
		{"empty task", `[{"id":"a","task":"","status":"Pending"}]`, "[0].task"},
		{"numeric id", `[{"id":1,"task":"t","status":"Pending"}]`, "[0].id"},
		{"duplicate id", `[{"id":"a","task":"t","status":"Pending"},{"id":"a","task":"u","status":"Pending"}]`, "[1].id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "todos.json")
			if err := os.WriteFile(path, []byte(tt.contents), 0644); err != nil {
				t.Fatal(err)
			}

			_, err := NewFile(path).Load()
			if !errors.Is(err, ErrCorrupt) {
				t.Fatalf("expected ErrCorrupt, got %v", err)
			}
			var de *DecodeError
			if !errors.As(err, &de) {
				t.Fatalf("expected *DecodeError, got %T", err)
			}
			if len(de.Problems) == 0 {
				t.Fatal("expected at least one problem")
			}
			if tt.wantPath != "" {
				found := false
				for _, p := range de.Problems {
					if p.Path == tt.wantPath {
						found = true
					}
				}
				if !found {
					t.Errorf("no problem at %q: %v", tt.wantPath, err)
				}
			}
		})
	}
}

func TestLoadIgnoresUnknownFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "todos.json")
	contents := `[{"id":"a","task":"t","status":"Pending","note":"extra"}]`
	if err := os.WriteFile(path, []byte(contents), 0644); err != nil {
		t.Fatal(err)
	}
	todos, err := NewFile(path).Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(todos) != 1 || todos[0].ID != "a" {
		t.Errorf("unexpected todos: %+v", todos)
	}
}

func TestFileOutputFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "todos.json")
	f := NewFile(path)
	if err := f.Save([]Todo{{ID: "a", Task: "t", Status: StatusInProgress}}); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	want := "[\n  {\n    \"id\": \"a\",\n    \"task\": \"t\",\n    \"status\": \"InProgress\"\n  }\n]\n"
	if string(data) != want {
		t.Errorf("file contents:\ngot  %q\nwant %q", data, want)
	}
}

func TestSaveReplacesWholeFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "todos.json")
	f := NewFile(path)

	if err := f.Save([]Todo{
		{ID: "a", Task: "one", Status: StatusPending},
		{ID: "b", Task: "two", Status: StatusPending},
	}); err != nil {
		t.Fatal(err)
	}
	if err := f.Save([]Todo{{ID: "b", Task: "two", Status: StatusPending}}); err != nil {
		t.Fatal(err)
	}

	loaded, err := f.Load()
	if err != nil {
		t.Fatal(err)
	}
	if len(loaded) != 1 || loaded[0].ID != "b" {
		t.Errorf("expected only record b, got %+v", loaded)
	}

	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Errorf("temporary files left behind: %v", names)
	}
}

func TestSaveThroughSymlink(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need extra privileges on windows")
	}
	dir := t.TempDir()
	target := filepath.Join(dir, "real.json")
	link := filepath.Join(dir, "todos.json")
	if err := os.WriteFile(target, []byte("[]\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.Symlink(target, link); err != nil {
		t.Fatal(err)
	}

	f := NewFile(link)
	if err := f.Save([]Todo{{ID: "a", Task: "Linked", Status: StatusPending}}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	info, err := os.Lstat(link)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode()&os.ModeSymlink == 0 {
		t.Errorf("save replaced the symlink with a %v", info.Mode())
	}
	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "Linked") {
		t.Errorf("link target not updated: %s", data)
	}
}

func TestSaveKeepsFileMode(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("unix permissions")
	}
	dir := t.TempDir()
	path := filepath.Join(dir, "todos.json")
	if err := os.WriteFile(path, []byte("[]\n"), 0600); err != nil {
		t.Fatal(err)
	}
	if err := os.Chmod(path, 0600); err != nil {
		t.Fatal(err)
	}

	if err := NewFile(path).Save([]Todo{{ID: "a", Task: "Private", Status: StatusPending}}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if got := info.Mode().Perm(); got != 0600 {
		t.Errorf("mode: got %o, want 600", got)
	}

	fresh := filepath.Join(dir, "new.json")
	if err := NewFile(fresh).Save(nil); err != nil {
		t.Fatal(err)
	}
	info, err = os.Stat(fresh)
	if err != nil {
		t.Fatal(err)
	}
	if got := info.Mode().Perm(); got&0600 != 0600 {
		t.Errorf("new file mode: got %o, want owner read/write", got)
	}
}

func TestSaveMissingDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "no-such-dir", "todos.json")
	err := NewFile(path).Save([]Todo{{ID: "a", Task: "t", Status: StatusPending}})
	if err == nil {
		t.Fatal("expected error")
	}
	var pathErr *fs.PathError
	if !errors.As(err, &pathErr) {
		t.Errorf("expected *fs.PathError in chain, got %T: %v", err, err)
	}
	if !strings.Contains(err.Error(), "write todo file") {
		t.Errorf("unexpected message: %v", err)
	}
}

func TestSaveFailureKeepsPreviousContents(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("directory permissions differ on windows")
	}
	if os.Geteuid() == 0 {
		t.Skip("root ignores directory permissions")
	}

	dir := t.TempDir()
	path := filepath.Join(dir, "todos.json")
	f := NewFile(path)
	if err := f.Save([]Todo{{ID: "a", Task: "t", Status: StatusPending}}); err != nil {
		t.Fatal(err)
	}
	before, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	if err := os.Chmod(dir, 0555); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chmod(dir, 0755) })

	if err := f.Save(nil); err == nil {
		t.Fatal("expected save into read-only directory to fail")
	}
	after, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(after) != string(before) {
		t.Errorf("file changed after failed save:\nbefore %q\nafter  %q", before, after)
	}
}

func TestSchema(t *testing.T) {
	s := Schema()
	if !strings.Contains(string(s), `"InProgress"`) {
		t.Error("schema should list the InProgress status")
	}
	s[0] = 'x'
	if Schema()[0] == 'x' {
		t.Error("Schema should return a copy")
	}
}

func TestJSONPointerToPath(t *testing.T) {
	tests := []struct {
		ptr  string
		want string
	}{
		{"", ""},
		{"#", ""},
		{"/0", "[0]"},
		{"/2/status", "[2].status"},
		{"#/1/task", "[1].task"},
		{"/a~1b", "a/b"},
	}
	for _, tt := range tests {
		if got := jsonPointerToPath(tt.ptr); got != tt.want {
			t.Errorf("jsonPointerToPath(%q): got %q, want %q", tt.ptr, got, tt.want)
		}
	}
}
