package todo

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

// DefaultFileName is the todo file name used when none is configured.
const DefaultFileName = "todos.json"

const schemaURL = "todos.schema.json"

//go:embed todos.schema.json
var schemaJSON []byte

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

// Schema returns the JSON Schema the todo file is checked against.
func Schema() []byte {
	return bytes.Clone(schemaJSON)
}

func loadSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource(schemaURL, bytes.NewReader(schemaJSON)); err != nil {
			schemaErr = fmt.Errorf("add todo schema: %w", err)
			return
		}
		compiledSchema, schemaErr = compiler.Compile(schemaURL)
		if schemaErr != nil {
			schemaErr = fmt.Errorf("compile todo schema: %w", schemaErr)
		}
	})
	return compiledSchema, schemaErr
}

// File is the JSON file holding the todo collection.
// It keeps no records between calls.
type File struct {
	path string
}

// NewFile returns a File backed by path.
func NewFile(path string) *File {
	return &File{path: path}
}

// Path returns the backing file path.
func (f *File) Path() string {
	return f.path
}

// Load reads the todo file. A missing file yields an empty list.
func (f *File) Load() ([]Todo, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []Todo{}, nil
		}
		return nil, fmt.Errorf("read todo file: %w", err)
	}
	return Decode(f.path, data)
}

// Save replaces the todo file with todos.
func (f *File) Save(todos []Todo) error {
	if todos == nil {
		todos = []Todo{}
	}
	data, err := json.MarshalIndent(todos, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal todo file: %w", err)
	}

	// Add trailing newline
	data = append(data, '\n')

	if err := writeFileAtomic(f.path, data, 0644); err != nil {
		return fmt.Errorf("write todo file: %w", err)
	}
	return nil
}

// Decode parses todo file contents. path is only used in error messages.
// Every problem found is reported in the returned *DecodeError.
func Decode(path string, data []byte) ([]Todo, error) {
	decErr := &DecodeError{Path: path}

	var doc interface{}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		decErr.Problems = append(decErr.Problems, &Problem{Err: fmt.Errorf("invalid JSON: %w", err)})
		return nil, decErr
	}
	if dec.More() {
		decErr.Problems = append(decErr.Problems, &Problem{Err: errors.New("unexpected data after JSON array")})
		return nil, decErr
	}

	schema, err := loadSchema()
	if err != nil {
		return nil, err
	}
	if err := schema.Validate(doc); err != nil {
		decErr.Problems = appendSchemaProblems(decErr.Problems, err)
		return nil, decErr
	}

	var todos []Todo
	if err := json.Unmarshal(data, &todos); err != nil {
		decErr.Problems = append(decErr.Problems, &Problem{Err: err})
		return nil, decErr
	}

	seen := make(map[string]int, len(todos))
	for i := range todos {
		if first, ok := seen[todos[i].ID]; ok {
			decErr.Problems = append(decErr.Problems, &Problem{
				Path: fmt.Sprintf("[%d].id", i),
				Err:  fmt.Errorf("duplicate id %q (first at [%d])", todos[i].ID, first),
			})
			continue
		}
		seen[todos[i].ID] = i
	}
	if len(decErr.Problems) > 0 {
		return nil, decErr
	}

	if todos == nil {
		todos = []Todo{}
	}
	return todos, nil
}

func appendSchemaProblems(problems []*Problem, err error) []*Problem {
	ve, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return append(problems, &Problem{Err: err})
	}
	return collectSchemaProblems(problems, ve)
}

func collectSchemaProblems(problems []*Problem, err *jsonschema.ValidationError) []*Problem {
	if len(err.Causes) == 0 {
		return append(problems, &Problem{
			Path: jsonPointerToPath(err.InstanceLocation),
			Err:  errors.New(err.Message),
		})
	}
	for _, cause := range err.Causes {
		problems = collectSchemaProblems(problems, cause)
	}
	return problems
}

// jsonPointerToPath turns "/2/status" into "[2].status".
func jsonPointerToPath(ptr string) string {
	ptr = strings.TrimPrefix(ptr, "#")
	ptr = strings.TrimPrefix(ptr, "/")
	if ptr == "" {
		return ""
	}

	path := ""
	for _, part := range strings.Split(ptr, "/") {
		part = strings.ReplaceAll(part, "~1", "/")
		part = strings.ReplaceAll(part, "~0", "~")
		if part == "" {
			continue
		}
		if idx, err := strconv.Atoi(part); err == nil {
			path += fmt.Sprintf("[%d]", idx)
			continue
		}
		if path == "" {
			path = part
		} else {
			path += "." + part
		}
	}
	return path
}

// writeFileAtomic writes data to a temporary file next to path and renames
// it over path. A symlinked path is resolved so the link itself survives,
// and an existing file keeps its permissions; perm applies to new files.
func writeFileAtomic(path string, data []byte, perm os.FileMode) error {
	if resolved, err := filepath.EvalSymlinks(path); err == nil {
		path = resolved
	}
	if info, err := os.Stat(path); err == nil {
		perm = info.Mode().Perm()
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	cleanup := true
	defer func() {
		if cleanup {
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpPath, perm); err != nil {
		return err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return err
	}
	cleanup = false
	return nil
}
