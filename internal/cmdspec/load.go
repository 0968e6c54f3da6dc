// Package cmdspec loads declarative command documents and builds commands
// from them.
//
// Documents may be written in YAML, JSON or CUE; the format is chosen by
// file extension. All three decode into the same Document type:
//
//	commands:
//	  - name: adults
//	    method: select
//	    table: users
//	    where:
//	      and:
//	        - {key: age, op: ">=", value: 21}
//	        - {key: id, in: {table: owners, key: owner_id, value: 7}}
//	    sort: [{key: name, dir: "<"}]
//	    limit: 5
//	    expect: "SELECT * FROM users WHERE (...) ORDER BY name ASC LIMIT 5;"
//
// CUE documents are evaluated and exported to JSON before decoding, so
// their numbers follow the same rules as JSON documents.
package cmdspec

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"gopkg.in/yaml.v3"

	"github.com/roach88/lisql/internal/command"
)

// Extensions lists the supported document extensions.
var Extensions = []string{".yaml", ".yml", ".json", ".cue"}

func supported(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range Extensions {
		if e == ext {
			return true
		}
	}
	return false
}

// LoadFile reads and validates one document.
func LoadFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: "file not found", Path: path}
	}
	if err != nil {
		return nil, &LoadError{Code: ErrCodeGeneric, Message: fmt.Sprintf("read file: %v", err), Path: path}
	}
	return Parse(path, data)
}

// Parse decodes data according to the extension of path and validates it.
func Parse(path string, data []byte) (*Document, error) {
	var (
		doc *Document
		err error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		doc, err = decodeYAML(path, data)
	case ".json":
		doc, err = decodeJSON(path, data)
	case ".cue":
		doc, err = decodeCUE(path, data)
	default:
		return nil, &LoadError{
			Code:    ErrCodeFormat,
			Message: fmt.Sprintf("unsupported extension %q (want one of %s)", filepath.Ext(path), strings.Join(Extensions, ", ")),
			Path:    path,
		}
	}
	if err != nil {
		return nil, err
	}

	doc.Path = path
	if doc.Name == "" {
		doc.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	if err := validateDocument(doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// LoadDir loads every document in dir (non-recursive), sorted by file name.
func LoadDir(dir string) ([]*Document, error) {
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: "directory not found", Path: dir}
	}
	if err != nil {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("error accessing directory: %v", err), Path: dir}
	}
	if !info.IsDir() {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: "not a directory", Path: dir}
	}

	files, err := FindFiles(dir)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeScanError, Message: fmt.Sprintf("error scanning directory: %v", err), Path: dir}
	}
	if len(files) == 0 {
		return nil, &LoadError{Code: ErrCodeNoFiles, Message: "no command documents found", Path: dir}
	}

	docs := make([]*Document, 0, len(files))
	for _, f := range files {
		doc, err := LoadFile(f)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// FindFiles returns the supported document files directly inside dir,
// sorted by name.
func FindFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() || !supported(e.Name()) {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	return files, nil
}

func decodeYAML(path string, data []byte) (*Document, error) {
	var doc Document
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(&doc); err != nil {
		return nil, &LoadError{Code: ErrCodeParseFailed, Message: fmt.Sprintf("parse YAML: %v", err), Path: path}
	}
	return &doc, nil
}

func decodeJSON(path string, data []byte) (*Document, error) {
	var doc Document
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&doc); err != nil {
		return nil, &LoadError{Code: ErrCodeParseFailed, Message: fmt.Sprintf("parse JSON: %v", err), Path: path}
	}
	return &doc, nil
}

func decodeCUE(path string, data []byte) (*Document, error) {
	ctx := cuecontext.New()
	value := ctx.CompileBytes(data, cue.Filename(path))
	if err := value.Err(); err != nil {
		return nil, formatCUEError(err, ErrCodeParseFailed, path)
	}
	if err := value.Validate(cue.Concrete(true)); err != nil {
		return nil, formatCUEError(err, ErrCodeBuildFailed, path)
	}

	exported, err := value.MarshalJSON()
	if err != nil {
		return nil, formatCUEError(err, ErrCodeBuildFailed, path)
	}
	return decodeJSON(path, exported)
}

// validateDocument checks required fields and fills default names.
func validateDocument(doc *Document) error {
	if len(doc.Commands) == 0 {
		return &LoadError{Code: ErrCodeNoCommands, Message: "commands list is required and must be non-empty", Path: doc.Path}
	}

	for i := range doc.Commands {
		spec := &doc.Commands[i]
		if spec.Name == "" {
			spec.Name = fmt.Sprintf("command[%d]", i)
		}
		if _, err := command.ParseMethod(spec.Method); err != nil {
			return &LoadError{
				Code:    ErrCodeInvalidMethod,
				Message: fmt.Sprintf("commands[%d]: unknown method %q", i, spec.Method),
				Path:    doc.Path,
			}
		}
		if spec.Expect != "" && spec.ExpectError != "" {
			return &LoadError{
				Code:    ErrCodeInvalidExpect,
				Message: fmt.Sprintf("commands[%d]: expect and expect_error are mutually exclusive", i),
				Path:    doc.Path,
			}
		}
		if spec.Where != nil {
			if err := validateWhere(*spec.Where, fmt.Sprintf("commands[%d].where", i)); err != nil {
				err.Path = doc.Path
				return err
			}
		}
		for j, s := range spec.Sort {
			if s.Key == "" {
				return &LoadError{
					Code:    ErrCodeInvalidSort,
					Message: fmt.Sprintf("commands[%d].sort[%d]: key is required", i, j),
					Path:    doc.Path,
				}
			}
		}
	}
	return nil
}

// validateWhere checks the shape of a where clause. Operators and values
// are checked when the command is built.
func validateWhere(w Where, at string) *LoadError {
	if w.And != nil && w.Or != nil {
		return &LoadError{Code: ErrCodeInvalidWhere, Message: at + ": and and or are mutually exclusive"}
	}
	if w.IsGroup() {
		if w.Key != "" || w.Op != "" || w.Value != nil || w.In != nil {
			return &LoadError{Code: ErrCodeInvalidWhere, Message: at + ": a group cannot also be a leaf"}
		}
		children, cond := w.And, "and"
		if w.Or != nil {
			children, cond = w.Or, "or"
		}
		for i, child := range children {
			if err := validateWhere(child, fmt.Sprintf("%s.%s[%d]", at, cond, i)); err != nil {
				return err
			}
		}
		return nil
	}
	if w.Key == "" {
		return &LoadError{Code: ErrCodeInvalidWhere, Message: at + ": key is required"}
	}
	if w.In != nil {
		if w.Op != "" || w.Value != nil {
			return &LoadError{Code: ErrCodeInvalidWhere, Message: at + ": a sub-query leaf takes no op or value"}
		}
		if w.In.Table == "" || w.In.Key == "" {
			return &LoadError{Code: ErrCodeInvalidWhere, Message: at + ".in: table and key are required"}
		}
		return nil
	}
	if w.Op == "" {
		return &LoadError{Code: ErrCodeInvalidWhere, Message: at + ": op is required"}
	}
	return nil
}
