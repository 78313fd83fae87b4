package spec

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// OutputName is the file written into an output directory.
const OutputName = "swagger.json"

// Encode writes doc as indented JSON with sorted keys. HTML characters are
// kept literal so sanitized descriptions read as written (<br/>).
func Encode(w io.Writer, doc Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "    ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	return nil
}

// WriteFile encodes doc into dir/swagger.json and returns the file path.
func WriteFile(dir string, doc Document) (string, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, doc); err != nil {
		return "", err
	}
	path := filepath.Join(dir, OutputName)
	if err := WriteAtomic(path, buf.Bytes()); err != nil {
		return "", err
	}
	return path, nil
}

// WriteAtomic writes data next to path and renames it into place, so readers
// never see a partial file. Missing parent directories are created.
func WriteAtomic(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return &SpecError{Code: InputError, Message: fmt.Sprintf("create directory for %s: %v", path, err), Location: path, Cause: err}
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return &SpecError{Code: InputError, Message: fmt.Sprintf("write %s: %v", tmp, err), Location: path, Cause: err}
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return &SpecError{Code: InputError, Message: fmt.Sprintf("replace %s: %v", path, err), Location: path, Cause: err}
	}
	return nil
}
