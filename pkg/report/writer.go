package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Filename is the report file written into the output directory.
const Filename = "report.json"

// Write persists the report into dir, creating it if needed. The file
// is replaced atomically so a consumer polling it never sees a torn
// write.
func Write(dir string, r *Report) (string, error) {
	if err := ensureDir(dir); err != nil {
		return "", fmt.Errorf("create report dir: %w", err)
	}

	path := filepath.Join(dir, Filename)
	if err := atomicWriteJSON(path, r); err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}
	return path, nil
}

// Read loads a previously written report.
func Read(path string) (*Report, error) {
	data, err := os.ReadFile(path) //#nosec G304 -- path is user-provided report file
	if err != nil {
		return nil, err
	}
	var r Report
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("parse report: %w", err)
	}
	return &r, nil
}

// atomicWriteJSON writes v as indented JSON via a temp file and rename.
func atomicWriteJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil { //#nosec G306 -- report is world-readable
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}

func ensureDir(dir string) error {
	return os.MkdirAll(dir, 0o755)
}
