package main

import (
	"encoding/json"
	"io"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func readYAML(path string, out any) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return withCode(exitUsage, errors.Wrapf(err, "read %s", path))
	}
	if err := yaml.Unmarshal(raw, out); err != nil {
		return withCode(exitValidation, errors.Wrapf(err, "parse %s", path))
	}
	return nil
}
