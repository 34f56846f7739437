package parser

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ParseFile picks the decoder from the file extension: .json is read as
// JSON, anything else as YAML.
func ParseFile(path string) (*YArchitecture, error) {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return ParseJSON(path)
	}
	return ParseYAML(path)
}

func ParseJSON(path string) (*YArchitecture, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseJSONBytes(b)
}

// ParseJSONBytes rejects unknown fields so that a misspelled key does not
// silently drop a component setting.
func ParseJSONBytes(b []byte) (*YArchitecture, error) {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.DisallowUnknownFields()
	var y YArchitecture
	if err := dec.Decode(&y); err != nil {
		return nil, fmt.Errorf("decode architecture json: %w", err)
	}
	return &y, nil
}
