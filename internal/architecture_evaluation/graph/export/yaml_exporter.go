package export

import (
	"os"

	"gopkg.in/yaml.v3"
)

func WriteYAML(path string, v any) error {
	b, err := yaml.Marshal(v)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0644)
}

// WriteDOT writes a rendered digraph next to the JSON and YAML reports.
func WriteDOT(path, dot string) error {
	return os.WriteFile(path, []byte(dot), 0644)
}
