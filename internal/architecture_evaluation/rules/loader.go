package rules

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/archsim/archsim-backend/internal/architecture_evaluation/domain"
)

type ruleFile struct {
	Rules []rawRule `yaml:"rules"`
}

// rawRule keeps enum fields as strings so loose spellings ("sync-call",
// "redis") can be normalized before the engine sees them.
type rawRule struct {
	SourceType    string `yaml:"source_type"`
	SourceSubtype string `yaml:"source_subtype"`
	TargetType    string `yaml:"target_type"`
	TargetSubtype string `yaml:"target_subtype"`
	LinkType      string `yaml:"link_type"`
	Allowed       bool   `yaml:"allowed"`
	Severity      string `yaml:"severity"`
	Message       string `yaml:"message"`
}

// LoadFile reads a YAML rule table from path. An empty path yields the
// built-in catalog.
func LoadFile(path string) (*Engine, error) {
	if path == "" {
		return NewDefaultEngine(), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rules file: %w", err)
	}
	e, err := Parse(b)
	if err != nil {
		return nil, fmt.Errorf("rules file %s: %w", path, err)
	}
	return e, nil
}

func Parse(b []byte) (*Engine, error) {
	var f ruleFile
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	if len(f.Rules) == 0 {
		return nil, fmt.Errorf("no rules defined")
	}

	out := make([]ConnectionRule, 0, len(f.Rules))
	for i, raw := range f.Rules {
		r, err := raw.toRule()
		if err != nil {
			return nil, fmt.Errorf("rule #%d: %w", i, err)
		}
		out = append(out, r)
	}
	return NewEngine(out)
}

func (r rawRule) toRule() (ConnectionRule, error) {
	src, err := domain.ParseComponentType(r.SourceType)
	if err != nil {
		return ConnectionRule{}, err
	}
	tgt, err := domain.ParseComponentType(r.TargetType)
	if err != nil {
		return ConnectionRule{}, err
	}
	srcSub, err := domain.ParseSubtype(src, r.SourceSubtype)
	if err != nil {
		return ConnectionRule{}, err
	}
	tgtSub, err := domain.ParseSubtype(tgt, r.TargetSubtype)
	if err != nil {
		return ConnectionRule{}, err
	}
	lt, err := domain.ParseLinkType(r.LinkType)
	if err != nil {
		return ConnectionRule{}, err
	}
	return ConnectionRule{
		SourceType:    src,
		SourceSubtype: srcSub,
		TargetType:    tgt,
		TargetSubtype: tgtSub,
		LinkType:      lt,
		Allowed:       r.Allowed,
		Severity:      domain.Severity(normalizeSeverity(r.Severity)),
		Message:       r.Message,
	}, nil
}

func normalizeSeverity(s string) string {
	switch s {
	case "", "VIOLATION", "violation", "error":
		return string(domain.SeverityViolation)
	case "WARNING", "warning", "warn":
		return string(domain.SeverityWarning)
	}
	return s
}

// MarshalYAML renders rules in the same layout Parse accepts.
func MarshalYAML(rules []ConnectionRule) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(struct {
		Rules []ConnectionRule `yaml:"rules"`
	}{rules}); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
