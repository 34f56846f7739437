package rules

import (
	"fmt"

	"github.com/archsim/archsim-backend/internal/architecture_evaluation/domain"
)

type ValidationResult struct {
	Valid      bool     `json:"valid" yaml:"valid"`
	Violations []string `json:"violations" yaml:"violations"`
	Warnings   []string `json:"warnings" yaml:"warnings"`
}

// Engine validates links against an immutable rule table. It holds no mutable
// state and is safe for concurrent use.
type Engine struct {
	rules []ConnectionRule
	index map[ruleKey]ConnectionRule
}

func NewEngine(rules []ConnectionRule) (*Engine, error) {
	e := &Engine{
		rules: make([]ConnectionRule, 0, len(rules)),
		index: make(map[ruleKey]ConnectionRule, len(rules)),
	}
	for i, r := range rules {
		if err := checkRule(r); err != nil {
			return nil, fmt.Errorf("rule #%d: %w", i, err)
		}
		if r.Severity == "" {
			r.Severity = domain.SeverityViolation
		}
		k := r.key()
		if _, dup := e.index[k]; dup {
			return nil, fmt.Errorf("rule #%d: duplicate rule %s/%s -> %s/%s via %s",
				i, r.SourceType, r.SourceSubtype, r.TargetType, r.TargetSubtype, r.LinkType)
		}
		e.index[k] = r
		e.rules = append(e.rules, r)
	}
	return e, nil
}

// NewDefaultEngine builds an engine over DefaultRules.
func NewDefaultEngine() *Engine {
	e, err := NewEngine(DefaultRules())
	if err != nil {
		panic(fmt.Sprintf("rules: built-in catalog is invalid: %v", err))
	}
	return e
}

func checkRule(r ConnectionRule) error {
	if !r.SourceType.Valid() {
		return fmt.Errorf("%w: %q", domain.ErrInvalidComponentType, r.SourceType)
	}
	if !r.TargetType.Valid() {
		return fmt.Errorf("%w: %q", domain.ErrInvalidComponentType, r.TargetType)
	}
	if !r.SourceType.Accepts(r.SourceSubtype) {
		return fmt.Errorf("%w: %q for %s", domain.ErrInvalidSubtype, r.SourceSubtype, r.SourceType)
	}
	if !r.TargetType.Accepts(r.TargetSubtype) {
		return fmt.Errorf("%w: %q for %s", domain.ErrInvalidSubtype, r.TargetSubtype, r.TargetType)
	}
	if !r.LinkType.Valid() {
		return fmt.Errorf("%w: %q", domain.ErrInvalidLinkType, r.LinkType)
	}
	switch r.Severity {
	case "", domain.SeverityViolation, domain.SeverityWarning:
	default:
		return fmt.Errorf("unknown severity %q", r.Severity)
	}
	return nil
}

// Match returns the most specific rule for the triple. Subtypes are dropped
// target first, then source, then both.
func (e *Engine) Match(source, target *domain.Component, lt domain.LinkType) (ConnectionRule, bool) {
	if source == nil || target == nil {
		return ConnectionRule{}, false
	}
	candidates := [...]ruleKey{
		{src: source.Type, srcSub: source.Subtype, tgt: target.Type, tgtSub: target.Subtype, link: lt},
		{src: source.Type, srcSub: source.Subtype, tgt: target.Type, link: lt},
		{src: source.Type, tgt: target.Type, tgtSub: target.Subtype, link: lt},
		{src: source.Type, tgt: target.Type, link: lt},
	}
	for _, k := range candidates {
		if r, ok := e.index[k]; ok {
			return r, true
		}
	}
	return ConnectionRule{}, false
}

// ValidateConnection returns the allowed flag of the most specific matching
// rule. Unknown combinations are denied.
func (e *Engine) ValidateConnection(source, target *domain.Component, lt domain.LinkType) bool {
	r, ok := e.Match(source, target, lt)
	return ok && r.Allowed
}

// Explain is ValidateConnection plus a human-readable reason.
func (e *Engine) Explain(source, target *domain.Component, lt domain.LinkType) (bool, string) {
	if source == nil || target == nil {
		return false, "connection endpoints are missing"
	}
	r, ok := e.Match(source, target, lt)
	if !ok {
		return false, noRuleMessage(source, target, lt)
	}
	return r.Allowed, r.Render(source, target, lt)
}

// SuggestLinkTypes lists every link type the table allows between the pair.
func (e *Engine) SuggestLinkTypes(source, target *domain.Component) []domain.LinkType {
	out := []domain.LinkType{}
	for _, lt := range domain.LinkTypes() {
		if e.ValidateConnection(source, target, lt) {
			out = append(out, lt)
		}
	}
	return out
}

// ValidateArchitecture checks every link on its own (source type, target
// type, link type) triple. Malformed links become violations, never errors.
func (e *Engine) ValidateArchitecture(arch *domain.Architecture) ValidationResult {
	res := ValidationResult{Valid: true, Violations: []string{}, Warnings: []string{}}
	if arch == nil {
		return res
	}

	idx := arch.ComponentIndex()
	for _, l := range arch.Links {
		if l == nil {
			continue
		}
		src, okS := idx[l.SourceRef()]
		tgt, okT := idx[l.TargetRef()]
		if !okS || !okT {
			res.Violations = append(res.Violations, danglingMessage(l, okS, okT))
			continue
		}

		r, ok := e.Match(src, tgt, l.Type)
		if !ok {
			res.Violations = append(res.Violations, noRuleMessage(src, tgt, l.Type))
			continue
		}
		if r.Allowed {
			continue
		}
		msg := r.Render(src, tgt, l.Type)
		if r.Severity == domain.SeverityWarning {
			res.Warnings = append(res.Warnings, msg)
		} else {
			res.Violations = append(res.Violations, msg)
		}
	}

	res.Valid = len(res.Violations) == 0
	return res
}

func (e *Engine) AllRules() []ConnectionRule {
	out := make([]ConnectionRule, len(e.rules))
	copy(out, e.rules)
	return out
}

func (e *Engine) RulesForLinkType(lt domain.LinkType) []ConnectionRule {
	out := []ConnectionRule{}
	for _, r := range e.rules {
		if r.LinkType == lt {
			out = append(out, r)
		}
	}
	return out
}

func noRuleMessage(source, target *domain.Component, lt domain.LinkType) string {
	return renderTemplate("No connection rule for {sourceType} -> {targetType} via {linkType} ({source} -> {target}); denied by default",
		source, target, lt)
}

func danglingMessage(l *domain.Link, sourceOK, targetOK bool) string {
	missing := l.TargetRef()
	if !sourceOK {
		missing = l.SourceRef()
	}
	if missing == "" {
		missing = "<empty>"
	}
	return fmt.Sprintf("Link %s has a dangling endpoint: component %s is not part of this architecture", l.ID, missing)
}
