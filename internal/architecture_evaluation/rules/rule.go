package rules

import (
	"strings"

	"github.com/archsim/archsim-backend/internal/architecture_evaluation/domain"
)

// ConnectionRule states whether a (source, target, link type) triple may exist.
// An empty subtype matches any subtype of its component type.
type ConnectionRule struct {
	SourceType    domain.ComponentType `json:"source_type" yaml:"source_type"`
	SourceSubtype domain.Subtype       `json:"source_subtype,omitempty" yaml:"source_subtype,omitempty"`
	TargetType    domain.ComponentType `json:"target_type" yaml:"target_type"`
	TargetSubtype domain.Subtype       `json:"target_subtype,omitempty" yaml:"target_subtype,omitempty"`
	LinkType      domain.LinkType      `json:"link_type" yaml:"link_type"`
	Allowed       bool                 `json:"allowed" yaml:"allowed"`
	Severity      domain.Severity      `json:"severity" yaml:"severity"`
	Message       string               `json:"message" yaml:"message"`
}

// Specificity counts the subtypes pinned by the rule (0..2).
func (r ConnectionRule) Specificity() int {
	n := 0
	if r.SourceSubtype != "" {
		n++
	}
	if r.TargetSubtype != "" {
		n++
	}
	return n
}

// Render fills the message template. Supported placeholders: {source},
// {target}, {sourceType}, {targetType}, {linkType}.
func (r ConnectionRule) Render(source, target *domain.Component, lt domain.LinkType) string {
	msg := r.Message
	if msg == "" {
		msg = "{sourceType} -> {targetType} via {linkType}"
	}
	return renderTemplate(msg, source, target, lt)
}

func (r ConnectionRule) key() ruleKey {
	return ruleKey{
		src:    r.SourceType,
		srcSub: r.SourceSubtype,
		tgt:    r.TargetType,
		tgtSub: r.TargetSubtype,
		link:   r.LinkType,
	}
}

type ruleKey struct {
	src    domain.ComponentType
	srcSub domain.Subtype
	tgt    domain.ComponentType
	tgtSub domain.Subtype
	link   domain.LinkType
}

func renderTemplate(msg string, source, target *domain.Component, lt domain.LinkType) string {
	return strings.NewReplacer(
		"{source}", displayName(source),
		"{target}", displayName(target),
		"{sourceType}", typeLabel(source),
		"{targetType}", typeLabel(target),
		"{linkType}", string(lt),
	).Replace(msg)
}

func displayName(c *domain.Component) string {
	if c == nil {
		return "?"
	}
	if c.Name != "" {
		return c.Name
	}
	return c.ID
}

func typeLabel(c *domain.Component) string {
	if c == nil {
		return "?"
	}
	if c.Subtype != "" {
		return string(c.Type) + "/" + string(c.Subtype)
	}
	return string(c.Type)
}
