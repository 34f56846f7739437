package export

import (
	"fmt"
	"strings"

	"github.com/archsim/archsim-backend/internal/architecture_evaluation/domain"
	"github.com/archsim/archsim-backend/internal/architecture_evaluation/rules"
)

var nodeStyles = map[domain.ComponentType]string{
	domain.ComponentDatabase:     `shape=cylinder,style="filled",fillcolor="#fff3cd"`,
	domain.ComponentCache:        `shape=box,style="rounded,filled",fillcolor="#e2f7e1"`,
	domain.ComponentQueue:        `shape=cds,style="filled",fillcolor="#f3e8ff"`,
	domain.ComponentStorage:      `shape=folder,style="filled",fillcolor="#f1f1f1"`,
	domain.ComponentLoadBalancer: `shape=diamond,style="filled",fillcolor="#ffe4e1"`,
}

const defaultNodeStyle = `shape=box,style="rounded,filled",fillcolor="#eef6ff"`

// ToDOT renders the architecture as a Graphviz digraph. When engine is not
// nil, links it rejects are drawn red and dashed.
func ToDOT(a *domain.Architecture, engine *rules.Engine) string {
	var b strings.Builder
	b.WriteString("digraph G {\n  rankdir=LR;\n  node [shape=box, style=rounded];\n")
	if a == nil {
		b.WriteString("}\n")
		return b.String()
	}
	if a.Name != "" {
		b.WriteString(fmt.Sprintf(`  labelloc="t"; label="%s"; fontname="Helvetica";`, escape(a.Name)))
		b.WriteString("\n")
	}

	for _, c := range a.Components {
		if c == nil {
			continue
		}
		style, ok := nodeStyles[c.Type]
		if !ok {
			style = defaultNodeStyle
		}
		label := c.Name
		if label == "" {
			label = c.ID
		}
		if c.Subtype != "" {
			label = fmt.Sprintf(`%s\n%s`, label, c.Subtype)
		}
		b.WriteString(fmt.Sprintf(`  "%s" [label="%s", %s];`+"\n", escape(c.ID), escape(label), style))
	}

	idx := a.ComponentIndex()
	for i, l := range a.Links {
		if l == nil {
			continue
		}
		attrs := fmt.Sprintf(`label="%s", tooltip="link#%d"`, l.Type, i)
		if engine != nil {
			src, okS := idx[l.SourceRef()]
			tgt, okT := idx[l.TargetRef()]
			if !okS || !okT {
				attrs += `, color="red", style="dashed"`
			} else if r, ok := engine.Match(src, tgt, l.Type); !ok || !r.Allowed {
				color := "red"
				if ok && r.Severity == domain.SeverityWarning {
					color = "orange"
				}
				attrs += fmt.Sprintf(`, color="%s", style="dashed"`, color)
			}
		}
		b.WriteString(fmt.Sprintf(`  "%s" -> "%s" [%s];`+"\n",
			escape(l.SourceRef()), escape(l.TargetRef()), attrs))
	}

	b.WriteString("}\n")
	return b.String()
}

func escape(s string) string {
	return strings.ReplaceAll(s, `"`, `\"`)
}
