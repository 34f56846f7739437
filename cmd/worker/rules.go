package main

import (
	"fmt"
	"io"
	"os"

	"github.com/archsim/archsim-backend/internal/architecture_evaluation/domain"
	"github.com/archsim/archsim-backend/internal/architecture_evaluation/rules"
)

// RunRules prints the active rule catalog as YAML, optionally filtered to one
// link type.
func RunRules(args []string, w io.Writer) error {
	engine, err := rules.LoadFile(os.Getenv("RULES_FILE"))
	if err != nil {
		return err
	}
	list := engine.AllRules()
	if len(args) > 0 {
		lt, err := domain.ParseLinkType(args[0])
		if err != nil {
			return err
		}
		list = engine.RulesForLinkType(lt)
	}
	b, err := rules.MarshalYAML(list)
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(w, string(b))
	return err
}
