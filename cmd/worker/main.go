package main

import (
	"log"
	"os"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("usage: worker evaluate <architecture.yaml|architecture.json> [outDir] [title] | worker rules [linkType]")
	}

	var err error
	switch os.Args[1] {
	case "evaluate":
		err = RunEvaluate(os.Args[2:], os.Stdout)
	case "rules":
		err = RunRules(os.Args[2:], os.Stdout)
	default:
		log.Fatalf("unknown command: %s", os.Args[1])
	}
	if err != nil {
		log.Fatal(err)
	}
}
