package main

import (
	"log"
	"path/filepath"

	"github.com/leapstack-labs/leaplint/internal/docs"
	"github.com/leapstack-labs/leaplint/pkg/lint/rules"
)

// generateLintDocs generates the rule reference pages.
func generateLintDocs(outDir string) error {
	log.Printf("Generating lint docs to %s", outDir)

	written, err := docs.Generate(rules.Registry(), outDir, nil)
	if err != nil {
		return err
	}
	for _, path := range written {
		log.Printf("  Generated %s", filepath.Base(path))
	}
	return nil
}
