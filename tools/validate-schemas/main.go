// validate-schemas checks that local Azure resource schema files parse and
// are valid draft-04 JSON Schema documents before they are imported.
//
// Usage:
//
//	go run ./tools/validate-schemas <file-or-dir>...
package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/yetics/armkit/internal/definitions"
	"github.com/yetics/armkit/internal/schema"
	"github.com/yetics/armkit/internal/source"
)

func main() {
	log.SetFlags(0) // Remove timestamp from logs

	if len(os.Args) < 2 {
		log.Fatalf("Usage: validate-schemas <file-or-dir>...")
	}

	if err := runValidation(os.Args[1:]); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func runValidation(roots []string) error {
	var paths []string
	for _, root := range roots {
		found, err := collect(root)
		if err != nil {
			return err
		}
		paths = append(paths, found...)
	}
	if len(paths) == 0 {
		return errors.New("no schema files found")
	}

	validatedCount := 0
	for _, path := range paths {
		log.Printf("Validating %s...", path)

		count, err := validateSchema(path)
		if err != nil {
			log.Printf("  ❌ Invalid: %v", err)
			continue
		}
		log.Printf("  ✅ Valid JSON Schema (%d resource definitions)", count)
		validatedCount++
	}

	if validatedCount != len(paths) {
		return fmt.Errorf("validation failed: expected to validate %d schemas but only %d passed",
			len(paths), validatedCount)
	}

	log.Printf("\nSuccessfully validated all %d schemas!", validatedCount)
	return nil
}

func collect(root string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{root}, nil
	}

	var paths []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(d.Name(), ".json") {
			paths = append(paths, path)
		}
		return nil
	})
	return paths, err
}

func validateSchema(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("failed to read file: %w", err)
	}

	root, err := schema.Parse(data)
	if err != nil {
		return 0, err
	}
	if err := source.ValidateMetaSchema(root); err != nil {
		return 0, err
	}

	doc, err := schema.NewDocument(root)
	if err != nil {
		return 0, err
	}
	return len(definitions.Find(doc)), nil
}
