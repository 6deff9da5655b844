package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/yetics/armkit/internal/emitter"
	"github.com/yetics/armkit/internal/importer"
	"github.com/yetics/armkit/internal/source"
)

func ImportCommand(ctx context.Context, env Env, args []string) error {
	importFlags := flag.NewFlagSet("import", flag.ContinueOnError)
	var (
		output   string
		format   string
		validate bool
	)
	importFlags.StringVar(&output, "o", "", "Write the manifest to this file instead of stdout")
	importFlags.StringVar(&format, "format", string(emitter.FormatYAML), "Manifest format: yaml or json")
	importFlags.BoolVar(&validate, "validate", env.Config.ValidateSchemas, "Validate the schema against the JSON Schema draft-04 meta-schema")

	if err := importFlags.Parse(args); err != nil {
		return err
	}

	var arg string
	if importFlags.NArg() > 0 {
		arg = importFlags.Arg(0)
	}
	locator := env.Config.ImportLocator(arg)
	if locator == "" {
		return errors.New("schema locator required\n\nUsage: armkit import [-o file] [-format yaml|json] [-validate] <path-or-url>\n\nSCHEMA_DEFINITION_URL overrides the locator when set")
	}

	manifestFormat, err := emitter.ParseFormat(format)
	if err != nil {
		return err
	}

	opts := []source.Option{source.WithMaxDepth(env.Config.MaxDepth)}
	if validate {
		opts = append(opts, source.WithMetaSchemaValidation())
	}

	manifest := emitter.NewManifest()
	service := importer.NewService(source.NewLoader(opts...), env.Logger)
	if _, err := service.ImportFromPath(ctx, locator, manifest); err != nil {
		return err
	}

	var w io.Writer = env.Stdout
	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", output, err)
		}
		defer f.Close()
		w = f
	}

	if err := manifest.Encode(w, manifestFormat); err != nil {
		return err
	}

	if output != "" {
		_, _ = fmt.Fprintf(env.Stdout, "✓ Wrote %d constructs to %s\n", len(manifest.Constructs()), output)
	}
	return nil
}
