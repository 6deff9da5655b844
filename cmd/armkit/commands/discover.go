package commands

import (
	"context"
	"flag"
	"fmt"

	jsoniter "github.com/json-iterator/go"

	"github.com/yetics/armkit/internal/discovery"
	"github.com/yetics/armkit/internal/github"
	"github.com/yetics/armkit/internal/source"
)

func DiscoverCommand(ctx context.Context, env Env, args []string) error {
	discoverFlags := flag.NewFlagSet("discover", flag.ContinueOnError)
	var (
		version    string
		file       string
		repository string
		asJSON     bool
	)
	discoverFlags.StringVar(&version, "version", env.Config.SchemaVersion, "Schema version to analyse, or \"latest\"")
	discoverFlags.StringVar(&file, "file", "", "Analyse a local or remote deployment template instead of the repository")
	discoverFlags.StringVar(&repository, "repo", env.Config.SchemaRepository, "GitHub repository holding the schemas (owner/name)")
	discoverFlags.BoolVar(&asJSON, "json", false, "Print the result as JSON")

	if err := discoverFlags.Parse(args); err != nil {
		return err
	}

	opts := discovery.Options{SchemaHost: env.Config.SchemaHost, MaxDepth: env.Config.MaxDepth}

	var result *discovery.Result
	if file != "" {
		doc, err := source.NewLoader(source.WithMaxDepth(env.Config.MaxDepth)).Fetch(ctx, file)
		if err != nil {
			return err
		}
		refs, err := discovery.NewService(nil, opts, env.Logger).ResourcesFromDocument(doc)
		if err != nil {
			return fmt.Errorf("failed to resolve %s: %w", file, err)
		}
		result = &discovery.Result{TemplatePath: file, References: refs}
	} else {
		ghOpts := []github.Option{github.WithToken(env.Config.GitHubAccessToken)}
		if env.Config.GitHubAPIURL != "" {
			ghOpts = append(ghOpts, github.WithBaseURL(env.Config.GitHubAPIURL))
		}
		client, err := github.NewClient(ctx, repository, ghOpts...)
		if err != nil {
			return err
		}

		result, err = discovery.NewService(client, opts, env.Logger).DiscoverResources(ctx, version)
		if err != nil {
			return err
		}
	}

	if asJSON {
		enc := jsoniter.ConfigCompatibleWithStandardLibrary.NewEncoder(env.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	for _, ref := range result.References {
		_, _ = fmt.Fprintln(env.Stdout, ref)
	}
	return nil
}
