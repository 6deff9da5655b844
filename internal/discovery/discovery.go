// Package discovery finds the deployment template of a published schema
// version and lists the versioned resource schemas it references.
package discovery

import (
	"context"
	"errors"
	"fmt"
	"path"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/yetics/armkit/internal/resolver"
	"github.com/yetics/armkit/internal/schema"
	"github.com/yetics/armkit/internal/versions"
)

const (
	// SchemasDir is the repository directory holding one folder per version.
	SchemasDir = "schemas"

	// TemplateFile is the deployment template schema inside a version folder.
	TemplateFile = "deploymentTemplate.json"
)

// Lister reads directories and files of the schema repository.
type Lister interface {
	ListDirectory(ctx context.Context, path string) ([]versions.Entry, error)
	GetFileContents(ctx context.Context, path string) ([]byte, error)
}

// Result is the outcome of a discovery run.
type Result struct {
	Version      string   `json:"version,omitempty" yaml:"version,omitempty"`
	TemplatePath string   `json:"template_path,omitempty" yaml:"template_path,omitempty"`
	References   []string `json:"references" yaml:"references"`
}

// Options tunes a Service.
type Options struct {
	// SchemaHost is the URL prefix of versioned schema files.
	SchemaHost string
	// MaxDepth bounds both parsing and reference walking.
	MaxDepth int
}

// Service discovers resource schema references.
type Service struct {
	lister Lister
	opts   Options
	logger zerolog.Logger
}

// NewService creates a new discovery service. lister may be nil when only
// ResourcesFromDocument is used.
func NewService(lister Lister, opts Options, logger zerolog.Logger) *Service {
	if opts.SchemaHost == "" {
		opts.SchemaHost = resolver.DefaultSchemaHost
	}
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = schema.DefaultMaxDepth
	}
	return &Service{
		lister: lister,
		opts:   opts,
		logger: logger.With().Str("component", "discovery").Logger(),
	}
}

// DiscoverResources locates the deployment template for target and returns
// the versioned schema files it references. target is an exact version name
// or versions.Latest.
func (s *Service) DiscoverResources(ctx context.Context, target string) (*Result, error) {
	if s.lister == nil {
		return nil, errors.New("discovery: no repository lister configured")
	}
	log := s.logger.With().Str("run_id", uuid.NewString()).Str("target", target).Logger()

	listing, err := s.lister.ListDirectory(ctx, SchemasDir)
	if err != nil {
		return nil, fmt.Errorf("failed to list schema versions: %w", err)
	}

	candidates, err := versions.Resolve(listing, target)
	if err != nil {
		return nil, err
	}

	for _, version := range candidates {
		found, err := s.hasTemplate(ctx, version)
		if err != nil {
			return nil, err
		}
		if !found {
			log.Debug().Str("version", version.Name).Msg("version has no deployment template")
			continue
		}

		templatePath := path.Join(version.Path, TemplateFile)
		log.Info().Str("template", templatePath).Msg("reading deployment template")

		data, err := s.lister.GetFileContents(ctx, templatePath)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", templatePath, err)
		}

		doc, err := schema.ParseDocument(data, schema.WithMaxDepth(s.opts.MaxDepth))
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", templatePath, err)
		}

		refs, err := s.ResourcesFromDocument(doc)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve %s: %w", templatePath, err)
		}

		log.Info().Int("references", len(refs)).Msg("discovery completed")
		return &Result{Version: version.Name, TemplatePath: templatePath, References: refs}, nil
	}

	return nil, &versions.NotFoundError{Target: target}
}

func (s *Service) hasTemplate(ctx context.Context, version versions.Entry) (bool, error) {
	files, err := s.lister.ListDirectory(ctx, version.Path)
	if err != nil {
		return false, fmt.Errorf("failed to list %s: %w", version.Path, err)
	}
	for _, f := range files {
		if f.Name == TemplateFile {
			return true, nil
		}
	}
	return false, nil
}

// ResourcesFromDocument walks properties.resources.items of a deployment
// template and returns the versioned schema files it references, fragments
// removed, in first-seen order. A template without that path yields an
// empty list.
func (s *Service) ResourcesFromDocument(doc *schema.Document) ([]string, error) {
	properties := doc.Root.Get("properties")
	if properties != nil && !properties.IsObject() {
		return nil, &schema.MalformedInputError{Pointer: "/properties", Reason: "properties must be an object"}
	}
	resources := properties.Get("resources")
	if resources != nil && !resources.IsObject() {
		return nil, &schema.MalformedInputError{Pointer: "/properties/resources", Reason: "resources must be an object"}
	}

	refs, err := resolver.Refs(resources.Get("items"), resolver.WithMaxDepth(s.opts.MaxDepth))
	if err != nil {
		return nil, err
	}
	return resolver.ResourceList(refs, resolver.Versioned(s.opts.SchemaHost)), nil
}
