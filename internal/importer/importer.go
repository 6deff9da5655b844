// Package importer turns the resource definitions of a schema document into
// construct emissions.
package importer

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/yetics/armkit/internal/definitions"
	"github.com/yetics/armkit/internal/emitter"
	"github.com/yetics/armkit/internal/source"
)

// Service imports schema documents into an emitter.
type Service struct {
	source source.Source
	logger zerolog.Logger
}

// NewService creates a new importer service
func NewService(src source.Source, logger zerolog.Logger) *Service {
	return &Service{
		source: src,
		logger: logger.With().Str("component", "importer").Logger(),
	}
}

// ImportFromPath fetches the document at locator and emits one construct per
// resource definition, in declaration order. Nothing is emitted when the
// document cannot be fetched or parsed.
func (s *Service) ImportFromPath(ctx context.Context, locator string, out emitter.Emitter) ([]definitions.Record, error) {
	log := s.logger.With().
		Str("run_id", uuid.NewString()).
		Str("locator", locator).
		Logger()

	log.Debug().Msg("fetching schema")
	doc, err := s.source.Fetch(ctx, locator)
	if err != nil {
		return nil, fmt.Errorf("failed to import schema: %w", err)
	}

	records := definitions.Find(doc)
	if len(records) == 0 {
		log.Warn().Str("title", doc.Title).Msg("schema declares no resource definitions")
		return records, nil
	}

	for _, rec := range records {
		out.Emit(emitter.Construct{
			FQN:    rec.FQN(),
			Kind:   rec.Name,
			Schema: rec.Schema,
		})
		log.Debug().Str("fqn", rec.FQN()).Msg("emitted construct")
	}

	log.Info().
		Str("namespace", records[0].Namespace).
		Int("constructs", len(records)).
		Msg("import completed")
	return records, nil
}
