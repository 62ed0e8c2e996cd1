// Package sync sweeps every configured provider's session locations and
// hands normalized sessions to the export writer.
package sync

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/iksnae/aisync/internal/export"
	"github.com/iksnae/aisync/internal/model"
	"github.com/iksnae/aisync/internal/parser"
)

// Result is the per-provider outcome of a sweep. Failed counts sessions
// whose export failed; parse failures never surface here because the
// registry already skips them per location.
type Result struct {
	Provider model.Provider
	Found    int
	Synced   int
	Skipped  int
	Failed   int
	Errors   []string
}

// Syncer ties the parser registry to an export writer.
type Syncer struct {
	registry *parser.Registry
	writer   *export.Writer
	log      *zap.Logger
}

// New builds a Syncer.
func New(registry *parser.Registry, writer *export.Writer, log *zap.Logger) *Syncer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Syncer{registry: registry, writer: writer, log: log}
}

// Run sweeps the given providers, at most concurrency at a time, and
// returns one Result per provider in the order given. The only error
// Run itself returns is context cancellation; everything else is
// recorded in the results.
func (s *Syncer) Run(ctx context.Context, providers []model.Provider, concurrency int) ([]Result, error) {
	if concurrency < 1 {
		concurrency = 1
	}
	results := make([]Result, len(providers))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for i, p := range providers {
		i, p := i, p
		g.Go(func() error {
			results[i] = s.sweep(ctx, p)
			return ctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		return results, fmt.Errorf("sweep interrupted: %w", err)
	}
	return results, nil
}

func (s *Syncer) sweep(ctx context.Context, p model.Provider) Result {
	result := Result{Provider: p}

	for session := range s.registry.ParseAll(ctx, p) {
		result.Found++
		wrote, err := s.writer.Write(session)
		switch {
		case err != nil:
			result.Failed++
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", session.ID, err))
			s.log.Debug("failed to export session",
				zap.String("provider", string(p)),
				zap.String("session", session.ID),
				zap.Error(err))
		case wrote:
			result.Synced++
		default:
			result.Skipped++
		}
	}

	s.log.Debug("provider sweep complete",
		zap.String("provider", string(p)),
		zap.Int("found", result.Found),
		zap.Int("synced", result.Synced),
		zap.Int("skipped", result.Skipped),
		zap.Int("failed", result.Failed))
	return result
}
