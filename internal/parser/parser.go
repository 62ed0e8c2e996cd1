package parser

import (
	"context"
	"sort"

	"go.uber.org/zap"

	"github.com/iksnae/aisync/internal/model"
)

// Parser ingests one provider's on-disk session format.
//
// SessionPaths never fails: a missing or unreadable root yields an empty
// result. Parse returns the sessions found at one location; container files
// may yield several, everything else yields at most one. A malformed,
// truncated, or mid-write file returns (nil, nil) or (nil, err) — either
// way the failure is attributed to that single location and never aborts
// a sweep.
type Parser interface {
	Provider() model.Provider
	SessionPaths() []string
	Parse(path string) ([]*model.Session, error)
}

// Registry maps provider tags to their parser instances and is the uniform
// entry point for bulk ingestion.
type Registry struct {
	parsers map[model.Provider]Parser
	log     *zap.Logger
}

// NewRegistry constructs all supported parsers against env.
func NewRegistry(env Environment, log *zap.Logger) *Registry {
	if log == nil {
		log = zap.NewNop()
	}
	r := &Registry{
		parsers: make(map[model.Provider]Parser),
		log:     log,
	}
	for _, p := range []Parser{
		NewClaudeCodeParser(env),
		NewCodexParser(env),
		NewCursorParser(env),
		NewAiderParser(env),
		NewClineParser(env),
		NewGeminiCLIParser(env),
		NewContinueParser(env),
		NewCopilotParser(env),
		NewRooCodeParser(env),
		NewWindsurfParser(env),
		NewZedAIParser(env),
		NewAmpParser(env),
		NewOpenCodeParser(env),
		NewOpenRouterParser(env),
	} {
		r.parsers[p.Provider()] = p
	}
	return r
}

// Get returns the parser for a provider.
func (r *Registry) Get(p model.Provider) (Parser, bool) {
	parser, ok := r.parsers[p]
	return parser, ok
}

// All returns every registered parser, ordered by provider tag.
func (r *Registry) All() []Parser {
	out := make([]Parser, 0, len(r.parsers))
	for _, p := range r.parsers {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Provider() < out[j].Provider()
	})
	return out
}

// SessionPaths eagerly enumerates a provider's candidate locations,
// independent of parsing. Unknown providers yield nil.
func (r *Registry) SessionPaths(p model.Provider) []string {
	parser, ok := r.parsers[p]
	if !ok {
		return nil
	}
	return parser.SessionPaths()
}

// ParseAll streams every session a provider can produce. The sequence is
// lazy and finite; enumerating again requires a fresh call. Per-location
// failures are logged at debug level and skipped — nothing in the sweep is
// fatal. Cancellation is checked between locations.
func (r *Registry) ParseAll(ctx context.Context, p model.Provider) <-chan *model.Session {
	out := make(chan *model.Session)
	parser, ok := r.parsers[p]
	if !ok {
		close(out)
		return out
	}

	go func() {
		defer close(out)
		for _, path := range parser.SessionPaths() {
			if ctx.Err() != nil {
				return
			}
			sessions, err := parser.Parse(path)
			if err != nil {
				r.log.Debug("skipping session file",
					zap.String("provider", string(p)),
					zap.String("path", path),
					zap.Error(err))
				continue
			}
			for _, s := range sessions {
				if s == nil || len(s.Messages) == 0 {
					continue
				}
				select {
				case out <- s:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out
}
