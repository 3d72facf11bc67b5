package app

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/jpp0ca/PlaylistImport-API/internal/domain"
	"github.com/jpp0ca/PlaylistImport-API/internal/ports"
)

// Searcher is the subset of ports.MusicClient the resolver needs.
type Searcher interface {
	Search(ctx context.Context, token string, query string) (ports.SearchResult, error)
}

// Resolver maps free-text track queries to remote track URIs, one search call
// per track, strictly in input order.
type Resolver struct {
	searcher Searcher
	logger   *log.Logger
}

// NewResolver creates a resolver that searches through searcher.
func NewResolver(searcher Searcher, logger *log.Logger) *Resolver {
	if logger == nil {
		logger = log.Default()
	}
	return &Resolver{searcher: searcher, logger: logger.With("component", "resolver")}
}

// Resolve returns one ResolvedTrack per query, in the same order, plus the
// URIs of the tracks that resolved. A failed search is recorded on its track
// via the status code and never stops the remaining tracks.
func (r *Resolver) Resolve(ctx context.Context, token string, tracks []domain.TrackQuery) ([]domain.ResolvedTrack, []string) {
	resolved := make([]domain.ResolvedTrack, len(tracks))
	var uris []string

	for i, track := range tracks {
		rt := domain.ResolvedTrack{TrackQuery: track}

		result, err := r.searcher.Search(ctx, token, track.Title)
		rt.StatusCode = result.StatusCode

		switch {
		case err != nil:
			r.logger.Warn("search failed", "title", track.Title, "status", result.StatusCode, "err", err)
		case len(result.URIs) == 0:
			r.logger.Info("track not found", "title", track.Title)
		default:
			rt.RemoteURI = result.URIs[0]
			uris = append(uris, rt.RemoteURI)
			r.logger.Debug("resolved track", "title", track.Title, "uri", rt.RemoteURI)
		}

		resolved[i] = rt
	}

	r.logger.Info("resolution complete", "tracks", len(tracks), "resolved", len(uris))
	return resolved, uris
}
