package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/charmbracelet/log"

	"github.com/jpp0ca/PlaylistImport-API/internal/domain"
	"github.com/jpp0ca/PlaylistImport-API/internal/ports"
)

const (
	// PlaylistNamePrefix marks playlists created by an import.
	PlaylistNamePrefix = "Imported "

	MessageImported         = "Imported playlist"
	MessageNoTracksResolved = "No tracks were resolved"
	MessageCreationFailed   = "Error creating playlist"
)

// Service implements ports.ImportService: resolve every track, create a
// private remote playlist and attach the resolved tracks in one call.
type Service struct {
	client   ports.MusicClient
	resolver *Resolver
	logger   *log.Logger
}

// NewService creates an import service backed by the given remote client.
func NewService(client ports.MusicClient, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.Default()
	}
	return &Service{
		client:   client,
		resolver: NewResolver(client, logger),
		logger:   logger.With("component", "importer"),
	}
}

func (s *Service) Import(ctx context.Context, params ports.ImportParams) (*domain.PlaylistImportResult, error) {
	req := params.Request

	// Step 1: Resolve every track, in order
	s.logger.Info("resolving tracks", "playlist", req.PlaylistName, "tracks", len(req.Tracks))
	tracks, uris := s.resolver.Resolve(ctx, params.AccessToken, req.Tracks)

	if len(uris) == 0 {
		s.logger.Error("no tracks were resolved", "playlist", req.PlaylistName)
		return &domain.PlaylistImportResult{
			Message:    MessageNoTracksResolved,
			Tracks:     tracks,
			StatusCode: http.StatusBadRequest,
		}, domain.ErrNoTracksResolved
	}

	// Step 2: Create the destination playlist
	name := PlaylistNamePrefix + req.PlaylistName
	created, err := s.client.CreatePlaylist(ctx, params.AccessToken, params.UserID, name)
	if err == nil && created.StatusCode != http.StatusCreated {
		err = fmt.Errorf("unexpected status %d", created.StatusCode)
	}
	if err != nil {
		s.logger.Error("failed to create playlist", "playlist", name, "status", created.StatusCode, "err", err)
		status := created.StatusCode
		if created.StatusCode == http.StatusCreated {
			// created, but the response could not be used
			status = http.StatusBadGateway
		}
		return &domain.PlaylistImportResult{
			Message:    MessageCreationFailed,
			Tracks:     tracks,
			StatusCode: upstreamStatus(status),
		}, &domain.RemoteError{
			Kind:       domain.ErrPlaylistCreationFailed,
			StatusCode: created.StatusCode,
			Detail:     err.Error(),
		}
	}

	s.logger.Info("created playlist", "playlist", name, "id", created.ID)

	// Step 3: Attach the resolved tracks in a single call
	status, err := s.client.AddTracks(ctx, params.AccessToken, created.ID, uris)
	if err != nil {
		s.logger.Error("failed to add tracks", "id", created.ID, "status", status, "err", err)
	}

	for i := range tracks {
		if tracks[i].Resolved() {
			tracks[i].StatusCode = status
		}
	}

	s.logger.Info("import complete", "id", created.ID, "attached", len(uris), "status", status)

	return &domain.PlaylistImportResult{
		Message:    MessageImported,
		Tracks:     tracks,
		StatusCode: upstreamStatus(status),
		PlaylistID: created.ID,
	}, nil
}

// upstreamStatus maps a missing remote status (transport failure) to 502.
func upstreamStatus(status int) int {
	if status == 0 {
		return http.StatusBadGateway
	}
	return status
}
