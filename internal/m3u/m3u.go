// Package m3u parses extended M3U playlist listings into import requests.
package m3u

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/jpp0ca/PlaylistImport-API/internal/domain"
)

const (
	headerTag   = "#EXTM3U"
	playlistTag = "#PLAYLIST"
	trackTag    = "#EXTINF"
)

// extinf is a parsed #EXTINF directive. Only Title is carried into the
// import request.
type extinf struct {
	Duration   float64
	Properties map[string]string
	Title      string
}

type line struct {
	number int
	text   string
}

// Parse reads an extended M3U listing. fallbackName is used as the playlist
// name when the listing has no #PLAYLIST directive.
func Parse(r io.Reader, fallbackName string) (*domain.PlaylistImportRequest, error) {
	lines, err := metadataLines(r)
	if err != nil {
		return nil, err
	}

	if len(lines) == 0 || lines[0].text != headerTag {
		return nil, fmt.Errorf("%w: first directive must be %s", domain.ErrMalformedPlaylist, headerTag)
	}

	req := &domain.PlaylistImportRequest{PlaylistName: fallbackName}
	for _, l := range lines[1:] {
		directive, value, _ := strings.Cut(l.text, ":")

		switch directive {
		case playlistTag:
			if name := strings.TrimSpace(value); name != "" {
				req.PlaylistName = name
			}
		case trackTag:
			inf, err := parseExtinf(value)
			if err != nil {
				return nil, fmt.Errorf("%w: line %d: %v", domain.ErrMalformedPlaylist, l.number, err)
			}
			req.Tracks = append(req.Tracks, domain.TrackQuery{Title: inf.Title})
		}
	}

	if len(req.Tracks) == 0 {
		return nil, domain.ErrNoTracksFound
	}

	return req, nil
}

// Convert parses an M3U listing from r and writes the equivalent
// playlist-description JSON document to w.
func Convert(r io.Reader, fallbackName string, w io.Writer) (*domain.PlaylistImportRequest, error) {
	req, err := Parse(r, fallbackName)
	if err != nil {
		return nil, err
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(req); err != nil {
		return nil, fmt.Errorf("failed to write playlist document: %w", err)
	}
	return req, nil
}

// NameFromFilename derives a playlist name from a file path: the base name
// with its trailing extension removed.
func NameFromFilename(path string) string {
	base := filepath.Base(path)
	if base == "." || base == string(filepath.Separator) {
		return ""
	}
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// metadataLines returns trimmed, non-blank lines starting with '#', keeping
// their 1-based line numbers for error messages.
func metadataLines(r io.Reader) ([]line, error) {
	var lines []line

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	n := 0
	for scanner.Scan() {
		n++
		text := strings.TrimSpace(scanner.Text())
		if n == 1 {
			text = strings.TrimPrefix(text, "\ufeff")
		}
		if text == "" || !strings.HasPrefix(text, "#") {
			continue
		}
		lines = append(lines, line{number: n, text: text})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read playlist: %w", err)
	}
	return lines, nil
}

// parseExtinf parses "<duration>[ key=value ...],<title>".
func parseExtinf(value string) (extinf, error) {
	head, title, ok := strings.Cut(value, ",")
	if !ok {
		return extinf{}, fmt.Errorf("missing ',' before track title")
	}

	title = strings.TrimSpace(title)
	if title == "" {
		return extinf{}, fmt.Errorf("empty track title")
	}

	fields, err := splitFields(head)
	if err != nil {
		return extinf{}, err
	}
	if len(fields) == 0 {
		return extinf{}, fmt.Errorf("missing duration")
	}

	duration, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return extinf{}, fmt.Errorf("invalid duration %q", fields[0])
	}

	props := make(map[string]string, len(fields)-1)
	for _, f := range fields[1:] {
		k, v, ok := strings.Cut(f, "=")
		if !ok || k == "" {
			return extinf{}, fmt.Errorf("invalid property %q", f)
		}
		props[k] = strings.Trim(v, `"`)
	}

	return extinf{Duration: duration, Properties: props, Title: title}, nil
}

// splitFields splits on whitespace outside double quotes.
func splitFields(s string) ([]string, error) {
	var (
		fields  []string
		current strings.Builder
		quoted  bool
	)

	flush := func() {
		if current.Len() > 0 {
			fields = append(fields, current.String())
			current.Reset()
		}
	}

	for _, r := range s {
		switch {
		case r == '"':
			quoted = !quoted
			current.WriteRune(r)
		case !quoted && (r == ' ' || r == '\t'):
			flush()
		default:
			current.WriteRune(r)
		}
	}
	if quoted {
		return nil, fmt.Errorf("unterminated quote in %q", s)
	}
	flush()

	return fields, nil
}
