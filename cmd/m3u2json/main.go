package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"

	"github.com/jpp0ca/PlaylistImport-API/internal/logging"
	"github.com/jpp0ca/PlaylistImport-API/internal/m3u"
)

func main() {
	logger := logging.New(os.Stderr, os.Getenv("LOG_LEVEL"))

	app := &cli.Command{
		Name:      "m3u2json",
		Usage:     "Convert an extended M3U playlist into an import document",
		ArgsUsage: "<playlist.m3u>",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "path"},
		},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output file, \"-\" for stdout (default: <playlist name>.json)",
			},
			&cli.StringFlag{
				Name:    "name",
				Aliases: []string{"n"},
				Usage:   "Playlist name used when the file has no #PLAYLIST directive (default: file name)",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			path := cmd.StringArg("path")
			if path == "" {
				return fmt.Errorf("missing required argument: path")
			}

			fallback := cmd.String("name")
			if fallback == "" {
				fallback = m3u.NameFromFilename(path)
			}

			out, err := convertFile(path, fallback, cmd.String("output"), cmd.Root().Writer)
			if err != nil {
				return err
			}
			logger.Info("converted playlist", "input", path, "output", out)
			return nil
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		logger.Fatal("conversion failed", "err", err)
	}
}

// convertFile converts the playlist at path and writes it to output, or to
// "<playlist name>.json" in the working directory when output is empty.
// It returns where the document was written.
func convertFile(path, fallback, output string, stdout io.Writer) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open playlist: %w", err)
	}
	defer f.Close()

	var buf bytes.Buffer
	req, err := m3u.Convert(f, fallback, &buf)
	if err != nil {
		return "", fmt.Errorf("%s: %w", path, err)
	}

	switch output {
	case "-":
		_, err := buf.WriteTo(stdout)
		return "stdout", err
	case "":
		output = filepath.Base(req.PlaylistName) + ".json"
	}

	if err := os.WriteFile(output, buf.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("failed to write output file: %w", err)
	}
	return output, nil
}
