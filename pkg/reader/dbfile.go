package reader

import (
	"context"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/edpop/explorer/pkg/clients"
	"github.com/edpop/explorer/pkg/errors"
	"github.com/edpop/explorer/pkg/logger"
)

// DatabaseFile describes a local database a reader depends on, with an
// optional download location. Readers over flat-file databases embed
// it and call Prepare before their first query.
type DatabaseFile struct {
	// URL to download the database from; empty when the file must be
	// obtained manually
	URL string
	// Filename under which the database lives in the data directory
	Filename string
	// License is a URL describing the terms of the downloaded data
	License string
}

// Prepare ensures the database file is available in dataDir and
// returns its full path, downloading it first when a URL is known.
func (d *DatabaseFile) Prepare(ctx context.Context, dataDir string, client *clients.HTTPClient) (string, error) {
	if d.Filename == "" {
		return "", errors.New(errors.ErrorTypeConfig, "database filename not set")
	}
	path := filepath.Join(dataDir, d.Filename)
	if _, err := os.Stat(path); err == nil {
		return path, nil
	}

	if d.URL == "" {
		return "", errors.Newf(errors.ErrorTypeReader,
			"database not found; obtain the file %s from the project team and place it in %s",
			d.Filename, dataDir)
	}

	log := logger.With(zap.String("url", d.URL), zap.String("path", path))
	log.Info("downloading database")

	body, err := client.GetBody(ctx, d.URL, nil)
	if err != nil {
		return "", errors.Wrap(err, errors.ErrorTypeReader, "downloading database file")
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return "", errors.Wrap(err, errors.ErrorTypeReader, "creating data directory")
	}
	if err := os.WriteFile(path, body, 0o644); err != nil {
		return "", errors.Wrap(err, errors.ErrorTypeReader, "writing database file to disk")
	}

	log.Info("successfully saved database", zap.String("license", d.License))
	return path, nil
}
