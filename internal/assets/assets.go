// Package assets implements the static asset host: user-uploaded
// attachments are stored on disk under a generated filename, indexed in
// SQLite, and served at a public URL by the API server.
package assets

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"os"
	"path/filepath"
	"time"

	_ "embed"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/Arwei0/line-chatbot/internal/models"
)

// DefaultDirPermissions defines the default permissions for asset
// directories.
const DefaultDirPermissions = 0755

// StaticPathPrefix is the URL path prefix the API server mounts the asset
// directory under.
const StaticPathPrefix = "/static/"

//go:embed migrations_sqlite.sql
var sqliteMigrations string

// Downloader fetches the binary payload of an inbound message. Implemented
// by the LINE client's blob API wrapper.
type Downloader interface {
	DownloadContent(ctx context.Context, messageID string) (io.ReadCloser, string, error)
}

// Opts holds configuration options for the asset host.
type Opts struct {
	Dir     string
	DBPath  string
	BaseURL string
}

// Option defines a configuration option for the asset host.
type Option func(*Opts)

// WithDir sets the directory asset files are written to.
func WithDir(dir string) Option {
	return func(o *Opts) { o.Dir = dir }
}

// WithDBPath sets the SQLite index path. Defaults to assets.db inside the
// asset directory.
func WithDBPath(path string) Option {
	return func(o *Opts) { o.DBPath = path }
}

// WithBaseURL sets the public base URL the service is reachable at, used to
// build fetchable asset URLs.
func WithBaseURL(base string) Option {
	return func(o *Opts) { o.BaseURL = base }
}

// Host stores and indexes uploaded assets.
type Host struct {
	dir        string
	baseURL    string
	db         *sql.DB
	downloader Downloader
}

// NewHost creates the asset host, ensuring the directory exists and the
// index schema is applied.
func NewHost(downloader Downloader, opts ...Option) (*Host, error) {
	var cfg Opts
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.Dir == "" {
		return nil, fmt.Errorf("asset directory not set")
	}
	if cfg.DBPath == "" {
		cfg.DBPath = filepath.Join(cfg.Dir, "assets.db")
	}

	if err := os.MkdirAll(cfg.Dir, DefaultDirPermissions); err != nil {
		return nil, fmt.Errorf("failed to create asset directory: %w", err)
	}

	db, err := sql.Open("sqlite3", cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open asset index: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("asset index ping failed: %w", err)
	}
	if _, err := db.Exec(sqliteMigrations); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run asset index migrations: %w", err)
	}

	slog.Debug("asset host initialized", "dir", cfg.Dir, "db_path", cfg.DBPath, "base_url", cfg.BaseURL)
	return &Host{dir: cfg.Dir, baseURL: cfg.BaseURL, db: db, downloader: downloader}, nil
}

// Close releases the index database handle.
func (h *Host) Close() error {
	return h.db.Close()
}

// Dir returns the directory asset files live in, for the static file
// server.
func (h *Host) Dir() string {
	return h.dir
}

// StoreAttachment downloads the attachment for the provider message id,
// writes it under a generated filename, indexes it, and returns the public
// URL it is served at.
func (h *Host) StoreAttachment(ctx context.Context, messageID string) (string, error) {
	if h.downloader == nil {
		return "", fmt.Errorf("no content downloader configured")
	}

	body, mediaType, err := h.downloader.DownloadContent(ctx, messageID)
	if err != nil {
		return "", fmt.Errorf("failed to fetch attachment %s: %w", messageID, err)
	}
	defer body.Close()

	name := uuid.NewString() + extensionFor(mediaType)
	path := filepath.Join(h.dir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create asset file: %w", err)
	}
	size, err := io.Copy(f, body)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(path)
		return "", fmt.Errorf("failed to write asset file: %w", err)
	}

	if err := h.index(models.Asset{
		Name:      name,
		SourceID:  messageID,
		MediaType: mediaType,
		Size:      size,
		CreatedAt: time.Now().Unix(),
	}); err != nil {
		os.Remove(path)
		return "", err
	}

	url := h.baseURL + StaticPathPrefix + name
	slog.Info("attachment stored", "name", name, "size", size, "media_type", mediaType)
	return url, nil
}

func (h *Host) index(a models.Asset) error {
	_, err := h.db.Exec(
		"INSERT INTO assets (name, source_id, media_type, size, created_at) VALUES (?, ?, ?, ?, ?)",
		a.Name, a.SourceID, a.MediaType, a.Size, a.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to index asset: %w", err)
	}
	return nil
}

// List returns all indexed assets, newest first.
func (h *Host) List() ([]models.Asset, error) {
	rows, err := h.db.Query("SELECT name, source_id, media_type, size, created_at FROM assets ORDER BY created_at DESC")
	if err != nil {
		return nil, fmt.Errorf("failed to list assets: %w", err)
	}
	defer rows.Close()

	var out []models.Asset
	for rows.Next() {
		var a models.Asset
		if err := rows.Scan(&a.Name, &a.SourceID, &a.MediaType, &a.Size, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan asset row: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// PurgeOlderThan removes asset files and index rows older than the
// retention window. It returns how many assets were purged.
func (h *Host) PurgeOlderThan(retention time.Duration) (int, error) {
	cutoff := time.Now().Add(-retention).Unix()

	rows, err := h.db.Query("SELECT name FROM assets WHERE created_at < ?", cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to query stale assets: %w", err)
	}
	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			rows.Close()
			return 0, fmt.Errorf("failed to scan stale asset: %w", err)
		}
		names = append(names, name)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return 0, err
	}

	purged := 0
	for _, name := range names {
		if err := os.Remove(filepath.Join(h.dir, name)); err != nil && !os.IsNotExist(err) {
			slog.Warn("failed to remove stale asset file", "error", err, "name", name)
			continue
		}
		if _, err := h.db.Exec("DELETE FROM assets WHERE name = ?", name); err != nil {
			slog.Warn("failed to remove stale asset row", "error", err, "name", name)
			continue
		}
		purged++
	}
	if purged > 0 {
		slog.Info("stale assets purged", "count", purged, "retention", retention)
	}
	return purged, nil
}

// extensionFor maps a media type to a filename extension, defaulting to
// .bin for unknown types.
func extensionFor(mediaType string) string {
	switch mediaType {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	}
	if exts, err := mime.ExtensionsByType(mediaType); err == nil && len(exts) > 0 {
		return exts[0]
	}
	return ".bin"
}
