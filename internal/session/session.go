// Package session persists search sessions to the data directory so a
// paged search can be resumed across process restarts. A session is
// the combination of a catalog, a raw query and the number of results
// already fetched.
package session

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/edpop/explorer/pkg/config"
	"github.com/edpop/explorer/pkg/errors"
	"github.com/edpop/explorer/pkg/json"
	"github.com/edpop/explorer/pkg/logger"
	"github.com/edpop/explorer/pkg/reader"
	"github.com/edpop/explorer/pkg/reader/registry"
)

// Session is one persisted search session.
type Session struct {
	// ID is the session's file name stem
	ID string `json:"id"`
	// Catalog is the catalog slug
	Catalog string `json:"catalog"`
	// Query is the raw, untransformed search query
	Query string `json:"query"`
	// Key is the reader's session identifier, "slug | prepared query"
	Key string `json:"key"`
	// Position is the number of results already fetched
	Position int `json:"position"`
	// UpdatedAt is the time of the last save
	UpdatedAt time.Time `json:"updated_at"`
}

// Store reads and writes sessions under one directory.
type Store struct {
	dir string
	log *zap.Logger
}

// NewStore creates a session store under the data directory.
func NewStore(dataDir string) *Store {
	return &Store{
		dir: filepath.Join(dataDir, "sessions"),
		log: logger.With(zap.String("component", "session_store")),
	}
}

// Begin creates and persists a session for a reader that has a query
// set.
func (s *Store) Begin(catalogSlug, query string, r reader.Reader) (*Session, error) {
	key, err := r.GenerateIdentifier()
	if err != nil {
		return nil, err
	}
	session := &Session{
		ID:      uuid.NewString(),
		Catalog: catalogSlug,
		Query:   query,
		Key:     key,
	}
	if err := s.Save(session, r); err != nil {
		return nil, err
	}
	return session, nil
}

// Save writes the session with the reader's current fetch cursor. The
// cursor, not the record count, is what survives a resume: a resumed
// reader only holds the records fetched since it was restored.
func (s *Store) Save(session *Session, r reader.Reader) error {
	session.Position = r.FetchPosition()
	session.UpdatedAt = time.Now().UTC()

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return errors.Wrap(err, errors.ErrorTypeConfig, "creating session directory")
	}
	encoded, err := json.MarshalIndent(session, "", "  ")
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeData, "encoding session")
	}
	if err := os.WriteFile(s.path(session.ID), encoded, 0o644); err != nil {
		return errors.Wrap(err, errors.ErrorTypeConfig, "writing session file")
	}
	s.log.Debug("session saved",
		zap.String("session_id", session.ID),
		zap.Int("position", session.Position))
	return nil
}

// Load reads one session by ID.
func (s *Store) Load(id string) (*Session, error) {
	encoded, err := os.ReadFile(s.path(id))
	if os.IsNotExist(err) {
		return nil, errors.Newf(errors.ErrorTypeNotFound, "session %s does not exist", id)
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeConfig, "reading session file")
	}
	var session Session
	if err := json.Unmarshal(encoded, &session); err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeData, "decoding session")
	}
	return &session, nil
}

// List returns all persisted sessions, most recently updated first.
func (s *Store) List() ([]*Session, error) {
	entries, err := os.ReadDir(s.dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeConfig, "reading session directory")
	}

	var sessions []*Session
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		session, err := s.Load(strings.TrimSuffix(entry.Name(), ".json"))
		if err != nil {
			s.log.Warn("skipping unreadable session",
				zap.String("file", entry.Name()), zap.Error(err))
			continue
		}
		sessions = append(sessions, session)
	}
	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].UpdatedAt.After(sessions[j].UpdatedAt)
	})
	return sessions, nil
}

// Delete removes one session.
func (s *Store) Delete(id string) error {
	err := os.Remove(s.path(id))
	if os.IsNotExist(err) {
		return errors.Newf(errors.ErrorTypeNotFound, "session %s does not exist", id)
	}
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeConfig, "removing session file")
	}
	return nil
}

// Resume restores a reader for the session: a fresh reader with the
// session's query and the fetch cursor moved past the already-fetched
// results.
func (s *Store) Resume(session *Session, cfg *config.BaseConfig) (reader.Reader, error) {
	r, err := registry.Create(session.Catalog, cfg)
	if err != nil {
		return nil, err
	}
	if err := r.PrepareQuery(session.Query); err != nil {
		return nil, err
	}

	// guard against a session written by a different query transform
	key, err := r.GenerateIdentifier()
	if err != nil {
		return nil, err
	}
	if session.Key != "" && key != session.Key {
		return nil, errors.Newf(errors.ErrorTypeReader,
			"session key mismatch: stored %q, current %q", session.Key, key)
	}

	if err := r.AdjustStartRecord(session.Position); err != nil {
		return nil, err
	}
	return r, nil
}

func (s *Store) path(id string) string {
	return filepath.Join(s.dir, id+".json")
}
