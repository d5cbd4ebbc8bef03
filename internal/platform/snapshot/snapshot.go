// Package snapshot implements the optional save/load collaborator. The
// core stores are strictly in-memory; this package externalizes their
// contents as a JSON document per user and restores them at startup.
// The core never blocks on it.
package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/medtrack-api/internal/domain"
	"github.com/phrazzld/medtrack-api/internal/store"
)

// UserDocument is the externalized per-user state layout. Times serialize
// as HH:MM strings and dates as YYYY-MM-DD strings via the domain types.
type UserDocument struct {
	ID               uuid.UUID               `json:"id"`
	Username         string                  `json:"username"`
	CredentialDigest string                  `json:"credential_digest"`
	CreatedAt        time.Time               `json:"created_at"`
	Schedule         []*domain.MedicineEntry `json:"schedule"`
	Ledger           []domain.AdherenceRecord `json:"ledger"`
	Streak           int                     `json:"streak"`
	StreakDate       domain.Date             `json:"streak_date"`
	LastSeenDate     domain.Date             `json:"last_seen_date"`
}

// FileStore reads and writes the snapshot file.
type FileStore struct {
	path   string
	logger *slog.Logger
}

// NewFileStore creates a FileStore for the given path.
func NewFileStore(path string, logger *slog.Logger) *FileStore {
	return &FileStore{
		path:   path,
		logger: logger.With("component", "snapshot"),
	}
}

// Save writes the documents to the snapshot file. The write goes through a
// temporary file and a rename so a crash mid-write never corrupts an
// existing snapshot.
func (s *FileStore) Save(ctx context.Context, docs []UserDocument) error {
	data, err := json.MarshalIndent(docs, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".snapshot-*")
	if err != nil {
		return fmt.Errorf("failed to create temp snapshot file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to close snapshot file: %w", err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to replace snapshot file: %w", err)
	}

	s.logger.Info("snapshot saved", "path", s.path, "users", len(docs))
	return nil
}

// Load reads the snapshot file. A missing file is not an error; it simply
// yields no documents.
func (s *FileStore) Load(ctx context.Context) ([]UserDocument, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}

	var docs []UserDocument
	if err := json.Unmarshal(data, &docs); err != nil {
		return nil, fmt.Errorf("failed to unmarshal snapshot: %w", err)
	}

	s.logger.Info("snapshot loaded", "path", s.path, "users", len(docs))
	return docs, nil
}

// Collect assembles one document per registered user from the core stores.
func Collect(
	ctx context.Context,
	users store.UserStore,
	schedule store.ScheduleStore,
	ledger store.LedgerStore,
	states store.StateStore,
) ([]UserDocument, error) {
	all, err := users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	docs := make([]UserDocument, 0, len(all))
	for _, user := range all {
		entries, err := schedule.List(ctx, user.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to list schedule for %s: %w", user.ID, err)
		}
		records, err := ledger.All(ctx, user.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to read ledger for %s: %w", user.ID, err)
		}
		state, err := states.Get(ctx, user.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to read state for %s: %w", user.ID, err)
		}

		docs = append(docs, UserDocument{
			ID:               user.ID,
			Username:         user.Username,
			CredentialDigest: user.HashedPassword,
			CreatedAt:        user.CreatedAt,
			Schedule:         entries,
			Ledger:           records,
			Streak:           state.Streak.Value,
			StreakDate:       state.StreakDate,
			LastSeenDate:     state.LastSeenDate,
		})
	}
	return docs, nil
}

// Restore replays the documents into the core stores. Intended for empty
// stores at startup; a document for an already-registered username is
// skipped with a warning rather than failing the whole restore.
func Restore(
	ctx context.Context,
	docs []UserDocument,
	users store.UserStore,
	schedule store.ScheduleStore,
	ledger store.LedgerStore,
	states store.StateStore,
	logger *slog.Logger,
) error {
	for _, doc := range docs {
		user := &domain.User{
			ID:             doc.ID,
			Username:       doc.Username,
			HashedPassword: doc.CredentialDigest,
			CreatedAt:      doc.CreatedAt,
		}
		if err := users.Create(ctx, user); err != nil {
			if errors.Is(err, store.ErrUsernameExists) {
				logger.Warn("snapshot user already present, skipping", "username", doc.Username)
				continue
			}
			return fmt.Errorf("failed to restore user %q: %w", doc.Username, err)
		}

		for _, entry := range doc.Schedule {
			if err := schedule.Add(ctx, user.ID, entry); err != nil {
				return fmt.Errorf("failed to restore schedule for %q: %w", doc.Username, err)
			}
		}
		for _, record := range doc.Ledger {
			if err := ledger.Commit(ctx, user.ID, record); err != nil {
				return fmt.Errorf("failed to restore ledger for %q: %w", doc.Username, err)
			}
		}

		state := &domain.TrackerState{
			Streak:       domain.StreakCounter{Value: doc.Streak},
			StreakDate:   doc.StreakDate,
			LastSeenDate: doc.LastSeenDate,
		}
		if err := states.Save(ctx, user.ID, state); err != nil {
			return fmt.Errorf("failed to restore state for %q: %w", doc.Username, err)
		}
	}
	return nil
}
