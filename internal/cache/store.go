package cache

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/brandon/mcp-videoteam/pkg/types"
)

// Store provides methods for storing and retrieving data from the cache
type Store struct {
	cache  *Cache
	logger *logrus.Logger
}

// NewStore creates a new store instance
func NewStore(cache *Cache, logger *logrus.Logger) *Store {
	return &Store{
		cache:  cache,
		logger: logger,
	}
}

// GetMainID returns the cached main identifier for a contact identifier.
func (s *Store) GetMainID(contactID string) (string, bool, error) {
	var mainID string
	err := s.cache.DB().QueryRow("SELECT main_id FROM athlete_ids WHERE contact_id = ?", contactID).Scan(&mainID)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read identifier mapping: %w", err)
	}
	return mainID, true, nil
}

// PutMainID records a resolved identifier mapping. Mappings are write-once:
// an existing row is never overwritten.
func (s *Store) PutMainID(contactID, mainID string) error {
	if contactID == "" || mainID == "" {
		return fmt.Errorf("identifier mapping requires both ids")
	}
	_, err := s.cache.DB().Exec(
		"INSERT INTO athlete_ids (contact_id, main_id) VALUES (?, ?) ON CONFLICT(contact_id) DO NOTHING",
		contactID, mainID,
	)
	if err != nil {
		return fmt.Errorf("failed to store identifier mapping: %w", err)
	}
	return nil
}

// GetThreadPage returns a cached listing page younger than ttl.
func (s *Store) GetThreadPage(filter string, page int, ttl time.Duration) ([]types.InboxThread, bool, error) {
	var payload, cachedAtStr string
	err := s.cache.DB().QueryRow(
		"SELECT payload, cached_at FROM thread_pages WHERE filter = ? AND page = ?",
		filter, page,
	).Scan(&payload, &cachedAtStr)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read thread page: %w", err)
	}

	cachedAt, err := time.Parse("2006-01-02 15:04:05", cachedAtStr)
	if err != nil {
		cachedAt, err = time.Parse(time.RFC3339, cachedAtStr)
		if err != nil {
			return nil, false, nil
		}
	}
	if time.Since(cachedAt) > ttl {
		return nil, false, nil
	}

	var threads []types.InboxThread
	if err := json.Unmarshal([]byte(payload), &threads); err != nil {
		s.logger.WithError(err).WithFields(logrus.Fields{
			"filter": filter,
			"page":   page,
		}).Warn("Discarding corrupt cached thread page")
		return nil, false, nil
	}
	return threads, true, nil
}

// PutThreadPage stores a listing page snapshot.
func (s *Store) PutThreadPage(filter string, page int, threads []types.InboxThread) error {
	payload, err := json.Marshal(threads)
	if err != nil {
		return fmt.Errorf("failed to marshal thread page: %w", err)
	}
	_, err = s.cache.DB().Exec(`
		INSERT INTO thread_pages (filter, page, payload, cached_at)
		VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(filter, page) DO UPDATE SET
			payload = excluded.payload,
			cached_at = CURRENT_TIMESTAMP
	`, filter, page, string(payload))
	if err != nil {
		return fmt.Errorf("failed to store thread page: %w", err)
	}
	return nil
}

// PruneThreadPages drops listing snapshots older than ttl.
func (s *Store) PruneThreadPages(ttl time.Duration) error {
	cutoff := time.Now().Add(-ttl).UTC().Format("2006-01-02 15:04:05")
	_, err := s.cache.DB().Exec("DELETE FROM thread_pages WHERE cached_at < ?", cutoff)
	if err != nil {
		return fmt.Errorf("failed to prune thread pages: %w", err)
	}
	return nil
}
