package sqlite

import (
	"context"
	"time"

	"github.com/fwojciec/notescan"
)

var _ notescan.FeedCheckService = (*FeedCheckService)(nil)

// FeedCheckService implements notescan.FeedCheckService using SQLite.
// Every run is appended; lookups return the latest row per URL.
type FeedCheckService struct {
	db *DB
}

// NewFeedCheckService creates a new FeedCheckService.
func NewFeedCheckService(db *DB) *FeedCheckService {
	return &FeedCheckService{db: db}
}

// CreateFeedChecks stores a batch of probe results in one transaction.
func (s *FeedCheckService) CreateFeedChecks(ctx context.Context, statuses []notescan.FeedStatus) error {
	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	for _, st := range statuses {
		if st.Feed.URL == "" {
			return notescan.Errorf(notescan.EINVALID, "feed url required")
		}
		checkedAt := st.CheckedAt
		if checkedAt.IsZero() {
			checkedAt = now
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO feed_checks (name, url, category, ok, message, final_url, items, checked_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`, st.Feed.Name, st.Feed.URL, st.Feed.Category, st.OK, st.Message, st.FinalURL, st.Items,
			checkedAt.UTC().Format(time.RFC3339)); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// FindLatestFeedChecks returns the most recent result per feed URL,
// ordered by category and name.
func (s *FeedCheckService) FindLatestFeedChecks(ctx context.Context) ([]notescan.FeedStatus, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT name, url, category, ok, message, final_url, items, checked_at
		FROM feed_checks
		WHERE id IN (SELECT MAX(id) FROM feed_checks GROUP BY url)
		ORDER BY category, name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	statuses := []notescan.FeedStatus{}
	for rows.Next() {
		var st notescan.FeedStatus
		var checkedAt string
		if err := rows.Scan(&st.Feed.Name, &st.Feed.URL, &st.Feed.Category, &st.OK, &st.Message,
			&st.FinalURL, &st.Items, &checkedAt); err != nil {
			return nil, err
		}
		if st.CheckedAt, err = parseRFC3339(checkedAt, "checked_at"); err != nil {
			return nil, err
		}
		statuses = append(statuses, st)
	}
	return statuses, rows.Err()
}
