package sqlite

import (
	"context"
	"strings"
	"time"

	"github.com/fwojciec/notescan"
	"github.com/google/uuid"
)

var _ notescan.AnalysisService = (*AnalysisService)(nil)

// AnalysisService implements notescan.AnalysisService using SQLite.
// Articles are stored in their parsed order.
type AnalysisService struct {
	db *DB
}

// NewAnalysisService creates a new AnalysisService.
func NewAnalysisService(db *DB) *AnalysisService {
	return &AnalysisService{db: db}
}

// CreateAnalysis stores an analysis with its articles and assigns a new ID.
// CreatedAt is set to the current time if it is zero.
func (s *AnalysisService) CreateAnalysis(ctx context.Context, a *notescan.Analysis) error {
	if err := a.Validate(); err != nil {
		return err
	}

	a.ID = uuid.New().String()
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now()
	}
	a.CreatedAt = a.CreatedAt.UTC().Truncate(time.Second)

	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO analyses (id, source, is_mock, raw_text, text_hash, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, a.ID, a.Source, a.Mock, a.RawText, a.TextHash, a.CreatedAt.Format(time.RFC3339)); err != nil {
		return err
	}

	for i, art := range a.Articles {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO articles (analysis_id, position, title, views, comments, likes, date)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, a.ID, i, art.Title, art.Views, art.Comments, art.Likes, art.Date); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// FindAnalysisByID retrieves an analysis with its articles.
func (s *AnalysisService) FindAnalysisByID(ctx context.Context, id string) (*notescan.Analysis, error) {
	analyses, err := s.FindAnalyses(ctx, notescan.AnalysisFilter{ID: &id, Limit: 1})
	if err != nil {
		return nil, err
	}
	if len(analyses) == 0 {
		return nil, notescan.Errorf(notescan.ENOTFOUND, "analysis not found")
	}
	return analyses[0], nil
}

// FindAnalyses retrieves analyses matching the filter, newest first.
func (s *AnalysisService) FindAnalyses(ctx context.Context, filter notescan.AnalysisFilter) ([]*notescan.Analysis, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT id, source, is_mock, raw_text, text_hash, created_at FROM analyses WHERE 1=1")

	if filter.ID != nil {
		query.WriteString(" AND id = ?")
		args = append(args, *filter.ID)
	}
	if filter.Mock != nil {
		query.WriteString(" AND is_mock = ?")
		args = append(args, *filter.Mock)
	}
	if filter.TextHash != nil {
		query.WriteString(" AND text_hash = ?")
		args = append(args, *filter.TextHash)
	}

	query.WriteString(" ORDER BY created_at DESC, rowid DESC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}

	var analyses []*notescan.Analysis
	for rows.Next() {
		var a notescan.Analysis
		var createdAt string
		if err := rows.Scan(&a.ID, &a.Source, &a.Mock, &a.RawText, &a.TextHash, &createdAt); err != nil {
			rows.Close()
			return nil, err
		}
		if a.CreatedAt, err = parseRFC3339(createdAt, "created_at"); err != nil {
			rows.Close()
			return nil, err
		}
		analyses = append(analyses, &a)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	// The connection must be released before loading articles.
	rows.Close()

	for _, a := range analyses {
		if a.Articles, err = s.findArticles(ctx, a.ID); err != nil {
			return nil, err
		}
	}
	return analyses, nil
}

func (s *AnalysisService) findArticles(ctx context.Context, analysisID string) ([]notescan.Article, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT title, views, comments, likes, date
		FROM articles
		WHERE analysis_id = ?
		ORDER BY position
	`, analysisID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	articles := []notescan.Article{}
	for rows.Next() {
		var art notescan.Article
		if err := rows.Scan(&art.Title, &art.Views, &art.Comments, &art.Likes, &art.Date); err != nil {
			return nil, err
		}
		articles = append(articles, art)
	}
	return articles, rows.Err()
}

// DeleteAnalysis permanently removes an analysis and its articles.
func (s *AnalysisService) DeleteAnalysis(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM analyses WHERE id = ?", id)
	if err != nil {
		return err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return notescan.Errorf(notescan.ENOTFOUND, "analysis not found")
	}
	return nil
}
