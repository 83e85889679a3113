package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/fwojciec/notescan"
	"github.com/fwojciec/notescan/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) *sqlite.DB {
	t.Helper()
	db := sqlite.NewDB(":memory:")
	require.NoError(t, db.Open())
	t.Cleanup(func() { db.Close() })
	return db
}

func newAnalysis() *notescan.Analysis {
	return &notescan.Analysis{
		Source: "ocr",
		Articles: []notescan.Article{
			{Title: "AIの未来について考える", Views: 1234, Comments: 5, Likes: 89, Date: "2025-06-30"},
			{Title: "プログラミング学習のコツ", Views: 567, Comments: 0, Likes: 23, Date: "2025-06-30"},
		},
		RawText:  "AIの未来について考える\n1234\nビュー",
		TextHash: "00000000000000ff",
	}
}

func TestAnalysisService_CreateAnalysis(t *testing.T) {
	t.Parallel()

	t.Run("assigns ID and timestamp", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewAnalysisService(setupTestDB(t))
		a := newAnalysis()

		err := svc.CreateAnalysis(context.Background(), a)

		require.NoError(t, err)
		assert.NotEmpty(t, a.ID)
		assert.False(t, a.CreatedAt.IsZero())
	})

	t.Run("keeps a provided timestamp", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewAnalysisService(setupTestDB(t))
		a := newAnalysis()
		a.CreatedAt = time.Date(2025, 6, 30, 12, 0, 0, 0, time.UTC)

		require.NoError(t, svc.CreateAnalysis(context.Background(), a))

		found, err := svc.FindAnalysisByID(context.Background(), a.ID)
		require.NoError(t, err)
		assert.True(t, a.CreatedAt.Equal(found.CreatedAt))
	})

	t.Run("rejects invalid articles", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewAnalysisService(setupTestDB(t))
		a := newAnalysis()
		a.Articles[1].Views = -1

		err := svc.CreateAnalysis(context.Background(), a)

		assert.Equal(t, notescan.EINVALID, notescan.ErrorCode(err))
	})

	t.Run("stores an analysis without articles", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewAnalysisService(setupTestDB(t))
		a := &notescan.Analysis{Source: "ocr", Articles: []notescan.Article{}}

		require.NoError(t, svc.CreateAnalysis(context.Background(), a))

		found, err := svc.FindAnalysisByID(context.Background(), a.ID)
		require.NoError(t, err)
		assert.NotNil(t, found.Articles)
		assert.Empty(t, found.Articles)
	})
}

func TestAnalysisService_FindAnalysisByID(t *testing.T) {
	t.Parallel()

	t.Run("returns analysis with articles in order", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewAnalysisService(setupTestDB(t))
		a := newAnalysis()
		require.NoError(t, svc.CreateAnalysis(context.Background(), a))

		found, err := svc.FindAnalysisByID(context.Background(), a.ID)

		require.NoError(t, err)
		assert.Equal(t, a.Source, found.Source)
		assert.Equal(t, a.RawText, found.RawText)
		assert.Equal(t, a.TextHash, found.TextHash)
		assert.False(t, found.Mock)
		assert.Equal(t, a.Articles, found.Articles)
	})

	t.Run("returns ENOTFOUND for missing analysis", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewAnalysisService(setupTestDB(t))

		_, err := svc.FindAnalysisByID(context.Background(), "missing")

		assert.Equal(t, notescan.ENOTFOUND, notescan.ErrorCode(err))
	})
}

func TestAnalysisService_FindAnalyses(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	setup := func(t *testing.T) (*sqlite.AnalysisService, []*notescan.Analysis) {
		t.Helper()
		svc := sqlite.NewAnalysisService(setupTestDB(t))
		base := time.Date(2025, 6, 30, 12, 0, 0, 0, time.UTC)
		var created []*notescan.Analysis
		for i := range 3 {
			a := newAnalysis()
			a.CreatedAt = base.Add(time.Duration(i) * time.Hour)
			a.Mock = i == 1
			require.NoError(t, svc.CreateAnalysis(ctx, a))
			created = append(created, a)
		}
		return svc, created
	}

	t.Run("newest first", func(t *testing.T) {
		t.Parallel()

		svc, created := setup(t)

		found, err := svc.FindAnalyses(ctx, notescan.AnalysisFilter{})

		require.NoError(t, err)
		require.Len(t, found, 3)
		assert.Equal(t, created[2].ID, found[0].ID)
		assert.Equal(t, created[0].ID, found[2].ID)
		assert.Len(t, found[0].Articles, 2)
	})

	t.Run("filters by mock flag", func(t *testing.T) {
		t.Parallel()

		svc, created := setup(t)
		mock := true

		found, err := svc.FindAnalyses(ctx, notescan.AnalysisFilter{Mock: &mock})

		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, created[1].ID, found[0].ID)
		assert.True(t, found[0].Mock)
	})

	t.Run("filters by text hash", func(t *testing.T) {
		t.Parallel()

		svc, _ := setup(t)
		hash := "unknown"

		found, err := svc.FindAnalyses(ctx, notescan.AnalysisFilter{TextHash: &hash})

		require.NoError(t, err)
		assert.Empty(t, found)
	})

	t.Run("paginates", func(t *testing.T) {
		t.Parallel()

		svc, created := setup(t)

		found, err := svc.FindAnalyses(ctx, notescan.AnalysisFilter{Limit: 1, Offset: 1})

		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, created[1].ID, found[0].ID)
	})
}

func TestAnalysisService_DeleteAnalysis(t *testing.T) {
	t.Parallel()

	t.Run("removes analysis and articles", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewAnalysisService(db)
		a := newAnalysis()
		require.NoError(t, svc.CreateAnalysis(context.Background(), a))

		require.NoError(t, svc.DeleteAnalysis(context.Background(), a.ID))

		_, err := svc.FindAnalysisByID(context.Background(), a.ID)
		assert.Equal(t, notescan.ENOTFOUND, notescan.ErrorCode(err))

		var n int
		require.NoError(t, db.QueryRowContext(context.Background(), "SELECT COUNT(*) FROM articles").Scan(&n))
		assert.Zero(t, n)
	})

	t.Run("returns ENOTFOUND for missing analysis", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewAnalysisService(setupTestDB(t))

		err := svc.DeleteAnalysis(context.Background(), "missing")

		assert.Equal(t, notescan.ENOTFOUND, notescan.ErrorCode(err))
	})
}
