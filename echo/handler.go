package echo

import (
	"net/http"
	"strconv"

	"github.com/fwojciec/notescan"
	"github.com/labstack/echo/v4"
)

// DefaultHistoryLimit caps /analyses when no limit is given.
const DefaultHistoryLimit = 20

// Health messages.
const (
	HealthMessageReal = "Gemini テキスト認識 稼働中"
	HealthMessageMock = "モックOCRサーバーが稼働中です（Gemini API不要）"
)

// Health types.
const (
	HealthTypeReal = "real"
	HealthTypeMock = "mock"
)

// InfoResponse describes the server at GET /.
type InfoResponse struct {
	Name        string            `json:"name"`
	Version     string            `json:"version"`
	Description string            `json:"description"`
	Endpoints   map[string]string `json:"endpoints"`
	Note        string            `json:"note,omitempty"`
}

func (s *Server) handleIndex(c echo.Context) error {
	endpoints := map[string]string{
		"/":        "サーバー情報",
		"/health":  "ヘルスチェック",
		"/analyze": "画像解析（POST）",
	}
	if s.cfg.Analyses != nil {
		endpoints["/analyses"] = "解析履歴"
	}
	if s.cfg.FeedChecks != nil {
		endpoints["/feeds/status"] = "フィード検証結果"
	}
	if s.cfg.Metrics != nil {
		endpoints["/metrics"] = "Prometheus メトリクス"
	}

	resp := InfoResponse{
		Name:        "notescan",
		Version:     s.cfg.Version,
		Description: "note ダッシュボードのスクリーンショットから記事の統計を抽出するサーバー",
		Endpoints:   endpoints,
	}
	if s.cfg.Mock {
		resp.Note = "このサーバーは実際のテキスト認識は行いません。デモ用のモックデータを返します。"
	}
	return c.JSON(http.StatusOK, resp)
}

func (s *Server) handleHealth(c echo.Context) error {
	setHealthCORS(c)
	resp := notescan.HealthResponse{
		Status:  "ok",
		Type:    HealthTypeReal,
		Message: HealthMessageReal,
	}
	if s.cfg.Mock {
		resp.Type = HealthTypeMock
		resp.Message = HealthMessageMock
	}
	return c.JSON(http.StatusOK, resp)
}

func (s *Server) handleHealthPreflight(c echo.Context) error {
	setHealthCORS(c)
	return c.NoContent(http.StatusOK)
}

// setHealthCORS makes health checks reachable from any page regardless of
// the configured origins.
func setHealthCORS(c echo.Context) {
	h := c.Response().Header()
	h.Set(echo.HeaderAccessControlAllowOrigin, "*")
	h.Set(echo.HeaderAccessControlAllowMethods, "GET, OPTIONS")
	h.Set(echo.HeaderAccessControlAllowHeaders, echo.HeaderContentType)
}

func (s *Server) handleAnalyze(c echo.Context) error {
	var req notescan.AnalyzeRequest
	if err := c.Bind(&req); err != nil {
		return notescan.Errorf(notescan.EINVALID, "invalid request body")
	}
	if req.Image == "" {
		return notescan.Errorf(notescan.EINVALID, "画像データがありません")
	}

	// The demo analyzer ignores the image, so any non-empty payload is accepted.
	image := []byte(req.Image)
	if !s.cfg.Mock {
		var err error
		if image, err = notescan.DecodeImage(req.Image); err != nil {
			return err
		}
	}

	ctx := c.Request().Context()
	a, err := s.cfg.Analyzer.Analyze(ctx, image)
	if err != nil {
		return err
	}

	if s.cfg.Analyses != nil {
		if err := s.cfg.Analyses.CreateAnalysis(ctx, a); err != nil {
			// The analysis is still returned to the caller.
			s.logger.ErrorContext(ctx, "store analysis", "err", err)
		}
	}

	resp := notescan.NewAnalyzeResponse(a)
	if a.Mock {
		resp.Message = s.cfg.MockMessage
	}
	return c.JSON(http.StatusOK, resp)
}

func (s *Server) handleListAnalyses(c echo.Context) error {
	if s.cfg.Analyses == nil {
		return notescan.Errorf(notescan.ENOTFOUND, "analysis history is disabled")
	}

	filter := notescan.AnalysisFilter{Limit: DefaultHistoryLimit}
	if v := c.QueryParam("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return notescan.Errorf(notescan.EINVALID, "invalid limit")
		}
		filter.Limit = n
	}
	if v := c.QueryParam("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return notescan.Errorf(notescan.EINVALID, "invalid offset")
		}
		filter.Offset = n
	}
	if v := c.QueryParam("mock"); v != "" {
		mock, err := strconv.ParseBool(v)
		if err != nil {
			return notescan.Errorf(notescan.EINVALID, "invalid mock flag")
		}
		filter.Mock = &mock
	}

	analyses, err := s.cfg.Analyses.FindAnalyses(c.Request().Context(), filter)
	if err != nil {
		return err
	}
	if analyses == nil {
		analyses = []*notescan.Analysis{}
	}
	return c.JSON(http.StatusOK, analyses)
}

func (s *Server) handleGetAnalysis(c echo.Context) error {
	if s.cfg.Analyses == nil {
		return notescan.Errorf(notescan.ENOTFOUND, "analysis history is disabled")
	}
	a, err := s.cfg.Analyses.FindAnalysisByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, a)
}

func (s *Server) handleFeedStatus(c echo.Context) error {
	if s.cfg.FeedChecks == nil {
		return notescan.Errorf(notescan.ENOTFOUND, "feed checks are disabled")
	}
	statuses, err := s.cfg.FeedChecks.FindLatestFeedChecks(c.Request().Context())
	if err != nil {
		return err
	}
	if statuses == nil {
		statuses = []notescan.FeedStatus{}
	}
	return c.JSON(http.StatusOK, statuses)
}
