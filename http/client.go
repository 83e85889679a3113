package http

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/fwojciec/notescan"
)

// DefaultAnalyzeTimeout bounds a remote analysis, which includes text
// recognition on the server.
const DefaultAnalyzeTimeout = 60 * time.Second

var _ notescan.Analyzer = (*AnalyzerClient)(nil)

// AnalyzerClient implements notescan.Analyzer by calling a remote notescan
// server.
type AnalyzerClient struct {
	baseURL string
	client  *http.Client
	now     func() time.Time
}

// NewAnalyzerClient creates a client for the server at baseURL.
func NewAnalyzerClient(baseURL string) *AnalyzerClient {
	return &AnalyzerClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: DefaultAnalyzeTimeout},
		now:     time.Now,
	}
}

// Health checks whether the server is up and which analyzer it runs.
func (c *AnalyzerClient) Health(ctx context.Context) (*notescan.HealthResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("server unavailable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d for %s/health", resp.StatusCode, c.baseURL)
	}

	var health notescan.HealthResponse
	if err := json.NewDecoder(resp.Body).Decode(&health); err != nil {
		return nil, fmt.Errorf("decode health response: %w", err)
	}
	return &health, nil
}

// Analyze uploads the image and returns the server's analysis.
func (c *AnalyzerClient) Analyze(ctx context.Context, image []byte) (*notescan.Analysis, error) {
	if len(image) == 0 {
		return nil, notescan.Errorf(notescan.EINVALID, "image required")
	}

	body, err := json.Marshal(notescan.AnalyzeRequest{Image: base64.StdEncoding.EncodeToString(image)})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/analyze", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("server unavailable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, decodeError(resp)
	}

	var out notescan.AnalyzeResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode analyze response: %w", err)
	}

	source := "remote"
	if out.Mock {
		source = "mock"
	}
	return &notescan.Analysis{
		ID:        out.ID,
		Source:    source,
		Mock:      out.Mock,
		Articles:  out.Articles,
		RawText:   out.RawText,
		CreatedAt: c.now().UTC(),
	}, nil
}

// decodeError converts an error response into a coded error.
func decodeError(resp *http.Response) error {
	var e notescan.ErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&e); err != nil || e.Error == "" {
		return notescan.Errorf(notescan.EINTERNAL, "HTTP %d from server", resp.StatusCode)
	}

	code := e.Code
	if code == "" {
		code = notescan.EINTERNAL
		if resp.StatusCode == http.StatusBadRequest {
			code = notescan.EINVALID
		}
	}
	return notescan.Errorf(code, "%s", e.Error)
}
