package notescan

// AnalyzeRequest is the body of an analyze request.
type AnalyzeRequest struct {
	// Image is base64 image data, optionally with a data URI prefix.
	Image string `json:"image"`
}

// AnalyzeResponse is the body of a successful analyze response.
type AnalyzeResponse struct {
	Success  bool      `json:"success"`
	ID       string    `json:"id,omitempty"`
	Articles []Article `json:"articles"`
	RawText  string    `json:"raw_text,omitempty"`
	Mock     bool      `json:"is_mock,omitempty"`
	Message  string    `json:"message,omitempty"`
}

// NewAnalyzeResponse builds the response for an analysis. Recognized text
// is truncated to MaxRawTextLength runes.
func NewAnalyzeResponse(a *Analysis) *AnalyzeResponse {
	articles := a.Articles
	if articles == nil {
		articles = []Article{}
	}
	return &AnalyzeResponse{
		Success:  true,
		ID:       a.ID,
		Articles: articles,
		RawText:  TruncateText(a.RawText, MaxRawTextLength),
		Mock:     a.Mock,
	}
}

// ErrorResponse is the body of a failed request.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// HealthResponse is the body of a health check.
type HealthResponse struct {
	Status  string `json:"status"`
	Type    string `json:"type"`
	Message string `json:"message"`
}
