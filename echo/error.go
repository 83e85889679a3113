package echo

import (
	"errors"
	"net/http"

	"github.com/fwojciec/notescan"
	"github.com/labstack/echo/v4"
)

// Messages returned in place of internal error details.
const (
	MessageInternal = "internal error"
	MessageDecode   = "画像データをデコードできませんでした"
)

// codes maps application error codes to HTTP status codes.
var codes = map[string]int{
	notescan.EINVALID:  http.StatusBadRequest,
	notescan.ENOTEXT:   http.StatusBadRequest,
	notescan.ENOTFOUND: http.StatusNotFound,
	notescan.EDECODE:   http.StatusInternalServerError,
	notescan.EINTERNAL: http.StatusInternalServerError,
}

// ErrorStatusCode returns the HTTP status code for an application error
// code.
func ErrorStatusCode(code string) int {
	if v, ok := codes[code]; ok {
		return v
	}
	return http.StatusInternalServerError
}

// handleError writes err as an ErrorResponse. Internal details are logged
// and never sent to the client.
func (s *Server) handleError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		msg := http.StatusText(he.Code)
		if m, ok := he.Message.(string); ok && he.Code < http.StatusInternalServerError {
			msg = m
		}
		s.writeError(c, he.Code, notescan.ErrorResponse{Error: msg})
		return
	}

	code := notescan.ErrorCode(err)
	resp := notescan.ErrorResponse{Error: notescan.ErrorMessage(err), Code: code}
	switch code {
	case notescan.EDECODE:
		resp.Error = MessageDecode
	case notescan.EINTERNAL:
		resp.Error = MessageInternal
		s.logger.ErrorContext(c.Request().Context(), "internal error",
			"method", c.Request().Method,
			"path", c.Request().URL.Path,
			"err", err,
		)
	}
	s.writeError(c, ErrorStatusCode(code), resp)
}

func (s *Server) writeError(c echo.Context, status int, resp notescan.ErrorResponse) {
	if err := c.JSON(status, resp); err != nil {
		s.logger.ErrorContext(c.Request().Context(), "write error response", "err", err)
	}
}
