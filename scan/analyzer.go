// Package scan runs dashboard screenshots through text recognition and the
// dashboard parser.
package scan

import (
	"context"
	"fmt"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/notescan"
)

// Source identifies analyses produced by text recognition.
const Source = "ocr"

var _ notescan.Analyzer = (*Analyzer)(nil)

// Analyzer implements notescan.Analyzer on top of a TextRecognizer.
type Analyzer struct {
	Recognizer notescan.TextRecognizer
	Parser     notescan.Parser

	// Now returns the time used to stamp articles. Defaults to time.Now.
	Now func() time.Time
}

// NewAnalyzer creates an Analyzer using the default dashboard labels.
func NewAnalyzer(recognizer notescan.TextRecognizer) *Analyzer {
	return &Analyzer{Recognizer: recognizer}
}

// Analyze recognizes the text of the image and parses it into articles.
// An image whose text yields no articles is not an error.
func (a *Analyzer) Analyze(ctx context.Context, image []byte) (*notescan.Analysis, error) {
	if len(image) == 0 {
		return nil, notescan.Errorf(notescan.EINVALID, "画像データがありません")
	}

	text, err := a.Recognizer.DetectText(ctx, image)
	if err != nil {
		return nil, fmt.Errorf("detect text: %w", err)
	}
	if text == "" {
		return nil, notescan.Errorf(notescan.ENOTEXT, "テキストが検出されませんでした")
	}

	now := time.Now
	if a.Now != nil {
		now = a.Now
	}
	t := now()

	articles := a.Parser.ParseAt(text, t)
	if articles == nil {
		articles = []notescan.Article{}
	}

	return &notescan.Analysis{
		Source:    Source,
		Articles:  articles,
		RawText:   text,
		TextHash:  HashText(text),
		CreatedAt: t.UTC(),
	}, nil
}

// HashText returns the hex xxHash of recognized text.
func HashText(text string) string {
	return fmt.Sprintf("%016x", xxhash.Sum64String(text))
}
