package mock

import (
	"context"

	"github.com/fwojciec/notescan"
)

var _ notescan.TextRecognizer = (*TextRecognizer)(nil)

// TextRecognizer is a mock implementation of notescan.TextRecognizer.
type TextRecognizer struct {
	DetectTextFn func(ctx context.Context, image []byte) (string, error)
}

func (r *TextRecognizer) DetectText(ctx context.Context, image []byte) (string, error) {
	return r.DetectTextFn(ctx, image)
}
