package notescan

import "context"

// TextRecognizer converts an image into its full recognized text.
type TextRecognizer interface {
	// DetectText returns all text found in the image, lines separated by "\n".
	// Returns ENOTEXT if the image contains no text.
	DetectText(ctx context.Context, image []byte) (string, error)
}
