// Package gemini implements text recognition using Google Gemini.
package gemini

import (
	"context"
	"net/http"
	"strings"

	"github.com/fwojciec/notescan"
	"google.golang.org/genai"
)

// DefaultModel is the model used when none is given.
const DefaultModel = "gemini-2.5-flash"

// NoTextMarker is the reply the model is instructed to give for images
// without text.
const NoTextMarker = "NO_TEXT"

// Ensure Recognizer implements notescan.TextRecognizer at compile time.
var _ notescan.TextRecognizer = (*Recognizer)(nil)

// Recognizer implements notescan.TextRecognizer using Google Gemini.
type Recognizer struct {
	client *genai.Client
	model  string
}

// NewRecognizer creates a new Recognizer. An empty model selects DefaultModel.
func NewRecognizer(client *genai.Client, model string) *Recognizer {
	if model == "" {
		model = DefaultModel
	}
	return &Recognizer{client: client, model: model}
}

// DetectText transcribes all text visible in the image.
func (r *Recognizer) DetectText(ctx context.Context, image []byte) (string, error) {
	if len(image) == 0 {
		return "", notescan.Errorf(notescan.EINVALID, "image required")
	}

	result, err := r.client.Models.GenerateContent(ctx, r.model,
		[]*genai.Content{{
			Role:  "user",
			Parts: BuildParts(image),
		}},
		BuildConfig(),
	)
	if err != nil {
		return "", err
	}
	if result == nil {
		return "", notescan.Errorf(notescan.EINTERNAL, "gemini returned nil result")
	}

	return ExtractText(result.Text())
}

// ExtractText normalizes a model reply into recognized text.
// Returns ENOTEXT for an empty reply or the no-text marker.
func ExtractText(reply string) (string, error) {
	text := strings.TrimSpace(reply)
	text = strings.TrimPrefix(text, "```text")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.Trim(text, "\n")
	if strings.TrimSpace(text) == "" || strings.TrimSpace(text) == NoTextMarker {
		return "", notescan.Errorf(notescan.ENOTEXT, "テキストが検出されませんでした")
	}
	return text, nil
}

// BuildConfig returns the GenerateContentConfig for transcription calls.
func BuildConfig() *genai.GenerateContentConfig {
	temp := float32(0)
	return &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{
				Text: "You are a text recognition engine. Transcribe every piece of text visible in the image exactly as written, one visual line per output line, top to bottom. Write numbers and labels on their own lines as they appear. Do not translate, summarize, or add commentary. If the image contains no text, reply with " + NoTextMarker + ".",
			}},
		},
		Temperature: &temp,
	}
}

// BuildParts returns the request parts carrying the image.
func BuildParts(image []byte) []*genai.Part {
	return []*genai.Part{
		{InlineData: &genai.Blob{Data: image, MIMEType: http.DetectContentType(image)}},
		{Text: "Transcribe all text in this dashboard screenshot."},
	}
}
