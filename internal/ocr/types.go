package ocr

import (
	"context"
	"image"
)

// Result is the outcome of one recognition attempt: the recognized text and,
// when known, a language code for it. Results are immutable and consumed by
// the next cascade stage or by the translation resolver.
type Result struct {
	// Text is the recognized text, lines joined with newlines.
	Text string

	// DetectedLanguage is a best-effort language code for Text ("ja",
	// "zh-TW", "en", ...). Empty when unknown.
	DetectedLanguage string
}

// LineObservation is one recognized line with its ranked text candidates.
// Engines report up to three candidates per line, best first.
type LineObservation struct {
	Candidates []string
}

// Engine is the local OCR capability the cascade falls back to.
//
// Recognize runs one recognition request over img. languageHints is an
// ordered list of locale codes biasing recognition; an empty list means
// auto-detection. useCorrection toggles the engine's language/dictionary
// correction. Implementations must ignore hints they do not support;
// SupportedLanguages reports the hint codes the engine accepts so the
// cascade can filter before issuing a request.
type Engine interface {
	Recognize(ctx context.Context, img image.Image, languageHints []string, useCorrection bool) ([]LineObservation, error)
	SupportedLanguages() []string
}

// CloudRecognizer is the remote recognition capability tried before any
// local pass. A nil CloudRecognizer in the cascade disables the cloud stage.
type CloudRecognizer interface {
	Annotate(ctx context.Context, img image.Image) (*Result, error)
}
