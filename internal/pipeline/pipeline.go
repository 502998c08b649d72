// Package pipeline composes the recognition cascade and the translation
// resolver into one capture-to-translation run.
//
// One Run call is one background unit of work per capture: stages execute
// sequentially because each depends on the previous stage's rejection, and
// the only process-wide inputs are the injected configuration values. All
// per-capture state lives in the request/response values flowing through the
// call chain.
package pipeline

import (
	"context"
	"image"

	"github.com/google/uuid"

	"github.com/snaplingo/snaplingo/internal/logging"
	"github.com/snaplingo/snaplingo/internal/ocr"
	"github.com/snaplingo/snaplingo/internal/translate"
)

// Recognizer is the recognition cascade boundary.
type Recognizer interface {
	Run(ctx context.Context, img image.Image) (*ocr.Result, error)
}

// Translator is the translation resolver boundary.
type Translator interface {
	Resolve(ctx context.Context, text, targetLanguage string) (*translate.Output, error)
}

// Output is the result of one capture run. TranslatedText and SourceLanguage
// are empty when translation failed; Text and DetectedLanguage are still
// populated in that case so the caller can present the recognized source
// alongside the translation error.
type Output struct {
	// RequestID correlates log lines for one capture.
	RequestID string

	// Text is the accepted recognition result.
	Text string

	// DetectedLanguage is the recognition-stage language guess, if any.
	DetectedLanguage string

	// TranslatedText is the resolver's output.
	TranslatedText string

	// SourceLanguage is the translation-stage detected source language.
	SourceLanguage string
}

// Pipeline runs captures through recognition and translation.
type Pipeline struct {
	recognizer Recognizer
	translator Translator
	target     string
	log        *logging.Logger
}

// New assembles a pipeline. target is the translation target language code;
// empty uses the resolver's stored default.
func New(recognizer Recognizer, translator Translator, target string) *Pipeline {
	return &Pipeline{
		recognizer: recognizer,
		translator: translator,
		target:     target,
		log:        logging.New("pipeline"),
	}
}

// Run processes one captured bitmap.
//
// A recognition failure returns a nil Output with the cascade's error. A
// translation failure returns BOTH a non-nil Output carrying the recognized
// text and the resolver's error, so callers can show the source text next to
// the failure message. Cancelling ctx abandons the in-flight remote call;
// its result, if any, is discarded without touching the returned values.
func (p *Pipeline) Run(ctx context.Context, img image.Image) (*Output, error) {
	requestID := uuid.NewString()
	p.log.Info("capture started", "request_id", requestID)

	recognized, err := p.recognizer.Run(ctx, img)
	if err != nil {
		p.log.Error("recognition failed", "request_id", requestID, "error", err)
		return nil, err
	}

	out := &Output{
		RequestID:        requestID,
		Text:             recognized.Text,
		DetectedLanguage: recognized.DetectedLanguage,
	}
	p.log.Info("recognition accepted",
		"request_id", requestID,
		"chars", len(recognized.Text),
		"lang", recognized.DetectedLanguage)

	translated, err := p.translator.Resolve(ctx, recognized.Text, p.target)
	if err != nil {
		p.log.Error("translation failed", "request_id", requestID, "error", err)
		return out, err
	}

	out.TranslatedText = translated.TranslatedText
	out.SourceLanguage = translated.DetectedSourceLanguage
	p.log.Info("translation complete",
		"request_id", requestID,
		"source_lang", translated.DetectedSourceLanguage)
	return out, nil
}
