package pipeline

import (
	"context"
	"errors"
	"image"
	"testing"

	"github.com/snaplingo/snaplingo/internal/ocr"
	"github.com/snaplingo/snaplingo/internal/translate"
)

type stubRecognizer struct {
	res *ocr.Result
	err error
}

func (s *stubRecognizer) Run(context.Context, image.Image) (*ocr.Result, error) {
	return s.res, s.err
}

type stubTranslator struct {
	out       *translate.Output
	err       error
	gotText   string
	gotTarget string
}

func (s *stubTranslator) Resolve(_ context.Context, text, target string) (*translate.Output, error) {
	s.gotText = text
	s.gotTarget = target
	return s.out, s.err
}

func testImage() image.Image {
	return image.NewRGBA(image.Rect(0, 0, 4, 4))
}

func TestRun(t *testing.T) {
	translator := &stubTranslator{out: &translate.Output{
		TranslatedText:         "こんにちは世界",
		DetectedSourceLanguage: "en",
	}}
	pipe := New(&stubRecognizer{res: &ocr.Result{
		Text:             "Hello world",
		DetectedLanguage: "en",
	}}, translator, "ja")

	out, err := pipe.Run(context.Background(), testImage())
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if out.RequestID == "" {
		t.Error("RequestID should be populated")
	}
	if out.Text != "Hello world" || out.DetectedLanguage != "en" {
		t.Errorf("recognition fields: got %+v", out)
	}
	if out.TranslatedText != "こんにちは世界" || out.SourceLanguage != "en" {
		t.Errorf("translation fields: got %+v", out)
	}
	if translator.gotText != "Hello world" {
		t.Errorf("translator input: got %q, want %q", translator.gotText, "Hello world")
	}
	if translator.gotTarget != "ja" {
		t.Errorf("translator target: got %q, want %q", translator.gotTarget, "ja")
	}
}

func TestRun_RecognitionFailure(t *testing.T) {
	wantErr := errors.New("nothing recognized")
	pipe := New(&stubRecognizer{err: wantErr}, &stubTranslator{}, "ja")

	out, err := pipe.Run(context.Background(), testImage())
	if out != nil {
		t.Errorf("expected nil output, got %+v", out)
	}
	if !errors.Is(err, wantErr) {
		t.Errorf("error: got %v, want %v", err, wantErr)
	}
}

func TestRun_TranslationFailureKeepsRecognizedText(t *testing.T) {
	wantErr := errors.New("quota exceeded")
	pipe := New(&stubRecognizer{res: &ocr.Result{
		Text:             "Hello world",
		DetectedLanguage: "en",
	}}, &stubTranslator{err: wantErr}, "ja")

	out, err := pipe.Run(context.Background(), testImage())
	if !errors.Is(err, wantErr) {
		t.Fatalf("error: got %v, want %v", err, wantErr)
	}
	if out == nil {
		t.Fatal("output should carry the recognized text alongside the error")
	}
	if out.Text != "Hello world" || out.DetectedLanguage != "en" {
		t.Errorf("recognition fields: got %+v", out)
	}
	if out.TranslatedText != "" || out.SourceLanguage != "" {
		t.Errorf("translation fields should be empty on failure: got %+v", out)
	}
}

func TestRun_UniqueRequestIDs(t *testing.T) {
	pipe := New(&stubRecognizer{res: &ocr.Result{Text: "x"}},
		&stubTranslator{out: &translate.Output{TranslatedText: "y"}}, "ja")

	first, err := pipe.Run(context.Background(), testImage())
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	second, err := pipe.Run(context.Background(), testImage())
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if first.RequestID == second.RequestID {
		t.Error("consecutive captures should get distinct request IDs")
	}
}
