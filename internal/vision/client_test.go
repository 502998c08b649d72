package vision

import (
	"context"
	"encoding/json"
	"image"
	"image/color"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	errs "github.com/snaplingo/snaplingo/internal/errors"
)

func testImage() image.Image {
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			img.Set(x, y, color.RGBA{255, 255, 255, 255})
		}
	}
	return img
}

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client := NewClient("test-key")
	client.SetEndpoint(server.URL)
	return client, server
}

func TestAnnotate(t *testing.T) {
	var gotRequest annotateRequest
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("key") != "test-key" {
			t.Errorf("missing key query parameter")
		}
		if err := json.NewDecoder(r.Body).Decode(&gotRequest); err != nil {
			t.Errorf("failed to decode request: %v", err)
		}
		json.NewEncoder(w).Encode(batchResponse{
			Responses: []annotateResponse{{
				FullTextAnnotation: &fullTextAnnotation{Text: "こんにちは世界\n"},
				TextAnnotations:    []textAnnotation{{Locale: "ja", Description: "こんにちは世界"}},
			}},
		})
	})

	res, err := client.Annotate(context.Background(), testImage())
	if err != nil {
		t.Fatalf("Annotate returned error: %v", err)
	}
	if res.Text != "こんにちは世界" {
		t.Errorf("text: got %q, want %q", res.Text, "こんにちは世界")
	}
	if res.DetectedLanguage != "ja" {
		t.Errorf("detected language: got %q, want %q", res.DetectedLanguage, "ja")
	}

	if len(gotRequest.Requests) != 1 {
		t.Fatalf("request entries: got %d, want 1", len(gotRequest.Requests))
	}
	entry := gotRequest.Requests[0]
	if entry.Image.Content == "" {
		t.Error("request carried no image content")
	}
	if len(entry.Features) != 1 || entry.Features[0].Type != "DOCUMENT_TEXT_DETECTION" {
		t.Errorf("features: got %+v", entry.Features)
	}
	if len(entry.ImageContext.LanguageHints) == 0 {
		t.Error("request carried no language hints")
	}
}

func TestAnnotate_DescriptionFallback(t *testing.T) {
	// Older responses omit fullTextAnnotation; the first text annotation's
	// description stands in.
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(batchResponse{
			Responses: []annotateResponse{{
				TextAnnotations: []textAnnotation{{Locale: "en", Description: "Hello world"}},
			}},
		})
	})

	res, err := client.Annotate(context.Background(), testImage())
	if err != nil {
		t.Fatalf("Annotate returned error: %v", err)
	}
	if res.Text != "Hello world" || res.DetectedLanguage != "en" {
		t.Errorf("unexpected result: %+v", res)
	}
}

func TestAnnotate_MissingCredential(t *testing.T) {
	hits := 0
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		hits++
	})
	client.apiKey = ""

	_, err := client.Annotate(context.Background(), testImage())
	if !errs.Is(err, errs.CodeCredentialMissing) {
		t.Errorf("error code: got %v, want %s", errs.CodeOf(err), errs.CodeCredentialMissing)
	}
	if hits != 0 {
		t.Errorf("server hits: got %d, want 0", hits)
	}
}

func TestAnnotate_RemoteError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"error":{"code":403,"message":"API key not valid"}}`))
	})

	_, err := client.Annotate(context.Background(), testImage())
	if !errs.Is(err, errs.CodeRemoteAPI) {
		t.Fatalf("error code: got %v, want %s", errs.CodeOf(err), errs.CodeRemoteAPI)
	}
	if !strings.Contains(err.Error(), "API key not valid") {
		t.Errorf("error should carry the remote message, got %q", err.Error())
	}
}

func TestAnnotate_PerResponseError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(batchResponse{
			Responses: []annotateResponse{{
				Error: &apiError{Code: 3, Message: "Bad image data"},
			}},
		})
	})

	_, err := client.Annotate(context.Background(), testImage())
	if !errs.Is(err, errs.CodeRemoteAPI) {
		t.Fatalf("error code: got %v, want %s", errs.CodeOf(err), errs.CodeRemoteAPI)
	}
	if !strings.Contains(err.Error(), "Bad image data") {
		t.Errorf("error should carry the nested message, got %q", err.Error())
	}
}

func TestAnnotate_BlankText(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(batchResponse{
			Responses: []annotateResponse{{
				FullTextAnnotation: &fullTextAnnotation{Text: "  \n "},
			}},
		})
	})

	_, err := client.Annotate(context.Background(), testImage())
	if !errs.Is(err, errs.CodeEmptyResult) {
		t.Errorf("error code: got %v, want %s", errs.CodeOf(err), errs.CodeEmptyResult)
	}
}

func TestAnnotate_NoResponses(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(batchResponse{})
	})

	_, err := client.Annotate(context.Background(), testImage())
	if !errs.Is(err, errs.CodeEmptyResult) {
		t.Errorf("error code: got %v, want %s", errs.CodeOf(err), errs.CodeEmptyResult)
	}
}

func TestExtractErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"top-level error", `{"error":{"message":"quota exceeded"}}`, "quota exceeded"},
		{"nested error", `{"responses":[{"error":{"message":"bad request"}}]}`, "bad request"},
		{"plain body", "service unavailable", "service unavailable"},
		{"empty body", "", "unknown error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := extractErrorMessage([]byte(tt.raw)); got != tt.want {
				t.Errorf("extractErrorMessage(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}
