// Package vision is the HTTP client for the Cloud Vision text-detection
// API, the cascade's primary recognition path.
package vision

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	errs "github.com/snaplingo/snaplingo/internal/errors"
	"github.com/snaplingo/snaplingo/internal/imaging"
	"github.com/snaplingo/snaplingo/internal/logging"
	"github.com/snaplingo/snaplingo/internal/ocr"
)

const defaultEndpoint = "https://vision.googleapis.com/v1/images:annotate"

// languageHints biases cloud recognition toward the scripts the capture app
// is used on. The service ignores hints it cannot apply.
var languageHints = []string{"ja", "zh-TW", "zh-CN", "en", "ko", "fr", "de", "es", "it", "pt", "ru"}

// Client calls the Cloud Vision annotate endpoint. It implements
// ocr.CloudRecognizer.
type Client struct {
	apiKey     string
	endpoint   string
	httpClient *http.Client
	log        *logging.Logger
}

// NewClient creates a Cloud Vision client authenticating with apiKey.
func NewClient(apiKey string) *Client {
	return &Client{
		apiKey:     strings.TrimSpace(apiKey),
		endpoint:   defaultEndpoint,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		log:        logging.New("vision"),
	}
}

// SetEndpoint overrides the annotate endpoint. Used by tests.
func (c *Client) SetEndpoint(endpoint string) {
	c.endpoint = endpoint
}

// annotateRequest mirrors the images:annotate request body.
type annotateRequest struct {
	Requests []annotateEntry `json:"requests"`
}

type annotateEntry struct {
	Image        annotateImage     `json:"image"`
	Features     []annotateFeature `json:"features"`
	ImageContext imageContext      `json:"imageContext"`
}

type annotateImage struct {
	Content string `json:"content"`
}

type annotateFeature struct {
	Type string `json:"type"`
}

type imageContext struct {
	LanguageHints []string `json:"languageHints"`
}

// batchResponse mirrors the images:annotate success/error envelope. The
// error field can appear nested per-response or at the top level.
type batchResponse struct {
	Responses []annotateResponse `json:"responses"`
	Error     *apiError          `json:"error"`
}

type annotateResponse struct {
	FullTextAnnotation *fullTextAnnotation `json:"fullTextAnnotation"`
	TextAnnotations    []textAnnotation    `json:"textAnnotations"`
	Error              *apiError           `json:"error"`
}

type fullTextAnnotation struct {
	Text string `json:"text"`
}

type textAnnotation struct {
	Locale      string `json:"locale"`
	Description string `json:"description"`
}

type apiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Annotate runs one cloud text-detection request over img and returns the
// recognized text with the service-reported locale, if any.
//
// Fails with CredentialMissing before any I/O when no API key is set, with
// Transport on network failure, RemoteAPI on a non-200 status or in-payload
// error, and EmptyResult when the response decodes to blank text.
func (c *Client) Annotate(ctx context.Context, img image.Image) (*ocr.Result, error) {
	if c.apiKey == "" {
		return nil, errs.CredentialMissing("Cloud Vision")
	}

	data, err := imaging.EncodeForCloud(img)
	if err != nil {
		return nil, errs.InvalidRequest("failed to encode image for Cloud Vision", err)
	}

	endpoint, err := url.Parse(c.endpoint)
	if err != nil {
		return nil, errs.InvalidRequest("invalid Cloud Vision API URL", err)
	}
	query := endpoint.Query()
	query.Set("key", c.apiKey)
	endpoint.RawQuery = query.Encode()

	body := annotateRequest{
		Requests: []annotateEntry{{
			Image:        annotateImage{Content: base64.StdEncoding.EncodeToString(data)},
			Features:     []annotateFeature{{Type: "DOCUMENT_TEXT_DETECTION"}},
			ImageContext: imageContext{LanguageHints: languageHints},
		}},
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, errs.InvalidRequest("failed to encode Cloud Vision request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint.String(), bytes.NewReader(payload))
	if err != nil {
		return nil, errs.InvalidRequest("failed to build Cloud Vision request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errs.Transport("Cloud Vision", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errs.Transport("Cloud Vision", err)
	}

	if resp.StatusCode != http.StatusOK {
		c.log.Warn("annotate request rejected", "status", resp.StatusCode)
		return nil, errs.RemoteAPI("Cloud Vision", resp.StatusCode, extractErrorMessage(raw))
	}

	var batch batchResponse
	if err := json.Unmarshal(raw, &batch); err != nil {
		return nil, errs.RemoteAPI("Cloud Vision", resp.StatusCode, fmt.Sprintf("undecodable response: %v", err))
	}
	if len(batch.Responses) == 0 {
		return nil, errs.EmptyResult("Cloud Vision")
	}

	first := batch.Responses[0]
	if first.Error != nil && first.Error.Message != "" {
		return nil, errs.RemoteAPI("Cloud Vision", first.Error.Code, first.Error.Message)
	}

	text := ""
	if first.FullTextAnnotation != nil {
		text = first.FullTextAnnotation.Text
	}
	locale := ""
	if len(first.TextAnnotations) > 0 {
		if text == "" {
			text = first.TextAnnotations[0].Description
		}
		locale = first.TextAnnotations[0].Locale
	}

	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil, errs.EmptyResult("Cloud Vision")
	}

	c.log.Debug("annotate request complete", "chars", len(trimmed), "locale", locale)
	return &ocr.Result{Text: trimmed, DetectedLanguage: locale}, nil
}

// extractErrorMessage digs the service error message out of an error body,
// checking the top-level envelope first and the per-response envelope
// second. Falls back to the raw body text.
func extractErrorMessage(raw []byte) string {
	var batch batchResponse
	if err := json.Unmarshal(raw, &batch); err == nil {
		if batch.Error != nil && batch.Error.Message != "" {
			return batch.Error.Message
		}
		if len(batch.Responses) > 0 && batch.Responses[0].Error != nil &&
			batch.Responses[0].Error.Message != "" {
			return batch.Responses[0].Error.Message
		}
	}

	if len(raw) > 0 {
		return string(raw)
	}
	return "unknown error"
}
