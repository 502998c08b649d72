// Package translate turns recognized text into a translated string via the
// Cloud Translation API, with short-circuit rules that avoid round-tripping
// text already in the target language.
package translate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	errs "github.com/snaplingo/snaplingo/internal/errors"
	"github.com/snaplingo/snaplingo/internal/logging"
)

const defaultEndpoint = "https://translation.googleapis.com/language/translate/v2"

// Client calls the Cloud Translation v2 endpoint.
type Client struct {
	apiKey     string
	endpoint   string
	httpClient *http.Client
	log        *logging.Logger
}

// NewClient creates a translation client authenticating with apiKey.
func NewClient(apiKey string) *Client {
	return &Client{
		apiKey:     strings.TrimSpace(apiKey),
		endpoint:   defaultEndpoint,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		log:        logging.New("translate"),
	}
}

// SetEndpoint overrides the API endpoint. Used by tests.
func (c *Client) SetEndpoint(endpoint string) {
	c.endpoint = endpoint
}

// HasCredential reports whether an API key is configured.
func (c *Client) HasCredential() bool {
	return c.apiKey != ""
}

type translateRequest struct {
	Q      string `json:"q"`
	Target string `json:"target"`
	Format string `json:"format"`
}

type translateResponse struct {
	Data *translateData `json:"data"`
}

type translateData struct {
	Translations []Translation `json:"translations"`
}

// Translation is one decoded translation entry from the service.
type Translation struct {
	TranslatedText         string `json:"translatedText"`
	DetectedSourceLanguage string `json:"detectedSourceLanguage"`
}

type errorEnvelope struct {
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// Translate requests a translation of text into the target language and
// returns the first translation entry.
//
// Fails with CredentialMissing before any I/O when no key is configured,
// Transport on network failure, RemoteAPI on a non-200 answer (carrying the
// remote message verbatim), and EmptyResult when the payload decodes without
// a translation entry.
func (c *Client) Translate(ctx context.Context, text, target string) (*Translation, error) {
	if c.apiKey == "" {
		return nil, errs.CredentialMissing("Google Translate")
	}

	endpoint, err := url.Parse(c.endpoint)
	if err != nil {
		return nil, errs.InvalidRequest("invalid Google Translate API URL", err)
	}
	query := endpoint.Query()
	query.Set("key", c.apiKey)
	endpoint.RawQuery = query.Encode()

	payload, err := json.Marshal(translateRequest{Q: text, Target: target, Format: "text"})
	if err != nil {
		return nil, errs.InvalidRequest("failed to encode translation request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint.String(), bytes.NewReader(payload))
	if err != nil {
		return nil, errs.InvalidRequest("failed to build translation request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errs.Transport("Google Translate", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errs.Transport("Google Translate", err)
	}

	if resp.StatusCode != http.StatusOK {
		c.log.Warn("translate request rejected", "status", resp.StatusCode)
		return nil, errs.RemoteAPI("Google Translate", resp.StatusCode, extractErrorMessage(raw))
	}

	var decoded translateResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, errs.RemoteAPI("Google Translate", resp.StatusCode, fmt.Sprintf("undecodable response: %v", err))
	}
	if decoded.Data == nil || len(decoded.Data.Translations) == 0 {
		return nil, errs.EmptyResult("Google Translate")
	}

	entry := &decoded.Data.Translations[0]
	c.log.Debug("translate request complete", "detected", entry.DetectedSourceLanguage)
	return entry, nil
}

// extractErrorMessage pulls the remote error message from an error body,
// falling back to the raw body text.
func extractErrorMessage(raw []byte) string {
	var envelope errorEnvelope
	if err := json.Unmarshal(raw, &envelope); err == nil &&
		envelope.Error != nil && envelope.Error.Message != "" {
		return envelope.Error.Message
	}
	if len(raw) > 0 {
		return string(raw)
	}
	return "unknown error"
}
