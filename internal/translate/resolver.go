package translate

import (
	"context"
	"strings"

	errs "github.com/snaplingo/snaplingo/internal/errors"
	"github.com/snaplingo/snaplingo/internal/logging"
)

// DefaultTargetLanguage is used when neither the caller nor the settings
// store supplies a target.
const DefaultTargetLanguage = "ja"

// Output is the terminal artifact of one capture's translation.
type Output struct {
	// TranslatedText is the translated string, or the original input when a
	// short-circuit rule decided translation was unnecessary.
	TranslatedText string

	// DetectedSourceLanguage is the lower-cased source language as reported
	// by the service or decided locally. Empty when unknown.
	DetectedSourceLanguage string
}

// entityReplacer decodes the HTML entities the translation service is known
// to return in text-format responses.
var entityReplacer = strings.NewReplacer(
	"&quot;", `"`,
	"&#39;", "'",
	"&amp;", "&",
	"&lt;", "<",
	"&gt;", ">",
)

// Resolver turns accepted recognition text into a translated result.
//
// Unlike the recognition cascade, the resolver has no internal fallback:
// there is one translation provider, so every failure propagates to the
// caller as a typed error.
type Resolver struct {
	client        *Client
	defaultTarget string
	log           *logging.Logger
}

// NewResolver builds a resolver over client. defaultTarget is the stored
// target-language preference; empty falls back to DefaultTargetLanguage.
func NewResolver(client *Client, defaultTarget string) *Resolver {
	target := strings.TrimSpace(defaultTarget)
	if target == "" {
		target = DefaultTargetLanguage
	}
	return &Resolver{
		client:        client,
		defaultTarget: target,
		log:           logging.New("translate"),
	}
}

// Resolve translates text into targetLanguage (or the stored default when
// empty).
//
// Short-circuit A: when the target is Japanese and the input already reads
// as Japanese (kana present, no Latin letters), the input is returned
// unchanged without any network call. Chinese text without kana is not
// short-circuited and still gets translated.
//
// Short-circuit B: when the service reports a detected source language that
// names the same target as the requested one, the original input is returned
// instead of the service's text, so a no-op translation cannot introduce
// paraphrasing; the detected-language metadata is still surfaced.
//
// The context cancels the in-flight network call; the physical request may
// still complete remotely but its result is discarded.
func (r *Resolver) Resolve(ctx context.Context, text, targetLanguage string) (*Output, error) {
	if !r.client.HasCredential() {
		return nil, errs.CredentialMissing("Google Translate")
	}

	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil, errs.InvalidRequest("no text detected in selected area", nil)
	}

	target := strings.ToLower(strings.TrimSpace(targetLanguage))
	if target == "" {
		target = strings.ToLower(r.defaultTarget)
	}

	if strings.HasPrefix(target, "ja") && readsAsJapanese(trimmed) {
		r.log.Debug("translation short-circuit: input already Japanese")
		return &Output{TranslatedText: trimmed, DetectedSourceLanguage: "ja"}, nil
	}

	entry, err := r.client.Translate(ctx, trimmed, target)
	if err != nil {
		return nil, err
	}

	translated := entityReplacer.Replace(strings.TrimSpace(entry.TranslatedText))
	detected := strings.ToLower(entry.DetectedSourceLanguage)

	if translated == "" {
		return nil, errs.EmptyResult("Google Translate")
	}

	if detected != "" && sameLanguage(detected, target) {
		r.log.Debug("translation short-circuit: source matches target", "detected", detected)
		return &Output{TranslatedText: trimmed, DetectedSourceLanguage: detected}, nil
	}

	return &Output{TranslatedText: translated, DetectedSourceLanguage: detected}, nil
}

// readsAsJapanese reports whether text should be treated as already-Japanese:
// it must contain kana and no Latin letters. Kana is required so Chinese
// text (CJK without kana) still goes through translation.
func readsAsJapanese(text string) bool {
	hasKana := false
	for _, r := range text {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			return false
		}
		if r >= 0x3040 && r <= 0x30FF {
			hasKana = true
		}
	}
	return hasKana
}

// sameLanguage reports whether two lower-cased language codes name the same
// translation target: one must be a string prefix of the other, e.g. "ja" and
// "ja-jp", or "zh-tw" and "zh". Codes that only share a base language stay
// distinct: "zh-cn" and "zh-tw" are separate targets, because converting
// simplified to traditional Chinese is a real translation here.
func sameLanguage(a, b string) bool {
	return strings.HasPrefix(a, b) || strings.HasPrefix(b, a)
}
