package ocr

import (
	"context"
	"image"
	"strings"

	errs "github.com/snaplingo/snaplingo/internal/errors"
	"github.com/snaplingo/snaplingo/internal/imaging"
	"github.com/snaplingo/snaplingo/internal/logging"
	"github.com/snaplingo/snaplingo/internal/quality"
	"github.com/snaplingo/snaplingo/internal/script"
)

// mixedHints is the hint list for the last-resort multi-language pass.
var mixedHints = []string{
	"en-US", "ja-JP", "zh-Hant", "zh-Hans", "ko-KR",
	"fr-FR", "de-DE", "es-ES", "it-IT", "pt-BR", "ru-RU",
}

// pass is one step of the local fallback chain: the hints and correction
// setting for the recognition request, an optional per-candidate script
// preference, and the rule deciding whether the pass's output is accepted.
type pass struct {
	name       string
	hints      []string
	correction bool
	prefer     func(string) bool
	// accept returns the detected-language label and whether the pass's
	// text is accepted as the cascade result.
	accept func(text string) (string, bool)
}

// localPasses is the fixed pass order for every image variant. The mixed
// pass always accepts, so a variant's chain never ends without a result
// unless a recognition call errors.
var localPasses = []pass{
	{
		name:       "auto",
		correction: true,
		accept: func(text string) (string, bool) {
			if quality.Usable(text) {
				return script.Guess(text), true
			}
			return "", false
		},
	},
	{
		name:   "ja",
		hints:  []string{"ja"},
		prefer: script.ContainsJapanese,
		accept: func(text string) (string, bool) {
			return "ja", script.ContainsJapanese(text)
		},
	},
	{
		name:   "zh-Hant",
		hints:  []string{"zh-Hant"},
		prefer: script.ContainsChinese,
		accept: func(text string) (string, bool) {
			return "zh-TW", script.ContainsChinese(text)
		},
	},
	{
		name:   "zh-Hans",
		hints:  []string{"zh-Hans"},
		prefer: script.ContainsChinese,
		accept: func(text string) (string, bool) {
			return "zh-CN", script.ContainsChinese(text)
		},
	},
	{
		name:       "en",
		hints:      []string{"en"},
		correction: true,
		accept: func(text string) (string, bool) {
			return "en", strings.TrimSpace(text) != ""
		},
	},
	{
		name:       "mixed",
		hints:      mixedHints,
		correction: true,
		accept: func(text string) (string, bool) {
			return script.Guess(text), true
		},
	},
}

// Cascade sequences the cloud attempt and the local multi-pass fallback for
// one capture. It holds no per-capture state; a single Cascade can serve
// consecutive captures.
type Cascade struct {
	cloud CloudRecognizer
	local Engine
	log   *logging.Logger
}

// NewCascade builds a cascade over the given collaborators. cloud may be nil
// when no cloud credential is configured, which disables the cloud stage.
func NewCascade(cloud CloudRecognizer, local Engine) *Cascade {
	return &Cascade{
		cloud: cloud,
		local: local,
		log:   logging.New("ocr"),
	}
}

// Run executes the cascade over one captured bitmap and returns the first
// accepted recognition result.
//
// Stage A tries cloud recognition on the identity image and once more on the
// scaled+enhanced retry variant; any cloud failure is logged and falls
// through. Stage B sweeps the local variant set, running the six-pass hint
// chain on each variant. Run errors only when literally no attempt produced
// a result.
func (c *Cascade) Run(ctx context.Context, img image.Image) (*Result, error) {
	if res := c.runCloud(ctx, img); res != nil {
		return res, nil
	}
	return c.runLocal(ctx, img)
}

// runCloud performs the cloud stage. It returns nil when the stage is
// disabled or produced nothing usable; errors are never surfaced from here.
func (c *Cascade) runCloud(ctx context.Context, img image.Image) *Result {
	if c.cloud == nil {
		return nil
	}

	inputs := []image.Image{img}
	if retry := imaging.CloudRetry(img); retry != nil {
		inputs = append(inputs, retry)
	}

	var lastErr error
	for i, input := range inputs {
		res, err := c.cloud.Annotate(ctx, input)
		if err != nil {
			lastErr = err
			c.log.Warn("cloud OCR pass failed", "pass", i+1, "error", err)
			continue
		}
		c.log.Info("cloud OCR pass", "pass", i+1, "chars", len(strings.TrimSpace(res.Text)))
		if quality.Usable(res.Text) {
			if res.DetectedLanguage != "" {
				c.log.Info("cloud OCR detected locale", "locale", res.DetectedLanguage)
			}
			return res
		}
	}

	if lastErr != nil {
		c.log.Warn("cloud OCR exhausted, falling back to local recognition", "error", lastErr)
	}
	return nil
}

// runLocal performs the local fallback stage across the ordered variant set.
func (c *Cascade) runLocal(ctx context.Context, img image.Image) (*Result, error) {
	var lastResult *Result
	var lastErr error

	for _, v := range imaging.LocalVariants(img) {
		res, err := c.runPasses(ctx, v.Image)
		if err != nil {
			lastErr = err
			c.log.Warn("local OCR variant failed", "variant", v.Tag, "error", err)
			continue
		}

		lastResult = res
		c.log.Info("local OCR variant", "variant", v.Tag, "chars", len(strings.TrimSpace(res.Text)))
		if quality.Usable(res.Text) {
			return res, nil
		}
	}

	// Degrade to the last completed mixed-pass result rather than failing;
	// error only when every variant raised one.
	if lastResult != nil {
		return lastResult, nil
	}
	return nil, errs.RecognitionFailed(lastErr)
}

// runPasses runs the fixed pass chain on one image variant. The first pass
// whose acceptance rule fires wins; the mixed pass always fires, so the only
// error path is a failing recognition call.
func (c *Cascade) runPasses(ctx context.Context, img image.Image) (*Result, error) {
	for _, p := range localPasses {
		text, err := c.recognize(ctx, img, p)
		if err != nil {
			return nil, err
		}
		if lang, ok := p.accept(text); ok {
			c.log.Debug("local OCR pass accepted", "pass", p.name, "lang", lang)
			return &Result{Text: text, DetectedLanguage: lang}, nil
		}
	}
	// Unreachable while the mixed pass accepts unconditionally.
	return &Result{}, nil
}

// recognize issues one engine request for a pass and assembles its line
// text. Hints the engine does not support are dropped before the request;
// the per-candidate script preference applies only when at least one of the
// pass's hints survived filtering.
func (c *Cascade) recognize(ctx context.Context, img image.Image, p pass) (string, error) {
	hints := filterHints(p.hints, c.local.SupportedLanguages())

	prefer := p.prefer
	if len(hints) == 0 {
		prefer = nil
	}

	observations, err := c.local.Recognize(ctx, img, hints, p.correction)
	if err != nil {
		return "", err
	}

	lines := make([]string, 0, len(observations))
	for _, obs := range observations {
		if line := SelectCandidate(obs.Candidates, prefer); line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n"), nil
}

// filterHints keeps only the hints the engine reports as supported,
// preserving order.
func filterHints(hints, supported []string) []string {
	if len(hints) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(supported))
	for _, s := range supported {
		set[s] = struct{}{}
	}
	filtered := make([]string, 0, len(hints))
	for _, h := range hints {
		if _, ok := set[h]; ok {
			filtered = append(filtered, h)
		}
	}
	return filtered
}
