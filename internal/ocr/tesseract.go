package ocr

import (
	"context"
	"fmt"
	"image"
	"sort"
	"strings"

	"github.com/otiai10/gosseract/v2"

	"github.com/snaplingo/snaplingo/internal/imaging"
	"github.com/snaplingo/snaplingo/internal/logging"
)

// tessLanguages maps Tesseract traineddata codes to the locale hint codes
// the cascade issues. Only installed traineddata contributes supported
// hints.
var tessLanguages = map[string][]string{
	"eng":     {"en", "en-US"},
	"jpn":     {"ja", "ja-JP"},
	"chi_tra": {"zh-Hant", "zh-TW"},
	"chi_sim": {"zh-Hans", "zh-CN"},
	"kor":     {"ko", "ko-KR"},
	"fra":     {"fr", "fr-FR"},
	"deu":     {"de", "de-DE"},
	"spa":     {"es", "es-ES"},
	"ita":     {"it", "it-IT"},
	"por":     {"pt", "pt-BR"},
	"rus":     {"ru", "ru-RU"},
}

// hintToTess is the reverse mapping from locale hints to traineddata codes.
var hintToTess = func() map[string]string {
	m := make(map[string]string)
	for code, hints := range tessLanguages {
		for _, h := range hints {
			m[h] = code
		}
	}
	return m
}()

// TesseractEngine is the local OCR Engine backed by the system Tesseract
// installation via gosseract. One engine value is reusable across captures;
// each Recognize call uses a fresh gosseract client.
type TesseractEngine struct {
	installed map[string]bool // traineddata codes present on this system
	supported []string        // locale hints derivable from installed data
	log       *logging.Logger
}

// NewTesseractEngine probes the installed Tesseract language data and
// returns an engine advertising the locale hints that data can serve.
// Fails when Tesseract reports no usable languages at all.
func NewTesseractEngine() (*TesseractEngine, error) {
	available, err := gosseract.GetAvailableLanguages()
	if err != nil {
		return nil, fmt.Errorf("failed to query tesseract languages: %w", err)
	}

	installed := make(map[string]bool, len(available))
	var supported []string
	for _, lang := range available {
		installed[lang] = true
		supported = append(supported, tessLanguages[lang]...)
	}
	if len(installed) == 0 {
		return nil, fmt.Errorf("no tesseract language data installed")
	}

	return &TesseractEngine{
		installed: installed,
		supported: supported,
		log:       logging.New("tesseract"),
	}, nil
}

// SupportedLanguages reports the locale hint codes this engine accepts,
// derived from the installed traineddata files.
func (e *TesseractEngine) SupportedLanguages() []string {
	return e.supported
}

// Recognize runs one Tesseract pass over img.
//
// Hints are translated to traineddata codes; an empty hint list runs every
// installed recognition language, which is the closest Tesseract analogue to
// auto-detection. useCorrection toggles Tesseract's dictionary dawgs, its
// native form of language correction. Line observations come from TEXTLINE
// bounding boxes; if box extraction fails, the full text is split into lines
// instead so recognition output is never lost to an iterator problem.
func (e *TesseractEngine) Recognize(ctx context.Context, img image.Image, languageHints []string, useCorrection bool) ([]LineObservation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	codes := e.resolveLanguages(languageHints)
	if len(codes) == 0 {
		return nil, fmt.Errorf("no usable tesseract language for hints %v", languageHints)
	}

	data, err := imaging.EncodePNG(img)
	if err != nil {
		return nil, fmt.Errorf("failed to encode image for tesseract: %w", err)
	}

	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetLanguage(codes...); err != nil {
		return nil, fmt.Errorf("failed to set language: %w", err)
	}
	if !useCorrection {
		// Disabling the dictionary dawgs stops Tesseract from "correcting"
		// output toward dictionary words, which mangles CJK line text.
		if err := client.SetVariable("load_system_dawg", "F"); err != nil {
			return nil, fmt.Errorf("failed to disable system dawg: %w", err)
		}
		if err := client.SetVariable("load_freq_dawg", "F"); err != nil {
			return nil, fmt.Errorf("failed to disable freq dawg: %w", err)
		}
	}
	if err := client.SetImageFromBytes(data); err != nil {
		return nil, fmt.Errorf("failed to set image: %w", err)
	}

	boxes, err := client.GetBoundingBoxes(gosseract.RIL_TEXTLINE)
	if err == nil && len(boxes) > 0 {
		observations := make([]LineObservation, 0, len(boxes))
		for _, box := range boxes {
			line := strings.TrimRight(box.Word, "\n")
			if strings.TrimSpace(line) == "" {
				continue
			}
			observations = append(observations, LineObservation{Candidates: []string{line}})
		}
		return observations, nil
	}
	if err != nil {
		e.log.Debug("textline boxes unavailable, using full text", "error", err)
	}

	text, err := client.Text()
	if err != nil {
		return nil, fmt.Errorf("OCR failed: %w", err)
	}

	var observations []LineObservation
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		observations = append(observations, LineObservation{Candidates: []string{line}})
	}
	return observations, nil
}

// resolveLanguages maps locale hints to installed traineddata codes,
// preserving hint order and dropping duplicates. An empty hint list resolves
// to every installed language, sorted so consecutive auto-detection runs hand
// Tesseract the same language order.
func (e *TesseractEngine) resolveLanguages(hints []string) []string {
	if len(hints) == 0 {
		var codes []string
		for code := range tessLanguages {
			if e.installed[code] {
				codes = append(codes, code)
			}
		}
		sort.Strings(codes)
		return codes
	}

	seen := make(map[string]bool)
	var codes []string
	for _, hint := range hints {
		code, ok := hintToTess[hint]
		if !ok || !e.installed[code] || seen[code] {
			continue
		}
		seen[code] = true
		codes = append(codes, code)
	}
	return codes
}
