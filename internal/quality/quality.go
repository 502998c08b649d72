// Package quality scores raw OCR output as usable text versus recognition
// noise. It is the single acceptance gate shared by the cloud and local
// stages of the recognition cascade.
package quality

import (
	"strings"
	"unicode"
)

// Fixed classifier thresholds, tuned to reject symbol soup while keeping
// legitimate short strings.
const (
	maxNonWordRatio        = 0.35
	minLanguageSignalRatio = 0.65
)

// Usable reports whether text looks like real recognized language rather
// than OCR garbage.
//
// The classifier trims whitespace, then computes two ratios over the
// remaining non-whitespace runes:
//
//	nonWordRatio        = (punctuation + symbols) / total
//	languageSignalRatio = (alphanumeric + CJK + kana) / total
//
// Text is rejected as noise only when nonWordRatio > 0.35 AND
// languageSignalRatio < 0.65. Empty or whitespace-only input is never usable.
func Usable(text string) bool {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return false
	}
	return !likelyNoise(trimmed)
}

// likelyNoise applies the ratio heuristic to already-trimmed text.
func likelyNoise(text string) bool {
	var total, alphaNum, punct, symbol, cjk, kana float64

	for _, r := range text {
		if unicode.IsSpace(r) {
			continue
		}
		total++
		if unicode.IsLetter(r) || unicode.IsNumber(r) {
			alphaNum++
		}
		if unicode.IsPunct(r) {
			punct++
		}
		if unicode.IsSymbol(r) {
			symbol++
		}
		if r >= 0x4E00 && r <= 0x9FFF {
			cjk++
		}
		if r >= 0x3040 && r <= 0x30FF {
			kana++
		}
	}

	if total == 0 {
		return true
	}

	nonWordRatio := (punct + symbol) / total
	languageSignalRatio := (alphaNum + cjk + kana) / total

	return nonWordRatio > maxNonWordRatio && languageSignalRatio < minLanguageSignalRatio
}
