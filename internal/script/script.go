// Package script classifies text by writing system using Unicode range
// membership. It deliberately avoids locale APIs: the cascade needs cheap,
// deterministic answers for short OCR snippets, and the kana/CJK distinction
// it relies on is a fixed property of the code points themselves.
package script

import "strings"

// Unicode ranges used throughout the package.
const (
	kanaLow  = 0x3040 // Hiragana start
	kanaHigh = 0x30FF // Katakana end
	cjkLow   = 0x4E00 // CJK Unified Ideographs start
	cjkHigh  = 0x9FFF // CJK Unified Ideographs end

	iterationMark = 0x3005 // 々, ideographic iteration mark
)

func isKana(r rune) bool {
	return r >= kanaLow && r <= kanaHigh
}

func isCJK(r rune) bool {
	return r >= cjkLow && r <= cjkHigh
}

// ContainsJapanese reports whether text contains any Hiragana, Katakana,
// CJK ideograph, or the ideographic iteration mark.
func ContainsJapanese(text string) bool {
	for _, r := range text {
		if isKana(r) || isCJK(r) || r == iterationMark {
			return true
		}
	}
	return false
}

// ContainsChinese reports whether text contains CJK ideographs and no kana.
// Kana presence reclassifies the text as Japanese: the CJK range is shared
// between the two scripts, so kana is the tie-breaker.
func ContainsChinese(text string) bool {
	hasCJK := false
	for _, r := range text {
		if isKana(r) {
			return false
		}
		if isCJK(r) {
			hasCJK = true
		}
	}
	return hasCJK
}

// Guess returns a best-effort language code for text: "ja" for Japanese,
// "zh" for Chinese, "en" when any ASCII letter is present, "" otherwise.
// Checks run in that priority order; the first match wins.
func Guess(text string) string {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return ""
	}
	if ContainsJapanese(trimmed) {
		return "ja"
	}
	if ContainsChinese(trimmed) {
		return "zh"
	}
	for _, r := range trimmed {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			return "en"
		}
	}
	return ""
}
