package ocr

// SelectCandidate picks the line text from a ranked candidate list.
//
// When prefer is non-nil, the first candidate it matches wins; otherwise the
// top-ranked candidate is used. Script-priority passes use this to rescue a
// lower-ranked candidate in the right writing system when the engine's top
// choice drifted into another script. Returns "" for an empty candidate
// list.
func SelectCandidate(candidates []string, prefer func(string) bool) string {
	if len(candidates) == 0 {
		return ""
	}
	if prefer != nil {
		for _, c := range candidates {
			if prefer(c) {
				return c
			}
		}
	}
	return candidates[0]
}
