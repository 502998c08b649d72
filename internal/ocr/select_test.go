package ocr

import (
	"testing"

	"github.com/snaplingo/snaplingo/internal/script"
)

func TestSelectCandidate(t *testing.T) {
	tests := []struct {
		name       string
		candidates []string
		prefer     func(string) bool
		want       string
	}{
		{
			name:       "empty list",
			candidates: nil,
			want:       "",
		},
		{
			name:       "top ranked without preference",
			candidates: []string{"first", "second"},
			want:       "first",
		},
		{
			name:       "preference rescues lower rank",
			candidates: []string{"bZ7", "ありがとう"},
			prefer:     script.ContainsJapanese,
			want:       "ありがとう",
		},
		{
			name:       "preference unmatched falls back to top",
			candidates: []string{"hello", "world"},
			prefer:     script.ContainsJapanese,
			want:       "hello",
		},
		{
			name:       "preference matches top candidate",
			candidates: []string{"こんにちは", "hello"},
			prefer:     script.ContainsJapanese,
			want:       "こんにちは",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SelectCandidate(tt.candidates, tt.prefer); got != tt.want {
				t.Errorf("SelectCandidate(%v) = %q, want %q", tt.candidates, got, tt.want)
			}
		})
	}
}
