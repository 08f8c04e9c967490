package challenge

import (
	"testing"

	"github.com/letteratech/identity-service/internal/core/domain"
)

func TestRandSelectorPick_Range(t *testing.T) {
	s := NewRandSelector()

	seen := make(map[int]bool)
	for i := 0; i < 2000; i++ {
		idx := s.Pick()
		if idx < 0 || idx >= domain.CodePhraseCount {
			t.Fatalf("pick %d out of range [0,%d)", idx, domain.CodePhraseCount)
		}
		seen[idx] = true
	}

	// Over 2000 draws every index should appear; a missing one points at a
	// biased selector.
	for i := 0; i < domain.CodePhraseCount; i++ {
		if !seen[i] {
			t.Fatalf("index %d never picked", i)
		}
	}
}
