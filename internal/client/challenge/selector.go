// Package challenge picks the code phrase index a phrase-based
// authentication attempt must answer.
//
// Selection runs on the client, so the party being challenged also chooses
// which of its secrets to reveal; a server-issued index would be a stronger
// proof of possession. The Selector interface keeps that change a drop-in:
// an implementation that renders a server-returned index satisfies it.
package challenge

import (
	"math/rand/v2"

	"github.com/letteratech/identity-service/internal/core/domain"
)

// Selector produces a fresh phrase index. Callers must re-invoke Pick —
// never cache — whenever the phrase method is newly activated, the user
// requests a new challenge, or a phrase-based recovery begins. Each pick is
// independent of all prior picks.
type Selector interface {
	Pick() int
}

// RandSelector picks uniformly over [0, CodePhraseCount).
type RandSelector struct{}

func NewRandSelector() *RandSelector {
	return &RandSelector{}
}

func (RandSelector) Pick() int {
	return rand.IntN(domain.CodePhraseCount)
}
