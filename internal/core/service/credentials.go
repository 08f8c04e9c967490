package service

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/letteratech/identity-service/internal/core/domain"
)

// Word pools for code phrase generation. Phrases take the shape
// "word-word-NN"; the pools are small on purpose — uniqueness within one
// issued set is enforced by generateCodePhrases, global uniqueness is not
// required because phrases are only ever compared per identity.
var phraseAdjectives = []string{
	"amber", "bold", "brisk", "calm", "clever", "crisp", "deep", "eager",
	"fair", "fleet", "fond", "gentle", "glad", "grand", "keen", "kind",
	"light", "lively", "lucky", "merry", "noble", "plain", "proud", "quick",
	"quiet", "rapid", "sharp", "silent", "solid", "steady", "swift", "warm",
}

var phraseNouns = []string{
	"anchor", "beacon", "bridge", "canyon", "cedar", "comet", "coral",
	"crane", "delta", "ember", "falcon", "garnet", "glacier", "harbor",
	"heron", "island", "lantern", "maple", "meadow", "meteor", "orchid",
	"osprey", "pebble", "raven", "reef", "ridge", "river", "sparrow",
	"summit", "thistle", "tundra", "willow",
}

func randInt(max int) (int, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(int64(max)))
	if err != nil {
		return 0, err
	}
	return int(n.Int64()), nil
}

// generateLetteraNumber returns a fresh LetteraTech number: the fixed
// "+11111" prefix followed by random digits, sixteen characters total.
func generateLetteraNumber() (string, error) {
	digits := make([]byte, domain.LetteraNumberLength-len(domain.LetteraPrefix))
	for i := range digits {
		d, err := randInt(10)
		if err != nil {
			return "", fmt.Errorf("generate number: %w", err)
		}
		digits[i] = byte('0' + d)
	}
	return domain.LetteraPrefix + string(digits), nil
}

// generateCodePhrases returns n distinct phrases of the form "word-word-NN".
func generateCodePhrases(n int) ([]string, error) {
	phrases := make([]string, 0, n)
	seen := make(map[string]struct{}, n)
	for len(phrases) < n {
		adj, err := randInt(len(phraseAdjectives))
		if err != nil {
			return nil, fmt.Errorf("generate phrase: %w", err)
		}
		noun, err := randInt(len(phraseNouns))
		if err != nil {
			return nil, fmt.Errorf("generate phrase: %w", err)
		}
		num, err := randInt(90)
		if err != nil {
			return nil, fmt.Errorf("generate phrase: %w", err)
		}
		phrase := fmt.Sprintf("%s-%s-%d", phraseAdjectives[adj], phraseNouns[noun], num+10)
		if _, dup := seen[phrase]; dup {
			continue
		}
		seen[phrase] = struct{}{}
		phrases = append(phrases, phrase)
	}
	return phrases, nil
}

// codeAlphabet deliberately omits easily-confused characters (0/O, 1/I).
const codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// generateCode returns a random code of the given length for email
// verification and recovery.
func generateCode(length int) (string, error) {
	b := make([]byte, length)
	for i := range b {
		idx, err := randInt(len(codeAlphabet))
		if err != nil {
			return "", fmt.Errorf("generate code: %w", err)
		}
		b[i] = codeAlphabet[idx]
	}
	return string(b), nil
}
