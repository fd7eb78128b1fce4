package verify

import (
	"regexp"
	"strings"

	"github.com/MandarKelkarOfficial/talent-sync/internal/entity"
)

var reNonWord = regexp.MustCompile(`\W+`)

// IdentityTokens splits a claimed identity on whitespace/punctuation and keeps
// the tokens longer than 2 characters, lower-cased. Short particles ("de",
// "jr") carry no signal and would inflate matches.
func IdentityTokens(identity string) []string {
	var tokens []string
	for _, t := range reNonWord.Split(strings.ToLower(strings.TrimSpace(identity)), -1) {
		if len(t) > 2 {
			tokens = append(tokens, t)
		}
	}
	return tokens
}

// TokensMatch reports whether enough identity tokens appear in the lower-cased
// text: at least 2 hits when 2+ tokens exist, 1 hit for a single-token
// identity.
func TokensMatch(tokens []string, text string) bool {
	if len(tokens) == 0 || text == "" {
		return false
	}
	textLow := strings.ToLower(text)
	matches := 0
	for _, t := range tokens {
		if strings.Contains(textLow, t) {
			matches++
		}
	}
	if len(tokens) >= 2 {
		return matches >= 2
	}
	return matches >= 1
}

// MatchesIdentity decides whether the claimed identity is attested by the
// extracted text or, independently, by the page-probe evidence. No claimed
// identity and no evidence fails closed.
func MatchesIdentity(claimedIdentity, text string, pageEvidence *entity.ProbeEvidence) bool {
	if TokensMatch(IdentityTokens(claimedIdentity), text) {
		return true
	}
	return pageEvidence != nil && pageEvidence.MatchedIdentity
}
