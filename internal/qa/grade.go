package qa

import "strings"

// minTokenLen is the exclusive lower bound on token length for overlap credit.
const minTokenLen = 3

// Grade compares a free-text answer with the expected one. Both sides are
// trimmed and lower-cased; the answer is correct when either contains the
// other, or when it is longer than three characters and shares a token longer
// than three characters with the expected answer.
//
// A blank answer is wrong. Plain containment would accept it, since the empty
// string is inside every expected value; Grade rejects it before that check.
func Grade(user, expected string) bool {
	u := strings.ToLower(strings.TrimSpace(user))
	e := strings.ToLower(strings.TrimSpace(expected))
	if u == "" {
		return false
	}
	if strings.Contains(e, u) || strings.Contains(u, e) {
		return true
	}
	if len(u) <= minTokenLen {
		return false
	}

	expectedTokens := make(map[string]struct{})
	for _, tok := range strings.Fields(e) {
		expectedTokens[tok] = struct{}{}
	}
	for _, tok := range strings.Fields(u) {
		if len(tok) <= minTokenLen {
			continue
		}
		if _, ok := expectedTokens[tok]; ok {
			return true
		}
	}
	return false
}
