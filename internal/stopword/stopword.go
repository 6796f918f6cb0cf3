// Package stopword implements the is_stop_word predicate (spec.md §6):
// a token is a stop word if it's a single character, starts with a
// non-alphabetic byte, parses as a number, is composed solely of Roman
// numeral letters, or appears in the closed English stop-word list.
//
// Grounded on Stop_Words/Stop_Words.c's Is_Word_In_Stop_Word_List and
// Is_String_A_Latin_Numeral.
package stopword

import (
	"strconv"
	"strings"
)

// Language is a closed-set tag. English is the only required value
// (spec.md §6).
type Language int

const (
	English Language = iota
)

// englishStopWords mirrors the intent of the legacy's
// Stop_Words_English.txt-included array: a small closed list of common
// English function words. Matching is case-insensitive.
var englishStopWords = map[string]struct{}{
	"a": {}, "about": {}, "above": {}, "after": {}, "again": {}, "against": {},
	"all": {}, "am": {}, "an": {}, "and": {}, "any": {}, "are": {}, "as": {},
	"at": {}, "be": {}, "because": {}, "been": {}, "before": {}, "being": {},
	"below": {}, "between": {}, "both": {}, "but": {}, "by": {}, "can": {},
	"did": {}, "do": {}, "does": {}, "doing": {}, "down": {}, "during": {},
	"each": {}, "few": {}, "for": {}, "from": {}, "further": {}, "had": {},
	"has": {}, "have": {}, "having": {}, "her": {}, "here": {}, "hers": {},
	"herself": {}, "him": {}, "himself": {}, "his": {}, "how": {}, "into": {},
	"is": {}, "it": {}, "its": {}, "itself": {}, "just": {}, "me": {},
	"more": {}, "most": {}, "my": {}, "myself": {}, "no": {}, "nor": {},
	"not": {}, "now": {}, "of": {}, "off": {}, "on": {}, "once": {}, "only": {},
	"or": {}, "other": {}, "our": {}, "ours": {}, "ourselves": {}, "out": {},
	"over": {}, "own": {}, "same": {}, "she": {}, "should": {}, "so": {},
	"some": {}, "such": {}, "than": {}, "that": {}, "the": {}, "their": {},
	"theirs": {}, "them": {}, "themselves": {}, "then": {}, "there": {},
	"these": {}, "they": {}, "this": {}, "those": {}, "through": {}, "to": {},
	"too": {}, "under": {}, "until": {}, "up": {}, "very": {}, "was": {},
	"we": {}, "were": {}, "what": {}, "when": {}, "where": {}, "which": {},
	"while": {}, "who": {}, "whom": {}, "why": {}, "will": {}, "with": {},
	"would": {}, "you": {}, "your": {}, "yours": {}, "yourself": {},
	"yourselves": {},
}

// IsStopWord classifies tok for language (English is the only supported
// value). Per spec.md §6, this also classifies as stop words: any
// single-character token; any token whose first byte is not
// alphabetic; any token parseable as a decimal integer or float; any
// token composed exclusively of Roman-numeral letters.
func IsStopWord(tok string, language Language) bool {
	if len(tok) == 0 {
		return true
	}
	if len(tok) == 1 {
		return true
	}
	if !isASCIIAlpha(tok[0]) {
		return true
	}
	if isNumericLiteral(tok) {
		return true
	}
	if isRomanNumeral(tok) {
		return true
	}

	lower := strings.ToLower(tok)
	_, found := englishStopWords[lower]
	return found
}

func isASCIIAlpha(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

// isNumericLiteral reports whether tok parses as a decimal integer or
// floating-point literal (grounded on Stop_Words.c's str2int/str2double
// attempts).
func isNumericLiteral(tok string) bool {
	if _, err := strconv.ParseInt(tok, 10, 64); err == nil {
		return true
	}
	if _, err := strconv.ParseFloat(tok, 64); err == nil {
		return true
	}
	return false
}

// isRomanNumeral reports whether tok consists solely of the letters
// {I, V, X, L, C, D, M} (grounded on Is_String_A_Latin_Numeral).
func isRomanNumeral(tok string) bool {
	for i := 0; i < len(tok); i++ {
		switch tok[i] {
		case 'I', 'V', 'X', 'L', 'C', 'D', 'M':
			continue
		default:
			return false
		}
	}
	return true
}
