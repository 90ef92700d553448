package utils

import (
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripMarks decomposes accented letters and drops the combining marks, so
// names like Élodie contribute plain ASCII letters to a code.
var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// GeneratePromoCode builds a partner promo code from the configured prefix
// and the first two letters of the last and first name, uppercased. When the
// candidate is already taken a numeric suffix is probed (1, 2, ...) until the
// code is free. Deterministic for a given name pair and used set; callers
// extending a batch must add each returned code to used before the next call.
func GeneratePromoCode(firstName, lastName, prefix string, used map[string]bool) string {
	base := strings.ToUpper(prefix + codeLetters(lastName, 2) + codeLetters(firstName, 2))

	if !used[base] {
		return base
	}

	for i := 1; ; i++ {
		candidate := base + strconv.Itoa(i)
		if !used[candidate] {
			return candidate
		}
	}
}

// NormalizeCode prepares a code for comparison: trimmed and uppercased.
// Order webhooks may deliver codes in any casing.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// UsedCodeSet builds a normalized lookup set from existing codes.
func UsedCodeSet(codes []string) map[string]bool {
	used := make(map[string]bool, len(codes))
	for _, code := range codes {
		if code = NormalizeCode(code); code != "" {
			used[code] = true
		}
	}
	return used
}

// codeLetters extracts up to n code-safe characters from a name: diacritics
// folded away, everything outside ASCII letters and digits skipped. A name
// with no usable characters contributes nothing and the prefix carries the
// code on its own.
func codeLetters(name string, n int) string {
	if folded, _, err := transform.String(stripMarks, name); err == nil {
		name = folded
	}

	picked := make([]rune, 0, n)
	for _, r := range name {
		if r > unicode.MaxASCII || (!unicode.IsLetter(r) && !unicode.IsDigit(r)) {
			continue
		}
		picked = append(picked, r)
		if len(picked) == n {
			break
		}
	}
	return string(picked)
}
