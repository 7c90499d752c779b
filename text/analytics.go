package text

import (
	"fmt"
	"regexp"
)

// moneyPattern flags a dollar amount. Three of the four alternatives are
// anchored to the start of the string; only the "USD"/"dollars" form can
// match anywhere.
var moneyPattern = regexp.MustCompile(
	`(^\$(\d+))` +
		`|(^\$(?:\d*\.\d{1,2}))` +
		`|(\d* (?:USD|dollars))` +
		`|(^\$(?:\d{3},)?(?:\d{3},)*\d{3}\.\d+)`,
)

// CountPhrase returns the number of non-overlapping, case-insensitive
// matches of phrase summed over all texts. The phrase is compiled as a
// regular expression as-is, so metacharacters keep their meaning.
func CountPhrase(phrase string, texts ...string) (int, error) {
	re, err := regexp.Compile("(?i)" + phrase)
	if err != nil {
		return 0, fmt.Errorf("compile phrase %q: %w", phrase, err)
	}

	total := 0
	for _, t := range texts {
		total += len(re.FindAllStringIndex(t, -1))
	}
	return total, nil
}

// MentionsMoney reports whether any of the texts matches the currency
// pattern.
func MentionsMoney(texts ...string) bool {
	for _, t := range texts {
		if moneyPattern.MatchString(t) {
			return true
		}
	}
	return false
}
