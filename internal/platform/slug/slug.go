package slug

import (
	"regexp"
	"strings"
)

var (
	nonAlphaNum = regexp.MustCompile(`[^a-z0-9]+`)
	quotes      = strings.NewReplacer(`'`, "", `"`, "")
)

// Make lowercases input, drops quote characters and collapses every other run
// of non-alphanumerics into a single hyphen. It returns "" when nothing is left.
func Make(input string) string {
	s := quotes.Replace(strings.ToLower(input))
	s = nonAlphaNum.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
