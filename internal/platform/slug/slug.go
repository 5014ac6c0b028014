package slug

import (
	"path/filepath"
	"regexp"
	"strings"
)

var nonAlphaNum = regexp.MustCompile(`[^a-z0-9]+`)

func Make(input string) string {
	s := strings.ToLower(strings.TrimSpace(input))
	s = nonAlphaNum.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	if s == "" {
		return "untitled"
	}
	return s
}

// FileStem slugs a file name without its extension, so "My CV.pdf" becomes
// "my-cv".
func FileStem(name string) string {
	base := filepath.Base(name)
	return Make(strings.TrimSuffix(base, filepath.Ext(base)))
}
