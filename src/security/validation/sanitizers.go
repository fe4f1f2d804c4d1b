// src/security/validation/sanitizers.go
package validation

import (
	"path/filepath"
	"regexp"
	"strings"
	"unicode"

	"github.com/microcosm-cc/bluemonday"
)

var (
	strictHTMLPolicy *bluemonday.Policy
	unsafeFilenameRe = regexp.MustCompile(`[^A-Za-z0-9_.-]+`)
)

func init() {
	strictHTMLPolicy = bluemonday.StrictPolicy() // Removes all HTML tags
}

// SanitizeText removes all HTML tags and attributes from an input string.
func SanitizeText(s string) string {
	return strictHTMLPolicy.Sanitize(s)
}

// StripUnprintable removes non-printable characters, allowing common whitespace
// like space, tab, newline, and carriage return.
func StripUnprintable(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsPrint(r) || r == '\t' || r == '\n' || r == '\r' {
			return r
		}
		return -1
	}, s)
}

// SecureFilename reduces name to a safe base name made of ASCII letters,
// digits, '.', '_' and '-'. It returns "" when nothing usable remains.
func SecureFilename(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	name = filepath.Base(name)
	name = strings.Join(strings.Fields(name), "_")
	name = unsafeFilenameRe.ReplaceAllString(name, "")
	name = strings.Trim(name, "._")
	if name == "" || name == "." {
		return ""
	}
	if len(name) > MaxFilenameLength {
		name = name[len(name)-MaxFilenameLength:]
	}
	return name
}
