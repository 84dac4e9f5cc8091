package poststore

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9_.-]`)

var pathSeparators = strings.NewReplacer("/", " ", "\\", " ")

// SafeFilename reduces name to ASCII letters, digits, '_', '.' and '-' so it
// can be used as a single path element. Accents are folded to their base
// letter; other characters are dropped. The result may be empty.
func SafeFilename(name string) string {
	var b strings.Builder
	for _, r := range norm.NFKD.String(name) {
		if r < utf8.RuneSelf {
			b.WriteRune(r)
		}
	}
	name = pathSeparators.Replace(b.String())
	name = strings.Join(strings.Fields(name), "_")
	name = unsafeFilenameChars.ReplaceAllString(name, "")
	return strings.Trim(name, "._")
}

// Slug derives a post name from its title.
func Slug(title string) string {
	return SafeFilename(strings.ReplaceAll(title, " ", "_"))
}

// Humanize turns a post name back into a readable heading.
func Humanize(name string) string {
	s := strings.Join(strings.Fields(strings.ReplaceAll(name, "_", " ")), " ")
	return cases.Title(language.English).String(s)
}

// validName rejects names that could escape the posts directory.
func validName(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	return !strings.ContainsAny(name, "/\\\x00")
}
