package printer

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// DefaultCodePage is the character table ESC/POS printers start in.
const DefaultCodePage = "cp437"

var codePages = map[string]*charmap.Charmap{
	"cp437":       charmap.CodePage437,
	"cp850":       charmap.CodePage850,
	"cp852":       charmap.CodePage852,
	"cp858":       charmap.CodePage858,
	"cp866":       charmap.CodePage866,
	"cp1251":      charmap.Windows1251,
	"cp1252":      charmap.Windows1252,
	"iso-8859-1":  charmap.ISO8859_1,
	"iso-8859-15": charmap.ISO8859_15,
	"koi8-r":      charmap.KOI8R,
}

// CodePage turns text into single byte printer characters.
type CodePage struct {
	Name string
	cm   *charmap.Charmap // nil for raw
}

// LookupCodePage finds a code page by name; "raw" passes UTF-8 through untouched.
func LookupCodePage(name string) (*CodePage, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		name = DefaultCodePage
	}
	if name == "raw" {
		return &CodePage{Name: name}, nil
	}
	cm, ok := codePages[name]
	if !ok {
		return nil, fmt.Errorf("unknown code page %q (known: %s, raw)", name, strings.Join(CodePages(), ", "))
	}
	return &CodePage{Name: name, cm: cm}, nil
}

// CodePages lists the supported code page names.
func CodePages() []string {
	names := make([]string, 0, len(codePages))
	for n := range codePages {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Encode maps s into the code page; runes it cannot represent become '?'.
func (c *CodePage) Encode(s string) []byte {
	if c.cm == nil {
		return []byte(s)
	}
	out := make([]byte, 0, len(s))
	for len(s) > 0 {
		r, size := utf8.DecodeRuneInString(s)
		s = s[size:]
		b, ok := c.cm.EncodeRune(r)
		if !ok || r == utf8.RuneError && size == 1 {
			b = '?'
		}
		out = append(out, b)
	}
	return out
}
