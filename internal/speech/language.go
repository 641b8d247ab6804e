// Package speech turns a digest into a localized spoken summary.
package speech

import (
	"errors"
	"fmt"
	"strings"
)

var ErrUnknownLanguage = errors.New("unknown language")

type Language struct {
	Key  string `json:"key"`
	Name string `json:"name"`
	Code string `json:"code"`
}

// languages in menu order; Key is the menu number.
var languages = []Language{
	{Key: "1", Name: "Telugu", Code: "te"},
	{Key: "2", Name: "Hindi", Code: "hi"},
	{Key: "3", Name: "English", Code: "en"},
	{Key: "4", Name: "Malayalam", Code: "ml"},
	{Key: "5", Name: "Tamil", Code: "ta"},
	{Key: "6", Name: "Kannada", Code: "kn"},
}

// DefaultLanguage is English, menu entry "3".
var DefaultLanguage = languages[2]

func Languages() []Language {
	out := make([]Language, len(languages))
	copy(out, languages)
	return out
}

// Lookup finds a language by menu key, code or name, ignoring case.
func Lookup(s string) (Language, error) {
	s = strings.TrimSpace(s)
	for _, l := range languages {
		if s == l.Key || strings.EqualFold(s, l.Code) || strings.EqualFold(s, l.Name) {
			return l, nil
		}
	}
	return Language{}, fmt.Errorf("%w: %q (valid: 1-6, te, hi, en, ml, ta, kn)", ErrUnknownLanguage, s)
}
