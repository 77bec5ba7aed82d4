// Package lang detects the language of submissions and translates text
// between English and the supported Indian languages.
package lang

import (
	"strings"
	"unicode"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
	"golang.org/x/text/unicode/norm"
)

// Supported language codes
const (
	English = "en"
	Hindi   = "hi"
	Marathi = "mr"
)

var supported = map[string]language.Tag{
	English: language.English,
	Hindi:   language.Hindi,
	Marathi: language.Marathi,
}

var matcher = language.NewMatcher([]language.Tag{language.English, language.Hindi, language.Marathi})

// Supported reports whether code is one of en, hi, mr
func Supported(code string) bool {
	_, ok := supported[code]
	return ok
}

// Codes lists the supported codes in display order
func Codes() []string {
	return []string{English, Hindi, Marathi}
}

// Normalize maps any BCP 47 tag ("hi-IN", "mar", "en_GB") to a supported
// code, or "" when it matches none of them.
func Normalize(code string) string {
	code = strings.TrimSpace(strings.ReplaceAll(code, "_", "-"))
	if code == "" {
		return ""
	}
	tag, err := language.Parse(code)
	if err != nil {
		return ""
	}
	_, idx, conf := matcher.Match(tag)
	if conf < language.High {
		return ""
	}
	return Codes()[idx]
}

// Name returns the English name of a supported language, "Unknown" otherwise
func Name(code string) string {
	tag, ok := supported[code]
	if !ok {
		return "Unknown"
	}
	return display.English.Languages().Name(tag)
}

// NativeName returns the language's name in its own script
func NativeName(code string) string {
	tag, ok := supported[code]
	if !ok {
		return ""
	}
	return display.Self.Name(tag)
}

// Marker words separate Hindi from Marathi; both use Devanagari.
var (
	marathiMarkers = []string{"आहे", "आणि", "नाही", "आहेत", "होते", "केले", "मध्ये", "झाले", "त्यांनी", "ळ"}
	hindiMarkers   = []string{"है", "और", "नहीं", "हैं", "था", "किया", "में", "के", "की", "का", "ने"}
)

// minLetters is how many letters are needed before a verdict other than
// English is given
const minLetters = 3

// Detect returns en, hi or mr for text; anything unrecognised is English.
func Detect(text string) string {
	text = norm.NFC.String(text)

	var devanagari, latin int
	for _, r := range text {
		switch {
		case unicode.Is(unicode.Devanagari, r):
			if unicode.IsLetter(r) {
				devanagari++
			}
		case unicode.Is(unicode.Latin, r):
			latin++
		}
	}

	if devanagari < minLetters || devanagari < latin {
		return English
	}

	words := strings.FieldsFunc(text, func(r rune) bool {
		return unicode.IsSpace(r) || unicode.IsPunct(r) || r == '।' || r == '॥'
	})

	var mr, hi int
	for _, w := range words {
		for _, m := range marathiMarkers {
			if w == m || (len([]rune(m)) == 1 && strings.Contains(w, m)) {
				mr++
				break
			}
		}
		for _, m := range hindiMarkers {
			if w == m {
				hi++
				break
			}
		}
	}

	if mr > hi {
		return Marathi
	}
	return Hindi
}
