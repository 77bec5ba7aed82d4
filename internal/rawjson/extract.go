package rawjson

import (
	"errors"
	"strings"
)

// Outcome classifies an extraction attempt
type Outcome int

const (
	Found Outcome = iota
	NotFound
	ParseError
)

func (o Outcome) String() string {
	switch o {
	case Found:
		return "found"
	case NotFound:
		return "not_found"
	default:
		return "parse_error"
	}
}

var errNotObject = errors.New("top-level value is not an object")

// Extraction is the result of locating a JSON object inside free text
type Extraction struct {
	Outcome Outcome
	Value   Value  // set when Outcome == Found
	Span    string // the substring that was decoded
	Err     error  // decode error when Outcome == ParseError
}

// Extract takes everything from the first '{' to the last '}' inclusive and
// decodes it. Two separate objects in one response therefore fail to parse.
func Extract(text string) Extraction {
	start := strings.IndexByte(text, '{')
	end := strings.LastIndexByte(text, '}')
	if start == -1 || end == -1 {
		return Extraction{Outcome: NotFound}
	}
	if end < start {
		return Extraction{Outcome: ParseError, Err: errors.New("closing brace precedes opening brace")}
	}

	span := text[start : end+1]
	v, err := Decode([]byte(span))
	if err != nil {
		return Extraction{Outcome: ParseError, Span: span, Err: err}
	}
	if !v.IsObject() {
		return Extraction{Outcome: ParseError, Span: span, Err: errNotObject}
	}
	return Extraction{Outcome: Found, Value: v, Span: span}
}
