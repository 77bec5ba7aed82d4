// Package normalize turns an untrusted model response into a canonical,
// bounded record. Nothing here fails: a field that cannot be coerced keeps
// its default and a Diagnostic is recorded for it.
package normalize

import (
	"fmt"

	"github.com/ppiankov/newsguard/internal/rawjson"
)

// Diagnostic records a field that was defaulted, clamped, or truncated
type Diagnostic struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

func (d Diagnostic) String() string {
	return d.Field + ": " + d.Reason
}

// Diagnostics is the audit trail of one normalization
type Diagnostics []Diagnostic

// Fields returns the affected field paths in order
func (d Diagnostics) Fields() []string {
	out := make([]string, len(d))
	for i, diag := range d {
		out[i] = diag.Field
	}
	return out
}

// Has reports whether field was touched
func (d Diagnostics) Has(field string) bool {
	for _, diag := range d {
		if diag.Field == field {
			return true
		}
	}
	return false
}

const (
	reasonMissing   = "missing"
	reasonNull      = "null"
	reasonWrongType = "wrong type"
	reasonClamped   = "clamped"
	reasonTruncated = "truncated"
	// enumerated values outside the documented set pass through unchanged
	reasonUnknownLabel = "unknown label"
)

type recorder struct {
	diags Diagnostics
}

func (r *recorder) note(field, reason string) {
	r.diags = append(r.diags, Diagnostic{Field: field, Reason: reason})
}

func (r *recorder) absent(field string, v rawjson.Value) {
	if v.IsNull() {
		r.note(field, reasonNull)
		return
	}
	r.note(field, reasonMissing)
}

func (r *recorder) wrongType(field string, v rawjson.Value) {
	r.note(field, fmt.Sprintf("%s: %s", reasonWrongType, v.Kind()))
}

// intField reads an integer and clamps it to [lo, hi]
func (r *recorder) intField(field string, v rawjson.Value, lo, hi, def int) int {
	if !v.Present() || v.IsNull() {
		r.absent(field, v)
		return def
	}
	n, ok := v.Int()
	if !ok {
		r.wrongType(field, v)
		return def
	}
	if n < lo {
		r.note(field, reasonClamped)
		return lo
	}
	if n > hi {
		r.note(field, reasonClamped)
		return hi
	}
	return n
}

func (r *recorder) boolField(field string, v rawjson.Value, def bool) bool {
	if !v.Present() {
		r.absent(field, v)
		return def
	}
	b, ok := v.Bool()
	if !ok {
		r.wrongType(field, v)
		return def
	}
	return b
}

// textField renders any non-null value as text. Null and absent keep def.
func (r *recorder) textField(field string, v rawjson.Value, def string) string {
	if !v.Present() || v.IsNull() {
		r.absent(field, v)
		return def
	}
	return v.Text()
}

// listField reads an array of strings truncated to max. Items are rendered
// as text, nulls become empty strings. A non-array yields an empty list.
func (r *recorder) listField(field string, v rawjson.Value, max int) []string {
	items, ok := v.Items()
	if !ok {
		if !v.Present() || v.IsNull() {
			r.absent(field, v)
		} else {
			r.wrongType(field, v)
		}
		return []string{}
	}
	if len(items) > max {
		r.note(field, reasonTruncated)
		items = items[:max]
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, item.Text())
	}
	return out
}

// objectList returns at most max array elements. Non-object elements are
// dropped with a diagnostic.
func (r *recorder) objectList(field string, v rawjson.Value, max int) []rawjson.Value {
	items, ok := v.Items()
	if !ok {
		if !v.Present() || v.IsNull() {
			r.absent(field, v)
		} else {
			r.wrongType(field, v)
		}
		return nil
	}
	if len(items) > max {
		r.note(field, reasonTruncated)
		items = items[:max]
	}
	out := make([]rawjson.Value, 0, len(items))
	for i, item := range items {
		if !item.IsObject() {
			r.wrongType(fmt.Sprintf("%s[%d]", field, i), item)
			continue
		}
		out = append(out, item)
	}
	return out
}

func path(parent, child string) string {
	return parent + "." + child
}

func index(parent string, i int, child string) string {
	return fmt.Sprintf("%s[%d].%s", parent, i, child)
}
