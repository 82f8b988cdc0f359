package models

import (
	"errors"

	"github.com/tidwall/gjson"
)

// ErrInvalidJSON wird geliefert, wenn der Upstream-Body kein JSON ist.
var ErrInvalidJSON = errors.New("upstream returned invalid JSON")

// Present entspricht "weder undefined noch null".
func Present(r gjson.Result) bool {
	return r.Exists() && r.Type != gjson.Null
}

func arrayOf(r gjson.Result) []gjson.Result {
	if !r.IsArray() {
		return nil
	}
	return r.Array()
}

// stringOf liefert nur echte JSON-Strings, alles andere wird leer.
func stringOf(r gjson.Result) string {
	if r.Type != gjson.String {
		return ""
	}
	return r.Str
}

func stringPtrOf(r gjson.Result) *string {
	if r.Type != gjson.String {
		return nil
	}
	s := r.Str
	return &s
}

func floatPtrOf(r gjson.Result) *float64 {
	if r.Type != gjson.Number {
		return nil
	}
	f := r.Num
	return &f
}

func boolPtrOf(r gjson.Result) *bool {
	if !r.IsBool() {
		return nil
	}
	b := r.Bool()
	return &b
}

func stringsOf(r gjson.Result) []string {
	var out []string
	for _, v := range arrayOf(r) {
		if v.Type == gjson.String {
			out = append(out, v.Str)
		}
	}
	return out
}
