package services

import (
	"math"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"

	"geekseek/models"
)

// SanitizeCell wandelt einen beliebigen JSON-Wert in einen getrimmten Anzeigetext um.
// null, fehlende Werte und Leerstrings werden zum Sentinel. Zahlen erscheinen in
// kürzester Dezimalform, Arrays und Objekte als kompakter JSON-Text.
func SanitizeCell(v gjson.Result) string {
	if !models.Present(v) {
		return models.Sentinel
	}
	var text string
	switch v.Type {
	case gjson.String:
		text = v.Str
	case gjson.Number:
		text = formatNumber(v.Num)
	case gjson.True:
		text = "true"
	case gjson.False:
		text = "false"
	default:
		text = v.Raw
	}
	return SanitizeText(text)
}

// formatNumber schreibt Zahlen wie die Anzeige im Browser: dezimal für
// 1e-6 <= |f| < 1e21, sonst exponentiell ohne führende Nullen im Exponenten ("1e+21", "1e-7").
func formatNumber(f float64) string {
	abs := math.Abs(f)
	if f == 0 {
		return "0"
	}
	if abs >= 1e-6 && abs < 1e21 {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	mantissa, exp, _ := strings.Cut(strconv.FormatFloat(f, 'e', -1, 64), "e")
	sign, digits := exp[:1], strings.TrimLeft(exp[1:], "0")
	return mantissa + "e" + sign + digits
}

// SanitizeText ist SanitizeCell für bereits vorliegende Strings.
func SanitizeText(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return models.Sentinel
	}
	return s
}

func isSentinel(s string) bool {
	return s == models.Sentinel
}

func sentinelValues(n int) []string {
	values := make([]string, n)
	for i := range values {
		values[i] = models.Sentinel
	}
	return values
}
