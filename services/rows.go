package services

import (
	"regexp"

	"github.com/tidwall/gjson"

	"geekseek/models"
)

var (
	directionalLabel  = regexp.MustCompile(`(?i)^when to cho(?:ose|se)\b`)
	secondSubjectHint = regexp.MustCompile(`(?i)(?:\b|_)(?:b|second|2)\b`)
	firstSubjectHint  = regexp.MustCompile(`(?i)(?:\b|_)(?:a|first|1)\b`)
)

// IsDirectionalLabel erkennt "When to choose ..." (auch die Tippfehler-Variante "chose").
func IsDirectionalLabel(label string) bool {
	return directionalLabel.MatchString(label)
}

// DirectionalHint liest aus dem Original-Label, welches Vergleichsobjekt gemeint ist.
// b/second/2 zeigen auf Spalte 1, a/first/1 auf Spalte 0. Nur zwei Slots werden erkannt.
func DirectionalHint(originalLabel string) (int, bool) {
	switch {
	case secondSubjectHint.MatchString(originalLabel):
		return 1, true
	case firstSubjectHint.MatchString(originalLabel):
		return 0, true
	default:
		return 0, false
	}
}

// NormalizeRow bringt eine Rohzeile in die Form {label, values} mit genau expected Werten.
// ok ist false, wenn Label und alle Werte leer sind und die Zeile entfallen soll.
func NormalizeRow(row models.RawRow, expected int) (models.NormalizedRow, bool) {
	origin := row.Label
	if !models.Present(origin) {
		origin = row.Key
	}

	label := SanitizeCell(origin)
	forced := -1
	if IsDirectionalLabel(label) {
		label = models.WhenToChooseLabel
		if idx, ok := DirectionalHint(origin.String()); ok {
			forced = idx
		}
	}

	raw := row.Values
	if len(raw) == 0 {
		raw = []gjson.Result{firstPresent(row.A, row.LowerA), firstPresent(row.B, row.LowerB)}
	}
	values := sentinelValues(expected)
	for i := 0; i < len(raw) && i < expected; i++ {
		values[i] = SanitizeCell(raw[i])
	}

	// Einzelwert in Richtungszeile: Wert gehört in die Spalte aus dem Label
	if forced >= 0 && forced < expected {
		if v, ok := singleValue(values); ok {
			values = sentinelValues(expected)
			values[forced] = v
		}
	}

	if isSentinel(label) && allSentinel(values) {
		return models.NormalizedRow{}, false
	}
	return models.NormalizedRow{Label: label, Values: values}, true
}

// NormalizeRows normalisiert alle Rohzeilen und verwirft leere.
func NormalizeRows(rows []models.RawRow, expected int) []models.NormalizedRow {
	out := make([]models.NormalizedRow, 0, len(rows))
	for _, raw := range rows {
		if row, ok := NormalizeRow(raw, expected); ok {
			out = append(out, row)
		}
	}
	return out
}

func firstPresent(primary, secondary gjson.Result) gjson.Result {
	if models.Present(primary) {
		return primary
	}
	return secondary
}

func singleValue(values []string) (string, bool) {
	found := ""
	count := 0
	for _, v := range values {
		if !isSentinel(v) {
			found = v
			count++
		}
	}
	return found, count == 1
}

func allSentinel(values []string) bool {
	for _, v := range values {
		if !isSentinel(v) {
			return false
		}
	}
	return true
}
