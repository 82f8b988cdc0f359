package services

import (
	"fmt"
	"regexp"

	"github.com/tidwall/gjson"

	"geekseek/models"
)

var placeholderHeader = regexp.MustCompile(`(?i)^(?:option|choice)?\s*(?:a|b|1|2)$`)

// IsPlaceholderHeader erkennt generische Spaltenköpfe wie "Option A", "choice 2" oder "B".
// Solche Köpfe gelten nie als echte Labels.
func IsPlaceholderHeader(header string) bool {
	return placeholderHeader.MatchString(header)
}

// ColumnResolution ist das Ergebnis der Spaltenauflösung.
type ColumnResolution struct {
	Columns            []string
	FallbackOptions    []string
	ExpectedValueCount int
	Warnings           []string
}

// FallbackOptions bestimmt die Ersatznamen der Vergleichsobjekte:
// bereinigte items, sonst Labels aus der Query, sonst "Item 1".."Item D".
func FallbackOptions(items []gjson.Result, queryLabels []string, subjects int) []string {
	subjects = max(1, subjects)
	var options []string
	for _, item := range items {
		if s := SanitizeCell(item); !isSentinel(s) {
			options = append(options, s)
		}
	}
	if len(options) > 0 {
		return options
	}
	for _, label := range queryLabels {
		options = append(options, SanitizeText(label))
	}
	if len(options) > 0 {
		return options
	}
	for i := 1; i <= subjects; i++ {
		options = append(options, fmt.Sprintf("Item %d", i))
	}
	return options
}

// ResolveColumns liefert die finale Kopfzeile: "Factor" plus ein Kopf je Vergleichsobjekt.
// Deklarierte Spalten haben Vorrang, Platzhalter und Sentinels werden durch
// fallback ersetzt.
func ResolveColumns(declared []gjson.Result, fallback []string, subjects int) ColumnResolution {
	subjects = max(1, subjects)
	res := ColumnResolution{FallbackOptions: fallback}

	var raw []string
	if len(declared) > 0 {
		raw = make([]string, 0, len(declared))
		for _, col := range declared {
			raw = append(raw, SanitizeCell(col))
		}
		if len(raw) < 2 {
			res.Warnings = append(res.Warnings, "payload declared no subject column; using fallback header")
		}
	} else {
		raw = append([]string{models.FactorHeader}, fallback[:min(subjects, len(fallback))]...)
	}
	// Mindestens eine Datenspalte, sonst passt keine Zeile zur Kopfzeile
	for len(raw) < 2 {
		raw = append(raw, models.Sentinel)
	}

	res.Columns = make([]string, len(raw))
	for i, col := range raw {
		res.Columns[i] = displayHeader(i, col, fallback)
	}
	res.ExpectedValueCount = max(1, len(res.Columns)-1)

	if got := len(res.Columns) - 1; got != subjects {
		res.Warnings = append(res.Warnings, fmt.Sprintf("resolved %d subject columns, expected %d", got, subjects))
	}
	return res
}

func displayHeader(index int, header string, fallback []string) string {
	if index == 0 {
		if isSentinel(header) {
			return models.FactorHeader
		}
		return header
	}
	if index-1 >= len(fallback) {
		if isSentinel(header) {
			return fmt.Sprintf("Choice %d", index)
		}
		return header
	}
	if IsPlaceholderHeader(header) || isSentinel(header) {
		return fallback[index-1]
	}
	return header
}
