package services

import (
	"strings"

	"geekseek/models"
)

// DefaultCompareSubjects ist die Anzahl der Vergleichsobjekte im interaktiven Modus.
const DefaultCompareSubjects = 2

// NoStructuredTableText wird angezeigt, wenn weder Tabelle noch Beschreibung vorliegen.
const NoStructuredTableText = "No structured table provided."

// CompareOptions steuern die Tabellen-Normalisierung.
type CompareOptions struct {
	// Subjects ist D, die Zahl der Datenspalten. <= 0 bedeutet DefaultCompareSubjects.
	Subjects int `json:"subjects"`
}

func (o CompareOptions) subjects() int {
	if o.Subjects <= 0 {
		return DefaultCompareSubjects
	}
	return o.Subjects
}

// NormalizeComparisonTable baut aus Payload und Original-Query eine stabile Tabelle.
// Die Funktion ist rein und verträgt beliebig kaputte Payloads.
func NormalizeComparisonTable(payload *models.ComparePayload, query string, opts CompareOptions) models.NormalizedTable {
	if payload == nil {
		return models.NormalizedTable{Columns: []string{}, Rows: []models.NormalizedRow{}}
	}
	subjects := opts.subjects()

	fallback := FallbackOptions(payload.Items, ExtractComparisonLabels(query), subjects)
	cols := ResolveColumns(payload.DeclaredColumns, fallback, subjects)

	rows := NormalizeRows(payload.Rows, cols.ExpectedValueCount)

	warnings := cols.Warnings
	if cols.ExpectedValueCount > 2 {
		warnings = append(warnings, "directional hints only address the first two subject columns")
	}

	return models.NormalizedTable{
		Columns:  cols.Columns,
		Rows:     MergeDirectionalRows(rows, cols.ExpectedValueCount),
		Warnings: warnings,
	}
}

// ComparisonView bündelt alles, was die Compare-Ansicht darstellt.
type ComparisonView struct {
	Pills              []string               `json:"pills"`
	Table              models.NormalizedTable `json:"table"`
	HasStructuredTable bool                   `json:"has_structured_table"`
	FallbackText       string                 `json:"fallback_text,omitempty"`
	Highlights         []models.Highlight     `json:"highlights"`
	Summary            string                 `json:"summary,omitempty"`
	Links              []models.Link          `json:"links"`
}

// BuildComparisonView normalisiert die Tabelle und entscheidet den Textfallback:
// ohne Zeilen erst description, dann NoStructuredTableText.
func BuildComparisonView(payload *models.ComparePayload, query string, opts CompareOptions) ComparisonView {
	view := ComparisonView{
		Pills:      []string{},
		Highlights: []models.Highlight{},
		Links:      []models.Link{},
	}
	view.Table = NormalizeComparisonTable(payload, query, opts)
	view.HasStructuredTable = !view.Table.Empty()
	if payload == nil {
		return view
	}

	for _, item := range payload.Items {
		if s := SanitizeCell(item); !isSentinel(s) {
			view.Pills = append(view.Pills, s)
		}
	}

	if !view.HasStructuredTable {
		view.FallbackText = NoStructuredTableText
		if payload.Description != "" {
			view.FallbackText = payload.Description
		}
	}

	for _, h := range payload.Highlights {
		if h.Item == "" {
			h.Item = "Highlight"
		}
		view.Highlights = append(view.Highlights, h)
	}
	view.Summary = payload.Summary

	for _, l := range payload.Links {
		if strings.TrimSpace(l.URL) == "" {
			continue
		}
		if l.Label == "" {
			l.Label = l.URL
		}
		view.Links = append(view.Links, l)
	}
	return view
}
