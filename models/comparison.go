package models

import (
	"github.com/tidwall/gjson"
)

const (
	// Sentinel markiert einen unbekannten Zellwert.
	Sentinel = "--"
	// FactorHeader ist die Überschrift der Label-Spalte.
	FactorHeader = "Factor"
	// WhenToChooseLabel ist das kanonische Label aller Richtungszeilen.
	WhenToChooseLabel = "When to Choose"
)

// ComparePayload ist die (nicht vertrauenswürdige) Antwort des Compare-Upstreams.
// Alle Felder sind optional; fehlerhafte Teile werden beim Parsen zu leeren Werten.
type ComparePayload struct {
	Items []gjson.Result

	// DeclaredColumns enthält table.columns, falls es ein Array ist.
	DeclaredColumns []gjson.Result
	// Rows sind table.rows oder, falls nicht vorhanden, rows auf oberster Ebene.
	Rows      []RawRow
	TableHTML string

	Description string
	Summary     string
	Highlights  []Highlight
	Links       []Link
}

// RawRow ist eine Tabellenzeile in einer der Upstream-Varianten:
// {label|key, values[]} oder {label|key, A|a, B|b}.
type RawRow struct {
	Label  gjson.Result
	Key    gjson.Result
	Values []gjson.Result
	A      gjson.Result
	LowerA gjson.Result
	B      gjson.Result
	LowerB gjson.Result
}

// Highlight ist eine Kurzbewertung einzelner Vergleichsobjekte.
type Highlight struct {
	Item    string `json:"item"`
	Summary string `json:"summary"`
}

// Link ist ein weiterführender Verweis aus dem Payload.
type Link struct {
	URL   string `json:"url"`
	Label string `json:"label"`
}

// NormalizedRow ist eine darstellbare Zeile mit genau D Werten.
type NormalizedRow struct {
	Label  string   `json:"label"`
	Values []string `json:"values"`
}

// NormalizedTable ist das Ergebnis der Normalisierung: 1 + D Spalten, Zeilen mit D Werten.
type NormalizedTable struct {
	Columns  []string        `json:"columns"`
	Rows     []NormalizedRow `json:"rows"`
	Warnings []string        `json:"warnings,omitempty"`
}

// Empty meldet, dass keine strukturierte Tabelle vorliegt und der Aufrufer
// auf Beschreibungstext ausweichen muss.
func (t NormalizedTable) Empty() bool {
	return len(t.Rows) == 0
}

// ParseComparePayload liest den Rohbody des Upstreams. Nur syntaktisch kaputtes JSON
// ist ein Fehler, alles andere degradiert zu leeren Collections.
func ParseComparePayload(body []byte) (*ComparePayload, error) {
	if !gjson.ValidBytes(body) {
		return nil, ErrInvalidJSON
	}
	return CompareFromResult(gjson.ParseBytes(body)), nil
}

// CompareFromResult baut den Payload aus einem bereits geparsten JSON-Wert.
func CompareFromResult(root gjson.Result) *ComparePayload {
	p := &ComparePayload{}
	if !root.IsObject() {
		return p
	}

	p.Items = arrayOf(root.Get("items"))
	p.DeclaredColumns = arrayOf(root.Get("table.columns"))
	p.TableHTML = stringOf(root.Get("table.html"))

	// table.rows hat Vorrang, sobald es gesetzt ist (auch als leeres Array)
	source := root.Get("table.rows")
	if !Present(source) {
		source = root.Get("rows")
	}
	for _, r := range arrayOf(source) {
		p.Rows = append(p.Rows, rawRowOf(r))
	}

	p.Description = stringOf(root.Get("description"))
	p.Summary = stringOf(root.Get("summary"))

	for _, h := range arrayOf(root.Get("highlights")) {
		if !h.IsObject() {
			continue
		}
		p.Highlights = append(p.Highlights, Highlight{
			Item:    stringOf(h.Get("item")),
			Summary: stringOf(h.Get("summary")),
		})
	}
	for _, l := range arrayOf(root.Get("links")) {
		if !l.IsObject() {
			continue
		}
		p.Links = append(p.Links, Link{
			URL:   stringOf(l.Get("url")),
			Label: stringOf(l.Get("label")),
		})
	}
	return p
}

func rawRowOf(r gjson.Result) RawRow {
	if !r.IsObject() {
		return RawRow{}
	}
	return RawRow{
		Label:  r.Get("label"),
		Key:    r.Get("key"),
		Values: arrayOf(r.Get("values")),
		A:      r.Get("A"),
		LowerA: r.Get("a"),
		B:      r.Get("B"),
		LowerB: r.Get("b"),
	}
}
