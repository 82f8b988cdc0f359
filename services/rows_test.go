package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tidwall/gjson"

	"geekseek/models"
)

func TestExtractComparisonLabels(t *testing.T) {
	tests := []struct {
		query string
		want  []string
	}{
		{"iPhone 15 vs Galaxy S25+", []string{"iPhone 15", "Galaxy S25+"}},
		{"Rust  VS.   Go", []string{"Rust", "Go"}},
		{"tea versus coffee", []string{"tea", "coffee"}},
		{"Apple against Samsung", []string{"Apple", "Samsung"}},
		{"PS5, Xbox, Switch", []string{"PS5", "Xbox"}},
		{"AC/DC & Queen", []string{"AC", "DC"}},
		{"  ,, / ", []string{}},
		{"", []string{}},
		{"single subject", []string{"single subject"}},
		{"canvas", []string{"canvas"}},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractComparisonLabels(tt.query))
		})
	}
}

func TestIsPlaceholderHeader(t *testing.T) {
	for _, h := range []string{"A", "b", "1", "2", "Option A", "option b", "Choice 1", "choice2", "OPTION   B"} {
		assert.True(t, IsPlaceholderHeader(h), h)
	}
	for _, h := range []string{"Option C", "Choice 3", "iPhone", "Alpha", "Plan B+", "--", ""} {
		assert.False(t, IsPlaceholderHeader(h), h)
	}
}

func TestIsDirectionalLabel(t *testing.T) {
	assert.True(t, IsDirectionalLabel("When to choose iPhone"))
	assert.True(t, IsDirectionalLabel("when to chose B"))
	assert.True(t, IsDirectionalLabel("WHEN TO CHOOSE"))
	assert.False(t, IsDirectionalLabel("Choosing when"))
	assert.False(t, IsDirectionalLabel("When to chooser"))
}

func TestDirectionalHint(t *testing.T) {
	tests := []struct {
		label string
		want  int
		ok    bool
	}{
		{"When to choose B", 1, true},
		{"When to choose the second", 1, true},
		{"when_to_choose_2", 1, true},
		{"When to choose A", 0, true},
		{"When to choose the first one", 0, true},
		{"when_to_choose_1", 0, true},
		{"When to choose A over B", 1, true},
		{"When to choose", 0, false},
		{"When to choose iPhone", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			got, ok := DirectionalHint(tt.label)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func rawRow(json string) models.RawRow {
	r := gjson.Parse(json)
	return models.RawRow{
		Label:  r.Get("label"),
		Key:    r.Get("key"),
		Values: r.Get("values").Array(),
		A:      r.Get("A"),
		LowerA: r.Get("a"),
		B:      r.Get("B"),
		LowerB: r.Get("b"),
	}
}

func TestNormalizeRowSingleValueCorrection(t *testing.T) {
	row, ok := NormalizeRow(rawRow(`{"label": "When to choose B", "values": ["Battery life", "--"]}`), 2)
	assert.True(t, ok)
	assert.Equal(t, models.NormalizedRow{Label: "When to Choose", Values: []string{"--", "Battery life"}}, row)

	// zwei Werte bleiben, wo sie sind
	row, _ = NormalizeRow(rawRow(`{"label": "When to choose A", "values": ["x", "y"]}`), 2)
	assert.Equal(t, []string{"x", "y"}, row.Values)
}

func TestNormalizeRowHintOnlyForDirectionalRows(t *testing.T) {
	row, ok := NormalizeRow(rawRow(`{"label": "Plan B", "values": ["only"]}`), 2)
	assert.True(t, ok)
	assert.Equal(t, models.NormalizedRow{Label: "Plan B", Values: []string{"only", "--"}}, row)
}

func TestNormalizeRowKeyFallbackIsNullish(t *testing.T) {
	row, _ := NormalizeRow(rawRow(`{"label": "", "key": "Weight", "values": ["1"]}`), 2)
	assert.Equal(t, "--", row.Label, "an empty label does not fall back to key")

	row, _ = NormalizeRow(rawRow(`{"key": "Weight", "A": null, "a": "170 g", "B": "", "b": "190 g"}`), 2)
	assert.Equal(t, models.NormalizedRow{Label: "Weight", Values: []string{"170 g", "--"}}, row)
}

func TestNormalizeRowPadsAndTruncates(t *testing.T) {
	row, _ := NormalizeRow(rawRow(`{"label": "Ports", "values": [1, 2, 3, 4]}`), 3)
	assert.Equal(t, []string{"1", "2", "3"}, row.Values)

	row, _ = NormalizeRow(rawRow(`{"label": "Ports", "values": ["USB-C"]}`), 3)
	assert.Equal(t, []string{"USB-C", "--", "--"}, row.Values)
}

func TestNormalizeRowForcedIndexBeyondExpected(t *testing.T) {
	row, _ := NormalizeRow(rawRow(`{"label": "When to choose B", "values": ["Solo"]}`), 1)
	assert.Equal(t, []string{"Solo"}, row.Values)
}

func TestMergeDirectionalRowsLastWriterWins(t *testing.T) {
	rows := []models.NormalizedRow{
		{Label: "When to Choose", Values: []string{"X", "Z"}},
		{Label: "Price", Values: []string{"1", "2"}},
		{Label: "When to Choose", Values: []string{"Y", "--"}},
		{Label: "Price", Values: []string{"3", "4"}},
	}

	merged := MergeDirectionalRows(rows, 2)

	assert.Equal(t, []models.NormalizedRow{
		{Label: "Price", Values: []string{"1", "2"}},
		{Label: "Price", Values: []string{"3", "4"}},
		{Label: "When to Choose", Values: []string{"Y", "Z"}},
	}, merged)
}

func TestMergeDirectionalRowsDropsEmptyDirectional(t *testing.T) {
	rows := []models.NormalizedRow{
		{Label: "When to Choose", Values: []string{"--", "--"}},
		{Label: "Price", Values: []string{"1", "2"}},
	}
	assert.Equal(t, []models.NormalizedRow{{Label: "Price", Values: []string{"1", "2"}}}, MergeDirectionalRows(rows, 2))
}
