package services

import "geekseek/models"

// MergeDirectionalRows fasst alle "When to Choose"-Zeilen zu einer zusammen und
// hängt sie ans Ende. Pro Spalte gewinnt der letzte nicht leere Wert; alle anderen
// Zeilen bleiben in Reihenfolge erhalten, doppelte Labels eingeschlossen.
func MergeDirectionalRows(rows []models.NormalizedRow, expected int) []models.NormalizedRow {
	merged := make([]models.NormalizedRow, 0, len(rows))
	accumulator := sentinelValues(expected)
	hasDirectional := false

	for _, row := range rows {
		if row.Label != models.WhenToChooseLabel {
			merged = append(merged, row)
			continue
		}
		for i, v := range row.Values {
			if i < expected && !isSentinel(v) {
				accumulator[i] = v
				hasDirectional = true
			}
		}
	}

	if hasDirectional {
		merged = append(merged, models.NormalizedRow{Label: models.WhenToChooseLabel, Values: accumulator})
	}
	return merged
}
