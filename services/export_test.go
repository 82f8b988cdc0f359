package services

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"geekseek/models"
)

type fakeArchive struct {
	logs       []models.SearchLog
	from, to   time.Time
	cutoff     time.Time
	deleteErr  error
	deleteRuns int
}

func (a *fakeArchive) ListBetween(_ context.Context, from, to time.Time) ([]models.SearchLog, error) {
	a.from, a.to = from, to
	return a.logs, nil
}

func (a *fakeArchive) DeleteBefore(_ context.Context, cutoff time.Time) (int64, error) {
	a.cutoff = cutoff
	a.deleteRuns++
	return 3, a.deleteErr
}

type fakeUploader struct {
	key         string
	data        []byte
	contentType string
	err         error
}

func (u *fakeUploader) Upload(_ context.Context, key string, data []byte, contentType string) (string, error) {
	if u.err != nil {
		return "", u.err
	}
	u.key, u.data, u.contentType = key, data, contentType
	return "https://s3.example/bucket/" + key, nil
}

func decodeExport(t *testing.T, data []byte) []models.SearchLog {
	t.Helper()
	gz, err := gzip.NewReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer gz.Close()

	var out []models.SearchLog
	scanner := bufio.NewScanner(gz)
	for scanner.Scan() {
		var entry models.SearchLog
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &entry))
		out = append(out, entry)
	}
	require.NoError(t, scanner.Err())
	return out
}

func TestExportDay(t *testing.T) {
	archive := &fakeArchive{logs: []models.SearchLog{
		{ID: 1, Mode: models.ModeCompare, Query: "a vs b", Status: models.SearchStatusOK, RowCount: 4},
		{ID: 2, Mode: models.ModePlaces, Query: "coffee", Status: models.SearchStatusFailed, Error: "boom"},
	}}
	uploader := &fakeUploader{}
	exporter := &SearchLogExporter{Archive: archive, Uploader: uploader, Logger: zaptest.NewLogger(t)}

	day := time.Date(2026, 10, 13, 17, 45, 0, 0, time.UTC)
	link, count, err := exporter.ExportDay(context.Background(), day)
	require.NoError(t, err)

	assert.Equal(t, 2, count)
	assert.Equal(t, "search-logs/2026-10-13.ndjson.gz", uploader.key)
	assert.Equal(t, "https://s3.example/bucket/search-logs/2026-10-13.ndjson.gz", link)
	assert.Equal(t, "application/gzip", uploader.contentType)
	assert.Equal(t, time.Date(2026, 10, 13, 0, 0, 0, 0, time.UTC), archive.from)
	assert.Equal(t, time.Date(2026, 10, 14, 0, 0, 0, 0, time.UTC), archive.to)

	entries := decodeExport(t, uploader.data)
	require.Len(t, entries, 2)
	assert.Equal(t, "a vs b", entries[0].Query)
	assert.Equal(t, "boom", entries[1].Error)
}

func TestExportDaySkipsEmptyDay(t *testing.T) {
	uploader := &fakeUploader{}
	exporter := &SearchLogExporter{Archive: &fakeArchive{}, Uploader: uploader, Logger: zaptest.NewLogger(t)}

	link, count, err := exporter.ExportDay(context.Background(), time.Now())
	require.NoError(t, err)
	assert.Empty(t, link)
	assert.Zero(t, count)
	assert.Empty(t, uploader.key)
}

func TestRunNightlyExportsYesterdayThenPrunes(t *testing.T) {
	now := time.Date(2026, 10, 14, 0, 15, 0, 0, time.UTC)
	archive := &fakeArchive{logs: []models.SearchLog{{ID: 7, Query: "x"}}}
	uploader := &fakeUploader{}
	exporter := &SearchLogExporter{
		Archive:       archive,
		Uploader:      uploader,
		Logger:        zaptest.NewLogger(t),
		RetentionDays: 30,
		Now:           func() time.Time { return now },
	}

	require.NoError(t, exporter.RunNightly(context.Background()))
	assert.Equal(t, "search-logs/2026-10-13.ndjson.gz", uploader.key)
	assert.Equal(t, now.AddDate(0, 0, -30), archive.cutoff)
}

func TestRunNightlyKeepsLogsWhenExportFails(t *testing.T) {
	archive := &fakeArchive{logs: []models.SearchLog{{ID: 1}}}
	exporter := &SearchLogExporter{
		Archive:       archive,
		Uploader:      &fakeUploader{err: errors.New("s3 down")},
		Logger:        zaptest.NewLogger(t),
		RetentionDays: 30,
	}

	err := exporter.RunNightly(context.Background())
	require.ErrorContains(t, err, "s3 down")
	assert.Zero(t, archive.deleteRuns)
}

func TestRunNightlyWithoutUploaderOnlyPrunes(t *testing.T) {
	archive := &fakeArchive{deleteErr: errors.New("db gone")}
	exporter := &SearchLogExporter{Archive: archive, Logger: zaptest.NewLogger(t), RetentionDays: 7}

	err := exporter.RunNightly(context.Background())
	require.ErrorContains(t, err, "prune search logs: db gone")
	assert.Equal(t, 1, archive.deleteRuns)
}

func TestExportDayWithoutUploader(t *testing.T) {
	archive := &fakeArchive{logs: []models.SearchLog{{ID: 1}}}
	exporter := &SearchLogExporter{Archive: archive, Logger: zaptest.NewLogger(t)}

	link, count, err := exporter.ExportDay(context.Background(), time.Now())
	require.ErrorIs(t, err, ErrExportDisabled)
	assert.Empty(t, link)
	assert.Zero(t, count)
}
