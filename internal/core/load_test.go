package core

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCSV = "Map,Guild tag character\nAcademy Map,A\nArcade Map,—\nBazaar Map,b\nCells Map,7\n"

func writeDataFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "maps.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_File(t *testing.T) {
	path := writeDataFile(t, "\xEF\xBB\xBF"+sampleCSV)

	table, info, err := Load(context.Background(), path, LoadOptions{})
	require.NoError(t, err)

	assert.Equal(t, []rune{'A', 'b', '7'}, table.Characters())
	assert.Equal(t, path, info.Source)
	assert.Equal(t, int64(len(sampleCSV)+3), info.Bytes)
	assert.Equal(t, 4, info.Stats.Rows)
}

func TestLoad_MissingFile(t *testing.T) {
	_, _, err := Load(context.Background(), filepath.Join(t.TempDir(), "nope.csv"), LoadOptions{})
	require.Error(t, err)

	assert.True(t, errors.Is(err, os.ErrNotExist))
	assert.Equal(t, "LOAD001", MapError(err).Code)
}

func TestLoad_EmptyFile(t *testing.T) {
	path := writeDataFile(t, "")

	_, _, err := Load(context.Background(), path, LoadOptions{})
	assert.ErrorIs(t, err, ErrEmptyData)
}

func TestLoad_TooLarge(t *testing.T) {
	path := writeDataFile(t, sampleCSV)

	_, _, err := Load(context.Background(), path, LoadOptions{MaxBytes: 10})
	assert.ErrorIs(t, err, ErrTooLarge)

	_, _, err = Load(context.Background(), path, LoadOptions{MaxBytes: int64(len(sampleCSV))})
	assert.NoError(t, err, "a file exactly at the limit is accepted")
}

func TestLoad_Remote(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/maps.csv" {
			http.NotFound(w, r)
			return
		}
		gotUA = r.UserAgent()
		w.Write([]byte(sampleCSV))
	}))
	defer srv.Close()

	opts := LoadOptions{Client: srv.Client(), UserAgent: "guildtag-test"}

	table, _, err := Load(context.Background(), srv.URL+"/maps.csv", opts)
	require.NoError(t, err)
	assert.Equal(t, 3, table.Len())
	assert.Equal(t, "guildtag-test", gotUA)

	_, _, err = Load(context.Background(), srv.URL+"/missing.csv", opts)
	assert.ErrorIs(t, err, ErrBadStatus)
	assert.Equal(t, "LOAD003", MapError(err).Code)
}

func TestLoad_FailureReportsDuration(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(20 * time.Millisecond)
		http.Error(w, "gone", http.StatusGone)
	}))
	defer srv.Close()

	_, info, err := Load(context.Background(), srv.URL, LoadOptions{Client: srv.Client()})
	require.ErrorIs(t, err, ErrBadStatus)
	assert.Equal(t, srv.URL, info.Source)
	assert.GreaterOrEqual(t, info.Duration, 20*time.Millisecond)
}

func TestLoad_RemoteCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(sampleCSV))
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := Load(ctx, srv.URL, LoadOptions{Client: srv.Client()})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestIsRemote(t *testing.T) {
	assert.True(t, IsRemote("https://example.com/maps.csv"))
	assert.True(t, IsRemote("http://localhost/maps.csv"))
	assert.False(t, IsRemote("maps.csv"))
	assert.False(t, IsRemote("/srv/data/https.csv"))
}
