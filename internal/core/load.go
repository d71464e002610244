package core

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/JonMunkholm/guildtag/internal/tabular"
)

// LoadFailureMessage is the only thing shown when the data file cannot be
// loaded.
const LoadFailureMessage = "Unable to load the map data file. Make sure the CSV is in the same folder."

var (
	// ErrEmptyData is returned when the data file has no header row.
	ErrEmptyData = errors.New("empty data file")

	// ErrTooLarge is returned when the data file exceeds LoadOptions.MaxBytes.
	ErrTooLarge = errors.New("data file too large")

	// ErrBadStatus is returned when a remote data file answers with a non-200 status.
	ErrBadStatus = errors.New("unexpected status")
)

// LoadOptions controls how a data file is fetched.
type LoadOptions struct {
	// MaxBytes caps the raw size of the data file. Zero means no cap.
	MaxBytes int64

	// Client is used for http(s) sources. Defaults to http.DefaultClient.
	Client *http.Client

	// UserAgent is sent with http(s) requests when set.
	UserAgent string
}

// LoadInfo describes a load attempt. Bytes and Stats are filled in as far
// as the load got; Duration is always set.
type LoadInfo struct {
	Source   string
	Bytes    int64
	Duration time.Duration
	Stats    BuildStats
}

// IsRemote reports whether source is an http(s) URL rather than a file path.
func IsRemote(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}

// Load fetches source once, parses it and builds the table. There is no
// retry: any failure is returned to the caller.
func Load(ctx context.Context, source string, opts LoadOptions) (table *Table, info LoadInfo, err error) {
	start := time.Now()
	info.Source = source
	defer func() { info.Duration = time.Since(start) }()

	rc, err := open(ctx, source, opts)
	if err != nil {
		return nil, info, err
	}
	defer rc.Close()

	var raw io.Reader = rc
	if opts.MaxBytes > 0 {
		raw = io.LimitReader(rc, opts.MaxBytes+1)
	}

	decoded, counter := WrapForLoading(raw)
	rows, err := tabular.ParseReader(decoded)
	info.Bytes = counter.BytesRead
	if err != nil {
		return nil, info, fmt.Errorf("read %s: %w", source, err)
	}
	if opts.MaxBytes > 0 && counter.BytesRead > opts.MaxBytes {
		return nil, info, fmt.Errorf("%s: %w (limit %d bytes)", source, ErrTooLarge, opts.MaxBytes)
	}
	if len(rows) == 0 {
		return nil, info, fmt.Errorf("%s: %w", source, ErrEmptyData)
	}

	table = Build(rows)
	info.Stats = table.Stats()
	return table, info, nil
}

func open(ctx context.Context, source string, opts LoadOptions) (io.ReadCloser, error) {
	if !IsRemote(source) {
		f, err := os.Open(source)
		if err != nil {
			return nil, fmt.Errorf("open data file: %w", err)
		}
		return f, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return nil, fmt.Errorf("fetch failed: %w", err)
	}
	if opts.UserAgent != "" {
		req.Header.Set("User-Agent", opts.UserAgent)
	}

	client := opts.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch failed: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("fetch %s: %w %d", source, ErrBadStatus, resp.StatusCode)
	}
	return resp.Body, nil
}
