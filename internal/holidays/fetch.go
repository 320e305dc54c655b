package holidays

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"
)

// FetchResult describes a completed download.
type FetchResult struct {
	Path    string
	Size    int64
	ModTime time.Time
	Years   *YearRange
}

// ProgressFunc receives the running byte count; total is -1 when the server
// did not send a length.
type ProgressFunc func(done, total int64)

// Fetch downloads a holidays file from url and atomically replaces dest. The
// body must parse as a holidays file before it is moved into place.
func Fetch(ctx context.Context, client *http.Client, url, dest string, progress ProgressFunc) (FetchResult, error) {
	if client == nil {
		client = http.DefaultClient
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return FetchResult{}, fmt.Errorf("failed to create directory: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return FetchResult{}, fmt.Errorf("failed to build request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return FetchResult{}, fmt.Errorf("failed to start download: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return FetchResult{}, fmt.Errorf("unexpected response: %s", resp.Status)
	}

	tmp, err := os.CreateTemp(filepath.Dir(dest), ".holidays-*.json")
	if err != nil {
		return FetchResult{}, fmt.Errorf("failed to create file: %w", err)
	}
	defer os.Remove(tmp.Name())

	counter := &progressWriter{total: resp.ContentLength, onWrite: progress}
	if _, err := io.Copy(tmp, io.TeeReader(resp.Body, counter)); err != nil {
		tmp.Close()
		return FetchResult{}, fmt.Errorf("failed to write file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return FetchResult{}, fmt.Errorf("failed to write file: %w", err)
	}

	set, err := LoadFromFile(tmp.Name())
	if err != nil {
		return FetchResult{}, err
	}
	if err := os.Rename(tmp.Name(), dest); err != nil {
		return FetchResult{}, fmt.Errorf("failed to move file into place: %w", err)
	}

	info, err := os.Stat(dest)
	if err != nil {
		return FetchResult{}, fmt.Errorf("failed to stat file: %w", err)
	}
	result := FetchResult{
		Path:    dest,
		Size:    info.Size(),
		ModTime: info.ModTime(),
	}
	if years, ok := set.Years(); ok {
		result.Years = &years
	}
	return result, nil
}

type progressWriter struct {
	done    atomic.Int64
	total   int64
	onWrite ProgressFunc
}

func (pw *progressWriter) Write(p []byte) (int, error) {
	done := pw.done.Add(int64(len(p)))
	if pw.onWrite != nil {
		pw.onWrite(done, pw.total)
	}
	return len(p), nil
}

// FormatBytes renders a byte count with binary units.
func FormatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
