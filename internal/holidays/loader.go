package holidays

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// DefaultMaxAge is how long a cached file is trusted before we nag.
const DefaultMaxAge = 180 * 24 * time.Hour

// Parse decodes the holidays JSON layout into a Set.
func Parse(data []byte) (Set, error) {
	var f file
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse holidays JSON: %w", err)
	}

	set := make(Set, len(f))
	for _, year := range f {
		set[year.Year] = year.Holiday
	}
	return set, nil
}

// LoadFromFile reads and parses a holidays file.
func LoadFromFile(path string) (Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read holidays file: %w", err)
	}
	return Parse(data)
}

// CachePath returns the holidays file location in the user cache directory.
func CachePath() (string, error) {
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("failed to get cache directory: %w", err)
	}
	return filepath.Join(cacheDir, "monthgrid", "holidays.json"), nil
}

// LoadFromCache loads the cached holidays file.
func LoadFromCache() (Set, error) {
	path, err := CachePath()
	if err != nil {
		return nil, err
	}
	return LoadFromFile(path)
}

// IsCacheValid reports whether path exists and was modified within maxAge.
// A missing file is not an error.
func IsCacheValid(path string, maxAge time.Duration, now time.Time) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	if maxAge <= 0 {
		maxAge = DefaultMaxAge
	}
	return info.ModTime().After(now.Add(-maxAge)), nil
}
