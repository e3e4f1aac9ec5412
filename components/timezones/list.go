package timezones

import (
	"bufio"
	"embed"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
)

//go:embed data/iana_timezones.txt
var dataFS embed.FS

const defaultListPath = "data/iana_timezones.txt"

var loadDefaultZones = sync.OnceValues(func() ([]string, error) {
	f, err := dataFS.Open(defaultListPath)
	if err != nil {
		return nil, fmt.Errorf("timezones: open embedded list: %w", err)
	}
	defer func() { _ = f.Close() }()
	return LoadZones(f)
})

// DefaultZones returns a copy of the embedded zone list.
func DefaultZones() ([]string, error) {
	zones, err := loadDefaultZones()
	if err != nil {
		return nil, err
	}
	return append([]string{}, zones...), nil
}

// LoadZones reads one zone per line, skipping blanks, comments and
// duplicates, and returns the sorted list.
func LoadZones(r io.Reader) ([]string, error) {
	if r == nil {
		return nil, fmt.Errorf("timezones: missing reader")
	}

	seen := map[string]struct{}{}
	zones := make([]string, 0, 512)

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if _, dup := seen[line]; dup {
			continue
		}
		seen[line] = struct{}{}
		zones = append(zones, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("timezones: read list: %w", err)
	}

	sort.Strings(zones)
	return zones, nil
}
