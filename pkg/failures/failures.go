// Package failures maintains the failure log shared by all runs under one
// output root: record id -> display name and the parts that failed.
package failures

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"slices"
	"sort"
	"sync"

	"citygen/pkg/artifact"
)

// Entry is the failure record of one city.
type Entry struct {
	CityName    string   `json:"city_name"`
	FailedParts []string `json:"failed_parts"`
}

// Log is the in-memory view of the failure log file. Every change rewrites
// the whole file.
type Log struct {
	path    string
	mu      sync.Mutex
	entries map[string]*Entry
}

// Load reads the log at path. A missing file is an empty log; a file that
// cannot be read or parsed is an error.
func Load(path string) (*Log, error) {
	l := &Log{path: path, entries: make(map[string]*Entry)}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return l, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read failure log: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return l, nil
	}
	if err := json.Unmarshal(data, &l.entries); err != nil {
		return nil, fmt.Errorf("failed to parse failure log %s: %w", path, err)
	}
	if l.entries == nil {
		l.entries = make(map[string]*Entry)
	}
	for id, e := range l.entries {
		if e == nil {
			l.entries[id] = &Entry{}
		}
	}
	return l, nil
}

// Path returns the file backing the log.
func (l *Log) Path() string {
	return l.path
}

// Record notes that part failed for the city id, then persists the log. A part
// already listed for id is not added twice.
func (l *Log) Record(id, cityName, part string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.entries[id]
	if !ok {
		e = &Entry{CityName: cityName}
		l.entries[id] = e
	}
	if !slices.Contains(e.FailedParts, part) {
		e.FailedParts = append(e.FailedParts, part)
	}
	return l.save()
}

func (l *Log) save() error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(l.entries); err != nil {
		return fmt.Errorf("failed to encode failure log: %w", err)
	}
	if err := artifact.WriteFileAtomic(l.path, bytes.TrimRight(buf.Bytes(), "\n")); err != nil {
		return fmt.Errorf("failed to write failure log: %w", err)
	}
	return nil
}

// Entry returns a copy of the failure record for id.
func (l *Log) Entry(id string) (Entry, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.entries[id]
	if !ok {
		return Entry{}, false
	}
	return Entry{CityName: e.CityName, FailedParts: slices.Clone(e.FailedParts)}, true
}

// IDs returns the recorded city ids in sorted order.
func (l *Log) IDs() []string {
	l.mu.Lock()
	defer l.mu.Unlock()

	ids := make([]string, 0, len(l.entries))
	for id := range l.entries {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
