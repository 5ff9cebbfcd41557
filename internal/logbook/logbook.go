// Package logbook keeps an append-only record of stowage operations so crews
// can answer "who moved what, when, and why" after the fact. Entries are
// stored as one JSON object per line, which appends cheaply and survives a
// truncated final line.
package logbook

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/piwi3910/StowPlan/internal/store"
)

// Action classifies a logbook entry.
type Action string

const (
	ActionPlacement      Action = "placement"
	ActionRetrieval      Action = "retrieval"
	ActionRearrangement  Action = "rearrangement"
	ActionUpdateLocation Action = "updateLocation"
	ActionDisposal       Action = "disposal"
	ActionImport         Action = "import"
	ActionExport         Action = "export"
	ActionSimulation     Action = "simulation"
)

// Details carries the movement context of an entry. Fields are omitted when
// they do not apply to the action.
type Details struct {
	FromContainer string `json:"fromContainer,omitempty"`
	ToContainer   string `json:"toContainer,omitempty"`
	Reason        string `json:"reason,omitempty"`
}

// Entry is one logbook line.
type Entry struct {
	Timestamp  time.Time `json:"timestamp"`
	OperatorID string    `json:"operatorId"`
	Action     Action    `json:"actionType"`
	ItemID     string    `json:"itemId,omitempty"`
	Details    Details   `json:"details"`
}

// DefaultPath returns the default logbook location, ~/.stowplan/logbook.jsonl.
func DefaultPath() string {
	return filepath.Join(store.DefaultStateDir(), "logbook.jsonl")
}

// Logbook appends to and reads from a single logbook file. The mutex keeps
// concurrent appends from interleaving partial lines.
type Logbook struct {
	mu   sync.Mutex
	path string
}

// Open returns a logbook bound to the given file path. The file is created
// lazily on the first append.
func Open(path string) *Logbook {
	return &Logbook{path: path}
}

// Append writes one entry to the end of the log. A zero timestamp is filled
// in with the current UTC time.
func (l *Logbook) Append(e Entry) error {
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now().UTC()
	}
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("failed to marshal logbook entry: %w", err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(l.path), 0755); err != nil {
		return fmt.Errorf("failed to create logbook directory: %w", err)
	}
	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open logbook: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to append logbook entry: %w", err)
	}
	return nil
}

// Filter selects logbook entries. Zero fields match everything; the time
// bounds are inclusive.
type Filter struct {
	From       time.Time
	To         time.Time
	ItemID     string
	OperatorID string
	Action     Action
}

func (f Filter) matches(e Entry) bool {
	if !f.From.IsZero() && e.Timestamp.Before(f.From) {
		return false
	}
	if !f.To.IsZero() && e.Timestamp.After(f.To) {
		return false
	}
	if f.ItemID != "" && e.ItemID != f.ItemID {
		return false
	}
	if f.OperatorID != "" && e.OperatorID != f.OperatorID {
		return false
	}
	if f.Action != "" && e.Action != f.Action {
		return false
	}
	return true
}

// Query reads the log and returns the entries matching the filter in file
// order (oldest first). A missing log file yields an empty result. Malformed
// lines are skipped rather than failing the whole query, so a crash during
// an append never makes the history unreadable.
func (l *Logbook) Query(f Filter) ([]Entry, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	file, err := os.Open(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open logbook: %w", err)
	}
	defer file.Close()

	var out []Entry
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var e Entry
		if err := json.Unmarshal(line, &e); err != nil {
			continue
		}
		if f.matches(e) {
			out = append(out, e)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read logbook: %w", err)
	}
	return out, nil
}
