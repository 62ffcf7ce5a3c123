// Package clipboard drives clipboard-triggered masking: a monitor loop
// watches the system clipboard, masks new content through a registry
// snapshot, and writes the result back, while avoiding the feedback loop
// where its own write-back would be seen as new content to mask again.
package clipboard

import (
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/atotto/clipboard"

	"github.com/AiToByte/safemask/pkg/registry"
)

// maxHistory bounds the in-memory record of past masks.
const maxHistory = 50

// HistoryItem records one completed mask, most recent first.
type HistoryItem struct {
	ID        string
	Timestamp time.Time
	Original  string
	Masked    string
}

// State is the shared, concurrency-safe state behind the clipboard
// monitor and its manual-trigger commands.
type State struct {
	cell *registry.Cell

	readAll  func() (string, error)
	writeAll func(string) error

	monitorOn atomic.Bool
	// writingBack is set for the duration of our own SetText call so the
	// poll loop can tell its own write-back apart from new user content.
	writingBack atomic.Bool

	mu          sync.Mutex
	lastContent string
	history     []HistoryItem

	idSeq atomic.Uint64
}

// New builds a State bound to cell, backed by the real system clipboard.
// Monitoring starts disabled.
func New(cell *registry.Cell) *State {
	return NewWithBackend(cell, clipboard.ReadAll, clipboard.WriteAll)
}

// NewWithBackend builds a State using the given read/write functions in
// place of the system clipboard, for testing or alternate backends.
func NewWithBackend(cell *registry.Cell, readAll func() (string, error), writeAll func(string) error) *State {
	return &State{cell: cell, readAll: readAll, writeAll: writeAll}
}

// SetMonitoring enables or disables the background poll loop's masking.
func (s *State) SetMonitoring(enabled bool) {
	s.monitorOn.Store(enabled)
}

// Monitoring reports whether the background poll loop is currently
// masking clipboard changes.
func (s *State) Monitoring() bool {
	return s.monitorOn.Load()
}

// History returns a snapshot of the most recent mask operations, most
// recent first.
func (s *State) History() []HistoryItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]HistoryItem, len(s.history))
	copy(out, s.history)
	return out
}

func (s *State) addHistory(item HistoryItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = append([]HistoryItem{item}, s.history...)
	if len(s.history) > maxHistory {
		s.history = s.history[:maxHistory]
	}
}

// MaskClipboard reads the current clipboard text, masks it through the
// latest engine snapshot, writes the result back, and records it in
// history. This is the manual "mask now" action.
func (s *State) MaskClipboard() (string, error) {
	text, err := s.readAll()
	if err != nil {
		return "", err
	}

	masked := string(s.cell.Snapshot().Mask([]byte(text)))

	if err := s.writeBack(masked); err != nil {
		return "", err
	}

	s.addHistory(HistoryItem{
		ID:        s.nextID(),
		Timestamp: time.Now(),
		Original:  text,
		Masked:    masked,
	})

	return masked, nil
}

// RestoreOriginal writes text back to the clipboard verbatim, bypassing
// masking. It primes lastContent with text first so a concurrent poll
// loop sees current == last and skips re-masking its own echo.
func (s *State) RestoreOriginal(text string) error {
	s.mu.Lock()
	s.lastContent = text
	s.mu.Unlock()

	return s.writeBack(text)
}

// writeBack marks writingBack for the duration of the OS clipboard write
// so PollOnce, running concurrently, can recognize and skip its own echo.
func (s *State) writeBack(text string) error {
	s.writingBack.Store(true)
	defer s.writingBack.Store(false)
	return s.writeAll(text)
}

// PollOnce checks the clipboard once and masks it in place if monitoring
// is on, the content changed since the last poll, and the change was not
// our own write-back. It is meant to be called on a timer from a
// background goroutine.
func (s *State) PollOnce() error {
	if !s.monitorOn.Load() || s.writingBack.Load() {
		return nil
	}

	text, err := s.readAll()
	if err != nil {
		return err
	}

	s.mu.Lock()
	unchanged := text == s.lastContent
	s.mu.Unlock()
	if unchanged || text == "" {
		return nil
	}

	masked := string(s.cell.Snapshot().Mask([]byte(text)))

	s.mu.Lock()
	s.lastContent = masked
	s.mu.Unlock()

	if masked == text {
		return nil
	}

	if err := s.writeBack(masked); err != nil {
		return err
	}

	s.addHistory(HistoryItem{
		ID:        s.nextID(),
		Timestamp: time.Now(),
		Original:  text,
		Masked:    masked,
	})
	return nil
}

func (s *State) nextID() string {
	n := s.idSeq.Add(1)
	return time.Now().Format("20060102T150405.000000") + "-" + strconv.FormatUint(n, 10)
}
