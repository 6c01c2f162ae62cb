package capture

import (
	"fmt"
	"strings"
)

// Event categories.
const (
	CatSession = "session"
	CatTrail   = "trail"
	CatClaim   = "claim"
	CatPlayer  = "player"
	CatEnemy   = "enemy"
)

// LogEntry is one recorded engine event.
type LogEntry struct {
	Tick     int
	Category string  // session, trail, claim, player, enemy
	Key      string  // specific event name within the category
	Value    string  // human-readable detail
	NumVal   float64 // optional numeric value for threshold checks
}

// String formats the entry as a fixed-width log line.
//
//	[T=042] trail    close            12 cells
func (e LogEntry) String() string {
	return fmt.Sprintf("[T=%03d] %-8s %-16s %s", e.Tick, e.Category, e.Key, e.Value)
}

// EventLog collects structured events for a session. It is unbounded and
// machine-readable; front-ends tail it for display.
type EventLog struct {
	entries []LogEntry
	verbose bool
}

// NewEventLog creates an EventLog. Verbose mode also keeps per-tick entries
// such as enemy bounces.
func NewEventLog(verbose bool) *EventLog {
	return &EventLog{verbose: verbose}
}

// Add records a new entry.
func (l *EventLog) Add(tick int, category, key, value string, numVal float64) {
	l.entries = append(l.entries, LogEntry{
		Tick:     tick,
		Category: category,
		Key:      key,
		Value:    value,
		NumVal:   numVal,
	})
}

// AddVerbose records an entry only when verbose mode is on.
func (l *EventLog) AddVerbose(tick int, category, key, value string, numVal float64) {
	if !l.verbose {
		return
	}
	l.Add(tick, category, key, value, numVal)
}

// Len returns the number of recorded entries.
func (l *EventLog) Len() int { return len(l.entries) }

// Entries returns all recorded entries.
func (l *EventLog) Entries() []LogEntry {
	return l.entries
}

// Since returns entries recorded at or after index from. Front-ends keep the
// last Len() they saw and call Since with it each frame.
func (l *EventLog) Since(from int) []LogEntry {
	if from < 0 {
		from = 0
	}
	if from >= len(l.entries) {
		return nil
	}
	return l.entries[from:]
}

// Filter returns entries matching the given category and/or key.
// Pass empty string to match any value for that field.
func (l *EventLog) Filter(category, key string) []LogEntry {
	var out []LogEntry
	for _, e := range l.entries {
		if category != "" && e.Category != category {
			continue
		}
		if key != "" && e.Key != key {
			continue
		}
		out = append(out, e)
	}
	return out
}

// CountCategory returns how many entries match the given category and key.
func (l *EventLog) CountCategory(category, key string) int {
	return len(l.Filter(category, key))
}

// FirstOf returns the earliest entry matching category+key, or false if none.
func (l *EventLog) FirstOf(category, key string) (LogEntry, bool) {
	for _, e := range l.entries {
		if e.Category == category && e.Key == key {
			return e, true
		}
	}
	return LogEntry{}, false
}

// MaxNum returns the largest NumVal among entries matching category+key, or 0.
func (l *EventLog) MaxNum(category, key string) float64 {
	best := 0.0
	for _, e := range l.Filter(category, key) {
		if e.NumVal > best {
			best = e.NumVal
		}
	}
	return best
}

// Dump formats every entry, one per line.
func (l *EventLog) Dump() string {
	var b strings.Builder
	for _, e := range l.entries {
		b.WriteString(e.String())
		b.WriteByte('\n')
	}
	return b.String()
}
