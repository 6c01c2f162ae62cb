package level

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/goccy/go-json"
)

//go:embed levels.json
var defaultCatalogue []byte

var (
	// ErrInvalidConfig marks a level record that cannot start a session.
	ErrInvalidConfig = errors.New("invalid level config")
	// ErrLevelNotFound marks a lookup for an id that is not in the catalogue.
	ErrLevelNotFound = errors.New("level not found")
)

// Config is the per-session level record. It is immutable once a session starts.
type Config struct {
	ID          string  `json:"id"`
	Image       string  `json:"image"`
	PlayerSpeed int     `json:"playerSpeed"` // ticks per player move (larger = slower)
	EnemySpeed  float64 `json:"enemySpeed"`  // velocity multiplier
	Enemies     int     `json:"enemies"`
}

// ConfigError reports why a level could not be used. It unwraps to
// ErrInvalidConfig or ErrLevelNotFound.
type ConfigError struct {
	Level      string
	Field      string
	Reason     string
	Suggestion string
	kind       error
}

func (e *ConfigError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "level %q", e.Level)
	if e.Field != "" {
		fmt.Fprintf(&b, ": %s", e.Field)
	}
	fmt.Fprintf(&b, ": %s", e.Reason)
	if e.Suggestion != "" {
		fmt.Fprintf(&b, " (did you mean %q?)", e.Suggestion)
	}
	return b.String()
}

func (e *ConfigError) Unwrap() error { return e.kind }

func invalid(id, field, reason string) *ConfigError {
	return &ConfigError{Level: id, Field: field, Reason: reason, kind: ErrInvalidConfig}
}

// Validate checks the four values the engine needs.
func (c Config) Validate() error {
	switch {
	case strings.TrimSpace(c.ID) == "":
		return invalid(c.ID, "id", "must not be empty")
	case c.PlayerSpeed < 1:
		return invalid(c.ID, "playerSpeed", fmt.Sprintf("must be >= 1, got %d", c.PlayerSpeed))
	case c.EnemySpeed < 0:
		return invalid(c.ID, "enemySpeed", fmt.Sprintf("must be >= 0, got %g", c.EnemySpeed))
	case c.Enemies < 0:
		return invalid(c.ID, "enemies", fmt.Sprintf("must be >= 0, got %d", c.Enemies))
	}
	return nil
}

// Catalogue is the decoded levels file.
type Catalogue struct {
	Levels []Config `json:"levels"`
}

// Parse decodes a levels file. Every record is validated and ids must be unique.
func Parse(data []byte) (*Catalogue, error) {
	var c Catalogue
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("decode levels: %w", err)
	}
	if len(c.Levels) == 0 {
		return nil, invalid("", "levels", "catalogue is empty")
	}
	seen := make(map[string]bool, len(c.Levels))
	for _, l := range c.Levels {
		if err := l.Validate(); err != nil {
			return nil, err
		}
		if seen[l.ID] {
			return nil, invalid(l.ID, "id", "duplicate id")
		}
		seen[l.ID] = true
	}
	return &c, nil
}

// Load reads and parses a levels file from disk.
func Load(path string) (*Catalogue, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- path comes from the command line
	if err != nil {
		return nil, fmt.Errorf("read levels: %w", err)
	}
	return Parse(data)
}

// Default returns the catalogue compiled into the binary.
func Default() *Catalogue {
	c, err := Parse(defaultCatalogue)
	if err != nil {
		panic(fmt.Sprintf("embedded levels.json: %v", err))
	}
	return c
}

// IDs returns the level ids in file order.
func (c *Catalogue) IDs() []string {
	out := make([]string, 0, len(c.Levels))
	for _, l := range c.Levels {
		out = append(out, l.ID)
	}
	return out
}

// Find returns the level with the given id. Unknown ids produce a ConfigError
// carrying the closest known id when one is near enough.
func (c *Catalogue) Find(id string) (Config, error) {
	for _, l := range c.Levels {
		if l.ID == id {
			return l, nil
		}
	}
	return Config{}, &ConfigError{
		Level:      id,
		Reason:     "not in catalogue",
		Suggestion: closestID(id, c.IDs()),
		kind:       ErrLevelNotFound,
	}
}

// suggestLimit is the largest edit distance still offered as a suggestion.
func suggestLimit(n int) int {
	if n <= 4 {
		return 1
	}
	if n <= 8 {
		return 2
	}
	return 3
}

func closestID(id string, ids []string) string {
	type scored struct {
		id   string
		dist int
	}
	want := strings.ToLower(strings.TrimSpace(id))
	var hits []scored
	for _, cand := range ids {
		d := levenshtein.ComputeDistance(want, strings.ToLower(cand))
		if d > suggestLimit(len(cand)) {
			continue
		}
		hits = append(hits, scored{cand, d})
	}
	if len(hits) == 0 {
		return ""
	}
	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].dist == hits[j].dist {
			return hits[i].id < hits[j].id
		}
		return hits[i].dist < hits[j].dist
	})
	return hits[0].id
}
