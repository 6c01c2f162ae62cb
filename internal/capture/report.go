package capture

import (
	"fmt"
	"strings"
)

// Report formats a plain-text session summary with the last n log entries,
// suitable for pasting into a bug report.
func (s *Session) Report(lastEntries int) string {
	if lastEntries <= 0 {
		lastEntries = 20
	}
	var b strings.Builder
	fmt.Fprintf(&b, "--- cutfield session report ---\n")
	fmt.Fprintf(&b, "session=%s level=%s seed=%d\n", s.id, s.cfg.ID, s.seed)
	fmt.Fprintf(&b, "field=%dx%d playerSpeed=%d enemySpeed=%.2f enemies=%d\n",
		s.cols, s.rows, s.cfg.PlayerSpeed, s.cfg.EnemySpeed, len(s.enemies))
	fmt.Fprintf(&b, "tick=%d cuts=%d gained=%d claimed=%.1f%%\n",
		s.tick, s.cuts, s.gained, s.grid.ClaimedFraction()*100)
	fmt.Fprintf(&b, "player=(%d,%d) heading=%s trail=%s len=%d\n",
		s.player.Pos.Col, s.player.Pos.Row, s.player.Heading, s.tracker.State(), s.tracker.Len())
	if s.over != nil {
		fmt.Fprintf(&b, "game over: %s\n", s.over)
	}

	entries := s.log.Entries()
	from := len(entries) - lastEntries
	if from < 0 {
		from = 0
	}
	fmt.Fprintf(&b, "\n== last %d events ==\n", len(entries)-from)
	for _, e := range entries[from:] {
		b.WriteString(e.String())
		b.WriteByte('\n')
	}
	return b.String()
}
