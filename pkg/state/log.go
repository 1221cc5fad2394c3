package state

import "fmt"

// AddLog appends a message to the game log.
func (gs *GameState) AddLog(message string) {
	gs.log = append(gs.log, message)
}

// Logf appends a formatted message to the game log.
func (gs *GameState) Logf(format string, args ...any) {
	gs.AddLog(fmt.Sprintf(format, args...))
}

// Log returns a copy of the full in-memory log.
func (gs *GameState) Log() []string {
	out := make([]string, len(gs.log))
	copy(out, gs.log)
	return out
}

// LogTail returns the most recent n log entries.
func (gs *GameState) LogTail(n int) []string {
	if n >= len(gs.log) {
		return gs.Log()
	}
	out := make([]string, n)
	copy(out, gs.log[len(gs.log)-n:])
	return out
}
