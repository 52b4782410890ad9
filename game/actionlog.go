package game

import (
	"time"

	"github.com/lokmatthew213-hub/fyp-game-new/logging"
)

// ActionLogEntry is one append-only record of the battle log. Entries are
// never mutated or removed.
type ActionLogEntry struct {
	PlayerName string    `json:"playerName"`
	IsHuman    bool      `json:"isHuman"`
	Details    string    `json:"details"`
	Special    bool      `json:"special"`
	Timestamp  time.Time `json:"timestamp"`
}

// ActionLogSink receives entries as they are produced. Sinks render or
// forward; the engine only emits.
type ActionLogSink interface {
	Emit(gameCode string, entry ActionLogEntry)
}

const systemActorName = "System"

func (g *Game) logAction(playerName string, isHuman bool, details string, special bool) {
	entry := ActionLogEntry{
		PlayerName: playerName,
		IsHuman:    isHuman,
		Details:    details,
		Special:    special,
		Timestamp:  time.Now(),
	}
	if err := g.history.Append(g.config.GameCode, entry); err != nil {
		gameLogger.Warn().Str(logging.GameCodeKey, g.config.GameCode).Msgf("Unable to persist action log entry: %v", err)
	}
	for _, sink := range g.logSinks {
		sink.Emit(g.config.GameCode, entry)
	}
}
