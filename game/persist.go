package game

// ActionHistoryStore keeps the append-only battle log of each game so the
// presentation layer can read it back.
type ActionHistoryStore interface {
	Append(gameCode string, entry ActionLogEntry) error
	Load(gameCode string) ([]ActionLogEntry, error)
	Remove(gameCode string) error
}
