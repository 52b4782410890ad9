package game

import (
	"github.com/google/uuid"

	"github.com/lokmatthew213-hub/fyp-game-new/ai"
)

func newPlayerUUID() string {
	return uuid.New().String()
}

// PlayerDriver selects how a player's ACTION phase is driven.
type PlayerDriver string

const (
	// DriverHuman waits for commands from the presentation layer.
	DriverHuman PlayerDriver = "HUMAN"
	// DriverHeuristic draws a random deck kind and discards a random card.
	DriverHeuristic PlayerDriver = "HEURISTIC"
	// DriverAdvisory asks the external move advisor for each action.
	DriverAdvisory PlayerDriver = "ADVISORY"
)

// Player identity and score persist across round resets; only the hand is
// replaced.
type Player struct {
	ID      uint32       `json:"id"`
	UUID    string       `json:"uuid"`
	Name    string       `json:"name"`
	IsHuman bool         `json:"isHuman"`
	Driver  PlayerDriver `json:"driver"`
	Hand    []Card       `json:"hand"`
	Score   int          `json:"score"`
}

// AddToHand appends a card to the player's hand. Hand order is incidental
// and carries no meaning.
func (p *Player) AddToHand(cards ...Card) {
	p.Hand = append(p.Hand, cards...)
}

// RemoveFromHand removes the card with the given id and returns it. A miss
// signals a state desync and is reported, never swallowed.
func (p *Player) RemoveFromHand(cardID string) (Card, error) {
	for i, c := range p.Hand {
		if c.ID == cardID {
			p.Hand = append(p.Hand[:i], p.Hand[i+1:]...)
			return c, nil
		}
	}
	return Card{}, CardNotFoundError{CardID: cardID, Where: "hand of " + p.Name}
}

// FindInHand returns the card with the given id without removing it.
func (p *Player) FindInHand(cardID string) (Card, bool) {
	for _, c := range p.Hand {
		if c.ID == cardID {
			return c, true
		}
	}
	return Card{}, false
}

// HandCountByKind returns how many cards of the kind the player holds.
func (p *Player) HandCountByKind(kind CardKind) int {
	count := 0
	for _, c := range p.Hand {
		if c.Kind == kind {
			count++
		}
	}
	return count
}

// AdjustScore applies a delta clamped at a floor of 0 and returns the new
// score.
func (p *Player) AdjustScore(delta int) int {
	p.Score = ApplyScoreDelta(p.Score, delta)
	return p.Score
}

// HasWon reports whether the player's score has reached the threshold.
func (p *Player) HasWon(threshold int) bool {
	return p.Score >= threshold
}

// HandSummary converts the hand to the shape the move advisor consumes.
// The slice order is the index space the advisor's move refers to.
func (p *Player) HandSummary() []ai.HandCard {
	summary := make([]ai.HandCard, len(p.Hand))
	for i, c := range p.Hand {
		summary[i] = ai.HandCard{
			Kind:  string(c.Kind),
			Value: c.Value,
			Label: c.Label,
		}
	}
	return summary
}
