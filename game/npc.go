package game

import (
	"context"
	"fmt"
	"strconv"

	"github.com/lokmatthew213-hub/fyp-game-new/ai"
	"github.com/lokmatthew213-hub/fyp-game-new/logging"
	"github.com/lokmatthew213-hub/fyp-game-new/timer"
	"github.com/lokmatthew213-hub/fyp-game-new/util"
)

// npcDraw runs an NPC's DRAW phase. The deck kind is a coin flip, falling
// back to the other deck when the chosen one is empty.
func (g *Game) npcDraw() {
	if g.phase() != PhaseDraw {
		return
	}
	p := g.currentPlayer()
	if p.IsHuman {
		return
	}

	kind := CardKindNumber
	if util.FlipCoin() {
		kind = CardKindWord
	}
	deck := g.deckFor(kind)
	if deck.Empty() {
		deck = g.otherDeck(kind)
	}
	card, err := deck.Draw()
	if err != nil {
		g.logAction(systemActorName, false, "Both supply lines are exhausted. No card this turn.", true)
		g.transition(EventDrawSkipped)
		return
	}
	p.AddToHand(card)
	g.logAction(p.Name, false, "drew a card.", false)
	g.transition(EventDrawn)
}

// startNpcAction kicks the NPC's ACTION phase. The heuristic driver thinks
// on a difficulty-scaled timer; the advisory driver asks the move advisor
// on a side goroutine and answers through the event channel.
func (g *Game) startNpcAction() {
	p := g.currentPlayer()
	switch p.Driver {
	case DriverHeuristic:
		g.scheduleTimer(timer.PurposeNpcAction, g.delays.npcAction(g.config.Difficulty))
	case DriverAdvisory:
		g.statusMessage = p.Name + " is analyzing the battlefield..."
		m := g.marker()
		hand := p.HandSummary()
		go func() {
			move, err := g.advisor.GetMove(context.Background(), hand, g.config.Context, g.config.Difficulty)
			g.chEvent <- moveResultEvent{marker: m, move: move, err: err}
		}()
	default:
		gameLogger.Error().Str(logging.GameCodeKey, g.config.GameCode).Str(logging.PlayerNameKey, p.Name).Msg("NPC has no driver")
		g.endTurnNow()
	}
}

// npcHeuristicAction discards a random hand card. With an empty hand the
// turn simply ends.
func (g *Game) npcHeuristicAction() {
	if g.phase() != PhaseAction || g.currentPlayer().IsHuman {
		return
	}
	p := g.currentPlayer()
	if len(p.Hand) == 0 {
		g.logAction(p.Name, false, "has no cards and passes.", false)
		g.endTurnNow()
		return
	}
	card := p.Hand[util.GetRandomInt(0, len(p.Hand)-1)]
	g.performDiscard(p, card.ID)
}

func (g *Game) handleMoveResult(ev moveResultEvent) {
	if ev.marker.Seq != g.seq {
		gameLogger.Debug().Str(logging.GameCodeKey, g.config.GameCode).Msg("Dropping stale advisor move")
		return
	}
	if g.phase() != PhaseAction || g.currentPlayer().IsHuman {
		return
	}
	p := g.currentPlayer()
	if ev.err != nil {
		gameLogger.Error().Str(logging.GameCodeKey, g.config.GameCode).Msgf("Advisor unavailable: %v", ev.err)
		g.logAction(p.Name, false, "encountered interference and falls back to a simple play.", false)
		g.statusMessage = fmt.Sprintf("%s lost contact with command and plays it safe.", p.Name)
		g.npcFallbackDiscard(p, 0)
		return
	}
	g.executeNpcMove(p, ev.move)
}

// executeNpcMove validates and applies an advisor move. The advisor is
// outside the trust boundary: indices may be out of range or duplicated and
// wild labels may be off-menu. Bad cards are excluded; a battle move with
// nothing left degrades to a discard.
func (g *Game) executeNpcMove(p *Player, move *ai.Move) {
	if move.Action == ai.MoveActionBattle && len(move.CardIndices) > 0 {
		hand := make([]Card, len(p.Hand))
		copy(hand, p.Hand)

		seen := make(map[int]bool)
		var chosen []Card
		for _, idx := range move.CardIndices {
			if idx < 0 || idx >= len(hand) || seen[idx] {
				continue
			}
			seen[idx] = true
			card := hand[idx]
			if card.IsUnresolvedWild() {
				label, ok := move.WildValues[strconv.Itoa(idx)]
				if !ok {
					continue
				}
				resolved, err := ResolveWild(card, label)
				if err != nil {
					gameLogger.Warn().Str(logging.GameCodeKey, g.config.GameCode).Msgf("Advisor picked off-menu wild label [%s]; excluding card", label)
					continue
				}
				card = resolved
			}
			chosen = append(chosen, card)
			if len(chosen) == NumSlots {
				break
			}
		}

		if len(chosen) > 0 {
			for _, card := range chosen {
				if _, err := p.RemoveFromHand(card.ID); err != nil {
					gameLogger.Error().Str(logging.GameCodeKey, g.config.GameCode).Msgf("executeNpcMove: %v", err)
					continue
				}
				g.zone.PlaceFirstEmpty(card)
			}
			g.logAction(p.Name, false, "moves to engage!", false)
			g.submitSlots()
			return
		}
		gameLogger.Warn().Str(logging.GameCodeKey, g.config.GameCode).Msg("Advisor battle move had no usable cards; discarding instead")
	}

	idx := 0
	if len(move.CardIndices) > 0 && move.CardIndices[0] >= 0 && move.CardIndices[0] < len(p.Hand) {
		idx = move.CardIndices[0]
	}
	g.npcFallbackDiscard(p, idx)
}

func (g *Game) npcFallbackDiscard(p *Player, idx int) {
	if len(p.Hand) == 0 {
		g.logAction(p.Name, false, "has no cards and passes.", false)
		g.endTurnNow()
		return
	}
	if idx < 0 || idx >= len(p.Hand) {
		idx = 0
	}
	g.performDiscard(p, p.Hand[idx].ID)
}
