package game

import (
	"context"
	"fmt"

	"github.com/lokmatthew213-hub/fyp-game-new/ai"
	"github.com/lokmatthew213-hub/fyp-game-new/logging"
	"github.com/lokmatthew213-hub/fyp-game-new/timer"
)

// dispatch applies one trigger to the game state. It runs only on the game
// goroutine; handlers never block.
func (g *Game) dispatch(ev event) {
	if g.phase() == PhaseGameOver {
		return
	}

	switch e := ev.(type) {
	case drawCardEvent:
		g.handleDraw(e.kind)
	case moveToSlotEvent:
		g.handleMoveToSlot(e.cardID, e.slotIndex, e.wildLabel)
	case returnToHandEvent:
		g.handleReturnToHand(e.slotIndex)
	case toggleDiscardModeEvent:
		g.handleToggleDiscardMode()
	case discardEvent:
		g.handleDiscard(e.cardID)
	case submitEvent:
		g.handleSubmit()
	case robEvent:
		g.handleRob(e.playerIndex)
	case buzzEvent:
		g.handleBuzz(e.playerIndex)
	case replenishEvent:
		g.handleReplenish()
	case judgeResultEvent:
		g.handleJudgeResult(e)
	case moveResultEvent:
		g.handleMoveResult(e)
	case timerFiredEvent:
		g.handleTimerFired(e.msg)
	case timerTickEvent:
		g.handleTimerTick(e.msg)
	default:
		gameLogger.Warn().Str(logging.GameCodeKey, g.config.GameCode).Msgf("Unhandled event type %T", ev)
	}
}

// actionSurfaceOpen reports whether ACTION commands may mutate state right
// now. A submission in flight or a scheduled reset closes the surface.
func (g *Game) actionSurfaceOpen() bool {
	return g.phase() == PhaseAction && !g.submissionInFlight && !g.resetPending
}

func (g *Game) handleTimerFired(msg timer.TimerMsg) {
	if msg.Seq != g.seq {
		gameLogger.Debug().
			Str(logging.GameCodeKey, g.config.GameCode).
			Str(logging.TimerPurposeKey, msg.Purpose).
			Msgf("Dropping stale timer fire (armed seq %d, live seq %d)", msg.Seq, g.seq)
		return
	}
	switch msg.Purpose {
	case timer.PurposeNpcDraw:
		g.npcDraw()
	case timer.PurposeNpcAction:
		g.npcHeuristicAction()
	case timer.PurposeRobWindow:
		g.robExpired()
	case timer.PurposeChallengeTick:
		g.challengeTimeout()
	case timer.PurposeTurnAdvance:
		g.advanceTurn()
	case timer.PurposeRoundReset:
		g.performScheduledReset()
	default:
		gameLogger.Warn().Str(logging.GameCodeKey, g.config.GameCode).Msgf("Timer fired with unknown purpose [%s]", msg.Purpose)
	}
}

func (g *Game) handleTimerTick(msg timer.TimerMsg) {
	if msg.Seq != g.seq {
		return
	}
	if msg.Purpose == timer.PurposeChallengeTick && g.challenge != nil {
		g.challenge.TicksRemaining = msg.TicksRemaining
		g.statusMessage = fmt.Sprintf("Challenge window closing: %d...", msg.TicksRemaining)
	}
}

//
// DRAW phase.
//

func (g *Game) handleDraw(kind CardKind) {
	if g.phase() != PhaseDraw {
		g.rejectCommand("draw")
		return
	}
	p := g.currentPlayer()
	if !p.IsHuman {
		g.rejectCommand("draw")
		return
	}

	deck := g.deckFor(kind)
	card, err := deck.Draw()
	if err != nil {
		other := g.otherDeck(kind)
		if other.Empty() {
			g.logAction(systemActorName, false, "Both supply lines are exhausted. No card this turn.", true)
			g.transition(EventDrawSkipped)
			return
		}
		g.statusMessage = "That supply line is empty. Draw from the other deck."
		return
	}
	p.AddToHand(card)
	g.logAction(p.Name, true, fmt.Sprintf("drew a card: 【%s】", card.Display()), false)
	g.statusMessage = "Card secured. Build your formation or discard."
	g.transition(EventDrawn)
}

func (g *Game) deckFor(kind CardKind) *Deck {
	if kind == CardKindNumber {
		return g.numberDeck
	}
	return g.wordDeck
}

func (g *Game) otherDeck(kind CardKind) *Deck {
	if kind == CardKindNumber {
		return g.wordDeck
	}
	return g.numberDeck
}

//
// ACTION phase, human surface.
//

func (g *Game) handleMoveToSlot(cardID string, slotIndex int, wildLabel string) {
	if !g.actionSurfaceOpen() || !g.currentPlayer().IsHuman {
		g.rejectCommand("moveToSlot")
		return
	}
	// In discard mode a hand card tap discards it instead of staging it.
	if g.isDiscardMode {
		g.performDiscard(g.currentPlayer(), cardID)
		return
	}

	p := g.currentPlayer()
	card, found := p.FindInHand(cardID)
	if !found {
		gameLogger.Error().Str(logging.GameCodeKey, g.config.GameCode).Msgf("moveToSlot: %v", CardNotFoundError{CardID: cardID, Where: "hand of " + p.Name})
		return
	}
	if card.IsUnresolvedWild() {
		if wildLabel == "" {
			g.statusMessage = "Choose a value for the wild card first."
			return
		}
		resolved, err := ResolveWild(card, wildLabel)
		if err != nil {
			g.statusMessage = fmt.Sprintf("Invalid wild value 【%s】.", wildLabel)
			return
		}
		card = resolved
	}

	if slotIndex >= 0 {
		if _, occupied := g.zone.Get(slotIndex); occupied {
			g.statusMessage = "That slot is occupied."
			return
		}
	}
	if _, err := p.RemoveFromHand(cardID); err != nil {
		gameLogger.Error().Str(logging.GameCodeKey, g.config.GameCode).Msgf("moveToSlot: %v", err)
		return
	}
	if slotIndex < 0 {
		slotIndex = g.zone.PlaceFirstEmpty(card)
		if slotIndex < 0 {
			// Zone full. Put the card back where it came from.
			p.AddToHand(card)
			g.statusMessage = "The construction zone is full."
			return
		}
	} else if err := g.zone.Place(slotIndex, card); err != nil {
		p.AddToHand(card)
		g.statusMessage = "That slot is occupied."
		return
	}
	g.statusMessage = fmt.Sprintf("Placed 【%s】 in slot %d.", card.Display(), slotIndex+1)
}

func (g *Game) handleReturnToHand(slotIndex int) {
	if !g.actionSurfaceOpen() || !g.currentPlayer().IsHuman {
		g.rejectCommand("returnToHand")
		return
	}
	card, err := g.zone.Remove(slotIndex)
	if err != nil {
		return
	}
	// A wild returning to the hand forgets its chosen value.
	if card.IsWild {
		card.IsWild = false
		card.Label = WildValue
	}
	g.currentPlayer().AddToHand(card)
	g.statusMessage = fmt.Sprintf("Returned 【%s】 to hand.", card.Display())
}

func (g *Game) handleToggleDiscardMode() {
	if !g.actionSurfaceOpen() || !g.currentPlayer().IsHuman {
		g.rejectCommand("toggleDiscardMode")
		return
	}
	g.isDiscardMode = !g.isDiscardMode
	if g.isDiscardMode {
		g.statusMessage = "Discard mode: tap a hand card to discard it."
	} else {
		g.statusMessage = "Discard mode off."
	}
}

func (g *Game) handleDiscard(cardID string) {
	if !g.actionSurfaceOpen() {
		g.rejectCommand("discard")
		return
	}
	g.performDiscard(g.currentPlayer(), cardID)
}

// performDiscard moves one hand card to the top of the discard pile and
// opens the rob window. Any cards the player had staged go back to their
// hand first so no card is ever stranded in the zone.
func (g *Game) performDiscard(p *Player, cardID string) {
	card, err := p.RemoveFromHand(cardID)
	if err != nil {
		gameLogger.Error().Str(logging.GameCodeKey, g.config.GameCode).Msgf("discard: %v", err)
		return
	}
	g.reclaimZone(p)
	g.isDiscardMode = false

	g.discardPile = append([]Card{card}, g.discardPile...)
	g.pendingDiscard = &PendingDiscard{
		Card:              card,
		SourcePlayerIndex: g.currentPlayerIndex,
	}
	g.logAction(p.Name, p.IsHuman, fmt.Sprintf("discarded 【%s】", card.Display()), false)
	g.transition(EventDiscarded)
}

// reclaimZone returns every staged card to the player's hand. An unresolved
// wild goes back as a wild.
func (g *Game) reclaimZone(p *Player) {
	for _, card := range g.zone.Cards() {
		if card.IsWild {
			card.IsWild = false
			card.Label = WildValue
		}
		p.AddToHand(card)
	}
	g.zone.Clear()
}

//
// Submission and the judge verdict.
//

func (g *Game) handleSubmit() {
	if !g.actionSurfaceOpen() || !g.currentPlayer().IsHuman {
		g.rejectCommand("submit")
		return
	}
	if g.zone.IsEmpty() {
		g.statusMessage = "Stage at least one card before submitting."
		return
	}
	g.submitSlots()
}

// submitSlots serializes the zone and fires the judge call on a side
// goroutine. The result returns through the event channel carrying the
// marker it was launched under.
func (g *Game) submitSlots() {
	p := g.currentPlayer()
	sentence := g.zone.Sentence()
	g.submissionInFlight = true
	g.statusMessage = "Transmitting formation to Command for verification..."
	g.logAction(p.Name, p.IsHuman, fmt.Sprintf("submitted: 「%s」", sentence), false)

	m := g.marker()
	go func() {
		verdict, err := g.judge.Judge(context.Background(), sentence, g.config.Context)
		g.chEvent <- judgeResultEvent{marker: m, verdict: verdict, err: err}
	}()
}

func (g *Game) handleJudgeResult(ev judgeResultEvent) {
	if ev.marker.Seq != g.seq {
		gameLogger.Debug().Str(logging.GameCodeKey, g.config.GameCode).Msg("Dropping stale judge result")
		return
	}
	g.submissionInFlight = false
	p := g.currentPlayer()

	if ev.err != nil {
		gameLogger.Error().Str(logging.GameCodeKey, g.config.GameCode).Msgf("Judge unavailable: %v", ev.err)
		g.logAction(systemActorName, false, "Communication with Command lost. Turn ends without penalty.", true)
		g.reclaimZone(p)
		g.statusMessage = "Verification failed. Ending turn..."
		if g.transition(EventTurnEnded) {
			// Hold the END screen a little longer after a comms failure.
			g.scheduleTimer(timer.PurposeTurnAdvance, g.delays.ErrorEnd)
		}
		return
	}

	verdict := ev.verdict
	switch {
	case verdict.IsValid && verdict.Strategy == ai.StrategyB:
		g.challenge = &ChallengeState{
			ChallengerIndex: g.currentPlayerIndex,
			TicksRemaining:  ChallengeCountdownTicks,
			Snapshot:        g.zone.Cards(),
		}
		g.logAction(p.Name, p.IsHuman, "⚠️ set a TRAP! A question sentence is live. Buzz in to defuse it!", true)
		g.transition(EventTrapSet)

	case verdict.IsValid:
		points := g.zone.Count()
		g.zone.Clear()
		newScore := p.AdjustScore(points)
		g.logAction(p.Name, p.IsHuman, fmt.Sprintf("✅ Command verified the formation! +%d points (now %d). %s", points, newScore, verdict.Feedback), true)
		if p.HasWon(g.config.WinThreshold) {
			g.declareWinner(p)
			return
		}
		g.resetPending = true
		g.resetNextIndex = g.nextIndex(g.currentPlayerIndex)
		g.statusMessage = "Valid formation! Re-provisioning the battlefield..."
		g.scheduleTimer(timer.PurposeRoundReset, g.delays.RoundReset)

	default:
		newScore := p.AdjustScore(-InvalidSubmissionPenalty)
		g.logAction(p.Name, p.IsHuman, fmt.Sprintf("❌ Invalid formation! -%d points (now %d). %s", InvalidSubmissionPenalty, newScore, verdict.Feedback), true)
		g.reclaimZone(p)
		g.statusMessage = "Formation rejected. Ending turn..."
		g.transition(EventTurnEnded)
	}
}

//
// ROBBING phase.
//

func (g *Game) handleRob(playerIndex uint32) {
	if g.phase() != PhaseRobbing || g.pendingDiscard == nil {
		g.rejectCommand("rob")
		return
	}
	if int(playerIndex) >= len(g.players) {
		gameLogger.Error().Str(logging.GameCodeKey, g.config.GameCode).Uint32(logging.PlayerIndexKey, playerIndex).Msgf("rob: %v", InvalidClaimError{PlayerIndex: playerIndex, Msg: "no such player"})
		return
	}
	if playerIndex == g.pendingDiscard.SourcePlayerIndex {
		gameLogger.Warn().Str(logging.GameCodeKey, g.config.GameCode).Msgf("rob: %v", InvalidClaimError{PlayerIndex: playerIndex, Msg: "cannot rob own discard"})
		return
	}
	claimant := g.players[playerIndex]
	if g.config.ClaimPolicy == ClaimHumanOnly && !claimant.IsHuman {
		return
	}

	card := g.discardPile[0]
	g.discardPile = g.discardPile[1:]
	claimant.AddToHand(card)
	g.pendingDiscard = nil
	g.currentPlayerIndex = playerIndex
	g.logAction(claimant.Name, claimant.IsHuman, fmt.Sprintf("⚡ ROBBED the 【%s】! Turn seized.", card.Display()), true)
	g.statusMessage = fmt.Sprintf("%s seized the supply and takes over the action phase.", claimant.Name)
	g.transition(EventRobbed)
}

func (g *Game) robExpired() {
	if g.phase() != PhaseRobbing {
		return
	}
	card := g.pendingDiscard.Card
	g.pendingDiscard = nil
	g.logAction(systemActorName, false, fmt.Sprintf("No claims on 【%s】. The window closes.", card.Display()), false)
	g.reclaimZone(g.currentPlayer())
	g.transition(EventRobExpired)
}

//
// CHALLENGE phase.
//

func (g *Game) handleBuzz(playerIndex uint32) {
	if g.phase() != PhaseChallenge || g.challenge == nil {
		g.rejectCommand("buzz")
		return
	}
	if int(playerIndex) >= len(g.players) {
		gameLogger.Error().Str(logging.GameCodeKey, g.config.GameCode).Uint32(logging.PlayerIndexKey, playerIndex).Msgf("buzz: %v", InvalidClaimError{PlayerIndex: playerIndex, Msg: "no such player"})
		return
	}
	if playerIndex == g.challenge.ChallengerIndex {
		gameLogger.Warn().Str(logging.GameCodeKey, g.config.GameCode).Msgf("buzz: %v", InvalidClaimError{PlayerIndex: playerIndex, Msg: "cannot buzz own trap"})
		return
	}
	buzzer := g.players[playerIndex]
	if g.config.ClaimPolicy == ClaimHumanOnly && !buzzer.IsHuman {
		return
	}

	challenger := g.players[g.challenge.ChallengerIndex]
	newScore := buzzer.AdjustScore(BuzzInBonus)
	g.logAction(buzzer.Name, buzzer.IsHuman, fmt.Sprintf("🔔 BUZZED IN! Trap defused. +%d points (now %d).", BuzzInBonus, newScore), true)
	g.reclaimZone(challenger)
	g.challenge = nil

	g.resetPending = true
	g.resetNextIndex = playerIndex
	g.transition(EventBuzzed)
	if buzzer.HasWon(g.config.WinThreshold) {
		g.declareWinner(buzzer)
		return
	}
	g.statusMessage = fmt.Sprintf("%s defused the trap! Re-provisioning...", buzzer.Name)
	g.scheduleTimer(timer.PurposeRoundReset, g.delays.BuzzReset)
}

func (g *Game) challengeTimeout() {
	if g.phase() != PhaseChallenge || g.challenge == nil {
		return
	}
	challenger := g.players[g.challenge.ChallengerIndex]
	points := len(g.challenge.Snapshot)
	newScore := challenger.AdjustScore(points)
	g.logAction(challenger.Name, challenger.IsHuman, fmt.Sprintf("⏱ No one buzzed in! The trap pays out +%d points (now %d).", points, newScore), true)
	g.zone.Clear()
	nextIndex := g.nextIndex(g.challenge.ChallengerIndex)
	g.challenge = nil

	g.resetPending = true
	g.resetNextIndex = nextIndex
	g.transition(EventChallengeExpired)
	if challenger.HasWon(g.config.WinThreshold) {
		g.declareWinner(challenger)
		return
	}
	g.statusMessage = "The trap stood unchallenged. Re-provisioning..."
	g.scheduleTimer(timer.PurposeRoundReset, g.delays.RoundReset)
}

//
// Turn and round lifecycle.
//

// endTurnNow closes the current turn from ACTION, returning any staged
// cards to the owner first.
func (g *Game) endTurnNow() {
	g.reclaimZone(g.currentPlayer())
	g.isDiscardMode = false
	g.transition(EventTurnEnded)
}

func (g *Game) advanceTurn() {
	if g.phase() != PhaseEnd {
		return
	}
	next := g.nextIndex(g.currentPlayerIndex)
	if next == 0 {
		g.round++
	}
	g.currentPlayerIndex = next
	g.isDiscardMode = false
	g.transition(EventTurnAdvanced)
}

func (g *Game) performScheduledReset() {
	if !g.resetPending {
		return
	}
	g.dealNewRound()
	g.currentPlayerIndex = g.resetNextIndex % uint32(len(g.players))
	g.resetPending = false
	g.logAction(systemActorName, false, "🔄 Battlefield re-provisioned. Fresh hands and supply lines for everyone.", true)
	g.transition(EventRoundReset)
}

func (g *Game) nextIndex(from uint32) uint32 {
	return (from + 1) % uint32(len(g.players))
}

func (g *Game) declareWinner(p *Player) {
	g.winner = p
	g.resetPending = false
	g.pendingDiscard = nil
	g.challenge = nil
	g.logAction(systemActorName, false, fmt.Sprintf("🏆 %s wins the operation with %d points!", p.Name, p.Score), true)
	g.statusMessage = fmt.Sprintf("Operation complete. %s is victorious!", p.Name)
	g.transition(EventGameOver)
}

// handleReplenish tops every hand back up to the starting balance from the
// live decks. Only an explicit command reaches here.
func (g *Game) handleReplenish() {
	for _, p := range g.players {
		needNumbers := InitialNumberCards - p.HandCountByKind(CardKindNumber)
		if needNumbers > 0 {
			p.AddToHand(g.numberDeck.DrawUpTo(needNumbers)...)
		}
		needWords := InitialWordCards - p.HandCountByKind(CardKindWord)
		if needWords > 0 {
			p.AddToHand(g.wordDeck.DrawUpTo(needWords)...)
		}
	}
	g.logAction(systemActorName, false, "📦 Emergency resupply delivered to all hands.", true)
}

func (g *Game) rejectCommand(command string) {
	gameLogger.Warn().
		Str(logging.GameCodeKey, g.config.GameCode).
		Str(logging.PhaseKey, string(g.phase())).
		Msgf("Ignoring [%s] command (phase or surface closed)", command)
}
