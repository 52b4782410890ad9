package game

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"

	"github.com/lokmatthew213-hub/fyp-game-new/ai"
	"github.com/lokmatthew213-hub/fyp-game-new/timer"
)

// The scenario tests drive the dispatcher directly on the test goroutine
// instead of starting the game loop. Commands and timer fires still arrive
// through the event channel, so ordering is exactly what production sees,
// but the tests decide when each event is applied.

type stubJudge struct {
	verdict *ai.Verdict
	err     error
}

func (s *stubJudge) Judge(ctx context.Context, sentence string, data ai.Context) (*ai.Verdict, error) {
	return s.verdict, s.err
}

type stubAdvisor struct {
	move *ai.Move
	err  error
}

func (s *stubAdvisor) GetMove(ctx context.Context, hand []ai.HandCard, data ai.Context, difficulty string) (*ai.Move, error) {
	return s.move, s.err
}

func validA() *stubJudge {
	return &stubJudge{verdict: &ai.Verdict{IsValid: true, Strategy: ai.StrategyA, Feedback: "正確"}}
}

func validB() *stubJudge {
	return &stubJudge{verdict: &ai.Verdict{IsValid: true, Strategy: ai.StrategyB, Feedback: "陷阱"}}
}

func invalid() *stubJudge {
	return &stubJudge{verdict: &ai.Verdict{IsValid: false, Strategy: ai.StrategyNone, Feedback: "缺少顏色"}}
}

var testGameSerial int

func newTestGame(t *testing.T, mode GameMode, judge JudgeAdapter, advisor MoveAdapter) *Game {
	t.Helper()
	if advisor == nil {
		advisor = &stubAdvisor{move: ai.SafeDefaultMove()}
	}
	testGameSerial++
	g, err := NewGame(&GameConfig{
		GameCode: fmt.Sprintf("TEST-%d", testGameSerial),
		Mode:     mode,
	}, TestDelays(), judge, advisor, NewMemoryHistoryStore())
	if err != nil {
		t.Fatalf("NewGame failed: %v", err)
	}
	t.Cleanup(func() {
		g.turnTimer.Destroy()
	})
	return g
}

// pumpUntil applies queued events until cond holds.
func pumpUntil(t *testing.T, g *Game, what string, cond func() bool) {
	t.Helper()
	deadline := time.After(5 * time.Second)
	for !cond() {
		select {
		case ev := <-g.chEvent:
			g.dispatch(ev)
		case <-deadline:
			t.Fatalf("timed out waiting for %s (phase %s, seq %d)", what, g.phase(), g.seq)
		}
	}
}

// stageCards moves up to n non-wild hand cards into the zone and returns
// how many were staged.
func stageCards(g *Game, n int) int {
	p := g.currentPlayer()
	hand := append([]Card(nil), p.Hand...)
	staged := 0
	for _, c := range hand {
		if staged == n {
			break
		}
		if c.IsUnresolvedWild() {
			continue
		}
		g.dispatch(moveToSlotEvent{cardID: c.ID, slotIndex: -1})
		staged++
	}
	return staged
}

// checkCardConservation asserts the id multiset of cards in play: the full
// 46 + 76 set across decks, hands, zone and discard pile, every id exactly
// once.
func checkCardConservation(t *testing.T, g *Game) {
	t.Helper()
	seen := make(map[string]int)
	add := func(cards []Card) {
		for _, c := range cards {
			seen[c.ID]++
		}
	}
	add(g.numberDeck.Cards())
	add(g.wordDeck.Cards())
	add(g.zone.Cards())
	add(g.discardPile)
	for _, p := range g.players {
		add(p.Hand)
	}
	if len(seen) != fullCardSet {
		t.Errorf("cards in play = %d distinct ids; want %d", len(seen), fullCardSet)
	}
	for id, n := range seen {
		if n != 1 {
			t.Errorf("card %s appears %d times in play", id, n)
		}
	}
}

const fullCardSet = 122

func TestNewGameDealsHands(t *testing.T) {
	g := newTestGame(t, ModeBattle, validA(), nil)
	if len(g.players) != 4 {
		t.Fatalf("battle game has %d players; want 4", len(g.players))
	}
	for _, p := range g.players {
		if p.HandCountByKind(CardKindNumber) != InitialNumberCards {
			t.Errorf("%s holds %d number cards; want %d", p.Name, p.HandCountByKind(CardKindNumber), InitialNumberCards)
		}
		if p.HandCountByKind(CardKindWord) != InitialWordCards {
			t.Errorf("%s holds %d word cards; want %d", p.Name, p.HandCountByKind(CardKindWord), InitialWordCards)
		}
	}
	if !g.players[0].IsHuman {
		t.Error("seat 0 should be the human player")
	}
	if g.phase() != PhaseDraw {
		t.Errorf("new game starts in %s; want %s", g.phase(), PhaseDraw)
	}
	checkCardConservation(t, g)
}

func TestValidSubmissionScoresAndResets(t *testing.T) {
	g := newTestGame(t, ModePractice, validA(), nil)

	g.dispatch(drawCardEvent{kind: CardKindNumber})
	if g.phase() != PhaseAction {
		t.Fatalf("phase after draw = %s; want %s", g.phase(), PhaseAction)
	}
	staged := stageCards(g, 3)
	g.dispatch(submitEvent{})
	if !g.submissionInFlight {
		t.Fatal("submission should be in flight")
	}

	pumpUntil(t, g, "score award", func() bool {
		return g.players[0].Score == staged
	})
	pumpUntil(t, g, "round reset", func() bool {
		return g.phase() == PhaseDraw && !g.resetPending
	})

	if got := len(g.players[0].Hand); got != InitialNumberCards+InitialWordCards {
		t.Errorf("hand size after reset = %d; want %d", got, InitialNumberCards+InitialWordCards)
	}
	if !g.zone.IsEmpty() {
		t.Error("zone should be empty after reset")
	}
	checkCardConservation(t, g)
}

func TestInvalidSubmissionPenalizesAndReturnsCards(t *testing.T) {
	g := newTestGame(t, ModePractice, invalid(), nil)
	g.players[0].Score = 20

	g.dispatch(drawCardEvent{kind: CardKindWord})
	stageCards(g, 2)
	g.dispatch(submitEvent{})

	pumpUntil(t, g, "penalty applied", func() bool {
		return g.players[0].Score == 20-InvalidSubmissionPenalty
	})
	if !g.zone.IsEmpty() {
		t.Error("staged cards should have returned to the hand")
	}
	if got := len(g.players[0].Hand); got != 13 {
		t.Errorf("hand size = %d; want 13 (12 dealt + 1 drawn)", got)
	}
	pumpUntil(t, g, "next turn", func() bool {
		return g.phase() == PhaseDraw && g.round == 2
	})
	checkCardConservation(t, g)
}

func TestPenaltyNeverDropsScoreBelowZero(t *testing.T) {
	g := newTestGame(t, ModePractice, invalid(), nil)

	g.dispatch(drawCardEvent{kind: CardKindNumber})
	stageCards(g, 1)
	g.dispatch(submitEvent{})

	pumpUntil(t, g, "verdict applied", func() bool {
		return !g.submissionInFlight && g.zone.IsEmpty()
	})
	if g.players[0].Score != 0 {
		t.Errorf("score = %d; want 0 (clamped)", g.players[0].Score)
	}
}

func TestTrapPaysOutOnTimeout(t *testing.T) {
	g := newTestGame(t, ModePractice, validB(), nil)

	g.dispatch(drawCardEvent{kind: CardKindWord})
	staged := stageCards(g, 3)
	g.dispatch(submitEvent{})

	pumpUntil(t, g, "challenge phase", func() bool {
		return g.phase() == PhaseChallenge
	})
	if g.challenge == nil || len(g.challenge.Snapshot) != staged {
		t.Fatalf("challenge snapshot = %+v; want %d cards", g.challenge, staged)
	}

	pumpUntil(t, g, "trap payout", func() bool {
		return g.players[0].Score == staged
	})
	pumpUntil(t, g, "round reset", func() bool {
		return g.phase() == PhaseDraw && !g.resetPending
	})
	checkCardConservation(t, g)
}

func TestBuzzDefusesTrap(t *testing.T) {
	g := newTestGame(t, ModeBattle, validB(), nil)

	g.dispatch(drawCardEvent{kind: CardKindWord})
	stageCards(g, 2)
	g.dispatch(submitEvent{})
	pumpUntil(t, g, "challenge phase", func() bool {
		return g.phase() == PhaseChallenge
	})

	// The challenger cannot defuse their own trap.
	g.dispatch(buzzEvent{playerIndex: 0})
	if g.phase() != PhaseChallenge {
		t.Fatal("challenger's own buzz should be rejected")
	}

	g.dispatch(buzzEvent{playerIndex: 2})
	if got := g.players[2].Score; got != BuzzInBonus {
		t.Errorf("buzzer score = %d; want %d", got, BuzzInBonus)
	}
	if g.players[0].Score != 0 {
		t.Errorf("challenger score = %d; want 0", g.players[0].Score)
	}

	pumpUntil(t, g, "reset to buzzer's turn", func() bool {
		return g.phase() == PhaseDraw && g.currentPlayerIndex == 2
	})
	checkCardConservation(t, g)
}

func TestRobSeizesTurn(t *testing.T) {
	g := newTestGame(t, ModeBattle, validA(), nil)

	g.dispatch(drawCardEvent{kind: CardKindNumber})
	discarded := g.players[0].Hand[0]
	g.dispatch(discardEvent{cardID: discarded.ID})
	if g.phase() != PhaseRobbing {
		t.Fatalf("phase after discard = %s; want %s", g.phase(), PhaseRobbing)
	}
	if g.pendingDiscard == nil || g.pendingDiscard.Card.ID != discarded.ID {
		t.Fatalf("pendingDiscard = %+v; want card %s", g.pendingDiscard, discarded.ID)
	}

	// The discarder cannot rob their own card.
	g.dispatch(robEvent{playerIndex: 0})
	if g.phase() != PhaseRobbing {
		t.Fatal("self-rob should be rejected")
	}

	g.dispatch(robEvent{playerIndex: 2})
	if g.currentPlayerIndex != 2 {
		t.Errorf("current player = %d; want 2 after rob", g.currentPlayerIndex)
	}
	if g.phase() != PhaseAction {
		t.Errorf("phase after rob = %s; want %s", g.phase(), PhaseAction)
	}
	if _, found := g.players[2].FindInHand(discarded.ID); !found {
		t.Error("robbed card should be in the claimant's hand")
	}
	if len(g.discardPile) != 0 {
		t.Errorf("discard pile has %d cards; want 0 after rob", len(g.discardPile))
	}
	checkCardConservation(t, g)
}

func TestRobWindowExpiry(t *testing.T) {
	g := newTestGame(t, ModeBattle, validA(), nil)

	g.dispatch(drawCardEvent{kind: CardKindNumber})
	discarded := g.players[0].Hand[0]
	g.dispatch(discardEvent{cardID: discarded.ID})

	pumpUntil(t, g, "next player's draw phase", func() bool {
		return g.phase() == PhaseDraw && g.currentPlayerIndex == 1
	})
	if g.pendingDiscard != nil {
		t.Error("pendingDiscard should be cleared after expiry")
	}
	if len(g.discardPile) != 1 || g.discardPile[0].ID != discarded.ID {
		t.Errorf("discard pile = %d cards; the unclaimed card should stay on top", len(g.discardPile))
	}
	checkCardConservation(t, g)
}

func TestWinEndsGame(t *testing.T) {
	g := newTestGame(t, ModePractice, validA(), nil)
	g.players[0].Score = DefaultWinThreshold - 2

	g.dispatch(drawCardEvent{kind: CardKindNumber})
	stageCards(g, 3)
	g.dispatch(submitEvent{})

	pumpUntil(t, g, "game over", func() bool {
		return g.phase() == PhaseGameOver
	})
	if g.winner == nil || g.winner.ID != g.players[0].ID {
		t.Fatalf("winner = %+v; want player 0", g.winner)
	}

	// Terminal state: further commands are ignored.
	handBefore := len(g.players[0].Hand)
	g.dispatch(drawCardEvent{kind: CardKindNumber})
	if len(g.players[0].Hand) != handBefore {
		t.Error("commands after game over should be no-ops")
	}
}

func TestJudgeFailureEndsTurnWithoutPenalty(t *testing.T) {
	g := newTestGame(t, ModePractice, &stubJudge{err: errors.New("judge unreachable")}, nil)
	g.players[0].Score = 20

	g.dispatch(drawCardEvent{kind: CardKindWord})
	stageCards(g, 2)
	g.dispatch(submitEvent{})

	pumpUntil(t, g, "turn end after failure", func() bool {
		return g.phase() == PhaseDraw && g.round == 2
	})
	if g.players[0].Score != 20 {
		t.Errorf("score = %d; a judge outage must not cost points", g.players[0].Score)
	}
	if got := len(g.players[0].Hand); got != 13 {
		t.Errorf("hand size = %d; want 13 (staged cards returned)", got)
	}
}

func TestStaleTimerFireIgnored(t *testing.T) {
	g := newTestGame(t, ModeBattle, validA(), nil)
	before := g.phase()
	g.dispatch(timerFiredEvent{msg: timer.TimerMsg{
		Purpose: timer.PurposeTurnAdvance,
		Seq:     g.seq + 5,
	}})
	if g.phase() != before {
		t.Errorf("stale timer fire changed phase from %s to %s", before, g.phase())
	}
}

func TestStaleJudgeResultIgnored(t *testing.T) {
	g := newTestGame(t, ModePractice, validA(), nil)

	g.dispatch(drawCardEvent{kind: CardKindNumber})
	stageCards(g, 2)
	g.dispatch(submitEvent{})

	stale := g.marker()
	stale.Seq = g.seq + 10
	g.dispatch(judgeResultEvent{marker: stale, verdict: &ai.Verdict{IsValid: true, Strategy: ai.StrategyA}})

	if g.players[0].Score != 0 {
		t.Errorf("stale verdict changed the score to %d", g.players[0].Score)
	}
	if !g.submissionInFlight {
		t.Error("stale verdict should not clear the in-flight flag")
	}
}

func TestCommandsRejectedOutsidePhase(t *testing.T) {
	g := newTestGame(t, ModeBattle, validA(), nil)

	// DRAW phase: none of the ACTION surface commands may act.
	handBefore := len(g.players[0].Hand)
	g.dispatch(submitEvent{})
	g.dispatch(discardEvent{cardID: g.players[0].Hand[0].ID})
	g.dispatch(robEvent{playerIndex: 1})
	g.dispatch(buzzEvent{playerIndex: 1})
	if g.phase() != PhaseDraw {
		t.Errorf("phase = %s; rejected commands must not transition", g.phase())
	}
	if len(g.players[0].Hand) != handBefore {
		t.Error("rejected commands must not mutate the hand")
	}

	// The machine itself refuses transitions outside the table.
	if g.transition(EventRobbed) {
		t.Error("DRAW must not accept a rob transition")
	}
}

func TestActionSurfaceClosedWhileInFlight(t *testing.T) {
	g := newTestGame(t, ModePractice, validA(), nil)

	g.dispatch(drawCardEvent{kind: CardKindNumber})
	stageCards(g, 2)
	g.dispatch(submitEvent{})

	// While the verdict is pending no further staging or discarding.
	zoneBefore := g.zone.Count()
	g.dispatch(moveToSlotEvent{cardID: g.players[0].Hand[0].ID, slotIndex: -1})
	g.dispatch(discardEvent{cardID: g.players[0].Hand[0].ID})
	if g.zone.Count() != zoneBefore {
		t.Error("staging must be blocked while a submission is in flight")
	}
	if g.phase() != PhaseAction {
		t.Errorf("phase = %s; discard must be blocked while in flight", g.phase())
	}
}

func TestDrawSkippedWhenBothDecksEmpty(t *testing.T) {
	g := newTestGame(t, ModePractice, validA(), nil)
	g.numberDeck.DrawUpTo(g.numberDeck.Remaining())
	g.wordDeck.DrawUpTo(g.wordDeck.Remaining())

	handBefore := len(g.players[0].Hand)
	g.dispatch(drawCardEvent{kind: CardKindNumber})
	if g.phase() != PhaseAction {
		t.Errorf("phase = %s; exhausted decks should skip into ACTION", g.phase())
	}
	if len(g.players[0].Hand) != handBefore {
		t.Error("no card should be added when both decks are empty")
	}
}

func TestEmptyChosenDeckKeepsDrawPhase(t *testing.T) {
	g := newTestGame(t, ModePractice, validA(), nil)
	g.numberDeck.DrawUpTo(g.numberDeck.Remaining())

	g.dispatch(drawCardEvent{kind: CardKindNumber})
	if g.phase() != PhaseDraw {
		t.Fatalf("phase = %s; the player should still get to pick the other deck", g.phase())
	}
	g.dispatch(drawCardEvent{kind: CardKindWord})
	if g.phase() != PhaseAction {
		t.Errorf("phase = %s; drawing from the non-empty deck should proceed", g.phase())
	}
}

func TestWildNeedsLabelToEnterSlot(t *testing.T) {
	g := newTestGame(t, ModePractice, validA(), nil)
	g.dispatch(drawCardEvent{kind: CardKindNumber})

	wild := Card{ID: "wild-1", Kind: CardKindNumber, Value: WildValue, Label: WildValue}
	g.players[0].AddToHand(wild)

	g.dispatch(moveToSlotEvent{cardID: wild.ID, slotIndex: -1})
	if !g.zone.IsEmpty() {
		t.Fatal("an unresolved wild must not enter a slot")
	}

	g.dispatch(moveToSlotEvent{cardID: wild.ID, slotIndex: -1, wildLabel: "5"})
	cards := g.zone.Cards()
	if len(cards) != 1 || cards[0].Label != "5" {
		t.Fatalf("zone = %+v; want the wild resolved to 5", cards)
	}

	// Returning a wild to the hand forgets the chosen value.
	g.dispatch(returnToHandEvent{slotIndex: 0})
	returned, found := g.players[0].FindInHand(wild.ID)
	if !found {
		t.Fatal("wild should be back in the hand")
	}
	if !returned.IsUnresolvedWild() {
		t.Errorf("returned wild = %+v; want unresolved again", returned)
	}
}

func TestDiscardModeTapDiscards(t *testing.T) {
	g := newTestGame(t, ModePractice, validA(), nil)
	g.dispatch(drawCardEvent{kind: CardKindWord})
	g.dispatch(toggleDiscardModeEvent{})
	if !g.isDiscardMode {
		t.Fatal("discard mode should be on")
	}

	target := g.players[0].Hand[0]
	g.dispatch(moveToSlotEvent{cardID: target.ID, slotIndex: -1})
	if g.phase() != PhaseRobbing {
		t.Fatalf("phase = %s; tapping a card in discard mode should discard it", g.phase())
	}
	if len(g.discardPile) != 1 || g.discardPile[0].ID != target.ID {
		t.Error("tapped card should be on top of the discard pile")
	}
	if g.isDiscardMode {
		t.Error("discard mode should reset after the discard")
	}
}

func TestReplenishTopsUpHands(t *testing.T) {
	g := newTestGame(t, ModePractice, validA(), nil)
	p := g.players[0]
	for i := 0; i < 3; i++ {
		for _, c := range p.Hand {
			if c.Kind == CardKindNumber {
				p.RemoveFromHand(c.ID)
				break
			}
		}
	}

	g.dispatch(replenishEvent{})

	got := map[CardKind]int{
		CardKindNumber: p.HandCountByKind(CardKindNumber),
		CardKindWord:   p.HandCountByKind(CardKindWord),
	}
	want := map[CardKind]int{
		CardKindNumber: InitialNumberCards,
		CardKindWord:   InitialWordCards,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("hand counts after replenish mismatch (-want +got):\n%s", diff)
	}
}

func TestSnapshotIsDeepCopy(t *testing.T) {
	g := newTestGame(t, ModePractice, validA(), nil)
	snapshot := g.Snapshot()

	snapshot.Players[0].Hand[0].Label = "tampered"
	if g.players[0].Hand[0].Label == "tampered" {
		t.Error("mutating a snapshot hand must not touch game state")
	}
	if snapshot.NumberDeckRemaining != 46-InitialNumberCards {
		t.Errorf("snapshot number deck = %d; want %d", snapshot.NumberDeckRemaining, 46-InitialNumberCards)
	}
}

func TestHistoryRecordsGameStart(t *testing.T) {
	g := newTestGame(t, ModeBattle, validA(), nil)
	entries, err := g.History()
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}
	if len(entries) == 0 {
		t.Fatal("history should contain the game start entry")
	}
	if entries[0].PlayerName != systemActorName {
		t.Errorf("first entry author = %s; want %s", entries[0].PlayerName, systemActorName)
	}
}
