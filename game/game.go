package game

import (
	"fmt"
	"sync"
	"time"

	"github.com/looplab/fsm"

	"github.com/lokmatthew213-hub/fyp-game-new/ai"
	"github.com/lokmatthew213-hub/fyp-game-new/logging"
	"github.com/lokmatthew213-hub/fyp-game-new/timer"
)

var gameLogger = logging.GetZeroLogger("game::game", nil)

// Player names used by the fixed seat layout.
var battleSeatNames = []string{"Commander You", "NPC Alpha", "NPC Bravo", "NPC Charlie"}

// event is an external trigger fed to the dispatcher: a player command, a
// timer fire, or an adapter completion. All state mutation flows through
// dispatch; there are no other writers.
type event interface{}

type drawCardEvent struct {
	kind CardKind
}

type moveToSlotEvent struct {
	cardID    string
	slotIndex int // -1 means first empty slot
	wildLabel string
}

type returnToHandEvent struct {
	slotIndex int
}

type toggleDiscardModeEvent struct{}

type discardEvent struct {
	cardID string
}

type submitEvent struct{}

type robEvent struct {
	playerIndex uint32
}

type buzzEvent struct {
	playerIndex uint32
}

type replenishEvent struct{}

type judgeResultEvent struct {
	marker  TurnMarker
	verdict *ai.Verdict
	err     error
}

type moveResultEvent struct {
	marker TurnMarker
	move   *ai.Move
	err    error
}

type timerFiredEvent struct {
	msg timer.TimerMsg
}

type timerTickEvent struct {
	msg timer.TimerMsg
}

// Game is the turn engine for one session. One goroutine (runGame) applies
// events; the lock only guards snapshot reads against that single writer.
type Game struct {
	config  *GameConfig
	delays  Delays
	judge   JudgeAdapter
	advisor MoveAdapter

	history  ActionHistoryStore
	logSinks []ActionLogSink

	lock sync.Mutex

	players            []*Player
	numberDeck         *Deck
	wordDeck           *Deck
	zone               *ConstructionZone
	discardPile        []Card // most recent first
	currentPlayerIndex uint32
	round              uint32
	seq                uint64
	sm                 *fsm.FSM
	isDiscardMode      bool
	statusMessage      string
	pendingDiscard     *PendingDiscard
	challenge          *ChallengeState
	winner             *Player

	// A submission in flight or a scheduled round reset freezes the
	// ACTION surface until the pending outcome lands.
	submissionInFlight bool
	resetPending       bool
	resetNextIndex     uint32

	chEvent   chan event
	end       chan bool
	turnTimer *timer.TurnTimer
	running   bool
}

func NewGame(config *GameConfig, delays Delays, judge JudgeAdapter, advisor MoveAdapter, history ActionHistoryStore, sinks ...ActionLogSink) (*Game, error) {
	if config.GameCode == "" {
		return nil, fmt.Errorf("game code is required")
	}
	if config.Mode != ModePractice && config.Mode != ModeBattle {
		return nil, fmt.Errorf("unknown game mode [%s]", config.Mode)
	}
	if config.WinThreshold == 0 {
		config.WinThreshold = DefaultWinThreshold
	}
	if config.Difficulty == "" {
		config.Difficulty = ai.DifficultyMedium
	}
	if config.NpcDriver == "" {
		config.NpcDriver = NpcDriverAlgorithm
	}
	if config.ClaimPolicy == "" {
		config.ClaimPolicy = ClaimAnyPlayer
	}
	if config.Context == (ai.Context{}) {
		config.Context = DefaultContext
	}
	if history == nil {
		history = NewMemoryHistoryStore()
	}

	g := &Game{
		config:   config,
		delays:   delays,
		judge:    judge,
		advisor:  advisor,
		history:  history,
		logSinks: sinks,
		zone:     NewConstructionZone(),
		round:    1,
		chEvent:  make(chan event, 128),
		end:      make(chan bool),
	}
	g.sm = newPhaseFSM(func(src GamePhase, dst GamePhase) {
		gameLogger.Debug().
			Str(logging.GameCodeKey, g.config.GameCode).
			Uint32(logging.RoundKey, g.round).
			Msgf("[%s] ===> [%s]", src, dst)
	})
	g.turnTimer = timer.NewTurnTimer(config.GameCode, g.queueTimerFired, g.queueTimerTick, nil)
	g.turnTimer.Run()

	g.dealNewRound()
	g.logAction(systemActorName, false, fmt.Sprintf("Game Started: %s mode.", config.Mode), false)
	g.statusMessage = "Operation Begun. Supply Line Open. Draw a Card."
	return g, nil
}

func (g *Game) dealNewRound() {
	g.numberDeck = GenerateNumberDeck()
	g.wordDeck = GenerateWordDeck()

	if g.players == nil {
		numPlayers := 1
		if g.config.Mode == ModeBattle {
			numPlayers = len(battleSeatNames)
		}
		npcDriver := DriverHeuristic
		if g.config.NpcDriver == NpcDriverAI {
			npcDriver = DriverAdvisory
		}
		for i := 0; i < numPlayers; i++ {
			p := &Player{
				ID:      uint32(i + 1),
				UUID:    newPlayerUUID(),
				Name:    battleSeatNames[i],
				IsHuman: i == 0,
				Driver:  DriverHuman,
			}
			if !p.IsHuman {
				p.Driver = npcDriver
			}
			g.players = append(g.players, p)
		}
	}

	for _, p := range g.players {
		p.Hand = nil
		p.AddToHand(g.numberDeck.DrawUpTo(InitialNumberCards)...)
		p.AddToHand(g.wordDeck.DrawUpTo(InitialWordCards)...)
	}
	g.zone.Clear()
	g.discardPile = nil
	g.pendingDiscard = nil
	g.challenge = nil
	g.isDiscardMode = false
}

// Run starts the event loop.
func (g *Game) Run() {
	g.running = true
	go g.runGame()
}

// Stop ends the event loop and the timer loop.
func (g *Game) Stop() {
	g.end <- true
}

func (g *Game) runGame() {
	ended := false
	for !ended {
		select {
		case <-g.end:
			ended = true
		case ev := <-g.chEvent:
			g.lock.Lock()
			g.dispatch(ev)
			g.lock.Unlock()
		}
	}
	g.turnTimer.Destroy()
	g.running = false
}

func (g *Game) queueTimerFired(msg timer.TimerMsg) {
	g.chEvent <- timerFiredEvent{msg: msg}
}

func (g *Game) queueTimerTick(msg timer.TimerMsg) {
	g.chEvent <- timerTickEvent{msg: msg}
}

// marker captures the live turn identity for staleness checks on
// asynchronous completions.
func (g *Game) marker() TurnMarker {
	return TurnMarker{
		PlayerIndex: g.currentPlayerIndex,
		Round:       g.round,
		Phase:       g.phase(),
		Seq:         g.seq,
	}
}

func (g *Game) phase() GamePhase {
	return GamePhase(g.sm.Current())
}

func (g *Game) currentPlayer() *Player {
	return g.players[g.currentPlayerIndex]
}

// transition drives the FSM. A rejected event means the caller attempted a
// transition outside the phase table; that is logged loudly and ignored.
func (g *Game) transition(eventName string) bool {
	if err := g.sm.Event(eventName); err != nil {
		gameLogger.Error().
			Str(logging.GameCodeKey, g.config.GameCode).
			Str(logging.PhaseKey, g.sm.Current()).
			Msgf("Rejected phase event [%s]: %v", eventName, err)
		return false
	}
	g.seq++
	g.onEnterPhase(g.phase())
	return true
}

// onEnterPhase arms the timers and computer drivers each phase needs.
func (g *Game) onEnterPhase(phase GamePhase) {
	switch phase {
	case PhaseDraw:
		p := g.currentPlayer()
		if p.IsHuman {
			g.statusMessage = "Your Turn: Supply Line Open. Draw a Card."
		} else {
			g.statusMessage = fmt.Sprintf("%s's turn...", p.Name)
			g.scheduleTimer(timer.PurposeNpcDraw, g.delays.npcDraw(g.config.Difficulty))
		}
	case PhaseAction:
		if g.resetPending {
			// Transient stop on the way to a scheduled round reset.
			return
		}
		p := g.currentPlayer()
		if !p.IsHuman {
			g.startNpcAction()
		}
	case PhaseRobbing:
		g.statusMessage = "ROBBABLE! Opportunity to seize supply!"
		g.scheduleTimer(timer.PurposeRobWindow, g.delays.RobWindow)
	case PhaseChallenge:
		g.statusMessage = "TACTICS B! Challenge Mode Initiated!"
		g.scheduleCountdown(timer.PurposeChallengeTick, g.delays.ChallengeTick, ChallengeCountdownTicks)
	case PhaseEnd:
		g.scheduleTimer(timer.PurposeTurnAdvance, g.delays.TurnAdvance)
	case PhaseGameOver:
		// Terminal.
	}
}

func (g *Game) scheduleTimer(purpose string, millis uint32) {
	err := g.turnTimer.Reset(timer.TimerMsg{
		Purpose:     purpose,
		PlayerIndex: g.currentPlayerIndex,
		Round:       g.round,
		Seq:         g.seq,
		ExpireAt:    time.Now().Add(time.Duration(millis) * time.Millisecond),
	})
	if err != nil {
		gameLogger.Error().Str(logging.GameCodeKey, g.config.GameCode).Msgf("Unable to arm %s timer: %v", purpose, err)
	}
}

func (g *Game) scheduleCountdown(purpose string, tickMillis uint32, ticks uint32) {
	err := g.turnTimer.Reset(timer.TimerMsg{
		Purpose:        purpose,
		PlayerIndex:    g.currentPlayerIndex,
		Round:          g.round,
		Seq:            g.seq,
		TickInterval:   time.Duration(tickMillis) * time.Millisecond,
		TicksRemaining: ticks,
	})
	if err != nil {
		gameLogger.Error().Str(logging.GameCodeKey, g.config.GameCode).Msgf("Unable to arm %s countdown: %v", purpose, err)
	}
}

//
// Player-initiated commands. These are the engine's only mutation entry
// points besides timer fires and adapter completions; each posts a
// discrete event to the dispatcher.
//

func (g *Game) DrawCard(kind CardKind) {
	g.chEvent <- drawCardEvent{kind: kind}
}

// MoveToSlot stages a hand card in the construction zone. slotIndex -1
// selects the first empty slot. A wild card requires wildLabel from its
// menu.
func (g *Game) MoveToSlot(cardID string, slotIndex int, wildLabel string) {
	g.chEvent <- moveToSlotEvent{cardID: cardID, slotIndex: slotIndex, wildLabel: wildLabel}
}

func (g *Game) ReturnToHand(slotIndex int) {
	g.chEvent <- returnToHandEvent{slotIndex: slotIndex}
}

func (g *Game) ToggleDiscardMode() {
	g.chEvent <- toggleDiscardModeEvent{}
}

func (g *Game) Discard(cardID string) {
	g.chEvent <- discardEvent{cardID: cardID}
}

func (g *Game) Submit() {
	g.chEvent <- submitEvent{}
}

func (g *Game) Rob(playerIndex uint32) {
	g.chEvent <- robEvent{playerIndex: playerIndex}
}

func (g *Game) Buzz(playerIndex uint32) {
	g.chEvent <- buzzEvent{playerIndex: playerIndex}
}

// ReplenishHands tops every hand back up to the starting balance from the
// current decks. Nothing in the turn cycle triggers this; it fires only on
// this explicit command.
func (g *Game) ReplenishHands() {
	g.chEvent <- replenishEvent{}
}

//
// Read access for the presentation layer.
//

func (g *Game) Snapshot() GameSnapshot {
	g.lock.Lock()
	defer g.lock.Unlock()

	players := make([]PlayerSnapshot, len(g.players))
	for i, p := range g.players {
		hand := make([]Card, len(p.Hand))
		copy(hand, p.Hand)
		players[i] = PlayerSnapshot{
			ID:       p.ID,
			Name:     p.Name,
			IsHuman:  p.IsHuman,
			Driver:   p.Driver,
			Hand:     hand,
			Score:    p.Score,
			HandSize: len(p.Hand),
		}
	}

	snapshot := GameSnapshot{
		GameCode:            g.config.GameCode,
		Mode:                g.config.Mode,
		Phase:               g.phase(),
		Round:               g.round,
		CurrentPlayerIndex:  g.currentPlayerIndex,
		StatusMessage:       g.statusMessage,
		Players:             players,
		Slots:               g.zone.Snapshot(),
		DiscardCount:        len(g.discardPile),
		NumberDeckRemaining: g.numberDeck.Remaining(),
		WordDeckRemaining:   g.wordDeck.Remaining(),
		IsDiscardMode:       g.isDiscardMode,
	}
	if len(g.discardPile) > 0 {
		top := g.discardPile[0]
		snapshot.DiscardTop = &top
	}
	if g.pendingDiscard != nil {
		pd := *g.pendingDiscard
		snapshot.PendingDiscard = &pd
	}
	if g.challenge != nil {
		ch := *g.challenge
		ch.Snapshot = append([]Card(nil), g.challenge.Snapshot...)
		snapshot.Challenge = &ch
	}
	if g.winner != nil {
		w := PlayerSnapshot{
			ID:      g.winner.ID,
			Name:    g.winner.Name,
			IsHuman: g.winner.IsHuman,
			Driver:  g.winner.Driver,
			Score:   g.winner.Score,
		}
		snapshot.Winner = &w
	}
	return snapshot
}

// History returns the battle log recorded so far.
func (g *Game) History() ([]ActionLogEntry, error) {
	return g.history.Load(g.config.GameCode)
}

func (g *Game) GameCode() string {
	return g.config.GameCode
}
