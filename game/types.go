package game

import (
	"context"

	"github.com/lokmatthew213-hub/fyp-game-new/ai"
)

// GamePhase enumerates the turn state machine's states.
type GamePhase string

const (
	PhaseDraw      GamePhase = "DRAW"
	PhaseAction    GamePhase = "ACTION"
	PhaseRobbing   GamePhase = "ROBBING"
	PhaseChallenge GamePhase = "CHALLENGE"
	PhaseEnd       GamePhase = "END"
	PhaseGameOver  GamePhase = "GAME_OVER"
)

// GameMode selects solo practice or the four-player battle.
type GameMode string

const (
	ModePractice GameMode = "PRACTICE"
	ModeBattle   GameMode = "BATTLE"
)

// NpcDriverKind selects how computer players are driven.
type NpcDriverKind string

const (
	NpcDriverAlgorithm NpcDriverKind = "ALGORITHM"
	NpcDriverAI        NpcDriverKind = "AI"
)

// ClaimPolicy controls who may rob a discarded card or buzz in on a
// challenge. Restricting claims to the human player is kept available for
// the single-screen client but is not the default.
type ClaimPolicy string

const (
	ClaimAnyPlayer ClaimPolicy = "ANY_PLAYER"
	ClaimHumanOnly ClaimPolicy = "HUMAN_ONLY"
)

// Cards dealt to each player at game start and at every round reset.
const (
	InitialNumberCards = 6
	InitialWordCards   = 6
)

// ChallengeCountdownTicks is the length of the buzz-in window in ticks.
const ChallengeCountdownTicks = 5

// TurnMarker identifies the live turn state. Seq advances monotonically on
// every phase transition; an asynchronous result or timer fire carrying a
// Seq older than the current one is stale and is dropped without effect.
type TurnMarker struct {
	PlayerIndex uint32
	Round       uint32
	Phase       GamePhase
	Seq         uint64
}

// PendingDiscard is live only during ROBBING.
type PendingDiscard struct {
	Card              Card   `json:"card"`
	SourcePlayerIndex uint32 `json:"sourcePlayerIndex"`
}

// ChallengeState is live only during CHALLENGE. Snapshot retains the
// submitted slot contents for scoring on timeout.
type ChallengeState struct {
	ChallengerIndex uint32 `json:"challengerIndex"`
	TicksRemaining  uint32 `json:"ticksRemaining"`
	Snapshot        []Card `json:"snapshot"`
}

// GameConfig is fixed at game creation.
type GameConfig struct {
	GameCode     string        `json:"gameCode"`
	Mode         GameMode      `json:"mode"`
	Difficulty   string        `json:"difficulty"`
	NpcDriver    NpcDriverKind `json:"npcDriver"`
	ClaimPolicy  ClaimPolicy   `json:"claimPolicy"`
	WinThreshold int           `json:"winThreshold"`
	Context      ai.Context    `json:"context"`
}

// DefaultContext is the fixed context dataset of the original game.
var DefaultContext = ai.Context{Red: 20, Yellow: 30, Blue: 50, Total: 100}

// JudgeAdapter validates a submitted sentence. Implementations must apply
// their own bounded retry policy and return an error only after the
// attempt budget is exhausted.
type JudgeAdapter interface {
	Judge(ctx context.Context, sentence string, data ai.Context) (*ai.Verdict, error)
}

// MoveAdapter suggests a move for a computer-controlled player. On total
// failure implementations return a safe default move rather than an error
// whenever possible.
type MoveAdapter interface {
	GetMove(ctx context.Context, hand []ai.HandCard, data ai.Context, difficulty string) (*ai.Move, error)
}

// PlayerSnapshot is the read-only player view served to the presentation
// layer.
type PlayerSnapshot struct {
	ID       uint32       `json:"id"`
	Name     string       `json:"name"`
	IsHuman  bool         `json:"isHuman"`
	Driver   PlayerDriver `json:"driver"`
	Hand     []Card       `json:"hand"`
	Score    int          `json:"score"`
	HandSize int          `json:"handSize"`
}

// GameSnapshot is the full read-only view of one game.
type GameSnapshot struct {
	GameCode            string           `json:"gameCode"`
	Mode                GameMode         `json:"mode"`
	Phase               GamePhase        `json:"phase"`
	Round               uint32           `json:"round"`
	CurrentPlayerIndex  uint32           `json:"currentPlayerIndex"`
	StatusMessage       string           `json:"statusMessage"`
	Players             []PlayerSnapshot `json:"players"`
	Slots               []*Card          `json:"slots"`
	DiscardTop          *Card            `json:"discardTop"`
	DiscardCount        int              `json:"discardCount"`
	NumberDeckRemaining int              `json:"numberDeckRemaining"`
	WordDeckRemaining   int              `json:"wordDeckRemaining"`
	IsDiscardMode       bool             `json:"isDiscardMode"`
	PendingDiscard      *PendingDiscard  `json:"pendingDiscard,omitempty"`
	Challenge           *ChallengeState  `json:"challenge,omitempty"`
	Winner              *PlayerSnapshot  `json:"winner,omitempty"`
}
