package game

import (
	"github.com/looplab/fsm"
)

// FSM event names. The transition table below is the complete set of legal
// phase transitions; anything else is rejected by the machine.
const (
	EventDrawn            = "drawn"
	EventDrawSkipped      = "draw_skipped"
	EventDiscarded        = "discarded"
	EventRobbed           = "robbed"
	EventRobExpired       = "rob_expired"
	EventTrapSet          = "trap_set"
	EventBuzzed           = "buzzed"
	EventChallengeExpired = "challenge_expired"
	EventTurnEnded        = "turn_ended"
	EventRoundReset       = "round_reset"
	EventTurnAdvanced     = "turn_advanced"
	EventGameOver         = "game_over"
)

// newPhaseFSM builds the turn phase machine. enterState is invoked on
// every successful transition with the source and destination phases.
func newPhaseFSM(enterState func(src GamePhase, dst GamePhase)) *fsm.FSM {
	return fsm.NewFSM(
		string(PhaseDraw),
		fsm.Events{
			{
				Name: EventDrawn,
				Src:  []string{string(PhaseDraw)},
				Dst:  string(PhaseAction),
			},
			{
				// Both decks exhausted; the draw choice is unavailable and
				// the turn proceeds without a card.
				Name: EventDrawSkipped,
				Src:  []string{string(PhaseDraw)},
				Dst:  string(PhaseAction),
			},
			{
				Name: EventDiscarded,
				Src:  []string{string(PhaseAction)},
				Dst:  string(PhaseRobbing),
			},
			{
				// A claim pre-empts the discarder's turn.
				Name: EventRobbed,
				Src:  []string{string(PhaseRobbing)},
				Dst:  string(PhaseAction),
			},
			{
				Name: EventRobExpired,
				Src:  []string{string(PhaseRobbing)},
				Dst:  string(PhaseEnd),
			},
			{
				Name: EventTrapSet,
				Src:  []string{string(PhaseAction)},
				Dst:  string(PhaseChallenge),
			},
			{
				Name: EventBuzzed,
				Src:  []string{string(PhaseChallenge)},
				Dst:  string(PhaseAction),
			},
			{
				Name: EventChallengeExpired,
				Src:  []string{string(PhaseChallenge)},
				Dst:  string(PhaseAction),
			},
			{
				Name: EventTurnEnded,
				Src:  []string{string(PhaseAction)},
				Dst:  string(PhaseEnd),
			},
			{
				Name: EventRoundReset,
				Src:  []string{string(PhaseAction)},
				Dst:  string(PhaseDraw),
			},
			{
				Name: EventTurnAdvanced,
				Src:  []string{string(PhaseEnd)},
				Dst:  string(PhaseDraw),
			},
			{
				Name: EventGameOver,
				Src:  []string{string(PhaseAction)},
				Dst:  string(PhaseGameOver),
			},
		},
		fsm.Callbacks{
			"enter_state": func(e *fsm.Event) {
				enterState(GamePhase(e.Src), GamePhase(e.Dst))
			},
		},
	)
}
