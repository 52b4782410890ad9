package game

import "fmt"

// EmptyDeckError signals a draw from an exhausted deck. This is a
// degraded-play condition, not a fatal error; callers treat it as a no-op.
type EmptyDeckError struct {
	Kind CardKind
}

func (e EmptyDeckError) Error() string {
	return fmt.Sprintf("deck %s is empty", e.Kind)
}

// CardNotFoundError signals an operation on a card id that is not where it
// was expected to be. It indicates a state desync and must never be
// silently swallowed.
type CardNotFoundError struct {
	CardID string
	Where  string
}

func (e CardNotFoundError) Error() string {
	return fmt.Sprintf("card %s not found in %s", e.CardID, e.Where)
}

// WrongPhaseError signals a command that is not legal in the current phase.
type WrongPhaseError struct {
	Command string
	Phase   GamePhase
}

func (e WrongPhaseError) Error() string {
	return fmt.Sprintf("command %s is not allowed in phase %s", e.Command, e.Phase)
}

// SlotOccupiedError signals placement into a non-empty slot.
type SlotOccupiedError struct {
	SlotIndex int
}

func (e SlotOccupiedError) Error() string {
	return fmt.Sprintf("slot %d is occupied", e.SlotIndex)
}

// InvalidWildLabelError signals a wild resolution with a label outside the
// fixed menu.
type InvalidWildLabelError struct {
	CardID string
	Label  string
	Reason string
}

func (e InvalidWildLabelError) Error() string {
	return fmt.Sprintf("cannot resolve wild %s to %q: %s", e.CardID, e.Label, e.Reason)
}

// InvalidClaimError signals a rob or buzz attempt from an ineligible player.
type InvalidClaimError struct {
	PlayerIndex uint32
	Msg         string
}

func (e InvalidClaimError) Error() string {
	return fmt.Sprintf("player %d cannot claim: %s", e.PlayerIndex, e.Msg)
}
