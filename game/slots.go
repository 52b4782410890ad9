package game

import "strings"

// NumSlots is the fixed capacity of the construction zone.
const NumSlots = 10

// ConstructionZone is the ordered workspace where cards are staged before
// submission. A card moved into a slot has already left the owning hand.
type ConstructionZone struct {
	slots [NumSlots]*Card
}

func NewConstructionZone() *ConstructionZone {
	return &ConstructionZone{}
}

// Place puts a card into the given slot.
func (z *ConstructionZone) Place(slotIndex int, card Card) error {
	if slotIndex < 0 || slotIndex >= NumSlots {
		return SlotOccupiedError{SlotIndex: slotIndex}
	}
	if z.slots[slotIndex] != nil {
		return SlotOccupiedError{SlotIndex: slotIndex}
	}
	c := card
	z.slots[slotIndex] = &c
	return nil
}

// PlaceFirstEmpty puts a card into the first empty slot and returns its
// index, or -1 if the zone is full.
func (z *ConstructionZone) PlaceFirstEmpty(card Card) int {
	for i := range z.slots {
		if z.slots[i] == nil {
			c := card
			z.slots[i] = &c
			return i
		}
	}
	return -1
}

// Remove takes the card out of the given slot.
func (z *ConstructionZone) Remove(slotIndex int) (Card, error) {
	if slotIndex < 0 || slotIndex >= NumSlots || z.slots[slotIndex] == nil {
		return Card{}, CardNotFoundError{CardID: "", Where: "slot"}
	}
	card := *z.slots[slotIndex]
	z.slots[slotIndex] = nil
	return card, nil
}

// Get returns the card in the slot, if any.
func (z *ConstructionZone) Get(slotIndex int) (Card, bool) {
	if slotIndex < 0 || slotIndex >= NumSlots || z.slots[slotIndex] == nil {
		return Card{}, false
	}
	return *z.slots[slotIndex], true
}

// Cards returns the staged cards in slot order, skipping empty slots.
func (z *ConstructionZone) Cards() []Card {
	var cards []Card
	for _, s := range z.slots {
		if s != nil {
			cards = append(cards, *s)
		}
	}
	return cards
}

// Count returns the number of occupied slots.
func (z *ConstructionZone) Count() int {
	count := 0
	for _, s := range z.slots {
		if s != nil {
			count++
		}
	}
	return count
}

func (z *ConstructionZone) IsEmpty() bool {
	return z.Count() == 0
}

// Clear empties every slot. The caller owns returning the cards to a hand
// first when conservation requires it.
func (z *ConstructionZone) Clear() {
	for i := range z.slots {
		z.slots[i] = nil
	}
}

// Sentence serializes the staged cards deterministically in slot order,
// space-joining their display labels. This is exactly what the judge sees.
func (z *ConstructionZone) Sentence() string {
	var parts []string
	for _, s := range z.slots {
		if s != nil {
			parts = append(parts, s.Display())
		}
	}
	return strings.Join(parts, " ")
}

// Snapshot returns the slot array as the presentation layer sees it.
func (z *ConstructionZone) Snapshot() []*Card {
	out := make([]*Card, NumSlots)
	for i, s := range z.slots {
		if s != nil {
			c := *s
			out[i] = &c
		}
	}
	return out
}
