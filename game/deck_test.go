package game

import (
	"testing"
)

func TestNumberDeckComposition(t *testing.T) {
	deck := GenerateNumberDeck()
	if deck.Remaining() != 46 {
		t.Fatalf("number deck has %d cards; want 46", deck.Remaining())
	}

	counts := make(map[string]int)
	for _, c := range deck.Cards() {
		if c.Kind != CardKindNumber {
			t.Errorf("card %s has kind %s; want %s", c.ID, c.Kind, CardKindNumber)
		}
		counts[c.Value]++
	}
	expected := map[string]int{
		"100%": 10, "0%": 8, "1%": 6, "2%": 6,
		"3%": 2, "4%": 2, "5%": 2, "6%": 2, "7%": 2, "8%": 2, "9%": 2,
		WildValue: 2,
	}
	for value, want := range expected {
		if counts[value] != want {
			t.Errorf("number deck has %d of %q; want %d", counts[value], value, want)
		}
	}
}

func TestWordDeckComposition(t *testing.T) {
	deck := GenerateWordDeck()
	if deck.Remaining() != 76 {
		t.Fatalf("word deck has %d cards; want 76", deck.Remaining())
	}

	counts := make(map[string]int)
	for _, c := range deck.Cards() {
		counts[c.Value]++
	}
	expected := map[string]int{
		"全部": 10, "佔/是": 10, "的": 10, "/": 9, "x 100%": 9,
		"百分之幾?": 6, "red": 5, "yellow": 5, "blue": 5, "+": 5,
		WildValue: 2,
	}
	for value, want := range expected {
		if counts[value] != want {
			t.Errorf("word deck has %d of %q; want %d", counts[value], value, want)
		}
	}
}

func TestDeckCardIDsAreUnique(t *testing.T) {
	deck := GenerateWordDeck()
	seen := make(map[string]bool)
	for _, c := range deck.Cards() {
		if seen[c.ID] {
			t.Fatalf("duplicate card id %s", c.ID)
		}
		seen[c.ID] = true
	}
}

func TestDrawConsumesFromFront(t *testing.T) {
	deck := GenerateNumberDeck()
	expected := deck.Cards()[0]
	card, err := deck.Draw()
	if err != nil {
		t.Fatalf("draw failed: %v", err)
	}
	if card.ID != expected.ID {
		t.Errorf("drew %s; want front card %s", card.ID, expected.ID)
	}
	if deck.Remaining() != 45 {
		t.Errorf("deck has %d cards after draw; want 45", deck.Remaining())
	}
}

func TestDrawFromEmptyDeck(t *testing.T) {
	deck := GenerateNumberDeck()
	deck.DrawUpTo(deck.Remaining())
	if !deck.Empty() {
		t.Fatal("deck should be empty")
	}
	_, err := deck.Draw()
	if _, ok := err.(EmptyDeckError); !ok {
		t.Fatalf("draw from empty deck returned %v; want EmptyDeckError", err)
	}
}

func TestDrawUpToShortDeck(t *testing.T) {
	deck := GenerateNumberDeck()
	deck.DrawUpTo(40)
	cards := deck.DrawUpTo(10)
	if len(cards) != 6 {
		t.Errorf("DrawUpTo returned %d cards; want the 6 remaining", len(cards))
	}
	if !deck.Empty() {
		t.Error("deck should be empty after over-draw")
	}
}
