package game

import (
	crypto_rand "crypto/rand"
	"encoding/binary"
	"math/rand"

	"github.com/google/uuid"
)

// cardSpec is one row of a deck frequency table.
type cardSpec struct {
	value string
	count int
	label string // empty means label == value
}

// The frequency tables are fixed. Common connector tokens appear often,
// wilds are rare, and the numeric distribution is skewed towards the
// round values.
var numberDeckSpec = []cardSpec{
	{value: "100%", count: 10, label: "100"},
	{value: "0%", count: 8, label: "0"},
	{value: "1%", count: 6, label: "1"},
	{value: "2%", count: 6, label: "2"},
	{value: "3%", count: 2, label: "3"},
	{value: "4%", count: 2, label: "4"},
	{value: "5%", count: 2, label: "5"},
	{value: "6%", count: 2, label: "6"},
	{value: "7%", count: 2, label: "7"},
	{value: "8%", count: 2, label: "8"},
	{value: "9%", count: 2, label: "9"},
	{value: WildValue, count: 2, label: WildValue},
}

var wordDeckSpec = []cardSpec{
	{value: "全部", count: 10},
	{value: "佔/是", count: 10},
	{value: "的", count: 10},
	{value: "/", count: 9},
	{value: "x 100%", count: 9},
	{value: "百分之幾?", count: 6},
	{value: "red", count: 5, label: "紅色"},
	{value: "yellow", count: 5, label: "黃色"},
	{value: "blue", count: 5, label: "藍色"},
	{value: "+", count: 5},
	{value: WildValue, count: 2},
}

// Deck is an ordered sequence of cards of one kind, consumed from the
// front and never replenished mid-round.
type Deck struct {
	kind  CardKind
	cards []Card
}

func newSeed() rand.Source {
	var b [8]byte
	_, err := crypto_rand.Read(b[:])
	if err != nil {
		panic("cannot seed math/rand package with cryptographically secure random number generator")
	}
	return rand.NewSource(int64(binary.LittleEndian.Uint64(b[:])))
}

func buildDeck(kind CardKind, spec []cardSpec) *Deck {
	var cards []Card
	for _, s := range spec {
		label := s.label
		if label == "" {
			label = s.value
		}
		for i := 0; i < s.count; i++ {
			cards = append(cards, Card{
				ID:     uuid.New().String(),
				Kind:   kind,
				Value:  s.value,
				Label:  label,
				Points: 1,
			})
		}
	}
	deck := &Deck{kind: kind, cards: cards}
	deck.shuffle()
	return deck
}

// GenerateNumberDeck produces a freshly shuffled number deck.
func GenerateNumberDeck() *Deck {
	return buildDeck(CardKindNumber, numberDeckSpec)
}

// GenerateWordDeck produces a freshly shuffled word deck.
func GenerateWordDeck() *Deck {
	return buildDeck(CardKindWord, wordDeckSpec)
}

// shuffle is a Fisher-Yates shuffle; every permutation is equally likely.
func (d *Deck) shuffle() {
	randGen := rand.New(newSeed())
	for i := len(d.cards) - 1; i > 0; i-- {
		j := randGen.Intn(i + 1)
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	}
}

// Draw removes and returns the front card.
func (d *Deck) Draw() (Card, error) {
	if len(d.cards) == 0 {
		return Card{}, EmptyDeckError{Kind: d.kind}
	}
	card := d.cards[0]
	d.cards = d.cards[1:]
	return card, nil
}

// DrawUpTo draws at most n cards; fewer if the deck runs out.
func (d *Deck) DrawUpTo(n int) []Card {
	if n > len(d.cards) {
		n = len(d.cards)
	}
	cards := make([]Card, n)
	copy(cards, d.cards[:n])
	d.cards = d.cards[n:]
	return cards
}

func (d *Deck) Empty() bool {
	return len(d.cards) == 0
}

func (d *Deck) Remaining() int {
	return len(d.cards)
}

// Cards returns a copy of the remaining cards, front first.
func (d *Deck) Cards() []Card {
	cards := make([]Card, len(d.cards))
	copy(cards, d.cards)
	return cards
}
