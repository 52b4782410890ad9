package game

// CardKind identifies which deck a card belongs to.
type CardKind string

const (
	CardKindNumber CardKind = "n"
	CardKindWord   CardKind = "w"
)

// WildValue is the canonical value of an unresolved wild card.
const WildValue = "Wild"

// Card is immutable once created. The only mutation in its lifecycle is
// wild resolution, which produces a new value carrying the chosen label
// under the same id.
type Card struct {
	ID     string   `json:"id"`
	Kind   CardKind `json:"kind"`
	Value  string   `json:"value"`
	Label  string   `json:"label"`
	IsWild bool     `json:"isWild"`
	Points int      `json:"points"`
}

// Display returns the label shown on the table and used when the slot
// contents are serialized for the judge.
func (c Card) Display() string {
	if c.Label != "" {
		return c.Label
	}
	return c.Value
}

// IsUnresolvedWild reports whether the card still needs a label chosen
// before it can sit in a slot.
func (c Card) IsUnresolvedWild() bool {
	return c.Value == WildValue && !c.IsWild
}

// WildNumberMenu and WildWordMenu are the fixed menus a wild label may be
// chosen from. The engine exports them for the presentation layer and the
// move advisor; ResolveWild validates against them.
var WildNumberMenu = []string{"0", "1", "2", "3", "4", "5", "6", "7", "8", "9"}

var WildWordMenu = []string{"紅色", "黃色", "藍色", "全部", "是", "佔", "/", "的", "+", "%"}

// ResolveWild returns a new card carrying the chosen label. The id and
// the underlying value are preserved.
func ResolveWild(card Card, chosenLabel string) (Card, error) {
	if card.Value != WildValue {
		return Card{}, InvalidWildLabelError{CardID: card.ID, Label: chosenLabel, Reason: "card is not a wild card"}
	}
	menu := WildWordMenu
	if card.Kind == CardKindNumber {
		menu = WildNumberMenu
	}
	found := false
	for _, v := range menu {
		if v == chosenLabel {
			found = true
			break
		}
	}
	if !found {
		return Card{}, InvalidWildLabelError{CardID: card.ID, Label: chosenLabel, Reason: "label is not in the wild menu"}
	}

	resolved := card
	resolved.Label = chosenLabel
	resolved.IsWild = true
	return resolved, nil
}
