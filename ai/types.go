package ai

// Context is the static dataset the judge and the advisor reason against.
type Context struct {
	Red    int `json:"red"`
	Yellow int `json:"yellow"`
	Blue   int `json:"blue"`
	Total  int `json:"total"`
}

// Strategy classifies a validated submission.
// A is a declarative answer sentence, B is a question (trap) sentence.
const (
	StrategyA    string = "A"
	StrategyB    string = "B"
	StrategyNone string = "NONE"
)

// Verdict is the judge's structured response for one submission.
type Verdict struct {
	IsValid  bool   `json:"isValid"`
	Strategy string `json:"strategy"`
	Score    int    `json:"score"`
	Feedback string `json:"feedback"`
}

// Move actions returned by the advisor.
const (
	MoveActionBattle  string = "BATTLE"
	MoveActionDiscard string = "DISCARD"
)

// Move is the advisor's structured move descriptor. CardIndices refer to
// positions in the hand summary that was sent with the request. WildValues
// maps a wild card's hand index (as a string, the way the service returns
// it) to the chosen label. Reasoning is free text and ignored by the engine.
type Move struct {
	Action      string            `json:"action"`
	Strategy    string            `json:"strategy"`
	CardIndices []int             `json:"cardIndices"`
	WildValues  map[string]string `json:"wildValues"`
	Reasoning   string            `json:"reasoning"`
}

// HandCard is the summary of one hand card sent to the advisor.
type HandCard struct {
	Kind  string `json:"kind"`
	Value string `json:"value"`
	Label string `json:"label"`
}

// Advisor difficulty tags.
const (
	DifficultyLow    string = "LOW"
	DifficultyMedium string = "MEDIUM"
	DifficultyHigh   string = "HIGH"
)
