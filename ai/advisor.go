package ai

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/lokmatthew213-hub/fyp-game-new/logging"
)

var advisorLogger = logging.GetZeroLogger("ai::advisor", nil)

const advisorMaxAttempts = 3

// Advisor suggests moves for computer-controlled players.
type Advisor struct {
	client  *Client
	backoff func(attempt int) time.Duration
}

func NewAdvisor(client *Client) *Advisor {
	return &Advisor{
		client: client,
		backoff: func(attempt int) time.Duration {
			return time.Second
		},
	}
}

// SafeDefaultMove is returned when the advisor cannot be reached at all.
// Discarding the first hand card always makes progress.
func SafeDefaultMove() *Move {
	return &Move{
		Action:      MoveActionDiscard,
		CardIndices: []int{0},
		Reasoning:   "API failure fallback",
	}
}

// GetMove requests a move for the given hand. On total failure the safe
// default move is returned instead of an error so the computer player's
// turn can never stall on the advisor.
func (a *Advisor) GetMove(ctx context.Context, hand []HandCard, data Context, difficulty string) (*Move, error) {
	systemMsg := advisorSystemMessage(hand, data, difficulty)
	userMsg := "Generate your strategic move based on your hand and difficulty."

	var lastErr error
	for attempt := 0; attempt < advisorMaxAttempts; attempt++ {
		content, err := a.client.complete(ctx, systemMsg, userMsg)
		if err == nil {
			var move Move
			err = ExtractJSON(content, &move)
			if err == nil {
				return &move, nil
			}
		}
		lastErr = err
		advisorLogger.Warn().Msgf("Advisor attempt %d failed: %v", attempt+1, err)
		if attempt < advisorMaxAttempts-1 {
			select {
			case <-ctx.Done():
				return SafeDefaultMove(), nil
			case <-time.After(a.backoff(attempt)):
			}
		}
	}
	advisorLogger.Error().Msgf("Advisor exhausted retries: %v. Returning safe default move.", lastErr)
	return SafeDefaultMove(), nil
}

func advisorSystemMessage(hand []HandCard, data Context, difficulty string) string {
	var handLines strings.Builder
	for i, c := range hand {
		kind := "Word"
		if c.Kind == "n" {
			kind = "Num"
		}
		label := c.Label
		if label == "" {
			label = c.Value
		}
		handLines.WriteString(fmt.Sprintf("%d: [%s: %s]\n", i, kind, label))
	}

	return fmt.Sprintf(`
You are a strategic AI player in the "Percent Battle" educational game.
Current Context Map:
- Red: %d
- Yellow: %d
- Blue: %d
- Total: %d

Your Goal: Win the game by constructing valid mathematical sentences from your hand.
NPC Difficulty: %s

Hand Cards:
%s
Rules for Move:
1. Strategy A (BATTLE): Form a complete answer sentence (Subject + Relationship + Result). e.g., "紅色 是 全部的 20 %%".
   - You MUST include at least one color card (紅色/黃色/藍色).
   - You MUST include the correct percentage result.
   - **Wild Cards**: If you use a "Wild" card:
     - If it is a Number Wild, you MUST assign it a number value (0-9).
     - If it is a Word Wild, you MUST assign it a word value (e.g. "紅色", "是", "全部的").
2. Strategy B (TRAP): If you have the "百分之幾?" card, form a question. e.g., "紅色 是 藍色 的 百分之幾?" or use "?" directly.
3. DISCARD: If you cannot form Strategy A or B, discard ONE card that is least useful.

Difficulty Behavior:
- **HIGH**: Calculate perfectly. Try to use as many cards as possible to maximize score. Use Wild cards optimally.
- **MEDIUM**: Play normally. You can miss complex 5+ card combinations but find standard 3-4 card sentences.
- **LOW**: Make mistakes occasionally. Prioritize discarding over complex calculations. You might miss an obvious win.

Response Format (MANDATORY JSON):
{
  "action": "BATTLE" | "DISCARD",
  "strategy": "A" | "B" | "NONE",
  "cardIndices": [number],
  "wildValues": { "index_of_wild_card": "assigned_value" },
  "reasoning": "Short explanation in English"
}
Example for Wild Card: If card at index 2 is Wild and you want it to be "20", "wildValues": { "2": "20" }
`, data.Red, data.Yellow, data.Blue, data.Total, difficulty, handLines.String())
}
