package ai

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"

	"github.com/lokmatthew213-hub/fyp-game-new/logging"
)

var judgeLogger = logging.GetZeroLogger("ai::judge", nil)

const judgeMaxAttempts = 5

// Judge validates a submitted sentence against the context dataset.
type Judge struct {
	client *Client
	// overridable for tests
	backoff func(attempt int) time.Duration
}

func NewJudge(client *Client) *Judge {
	return &Judge{
		client: client,
		backoff: func(attempt int) time.Duration {
			return time.Duration(1<<uint(attempt)) * time.Second
		},
	}
}

// Judge submits the sentence and returns the structured verdict. The call
// is retried with increasing backoff; after exhausting the attempt budget
// the last error is returned and the caller must fall back to ending the
// turn rather than blocking the game on the judge.
func (j *Judge) Judge(ctx context.Context, sentence string, data Context) (*Verdict, error) {
	systemMsg := judgeSystemMessage(data)
	userMsg := fmt.Sprintf("Submission: %q", sentence)

	var lastErr error
	for attempt := 0; attempt < judgeMaxAttempts; attempt++ {
		content, err := j.client.complete(ctx, systemMsg, userMsg)
		if err == nil {
			var verdict Verdict
			err = ExtractJSON(content, &verdict)
			if err == nil {
				return &verdict, nil
			}
		}
		lastErr = err
		judgeLogger.Warn().Msgf("Judge attempt %d failed: %v", attempt+1, err)
		if attempt < judgeMaxAttempts-1 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(j.backoff(attempt)):
			}
		}
	}
	return nil, errors.Wrap(lastErr, "failed to communicate with AI judge")
}

func judgeSystemMessage(data Context) string {
	return fmt.Sprintf(`
You are an expert math teacher and judge for the "Percent Battle" (百分戰局) educational game for Primary 6 students.
Your task is to validate a student's mathematical sentence based on the current context data.

Context Data (情境地圖):
- Red (紅色): %d
- Yellow (黃色): %d
- Blue (藍色): %d
- Total (總共): %d

Rules:
1. Strategy A (火力全開 - Answer): A complete mathematical statement. Pattern: [Subject] + [Relationship] + [Object] + 的 + [Result].
   - MANDATORY: The character **'的'** MUST be present before the result.
   - Example: "紅色 是 全部的 **的** 20 %%" (Correct). "紅色 是 全部 20 %%" (INVALID - missing '的').
   - MUST include at least one color (紅色, 黃色, 藍色).
   - Results must match Map Data exactly.
2. Strategy B (設下陷阱 - Question): A question sentence. Pattern: [Subject] + [Relationship] + [Object] + 的 + [百分之幾?/?].
   - MANDATORY: The character **'的'** MUST be present before '百分之幾?' or '?'.
   - Example: "紅色 是 藍色 **的** 百分之幾?" (Correct). "紅色 是 藍色 百分之幾?" (INVALID - missing '的').
3. LOGICAL VALIDITY (EXTREMELY STRICT):
   - If an equation uses multiple colors (e.g. A + B), they MUST be **DIFFERENT** colors. "藍色 + 藍色" is LOGICALLY INVALID.
   - Nonsense questions like "藍色 + 藍色 的 百分之幾?" are strictly INVALID.
4. CONTEXT RELEVANCE:
   - Data: Red: %d, Yellow: %d, Blue: %d, Total: %d.
   - Calculations must be mathematically correct.

Response Format (MANDATORY): Respond ONLY with a valid JSON object.
{
  "isValid": boolean,
  "strategy": "A" | "B" | "NONE",
  "score": number,
  "feedback": "A short, sharp explanation in Traditional Chinese. If rejected, clearly state which rule was broken (e.g. missing color, wrong math, irrelevant)."
}
`, data.Red, data.Yellow, data.Blue, data.Total, data.Red, data.Yellow, data.Blue, data.Total)
}
