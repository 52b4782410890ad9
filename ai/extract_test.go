package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJSONPure(t *testing.T) {
	var v Verdict
	err := ExtractJSON(`{"isValid": true, "strategy": "A", "score": 3, "feedback": "好"}`, &v)
	require.NoError(t, err)
	assert.True(t, v.IsValid)
	assert.Equal(t, StrategyA, v.Strategy)
	assert.Equal(t, 3, v.Score)
}

func TestExtractJSONEmbeddedInProse(t *testing.T) {
	text := "Sure! Here is my verdict:\n```json\n{\"isValid\": false, \"strategy\": \"NONE\", \"feedback\": \"缺少顏色\"}\n```\nLet me know if you need anything else."
	var v Verdict
	err := ExtractJSON(text, &v)
	require.NoError(t, err)
	assert.False(t, v.IsValid)
	assert.Equal(t, "缺少顏色", v.Feedback)
}

func TestExtractJSONMultiline(t *testing.T) {
	text := `The move is:
{
  "action": "BATTLE",
  "strategy": "A",
  "cardIndices": [0, 2, 5],
  "wildValues": { "2": "20" },
  "reasoning": "forms a valid percentage sentence"
}`
	var m Move
	err := ExtractJSON(text, &m)
	require.NoError(t, err)
	assert.Equal(t, MoveActionBattle, m.Action)
	assert.Equal(t, []int{0, 2, 5}, m.CardIndices)
	assert.Equal(t, "20", m.WildValues["2"])
}

func TestExtractJSONNoObject(t *testing.T) {
	var v Verdict
	err := ExtractJSON("I cannot answer that.", &v)
	assert.Error(t, err)
}

func TestExtractJSONMalformedBlock(t *testing.T) {
	var v Verdict
	err := ExtractJSON(`prefix {"isValid": tru} suffix`, &v)
	assert.Error(t, err)
}
