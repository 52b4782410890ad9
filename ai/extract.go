package ai

import (
	"regexp"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Matches the outermost JSON-object-looking block in a prose response.
var jsonBlockRegex = regexp.MustCompile(`\{[\s\S]*\}`)

// ExtractJSON unmarshals text into out. If the text is not pure JSON, it
// makes a best-effort attempt to locate a JSON object embedded in
// surrounding prose before giving up.
func ExtractJSON(text string, out interface{}) error {
	err := json.UnmarshalFromString(text, out)
	if err == nil {
		return nil
	}

	block := jsonBlockRegex.FindString(text)
	if block == "" {
		return errors.New("no JSON found in response")
	}
	if err := json.UnmarshalFromString(block, out); err != nil {
		return errors.Wrap(err, "found JSON-like block but it is malformed")
	}
	return nil
}
