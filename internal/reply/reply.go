package reply

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMalformedResponse indicates the model reply was not the expected JSON.
	ErrMalformedResponse = errors.New("model reply is not valid JSON")

	// ErrIncompleteResponse indicates the reply JSON lacks a required key.
	ErrIncompleteResponse = errors.New("model reply is missing a required key")
)

// bulletSeparator joins multi-part explanations for display as a list.
const bulletSeparator = "\n- "

// Parse validates a raw model reply and returns the normalized explanation
// and command. The reply must be a JSON object with both an "explanation"
// and a "command" key; an empty command is valid and is the model's refusal
// channel. The explanation may be a single string or a list of strings; a
// list is joined into one display string without reordering or dropping
// anything. No attempt is made to validate the command itself.
func Parse(raw string) (explanation, command string, err error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &fields); err != nil {
		return "", "", fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	for _, key := range []string{"explanation", "command"} {
		if _, ok := fields[key]; !ok {
			return "", "", fmt.Errorf("%w: %q", ErrIncompleteResponse, key)
		}
	}

	if err := json.Unmarshal(fields["command"], &command); err != nil {
		return "", "", fmt.Errorf("%w: command is not a string", ErrMalformedResponse)
	}

	if err := json.Unmarshal(fields["explanation"], &explanation); err == nil {
		return explanation, command, nil
	}

	var parts []string
	if err := json.Unmarshal(fields["explanation"], &parts); err != nil {
		return "", "", fmt.Errorf("%w: explanation is neither a string nor a list of strings", ErrMalformedResponse)
	}

	return strings.Join(parts, bulletSeparator), command, nil
}
