package handlers

import (
	"encoding/json"
	"strings"
)

// decodeFlexible unmarshals a raw JSON value into dst, accepting either the
// value itself or a JSON string containing the encoded value. The admin edit
// flow sends sub-objects (weight, dimensions, gems, variants, tags) either
// way depending on which form produced them.
func decodeFlexible(raw json.RawMessage, dst interface{}) error {
	if len(raw) == 0 {
		return nil
	}

	trimmed := strings.TrimSpace(string(raw))
	if strings.HasPrefix(trimmed, `"`) {
		var encoded string
		if err := json.Unmarshal(raw, &encoded); err != nil {
			return err
		}
		encoded = strings.TrimSpace(encoded)
		if encoded == "" {
			return nil
		}
		return json.Unmarshal([]byte(encoded), dst)
	}

	return json.Unmarshal(raw, dst)
}
