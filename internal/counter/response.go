package counter

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrMissingCount is returned when the decoded body has no "count" key.
var ErrMissingCount = errors.New("response has no count field")

// CountResponse is the payload returned by the counting endpoint. Only the
// count field is read; its JSON type is not validated.
type CountResponse struct {
	Count json.RawMessage `json:"count"`
}

// DecodeCountResponse parses body as a JSON object with a count field.
func DecodeCountResponse(body []byte) (*CountResponse, error) {
	var cr CountResponse
	if err := json.Unmarshal(body, &cr); err != nil {
		return nil, fmt.Errorf("decode count response: %w", err)
	}
	if cr.Count == nil {
		return nil, ErrMissingCount
	}
	return &cr, nil
}

// DisplayText renders the count verbatim. Strings are shown without quotes,
// null renders empty, and any other JSON value is shown as written by the
// server (42 stays "42", 1.50 stays "1.50").
func (cr *CountResponse) DisplayText() string {
	raw := bytes.TrimSpace(cr.Count)
	switch {
	case len(raw) == 0, bytes.Equal(raw, []byte("null")):
		return ""
	case raw[0] == '"':
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			return s
		}
	case raw[0] == '{' || raw[0] == '[':
		var buf bytes.Buffer
		if err := json.Compact(&buf, raw); err == nil {
			return buf.String()
		}
	}
	return string(raw)
}
