package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/kailas-cloud/catalogsearch/internal/domain"
)

var codeFence = regexp.MustCompile("(?s)^```[a-zA-Z]*\\s*(.*?)\\s*```$")

type idsPayload struct {
	IDs *[]json.RawMessage `json:"ids"`
}

// parseIDs decodes a completion into canonical ids. The text must be a single
// JSON object with an "ids" array of numbers or strings, optionally wrapped in
// a markdown code fence.
func parseIDs(text string) ([]string, error) {
	text = strings.TrimSpace(text)
	if m := codeFence.FindStringSubmatch(text); m != nil {
		text = m[1]
	}
	if text == "" {
		return nil, fmt.Errorf("%w: empty completion", domain.ErrMalformedModelOutput)
	}

	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()
	var payload idsPayload
	if err := dec.Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrMalformedModelOutput, err)
	}
	if dec.More() {
		return nil, fmt.Errorf("%w: trailing data after object", domain.ErrMalformedModelOutput)
	}
	if payload.IDs == nil {
		return nil, fmt.Errorf("%w: missing ids field", domain.ErrMalformedModelOutput)
	}

	ids := make([]string, 0, len(*payload.IDs))
	for _, raw := range *payload.IDs {
		id, err := decodeID(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrMalformedModelOutput, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func decodeID(raw json.RawMessage) (string, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return "", fmt.Errorf("decode id: %w", err)
	}
	switch id := v.(type) {
	case json.Number:
		return canonicalID(id.String()), nil
	case string:
		return canonicalID(id), nil
	default:
		return "", fmt.Errorf("id %s is neither number nor string", string(raw))
	}
}

// canonicalID normalizes an id for comparison: integral numbers lose any
// fractional zeros so 2, 2.0 and "2" compare equal.
func canonicalID(s string) string {
	s = strings.TrimSpace(s)
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return s
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
