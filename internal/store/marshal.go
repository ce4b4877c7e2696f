package store

import (
	"encoding/json"
	"fmt"

	"github.com/roach88/almanac/internal/ir"
)

// marshalIntervals stores sets as canonical JSON so equal sets compare equal
// as text.
func marshalIntervals(set ir.IntervalSet) (string, error) {
	data, err := ir.MarshalCanonical(set)
	if err != nil {
		return "", fmt.Errorf("marshal intervals: %w", err)
	}
	return string(data), nil
}

func unmarshalIntervals(data string) (ir.IntervalSet, error) {
	set := ir.IntervalSet{}
	if err := json.Unmarshal([]byte(data), &set); err != nil {
		return nil, fmt.Errorf("unmarshal intervals: %w", err)
	}
	return set, nil
}
