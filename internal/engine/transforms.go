package engine

import (
	"fmt"
	"strconv"
	"strings"
)

// AsString trims the raw value and keeps it as a string.
func AsString(raw any) (any, error) {
	return strings.TrimSpace(fmt.Sprint(raw)), nil
}

// AsLower trims and lowercases the raw value.
func AsLower(raw any) (any, error) {
	return strings.ToLower(strings.TrimSpace(fmt.Sprint(raw))), nil
}

// AsInt converts the raw value to a whole number. JSON decoding hands
// numbers over as float64, so that case is accepted directly.
func AsInt(raw any) (any, error) {
	switch v := raw.(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case float64:
		if v != float64(int(v)) {
			return nil, fmt.Errorf("not a whole number")
		}
		return int(v), nil
	default:
		n, err := strconv.Atoi(strings.TrimSpace(fmt.Sprint(raw)))
		if err != nil {
			return nil, fmt.Errorf("not a whole number")
		}
		return n, nil
	}
}
