package muster

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// FlexibleID is an employee identifier as delivered by a collaborator.
// The punch-capture system sends ids as strings ("7") while the directory
// sends numbers (7); both decode into FlexibleID and normalize with Int64.
type FlexibleID string

// IDFromInt wraps a numeric identifier
func IDFromInt(n int64) FlexibleID {
	return FlexibleID(strconv.FormatInt(n, 10))
}

// UnmarshalJSON implements json.Unmarshaler for FlexibleID
func (f *FlexibleID) UnmarshalJSON(b []byte) error {
	// Try to unmarshal as string first
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*f = FlexibleID(s)
		return nil
	}

	// Try as number, keeping its literal text
	var n json.Number
	if err := json.Unmarshal(b, &n); err == nil {
		*f = FlexibleID(n.String())
		return nil
	}

	return fmt.Errorf("FlexibleID: cannot unmarshal %s", string(b))
}

// MarshalJSON implements json.Marshaler for FlexibleID
func (f FlexibleID) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(f))
}

// String returns string representation
func (f FlexibleID) String() string {
	return string(f)
}

// Int64 normalizes the identifier to its integer form.
// Accepts "7", " 7 ", "007" and integral decimals such as "7.0".
func (f FlexibleID) Int64() (int64, error) {
	s := strings.TrimSpace(string(f))
	if s == "" {
		return 0, fmt.Errorf("empty identifier")
	}

	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n, nil
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(v, 0) || math.IsNaN(v) || v != math.Trunc(v) ||
		v > math.MaxInt64 || v < math.MinInt64 {
		return 0, fmt.Errorf("identifier %q is not an integer", string(f))
	}
	return int64(v), nil
}
