package types

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// FlexString is a string that can be unmarshaled from either a JSON string or a JSON number.
// Token ids arrive from wallet clients as either, and may exceed 64 bits.
type FlexString string

// UnmarshalJSON implements the json.Unmarshaler interface.
func (f *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*f = ""
		return nil
	}

	// Try unmarshaling as a string first
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = FlexString(s)
		return nil
	}

	// Keep the literal digits of a number so big values are not rounded
	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		*f = FlexString(n.String())
		return nil
	}

	return fmt.Errorf("FlexString: unexpected type, expected string or number")
}

// String converts FlexString back to string.
func (f FlexString) String() string {
	return string(f)
}
