package ep

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Value is a sealed interface over the concrete value types an execution
// property can carry. Only IntValue, BoolValue, and StringValue implement it.
// Floats never appear here: recommendations are concrete knob settings, and
// every knob the tuning pass understands is integral, boolean, or enumerated.
type Value interface {
	epValue() // Sealed - only these types implement it
}

// IntValue carries an integral property value (parallelism, schedule group).
type IntValue int64

func (IntValue) epValue() {}

// BoolValue carries a boolean property value.
type BoolValue bool

func (BoolValue) epValue() {}

// StringValue carries an enumerated property value, e.g. a data-store kind.
type StringValue string

func (StringValue) epValue() {}

// MarshalJSON implements json.Marshaler for IntValue.
func (v IntValue) MarshalJSON() ([]byte, error) {
	return strconv.AppendInt(nil, int64(v), 10), nil
}

// MarshalJSON implements json.Marshaler for BoolValue.
func (v BoolValue) MarshalJSON() ([]byte, error) {
	return strconv.AppendBool(nil, bool(v)), nil
}

// MarshalJSON implements json.Marshaler for StringValue.
func (v StringValue) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(v))
}

// UnmarshalValue decodes a JSON scalar into the matching Value variant.
// Floats and nulls are rejected: neither is a legal property value, and
// accepting them here would let a corrupted history row round-trip silently.
func UnmarshalValue(data []byte) (Value, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("empty JSON value")
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return nil, err
		}
		return StringValue(s), nil

	case 't', 'f':
		var b bool
		if err := json.Unmarshal(data, &b); err != nil {
			return nil, err
		}
		return BoolValue(b), nil

	case 'n':
		return nil, fmt.Errorf("null is not a valid property value")

	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return nil, err
		}
		i, err := n.Int64()
		if err != nil {
			return nil, fmt.Errorf("non-integral property value: %s", string(data))
		}
		return IntValue(i), nil
	}
}

// FormatValue renders a Value the way it appears on the wire, without quotes.
// Used for log lines and human-readable explanations.
func FormatValue(v Value) string {
	switch val := v.(type) {
	case IntValue:
		return strconv.FormatInt(int64(val), 10)
	case BoolValue:
		return strconv.FormatBool(bool(val))
	case StringValue:
		return string(val)
	default:
		return fmt.Sprintf("%v", v)
	}
}
