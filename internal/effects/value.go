package effects

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Kind identifies which arm of a Value is populated.
type Kind int

const (
	KindNone Kind = iota
	KindNumber
	KindBool
	KindRaw
)

func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	case KindRaw:
		return "raw"
	default:
		return "none"
	}
}

// Value is an effect value: a number, a boolean, or a structured payload
// that is carried verbatim.
type Value struct {
	kind Kind
	num  float64
	flag bool
	raw  json.RawMessage
}

// Number returns a numeric Value.
func Number(f float64) Value { return Value{kind: KindNumber, num: f} }

// Bool returns a boolean Value.
func Bool(b bool) Value { return Value{kind: KindBool, flag: b} }

// Raw returns a structured Value holding the given JSON payload.
func Raw(msg json.RawMessage) Value {
	return Value{kind: KindRaw, raw: bytes.Clone(msg)}
}

// Kind reports which arm of the Value is set.
func (v Value) Kind() Kind { return v.kind }

// IsZero reports whether no value was ever set.
func (v Value) IsZero() bool { return v.kind == KindNone }

// Float returns the numeric value. Booleans convert to 0 or 1.
func (v Value) Float() (float64, bool) {
	switch v.kind {
	case KindNumber:
		return v.num, true
	case KindBool:
		if v.flag {
			return 1, true
		}
		return 0, true
	}
	return 0, false
}

// Truthy reports whether the value counts as "on" for a latch.
func (v Value) Truthy() bool {
	switch v.kind {
	case KindBool:
		return v.flag
	case KindNumber:
		return v.num != 0
	case KindRaw:
		return len(v.raw) > 0 && string(v.raw) != "null"
	}
	return false
}

// Payload returns the structured payload, or nil for scalar values.
func (v Value) Payload() json.RawMessage {
	if v.kind != KindRaw {
		return nil
	}
	return bytes.Clone(v.raw)
}

// Equal reports whether two values hold the same arm and content.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindNumber:
		return v.num == o.num
	case KindBool:
		return v.flag == o.flag
	case KindRaw:
		return bytes.Equal(v.raw, o.raw)
	}
	return true
}

func (v Value) String() string {
	switch v.kind {
	case KindNumber:
		return strconv.FormatFloat(v.num, 'g', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.flag)
	case KindRaw:
		return string(v.raw)
	}
	return "<none>"
}

func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindNumber:
		return json.Marshal(v.num)
	case KindBool:
		return json.Marshal(v.flag)
	case KindRaw:
		return v.raw, nil
	}
	return []byte("null"), nil
}

func (v *Value) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return fmt.Errorf("effect value: empty input")
	}
	switch data[0] {
	case 'n':
		*v = Value{}
		return nil
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(data, &b); err != nil {
			return fmt.Errorf("effect value: %w", err)
		}
		*v = Bool(b)
		return nil
	case '{', '[', '"':
		*v = Raw(data)
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("effect value: %w", err)
	}
	*v = Number(f)
	return nil
}

// Effect is a single typed modifier carried by a skill node.
type Effect struct {
	Type      Type   `json:"type"`
	Value     Value  `json:"value"`
	Condition string `json:"condition,omitempty"`
}
