package models

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// FieldValueKind discriminates the closed set of value shapes an audited
// field snapshot can take.
type FieldValueKind string

const (
	KindString FieldValueKind = "string"
	KindNumber FieldValueKind = "number"
	KindBool   FieldValueKind = "bool"
	KindTime   FieldValueKind = "time"
	KindNull   FieldValueKind = "null"
	KindBlob   FieldValueKind = "blob"
)

// FieldValue is a dynamically-typed field snapshot: the field key, before
// value, and after value of an activity log carry no schema, so they are
// modeled as a closed sum over string, number, bool, timestamp, null, and
// an opaque JSON blob for anything structured. Exactly one of the value
// fields is meaningful, selected by Kind.
type FieldValue struct {
	Kind FieldValueKind
	Str  string
	Num  float64
	Bool bool
	Time time.Time
	Blob json.RawMessage
}

// StringValue returns a string-kinded FieldValue.
func StringValue(s string) *FieldValue { return &FieldValue{Kind: KindString, Str: s} }

// NumberValue returns a number-kinded FieldValue.
func NumberValue(f float64) *FieldValue { return &FieldValue{Kind: KindNumber, Num: f} }

// BoolValue returns a bool-kinded FieldValue.
func BoolValue(b bool) *FieldValue { return &FieldValue{Kind: KindBool, Bool: b} }

// TimeValue returns a timestamp-kinded FieldValue.
func TimeValue(t time.Time) *FieldValue { return &FieldValue{Kind: KindTime, Time: t} }

// NullValue returns an explicit-null FieldValue.
func NullValue() *FieldValue { return &FieldValue{Kind: KindNull} }

// BlobValue returns an opaque-JSON FieldValue holding the raw message.
func BlobValue(raw json.RawMessage) *FieldValue { return &FieldValue{Kind: KindBlob, Blob: raw} }

// MarshalJSON renders the value as the plain JSON it arrived as: strings as
// strings, timestamps as RFC 3339 strings, blobs verbatim.
func (v *FieldValue) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case KindString:
		return json.Marshal(v.Str)
	case KindNumber:
		return json.Marshal(v.Num)
	case KindBool:
		return json.Marshal(v.Bool)
	case KindTime:
		return json.Marshal(v.Time.Format(time.RFC3339Nano))
	case KindNull:
		return []byte("null"), nil
	case KindBlob:
		if len(v.Blob) == 0 {
			return []byte("null"), nil
		}
		return v.Blob, nil
	}
	return nil, fmt.Errorf("unknown field value kind %q", v.Kind)
}

// UnmarshalJSON classifies an arbitrary JSON value into the sum. Strings
// that parse as RFC 3339 timestamps become time-kinded; objects and arrays
// are kept verbatim as blobs.
func (v *FieldValue) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return fmt.Errorf("empty field value")
	}

	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
			*v = FieldValue{Kind: KindTime, Time: t}
			return nil
		}
		*v = FieldValue{Kind: KindString, Str: s}
		return nil
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(trimmed, &b); err != nil {
			return err
		}
		*v = FieldValue{Kind: KindBool, Bool: b}
		return nil
	case 'n':
		if !bytes.Equal(trimmed, []byte("null")) {
			return fmt.Errorf("invalid field value %q", trimmed)
		}
		*v = FieldValue{Kind: KindNull}
		return nil
	case '{', '[':
		*v = FieldValue{Kind: KindBlob, Blob: append(json.RawMessage(nil), trimmed...)}
		return nil
	default:
		var f float64
		if err := json.Unmarshal(trimmed, &f); err != nil {
			return err
		}
		*v = FieldValue{Kind: KindNumber, Num: f}
		return nil
	}
}

// envelope is the persisted shape. The kind tag keeps round-trips exact:
// without it a stored timestamp and a string holding the same characters
// would be indistinguishable on read.
type envelope struct {
	Kind  FieldValueKind  `json:"kind"`
	Value json.RawMessage `json:"value"`
}

// Value implements driver.Valuer. A nil receiver persists as SQL NULL.
func (v *FieldValue) Value() (driver.Value, error) {
	if v == nil {
		return nil, nil
	}
	inner, err := v.MarshalJSON()
	if err != nil {
		return nil, err
	}
	data, err := json.Marshal(envelope{Kind: v.Kind, Value: inner})
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// Scan implements sql.Scanner for the envelope produced by Value.
func (v *FieldValue) Scan(src any) error {
	if src == nil {
		return fmt.Errorf("cannot scan SQL NULL into FieldValue; use a *FieldValue column")
	}

	var data []byte
	switch s := src.(type) {
	case []byte:
		data = s
	case string:
		data = []byte(s)
	default:
		return fmt.Errorf("cannot scan %T into FieldValue", src)
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return fmt.Errorf("decode field value envelope: %w", err)
	}

	switch env.Kind {
	case KindString:
		var s string
		if err := json.Unmarshal(env.Value, &s); err != nil {
			return err
		}
		*v = FieldValue{Kind: KindString, Str: s}
	case KindNumber:
		var f float64
		if err := json.Unmarshal(env.Value, &f); err != nil {
			return err
		}
		*v = FieldValue{Kind: KindNumber, Num: f}
	case KindBool:
		var b bool
		if err := json.Unmarshal(env.Value, &b); err != nil {
			return err
		}
		*v = FieldValue{Kind: KindBool, Bool: b}
	case KindTime:
		var s string
		if err := json.Unmarshal(env.Value, &s); err != nil {
			return err
		}
		t, err := time.Parse(time.RFC3339Nano, s)
		if err != nil {
			return fmt.Errorf("decode field value timestamp: %w", err)
		}
		*v = FieldValue{Kind: KindTime, Time: t}
	case KindNull:
		*v = FieldValue{Kind: KindNull}
	case KindBlob:
		*v = FieldValue{Kind: KindBlob, Blob: append(json.RawMessage(nil), env.Value...)}
	default:
		return fmt.Errorf("unknown field value kind %q", env.Kind)
	}
	return nil
}

// Equal reports whether two values have the same kind and payload.
func (v *FieldValue) Equal(other *FieldValue) bool {
	if v == nil || other == nil {
		return v == other
	}
	if v.Kind != other.Kind {
		return false
	}
	switch v.Kind {
	case KindString:
		return v.Str == other.Str
	case KindNumber:
		return v.Num == other.Num
	case KindBool:
		return v.Bool == other.Bool
	case KindTime:
		return v.Time.Equal(other.Time)
	case KindNull:
		return true
	case KindBlob:
		return bytes.Equal(v.Blob, other.Blob)
	}
	return false
}
