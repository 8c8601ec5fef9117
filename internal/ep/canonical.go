package ep

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"slices"
	"strconv"
	"unicode/utf16"

	"golang.org/x/text/unicode/norm"
)

// Canonical serialization for recommendation sets, used to content-address
// runs in the history store. Two runs that produce the same recommendations
// hash to the same byte sequence regardless of when or where they ran.
//
// Follows RFC 8785 (Canonical JSON):
//  1. Object keys sorted by UTF-16 code units (not UTF-8 bytes)
//  2. No HTML escaping (< > & are NOT escaped)
//  3. Strings NFC normalized
//  4. No floats, no nulls

// MarshalCanonical produces canonical JSON for a recommendation set.
func MarshalCanonical(recs []Recommendation) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, rec := range recs {
		if i > 0 {
			buf.WriteByte(',')
		}
		b, err := marshalCanonicalRecord(rec)
		if err != nil {
			return nil, fmt.Errorf("record[%d]: %w", i, err)
		}
		buf.Write(b)
	}
	buf.WriteByte(']')
	return buf.Bytes(), nil
}

// HashRecommendations returns the hex SHA-256 of the canonical serialization.
func HashRecommendations(recs []Recommendation) (string, error) {
	data, err := MarshalCanonical(recs)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

func marshalCanonicalRecord(rec Recommendation) ([]byte, error) {
	fields := map[string]any{
		"type":         rec.Type,
		"ID":           rec.ID,
		"EPKeyClass":   rec.EPKeyClass,
		"EPValueClass": rec.EPValueClass,
		"EPValue":      rec.EPValue,
	}
	return marshalCanonicalObject(fields)
}

func marshalCanonicalObject(obj map[string]any) ([]byte, error) {
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, compareKeysRFC8785)

	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		keyBytes, err := marshalCanonicalString(k)
		if err != nil {
			return nil, err
		}
		buf.Write(keyBytes)
		buf.WriteByte(':')
		valBytes, err := marshalCanonicalValue(obj[k])
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", k, err)
		}
		buf.Write(valBytes)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func marshalCanonicalValue(v any) ([]byte, error) {
	switch val := v.(type) {
	case nil:
		return nil, fmt.Errorf("null is forbidden in canonical JSON")
	case IntValue:
		return strconv.AppendInt(nil, int64(val), 10), nil
	case BoolValue:
		return strconv.AppendBool(nil, bool(val)), nil
	case StringValue:
		return marshalCanonicalString(string(val))
	case string:
		return marshalCanonicalString(val)
	case int:
		return strconv.AppendInt(nil, int64(val), 10), nil
	case int64:
		return strconv.AppendInt(nil, val, 10), nil
	case bool:
		return strconv.AppendBool(nil, val), nil
	default:
		return nil, fmt.Errorf("unsupported type in canonical JSON: %T", v)
	}
}

// marshalCanonicalString serializes a string per RFC 8785: NFC normalized,
// minimal escaping, and critically no HTML escaping.
func marshalCanonicalString(s string) ([]byte, error) {
	s = norm.NFC.String(s)

	var buf bytes.Buffer
	buf.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			buf.WriteString(`\"`)
		case '\\':
			buf.WriteString(`\\`)
		case '\b':
			buf.WriteString(`\b`)
		case '\f':
			buf.WriteString(`\f`)
		case '\n':
			buf.WriteString(`\n`)
		case '\r':
			buf.WriteString(`\r`)
		case '\t':
			buf.WriteString(`\t`)
		default:
			if r < 0x20 {
				fmt.Fprintf(&buf, `\u%04x`, r)
			} else {
				buf.WriteRune(r)
			}
		}
	}
	buf.WriteByte('"')
	return buf.Bytes(), nil
}

// compareKeysRFC8785 compares strings using UTF-16 code unit ordering as
// required by RFC 8785. Go's default string comparison uses UTF-8 bytes,
// which produces a DIFFERENT order for strings outside the BMP.
func compareKeysRFC8785(a, b string) int {
	a16 := utf16.Encode([]rune(a))
	b16 := utf16.Encode([]rune(b))

	minLen := len(a16)
	if len(b16) < minLen {
		minLen = len(b16)
	}
	for i := 0; i < minLen; i++ {
		if a16[i] != b16[i] {
			if a16[i] < b16[i] {
				return -1
			}
			return 1
		}
	}
	if len(a16) < len(b16) {
		return -1
	}
	if len(a16) > len(b16) {
		return 1
	}
	return 0
}
