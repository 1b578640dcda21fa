// Package ir provides the dynamic value representation used by strain
// patches.
package ir

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// ToJSON encodes a value in its natural JSON form. Decimals and times
// encode as strings (decimal digits, RFC3339Nano); everything else maps
// to the matching JSON type. Object field order is preserved.
func ToJSON(v *Value) ([]byte, error) {
	buf := bytes.NewBuffer(nil)
	if err := writeJSON(buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// FromJSON decodes natural JSON into a value. JSON numbers become
// IntKind when they parse as int64 and FloatKind otherwise; JSON strings
// stay StringKind. Decoders with a schema can re-kind strings into
// decimals and times afterwards, see schema.Normalize.
func FromJSON(d []byte) (*Value, error) {
	dec := json.NewDecoder(bytes.NewReader(d))
	dec.UseNumber()
	v, err := readJSON(dec)
	if err != nil {
		return nil, err
	}
	// trailing garbage check
	if dec.More() {
		return nil, fmt.Errorf("trailing data after JSON value")
	}
	return v, nil
}

func (v *Value) MarshalJSON() ([]byte, error) {
	return ToJSON(v)
}

func (v *Value) UnmarshalJSON(d []byte) error {
	vv, err := FromJSON(d)
	if err != nil {
		return err
	}
	*v = *vv
	return nil
}

func writeJSON(buf *bytes.Buffer, v *Value) error {
	if v == nil {
		buf.WriteString("null")
		return nil
	}
	switch v.Kind {
	case NullKind:
		buf.WriteString("null")
	case BoolKind:
		buf.WriteString(strconv.FormatBool(v.Bool))
	case IntKind:
		buf.WriteString(strconv.FormatInt(*v.Int64, 10))
	case FloatKind:
		d, err := json.Marshal(*v.Float64)
		if err != nil {
			return err
		}
		buf.Write(d)
	case DecimalKind:
		buf.WriteString(strconv.Quote(v.Decimal.String()))
	case StringKind:
		d, err := json.Marshal(v.String)
		if err != nil {
			return err
		}
		buf.Write(d)
	case TimeKind:
		buf.WriteString(strconv.Quote(v.Time.Format(time.RFC3339Nano)))
	case ArrayKind:
		buf.WriteByte('[')
		for i, vv := range v.Values {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeJSON(buf, vv); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case ObjectKind:
		buf.WriteByte('{')
		for i, f := range v.Fields {
			if i > 0 {
				buf.WriteByte(',')
			}
			d, err := json.Marshal(f)
			if err != nil {
				return err
			}
			buf.Write(d)
			buf.WriteByte(':')
			if err := writeJSON(buf, v.Values[i]); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	default:
		return fmt.Errorf("cannot encode kind %s", v.Kind)
	}
	return nil
}

func readJSON(dec *json.Decoder) (*Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	return valueFromToken(dec, tok)
}

func valueFromToken(dec *json.Decoder, tok json.Token) (*Value, error) {
	switch t := tok.(type) {
	case nil:
		return Null(), nil
	case bool:
		return FromBool(t), nil
	case json.Number:
		if i, err := strconv.ParseInt(t.String(), 10, 64); err == nil {
			return FromInt(i), nil
		}
		f, err := t.Float64()
		if err != nil {
			return nil, err
		}
		return FromFloat(f), nil
	case string:
		return FromString(t), nil
	case json.Delim:
		switch t {
		case '[':
			res := &Value{Kind: ArrayKind}
			for dec.More() {
				vv, err := readJSON(dec)
				if err != nil {
					return nil, err
				}
				res.Values = append(res.Values, vv)
			}
			if _, err := dec.Token(); err != nil { // closing ]
				return nil, err
			}
			return res, nil
		case '{':
			res := &Value{Kind: ObjectKind}
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return nil, fmt.Errorf("object key %v is not a string", keyTok)
				}
				vv, err := readJSON(dec)
				if err != nil {
					return nil, err
				}
				res.Fields = append(res.Fields, key)
				res.Values = append(res.Values, vv)
			}
			if _, err := dec.Token(); err != nil { // closing }
				return nil, err
			}
			return res, nil
		}
	}
	return nil, fmt.Errorf("unexpected JSON token %v", tok)
}
