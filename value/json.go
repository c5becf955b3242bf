package value

import (
	"bytes"
	"encoding/base64"
	"io"

	"github.com/go-json-experiment/json/jsontext"
)

// JSONReader decodes an RFC-8259 JSON document into ValueEvents using
// go-json-experiment/json's token-level decoder, the same package
// schema.go already drives when parsing schema documents.
type jsonFrame struct {
	isObject  bool
	expectKey bool // only meaningful when isObject is true
}

type JSONReader struct {
	dec   *jsontext.Decoder
	stack []jsonFrame
}

// NewJSONReader wraps r as a value.Reader over a JSON byte stream.
func NewJSONReader(r io.Reader) *JSONReader {
	return &JSONReader{dec: jsontext.NewDecoder(r)}
}

func (jr *JSONReader) top() *jsonFrame {
	if len(jr.stack) == 0 {
		return nil
	}
	return &jr.stack[len(jr.stack)-1]
}

func (jr *JSONReader) Next() (Event, bool, error) {
	tok, err := jr.dec.ReadToken()
	if err != nil {
		if err == io.EOF {
			return Event{}, false, nil
		}
		return Event{}, false, err
	}

	switch tok.Kind() {
	case '{':
		jr.stack = append(jr.stack, jsonFrame{isObject: true, expectKey: true})
		return Event{Kind: BeginObject}, true, nil
	case '}':
		if len(jr.stack) > 0 {
			jr.stack = jr.stack[:len(jr.stack)-1]
		}
		jr.afterValue()
		return Event{Kind: EndObject}, true, nil
	case '[':
		jr.stack = append(jr.stack, jsonFrame{isObject: false})
		return Event{Kind: BeginArray}, true, nil
	case ']':
		if len(jr.stack) > 0 {
			jr.stack = jr.stack[:len(jr.stack)-1]
		}
		jr.afterValue()
		return Event{Kind: EndArray}, true, nil
	case '"':
		s := tok.String()
		if f := jr.top(); f != nil && f.isObject && f.expectKey {
			f.expectKey = false
			return Event{Kind: Key, Value: NewString(s)}, true, nil
		}
		jr.afterValue()
		return Event{Kind: Scalar, Value: NewString(s)}, true, nil
	case '0':
		n, ok := NewNumFromString(tok.String())
		if !ok {
			return Event{}, false, errInvalidNumber
		}
		jr.afterValue()
		return Event{Kind: Scalar, Value: NewNumber(n)}, true, nil
	case 't', 'f':
		jr.afterValue()
		return Event{Kind: Scalar, Value: NewBool(tok.Bool())}, true, nil
	case 'n':
		jr.afterValue()
		return Event{Kind: Scalar, Value: NewNull()}, true, nil
	default:
		return Event{}, false, errInvalidNumber
	}
}

// afterValue flips an enclosing object frame's "expecting key" flag back
// on once the value paired with the most recently read key is consumed.
// Array frames have no such flag and are left untouched.
func (jr *JSONReader) afterValue() {
	if f := jr.top(); f != nil && f.isObject {
		f.expectKey = true
	}
}

var errInvalidNumber = jsonErr("value: invalid JSON number literal")

type jsonErr string

func (e jsonErr) Error() string { return string(e) }

// JSONWriter encodes ValueEvents as RFC-8259 JSON bytes, preserving object
// insertion order and rendering numbers from their original literal text
// when available so large numbers round-trip losslessly.
type JSONWriter struct {
	enc        *jsontext.Encoder
	expectKeys []bool // stack: true while inside an object and next scalar is a key
}

// NewJSONWriter wraps w as a value.Writer that emits JSON.
func NewJSONWriter(w io.Writer) *JSONWriter {
	return &JSONWriter{enc: jsontext.NewEncoder(w)}
}

func (jw *JSONWriter) inObjectExpectingKey() bool {
	return len(jw.expectKeys) > 0 && jw.expectKeys[len(jw.expectKeys)-1]
}

func (jw *JSONWriter) Write(ev Event) error {
	switch ev.Kind {
	case BeginObject:
		jw.expectKeys = append(jw.expectKeys, true)
		return jw.enc.WriteToken(jsontext.BeginObject)
	case EndObject:
		if len(jw.expectKeys) > 0 {
			jw.expectKeys = jw.expectKeys[:len(jw.expectKeys)-1]
		}
		return jw.enc.WriteToken(jsontext.EndObject)
	case BeginArray:
		jw.expectKeys = append(jw.expectKeys, false)
		return jw.enc.WriteToken(jsontext.BeginArray)
	case EndArray:
		if len(jw.expectKeys) > 0 {
			jw.expectKeys = jw.expectKeys[:len(jw.expectKeys)-1]
		}
		return jw.enc.WriteToken(jsontext.EndArray)
	case Key:
		s, _ := ev.Value.String()
		if err := jw.enc.WriteToken(jsontext.String(s)); err != nil {
			return err
		}
		jw.expectKeys[len(jw.expectKeys)-1] = false
		return nil
	case Scalar:
		if jw.inObjectExpectingKey() {
			jw.expectKeys[len(jw.expectKeys)-1] = false
		}
		return jw.writeScalar(ev.Value)
	case Tag, Anchor, Alias, Style:
		return nil // JSON has no representation for these; dropped on write.
	default:
		return errInvalidNumber
	}
}

func (jw *JSONWriter) writeScalar(v Value) error {
	v = v.deref()
	switch v.kind {
	case Null:
		return jw.enc.WriteToken(jsontext.Null)
	case Bool:
		return jw.enc.WriteToken(jsontext.Bool(v.boolean))
	case Number:
		// Written as a raw value from its exact-decimal text form so
		// numbers beyond float64 precision round-trip losslessly.
		return jw.enc.WriteValue(jsontext.Value(v.num.Text()))
	case String:
		return jw.enc.WriteToken(jsontext.String(v.str))
	case Bytes:
		return jw.enc.WriteToken(jsontext.String(base64.StdEncoding.EncodeToString(v.bytes)))
	default:
		return errInvalidNumber
	}
}

func (jw *JSONWriter) Finish() error {
	return nil
}

// ReadJSON is a convenience one-shot JSON->Value decode.
func ReadJSON(data []byte) (Value, error) {
	return Compose(NewJSONReader(bytes.NewReader(data)))
}

// WriteJSON is a convenience one-shot Value->JSON encode.
func WriteJSON(v Value) ([]byte, error) {
	var buf bytes.Buffer
	if err := Flatten(v, NewJSONWriter(&buf)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
