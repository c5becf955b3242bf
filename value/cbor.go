package value

import (
	"bytes"
	"fmt"
	"math/big"

	"github.com/fxamacker/cbor/v2"
)

// CBORReader decodes an IETF RFC-8949 CBOR document into ValueEvents.
// fxamacker/cbor only exposes whole-document decoding (no token-level
// pull API like jsontext's), so the document is decoded eagerly at
// construction time and replayed through Next(); see replayReader.
type CBORReader struct {
	*replayReader
}

// NewCBORReader decodes data and prepares it for event-based consumption.
func NewCBORReader(data []byte) (*CBORReader, error) {
	v, err := ReadCBOR(data)
	if err != nil {
		return nil, err
	}
	return &CBORReader{replayReader: newReplayReader(v)}, nil
}

// ReadCBOR decodes a CBOR document directly into a Value, mapping byte
// strings to Bytes and tags to Tagged per §6. Maps decode through
// fxamacker/cbor's default interface{} target (map[interface{}]interface{}
// for non-string keys), so arbitrary CBOR key types survive the trip.
func ReadCBOR(data []byte) (Value, error) {
	var anyVal interface{}
	if err := cbor.Unmarshal(data, &anyVal); err != nil {
		return Value{}, err
	}
	return cborToValue(anyVal), nil
}

func cborToValue(v interface{}) Value {
	switch t := v.(type) {
	case nil:
		return NewNull()
	case bool:
		return NewBool(t)
	case []byte:
		return NewBytes(t)
	case string:
		return NewString(t)
	case int64:
		return NewNumber(NewNumFromInt(t))
	case uint64:
		r := new(big.Rat).SetUint64(t)
		return NewNumber(Num{rat: r})
	case float64:
		return NewFloat(t)
	case cbor.Tag:
		return NewTagged(fmt.Sprintf("%d", t.Number), cborToValue(t.Content))
	case big.Int:
		return NewNumber(Num{rat: new(big.Rat).SetInt(&t)})
	case []interface{}:
		items := make([]Value, len(t))
		for i, item := range t {
			items[i] = cborToValue(item)
		}
		return NewArray(items...)
	case map[interface{}]interface{}:
		entries := make([]Entry, 0, len(t))
		for k, val := range t {
			entries = append(entries, Entry{Key: cborToValue(k), Val: cborToValue(val)})
		}
		return NewObject(entries...)
	case map[string]interface{}:
		entries := make([]Entry, 0, len(t))
		for k, val := range t {
			entries = append(entries, Entry{Key: NewString(k), Val: cborToValue(val)})
		}
		return NewObject(entries...)
	default:
		return NewNull()
	}
}

// CBORWriter accepts pushed ValueEvents, buffers them into a single Value
// (fxamacker/cbor has no incremental/token-level encoder to drive), and
// encodes once on Finish.
type CBORWriter struct {
	*accumulator
	out *bytes.Buffer
}

// NewCBORWriter wraps out; Finish encodes the accumulated Value into it.
func NewCBORWriter(out *bytes.Buffer) *CBORWriter {
	cw := &CBORWriter{out: out}
	cw.accumulator = newAccumulator(func(v Value) error {
		data, err := WriteCBOR(v)
		if err != nil {
			return err
		}
		_, err = out.Write(data)
		return err
	})
	return cw
}

// WriteCBOR is the convenience one-shot Value->CBOR encode.
func WriteCBOR(v Value) ([]byte, error) {
	return cbor.Marshal(valueToCBOR(v))
}

func valueToCBOR(v Value) interface{} {
	switch v.kind {
	case Null:
		return nil
	case Bool:
		return v.boolean
	case Number:
		if bi, ok := v.num.AsBigInt(); ok {
			if bi.IsInt64() {
				return bi.Int64()
			}
			return bi
		}
		f, _ := v.num.AsFloat64()
		return f
	case Bytes:
		return v.bytes
	case String:
		return v.str
	case Array:
		out := make([]interface{}, len(v.arr))
		for i, item := range v.arr {
			out[i] = valueToCBOR(item)
		}
		return out
	case Object:
		out := make(map[string]interface{}, len(v.obj))
		for _, e := range v.obj {
			k, _ := e.Key.String()
			out[k] = valueToCBOR(e.Val)
		}
		return out
	case Tagged:
		if num, ok := parseUintTag(v.tag); ok {
			return cbor.Tag{Number: num, Content: valueToCBOR(*v.inner)}
		}
		// Non-numeric tags (e.g. YAML "&anchor" markers routed through the
		// shared Tagged representation) have no CBOR tag encoding; the
		// wrapper is dropped and only the inner value is written.
		return valueToCBOR(*v.inner)
	default:
		return nil
	}
}

func parseUintTag(s string) (uint64, bool) {
	if s == "" {
		return 0, false
	}
	var n uint64
	for _, c := range s {
		if c < '0' || c > '9' {
			return 0, false
		}
		n = n*10 + uint64(c-'0')
	}
	return n, true
}
