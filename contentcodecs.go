package jsonschema

import (
	"encoding/base32"
	"encoding/base64"
	"errors"
	"io"
	"mime/quotedprintable"
	"strings"
)

// setupDecoders registers the full contentEncoding codec bundle. base64 is
// the only one the teacher shipped; the rest round out RFC-4648 plus the
// two encodings (Crockford base32, base62) that have no stdlib support and
// are hand-rolled below, documented in DESIGN.md.
func (c *Compiler) setupDecoders() {
	c.Decoders["base64"] = base64.StdEncoding.DecodeString
	c.Decoders["base64url"] = base64.URLEncoding.DecodeString
	c.Decoders["base32"] = base32.StdEncoding.DecodeString
	c.Decoders["base32hex"] = base32.HexEncoding.DecodeString
	c.Decoders["base32crockford"] = decodeCrockfordBase32
	c.Decoders["base16"] = decodeBase16
	c.Decoders["base62"] = decodeBase62
	c.Decoders["quoted-printable"] = decodeQuotedPrintable
}

var errInvalidBase16 = errors.New("jsonschema: invalid base16 content")

func decodeBase16(s string) ([]byte, error) {
	if len(s)%2 != 0 {
		return nil, errInvalidBase16
	}
	out := make([]byte, len(s)/2)
	for i := 0; i < len(out); i++ {
		hi, ok1 := hexNibble(s[i*2])
		lo, ok2 := hexNibble(s[i*2+1])
		if !ok1 || !ok2 {
			return nil, errInvalidBase16
		}
		out[i] = hi<<4 | lo
	}
	return out, nil
}

func hexNibble(b byte) (byte, bool) {
	switch {
	case b >= '0' && b <= '9':
		return b - '0', true
	case b >= 'a' && b <= 'f':
		return b - 'a' + 10, true
	case b >= 'A' && b <= 'F':
		return b - 'A' + 10, true
	default:
		return 0, false
	}
}

func decodeQuotedPrintable(s string) ([]byte, error) {
	return io.ReadAll(quotedprintable.NewReader(strings.NewReader(s)))
}

const crockfordAlphabet = "0123456789ABCDEFGHJKMNPQRSTVWXYZ"

var errInvalidCrockford = errors.New("jsonschema: invalid base32crockford content")

// decodeCrockfordBase32 decodes Douglas Crockford's base32 variant (used by
// ULIDs): a 32-symbol alphabet that excludes I, L, O, U to avoid visual
// ambiguity, case-insensitive on decode, with no padding character.
func decodeCrockfordBase32(s string) ([]byte, error) {
	s = strings.ToUpper(s)
	var bitBuf uint64
	var bitCount uint
	out := make([]byte, 0, len(s)*5/8+1)

	for i := 0; i < len(s); i++ {
		idx := strings.IndexByte(crockfordAlphabet, s[i])
		if idx < 0 {
			return nil, errInvalidCrockford
		}
		bitBuf = bitBuf<<5 | uint64(idx)
		bitCount += 5
		if bitCount >= 8 {
			bitCount -= 8
			out = append(out, byte(bitBuf>>bitCount))
		}
	}
	return out, nil
}

// encodeCrockfordBase32 is the inverse of decodeCrockfordBase32. Nothing in
// this package calls it; the Decoders registry holds decoders only.
func encodeCrockfordBase32(data []byte) string {
	var bitBuf uint64
	var bitCount uint
	var out strings.Builder

	for _, b := range data {
		bitBuf = bitBuf<<8 | uint64(b)
		bitCount += 8
		for bitCount >= 5 {
			bitCount -= 5
			out.WriteByte(crockfordAlphabet[(bitBuf>>bitCount)&0x1f])
		}
	}
	if bitCount > 0 {
		out.WriteByte(crockfordAlphabet[(bitBuf<<(5-bitCount))&0x1f])
	}
	return out.String()
}

const base62Alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

var errInvalidBase62 = errors.New("jsonschema: invalid base62 content")

// decodeBase62 treats the input as a big-endian base-62 encoded integer,
// the convention used by URL-shortener and ID-obfuscation schemas in the
// wild; there is no RFC and no stdlib or pack dependency for it.
func decodeBase62(s string) ([]byte, error) {
	if s == "" {
		return nil, nil
	}
	value := make([]byte, 0, len(s))
	// Use a simple big-number byte representation: repeatedly multiply an
	// accumulator (stored big-endian in `value`) by 62 and add the digit.
	for i := 0; i < len(s); i++ {
		digit := strings.IndexByte(base62Alphabet, s[i])
		if digit < 0 {
			return nil, errInvalidBase62
		}
		carry := uint32(digit)
		for j := len(value) - 1; j >= 0; j-- {
			acc := uint32(value[j])*62 + carry
			value[j] = byte(acc & 0xff)
			carry = acc >> 8
		}
		for carry > 0 {
			value = append([]byte{byte(carry & 0xff)}, value...)
			carry >>= 8
		}
	}
	return value, nil
}
