// Package value implements the universal structured-data model: a
// JSON-superset tagged union with exact-decimal numbers and byte strings,
// plus JSON/CBOR/YAML readers and writers that bridge wire bytes to it.
//
// Values are immutable by convention: every mutating-looking operation
// (With) returns a new Value rather than editing in place.
package value

import (
	"math/big"
	"sort"
)

// Kind identifies which variant of the union a Value holds.
type Kind int

const (
	Null Kind = iota
	Bool
	Number
	Bytes
	String
	Array
	Object
	Tagged
)

func (k Kind) String() string {
	switch k {
	case Null:
		return "null"
	case Bool:
		return "bool"
	case Number:
		return "number"
	case Bytes:
		return "bytes"
	case String:
		return "string"
	case Array:
		return "array"
	case Object:
		return "object"
	case Tagged:
		return "tagged"
	default:
		return "unknown"
	}
}

// Num is the exact-decimal numeric carrier: an arbitrary-precision
// rational plus the original literal text, when parsed from one, so a
// JSON number round-trips losslessly even past 64 bits of precision.
type Num struct {
	rat *big.Rat
	lit string // original text form, if read from wire bytes; "" if constructed
}

// NewNumFromInt builds an exact Num from an int64.
func NewNumFromInt(i int64) Num {
	return Num{rat: new(big.Rat).SetInt64(i)}
}

// NewNumFromFloat builds a Num from a float64. NaN and +/-Inf are
// represented with a nil rat and a sentinel literal; they compare unequal
// to themselves under Equal, mirroring IEEE NaN semantics for ordering.
func NewNumFromFloat(f float64) Num {
	if isSpecialFloat(f) {
		return Num{lit: specialFloatLiteral(f)}
	}
	r := new(big.Rat)
	r.SetFloat64(f)
	return Num{rat: r}
}

// NewNumFromString parses a JSON/decimal literal exactly, keeping the
// original text so MarshalJSON can round-trip it unchanged.
func NewNumFromString(s string) (Num, bool) {
	r := new(big.Rat)
	if _, ok := r.SetString(s); !ok {
		return Num{}, false
	}
	return Num{rat: r, lit: s}, true
}

func isSpecialFloat(f float64) bool {
	return f != f || f > maxFinite || f < -maxFinite
}

const maxFinite = 1.797693134862315708145274237317043567981e+308

func specialFloatLiteral(f float64) string {
	switch {
	case f != f:
		return "NaN"
	case f > 0:
		return "Infinity"
	default:
		return "-Infinity"
	}
}

// IsSpecial reports whether n is NaN or an infinity (no backing rational).
func (n Num) IsSpecial() bool { return n.rat == nil && n.lit != "" }

// Rat exposes the backing rational, or nil for NaN/Inf.
func (n Num) Rat() *big.Rat { return n.rat }

// Text renders the number the way it would appear on the wire: the
// original literal if one was captured, otherwise a canonical decimal
// rendering via big.Rat.
func (n Num) Text() string {
	if n.rat == nil {
		return n.lit
	}
	if n.lit != "" {
		return n.lit
	}
	if n.rat.IsInt() {
		return n.rat.Num().String()
	}
	return formatRat(n.rat)
}

func formatRat(r *big.Rat) string {
	// FloatString at generous precision then trim, matching the teacher's
	// Rat.FormatRat approach for non-integer decimals.
	const precision = 34
	s := r.FloatString(precision)
	i := len(s)
	for i > 0 && s[i-1] == '0' {
		i--
	}
	if i > 0 && s[i-1] == '.' {
		i--
	}
	return s[:i]
}

// AsInt64 returns n as an int64 only when that conversion is lossless.
func (n Num) AsInt64() (int64, bool) {
	if n.rat == nil || !n.rat.IsInt() {
		return 0, false
	}
	bi := n.rat.Num()
	if !bi.IsInt64() {
		return 0, false
	}
	return bi.Int64(), true
}

// AsFloat64 returns n as a float64 only when finite and within range;
// callers that need the special values should check IsSpecial first.
func (n Num) AsFloat64() (float64, bool) {
	if n.rat == nil {
		return 0, false
	}
	f, exact := n.rat.Float64()
	return f, exact
}

// AsBigInt returns n as a *big.Int when it is an exact integer.
func (n Num) AsBigInt() (*big.Int, bool) {
	if n.rat == nil || !n.rat.IsInt() {
		return nil, false
	}
	return new(big.Int).Set(n.rat.Num()), true
}

// Equal compares two Nums by decimal value. Per IEEE semantics, a special
// value (NaN) never equals anything, including another NaN-literal Num.
func (n Num) Equal(o Num) bool {
	if n.IsSpecial() || o.IsSpecial() {
		return false
	}
	if n.rat == nil || o.rat == nil {
		return false
	}
	return n.rat.Cmp(o.rat) == 0
}

// Entry is one key/value pair of an ordered Object.
type Entry struct {
	Key Value
	Val Value
}

// Value is the universal tagged union described in §3 of the spec: null,
// bool, number, bytes, string, array, object (insertion-ordered), or a
// tagged wrapper around any other Value.
type Value struct {
	kind    Kind
	boolean bool
	num     Num
	bytes   []byte
	str     string
	arr     []Value
	obj     []Entry
	objIdx  map[string]int // fast path for string-keyed lookups
	tag     string
	inner   *Value
}

func NewNull() Value                { return Value{kind: Null} }
func NewBool(b bool) Value          { return Value{kind: Bool, boolean: b} }
func NewNumber(n Num) Value         { return Value{kind: Number, num: n} }
func NewInt(i int64) Value          { return NewNumber(NewNumFromInt(i)) }
func NewFloat(f float64) Value      { return NewNumber(NewNumFromFloat(f)) }
func NewBytes(b []byte) Value       { return Value{kind: Bytes, bytes: append([]byte(nil), b...)} }
func NewString(s string) Value      { return Value{kind: String, str: s} }
func NewArray(items ...Value) Value { return Value{kind: Array, arr: append([]Value(nil), items...)} }

// NewObject builds an insertion-ordered object from entries, in order.
func NewObject(entries ...Entry) Value {
	v := Value{kind: Object, obj: append([]Entry(nil), entries...)}
	v.reindex()
	return v
}

// NewTagged wraps inner with a tag name; accessors below are transparent
// through it, equality is not (see Equal).
func NewTagged(tag string, inner Value) Value {
	cp := inner
	return Value{kind: Tagged, tag: tag, inner: &cp}
}

func (v Value) reindex() {
	// no-op placeholder kept for symmetry with object-mutating helpers;
	// index is built lazily by withIndex to avoid paying the cost on
	// every NewObject call in the (common) small-object case.
}

func (v *Value) withIndex() map[string]int {
	if v.objIdx != nil {
		return v.objIdx
	}
	idx := make(map[string]int, len(v.obj))
	for i, e := range v.obj {
		if e.Key.kind == String {
			idx[e.Key.str] = i
		}
	}
	v.objIdx = idx
	return idx
}

func (v Value) Kind() Kind { return v.kind }

// deref walks through Tagged wrappers; accessors call this first so they
// are transparent to tags per the §3 invariant.
func (v Value) deref() Value {
	for v.kind == Tagged && v.inner != nil {
		v = *v.inner
	}
	return v
}

func (v Value) IsNull() bool { return v.deref().kind == Null }

func (v Value) Bool() (bool, bool) {
	d := v.deref()
	if d.kind != Bool {
		return false, false
	}
	return d.boolean, true
}

func (v Value) Number() (Num, bool) {
	d := v.deref()
	if d.kind != Number {
		return Num{}, false
	}
	return d.num, true
}

func (v Value) Bytes() ([]byte, bool) {
	d := v.deref()
	if d.kind != Bytes {
		return nil, false
	}
	return d.bytes, true
}

func (v Value) String() (string, bool) {
	d := v.deref()
	if d.kind != String {
		return "", false
	}
	return d.str, true
}

func (v Value) Array() ([]Value, bool) {
	d := v.deref()
	if d.kind != Array {
		return nil, false
	}
	return d.arr, true
}

func (v Value) Object() ([]Entry, bool) {
	d := v.deref()
	if d.kind != Object {
		return nil, false
	}
	return d.obj, true
}

// Lookup fetches an object member by string key, recursing through tags.
func (v Value) Lookup(key string) (Value, bool) {
	d := v.deref()
	if d.kind != Object {
		return Value{}, false
	}
	idx := d.withIndex()
	i, ok := idx[key]
	if !ok {
		return Value{}, false
	}
	return d.obj[i].Val, true
}

// Tag returns the tag name and whether v is a Tagged value at the top level
// (not recursing through it).
func (v Value) Tag() (string, Value, bool) {
	if v.kind != Tagged {
		return "", Value{}, false
	}
	return v.tag, *v.inner, true
}

// StripTags returns a copy of v with every Tagged wrapper (at any depth)
// removed, recursively.
func StripTags(v Value) Value {
	switch v.kind {
	case Tagged:
		return StripTags(*v.inner)
	case Array:
		out := make([]Value, len(v.arr))
		for i, e := range v.arr {
			out[i] = StripTags(e)
		}
		return Value{kind: Array, arr: out}
	case Object:
		out := make([]Entry, len(v.obj))
		for i, e := range v.obj {
			out[i] = Entry{Key: StripTags(e.Key), Val: StripTags(e.Val)}
		}
		return NewObject(out...)
	default:
		return v
	}
}

// Equal implements structural equality: object keys compare as distinct
// whenever their structural equality differs (so "0" and 0 are distinct
// keys), key order is irrelevant to equality, and Tagged is NOT
// transparent here — a tagged value never equals its bare inner value.
func Equal(a, b Value) bool {
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case Null:
		return true
	case Bool:
		return a.boolean == b.boolean
	case Number:
		return a.num.Equal(b.num)
	case Bytes:
		return string(a.bytes) == string(b.bytes)
	case String:
		return a.str == b.str
	case Array:
		if len(a.arr) != len(b.arr) {
			return false
		}
		for i := range a.arr {
			if !Equal(a.arr[i], b.arr[i]) {
				return false
			}
		}
		return true
	case Object:
		if len(a.obj) != len(b.obj) {
			return false
		}
		bIdx := make(map[string]Entry, len(b.obj))
		var bNonString []Entry
		for _, e := range b.obj {
			if s, ok := e.Key.String(); ok {
				bIdx[s] = e
			} else {
				bNonString = append(bNonString, e)
			}
		}
		for _, ea := range a.obj {
			if s, ok := ea.Key.String(); ok {
				eb, found := bIdx[s]
				if !found || !Equal(ea.Val, eb.Val) {
					return false
				}
				continue
			}
			matched := false
			for _, eb := range bNonString {
				if Equal(ea.Key, eb.Key) && Equal(ea.Val, eb.Val) {
					matched = true
					break
				}
			}
			if !matched {
				return false
			}
		}
		return true
	case Tagged:
		return a.tag == b.tag && Equal(*a.inner, *b.inner)
	default:
		return false
	}
}

// Hash produces a hash consistent with Equal: structurally-equal Values
// hash identically. It is not cryptographic and not stable across process
// runs for map iteration order (object member order does not affect it).
func Hash(v Value) uint64 {
	const prime = 1099511628211
	h := uint64(14695981039346656037)
	mix := func(b byte) { h ^= uint64(b); h *= prime }
	mixStr := func(s string) {
		for i := 0; i < len(s); i++ {
			mix(s[i])
		}
	}

	switch v.kind {
	case Null:
		mix(0)
	case Bool:
		mix(1)
		if v.boolean {
			mix(1)
		}
	case Number:
		mix(2)
		mixStr(v.num.Text())
	case Bytes:
		mix(3)
		for _, b := range v.bytes {
			mix(b)
		}
	case String:
		mix(4)
		mixStr(v.str)
	case Array:
		mix(5)
		for _, e := range v.arr {
			h ^= Hash(e)
		}
	case Object:
		mix(6)
		// XOR per-entry hashes so member order does not affect the result,
		// matching Equal's order-independence.
		var entryHashes uint64
		for _, e := range v.obj {
			entryHashes ^= Hash(e.Key)*31 + Hash(e.Val)
		}
		h ^= entryHashes
	case Tagged:
		mix(7)
		mixStr(v.tag)
		h ^= Hash(*v.inner)
	}
	return h
}

// SortedKeys returns the string keys of an object sorted lexically; used
// by deterministic encoders (e.g. CBOR canonical mode), not by Equal/Hash.
func SortedKeys(entries []Entry) []string {
	keys := make([]string, 0, len(entries))
	for _, e := range entries {
		if s, ok := e.Key.String(); ok {
			keys = append(keys, s)
		}
	}
	sort.Strings(keys)
	return keys
}

// Native unwraps v into the plain map[string]interface{} / []interface{} /
// string / float64 / bool / nil shape that the schema evaluator walks, the
// same shape encoding/json produces for `any`. This lets any value.Reader
// (YAML, CBOR, JSON) feed a decoded document into schema evaluation without
// the evaluator needing to know which wire format produced it. Tags are
// transparent: Native recurses through them and keeps only the inner value,
// since JSON Schema has no notion of a YAML/CBOR tag.
func Native(v Value) interface{} {
	v = StripTags(v)
	switch v.kind {
	case Null:
		return nil
	case Bool:
		b, _ := v.Bool()
		return b
	case Number:
		n, _ := v.Number()
		if f, ok := n.AsFloat64(); ok {
			return f
		}
		return n.Text()
	case Bytes:
		b, _ := v.Bytes()
		return b
	case String:
		s, _ := v.String()
		return s
	case Array:
		arr, _ := v.Array()
		out := make([]interface{}, len(arr))
		for i, e := range arr {
			out[i] = Native(e)
		}
		return out
	case Object:
		obj, _ := v.Object()
		out := make(map[string]interface{}, len(obj))
		for _, e := range obj {
			k, _ := e.Key.String()
			out[k] = Native(e.Val)
		}
		return out
	default:
		return nil
	}
}
