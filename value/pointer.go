package value

import "github.com/dataspec/jsonschema/pointer"

// At resolves a Pointer against v, returning the addressed Value.
func At(v Value, p pointer.Pointer) (Value, bool) {
	cur := v
	for _, tok := range p {
		d := cur.deref()
		switch d.kind {
		case Object:
			name := tok.Name
			if tok.Kind == pointer.KindIndex {
				name = itoa(tok.Index)
			}
			next, ok := d.Lookup(name)
			if !ok {
				return Value{}, false
			}
			cur = next
		case Array:
			if tok.Kind != pointer.KindIndex || tok.Index < 0 || tok.Index >= len(d.arr) {
				return Value{}, false
			}
			cur = d.arr[tok.Index]
		default:
			return Value{}, false
		}
	}
	return cur, true
}

// With returns a new Value with the pointer target replaced, per the
// "v.with(pointer, newValue) == v" round-trip invariant when newValue is
// the value already at that pointer.
func With(v Value, p pointer.Pointer, newValue Value) (Value, bool) {
	if len(p) == 0 {
		return newValue, true
	}
	return withAt(v, p, newValue)
}

func withAt(v Value, p pointer.Pointer, newValue Value) (Value, bool) {
	tok := p[0]
	rest := p[1:]

	switch v.kind {
	case Object:
		name := tok.Name
		if tok.Kind == pointer.KindIndex {
			name = itoa(tok.Index)
		}
		idx := v.withIndex()
		out := make([]Entry, len(v.obj))
		copy(out, v.obj)
		if i, ok := idx[name]; ok {
			if len(rest) == 0 {
				out[i] = Entry{Key: out[i].Key, Val: newValue}
				return NewObject(out...), true
			}
			updated, ok := withAt(out[i].Val, rest, newValue)
			if !ok {
				return Value{}, false
			}
			out[i] = Entry{Key: out[i].Key, Val: updated}
			return NewObject(out...), true
		}
		if len(rest) != 0 {
			return Value{}, false
		}
		out = append(out, Entry{Key: NewString(name), Val: newValue})
		return NewObject(out...), true
	case Array:
		out := make([]Value, len(v.arr))
		copy(out, v.arr)
		if tok.Kind == pointer.KindAppend {
			if len(rest) != 0 {
				return Value{}, false
			}
			return NewArray(append(out, newValue)...), true
		}
		if tok.Kind != pointer.KindIndex || tok.Index < 0 || tok.Index >= len(out) {
			return Value{}, false
		}
		if len(rest) == 0 {
			out[tok.Index] = newValue
			return NewArray(out...), true
		}
		updated, ok := withAt(out[tok.Index], rest, newValue)
		if !ok {
			return Value{}, false
		}
		out[tok.Index] = updated
		return NewArray(out...), true
	default:
		return Value{}, false
	}
}

func itoa(i int) string {
	if i == 0 {
		return "0"
	}
	neg := i < 0
	if neg {
		i = -i
	}
	var buf [20]byte
	pos := len(buf)
	for i > 0 {
		pos--
		buf[pos] = byte('0' + i%10)
		i /= 10
	}
	if neg {
		pos--
		buf[pos] = '-'
	}
	return string(buf[pos:])
}
