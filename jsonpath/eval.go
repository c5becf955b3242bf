package jsonpath

import (
	"regexp"

	"github.com/dataspec/jsonschema/value"
)

// Node is one result of a Query evaluation: the matched value together with
// the normalized path that addressed it (RFC 9535 §2.7).
type Node struct {
	Value value.Value
	Path  string
}

// arrOf/objKeysOf adapt value.Value's tag-transparent Array()/Object()
// accessors to the (slice, key-list) shapes the selector logic wants.
func arrOf(v value.Value) []value.Value {
	arr, _ := v.Array()
	return arr
}

func objKeysOf(v value.Value) []string {
	entries, _ := v.Object()
	keys := make([]string, 0, len(entries))
	for _, e := range entries {
		if s, ok := e.Key.String(); ok {
			keys = append(keys, s)
		}
	}
	return keys
}

func numFloat(v value.Value) (float64, bool) {
	n, ok := v.Number()
	if !ok {
		return 0, false
	}
	return n.AsFloat64()
}

// Select evaluates q against root and returns every matching node in
// visitation order.
func (q Query) Select(root value.Value) []Node {
	nodes := []Node{{Value: root, Path: "$"}}
	for _, seg := range q.segments {
		var next []Node
		for _, n := range nodes {
			next = append(next, evalSegment(seg, n, root)...)
		}
		nodes = next
	}
	return nodes
}

// Exists reports whether q matches at least one node in root.
func (q Query) Exists(root value.Value) bool {
	return len(q.Select(root)) > 0
}

func evalSegment(seg segment, n Node, root value.Value) []Node {
	if seg.kind == segDescendant {
		var out []Node
		var walk func(Node)
		walk = func(cur Node) {
			out = append(out, evalSelectorsOnNode(seg.selectors, cur, root)...)
			v := cur.Value
			switch v.Kind() {
			case value.Array:
				for i, item := range arrOf(v) {
					walk(Node{Value: item, Path: childPath(cur.Path, itoa(i))})
				}
			case value.Object:
				for _, key := range objKeysOf(v) {
					item, _ := v.Lookup(key)
					walk(Node{Value: item, Path: childPath(cur.Path, quotePathKey(key))})
				}
			}
		}
		walk(n)
		return out
	}
	return evalSelectorsOnNode(seg.selectors, n, root)
}

func evalSelectorsOnNode(sels []selector, n Node, root value.Value) []Node {
	var out []Node
	for _, sel := range sels {
		out = append(out, evalSelector(sel, n, root)...)
	}
	return out
}

func evalSelector(sel selector, n Node, root value.Value) []Node {
	v := n.Value
	switch s := sel.(type) {
	case nameSelector:
		if v.Kind() != value.Object {
			return nil
		}
		child, ok := v.Lookup(s.name)
		if !ok {
			return nil
		}
		return []Node{{Value: child, Path: childPath(n.Path, quotePathKey(s.name))}}
	case wildcardSelector:
		switch v.Kind() {
		case value.Array:
			arr := arrOf(v)
			out := make([]Node, 0, len(arr))
			for i, item := range arr {
				out = append(out, Node{Value: item, Path: childPath(n.Path, itoa(i))})
			}
			return out
		case value.Object:
			keys := objKeysOf(v)
			out := make([]Node, 0, len(keys))
			for _, key := range keys {
				item, _ := v.Lookup(key)
				out = append(out, Node{Value: item, Path: childPath(n.Path, quotePathKey(key))})
			}
			return out
		}
		return nil
	case indexSelector:
		if v.Kind() != value.Array {
			return nil
		}
		arr := arrOf(v)
		idx := s.index
		if idx < 0 {
			idx += len(arr)
		}
		if idx < 0 || idx >= len(arr) {
			return nil
		}
		return []Node{{Value: arr[idx], Path: childPath(n.Path, itoa(idx))}}
	case sliceSelector:
		if v.Kind() != value.Array {
			return nil
		}
		arr := arrOf(v)
		start, end, step := normalizeSlice(s, len(arr))
		var out []Node
		if step > 0 {
			for i := start; i < end; i += step {
				out = append(out, Node{Value: arr[i], Path: childPath(n.Path, itoa(i))})
			}
		} else if step < 0 {
			for i := start; i > end; i += step {
				out = append(out, Node{Value: arr[i], Path: childPath(n.Path, itoa(i))})
			}
		}
		return out
	case filterSelector:
		var out []Node
		switch v.Kind() {
		case value.Array:
			for i, item := range arrOf(v) {
				if evalBool(s.expr, item, root) {
					out = append(out, Node{Value: item, Path: childPath(n.Path, itoa(i))})
				}
			}
		case value.Object:
			for _, key := range objKeysOf(v) {
				item, _ := v.Lookup(key)
				if evalBool(s.expr, item, root) {
					out = append(out, Node{Value: item, Path: childPath(n.Path, quotePathKey(key))})
				}
			}
		}
		return out
	default:
		return nil
	}
}

func normalizeSlice(s sliceSelector, length int) (start, end, step int) {
	step = 1
	if s.step != nil {
		step = *s.step
	}
	if step == 0 {
		return 0, 0, 0
	}
	if step > 0 {
		start, end = 0, length
	} else {
		start, end = length-1, -1
	}
	if s.start != nil {
		start = normalizeIndex(*s.start, length, step > 0)
	}
	if s.end != nil {
		end = normalizeIndex(*s.end, length, step > 0)
	}
	return start, end, step
}

func normalizeIndex(i, length int, forward bool) int {
	if i < 0 {
		i += length
	}
	if forward {
		if i < 0 {
			i = 0
		}
		if i > length {
			i = length
		}
	} else {
		if i < -1 {
			i = -1
		}
		if i >= length {
			i = length - 1
		}
	}
	return i
}

func childPath(parent, token string) string {
	return parent + "[" + token + "]"
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

func quotePathKey(key string) string {
	out := make([]byte, 0, len(key)+2)
	out = append(out, '\'')
	for i := 0; i < len(key); i++ {
		if key[i] == '\'' || key[i] == '\\' {
			out = append(out, '\\')
		}
		out = append(out, key[i])
	}
	out = append(out, '\'')
	return string(out)
}

// evalBool evaluates a filter expr for a candidate item (bound to @) within
// root (bound to $).
func evalBool(e expr, item value.Value, root value.Value) bool {
	switch ex := e.(type) {
	case orExpr:
		return evalBool(ex.left, item, root) || evalBool(ex.right, item, root)
	case andExpr:
		return evalBool(ex.left, item, root) && evalBool(ex.right, item, root)
	case notExpr:
		return !evalBool(ex.inner, item, root)
	case testExpr:
		return pathExists(ex.path, item, root)
	case compareExpr:
		lv, lok := evalValue(ex.left, item, root)
		rv, rok := evalValue(ex.right, item, root)
		return compare(ex.op, lv, lok, rv, rok)
	default:
		return false
	}
}

func pathExists(v valueExpr, item, root value.Value) bool {
	switch ve := v.(type) {
	case pathExpr:
		base := root
		if ve.relative {
			base = item
		}
		return ve.query.Exists(base)
	case funcCallExpr:
		res, ok := callFunc(ve, item, root)
		if !ok {
			return false
		}
		if b, isBool := res.(bool); isBool {
			return b
		}
		return res != nil
	default:
		val, ok := evalValue(v, item, root)
		return ok && val != nil
	}
}

// evalValue resolves a valueExpr to a comparable Go value (string, float64,
// bool, or nil).
func evalValue(v valueExpr, item, root value.Value) (interface{}, bool) {
	switch ve := v.(type) {
	case literalExpr:
		return ve.value, true
	case pathExpr:
		base := root
		if ve.relative {
			base = item
		}
		nodes := ve.query.Select(base)
		if len(nodes) != 1 {
			return nil, false
		}
		return scalarOf(nodes[0].Value), true
	case funcCallExpr:
		return callFunc(ve, item, root)
	default:
		return nil, false
	}
}

func scalarOf(v value.Value) interface{} {
	switch v.Kind() {
	case value.Null:
		return nil
	case value.Bool:
		b, _ := v.Bool()
		return b
	case value.String:
		s, _ := v.String()
		return s
	case value.Number:
		f, _ := numFloat(v)
		return f
	default:
		return nil
	}
}

func compare(op string, l interface{}, lok bool, r interface{}, rok bool) bool {
	if !lok || !rok {
		return op == "!="
	}
	switch op {
	case "==":
		return equalValues(l, r)
	case "!=":
		return !equalValues(l, r)
	}
	lf, lIsNum := l.(float64)
	rf, rIsNum := r.(float64)
	if !lIsNum || !rIsNum {
		ls, lIsStr := l.(string)
		rs, rIsStr := r.(string)
		if lIsStr && rIsStr {
			switch op {
			case "<":
				return ls < rs
			case "<=":
				return ls <= rs
			case ">":
				return ls > rs
			case ">=":
				return ls >= rs
			}
		}
		return false
	}
	switch op {
	case "<":
		return lf < rf
	case "<=":
		return lf <= rf
	case ">":
		return lf > rf
	case ">=":
		return lf >= rf
	default:
		return false
	}
}

func equalValues(l, r interface{}) bool {
	switch lv := l.(type) {
	case nil:
		return r == nil
	case bool:
		rv, ok := r.(bool)
		return ok && lv == rv
	case string:
		rv, ok := r.(string)
		return ok && lv == rv
	case float64:
		rv, ok := r.(float64)
		return ok && lv == rv
	default:
		return false
	}
}

// Func is an extensible JSONPath function-extension implementation.
type Func func(args []interface{}) (interface{}, bool)

// Functions is the registry of function extensions available to filter
// expressions, pre-populated with RFC 9535 §2.4's required set.
var Functions = map[string]Func{
	"length": funcLength,
	"count":  funcCount,
	"match":  funcMatch,
	"search": funcSearch,
	"value":  funcValue,
}

func callFunc(ve funcCallExpr, item, root value.Value) (interface{}, bool) {
	fn, ok := Functions[ve.name]
	if !ok {
		return nil, false
	}
	args := make([]interface{}, len(ve.args))
	for i, a := range ve.args {
		if pe, isPath := a.(pathExpr); isPath {
			base := root
			if pe.relative {
				base = item
			}
			nodes := pe.query.Select(base)
			vals := make([]value.Value, len(nodes))
			for j, n := range nodes {
				vals[j] = n.Value
			}
			args[i] = vals
			continue
		}
		v, _ := evalValue(a, item, root)
		args[i] = v
	}
	return fn(args)
}

func funcLength(args []interface{}) (interface{}, bool) {
	if len(args) != 1 {
		return nil, false
	}
	switch v := args[0].(type) {
	case string:
		return float64(len([]rune(v))), true
	case []value.Value:
		if len(v) != 1 {
			return nil, false
		}
		return lengthOf(v[0])
	default:
		return nil, false
	}
}

func lengthOf(v value.Value) (interface{}, bool) {
	switch v.Kind() {
	case value.String:
		s, _ := v.String()
		return float64(len([]rune(s))), true
	case value.Array:
		return float64(len(arrOf(v))), true
	case value.Object:
		return float64(len(objKeysOf(v))), true
	default:
		return nil, false
	}
}

func funcCount(args []interface{}) (interface{}, bool) {
	if len(args) != 1 {
		return nil, false
	}
	nodes, ok := args[0].([]value.Value)
	if !ok {
		return float64(0), true
	}
	return float64(len(nodes)), true
}

func funcMatch(args []interface{}) (interface{}, bool) {
	return regexFunc(args, true)
}

func funcSearch(args []interface{}) (interface{}, bool) {
	return regexFunc(args, false)
}

func regexFunc(args []interface{}, anchored bool) (interface{}, bool) {
	if len(args) != 2 {
		return nil, false
	}
	for i, a := range args {
		if nodes, isNodes := a.([]value.Value); isNodes && len(nodes) == 1 {
			if str, ok := nodes[0].String(); ok {
				args[i] = str
			}
		}
	}
	s, ok1 := args[0].(string)
	pattern, ok2 := args[1].(string)
	if !ok1 || !ok2 {
		return false, true
	}
	if anchored && !(len(pattern) > 0 && pattern[0] == '^') {
		pattern = "^(?:" + pattern + ")$"
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return false, true
	}
	return re.MatchString(s), true
}

func funcValue(args []interface{}) (interface{}, bool) {
	if len(args) != 1 {
		return nil, false
	}
	nodes, ok := args[0].([]value.Value)
	if !ok {
		return args[0], true
	}
	if len(nodes) != 1 {
		return nil, false
	}
	return scalarOf(nodes[0]), true
}
