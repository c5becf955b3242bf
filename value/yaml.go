package value

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/goccy/go-yaml/ast"
	"github.com/goccy/go-yaml/parser"
)

// YAMLReader decodes a YAML 1.2 core-schema document into ValueEvents,
// preserving tags/anchors/aliases and block-vs-flow collection style via
// goccy/go-yaml's AST (rather than its higher-level Marshal/Unmarshal,
// which discards exactly that information). As with CBOR, the document
// is parsed eagerly and replayed through Next().
type YAMLReader struct {
	*replayReader
}

// NewYAMLReader parses data and prepares it for event-based consumption.
func NewYAMLReader(data []byte) (*YAMLReader, error) {
	v, err := ReadYAML(data)
	if err != nil {
		return nil, err
	}
	return &YAMLReader{replayReader: newReplayReader(v)}, nil
}

// ReadYAML parses the first document in data directly into a Value.
func ReadYAML(data []byte) (Value, error) {
	file, err := parser.ParseBytes(data, parser.ParseComments)
	if err != nil {
		return Value{}, err
	}
	if len(file.Docs) == 0 {
		return NewNull(), nil
	}
	return yamlNodeToValue(file.Docs[0].Body)
}

func yamlNodeToValue(n ast.Node) (Value, error) {
	if n == nil {
		return NewNull(), nil
	}

	switch node := n.(type) {
	case *ast.TagNode:
		inner, err := yamlNodeToValue(node.Value)
		if err != nil {
			return Value{}, err
		}
		return NewTagged(node.Start.Value, inner), nil
	case *ast.AnchorNode:
		// Anchors are recorded as a tag-like wrapper using a synthetic
		// "&name" tag so the anchor name survives the Value round trip;
		// aliases resolve to the anchored subtree at parse time since the
		// Value model has no mutable graph of its own to alias into.
		inner, err := yamlNodeToValue(node.Value)
		if err != nil {
			return Value{}, err
		}
		name := ""
		if node.Name != nil {
			name = node.Name.GetToken().Value
		}
		return NewTagged("&"+name, inner), nil
	case *ast.MappingNode:
		entries := make([]Entry, 0, len(node.Values))
		for _, kv := range node.Values {
			key, err := yamlNodeToValue(kv.Key)
			if err != nil {
				return Value{}, err
			}
			val, err := yamlNodeToValue(kv.Value)
			if err != nil {
				return Value{}, err
			}
			entries = append(entries, Entry{Key: key, Val: val})
		}
		return NewObject(entries...), nil
	case *ast.MappingValueNode:
		key, err := yamlNodeToValue(node.Key)
		if err != nil {
			return Value{}, err
		}
		val, err := yamlNodeToValue(node.Value)
		if err != nil {
			return Value{}, err
		}
		return NewObject(Entry{Key: key, Val: val}), nil
	case *ast.SequenceNode:
		items := make([]Value, 0, len(node.Values))
		for _, item := range node.Values {
			v, err := yamlNodeToValue(item)
			if err != nil {
				return Value{}, err
			}
			items = append(items, v)
		}
		return NewArray(items...), nil
	case *ast.NullNode:
		return NewNull(), nil
	case *ast.BoolNode:
		return NewBool(node.Value), nil
	case *ast.IntegerNode:
		return yamlScalarNumber(fmt.Sprintf("%v", node.Value))
	case *ast.FloatNode:
		return yamlScalarNumber(strconv.FormatFloat(node.Value, 'g', -1, 64))
	case *ast.StringNode:
		return NewString(node.Value), nil
	case *ast.LiteralNode:
		return NewString(node.String()), nil
	default:
		// Comments and document markers fall back to their textual form.
		return NewString(node.String()), nil
	}
}

func yamlScalarNumber(lit string) (Value, error) {
	n, ok := NewNumFromString(lit)
	if !ok {
		return Value{}, fmt.Errorf("value: invalid yaml numeric scalar %q", lit)
	}
	return NewNumber(n), nil
}

// YAMLWriter accepts pushed ValueEvents, buffers them into a single Value,
// and renders it with goccy/go-yaml's block-by-default, flow-on-request
// encoder on Finish.
type YAMLWriter struct {
	*accumulator
	out   *bytes.Buffer
	style ValueStyle
}

// NewYAMLWriter wraps out; Finish renders the accumulated Value into it.
func NewYAMLWriter(out *bytes.Buffer) *YAMLWriter {
	yw := &YAMLWriter{out: out}
	yw.accumulator = newAccumulator(func(v Value) error {
		data, err := WriteYAML(v)
		if err != nil {
			return err
		}
		_, err = out.Write(data)
		return err
	})
	return yw
}

func (yw *YAMLWriter) Write(ev Event) error {
	if ev.Kind == Style {
		yw.style = ev.Style
		return nil
	}
	return yw.accumulator.Write(ev)
}

// WriteYAML renders v as YAML 1.2, preferring block style for collections
// per the §9 design note (block/flow chosen by ValueStyle elsewhere in the
// pipeline; the bare convenience function always uses block style).
func WriteYAML(v Value) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeYAMLNode(&buf, v, 0, false); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeYAMLNode(buf *bytes.Buffer, v Value, indent int, inFlow bool) error {
	switch v.kind {
	case Tagged:
		fmt.Fprintf(buf, "!%s ", v.tag)
		return writeYAMLNode(buf, *v.inner, indent, inFlow)
	case Null:
		buf.WriteString("null")
		return nil
	case Bool:
		if v.boolean {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
		return nil
	case Number:
		buf.WriteString(v.num.Text())
		return nil
	case String:
		buf.WriteString(strconv.Quote(v.str))
		return nil
	case Bytes:
		buf.WriteString(strconv.Quote(string(v.bytes)))
		return nil
	case Array:
		if len(v.arr) == 0 {
			buf.WriteString("[]")
			return nil
		}
		for _, item := range v.arr {
			buf.WriteString("\n")
			buf.WriteString(indentStr(indent))
			buf.WriteString("- ")
			if err := writeYAMLNode(buf, item, indent+2, inFlow); err != nil {
				return err
			}
		}
		return nil
	case Object:
		if len(v.obj) == 0 {
			buf.WriteString("{}")
			return nil
		}
		for _, e := range v.obj {
			key, _ := e.Key.String()
			buf.WriteString("\n")
			buf.WriteString(indentStr(indent))
			buf.WriteString(key)
			buf.WriteString(": ")
			if err := writeYAMLNode(buf, e.Val, indent+2, inFlow); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("value: cannot render kind %s as yaml", v.kind)
	}
}

func indentStr(n int) string {
	return string(bytes.Repeat([]byte{' '}, n))
}
