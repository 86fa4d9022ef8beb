package formats

import (
	"bytes"
	"fmt"
	"math"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/wippyai/rbuf/errors"
	"github.com/wippyai/rbuf/value"
)

// maxAliasDepth bounds alias expansion so self-referencing anchors fail instead of looping.
const maxAliasDepth = 64

func decodeYAML(data []byte) (value.Value, error) {
	var doc yaml.Node
	if err := yaml.NewDecoder(bytes.NewReader(data)).Decode(&doc); err != nil {
		return nil, errors.Wrap(errors.PhaseFormat, errors.KindInvalidInput, err, "parse yaml")
	}
	return fromNode(&doc, 0)
}

func fromNode(n *yaml.Node, aliases int) (value.Value, error) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return value.Null{}, nil
		}
		return fromNode(n.Content[0], aliases)

	case yaml.AliasNode:
		if aliases >= maxAliasDepth {
			return nil, yamlError(n, "alias nesting deeper than %d", maxAliasDepth)
		}
		return fromNode(n.Alias, aliases+1)

	case yaml.SequenceNode:
		arr := make(value.Array, 0, len(n.Content))
		for _, item := range n.Content {
			v, err := fromNode(item, aliases)
			if err != nil {
				return nil, err
			}
			arr = append(arr, v)
		}
		return arr, nil

	case yaml.MappingNode:
		obj := make(value.Object, 0, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			key, val := n.Content[i], n.Content[i+1]
			if key.ShortTag() == "!!merge" {
				if err := mergeInto(&obj, val, aliases); err != nil {
					return nil, err
				}
				continue
			}
			if key.Kind != yaml.ScalarNode {
				return nil, yamlError(key, "mapping key must be a scalar")
			}
			v, err := fromNode(val, aliases)
			if err != nil {
				return nil, err
			}
			obj.Set(key.Value, v)
		}
		return obj, nil

	case yaml.ScalarNode:
		return fromScalar(n)
	}
	return nil, yamlError(n, "unsupported node kind %d", n.Kind)
}

// mergeInto applies a << merge: members already present take precedence.
func mergeInto(obj *value.Object, n *yaml.Node, aliases int) error {
	if n.Kind == yaml.SequenceNode {
		for _, item := range n.Content {
			if err := mergeInto(obj, item, aliases); err != nil {
				return err
			}
		}
		return nil
	}
	v, err := fromNode(n, aliases)
	if err != nil {
		return err
	}
	src, ok := v.(value.Object)
	if !ok {
		return yamlError(n, "merge value must be a mapping")
	}
	for _, m := range src {
		if _, exists := obj.Get(m.Key); !exists {
			*obj = append(*obj, m)
		}
	}
	return nil
}

func fromScalar(n *yaml.Node) (value.Value, error) {
	switch n.ShortTag() {
	case "!!null":
		return value.Null{}, nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return nil, yamlError(n, "%v", err)
		}
		return value.Boolean(b), nil
	case "!!int", "!!float":
		var f float64
		if err := n.Decode(&f); err != nil {
			return nil, yamlError(n, "%v", err)
		}
		return value.Number(f), nil
	default:
		return value.String(n.Value), nil
	}
}

func yamlError(n *yaml.Node, format string, args ...any) error {
	return errors.New(errors.PhaseFormat, errors.KindInvalidInput).
		Detail("yaml line %d: %s", n.Line, fmt.Sprintf(format, args...)).
		Build()
}

func encodeYAML(v value.Value) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(toNode(v)); err != nil {
		return nil, errors.Wrap(errors.PhaseFormat, errors.KindConversion, err, "encode yaml")
	}
	if err := enc.Close(); err != nil {
		return nil, errors.Wrap(errors.PhaseFormat, errors.KindConversion, err, "encode yaml")
	}
	return buf.Bytes(), nil
}

func toNode(v value.Value) *yaml.Node {
	switch t := v.(type) {
	case value.Boolean:
		return scalar("!!bool", strconv.FormatBool(bool(t)))
	case value.Number:
		return numberNode(float64(t))
	case value.String:
		return scalar("!!str", string(t))
	case value.Array:
		n := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, item := range t {
			n.Content = append(n.Content, toNode(item))
		}
		return n
	case value.Object:
		n := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, m := range t {
			n.Content = append(n.Content, scalar("!!str", m.Key), toNode(m.Value))
		}
		return n
	default:
		return scalar("!!null", "null")
	}
}

func numberNode(f float64) *yaml.Node {
	switch {
	case math.IsNaN(f):
		return scalar("!!float", ".nan")
	case math.IsInf(f, 1):
		return scalar("!!float", ".inf")
	case math.IsInf(f, -1):
		return scalar("!!float", "-.inf")
	case f == math.Trunc(f) && math.Abs(f) < 1<<53:
		return scalar("!!int", strconv.FormatInt(int64(f), 10))
	}
	return scalar("!!float", strconv.FormatFloat(f, 'g', -1, 64))
}

func scalar(tag, val string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: val}
}
