// Package yaml archives property trees as YAML block mappings:
//
//	properties:
//	  bg_color:
//	    blue: 0
//	  x: 13
//
// Key order follows the encoder calls, so saved documents keep canonical
// order. Scalars are kept as written, including null. Sequences and aliases
// are rejected.
package yaml

import (
	"bytes"
	"strconv"

	"github.com/go-slark/proptree/archiver"
	"github.com/go-slark/proptree/errors"
	"gopkg.in/yaml.v3"
)

const Name = "yaml"

func init() {
	archiver.Register(New(), ".yaml", ".yml")
}

type Option func(*Archiver)

func Indent(spaces int) Option {
	return func(a *Archiver) {
		a.indent = spaces
	}
}

type Archiver struct {
	indent int
}

func New(opts ...Option) *Archiver {
	a := &Archiver{indent: 2}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *Archiver) Name() string {
	return Name
}

func (a *Archiver) NewEncoder() archiver.Encoder {
	return &encoder{indent: a.indent}
}

type encoder struct {
	archiver.TreeEncoder
	indent int
}

func (e *encoder) Bytes() ([]byte, error) {
	root, err := e.Tree()
	if err != nil {
		return nil, err
	}
	doc := &yaml.Node{
		Kind: yaml.DocumentNode,
		Content: []*yaml.Node{{
			Kind:    yaml.MappingNode,
			Content: toYAML(root),
		}},
	}

	buf := &bytes.Buffer{}
	enc := yaml.NewEncoder(buf)
	enc.SetIndent(e.indent)
	if err = enc.Encode(doc); err != nil {
		return nil, err
	}
	if err = enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// toYAML returns the key/value pair for n as mapping content.
func toYAML(n *archiver.Node) []*yaml.Node {
	key := &yaml.Node{Kind: yaml.ScalarNode, Value: n.Name()}
	if n.IsLeaf() {
		return []*yaml.Node{key, {Kind: yaml.ScalarNode, Value: n.Value()}}
	}
	m := &yaml.Node{Kind: yaml.MappingNode}
	for _, c := range n.Children() {
		m.Content = append(m.Content, toYAML(c)...)
	}
	return []*yaml.Node{key, m}
}

func (a *Archiver) Decode(data []byte) (*archiver.Node, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Malformed("yaml syntax error").WithError(err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, errors.Malformed("empty document")
	}
	top := doc.Content[0]
	if top.Kind != yaml.MappingNode || len(top.Content) != 2 {
		return nil, lineError(errors.Malformed("document must hold exactly one root mapping key"), top)
	}
	return fromYAML(top.Content[0], top.Content[1])
}

func fromYAML(key, value *yaml.Node) (*archiver.Node, error) {
	if key.Kind != yaml.ScalarNode {
		return nil, lineError(errors.Malformed("mapping keys must be scalars"), key)
	}
	switch value.Kind {
	case yaml.ScalarNode:
		return archiver.NewLeaf(key.Value, value.Value), nil
	case yaml.MappingNode:
		scope := archiver.NewScope(key.Value)
		for i := 0; i+1 < len(value.Content); i += 2 {
			child, err := fromYAML(value.Content[i], value.Content[i+1])
			if err != nil {
				return nil, err
			}
			if err = scope.Add(child); err != nil {
				return nil, lineError(errors.FromError(err), value.Content[i])
			}
		}
		return scope, nil
	default:
		return nil, lineError(errors.Malformed("unsupported yaml node").WithMeta(errors.MetaPath, key.Value), value)
	}
}

func lineError(e *errors.Error, n *yaml.Node) error {
	return e.WithMeta(errors.MetaLine, strconv.Itoa(n.Line))
}
