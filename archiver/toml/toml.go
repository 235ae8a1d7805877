// Package toml archives property trees as TOML tables. Every leaf is written
// as a quoted string under the table of its scope:
//
//	[properties]
//	  x = "13"
//	  [properties.bg_color]
//	    blue = "0"
//
// Within a table the leaves come before nested tables, each sorted by name.
// Hand written documents may use bare numbers, booleans and dates for leaves;
// they are read back as their textual form. Arrays are rejected.
package toml

import (
	"bytes"
	"sort"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/go-slark/proptree/archiver"
	"github.com/go-slark/proptree/errors"
	"github.com/spf13/cast"
)

const Name = "toml"

func init() {
	archiver.Register(New(), ".toml")
}

type Option func(*Archiver)

// Indent sets the indentation per table level. Default two spaces.
func Indent(indent string) Option {
	return func(a *Archiver) {
		a.indent = indent
	}
}

type Archiver struct {
	indent string
}

func New(opts ...Option) *Archiver {
	a := &Archiver{indent: "  "}
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
	indent string
}

func (e *encoder) Bytes() ([]byte, error) {
	root, err := e.Tree()
	if err != nil {
		return nil, err
	}
	buf := &bytes.Buffer{}
	enc := toml.NewEncoder(buf)
	enc.Indent = e.indent
	doc := map[string]interface{}{root.Name(): toTOML(root)}
	if err = enc.Encode(doc); err != nil {
		return nil, errors.Malformed("toml encode").WithError(err)
	}
	return buf.Bytes(), nil
}

func toTOML(n *archiver.Node) interface{} {
	if n.IsLeaf() {
		return n.Value()
	}
	m := make(map[string]interface{}, n.Len())
	for _, c := range n.Children() {
		m[c.Name()] = toTOML(c)
	}
	return m
}

func (a *Archiver) Decode(data []byte) (*archiver.Node, error) {
	var doc map[string]interface{}
	if _, err := toml.Decode(string(data), &doc); err != nil {
		e := errors.Malformed("toml syntax error").WithError(err)
		var pe toml.ParseError
		if errors.As(err, &pe) {
			e = e.WithMeta(errors.MetaLine, strconv.Itoa(pe.Position.Line))
		}
		return nil, e
	}
	switch len(doc) {
	case 0:
		return nil, errors.Malformed("empty document")
	case 1:
	default:
		return nil, errors.Malformed("document must hold exactly one root table")
	}
	for name, v := range doc {
		return fromTOML(name, name, v)
	}
	return nil, nil
}

func fromTOML(path, name string, v interface{}) (*archiver.Node, error) {
	switch t := v.(type) {
	case map[string]interface{}:
		scope := archiver.NewScope(name)
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			child, err := fromTOML(path+"."+k, k, t[k])
			if err != nil {
				return nil, err
			}
			if err = scope.Add(child); err != nil {
				return nil, err
			}
		}
		return scope, nil
	case []interface{}, []map[string]interface{}:
		return nil, errors.Malformed("arrays are not supported").WithMeta(errors.MetaPath, path)
	case time.Time:
		return archiver.NewLeaf(name, t.Format(time.RFC3339Nano)), nil
	default:
		s, err := cast.ToStringE(v)
		if err != nil {
			return nil, errors.Malformed("unsupported toml value").WithMeta(errors.MetaPath, path).WithError(err)
		}
		return archiver.NewLeaf(name, s), nil
	}
}
