// Package xml is the tag based text archiver:
//
//	<properties>
//	    <bg_color>
//	        <blue>0</blue>
//	    </bg_color>
//	    <x>13</x>
//	</properties>
//
// Indentation is cosmetic. Whitespace between tags is ignored when parsing;
// the text of a leaf is kept verbatim.
package xml

import (
	"bytes"
	"encoding/xml"
	"io"
	"strconv"
	"strings"

	"github.com/go-slark/proptree/archiver"
	"github.com/go-slark/proptree/errors"
)

const Name = "xml"

func init() {
	archiver.Register(New(), ".xml")
}

type Option func(*Archiver)

// Indent sets the string written once per nesting level. Default four spaces.
func Indent(indent string) Option {
	return func(a *Archiver) {
		a.indent = indent
	}
}

type Archiver struct {
	indent string
}

func New(opts ...Option) *Archiver {
	a := &Archiver{indent: "    "}
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
	buf    bytes.Buffer
	indent string
	stack  []string
	closed bool
}

func (e *encoder) pad() {
	for range e.stack {
		e.buf.WriteString(e.indent)
	}
}

func (e *encoder) Enter(name string) error {
	if e.closed {
		return errors.Malformed("second root scope").WithMeta(errors.MetaPath, name)
	}
	e.pad()
	e.buf.WriteByte('<')
	e.buf.WriteString(name)
	e.buf.WriteString(">\n")
	e.stack = append(e.stack, name)
	return nil
}

func (e *encoder) Leave(name string) error {
	if len(e.stack) == 0 || e.stack[len(e.stack)-1] != name {
		return errors.Malformed("unbalanced scope").WithMeta(errors.MetaPath, name)
	}
	e.stack = e.stack[:len(e.stack)-1]
	e.pad()
	e.buf.WriteString("</")
	e.buf.WriteString(name)
	e.buf.WriteString(">\n")
	if len(e.stack) == 0 {
		e.closed = true
	}
	return nil
}

func (e *encoder) Leaf(name, value string) error {
	if len(e.stack) == 0 {
		return errors.Malformed("leaf outside of root scope").WithMeta(errors.MetaPath, name)
	}
	e.pad()
	e.buf.WriteByte('<')
	e.buf.WriteString(name)
	e.buf.WriteByte('>')
	if err := xml.EscapeText(&e.buf, []byte(value)); err != nil {
		return err
	}
	e.buf.WriteString("</")
	e.buf.WriteString(name)
	e.buf.WriteString(">\n")
	return nil
}

func (e *encoder) Bytes() ([]byte, error) {
	if len(e.stack) != 0 {
		return nil, errors.Malformed("unclosed scope").WithMeta(errors.MetaPath, e.stack[len(e.stack)-1])
	}
	if !e.closed {
		return nil, errors.Malformed("empty document")
	}
	return e.buf.Bytes(), nil
}

// element is an open tag during parsing. It becomes a scope as soon as a
// child element starts, otherwise a leaf holding the collected text.
type element struct {
	name  string
	text  strings.Builder
	scope *archiver.Node
}

// Decode parses data in a single forward scan. Duplicate tag names within
// one scope are rejected.
func (a *Archiver) Decode(data []byte) (*archiver.Node, error) {
	d := xml.NewDecoder(bytes.NewReader(data))
	var (
		stack []*element
		root  *archiver.Node
	)
	for {
		tok, err := d.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, malformed(err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if len(stack) == 0 && root != nil {
				return nil, lineError(errors.Malformed("content after root element"), d)
			}
			if len(stack) > 0 {
				top := stack[len(stack)-1]
				if strings.TrimSpace(top.text.String()) != "" {
					return nil, lineError(errors.Malformed("text mixed with elements").WithMeta(errors.MetaPath, top.name), d)
				}
				if top.scope == nil {
					top.scope = archiver.NewScope(top.name)
				}
				top.text.Reset()
			}
			stack = append(stack, &element{name: t.Name.Local})
		case xml.EndElement:
			el := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			var n *archiver.Node
			if el.scope != nil {
				if strings.TrimSpace(el.text.String()) != "" {
					return nil, lineError(errors.Malformed("text mixed with elements").WithMeta(errors.MetaPath, el.name), d)
				}
				n = el.scope
			} else {
				n = archiver.NewLeaf(el.name, el.text.String())
			}
			if len(stack) == 0 {
				root = n
				continue
			}
			if err := stack[len(stack)-1].scope.Add(n); err != nil {
				return nil, lineError(errors.FromError(err), d)
			}
		case xml.CharData:
			if len(stack) == 0 {
				if len(bytes.TrimSpace(t)) != 0 {
					return nil, lineError(errors.Malformed("text outside root element"), d)
				}
				continue
			}
			stack[len(stack)-1].text.Write(t)
		}
	}
	if root == nil {
		return nil, errors.Malformed("empty document")
	}
	return root, nil
}

func malformed(err error) error {
	e := errors.Malformed("xml syntax error").WithError(err)
	if se, ok := err.(*xml.SyntaxError); ok {
		e = e.WithMeta(errors.MetaLine, strconv.Itoa(se.Line))
	}
	return e
}

func lineError(e *errors.Error, d *xml.Decoder) error {
	line, _ := d.InputPos()
	return e.WithMeta(errors.MetaLine, strconv.Itoa(line))
}
