// Package msgpack archives property trees as MessagePack maps. The document
// is a single map holding the root scope; scopes are maps from name to value
// and leaves are strings. Map entries are written in canonical order, which
// is also the order they are read back in.
package msgpack

import (
	"bytes"

	"github.com/go-slark/proptree/archiver"
	"github.com/go-slark/proptree/errors"
	"github.com/spf13/cast"
	"github.com/vmihailenco/msgpack/v5"
	"github.com/vmihailenco/msgpack/v5/msgpcode"
)

const Name = "msgpack"

func init() {
	archiver.Register(New(), ".msgpack", ".mpk")
}

type Archiver struct{}

func New() *Archiver {
	return &Archiver{}
}

func (a *Archiver) Name() string {
	return Name
}

func (a *Archiver) NewEncoder() archiver.Encoder {
	return &encoder{}
}

type encoder struct {
	archiver.TreeEncoder
}

func (e *encoder) Bytes() ([]byte, error) {
	root, err := e.Tree()
	if err != nil {
		return nil, err
	}
	buf := &bytes.Buffer{}
	enc := msgpack.NewEncoder(buf)
	if err = enc.EncodeMapLen(1); err != nil {
		return nil, err
	}
	if err = encodeNode(enc, root); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encodeNode(enc *msgpack.Encoder, n *archiver.Node) error {
	if err := enc.EncodeString(n.Name()); err != nil {
		return err
	}
	if n.IsLeaf() {
		return enc.EncodeString(n.Value())
	}
	children := n.Children()
	if err := enc.EncodeMapLen(len(children)); err != nil {
		return err
	}
	for _, c := range children {
		if err := encodeNode(enc, c); err != nil {
			return err
		}
	}
	return nil
}

func (a *Archiver) Decode(data []byte) (*archiver.Node, error) {
	if len(data) == 0 {
		return nil, errors.Malformed("empty document")
	}
	r := bytes.NewReader(data)
	dec := msgpack.NewDecoder(r)
	n, err := dec.DecodeMapLen()
	if err != nil {
		return nil, malformed(err)
	}
	if n != 1 {
		return nil, errors.Malformed("document must hold exactly one root map entry")
	}
	name, err := dec.DecodeString()
	if err != nil {
		return nil, malformed(err)
	}
	root, err := decodeValue(dec, name, name)
	if err != nil {
		return nil, err
	}
	if r.Len() > 0 {
		return nil, errors.Malformed("trailing data after document")
	}
	return root, nil
}

func decodeValue(dec *msgpack.Decoder, path, name string) (*archiver.Node, error) {
	c, err := dec.PeekCode()
	if err != nil {
		return nil, malformed(err)
	}
	switch {
	case msgpcode.IsFixedMap(c) || c == msgpcode.Map16 || c == msgpcode.Map32:
		return decodeScope(dec, path, name)
	case msgpcode.IsString(c):
		s, err := dec.DecodeString()
		if err != nil {
			return nil, malformed(err)
		}
		return archiver.NewLeaf(name, s), nil
	}

	v, err := dec.DecodeInterface()
	if err != nil {
		return nil, malformed(err)
	}
	switch v.(type) {
	case []interface{}:
		return nil, errors.Malformed("arrays are not supported").WithMeta(errors.MetaPath, path)
	case nil:
		return archiver.NewLeaf(name, ""), nil
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		return nil, errors.Malformed("unsupported msgpack value").WithMeta(errors.MetaPath, path).WithError(err)
	}
	return archiver.NewLeaf(name, s), nil
}

func decodeScope(dec *msgpack.Decoder, path, name string) (*archiver.Node, error) {
	n, err := dec.DecodeMapLen()
	if err != nil {
		return nil, malformed(err)
	}
	scope := archiver.NewScope(name)
	for i := 0; i < n; i++ {
		key, err := dec.DecodeString()
		if err != nil {
			return nil, malformed(err).WithMeta(errors.MetaPath, path)
		}
		child, err := decodeValue(dec, path+"."+key, key)
		if err != nil {
			return nil, err
		}
		if err = scope.Add(child); err != nil {
			return nil, err
		}
	}
	return scope, nil
}

func malformed(err error) *errors.Error {
	return errors.Malformed("msgpack decode error").WithError(err)
}
