package archiver

import (
	"github.com/go-slark/proptree/errors"
)

// TreeEncoder collects Encoder calls into a Node tree. Backends whose
// libraries serialise a whole value at once embed it and convert the tree in
// Bytes.
type TreeEncoder struct {
	root  *Node
	stack []*Node
}

func (t *TreeEncoder) Enter(name string) error {
	scope := NewScope(name)
	if len(t.stack) == 0 {
		if t.root != nil {
			return errors.Malformed("second root scope").WithMeta(errors.MetaPath, name)
		}
		t.root = scope
	} else if err := t.stack[len(t.stack)-1].Add(scope); err != nil {
		return err
	}
	t.stack = append(t.stack, scope)
	return nil
}

func (t *TreeEncoder) Leave(name string) error {
	if len(t.stack) == 0 || t.stack[len(t.stack)-1].name != name {
		return errors.Malformed("unbalanced scope").WithMeta(errors.MetaPath, name)
	}
	t.stack = t.stack[:len(t.stack)-1]
	return nil
}

func (t *TreeEncoder) Leaf(name, value string) error {
	if len(t.stack) == 0 {
		return errors.Malformed("leaf outside of root scope").WithMeta(errors.MetaPath, name)
	}
	return t.stack[len(t.stack)-1].Add(NewLeaf(name, value))
}

// Tree returns the collected root once every scope has been left.
func (t *TreeEncoder) Tree() (*Node, error) {
	if t.root == nil {
		return nil, errors.Malformed("empty document")
	}
	if len(t.stack) != 0 {
		return nil, errors.Malformed("unclosed scope").WithMeta(errors.MetaPath, t.stack[len(t.stack)-1].name)
	}
	return t.root, nil
}

// Marshal replays root through a fresh encoder of ar.
func Marshal(ar Archiver, root *Node) ([]byte, error) {
	enc := ar.NewEncoder()
	if err := emit(enc, root); err != nil {
		return nil, err
	}
	return enc.Bytes()
}

func emit(enc Encoder, n *Node) error {
	if n.kind == LeafNode {
		return enc.Leaf(n.name, n.value)
	}
	if err := enc.Enter(n.name); err != nil {
		return err
	}
	for _, c := range n.children {
		if err := emit(enc, c); err != nil {
			return err
		}
	}
	return enc.Leave(n.name)
}
