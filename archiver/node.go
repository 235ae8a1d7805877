package archiver

import (
	"sort"
	"strings"

	"github.com/go-slark/proptree/errors"
)

type Kind uint8

const (
	LeafNode Kind = iota
	ScopeNode
)

func (k Kind) String() string {
	if k == ScopeNode {
		return "scope"
	}
	return "leaf"
}

// Node is the parsed form of a document: an ordered mapping from tag name to
// either leaf text or a nested scope.
type Node struct {
	name     string
	kind     Kind
	value    string
	children []*Node
	index    map[string]int
}

func NewScope(name string) *Node {
	return &Node{name: name, kind: ScopeNode}
}

func NewLeaf(name, value string) *Node {
	return &Node{name: name, kind: LeafNode, value: value}
}

func (n *Node) Name() string { return n.name }

func (n *Node) Kind() Kind { return n.kind }

func (n *Node) IsScope() bool { return n.kind == ScopeNode }

func (n *Node) IsLeaf() bool { return n.kind == LeafNode }

func (n *Node) Value() string { return n.value }

// Empty reports whether n carries no data: a scope without children or a
// leaf whose text is blank. Formats that cannot tell an empty scope from an
// empty leaf (<g></g>) rely on this when a scope is expected.
func (n *Node) Empty() bool {
	if n.kind == ScopeNode {
		return len(n.children) == 0
	}
	return strings.TrimSpace(n.value) == ""
}

// Add appends child to the scope n. Names are unique within a scope.
func (n *Node) Add(child *Node) error {
	if n.kind != ScopeNode {
		return errors.StructureMismatch("cannot add children to a leaf").WithMeta(errors.MetaPath, n.name)
	}
	if _, ok := n.index[child.name]; ok {
		return errors.StructureMismatch("duplicate tag in scope").
			WithMetadata(map[string]string{errors.MetaPath: n.name + "." + child.name})
	}
	if n.index == nil {
		n.index = make(map[string]int)
	}
	n.index[child.name] = len(n.children)
	n.children = append(n.children, child)
	return nil
}

func (n *Node) Child(name string) (*Node, bool) {
	i, ok := n.index[name]
	if !ok {
		return nil, false
	}
	return n.children[i], true
}

// Children returns the children in document order.
func (n *Node) Children() []*Node {
	out := make([]*Node, len(n.children))
	copy(out, n.children)
	return out
}

func (n *Node) Len() int { return len(n.children) }

// Lookup resolves a dotted path relative to n.
func (n *Node) Lookup(path string) (*Node, bool) {
	cur := n
	for _, seg := range strings.Split(path, ".") {
		next, ok := cur.Child(seg)
		if !ok {
			return nil, false
		}
		cur = next
	}
	return cur, true
}

// Sort orders every scope below n lexicographically by name.
func (n *Node) Sort() {
	if n.kind != ScopeNode {
		return
	}
	sort.SliceStable(n.children, func(i, j int) bool {
		return n.children[i].name < n.children[j].name
	})
	for i, c := range n.children {
		n.index[c.name] = i
		c.Sort()
	}
}

// Walk calls fn for every leaf below n with its dotted path, in document order.
func (n *Node) Walk(fn func(path string, leaf *Node) error) error {
	return n.walk("", fn)
}

func (n *Node) walk(prefix string, fn func(string, *Node) error) error {
	for _, c := range n.children {
		p := c.name
		if prefix != "" {
			p = prefix + "." + c.name
		}
		if c.kind == LeafNode {
			if err := fn(p, c); err != nil {
				return err
			}
			continue
		}
		if err := c.walk(p, fn); err != nil {
			return err
		}
	}
	return nil
}
