package property

import (
	"reflect"
	"sort"
	"sync"

	"github.com/go-slark/proptree/errors"
)

// Group is implemented by every struct that holds properties. Registry must
// return the same registry for every instance of the type.
type Group interface {
	Registry() *Registry
}

type Kind uint8

const (
	KindScalar Kind = iota
	KindNested
)

func (k Kind) String() string {
	if k == KindNested {
		return "nested"
	}
	return "scalar"
}

// Descriptor describes one named property of a group type.
type Descriptor struct {
	name       string
	kind       Kind
	def        string
	hasDefault bool

	value func(Group) Value
	child func(Group) Group

	// resolve looks up the registry of a nested group on first use.
	resolve func() (*Registry, error)
	once    sync.Once
	reg     *Registry
	err     error
}

func (d *Descriptor) Name() string { return d.name }

func (d *Descriptor) Kind() Kind { return d.kind }

// Default returns the declared default text of a scalar.
func (d *Descriptor) Default() (string, bool) { return d.def, d.hasDefault }

// Registry returns the registry of a nested group, nil for scalars.
func (d *Descriptor) Registry() (*Registry, error) {
	if d.kind != KindNested {
		return nil, nil
	}
	d.once.Do(func() {
		d.reg, d.err = d.resolve()
	})
	return d.reg, d.err
}

// Registry is the immutable, canonically ordered set of descriptors of one
// group type. It is built once by Define and shared by all instances.
type Registry struct {
	name  string
	owner reflect.Type
	descs []*Descriptor
	index map[string]int

	alloc  func() Group
	assign func(dst, src Group)
}

func newRegistry(owner reflect.Type, descs []*Descriptor) (*Registry, error) {
	r := &Registry{
		name:  owner.Elem().Name(),
		owner: owner,
		descs: make([]*Descriptor, len(descs)),
		index: make(map[string]int, len(descs)),
	}
	copy(r.descs, descs)
	sort.SliceStable(r.descs, func(i, j int) bool {
		return r.descs[i].name < r.descs[j].name
	})
	for i, d := range r.descs {
		if _, ok := r.index[d.name]; ok {
			return nil, errors.Configuration("duplicate property name").
				WithMetadata(map[string]string{errors.MetaPath: r.name + "." + d.name})
		}
		r.index[d.name] = i
	}
	return r, nil
}

// Name is the Go type name of the group.
func (r *Registry) Name() string { return r.name }

func (r *Registry) Len() int { return len(r.descs) }

// Descriptors returns the descriptors in canonical order.
func (r *Registry) Descriptors() []*Descriptor {
	out := make([]*Descriptor, len(r.descs))
	copy(out, r.descs)
	return out
}

func (r *Registry) Lookup(name string) (*Descriptor, bool) {
	i, ok := r.index[name]
	if !ok {
		return nil, false
	}
	return r.descs[i], true
}

// check verifies that g is an instance of the registry's group type.
func (r *Registry) check(g Group) error {
	if t := reflect.TypeOf(g); t != r.owner {
		return errors.Configuration("registry does not belong to group type").
			WithMetadata(map[string]string{"registry": r.name, "group": t.String()})
	}
	if reflect.ValueOf(g).IsNil() {
		return errors.Configuration("nil group").WithMeta("group", r.name)
	}
	return nil
}

// fresh returns a new default constructed instance.
func (r *Registry) fresh() (Group, error) {
	g := r.alloc()
	if err := r.applyDefaults(g); err != nil {
		return nil, err
	}
	return g, nil
}

func (r *Registry) applyDefaults(g Group) error {
	for _, d := range r.descs {
		switch d.kind {
		case KindScalar:
			if !d.hasDefault {
				continue
			}
			if err := d.value(g).Decode(d.def); err != nil {
				return err
			}
		case KindNested:
			child, err := d.Registry()
			if err != nil {
				return err
			}
			if err = child.applyDefaults(d.child(g)); err != nil {
				return err
			}
		}
	}
	return nil
}

// reset overwrites g with a default constructed instance.
func (r *Registry) reset(g Group) error {
	fresh, err := r.fresh()
	if err != nil {
		return err
	}
	r.assign(g, fresh)
	return nil
}

// registryOf returns the registry of g after checking that it matches.
func registryOf(g Group) (*Registry, error) {
	if g == nil {
		return nil, errors.Configuration("nil group")
	}
	r := g.Registry()
	if r == nil {
		return nil, errors.Configuration("group has no registry").WithMeta("group", reflect.TypeOf(g).String())
	}
	if err := r.check(g); err != nil {
		return nil, err
	}
	return r, nil
}
