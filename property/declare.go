package property

import (
	"context"
	"reflect"

	"github.com/go-slark/proptree/errors"
	"github.com/go-slark/proptree/logger"
	"github.com/go-slark/proptree/pkg/stringz"
)

// Declaration binds a property name of group type G to one of its fields.
// Declarations are created with Field, Nested or Reflect and consumed by
// Define.
type Declaration[G any] struct {
	d   *Descriptor
	err error
}

type FieldOption func(*Descriptor)

// Default sets the text a scalar is decoded from when a group is default
// constructed. It is checked by Define.
func Default(text string) FieldOption {
	return func(d *Descriptor) {
		d.def = text
		d.hasDefault = true
	}
}

// Field declares a scalar property backed by the field get returns.
func Field[G any, V Value](name string, get func(*G) V, opts ...FieldOption) Declaration[G] {
	d := &Descriptor{
		name: name,
		kind: KindScalar,
		value: func(g Group) Value {
			return get(any(g).(*G))
		},
	}
	for _, opt := range opts {
		opt(d)
	}
	return Declaration[G]{d: d}
}

// Nested declares a child group held by value in G. The child's registry is
// looked up on first traversal, so group types may be declared in any order.
func Nested[G any, C any, PC interface {
	*C
	Group
}](name string, get func(*G) PC) Declaration[G] {
	owner := reflect.TypeOf((*C)(nil))
	d := &Descriptor{
		name: name,
		kind: KindNested,
		child: func(g Group) Group {
			return get(any(g).(*G))
		},
		resolve: func() (*Registry, error) {
			return childRegistry(owner, PC(new(C)).Registry(), name)
		},
	}
	return Declaration[G]{d: d}
}

func childRegistry(owner reflect.Type, r *Registry, name string) (*Registry, error) {
	if r == nil {
		return nil, errors.Configuration("nested group has no registry").
			WithMetadata(map[string]string{errors.MetaPath: name, "group": owner.String()})
	}
	if r.owner != owner {
		return nil, errors.Configuration("nested group returns a foreign registry").
			WithMetadata(map[string]string{errors.MetaPath: name, "group": owner.String(), "registry": r.name})
	}
	return r, nil
}

// Define builds the registry of G from decls. Names must be unique, valid
// tag names, and every default must decode.
func Define[G any, PG interface {
	*G
	Group
}](decls ...Declaration[G]) (*Registry, error) {
	owner := reflect.TypeOf((*G)(nil))
	name := owner.Elem().Name()

	descs := make([]*Descriptor, 0, len(decls))
	for _, decl := range decls {
		if decl.err != nil {
			return nil, decl.err
		}
		if decl.d == nil {
			return nil, errors.Configuration("empty declaration").WithMeta("group", name)
		}
		if !stringz.IsName(decl.d.name) {
			return nil, errors.Configuration("invalid property name").
				WithMetadata(map[string]string{"group": name, errors.MetaPath: decl.d.name})
		}
		descs = append(descs, decl.d)
	}

	r, err := newRegistry(owner, descs)
	if err != nil {
		return nil, err
	}
	r.alloc = func() Group { return PG(new(G)) }
	r.assign = func(dst, src Group) { *dst.(PG) = *src.(PG) }

	probe := r.alloc()
	for _, d := range r.descs {
		if !d.hasDefault {
			continue
		}
		if err = d.value(probe).Decode(d.def); err != nil {
			return nil, errors.Configuration("invalid default").
				WithMetadata(map[string]string{errors.MetaPath: name + "." + d.name, errors.MetaValue: d.def}).
				WithError(err)
		}
	}

	logger.Log(context.TODO(), logger.DebugLevel, logger.Fields(logger.Module("property"), logger.Group(name)),
		"registry defined with ", r.Len(), " properties")
	return r, nil
}

// MustDefine is Define for package level variables; it panics on error.
func MustDefine[G any, PG interface {
	*G
	Group
}](decls ...Declaration[G]) *Registry {
	r, err := Define[G, PG](decls...)
	if err != nil {
		panic(err)
	}
	return r
}

// New allocates a G with every declared default applied.
func New[G any, PG interface {
	*G
	Group
}]() (PG, error) {
	g := PG(new(G))
	if err := Reset(g); err != nil {
		var zero PG
		return zero, err
	}
	return g, nil
}

// Reset restores g to its default constructed state. Fields that are not
// properties are zeroed as well.
func Reset(g Group) error {
	r, err := registryOf(g)
	if err != nil {
		return err
	}
	return r.reset(g)
}
