package property

import (
	"context"
	"strings"

	"github.com/go-slark/proptree/archiver"
	"github.com/go-slark/proptree/errors"
	"github.com/go-slark/proptree/logger"
)

// Save writes g through ar in canonical order and returns the document.
// It does not modify g.
func Save(ar archiver.Archiver, g Group) (string, error) {
	r, err := registryOf(g)
	if err != nil {
		return "", err
	}
	enc := ar.NewEncoder()
	if err = enc.Enter(archiver.Root); err != nil {
		return "", err
	}
	if err = save(enc, r, g); err != nil {
		return "", withArchiver(err, ar)
	}
	if err = enc.Leave(archiver.Root); err != nil {
		return "", err
	}
	b, err := enc.Bytes()
	if err != nil {
		return "", withArchiver(err, ar)
	}

	logger.Log(context.TODO(), logger.DebugLevel,
		logger.Fields(logger.Module("property"), logger.Group(r.Name()), logger.Archiver(ar.Name())),
		"saved ", len(b), " bytes")
	return string(b), nil
}

func save(enc archiver.Encoder, r *Registry, g Group) error {
	for _, d := range r.descs {
		if d.kind == KindScalar {
			if err := enc.Leaf(d.name, d.value(g).Encode()); err != nil {
				return err
			}
			continue
		}
		child, err := d.Registry()
		if err != nil {
			return err
		}
		if err = enc.Enter(d.name); err != nil {
			return err
		}
		if err = save(enc, child, d.child(g)); err != nil {
			return err
		}
		if err = enc.Leave(d.name); err != nil {
			return err
		}
	}
	return nil
}

type loadOptions struct {
	inPlace bool
}

type LoadOption func(*loadOptions)

// InPlace loads nested groups into the existing children instead of fresh
// default constructed ones, so values absent from the document survive.
// Layered configuration relies on it.
func InPlace() LoadOption {
	return func(o *loadOptions) {
		o.inPlace = true
	}
}

// Load parses data with ar and assigns every property present in it to g.
// Names the registry does not know are ignored, absent properties keep their
// value. Load stops at the first error; g may then be partially updated.
func Load(ar archiver.Archiver, g Group, data string, opts ...LoadOption) error {
	r, err := registryOf(g)
	if err != nil {
		return err
	}
	o := &loadOptions{}
	for _, opt := range opts {
		opt(o)
	}

	root, err := ar.Decode([]byte(data))
	if err != nil {
		return withArchiver(err, ar)
	}
	if root.Name() != archiver.Root {
		return errors.Malformed("unexpected root scope").
			WithMetadata(map[string]string{errors.MetaPath: root.Name(), errors.MetaArchiver: ar.Name()})
	}
	if root.IsLeaf() {
		if !root.Empty() {
			return errors.StructureMismatch("root scope holds a value").
				WithMetadata(map[string]string{errors.MetaPath: archiver.Root, errors.MetaArchiver: ar.Name()})
		}
		return nil
	}
	if err = load(r, g, root, "", o); err != nil {
		return withArchiver(err, ar)
	}

	logger.Log(context.TODO(), logger.DebugLevel,
		logger.Fields(logger.Module("property"), logger.Group(r.Name()), logger.Archiver(ar.Name())),
		"loaded ", root.Len(), " entries")
	return nil
}

func load(r *Registry, g Group, scope *archiver.Node, prefix string, o *loadOptions) error {
	for _, d := range r.descs {
		n, ok := scope.Child(d.name)
		if !ok {
			continue
		}
		path := join(prefix, d.name)

		if d.kind == KindScalar {
			if n.IsScope() {
				return errors.StructureMismatch("expected a value, found a scope").WithMeta(errors.MetaPath, path)
			}
			if err := d.value(g).Decode(n.Value()); err != nil {
				return mismatch(path, n.Value(), err)
			}
			continue
		}

		if n.IsLeaf() && !n.Empty() {
			return errors.StructureMismatch("expected a scope, found a value").
				WithMetadata(map[string]string{errors.MetaPath: path, errors.MetaValue: n.Value()})
		}
		child, err := d.Registry()
		if err != nil {
			return err
		}
		if o.inPlace {
			if err = load(child, d.child(g), n, path, o); err != nil {
				return err
			}
			continue
		}
		fresh, err := child.fresh()
		if err != nil {
			return err
		}
		if err = load(child, fresh, n, path, o); err != nil {
			return err
		}
		child.assign(d.child(g), fresh)
	}
	return nil
}

// mismatch reports a scalar decode failure. The cause is the parse error
// below the Malformed wrapper so the result only matches TypeMismatch.
func mismatch(path, text string, err error) *errors.Error {
	cause := err
	if se := errors.FromError(err); se.Code == errors.MalformedCode {
		if cause = se.Unwrap(); cause == nil {
			cause = errors.New(se.Message)
		}
	}
	return errors.TypeMismatch("cannot decode value").
		WithMetadata(map[string]string{errors.MetaPath: path, errors.MetaValue: text}).
		WithError(cause)
}

// Walk visits every property of g depth first in canonical order. v is nil
// for nested groups. Returning an error from fn stops the walk.
func Walk(g Group, fn func(path string, d *Descriptor, v Value) error) error {
	r, err := registryOf(g)
	if err != nil {
		return err
	}
	return walk(r, g, "", fn)
}

func walk(r *Registry, g Group, prefix string, fn func(string, *Descriptor, Value) error) error {
	for _, d := range r.descs {
		path := join(prefix, d.name)
		if d.kind == KindScalar {
			if err := fn(path, d, d.value(g)); err != nil {
				return err
			}
			continue
		}
		if err := fn(path, d, nil); err != nil {
			return err
		}
		child, err := d.Registry()
		if err != nil {
			return err
		}
		if err = walk(child, d.child(g), path, fn); err != nil {
			return err
		}
	}
	return nil
}

// Get returns the text of the scalar at a dotted path such as fg_color.red.
func Get(g Group, path string) (string, error) {
	v, err := lookup(g, path)
	if err != nil {
		return "", err
	}
	return v.Encode(), nil
}

// Set decodes text into the scalar at a dotted path.
func Set(g Group, path, text string) error {
	v, err := lookup(g, path)
	if err != nil {
		return err
	}
	if err = v.Decode(text); err != nil {
		return mismatch(path, text, err)
	}
	return nil
}

func lookup(g Group, path string) (Value, error) {
	r, err := registryOf(g)
	if err != nil {
		return nil, err
	}
	segs := strings.Split(path, ".")
	for i, seg := range segs {
		d, ok := r.Lookup(seg)
		if !ok {
			return nil, errors.UnknownProperty("no such property").WithMeta(errors.MetaPath, path)
		}
		last := i == len(segs)-1
		switch {
		case d.kind == KindScalar && last:
			return d.value(g), nil
		case d.kind == KindScalar:
			return nil, errors.StructureMismatch("path descends into a value").
				WithMeta(errors.MetaPath, strings.Join(segs[:i+1], "."))
		case last:
			return nil, errors.StructureMismatch("path names a nested group").WithMeta(errors.MetaPath, path)
		}
		if r, err = d.Registry(); err != nil {
			return nil, err
		}
		g = d.child(g)
	}
	return nil, errors.UnknownProperty("no such property").WithMeta(errors.MetaPath, path)
}

func join(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + "." + name
}

func withArchiver(err error, ar archiver.Archiver) error {
	if se := new(errors.Error); errors.As(err, &se) {
		return se.WithMeta(errors.MetaArchiver, ar.Name())
	}
	return err
}
