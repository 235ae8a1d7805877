package property

import (
	"reflect"

	"github.com/go-slark/proptree/errors"
	"github.com/go-slark/proptree/pkg/stringz"
)

var (
	valueType = reflect.TypeOf((*Value)(nil)).Elem()
	groupType = reflect.TypeOf((*Group)(nil)).Elem()
)

// Reflect derives declarations from the exported fields of G. A field whose
// pointer implements Value becomes a scalar, one whose pointer implements
// Group becomes a nested group, anything else is skipped.
//
// The property name comes from the prop tag, or the snake cased field name.
// prop:"-" skips a field and default:"text" declares a default:
//
//	type Server struct {
//		Addr    property.String   `default:":8080"`
//		Timeout property.Duration `prop:"read_timeout" default:"5s"`
//		TLS     TLS
//	}
func Reflect[G any]() []Declaration[G] {
	t := reflect.TypeOf((*G)(nil)).Elem()
	if t.Kind() != reflect.Struct {
		return []Declaration[G]{{err: errors.Configuration("reflect needs a struct type").WithMeta("group", t.String())}}
	}

	var decls []Declaration[G]
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		name, ok := f.Tag.Lookup("prop")
		if name == "-" {
			continue
		}
		if !ok || name == "" {
			name = stringz.SnakeCase(f.Name)
		}
		def, hasDefault := f.Tag.Lookup("default")
		index := f.Index
		ptr := reflect.PointerTo(f.Type)

		switch {
		case ptr.Implements(valueType):
			decls = append(decls, Declaration[G]{d: &Descriptor{
				name:       name,
				kind:       KindScalar,
				def:        def,
				hasDefault: hasDefault,
				value: func(g Group) Value {
					return fieldAddr(g, index).(Value)
				},
			}})
		case ptr.Implements(groupType):
			if hasDefault {
				decls = append(decls, Declaration[G]{err: errors.Configuration("default on a nested group").
					WithMetadata(map[string]string{"group": t.Name(), errors.MetaPath: name})})
				continue
			}
			owner := ptr
			decls = append(decls, Declaration[G]{d: &Descriptor{
				name: name,
				kind: KindNested,
				child: func(g Group) Group {
					return fieldAddr(g, index).(Group)
				},
				resolve: func() (*Registry, error) {
					return childRegistry(owner, reflect.New(owner.Elem()).Interface().(Group).Registry(), name)
				},
			}})
		}
	}
	return decls
}

func fieldAddr(g Group, index []int) interface{} {
	return reflect.ValueOf(g).Elem().FieldByIndex(index).Addr().Interface()
}
