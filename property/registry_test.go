package property_test

import (
	"testing"

	"github.com/go-slark/proptree/archiver/xml"
	"github.com/go-slark/proptree/errors"
	"github.com/go-slark/proptree/property"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type Point struct {
	X property.Int
	Y property.Int
}

func (*Point) Registry() *property.Registry { return nil }

func TestRegistryCanonicalOrder(t *testing.T) {
	r := (&Shape{}).Registry()
	assert.Equal(t, "Shape", r.Name())
	assert.Equal(t, 4, r.Len())

	var names []string
	for _, d := range r.Descriptors() {
		names = append(names, d.Name())
	}
	assert.Equal(t, []string{"bg_color", "fg_color", "x", "y"}, names)

	d, ok := r.Lookup("fg_color")
	require.True(t, ok)
	assert.Equal(t, property.KindNested, d.Kind())
	child, err := d.Registry()
	require.NoError(t, err)
	assert.Same(t, colorRegistry, child)

	d, ok = r.Lookup("x")
	require.True(t, ok)
	assert.Equal(t, property.KindScalar, d.Kind())
	child, err = d.Registry()
	assert.NoError(t, err)
	assert.Nil(t, child)

	_, ok = r.Lookup("z")
	assert.False(t, ok)
}

func TestDefineDuplicateName(t *testing.T) {
	_, err := property.Define[Point](
		property.Field("x", func(p *Point) *property.Int { return &p.X }),
		property.Field("x", func(p *Point) *property.Int { return &p.Y }),
	)
	require.Error(t, err)
	assert.True(t, errors.IsConfiguration(err))
	assert.Equal(t, "Point.x", errors.Meta(err, errors.MetaPath))

	assert.Panics(t, func() {
		property.MustDefine[Point](
			property.Field("y", func(p *Point) *property.Int { return &p.X }),
			property.Field("y", func(p *Point) *property.Int { return &p.Y }),
		)
	})
}

func TestDefineInvalidName(t *testing.T) {
	for _, name := range []string{"", "1x", "-x", "a.b", "a b", "<x>"} {
		_, err := property.Define[Point](property.Field(name, func(p *Point) *property.Int { return &p.X }))
		assert.True(t, errors.IsConfiguration(err), name)
	}
}

func TestDefineInvalidDefault(t *testing.T) {
	_, err := property.Define[Point](
		property.Field("x", func(p *Point) *property.Int { return &p.X }, property.Default("thirteen")),
	)
	require.Error(t, err)
	assert.True(t, errors.IsConfiguration(err))
	assert.Equal(t, "Point.x", errors.Meta(err, errors.MetaPath))
	assert.Equal(t, "thirteen", errors.Meta(err, errors.MetaValue))
}

func TestDefineDefaults(t *testing.T) {
	r, err := property.Define[Point](
		property.Field("x", func(p *Point) *property.Int { return &p.X }, property.Default("13")),
		property.Field("y", func(p *Point) *property.Int { return &p.Y }),
	)
	require.NoError(t, err)
	d, _ := r.Lookup("x")
	def, ok := d.Default()
	assert.True(t, ok)
	assert.Equal(t, "13", def)

	d, _ = r.Lookup("y")
	_, ok = d.Default()
	assert.False(t, ok)
}

func TestGroupWithoutRegistry(t *testing.T) {
	_, err := property.Save(xml.New(), &Point{})
	assert.True(t, errors.IsConfiguration(err))
}

type Wrapper struct {
	Inner Point
}

var wrapperRegistry = property.MustDefine[Wrapper](
	property.Nested("inner", func(w *Wrapper) *Point { return &w.Inner }),
)

func (*Wrapper) Registry() *property.Registry { return wrapperRegistry }

func TestNestedWithoutRegistry(t *testing.T) {
	_, err := property.Save(xml.New(), &Wrapper{})
	require.Error(t, err)
	assert.True(t, errors.IsConfiguration(err))
	assert.Equal(t, "inner", errors.Meta(err, errors.MetaPath))
}

// Impostor hands out the registry of another type.
type Impostor struct {
	Color
}

func (*Impostor) Registry() *property.Registry { return colorRegistry }

func TestForeignRegistry(t *testing.T) {
	_, err := property.Save(xml.New(), &Impostor{})
	assert.True(t, errors.IsConfiguration(err))
}
