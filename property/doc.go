// Package property turns plain structs into introspectable property trees.
//
// A group is a struct whose fields are scalar values (Int, String, ...) or
// other groups held by value. Its registry is declared once per type:
//
//	type Color struct {
//		Red, Green, Blue property.Int
//	}
//
//	var colorRegistry = property.MustDefine[Color](
//		property.Field("red", func(c *Color) *property.Int { return &c.Red }),
//		property.Field("green", func(c *Color) *property.Int { return &c.Green }),
//		property.Field("blue", func(c *Color) *property.Int { return &c.Blue }),
//	)
//
//	func (*Color) Registry() *property.Registry { return colorRegistry }
//
// Save and Load walk the registry in canonical (lexicographic) order and
// talk to any archiver.Archiver, so for every backend
// Save(Load(Save(x))) == Save(x).
package property
