package property_test

import (
	"strings"

	"github.com/go-slark/proptree/property"
)

// Scene is declared before the groups it nests so that its registry is
// defined first.
type Scene struct {
	Title property.String
	Main  Shape
}

var sceneRegistry = property.MustDefine[Scene](
	property.Nested("main", func(s *Scene) *Shape { return &s.Main }),
	property.Field("title", func(s *Scene) *property.String { return &s.Title }, property.Default("untitled")),
)

func (*Scene) Registry() *property.Registry { return sceneRegistry }

type Color struct {
	Red   property.Int
	Green property.Int
	Blue  property.Int
}

var colorRegistry = property.MustDefine[Color](
	property.Field("red", func(c *Color) *property.Int { return &c.Red }),
	property.Field("green", func(c *Color) *property.Int { return &c.Green }),
	property.Field("blue", func(c *Color) *property.Int { return &c.Blue }),
)

func (*Color) Registry() *property.Registry { return colorRegistry }

type Shape struct {
	X       property.Int
	Y       property.Int
	FgColor Color
	BgColor Color
}

// Declared out of order on purpose.
var shapeRegistry = property.MustDefine[Shape](
	property.Field("y", func(s *Shape) *property.Int { return &s.Y }),
	property.Nested("fg_color", func(s *Shape) *Color { return &s.FgColor }),
	property.Field("x", func(s *Shape) *property.Int { return &s.X }),
	property.Nested("bg_color", func(s *Shape) *Color { return &s.BgColor }),
)

func (*Shape) Registry() *property.Registry { return shapeRegistry }

func scenario() *Shape {
	s := &Shape{}
	s.X.Set(13)
	s.Y.Set(37)
	s.FgColor.Red.Set(161)
	s.FgColor.Green.Set(178)
	s.FgColor.Blue.Set(195)
	return s
}

const scenarioDoc = "<properties>" +
	"<bg_color><blue>0</blue><green>0</green><red>0</red></bg_color>" +
	"<fg_color><blue>195</blue><green>178</green><red>161</red></fg_color>" +
	"<x>13</x><y>37</y>" +
	"</properties>"

func compact(doc string) string {
	return strings.Join(strings.Fields(doc), "")
}
