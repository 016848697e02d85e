// This file is part of sectionmap (https://github.com/spezifisch/sectionmap).
// Copyright (C) 2021-2022 spezifisch <spezifisch-7e6@below.fr> (https://github.com/spezifisch).
//
// This program is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the
// Free Software Foundation, version 3 of the License.
//
// This program is distributed in the hope that it will be useful, but WITHOUT
// ANY WARRANTY; without even the implied warranty of MERCHANTABILITY or FITNESS
// FOR A PARTICULAR PURPOSE. See the GNU Affero General Public License for more
// details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program. If not, see <https://www.gnu.org/licenses/>.

package surface

import (
	"sort"

	"github.com/spezifisch/sectionmap/pkg/geo"
)

// Drawable is anything a Surface can attach and detach as a unit.
type Drawable interface {
	// Shapes flattens the drawable into primitive shapes.
	Shapes() []Shape
}

// Shape is a primitive drawable.
type Shape interface {
	Drawable
	Kind() string
}

type classer interface {
	AddClass(c string)
	RemoveClass(c string)
}

// classSet is a small CSS-like class list.
type classSet map[string]struct{}

func (cs *classSet) add(c string) {
	if c == "" {
		return
	}
	if *cs == nil {
		*cs = classSet{}
	}
	(*cs)[c] = struct{}{}
}

func (cs classSet) remove(c string) {
	delete(cs, c)
}

func (cs classSet) has(c string) bool {
	_, ok := cs[c]
	return ok
}

func (cs classSet) list() []string {
	out := make([]string, 0, len(cs))
	for c := range cs {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// Symbol is a marker glyph.
type Symbol string

// Marker symbols.
const (
	SymbolCircle Symbol = "circle"
	SymbolArrow  Symbol = "forward_open_arrow"
)

// Label is a styleable text overlay.
type Label struct {
	Position geo.LatLng
	Text     string
	ZIndex   int
	classes  classSet
}

// NewLabel returns a label carrying the given base class.
func NewLabel(pos geo.LatLng, text, class string) *Label {
	l := &Label{Position: pos, Text: text}
	l.classes.add(class)
	return l
}

func (l *Label) Shapes() []Shape { return []Shape{l} }
func (l *Label) Kind() string { return "label" }
func (l *Label) AddClass(c string) { l.classes.add(c) }
func (l *Label) RemoveClass(c string) { l.classes.remove(c) }
func (l *Label) HasClass(c string) bool { return l.classes.has(c) }
func (l *Label) Classes() []string { return l.classes.list() }

// Marker is a point symbol.
type Marker struct {
	Position    geo.LatLng
	Symbol      Symbol
	Scale       float64
	FillColor   string
	StrokeColor string
	StrokeWidth float64
	Draggable   bool
}

func (m *Marker) Shapes() []Shape { return []Shape{m} }
func (m *Marker) Kind() string    { return "marker" }

// Stroke describes outline styling.
type Stroke struct {
	Color   string
	Opacity float64
	Width   float64
}

// Polyline is an open path.
type Polyline struct {
	Path   []geo.LatLng
	Stroke Stroke
}

func (p *Polyline) Shapes() []Shape { return []Shape{p} }
func (p *Polyline) Kind() string    { return "polyline" }

// Polygon is a filled closed path.
type Polygon struct {
	Path        []geo.LatLng
	Stroke      Stroke
	FillColor   string
	FillOpacity float64
}

func (p *Polygon) Shapes() []Shape { return []Shape{p} }
func (p *Polygon) Kind() string    { return "polygon" }

// Rectangle is an unfilled box outline.
type Rectangle struct {
	Bounds geo.Bounds
	Stroke Stroke
	ZIndex int
}

func (r *Rectangle) Shapes() []Shape { return []Shape{r} }
func (r *Rectangle) Kind() string    { return "rectangle" }

// Container groups drawables so they can be attached, detached and styled
// together.
type Container struct {
	Items []Drawable
}

// Push appends items to the container.
func (c *Container) Push(items ...Drawable) {
	c.Items = append(c.Items, items...)
}

// Empty reports whether nothing was pushed yet.
func (c *Container) Empty() bool {
	return c == nil || len(c.Items) == 0
}

// Shapes flattens every item.
func (c *Container) Shapes() []Shape {
	var out []Shape
	for _, it := range c.Items {
		out = append(out, it.Shapes()...)
	}
	return out
}

// AddClass adds a class to every item that takes classes.
func (c *Container) AddClass(class string) {
	for _, it := range c.Items {
		if cl, ok := it.(classer); ok {
			cl.AddClass(class)
		}
	}
}

// RemoveClass removes a class from every item that takes classes.
func (c *Container) RemoveClass(class string) {
	for _, it := range c.Items {
		if cl, ok := it.(classer); ok {
			cl.RemoveClass(class)
		}
	}
}

// HasClass reports whether any label in the container carries class.
func (c *Container) HasClass(class string) bool {
	for _, s := range c.Shapes() {
		if l, ok := s.(*Label); ok && l.HasClass(class) {
			return true
		}
	}
	return false
}
