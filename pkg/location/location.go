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

// Package location holds the drawable geographic features of a content
// document.
package location

import (
	"github.com/spezifisch/sectionmap/pkg/geo"
	"github.com/spezifisch/sectionmap/pkg/surface"
)

// Type is the variant tag of a location.
type Type string

// Location variants. Mountain draws like Point and Sea like Region; Area has
// no behaviour of its own and falls back to Point.
const (
	Point    Type = "Point"
	Mountain Type = "Mountain"
	Region   Type = "Region"
	Sea      Type = "Sea"
	Line     Type = "Line"
	Area     Type = "Area"
)

// ReferenceClass marks always-visible reference locations.
const ReferenceClass = "reference"

const defaultColour = "#00f"

// Details is the document description of a location.
type Details struct {
	Label         string
	Type          Type
	Location      *geo.LatLng
	Bounds        *geo.Bounds
	Poly          []geo.LatLng
	Reference     bool
	OutsideBounds bool
	Class         string
}

// Location is a feature that can be drawn on a surface. Its drawable is
// created on the first Draw and reused afterwards.
type Location interface {
	Details() *Details
	// Draw attaches the location, building its drawable on first use.
	Draw()
	Show()
	Hide()
	// Bounds returns zero, one or two points framing the location.
	Bounds() []geo.LatLng
	Container() *surface.Container
}

// New returns the variant matching details.Type.
func New(details Details, s surface.Surface) Location {
	b := newBase(details, s)
	switch details.Type {
	case Region, Sea:
		return &regionLocation{b}
	case Line:
		return &lineLocation{b}
	}
	return &pointLocation{b}
}

// NewUnknown returns a placeholder for a reference that could not be
// resolved. It draws nothing and has no bounds.
func NewUnknown(label string, s surface.Surface) Location {
	return &unknownLocation{newBase(Details{Label: label, Type: Point}, s)}
}

// IsUnknown reports whether l is an unresolved placeholder.
func IsUnknown(l Location) bool {
	_, ok := l.(*unknownLocation)
	return ok
}

type base struct {
	details   Details
	surface   surface.Surface
	container *surface.Container
}

func newBase(details Details, s surface.Surface) base {
	return base{details: details, surface: s, container: &surface.Container{}}
}

func (b *base) Details() *Details { return &b.details }
func (b *base) Container() *surface.Container { return b.container }
func (b *base) Show() { b.surface.Add(b.container) }
func (b *base) Hide() { b.surface.Remove(b.container) }

// reattach shows an already built drawable and reports whether there was one.
func (b *base) reattach() bool {
	if b.container.Empty() {
		return false
	}
	b.surface.Add(b.container)
	return true
}

// adopt fills the location's own container with freshly built items and
// attaches it. The container pointer never changes.
func (b *base) adopt(c *surface.Container) {
	b.container.Items = c.Items
	b.surface.Add(b.container)
}

// AddPoint draws a labelled point and returns its container, already
// attached.
func AddPoint(s surface.Surface, coords geo.LatLng, t Type, colour, text, class string) *surface.Container {
	c := BuildPoint(coords, t, colour, text, class)
	s.Add(c)
	return c
}

// BuildPoint builds the drawable of a labelled point without attaching it.
// Region and Sea get only a label, other types a marker as well.
func BuildPoint(coords geo.LatLng, t Type, colour, text, class string) *surface.Container {
	if t == "" {
		t = Point
	}
	if colour == "" {
		colour = "#fff"
	}
	if text == "" {
		text = " "
	}
	if t == Sea {
		t = Region
	}

	labelClass := "markerLabel"
	switch t {
	case Region:
		labelClass = "mapLabel"
	case Mountain:
		labelClass = "arrowLabel"
	}

	container := &surface.Container{}
	label := surface.NewLabel(coords, text, labelClass)
	label.ZIndex = 12
	if class != "" {
		label.AddClass(class)
	}
	container.Push(label)

	if t != Region {
		marker := &surface.Marker{
			Position:    coords,
			Symbol:      surface.SymbolCircle,
			Scale:       4,
			FillColor:   colour,
			StrokeColor: "#fff",
			StrokeWidth: 1,
		}
		if t == Mountain {
			marker.Symbol = surface.SymbolArrow
			marker.Scale = 2
		}
		container.Push(marker)
	}
	return container
}
