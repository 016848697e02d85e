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

package location

import (
	"github.com/spezifisch/sectionmap/pkg/geo"
	"github.com/spezifisch/sectionmap/pkg/surface"
)

type unknownLocation struct{ base }

func (l *unknownLocation) Draw() {}
func (l *unknownLocation) Bounds() []geo.LatLng { return nil }

// pointLocation also serves Mountain and Area.
type pointLocation struct{ base }

func (l *pointLocation) Draw() {
	if l.reattach() {
		return
	}
	d := l.details
	if d.Location == nil {
		return
	}
	l.adopt(BuildPoint(*d.Location, d.Type, defaultColour, d.Label, d.Class))
}

// Bounds is a single point; south-west and north-east coincide.
func (l *pointLocation) Bounds() []geo.LatLng {
	if l.details.Location == nil {
		return nil
	}
	return []geo.LatLng{*l.details.Location}
}

// regionLocation also serves Sea.
type regionLocation struct{ base }

func (l *regionLocation) Draw() {
	if l.reattach() {
		return
	}
	d := l.details
	var point geo.LatLng
	switch {
	case d.Location != nil:
		point = *d.Location
	case d.Bounds != nil:
		point = d.Bounds.Center()
	default:
		return
	}
	l.adopt(BuildPoint(point, d.Type, defaultColour, d.Label, d.Class))
}

func (l *regionLocation) Bounds() []geo.LatLng {
	d := l.details
	switch {
	case d.Location != nil:
		return []geo.LatLng{*d.Location}
	case d.Bounds != nil:
		return d.Bounds.Corners()
	}
	return nil
}

type lineLocation struct{ base }

func (l *lineLocation) Draw() {
	if l.reattach() {
		return
	}
	c := &surface.Container{}
	c.Push(
		&surface.Polyline{Path: l.details.Poly, Stroke: surface.Stroke{Color: "#fff", Opacity: 1, Width: 4}},
		&surface.Polyline{Path: l.details.Poly, Stroke: surface.Stroke{Color: defaultColour, Opacity: 1, Width: 2}},
	)
	l.adopt(c)
}

func (l *lineLocation) Bounds() []geo.LatLng {
	b, ok := geo.BoundsFromPoints(l.details.Poly)
	if !ok {
		return nil
	}
	return b.Corners()
}
