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

package geo

import (
	"math"

	"github.com/paulmach/orb"
	orbgeo "github.com/paulmach/orb/geo"
	"github.com/paulmach/orb/project"
)

// LatLng is a geographic point in degrees.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Equal is exact, the draw editor relies on it for closed-loop detection.
func (p LatLng) Equal(o LatLng) bool {
	return p.Lat == o.Lat && p.Lng == o.Lng
}

// Point converts to an orb point (x is longitude).
func (p LatLng) Point() orb.Point {
	return orb.Point{p.Lng, p.Lat}
}

// FromPoint converts an orb point back.
func FromPoint(p orb.Point) LatLng {
	return LatLng{Lat: p.Lat(), Lng: p.Lon()}
}

// Bounds is an axis-aligned box. NE.Lat >= SW.Lat and NE.Lng >= SW.Lng is
// expected but not enforced on ingestion.
type Bounds struct {
	NE LatLng
	SW LatLng
}

// NewBounds returns the box spanned by a south-west and a north-east corner.
func NewBounds(sw, ne LatLng) Bounds {
	return Bounds{NE: ne, SW: sw}
}

// BoundsFromEdges builds a box from the document's north/south/east/west form.
func BoundsFromEdges(north, south, east, west float64) Bounds {
	return Bounds{NE: LatLng{Lat: north, Lng: east}, SW: LatLng{Lat: south, Lng: west}}
}

// Bound converts to an orb bound.
func (b Bounds) Bound() orb.Bound {
	return orb.Bound{Min: b.SW.Point(), Max: b.NE.Point()}
}

// Contains reports whether p lies in the box, edges included.
func (b Bounds) Contains(p LatLng) bool {
	return p.Lat <= b.NE.Lat && p.Lat >= b.SW.Lat && p.Lng <= b.NE.Lng && p.Lng >= b.SW.Lng
}

// Center returns the middle of the box.
func (b Bounds) Center() LatLng {
	return FromPoint(b.Bound().Center())
}

// Area is the box size in square degrees, only meaningful for ranking.
func (b Bounds) Area() float64 {
	return math.Abs(b.NE.Lat-b.SW.Lat) * math.Abs(b.NE.Lng-b.SW.Lng)
}

// Corners returns the north-east and south-west corner.
func (b Bounds) Corners() []LatLng {
	return []LatLng{b.NE, b.SW}
}

// BoundsFromPoints returns the smallest box holding every point. ok is false
// for an empty list.
func BoundsFromPoints(list []LatLng) (b Bounds, ok bool) {
	if len(list) == 0 {
		return
	}
	mp := make(orb.MultiPoint, 0, len(list))
	for _, p := range list {
		mp = append(mp, p.Point())
	}
	bound := mp.Bound()
	return Bounds{NE: FromPoint(bound.Max), SW: FromPoint(bound.Min)}, true
}

// Extent accumulates the union of points and boxes. The zero value is empty.
type Extent struct {
	b   Bounds
	set bool
}

// AddPoint grows the extent to include p.
func (e *Extent) AddPoint(p LatLng) {
	if !e.set {
		e.b = Bounds{NE: p, SW: p}
		e.set = true
		return
	}
	e.b.NE.Lat = math.Max(e.b.NE.Lat, p.Lat)
	e.b.NE.Lng = math.Max(e.b.NE.Lng, p.Lng)
	e.b.SW.Lat = math.Min(e.b.SW.Lat, p.Lat)
	e.b.SW.Lng = math.Min(e.b.SW.Lng, p.Lng)
}

// AddBounds grows the extent to include both corners of b.
func (e *Extent) AddBounds(b Bounds) {
	e.AddPoint(b.NE)
	e.AddPoint(b.SW)
}

// Bounds returns the accumulated box; ok is false while nothing was added.
func (e *Extent) Bounds() (Bounds, bool) {
	return e.b, e.set
}

// Distance returns the great-circle distance in metres.
func Distance(a, b LatLng) float64 {
	return orbgeo.Distance(a.Point(), b.Point())
}

// Heading returns the initial bearing from a to b in degrees from north.
func Heading(a, b LatLng) float64 {
	return orbgeo.Bearing(a.Point(), b.Point())
}

// worldSize is the Web Mercator world width at zoom 0.
const worldSize = 256.0

// WorldPoint returns the Web Mercator world coordinate of p at zoom 0, the
// same space map engines use before scaling by 2^zoom.
func WorldPoint(p LatLng) (x, y float64) {
	m := project.WGS84.ToMercator(p.Point())
	half := math.Pi * orb.EarthRadius
	x = (m.X() + half) / (2 * half) * worldSize
	y = (half - m.Y()) / (2 * half) * worldSize
	return
}
