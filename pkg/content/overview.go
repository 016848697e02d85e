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

package content

import (
	"fmt"
	"sort"
	"strconv"

	log "github.com/sirupsen/logrus"

	"github.com/spezifisch/sectionmap/pkg/geo"
	"github.com/spezifisch/sectionmap/pkg/surface"
)

const commonOutlineColour = "rgba(0,128,0,0.5)"

// OutlineBounds draws an unfilled rectangle. Zero weight and z fall back to
// 2 and 1.
func OutlineBounds(s surface.Surface, b geo.Bounds, colour string, weight float64, z int) *surface.Rectangle {
	if weight == 0 {
		weight = 2
	}
	if z == 0 {
		z = 1
	}
	r := &surface.Rectangle{
		Bounds: b,
		Stroke: surface.Stroke{Color: colour, Opacity: 0.8, Width: weight},
		ZIndex: z,
	}
	s.Add(r)
	return r
}

func ramp(format string, i, n int) string {
	v := 255 - float64(i)*(128/float64(n))
	return fmt.Sprintf(format, strconv.FormatFloat(v, 'f', -1, 64))
}

// ShowMaps draws the outline overview: every named map (largest first, in
// shades of red) with its reference points, every section's locations (blue)
// and the remaining common locations (green). The viewport is fitted to the
// union of everything drawn, which is also returned.
func (t *Tree) ShowMaps() (geo.Bounds, bool) {
	var extent geo.Extent
	drawn := map[string]struct{}{}

	maps := make([]*NamedMap, len(t.Maps))
	copy(maps, t.Maps)
	sort.SliceStable(maps, func(i, j int) bool {
		return maps[i].Bounds.Area() > maps[j].Bounds.Area()
	})

	for i, m := range maps {
		colour := ramp("rgba(%s,0,0,1)", i, len(maps))
		OutlineBounds(t.surface, m.Bounds, colour, 0, 0)
		extent.AddBounds(m.Bounds)
		for _, e := range m.ReferencePoints {
			t.outlineEntry(e, colour, &extent, drawn)
		}
	}

	for i, sec := range t.Sections {
		colour := ramp("rgba(0,0,%s,1)", i, len(t.Sections))
		for _, sub := range sec.Subsections {
			for _, e := range sub.Entries {
				t.outlineEntry(e, colour, &extent, drawn)
			}
		}
	}

	for _, id := range t.commonOrder {
		if _, ok := drawn[id]; ok {
			continue
		}
		t.outlineEntry(Entry{Ref: id}, commonOutlineColour, &extent, nil)
	}

	b, ok := extent.Bounds()
	if ok {
		t.surface.FitBounds(b)
	}
	log.WithFields(log.Fields{"maps": len(maps), "extent": b}).Debug("map overview drawn")
	return b, ok
}

// outlineEntry draws an entry as a box outline or a small dot. Refs are
// recorded in drawn when it is not nil.
func (t *Tree) outlineEntry(e Entry, colour string, extent *geo.Extent, drawn map[string]struct{}) {
	if e.IsRef() && drawn != nil {
		drawn[e.Ref] = struct{}{}
	}
	l := t.Lookup(e)
	if l == nil {
		return
	}
	d := l.Details()
	switch {
	case d.Bounds != nil:
		OutlineBounds(t.surface, *d.Bounds, colour, 1, 0)
		extent.AddBounds(*d.Bounds)
	case d.Location != nil:
		t.surface.Add(&surface.Marker{
			Position:    *d.Location,
			Symbol:      surface.SymbolCircle,
			Scale:       2,
			FillColor:   colour,
			StrokeColor: colour,
			StrokeWidth: 1,
		})
		extent.AddPoint(*d.Location)
	}
}
