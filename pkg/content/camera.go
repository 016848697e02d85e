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
	"sort"

	"github.com/spezifisch/sectionmap/pkg/geo"
)

// Camera is where the viewport should go after a navigation.
type Camera struct {
	Bounds geo.Bounds
	// Map is the named map used, empty when Bounds was computed.
	Map string
}

// Computed reports whether the camera frames the points themselves rather
// than a named map.
func (c Camera) Computed() bool { return c.Map == "" }

// RequestedMap returns the map named by the only selected section, if the
// selection spans exactly one section.
func (t *Tree) RequestedMap(sel Selection) string {
	if len(sel) != 1 {
		return ""
	}
	sec, ok := t.sections[sel[0].Section]
	if !ok {
		return ""
	}
	return sec.Map
}

// FindBestMap returns the smallest named map holding every point, or the
// largest map when there are no points at all.
func (t *Tree) FindBestMap(points []geo.LatLng) (string, bool) {
	var fits []*NamedMap
	for _, m := range t.Maps {
		allFit := true
		for _, p := range points {
			if !m.Bounds.Contains(p) {
				allFit = false
				break
			}
		}
		if allFit {
			fits = append(fits, m)
		}
	}
	if len(fits) == 0 {
		return "", false
	}

	sort.SliceStable(fits, func(i, j int) bool {
		return fits[i].Bounds.Area() < fits[j].Bounds.Area()
	})
	if len(points) == 0 {
		return fits[len(fits)-1].Name, true
	}
	return fits[0].Name, true
}

// CameraFor picks the viewport for a navigation: the requested map if it
// exists, else the best fitting map, else the box around the points. ok is
// false when there is nothing to frame.
func (t *Tree) CameraFor(requested string, points []geo.LatLng) (Camera, bool) {
	if m, ok := t.maps[requested]; ok && requested != "" {
		return Camera{Bounds: m.Bounds, Map: m.Name}, true
	}
	if name, ok := t.FindBestMap(points); ok {
		return Camera{Bounds: t.maps[name].Bounds, Map: name}, true
	}
	b, ok := geo.BoundsFromPoints(points)
	if !ok {
		return Camera{}, false
	}
	return Camera{Bounds: b}, true
}
