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
	log "github.com/sirupsen/logrus"

	"github.com/spezifisch/sectionmap/pkg/geo"
	"github.com/spezifisch/sectionmap/pkg/location"
	"github.com/spezifisch/sectionmap/pkg/surface"
)

// Sync puts the selected locations on the surface and takes everything else
// off, then returns the points the camera should frame. Drawables are only
// ever re-attached, and a common location that is still selected through
// another subsection is never detached, so nothing visibly flickers.
func (t *Tree) Sync(sel Selection, defaultType surface.MapType) (shown []geo.LatLng) {
	// reference locations are always on the map, styled as such
	for _, id := range t.commonOrder {
		drawReference(t.common[id])
	}
	for _, sec := range t.Sections {
		for _, sub := range sec.Subsections {
			for _, e := range sub.Entries {
				if !e.IsRef() {
					drawReference(e.Inline)
				}
			}
		}
	}

	protect := map[string]struct{}{}
	for _, ss := range sel {
		for _, sub := range t.selected(ss) {
			for _, e := range sub.Entries {
				if e.IsRef() {
					protect[e.Ref] = struct{}{}
				}
			}
		}
	}

	hidden := 0
	for _, sec := range t.Sections {
		for _, sub := range sec.Subsections {
			if sel.Has(sec.ID, sub.ID) {
				continue
			}
			for _, e := range sub.Entries {
				if e.IsRef() {
					if _, ok := protect[e.Ref]; ok {
						continue
					}
				}
				l := t.Lookup(e)
				if l == nil {
					continue
				}
				if l.Details().Reference {
					l.Container().AddClass(location.ReferenceClass)
					continue
				}
				l.Hide()
				hidden++
			}
		}
	}

	drawn := 0
	for _, ss := range sel {
		sec, ok := t.sections[ss.Section]
		if !ok {
			continue
		}
		for _, sub := range t.selected(ss) {
			for _, e := range sub.Entries {
				l := t.Lookup(e)
				if l == nil {
					continue
				}
				if !l.Details().OutsideBounds {
					shown = append(shown, l.Bounds()...)
				}
				l.Draw()
				l.Container().RemoveClass(location.ReferenceClass)
				drawn++
			}
		}
		t.surface.SetMapType(t.mapTypeFor(sec, defaultType))
	}

	log.WithFields(log.Fields{
		"sections": len(sel),
		"drawn":    drawn,
		"hidden":   hidden,
		"points":   len(shown),
	}).Debug("visibility synced")
	return
}

func drawReference(l location.Location) {
	if l == nil || !l.Details().Reference {
		return
	}
	l.Draw()
	l.Container().AddClass(location.ReferenceClass)
}

// selected returns the subsections named by ss that exist in the tree.
func (t *Tree) selected(ss SectionSelection) []*Subsection {
	sec, ok := t.sections[ss.Section]
	if !ok {
		return nil
	}
	subs := make([]*Subsection, 0, len(ss.Subsections))
	for _, id := range ss.Subsections {
		if sub, ok := sec.Subsection(id); ok {
			subs = append(subs, sub)
		}
	}
	return subs
}

func (t *Tree) mapTypeFor(sec *Section, defaultType surface.MapType) surface.MapType {
	switch {
	case sec.MapType != "":
		return sec.MapType
	case t.MapType != "":
		return t.MapType
	}
	return defaultType
}
