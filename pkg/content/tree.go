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

// Package content holds a loaded map document and the logic that decides
// which of its locations are on the map.
package content

import (
	"github.com/spezifisch/sectionmap/pkg/geo"
	"github.com/spezifisch/sectionmap/pkg/location"
	"github.com/spezifisch/sectionmap/pkg/surface"
)

// Info is advisory document metadata.
type Info struct {
	Name        string
	Description string
}

// NamedMap is a named viewport the camera can snap to.
type NamedMap struct {
	Name            string
	Bounds          geo.Bounds
	ReferencePoints []Entry
}

// Entry is one item of a subsection: either a key into the common pool or a
// location owned by the subsection itself. Refs stay unresolved until the
// locations are synced so that shared entries can be recognised by key.
type Entry struct {
	Ref    string
	Inline location.Location
}

// IsRef reports whether the entry points into the common pool.
func (e Entry) IsRef() bool { return e.Inline == nil }

// Subsection is an ordered list of entries.
type Subsection struct {
	ID      string
	Entries []Entry
}

// Section is an ordered list of subsections with optional display overrides.
type Section struct {
	ID          string
	Subsections []*Subsection
	Map         string
	MapType     surface.MapType
	Range       *[2]int

	index map[string]int
}

func newSection(id string) *Section {
	return &Section{ID: id, index: map[string]int{}}
}

// Subsection looks up a subsection by id.
func (s *Section) Subsection(id string) (*Subsection, bool) {
	i, ok := s.index[id]
	if !ok {
		return nil, false
	}
	return s.Subsections[i], true
}

// SubsectionIDs returns the subsection ids in order.
func (s *Section) SubsectionIDs() []string {
	ids := make([]string, len(s.Subsections))
	for i, sub := range s.Subsections {
		ids[i] = sub.ID
	}
	return ids
}

func (s *Section) position(id string) int {
	if i, ok := s.index[id]; ok {
		return i
	}
	return -1
}

// setSubsections replaces the subsections and rebuilds the index.
func (s *Section) setSubsections(subs []*Subsection) {
	s.Subsections = subs
	s.index = make(map[string]int, len(subs))
	for i, sub := range subs {
		s.index[sub.ID] = i
	}
}

// Tree is a parsed content document bound to the surface its locations draw
// on. Locations are mutated in place across navigations but never replaced.
type Tree struct {
	Info     Info
	Pages    []string
	MapType  surface.MapType
	Unknown  []string
	Sections []*Section
	Maps     []*NamedMap

	// DisableRange is set when an id contains '-' or ':' and selectors must
	// be taken literally.
	DisableRange bool

	common      map[string]location.Location
	commonOrder []string
	sections    map[string]*Section
	maps        map[string]*NamedMap
	surface     surface.Surface
}

// NewTree returns an empty tree, the state before any document is loaded.
func NewTree(s surface.Surface) *Tree {
	return &Tree{
		Info:     Info{Name: "No data"},
		common:   map[string]location.Location{},
		sections: map[string]*Section{},
		maps:     map[string]*NamedMap{},
		surface:  s,
	}
}

// Surface returns the surface the tree draws on.
func (t *Tree) Surface() surface.Surface { return t.surface }

// Section looks up a section by id.
func (t *Tree) Section(id string) (*Section, bool) {
	s, ok := t.sections[id]
	return s, ok
}

// SectionIDs returns the section ids in order.
func (t *Tree) SectionIDs() []string {
	ids := make([]string, len(t.Sections))
	for i, s := range t.Sections {
		ids[i] = s.ID
	}
	return ids
}

func (t *Tree) sectionPosition(id string) int {
	for i, s := range t.Sections {
		if s.ID == id {
			return i
		}
	}
	return -1
}

// Map looks up a named map.
func (t *Tree) Map(name string) (*NamedMap, bool) {
	m, ok := t.maps[name]
	return m, ok
}

// Common looks up a shared location by key.
func (t *Tree) Common(id string) (location.Location, bool) {
	l, ok := t.common[id]
	return l, ok
}

// CommonIDs returns the common pool keys in document order.
func (t *Tree) CommonIDs() []string {
	out := make([]string, len(t.commonOrder))
	copy(out, t.commonOrder)
	return out
}

// Lookup returns the location behind an entry, or nil for a ref that is not
// in the common pool.
func (t *Tree) Lookup(e Entry) location.Location {
	if !e.IsRef() {
		return e.Inline
	}
	return t.common[e.Ref]
}

func (t *Tree) addCommon(id string, l location.Location) {
	if _, ok := t.common[id]; !ok {
		t.commonOrder = append(t.commonOrder, id)
	}
	t.common[id] = l
}

func (t *Tree) addSection(s *Section) {
	if _, ok := t.sections[s.ID]; ok {
		for i, old := range t.Sections {
			if old.ID == s.ID {
				t.Sections[i] = s
			}
		}
	} else {
		t.Sections = append(t.Sections, s)
	}
	t.sections[s.ID] = s
}

func (t *Tree) addMap(m *NamedMap) {
	if _, ok := t.maps[m.Name]; ok {
		for i, old := range t.Maps {
			if old.Name == m.Name {
				t.Maps[i] = m
			}
		}
	} else {
		t.Maps = append(t.Maps, m)
	}
	t.maps[m.Name] = m
}
