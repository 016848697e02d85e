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
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"

	"github.com/spezifisch/sectionmap/pkg/geo"
	"github.com/spezifisch/sectionmap/pkg/location"
	"github.com/spezifisch/sectionmap/pkg/surface"
)

var (
	// ErrInvalidDocument is returned for input that is not a JSON object.
	ErrInvalidDocument = errors.New("invalid content document")
	// ErrNoSections is returned alongside a usable tree when the document
	// has no Sections map.
	ErrNoSections = errors.New("no sections loaded")
)

// maxRangeSpan caps the subsections a Range may create.
const maxRangeSpan = 10000

var (
	blockComment = regexp.MustCompile(`(?s)/\*.*?\*/`)
	rangeChars   = regexp.MustCompile(`[-:]`)
)

// StripComments removes /* ... */ comments from a document.
func StripComments(doc []byte) []byte {
	return blockComment.ReplaceAll(doc, nil)
}

// Parse builds a tree from a content document. Missing top-level fields are
// defaulted. A missing Sections map yields a usable empty tree together with
// ErrNoSections; anything that is not a JSON object fails with
// ErrInvalidDocument.
func Parse(doc []byte, s surface.Surface) (t *Tree, err error) {
	doc = StripComments(doc)
	if !gjson.ValidBytes(doc) {
		return nil, fmt.Errorf("%w: malformed JSON", ErrInvalidDocument)
	}
	root := gjson.ParseBytes(doc)
	if !root.IsObject() {
		return nil, fmt.Errorf("%w: top level is %s, not an object", ErrInvalidDocument, root.Type)
	}

	t = NewTree(s)
	t.Info = parseInfo(root.Get("Info"))
	t.MapType = parseMapType(root.Get("MapType"), "document")

	for _, m := range members(root.Get("Common")) {
		t.addCommon(m.key, location.New(parseDetails(m.value), s))
	}

	for _, m := range members(root.Get("Maps")) {
		t.addMap(t.parseMap(m.key, m.value))
	}

	sections := root.Get("Sections")
	if !sections.IsObject() {
		log.Error("No sections loaded.")
		err = ErrNoSections
	}

	unknown := map[string]struct{}{}
	for _, m := range members(sections) {
		if rangeChars.MatchString(m.key) {
			t.DisableRange = true
		}
		t.addSection(t.parseSection(m.key, m.value, unknown))
	}

	pages := root.Get("Pages")
	if pages.IsArray() {
		for _, p := range pages.Array() {
			t.Pages = append(t.Pages, p.String())
		}
	} else {
		t.Pages = t.SectionIDs()
	}

	if len(unknown) > 0 {
		for u := range unknown {
			t.Unknown = append(t.Unknown, u)
		}
		sort.Strings(t.Unknown)
		log.Warnf("Unknown locations:\n - %s", strings.Join(t.Unknown, "\n - "))
	}

	log.WithFields(log.Fields{
		"name":     t.Info.Name,
		"sections": len(t.Sections),
		"common":   len(t.commonOrder),
		"maps":     len(t.Maps),
		"range":    !t.DisableRange,
	}).Info("content document parsed")
	return
}

func parseInfo(v gjson.Result) Info {
	if !v.IsObject() {
		return Info{Name: "Unnamed"}
	}
	return Info{Name: v.Get("Name").String(), Description: v.Get("Description").String()}
}

func parseMapType(v gjson.Result, where string) surface.MapType {
	if !v.Exists() {
		return ""
	}
	mt, ok := surface.ParseMapType(v.String())
	if !ok {
		log.WithField("where", where).Warnf("ignoring unknown map type %q", v.String())
	}
	return mt
}

// parseLatLng reifies objects carrying a lat field.
func parseLatLng(v gjson.Result) (geo.LatLng, bool) {
	if !v.IsObject() || !v.Get("lat").Exists() {
		return geo.LatLng{}, false
	}
	return geo.LatLng{Lat: v.Get("lat").Float(), Lng: v.Get("lng").Float()}, true
}

// parseBounds reifies objects carrying a north field.
func parseBounds(v gjson.Result) (geo.Bounds, bool) {
	if !v.IsObject() || !v.Get("north").Exists() {
		return geo.Bounds{}, false
	}
	return geo.BoundsFromEdges(
		v.Get("north").Float(),
		v.Get("south").Float(),
		v.Get("east").Float(),
		v.Get("west").Float(),
	), true
}

func parseDetails(v gjson.Result) location.Details {
	d := location.Details{
		Label:         v.Get("Label").String(),
		Type:          location.Type(v.Get("Type").String()),
		Reference:     v.Get("Reference").Bool(),
		OutsideBounds: v.Get("OutsideBounds").Bool(),
		Class:         v.Get("Class").String(),
	}
	if p, ok := parseLatLng(v.Get("Location")); ok {
		d.Location = &p
	}
	if b, ok := parseBounds(v.Get("Bounds")); ok {
		d.Bounds = &b
	}
	for _, p := range v.Get("Poly").Array() {
		if ll, ok := parseLatLng(p); ok {
			d.Poly = append(d.Poly, ll)
		}
	}
	return d
}

func (t *Tree) parseMap(name string, v gjson.Result) *NamedMap {
	m := &NamedMap{Name: name}
	b, ok := parseBounds(v.Get("Bounds"))
	if !ok {
		log.WithField("map", name).Warn("map has no bounds")
	}
	m.Bounds = b
	for _, rp := range v.Get("ReferencePoints").Array() {
		if rp.Type == gjson.String {
			m.ReferencePoints = append(m.ReferencePoints, Entry{Ref: rp.String()})
			continue
		}
		m.ReferencePoints = append(m.ReferencePoints, Entry{Inline: location.New(parseDetails(rp), t.surface)})
	}
	return m
}

func (t *Tree) parseSection(id string, v gjson.Result, unknown map[string]struct{}) *Section {
	sec := newSection(id)
	sec.Map = v.Get("Map").String()
	sec.MapType = parseMapType(v.Get("MapType"), id)

	var subs []*Subsection
	for _, m := range members(v.Get("Subsections")) {
		if rangeChars.MatchString(m.key) {
			t.DisableRange = true
		}
		if !m.value.IsArray() {
			log.WithFields(log.Fields{"section": id, "subsection": m.key}).Warn("subsection is not a list")
		}
		sub := &Subsection{ID: m.key}
		for _, e := range m.value.Array() {
			sub.Entries = append(sub.Entries, t.parseEntry(e, unknown))
		}
		subs = append(subs, sub)
	}

	if r := v.Get("Range"); r.IsArray() && len(r.Array()) == 2 {
		lo, hi := r.Array()[0].Int(), r.Array()[1].Int()
		if lo < 0 || hi-lo >= maxRangeSpan {
			log.WithFields(log.Fields{"section": id, "from": lo, "to": hi}).Warn("ignoring out of bounds subsection range")
		} else {
			subs = fillRange(sec, subs, lo, hi)
		}
	}

	sec.setSubsections(subs)
	return sec
}

// fillRange adds an empty subsection for every number in lo..hi that the
// document did not list, keeping index order.
func fillRange(sec *Section, subs []*Subsection, lo, hi int64) []*Subsection {
	sec.Range = &[2]int{int(lo), int(hi)}
	have := map[string]bool{}
	for _, sub := range subs {
		have[sub.ID] = true
	}
	for i := lo; i <= hi; i++ {
		id := strconv.FormatInt(i, 10)
		if !have[id] {
			subs = append(subs, &Subsection{ID: id})
		}
	}
	sortIndexFirst(subs, func(s *Subsection) string { return s.ID })
	return subs
}

func (t *Tree) parseEntry(e gjson.Result, unknown map[string]struct{}) Entry {
	if e.Type != gjson.String {
		return Entry{Inline: location.New(parseDetails(e), t.surface)}
	}
	ref := e.String()
	if _, ok := t.common[ref]; ok {
		return Entry{Ref: ref}
	}
	unknown[ref] = struct{}{}
	return Entry{Inline: location.NewUnknown(ref, t.surface)}
}
