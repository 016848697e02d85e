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
	"regexp"
	"strings"
)

// SectionSelection is one selected section and its selected subsections.
type SectionSelection struct {
	Section     string
	Subsections []string
}

// Selection is the result of resolving a selector, in tree order.
type Selection []SectionSelection

// Empty reports whether nothing was selected.
func (s Selection) Empty() bool { return len(s) == 0 }

// Sections returns the selected section ids.
func (s Selection) Sections() []string {
	out := make([]string, len(s))
	for i, ss := range s {
		out[i] = ss.Section
	}
	return out
}

// Has reports whether subsection sub of section sec is selected.
func (s Selection) Has(sec, sub string) bool {
	for _, ss := range s {
		if ss.Section != sec {
			continue
		}
		for _, id := range ss.Subsections {
			if id == sub {
				return true
			}
		}
	}
	return false
}

var (
	// two hyphens, two colons without a hyphen between, or a hyphen before
	// the first colon with a colon after it
	malformedRange = regexp.MustCompile(`-.*-|:[^-]*:|^[^:]*-.*:`)
	trailingDigits = regexp.MustCompile(`\d+$`)
	allDigits      = regexp.MustCompile(`^\d+$`)
)

// Resolve turns a selector into the subsections it denotes. Selectors look
// like "Acts 10", "Acts 10:1", "Acts 10-11", "Acts 10:1-5" or
// "Acts 10:1-11:2". Anything unresolvable yields an empty selection.
func (t *Tree) Resolve(selector string) Selection {
	if t.DisableRange || !rangeChars.MatchString(selector) {
		sec, ok := t.sections[selector]
		if !ok {
			return nil
		}
		return Selection{{Section: sec.ID, Subsections: sec.SubsectionIDs()}}
	}

	if malformedRange.MatchString(selector) {
		return nil
	}

	parts := strings.SplitN(selector, "-", 2)
	if len(parts) == 1 {
		secs := strings.SplitN(parts[0], ":", 2)
		sec, ok := t.sections[secs[0]]
		if !ok {
			return nil
		}
		if _, ok := sec.Subsection(secs[1]); !ok {
			return nil
		}
		return Selection{{Section: sec.ID, Subsections: []string{secs[1]}}}
	}

	if !strings.Contains(parts[0], ":") {
		return t.resolveSections(parts[0], expandSection(parts[0], parts[1]))
	}

	start := strings.SplitN(parts[0], ":", 2)
	var end []string
	if strings.Contains(parts[1], ":") {
		end = strings.SplitN(parts[1], ":", 2)
	} else {
		end = []string{start[0], parts[1]}
	}
	end[0] = expandSection(start[0], end[0])
	return t.resolveSpan(start[0], start[1], end[0], end[1])
}

// expandSection reads a bare number as a replacement for the trailing
// number of from, so "Acts 10" and "11" give "Acts 11".
func expandSection(from, to string) string {
	if trailingDigits.MatchString(from) && allDigits.MatchString(to) {
		return trailingDigits.ReplaceAllLiteralString(from, to)
	}
	return to
}

// resolveSections selects every subsection of the sections from..to.
func (t *Tree) resolveSections(from, to string) Selection {
	i, j := t.sectionPosition(from), t.sectionPosition(to)
	if i < 0 || j < 0 || i > j {
		return nil
	}
	var sel Selection
	for _, sec := range t.Sections[i : j+1] {
		sel = append(sel, SectionSelection{Section: sec.ID, Subsections: sec.SubsectionIDs()})
	}
	return sel
}

// resolveSpan selects from subsection fromSub of section from through
// subsection toSub of section to.
func (t *Tree) resolveSpan(from, fromSub, to, toSub string) Selection {
	i, j := t.sectionPosition(from), t.sectionPosition(to)
	if i < 0 || j < 0 || i > j {
		return nil
	}
	first, last := t.Sections[i], t.Sections[j]
	a, b := first.position(fromSub), last.position(toSub)
	if a < 0 || b < 0 || (i == j && a > b) {
		return nil
	}

	if i == j {
		ids := first.SubsectionIDs()
		return Selection{{Section: first.ID, Subsections: ids[a : b+1]}}
	}

	var sel Selection
	for k := i; k <= j; k++ {
		sec := t.Sections[k]
		ids := sec.SubsectionIDs()
		switch k {
		case i:
			ids = ids[a:]
		case j:
			ids = ids[:b+1]
		}
		sel = append(sel, SectionSelection{Section: sec.ID, Subsections: ids})
	}
	return sel
}
