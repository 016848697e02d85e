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

// Package userloc shows the viewer's own position on the map, and where to
// look for it when it is outside the viewport.
package userloc

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/spezifisch/sectionmap/pkg/geo"
	"github.com/spezifisch/sectionmap/pkg/location"
	"github.com/spezifisch/sectionmap/pkg/surface"
)

// ErrBadPosition is returned by ParsePosition for malformed input.
var ErrBadPosition = errors.New("bad position")

const (
	markerColour = "#080"
	markerText   = "You"
)

// Indicator describes the off-screen pointer towards the viewer. It is
// pinned to the viewport corner nearest the position.
type Indicator struct {
	Visible    bool
	Vertical   string // top or bottom
	Horizontal string // left or right
	Corner     geo.LatLng
	// Bearing is in degrees from north, from Corner towards the position.
	Bearing    float64
	DistanceKm float64
	Text       string
}

// Tracker keeps the "You" marker in sync with the last known position and
// the viewport.
type Tracker struct {
	surface  surface.Surface
	status   func(string)
	printer  *message.Printer
	listener surface.ListenerID

	pos       *geo.LatLng
	marker    *surface.Container
	indicator Indicator
}

// New binds a tracker to s. Position failures are reported to status, which
// may be nil.
func New(s surface.Surface, status func(string)) *Tracker {
	t := &Tracker{
		surface: s,
		status:  status,
		printer: message.NewPrinter(language.MustParse("en-AU")),
	}
	t.listener = s.Listen(surface.EventBoundsChanged, func(surface.Event) { t.Update() })
	s.OnReady(t.Update)
	return t
}

// Close stops following viewport changes.
func (t *Tracker) Close() {
	t.surface.Unlisten(t.listener)
}

// Success records a new position.
func (t *Tracker) Success(p geo.LatLng) {
	t.pos = &p
	t.Update()
}

// Failure reports a failed position lookup.
func (t *Tracker) Failure(code int, msg string) {
	log.WithField("code", code).Warnf("position unavailable: %s", msg)
	if t.status != nil {
		t.status(fmt.Sprintf("(%d) %s", code, msg))
	}
}

// Marker returns the current "You" drawable, nil before the first update.
func (t *Tracker) Marker() *surface.Container { return t.marker }

// Indicator returns the state of the off-screen pointer.
func (t *Tracker) Indicator() Indicator { return t.indicator }

// Update redraws the marker and recomputes the indicator. It does nothing
// until the surface is ready.
func (t *Tracker) Update() {
	if !t.surface.Ready() {
		return
	}
	if t.marker != nil {
		t.surface.Remove(t.marker)
	}
	if t.pos == nil {
		return
	}
	pos := *t.pos
	t.marker = location.AddPoint(t.surface, pos, location.Point, markerColour, markerText, "")

	b, ok := t.surface.Bounds()
	if !ok || b.Contains(pos) {
		t.indicator = Indicator{}
		return
	}

	ind := Indicator{Visible: true}
	best := -1.0
	for _, ns := range []struct {
		lat  float64
		side string
	}{{b.NE.Lat, "top"}, {b.SW.Lat, "bottom"}} {
		for _, ew := range []struct {
			lng  float64
			side string
		}{{b.NE.Lng, "right"}, {b.SW.Lng, "left"}} {
			corner := geo.LatLng{Lat: ns.lat, Lng: ew.lng}
			d := t.surface.Distance(corner, pos)
			if best < 0 || d < best {
				best = d
				ind.Vertical, ind.Horizontal, ind.Corner = ns.side, ew.side, corner
			}
		}
	}

	ind.Bearing = t.surface.Heading(ind.Corner, pos)
	ind.DistanceKm = best / 1000
	ind.Text = t.printer.Sprintf("%vkm", number.Decimal(ind.DistanceKm, number.Precision(3)))
	t.indicator = ind

	log.WithFields(log.Fields{
		"corner":  ind.Vertical + "-" + ind.Horizontal,
		"bearing": ind.Bearing,
		"dist":    ind.Text,
	}).Debug("viewer outside viewport")
}

// ParsePosition reads a "lat,lng" pair.
func ParsePosition(s string) (p geo.LatLng, err error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		err = fmt.Errorf("%w: %q is not lat,lng", ErrBadPosition, s)
		return
	}
	if p.Lat, err = strconv.ParseFloat(strings.TrimSpace(parts[0]), 64); err != nil {
		err = fmt.Errorf("%w: latitude: %v", ErrBadPosition, err)
		return
	}
	if p.Lng, err = strconv.ParseFloat(strings.TrimSpace(parts[1]), 64); err != nil {
		err = fmt.Errorf("%w: longitude: %v", ErrBadPosition, err)
		return
	}
	if p.Lat < -90 || p.Lat > 90 || p.Lng < -180 || p.Lng > 180 {
		err = fmt.Errorf("%w: %q out of range", ErrBadPosition, s)
	}
	return
}
