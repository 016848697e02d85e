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

// Package surface is the contract between the content engine and whatever
// renders the map, plus a headless Canvas implementation of it.
package surface

import (
	"github.com/spezifisch/sectionmap/pkg/geo"
)

// MapType is the base map style.
type MapType string

// Map types understood by every surface.
const (
	Terrain   MapType = "terrain"
	Satellite MapType = "satellite"
	Roadmap   MapType = "roadmap"
)

// ParseMapType validates a map type name.
func ParseMapType(s string) (MapType, bool) {
	switch t := MapType(s); t {
	case Terrain, Satellite, Roadmap:
		return t, true
	}
	return "", false
}

// Event names delivered by surfaces.
const (
	EventClick         = "click"
	EventBoundsChanged = "bounds_changed"
	EventDragEnd       = "dragend"
)

// Event is the payload of a surface notification.
type Event struct {
	LatLng    geo.LatLng
	HasLatLng bool
}

// At returns an event located at p.
func At(p geo.LatLng) Event {
	return Event{LatLng: p, HasLatLng: true}
}

// Handler receives surface notifications.
type Handler func(Event)

// ListenerID identifies a registered handler.
type ListenerID string

// Offset is a position in world pixel space at zoom 0.
type Offset struct {
	X float64
	Y float64
}

// Surface is everything the core needs from a map engine.
type Surface interface {
	Add(d Drawable)
	Remove(d Drawable)

	FitBounds(b geo.Bounds)
	// Bounds returns the visible viewport; ok is false before the first fit.
	Bounds() (b geo.Bounds, ok bool)
	Zoom() float64
	SetMapType(t MapType)

	Listen(event string, h Handler) ListenerID
	ListenObject(obj any, event string, h Handler) ListenerID
	Unlisten(id ListenerID)
	Trigger(event string, ev Event)
	TriggerObject(obj any, event string, ev Event)

	// PointToOffset projects p into world pixel space at zoom 0.
	PointToOffset(p geo.LatLng) (Offset, bool)
	Distance(a, b geo.LatLng) float64
	Heading(a, b geo.LatLng) float64

	Ready() bool
	OnReady(fn func())
}
