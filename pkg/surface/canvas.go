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

package surface

import (
	"math"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/spezifisch/sectionmap/pkg/geo"
)

const (
	defaultWidth  = 1024
	defaultHeight = 768
	maxZoom       = 21
)

type listener struct {
	target any
	event  string
	fn     Handler
}

// Canvas is a headless Surface. It keeps the attached drawables, the
// viewport and the registered listeners in memory so the result can be
// exported or inspected. It is not safe for concurrent use.
type Canvas struct {
	width, height int

	attached []Drawable
	adds     map[Drawable]int
	removes  map[Drawable]int

	viewport    geo.Bounds
	hasViewport bool
	zoom        float64
	mapType     MapType

	listeners map[ListenerID]listener
	order     []ListenerID

	ready   bool
	onReady []func()
}

// NewCanvas returns a canvas of the given pixel size. Non-positive sizes fall
// back to 1024x768.
func NewCanvas(width, height int) *Canvas {
	if width <= 0 || height <= 0 {
		width, height = defaultWidth, defaultHeight
	}
	return &Canvas{
		width:     width,
		height:    height,
		adds:      map[Drawable]int{},
		removes:   map[Drawable]int{},
		listeners: map[ListenerID]listener{},
		mapType:   Terrain,
	}
}

var _ Surface = (*Canvas)(nil)

// Add attaches d. Attaching an attached drawable keeps its position.
func (c *Canvas) Add(d Drawable) {
	if d == nil {
		return
	}
	c.adds[d]++
	if c.IsAttached(d) {
		return
	}
	c.attached = append(c.attached, d)
}

// Remove detaches d if attached.
func (c *Canvas) Remove(d Drawable) {
	if d == nil {
		return
	}
	for i, a := range c.attached {
		if a == d {
			c.removes[d]++
			c.attached = append(c.attached[:i], c.attached[i+1:]...)
			return
		}
	}
}

// IsAttached reports whether d is currently on the canvas.
func (c *Canvas) IsAttached(d Drawable) bool {
	for _, a := range c.attached {
		if a == d {
			return true
		}
	}
	return false
}

// Attached returns the attached drawables in attach order.
func (c *Canvas) Attached() []Drawable {
	out := make([]Drawable, len(c.attached))
	copy(out, c.attached)
	return out
}

// AddCount returns how often d was passed to Add.
func (c *Canvas) AddCount(d Drawable) int { return c.adds[d] }

// RemoveCount returns how often d was actually detached.
func (c *Canvas) RemoveCount(d Drawable) int { return c.removes[d] }

// FitBounds moves the viewport onto b and picks the largest whole zoom level
// that still shows all of it.
func (c *Canvas) FitBounds(b geo.Bounds) {
	c.viewport = b
	c.hasViewport = true
	c.zoom = c.fitZoom(b)
	log.WithFields(log.Fields{"bounds": b, "zoom": c.zoom}).Debug("canvas fit")
	c.Trigger(EventBoundsChanged, Event{})
}

func (c *Canvas) fitZoom(b geo.Bounds) float64 {
	x0, y0 := geo.WorldPoint(b.SW)
	x1, y1 := geo.WorldPoint(b.NE)
	dx, dy := math.Abs(x1-x0), math.Abs(y1-y0)
	zoom := float64(maxZoom)
	if dx > 0 {
		zoom = math.Min(zoom, math.Log2(float64(c.width)/dx))
	}
	if dy > 0 {
		zoom = math.Min(zoom, math.Log2(float64(c.height)/dy))
	}
	return math.Max(0, math.Floor(zoom))
}

// Bounds returns the viewport.
func (c *Canvas) Bounds() (geo.Bounds, bool) {
	return c.viewport, c.hasViewport
}

// Zoom returns the current zoom level.
func (c *Canvas) Zoom() float64 { return c.zoom }

// SetZoom overrides the zoom level without moving the viewport.
func (c *Canvas) SetZoom(z float64) { c.zoom = z }

// SetMapType changes the base map. Empty types are ignored.
func (c *Canvas) SetMapType(t MapType) {
	if t == "" {
		return
	}
	c.mapType = t
}

// MapType returns the current base map.
func (c *Canvas) MapType() MapType { return c.mapType }

// Listen registers a handler for a map-level event.
func (c *Canvas) Listen(event string, h Handler) ListenerID {
	return c.ListenObject(nil, event, h)
}

// ListenObject registers a handler for an event on obj. A nil obj means the
// map itself.
func (c *Canvas) ListenObject(obj any, event string, h Handler) ListenerID {
	id := ListenerID(uuid.NewString())
	c.listeners[id] = listener{target: obj, event: event, fn: h}
	c.order = append(c.order, id)
	return id
}

// Unlisten removes a handler. Unknown ids are ignored.
func (c *Canvas) Unlisten(id ListenerID) {
	if _, ok := c.listeners[id]; !ok {
		return
	}
	delete(c.listeners, id)
	for i, o := range c.order {
		if o == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}

// Trigger delivers a map-level event.
func (c *Canvas) Trigger(event string, ev Event) {
	c.TriggerObject(nil, event, ev)
}

// TriggerObject delivers an event to handlers registered on obj, in
// registration order. Handlers added while dispatching are not called.
func (c *Canvas) TriggerObject(obj any, event string, ev Event) {
	ids := make([]ListenerID, len(c.order))
	copy(ids, c.order)
	for _, id := range ids {
		l, ok := c.listeners[id]
		if !ok || l.event != event || l.target != obj {
			continue
		}
		l.fn(ev)
	}
}

// ListenerCount returns the number of live handlers.
func (c *Canvas) ListenerCount() int { return len(c.listeners) }

// PointToOffset projects p to world pixels. It fails until the canvas is ready.
func (c *Canvas) PointToOffset(p geo.LatLng) (Offset, bool) {
	if !c.ready {
		return Offset{}, false
	}
	x, y := geo.WorldPoint(p)
	return Offset{X: x, Y: y}, true
}

// Distance returns metres between a and b.
func (c *Canvas) Distance(a, b geo.LatLng) float64 { return geo.Distance(a, b) }

// Heading returns the bearing from a to b in degrees.
func (c *Canvas) Heading(a, b geo.LatLng) float64 { return geo.Heading(a, b) }

// Ready reports whether MarkReady was called.
func (c *Canvas) Ready() bool { return c.ready }

// OnReady registers fn for the one-time ready notification. It runs at once
// if the canvas is already ready.
func (c *Canvas) OnReady(fn func()) {
	if c.ready {
		fn()
		return
	}
	c.onReady = append(c.onReady, fn)
}

// MarkReady fires the ready notification. Later calls do nothing.
func (c *Canvas) MarkReady() {
	if c.ready {
		return
	}
	c.ready = true
	fns := c.onReady
	c.onReady = nil
	for _, fn := range fns {
		fn()
	}
}
