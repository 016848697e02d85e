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

// Package draw is an interactive multi-line editor on top of a map surface.
// Clicks append vertices to the current line, vertices snap to nearby
// vertices of other lines or to the far end of their own line, and finished
// lines are kept in the background in their own colour.
package draw

import (
	"math"

	log "github.com/sirupsen/logrus"

	"github.com/spezifisch/sectionmap/pkg/geo"
	"github.com/spezifisch/sectionmap/pkg/keys"
	"github.com/spezifisch/sectionmap/pkg/surface"
)

// SnapDistance is the snapping radius in screen pixels.
const SnapDistance = 20

// Colours are assigned to lines by index.
var Colours = []string{
	"#000000",
	"#0000ff",
	"#00ff00",
	"#00ffff",
	"#ff0000",
	"#ff00ff",
	"#ffff00",
	"#ffffff",
}

type vertex struct {
	marker    *surface.Marker
	listeners []surface.ListenerID
}

type line struct {
	points    []geo.LatLng
	vertices  []*vertex
	shape     *surface.Container
	listeners []surface.ListenerID
}

func (l *line) closed() bool {
	n := len(l.points)
	return n >= 2 && l.points[0].Equal(l.points[n-1])
}

// Editor holds the lines being drawn. It is driven by surface events and
// key presses and is not safe for concurrent use.
type Editor struct {
	surface surface.Surface
	keys    *keys.Dispatcher

	active  bool
	lines   []*line
	current int

	clickListener surface.ListenerID
	keyTokens     []keys.Token
}

// New starts an editor with one empty line and listens for map clicks. Key
// bindings are registered when d is not nil.
func New(s surface.Surface, d *keys.Dispatcher) *Editor {
	e := &Editor{
		surface: s,
		active:  true,
		lines:   []*line{{}},
	}
	e.clickListener = s.Listen(surface.EventClick, e.clickMap)
	if d != nil {
		e.RegisterKeys(d)
	}
	return e
}

// RegisterKeys binds Escape, c, z, n and p to the line operations.
func (e *Editor) RegisterKeys(d *keys.Dispatcher) {
	e.keys = d
	bind := func(key string, fn func()) {
		e.keyTokens = append(e.keyTokens, d.Register(keys.KeyDown, key, func(keys.Event) { fn() }))
	}
	bind("Escape", e.EndLine)
	bind("c", e.CloseLine)
	bind("z", e.UndoLine)
	bind("n", e.NextLine)
	bind("p", e.PrevLine)
}

// Close stops the editor from reacting to clicks and keys. The drawn lines
// stay on the surface.
func (e *Editor) Close() {
	e.active = false
	e.surface.Unlisten(e.clickListener)
	if e.keys != nil {
		for _, tok := range e.keyTokens {
			e.keys.Deregister(tok)
		}
	}
	e.keyTokens = nil
}

// Current returns the index of the line being edited.
func (e *Editor) Current() int { return e.current }

// Lines returns a copy of every line's vertices.
func (e *Editor) Lines() [][]geo.LatLng {
	out := make([][]geo.LatLng, len(e.lines))
	for i, l := range e.lines {
		out[i] = append([]geo.LatLng(nil), l.points...)
	}
	return out
}

func (e *Editor) clickMap(ev surface.Event) {
	if !e.active || !ev.HasLatLng {
		return
	}
	e.AddPoint(ev.LatLng, -1, -1)
}

// AddPoint inserts pos as vertex index of line i. Negative values mean the
// current line and its end. Appended vertices are snapped first.
func (e *Editor) AddPoint(pos geo.LatLng, i, index int) {
	if i < 0 {
		i = e.current
	}
	if i >= len(e.lines) {
		log.WithField("line", i).Warn("no such line")
		return
	}
	l := e.lines[i]
	if index < 0 {
		index = len(l.points)
	}

	if index < len(l.points) {
		l.points = append(l.points[:index], append([]geo.LatLng{pos}, l.points[index:]...)...)
		e.redoMarkers(i)
	} else {
		pos = e.SnapPos(pos, i, index)
		l.points = append(l.points, pos)
		e.addMarker(i, len(l.points)-1)
	}
	e.redrawLine(i)
}

// EndLine puts the current line in the background and starts a new one
// unless the last line is still empty.
func (e *Editor) EndLine() {
	e.backgroundLine(e.current)
	if len(e.lines[len(e.lines)-1].points) > 0 {
		e.lines = append(e.lines, &line{})
	}
	e.current = len(e.lines) - 1
	log.WithFields(log.Fields{"lines": len(e.lines), "current": e.current}).Debug("line ended")
}

// CloseLine joins the ends of the current line unless they already meet,
// then ends it.
func (e *Editor) CloseLine() {
	l := e.lines[e.current]
	if len(l.points) >= 2 && !l.closed() {
		e.AddPoint(l.points[0], -1, -1)
	}
	e.EndLine()
}

// UndoLine drops the last vertex of the current line.
func (e *Editor) UndoLine() {
	l := e.lines[e.current]
	j := len(l.points) - 1
	if j < 0 {
		return
	}
	if j < len(l.vertices) {
		e.removeVertex(l.vertices[j])
		l.vertices = l.vertices[:j]
	}
	l.points = l.points[:j]
	e.redrawLine(e.current)
}

// NextLine switches editing to the following line, wrapping around.
func (e *Editor) NextLine() {
	e.backgroundLine(e.current)
	e.current = (e.current + 1) % len(e.lines)
	e.foregroundLine(e.current)
}

// PrevLine switches editing to the preceding line, wrapping around.
func (e *Editor) PrevLine() {
	e.backgroundLine(e.current)
	e.current = (e.current + len(e.lines) - 1) % len(e.lines)
	e.foregroundLine(e.current)
}

// SnapPos returns the nearest vertex within SnapDistance pixels of pos that
// vertex index oj of line oi may snap to, or pos itself. Vertices of other
// lines always qualify. On the same line only the opposite end does, so an
// open line can be closed without snapping onto its own middle.
func (e *Editor) SnapPos(pos geo.LatLng, oi, oj int) geo.LatLng {
	np, ok := e.surface.PointToOffset(pos)
	if !ok {
		return pos
	}
	scale := math.Pow(2, e.surface.Zoom())

	var (
		nearest *geo.LatLng
		best    float64
	)
	for i, l := range e.lines {
		last := len(l.points) - 1
		for j := range l.points {
			canSnap := i != oi ||
				(j == 0 && oj >= last) ||
				(j == last && oj == 0)
			if !canSnap {
				continue
			}
			op, ok := e.surface.PointToOffset(l.points[j])
			if !ok {
				continue
			}
			dist := math.Hypot((op.X-np.X)*scale, (op.Y-np.Y)*scale)
			if dist < SnapDistance && (nearest == nil || best > dist) {
				nearest = &l.points[j]
				best = dist
			}
		}
	}

	if nearest == nil {
		return pos
	}
	return *nearest
}

func (e *Editor) colour(i int) string {
	return Colours[i%len(Colours)]
}

// clearShape takes the line's drawable off the surface.
func (e *Editor) clearShape(l *line) {
	if l.shape != nil {
		e.surface.Remove(l.shape)
	}
	for _, id := range l.listeners {
		e.surface.Unlisten(id)
	}
	l.listeners = nil
}

// closedShape builds the filled polygon of a closed line. Clicking it counts
// as a click on the map.
func (e *Editor) closedShape(i int, width float64) *surface.Polygon {
	l := e.lines[i]
	poly := &surface.Polygon{
		Path:        append([]geo.LatLng(nil), l.points...),
		Stroke:      surface.Stroke{Color: e.colour(i), Opacity: 0.8, Width: width},
		FillColor:   e.colour(i),
		FillOpacity: 0.35,
	}
	l.listeners = append(l.listeners, e.surface.ListenObject(poly, surface.EventClick, func(ev surface.Event) {
		e.surface.Trigger(surface.EventClick, ev)
	}))
	return poly
}

// redrawLine draws line i for editing: the polygon if closed, and one
// clickable segment per pair of vertices.
func (e *Editor) redrawLine(i int) {
	l := e.lines[i]
	e.clearShape(l)
	if len(l.points) < 2 {
		return
	}

	c := &surface.Container{}
	if l.closed() {
		c.Push(e.closedShape(i, 0))
	}
	for j := 1; j < len(l.points); j++ {
		seg := &surface.Polyline{
			Path:   []geo.LatLng{l.points[j-1], l.points[j]},
			Stroke: surface.Stroke{Color: e.colour(i), Opacity: 1, Width: 2},
		}
		at := j
		l.listeners = append(l.listeners, e.surface.ListenObject(seg, surface.EventClick, func(ev surface.Event) {
			if ev.HasLatLng {
				e.AddPoint(ev.LatLng, i, at)
			}
		}))
		c.Push(seg)
	}
	l.shape = c
	e.surface.Add(c)
}

func (e *Editor) redoMarkers(i int) {
	l := e.lines[i]
	for _, v := range l.vertices {
		e.removeVertex(v)
	}
	l.vertices = nil
	for j := range l.points {
		e.addMarker(i, j)
	}
}

// addMarker puts a draggable vertex marker on vertex j of line i. Clicking
// it deletes the vertex and dragging it moves the vertex.
func (e *Editor) addMarker(i, j int) {
	l := e.lines[i]
	m := &surface.Marker{
		Position:    l.points[j],
		Symbol:      surface.SymbolCircle,
		Scale:       4,
		FillColor:   "#fff",
		StrokeColor: "#000",
		StrokeWidth: 1,
		Draggable:   true,
	}
	e.surface.Add(m)

	v := &vertex{marker: m}
	v.listeners = append(v.listeners,
		e.surface.ListenObject(m, surface.EventClick, func(surface.Event) {
			if j >= len(l.points) {
				return
			}
			l.points = append(l.points[:j], l.points[j+1:]...)
			e.redoMarkers(i)
			e.redrawLine(i)
		}),
		e.surface.ListenObject(m, surface.EventDragEnd, func(ev surface.Event) {
			if j >= len(l.points) {
				return
			}
			pos := m.Position
			if ev.HasLatLng {
				pos = ev.LatLng
			}
			pos = e.SnapPos(pos, i, j)
			m.Position = pos
			l.points[j] = pos
			e.redrawLine(i)
		}),
	)

	for len(l.vertices) <= j {
		l.vertices = append(l.vertices, nil)
	}
	l.vertices[j] = v
}

func (e *Editor) removeVertex(v *vertex) {
	if v == nil {
		return
	}
	e.surface.Remove(v.marker)
	for _, id := range v.listeners {
		e.surface.Unlisten(id)
	}
}

func (e *Editor) foregroundLine(i int) {
	e.redoMarkers(i)
	e.redrawLine(i)
}

// backgroundLine drops the vertex markers of line i and redraws it as a
// single non-editable polyline, or as an outlined polygon when closed.
func (e *Editor) backgroundLine(i int) {
	l := e.lines[i]
	for _, v := range l.vertices {
		e.removeVertex(v)
	}
	l.vertices = nil
	e.clearShape(l)
	if len(l.points) < 2 {
		return
	}

	c := &surface.Container{}
	if l.closed() {
		c.Push(e.closedShape(i, 2))
	} else {
		c.Push(&surface.Polyline{
			Path:   append([]geo.LatLng(nil), l.points...),
			Stroke: surface.Stroke{Color: e.colour(i), Opacity: 1, Width: 2},
		})
	}
	l.shape = c
	e.surface.Add(c)
}
