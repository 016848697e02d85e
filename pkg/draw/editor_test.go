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

package draw

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spezifisch/sectionmap/pkg/geo"
	"github.com/spezifisch/sectionmap/pkg/keys"
	"github.com/spezifisch/sectionmap/pkg/surface"
)

const testZoom = 10

// px returns the longitude span of n screen pixels at testZoom.
func px(n float64) float64 {
	return n / math.Pow(2, testZoom) * 360 / 256
}

func newTestEditor(t *testing.T) (*Editor, *surface.Canvas, *keys.Dispatcher) {
	t.Helper()
	c := surface.NewCanvas(0, 0)
	c.MarkReady()
	c.SetZoom(testZoom)
	d := keys.New()
	return New(c, d), c, d
}

func click(c *surface.Canvas, lat, lng float64) {
	c.Trigger(surface.EventClick, surface.At(geo.LatLng{Lat: lat, Lng: lng}))
}

func markers(c *surface.Canvas) (n int) {
	for _, d := range c.Attached() {
		if _, ok := d.(*surface.Marker); ok {
			n++
		}
	}
	return
}

func TestEditor_SnapPos(t *testing.T) {
	e, _, _ := newTestEditor(t)
	a := geo.LatLng{Lat: 0, Lng: 0}
	m := geo.LatLng{Lat: 0, Lng: 1}
	z := geo.LatLng{Lat: 0, Lng: 2}
	near := geo.LatLng{Lat: 0.5, Lng: 0.5}
	nearer := geo.LatLng{Lat: 0.5, Lng: 0.5 + px(8)}
	e.lines = []*line{
		{points: []geo.LatLng{a, m, z}},
		{points: []geo.LatLng{near, nearer}},
		{},
	}

	tests := []struct {
		name   string
		pos    geo.LatLng
		oi, oj int
		want   geo.LatLng
	}{
		{"other line at 15px", geo.LatLng{Lat: 0, Lng: px(15)}, 2, 0, a},
		{"other line at 25px", geo.LatLng{Lat: 0, Lng: px(25)}, 2, 0, geo.LatLng{Lat: 0, Lng: px(25)}},
		{"own middle at 15px", geo.LatLng{Lat: 0, Lng: 1 + px(15)}, 0, 3, geo.LatLng{Lat: 0, Lng: 1 + px(15)}},
		{"own first from appended end", geo.LatLng{Lat: 0, Lng: px(15)}, 0, 3, a},
		{"own first from last", geo.LatLng{Lat: 0, Lng: px(15)}, 0, 2, a},
		{"own last from first", geo.LatLng{Lat: 0, Lng: 2 + px(15)}, 0, 0, z},
		{"own last from appended end", geo.LatLng{Lat: 0, Lng: 2 + px(15)}, 0, 3, geo.LatLng{Lat: 0, Lng: 2 + px(15)}},
		{"nearest wins", geo.LatLng{Lat: 0.5, Lng: 0.5 + px(5)}, 2, 0, nearer},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, e.SnapPos(tt.pos, tt.oi, tt.oj))
		})
	}
}

func TestEditor_SnapPos_notReady(t *testing.T) {
	c := surface.NewCanvas(0, 0)
	e := New(c, nil)
	e.lines = []*line{{points: []geo.LatLng{{}}}, {}}

	pos := geo.LatLng{Lat: 0, Lng: 0.0001}
	assert.Equal(t, pos, e.SnapPos(pos, 1, 0))
}

func TestEditor_AddPoint(t *testing.T) {
	e, c, d := newTestEditor(t)

	click(c, 0, 0)
	click(c, 0, 1)
	assert.Equal(t, [][]geo.LatLng{{{Lat: 0, Lng: 0}, {Lat: 0, Lng: 1}}}, e.Lines())
	assert.Equal(t, 2, markers(c))

	d.Press("Escape")
	assert.Equal(t, 1, e.Current())
	assert.Zero(t, markers(c), "background lines have no vertex markers")

	// appended points snap onto other lines
	click(c, 0, px(15))
	assert.Equal(t, []geo.LatLng{{Lat: 0, Lng: 0}}, e.Lines()[1])

	// inserting does not snap
	e.AddPoint(geo.LatLng{Lat: 0, Lng: 1 + px(1)}, 1, 0)
	assert.Equal(t, []geo.LatLng{{Lat: 0, Lng: 1 + px(1)}, {Lat: 0, Lng: 0}}, e.Lines()[1])
	assert.Equal(t, 2, markers(c))

	e.AddPoint(geo.LatLng{Lat: 1, Lng: 1}, 7, -1)
	assert.Len(t, e.Lines(), 2)
}

func TestEditor_Rendering(t *testing.T) {
	e, c, _ := newTestEditor(t)

	click(c, 0, 0)
	l := e.lines[0]
	assert.Nil(t, l.shape, "a single vertex has no line")

	click(c, 0, 1)
	click(c, 1, 1)
	require.NotNil(t, l.shape)
	assert.True(t, c.IsAttached(l.shape))
	assert.Len(t, l.shape.Items, 2)
	for _, it := range l.shape.Items {
		seg, ok := it.(*surface.Polyline)
		require.True(t, ok)
		assert.Equal(t, Colours[0], seg.Stroke.Color)
		assert.Len(t, seg.Path, 2)
	}

	click(c, 0, 0)
	require.Len(t, l.shape.Items, 4)
	poly, ok := l.shape.Items[0].(*surface.Polygon)
	require.True(t, ok)
	assert.Equal(t, 0.0, poly.Stroke.Width)
	assert.Equal(t, 0.35, poly.FillOpacity)
	assert.Equal(t, 4, markers(c))
}

func TestEditor_CloseLine(t *testing.T) {
	e, c, d := newTestEditor(t)
	a := geo.LatLng{Lat: 0, Lng: 0}

	click(c, 0, 0)
	click(c, 0, 1)
	click(c, 1, 1)
	d.Press("c")

	lines := e.Lines()
	require.Len(t, lines, 2)
	assert.Equal(t, []geo.LatLng{a, {Lat: 0, Lng: 1}, {Lat: 1, Lng: 1}, a}, lines[0])
	assert.Empty(t, lines[1])
	assert.Equal(t, 1, e.Current())

	bg := e.lines[0].shape
	require.NotNil(t, bg)
	require.Len(t, bg.Items, 1)
	poly, ok := bg.Items[0].(*surface.Polygon)
	require.True(t, ok)
	assert.Equal(t, 2.0, poly.Stroke.Width)
	assert.Zero(t, markers(c))

	// closing an empty line opens nothing new
	d.Press("c")
	assert.Len(t, e.Lines(), 2)
}

func TestEditor_CloseLine_alreadyClosed(t *testing.T) {
	e, c, _ := newTestEditor(t)

	click(c, 0, 0)
	click(c, 0, 1)
	click(c, 1, 1)
	click(c, 0, 0)
	require.Len(t, e.Lines()[0], 4)

	e.CloseLine()
	assert.Len(t, e.Lines()[0], 4, "closing point duplicated")
}

func TestEditor_CloseLine_short(t *testing.T) {
	e, c, _ := newTestEditor(t)

	click(c, 0, 0)
	e.CloseLine()
	assert.Equal(t, [][]geo.LatLng{{{Lat: 0, Lng: 0}}, nil}, e.Lines())
}

func TestEditor_UndoLine(t *testing.T) {
	e, c, d := newTestEditor(t)

	click(c, 0, 0)
	click(c, 0, 1)
	d.Press("z")
	assert.Equal(t, []geo.LatLng{{Lat: 0, Lng: 0}}, e.Lines()[0])
	assert.Equal(t, 1, markers(c))
	assert.False(t, c.IsAttached(e.lines[0].shape))

	d.Press("z")
	assert.Empty(t, e.Lines()[0])
	assert.Zero(t, markers(c))

	assert.NotPanics(t, func() { d.Press("z") })
}

func TestEditor_SegmentClickInserts(t *testing.T) {
	e, c, _ := newTestEditor(t)

	click(c, 0, 0)
	click(c, 0, 2)
	old := e.lines[0].shape
	seg := old.Items[0]
	mid := geo.LatLng{Lat: 0, Lng: 1}
	c.TriggerObject(seg, surface.EventClick, surface.At(mid))

	assert.Equal(t, []geo.LatLng{{Lat: 0, Lng: 0}, mid, {Lat: 0, Lng: 2}}, e.Lines()[0])
	assert.Equal(t, 3, markers(c))
	assert.False(t, c.IsAttached(old), "old segments are replaced")
	assert.Len(t, e.lines[0].shape.Items, 2)
}

func TestEditor_MarkerClickRemoves(t *testing.T) {
	e, c, _ := newTestEditor(t)

	click(c, 0, 0)
	click(c, 0, 1)
	click(c, 0, 2)
	m := e.lines[0].vertices[1].marker
	c.TriggerObject(m, surface.EventClick, surface.Event{})

	assert.Equal(t, []geo.LatLng{{Lat: 0, Lng: 0}, {Lat: 0, Lng: 2}}, e.Lines()[0])
	assert.False(t, c.IsAttached(m))
	assert.Equal(t, 2, markers(c))
}

func TestEditor_MarkerDragSnaps(t *testing.T) {
	e, c, d := newTestEditor(t)
	q := geo.LatLng{Lat: 0, Lng: 1}

	click(c, 0, 0)
	click(c, 0, 1)
	d.Press("Escape")
	click(c, 1, 1)
	click(c, 2, 2)

	m := e.lines[1].vertices[1].marker
	c.TriggerObject(m, surface.EventDragEnd, surface.At(geo.LatLng{Lat: 0, Lng: 1 + px(10)}))

	assert.Equal(t, q, e.Lines()[1][1])
	assert.Equal(t, q, m.Position)

	c.TriggerObject(m, surface.EventDragEnd, surface.At(geo.LatLng{Lat: 3, Lng: 3}))
	assert.Equal(t, geo.LatLng{Lat: 3, Lng: 3}, e.Lines()[1][1])
}

func TestEditor_NextPrevLine(t *testing.T) {
	e, c, d := newTestEditor(t)

	click(c, 0, 0)
	click(c, 0, 1)
	d.Press("Escape")
	click(c, 5, 5)
	click(c, 6, 6)
	d.Press("Escape")
	require.Equal(t, 2, e.Current())
	require.Len(t, e.Lines(), 3)

	d.Press("n")
	assert.Equal(t, 0, e.Current())
	assert.Equal(t, 2, markers(c))

	d.Press("p")
	assert.Equal(t, 2, e.Current())
	assert.Zero(t, markers(c))

	d.Press("p")
	assert.Equal(t, 1, e.Current())
	assert.Equal(t, 2, markers(c))

	// clicks now extend the selected line
	click(c, 7, 7)
	assert.Len(t, e.Lines()[1], 3)
}

func TestEditor_ClosedShapeClickAddsToCurrent(t *testing.T) {
	e, c, d := newTestEditor(t)

	click(c, 0, 0)
	click(c, 0, 1)
	click(c, 1, 1)
	d.Press("c")
	poly := e.lines[0].shape.Items[0]

	inside := geo.LatLng{Lat: 0.3, Lng: 0.6}
	c.TriggerObject(poly, surface.EventClick, surface.At(inside))
	assert.Equal(t, []geo.LatLng{inside}, e.Lines()[1])
}

func TestEditor_Close(t *testing.T) {
	e, c, d := newTestEditor(t)
	require.Equal(t, 5, d.Len())

	e.Close()
	assert.Zero(t, d.Len())
	assert.False(t, d.Press("Escape"))

	click(c, 0, 0)
	assert.Empty(t, e.Lines()[0])
}
