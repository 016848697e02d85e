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

package viewer

import (
	"net/url"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spezifisch/sectionmap/pkg/content"
	"github.com/spezifisch/sectionmap/pkg/geo"
	"github.com/spezifisch/sectionmap/pkg/keys"
	"github.com/spezifisch/sectionmap/pkg/surface"
)

type session struct {
	v *Viewer
	c *surface.Canvas
	d *keys.Dispatcher
}

// start builds a ready session with the named fixture loaded.
func start(t *testing.T, fixture string, opts Options) session {
	t.Helper()
	c := surface.NewCanvas(0, 0)
	d := keys.New()
	v := New(c, d, opts)
	c.MarkReady()
	v.Load(parse(t, fixture, c))
	return session{v, c, d}
}

func parse(t *testing.T, fixture string, s surface.Surface) *content.Tree {
	t.Helper()
	doc, err := os.ReadFile("../../test/data/" + fixture)
	require.NoError(t, err)
	tree, err := content.Parse(doc, s)
	require.NoError(t, err)
	return tree
}

func current(t *testing.T, v *Viewer) string {
	t.Helper()
	cur, ok := v.Current()
	require.True(t, ok, "nothing shown")
	return cur
}

func TestViewer_gate(t *testing.T) {
	c := surface.NewCanvas(0, 0)
	d := keys.New()
	v := New(c, d, Options{})

	view, ok := c.Bounds()
	require.True(t, ok)
	assert.Equal(t, InitialBounds, view)

	v.Load(parse(t, "acts.json", c))
	_, shown := v.Current()
	assert.False(t, shown, "content shown before the surface is ready")
	assert.Equal(t, ModeIdle, v.Mode())

	c.MarkReady()
	assert.Equal(t, "Acts 9", current(t, v))
	assert.Equal(t, ModeBrowse, v.Mode())
	assert.Equal(t, 4, d.Len(), "page keys for a multi page document")
}

func TestViewer_gateNoPages(t *testing.T) {
	c := surface.NewCanvas(0, 0)
	c.MarkReady()
	v := New(c, keys.New(), Options{})

	_, shown := v.Current()
	assert.False(t, shown)

	tree, err := content.Parse([]byte(`{"Info": {"Name": "empty"}}`), c)
	require.ErrorIs(t, err, content.ErrNoSections)
	v.Load(tree)
	_, shown = v.Current()
	assert.False(t, shown)
}

func TestViewer_singlePage(t *testing.T) {
	c := surface.NewCanvas(0, 0)
	c.MarkReady()
	d := keys.New()
	v := New(c, d, Options{})
	tree, err := content.Parse([]byte(`{"Sections": {"Only": {"Subsections": {"1": []}}}}`), c)
	require.NoError(t, err)

	v.Load(tree)
	assert.Equal(t, "Only", current(t, v))
	assert.Zero(t, d.Len())
}

func TestViewer_paging(t *testing.T) {
	s := start(t, "acts.json", Options{})

	steps := []struct {
		key  string
		want string
	}{
		{"PageDown", "Acts 10"},
		{"End", "Acts 11"},
		{"PageDown", "Acts 11"},
		{"PageUp", "Acts 10"},
		{"Home", "Acts 9"},
		{"PageUp", "Acts 9"},
	}
	for _, st := range steps {
		require.True(t, s.d.Press(st.key))
		assert.Equal(t, st.want, current(t, s.v), "after %s", st.key)
	}
}

func TestViewer_pagingFromSelector(t *testing.T) {
	s := start(t, "acts.json", Options{Show: "Acts 10:2"})
	assert.Equal(t, "Acts 10:2", current(t, s.v))
	assert.Zero(t, s.d.Len(), "no page keys for an explicit selector")

	s.v.Next()
	assert.Equal(t, "Acts 9", current(t, s.v))

	s.v.ShowPoints("Acts 10:2")
	s.v.Prev()
	assert.Equal(t, "Acts 11", current(t, s.v))
}

func TestViewer_camera(t *testing.T) {
	s := start(t, "acts.json", Options{Show: "Acts 10:2"})

	judea, _ := s.v.Tree().Map("Judea")
	assert.Equal(t, "Judea", s.v.Camera().Map, "single section uses its map")
	view, _ := s.c.Bounds()
	assert.Equal(t, judea.Bounds, view)

	s.v.ShowPoints("Acts 9-10")
	assert.Equal(t, "World", s.v.Camera().Map)

	s.v.ShowPoints("Acts 11:2")
	assert.Equal(t, "Levant", s.v.Camera().Map)
	assert.Nil(t, s.v.Highlight(), "no highlight outside the overview")
}

func TestViewer_mapType(t *testing.T) {
	s := start(t, "acts.json", Options{MapType: surface.Roadmap})
	assert.Equal(t, surface.Terrain, s.c.MapType(), "document type wins over the default")

	s.v.ShowPoints("Acts 11")
	assert.Equal(t, surface.Satellite, s.c.MapType())

	p := start(t, "paged.json", Options{MapType: surface.Roadmap})
	assert.Equal(t, surface.Roadmap, p.c.MapType())
}

func TestViewer_overview(t *testing.T) {
	s := start(t, "paged.json", Options{ShowMaps: true})
	assert.Equal(t, ModeOverview, s.v.Mode())
	_, shown := s.v.Current()
	assert.False(t, shown)
	assert.Equal(t, 4, s.d.Len())

	s.d.Press("PageDown")
	assert.Equal(t, "Gen 1", current(t, s.v))
	first := s.v.Highlight()
	require.NotNil(t, first)
	assert.Equal(t, pointsHighlight, first.Stroke.Color)
	assert.Equal(t, 2, first.ZIndex)
	assert.True(t, s.c.IsAttached(first))

	s.d.Press("PageDown")
	assert.Equal(t, "Gen 2", current(t, s.v))
	assert.False(t, s.c.IsAttached(first))
	assert.True(t, s.c.IsAttached(s.v.Highlight()))
}

func TestViewer_overviewNamedMap(t *testing.T) {
	s := start(t, "acts.json", Options{ShowMaps: true})
	s.d.Press("End")
	require.NotNil(t, s.v.Highlight())
	assert.Equal(t, mapHighlight, s.v.Highlight().Stroke.Color)
}

func TestViewer_draw(t *testing.T) {
	s := start(t, "acts.json", Options{Draw: true})
	assert.Equal(t, ModeDraw, s.v.Mode())
	assert.Equal(t, "Acts 9-Acts 11", current(t, s.v))
	require.NotNil(t, s.v.Editor())
	assert.Equal(t, 5, s.d.Len(), "editor keys only")

	s.c.Trigger(surface.EventClick, surface.At(geo.LatLng{Lat: 10, Lng: 10}))
	assert.Equal(t, []geo.LatLng{{Lat: 10, Lng: 10}}, s.v.Editor().Lines()[0])
}

func TestViewer_reload(t *testing.T) {
	s := start(t, "acts.json", Options{})
	s.v.Load(parse(t, "paged.json", s.c))
	assert.Equal(t, "Gen 1", current(t, s.v))
	assert.Equal(t, 4, s.d.Len(), "page keys are not registered twice")
}

func TestViewer_you(t *testing.T) {
	var status string
	s := start(t, "acts.json", Options{You: true, Status: func(m string) { status = m }})
	require.NotNil(t, s.v.You())

	s.v.You().Success(geo.LatLng{Lat: -27.47, Lng: 153.02})
	assert.True(t, s.v.You().Indicator().Visible)

	s.v.You().Failure(3, "Timeout expired")
	assert.Equal(t, "(3) Timeout expired", status)
}

func TestViewer_Close(t *testing.T) {
	s := start(t, "acts.json", Options{You: true})
	s.v.Close()
	assert.Zero(t, s.d.Len())
	assert.Zero(t, s.c.ListenerCount())
}

func TestOptionsFromQuery(t *testing.T) {
	tests := []struct {
		query string
		want  Options
	}{
		{"", Options{}},
		{"url=acts&show=Acts+10:1-5", Options{URL: "acts", Show: "Acts 10:1-5"}},
		{"showmaps&you=1&type=satellite", Options{ShowMaps: true, You: true, MapType: surface.Satellite}},
		{"draw=&type=hybrid", Options{Draw: true}},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			q, err := url.ParseQuery(tt.query)
			require.NoError(t, err)
			assert.Equal(t, tt.want, OptionsFromQuery(q))
		})
	}
}
