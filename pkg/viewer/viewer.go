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

// Package viewer ties a content tree, a surface and the keyboard together
// into one browsing session.
package viewer

import (
	log "github.com/sirupsen/logrus"

	"github.com/spezifisch/sectionmap/pkg/content"
	"github.com/spezifisch/sectionmap/pkg/draw"
	"github.com/spezifisch/sectionmap/pkg/geo"
	"github.com/spezifisch/sectionmap/pkg/keys"
	"github.com/spezifisch/sectionmap/pkg/surface"
	"github.com/spezifisch/sectionmap/pkg/userloc"
)

// InitialBounds is the world view shown before any content.
var InitialBounds = geo.BoundsFromEdges(70, -70, 180, -180)

const (
	mapHighlight    = "#0F0"
	pointsHighlight = "#F80"
)

// Mode is what the session is currently doing.
type Mode int

// Session modes.
const (
	ModeIdle Mode = iota
	ModeBrowse
	ModeOverview
	ModeDraw
)

func (m Mode) String() string {
	switch m {
	case ModeBrowse:
		return "browse"
	case ModeOverview:
		return "overview"
	case ModeDraw:
		return "draw"
	}
	return "idle"
}

// Viewer is one session on a surface. Content is shown once both the tree
// has pages and the surface is ready, whichever happens last.
type Viewer struct {
	surface surface.Surface
	keys    *keys.Dispatcher
	opts    Options

	tree *content.Tree
	mode Mode

	current    string
	hasCurrent bool
	camera     content.Camera
	highlight  *surface.Rectangle

	editor     *draw.Editor
	you        *userloc.Tracker
	pageTokens []keys.Token
	listener   surface.ListenerID
}

// New starts a session on s with an empty tree. The base map defaults to
// terrain.
func New(s surface.Surface, d *keys.Dispatcher, opts Options) *Viewer {
	if opts.MapType == "" {
		opts.MapType = surface.Terrain
	}
	v := &Viewer{
		surface: s,
		keys:    d,
		opts:    opts,
		tree:    content.NewTree(s),
	}
	s.SetMapType(opts.MapType)
	s.FitBounds(InitialBounds)

	if opts.You {
		v.you = userloc.New(s, opts.Status)
	}
	v.listener = s.Listen(surface.EventClick, v.clickMap)
	s.OnReady(v.HandleContent)
	return v
}

// Load replaces the tree and shows it if the surface is ready.
func (v *Viewer) Load(t *content.Tree) {
	v.tree = t
	v.HandleContent()
}

// HandleContent shows the initial view once there are pages to show and the
// surface is ready, and does nothing otherwise.
func (v *Viewer) HandleContent() {
	if len(v.tree.Pages) == 0 || !v.surface.Ready() {
		return
	}
	v.reset()

	switch {
	case v.opts.Draw:
		v.mode = ModeDraw
		ids := v.tree.SectionIDs()
		if len(ids) > 0 {
			v.ShowPoints(ids[0] + "-" + ids[len(ids)-1])
		}
		v.editor = draw.New(v.surface, v.keys)
	case v.opts.ShowMaps:
		v.mode = ModeOverview
		v.tree.ShowMaps()
		v.registerPageKeys()
	case v.opts.Show != "":
		v.mode = ModeBrowse
		v.ShowPoints(v.opts.Show)
	default:
		v.mode = ModeBrowse
		v.ShowPoints(v.tree.Pages[0])
		if len(v.tree.Pages) > 1 {
			v.registerPageKeys()
		}
	}
	log.WithFields(log.Fields{"mode": v.mode, "document": v.tree.Info.Name}).Info("content shown")
}

// reset undoes the mode setup of a previous HandleContent.
func (v *Viewer) reset() {
	v.deregisterPageKeys()
	if v.editor != nil {
		v.editor.Close()
		v.editor = nil
	}
	v.current, v.hasCurrent = "", false
}

// ShowPoints navigates to selector: the selected locations are shown and
// the camera moves to the requested map, the best fitting map, or the box
// around the shown points.
func (v *Viewer) ShowPoints(selector string) content.Selection {
	v.current, v.hasCurrent = selector, true

	sel := v.tree.Resolve(selector)
	requested := v.tree.RequestedMap(sel)
	shown := v.tree.Sync(sel, v.opts.MapType)
	v.zoom(requested, shown)

	log.WithFields(log.Fields{
		"selector": selector,
		"sections": sel.Sections(),
		"map":      v.camera.Map,
	}).Info("showing")
	return sel
}

func (v *Viewer) zoom(requested string, shown []geo.LatLng) {
	cam, ok := v.tree.CameraFor(requested, shown)
	if !ok {
		return
	}
	v.camera = cam
	v.surface.FitBounds(cam.Bounds)

	if !v.opts.ShowMaps {
		return
	}
	if v.highlight != nil {
		v.surface.Remove(v.highlight)
	}
	colour := mapHighlight
	if cam.Computed() {
		colour = pointsHighlight
	}
	v.highlight = content.OutlineBounds(v.surface, cam.Bounds, colour, 2, 2)
}

// Next shows the page after the current one, staying on the last page.
func (v *Viewer) Next() {
	pages := v.tree.Pages
	if len(pages) == 0 {
		return
	}
	if !v.hasCurrent {
		v.ShowPoints(pages[0])
		return
	}
	i := v.pageIndex()
	if i < len(pages)-1 {
		i++
	}
	v.ShowPoints(pages[i])
}

// Prev shows the page before the current one, staying on the first page. A
// current selector that is not a page counts as being past the end.
func (v *Viewer) Prev() {
	pages := v.tree.Pages
	if len(pages) == 0 {
		return
	}
	i := v.pageIndex()
	switch {
	case !v.hasCurrent || i < 0:
		i = len(pages) - 1
	case i > 0:
		i--
	}
	v.ShowPoints(pages[i])
}

// First shows the first page.
func (v *Viewer) First() {
	if len(v.tree.Pages) > 0 {
		v.ShowPoints(v.tree.Pages[0])
	}
}

// Last shows the last page.
func (v *Viewer) Last() {
	if n := len(v.tree.Pages); n > 0 {
		v.ShowPoints(v.tree.Pages[n-1])
	}
}

func (v *Viewer) pageIndex() int {
	for i, p := range v.tree.Pages {
		if p == v.current {
			return i
		}
	}
	return -1
}

func (v *Viewer) registerPageKeys() {
	if v.keys == nil {
		return
	}
	for key, fn := range map[string]func(){
		"PageDown": v.Next,
		"PageUp":   v.Prev,
		"Home":     v.First,
		"End":      v.Last,
	} {
		v.pageTokens = append(v.pageTokens, v.keys.Register(keys.KeyDown, key, func(keys.Event) { fn() }))
	}
}

func (v *Viewer) deregisterPageKeys() {
	for _, tok := range v.pageTokens {
		v.keys.Deregister(tok)
	}
	v.pageTokens = nil
}

func (v *Viewer) clickMap(ev surface.Event) {
	if !ev.HasLatLng {
		return
	}
	log.WithFields(log.Fields{"lat": ev.LatLng.Lat, "lng": ev.LatLng.Lng}).Debug("map clicked")
}

// Close ends the session's key bindings and listeners. What is drawn stays.
func (v *Viewer) Close() {
	v.reset()
	v.surface.Unlisten(v.listener)
	if v.you != nil {
		v.you.Close()
	}
}

// Mode returns the current session mode.
func (v *Viewer) Mode() Mode { return v.mode }

// Tree returns the loaded tree.
func (v *Viewer) Tree() *content.Tree { return v.tree }

// Current returns the last selector shown. It doubles as the page header.
func (v *Viewer) Current() (string, bool) { return v.current, v.hasCurrent }

// Camera returns where the last navigation moved the viewport.
func (v *Viewer) Camera() content.Camera { return v.camera }

// Highlight returns the overview outline of the current camera, if any.
func (v *Viewer) Highlight() *surface.Rectangle { return v.highlight }

// Editor returns the line editor in draw mode.
func (v *Viewer) Editor() *draw.Editor { return v.editor }

// You returns the position tracker when enabled.
func (v *Viewer) You() *userloc.Tracker { return v.you }
