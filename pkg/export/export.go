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

// Package export writes what is drawn on a canvas to map file formats.
package export

import (
	"fmt"
	"image/color"
	"math"
	"strings"

	"github.com/mazznoer/csscolorparser"
	log "github.com/sirupsen/logrus"

	"github.com/spezifisch/sectionmap/pkg/geo"
	"github.com/spezifisch/sectionmap/pkg/surface"
)

// Scene is a set of attached drawables and a viewport.
// *surface.Canvas implements it.
type Scene interface {
	Attached() []surface.Drawable
	Bounds() (geo.Bounds, bool)
}

// parseColour reads any CSS colour. opacity scales the alpha channel.
// Unparseable colours come out as opaque black.
func parseColour(s string, opacity float64) color.NRGBA {
	c, err := csscolorparser.Parse(s)
	if err != nil {
		log.WithError(err).WithField("colour", s).Debug("colour not understood")
		return color.NRGBA{A: 255}
	}
	a := c.A
	if opacity > 0 && opacity < 1 {
		a *= opacity
	}
	channel := func(v float64) uint8 {
		return uint8(math.Round(math.Max(0, math.Min(1, v)) * 255))
	}
	return color.NRGBA{R: channel(c.R), G: channel(c.G), B: channel(c.B), A: channel(a)}
}

func kindCounts(shapes []surface.Shape) string {
	counts := map[string]int{}
	var order []string
	for _, s := range shapes {
		if counts[s.Kind()] == 0 {
			order = append(order, s.Kind())
		}
		counts[s.Kind()]++
	}
	parts := make([]string, len(order))
	for i, k := range order {
		parts[i] = fmt.Sprintf("%d %s", counts[k], k)
	}
	return strings.Join(parts, ", ")
}

// shapes flattens every attached drawable.
func shapes(s Scene) (out []surface.Shape) {
	for _, d := range s.Attached() {
		out = append(out, d.Shapes()...)
	}
	return
}
