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

package export

import (
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	log "github.com/sirupsen/logrus"

	"github.com/spezifisch/sectionmap/pkg/geo"
	"github.com/spezifisch/sectionmap/pkg/surface"
)

func lineString(path []geo.LatLng) orb.LineString {
	ls := make(orb.LineString, len(path))
	for i, p := range path {
		ls[i] = p.Point()
	}
	return ls
}

func feature(s surface.Shape) *geojson.Feature {
	var f *geojson.Feature
	switch v := s.(type) {
	case *surface.Label:
		f = geojson.NewFeature(v.Position.Point())
		f.Properties["text"] = strings.TrimSpace(v.Text)
		f.Properties["classes"] = v.Classes()
	case *surface.Marker:
		f = geojson.NewFeature(v.Position.Point())
		f.Properties["symbol"] = string(v.Symbol)
		f.Properties["fill"] = v.FillColor
	case *surface.Polyline:
		f = geojson.NewFeature(lineString(v.Path))
		f.Properties["stroke"] = v.Stroke.Color
		f.Properties["stroke-width"] = v.Stroke.Width
	case *surface.Polygon:
		f = geojson.NewFeature(orb.Polygon{orb.Ring(lineString(ring(v.Path)))})
		f.Properties["stroke"] = v.Stroke.Color
		f.Properties["stroke-width"] = v.Stroke.Width
		f.Properties["fill"] = v.FillColor
		f.Properties["fill-opacity"] = v.FillOpacity
	case *surface.Rectangle:
		f = geojson.NewFeature(v.Bounds.Bound().ToPolygon())
		f.Properties["stroke"] = v.Stroke.Color
		f.Properties["stroke-width"] = v.Stroke.Width
	default:
		log.WithField("kind", s.Kind()).Warn("shape not exported to GeoJSON")
		return nil
	}
	f.Properties["kind"] = s.Kind()
	return f
}

// GeoJSON collects every shape attached to scene into one feature
// collection. The viewport becomes its bounding box.
func GeoJSON(scene Scene) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, s := range shapes(scene) {
		if f := feature(s); f != nil {
			fc.Append(f)
		}
	}
	if b, ok := scene.Bounds(); ok {
		fc.BBox = geojson.NewBBox(b.Bound())
	}
	log.WithField("features", len(fc.Features)).Debug("GeoJSON collected")
	return fc
}
