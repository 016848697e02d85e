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
	"io"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/twpayne/go-kml/v2"

	"github.com/spezifisch/sectionmap/pkg/geo"
	"github.com/spezifisch/sectionmap/pkg/surface"
)

func coordinates(path ...geo.LatLng) kml.Element {
	cs := make([]kml.Coordinate, len(path))
	for i, p := range path {
		cs[i] = kml.Coordinate{Lon: p.Lng, Lat: p.Lat}
	}
	return kml.Coordinates(cs...)
}

func ring(path []geo.LatLng) []geo.LatLng {
	if len(path) > 0 && !path[0].Equal(path[len(path)-1]) {
		path = append(append([]geo.LatLng(nil), path...), path[0])
	}
	return path
}

func kmlPolygon(name string, path []geo.LatLng, stroke surface.Stroke, fill string, fillOpacity float64) kml.Element {
	return kml.Placemark(
		kml.Name(name),
		kml.Style(
			kml.LineStyle(
				kml.Color(parseColour(stroke.Color, stroke.Opacity)),
				kml.Width(stroke.Width),
			),
			kml.PolyStyle(
				kml.Color(parseColour(fill, fillOpacity)),
			),
		),
		kml.Polygon(
			kml.OuterBoundaryIs(
				kml.LinearRing(coordinates(ring(path)...)),
			),
		),
	)
}

func kmlShape(s surface.Shape) kml.Element {
	switch v := s.(type) {
	case *surface.Label:
		return kml.Placemark(
			kml.Name(strings.TrimSpace(v.Text)),
			kml.Description(strings.Join(v.Classes(), " ")),
			kml.Point(coordinates(v.Position)),
		)
	case *surface.Marker:
		return kml.Placemark(
			kml.Style(
				kml.IconStyle(
					kml.Color(parseColour(v.FillColor, 1)),
					kml.Scale(v.Scale/4),
				),
			),
			kml.Point(coordinates(v.Position)),
		)
	case *surface.Polyline:
		return kml.Placemark(
			kml.Style(
				kml.LineStyle(
					kml.Color(parseColour(v.Stroke.Color, v.Stroke.Opacity)),
					kml.Width(v.Stroke.Width),
				),
			),
			kml.LineString(coordinates(v.Path...)),
		)
	case *surface.Polygon:
		return kmlPolygon("", v.Path, v.Stroke, v.FillColor, v.FillOpacity)
	case *surface.Rectangle:
		b := v.Bounds
		path := []geo.LatLng{
			b.SW,
			{Lat: b.SW.Lat, Lng: b.NE.Lng},
			b.NE,
			{Lat: b.NE.Lat, Lng: b.SW.Lng},
		}
		return kmlPolygon("", path, v.Stroke, v.Stroke.Color, 0.01)
	}
	log.WithField("kind", s.Kind()).Warn("shape not exported to KML")
	return nil
}

// KML writes every shape attached to scene as a placemark of one KML
// document called name.
func KML(w io.Writer, name string, scene Scene) (err error) {
	all := shapes(scene)
	children := []kml.Element{kml.Name(name)}
	for _, s := range all {
		if el := kmlShape(s); el != nil {
			children = append(children, el)
		}
	}
	log.WithFields(log.Fields{"name": name, "shapes": kindCounts(all)}).Info("writing KML")
	return kml.KML(kml.Document(children...)).WriteIndent(w, "", "  ")
}
