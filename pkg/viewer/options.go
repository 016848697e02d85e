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

	log "github.com/sirupsen/logrus"

	"github.com/spezifisch/sectionmap/pkg/surface"
)

// Options configures a viewer session.
type Options struct {
	// URL names the content document.
	URL string
	// Show is the selector to display instead of the first page.
	Show string
	// ShowMaps switches to the map outline overview.
	ShowMaps bool
	// Draw switches to the line editor.
	Draw bool
	// You enables the viewer position marker.
	You bool
	// MapType is the base map used when neither section nor document set one.
	MapType surface.MapType
	// Status receives user facing messages such as position failures.
	Status func(string)
}

// OptionsFromQuery reads the options from page query parameters: url, show,
// showmaps, draw, you and type. Flags count as set when present, whatever
// their value.
func OptionsFromQuery(q url.Values) (o Options) {
	o.URL = q.Get("url")
	o.Show = q.Get("show")
	o.ShowMaps = q.Has("showmaps")
	o.Draw = q.Has("draw")
	o.You = q.Has("you")
	if t := q.Get("type"); t != "" {
		mt, ok := surface.ParseMapType(t)
		if !ok {
			log.WithField("type", t).Warn("ignoring unknown map type")
		}
		o.MapType = mt
	}
	return
}
