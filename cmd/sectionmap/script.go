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

package main

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spezifisch/sectionmap/pkg/geo"
	"github.com/spezifisch/sectionmap/pkg/keys"
	"github.com/spezifisch/sectionmap/pkg/surface"
)

// scriptStep is one line of a draw script: a map click or a key press.
type scriptStep struct {
	Click bool
	Pos   geo.LatLng
	Key   string
}

// parseScript reads "click <lat> <lng>" and "key <name>" lines. Blank lines
// and lines starting with # are skipped.
func parseScript(r io.Reader) (steps []scriptStep, err error) {
	sc := bufio.NewScanner(r)
	n := 0
	for sc.Scan() {
		n++
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}

		switch {
		case fields[0] == "click" && len(fields) == 3:
			var lat, lng float64
			if lat, err = strconv.ParseFloat(fields[1], 64); err != nil {
				return nil, fmt.Errorf("line %d: latitude: %w", n, err)
			}
			if lng, err = strconv.ParseFloat(fields[2], 64); err != nil {
				return nil, fmt.Errorf("line %d: longitude: %w", n, err)
			}
			steps = append(steps, scriptStep{Click: true, Pos: geo.LatLng{Lat: lat, Lng: lng}})
		case fields[0] == "key" && len(fields) == 2:
			steps = append(steps, scriptStep{Key: fields[1]})
		default:
			return nil, fmt.Errorf("line %d: cannot parse %q", n, sc.Text())
		}
	}
	err = sc.Err()
	return
}

// play feeds the steps to the surface and the key dispatcher.
func play(steps []scriptStep, s surface.Surface, d *keys.Dispatcher) {
	for _, st := range steps {
		if st.Click {
			s.Trigger(surface.EventClick, surface.At(st.Pos))
			continue
		}
		d.Press(st.Key)
	}
}
