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

package content

import (
	"reflect"
	"testing"

	"github.com/spezifisch/sectionmap/pkg/geo"
	"github.com/spezifisch/sectionmap/pkg/surface"
)

const nestedMaps = `{
	"Maps": {
		"Big": {"Bounds": {"north": 10, "south": 0, "east": 1, "west": 0}},
		"Small": {"Bounds": {"north": 2, "south": 0, "east": 1, "west": 0}},
		"Mid": {"Bounds": {"north": 5, "south": 0, "east": 1, "west": 0}}
	},
	"Sections": {}
}`

func TestTree_FindBestMap(t *testing.T) {
	tree, err := Parse([]byte(nestedMaps), surface.NewCanvas(0, 0))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	tests := []struct {
		name   string
		points []geo.LatLng
		want   string
		wantOk bool
	}{
		{"inside all", []geo.LatLng{{Lat: 1, Lng: 0.5}}, "Small", true},
		{"inside two", []geo.LatLng{{Lat: 1, Lng: 0.5}, {Lat: 4, Lng: 0.5}}, "Mid", true},
		{"no points", nil, "Big", true},
		{"on the edge", []geo.LatLng{{Lat: 2, Lng: 1}}, "Small", true},
		{"outside all", []geo.LatLng{{Lat: 11, Lng: 0.5}}, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tree.FindBestMap(tt.points)
			if got != tt.want || ok != tt.wantOk {
				t.Errorf("Tree.FindBestMap() = %q, %v, want %q, %v", got, ok, tt.want, tt.wantOk)
			}
		})
	}
}

func TestTree_CameraFor(t *testing.T) {
	tree, err := Parse([]byte(nestedMaps), surface.NewCanvas(0, 0))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	outside := []geo.LatLng{{Lat: 20, Lng: 5}, {Lat: 30, Lng: 8}}

	tests := []struct {
		name      string
		requested string
		points    []geo.LatLng
		want      Camera
		wantOk    bool
	}{
		{"requested map wins", "Big", []geo.LatLng{{Lat: 1, Lng: 0.5}}, Camera{geo.BoundsFromEdges(10, 0, 1, 0), "Big"}, true},
		{"unknown request falls back", "Nowhere", []geo.LatLng{{Lat: 1, Lng: 0.5}}, Camera{geo.BoundsFromEdges(2, 0, 1, 0), "Small"}, true},
		{"computed", "", outside, Camera{geo.BoundsFromEdges(30, 20, 8, 5), ""}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tree.CameraFor(tt.requested, tt.points)
			if !reflect.DeepEqual(got, tt.want) || ok != tt.wantOk {
				t.Errorf("Tree.CameraFor() = %+v, %v, want %+v, %v", got, ok, tt.want, tt.wantOk)
			}
		})
	}

	if got := (Camera{Map: "Big"}); got.Computed() {
		t.Error("named camera reported as computed")
	}
}

func TestTree_CameraFor_nothing(t *testing.T) {
	tree := NewTree(surface.NewCanvas(0, 0))
	if _, ok := tree.CameraFor("", nil); ok {
		t.Error("CameraFor() on an empty tree should have nothing to frame")
	}
}

func TestTree_RequestedMap(t *testing.T) {
	tree, _ := loadTree(t, "acts.json")

	tests := []struct {
		selector string
		want     string
	}{
		{"Acts 10", "Judea"},
		{"Acts 10:2", "Judea"},
		{"Acts 9", ""},
		{"Acts 9-10", ""},
		{"Acts 99", ""},
	}
	for _, tt := range tests {
		t.Run(tt.selector, func(t *testing.T) {
			if got := tree.RequestedMap(tree.Resolve(tt.selector)); got != tt.want {
				t.Errorf("Tree.RequestedMap() = %q, want %q", got, tt.want)
			}
		})
	}
}
