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
	"sort"
	"strconv"

	"github.com/tidwall/gjson"
)

// member is one key/value pair of a JSON object.
type member struct {
	key   string
	value gjson.Result
}

// members returns the pairs of obj in key order: integer-like keys first in
// ascending numeric order, then the rest in document order. A repeated key
// keeps its first position and takes the last value.
func members(obj gjson.Result) []member {
	if !obj.IsObject() {
		return nil
	}
	var out []member
	pos := map[string]int{}
	obj.ForEach(func(k, v gjson.Result) bool {
		key := k.String()
		if i, ok := pos[key]; ok {
			out[i].value = v
			return true
		}
		pos[key] = len(out)
		out = append(out, member{key: key, value: v})
		return true
	})
	sortIndexFirst(out, func(m member) string { return m.key })
	return out
}

// indexKey reports whether k is a canonical array index ("0", "17", but not
// "017" or "-1") and returns its value.
func indexKey(k string) (uint64, bool) {
	if k == "" || (len(k) > 1 && k[0] == '0') {
		return 0, false
	}
	for _, r := range k {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	n, err := strconv.ParseUint(k, 10, 32)
	if err != nil || n == 1<<32-1 {
		return 0, false
	}
	return n, true
}

func sortIndexFirst[T any](items []T, key func(T) string) {
	sort.SliceStable(items, func(i, j int) bool {
		a, aok := indexKey(key(items[i]))
		b, bok := indexKey(key(items[j]))
		if aok && bok {
			return a < b
		}
		return aok && !bok
	})
}
