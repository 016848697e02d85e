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

package keys

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDispatcher_Dispatch(t *testing.T) {
	d := New()
	var got []string

	d.Register(KeyDown, "PageDown", func(Event) { got = append(got, "first") })
	d.Register(KeyDown, "PageDown", func(Event) { got = append(got, "second") })
	d.Register(KeyUp, "PageDown", func(Event) { got = append(got, "up") })

	assert.True(t, d.Press("PageDown"))
	assert.Equal(t, []string{"first", "second"}, got)

	assert.False(t, d.Press("PageUp"))
	assert.False(t, d.Dispatch(Event{Kind: KeyPress, Key: "PageDown"}))
	assert.True(t, d.Dispatch(Event{Kind: KeyUp, Key: "PageDown"}))
	assert.Equal(t, []string{"first", "second", "up"}, got)
}

func TestDispatcher_Deregister(t *testing.T) {
	d := New()
	calls := 0
	a := d.Register(KeyDown, "c", func(Event) { calls++ })
	b := d.Register(KeyDown, "c", func(Event) { calls += 10 })
	assert.NotEqual(t, a, b)
	assert.Equal(t, 2, d.Len())

	d.Deregister(a)
	d.Press("c")
	assert.Equal(t, 10, calls)

	d.Deregister(b)
	d.Deregister(b)
	d.Deregister("unknown")
	assert.Zero(t, d.Len())
	assert.False(t, d.Press("c"))
}

func TestDispatcher_DeregisterWhileDispatching(t *testing.T) {
	d := New()
	calls := 0
	var second Token
	d.Register(KeyDown, "z", func(Event) {
		calls++
		d.Deregister(second)
	})
	second = d.Register(KeyDown, "z", func(Event) { calls++ })

	d.Press("z")
	assert.Equal(t, 2, calls, "handlers are fixed when dispatch starts")
	d.Press("z")
	assert.Equal(t, 3, calls)
}
