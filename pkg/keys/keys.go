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

// Package keys routes keyboard events to registered handlers.
package keys

import (
	"sync"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// Kind is the keyboard event phase.
type Kind string

// Event kinds.
const (
	KeyDown  Kind = "keydown"
	KeyUp    Kind = "keyup"
	KeyPress Kind = "keypress"
)

// Event is one keyboard event. Key follows the DOM naming ("Escape",
// "PageDown", "c").
type Event struct {
	Kind Kind
	Key  string
}

// Handler reacts to a key event.
type Handler func(Event)

// Token identifies a registration.
type Token string

type registration struct {
	token Token
	fn    Handler
}

// Dispatcher is a session-scoped key registry. Handlers for the same kind
// and key run in registration order.
type Dispatcher struct {
	mu       sync.Mutex
	handlers map[Kind]map[string][]registration
}

// New returns an empty dispatcher.
func New() *Dispatcher {
	return &Dispatcher{handlers: map[Kind]map[string][]registration{}}
}

// Register adds fn for key events of the given kind.
func (d *Dispatcher) Register(kind Kind, key string, fn Handler) Token {
	d.mu.Lock()
	defer d.mu.Unlock()

	tok := Token(uuid.NewString())
	if d.handlers[kind] == nil {
		d.handlers[kind] = map[string][]registration{}
	}
	d.handlers[kind][key] = append(d.handlers[kind][key], registration{token: tok, fn: fn})
	return tok
}

// Deregister removes the handler behind tok. Unknown tokens are ignored.
func (d *Dispatcher) Deregister(tok Token) {
	d.mu.Lock()
	defer d.mu.Unlock()

	for kind, byKey := range d.handlers {
		for key, regs := range byKey {
			for i, r := range regs {
				if r.token != tok {
					continue
				}
				regs = append(regs[:i:i], regs[i+1:]...)
				if len(regs) == 0 {
					delete(byKey, key)
				} else {
					byKey[key] = regs
				}
				if len(byKey) == 0 {
					delete(d.handlers, kind)
				}
				return
			}
		}
	}
}

// Dispatch runs every handler for ev and reports whether there was any.
// Handlers may register or deregister while being dispatched; the set of
// handlers called is fixed when Dispatch starts.
func (d *Dispatcher) Dispatch(ev Event) (handled bool) {
	d.mu.Lock()
	regs := append([]registration(nil), d.handlers[ev.Kind][ev.Key]...)
	d.mu.Unlock()

	if len(regs) == 0 {
		return false
	}
	log.WithFields(log.Fields{"kind": ev.Kind, "key": ev.Key, "handlers": len(regs)}).Debug("key dispatched")
	for _, r := range regs {
		r.fn(ev)
	}
	return true
}

// Press dispatches a keydown for key.
func (d *Dispatcher) Press(key string) bool {
	return d.Dispatch(Event{Kind: KeyDown, Key: key})
}

// Len returns the number of registered handlers.
func (d *Dispatcher) Len() (n int) {
	d.mu.Lock()
	defer d.mu.Unlock()

	for _, byKey := range d.handlers {
		for _, regs := range byKey {
			n += len(regs)
		}
	}
	return
}
