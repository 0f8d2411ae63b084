package statsboard

import (
	"sync"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Display is the set of named elements the board writes into
type Display interface {
	SetText(id, text string) error
	SetStyle(id, property, value string) error
}

const ElementHeart = "heart"

// DefaultElements lists every element the dashboard page provides
var DefaultElements = append(append([]string{}, SlotIDs...), ElementHeart)

const subscriberBuffer = 64

// Registry is an in-memory element registry.
// Elements have to be registered before they can be written.
type Registry struct {
	lock        sync.RWMutex
	elements    map[string]*Element
	subscribers map[chan ElementUpdate]struct{}
}

func NewRegistry(ids ...string) *Registry {
	reg := &Registry{
		elements:    make(map[string]*Element),
		subscribers: make(map[chan ElementUpdate]struct{}),
	}
	reg.Register(ids...)
	return reg
}

func (reg *Registry) Register(ids ...string) {
	reg.lock.Lock()
	defer reg.lock.Unlock()

	for _, id := range ids {
		if _, exists := reg.elements[id]; !exists {
			reg.elements[id] = &Element{Styles: map[string]string{}}
		}
	}
}

func (reg *Registry) SetText(id, text string) error {
	reg.lock.Lock()
	el, exists := reg.elements[id]
	if !exists {
		reg.lock.Unlock()
		return errors.Wrapf(ErrElementNotFound, "'%s'", id)
	}
	el.Text = text
	reg.lock.Unlock()

	reg.publish(ElementUpdate{ID: id, Text: text})
	return nil
}

func (reg *Registry) SetStyle(id, property, value string) error {
	reg.lock.Lock()
	el, exists := reg.elements[id]
	if !exists {
		reg.lock.Unlock()
		return errors.Wrapf(ErrElementNotFound, "'%s'", id)
	}
	el.Styles[property] = value
	reg.lock.Unlock()

	reg.publish(ElementUpdate{ID: id, Property: property, Value: value})
	return nil
}

// Text returns the text of the element and whether it exists
func (reg *Registry) Text(id string) (string, bool) {
	reg.lock.RLock()
	defer reg.lock.RUnlock()

	el, exists := reg.elements[id]
	if !exists {
		return "", false
	}
	return el.Text, true
}

// Style returns a style property of the element
func (reg *Registry) Style(id, property string) (string, bool) {
	reg.lock.RLock()
	defer reg.lock.RUnlock()

	el, exists := reg.elements[id]
	if !exists {
		return "", false
	}
	v, ok := el.Styles[property]
	return v, ok
}

// State returns a deep copy of all elements
func (reg *Registry) State() map[string]Element {
	reg.lock.RLock()
	defer reg.lock.RUnlock()

	res := make(map[string]Element, len(reg.elements))
	for id, el := range reg.elements {
		styles := make(map[string]string, len(el.Styles))
		for k, v := range el.Styles {
			styles[k] = v
		}
		res[id] = Element{Text: el.Text, Styles: styles}
	}
	return res
}

// Subscribe returns a channel receiving every update and a func to stop receiving.
// Slow subscribers miss updates instead of blocking writers.
func (reg *Registry) Subscribe() (<-chan ElementUpdate, func()) {
	ch := make(chan ElementUpdate, subscriberBuffer)

	reg.lock.Lock()
	reg.subscribers[ch] = struct{}{}
	reg.lock.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			reg.lock.Lock()
			delete(reg.subscribers, ch)
			reg.lock.Unlock()
			close(ch)
		})
	}
}

func (reg *Registry) publish(upd ElementUpdate) {
	reg.lock.RLock()
	defer reg.lock.RUnlock()

	for ch := range reg.subscribers {
		select {
		case ch <- upd:
		default:
			logrus.Debugf("registry: subscriber buffer full, dropping update of '%s'", upd.ID)
		}
	}
}
