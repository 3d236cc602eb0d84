// Copyright 2023 Matrix Origin
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package list

// List is a doubly linked list that keeps insertion order. The zero
// value is an empty list ready to use.
type List[E any] struct {
	root Element[E] // sentinel list element, only &root, root.prev, and root.next are used
	len  int        // current list length excluding (this) sentinel element
}

// Element is an element of a List.
type Element[E any] struct {
	// Next and previous pointers in the doubly-linked list of elements.
	// Internally the list is a ring, such that &l.root is both the next
	// element of the last element and the previous element of the first.
	next, prev *Element[E]

	// The list to which this element belongs.
	list *List[E]

	// The value stored with this element.
	Value E
}

// New returns an initialized List.
func New[E any]() *List[E] {
	l := &List[E]{}
	l.Clear()
	return l
}

// Next returns the next list element or nil.
func (e *Element[E]) Next() *Element[E] {
	if p := e.next; e.list != nil && p != &e.list.root {
		return p
	}
	return nil
}

// Clear removes all elements.
func (l *List[E]) Clear() {
	l.root.next = &l.root
	l.root.prev = &l.root
	l.len = 0
}

// Len returns the number of elements. The complexity is O(1).
func (l *List[E]) Len() int { return l.len }

// Front returns the first element, false if the list is empty.
func (l *List[E]) Front() (*Element[E], bool) {
	if l.len == 0 {
		return nil, false
	}
	return l.root.next, true
}

// Back returns the last element, false if the list is empty.
func (l *List[E]) Back() (*Element[E], bool) {
	if l.len == 0 {
		return nil, false
	}
	return l.root.prev, true
}

// PushBack appends v and returns its element.
func (l *List[E]) PushBack(v E) *Element[E] {
	l.lazyInit()
	return l.insert(&Element[E]{Value: v}, l.root.prev)
}

// Iter calls fn on every element in order, stopping if fn returns false.
func (l *List[E]) Iter(fn func(E) bool) {
	for e, ok := l.Front(); ok && e != nil; e = e.Next() {
		if !fn(e.Value) {
			return
		}
	}
}

// Find returns the first element whose value satisfies fn.
func (l *List[E]) Find(fn func(E) bool) (*Element[E], bool) {
	for e, ok := l.Front(); ok && e != nil; e = e.Next() {
		if fn(e.Value) {
			return e, true
		}
	}
	return nil, false
}

// Remove removes e from l if e is an element of l and returns e.Value.
// The element must not be nil.
func (l *List[E]) Remove(e *Element[E]) E {
	if e.list == l {
		l.remove(e)
	}
	return e.Value
}

// Values returns the values in list order.
func (l *List[E]) Values() []E {
	values := make([]E, 0, l.len)
	l.Iter(func(v E) bool {
		values = append(values, v)
		return true
	})
	return values
}

// lazyInit lazily initializes a zero List value.
func (l *List[E]) lazyInit() {
	if l.root.next == nil {
		l.Clear()
	}
}

// insert inserts e after at, increments l.len, and returns e.
func (l *List[E]) insert(e, at *Element[E]) *Element[E] {
	e.prev = at
	e.next = at.next
	e.prev.next = e
	e.next.prev = e
	e.list = l
	l.len++
	return e
}

// remove removes e from its list, decrements l.len.
func (l *List[E]) remove(e *Element[E]) {
	e.prev.next = e.next
	e.next.prev = e.prev
	e.next = nil // avoid memory leaks
	e.prev = nil // avoid memory leaks
	e.list = nil
	l.len--
}
