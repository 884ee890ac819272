// Board and pouch
//
// Copyright (c) 2025, 2026  The go-tombola authors
//
// This file is part of go-tombola.
//
// go-tombola is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License,
// version 3, as published by the Free Software Foundation.
//
// go-tombola is distributed in the hope that it will be useful, but
// WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the GNU
// Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public
// License, version 3, along with go-tombola. If not, see
// <http://www.gnu.org/licenses/>

package tombola

import (
	"encoding/json"
	"fmt"
	"math/rand"
)

// Board is the ordered history of drawn numbers, together with a
// membership set for constant time lookups.  Both views always agree.
type Board struct {
	numbers []Number
	marked  map[Number]bool
}

// NewBoard returns an empty board.
func NewBoard() *Board {
	return &Board{marked: make(map[Number]bool)}
}

// Append records N as drawn.  It panics if N was drawn before, since
// the pouch can never hand out the same number twice.
func (b *Board) Append(n Number) {
	if b.marked[n] {
		panic(fmt.Sprintf("Number %d drawn twice", n))
	}
	b.numbers = append(b.numbers, n)
	b.marked[n] = true
}

// Marked reports whether N has been drawn.
func (b *Board) Marked(n Number) bool {
	return b.marked[n]
}

// Numbers returns a copy of the draw history in extraction order.
func (b *Board) Numbers() []Number {
	out := make([]Number, len(b.numbers))
	copy(out, b.numbers)
	return out
}

// Len returns the number of drawn numbers.
func (b *Board) Len() int {
	return len(b.numbers)
}

// Copy returns a deep copy of the board.
func (b *Board) Copy() *Board {
	c := &Board{
		numbers: make([]Number, len(b.numbers)),
		marked:  make(map[Number]bool, len(b.marked)),
	}
	copy(c.numbers, b.numbers)
	for n := range b.marked {
		c.marked[n] = true
	}
	return c
}

type boardJSON struct {
	Numbers []Number `json:"numbers"`
	Marked  []Number `json:"marked_numbers"`
}

func (b *Board) MarshalJSON() ([]byte, error) {
	enc := boardJSON{
		Numbers: b.numbers,
		Marked:  make([]Number, 0, len(b.marked)),
	}
	if enc.Numbers == nil {
		enc.Numbers = []Number{}
	}
	// the marked set is serialised in draw order so that dumps are
	// reproducible
	for _, n := range b.numbers {
		enc.Marked = append(enc.Marked, n)
	}
	return json.Marshal(enc)
}

func (b *Board) UnmarshalJSON(data []byte) error {
	var dec boardJSON
	if err := json.Unmarshal(data, &dec); err != nil {
		return err
	}
	b.numbers = dec.Numbers
	b.marked = make(map[Number]bool, len(dec.Numbers))
	for _, n := range dec.Numbers {
		if b.marked[n] {
			return fmt.Errorf("duplicate number %d on board", n)
		}
		b.marked[n] = true
	}
	return nil
}

// Pouch holds the numbers that have not been drawn yet.
type Pouch struct {
	numbers []Number
}

// NewPouch returns a pouch filled with all 90 numbers.
func NewPouch() *Pouch {
	p := &Pouch{numbers: make([]Number, 0, LastNumber)}
	for n := FirstNumber; n <= LastNumber; n++ {
		p.numbers = append(p.numbers, n)
	}
	return p
}

// Draw removes and returns a uniformly random remaining number.  The
// second return value is false if the pouch is empty.
func (p *Pouch) Draw() (Number, bool) {
	if len(p.numbers) == 0 {
		return 0, false
	}
	i := rand.Intn(len(p.numbers))
	n := p.numbers[i]
	last := len(p.numbers) - 1
	p.numbers[i] = p.numbers[last]
	p.numbers = p.numbers[:last]
	return n, true
}

// Remaining returns the number of undrawn numbers.
func (p *Pouch) Remaining() int {
	return len(p.numbers)
}

// Contains reports whether N is still in the pouch.
func (p *Pouch) Contains(n Number) bool {
	for _, m := range p.numbers {
		if m == n {
			return true
		}
	}
	return false
}

// Remove takes a specific number out of the pouch.  It is used by
// tests and by tooling that replays a known draw sequence.
func (p *Pouch) Remove(n Number) bool {
	for i, m := range p.numbers {
		if m == n {
			last := len(p.numbers) - 1
			p.numbers[i] = p.numbers[last]
			p.numbers = p.numbers[:last]
			return true
		}
	}
	return false
}

// Copy returns a deep copy of the pouch.
func (p *Pouch) Copy() *Pouch {
	c := &Pouch{numbers: make([]Number, len(p.numbers))}
	copy(c.numbers, p.numbers)
	return c
}

type pouchJSON struct {
	Numbers []Number `json:"numbers"`
}

func (p *Pouch) MarshalJSON() ([]byte, error) {
	enc := pouchJSON{Numbers: p.numbers}
	if enc.Numbers == nil {
		enc.Numbers = []Number{}
	}
	return json.Marshal(enc)
}

func (p *Pouch) UnmarshalJSON(data []byte) error {
	var dec pouchJSON
	if err := json.Unmarshal(data, &dec); err != nil {
		return err
	}
	p.numbers = dec.Numbers
	return nil
}
