// Tombola cards and card assignments
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
	"fmt"
	"sort"
)

// CardData is the 3x9 grid of a tombola card.  A nil cell is empty;
// the JSON encoding is an array of arrays of (number | null).
type CardData [CardRows][CardColumns]*Number

// Card is an issued card with its opaque identifier.
type Card struct {
	ID   string   `json:"card_id"`
	Data CardData `json:"card_data"`
}

// ColumnRange returns the inclusive number range of column COL
// (0-indexed).  Column 0 holds 1 to 9, column 8 holds 80 to 90, all
// others hold a full decade.
func ColumnRange(col int) (lo, hi Number) {
	switch col {
	case 0:
		return 1, 9
	case CardColumns - 1:
		return 80, 90
	default:
		return Number(10 * col), Number(10*col + 9)
	}
}

// ColumnOf returns the column index that number N belongs to.
func ColumnOf(n Number) int {
	if n < FirstNumber || n > LastNumber {
		panic(fmt.Sprintf("Number %d out of range", n))
	}
	if n == LastNumber {
		return CardColumns - 1
	}
	return int(n / 10)
}

// Row returns the numbers of row I in column order, left to right.
func (d *CardData) Row(i int) []Number {
	var row []Number
	for c := 0; c < CardColumns; c++ {
		if d[i][c] != nil {
			row = append(row, *d[i][c])
		}
	}
	return row
}

// Numbers returns all numbers of the card in row-major order.
func (d *CardData) Numbers() []Number {
	var all []Number
	for r := 0; r < CardRows; r++ {
		all = append(all, d.Row(r)...)
	}
	return all
}

// Validate checks the card grid invariants: 15 numbers and 12 empty
// cells, exactly 5 numbers per row, every number within its column's
// range, columns sorted ascending top to bottom, no duplicates.
func (d *CardData) Validate() error {
	seen := make(map[Number]bool, NumbersPerCard)
	total := 0
	for r := 0; r < CardRows; r++ {
		count := 0
		for c := 0; c < CardColumns; c++ {
			cell := d[r][c]
			if cell == nil {
				continue
			}
			n := *cell
			lo, hi := ColumnRange(c)
			if n < lo || n > hi {
				return fmt.Errorf("number %d outside column %d range [%d, %d]",
					n, c, lo, hi)
			}
			if seen[n] {
				return fmt.Errorf("number %d appears twice", n)
			}
			seen[n] = true
			count++
			total++
		}
		if count != NumbersPerRow {
			return fmt.Errorf("row %d holds %d numbers, want %d",
				r, count, NumbersPerRow)
		}
	}
	if total != NumbersPerCard {
		return fmt.Errorf("card holds %d numbers, want %d",
			total, NumbersPerCard)
	}
	for c := 0; c < CardColumns; c++ {
		prev := Number(0)
		for r := 0; r < CardRows; r++ {
			if d[r][c] == nil {
				continue
			}
			if prev != 0 && *d[r][c] <= prev {
				return fmt.Errorf("column %d not ascending", c)
			}
			prev = *d[r][c]
		}
	}
	return nil
}

// CardAssignment binds an issued card to the client that owns it.
type CardAssignment struct {
	CardID   string   `json:"card_id"`
	ClientID string   `json:"client_id"`
	CardData CardData `json:"card_data"`
}

// CardRegistry tracks which cards exist in a game and who owns them.
// It is not safe for concurrent use; callers hold the game lock.
type CardRegistry struct {
	Assignments map[string]*CardAssignment `json:"assignments"`
	ClientCards map[string][]string        `json:"client_cards"`
}

// NewCardRegistry returns an empty registry.
func NewCardRegistry() *CardRegistry {
	return &CardRegistry{
		Assignments: make(map[string]*CardAssignment),
		ClientCards: make(map[string][]string),
	}
}

// Assign records CARD as owned by CLIENT.
func (r *CardRegistry) Assign(client string, card *Card) {
	r.Assignments[card.ID] = &CardAssignment{
		CardID:   card.ID,
		ClientID: client,
		CardData: card.Data,
	}
	r.ClientCards[client] = append(r.ClientCards[client], card.ID)
}

// Get returns the assignment for CARD, or nil if the card is unknown.
func (r *CardRegistry) Get(card string) *CardAssignment {
	return r.Assignments[card]
}

// Cards returns the card ids owned by CLIENT, in assignment order.
func (r *CardRegistry) Cards(client string) []string {
	ids := r.ClientCards[client]
	out := make([]string, len(ids))
	copy(out, ids)
	return out
}

// Has reports whether CLIENT owns at least one card.
func (r *CardRegistry) Has(client string) bool {
	return len(r.ClientCards[client]) > 0
}

// Copy returns a deep copy of the registry.  Card grids are value
// arrays, so copying the assignment structs is enough.
func (r *CardRegistry) Copy() *CardRegistry {
	c := NewCardRegistry()
	for id, a := range r.Assignments {
		dup := *a
		c.Assignments[id] = &dup
	}
	for client, ids := range r.ClientCards {
		c.ClientCards[client] = append([]string(nil), ids...)
	}
	return c
}

// All returns every assignment, ordered by owner then card id so the
// result is deterministic.
func (r *CardRegistry) All() []*CardAssignment {
	out := make([]*CardAssignment, 0, len(r.Assignments))
	for _, a := range r.Assignments {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ClientID != out[j].ClientID {
			return out[i].ClientID < out[j].ClientID
		}
		return out[i].CardID < out[j].CardID
	})
	return out
}
