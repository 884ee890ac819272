// Card group generation
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
	"errors"
	"math/rand"
	"sort"
)

// generateBudget bounds the retries of GenerateGroup before giving up
// with an internal error.
const generateBudget = 100

// ErrGenerateFailed is returned when no valid card group could be
// produced within the retry budget.
var ErrGenerateFailed = errors.New("card generation did not converge")

// singleColumns[i] lists the three columns that hold a single number
// on card i of a group.  Every column is single on exactly two of the
// six cards and double on the other four, so each column spreads ten
// numbers across the group and each card totals 3*1 + 6*2 = 15.
var singleColumns = [CardsPerGroup][3]int{
	{0, 3, 6},
	{1, 4, 7},
	{2, 5, 8},
	{0, 4, 8},
	{1, 5, 6},
	{2, 3, 7},
}

// GenerateGroup produces six cards that partition the numbers 1 to 90,
// each card holding 15 numbers in a valid 3x9 grid.  EXISTS is
// consulted to avoid card id collisions with already issued cards; it
// may be nil.
func GenerateGroup(exists func(id string) bool) ([]*Card, error) {
	for i := 0; i < generateBudget; i++ {
		cards, ok := tryGroup(exists)
		if ok {
			return cards, nil
		}
	}
	return nil, ErrGenerateFailed
}

func tryGroup(exists func(id string) bool) ([]*Card, bool) {
	// Column pools.  The first column has only nine candidates, the
	// last eleven, so 90 is lent to the first pool to give every
	// column exactly ten.  Whichever card draws it hands it back to
	// its own last column afterwards.
	var pools [CardColumns][]Number
	pools[0] = append(pools[0], LastNumber)
	for n := FirstNumber; n <= 9; n++ {
		pools[0] = append(pools[0], n)
	}
	for c := 1; c < CardColumns-1; c++ {
		lo, hi := ColumnRange(c)
		for n := lo; n <= hi; n++ {
			pools[c] = append(pools[c], n)
		}
	}
	for n := Number(80); n <= 89; n++ {
		pools[CardColumns-1] = append(pools[CardColumns-1], n)
	}
	for c := range pools {
		rand.Shuffle(len(pools[c]), func(i, j int) {
			pools[c][i], pools[c][j] = pools[c][j], pools[c][i]
		})
	}

	// Deal each pool across the six cards.
	var columns [CardsPerGroup][CardColumns][]Number
	for c := 0; c < CardColumns; c++ {
		next := 0
		for card := 0; card < CardsPerGroup; card++ {
			count := 2
			for _, single := range singleColumns[card] {
				if single == c {
					count = 1
					break
				}
			}
			columns[card][c] = append([]Number(nil),
				pools[c][next:next+count]...)
			next += count
		}
	}

	cards := make([]*Card, 0, CardsPerGroup)
	for i := 0; i < CardsPerGroup; i++ {
		data, ok := layoutCard(&columns[i])
		if !ok {
			return nil, false
		}
		card := &Card{Data: *data}
		for {
			card.ID = NewCardID()
			if exists == nil || !exists(card.ID) {
				break
			}
		}
		if card.Data.Validate() != nil {
			return nil, false
		}
		cards = append(cards, card)
	}
	return cards, true
}

// layoutCard turns per-column number lists into a 3x9 grid with five
// numbers per row and every column ascending top to bottom.
func layoutCard(columns *[CardColumns][]Number) (*CardData, bool) {
	// Give back the borrowed 90.
	for i, n := range columns[0] {
		if n == LastNumber {
			columns[0] = append(columns[0][:i], columns[0][i+1:]...)
			columns[CardColumns-1] = append(columns[CardColumns-1], LastNumber)
			break
		}
	}
	for c := range columns {
		sort.Slice(columns[c], func(i, j int) bool {
			return columns[c][i] < columns[c][j]
		})
	}

	// Assign each column's numbers to rows, widest columns first,
	// always into the rows with the most free cells.  The counts are
	// bounded by three and total fifteen, so this never gets stuck.
	order := make([]int, CardColumns)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return len(columns[order[i]]) > len(columns[order[j]])
	})

	var data CardData
	free := [CardRows]int{NumbersPerRow, NumbersPerRow, NumbersPerRow}
	for _, c := range order {
		k := len(columns[c])
		if k == 0 {
			continue
		}
		rows := pickRows(free, k)
		if rows == nil {
			return nil, false
		}
		for i, r := range rows {
			n := columns[c][i]
			data[r][c] = &n
			free[r]--
		}
	}
	return &data, true
}

// pickRows selects K distinct rows with the most free cells, breaking
// ties in favour of upper rows, and returns them in ascending order.
func pickRows(free [CardRows]int, k int) []int {
	rows := []int{0, 1, 2}
	sort.SliceStable(rows, func(i, j int) bool {
		return free[rows[i]] > free[rows[j]]
	})
	rows = rows[:k]
	for _, r := range rows {
		if free[r] == 0 {
			return nil
		}
	}
	sort.Ints(rows)
	return rows
}
