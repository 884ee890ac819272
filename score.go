// Score evaluation
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

import "sort"

// BingoScore is the score level of a fully marked card.
const BingoScore = 15

// MaxLineScore is the highest line based score level.
const MaxLineScore = NumbersPerRow

// ValidScoreLevel reports whether L is a reportable score level.
// Single marked numbers are not reported.
func ValidScoreLevel(l int) bool {
	return (l >= 2 && l <= MaxLineScore) || l == BingoScore
}

// ScoreAchievement records that one card reached a score level: a row
// with len(Numbers) marked numbers, or a full card for BingoScore.
type ScoreAchievement struct {
	ClientID string   `json:"client_id"`
	CardID   string   `json:"card_id"`
	Numbers  []Number `json:"numbers"`
}

// ScoreCard tracks the best published achievement of a game.  The
// published score only ever moves upward; levels that were skipped on
// the way up are filled in with the achievements current at that draw.
type ScoreCard struct {
	PublishedScore int                         `json:"published_score"`
	ScoreMap       map[int][]*ScoreAchievement `json:"score_map"`
}

// NewScoreCard returns an empty score card.
func NewScoreCard() *ScoreCard {
	return &ScoreCard{ScoreMap: make(map[int][]*ScoreAchievement)}
}

// Copy returns a deep copy of the score card.
func (s *ScoreCard) Copy() *ScoreCard {
	c := &ScoreCard{
		PublishedScore: s.PublishedScore,
		ScoreMap:       make(map[int][]*ScoreAchievement, len(s.ScoreMap)),
	}
	for l, as := range s.ScoreMap {
		for _, a := range as {
			dup := *a
			dup.Numbers = append([]Number(nil), a.Numbers...)
			c.ScoreMap[l] = append(c.ScoreMap[l], &dup)
		}
	}
	return c
}

// Closed reports whether a bingo has been published.
func (s *ScoreCard) Closed() bool {
	return s.PublishedScore == BingoScore
}

// sheet is the scoring view of one card: candidate rows for line
// scores and full sets for bingo.  A player card contributes its three
// rows and one 15 number set.  The synthetic board card contributes
// the 18 rows and 6 sets of the classic wall board, so the evaluation
// loop below needs no special case for board progress.
type sheet struct {
	client, card string
	rows         [][]Number
	sets         [][]Number
}

func cardSheet(a *CardAssignment) *sheet {
	if a.CardID == BoardClientID {
		return wallSheet(a.ClientID)
	}
	s := &sheet{client: a.ClientID, card: a.CardID}
	for r := 0; r < CardRows; r++ {
		s.rows = append(s.rows, a.CardData.Row(r))
	}
	s.sets = append(s.sets, a.CardData.Numbers())
	return s
}

// wallSheet lays the 90 numbers out as six wall board panels of 15,
// three rows of five each.  Panel (band, side) row i holds the numbers
// 1+(3*band+i)*10+5*side .. +4.
func wallSheet(client string) *sheet {
	s := &sheet{client: client, card: BoardClientID}
	for band := 0; band < 3; band++ {
		for side := 0; side < 2; side++ {
			var set []Number
			for i := 0; i < 3; i++ {
				var row []Number
				base := Number(1 + (3*band+i)*10 + 5*side)
				for j := Number(0); j < 5; j++ {
					row = append(row, base+j)
				}
				s.rows = append(s.rows, row)
				set = append(set, row...)
			}
			s.sets = append(s.sets, set)
		}
	}
	return s
}

// achievements returns what this sheet exhibits at level L on the
// given board, in deterministic order.  For line levels that is the
// best row's marked numbers, left to right, truncated to L; for bingo
// every fully marked set.
func (s *sheet) achievements(board *Board, l int) []*ScoreAchievement {
	var out []*ScoreAchievement
	if l == BingoScore {
		for _, set := range s.sets {
			full := true
			for _, n := range set {
				if !board.Marked(n) {
					full = false
					break
				}
			}
			if full {
				out = append(out, &ScoreAchievement{
					ClientID: s.client,
					CardID:   s.card,
					Numbers:  append([]Number(nil), set...),
				})
			}
		}
		return out
	}

	var best []Number
	for _, row := range s.rows {
		var marked []Number
		for _, n := range row {
			if board.Marked(n) {
				marked = append(marked, n)
			}
		}
		if len(marked) > len(best) {
			best = marked
		}
	}
	if len(best) >= l {
		out = append(out, &ScoreAchievement{
			ClientID: s.client,
			CardID:   s.card,
			Numbers:  append([]Number(nil), best[:l]...),
		})
	}
	return out
}

// top returns the highest level this sheet exhibits on the board.
func (s *sheet) top(board *Board) int {
	for _, set := range s.sets {
		full := true
		for _, n := range set {
			if !board.Marked(n) {
				full = false
				break
			}
		}
		if full {
			return BingoScore
		}
	}
	best := 0
	for _, row := range s.rows {
		marked := 0
		for _, n := range row {
			if board.Marked(n) {
				marked++
			}
		}
		if marked > best {
			best = marked
		}
	}
	if best > MaxLineScore {
		best = MaxLineScore
	}
	if best < 2 {
		return 0
	}
	return best
}

// Evaluate recomputes the achievements of every card against BOARD and
// publishes a new score if any card surpassed the published one.
// Levels between the old and the new published score are filled in
// along the way, unless already recorded.  Re-evaluating an unchanged
// board is a no-op, and ties within a level are resolved by ordering
// player cards by client id then card id, with the board card last.
func (s *ScoreCard) Evaluate(board *Board, assignments []*CardAssignment) (int, bool) {
	sheets := make([]*sheet, 0, len(assignments))
	for _, a := range assignments {
		sheets = append(sheets, cardSheet(a))
	}
	sort.SliceStable(sheets, func(i, j int) bool {
		bi, bj := sheets[i].card == BoardClientID, sheets[j].card == BoardClientID
		if bi != bj {
			return bj
		}
		if sheets[i].client != sheets[j].client {
			return sheets[i].client < sheets[j].client
		}
		return sheets[i].card < sheets[j].card
	})

	max := 0
	for _, sh := range sheets {
		if t := sh.top(board); t > max {
			max = t
		}
	}
	if max <= s.PublishedScore {
		return s.PublishedScore, false
	}

	if s.ScoreMap == nil {
		s.ScoreMap = make(map[int][]*ScoreAchievement)
	}
	for l := s.PublishedScore + 1; l <= max; l++ {
		if !ValidScoreLevel(l) {
			continue
		}
		if len(s.ScoreMap[l]) > 0 {
			continue
		}
		for _, sh := range sheets {
			s.ScoreMap[l] = append(s.ScoreMap[l], sh.achievements(board, l)...)
		}
	}
	s.PublishedScore = max
	return max, true
}
