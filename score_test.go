package tombola

import (
	"reflect"
	"testing"
)

// cardOf builds card data from explicit rows, placing every number in
// its proper column.  Rows may reuse columns since they are distinct
// grid rows.
func cardOf(t *testing.T, rows [CardRows][]Number) CardData {
	t.Helper()
	var d CardData
	for r, row := range rows {
		for _, n := range row {
			c := ColumnOf(n)
			if d[r][c] != nil {
				t.Fatalf("row %d: columns %d used twice", r, c)
			}
			d[r][c] = num(n)
		}
	}
	return d
}

func playerAssignment(client, card string, d CardData) *CardAssignment {
	return &CardAssignment{CardID: card, ClientID: client, CardData: d}
}

func boardAssignment() *CardAssignment {
	return &CardAssignment{CardID: BoardClientID, ClientID: BoardClientID}
}

func drawAll(board *Board, sc *ScoreCard, cards []*CardAssignment, ns ...Number) {
	for _, n := range ns {
		board.Append(n)
		sc.Evaluate(board, cards)
	}
}

func TestScoreLineProgression(t *testing.T) {
	card := cardOf(t, [CardRows][]Number{
		{5, 17, 22, 30, 44},
		{51, 63, 75, 81, 46},
		{52, 64, 76, 82, 47},
	})
	cards := []*CardAssignment{playerAssignment("AAAA000000000001", "CCCC000000000001", card)}
	board := NewBoard()
	sc := NewScoreCard()

	drawAll(board, sc, cards, 5, 17, 22)
	if sc.PublishedScore != 3 {
		t.Fatalf("published %d after three row hits, want 3", sc.PublishedScore)
	}
	if got := sc.ScoreMap[3]; len(got) != 1 ||
		!reflect.DeepEqual(got[0].Numbers, []Number{5, 17, 22}) {
		t.Errorf("level 3 achievements: %+v", got)
	}
	// level 2 was published on the second draw
	if got := sc.ScoreMap[2]; len(got) != 1 ||
		!reflect.DeepEqual(got[0].Numbers, []Number{5, 17}) {
		t.Errorf("level 2 achievements: %+v", got)
	}

	drawAll(board, sc, cards, 30)
	if sc.PublishedScore != 4 {
		t.Fatalf("published %d, want 4", sc.PublishedScore)
	}
	if got := sc.ScoreMap[4]; len(got) != 1 ||
		!reflect.DeepEqual(got[0].Numbers, []Number{5, 17, 22, 30}) {
		t.Errorf("level 4 achievements: %+v", got)
	}

	drawAll(board, sc, cards, 44)
	if sc.PublishedScore != 5 {
		t.Fatalf("published %d, want 5", sc.PublishedScore)
	}
	if got := sc.ScoreMap[5]; len(got) != 1 ||
		!reflect.DeepEqual(got[0].Numbers, []Number{5, 17, 22, 30, 44}) {
		t.Errorf("level 5 achievements: %+v", got)
	}
}

func TestScoreMonotonicAndIdempotent(t *testing.T) {
	card := cardOf(t, [CardRows][]Number{
		{1, 12, 23, 34, 45},
		{2, 13, 24, 35, 46},
		{3, 14, 25, 36, 47},
	})
	cards := []*CardAssignment{playerAssignment("AAAA000000000001", "CCCC000000000001", card)}
	board := NewBoard()
	sc := NewScoreCard()

	drawAll(board, sc, cards, 1, 12, 23, 34)
	if sc.PublishedScore != 4 {
		t.Fatalf("published %d, want 4", sc.PublishedScore)
	}

	// a second row filling up to a lower level changes nothing
	prev := len(sc.ScoreMap[2]) + len(sc.ScoreMap[3]) + len(sc.ScoreMap[4])
	drawAll(board, sc, cards, 2, 13)
	if sc.PublishedScore != 4 {
		t.Errorf("published score regressed to %d", sc.PublishedScore)
	}
	if now := len(sc.ScoreMap[2]) + len(sc.ScoreMap[3]) + len(sc.ScoreMap[4]); now != prev {
		t.Errorf("score map grew without an advancement: %d -> %d", prev, now)
	}

	// re-evaluating the same board is a no-op
	if _, advanced := sc.Evaluate(board, cards); advanced {
		t.Error("unchanged board advanced the score")
	}
}

func TestScoreBingo(t *testing.T) {
	card := cardOf(t, [CardRows][]Number{
		{1, 12, 23, 34, 45},
		{2, 13, 24, 35, 46},
		{3, 14, 25, 36, 47},
	})
	cards := []*CardAssignment{playerAssignment("AAAA000000000001", "CCCC000000000001", card)}
	board := NewBoard()
	sc := NewScoreCard()

	drawAll(board, sc, cards,
		1, 12, 23, 34, 45,
		2, 13, 24, 35, 46,
		3, 14, 25, 36, 47)

	if !sc.Closed() {
		t.Fatalf("published %d after a full card, want bingo", sc.PublishedScore)
	}
	got := sc.ScoreMap[BingoScore]
	if len(got) != 1 {
		t.Fatalf("bingo achievements: %+v", got)
	}
	want := []Number{1, 12, 23, 34, 45, 2, 13, 24, 35, 46, 3, 14, 25, 36, 47}
	if !reflect.DeepEqual(got[0].Numbers, want) {
		t.Errorf("bingo numbers %v, want row major card order %v", got[0].Numbers, want)
	}
}

func TestScoreBoardCardProgress(t *testing.T) {
	cards := []*CardAssignment{boardAssignment()}
	board := NewBoard()
	sc := NewScoreCard()

	// 11..15 is one wall board row
	drawAll(board, sc, cards, 11, 12)
	if sc.PublishedScore != 2 {
		t.Fatalf("published %d, want 2", sc.PublishedScore)
	}
	if got := sc.ScoreMap[2]; len(got) != 1 || got[0].CardID != BoardClientID {
		t.Errorf("level 2 achievements: %+v", got)
	}

	drawAll(board, sc, cards, 13, 14, 15)
	if sc.PublishedScore != 5 {
		t.Fatalf("published %d, want 5", sc.PublishedScore)
	}

	// completing the first wall panel (1..15) is the board's bingo
	drawAll(board, sc, cards, 1, 2, 3, 4, 5, 21, 22, 23, 24, 25)
	if !sc.Closed() {
		t.Fatalf("published %d after a full panel, want bingo", sc.PublishedScore)
	}
	if got := sc.ScoreMap[BingoScore]; len(got) != 1 || got[0].ClientID != BoardClientID {
		t.Errorf("bingo achievements: %+v", got)
	}
}

func TestScoreTieBreakOrder(t *testing.T) {
	row := []Number{9, 10, 23, 34, 45}
	a := cardOf(t, [CardRows][]Number{row, nil, nil})
	b := cardOf(t, [CardRows][]Number{row, nil, nil})
	cards := []*CardAssignment{
		boardAssignment(),
		playerAssignment("BBBB000000000002", "CCCC000000000002", b),
		playerAssignment("AAAA000000000001", "CCCC000000000001", a),
	}
	board := NewBoard()
	sc := NewScoreCard()

	// 9 and 10 sit on one wall board row (6 to 10) but in distinct
	// card columns, so all three cards reach level 2 on the same draw
	drawAll(board, sc, cards, 9, 10)

	got := sc.ScoreMap[2]
	if len(got) != 3 {
		t.Fatalf("level 2 achievements: %+v", got)
	}
	if got[0].ClientID != "AAAA000000000001" ||
		got[1].ClientID != "BBBB000000000002" ||
		got[2].ClientID != BoardClientID {
		t.Errorf("tie order %s, %s, %s", got[0].ClientID, got[1].ClientID, got[2].ClientID)
	}
}

func TestScoreFillsSkippedLevels(t *testing.T) {
	card := cardOf(t, [CardRows][]Number{
		{4, 16, 27, 38, 49},
		nil,
		nil,
	})
	cards := []*CardAssignment{playerAssignment("AAAA000000000001", "CCCC000000000001", card)}
	board := NewBoard()
	sc := NewScoreCard()

	// the very first evaluation sees four marked numbers at once
	for _, n := range []Number{4, 16, 27, 38} {
		board.Append(n)
	}
	sc.Evaluate(board, cards)

	if sc.PublishedScore != 4 {
		t.Fatalf("published %d, want 4", sc.PublishedScore)
	}
	for l, want := range map[int][]Number{
		2: {4, 16},
		3: {4, 16, 27},
		4: {4, 16, 27, 38},
	} {
		got := sc.ScoreMap[l]
		if len(got) != 1 || !reflect.DeepEqual(got[0].Numbers, want) {
			t.Errorf("level %d achievements: %+v, want numbers %v", l, got, want)
		}
	}
}
