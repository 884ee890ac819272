package tombola

import "testing"

func TestColumnRange(t *testing.T) {
	for _, test := range []struct {
		col    int
		lo, hi Number
	}{
		{0, 1, 9},
		{1, 10, 19},
		{4, 40, 49},
		{7, 70, 79},
		{8, 80, 90},
	} {
		lo, hi := ColumnRange(test.col)
		if lo != test.lo || hi != test.hi {
			t.Errorf("column %d: got [%d, %d], want [%d, %d]",
				test.col, lo, hi, test.lo, test.hi)
		}
	}
}

func TestColumnOf(t *testing.T) {
	for _, test := range []struct {
		n   Number
		col int
	}{
		{1, 0}, {9, 0}, {10, 1}, {19, 1}, {45, 4}, {79, 7}, {80, 8}, {90, 8},
	} {
		if got := ColumnOf(test.n); got != test.col {
			t.Errorf("ColumnOf(%d) = %d, want %d", test.n, got, test.col)
		}
	}
}

func TestGenerateGroupPartition(t *testing.T) {
	for round := 0; round < 50; round++ {
		cards, err := GenerateGroup(nil)
		if err != nil {
			t.Fatal(err)
		}
		if len(cards) != CardsPerGroup {
			t.Fatalf("got %d cards, want %d", len(cards), CardsPerGroup)
		}

		seen := make(map[Number]string)
		for _, card := range cards {
			for _, n := range card.Data.Numbers() {
				if other, dup := seen[n]; dup {
					t.Fatalf("number %d on cards %s and %s",
						n, other, card.ID)
				}
				seen[n] = card.ID
			}
		}
		for n := FirstNumber; n <= LastNumber; n++ {
			if _, ok := seen[n]; !ok {
				t.Fatalf("number %d missing from the group", n)
			}
		}
	}
}

func TestGenerateGroupCardInvariants(t *testing.T) {
	for round := 0; round < 50; round++ {
		cards, err := GenerateGroup(nil)
		if err != nil {
			t.Fatal(err)
		}
		for _, card := range cards {
			if err := card.Data.Validate(); err != nil {
				t.Errorf("card %s: %v", card.ID, err)
			}
			if len(card.ID) != 16 {
				t.Errorf("card id %q is not 16 characters", card.ID)
			}
		}
	}
}

func TestGenerateGroupAvoidsTakenIDs(t *testing.T) {
	taken := make(map[string]bool)
	for round := 0; round < 10; round++ {
		cards, err := GenerateGroup(func(id string) bool {
			return taken[id]
		})
		if err != nil {
			t.Fatal(err)
		}
		for _, card := range cards {
			if taken[card.ID] {
				t.Fatalf("card id %s issued twice", card.ID)
			}
			taken[card.ID] = true
		}
	}
}

func num(n Number) *Number { return &n }

func TestValidateRejectsBrokenCards(t *testing.T) {
	valid := func() CardData {
		var d CardData
		// column-correct grid with 5 numbers per row
		d[0] = [CardColumns]*Number{num(1), num(10), num(20), num(30), num(40), nil, nil, nil, nil}
		d[1] = [CardColumns]*Number{num(2), num(11), nil, nil, nil, num(50), num(60), nil, num(80)}
		d[2] = [CardColumns]*Number{nil, nil, num(21), nil, num(41), num(51), nil, num(70), num(90)}
		return d
	}

	if d := valid(); d.Validate() != nil {
		t.Fatalf("fixture card invalid: %v", d.Validate())
	}

	for _, test := range []struct {
		name  string
		wreck func(*CardData)
	}{
		{"wrong column", func(d *CardData) { d[0][0] = num(55) }},
		{"duplicate number", func(d *CardData) { d[1][0] = num(1) }},
		{"short row", func(d *CardData) { d[0][4] = nil }},
		{"descending column", func(d *CardData) {
			d[0][0] = num(3)
			d[1][0] = num(2)
		}},
	} {
		d := valid()
		test.wreck(&d)
		if d.Validate() == nil {
			t.Errorf("%s: validation passed", test.name)
		}
	}
}

func TestCardRegistry(t *testing.T) {
	reg := NewCardRegistry()
	cards, err := GenerateGroup(nil)
	if err != nil {
		t.Fatal(err)
	}

	reg.Assign("AAAA000000000001", cards[0])
	reg.Assign("AAAA000000000001", cards[1])
	reg.Assign("BBBB000000000002", cards[2])

	if got := reg.Cards("AAAA000000000001"); len(got) != 2 {
		t.Errorf("client owns %d cards, want 2", len(got))
	}
	if !reg.Has("BBBB000000000002") {
		t.Error("second client has no cards")
	}
	if reg.Has("CCCC000000000003") {
		t.Error("unknown client has cards")
	}
	if a := reg.Get(cards[2].ID); a == nil || a.ClientID != "BBBB000000000002" {
		t.Error("lookup by card id failed")
	}
	if reg.Get("FFFFFFFFFFFFFFFF") != nil {
		t.Error("lookup of an unknown card succeeded")
	}

	all := reg.All()
	if len(all) != 3 {
		t.Fatalf("All returned %d assignments, want 3", len(all))
	}
	for i := 1; i < len(all); i++ {
		prev, cur := all[i-1], all[i]
		if prev.ClientID > cur.ClientID {
			t.Error("All not ordered by client id")
		}
		if prev.ClientID == cur.ClientID && prev.CardID > cur.CardID {
			t.Error("All not ordered by card id")
		}
	}
}
