package game

import (
	"errors"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	tombola "go-tombola"
)

func testRegistry(t *testing.T) *Registry {
	t.Helper()
	dumper, err := NewDumper(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	return NewRegistry(dumper, zap.NewNop())
}

func TestCreateEnrollsOwner(t *testing.T) {
	reg := testRegistry(t)
	g := reg.Create("AAAA000000000001")

	if !tombola.GameIDPattern.MatchString(g.ID) {
		t.Errorf("game id %q has the wrong shape", g.ID)
	}
	if g.Status() != New {
		t.Errorf("fresh game in status %s", g.Status())
	}

	info := g.Summary()
	if info.Players != 1 || info.Owner != "AAAA000000000001" {
		t.Errorf("owner not enrolled: %+v", info)
	}
	if info.Cards != 0 {
		t.Errorf("board card counted as a player card: %+v", info)
	}
}

func TestJoinAssignsCards(t *testing.T) {
	reg := testRegistry(t)
	g := reg.Create("AAAA000000000001")

	cards, err := g.Join("BBBB000000000002", tombola.PlayerClient, 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(cards) != 3 {
		t.Fatalf("player got %d cards, want 3", len(cards))
	}

	for _, id := range cards {
		a, err := g.Card("BBBB000000000002", id)
		if err != nil {
			t.Fatal(err)
		}
		if err := a.CardData.Validate(); err != nil {
			t.Errorf("card %s: %v", id, err)
		}
	}

	// a repeated join keeps the existing assignment
	again, err := g.Join("BBBB000000000002", tombola.PlayerClient, 6)
	if err != nil {
		t.Fatal(err)
	}
	if len(again) != 3 {
		t.Errorf("rejoin changed the card count to %d", len(again))
	}
}

func TestJoinCardCountClamped(t *testing.T) {
	reg := testRegistry(t)
	g := reg.Create("AAAA000000000001")

	cards, err := g.Join("BBBB000000000002", tombola.PlayerClient, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(cards) != tombola.CardsPerGroup {
		t.Errorf("player got %d cards, want %d", len(cards), tombola.CardsPerGroup)
	}

	cards, err = g.Join("CCCC000000000003", tombola.PlayerClient, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(cards) != 1 {
		t.Errorf("player got %d cards, want the default of 1", len(cards))
	}
}

func TestSecondBoardRejected(t *testing.T) {
	reg := testRegistry(t)
	g := reg.Create("AAAA000000000001")

	if _, err := g.Join("BBBB000000000002", tombola.BoardClient, 0); !errors.Is(err, ErrBoardAlreadyPresent) {
		t.Errorf("second board join: %v", err)
	}

	// the owner itself may rejoin
	if _, err := g.Join("AAAA000000000001", tombola.BoardClient, 0); err != nil {
		t.Errorf("owner rejoin: %v", err)
	}
}

func TestJoinAfterStartRejected(t *testing.T) {
	reg := testRegistry(t)
	g := reg.Create("AAAA000000000001")

	if _, err := g.Extract("AAAA000000000001"); err != nil {
		t.Fatal(err)
	}
	if _, err := g.Join("BBBB000000000002", tombola.PlayerClient, 1); !errors.Is(err, ErrGameStarted) {
		t.Errorf("join after first draw: %v", err)
	}
}

func TestExtractAuthorization(t *testing.T) {
	reg := testRegistry(t)
	g := reg.Create("AAAA000000000001")
	if _, err := g.Join("BBBB000000000002", tombola.PlayerClient, 1); err != nil {
		t.Fatal(err)
	}

	if _, err := g.Extract("BBBB000000000002"); !errors.Is(err, ErrNotOwner) {
		t.Errorf("player extract: %v", err)
	}
	if _, err := g.Extract("CCCC000000000003"); !errors.Is(err, ErrNotJoined) {
		t.Errorf("stranger extract: %v", err)
	}
}

func TestFullGame(t *testing.T) {
	reg := testRegistry(t)
	g := reg.Create("AAAA000000000001")
	if _, err := g.Join("BBBB000000000002", tombola.PlayerClient, 6); err != nil {
		t.Fatal(err)
	}

	published := 0
	for i := 0; i < 90; i++ {
		draw, err := g.Extract("AAAA000000000001")
		if err != nil {
			t.Fatalf("draw %d: %v", i+1, err)
		}
		if draw.Published < published {
			t.Fatalf("published score fell from %d to %d", published, draw.Published)
		}
		published = draw.Published
		if draw.Total != i+1 || draw.Remaining != 90-i-1 {
			t.Fatalf("draw %d: total %d remaining %d", i+1, draw.Total, draw.Remaining)
		}
	}

	if published != tombola.BingoScore {
		t.Errorf("published %d after a full game, want bingo", published)
	}
	if g.Status() != Closed {
		t.Errorf("game in status %s after bingo", g.Status())
	}
	if info := g.Summary(); info.ClosedAt == nil {
		t.Error("closed game misses its closing time")
	}

	if _, err := g.Extract("AAAA000000000001"); !errors.Is(err, ErrPouchEmpty) {
		t.Errorf("draw from an empty pouch: %v", err)
	}
}

func TestCardAccessControl(t *testing.T) {
	reg := testRegistry(t)
	g := reg.Create("AAAA000000000001")
	bobCards, err := g.Join("BBBB000000000002", tombola.PlayerClient, 1)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := g.Join("CCCC000000000003", tombola.PlayerClient, 1); err != nil {
		t.Fatal(err)
	}

	if _, err := g.Card("CCCC000000000003", bobCards[0]); !errors.Is(err, ErrCardNotOwned) {
		t.Errorf("foreign card access: %v", err)
	}
	if _, err := g.Card("BBBB000000000002", "FFFFFFFFFFFFFFFF"); !errors.Is(err, ErrCardNotFound) {
		t.Errorf("unknown card access: %v", err)
	}
	if _, err := g.Card("BBBB000000000002", tombola.BoardClientID); !errors.Is(err, ErrCardNotFound) {
		t.Errorf("board card access: %v", err)
	}
	if _, err := g.AssignedCards("DDDD000000000004"); !errors.Is(err, ErrNotJoined) {
		t.Errorf("card list of a stranger: %v", err)
	}
}

func TestGenerateCardsOnlyOnce(t *testing.T) {
	reg := testRegistry(t)
	g := reg.Create("AAAA000000000001")
	if _, err := g.Join("BBBB000000000002", tombola.PlayerClient, 2); err != nil {
		t.Fatal(err)
	}

	if _, err := g.GenerateCards("BBBB000000000002", 2); !errors.Is(err, ErrCardsAssigned) {
		t.Errorf("second generation: %v", err)
	}
	if _, err := g.GenerateCards("AAAA000000000001", 1); !errors.Is(err, ErrNotOwner) {
		t.Errorf("board generation: %v", err)
	}
	if _, err := g.GenerateCards("CCCC000000000003", 1); !errors.Is(err, ErrNotJoined) {
		t.Errorf("stranger generation: %v", err)
	}
}

func TestPlayersListing(t *testing.T) {
	reg := testRegistry(t)
	g := reg.Create("ZZZZ000000000009")
	if _, err := g.Join("BBBB000000000002", tombola.PlayerClient, 2); err != nil {
		t.Fatal(err)
	}
	if _, err := g.Join("AAAA000000000001", tombola.PlayerClient, 1); err != nil {
		t.Fatal(err)
	}

	players, err := g.Players("BBBB000000000002")
	if err != nil {
		t.Fatal(err)
	}
	if len(players) != 3 {
		t.Fatalf("listed %d players, want 3", len(players))
	}
	if players[0].ClientID != "ZZZZ000000000009" || players[0].ClientType != tombola.BoardClient {
		t.Errorf("board client not listed first: %+v", players[0])
	}
	if players[1].ClientID != "AAAA000000000001" || players[2].ClientID != "BBBB000000000002" {
		t.Errorf("players not ordered by id: %+v", players[1:])
	}
	if players[0].CardCount != 0 || players[1].CardCount != 1 || players[2].CardCount != 2 {
		t.Errorf("wrong card counts: %+v", players)
	}

	if _, err := g.Players("CCCC000000000003"); !errors.Is(err, ErrNotJoined) {
		t.Errorf("player listing by a stranger: %v", err)
	}
}

func TestDumpRoundTrip(t *testing.T) {
	dir := t.TempDir()
	dumper, err := NewDumper(dir)
	if err != nil {
		t.Fatal(err)
	}
	reg := NewRegistry(dumper, zap.NewNop())

	g := reg.Create("AAAA000000000001")
	if _, err := g.Join("BBBB000000000002", tombola.PlayerClient, 2); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 30; i++ {
		if _, err := g.Extract("AAAA000000000001"); err != nil {
			t.Fatal(err)
		}
	}

	file, err := g.Dump()
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Base(file) != g.ID+".json" {
		t.Errorf("dump file %s, want %s.json", file, g.ID)
	}

	s, err := ReadDump(file)
	if err != nil {
		t.Fatal(err)
	}
	if s.ID != g.ID {
		t.Errorf("dump id %s, want %s", s.ID, g.ID)
	}
	if s.Board.Len() != 30 || s.Pouch.Remaining() != 60 {
		t.Errorf("dump holds %d drawn and %d remaining numbers",
			s.Board.Len(), s.Pouch.Remaining())
	}
	if got := g.Scores(); s.ScoreCard.PublishedScore != got.PublishedScore {
		t.Errorf("dump published %d, want %d",
			s.ScoreCard.PublishedScore, got.PublishedScore)
	}
	if len(s.RegisteredClients) != 2 {
		t.Errorf("dump lists clients %v", s.RegisteredClients)
	}
	if s.ClientTypes.ClientTypes["AAAA000000000001"] != tombola.BoardClient ||
		s.ClientTypes.ClientTypes["BBBB000000000002"] != tombola.PlayerClient {
		t.Errorf("dump role map %v", s.ClientTypes.ClientTypes)
	}
	// two player cards plus the reserved board card
	if len(s.CardManager.Assignments) != 3 {
		t.Errorf("dump holds %d assignments", len(s.CardManager.Assignments))
	}

	// a second dump must not overwrite the first
	second, err := g.Dump()
	if err != nil {
		t.Fatal(err)
	}
	if second == file {
		t.Errorf("second dump reused %s", file)
	}
}

func TestCreateFlushesActiveGames(t *testing.T) {
	dir := t.TempDir()
	dumper, err := NewDumper(dir)
	if err != nil {
		t.Fatal(err)
	}
	reg := NewRegistry(dumper, zap.NewNop())

	idle := reg.Create("AAAA000000000001")
	active := reg.Create("AAAA000000000001")
	if _, err := active.Extract("AAAA000000000001"); err != nil {
		t.Fatal(err)
	}

	reg.Create("AAAA000000000001")

	if _, err := ReadDump(filepath.Join(dir, active.ID+".json")); err != nil {
		t.Errorf("active game not flushed: %v", err)
	}
	if _, err := ReadDump(filepath.Join(dir, idle.ID+".json")); err == nil {
		t.Error("idle game was flushed")
	}
}

func TestRegistryLookup(t *testing.T) {
	reg := testRegistry(t)
	g := reg.Create("AAAA000000000001")

	if got, err := reg.Get(g.ID); err != nil || got != g {
		t.Errorf("lookup of %s failed: %v", g.ID, err)
	}
	if _, err := reg.Get("game_ffffffff"); !errors.Is(err, ErrGameNotFound) {
		t.Errorf("lookup of an unknown game: %v", err)
	}

	list := reg.List()
	if len(list) != 1 {
		t.Fatalf("listed %d games, want 1", len(list))
	}
	if list[0].GameID != g.ID || list[0].ClientCount != 1 ||
		list[0].ExtractedNumbers != 0 || list[0].Owner != "AAAA000000000001" {
		t.Errorf("unexpected summary %+v", list[0])
	}
}

func TestDirectory(t *testing.T) {
	dir := NewDirectory()

	alice, created := dir.Register("Alice", tombola.BoardClient, "alice@example.com")
	if !created {
		t.Fatal("first registration did not create an identity")
	}
	if len(alice.ID) != 16 {
		t.Errorf("client id %q is not 16 characters", alice.ID)
	}

	again, created := dir.Register("Alice", tombola.PlayerClient, "")
	if created || again.ID != alice.ID {
		t.Error("second registration did not return the original identity")
	}

	if got, err := dir.Lookup(alice.ID); err != nil || got.Name != "Alice" {
		t.Errorf("lookup by id: %v", err)
	}
	if got, err := dir.LookupName("Alice"); err != nil || got.ID != alice.ID {
		t.Errorf("lookup by name: %v", err)
	}
	if _, err := dir.Lookup("0123456789ABCDEF"); !errors.Is(err, ErrUnknownClient) {
		t.Errorf("lookup of an unknown id: %v", err)
	}

	board, err := dir.Lookup(tombola.BoardClientID)
	if err != nil || board.Name != tombola.BoardClientName {
		t.Errorf("reserved board identity missing: %v", err)
	}
}
