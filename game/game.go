// Game aggregate
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

package game

import (
	"errors"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	tombola "go-tombola"
)

var (
	ErrGameNotFound        = errors.New("game not found")
	ErrGameStarted         = errors.New("game already started")
	ErrBoardAlreadyPresent = errors.New("game already has a board client")
	ErrPouchEmpty          = errors.New("no numbers left in the pouch")
	ErrCardsAssigned       = errors.New("client already has cards assigned")
	ErrNotJoined           = errors.New("client has not joined this game")
	ErrNotOwner            = errors.New("operation reserved for the board client")
	ErrCardNotFound        = errors.New("card not found")
	ErrCardNotOwned        = errors.New("card belongs to another client")
	ErrUnknownClient       = errors.New("unknown client")
)

// Status is the lifecycle phase of a game.
type Status int

const (
	New Status = iota
	Active
	Closed
)

func (s Status) String() string {
	switch s {
	case New:
		return "new"
	case Active:
		return "active"
	case Closed:
		return "closed"
	default:
		panic("invalid status")
	}
}

// Game is one tombola round.  A single mutex guards the board, pouch,
// score card, card registry and membership together, so every
// operation below is one atomic step.
type Game struct {
	ID        string
	CreatedAt time.Time
	Owner     string

	mu      sync.Mutex
	endedAt *time.Time
	board   *tombola.Board
	pouch   *tombola.Pouch
	scores  *tombola.ScoreCard
	cards   *tombola.CardRegistry
	types   map[string]tombola.ClientType
	members map[string]bool

	dumper *Dumper
	log    *zap.Logger
}

func newGame(id, owner string, dumper *Dumper, log *zap.Logger) *Game {
	g := &Game{
		ID:        id,
		CreatedAt: time.Now(),
		Owner:     owner,
		board:     tombola.NewBoard(),
		pouch:     tombola.NewPouch(),
		scores:    tombola.NewScoreCard(),
		cards:     tombola.NewCardRegistry(),
		types:     make(map[string]tombola.ClientType),
		members:   make(map[string]bool),
		dumper:    dumper,
		log:       log,
	}

	// The owner participates from the start, holding the reserved
	// card that stands for the whole board in score evaluation.
	g.types[owner] = tombola.BoardClient
	g.members[owner] = true
	g.cards.Assign(owner, &tombola.Card{ID: tombola.BoardClientID})
	return g
}

func (g *Game) status() Status {
	switch {
	case g.scores.Closed():
		return Closed
	case g.board.Len() > 0:
		return Active
	default:
		return New
	}
}

// Status returns the current lifecycle phase.
func (g *Game) Status() Status {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.status()
}

// Join enrolls CLIENT with the requested role.  Players without cards
// receive min(NOCARD, 6) freshly generated ones, at least one.  Joins
// fail once the first number has been drawn.  The per game role is
// first writer wins: a conflicting TYP on a later join is ignored.
func (g *Game) Join(client string, typ tombola.ClientType, nocard int) ([]string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.board.Len() > 0 {
		return nil, ErrGameStarted
	}

	if prev, ok := g.types[client]; ok {
		typ = prev
	} else if typ == tombola.BoardClient {
		// only the creator holds the board
		return nil, ErrBoardAlreadyPresent
	} else {
		g.types[client] = typ
	}
	g.members[client] = true

	if typ != tombola.PlayerClient || g.cards.Has(client) {
		return g.playerCards(client), nil
	}
	return g.assignCards(client, nocard)
}

// GenerateCards issues a fresh set of cards to a joined player that
// has none yet.
func (g *Game) GenerateCards(client string, count int) ([]string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.members[client] {
		return nil, ErrNotJoined
	}
	if g.types[client] != tombola.PlayerClient {
		return nil, ErrNotOwner
	}
	if g.cards.Has(client) {
		return nil, ErrCardsAssigned
	}
	return g.assignCards(client, count)
}

// assignCards generates a group of six and hands the first N to
// CLIENT.  Called with the game lock held.
func (g *Game) assignCards(client string, n int) ([]string, error) {
	group, err := tombola.GenerateGroup(func(id string) bool {
		return g.cards.Get(id) != nil
	})
	if err != nil {
		return nil, err
	}
	if n < 1 {
		n = 1
	}
	if n > tombola.CardsPerGroup {
		n = tombola.CardsPerGroup
	}
	for _, card := range group[:n] {
		g.cards.Assign(client, card)
	}
	return g.cards.Cards(client), nil
}

// playerCards filters the reserved board card out of a client's
// assignment list.  Called with the game lock held.
func (g *Game) playerCards(client string) []string {
	var ids []string
	for _, id := range g.cards.Cards(client) {
		if id != tombola.BoardClientID {
			ids = append(ids, id)
		}
	}
	return ids
}

// AssignedCards returns the card ids CLIENT owns in this game.
func (g *Game) AssignedCards(client string) ([]string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.members[client] {
		return nil, ErrNotJoined
	}
	return g.playerCards(client), nil
}

// Card returns the contents of one of CLIENT's cards.
func (g *Game) Card(client, id string) (*tombola.CardAssignment, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.members[client] {
		return nil, ErrNotJoined
	}
	a := g.cards.Get(id)
	if a == nil || id == tombola.BoardClientID {
		return nil, ErrCardNotFound
	}
	if a.ClientID != client {
		return nil, ErrCardNotOwned
	}
	dup := *a
	return &dup, nil
}

// Player describes one game member.
type Player struct {
	ClientID   string             `json:"client_id"`
	ClientType tombola.ClientType `json:"client_type"`
	CardCount  int                `json:"card_count"`
}

// Players lists all members, the board client first, then players by
// ascending client id.  Card counts never include the reserved board
// card.
func (g *Game) Players(caller string) ([]Player, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.members[caller] {
		return nil, ErrNotJoined
	}

	players := make([]Player, 0, len(g.members))
	for client := range g.members {
		players = append(players, Player{
			ClientID:   client,
			ClientType: g.types[client],
			CardCount:  len(g.playerCards(client)),
		})
	}
	sort.Slice(players, func(i, j int) bool {
		bi := players[i].ClientType == tombola.BoardClient
		bj := players[j].ClientType == tombola.BoardClient
		if bi != bj {
			return bi
		}
		return players[i].ClientID < players[j].ClientID
	})
	return players, nil
}

// Draw is the outcome of a single extraction.
type Draw struct {
	Number    tombola.Number
	Remaining int
	Total     int
	Published int
	Finished  bool
}

// Extract draws one number, updates the board and re-evaluates the
// score card, all in one critical section.  Only the game's board
// client may draw.  The draw that first publishes a bingo closes the
// game and writes its state to disk while the lock is still held.
func (g *Game) Extract(client string) (*Draw, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if client != g.Owner {
		if !g.members[client] {
			return nil, ErrNotJoined
		}
		return nil, ErrNotOwner
	}

	n, ok := g.pouch.Draw()
	if !ok {
		return nil, ErrPouchEmpty
	}
	g.board.Append(n)

	published, advanced := g.scores.Evaluate(g.board, g.cards.All())
	finished := advanced && g.scores.Closed()
	if finished {
		now := time.Now()
		g.endedAt = &now
		if g.dumper != nil {
			if file, err := g.dumper.Write(g.snapshot()); err != nil {
				g.log.Error("Failed to dump finished game",
					zap.String("game", g.ID), zap.Error(err))
			} else {
				g.log.Info("Game finished",
					zap.String("game", g.ID), zap.String("file", file))
			}
		}
	}

	return &Draw{
		Number:    n,
		Remaining: g.pouch.Remaining(),
		Total:     g.board.Len(),
		Published: published,
		Finished:  finished,
	}, nil
}

// BoardState returns a copy of the board.
func (g *Game) BoardState() *tombola.Board {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.board.Copy()
}

// PouchState returns a copy of the pouch.
func (g *Game) PouchState() *tombola.Pouch {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.pouch.Copy()
}

// Scores returns a copy of the score card.
func (g *Game) Scores() *tombola.ScoreCard {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.scores.Copy()
}

// StatusInfo is the summary served for a single game.
type StatusInfo struct {
	GameID           string     `json:"game_id"`
	Status           string     `json:"status"`
	CreatedAt        time.Time  `json:"created_at"`
	Owner            string     `json:"owner"`
	Players          int        `json:"players"`
	Cards            int        `json:"cards"`
	NumbersExtracted int        `json:"numbers_extracted"`
	ScoreCard        int        `json:"scorecard"`
	ClosedAt         *time.Time `json:"closed_at,omitempty"`
}

// Summary returns the status view of the game.
func (g *Game) Summary() StatusInfo {
	g.mu.Lock()
	defer g.mu.Unlock()

	cards := 0
	for client := range g.members {
		cards += len(g.playerCards(client))
	}
	info := StatusInfo{
		GameID:           g.ID,
		Status:           g.status().String(),
		CreatedAt:        g.CreatedAt,
		Owner:            g.Owner,
		Players:          len(g.members),
		Cards:            cards,
		NumbersExtracted: g.board.Len(),
		ScoreCard:        g.scores.PublishedScore,
	}
	if g.endedAt != nil {
		t := *g.endedAt
		info.ClosedAt = &t
	}
	return info
}

// Dump writes the current game state to disk on demand.
func (g *Game) Dump() (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.dumper.Write(g.snapshot())
}

// DumpFor writes the game state to disk on behalf of CLIENT, which
// must be the game's board client.
func (g *Game) DumpFor(client string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if client != g.Owner {
		if !g.members[client] {
			return "", ErrNotJoined
		}
		return "", ErrNotOwner
	}
	return g.dumper.Write(g.snapshot())
}
