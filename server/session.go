package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/aljokwa/brandonJJGame/game"
)

//go:generate go tool mockgen -source=session.go -destination=mock_broadcaster_test.go -package=main

const (
	TickRate       = 60 // simulation ticks per second
	BroadcastRate  = 30 // state broadcasts per second
	TickDuration   = time.Second / TickRate
	BroadcastEvery = TickRate / BroadcastRate
)

// Broadcaster sends messages to one connected client
type Broadcaster interface {
	SendJSON(msg any)
	SendBinary(data []byte)
}

// SessionOptions configures a Session
type SessionOptions struct {
	Tuning      game.Tuning
	Auth        *SeatAuth
	DB          *DB        // nil disables round history
	Analytics   *Analytics // nil disables event tracking
	EndOnDefeat bool
	NewClock    func() game.Clock // nil = game.NewSystemClock
}

// Session is the one continuous shared round that every connection joins
type Session struct {
	ID string

	mu          sync.Mutex
	game        *game.Game
	tuning      game.Tuning
	clients     map[string]Broadcaster // connID -> client
	inputs      map[string]InputFrame  // connID -> latest frame
	seats       [game.SeatCount]string // connID owning each seat, "" = free
	over        bool
	startedAt   time.Time
	endOnDefeat bool

	auth      *SeatAuth
	db        *DB
	analytics *Analytics
	newClock  func() game.Clock
}

// NewSession creates the session and its first round. A nil opts.Auth gets
// a fresh random secret and no seat password.
func NewSession(opts SessionOptions) (*Session, error) {
	s := &Session{
		ID:          uuid.NewString(),
		tuning:      opts.Tuning,
		clients:     make(map[string]Broadcaster),
		inputs:      make(map[string]InputFrame),
		endOnDefeat: opts.EndOnDefeat,
		auth:        opts.Auth,
		db:          opts.DB,
		analytics:   opts.Analytics,
		newClock:    opts.NewClock,
	}
	if s.newClock == nil {
		s.newClock = func() game.Clock { return game.NewSystemClock() }
	}
	if s.auth == nil {
		secret, err := loadOrCreateSecret(nil, "")
		if err != nil {
			return nil, err
		}
		if s.auth, err = NewSeatAuth(secret, ""); err != nil {
			return nil, err
		}
	}
	s.startRound()
	return s, nil
}

func (s *Session) startRound() {
	s.game = game.New(s.newClock(), s.tuning)
	s.over = false
	s.startedAt = time.Now()
	s.analytics.Track(EvtRoundStart, "", s.ID, "")
}

// Run ticks the round until ctx is cancelled
func (s *Session) Run(ctx context.Context) error {
	ticker := time.NewTicker(TickDuration)
	defer ticker.Stop()

	log.Printf("session: %s running at %d Hz", s.ID, TickRate)
	for {
		select {
		case <-ticker.C:
			s.step()
		case <-ctx.Done():
			s.mu.Lock()
			if !s.over {
				s.recordRound(s.game.Outcome())
			}
			s.mu.Unlock()
			return nil
		}
	}
}

// Join registers a connection as a spectator and greets it with the seat
// map, the current board and, for a frozen round, its result
func (s *Session) Join(connID string, b Broadcaster) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clients[connID] = b
	b.SendJSON(Envelope{T: MsgWelcome, Data: WelcomeMsg{
		ConnID:    connID,
		SessionID: s.ID,
		Seats:     s.seatsMsg(),
		Tuning:    s.tuning,
	}})
	if data, err := s.stateFrame(s.game.Snapshot()); err == nil {
		b.SendBinary(data)
	}
	if s.over {
		b.SendJSON(Envelope{T: MsgOver, Data: s.overMsg(s.game.Outcome())})
	}
}

// Leave drops a connection and frees its seats
func (s *Session) Leave(connID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.clients, connID)
	delete(s.inputs, connID)
	s.release(connID)
}

// Claim gives connID the requested seat ("Brandon", "JJ" or "both") and
// returns a token that can re-claim it later. A valid token for the seat
// takes it over even if another connection holds it.
func (s *Session) Claim(connID, seat, token, password string) (string, error) {
	idx, err := seatIndexes(seat)
	if err != nil {
		return "", err
	}

	if token != "" {
		granted, err := s.auth.Verify(token, s.ID)
		if err != nil {
			return "", err
		}
		if granted != seat {
			return "", fmt.Errorf("%w: token is for %s", ErrBadToken, granted)
		}
	} else if err := s.auth.CheckPassword(password); err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if token == "" {
		for _, i := range idx {
			if owner := s.seats[i]; owner != "" && owner != connID {
				return "", fmt.Errorf("%w: %s", ErrSeatTaken, game.SeatNames[i])
			}
		}
	}
	// A connection holds either one seat or both. Its held keys carry over.
	s.release(connID)
	for _, i := range idx {
		s.seats[i] = connID
	}

	issued, err := s.auth.Issue(s.ID, seat)
	if err != nil {
		return "", fmt.Errorf("session: issue token: %w", err)
	}
	s.analytics.Track(EvtSeatClaim, seat, s.ID, "")
	s.broadcastJSON(Envelope{T: MsgSeats, Data: s.seatsMsg()})
	return issued, nil
}

// Release frees the seats held by connID
func (s *Session) Release(connID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.release(connID) {
		s.broadcastJSON(Envelope{T: MsgSeats, Data: s.seatsMsg()})
	}
}

func (s *Session) release(connID string) bool {
	freed := false
	for i, owner := range s.seats {
		if owner == connID {
			s.seats[i] = ""
			freed = true
			s.analytics.Track(EvtSeatFree, game.SeatNames[i], s.ID, "")
		}
	}
	return freed
}

// HandleInput stores the latest held state of a connection
func (s *Session) HandleInput(connID string, in InputFrame) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.clients[connID]; !ok {
		return
	}
	s.inputs[connID] = in
}

// Restart records the current round and starts a fresh one with t
func (s *Session) Restart(t game.Tuning) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.over {
		s.recordRound(s.game.Outcome())
	}
	s.tuning = t
	s.startRound()
	s.broadcastJSON(Envelope{T: MsgTuning, Data: TuningMsg{Tuning: t}})
	log.Printf("session: round restarted")
}

// Tuning returns the constants of the current round
func (s *Session) Tuning() game.Tuning {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tuning
}

// Snapshot returns the display state of the current round
func (s *Session) Snapshot() game.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.game.Snapshot()
}

// ClientCount returns the number of joined connections
func (s *Session) ClientCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}

// IsSeated reports whether connID holds at least one seat
func (s *Session) IsSeated(connID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.ownedBy(connID)) > 0
}

// Seats reports which avatars are taken
func (s *Session) Seats() SeatsMsg {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seatsMsg()
}

// step runs one tick
func (s *Session) step() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.over {
		return
	}

	snap := s.game.Tick(s.intent())
	for _, e := range s.game.Events() {
		s.handleEvent(e)
	}

	if s.endOnDefeat {
		if o := s.game.Outcome(); o != game.OutcomeRunning {
			s.finish(o)
		}
	}

	if s.game.TickCount()%BroadcastEvery == 0 || s.over {
		s.broadcastState(snap)
	}
}

// intent merges every seated connection's frame into one tick input.
// Movement is shared by both avatars; a seat fires only from its owner.
func (s *Session) intent() game.Intent {
	var in game.Intent
	for connID, f := range s.inputs {
		owned := s.ownedBy(connID)
		if len(owned) == 0 {
			continue
		}
		frame := game.Intent{Keys: game.Keys{Up: f.Up, Down: f.Down, Left: f.Left, Right: f.Right}}
		if len(owned) == game.SeatCount {
			frame.Fire[game.SeatBrandon] = f.FireBrandon
			frame.Fire[game.SeatJJ] = f.FireJJ
		} else {
			// A single-seat client may use either trigger
			frame.Fire[owned[0]] = f.FireBrandon || f.FireJJ
		}
		in = in.Merge(frame)
	}
	return in
}

func (s *Session) ownedBy(connID string) []int {
	var owned []int
	for i, owner := range s.seats {
		if owner == connID {
			owned = append(owned, i)
		}
	}
	return owned
}

func (s *Session) handleEvent(e game.Event) {
	switch e.Kind {
	case game.EventBossHit, game.EventPlayerHit:
		s.broadcastJSON(Envelope{T: MsgHit, Data: HitMsg{
			Kind:   e.Kind.String(),
			Player: e.Player,
			Amount: e.Amount,
			Health: e.Health,
			Score:  e.Score,
		}})
	case game.EventExpired:
		return
	}

	var data string
	if e.Kind == game.EventBossAttack {
		data = fmt.Sprintf(`{"pattern":%q}`, e.Pattern.String())
	}
	s.analytics.Track(e.Kind.String(), e.Player, s.ID, data)
}

// finish freezes the round under the defeat rule
func (s *Session) finish(o game.Outcome) {
	s.over = true
	s.broadcastJSON(Envelope{T: MsgOver, Data: s.overMsg(o)})
	s.recordRound(o)
	log.Printf("session: round over (%s) after %d ticks", o, s.game.TickCount())
}

func (s *Session) overMsg(o game.Outcome) OverMsg {
	return OverMsg{
		Outcome: o.String(),
		Brandon: s.game.Players[game.SeatBrandon].Score,
		JJ:      s.game.Players[game.SeatJJ].Score,
		Ticks:   s.game.TickCount(),
	}
}

func (s *Session) recordRound(o game.Outcome) {
	if s.game.TickCount() == 0 {
		return
	}
	b, j := s.game.Players[game.SeatBrandon], s.game.Players[game.SeatJJ]
	row := RoundRow{
		SessionID:     s.ID,
		Outcome:       o.String(),
		Duration:      time.Since(s.startedAt).Seconds(),
		Ticks:         s.game.TickCount(),
		BrandonScore:  b.Score,
		JJScore:       j.Score,
		BrandonHealth: b.Health,
		JJHealth:      j.Health,
		BossHealth:    s.game.Boss.Health,
	}
	if data, err := json.Marshal(row); err == nil {
		s.analytics.Track(EvtRoundEnd, "", s.ID, string(data))
	}
	if s.db == nil {
		return
	}
	if _, err := s.db.RecordRound(row); err != nil {
		log.Printf("session: %v", err)
	}
}

func (s *Session) seatsMsg() SeatsMsg {
	return SeatsMsg{
		Brandon: s.seats[game.SeatBrandon] != "",
		JJ:      s.seats[game.SeatJJ] != "",
	}
}

// stateFrame encodes snap with the seat map and round status
func (s *Session) stateFrame(snap game.Snapshot) ([]byte, error) {
	msg := StateMsg{Snapshot: snap, Over: s.over}
	for i, owner := range s.seats {
		msg.Seats[i] = owner != ""
	}
	data, err := msgpack.Marshal(&msg)
	if err != nil {
		log.Printf("session: marshal state: %v", err)
		return nil, err
	}
	return data, nil
}

func (s *Session) broadcastState(snap game.Snapshot) {
	data, err := s.stateFrame(snap)
	if err != nil {
		return
	}
	for _, c := range s.clients {
		c.SendBinary(data)
	}
}

func (s *Session) broadcastJSON(msg Envelope) {
	for _, c := range s.clients {
		c.SendJSON(msg)
	}
}

// seatIndexes maps a claim name to the seats it covers
func seatIndexes(seat string) ([]int, error) {
	switch seat {
	case game.Brandon:
		return []int{game.SeatBrandon}, nil
	case game.JJ:
		return []int{game.SeatJJ}, nil
	case SeatBoth:
		return []int{game.SeatBrandon, game.SeatJJ}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownSeat, seat)
}
