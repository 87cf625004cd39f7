// Package game is the simulation core of the co-op boss shooter: two players,
// one giant chicken, their projectiles and eggs. It performs no I/O; adapters
// feed it an Intent per tick and render the Snapshot it returns.
package game

import "time"

// Start positions of the two players
var (
	BrandonStart = Vec3{-5, 1, 0}
	JJStart      = Vec3{5, 1, 0}
)

// Outcome is the state of a round under the defeat rule
type Outcome uint8

const (
	OutcomeRunning        Outcome = iota
	OutcomeBossDefeated           // the chicken's health reached zero
	OutcomeChickenWins            // a player's health reached zero
)

// String returns a short name for messages and storage
func (o Outcome) String() string {
	switch o {
	case OutcomeBossDefeated:
		return "boss_defeated"
	case OutcomeChickenWins:
		return "chicken_wins"
	}
	return "running"
}

// Game holds the state of one round. It is not safe for concurrent use.
type Game struct {
	Players [SeatCount]*Player
	Boss    *Boss

	clock  Clock
	tuning Tuning
	rules  Rules
	seq    Sequence
	tick   uint64
	events []Event
}

// New creates a round with both players and the boss at their start positions
func New(clock Clock, t Tuning) *Game {
	g := &Game{
		clock:  clock,
		tuning: t,
		rules:  RulesFrom(t),
	}
	g.Players[SeatBrandon] = NewPlayer(Brandon, BrandonStart, t, &g.seq)
	g.Players[SeatJJ] = NewPlayer(JJ, JJStart, t, &g.seq)
	g.Boss = NewBoss(t, &g.seq)
	return g
}

// Tuning returns the constants the round was created with
func (g *Game) Tuning() Tuning {
	return g.tuning
}

// TickCount returns the number of completed ticks
func (g *Game) TickCount() uint64 {
	return g.tick
}

// Player returns the player with the given name, or nil
func (g *Game) Player(name string) *Player {
	for _, p := range g.Players {
		if p.Name == name {
			return p
		}
	}
	return nil
}

// Events returns what happened during the last tick. The slice is reused
// by the next Tick.
func (g *Game) Events() []Event {
	return g.events
}

// Tick runs one fixed update: movement, triggers, player and boss updates,
// then the collision pass.
func (g *Game) Tick(in Intent) Snapshot {
	now := g.clock.Elapsed()
	g.tick++
	g.events = g.events[:0]

	if dir := in.Direction(); dir.Len() > 0 {
		for _, p := range g.Players {
			p.Move(dir)
		}
	}

	for seat, p := range g.Players {
		if !in.Fire[seat] {
			continue
		}
		if proj := p.Shoot(now); proj != nil {
			g.emit(Event{Kind: EventShot, Player: p.Name, Entity: proj.ID})
		}
	}

	for _, p := range g.Players {
		for _, proj := range p.Update() {
			g.emit(Event{Kind: EventExpired, Player: p.Name, Entity: proj.ID})
		}
	}

	attacked, expired := g.Boss.Update(now)
	if attacked {
		g.emit(Event{Kind: EventBossAttack, Pattern: g.Boss.Pattern})
	}
	for _, h := range expired {
		g.emit(Event{Kind: EventExpired, Entity: h.ID})
	}

	for _, hit := range Resolve(g.Players[:], g.Boss, g.rules) {
		g.emit(Event{
			Kind:   hit.Kind,
			Player: hit.Player,
			Entity: hit.Entity,
			Amount: hit.Amount,
			Health: hit.Health,
			Score:  hit.Score,
		})
	}

	return g.snapshot(now)
}

func (g *Game) emit(e Event) {
	e.Tick = g.tick
	g.events = append(g.events, e)
}

// Snapshot returns the current display state without advancing the round
func (g *Game) Snapshot() Snapshot {
	return g.snapshot(g.clock.Elapsed())
}

func (g *Game) snapshot(now time.Duration) Snapshot {
	s := Snapshot{
		Tick:        g.tick,
		Elapsed:     now,
		Players:     make([]PlayerView, 0, SeatCount),
		Boss:        g.Boss.ToView(),
		Projectiles: make([]EntityView, 0),
		Hazards:     make([]EntityView, 0, len(g.Boss.Hazards)),
	}
	for _, p := range g.Players {
		s.Players = append(s.Players, p.ToView())
		for _, proj := range p.Projectiles {
			s.Projectiles = append(s.Projectiles, proj.ToView())
		}
	}
	for _, h := range g.Boss.Hazards {
		s.Hazards = append(s.Hazards, h.ToView())
	}
	return s
}

// Outcome applies the defeat rule to the current state. The round itself
// never stops; adapters decide whether to honour the result.
func (g *Game) Outcome() Outcome {
	if g.Boss.Health <= 0 {
		return OutcomeBossDefeated
	}
	for _, p := range g.Players {
		if p.Health <= 0 {
			return OutcomeChickenWins
		}
	}
	return OutcomeRunning
}
