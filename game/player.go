package game

import "time"

// Player is one of the two co-op avatars
type Player struct {
	Name        string
	Health      int
	Score       int
	Pos         Vec3
	Projectiles []*Projectile

	reload  Cooldown
	speed   float64
	bullet  float64
	muzzle  float64
	ceiling float64
	seq     *Sequence
}

// NewPlayer creates a player at pos. Projectile ids are drawn from seq.
func NewPlayer(name string, pos Vec3, t Tuning, seq *Sequence) *Player {
	return &Player{
		Name:    name,
		Health:  t.PlayerHealth,
		Pos:     pos,
		reload:  Cooldown{Interval: t.ShotCooldown()},
		speed:   t.PlayerSpeed,
		bullet:  t.BulletSpeed,
		muzzle:  t.MuzzleOffset,
		ceiling: t.ProjectileCeiling,
		seq:     seq,
	}
}

// Move translates the player along dir. dir is a unit vector or zero.
func (p *Player) Move(dir Vec3) {
	p.Pos = p.Pos.Add(dir.Scale(p.speed))
}

// CanShoot returns true if the reload delay has passed at now
func (p *Player) CanShoot(now time.Duration) bool {
	return p.reload.Ready(now)
}

// Shoot fires a projectile from just above the player. Returns nil while reloading.
func (p *Player) Shoot(now time.Duration) *Projectile {
	if !p.reload.Trigger(now) {
		return nil
	}
	proj := &Projectile{
		ID:    p.seq.Next(),
		Owner: p.Name,
		Pos:   Vec3{p.Pos.X, p.Pos.Y + p.muzzle, p.Pos.Z},
		Speed: p.bullet,
	}
	p.Projectiles = append(p.Projectiles, proj)
	return proj
}

// Update advances every live projectile and drops the ones above the ceiling.
// Returns the dropped projectiles.
func (p *Player) Update() []*Projectile {
	var expired []*Projectile
	live := p.Projectiles[:0]
	for _, proj := range p.Projectiles {
		proj.Update()
		if proj.Pos.Y > p.ceiling {
			expired = append(expired, proj)
			continue
		}
		live = append(live, proj)
	}
	clearTail(p.Projectiles, len(live))
	p.Projectiles = live
	return expired
}

// TakeDamage lowers health. There is no floor.
func (p *Player) TakeDamage(dmg int) {
	p.Health -= dmg
}

// removeProjectiles drops every projectile whose id is in doomed
func (p *Player) removeProjectiles(doomed map[EntityID]bool) {
	live := p.Projectiles[:0]
	for _, proj := range p.Projectiles {
		if !doomed[proj.ID] {
			live = append(live, proj)
		}
	}
	clearTail(p.Projectiles, len(live))
	p.Projectiles = live
}

// ToView converts to display state
func (p *Player) ToView() PlayerView {
	return PlayerView{Name: p.Name, Health: p.Health, Score: p.Score, Pos: p.Pos}
}

// clearTail nils out the slots past n so filtered-out entities can be collected
func clearTail[T any](s []*T, n int) {
	for i := n; i < len(s); i++ {
		s[i] = nil
	}
}
