package game

// Projectile is a player's shot. It climbs until it leaves the arena or hits the boss.
type Projectile struct {
	ID    EntityID
	Owner string // name of the firing player
	Pos   Vec3
	Speed float64
}

// Update moves the projectile one tick
func (p *Projectile) Update() {
	p.Pos.Y += p.Speed
}

// ToView converts to display state
func (p *Projectile) ToView() EntityView {
	return EntityView{ID: p.ID, Kind: KindProjectile, Owner: p.Owner, Pos: p.Pos}
}

// Hazard is an egg dropped by the boss. It falls until it leaves the arena or hits a player.
type Hazard struct {
	ID    EntityID
	Pos   Vec3
	Speed float64
}

// Update moves the hazard one tick
func (h *Hazard) Update() {
	h.Pos.Y -= h.Speed
}

// ToView converts to display state
func (h *Hazard) ToView() EntityView {
	return EntityView{ID: h.ID, Kind: KindHazard, Pos: h.Pos}
}
