package game

import (
	"math"
	"time"
)

// AttackPattern selects what the boss does on its next attack
type AttackPattern uint8

const (
	PatternEgg   AttackPattern = 0 // drop one egg straight down
	PatternHeal  AttackPattern = 1 // peck: heal, no egg
	PatternWings AttackPattern = 2 // wing flap: two eggs, one each side
	patternCount               = 3
)

// String returns a short name for logs and analytics
func (a AttackPattern) String() string {
	switch a {
	case PatternEgg:
		return "egg"
	case PatternHeal:
		return "heal"
	case PatternWings:
		return "wings"
	}
	return "unknown"
}

// BossStart is where the giant chicken hovers at the start of a round
var BossStart = Vec3{0, 5, 0}

// BossYaw is the facing of the beak (+X) for renderers
const BossYaw = math.Pi / 2

// Boss is the giant chicken
type Boss struct {
	Pos     Vec3
	Health  int
	Pattern AttackPattern
	Hazards []*Hazard

	attack    Cooldown
	maxHealth int
	heal      int
	swing     float64
	eggSpeed  float64
	eggDrop   float64
	spread    float64
	floor     float64
	seq       *Sequence
}

// NewBoss creates the boss at BossStart. Hazard ids are drawn from seq.
func NewBoss(t Tuning, seq *Sequence) *Boss {
	return &Boss{
		Pos:       BossStart,
		Health:    t.BossHealth,
		attack:    Cooldown{Interval: t.AttackInterval()},
		maxHealth: t.BossMaxHealth,
		heal:      t.BossHeal,
		swing:     t.BossSwing,
		eggSpeed:  t.EggSpeed,
		eggDrop:   t.EggDrop,
		spread:    t.WingSpread,
		floor:     t.HazardFloor,
		seq:       seq,
	}
}

// Move sways the boss sideways as a function of elapsed time
func (b *Boss) Move(now time.Duration) {
	b.Pos.X = math.Sin(now.Seconds()) * b.swing
}

// Attack advances the pattern and performs it if the attack interval has
// passed. Returns false and does nothing otherwise.
func (b *Boss) Attack(now time.Duration) bool {
	if !b.attack.Trigger(now) {
		return false
	}
	b.Pattern = (b.Pattern + 1) % patternCount

	switch b.Pattern {
	case PatternEgg:
		b.layEgg(0)
	case PatternHeal:
		b.Heal(b.heal)
	case PatternWings:
		b.layEgg(-b.spread)
		b.layEgg(b.spread)
	}
	return true
}

// Heal restores health up to the cap
func (b *Boss) Heal(amount int) {
	b.Health = min(b.maxHealth, b.Health+amount)
}

// TakeDamage lowers health. There is no floor.
func (b *Boss) TakeDamage(dmg int) {
	b.Health -= dmg
}

func (b *Boss) layEgg(dx float64) *Hazard {
	h := &Hazard{
		ID:    b.seq.Next(),
		Pos:   Vec3{b.Pos.X + dx, b.Pos.Y - b.eggDrop, b.Pos.Z},
		Speed: b.eggSpeed,
	}
	b.Hazards = append(b.Hazards, h)
	return h
}

// Update moves the boss, tries an attack and advances its eggs, dropping
// those below the floor. Returns whether it attacked and the dropped eggs.
func (b *Boss) Update(now time.Duration) (attacked bool, expired []*Hazard) {
	b.Move(now)
	attacked = b.Attack(now)

	live := b.Hazards[:0]
	for _, h := range b.Hazards {
		h.Update()
		if h.Pos.Y < b.floor {
			expired = append(expired, h)
			continue
		}
		live = append(live, h)
	}
	clearTail(b.Hazards, len(live))
	b.Hazards = live
	return attacked, expired
}

func (b *Boss) removeHazards(doomed map[EntityID]bool) {
	live := b.Hazards[:0]
	for _, h := range b.Hazards {
		if !doomed[h.ID] {
			live = append(live, h)
		}
	}
	clearTail(b.Hazards, len(live))
	b.Hazards = live
}

// ToView converts to display state
func (b *Boss) ToView() BossView {
	return BossView{
		Pos:     b.Pos,
		Yaw:     BossYaw,
		Health:  b.Health,
		Pattern: b.Pattern,
	}
}
