package game

import "time"

// EntityKind tags entities in a snapshot
type EntityKind uint8

const (
	KindProjectile EntityKind = 1
	KindHazard     EntityKind = 2
)

// PlayerView is the display state of a player
type PlayerView struct {
	Name   string `msgpack:"n" json:"n"`
	Health int    `msgpack:"hp" json:"hp"`
	Score  int    `msgpack:"sc" json:"sc"`
	Pos    Vec3   `msgpack:"p" json:"p"`
}

// BossView is the display state of the boss
type BossView struct {
	Pos     Vec3          `msgpack:"p" json:"p"`
	Yaw     float64       `msgpack:"r" json:"r"`
	Health  int           `msgpack:"hp" json:"hp"`
	Pattern AttackPattern `msgpack:"pt" json:"pt"`
}

// EntityView is the display state of a projectile or hazard
type EntityView struct {
	ID    EntityID   `msgpack:"id" json:"id"`
	Kind  EntityKind `msgpack:"k" json:"k"`
	Owner string     `msgpack:"o,omitempty" json:"o,omitempty"`
	Pos   Vec3       `msgpack:"p" json:"p"`
}

// Snapshot is everything a renderer needs after a tick
type Snapshot struct {
	Tick        uint64        `msgpack:"tick" json:"tick"`
	Elapsed     time.Duration `msgpack:"el" json:"el"`
	Players     []PlayerView  `msgpack:"pl" json:"pl"`
	Boss        BossView      `msgpack:"b" json:"b"`
	Projectiles []EntityView  `msgpack:"pr" json:"pr"`
	Hazards     []EntityView  `msgpack:"hz" json:"hz"`
}

// Player returns the view of the named player
func (s Snapshot) Player(name string) (PlayerView, bool) {
	for _, p := range s.Players {
		if p.Name == name {
			return p, true
		}
	}
	return PlayerView{}, false
}
