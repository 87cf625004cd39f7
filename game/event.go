package game

// EventKind classifies what happened during a tick
type EventKind uint8

const (
	EventShot       EventKind = iota + 1 // a player fired
	EventBossAttack                      // the boss advanced its pattern
	EventBossHit                         // a projectile hit the boss
	EventPlayerHit                       // a hazard hit a player
	EventExpired                         // an entity left the arena
)

var eventNames = map[EventKind]string{
	EventShot:       "shot",
	EventBossAttack: "boss_attack",
	EventBossHit:    "boss_hit",
	EventPlayerHit:  "player_hit",
	EventExpired:    "expired",
}

// String returns the analytics name of the event
func (k EventKind) String() string {
	if s, ok := eventNames[k]; ok {
		return s
	}
	return "unknown"
}

// Event is one thing that happened during a tick
type Event struct {
	Kind    EventKind
	Tick    uint64
	Player  string // shooter, scorer or victim; empty for boss-only events
	Entity  EntityID
	Pattern AttackPattern // for EventBossAttack
	Amount  int           // damage for hits
	Health  int           // target health right after a hit
	Score   int           // player score right after a hit
}
