package game

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// Player identities. The two seats are fixed for the lifetime of a session.
const (
	Brandon = "Brandon"
	JJ      = "JJ"
)

// Seat indexes into Game.Players and Intent.Fire
const (
	SeatBrandon = 0
	SeatJJ      = 1
	SeatCount   = 2
)

// SeatNames lists player names in seat order
var SeatNames = [SeatCount]string{Brandon, JJ}

// Tuning holds every gameplay constant. Distances are world units,
// speeds are world units per tick.
type Tuning struct {
	PlayerSpeed float64 `yaml:"player_speed" json:"player_speed"`
	BulletSpeed float64 `yaml:"bullet_speed" json:"bullet_speed"`
	EggSpeed    float64 `yaml:"egg_speed" json:"egg_speed"`

	ShotCooldownMs   int `yaml:"shot_cooldown_ms" json:"shot_cooldown_ms"`
	AttackIntervalMs int `yaml:"attack_interval_ms" json:"attack_interval_ms"`

	PlayerHealth  int     `yaml:"player_health" json:"player_health"`
	BossHealth    int     `yaml:"boss_health" json:"boss_health"`
	BossMaxHealth int     `yaml:"boss_max_health" json:"boss_max_health"`
	BossHeal      int     `yaml:"boss_heal" json:"boss_heal"`
	BossSwing     float64 `yaml:"boss_swing" json:"boss_swing"` // amplitude of the sideways oscillation

	BossHitRadius   float64 `yaml:"boss_hit_radius" json:"boss_hit_radius"`
	PlayerHitRadius float64 `yaml:"player_hit_radius" json:"player_hit_radius"`
	BossHitDamage   int     `yaml:"boss_hit_damage" json:"boss_hit_damage"`
	BossHitScore    int     `yaml:"boss_hit_score" json:"boss_hit_score"`
	HazardDamage    int     `yaml:"hazard_damage" json:"hazard_damage"`

	ProjectileCeiling float64 `yaml:"projectile_ceiling" json:"projectile_ceiling"`
	HazardFloor       float64 `yaml:"hazard_floor" json:"hazard_floor"`
	MuzzleOffset      float64 `yaml:"muzzle_offset" json:"muzzle_offset"`
	EggDrop           float64 `yaml:"egg_drop" json:"egg_drop"`
	WingSpread        float64 `yaml:"wing_spread" json:"wing_spread"`

	// HazardSingleTarget stops a hazard at the first player it hits in a
	// collision pass. Off by default: a hazard between both players hurts both.
	HazardSingleTarget bool `yaml:"hazard_single_target" json:"hazard_single_target"`
}

// DefaultTuning returns the stock arcade values
func DefaultTuning() Tuning {
	return Tuning{
		PlayerSpeed: 0.1,
		BulletSpeed: 0.5,
		EggSpeed:    0.3,

		ShotCooldownMs:   500,
		AttackIntervalMs: 2000,

		PlayerHealth:  100,
		BossHealth:    200,
		BossMaxHealth: 200,
		BossHeal:      5,
		BossSwing:     5,

		BossHitRadius:   3,
		PlayerHitRadius: 1.5,
		BossHitDamage:   10,
		BossHitScore:    10,
		HazardDamage:    20,

		ProjectileCeiling: 10,
		HazardFloor:       -10,
		MuzzleOffset:      1,
		EggDrop:           2,
		WingSpread:        2,
	}
}

// ShotCooldown returns the player reload delay
func (t Tuning) ShotCooldown() time.Duration {
	return time.Duration(t.ShotCooldownMs) * time.Millisecond
}

// AttackInterval returns the delay between boss attacks
func (t Tuning) AttackInterval() time.Duration {
	return time.Duration(t.AttackIntervalMs) * time.Millisecond
}

// Validate rejects values that would stall or invert the simulation
func (t Tuning) Validate() error {
	switch {
	case t.PlayerSpeed <= 0:
		return fmt.Errorf("tuning: player_speed must be positive, got %v", t.PlayerSpeed)
	case t.BulletSpeed <= 0:
		return fmt.Errorf("tuning: bullet_speed must be positive, got %v", t.BulletSpeed)
	case t.EggSpeed <= 0:
		return fmt.Errorf("tuning: egg_speed must be positive, got %v", t.EggSpeed)
	case t.ShotCooldownMs < 0:
		return fmt.Errorf("tuning: shot_cooldown_ms must not be negative, got %d", t.ShotCooldownMs)
	case t.AttackIntervalMs < 0:
		return fmt.Errorf("tuning: attack_interval_ms must not be negative, got %d", t.AttackIntervalMs)
	case t.BossMaxHealth < t.BossHealth:
		return fmt.Errorf("tuning: boss_max_health %d below boss_health %d", t.BossMaxHealth, t.BossHealth)
	case t.BossHitRadius <= 0 || t.PlayerHitRadius <= 0:
		return fmt.Errorf("tuning: hit radii must be positive")
	case t.ProjectileCeiling <= t.HazardFloor:
		return fmt.Errorf("tuning: projectile_ceiling %v must be above hazard_floor %v", t.ProjectileCeiling, t.HazardFloor)
	}
	return nil
}

// ParseTuning decodes YAML over the defaults, so missing keys keep their
// stock values, and validates the result.
func ParseTuning(data []byte) (Tuning, error) {
	t := DefaultTuning()
	if err := yaml.Unmarshal(data, &t); err != nil {
		return t, fmt.Errorf("tuning: parse: %w", err)
	}
	if err := t.Validate(); err != nil {
		return t, err
	}
	return t, nil
}
