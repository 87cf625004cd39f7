package game

// Rules are the collision parameters of a round
type Rules struct {
	BossHitRadius      float64
	PlayerHitRadius    float64
	BossHitDamage      int
	BossHitScore       int
	HazardDamage       int
	HazardSingleTarget bool
}

// RulesFrom extracts the collision rules from a tuning
func RulesFrom(t Tuning) Rules {
	return Rules{
		BossHitRadius:      t.BossHitRadius,
		PlayerHitRadius:    t.PlayerHitRadius,
		BossHitDamage:      t.BossHitDamage,
		BossHitScore:       t.BossHitScore,
		HazardDamage:       t.HazardDamage,
		HazardSingleTarget: t.HazardSingleTarget,
	}
}

// Hit records one resolved collision
type Hit struct {
	Kind   EventKind // EventBossHit or EventPlayerHit
	Player string    // scorer for boss hits, victim for player hits
	Entity EntityID  // projectile or hazard consumed
	Amount int       // damage dealt
	Health int       // target health right after this hit
	Score  int       // player score right after this hit
}

// Resolve runs the collision pass over the current projectiles and hazards.
// Every hit is evaluated against the collections as they were when the pass
// started; consumed entities are removed once the scan is done.
func Resolve(players []*Player, boss *Boss, r Rules) []Hit {
	var hits []Hit

	for _, p := range players {
		var spent map[EntityID]bool
		for _, proj := range p.Projectiles {
			if !proj.Pos.Within(boss.Pos, r.BossHitRadius) {
				continue
			}
			boss.TakeDamage(r.BossHitDamage)
			p.Score += r.BossHitScore
			hits = append(hits, Hit{
				Kind:   EventBossHit,
				Player: p.Name,
				Entity: proj.ID,
				Amount: r.BossHitDamage,
				Health: boss.Health,
				Score:  p.Score,
			})
			if spent == nil {
				spent = make(map[EntityID]bool)
			}
			spent[proj.ID] = true
		}
		if spent != nil {
			p.removeProjectiles(spent)
		}
	}

	var broken map[EntityID]bool
	for _, h := range boss.Hazards {
		for _, p := range players {
			if !h.Pos.Within(p.Pos, r.PlayerHitRadius) {
				continue
			}
			p.TakeDamage(r.HazardDamage)
			hits = append(hits, Hit{
				Kind:   EventPlayerHit,
				Player: p.Name,
				Entity: h.ID,
				Amount: r.HazardDamage,
				Health: p.Health,
				Score:  p.Score,
			})
			if broken == nil {
				broken = make(map[EntityID]bool)
			}
			broken[h.ID] = true
			if r.HazardSingleTarget {
				break
			}
		}
	}
	if broken != nil {
		boss.removeHazards(broken)
	}

	return hits
}
