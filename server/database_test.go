package main

import "testing"

func TestSettings(t *testing.T) {
	db := openTestDB(t)
	if v := db.GetSetting("missing"); v != "" {
		t.Errorf("expected empty, got %q", v)
	}
	if err := db.SetSetting("k", "v1"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := db.SetSetting("k", "v2"); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	if v := db.GetSetting("k"); v != "v2" {
		t.Errorf("expected v2, got %q", v)
	}
}

func TestRoundsAndTotals(t *testing.T) {
	db := openTestDB(t)

	totals, err := db.PlayerTotals()
	if err != nil {
		t.Fatalf("totals: %v", err)
	}
	if len(totals) != 2 || totals[0].Rounds != 0 || totals[1].Score != 0 {
		t.Errorf("expected zero totals, got %+v", totals)
	}

	rounds := []RoundRow{
		{SessionID: "s", Outcome: "boss_defeated", Ticks: 600, BrandonScore: 120, JJScore: 80},
		{SessionID: "s", Outcome: "chicken_wins", Ticks: 300, BrandonScore: 30, JJScore: 90, JJHealth: -20},
	}
	for _, r := range rounds {
		if _, err := db.RecordRound(r); err != nil {
			t.Fatalf("record: %v", err)
		}
	}

	recent, err := db.RecentRounds(1)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(recent) != 1 || recent[0].Outcome != "chicken_wins" || recent[0].JJHealth != -20 {
		t.Errorf("expected the newest round first, got %+v", recent)
	}

	totals, _ = db.PlayerTotals()
	want := map[string]PlayerTotal{
		"Brandon": {Player: "Brandon", Rounds: 2, Score: 150, Best: 120},
		"JJ":      {Player: "JJ", Rounds: 2, Score: 170, Best: 90},
	}
	for _, pt := range totals {
		if pt != want[pt.Player] {
			t.Errorf("got %+v, want %+v", pt, want[pt.Player])
		}
	}
}

func TestAnalyticsFlushOnStop(t *testing.T) {
	db := openTestDB(t)
	a := NewAnalytics(db)

	a.Track("boss_hit", "Brandon", "s", "")
	a.Track("boss_hit", "Brandon", "s", "")
	a.Track("boss_hit", "JJ", "s", "")
	a.Track("player_hit", "JJ", "s", "")
	a.Stop()

	counts, err := a.EventCounts(1)
	if err != nil {
		t.Fatalf("counts: %v", err)
	}
	if counts["boss_hit"] != 3 || counts["player_hit"] != 1 {
		t.Errorf("unexpected counts %v", counts)
	}
	hits, _ := a.PlayerEventCounts("boss_hit")
	if hits["Brandon"] != 2 || hits["JJ"] != 1 {
		t.Errorf("unexpected per-player hits %v", hits)
	}

	// Tracking after Stop is dropped
	a.Track("boss_hit", "JJ", "s", "")
}

func TestAnalyticsWithoutDB(t *testing.T) {
	a := NewAnalytics(nil)
	a.Track("shot", "JJ", "s", "")
	a.Stop()
	counts, err := a.EventCounts(7)
	if err != nil || len(counts) != 0 {
		t.Errorf("expected empty counts, got %v %v", counts, err)
	}

	var none *Analytics
	none.Track("shot", "JJ", "s", "")
}
