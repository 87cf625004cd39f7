// Command chickenterm plays the boss fight in a terminal, both players on
// one keyboard: wasd moves both avatars, space fires for Brandon and enter
// fires for JJ.
package main

import (
	"flag"
	"io"
	"log"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/aljokwa/brandonJJGame/game"
)

const frameInterval = 16 * time.Millisecond

func main() {
	mute := flag.Bool("mute", false, "Disable sound")
	logPath := flag.String("log", "", "Write a log to this file")
	tuningPath := flag.String("tuning", "", "YAML tuning file (optional)")
	flag.Parse()

	log.SetOutput(io.Discard)
	if *logPath != "" {
		f, err := os.OpenFile(*logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			log.New(os.Stderr, "", 0).Fatalf("open log: %v", err)
		}
		defer f.Close()
		log.SetOutput(f)
	}

	tuning := game.DefaultTuning()
	if *tuningPath != "" {
		data, err := os.ReadFile(*tuningPath)
		if err == nil {
			tuning, err = game.ParseTuning(data)
		}
		if err != nil {
			log.New(os.Stderr, "", 0).Fatalf("tuning: %v", err)
		}
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		log.New(os.Stderr, "", 0).Fatalf("screen: %v", err)
	}
	if err := screen.Init(); err != nil {
		log.New(os.Stderr, "", 0).Fatalf("screen init: %v", err)
	}

	snd, err := newSounds(*mute)
	if err != nil {
		log.Printf("sound disabled: %v", err)
	}

	t := newTerminal(screen, game.New(game.NewSystemClock(), tuning), snd)
	t.run()

	snd.close()
	screen.Fini()
	log.Printf("quit after %d ticks", t.game.TickCount())
}

// terminal couples a round to a screen
type terminal struct {
	screen tcell.Screen
	game   *game.Game
	keys   heldKeys
	view   renderer
	sound  *sounds
}

func newTerminal(screen tcell.Screen, g *game.Game, snd *sounds) *terminal {
	return &terminal{
		screen: screen,
		game:   g,
		view:   renderer{screen: screen},
		sound:  snd,
	}
}

func (t *terminal) run() {
	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	eventChan := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := t.screen.PollEvent()
			if ev == nil {
				return // screen finalised
			}
			eventChan <- ev
		}
	}()

	for {
		select {
		case ev := <-eventChan:
			if !t.handleEvent(ev, time.Now()) {
				return
			}
		case now := <-ticker.C:
			t.step(now)
		}
	}
}

// handleEvent returns false when the program should quit
func (t *terminal) handleEvent(ev tcell.Event, now time.Time) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if isQuit(ev) {
			return false
		}
		if c, ok := controlFor(ev); ok {
			t.keys.press(c, now)
		}
	case *tcell.EventResize:
		t.screen.Sync()
	}
	return true
}

// step advances the round one tick and redraws
func (t *terminal) step(now time.Time) {
	snap := t.game.Tick(t.keys.intent(now))
	for _, e := range t.game.Events() {
		switch e.Kind {
		case game.EventBossHit:
			t.sound.bossHit()
			log.Printf("tick %d: %s hit the chicken for %d", e.Tick, e.Player, e.Amount)
		case game.EventPlayerHit:
			t.sound.playerHit()
			log.Printf("tick %d: egg hit %s for %d", e.Tick, e.Player, e.Amount)
		}
	}
	t.view.draw(snap)
}
