package main

import (
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/aljokwa/brandonJJGame/game"
)

// Terminals report presses and auto-repeats but never releases, so a key
// counts as held for holdWindow after its last event.
const holdWindow = 150 * time.Millisecond

type control int

const (
	ctlUp control = iota
	ctlDown
	ctlLeft
	ctlRight
	ctlFireBrandon
	ctlFireJJ
	ctlCount
)

// controlFor maps a key event to a game control
func controlFor(ev *tcell.EventKey) (control, bool) {
	return controlForKey(ev.Key(), ev.Rune())
}

func controlForKey(k tcell.Key, r rune) (control, bool) {
	switch k {
	case tcell.KeyUp:
		return ctlUp, true
	case tcell.KeyDown:
		return ctlDown, true
	case tcell.KeyLeft:
		return ctlLeft, true
	case tcell.KeyRight:
		return ctlRight, true
	case tcell.KeyEnter:
		return ctlFireJJ, true
	case tcell.KeyRune:
		switch r {
		case 'w', 'W':
			return ctlUp, true
		case 's', 'S':
			return ctlDown, true
		case 'a', 'A':
			return ctlLeft, true
		case 'd', 'D':
			return ctlRight, true
		case ' ':
			return ctlFireBrandon, true
		}
	}
	return 0, false
}

// isQuit reports whether ev ends the program
func isQuit(ev *tcell.EventKey) bool {
	return isQuitKey(ev.Key(), ev.Rune())
}

func isQuitKey(k tcell.Key, r rune) bool {
	switch k {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyRune:
		return r == 'q' || r == 'Q'
	}
	return false
}

// heldKeys turns key events into held state
type heldKeys struct {
	last [ctlCount]time.Time
	seen [ctlCount]bool
}

func (k *heldKeys) press(c control, now time.Time) {
	k.last[c] = now
	k.seen[c] = true
}

func (k *heldKeys) held(c control, now time.Time) bool {
	return k.seen[c] && now.Sub(k.last[c]) < holdWindow
}

// intent builds the tick input from the keys held at now
func (k *heldKeys) intent(now time.Time) game.Intent {
	return game.Intent{
		Keys: game.Keys{
			Up:    k.held(ctlUp, now),
			Down:  k.held(ctlDown, now),
			Left:  k.held(ctlLeft, now),
			Right: k.held(ctlRight, now),
		},
		Fire: [game.SeatCount]bool{
			game.SeatBrandon: k.held(ctlFireBrandon, now),
			game.SeatJJ:      k.held(ctlFireJJ, now),
		},
	}
}
