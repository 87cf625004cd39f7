package main

import (
	"fmt"
	"math"

	"github.com/gdamore/tcell/v2"

	"github.com/aljokwa/brandonJJGame/game"
)

// Oblique projection of world units onto terminal cells. Cells are about
// twice as tall as wide, so X is stretched.
const (
	cellsPerX  = 2.0
	cellsPerY  = 1.0
	obliqueCol = 1.0 // columns per unit of depth
	obliqueRow = 0.5 // rows per unit of depth
	hudRows    = 3
)

var (
	styleHUD     = tcell.StyleDefault.Foreground(tcell.ColorWhite).Bold(true)
	styleBrandon = tcell.StyleDefault.Foreground(tcell.ColorAqua).Bold(true)
	styleJJ      = tcell.StyleDefault.Foreground(tcell.ColorLime).Bold(true)
	styleBoss    = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	styleBullet  = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	styleEgg     = tcell.StyleDefault.Foreground(tcell.ColorRed)
	styleGround  = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleHelp    = tcell.StyleDefault.Foreground(tcell.ColorGray)
)

// renderer draws snapshots onto a screen
type renderer struct {
	screen tcell.Screen
}

// project maps a world position to a cell for a w x h screen. Y points up,
// negative Z points away from the camera.
func project(p game.Vec3, w, h int) (int, int) {
	originCol := w / 2
	originRow := hudRows + (h-hudRows)*2/3
	col := originCol + int(math.Round(p.X*cellsPerX-p.Z*obliqueCol))
	row := originRow - int(math.Round(p.Y*cellsPerY-p.Z*obliqueRow))
	return col, row
}

// hudLines returns the score and health lines
func hudLines(s game.Snapshot) []string {
	b, _ := s.Player(game.Brandon)
	j, _ := s.Player(game.JJ)
	return []string{
		fmt.Sprintf("Brandon: %d | JJ: %d", b.Score, j.Score),
		fmt.Sprintf("Health: %d | %d", b.Health, j.Health),
		fmt.Sprintf("Chicken: %d (%s)", s.Boss.Health, s.Boss.Pattern),
	}
}

func (r *renderer) draw(s game.Snapshot) {
	r.screen.Clear()
	w, h := r.screen.Size()

	// Ground plane at y=0
	_, groundRow := project(game.Vec3{}, w, h)
	for x := 0; x < w; x++ {
		r.put(x, groundRow, '.', styleGround)
	}

	for _, e := range s.Hazards {
		x, y := project(e.Pos, w, h)
		r.put(x, y, 'o', styleEgg)
	}
	for _, e := range s.Projectiles {
		x, y := project(e.Pos, w, h)
		r.put(x, y, '|', styleBullet)
	}

	bx, by := project(s.Boss.Pos, w, h)
	r.sprite(bx-2, by-1, `\\V//`, styleBoss)
	r.sprite(bx-2, by, `<(@)>`, styleBoss)

	for _, p := range s.Players {
		x, y := project(p.Pos, w, h)
		if p.Name == game.Brandon {
			r.put(x, y, 'B', styleBrandon)
		} else {
			r.put(x, y, 'J', styleJJ)
		}
	}

	for i, line := range hudLines(s) {
		r.text(0, i, line, styleHUD)
	}
	r.text(0, h-1, "wasd move  space: Brandon fires  enter: JJ fires  q quits", styleHelp)

	r.screen.Show()
}

func (r *renderer) put(x, y int, ch rune, style tcell.Style) {
	w, h := r.screen.Size()
	if x < 0 || y < hudRows || x >= w || y >= h-1 {
		return
	}
	r.screen.SetContent(x, y, ch, nil, style)
}

// sprite is text clipped to the play area
func (r *renderer) sprite(x, y int, s string, style tcell.Style) {
	for i, ch := range s {
		r.put(x+i, y, ch, style)
	}
}

func (r *renderer) text(x, y int, s string, style tcell.Style) {
	for i, ch := range s {
		r.screen.SetContent(x+i, y, ch, nil, style)
	}
}
