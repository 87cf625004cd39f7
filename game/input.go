package game

// Keys is the held state of the shared movement keys (w, s, a, d)
type Keys struct {
	Up, Down, Left, Right bool
}

// Intent is the input snapshot for one tick
type Intent struct {
	Keys Keys
	Fire [SeatCount]bool // index by SeatBrandon / SeatJJ
}

// Direction returns the normalised movement direction. Up/down travel
// along Z (up is away from the camera), left/right along X.
func (in Intent) Direction() Vec3 {
	var d Vec3
	if in.Keys.Up {
		d.Z -= 1
	}
	if in.Keys.Down {
		d.Z += 1
	}
	if in.Keys.Left {
		d.X -= 1
	}
	if in.Keys.Right {
		d.X += 1
	}
	return d.Normalize()
}

// Merge ORs two intents. Used when several inputs drive the same tick.
func (in Intent) Merge(o Intent) Intent {
	in.Keys.Up = in.Keys.Up || o.Keys.Up
	in.Keys.Down = in.Keys.Down || o.Keys.Down
	in.Keys.Left = in.Keys.Left || o.Keys.Left
	in.Keys.Right = in.Keys.Right || o.Keys.Right
	for i := range in.Fire {
		in.Fire[i] = in.Fire[i] || o.Fire[i]
	}
	return in
}
