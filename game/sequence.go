package game

// EntityID identifies a projectile or hazard for the lifetime of a round
type EntityID uint64

// Sequence hands out entity ids. The zero value is ready to use.
type Sequence struct {
	n uint64
}

// Next returns a fresh id
func (s *Sequence) Next() EntityID {
	s.n++
	return EntityID(s.n)
}
