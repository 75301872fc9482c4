package frame

import "fmt"

// Sequence is an ordered list of frame slots. Frames live in an arena and
// each slot holds an arena index, so a frame can back several slots without
// being copied.
type Sequence struct {
	arena []*Frame
	slots []int
}

func NewSequence(capacity int) *Sequence {
	return &Sequence{
		arena: make([]*Frame, 0, capacity),
		slots: make([]int, 0, capacity),
	}
}

// Append stores f in the arena and gives it a new slot at the end.
func (s *Sequence) Append(f *Frame) {
	if f == nil {
		panic("frame: append of nil frame")
	}
	s.arena = append(s.arena, f)
	s.slots = append(s.slots, len(s.arena)-1)
}

// Len is the number of slots.
func (s *Sequence) Len() int {
	if s == nil {
		return 0
	}
	return len(s.slots)
}

// Distinct is the number of frames actually stored.
func (s *Sequence) Distinct() int {
	if s == nil {
		return 0
	}
	return len(s.arena)
}

// At returns the frame in slot i.
func (s *Sequence) At(i int) *Frame {
	return s.arena[s.Handle(i)]
}

// Handle returns the arena index behind slot i.
func (s *Sequence) Handle(i int) int {
	if i < 0 || i >= len(s.slots) {
		panic(fmt.Sprintf("frame: slot %d out of range [0, %d)", i, len(s.slots)))
	}
	return s.slots[i]
}

// Frames returns the frames slot by slot. Aliased slots repeat the same pointer.
func (s *Sequence) Frames() []*Frame {
	out := make([]*Frame, s.Len())
	for i := range out {
		out[i] = s.arena[s.slots[i]]
	}
	return out
}

// PadToMultiple duplicates the last slot until Len is a multiple of n. An
// empty sequence is left alone. It returns the number of slots added.
func (s *Sequence) PadToMultiple(n int) int {
	if n <= 0 || s.Len() == 0 {
		return 0
	}
	last := s.slots[len(s.slots)-1]
	added := 0
	for len(s.slots)%n != 0 {
		s.slots = append(s.slots, last)
		added++
	}
	return added
}

// Reversed returns a view with the slot order flipped. The arena is shared.
func (s *Sequence) Reversed() *Sequence {
	n := s.Len()
	out := &Sequence{arena: s.arena, slots: make([]int, n)}
	for i := 0; i < n; i++ {
		out.slots[i] = s.slots[n-1-i]
	}
	return out
}

// Size reports the frame dimensions, taken from the first slot.
func (s *Sequence) Size() (width, height int) {
	if s.Len() == 0 {
		return 0, 0
	}
	f := s.At(0)
	return f.Width(), f.Height()
}
