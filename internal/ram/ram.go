// Package ram provides a basic RAM implementation.
package ram

import "github.com/thelolagemann/gomeboy/internal/types"

// RAM represents a block of RAM.
type RAM interface {
	Read(address uint16) uint8
	Write(address uint16, value uint8)
	types.Stater
}

type ram struct {
	size uint32
	data map[uint16]uint8
}

// NewRAM returns a new RAM.
func NewRAM(size uint32) RAM {
	return &ram{
		size: size,
		data: make(map[uint16]uint8, size),
	}
}

// Read returns the value at the given address.
func (r *ram) Read(address uint16) uint8 {
	if v, ok := r.data[address]; ok {
		return v
	}
	return 0
}

// Write writes the value to the given address.
func (r *ram) Write(address uint16, value uint8) {
	r.data[address] = value
}

// Save writes out every address in [0, size) in order, since the
// backing map has no stable iteration order of its own.
func (r *ram) Save(s *types.State) {
	for addr := uint32(0); addr < r.size; addr++ {
		s.Write8(r.data[uint16(addr)])
	}
}

func (r *ram) Load(s *types.State) {
	for addr := uint32(0); addr < r.size; addr++ {
		if v := s.Read8(); v != 0 {
			r.data[uint16(addr)] = v
		} else {
			delete(r.data, uint16(addr))
		}
	}
}
