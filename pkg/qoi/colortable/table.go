// Package colortable provides the 64-slot running index of previously
// seen pixels shared by the QOI encoder and decoder.
package colortable

import "image/color"

// Size is the number of slots in the running index.
const Size = 64

// IndexFor returns the slot a pixel hashes to. Channels are widened
// before multiplying so the sum cannot wrap before the modulo.
func IndexFor(c color.NRGBA) int {
	return ((int(c.R) * 3) + (int(c.G) * 5) + (int(c.B) * 7) + (int(c.A) * 11)) % Size
}

// Table is the running index. Slots start out empty and are only ever
// overwritten in place; an empty slot never matches any pixel.
type Table struct {
	slots  [Size]color.NRGBA
	filled [Size]bool
}

// Contains reports whether the slot a pixel hashes to holds exactly
// that pixel. Hash collisions make a full equality check mandatory.
func (t *Table) Contains(c color.NRGBA) bool {
	i := IndexFor(c)
	return t.filled[i] && t.slots[i] == c
}

// Add writes a pixel into its slot, overwriting any previous occupant.
func (t *Table) Add(c color.NRGBA) {
	i := IndexFor(c)
	t.slots[i] = c
	t.filled[i] = true
}

// At returns the pixel stored in the given slot, and whether the slot
// has been written at all.
func (t *Table) At(index int) (color.NRGBA, bool) {
	return t.slots[index], t.filled[index]
}
