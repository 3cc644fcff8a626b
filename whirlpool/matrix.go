package whirlpool

import "encoding/binary"

// width of the NxN state matrix, N = 8
const width = 8

// matrix is the 8x8 byte state the block cipher operates on, stored as one uint64 per row.
// Row i, column j lives in bits [56-8j, 64-8j) of m[i].
type matrix [width]uint64

func (m *matrix) clear() {
	*m = matrix{}
}

func (m *matrix) at(row, column int) byte {
	return byte(m[row] >> (56 - column*8))
}

// setRows sets each row to the value returned by f, called once per row in order.
func (m *matrix) setRows(f func(row int) uint64) {
	for row := range width {
		m[row] = f(row)
	}
}

// load applies the mapping μ, reading 8 big-endian rows from buf[:BlockSize]
func (m *matrix) load(buf []byte) {
	_ = buf[BlockSize-1]
	for row := range width {
		m[row] = binary.BigEndian.Uint64(buf[row*8:])
	}
}

// store applies μ⁻¹, writing 8 big-endian rows into buf[:BlockSize]
func (m *matrix) store(buf []byte) {
	_ = buf[BlockSize-1]
	for row := range width {
		binary.BigEndian.PutUint64(buf[row*8:], m[row])
	}
}

func (m *matrix) copyFrom(other *matrix) {
	*m = *other
}
