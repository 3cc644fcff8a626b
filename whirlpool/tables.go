package whirlpool

import "sync"

// Rounds number of times the round function ρ is applied per block
const Rounds = 10

// roundTables holds θ ◦ γ precomputed per column, and the key schedule constants c^r.
type roundTables struct {
	// circulant[c][x] is S[x] multiplied by the circulant MDS row cir(1, 1, 4, 1, 8, 5, 2, 9),
	// rotated right by 8*c bits so it lands in the lanes fed by column c.
	circulant [width][256]uint64

	// constants[r] is c^r for 1 <= r <= Rounds, only row 0 of c^r is non-zero.
	constants [Rounds + 1]uint64
}

// lookupTables builds the tables once per process. They are never mutated afterwards.
var lookupTables = sync.OnceValue(buildTables)

// mini-boxes from which the S-box is assembled, see section 6.1 of the WHIRLPOOL paper
var (
	miniE = [16]byte{0x1, 0xB, 0x9, 0xC, 0xD, 0x6, 0xF, 0x3, 0xE, 0x8, 0x7, 0x4, 0xA, 0x2, 0x5, 0x0}
	miniR = [16]byte{0x7, 0xC, 0xB, 0xD, 0xE, 0x4, 0x9, 0xF, 0x6, 0x3, 0x8, 0xA, 0x2, 0x5, 0x1, 0x0}
)

// first row of the circulant diffusion matrix C
var diffusion = [width]byte{0x01, 0x01, 0x04, 0x01, 0x08, 0x05, 0x02, 0x09}

// reduction polynomial for GF(2^8), x^8 + x^4 + x^3 + x^2 + 1
const polynomial = 0x11D

func buildTables() *roundTables {
	var inverseE [16]byte
	for i, v := range miniE {
		inverseE[v] = byte(i)
	}

	var sbox [256]byte
	for x := range sbox {
		a := miniE[x>>4]
		b := inverseE[x&0xF]
		r := miniR[a^b]
		sbox[x] = miniE[a^r]<<4 | inverseE[b^r]
	}

	t := new(roundTables)
	for x := range 256 {
		var row uint64
		for _, c := range diffusion {
			row = row<<8 | uint64(gfMul(sbox[x], c))
		}
		for column := range width {
			t.circulant[column][x] = row>>(8*column) | row<<(64-8*column)
		}
	}

	for r := 1; r <= Rounds; r++ {
		index := 8 * (r - 1)
		var c uint64
		for column := range width {
			c ^= t.circulant[column][index+column] & (0xFF << (56 - 8*column))
		}
		t.constants[r] = c
	}

	return t
}

func gfMul(a, b byte) byte {
	var p byte
	x := uint16(a)
	for ; b != 0; b >>= 1 {
		if b&1 != 0 {
			p ^= byte(x)
		}
		x <<= 1
		if x&0x100 != 0 {
			x ^= polynomial
		}
	}
	return p
}
