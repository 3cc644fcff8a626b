package whirlpool

// cipherArena owns every matrix used by the block cipher W. Each one is passed by pointer into
// the round function, so the output (scratch) never aliases the input (key or state).
type cipherArena struct {
	// block η = μ(buffer)
	block matrix
	// hash the chaining value
	hash matrix
	// key round key K^r
	key matrix
	// scratch receives the output of each round before it is copied back
	scratch matrix
	// state of the cipher during a block
	state matrix
}

func (a *cipherArena) clear() {
	a.block.clear()
	a.hash.clear()
	a.key.clear()
	a.scratch.clear()
	a.state.clear()
}

// encipher applies W to a.block keyed with a.hash, then the Miyaguchi-Preneel compression
// hash ^= W(block) ^ block.
func (a *cipherArena) encipher(t *roundTables) {
	a.key.copyFrom(&a.hash)
	a.state.setRows(func(row int) uint64 {
		return a.block[row] ^ a.key[row] // σ[K^0]
	})

	for r := 1; r <= Rounds; r++ {
		// K^r = ρ[c^r](K^(r-1)), σ[c^r] is applied afterwards on row 0 only
		a.scratch.setRows(func(row int) uint64 {
			return round(t, row, &a.key, 0)
		})
		a.key.copyFrom(&a.scratch)
		a.key[0] ^= t.constants[r]

		// ρ[K^r]
		a.scratch.setRows(func(row int) uint64 {
			return round(t, row, &a.state, a.key[row])
		})
		a.state.copyFrom(&a.scratch)
	}

	a.hash.setRows(func(row int) uint64 {
		return a.hash[row] ^ a.state[row] ^ a.block[row]
	})
}

// round computes one row of ρ[k] = σ[k] ◦ θ ◦ π ◦ γ over m.
func round(t *roundTables, row int, m *matrix, k uint64) uint64 {
	for column := range width {
		// π: column c is read from row (row - c) mod 8
		k ^= t.circulant[column][m.at((row-column)&(width-1), column)]
	}
	return k
}
