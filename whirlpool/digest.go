// Package whirlpool implements the WHIRLPOOL hash function (version 3.0), as standardized in
// ISO/IEC 10118-3:2004, with support for messages that are not a whole number of bytes.
//
// WHIRLPOOL was designed by Paulo S. L. M. Barreto and Vincent Rijmen. Symbols in comments
// (μ, γ, π, θ, σ, ρ, K^r, c^r) follow 'The WHIRLPOOL hashing function', revised 2003-03-12.
//
// This implementation limits input to 2^64 - 1 bits. Lookup tables are used throughout and no
// attempt is made at constant-time execution, do not reuse the internal block cipher for
// encryption.
package whirlpool

import (
	"encoding/binary"
	"fmt"
	"hash"

	"lukechampine.com/uint128"
)

const (
	// Size The size of a WHIRLPOOL digest in bytes.
	Size = 64

	// BlockSize The block size of the hash algorithm in bytes.
	BlockSize = width * width

	blockBits = BlockSize * 8

	// bytes of the final block available to message and padding, the rest holds the 256-bit length
	finalBlockDataSize = 256 / 8

	// bytes of the length field that can be non-zero with a 64-bit counter
	lengthSize = 8
)

var _ hash.Hash = (*Digest)(nil)

// Digest is an incremental WHIRLPOOL computation. The zero value is ready to use.
//
// A Digest is not safe for concurrent use. Once Finish is called the Digest is wiped and can be
// reused directly.
type Digest struct {
	// bitCount plaintext bits absorbed so far
	bitCount uint64

	// buffer holds data that has yet to be enciphered. buffer[offset] contains the pending
	// bitOffset & 7 bits, left-aligned, with every lower bit clear.
	buffer [BlockSize]byte

	// offset into buffer in bytes, always [0, BlockSize)
	offset int

	// bitOffset into buffer in bits, always [0, blockBits)
	bitOffset int

	arena cipherArena
}

// New returns a new hash.Hash computing the WHIRLPOOL checksum.
func New() hash.Hash {
	return NewDigest()
}

// NewDigest returns a new Digest ready to absorb a message.
func NewDigest() *Digest {
	return new(Digest)
}

// Size The size of a WHIRLPOOL digest in bytes, implementing hash.Hash.
func (d *Digest) Size() int { return Size }

// BlockSize The block size of the hash algorithm in bytes, implementing hash.Hash.
func (d *Digest) BlockSize() int { return BlockSize }

// Bits returns the amount of bits absorbed since the last reset.
func (d *Digest) Bits() uint64 {
	return d.bitCount
}

// Add absorbs p.
//
// Once a call to AddBits leaves a partial byte pending, every following Add is routed through
// the bit-level path until the Digest is reset.
func (d *Digest) Add(p []byte) error {
	if err := d.reserve(uint128.From64(uint64(len(p))).Mul64(8)); err != nil {
		return err
	}

	if d.bitOffset&7 != 0 {
		d.addBits(p, uint64(len(p))*8)
	} else {
		d.addBytes(p)
	}
	return nil
}

// AddBits absorbs the last bits bits of p[:ceil(bits/8)]. When bits is not a multiple of 8, the
// leading (8 - bits%8) bits of p[0] are ignored.
func (d *Digest) AddBits(p []byte, bits uint64) error {
	needed := bits / 8
	if bits&7 != 0 {
		needed++
	}
	if uint64(len(p)) < needed {
		return fmt.Errorf("%w: %d bits requested from %d bytes", ErrInvalidArgument, bits, len(p))
	}

	if err := d.reserve(uint128.From64(bits)); err != nil {
		return err
	}

	d.addBits(p, bits)
	return nil
}

// Write absorbs p, implementing io.Writer.
func (d *Digest) Write(p []byte) (n int, err error) {
	if err = d.Add(p); err != nil {
		return 0, err
	}
	return len(p), nil
}

// Finish writes the digest to dst[:Size] and wipes all internal state, leaving the Digest as if
// newly created. The wipe happens even if finalization does not complete.
func (d *Digest) Finish(dst []byte) error {
	if len(dst) < Size {
		return fmt.Errorf("%w: digest needs %d bytes, got %d", ErrInvalidArgument, Size, len(dst))
	}

	defer d.Reset()
	d.finalize(dst)
	return nil
}

// Sum appends the current digest to b and returns the resulting slice.
// It does not change the underlying hash state.
func (d *Digest) Sum(b []byte) []byte {
	d0 := *d
	defer d0.Reset()

	var out [Size]byte
	d0.finalize(out[:])
	return append(b, out[:]...)
}

// Reset wipes the buffer, every cipher matrix and the counters.
func (d *Digest) Reset() {
	d.bitCount = 0
	d.offset = 0
	d.bitOffset = 0
	clear(d.buffer[:])
	d.arena.clear()
}

// reserve checks that bits more bits can be absorbed. It does not modify d.
func (d *Digest) reserve(bits uint128.Uint128) error {
	if total := uint128.From64(d.bitCount).Add(bits); total.Hi != 0 {
		return fmt.Errorf("%w: %d bits absorbed, %s more requested", ErrInputTooLarge, d.bitCount, bits)
	}
	return nil
}

func (d *Digest) addBytes(p []byte) {
	d.bitCount += uint64(len(p)) * 8

	if d.offset > 0 {
		n := copy(d.buffer[d.offset:], p)
		d.offset += n
		p = p[n:]

		if d.offset == BlockSize {
			d.encipherBuffer()
			d.offset = 0
		}
	}

	for len(p) >= BlockSize {
		d.encipherDirect(p[:BlockSize])
		p = p[BlockSize:]
	}

	if len(p) > 0 {
		d.offset = copy(d.buffer[:], p)
	}

	d.bitOffset = d.offset * 8
	d.buffer[d.offset] = 0
}

// addBits is the shift-and-merge algorithm of the WHIRLPOOL reference code, used whenever the
// source and the buffer are not both byte aligned.
func (d *Digest) addBits(p []byte, bits uint64) {
	d.bitCount += bits

	// bits of p[0] that are not read
	ignored := uint(8-bits&7) & 7
	// bits of buffer[offset] already written
	usedOut := uint(d.bitOffset & 7)
	freeOut := 8 - usedOut

	var b byte
	pos := 0

	for bits > 8 {
		b = p[pos]<<ignored | p[pos+1]>>(8-ignored)

		d.buffer[d.offset] |= b >> usedOut
		d.offset++
		d.bitOffset += int(freeOut)

		if d.bitOffset == blockBits {
			d.encipherBuffer()
			d.offset = 0
			d.bitOffset = 0
		}

		d.buffer[d.offset] = b << freeOut
		d.bitOffset += int(usedOut)

		bits -= 8
		pos++
	}

	// 0 <= bits <= 8, what is left is in p[pos]
	if bits > 0 {
		b = p[pos] << ignored
		d.buffer[d.offset] |= b >> usedOut
	} else {
		b = 0
	}

	if uint64(usedOut)+bits < 8 {
		// fits in buffer[offset]
		d.bitOffset += int(bits)
		return
	}

	d.offset++
	d.bitOffset += int(freeOut)
	bits -= uint64(freeOut)

	if d.bitOffset == blockBits {
		d.encipherBuffer()
		d.offset = 0
		d.bitOffset = 0
	}

	d.buffer[d.offset] = b << freeOut
	d.bitOffset += int(bits)
}

// finalize pads the message, appends its length and writes the chaining value to dst.
func (d *Digest) finalize(dst []byte) {
	// 1-bit right after the message, everything after it is 0 up to the length
	d.buffer[d.offset] |= 0x80 >> (d.bitOffset & 7)
	d.offset++

	if d.offset > finalBlockDataSize {
		// no room left for the length, need an additional block
		clear(d.buffer[d.offset:])
		d.encipherBuffer()
		d.offset = 0
	}

	// Merkle-Damgård strengthening
	clear(d.buffer[d.offset : BlockSize-lengthSize])
	binary.BigEndian.PutUint64(d.buffer[BlockSize-lengthSize:], d.bitCount)
	d.encipherBuffer()

	d.arena.hash.store(dst)
}

func (d *Digest) encipherBuffer() {
	d.arena.block.load(d.buffer[:])
	d.arena.encipher(lookupTables())
}

// encipherDirect processes a full block straight from the caller's slice
func (d *Digest) encipherDirect(block []byte) {
	d.arena.block.load(block)
	d.arena.encipher(lookupTables())
}
