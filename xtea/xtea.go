// Package xtea implements the XTEA block cipher by David Wheeler and Roger Needham, as described
// in 'Tea extensions' (1997).
//
// Blocks are 64 bits, read and written as two big-endian 32-bit words, and keys are 128 bits.
// XTEA is a legacy cipher, it is provided for interoperability with existing protocols and
// formats. Every function is stateless and safe for concurrent use on disjoint buffers.
package xtea

import (
	"encoding/binary"
	"errors"
	"fmt"
)

const (
	// BlockSize The XTEA block size in bytes.
	BlockSize = 8

	// KeySize The XTEA key size in bytes.
	KeySize = 16

	// Feistel rounds are applied in pairs
	cycles = 64 / 2

	// 2^32 / golden ratio
	delta = 0x9E3779B9

	// value of sum after every cycle, where deciphering starts
	finalSum = (delta * cycles) & 0xFFFFFFFF
)

// ErrInvalidLength is returned when the input does not hold a whole number of blocks. Empty
// input holds zero blocks and is left untouched.
var ErrInvalidLength = errors.New("xtea: input is not a multiple of the block size")

var ErrInvalidKeySize = errors.New("xtea: invalid key size")

// Key 128-bit key as four words
type Key [4]uint32

// KeyFromBytes reads a key as four big-endian words
func KeyFromBytes(key []byte) (k Key, err error) {
	if len(key) != KeySize {
		return k, fmt.Errorf("%w: %d", ErrInvalidKeySize, len(key))
	}
	for i := range k {
		k[i] = binary.BigEndian.Uint32(key[i*4:])
	}
	return k, nil
}

// Bytes returns the big-endian encoding of k
func (k *Key) Bytes() []byte {
	buf := make([]byte, 0, KeySize)
	for _, w := range k {
		buf = binary.BigEndian.AppendUint32(buf, w)
	}
	return buf
}

// EncipherBlock enciphers the block (v0, v1)
func EncipherBlock(v0, v1 uint32, key *Key) (uint32, uint32) {
	var sum uint32
	for range cycles {
		v0 += ((v1<<4 ^ v1>>5) + v1) ^ (sum + key[sum&3])
		sum += delta
		v1 += ((v0<<4 ^ v0>>5) + v0) ^ (sum + key[(sum>>11)&3])
	}
	return v0, v1
}

// DecipherBlock deciphers the block (v0, v1)
func DecipherBlock(v0, v1 uint32, key *Key) (uint32, uint32) {
	sum := uint32(finalSum)
	for range cycles {
		v1 -= ((v0<<4 ^ v0>>5) + v0) ^ (sum + key[(sum>>11)&3])
		sum -= delta
		v0 -= ((v1<<4 ^ v1>>5) + v1) ^ (sum + key[sum&3])
	}
	return v0, v1
}

// Encipher enciphers buf in place
func Encipher(buf []byte, key *Key) error {
	if err := checkBytes(buf); err != nil {
		return err
	}
	encipherBytes(buf, key)
	return nil
}

// Decipher deciphers buf in place
func Decipher(buf []byte, key *Key) error {
	if err := checkBytes(buf); err != nil {
		return err
	}
	decipherBytes(buf, key)
	return nil
}

// EncipherWords enciphers words in place, each pair of words being one block
func EncipherWords(words []uint32, key *Key) error {
	if err := checkWords(words); err != nil {
		return err
	}
	encipherWords(words, key)
	return nil
}

// DecipherWords deciphers words in place, each pair of words being one block
func DecipherWords(words []uint32, key *Key) error {
	if err := checkWords(words); err != nil {
		return err
	}
	decipherWords(words, key)
	return nil
}

func checkBytes(buf []byte) error {
	if len(buf)%BlockSize != 0 {
		return fmt.Errorf("%w: %d bytes", ErrInvalidLength, len(buf))
	}
	return nil
}

func checkWords(words []uint32) error {
	if len(words)%2 != 0 {
		return fmt.Errorf("%w: %d words", ErrInvalidLength, len(words))
	}
	return nil
}

func encipherBytes(buf []byte, key *Key) {
	for ; len(buf) >= BlockSize; buf = buf[BlockSize:] {
		v0, v1 := EncipherBlock(binary.BigEndian.Uint32(buf), binary.BigEndian.Uint32(buf[4:]), key)
		binary.BigEndian.PutUint32(buf, v0)
		binary.BigEndian.PutUint32(buf[4:], v1)
	}
}

func decipherBytes(buf []byte, key *Key) {
	for ; len(buf) >= BlockSize; buf = buf[BlockSize:] {
		v0, v1 := DecipherBlock(binary.BigEndian.Uint32(buf), binary.BigEndian.Uint32(buf[4:]), key)
		binary.BigEndian.PutUint32(buf, v0)
		binary.BigEndian.PutUint32(buf[4:], v1)
	}
}

func encipherWords(words []uint32, key *Key) {
	for i := 0; i+1 < len(words); i += 2 {
		words[i], words[i+1] = EncipherBlock(words[i], words[i+1], key)
	}
}

func decipherWords(words []uint32, key *Key) {
	for i := 0; i+1 < len(words); i += 2 {
		words[i], words[i+1] = DecipherBlock(words[i], words[i+1], key)
	}
}
