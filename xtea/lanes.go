package xtea

import "golang.org/x/sys/cpu"

const maxLanes = 8

// Lanes is the amount of blocks EncipherLanes and DecipherLanes process together. It follows the
// width of the widest 32-bit vector unit available.
var Lanes = laneCount()

func laneCount() int {
	if cpu.X86.HasAVX2 || cpu.ARM64.HasASIMD {
		return maxLanes
	}
	return maxLanes / 2
}

// batch holds Lanes blocks split into their first (y) and second (z) words
type batch struct {
	y, z [maxLanes]uint32
}

func (b *batch) gather(words []uint32, lanes int) {
	for i := range lanes {
		b.y[i] = words[i*2]
		b.z[i] = words[i*2+1]
	}
}

func (b *batch) scatter(words []uint32, lanes int) {
	for i := range lanes {
		words[i*2] = b.y[i]
		words[i*2+1] = b.z[i]
	}
}

func (b *batch) encipher(key *Key, lanes int) {
	y, z := b.y[:lanes], b.z[:lanes]
	var sum uint32
	for range cycles {
		k := sum + key[sum&3]
		for i := range y {
			y[i] += ((z[i]<<4 ^ z[i]>>5) + z[i]) ^ k
		}
		sum += delta
		k = sum + key[(sum>>11)&3]
		for i := range z {
			z[i] += ((y[i]<<4 ^ y[i]>>5) + y[i]) ^ k
		}
	}
}

func (b *batch) decipher(key *Key, lanes int) {
	y, z := b.y[:lanes], b.z[:lanes]
	sum := uint32(finalSum)
	for range cycles {
		k := sum + key[(sum>>11)&3]
		for i := range z {
			z[i] -= ((y[i]<<4 ^ y[i]>>5) + y[i]) ^ k
		}
		sum -= delta
		k = sum + key[sum&3]
		for i := range y {
			y[i] -= ((z[i]<<4 ^ z[i]>>5) + z[i]) ^ k
		}
	}
}

// EncipherLanes enciphers words in place like EncipherWords. The leading len(words) % (2 * Lanes)
// words are processed one block at a time, the rest Lanes blocks at a time.
func EncipherLanes(words []uint32, key *Key) error {
	if err := checkWords(words); err != nil {
		return err
	}

	lanes := Lanes
	sequential := len(words) % (2 * lanes)
	encipherWords(words[:sequential], key)

	var b batch
	for words = words[sequential:]; len(words) > 0; words = words[2*lanes:] {
		b.gather(words, lanes)
		b.encipher(key, lanes)
		b.scatter(words, lanes)
	}
	return nil
}

// DecipherLanes deciphers words in place like DecipherWords, see EncipherLanes.
func DecipherLanes(words []uint32, key *Key) error {
	if err := checkWords(words); err != nil {
		return err
	}

	lanes := Lanes
	sequential := len(words) % (2 * lanes)
	decipherWords(words[:sequential], key)

	var b batch
	for words = words[sequential:]; len(words) > 0; words = words[2*lanes:] {
		b.gather(words, lanes)
		b.decipher(key, lanes)
		b.scatter(words, lanes)
	}
	return nil
}
