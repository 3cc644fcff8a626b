package xtea

import (
	"git.gammaspectra.live/P2Pool/scytale/utils"
)

// parallelChunkSize bytes handed out per unit of work, a multiple of BlockSize
const parallelChunkSize = 16 * 1024

// EncipherParallel enciphers buf in place like Encipher, splitting the work across routines
// goroutines. routines <= 0 derives the amount from the CPU count.
func EncipherParallel(buf []byte, key *Key, routines int) error {
	if err := checkBytes(buf); err != nil {
		return err
	}
	return splitChunks(buf, routines, func(chunk []byte) {
		encipherBytes(chunk, key)
	})
}

// DecipherParallel deciphers buf in place like Decipher, see EncipherParallel.
func DecipherParallel(buf []byte, key *Key, routines int) error {
	if err := checkBytes(buf); err != nil {
		return err
	}
	return splitChunks(buf, routines, func(chunk []byte) {
		decipherBytes(chunk, key)
	})
}

func splitChunks(buf []byte, routines int, do func(chunk []byte)) error {
	chunks := (len(buf) + parallelChunkSize - 1) / parallelChunkSize

	return utils.SplitWork(routines, uint64(chunks), func(workIndex uint64, routineIndex int) error {
		start := int(workIndex) * parallelChunkSize
		do(buf[start:min(start+parallelChunkSize, len(buf))])
		return nil
	}, nil)
}
