package utils

import (
	"io"
	"math"
	"slices"
)

// ReadFullProgressive reads into dst up to size bytes, doubling the buffer each time so that
// size can be much larger than the actual input.
//
// On a short read dst holds everything that was read, and err is io.ErrUnexpectedEOF, or io.EOF
// if nothing was read at all.
func ReadFullProgressive[T ~[]byte](r io.Reader, dst *T, size int) (n int, err error) {
	if size < 0 {
		return 0, io.EOF
	}

	buf := *dst

	var offset int

	// reserve some, start with 64 KiB
	buf = slices.Grow(buf[:0], min(math.MaxUint16+1, size))
	buf = buf[:min(math.MaxUint16+1, size)]

	for {
		// only read last part past read offset
		n, err = io.ReadFull(r, buf[offset:])
		offset += n
		if err != nil {
			if offset > 0 && err == io.EOF {
				err = io.ErrUnexpectedEOF
			}
			*dst = buf[:offset]
			return offset, err
		}

		if offset >= size {
			break
		}

		// double size or just remainder
		buf = slices.Grow(buf, min(offset*2, size)-offset)
		buf = buf[:min(offset*2, size)]
	}
	*dst = buf
	return offset, nil
}
