package types

import (
	"bytes"
	"errors"

	fasthex "github.com/tmthrgd/go-hex"
)

// DigestSize size of a WHIRLPOOL digest in bytes
const DigestSize = 64

//nolint:recvcheck
type Digest [DigestSize]byte

var ZeroDigest Digest

var ErrWrongDigestSize = errors.New("wrong digest size")

func MustDigestFromString(s string) Digest {
	if d, err := DigestFromString(s); err != nil {
		panic(err)
	} else {
		return d
	}
}

func DigestFromString(s string) (Digest, error) {
	var d Digest
	if len(s) != DigestSize*2 {
		return d, ErrWrongDigestSize
	}
	if _, err := fasthex.Decode(d[:], []byte(s)); err != nil {
		return d, err
	}
	return d, nil
}

func DigestFromBytes(buf []byte) (d Digest) {
	if len(buf) != DigestSize {
		return
	}
	copy(d[:], buf)
	return
}

// Compare orders digests as big-endian numbers
func (d Digest) Compare(other Digest) int {
	return bytes.Compare(d[:], other[:])
}

func (d Digest) Slice() []byte {
	return d[:]
}

func (d Digest) String() string {
	return fasthex.EncodeToString(d[:])
}

// UpperString uppercase hex form, as printed by the reference test vectors
func (d Digest) UpperString() string {
	return fasthex.EncodeUpperToString(d[:])
}

func (d Digest) MarshalJSON() ([]byte, error) {
	var buf [DigestSize*2 + 2]byte
	buf[0] = '"'
	buf[DigestSize*2+1] = '"'
	fasthex.Encode(buf[1:], d[:])
	return buf[:], nil
}

func (d *Digest) UnmarshalJSON(b []byte) error {
	if len(b) == 0 || len(b) == 2 {
		return nil
	}

	if len(b) != DigestSize*2+2 {
		return ErrWrongDigestSize
	}

	if _, err := fasthex.Decode(d[:], b[1:len(b)-1]); err != nil {
		return err
	}

	return nil
}
