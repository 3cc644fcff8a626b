package whirlpool

import (
	"unsafe"

	"git.gammaspectra.live/P2Pool/scytale/types"
)

// Sum returns the WHIRLPOOL digest of data.
func Sum(data []byte) (digest types.Digest) {
	var d Digest
	// a slice cannot hold 2^61 bytes, Add never fails here
	_ = d.Add(data)
	_ = d.Finish(digest[:])
	return digest
}

// SumString returns the WHIRLPOOL digest of the UTF-8 bytes of s.
func SumString(s string) types.Digest {
	// #nosec G103 -- data is only read
	return Sum(unsafe.Slice(unsafe.StringData(s), len(s)))
}

// SumBits returns the WHIRLPOOL digest of the last bits bits of data[:ceil(bits/8)], see Digest.AddBits.
func SumBits(data []byte, bits uint64) (digest types.Digest, err error) {
	var d Digest
	if err = d.AddBits(data, bits); err != nil {
		return digest, err
	}
	_ = d.Finish(digest[:])
	return digest, nil
}
