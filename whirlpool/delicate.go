package whirlpool

import "fmt"

// DelicateDigest exposes the non-wiping operations of a Digest. It shares state with the Digest
// it was obtained from.
//
// After FinishLazy the state still holds message-derived data, the caller is responsible for
// calling ResetLazy (or Digest.Reset) before the next message.
type DelicateDigest Digest

// Delicate returns a view of d that allows finishing and resetting without wiping.
func (d *Digest) Delicate() *DelicateDigest {
	return (*DelicateDigest)(d)
}

// Digest returns the safe view of the same state.
func (dd *DelicateDigest) Digest() *Digest {
	return (*Digest)(dd)
}

// FinishLazy writes the digest to dst[:Size]. Buffers, matrices and counters are left as they are.
func (dd *DelicateDigest) FinishLazy(dst []byte) error {
	if len(dst) < Size {
		return fmt.Errorf("%w: digest needs %d bytes, got %d", ErrInvalidArgument, Size, len(dst))
	}

	dd.Digest().finalize(dst)
	return nil
}

// ResetLazy clears the chaining value, the counters and the first buffer byte, which is enough
// for the next message to produce a correct digest. Stale data is left in the rest of the buffer
// and in the cipher scratch matrices.
func (dd *DelicateDigest) ResetLazy() {
	dd.arena.hash.clear()
	dd.bitCount = 0
	dd.offset = 0
	dd.bitOffset = 0
	dd.buffer[0] = 0
}
