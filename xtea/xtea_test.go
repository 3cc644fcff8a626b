package xtea

import (
	"bytes"
	"math/rand/v2"
	"slices"
	"testing"

	"git.gammaspectra.live/P2Pool/scytale/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	cryptoxtea "golang.org/x/crypto/xtea"
)

var testKey = Key{1, 2, 3, 4}

// 8 blocks enciphered with testKey
var (
	testPlainWords = mustWords(
		"227D20BC 509A07B3 3468E912 D6BA27C7 868B46D4 12A4874F 842CF970 D7ABDCB0" +
			"84059FEF 6F5B1E8D BC3F779C 6F18C567 1685F874 452D5011 B42E7D4A 2F7641E6")
	testCipherWords = mustWords(
		"784E1CD1 5BF1588D E2224E86 F697C5B8 E59C8A1A EC39BA55 CF14E384 C98425D4" +
			"6A86C432 B2BFC7A7 D7262439 178B86F7 7371E5AA 4EEFFA15 EADB3C6B C266CC31")
)

func mustWords(s string) []uint32 {
	words, err := utils.ParseHexWords(s)
	if err != nil {
		panic(err)
	}
	return words
}

func randomBytes(rng *rand.Rand, n int) []byte {
	buf := make([]byte, n)
	for i := range buf {
		buf[i] = byte(rng.Uint32())
	}
	return buf
}

func TestWords(t *testing.T) {
	words := slices.Clone(testPlainWords)
	require.NoError(t, EncipherWords(words, &testKey))
	assert.Equal(t, testCipherWords, words, utils.UpperHexWords(words, true))

	require.NoError(t, DecipherWords(words, &testKey))
	assert.Equal(t, testPlainWords, words)
}

func TestBytes(t *testing.T) {
	buf := make([]byte, 0, len(testPlainWords)*4)
	for _, w := range testPlainWords {
		buf = append(buf, byte(w>>24), byte(w>>16), byte(w>>8), byte(w))
	}
	plain := slices.Clone(buf)

	require.NoError(t, Encipher(buf, &testKey))
	assert.Equal(t, utils.UpperHexWords(testCipherWords, false), utils.UpperHex(buf, false))

	require.NoError(t, Decipher(buf, &testKey))
	assert.Equal(t, plain, buf)
}

func TestReference(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 4))

	for range 100 {
		keyBytes := randomBytes(rng, KeySize)
		key, err := KeyFromBytes(keyBytes)
		require.NoError(t, err)
		assert.Equal(t, keyBytes, key.Bytes())

		reference, err := cryptoxtea.NewCipher(keyBytes)
		require.NoError(t, err)

		plain := randomBytes(rng, BlockSize*(rng.IntN(16)+1))
		buf := slices.Clone(plain)
		require.NoError(t, Encipher(buf, &key))

		for i := 0; i < len(plain); i += BlockSize {
			expected := make([]byte, BlockSize)
			reference.Encrypt(expected, plain[i:i+BlockSize])
			require.Equal(t, expected, buf[i:i+BlockSize], "block %d", i/BlockSize)

			reference.Decrypt(expected, expected)
			require.Equal(t, plain[i:i+BlockSize], expected)
		}

		require.NoError(t, Decipher(buf, &key))
		require.Equal(t, plain, buf)
	}
}

func TestLanes(t *testing.T) {
	require.Contains(t, []int{4, 8}, Lanes)

	rng := rand.New(rand.NewPCG(5, 6))
	key := Key{rng.Uint32(), rng.Uint32(), rng.Uint32(), rng.Uint32()}

	for _, lanes := range []int{Lanes, maxLanes / 2, maxLanes} {
		for n := 2; n <= 8*maxLanes+2; n += 2 {
			func() {
				defer func(previous int) { Lanes = previous }(Lanes)
				Lanes = lanes

				plain := make([]uint32, n)
				for i := range plain {
					plain[i] = rng.Uint32()
				}

				expected := slices.Clone(plain)
				require.NoError(t, EncipherWords(expected, &key))

				words := slices.Clone(plain)
				require.NoError(t, EncipherLanes(words, &key))
				require.Equal(t, expected, words, "%d lanes, %d words", lanes, n)

				require.NoError(t, DecipherLanes(words, &key))
				require.Equal(t, plain, words, "%d lanes, %d words", lanes, n)
			}()
		}
	}

	words := slices.Clone(testPlainWords)
	require.NoError(t, EncipherLanes(words, &testKey))
	assert.Equal(t, testCipherWords, words)
}

func TestParallel(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 8))
	key := Key{rng.Uint32(), rng.Uint32(), rng.Uint32(), rng.Uint32()}

	for _, size := range []int{BlockSize, parallelChunkSize, parallelChunkSize + BlockSize, 5*parallelChunkSize - 3*BlockSize} {
		plain := randomBytes(rng, size)

		expected := slices.Clone(plain)
		require.NoError(t, Encipher(expected, &key))

		for _, routines := range []int{0, 1, 3, 16} {
			buf := slices.Clone(plain)
			require.NoError(t, EncipherParallel(buf, &key, routines))
			require.True(t, bytes.Equal(expected, buf), "size %d, %d routines", size, routines)

			require.NoError(t, DecipherParallel(buf, &key, routines))
			require.True(t, bytes.Equal(plain, buf), "size %d, %d routines", size, routines)
		}
	}
}

func TestEmpty(t *testing.T) {
	for _, buf := range [][]byte{nil, {}} {
		assert.NoError(t, Encipher(buf, &testKey))
		assert.NoError(t, Decipher(buf, &testKey))
		assert.NoError(t, EncipherParallel(buf, &testKey, 2))
		assert.NoError(t, DecipherParallel(buf, &testKey, 0))
		assert.Empty(t, buf)
	}

	for _, words := range [][]uint32{nil, {}} {
		assert.NoError(t, EncipherWords(words, &testKey))
		assert.NoError(t, DecipherWords(words, &testKey))
		assert.NoError(t, EncipherLanes(words, &testKey))
		assert.NoError(t, DecipherLanes(words, &testKey))
		assert.Empty(t, words)
	}
}

func TestErrors(t *testing.T) {
	for _, buf := range [][]byte{make([]byte, 1), make([]byte, 7), make([]byte, 9)} {
		assert.ErrorIs(t, Encipher(buf, &testKey), ErrInvalidLength)
		assert.ErrorIs(t, Decipher(buf, &testKey), ErrInvalidLength)
		assert.ErrorIs(t, EncipherParallel(buf, &testKey, 2), ErrInvalidLength)
		assert.ErrorIs(t, DecipherParallel(buf, &testKey, 2), ErrInvalidLength)
	}

	for _, words := range [][]uint32{{1}, {1, 2, 3}} {
		assert.ErrorIs(t, EncipherWords(words, &testKey), ErrInvalidLength)
		assert.ErrorIs(t, DecipherWords(words, &testKey), ErrInvalidLength)
		assert.ErrorIs(t, EncipherLanes(words, &testKey), ErrInvalidLength)
		assert.ErrorIs(t, DecipherLanes(words, &testKey), ErrInvalidLength)
	}

	_, err := KeyFromBytes(make([]byte, KeySize-1))
	assert.ErrorIs(t, err, ErrInvalidKeySize)
}

func BenchmarkEncipher(b *testing.B) {
	buf := make([]byte, 64*1024)

	b.Run("Scalar", func(b *testing.B) {
		b.SetBytes(int64(len(buf)))
		b.ReportAllocs()
		for b.Loop() {
			_ = Encipher(buf, &testKey)
		}
	})

	b.Run("Lanes", func(b *testing.B) {
		words := make([]uint32, len(buf)/4)
		b.SetBytes(int64(len(buf)))
		b.ReportAllocs()
		for b.Loop() {
			_ = EncipherLanes(words, &testKey)
		}
	})

	b.Run("Parallel", func(b *testing.B) {
		b.SetBytes(int64(len(buf)))
		b.ReportAllocs()
		for b.Loop() {
			_ = EncipherParallel(buf, &testKey, 0)
		}
	})
}
