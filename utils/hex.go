package utils

import (
	"encoding/binary"
	"errors"
	"strings"
	"unicode"

	fasthex "github.com/tmthrgd/go-hex"
)

var ErrHexLength = errors.New("hex: wrong number of digits")

const hexGroupSize = 4

// UpperHex formats buf as uppercase hex with every 4 bytes separated by '_', starting from the
// left, e.g. 0x01020304_05
func UpperHex(buf []byte, prefix bool) string {
	var sb strings.Builder
	sb.Grow(2 + len(buf)*2 + len(buf)/hexGroupSize)
	if prefix {
		sb.WriteString("0x")
	}

	var group [hexGroupSize * 2]byte
	for i := 0; i < len(buf); i += hexGroupSize {
		if i > 0 {
			sb.WriteByte('_')
		}
		chunk := buf[i:min(i+hexGroupSize, len(buf))]
		fasthex.EncodeUpper(group[:], chunk)
		sb.Write(group[:len(chunk)*2])
	}
	return sb.String()
}

// UpperHexWords formats each word as 8 uppercase hex digits, separated by '_'
func UpperHexWords(words []uint32, prefix bool) string {
	buf := make([]byte, 0, len(words)*4)
	for _, w := range words {
		buf = binary.BigEndian.AppendUint32(buf, w)
	}
	return UpperHex(buf, prefix)
}

// ParseHex parses hex digits in any case, ignoring whitespace, '_' and a leading 0x.
// Each byte needs exactly two digits.
func ParseHex(s string) ([]byte, error) {
	digits := strings.TrimPrefix(strings.Map(func(r rune) rune {
		if r == '_' || unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s), "0x")

	if len(digits)%2 != 0 {
		return nil, ErrHexLength
	}

	buf := make([]byte, len(digits)/2)
	if _, err := fasthex.Decode(buf, []byte(digits)); err != nil {
		return nil, err
	}
	return buf, nil
}

// ParseHexWords parses big-endian 32-bit words, each needing exactly eight digits
func ParseHexWords(s string) ([]uint32, error) {
	buf, err := ParseHex(s)
	if err != nil {
		return nil, err
	}
	if len(buf)%4 != 0 {
		return nil, ErrHexLength
	}

	words := make([]uint32, len(buf)/4)
	for i := range words {
		words[i] = binary.BigEndian.Uint32(buf[i*4:])
	}
	return words, nil
}
