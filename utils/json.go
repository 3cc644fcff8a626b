//go:build !purego

package utils

import (
	"io"

	gojson "github.com/goccy/go-json" //nolint:depguard
)

type JSONEncoder = gojson.Encoder
type JSONDecoder = gojson.Decoder

var encodeOptions = []gojson.EncodeOptionFunc{gojson.DisableHTMLEscape(), gojson.DisableNormalizeUTF8()}

func MarshalJSON(val any) ([]byte, error) {
	return gojson.MarshalWithOption(val, encodeOptions...)
}

func UnmarshalJSON(data []byte, val any) error {
	return gojson.UnmarshalWithOption(data, val)
}

func NewJSONEncoder(writer io.Writer) *JSONEncoder {
	encoder := gojson.NewEncoder(writer)
	encoder.SetEscapeHTML(false)
	return encoder
}

func NewJSONDecoder(reader io.Reader) *JSONDecoder {
	return gojson.NewDecoder(reader)
}
