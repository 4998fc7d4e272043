package totpx

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidEncoding reports a character outside the RFC 4648 base32
// alphabet during decode. Seeing this on a stored secret means the secret
// was corrupted at rest.
var ErrInvalidEncoding = errors.New("totpx: invalid base32 encoding")

const base32Alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ234567"

// EncodeBase32 encodes data with the RFC 4648 alphabet, no padding. A final
// partial group is left-shifted with zero bits per the RFC bit-packing
// rules, so authenticator apps accept the result as-is.
func EncodeBase32(data []byte) string {
	var out strings.Builder
	out.Grow((len(data)*8 + 4) / 5)

	var buffer uint32
	var bits uint
	for _, b := range data {
		buffer = buffer<<8 | uint32(b)
		bits += 8
		for bits >= 5 {
			out.WriteByte(base32Alphabet[(buffer>>(bits-5))&0x1f])
			bits -= 5
		}
	}
	if bits > 0 {
		out.WriteByte(base32Alphabet[(buffer<<(5-bits))&0x1f])
	}

	return out.String()
}

// DecodeBase32 decodes text produced by EncodeBase32 or by any standard
// RFC 4648 encoder. Padding and whitespace are stripped and lowercase is
// accepted, since secrets get copied around by hand. Trailing zero bits
// from a partial final group are discarded.
func DecodeBase32(encoded string) ([]byte, error) {
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case '=', ' ', '\t', '\r', '\n':
			return -1
		}
		return r
	}, strings.ToUpper(encoded))

	out := make([]byte, 0, len(cleaned)*5/8)

	var buffer uint32
	var bits uint
	for i := 0; i < len(cleaned); i++ {
		v := strings.IndexByte(base32Alphabet, cleaned[i])
		if v < 0 {
			return nil, fmt.Errorf("%w: character %q", ErrInvalidEncoding, cleaned[i])
		}
		buffer = buffer<<5 | uint32(v)
		bits += 5
		if bits >= 8 {
			out = append(out, byte(buffer>>(bits-8)))
			bits -= 8
		}
	}

	return out, nil
}
