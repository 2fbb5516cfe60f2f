package engine

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodeWords(t *testing.T, dataType, token string, base int) []uint16 {
	t.Helper()
	codec, ok := LookupCodec(dataType)
	require.True(t, ok, "data type %q", dataType)
	words, _, err := codec.Encode(token, base)
	require.NoError(t, err, "data type %q token %q", dataType, token)
	require.Len(t, words, codec.Width)
	return words
}

func TestCodecWords(t *testing.T) {
	assert := assert.New(t)

	table := []struct {
		dataType string
		token    string
		want     []uint16
	}{
		// 8 bit placements
		{"u8_lo", "0xab", []uint16{0x00ab}},
		{"u8_hi", "0xab", []uint16{0xab00}},
		{"i8_lo", "-1", []uint16{0x00ff}},
		{"i8_hi", "min", []uint16{0x8000}},

		// 16 bit byte order
		{"u16_ab", "0x1234", []uint16{0x1234}},
		{"u16_ba", "0x1234", []uint16{0x3412}},
		{"i16_ab", "-2", []uint16{0xfffe}},
		{"i16_ba", "-2", []uint16{0xfeff}},

		// 32 bit: the four byte-order x register-order combinations
		{"u32_abcd", "0x12345678", []uint16{0x1234, 0x5678}},
		{"u32_dcba", "0x12345678", []uint16{0x7856, 0x3412}},
		{"u32_cdab", "0x12345678", []uint16{0x5678, 0x1234}},
		{"u32_badc", "0x12345678", []uint16{0x3412, 0x7856}},

		// 64 bit: reversed register order is a full reversal
		{"u64_abcdefgh", "0x0123456789abcdef", []uint16{0x0123, 0x4567, 0x89ab, 0xcdef}},
		{"u64_ghefcdab", "0x0123456789abcdef", []uint16{0xcdef, 0x89ab, 0x4567, 0x0123}},
		{"u64_hgfedcba", "0x0123456789abcdef", []uint16{0xefcd, 0xab89, 0x6745, 0x2301}},
		{"u64_badcfehg", "0x0123456789abcdef", []uint16{0x2301, 0x6745, 0xab89, 0xefcd}},

		// floats (1.0 = 0x3f800000 / 0x3ff0000000000000)
		{"f32_abcd", "1", []uint16{0x3f80, 0x0000}},
		{"f32_dcba", "1", []uint16{0x0000, 0x803f}},
		{"f32_cdab", "1", []uint16{0x0000, 0x3f80}},
		{"f32_badc", "1", []uint16{0x803f, 0x0000}},
		{"f64_abcdefgh", "1", []uint16{0x3ff0, 0x0000, 0x0000, 0x0000}},
		{"f64_hgfedcba", "1", []uint16{0x0000, 0x0000, 0x0000, 0xf03f}},
		{"f64_ghefcdab", "1", []uint16{0x0000, 0x0000, 0x0000, 0x3ff0}},
		{"f64_badcfehg", "1", []uint16{0xf03f, 0x0000, 0x0000, 0x0000}},
	}

	for _, tc := range table {
		assert.Equal(tc.want, encodeWords(t, tc.dataType, tc.token, 0), "%s %s", tc.dataType, tc.token)
	}
}

func TestCodecAliases(t *testing.T) {
	assert := assert.New(t)

	aliases := map[string][]string{
		"f32_abcd":     {"f32_big", "f32b"},
		"f32_dcba":     {"f32_little", "f32l"},
		"f32_cdab":     {"f32_big_rev", "f32br"},
		"f32_badc":     {"f32_little_rev", "f32lr"},
		"u16_ab":       {"u16_big", "u16b"},
		"i32_badc":     {"i32_little_rev", "i32lr"},
		"u64_ghefcdab": {"u64_big_rev", "u64br"},
		"i64_hgfedcba": {"i64_little", "i64l"},
	}

	for canonical, names := range aliases {
		want, ok := LookupCodec(canonical)
		assert.True(ok, canonical)
		for _, name := range names {
			got, ok := LookupCodec(name)
			assert.True(ok, name)
			assert.Same(want, got, "%s should select %s", name, canonical)
		}
	}

	_, ok := LookupCodec("f128_big")
	assert.False(ok)
}

// Reassembling the emitted words in address order as big endian bytes must
// reproduce the original value for the big endian encodings.
func TestCodecRoundTrip(t *testing.T) {
	assert := assert.New(t)

	words := encodeWords(t, "u32_abcd", "3735928559", 0) // 0xdeadbeef
	buf := make([]byte, 4)
	binary.BigEndian.PutUint16(buf[0:], words[0])
	binary.BigEndian.PutUint16(buf[2:], words[1])
	assert.Equal(uint32(0xdeadbeef), binary.BigEndian.Uint32(buf))

	words = encodeWords(t, "u64_abcdefgh", "0xdeadbeefcafebabe", 0)
	buf = make([]byte, 8)
	for i, w := range words {
		binary.BigEndian.PutUint16(buf[2*i:], w)
	}
	assert.Equal(uint64(0xdeadbeefcafebabe), binary.BigEndian.Uint64(buf))
}

func TestCodecRange(t *testing.T) {
	assert := assert.New(t)

	_, _, err := mustCodec(t, "u8_lo").Encode("256", 0)
	assert.Error(err)
	_, _, err = mustCodec(t, "i16_ab").Encode("32768", 0)
	assert.Error(err)
	_, _, err = mustCodec(t, "u32_abcd").Encode("4294967296", 0)
	assert.Error(err)
	_, _, err = mustCodec(t, "f32_abcd").Encode("1e missing", 0)
	assert.Error(err)
}

func mustCodec(t *testing.T, id string) *Codec {
	t.Helper()
	c, ok := LookupCodec(id)
	require.True(t, ok, id)
	return c
}
