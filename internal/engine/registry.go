package engine

import (
	"encoding/binary"
	"sort"
)

/* Supported data types:
 *  - Float:
 *      - 32 Bit:
 *          - f32_abcd, f32_big, f32b           32-Bit float, big endian
 *          - f32_dcba, f32_little, f32l        32-Bit float, little endian
 *          - f32_cdab, f32_big_rev, f32br      32-Bit float, big endian, registers reversed
 *          - f32_badc, f32_little_rev, f32lr   32-Bit float, little endian, registers reversed
 *      - 64 Bit: f64_* analog (abcdefgh / hgfedcba / ghefcdab / badcfehg)
 *  - Int:
 *      - 8 Bit:  u8_lo, u8_hi, i8_lo, i8_hi    written to low/high byte of one register
 *      - 16 Bit: u16_ab|u16_big|u16b, u16_ba|u16_little|u16l, i16_* analog
 *      - 32 Bit: u32_abcd ... i32_badc with the same big/little/rev aliases
 *      - 64 Bit: u64_abcdefgh ... i64_badcfehg with the same aliases
 */
var codecs = buildRegistry()

func buildRegistry() map[string]*Codec {
	m := make(map[string]*Codec)
	add := func(c *Codec, aliases ...string) {
		m[c.ID] = c
		for _, a := range aliases {
			m[a] = c
		}
	}

	be := binary.ByteOrder(binary.BigEndian)
	le := binary.ByteOrder(binary.LittleEndian)

	// float
	add(floatCodec("f32_abcd", 32, be, false), "f32_big", "f32b")
	add(floatCodec("f32_dcba", 32, le, false), "f32_little", "f32l")
	add(floatCodec("f32_cdab", 32, be, true), "f32_big_rev", "f32br")
	add(floatCodec("f32_badc", 32, le, true), "f32_little_rev", "f32lr")

	// double
	add(floatCodec("f64_abcdefgh", 64, be, false), "f64_big", "f64b")
	add(floatCodec("f64_hgfedcba", 64, le, false), "f64_little", "f64l")
	add(floatCodec("f64_ghefcdab", 64, be, true), "f64_big_rev", "f64br")
	add(floatCodec("f64_badcfehg", 64, le, true), "f64_little_rev", "f64lr")

	// 8 bit integer
	add(byteCodec("u8_lo", false, false))
	add(byteCodec("u8_hi", false, true))
	add(byteCodec("i8_lo", true, false))
	add(byteCodec("i8_hi", true, true))

	// 16 bit integer
	add(intCodec("u16_ab", 16, false, be, false), "u16_big", "u16b")
	add(intCodec("u16_ba", 16, false, le, false), "u16_little", "u16l")
	add(intCodec("i16_ab", 16, true, be, false), "i16_big", "i16b")
	add(intCodec("i16_ba", 16, true, le, false), "i16_little", "i16l")

	// 32 bit integer
	add(intCodec("u32_abcd", 32, false, be, false), "u32_big", "u32b")
	add(intCodec("u32_dcba", 32, false, le, false), "u32_little", "u32l")
	add(intCodec("u32_cdab", 32, false, be, true), "u32_big_rev", "u32br")
	add(intCodec("u32_badc", 32, false, le, true), "u32_little_rev", "u32lr")
	add(intCodec("i32_abcd", 32, true, be, false), "i32_big", "i32b")
	add(intCodec("i32_dcba", 32, true, le, false), "i32_little", "i32l")
	add(intCodec("i32_cdab", 32, true, be, true), "i32_big_rev", "i32br")
	add(intCodec("i32_badc", 32, true, le, true), "i32_little_rev", "i32lr")

	// 64 bit integer
	add(intCodec("u64_abcdefgh", 64, false, be, false), "u64_big", "u64b")
	add(intCodec("u64_hgfedcba", 64, false, le, false), "u64_little", "u64l")
	add(intCodec("u64_ghefcdab", 64, false, be, true), "u64_big_rev", "u64br")
	add(intCodec("u64_badcfehg", 64, false, le, true), "u64_little_rev", "u64lr")
	add(intCodec("i64_abcdefgh", 64, true, be, false), "i64_big", "i64b")
	add(intCodec("i64_hgfedcba", 64, true, le, false), "i64_little", "i64l")
	add(intCodec("i64_ghefcdab", 64, true, be, true), "i64_big_rev", "i64br")
	add(intCodec("i64_badcfehg", 64, true, le, true), "i64_little_rev", "i64lr")

	return m
}

// LookupCodec resolves a data type identifier or alias.
func LookupCodec(id string) (*Codec, bool) {
	c, ok := codecs[id]
	return c, ok
}

// DataTypes lists all accepted data type identifiers, canonical ids and
// aliases alike, in sorted order. Used for usage output and the HTTP API.
func DataTypes() []string {
	ids := make([]string, 0, len(codecs))
	for id := range codecs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
