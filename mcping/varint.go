// Package mcping implements the Minecraft server list ping: SRV resolution,
// the status handshake and the JSON status response.
package mcping

import (
	"errors"
	"io"
)

var errVarIntTooLong = errors.New("varint exceeds 5 bytes")

// appendVarInt encodes value in the protocol's varint format: 7 payload bits
// per byte, low bits first, high bit set on continuation. Negative values use
// the int32 bit pattern, so -1 takes the full 5 bytes.
func appendVarInt(data []byte, value int32) []byte {
	v := uint32(value)
	for {
		b := byte(v & 0x7F)
		v >>= 7
		if v != 0 {
			b |= 0x80
		}
		data = append(data, b)
		if v == 0 {
			return data
		}
	}
}

func readVarInt(r io.ByteReader) (int32, error) {
	var result uint32
	for i := 0; ; i++ {
		if i == 5 {
			return 0, errVarIntTooLong
		}
		b, err := r.ReadByte()
		if err != nil {
			return 0, err
		}
		result |= uint32(b&0x7F) << (7 * i)
		if b&0x80 == 0 {
			break
		}
	}
	return int32(result), nil
}
