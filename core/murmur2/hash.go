// Package murmur2 implements the CurseForge flavour of murmur2 fingerprinting:
// whitespace bytes are stripped from the input before hashing with seed 1.
package murmur2

import (
	"encoding/binary"
	"hash"

	murmur "github.com/aviddiviner/go-murmur"
)

const cfSeed = 1

// Murmur2CF buffers (whitespace-stripped) input so the digest can be computed
// over the whole stream at once, as murmur2 is not incremental.
type Murmur2CF struct {
	buf []byte
}

func New() hash.Hash {
	return &Murmur2CF{}
}

func (m *Murmur2CF) Write(p []byte) (n int, err error) {
	for _, b := range p {
		switch b {
		case 9, 10, 13, 32:
			// CurseForge strips whitespace before fingerprinting
		default:
			m.buf = append(m.buf, b)
		}
	}
	return len(p), nil
}

func (m *Murmur2CF) Sum(b []byte) []byte {
	out := append(b, make([]byte, 4)...)
	binary.BigEndian.PutUint32(out[len(b):], m.Sum32())
	return out
}

func (m *Murmur2CF) Sum32() uint32 {
	return murmur.MurmurHash2(m.buf, cfSeed)
}

func (m *Murmur2CF) Reset() {
	m.buf = nil
}

func (m *Murmur2CF) Size() int {
	return 4
}

func (m *Murmur2CF) BlockSize() int {
	return 4
}
