package murmur2

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWriteStripsWhitespace(t *testing.T) {
	m := New().(*Murmur2CF)

	n, err := m.Write([]byte("Hello, World!\t\n\r "))
	assert.NoError(t, err)
	// Write reports the full input length even though whitespace is dropped
	assert.Equal(t, 17, n)
	assert.Equal(t, []byte("Hello,World!"), m.buf)

	_, err = m.Write([]byte(" More data"))
	assert.NoError(t, err)
	assert.Equal(t, []byte("Hello,World!Moredata"), m.buf)
}

func TestWhitespaceDoesNotAffectFingerprint(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"With spaces", "Hello World"},
		{"With tab", "Hello\tWorld"},
		{"With newline", "Hello\nWorld"},
		{"With carriage return", "Hello\rWorld"},
		{"Mixed whitespace", "Hello \t\n\rWorld"},
	}

	plain := New().(*Murmur2CF)
	_, _ = plain.Write([]byte("HelloWorld"))
	want := plain.Sum32()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := New().(*Murmur2CF)
			_, _ = m.Write([]byte(tt.input))
			assert.Equal(t, want, m.Sum32())
		})
	}
}

func TestSumMatchesSum32(t *testing.T) {
	m := New().(*Murmur2CF)
	_, _ = m.Write([]byte("Hello, World!"))

	sum := m.Sum(nil)
	assert.Len(t, sum, 4)
	assert.Equal(t, m.Sum32(), binary.BigEndian.Uint32(sum))

	// Sum must append to the given slice, not overwrite it
	prefix := []byte{1, 2, 3}
	withPrefix := m.Sum(prefix)
	assert.Equal(t, prefix, withPrefix[:3])
	assert.Equal(t, sum, withPrefix[3:])
}

func TestReset(t *testing.T) {
	m := New().(*Murmur2CF)
	_, _ = m.Write([]byte("Hello, World!"))

	empty := New().(*Murmur2CF)

	assert.NotEqual(t, empty.Sum32(), m.Sum32())
	m.Reset()
	assert.Equal(t, empty.Sum32(), m.Sum32())
}

func TestSizes(t *testing.T) {
	m := New()
	assert.Equal(t, 4, m.Size())
	assert.Equal(t, 4, m.BlockSize())
}
