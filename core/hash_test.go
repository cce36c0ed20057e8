package core

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetHashImpl(t *testing.T) {
	tests := []struct {
		name     string
		hashType string
		wantErr  bool
	}{
		{"SHA1", "sha1", false},
		{"SHA1 uppercase", "SHA1", false},
		{"SHA256", "sha256", false},
		{"SHA512", "sha512", false},
		{"MD5", "md5", false},
		{"Murmur2", "murmur2", false},
		{"Invalid hash", "invalid-hash", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := GetHashImpl(tt.hashType)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, got)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, got)
			}
		})
	}
}

func TestHexStringer(t *testing.T) {
	tests := []struct {
		name     string
		hashType string
		data     string
		want     string
	}{
		{"SHA1", "sha1", "abc", "a9993e364706816aba3e25717850c26c9cd0d89d"},
		{"SHA1 empty", "sha1", "", "da39a3ee5e6b4b0d3255bfef95601890afd80709"},
		{"MD5", "md5", "abc", "900150983cd24fb0d6963f7d28e17f72"},
		{"SHA256", "sha256", "abc", "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hasher, err := GetHashImpl(tt.hashType)
			assert.NoError(t, err)

			_, err = hasher.Write([]byte(tt.data))
			assert.NoError(t, err)

			assert.Equal(t, tt.want, hasher.String())
		})
	}
}

func TestNumber32As64Stringer(t *testing.T) {
	hasher, err := GetHashImpl("murmur2")
	assert.NoError(t, err)

	_, err = hasher.Write([]byte("test data"))
	assert.NoError(t, err)

	// The CurseForge fingerprint renders as a decimal number
	_, err = strconv.ParseUint(hasher.String(), 10, 64)
	assert.NoError(t, err)
}
