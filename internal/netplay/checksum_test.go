package netplay

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFrameChecksumDeterministic(t *testing.T) {
	snapshot := make([]byte, checksumWindow*3)
	for i := range snapshot {
		snapshot[i] = byte(i)
	}

	a := frameChecksum(snapshot, 10)
	b := frameChecksum(snapshot, 10)
	assert.Equal(t, a, b)
}

func TestFrameChecksumDiffersAcrossFrames(t *testing.T) {
	snapshot := make([]byte, checksumWindow*3)
	for i := range snapshot {
		snapshot[i] = byte(i)
	}

	a := frameChecksum(snapshot, 1)
	b := frameChecksum(snapshot, 2)
	assert.NotEqual(t, a, b)
}

func TestFrameChecksumEmptySnapshot(t *testing.T) {
	assert.Equal(t, uint32(0), frameChecksum(nil, 5))
}

func TestFrameChecksumWindowRotates(t *testing.T) {
	snapshot := make([]byte, checksumWindow*2)
	for i := 0; i < checksumWindow; i++ {
		snapshot[i] = 0xAA
	}
	for i := checksumWindow; i < len(snapshot); i++ {
		snapshot[i] = 0xBB
	}

	// Frame 0 hashes the first window, frame 1 the second - different
	// bytes under the same seed-independent window choice, so the
	// checksums must differ even though both frames use distinct
	// seeds too.
	a := frameChecksum(snapshot, 0)
	b := frameChecksum(snapshot, 1)
	assert.NotEqual(t, a, b)
}
