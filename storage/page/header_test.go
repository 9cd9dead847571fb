package page

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHeaderCodec(t *testing.T) {
	t.Run("encode writes the documented little endian layout", func(t *testing.T) {
		h := Header{
			PageId:               0x0A0B0C0D,
			FreeSpaceTotal:       0x1122,
			OffsetBeginFreeSpace: 0x3344,
			OffsetEndFreeSpace:   0x5566,
		}

		buf := make([]byte, HEADER_SIZE)
		encodeHeader(buf, h)

		assert.Equal(t, []byte{0x0D, 0x0C, 0x0B, 0x0A}, buf[0:4])
		assert.Equal(t, []byte{0x22, 0x11}, buf[4:6])
		assert.Equal(t, []byte{0x44, 0x33}, buf[6:8])
		assert.Equal(t, []byte{0x66, 0x55}, buf[8:10])
	})

	t.Run("encode leaves the reserved bytes alone", func(t *testing.T) {
		buf := make([]byte, HEADER_SIZE)
		for i := 10; i < HEADER_SIZE; i++ {
			buf[i] = 0xEE
		}

		encodeHeader(buf, newHeader(1))

		for i := 10; i < HEADER_SIZE; i++ {
			assert.Equal(t, byte(0xEE), buf[i])
		}
	})

	t.Run("decode inverts encode", func(t *testing.T) {
		h := Header{
			PageId:               99,
			FreeSpaceTotal:       1234,
			OffsetBeginFreeSpace: 48,
			OffsetEndFreeSpace:   2862,
		}

		buf := make([]byte, HEADER_SIZE)
		encodeHeader(buf, h)

		assert.Equal(t, h, decodeHeader(buf))
	})
}
