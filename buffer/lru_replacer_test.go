package buffer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLruReplacer(t *testing.T) {
	t.Run("test node addition", func(t *testing.T) {
		replacer := newLruReplacer()

		replacer.recordAccess(1)
		replacer.recordAccess(2)
		replacer.recordAccess(3)

		assert.Equal(t, []uint32{3, 2, 1}, lruToArr(replacer.head.next))
	})

	t.Run("accessing a node moves it to the front of the queue", func(t *testing.T) {
		replacer := newLruReplacer()

		replacer.recordAccess(1)
		replacer.recordAccess(2)
		replacer.recordAccess(3)
		assert.Equal(t, []uint32{3, 2, 1}, lruToArr(replacer.head.next))

		replacer.recordAccess(1)
		assert.Equal(t, []uint32{1, 3, 2}, lruToArr(replacer.head.next))
	})

	t.Run("test node removal", func(t *testing.T) {
		replacer := newLruReplacer()

		replacer.recordAccess(1)
		replacer.recordAccess(2)
		replacer.recordAccess(3)

		replacer.remove(2)
		assert.Equal(t, []uint32{3, 1}, lruToArr(replacer.head.next))

		// removing an untracked page is a no-op
		replacer.remove(99)
		assert.Equal(t, []uint32{3, 1}, lruToArr(replacer.head.next))
	})
}

func TestEviction(t *testing.T) {
	t.Run("evicts the least recently used page", func(t *testing.T) {
		replacer := newLruReplacer()

		replacer.recordAccess(1)
		replacer.recordAccess(2)
		replacer.recordAccess(3)
		replacer.recordAccess(1)

		victim, ok := replacer.evict()
		assert.True(t, ok)
		assert.Equal(t, uint32(2), victim)

		victim, ok = replacer.evict()
		assert.True(t, ok)
		assert.Equal(t, uint32(3), victim)

		victim, ok = replacer.evict()
		assert.True(t, ok)
		assert.Equal(t, uint32(1), victim)
	})

	t.Run("an empty replacer has nothing to evict", func(t *testing.T) {
		replacer := newLruReplacer()

		_, ok := replacer.evict()
		assert.False(t, ok)
	})
}

func lruToArr(node *lruNode) []uint32 {
	res := []uint32{}
	for node.next != nil {
		res = append(res, node.pageId)
		node = node.next
	}

	return res
}
