package buffer

func newLruReplacer() *lruReplacer {
	head := &lruNode{}
	tail := &lruNode{}

	head.next = tail
	tail.prev = head

	return &lruReplacer{
		nodeStore: map[uint32]*lruNode{},
		head:      head,
		tail:      tail,
	}
}

func (lru *lruReplacer) recordAccess(pageId uint32) {
	if node, ok := lru.nodeStore[pageId]; ok {
		// move to front of queue
		lru.removeNode(node)
		lru.addNode(node)
		return
	}

	node := &lruNode{pageId: pageId}
	lru.nodeStore[pageId] = node
	lru.addNode(node)
}

// evict picks the least recently used page and forgets about it. Returns
// false when the replacer is tracking nothing.
func (lru *lruReplacer) evict() (uint32, bool) {
	victim := lru.tail.prev
	if victim == lru.head {
		return 0, false
	}

	lru.removeNode(victim)
	delete(lru.nodeStore, victim.pageId)

	return victim.pageId, true
}

func (lru *lruReplacer) remove(pageId uint32) {
	node, ok := lru.nodeStore[pageId]
	if !ok {
		return
	}

	lru.removeNode(node)
	delete(lru.nodeStore, pageId)
}

func (lru *lruReplacer) removeNode(node *lruNode) {
	back := node.prev
	front := node.next

	back.next = front
	front.prev = back
}

func (lru *lruReplacer) addNode(newNode *lruNode) {
	// add node to the front of the doubly linkedlist
	tmp := lru.head.next

	lru.head.next = newNode
	newNode.prev = lru.head
	newNode.next = tmp
	tmp.prev = newNode
}

type lruReplacer struct {
	nodeStore map[uint32]*lruNode
	head      *lruNode
	tail      *lruNode
}

type lruNode struct {
	prev   *lruNode
	next   *lruNode
	pageId uint32
}
