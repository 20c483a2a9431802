package filecache

import (
	"iter"

	"github.com/dragonbaba/rpgeditor/internal/pool"
)

// node is an intrusive recency-list element wrapping a cache key. A node is
// owned by the list while linked and by the node pool while idle; it is never
// visible outside this package.
type node struct {
	key  string
	prev *node
	next *node
}

func (n *node) Reset() {
	n.key = ""
	n.prev = nil
	n.next = nil
}

// recencyList orders cache keys from least (head) to most (tail) recently
// used. It lives inside the cache so no caller can desynchronize it from the
// key maps; every mutating path must leave head/tail consistent at the 0- and
// 1-element boundaries.
type recencyList struct {
	head  *node
	tail  *node
	size  int
	nodes *pool.Pool[*node]
}

func newRecencyList(nodes *pool.Pool[*node]) *recencyList {
	return &recencyList{head: nil, tail: nil, size: 0, nodes: nodes}
}

// pushTail links a fresh node for key at the tail and returns its handle.
func (l *recencyList) pushTail(key string) *node {
	n := l.nodes.Acquire()
	n.key = key
	n.prev = l.tail
	n.next = nil
	if l.tail != nil {
		l.tail.next = n
	} else {
		l.head = n
	}
	l.tail = n
	l.size++
	return n
}

// unlink splices the node out and releases it back to the node pool. The
// handle is dead afterwards; callers must drop it.
func (l *recencyList) unlink(n *node) {
	if n.prev != nil {
		n.prev.next = n.next
	} else {
		l.head = n.next
	}
	if n.next != nil {
		n.next.prev = n.prev
	} else {
		l.tail = n.prev
	}
	l.size--
	l.nodes.Release(n)
}

// moveToTail re-tails the node's key and returns the replacement handle.
func (l *recencyList) moveToTail(n *node) *node {
	if l.tail == n {
		return n
	}
	key := n.key
	l.unlink(n)
	return l.pushTail(key)
}

// popHead unlinks and returns the least recently used key.
func (l *recencyList) popHead() (string, bool) {
	if l.head == nil {
		return "", false
	}
	key := l.head.key
	l.unlink(l.head)
	return key, true
}

// keysNewestFirst walks tail to head. Read-only; the list must not be mutated
// during iteration.
func (l *recencyList) keysNewestFirst() iter.Seq[string] {
	return func(yield func(string) bool) {
		for n := l.tail; n != nil; n = n.prev {
			if !yield(n.key) {
				return
			}
		}
	}
}
