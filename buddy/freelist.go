package buddy

// removeFirst unlinks and returns the first real block on the circular
// list headed by head, or nil if the list is empty (head points to
// itself).
func removeFirst(head *Avail) *Avail {
	first := head.next
	if first == head {
		return nil
	}
	first.prev.next = first.next
	first.next.prev = first.prev
	first.next = nil
	first.prev = nil
	return first
}

// insertBlock splices block in immediately after head: head <-> block <-> head.next.
func insertBlock(head *Avail, block *Avail) {
	block.next = head.next
	block.prev = head
	head.next.prev = block
	head.next = block
}

// unlink removes block from whatever list it is currently linked into. The
// caller is responsible for knowing that list is avail[block.kval].
func unlink(block *Avail) {
	block.prev.next = block.next
	block.next.prev = block.prev
	block.next = nil
	block.prev = nil
}
