package wire

import (
	"github.com/marmos91/wgps/internal/compactwidth"
	"github.com/marmos91/wgps/internal/growbytes"
)

// cursor walks a GrowingBytes incrementally: each read awaits exactly the
// bytes it needs (spec.md §4.5 step 1-2: "awaits the minimum number of
// bytes necessary"), then the whole consumed prefix is pruned once in
// finish(), per spec.md §4.1's requirement to observe a WaitAbsolute slice
// before pruning.
type cursor struct {
	gb  *growbytes.GrowingBytes
	off int
}

func newCursor(gb *growbytes.GrowingBytes) *cursor {
	return &cursor{gb: gb}
}

// peek awaits and returns the next n bytes without advancing the cursor.
func (c *cursor) peek(n int) ([]byte, error) {
	buf, err := c.gb.WaitAbsolute(c.off + n)
	if err != nil {
		return nil, err
	}
	return buf[c.off : c.off+n], nil
}

// readByte awaits and consumes one byte.
func (c *cursor) readByte() (byte, error) {
	b, err := c.peek(1)
	if err != nil {
		return 0, err
	}
	c.off++
	return b[0], nil
}

// readN awaits and consumes n bytes, copying them out since the
// underlying buffer is invalidated by the next Prune.
func (c *cursor) readN(n int) ([]byte, error) {
	b, err := c.peek(n)
	if err != nil {
		return nil, err
	}
	out := make([]byte, n)
	copy(out, b)
	c.off += n
	return out, nil
}

// readUint reads a width-tag byte followed by the compact-width integer it
// names (spec.md §4.2).
func (c *cursor) readUint() (uint64, error) {
	tag, err := c.readByte()
	if err != nil {
		return 0, err
	}
	w := compactwidth.FromEndOfByte(tag)
	raw, err := c.readN(int(w))
	if err != nil {
		return 0, err
	}
	return compactwidth.Decode(raw, w)
}

// readBytes reads a length-prefixed byte blob.
func (c *cursor) readBytes() ([]byte, error) {
	n, err := c.readUint()
	if err != nil {
		return nil, err
	}
	return c.readN(int(n))
}

// readPath reads a component-count-prefixed, length-prefixed path.
func (c *cursor) readPath() ([][]byte, error) {
	count, err := c.readUint()
	if err != nil {
		return nil, err
	}
	path := make([][]byte, 0, count)
	for i := uint64(0); i < count; i++ {
		component, err := c.readBytes()
		if err != nil {
			return nil, err
		}
		path = append(path, component)
	}
	return path, nil
}

// finish prunes every byte this cursor has consumed from the underlying
// GrowingBytes, readying it for the next message.
func (c *cursor) finish() {
	c.gb.Prune(c.off)
	c.off = 0
}

