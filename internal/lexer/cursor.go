package lexer

import (
	"fmt"

	"fortio.org/safecast"

	"refu/internal/source"
)

// cursor tracks a byte offset into one file's content.
type cursor struct {
	file *source.File
	off  uint32
	end  uint32
}

func newCursor(f *source.File) cursor {
	end, err := safecast.Conv[uint32](len(f.Content))
	if err != nil {
		panic(fmt.Errorf("lexer: file content length overflow: %w", err))
	}
	return cursor{file: f, end: end}
}

func (c *cursor) eof() bool { return c.off >= c.end }

func (c *cursor) peek() byte {
	if c.eof() {
		return 0
	}
	return c.file.Content[c.off]
}

func (c *cursor) peekAt(n uint32) byte {
	if c.off+n >= c.end {
		return 0
	}
	return c.file.Content[c.off+n]
}

func (c *cursor) bump() byte {
	if c.eof() {
		return 0
	}
	b := c.file.Content[c.off]
	c.off++
	return b
}

type mark uint32

func (c *cursor) mark() mark { return mark(c.off) }

func (c *cursor) spanFrom(m mark) source.Span {
	return source.Span{File: c.file.ID, Start: uint32(m), End: c.off}
}
