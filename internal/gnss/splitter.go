package gnss

// lineMax is the fixed capacity of the accumulation buffer. Bytes past the
// capacity are dropped until the next terminator.
const lineMax = 128

// LineBuffer splits a raw byte stream into sentences. Both \r and \n
// terminate a line; empty lines are swallowed so CRLF pairs dispatch once.
type LineBuffer struct {
	buf [lineMax]byte
	n   int
}

// Feed consumes one byte. When the byte completes a non-empty line, Feed
// returns the line with ok set; the terminator itself is not included.
func (b *LineBuffer) Feed(c byte) (line string, ok bool) {
	if c == '\r' || c == '\n' {
		if b.n == 0 {
			return "", false
		}
		line = string(b.buf[:b.n])
		b.n = 0
		return line, true
	}
	if b.n < lineMax {
		b.buf[b.n] = c
		b.n++
	}
	return "", false
}
