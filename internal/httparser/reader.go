package httparser

import "bytes"

// consumeLine returns the next CRLF- or LF-terminated line from the
// current chunk, with the terminator stripped, concatenating any bytes
// carried over from a previous execute call.
//
// On success it advances offset past the terminator, clears lineCarry,
// and returns (line, true). When the window runs out before a line
// feed is seen, it appends the remaining window to lineCarry, advances
// offset to length, and returns (nil, false) to signal "need more input".
func (p *Parser) consumeLine() ([]byte, bool) {
	window := p.chunk[p.offset:p.length]
	idx := bytes.IndexByte(window, '\n')
	if idx == -1 {
		p.lineCarry = append(p.lineCarry, window...)
		p.offset = p.length
		return nil, false
	}

	line := window[:idx]
	p.offset += idx + 1

	if len(p.lineCarry) > 0 {
		line = append(p.lineCarry, line...)
		p.lineCarry = nil
	}

	// The CR may have arrived at the end of a previous chunk, so it is
	// stripped only after the carried bytes are joined on.
	if len(line) > 0 && line[len(line)-1] == '\r' {
		line = line[:len(line)-1]
	}
	return line, true
}
