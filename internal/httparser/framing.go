package httparser

import (
	"strconv"
	"strings"

	"httpflow/internal/methods"
)

// framing is the working state the resolver accumulates while scanning
// the just-completed header block. It is folded into the Parser and Info
// once the scan finishes.
type framing struct {
	isChunked          bool
	contentLengthSeen  bool
	contentLengthValue int
	upgradeSeen        bool
}

// resolveFraming scans info.Headers case-insensitively per spec section
// 4.4, then applies the conflict rule, the upgrade decision, and the
// keep-alive decision. On success it sets p.isChunked and p.bodyRemaining
// and fills in info.Upgrade/ConnectionTokens/ShouldKeepAlive.
func (p *Parser) resolveFraming() error {
	var fr framing
	var tokens strings.Builder

	for i := 0; i < p.info.Headers.Len(); i++ {
		name, value := p.info.Headers.At(i)
		switch {
		case strings.EqualFold(name, "Transfer-Encoding"):
			if strings.EqualFold(strings.TrimSpace(value), "chunked") {
				fr.isChunked = true
			}

		case strings.EqualFold(name, "Content-Length"):
			n, err := strconv.Atoi(strings.TrimSpace(value))
			if err != nil || n < 0 {
				return ErrUnexpectedCL
			}
			if fr.contentLengthSeen && fr.contentLengthValue != n {
				return ErrUnexpectedCL
			}
			fr.contentLengthSeen = true
			fr.contentLengthValue = n

		case strings.EqualFold(name, "Connection"):
			if tokens.Len() > 0 {
				tokens.WriteByte(',')
			}
			tokens.WriteString(strings.ToLower(value))

		case strings.EqualFold(name, "Upgrade"):
			fr.upgradeSeen = true
		}
	}

	p.info.ConnectionTokens = tokens.String()

	switch {
	case fr.isChunked:
		// Conflict rule: chunked wins over any Content-Length also present.
		p.isChunked = true
		p.bodyRemaining = nil
	case fr.contentLengthSeen:
		p.isChunked = false
		n := fr.contentLengthValue
		p.bodyRemaining = &n
	}
	// Otherwise leave whatever the request/response line handler already
	// decided (body_remaining = 0 for RequestLine, or for the 1xx/204/304
	// implied-empty responses; nil/None for everything else, meaning
	// read-until-close).

	p.resolveUpgrade(fr)
	p.resolveKeepAlive()
	return nil
}

func (p *Parser) resolveUpgrade(fr framing) {
	if fr.upgradeSeen && p.info.Headers.ContainsToken("Connection", "upgrade") {
		p.info.Upgrade = p.mode == Request || p.info.StatusCode == 101
	} else {
		p.info.Upgrade = p.mode == Request && p.info.MethodIndex == methods.Connect
	}
	if p.info.Upgrade && p.isChunked {
		p.isChunked = false
	}
}

func (p *Parser) resolveKeepAlive() {
	var keepAlive bool
	if p.info.VersionMajor > 0 && p.info.VersionMinor > 0 {
		keepAlive = !p.info.Headers.ContainsToken("Connection", "close")
	} else {
		keepAlive = p.info.Headers.ContainsToken("Connection", "keep-alive")
	}

	determinate := p.bodyRemaining != nil || p.isChunked
	if !determinate {
		keepAlive = false
	}
	p.info.ShouldKeepAlive = keepAlive
}
