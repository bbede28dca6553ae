package keyvalue

import (
	"errors"
	"fmt"
)

// Reply is one parsed reply line.
type Reply struct {
	Header HubHeader
	Body   *Result

	// Raw is the line as given.
	Raw string
}

// ParseHubReply parses a line with a hub header.
func ParseHubReply(line string) (Reply, error) {
	return defaultParser.ParseReply(line, HeaderHub, "", "")
}

// ParseReply parses a header in the given format followed by a keyword body.
// cmdr and actor are only used for HeaderMidRid, which carries neither.
func (p *Parser) ParseReply(line string, format HeaderFormat, cmdr, actor string) (Reply, error) {
	var (
		h    HubHeader
		body int
		err  error
	)
	switch format {
	case HeaderHub:
		h, body, err = ParseHubHeader(line)
	case HeaderMidRid:
		h, body, err = ParseMidRidAsHubHeader(line, cmdr, actor)
	default:
		return Reply{}, fmt.Errorf("keyvalue: unsupported header format %v", format)
	}
	if err != nil {
		return Reply{}, err
	}
	res, err := p.Parse(line[body:])
	if err != nil {
		var se *SyntaxError
		if errors.As(err, &se) {
			// Report positions against the whole line.
			se.Pos += body
			se.Input = line
		}
		return Reply{}, err
	}
	for i := range res.Diagnostics {
		res.Diagnostics[i].Pos += body
	}
	return Reply{Header: h, Body: res, Raw: line}, nil
}
