package keyvalue

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// HubHeader is the prefix of a hub reply: "cmdr cmdID actor type".
type HubHeader struct {
	Cmdr  string
	CmdID int
	Actor string
	Type  string
}

// MidRidHeader is the prefix of a reply read directly from an actor: "mid rid type".
type MidRidHeader struct {
	MID  int
	RID  int
	Type string
}

// AsHub re-expresses a mid/rid header as a hub header, with mid as the cmdID.
func (h MidRidHeader) AsHub(cmdr, actor string) HubHeader {
	return HubHeader{Cmdr: cmdr, CmdID: h.MID, Actor: actor, Type: h.Type}
}

var (
	hubHeaderRE = regexp.MustCompile(
		`^\s*([_.A-Za-z][-_.A-Za-z0-9]*)\s+([-+]?[0-9]+)\s+([_A-Za-z][-_.A-Za-z0-9]*)\s+(\S)(?:\s+|$)`)
	midRidHeaderRE = regexp.MustCompile(
		`^\s*([-+]?[0-9]+)\s+([-+]?[0-9]+)\s+(\S)(?:\s+|$)`)
)

// ParseHubHeader reads a hub header from the start of line. body is the index
// where the keyword body starts, or len(line) if nothing follows the header.
func ParseHubHeader(line string) (h HubHeader, body int, err error) {
	m := hubHeaderRE.FindStringSubmatchIndex(line)
	if m == nil {
		return HubHeader{}, 0, syntaxErrorf(line, 0, "not a hub header")
	}
	cmdID, err := atoiAt(line, m[4], m[5], "cmdID")
	if err != nil {
		return HubHeader{}, 0, err
	}
	return HubHeader{
		Cmdr:  line[m[2]:m[3]],
		CmdID: cmdID,
		Actor: line[m[6]:m[7]],
		Type:  line[m[8]:m[9]],
	}, m[1], nil
}

// ParseMidRidHeader reads a mid/rid header from the start of line.
func ParseMidRidHeader(line string) (h MidRidHeader, body int, err error) {
	m := midRidHeaderRE.FindStringSubmatchIndex(line)
	if m == nil {
		return MidRidHeader{}, 0, syntaxErrorf(line, 0, "not a mid/rid header")
	}
	mid, err := atoiAt(line, m[2], m[3], "mid")
	if err != nil {
		return MidRidHeader{}, 0, err
	}
	rid, err := atoiAt(line, m[4], m[5], "rid")
	if err != nil {
		return MidRidHeader{}, 0, err
	}
	return MidRidHeader{MID: mid, RID: rid, Type: line[m[6]:m[7]]}, m[1], nil
}

// ParseMidRidAsHubHeader reads a mid/rid header and returns it as a hub header
// with the given cmdr and actor.
func ParseMidRidAsHubHeader(line, cmdr, actor string) (HubHeader, int, error) {
	h, body, err := ParseMidRidHeader(line)
	if err != nil {
		return HubHeader{}, 0, err
	}
	return h.AsHub(cmdr, actor), body, nil
}

func atoiAt(line string, from, to int, field string) (int, error) {
	n, err := strconv.Atoi(line[from:to])
	if err != nil {
		return 0, syntaxErrorf(line, from, "bad %s %q", field, line[from:to])
	}
	return n, nil
}

// HeaderFormat selects which header grammar precedes a reply body.
type HeaderFormat int

const (
	HeaderHub HeaderFormat = iota
	HeaderMidRid
)

func (f HeaderFormat) String() string {
	switch f {
	case HeaderHub:
		return "hub"
	case HeaderMidRid:
		return "midrid"
	default:
		return fmt.Sprintf("HeaderFormat(%d)", int(f))
	}
}

// ParseHeaderFormat maps a config value ("hub", "midrid") to a HeaderFormat.
func ParseHeaderFormat(s string) (HeaderFormat, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "hub":
		return HeaderHub, nil
	case "midrid", "mid/rid", "mid_rid":
		return HeaderMidRid, nil
	default:
		return 0, fmt.Errorf("unknown header format %q", s)
	}
}
