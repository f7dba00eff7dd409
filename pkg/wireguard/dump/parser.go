package dump

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

const (
	// The dump command prints this placeholder for absent values.
	none = "(none)"
	off  = "off"

	interfaceFieldCount = 5
	peerFieldCount      = 9
)

// ParseError describes a dump line which violates the expected grammar.
type ParseError struct {
	LineNumber int
	Line       string
	Reason     string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %s: %q", e.LineNumber, e.Reason, e.Line)
}

// record is the tagged result of parsing a single line.
// Exactly one of iface and peer is set.
type record struct {
	interfaceName string
	iface         *Interface
	peer          *Peer
}

// Parse turns the raw dump output into the interface tree.
// Lines are classified by their field count, not by their order, so peers may
// precede their interface line and interfaces may have no peers at all.
func Parse(input string) ([]Interface, error) {
	var records []record

	for i, line := range strings.Split(input, "\n") {
		if line == "" {
			continue
		}

		lineNumber := i + 1
		fields := strings.Split(line, "\t")

		switch len(fields) {
		case interfaceFieldCount:
			iface, err := parseInterfaceLine(fields)
			if err != nil {
				return nil, &ParseError{LineNumber: lineNumber, Line: line, Reason: err.Error()}
			}
			records = append(records, record{interfaceName: fields[0], iface: iface})
		case peerFieldCount:
			peer, err := parsePeerLine(fields)
			if err != nil {
				return nil, &ParseError{LineNumber: lineNumber, Line: line, Reason: err.Error()}
			}
			records = append(records, record{interfaceName: fields[0], peer: peer})
		default:
			reason := fmt.Sprintf("expected %d or %d tab separated fields, got %d", interfaceFieldCount, peerFieldCount, len(fields))
			return nil, &ParseError{LineNumber: lineNumber, Line: line, Reason: reason}
		}
	}

	return reduce(records), nil
}

// reduce attaches every record to its interface by name.
// Interfaces keep their first-appearance order, peers their line order.
// A peer whose interface never got an interface line still produces an
// Interface entry carrying only the name.
func reduce(records []record) []Interface {
	var interfaces []Interface
	index := map[string]int{}

	byName := func(name string) *Interface {
		if i, ok := index[name]; ok {
			return &interfaces[i]
		}
		interfaces = append(interfaces, Interface{Name: name})
		index[name] = len(interfaces) - 1
		return &interfaces[len(interfaces)-1]
	}

	for _, r := range records {
		target := byName(r.interfaceName)
		if r.iface != nil {
			peers := target.Peers
			*target = *r.iface
			target.Peers = peers
			continue
		}
		target.Peers = append(target.Peers, *r.peer)
	}

	return interfaces
}

func parseInterfaceLine(fields []string) (*Interface, error) {
	iface := &Interface{
		Name:          fields[0],
		HasPrivateKey: fields[1] != none,
		PublicKey:     fields[2],
	}

	port, err := parseOptionalInt(fields[3], 10)
	if err != nil {
		return nil, errors.Wrap(err, "invalid listen port")
	}
	iface.ListenPort = port

	// fwmark is printed as hex (0x...) when set
	mark, err := parseOptionalInt(fields[4], 0)
	if err != nil {
		return nil, errors.Wrap(err, "invalid fwmark")
	}
	iface.FwMark = mark

	return iface, nil
}

func parsePeerLine(fields []string) (*Peer, error) {
	peer := &Peer{
		PublicKey:       fields[1],
		HasPresharedKey: fields[2] != none,
	}

	if fields[3] != none {
		peer.Endpoint = fields[3]
	}

	// Allowed IP elements are kept verbatim. Whether they are well formed
	// CIDR ranges is the peer configuration's business, not ours.
	if fields[4] != none && fields[4] != "" {
		peer.AllowedIPs = strings.Split(fields[4], ",")
	}

	handshake, err := strconv.ParseInt(fields[5], 10, 64)
	if err != nil {
		return nil, errors.Wrap(err, "invalid latest handshake")
	}
	peer.LatestHandshake = handshake

	rx, err := strconv.ParseUint(fields[6], 10, 64)
	if err != nil {
		return nil, errors.Wrap(err, "invalid received bytes")
	}
	peer.ReceivedBytes = rx

	tx, err := strconv.ParseUint(fields[7], 10, 64)
	if err != nil {
		return nil, errors.Wrap(err, "invalid sent bytes")
	}
	peer.SentBytes = tx

	keepalive, err := parseOptionalInt(fields[8], 10)
	if err != nil {
		return nil, errors.Wrap(err, "invalid persistent keepalive")
	}
	peer.PersistentKeepalive = keepalive

	return peer, nil
}

func parseOptionalInt(s string, base int) (int, error) {
	if s == off || s == none || s == "" {
		return 0, nil
	}

	v, err := strconv.ParseInt(s, base, 32)
	return int(v), err
}
