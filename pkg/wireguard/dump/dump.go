// Package dump parses the machine readable output of `wg show all dump`.
package dump

// Interface represents one WireGuard interface as reported by the dump
// command. The private key is never retained, only its presence.
type Interface struct {
	Name          string
	PublicKey     string
	HasPrivateKey bool
	ListenPort    int
	FwMark        int
	Peers         []Peer
}

// Peer represents one configured peer of an interface.
type Peer struct {
	PublicKey           string
	HasPresharedKey     bool
	Endpoint            string
	AllowedIPs          []string
	LatestHandshake     int64
	ReceivedBytes       uint64
	SentBytes           uint64
	PersistentKeepalive int
}
