package exporter

import (
	"github.com/mrincompetent/wireguard-exporter/pkg/wireguard/dump"
	"github.com/mrincompetent/wireguard-exporter/pkg/wireguard/peernames"
)

// Model is the state of one scrape: the parsed interface tree plus the
// friendly name mapping loaded for that scrape. It is built fresh per scrape
// and discarded once the response is written.
type Model struct {
	interfaces []dump.Interface
	names      peernames.Mapping
}

func NewModel(interfaces []dump.Interface, names peernames.Mapping) *Model {
	return &Model{
		interfaces: interfaces,
		names:      names,
	}
}

// Interfaces returns the interfaces in parse order.
func (m *Model) Interfaces() []dump.Interface {
	return m.interfaces
}

// FriendlyName returns the friendly name for a peer, or an empty string when
// no name is known.
func (m *Model) FriendlyName(publicKey string) string {
	return m.names.Lookup(publicKey)
}
