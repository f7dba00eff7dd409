package exporter

import (
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	peerLabels      = []string{"interface", "public_key", "friendly_name", "allowed_ips"}
	interfaceLabels = []string{"interface"}

	peerReceivedBytesDesc = prometheus.NewDesc(
		"wireguard_peer_received_bytes_total",
		"Bytes received from the peer.",
		peerLabels, nil,
	)
	peerSentBytesDesc = prometheus.NewDesc(
		"wireguard_peer_sent_bytes_total",
		"Bytes sent to the peer.",
		peerLabels, nil,
	)
	peerHandshakeAgeDesc = prometheus.NewDesc(
		"wireguard_peer_since_last_handshake_seconds",
		"Seconds since the last handshake with the peer. Absent when the peer never completed a handshake.",
		peerLabels, nil,
	)
	peerAllowedIPCountDesc = prometheus.NewDesc(
		"wireguard_peer_allowed_ips_count",
		"Number of allowed IP ranges configured for the peer.",
		peerLabels, nil,
	)
	interfaceListenPortDesc = prometheus.NewDesc(
		"wireguard_interface_listen_port",
		"UDP port the interface listens on.",
		interfaceLabels, nil,
	)
	interfacePeerCountDesc = prometheus.NewDesc(
		"wireguard_interface_peer_count",
		"Number of peers configured on the interface.",
		interfaceLabels, nil,
	)
)

// collector emits the metrics of a single scrape as const metrics.
// It is registered on a fresh registry per scrape and never reused.
type collector struct {
	model *Model
	now   time.Time
}

func newCollector(model *Model, now time.Time) *collector {
	return &collector{
		model: model,
		now:   now,
	}
}

func (c *collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- peerReceivedBytesDesc
	ch <- peerSentBytesDesc
	ch <- peerHandshakeAgeDesc
	ch <- peerAllowedIPCountDesc
	ch <- interfaceListenPortDesc
	ch <- interfacePeerCountDesc
}

func (c *collector) Collect(ch chan<- prometheus.Metric) {
	for _, iface := range c.model.Interfaces() {
		ch <- prometheus.MustNewConstMetric(interfaceListenPortDesc, prometheus.GaugeValue, float64(iface.ListenPort), iface.Name)
		ch <- prometheus.MustNewConstMetric(interfacePeerCountDesc, prometheus.GaugeValue, float64(len(iface.Peers)), iface.Name)

		for _, peer := range iface.Peers {
			labels := []string{
				iface.Name,
				peer.PublicKey,
				c.model.FriendlyName(peer.PublicKey),
				strings.Join(peer.AllowedIPs, ","),
			}

			ch <- prometheus.MustNewConstMetric(peerReceivedBytesDesc, prometheus.CounterValue, float64(peer.ReceivedBytes), labels...)
			ch <- prometheus.MustNewConstMetric(peerSentBytesDesc, prometheus.CounterValue, float64(peer.SentBytes), labels...)
			ch <- prometheus.MustNewConstMetric(peerAllowedIPCountDesc, prometheus.GaugeValue, float64(len(peer.AllowedIPs)), labels...)

			// A handshake timestamp of 0 means the peer never completed a
			// handshake. No data point in that case, never a sentinel value.
			if peer.LatestHandshake == 0 {
				continue
			}

			age := c.now.Sub(time.Unix(peer.LatestHandshake, 0)).Seconds()
			if age < 0 {
				age = 0
			}
			ch <- prometheus.MustNewConstMetric(peerHandshakeAgeDesc, prometheus.GaugeValue, age, labels...)
		}
	}
}
