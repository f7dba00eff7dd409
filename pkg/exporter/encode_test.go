package exporter

import (
	"bytes"
	"strings"
	"testing"
	"time"

	testhelper "github.com/mrincompetent/wireguard-exporter/pkg/test"
	"github.com/mrincompetent/wireguard-exporter/pkg/wireguard/dump"
	"github.com/mrincompetent/wireguard-exporter/pkg/wireguard/peernames"
)

const testDump = "wg0\t(none)\tIFACEPUB\t51820\toff\n" +
	"wg0\tPEER1\t(none)\t10.0.0.5:51820\t10.0.0.2/32\t1690000000\t1024\t2048\toff\n" +
	"wg0\tPEER2\t(none)\t(none)\t(none)\t0\t0\t0\toff\n"

func testModel(t *testing.T) *Model {
	interfaces, err := dump.Parse(testDump)
	if err != nil {
		t.Fatal(err)
	}

	return NewModel(interfaces, peernames.Mapping{"PEER1": "alice"})
}

func TestEncode(t *testing.T) {
	expected := `# HELP wireguard_interface_listen_port UDP port the interface listens on.
# TYPE wireguard_interface_listen_port gauge
wireguard_interface_listen_port{interface="wg0"} 51820
# HELP wireguard_interface_peer_count Number of peers configured on the interface.
# TYPE wireguard_interface_peer_count gauge
wireguard_interface_peer_count{interface="wg0"} 2
# HELP wireguard_peer_allowed_ips_count Number of allowed IP ranges configured for the peer.
# TYPE wireguard_peer_allowed_ips_count gauge
wireguard_peer_allowed_ips_count{allowed_ips="",friendly_name="",interface="wg0",public_key="PEER2"} 0
wireguard_peer_allowed_ips_count{allowed_ips="10.0.0.2/32",friendly_name="alice",interface="wg0",public_key="PEER1"} 1
# HELP wireguard_peer_received_bytes_total Bytes received from the peer.
# TYPE wireguard_peer_received_bytes_total counter
wireguard_peer_received_bytes_total{allowed_ips="",friendly_name="",interface="wg0",public_key="PEER2"} 0
wireguard_peer_received_bytes_total{allowed_ips="10.0.0.2/32",friendly_name="alice",interface="wg0",public_key="PEER1"} 1024
# HELP wireguard_peer_sent_bytes_total Bytes sent to the peer.
# TYPE wireguard_peer_sent_bytes_total counter
wireguard_peer_sent_bytes_total{allowed_ips="",friendly_name="",interface="wg0",public_key="PEER2"} 0
wireguard_peer_sent_bytes_total{allowed_ips="10.0.0.2/32",friendly_name="alice",interface="wg0",public_key="PEER1"} 2048
# HELP wireguard_peer_since_last_handshake_seconds Seconds since the last handshake with the peer. Absent when the peer never completed a handshake.
# TYPE wireguard_peer_since_last_handshake_seconds gauge
wireguard_peer_since_last_handshake_seconds{allowed_ips="10.0.0.2/32",friendly_name="alice",interface="wg0",public_key="PEER1"} 123
`

	body, err := Encode(testModel(t), time.Unix(1690000123, 0))
	if err != nil {
		t.Fatal(err)
	}

	testhelper.CompareStrings(t, expected, string(body))
}

func TestEncodeIsDeterministic(t *testing.T) {
	now := time.Unix(1690000123, 0)

	first, err := Encode(testModel(t), now)
	if err != nil {
		t.Fatal(err)
	}
	second, err := Encode(testModel(t), now)
	if err != nil {
		t.Fatal(err)
	}

	if !bytes.Equal(first, second) {
		t.Error("encoding the same model twice produced different output")
	}
}

func TestEncodeNeverHandshakedPeerHasNoHandshakeSeries(t *testing.T) {
	body, err := Encode(testModel(t), time.Unix(1690000123, 0))
	if err != nil {
		t.Fatal(err)
	}

	if strings.Contains(string(body), `wireguard_peer_since_last_handshake_seconds{allowed_ips="",friendly_name="",interface="wg0",public_key="PEER2"}`) {
		t.Error("got a handshake series for a peer that never handshaked")
	}
}

func TestEncodeClampsFutureHandshakes(t *testing.T) {
	// A scrape racing the wg invocation can observe a handshake timestamp
	// slightly ahead of its own clock. Never report a negative age.
	body, err := Encode(testModel(t), time.Unix(1689999000, 0))
	if err != nil {
		t.Fatal(err)
	}

	expected := `wireguard_peer_since_last_handshake_seconds{allowed_ips="10.0.0.2/32",friendly_name="alice",interface="wg0",public_key="PEER1"} 0`
	if !strings.Contains(string(body), expected) {
		t.Errorf("expected the handshake age to be clamped to 0, got body:\n%s", body)
	}
}
