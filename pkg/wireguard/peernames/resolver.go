// Package peernames resolves human assigned peer names from a WireGuard
// interface configuration file.
//
// Name resolution is best effort: malformed sections are skipped one by one
// and a missing file simply yields no names. Metrics availability always wins
// over naming completeness.
package peernames

import (
	"os"
	"strings"

	"go.uber.org/zap"
	"golang.zx2c4.com/wireguard/wgctrl/wgtypes"
)

const name = "peer_names"

// Mapping resolves a peer's public key to its friendly name.
type Mapping map[string]string

// Lookup returns the friendly name for the given public key, or an empty
// string when no name is known. Safe on a nil Mapping.
func (m Mapping) Lookup(publicKey string) string {
	return m[publicKey]
}

type Resolver struct {
	path string
	log  *zap.Logger
}

// New creates a Resolver reading the given configuration file.
func New(path string, log *zap.Logger) *Resolver {
	return &Resolver{
		path: path,
		log:  log.Named(name).With(zap.String("config_file", path)),
	}
}

// Names re-reads the configuration file and returns the current mapping.
// The file can change between scrapes, so there is no caching.
func (r *Resolver) Names() Mapping {
	content, err := os.ReadFile(r.path)
	if err != nil {
		if !os.IsNotExist(err) {
			r.log.Warn("Unable to read the peer name configuration", zap.Error(err))
		}
		return nil
	}

	return Parse(string(content), r.log)
}

// Parse extracts friendly names from WireGuard interface configuration text.
// A comment line directly preceding a [Peer] section header names that peer.
// Sections without a usable PublicKey are skipped.
func Parse(content string, log *zap.Logger) Mapping {
	mapping := Mapping{}

	var inPeerSection bool
	var friendlyName string
	var publicKey string

	flush := func() {
		if !inPeerSection {
			return
		}
		if publicKey == "" {
			log.Debug("Skipping peer section without a public key", zap.String("friendly_name", friendlyName))
			return
		}
		if friendlyName != "" {
			mapping[publicKey] = friendlyName
		}
	}

	var lastComment string

	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)

		switch {
		case line == "":
			lastComment = ""
		case strings.HasPrefix(line, "#") || strings.HasPrefix(line, ";"):
			lastComment = strings.TrimSpace(strings.TrimLeft(line, "#;"))
		case strings.HasPrefix(line, "["):
			flush()
			inPeerSection = strings.EqualFold(line, "[Peer]")
			friendlyName = lastComment
			publicKey = ""
			lastComment = ""
		default:
			key, value, found := strings.Cut(line, "=")
			if !found || !inPeerSection {
				continue
			}
			if strings.TrimSpace(key) != "PublicKey" {
				continue
			}

			value = strings.TrimSpace(value)
			if _, err := wgtypes.ParseKey(value); err != nil {
				log.Debug("Skipping peer section with an invalid public key", zap.Error(err))
				inPeerSection = false
				continue
			}
			publicKey = value
		}
	}
	flush()

	return mapping
}
