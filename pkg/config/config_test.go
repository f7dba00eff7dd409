package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-test/deep"
)

func writeConfig(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `listen_address: 0.0.0.0:9586
log_level: debug
wireguard:
  binary_path: /usr/local/bin/wg
  config_path: /etc/wireguard/wg0.conf
  scrape_timeout_seconds: 2
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	expected := &Config{
		ListenAddress: "0.0.0.0:9586",
		LogLevel:      "debug",
		LogEncoding:   "json",
		WireGuard: WireGuardConfig{
			BinaryPath:           "/usr/local/bin/wg",
			ConfigPath:           "/etc/wireguard/wg0.conf",
			ScrapeTimeoutSeconds: 2,
		},
	}
	if diff := deep.Equal(expected, cfg); diff != nil {
		t.Errorf("got config does not match the expected config. Diff: \n%v", diff)
	}
}

func TestLoadWithoutPath(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}

	if diff := deep.Equal(Default(), cfg); diff != nil {
		t.Errorf("got config does not match the defaults. Diff: \n%v", diff)
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	path := writeConfig(t, "listen_adress: 0.0.0.0:9586\n")

	if _, err := Load(path); err == nil || !strings.Contains(err.Error(), "listen_adress") {
		t.Fatalf("expected an unknown field error, got %v", err)
	}
}
