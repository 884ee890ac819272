package conf

import (
	"bytes"
	"strings"
	"testing"
)

func TestDefaultConfiguration(t *testing.T) {
	c, err := Default()
	if err != nil {
		t.Fatal(err)
	}
	if c.Host != "127.0.0.1" || c.Port != 3000 {
		t.Errorf("default listen address %s:%d", c.Host, c.Port)
	}
	if c.LogMode != "console" || c.LogPath != "./logs" {
		t.Errorf("default logging %s into %s", c.LogMode, c.LogPath)
	}
	if c.Data != "data/games" {
		t.Errorf("default data directory %s", c.Data)
	}
	if c.Database != "" {
		t.Errorf("audit store enabled by default: %s", c.Database)
	}
	if !c.WebSocket {
		t.Error("draw feed disabled by default")
	}
}

func TestLoadPartialConfiguration(t *testing.T) {
	c, err := load(strings.NewReader("port = 8080\nlogging = \"console\"\n"))
	if err != nil {
		t.Fatal(err)
	}
	if c.Port != 8080 {
		t.Errorf("port %d, want 8080", c.Port)
	}
	// unmentioned keys keep their defaults
	if c.Host != "127.0.0.1" || c.Data != "data/games" {
		t.Errorf("defaults lost: host %s data %s", c.Host, c.Data)
	}
}

func TestLoadRejectsBadInput(t *testing.T) {
	for _, input := range []string{
		"port = 0\n",
		"port = 100000\n",
		"logging = \"syslog\"\n",
		"port = \"not a number\"\n",
	} {
		if _, err := load(strings.NewReader(input)); err == nil {
			t.Errorf("accepted %q", input)
		}
	}
}

func TestDumpRoundTrip(t *testing.T) {
	c, err := load(strings.NewReader(
		"host = \"0.0.0.0\"\nport = 4000\ndatabase = \"audit.db\"\nwebsocket = false\n"))
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := c.Dump(&buf); err != nil {
		t.Fatal(err)
	}

	back, err := load(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if back.Host != c.Host || back.Port != c.Port ||
		back.Database != c.Database || back.WebSocket != c.WebSocket {
		t.Errorf("round trip changed the configuration: %+v vs %+v", back, c)
	}
}
