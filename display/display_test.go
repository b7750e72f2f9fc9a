// Copyright © 2023 EcoSwell

package display

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func TestConsoleShowMessage(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(&buf)

	c.ShowMessage("Pressure\nreadings\ncomplete", time.Second)
	out := buf.String()
	for _, want := range []string{"Pressure", "readings", "complete"} {
		if !strings.Contains(out, want) {
			t.Errorf("output %q should contain %q", out, want)
		}
	}

	buf.Reset()
	c.ShowMessage("", 0)
	if buf.Len() != 0 {
		t.Errorf("clearing should print nothing, got %q", buf.String())
	}
}

func TestAnnounce(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(&buf)

	timer := Announce(c, "All readings\nnow complete.", 20*time.Millisecond)
	if !c.Lit() {
		t.Error("backlight should be on while announcing")
	}
	if !strings.Contains(buf.String(), "All readings") {
		t.Errorf("message not shown: %q", buf.String())
	}

	deadline := time.Now().Add(time.Second)
	for c.Lit() && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if c.Lit() {
		t.Error("backlight should be off after the hold time")
	}
	timer.Stop()
}

func TestConsoleRepeatsMessage(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(&buf)

	c.ShowMessage("Failed to read \nPMS5003", time.Second)
	c.ShowMessage("Failed to read \nPMS5003", time.Second)
	if n := strings.Count(buf.String(), "PMS5003"); n != 2 {
		t.Errorf("expected both messages rendered, got %d", n)
	}
}
