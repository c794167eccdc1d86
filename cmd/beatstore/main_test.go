package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestFormatMoney(t *testing.T) {
	cases := map[float64]string{
		0:       "$0.00",
		29.99:   "$29.99",
		1234.5:  "$1,234.50",
		59.9999: "$60.00",
	}
	for amount, want := range cases {
		if got := formatMoney(amount); got != want {
			t.Errorf("formatMoney(%v) = %q, want %q", amount, got, want)
		}
	}
}

func TestRenderTable(t *testing.T) {
	out := renderTable(
		[]string{"ID", "Sales"},
		[][]string{{"trap_wave_001", "3"}, {"rnb_vibes_002"}},
		[]columnAlignment{alignLeft, alignRight},
	)
	if !strings.Contains(out, "trap_wave_001") || !strings.Contains(out, "Sales") {
		t.Fatalf("table output missing expected cells:\n%s", out)
	}
}

func TestConfigInitCommandWritesSample(t *testing.T) {
	target := filepath.Join(t.TempDir(), "config.toml")

	cmd := newRootCommand()
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs([]string{"config", "init", "--path", target})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("config init: %v", err)
	}

	raw, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(raw), "[store]") {
		t.Fatalf("sample config missing [store] section:\n%s", raw)
	}

	cmd = newRootCommand()
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs([]string{"config", "init", "--path", target})
	if err := cmd.Execute(); err == nil {
		t.Fatal("expected error when target already exists")
	}
}
