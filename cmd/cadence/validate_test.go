package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"mercator-hq/cadence/pkg/config"
)

const validConfig = `
chains:
  - name: poll
    gate: all
    policies:
      - type: rate
        rate: 2
        burst: 1
      - type: count
        amount: 10
  - name: bounded
    policies:
      - type: timeout
        timeout: 1m
`

func runValidate(t *testing.T, content string) (string, error) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cadence.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	origCfgFile := cfgFile
	cfgFile = path
	t.Cleanup(func() { cfgFile = origCfgFile })

	buf := &bytes.Buffer{}
	cmd := &cobra.Command{}
	cmd.SetOut(buf)

	err := validateConfig(cmd, nil)
	return buf.String(), err
}

func TestValidate_Valid(t *testing.T) {
	out, err := runValidate(t, validConfig)
	if err != nil {
		t.Fatalf("validateConfig() error = %v", err)
	}

	for _, want := range []string{
		"✓ Configuration valid (2 chains)",
		"- poll (gate all, 2 policies)",
		"- bounded (gate any, 1 policies)",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestValidate_WarnsUnboundGate(t *testing.T) {
	out, err := runValidate(t, `
chains:
  - name: loose
    policies:
      - type: rate
        rate: 2
      - type: count
        amount: 10
`)
	if err != nil {
		t.Fatalf("validateConfig() error = %v", err)
	}
	if !strings.Contains(out, "⚠ chains[0].policies[0]") || !strings.Contains(out, "use gate: all") {
		t.Errorf("expected warning for the rate policy, got:\n%s", out)
	}
}

func TestValidate_StructuralError(t *testing.T) {
	out, err := runValidate(t, `
wait:
  strategy: busy
`)
	if err == nil {
		t.Fatal("expected error for invalid wait strategy")
	}
	if !strings.Contains(out, "✗ Configuration invalid") || !strings.Contains(out, "wait.strategy") {
		t.Errorf("expected invalid report naming wait.strategy, got:\n%s", out)
	}
}

func TestValidate_PolicyError(t *testing.T) {
	out, err := runValidate(t, `
chains:
  - name: nightly
    policies:
      - type: schedule
        schedule: "not a cron"
`)
	if err == nil {
		t.Fatal("expected error for invalid cron schedule")
	}
	if !strings.Contains(out, `chain "nightly"`) {
		t.Errorf("expected report naming the chain, got:\n%s", out)
	}
}

func TestCheckChains(t *testing.T) {
	cfg := config.NewDefaultConfig()
	cfg.Chains = []config.ChainConfig{
		{Name: "ok", Gate: "any", Policies: []config.PolicyConfig{{Type: "count", Amount: 1}}},
		{Name: "bad-type", Gate: "any", Policies: []config.PolicyConfig{{Type: "jitter"}}},
		{Name: "bad-rate", Gate: "all", Policies: []config.PolicyConfig{{Type: "rate"}}},
	}

	err := checkChains(cfg)
	if err == nil {
		t.Fatal("expected errors for invalid chains")
	}
	msg := err.Error()
	if !strings.Contains(msg, `chain "bad-type"`) || !strings.Contains(msg, `chain "bad-rate"`) {
		t.Errorf("expected both invalid chains reported, got %v", err)
	}
	if strings.Contains(msg, `chain "ok"`) {
		t.Errorf("expected valid chain not to be reported, got %v", err)
	}
}
