// Package buckets provisions the time-series database buckets the portal's
// telemetry lands in. Creation goes through the external `influx` CLI and is
// idempotent: existing buckets are left untouched, retention included.
package buckets

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os/exec"
	"time"
)

// Bucket names a bucket and its fixed retention window.
type Bucket struct {
	Name      string
	Retention time.Duration
}

// DefaultBuckets are the buckets the portal expects to exist.
var DefaultBuckets = []Bucket{
	{Name: "telemetry", Retention: 30 * 24 * time.Hour},
	{Name: "usage", Retention: 90 * 24 * time.Hour},
	{Name: "events", Retention: 7 * 24 * time.Hour},
}

// Runner executes an external command and returns its combined output.
// Tests substitute a stub so no CLI is needed.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	out, err := exec.CommandContext(ctx, name, args...).CombinedOutput()
	if err != nil {
		return out, fmt.Errorf("%s failed: %w: %s", name, err, string(out))
	}
	return out, nil
}

// Provisioner creates missing buckets in the given org.
type Provisioner struct {
	runner Runner
	org    string
}

func NewProvisioner(org string) *Provisioner {
	return &Provisioner{runner: execRunner{}, org: org}
}

// NewProvisionerWithRunner is used by tests to inject a stub CLI.
func NewProvisionerWithRunner(org string, runner Runner) *Provisioner {
	return &Provisioner{runner: runner, org: org}
}

// Provision lists the org's existing buckets and creates the missing ones.
// It never deletes or alters a bucket that already exists.
func (p *Provisioner) Provision(ctx context.Context, buckets []Bucket) error {
	existing, err := p.existingBuckets(ctx)
	if err != nil {
		return err
	}

	for _, b := range buckets {
		if existing[b.Name] {
			slog.Info("Bucket already exists, skipping", "bucket", b.Name)
			continue
		}
		_, err := p.runner.Run(ctx, "influx", "bucket", "create",
			"--org", p.org,
			"--name", b.Name,
			"--retention", formatRetention(b.Retention),
		)
		if err != nil {
			return fmt.Errorf("could not create bucket %s: %w", b.Name, err)
		}
		slog.Info("Created bucket", "bucket", b.Name, "retention", b.Retention)
	}
	return nil
}

func (p *Provisioner) existingBuckets(ctx context.Context) (map[string]bool, error) {
	out, err := p.runner.Run(ctx, "influx", "bucket", "list", "--org", p.org, "--json")
	if err != nil {
		return nil, fmt.Errorf("could not list buckets: %w", err)
	}

	var listed []struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(out, &listed); err != nil {
		return nil, fmt.Errorf("could not parse bucket list: %w", err)
	}
	existing := make(map[string]bool, len(listed))
	for _, b := range listed {
		existing[b.Name] = true
	}
	return existing, nil
}

// formatRetention renders a retention window the way the CLI expects, in
// whole hours (e.g. "720h").
func formatRetention(d time.Duration) string {
	return fmt.Sprintf("%dh", int64(d.Hours()))
}
