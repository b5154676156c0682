// Command buckets idempotently provisions the time-series database buckets
// the portal's telemetry is written into.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/swissMack/simportal/internal/buckets"
)

func main() {
	org := flag.String("org", "simportal", "time-series database organization")
	timeout := flag.Duration("timeout", 2*time.Minute, "overall provisioning timeout")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	provisioner := buckets.NewProvisioner(*org)
	if err := provisioner.Provision(ctx, buckets.DefaultBuckets); err != nil {
		slog.Error("Bucket provisioning failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Bucket provisioning complete")
}
