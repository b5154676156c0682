package main

import (
	"os"

	"github.com/swissMack/simportal/internal/app"
)

// @title        SIM Portal Provisioning API
// @version      1.0
// @description  Provisioning API for IoT SIM cards, usage tracking and broker webhooks.
// @BasePath     /api
func main() {
	os.Exit(app.Run())
}
