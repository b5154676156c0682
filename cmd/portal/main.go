// Command portal runs the dashboard runtime: the shell state, the
// unread-notification poller and the chat session over the main backend.
package main

import (
	"os"

	"github.com/swissMack/simportal/internal/app"
)

func main() {
	os.Exit(app.RunPortal())
}
