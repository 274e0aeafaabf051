package model

import (
	"fmt"
	"runtime"

	"github.com/hupe1980/modelturn/terminal"
)

// Originator identifies this client to providers.
const Originator = "modelturn"

// Version is the client version reported in the User-Agent header.
var Version = "0.1.0"

// UserAgent returns the User-Agent sent by the transports, ending with the
// terminal the process runs in.
func UserAgent() string {
	return fmt.Sprintf("%s/%s (%s; %s) %s", Originator, Version, runtime.GOOS, runtime.GOARCH, terminal.UserAgent())
}
