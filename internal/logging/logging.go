// README: Structured logger construction; injected into services, never a package singleton.
package logging

import (
	"os"

	"github.com/rs/zerolog"
)

// New builds the process logger. Output is JSON lines on stdout so the
// log shipper can pick them up unchanged.
func New(service string) zerolog.Logger {
	return zerolog.New(os.Stdout).With().
		Timestamp().
		Str("service", service).
		Logger()
}
