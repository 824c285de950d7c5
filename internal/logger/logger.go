// Package logger provides a configured zerolog logger.
package logger

import (
	"io"
	"os"
	"strings"

	pkgerrors "github.com/pkg/errors"
	"github.com/rs/zerolog"
	zpkgerrors "github.com/rs/zerolog/pkgerrors"
)

type stackTracer interface{ StackTrace() pkgerrors.StackTrace }

// New returns a JSON logger on stdout tagged with serviceName.
// Call sites should use .Stack() on error events to include stacks.
func New(serviceName string) zerolog.Logger {
	return NewWithWriter(os.Stdout, serviceName)
}

// NewWithWriter is New with an explicit sink. The MCP stdio server logs to
// stderr because stdout carries the protocol.
func NewWithWriter(w io.Writer, serviceName string) zerolog.Logger {
	zerolog.ErrorStackMarshaler = func(err error) interface{} {
		if _, ok := err.(stackTracer); !ok {
			err = pkgerrors.WithStack(err)
		}
		return zpkgerrors.MarshalStack(err)
	}
	zerolog.ErrorMarshalFunc = func(err error) interface{} {
		if _, ok := err.(stackTracer); ok {
			return err
		}
		return pkgerrors.WithStack(err)
	}

	return zerolog.New(w).With().
		Str("service", serviceName).
		Timestamp().
		Logger()
}

// SetLevel sets the global level. Empty means info.
func SetLevel(level string) error {
	if strings.TrimSpace(level) == "" {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
		return nil
	}
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		return pkgerrors.Wrapf(err, "invalid log level %q", level)
	}
	zerolog.SetGlobalLevel(lvl)
	return nil
}
