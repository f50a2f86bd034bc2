package sentry

import (
	"fmt"
	"reflect"
	"regexp"
	"time"

	sentry "github.com/getsentry/sentry-go"
	"gitlab.com/edge-engine/roqplay/internal/helper"
	"gitlab.com/edge-engine/roqplay/internal/log"
	"google.golang.org/grpc/codes"
)

// Config holds the settings of the error reporter.
type Config struct {
	DSN         string `toml:"sentry_dsn" envconfig:"dsn"`
	Environment string `toml:"sentry_environment" envconfig:"environment"`
}

var ignoredCodes = []codes.Code{
	codes.OK,
	// Canceled and DeadlineExceeded mean the user lost interest
	codes.Canceled,
	codes.DeadlineExceeded,
	codes.FailedPrecondition,
}

// ConfigureSentry sets up the global error reporter. Without a DSN reports
// are dropped.
func ConfigureSentry(version string, conf Config) error {
	if conf.DSN == "" {
		return nil
	}

	log.Default().Debug("Using sentry logging")

	return sentry.Init(sentry.ClientOptions{
		Dsn:         conf.DSN,
		Environment: conf.Environment,
		Release:     "v" + version,
	})
}

// ReportError sends err to sentry, tagged with the subcommand that failed.
func ReportError(command string, start time.Time, err error) {
	event := generateEvent(command, start, err)
	if event == nil {
		return
	}

	sentry.CaptureEvent(event)
}

// Flush waits for queued reports to be sent.
func Flush(timeout time.Duration) bool {
	return sentry.Flush(timeout)
}

func generateEvent(command string, start time.Time, err error) *sentry.Event {
	if err == nil {
		return nil
	}

	code := helper.GrpcCode(err)
	for _, ignored := range ignoredCodes {
		if code == ignored {
			return nil
		}
	}

	event := sentry.NewEvent()
	for k, v := range map[string]string{
		"code":    code.String(),
		"command": command,
		"time_ms": fmt.Sprintf("%.0f", time.Since(start).Seconds()*1000),
		"system":  "roqlump",
	} {
		event.Tags[k] = v
	}

	event.Message = err.Error()
	event.Exception = append(event.Exception, newException(err))
	event.Fingerprint = []string{"roqlump", command, code.String()}
	event.Transaction = command

	return event
}

var errorMsgPattern = regexp.MustCompile(`\A(\w+): (.+)\z`)

func newException(err error) sentry.Exception {
	msg := err.Error()
	ex := sentry.Exception{
		Value: msg,
		Type:  reflect.TypeOf(err).String(),
	}
	if m := errorMsgPattern.FindStringSubmatch(msg); m != nil {
		ex.Module, ex.Value = m[1], m[2]
	}
	return ex
}
