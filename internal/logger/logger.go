package logger

import (
	"io"
	"log"
	"os"
	"strconv"

	"github.com/rollbar/rollbar-go"
	rollbarerrors "github.com/rollbar/rollbar-go/errors"

	"study-planner/internal/config"
	"study-planner/internal/model"
)

// Logger is the application logger. Extra args may carry an error, a map of fields or the
// *model.User the message is about.
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Fatal(msg string, args ...interface{})
}

// Std writes to a standard logger and, when enabled, reports to Rollbar.
type Std struct {
	std     *log.Logger
	rollbar bool
	debug   bool
}

var _ Logger = (*Std)(nil)

// New builds a logger with the given prefix. Rollbar is enabled when a token is configured.
func New(prefix string, cfg config.Config) *Std {
	l := &Std{
		std:   log.New(os.Stdout, prefix, log.LstdFlags|log.Lmicroseconds),
		debug: cfg.Debug,
	}
	if cfg.RollbarToken != "" {
		rollbar.SetToken(cfg.RollbarToken)
		rollbar.SetEnvironment(cfg.Env)
		rollbar.SetCodeVersion(cfg.Build)
		rollbar.SetStackTracer(rollbarerrors.StackTracer)
		if host, err := os.Hostname(); err == nil {
			rollbar.SetServerHost(host)
		}
		l.rollbar = true
	}
	rollbar.SetEnabled(l.rollbar)
	return l
}

// NewDiscard returns a logger that writes nowhere and never reports.
func NewDiscard() *Std {
	return &Std{std: log.New(io.Discard, "", 0)}
}

// prepare drops the user from args and registers it as the Rollbar person.
func (l *Std) prepare(msg string, args []interface{}) []interface{} {
	var usrSet bool
	out := make([]interface{}, 0, len(args)+1)
	out = append(out, msg)
	for _, arg := range args {
		if usr, ok := arg.(*model.User); ok && usr != nil {
			if !usrSet {
				rollbar.SetPerson(strconv.FormatUint(uint64(usr.ID), 10), usr.Name, "")
				usrSet = true
			}
			continue
		}
		out = append(out, arg)
	}
	if !usrSet {
		rollbar.ClearPerson()
	}
	return out
}

func (l *Std) print(level, msg string, args []interface{}) {
	l.std.Printf("[%s] %s", level, msg)
	for _, arg := range args {
		if _, ok := arg.(*model.User); ok {
			continue
		}
		l.std.Printf("[%s]   %+v", level, arg)
	}
}

func (l *Std) Debug(msg string, args ...interface{}) {
	if !l.debug {
		return
	}
	l.print("debug", msg, args)
}

func (l *Std) Info(msg string, args ...interface{}) {
	l.print("info", msg, args)
}

func (l *Std) Warn(msg string, args ...interface{}) {
	if l.rollbar {
		rollbar.Warning(l.prepare(msg, args)...)
	}
	l.print("warn", msg, args)
}

func (l *Std) Error(msg string, args ...interface{}) {
	if l.rollbar {
		rollbar.Error(l.prepare(msg, args)...)
	}
	l.print("error", msg, args)
}

func (l *Std) Fatal(msg string, args ...interface{}) {
	if l.rollbar {
		rollbar.Critical(l.prepare(msg, args)...)
		rollbar.Wait()
	}
	l.print("fatal", msg, args)
	os.Exit(1)
}

// Close flushes pending Rollbar reports.
func (l *Std) Close() {
	if l.rollbar {
		rollbar.Close()
	}
}
