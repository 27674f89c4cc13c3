package engine

import (
	"os"

	"github.com/charmbracelet/log"

	"github.com/wrenfield/simplane/event"
	"github.com/wrenfield/simplane/parameter"
	"github.com/wrenfield/simplane/status"
)

// Context carries the shared kernel services: logger, metrics registry,
// event queue and configuration. It is constructed once and passed
// explicitly to constructors instead of living in package globals, so
// lifetime and test isolation stay explicit
type Context struct {
	Log    *log.Logger
	Status *status.Registry
	Events *event.Queue
	Config parameter.Config
}

// NewContext creates a context with a stderr logger and fresh
// metrics/event state
func NewContext(cfg parameter.Config) *Context {
	return &Context{
		Log: log.NewWithOptions(os.Stderr, log.Options{
			Prefix: "simplane",
		}),
		Status: status.NewRegistry(),
		Events: event.NewQueue(),
		Config: cfg,
	}
}

// Scene is the external owner of entity lifecycle. The kernel only
// needs the group lookup (UI exclusion) and the shared context
type Scene interface {
	Context() *Context
	Group(name string) []*Entity
}
