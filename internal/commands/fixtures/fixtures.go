// Package fixtures holds shared command-wiring test doubles.
package fixtures

import (
	command "github.com/goliatone/go-command"
)

// RecordingRegistry captures every handler offered to RegisterCommand so
// wiring tests can assert what was registered.
type RecordingRegistry struct {
	Handlers []any
}

// NewRecordingRegistry returns an empty recorder.
func NewRecordingRegistry() *RecordingRegistry { return &RecordingRegistry{} }

func (r *RecordingRegistry) RegisterCommand(handler any) error {
	r.Handlers = append(r.Handlers, handler)
	return nil
}

// CronRegistration is one recorded cron wiring call.
type CronRegistration struct {
	Config  command.HandlerConfig
	Handler func() error
}

// CronRecorder records calls made through the registrar func it hands out.
type CronRecorder struct {
	Registrations []CronRegistration
	err           error
}

// NewCronRecorder returns a recorder whose registrar succeeds until Fail is set.
func NewCronRecorder() *CronRecorder { return &CronRecorder{} }

// Fail makes every subsequent registration return err.
func (c *CronRecorder) Fail(err error) { c.err = err }

// Registrar returns a recording registrar func. Its shape converts to any
// named CronRegistrar type with the same signature.
func (c *CronRecorder) Registrar() func(command.HandlerConfig, any) error {
	return func(cfg command.HandlerConfig, handler any) error {
		if c.err != nil {
			return c.err
		}
		reg := CronRegistration{Config: cfg}
		if fn, ok := handler.(func() error); ok {
			reg.Handler = fn
		}
		c.Registrations = append(c.Registrations, reg)
		return nil
	}
}
