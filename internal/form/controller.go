// Package form drives the address form page around a ViaCEP lookup.
package form

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rodrigoasouza93/cep-form/internal/dto"
	"github.com/rodrigoasouza93/cep-form/internal/storage"
	"github.com/rodrigoasouza93/cep-form/internal/telemetry"
	"github.com/rodrigoasouza93/cep-form/internal/viacep"
	"github.com/rodrigoasouza93/cep-form/internal/vo"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Messages shown in the message modal.
const (
	MessageInvalidCep   = "CEP inválido, tente novamente."
	MessageLookupFailed = "Ocorreu um erro ao consultar o endereço. Tente novamente mais tarde."
	MessageSubmitted    = "Endereço cadastrado com sucesso!"
)

const DefaultSubmitDelay = 1000 * time.Millisecond

type AddressLookup interface {
	Lookup(ctx context.Context, cep *vo.Cep) (*viacep.Result, error)
}

// Scheduler runs f once after d.
type Scheduler interface {
	AfterFunc(d time.Duration, f func())
}

type SchedulerFunc func(d time.Duration, f func())

func (s SchedulerFunc) AfterFunc(d time.Duration, f func()) { s(d, f) }

var timerScheduler = SchedulerFunc(func(d time.Duration, f func()) { time.AfterFunc(d, f) })

type Controller struct {
	lookup      AddressLookup
	logger      zerolog.Logger
	metrics     *telemetry.FormMetrics
	scheduler   Scheduler
	submitDelay time.Duration
}

type Option func(*Controller)

func WithLogger(l zerolog.Logger) Option {
	return func(c *Controller) { c.logger = l }
}

func WithMetrics(m *telemetry.FormMetrics) Option {
	return func(c *Controller) { c.metrics = m }
}

func WithScheduler(s Scheduler) Option {
	return func(c *Controller) { c.scheduler = s }
}

func WithSubmitDelay(d time.Duration) Option {
	return func(c *Controller) {
		if d > 0 {
			c.submitDelay = d
		}
	}
}

func NewController(lookup AddressLookup, opts ...Option) *Controller {
	c := &Controller{
		lookup:      lookup,
		logger:      log.Logger,
		scheduler:   timerScheduler,
		submitDelay: DefaultSubmitDelay,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// OnKeyPress reports whether key may be inserted into the postal code
// field. Rejected keys are dropped silently.
func (c *Controller) OnKeyPress(key rune) bool {
	return vo.AcceptsKey(key)
}

// OnKeyUp records the postal code field value and looks it up once it holds
// exactly vo.LookupLength characters. The content is not validated again.
func (c *Controller) OnKeyUp(ctx context.Context, fc *Context, currentValue string) bool {
	fc.update(func(fc *Context) { fc.fields.PostalCode = currentValue })
	if !vo.ReadyForLookup(currentValue) {
		return false
	}
	c.LookupAddress(ctx, fc, currentValue)
	return true
}

// LookupAddress queries ViaCEP and fills the form from the answer. Failures
// end up in the message modal; the loader is hidden on every path.
// Concurrent lookups on the same Context are not coordinated: the last one
// to finish wins.
func (c *Controller) LookupAddress(ctx context.Context, fc *Context, postalCode string) {
	fc.update(func(fc *Context) { fc.ui.Loader.Show() })
	defer fc.update(func(fc *Context) { fc.ui.Loader.Hide() })

	start := time.Now()
	cep, err := vo.NewCep(postalCode)
	if err != nil {
		c.metrics.RecordLookup(telemetry.OutcomeInvalid, time.Since(start))
		fc.update(func(fc *Context) { fc.ui.showMessage(MessageInvalidCep) })
		return
	}

	result, err := c.lookup.Lookup(ctx, cep)
	if err != nil {
		c.logger.Error().Err(err).
			Str("cep", cep.Value()).
			Bool("digits", cep.Digits()).
			Msg("failed to look up address")
		c.metrics.RecordLookup(telemetry.OutcomeFailed, time.Since(start))
		fc.update(func(fc *Context) { fc.ui.showMessage(MessageLookupFailed) })
		return
	}

	if result.Location.Error {
		c.logger.Debug().Str("cep", cep.Value()).Msg("cep not found")
		c.metrics.RecordLookup(telemetry.OutcomeInvalid, time.Since(start))
		fc.update(func(fc *Context) { fc.ui.showMessage(MessageInvalidCep) })
		return
	}

	record := NewAddressRecord(result.Location)
	fc.update(func(fc *Context) { fc.fields.fill(record) })
	if err := fc.store.SetItem(storage.StorageKey, string(result.Raw)); err != nil {
		c.logger.Warn().Err(err).Str("cep", cep.Value()).Msg("failed to persist address")
	}
	c.metrics.RecordLookup(telemetry.OutcomeFound, time.Since(start))
}

// RestoreOnLoad fills the form from the last stored lookup, if any.
func (c *Controller) RestoreOnLoad(fc *Context) {
	raw, ok, err := fc.store.GetItem(storage.StorageKey)
	if err != nil {
		c.logger.Warn().Err(err).Msg("failed to read stored address")
		c.metrics.RecordRestore(telemetry.OutcomeCorrupt)
		return
	}
	if !ok || raw == "" {
		c.metrics.RecordRestore(telemetry.OutcomeEmpty)
		return
	}

	var location dto.LocationResponse
	if err := json.Unmarshal([]byte(raw), &location); err != nil {
		c.logger.Warn().Err(err).Msg("ignoring corrupt stored address")
		c.metrics.RecordRestore(telemetry.OutcomeCorrupt)
		return
	}

	record := NewAddressRecord(location)
	fc.update(func(fc *Context) { fc.fields.fill(record) })
	c.metrics.RecordRestore(telemetry.OutcomeRestored)
}

// CloseMessage hides the message modal.
func (c *Controller) CloseMessage(fc *Context) {
	fc.update(func(fc *Context) { fc.ui.hideMessage() })
}

// OnSubmit simulates sending the form: the loader stays up for the submit
// delay, then the success message is shown and every field is cleared. The
// returned channel is closed once that has happened. A submission cannot be
// cancelled.
func (c *Controller) OnSubmit(fc *Context) <-chan struct{} {
	c.metrics.RecordSubmission()
	fc.update(func(fc *Context) { fc.ui.Loader.Show() })

	done := make(chan struct{})
	c.scheduler.AfterFunc(c.submitDelay, func() {
		defer close(done)
		fc.update(func(fc *Context) {
			fc.ui.Loader.Hide()
			fc.ui.showMessage(MessageSubmitted)
			fc.fields.reset()
		})
	})
	return done
}
