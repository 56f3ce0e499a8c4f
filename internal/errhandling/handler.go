package errhandling

import (
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"nbkit/internal/stats"
)

// DefaultResponse applies when no rule matches.
const DefaultResponse = Stop

// Handler classifies errors into a Status and carries out the side
// responses (warn, count, histogram) for each one.
type Handler struct {
	rules  []Rule
	logger *zap.Logger
	stats  *stats.ErrorStats

	errorsTotal *prometheus.CounterVec
}

// NewHandler registers its counters with reg when reg is not nil.
func NewHandler(rules []Rule, reg prometheus.Registerer, logger *zap.Logger) (*Handler, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	counter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nbkit_errors_total",
			Help: "Errors counted by the error handler, by error name",
		},
		[]string{"name"},
	)

	if reg != nil {
		if err := reg.Register(counter); err != nil {
			var are prometheus.AlreadyRegisteredError
			if !errors.As(err, &are) {
				return nil, fmt.Errorf("register error counter: %w", err)
			}
			existing, ok := are.ExistingCollector.(*prometheus.CounterVec)
			if !ok {
				return nil, fmt.Errorf("register error counter: %w", err)
			}
			counter = existing
		}
	}

	return &Handler{
		rules:       rules,
		logger:      logger,
		stats:       stats.NewErrorStats(),
		errorsTotal: counter,
	}, nil
}

// Classify decides how err is handled. elapsed is how long the failed
// operation ran, used by the histogram response.
// A nil err is not a failure and yields the zero Status.
func (h *Handler) Classify(err error, elapsed time.Duration) Status {
	if err == nil {
		return Status{}
	}

	name := ErrorName(err)
	resp := h.match(ErrorNames(err), err.Error())

	if resp.Has(Count) {
		h.errorsTotal.WithLabelValues(name).Inc()
		h.stats.Count(name)
	}
	if resp.Has(Histogram) {
		h.stats.Time(name, elapsed)
	}

	switch {
	case resp.Has(Stop):
		h.logger.Error("Operation failed, stopping",
			zap.String("error_name", name), zap.Error(err))
	case resp.Has(Warn):
		h.logger.Warn("Operation failed",
			zap.String("error_name", name), zap.String("response", resp.String()), zap.Error(err))
	default:
		h.logger.Debug("Operation failed",
			zap.String("error_name", name), zap.String("response", resp.String()), zap.Error(err))
	}

	return NewStatus(resp, resp.Has(Retry), resultCodeFor(resp))
}

// Rules returns the configured rules in match order.
func (h *Handler) Rules() []Rule {
	out := make([]Rule, len(h.rules))
	copy(out, h.rules)
	return out
}

func (h *Handler) Stats() []stats.Summary {
	return h.stats.Snapshot()
}

func (h *Handler) match(names []string, msg string) Response {
	for _, r := range h.rules {
		if r.matches(names, msg) {
			return r.Response
		}
	}
	return DefaultResponse
}
