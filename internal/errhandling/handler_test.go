package errhandling

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"nbkit/internal/content"
)

func newTestHandler(t *testing.T, specs ...string) (*Handler, *observer.ObservedLogs) {
	t.Helper()
	rules, err := ParseRules(specs)
	require.NoError(t, err)

	core, logs := observer.New(zapcore.DebugLevel)
	h, err := NewHandler(rules, prometheus.NewRegistry(), zap.New(core))
	require.NoError(t, err)
	return h, logs
}

func TestClassifyDefaultStops(t *testing.T) {
	h, logs := newTestHandler(t)

	s := h.Classify(errors.New("boom"), 0)
	assert.Equal(t, Stop, s.Response())
	assert.False(t, s.Retryable())
	assert.Equal(t, ExitStop, s.ResultCode())
	assert.Equal(t, 1, logs.FilterMessage("Operation failed, stopping").Len())
}

func TestClassifyFirstMatchWins(t *testing.T) {
	h, logs := newTestHandler(t, "timeout=retry,warn,count", "time.*=ignore")

	s := h.Classify(errors.New("read timeout"), time.Millisecond)
	assert.True(t, s.Retryable())
	assert.Equal(t, ExitHandled, s.ResultCode())
	assert.Equal(t, 1, logs.FilterMessage("Operation failed").Len())
	assert.Equal(t, 1.0, testutil.ToFloat64(h.errorsTotal.WithLabelValues(GenericName)))

	s = h.Classify(errors.New("timer"), 0)
	assert.Equal(t, Ignore, s.Response())
	assert.False(t, s.Retryable())
	assert.Equal(t, ExitOK, s.ResultCode())
}

func TestClassifyRecordsStats(t *testing.T) {
	h, _ := newTestHandler(t, "namedErr|CustomName=count,histogram")

	h.Classify(namedErr{}, 3*time.Millisecond)
	h.Classify(namedErr{}, 5*time.Millisecond)

	snap := h.Stats()
	require.Len(t, snap, 1)
	assert.Equal(t, "CustomName", snap[0].Name)
	assert.Equal(t, uint64(2), snap[0].Count)
	assert.Equal(t, int64(2), snap[0].Timed)
	assert.Equal(t, 2.0, testutil.ToFloat64(h.errorsTotal.WithLabelValues("CustomName")))
}

func TestNewHandlerReusesRegisteredCounter(t *testing.T) {
	reg := prometheus.NewRegistry()
	rules, err := ParseRules([]string{".*=count"})
	require.NoError(t, err)

	h1, err := NewHandler(rules, reg, nil)
	require.NoError(t, err)
	h2, err := NewHandler(rules, reg, nil)
	require.NoError(t, err)

	h1.Classify(errors.New("x"), 0)
	h2.Classify(errors.New("x"), 0)
	assert.Equal(t, 2.0, testutil.ToFloat64(h1.errorsTotal.WithLabelValues(GenericName)))
	assert.Len(t, h2.Rules(), 1)
}

func TestClassifyNil(t *testing.T) {
	h, logs := newTestHandler(t, ".*=stop,count")

	var s Status
	assert.NotPanics(t, func() { s = h.Classify(nil, time.Millisecond) })
	assert.Equal(t, Status{}, s)
	assert.Equal(t, 0, logs.Len())
	assert.Equal(t, 0, testutil.CollectAndCount(h.errorsTotal))
}

func TestClassifyLabelsAreBounded(t *testing.T) {
	h, _ := newTestHandler(t, ".*=count")

	for i := range 10 {
		h.Classify(fmt.Errorf("request %d failed", i), 0)
	}
	h.Classify(&fs.PathError{Op: "open", Path: "a", Err: fs.ErrNotExist}, 0)

	assert.Equal(t, 2, testutil.CollectAndCount(h.errorsTotal))
	assert.Equal(t, 10.0, testutil.ToFloat64(h.errorsTotal.WithLabelValues(GenericName)))
	assert.Equal(t, 1.0, testutil.ToFloat64(h.errorsTotal.WithLabelValues("fs.PathError")))
}

func TestClassifyRemoteErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	u, err := url.Parse(srv.URL + "/keyvalue.yaml")
	require.NoError(t, err)
	_, err = content.NewURLResolver(srv.Client(), nil).Resolve(context.Background(), u)
	require.Error(t, err)

	assert.Equal(t, []string{"content.OpenError", "content.StatusError"}, ErrorNames(err))
	assert.Equal(t, "content.StatusError", ErrorName(err))

	h, _ := newTestHandler(t, "StatusError=retry,count", ".*=stop")
	s := h.Classify(err, 0)
	assert.True(t, s.Retryable())
	assert.Equal(t, ExitHandled, s.ResultCode())
	assert.Equal(t, 1.0, testutil.ToFloat64(h.errorsTotal.WithLabelValues("content.StatusError")))

	h, _ = newTestHandler(t, "OpenError=ignore", ".*=stop")
	assert.Equal(t, Ignore, h.Classify(err, 0).Response())
}
