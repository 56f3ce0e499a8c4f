package fixture

import (
	"context"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func get(t *testing.T, url string) (*http.Response, string) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func TestFixtureServer(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "kv.yaml"), []byte("scenarios:\n  default: run\n"), 0644))

	reg := prometheus.NewRegistry()
	srv := httptest.NewServer(NewHandler(ServerConfig{Dir: dir, FlakyFailures: 1}, reg, nil))
	defer srv.Close()

	t.Run("workloads", func(t *testing.T) {
		resp, body := get(t, srv.URL+"/workloads/kv.yaml")
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "scenarios:\n  default: run\n", body)

		_, err := uuid.Parse(resp.Header.Get("X-Request-Id"))
		assert.NoError(t, err)
	})

	t.Run("status", func(t *testing.T) {
		resp, body := get(t, srv.URL+"/status/418")
		assert.Equal(t, http.StatusTeapot, resp.StatusCode)
		assert.Equal(t, "418 I'm a teapot", body)

		resp, _ = get(t, srv.URL+"/status/abc")
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("flaky", func(t *testing.T) {
		resp, _ := get(t, srv.URL+"/flaky")
		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

		resp, body := get(t, srv.URL+"/flaky")
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Contains(t, body, "scenarios:")
	})

	t.Run("metrics", func(t *testing.T) {
		// workloads/200, status/418, status/400, flaky/503, flaky/200;
		// counters are bumped after the response is written
		assert.Eventually(t, func() bool {
			n, err := testutil.GatherAndCount(reg, "nbkit_fixture_requests_total")
			return err == nil && n == 5
		}, time.Second, 10*time.Millisecond)

		resp, body := get(t, srv.URL+"/metrics")
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Contains(t, body, `nbkit_fixture_requests_total{code="503",route="flaky"} 1`)
	})
}

func TestStart(t *testing.T) {
	server, err := Start(ServerConfig{Port: 0, Dir: t.TempDir()}, nil)
	require.NoError(t, err)

	_, port, err := net.SplitHostPort(server.Addr)
	require.NoError(t, err)
	assert.NotEqual(t, "0", port)

	resp, _ := get(t, "http://127.0.0.1:"+port+"/status/418")
	assert.Equal(t, http.StatusTeapot, resp.StatusCode)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, server.Shutdown(ctx))
}

func TestStartPortInUse(t *testing.T) {
	l, err := net.Listen("tcp", ":0")
	require.NoError(t, err)
	defer l.Close()

	server, err := Start(ServerConfig{Port: l.Addr().(*net.TCPAddr).Port}, nil)
	assert.Nil(t, server)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fixture server")
}
