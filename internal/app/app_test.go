package app

import (
	"context"
	"errors"
	"net"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stacklok/toolhive-search/internal/backend"
	"github.com/stacklok/toolhive-search/internal/config"
	"github.com/stacklok/toolhive-search/internal/search"
)

// fakeBackend serves fixed records per entity source. Ping fails with the
// queued errors, then succeeds.
type fakeBackend struct {
	mu       sync.Mutex
	pingErrs []error
	pings    int
	closed   int
	records  map[string][]search.Record
}

var _ backend.Backend = (*fakeBackend)(nil)

func (*fakeBackend) Name() string { return "fake" }

func (f *fakeBackend) Searcher(cfg config.EntityConfig) (search.FullTextSearcher, error) {
	return search.FullTextSearcherFunc(func(context.Context, string, int) ([]search.Record, error) {
		f.mu.Lock()
		defer f.mu.Unlock()
		return f.records[cfg.Source], nil
	}), nil
}

func (f *fakeBackend) Ping(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pings++
	if len(f.pingErrs) == 0 {
		return nil
	}
	err := f.pingErrs[0]
	f.pingErrs = f.pingErrs[1:]
	return err
}

func (f *fakeBackend) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed++
	return nil
}

func (f *fakeBackend) pingCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pings
}

func (f *fakeBackend) closeCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

// versionedBackend also checks the engine version
type versionedBackend struct {
	*fakeBackend
	versionErr error
}

var _ backend.VersionChecker = (*versionedBackend)(nil)

func (v *versionedBackend) CheckVersion(context.Context) error {
	return v.versionErr
}

// createTestAppConfig creates a minimal valid config for testing
func createTestAppConfig() *config.Config {
	return &config.Config{
		Exclusions: map[string][]string{
			"^cert": {"CertificateResource"},
		},
		Entities: []config.EntityConfig{
			{
				ID:          "UserResource",
				PluralLabel: "Users",
				Source:      "users",
				TitleField:  "name",
				URLTemplate: "/admin/users/{id}",
			},
			{
				ID:          "CertificateResource",
				PluralLabel: "Certificates",
				Source:      "certificates",
				TitleField:  "name",
				URLTemplate: "/admin/certificates/{id}",
			},
		},
		Auth: &config.AuthConfig{
			Mode: config.AuthModeAnonymous,
		},
	}
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{records: map[string][]search.Record{
		"users":        {{ID: "1", Fields: map[string]any{"name": "Certain User"}}},
		"certificates": {{ID: "7", Fields: map[string]any{"name": "Cert A"}}},
	}}
}

// createTestApp builds a SearchApp over b listening on addr
func createTestApp(t *testing.T, b backend.Backend, addr string) *SearchApp {
	t.Helper()

	app, err := NewSearchApp(context.Background(),
		WithConfig(createTestAppConfig()),
		WithBackend(b),
		WithAddress(addr),
		WithBackendTimeout(time.Second),
	)
	require.NoError(t, err)
	return app
}

// freeAddr returns a loopback address with a port that was free a moment ago
func freeAddr(t *testing.T) string {
	t.Helper()
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := listener.Addr().String()
	require.NoError(t, listener.Close())
	return addr
}

func waitForStart(t *testing.T, errChan <-chan error) error {
	t.Helper()
	select {
	case err := <-errChan:
		return err
	case <-time.After(5 * time.Second):
		t.Fatal("Start() did not return")
		return nil
	}
}

func TestSearchApp_StartServesRequests(t *testing.T) {
	t.Parallel()

	b := newFakeBackend()
	app := createTestApp(t, b, "127.0.0.1:0")
	addr := freeAddr(t)
	app.httpServer.Addr = addr

	errChan := make(chan error, 1)
	go func() {
		errChan <- app.Start()
	}()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + addr + "/health")
		if err != nil {
			return false
		}
		_ = resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 50*time.Millisecond)

	resp, err := http.Get("http://" + addr + "/v1/search?q=cert")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	assert.GreaterOrEqual(t, b.pingCount(), 1)

	require.NoError(t, app.Stop(5*time.Second))
	require.NoError(t, waitForStart(t, errChan))
	assert.Equal(t, 1, b.closeCount())
}

func TestSearchApp_StartRetriesBackend(t *testing.T) {
	t.Parallel()

	b := newFakeBackend()
	b.pingErrs = []error{errors.New("connection refused")}

	app, err := NewSearchApp(context.Background(),
		WithConfig(createTestAppConfig()),
		WithBackend(b),
		WithAddress("127.0.0.1:0"),
		WithBackendTimeout(10*time.Second),
	)
	require.NoError(t, err)

	errChan := make(chan error, 1)
	go func() {
		errChan <- app.Start()
	}()

	require.Eventually(t, func() bool { return b.pingCount() >= 2 }, 5*time.Second, 20*time.Millisecond)

	require.NoError(t, app.Stop(5*time.Second))
	require.NoError(t, waitForStart(t, errChan))
}

func TestSearchApp_StartFailsWhenBackendNeverReady(t *testing.T) {
	t.Parallel()

	down := errors.New("connection refused")
	b := newFakeBackend()
	b.pingErrs = []error{down, down, down, down, down, down, down, down}

	app, err := NewSearchApp(context.Background(),
		WithConfig(createTestAppConfig()),
		WithBackend(b),
		WithAddress("127.0.0.1:0"),
		WithBackendTimeout(200*time.Millisecond),
	)
	require.NoError(t, err)

	errChan := make(chan error, 1)
	go func() {
		errChan <- app.Start()
	}()

	startErr := waitForStart(t, errChan)
	require.ErrorIs(t, startErr, down)
	assert.Contains(t, startErr.Error(), "search backend fake not ready")
}

func TestSearchApp_StartFailsOnUnsupportedVersion(t *testing.T) {
	t.Parallel()

	tooOld := errors.New("server version 0.9.0 is older than 1.0.0")
	app := createTestApp(t, &versionedBackend{fakeBackend: newFakeBackend(), versionErr: tooOld}, "127.0.0.1:0")

	errChan := make(chan error, 1)
	go func() {
		errChan <- app.Start()
	}()

	startErr := waitForStart(t, errChan)
	require.ErrorIs(t, startErr, tooOld)
}

func TestSearchApp_StartError_AddressInUse(t *testing.T) {
	t.Parallel()

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer listener.Close()

	app := createTestApp(t, newFakeBackend(), "127.0.0.1:0")
	app.httpServer.Addr = listener.Addr().String()

	errChan := make(chan error, 1)
	go func() {
		errChan <- app.Start()
	}()

	startErr := waitForStart(t, errChan)
	require.Error(t, startErr)
	assert.Contains(t, startErr.Error(), "HTTP server failed")
}

func TestSearchApp_Stop(t *testing.T) {
	t.Parallel()

	t.Run("without starting first", func(t *testing.T) {
		t.Parallel()

		b := newFakeBackend()
		app := createTestApp(t, b, ":0")

		require.NoError(t, app.Stop(time.Second))
		assert.Equal(t, 1, b.closeCount())
	})

	t.Run("nil cancel func", func(t *testing.T) {
		t.Parallel()

		app := createTestApp(t, newFakeBackend(), ":0")
		app.cancelFunc = nil

		require.NoError(t, app.Stop(time.Second))
	})
}

func TestSearchApp_Getters(t *testing.T) {
	t.Parallel()

	b := newFakeBackend()
	app := createTestApp(t, b, ":8080")

	require.NotNil(t, app.GetConfig())
	assert.Len(t, app.GetConfig().Entities, 2)
	assert.Equal(t, ":8080", app.GetHTTPServer().Addr)

	components := app.GetComponents()
	assert.Same(t, b, components.Backend)
	assert.Equal(t, 1, components.Registry.Len())
	assert.NotNil(t, components.SearchService)
}
