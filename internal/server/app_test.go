package server

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/krishisahayak/internal/logging"
	"github.com/dmitrijs2005/krishisahayak/internal/server/config"
	"github.com/dmitrijs2005/krishisahayak/internal/server/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRunner struct {
	err     error
	stopped chan struct{}
}

func (r *fakeRunner) Run(ctx context.Context) error {
	defer close(r.stopped)
	if r.err != nil {
		return r.err
	}
	<-ctx.Done()
	return nil
}

func newRunner(err error) *fakeRunner {
	return &fakeRunner{err: err, stopped: make(chan struct{})}
}

func sqliteConfig(t *testing.T) *config.Config {
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.DatabaseDriver = config.DriverSQLite
	cfg.DatabaseDSN = "file:" + t.Name() + "?mode=memory&cache=shared"
	cfg.GeminiAPIKey = "test-key"
	cfg.GRPCHealthAddr = ""
	return cfg
}

func TestNewApp_InvalidConfig(t *testing.T) {
	cfg := sqliteConfig(t)
	cfg.GeminiAPIKey = ""

	_, err := NewApp(context.Background(), cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "gemini_api_key")
}

func TestNewApp_SQLite(t *testing.T) {
	cfg := sqliteConfig(t)

	app, err := NewApp(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.db.Close() })

	assert.NotNil(t, app.http)
	assert.Nil(t, app.health)

	var n int
	require.NoError(t, app.db.Get(&n, "SELECT COUNT(*) FROM chat_history"))
	assert.Zero(t, n)
}

func TestNewApp_HealthServerWhenAddressSet(t *testing.T) {
	cfg := sqliteConfig(t)
	cfg.GRPCHealthAddr = "127.0.0.1:0"

	app, err := NewApp(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.db.Close() })

	assert.NotNil(t, app.health)
}

func TestApp_Run_FailureStopsEverything(t *testing.T) {
	ctx := context.Background()
	db, err := storage.Open(ctx, storage.DriverSQLite, "file:"+t.Name()+"?mode=memory&cache=shared", 1)
	require.NoError(t, err)

	errInUse := errors.New("address in use")
	httpSrv := newRunner(errInUse)
	healthSrv := newRunner(nil)
	app := &App{config: sqliteConfig(t), logger: logging.Nop(), db: db, http: httpSrv, health: healthSrv}

	done := make(chan error, 1)
	go func() {
		done <- app.Run(ctx)
	}()

	select {
	case err := <-done:
		require.Error(t, err)
		assert.ErrorIs(t, err, errInUse)
		assert.Contains(t, err.Error(), "http server")
	case <-time.After(5 * time.Second):
		t.Fatal("app did not stop after server failure")
	}

	<-healthSrv.stopped
	assert.Error(t, db.Ping(), "database should be closed")
}

func TestApp_Run_HealthFailureReported(t *testing.T) {
	ctx := context.Background()
	db, err := storage.Open(ctx, storage.DriverSQLite, "file:"+t.Name()+"?mode=memory&cache=shared", 1)
	require.NoError(t, err)

	errBind := errors.New("bind: permission denied")
	httpSrv := newRunner(nil)
	app := &App{config: sqliteConfig(t), logger: logging.Nop(), db: db, http: httpSrv, health: newRunner(errBind)}

	err = app.Run(ctx)
	require.ErrorIs(t, err, errBind)
	assert.Contains(t, err.Error(), "grpc_health server")
	<-httpSrv.stopped
}

func TestApp_Run_ContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	db, err := storage.Open(ctx, storage.DriverSQLite, "file:"+t.Name()+"?mode=memory&cache=shared", 1)
	require.NoError(t, err)

	httpSrv := newRunner(nil)
	app := &App{config: sqliteConfig(t), logger: logging.Nop(), db: db, http: httpSrv}

	done := make(chan error, 1)
	go func() {
		done <- app.Run(ctx)
	}()

	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err, "a clean shutdown is not an error")
	case <-time.After(5 * time.Second):
		t.Fatal("app did not stop after cancel")
	}
	<-httpSrv.stopped
}
