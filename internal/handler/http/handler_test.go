// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/aromero/farmagestor/internal/config"
	"github.com/aromero/farmagestor/internal/logger"
	"github.com/aromero/farmagestor/internal/mock"
	"github.com/aromero/farmagestor/internal/notify"
	"github.com/aromero/farmagestor/internal/repository"
	"github.com/aromero/farmagestor/internal/service"
	"github.com/aromero/farmagestor/internal/store"
	"github.com/aromero/farmagestor/internal/utils"
	"github.com/aromero/farmagestor/models"
)

func testConfig() *config.Config {
	return &config.Config{
		App: config.App{
			TokenSignKey:  "test-sign-key",
			TokenIssuer:   "farmagestor-test",
			TokenDuration: time.Hour,
			Version:       "test",
		},
		Workers: config.Workers{
			PollInterval:        time.Hour,
			Tolerance:           30 * time.Second,
			Retention:           7 * 24 * time.Hour,
			BackupHour:          19,
			BackupCheckInterval: time.Hour,
			BackupMinInterval:   time.Hour,
		},
	}
}

// fixedClock pins Now() so handlers that stamp timestamps are assertable.
type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time { return c.now }

func newTestServer(t *testing.T) (*httptest.Server, *repository.Repositories) {
	t.Helper()
	return newTestServerWithClock(t, utils.NewSystemClock())
}

func newTestServerWithClock(t *testing.T, clock utils.Clock) (*httptest.Server, *repository.Repositories) {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "test.db")
	db, err := store.NewConnectSQLite(context.Background(), config.DB{DSN: dsn}, logger.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, db.Migrate())

	repos := repository.NewRepositories(&store.Storages{DB: db, Records: store.NewRecordStore(db, logger.Nop())}, logger.Nop())

	ctrl := gomock.NewController(t)
	permissions := mock.NewMockPermissions(ctrl)
	permissions.EXPECT().Request(gomock.Any()).Return(notify.PermissionGranted, nil).AnyTimes()
	notifier := mock.NewMockNotifier(ctrl)
	notifier.EXPECT().Show(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	cfg := testConfig()
	services := service.NewServices(service.Deps{
		Repos:       repos,
		Config:      cfg,
		Permissions: permissions,
		Notifier:    notifier,
		Clock:       clock,
		Logger:      logger.Nop(),
	})

	h := NewHandler(services, repos, cfg.App, clock, logger.Nop())
	srv := httptest.NewServer(h.Init())
	t.Cleanup(srv.Close)

	return srv, repos
}

func doJSON(t *testing.T, method, url, token string, body any) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })

	return resp
}

func loginToken(t *testing.T, srv *httptest.Server) string {
	t.Helper()

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/user/login", "", map[string]string{
		"username": "romero30",
		"password": "romero_30",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	authHeader := resp.Header.Get("Authorization")
	require.NotEmpty(t, authHeader)

	var token string
	_, err := fmt.Sscanf(authHeader, "Bearer %s", &token)
	require.NoError(t, err)
	return token
}

func TestHandler_LoginAndCurrentUser(t *testing.T) {
	srv, _ := newTestServer(t)
	token := loginToken(t, srv)

	resp := doJSON(t, http.MethodGet, srv.URL+"/api/user/current", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var user models.Usuario
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&user))
	assert.Equal(t, "Antonio Romero", user.Nombre)
	assert.Empty(t, user.Password)
}

func TestHandler_LoginRejectsWrongPassword(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/user/login", "", map[string]string{
		"username": "romero30",
		"password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestHandler_AuthMiddlewareRejects(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := doJSON(t, http.MethodGet, srv.URL+"/api/productos/", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = doJSON(t, http.MethodGet, srv.URL+"/api/productos/", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestHandler_ProductoCRUD(t *testing.T) {
	srv, _ := newTestServer(t)
	token := loginToken(t, srv)

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/productos/", token, models.Producto{
		ID: "p1", Nombre: "Paracetamol", Precio: 10,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	// duplicate id is a conflict
	resp = doJSON(t, http.MethodPost, srv.URL+"/api/productos/", token, models.Producto{
		ID: "p1", Nombre: "Otro",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp = doJSON(t, http.MethodGet, srv.URL+"/api/productos/p1", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var producto models.Producto
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&producto))
	assert.Equal(t, "Paracetamol", producto.Nombre)

	resp = doJSON(t, http.MethodDelete, srv.URL+"/api/productos/p1", token, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = doJSON(t, http.MethodGet, srv.URL+"/api/productos/p1", token, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestHandler_AddVisitaStampsInjectedClock(t *testing.T) {
	now := time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC)
	srv, _ := newTestServerWithClock(t, fixedClock{now: now})
	token := loginToken(t, srv)

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/visitas/", token, models.Visita{
		Cliente: "Farmacia Central",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var visita models.Visita
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&visita))
	assert.True(t, visita.Fecha.Equal(now), "missing fecha takes the handler clock, got %s", visita.Fecha)
}

func TestHandler_CobroValidationMapsTo400(t *testing.T) {
	srv, _ := newTestServer(t)
	token := loginToken(t, srv)

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/cobros/", token, models.Cobro{
		Cliente: "Ana", Cantidad: -5, Tipo: models.CobroAbono,
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHandler_SaldosPendientes(t *testing.T) {
	srv, _ := newTestServer(t)
	token := loginToken(t, srv)

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/historial/", token, models.Documento{
		Tipo: models.DocumentoPedido, Cliente: "Ana",
		Productos: []models.LineaDocumento{{Nombre: "x", Precio: 50, Cantidad: 2}},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = doJSON(t, http.MethodPost, srv.URL+"/api/cobros/", token, models.Cobro{
		Cliente: "ana", Cantidad: 40, Tipo: models.CobroAbono,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = doJSON(t, http.MethodGet, srv.URL+"/api/saldos", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var saldos []service.SaldoPendiente
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&saldos))
	require.Len(t, saldos, 1)
	assert.Equal(t, 60.0, saldos[0].Saldo)
}

func TestHandler_EstadisticasRejectsUnknownPeriodo(t *testing.T) {
	srv, _ := newTestServer(t)
	token := loginToken(t, srv)

	resp := doJSON(t, http.MethodGet, srv.URL+"/api/estadisticas?periodo=decada", token, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHandler_VersionIsPublic(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := doJSON(t, http.MethodGet, srv.URL+"/api/version", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
