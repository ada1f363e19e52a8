package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aromero/farmagestor/internal/logger"
	"github.com/aromero/farmagestor/internal/repository"
	"github.com/aromero/farmagestor/models"
)

func newTestEstadisticas(t *testing.T, repos *repository.Repositories, clock *fakeClock) EstadisticasService {
	t.Helper()
	return NewEstadisticasService(repos.Historial, repos.Cobros, repos.Visitas, clock, logger.Nop())
}

func TestEstadisticas_UnknownPeriodo(t *testing.T) {
	repos := newTestRepos(t)
	s := newTestEstadisticas(t, repos, newFakeClock(time.Now()))

	_, err := s.GetEstadisticas(context.Background(), "decada")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestEstadisticas_WeeklyReport(t *testing.T) {
	ctx := context.Background()
	repos := newTestRepos(t)
	clock := newFakeClock(time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC))
	now := clock.Now()
	s := newTestEstadisticas(t, repos, clock)

	require.NoError(t, repos.Historial.Add(ctx, models.Documento{
		ID: "d1", Tipo: models.DocumentoPedido, Cliente: "Ana", Fecha: now.Add(-3 * 24 * time.Hour),
		Productos: []models.LineaDocumento{
			{Nombre: "Paracetamol", Precio: 10, Cantidad: 6},
			{Nombre: "Ibuprofeno", Precio: 20, Cantidad: 2},
		},
		Total: 100,
	}))
	// outside the week, must not count
	require.NoError(t, repos.Historial.Add(ctx, models.Documento{
		ID: "d2", Tipo: models.DocumentoPedido, Cliente: "Ana", Fecha: now.Add(-40 * 24 * time.Hour),
		Productos: []models.LineaDocumento{{Nombre: "Aspirina", Precio: 500, Cantidad: 1}},
		Total:     500,
	}))
	// proformas never count as sales
	require.NoError(t, repos.Historial.Add(ctx, models.Documento{
		ID: "d3", Tipo: models.DocumentoProforma, Cliente: "Luis", Fecha: now.Add(-time.Hour),
		Productos: []models.LineaDocumento{{Nombre: "Aspirina", Precio: 50, Cantidad: 1}},
		Total:     50,
	}))

	require.NoError(t, repos.Cobros.Add(ctx, models.Cobro{ID: "c1", Cliente: "Ana", Cantidad: 50, Tipo: models.CobroAbono, CreatedAt: now.Add(-24 * time.Hour)}))
	require.NoError(t, repos.Cobros.Add(ctx, models.Cobro{ID: "c2", Cliente: "Ana", Cantidad: 30, Tipo: models.CobroCancelacion, CreatedAt: now.Add(-24 * time.Hour)}))
	require.NoError(t, repos.Cobros.Add(ctx, models.Cobro{ID: "c3", Cliente: "Ana", Cantidad: 999, Tipo: models.CobroAbono, CreatedAt: now.Add(-60 * 24 * time.Hour)}))

	require.NoError(t, repos.Visitas.Add(ctx, models.Visita{ID: "v1", Cliente: "Ana", Fecha: now.Add(-2 * 24 * time.Hour)}))
	require.NoError(t, repos.Visitas.Add(ctx, models.Visita{ID: "v2", Cliente: "Luis", Fecha: now.Add(-2 * 24 * time.Hour)}))
	require.NoError(t, repos.Visitas.Add(ctx, models.Visita{ID: "v3", Cliente: "Luis", Fecha: now.Add(-20 * 24 * time.Hour)}))

	stats, err := s.GetEstadisticas(ctx, PeriodoSemana)
	require.NoError(t, err)

	assert.Equal(t, 100.0, stats.KPIs.TotalVentas)
	assert.Equal(t, 1, stats.KPIs.TotalPedidos)
	assert.Equal(t, 2, stats.KPIs.TotalVisitas)
	assert.Equal(t, 100.0, stats.KPIs.PromedioVenta)
	assert.Equal(t, 50.0, stats.KPIs.TasaConversion)
	assert.Equal(t, 80.0, stats.KPIs.TotalCobrado)

	assert.Equal(t, 50.0, stats.Cobros.TotalAbonos)
	assert.Equal(t, 1, stats.Cobros.CountAbonos)
	assert.Equal(t, 30.0, stats.Cobros.TotalCancelaciones)
	assert.Equal(t, 1, stats.Cobros.CountCancelaciones)

	require.Len(t, stats.VentasPorDia, 1)
	assert.Equal(t, now.Add(-3*24*time.Hour).Format("2006-01-02"), stats.VentasPorDia[0].Fecha)
	assert.Equal(t, 100.0, stats.VentasPorDia[0].Total)

	require.Len(t, stats.VisitasPorDia, 1)
	assert.Equal(t, 2, stats.VisitasPorDia[0].Count)

	// ranked by units sold, not revenue
	require.Len(t, stats.TopProductos, 2)
	assert.Equal(t, "Paracetamol", stats.TopProductos[0].Nombre)
	assert.Equal(t, 6.0, stats.TopProductos[0].Cantidad)
	assert.Equal(t, "Ibuprofeno", stats.TopProductos[1].Nombre)
}

func TestEstadisticas_TopProductosLimit(t *testing.T) {
	ctx := context.Background()
	repos := newTestRepos(t)
	clock := newFakeClock(time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC))
	s := newTestEstadisticas(t, repos, clock)

	lineas := make([]models.LineaDocumento, 0, 8)
	for _, nombre := range []string{"A", "B", "C", "D", "E", "F", "G", "H"} {
		lineas = append(lineas, models.LineaDocumento{Nombre: nombre, Precio: 1, Cantidad: 1})
	}
	require.NoError(t, repos.Historial.Add(ctx, models.Documento{
		ID: "d1", Tipo: models.DocumentoPedido, Cliente: "Ana", Fecha: clock.Now(), Productos: lineas,
	}))

	stats, err := s.GetEstadisticas(ctx, PeriodoMes)
	require.NoError(t, err)
	assert.Len(t, stats.TopProductos, 5)
}
