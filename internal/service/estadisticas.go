// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/aromero/farmagestor/internal/logger"
	"github.com/aromero/farmagestor/internal/repository"
	"github.com/aromero/farmagestor/internal/utils"
	"github.com/aromero/farmagestor/models"
)

// Reporting periods.
const (
	PeriodoSemana    = "semana"
	PeriodoMes       = "mes"
	PeriodoTrimestre = "trimestre"
	PeriodoAno       = "año"
)

// topProductosLimit caps the product ranking length.
const topProductosLimit = 5

// PuntoDiario is one day of an aggregated time series.
type PuntoDiario struct {
	Fecha string  `json:"fecha"`
	Total float64 `json:"total"`
	Count int     `json:"count"`
}

// ProductoRanking is one row of the top-products ranking.
type ProductoRanking struct {
	Nombre   string  `json:"nombre"`
	Cantidad float64 `json:"cantidad"`
	Total    float64 `json:"total"`
}

// ResumenCobros splits collected amounts by payment type.
type ResumenCobros struct {
	TotalAbonos        float64 `json:"totalAbonos"`
	CountAbonos        int     `json:"countAbonos"`
	TotalCancelaciones float64 `json:"totalCancelaciones"`
	CountCancelaciones int     `json:"countCancelaciones"`
}

// KPIs are the headline figures of a reporting period.
type KPIs struct {
	TotalVentas    float64 `json:"totalVentas"`
	TotalCobrado   float64 `json:"totalCobrado"`
	TotalPedidos   int     `json:"totalPedidos"`
	TotalVisitas   int     `json:"totalVisitas"`
	PromedioVenta  float64 `json:"promedioVenta"`
	TasaConversion float64 `json:"tasaConversion"`
}

// Estadisticas is the full statistics report for one period.
type Estadisticas struct {
	Periodo       string            `json:"periodo"`
	Desde         time.Time         `json:"desde"`
	VentasPorDia  []PuntoDiario     `json:"ventasPorDia"`
	TopProductos  []ProductoRanking `json:"topProductos"`
	Cobros        ResumenCobros     `json:"cobros"`
	VisitasPorDia []PuntoDiario     `json:"visitasPorDia"`
	KPIs          KPIs              `json:"kpis"`
}

// EstadisticasService derives reports from the ledger, cobros and visits.
type EstadisticasService interface {
	// GetEstadisticas builds the report for periodo (semana, mes, trimestre
	// or año). An unknown periodo is a validation error.
	GetEstadisticas(ctx context.Context, periodo string) (Estadisticas, error)
}

type estadisticasService struct {
	historial repository.HistorialRepository
	cobros    repository.CobroRepository
	visitas   repository.VisitaRepository
	clock     utils.Clock
	logger    *logger.Logger
}

func NewEstadisticasService(
	historial repository.HistorialRepository,
	cobros repository.CobroRepository,
	visitas repository.VisitaRepository,
	clock utils.Clock,
	logger *logger.Logger,
) EstadisticasService {
	return &estadisticasService{historial: historial, cobros: cobros, visitas: visitas, clock: clock, logger: logger}
}

func periodoDuration(periodo string) (time.Duration, error) {
	switch periodo {
	case PeriodoSemana:
		return 7 * 24 * time.Hour, nil
	case PeriodoMes:
		return 30 * 24 * time.Hour, nil
	case PeriodoTrimestre:
		return 90 * 24 * time.Hour, nil
	case PeriodoAno:
		return 365 * 24 * time.Hour, nil
	default:
		return 0, fmt.Errorf("%w: unknown period %q", ErrValidation, periodo)
	}
}

func (s *estadisticasService) GetEstadisticas(ctx context.Context, periodo string) (Estadisticas, error) {
	span, err := periodoDuration(periodo)
	if err != nil {
		return Estadisticas{}, err
	}

	now := s.clock.Now()
	desde := now.Add(-span)

	docs, err := s.historial.ListDesde(ctx, desde)
	if err != nil {
		return Estadisticas{}, fmt.Errorf("error listing documents: %w", err)
	}

	cobros, err := s.cobros.List(ctx)
	if err != nil {
		return Estadisticas{}, fmt.Errorf("error listing cobros: %w", err)
	}

	visitas, err := s.visitas.List(ctx)
	if err != nil {
		return Estadisticas{}, fmt.Errorf("error listing visits: %w", err)
	}

	stats := Estadisticas{Periodo: periodo, Desde: desde}

	ventasPorDia := make(map[string]*PuntoDiario)
	productos := make(map[string]*ProductoRanking)
	pedidos := 0

	for _, d := range docs {
		if d.Tipo != models.DocumentoPedido {
			continue
		}
		pedidos++
		stats.KPIs.TotalVentas += d.Total

		dia := d.Fecha.Format("2006-01-02")
		p, ok := ventasPorDia[dia]
		if !ok {
			p = &PuntoDiario{Fecha: dia}
			ventasPorDia[dia] = p
		}
		p.Total += d.Total
		p.Count++

		for _, l := range d.Productos {
			r, ok := productos[l.Nombre]
			if !ok {
				r = &ProductoRanking{Nombre: l.Nombre}
				productos[l.Nombre] = r
			}
			r.Cantidad += l.Cantidad
			r.Total += l.Precio * l.Cantidad
		}
	}

	for _, c := range cobros {
		if c.CreatedAt.Before(desde) {
			continue
		}
		switch c.Tipo {
		case models.CobroAbono:
			stats.Cobros.TotalAbonos += c.Cantidad
			stats.Cobros.CountAbonos++
		case models.CobroCancelacion:
			stats.Cobros.TotalCancelaciones += c.Cantidad
			stats.Cobros.CountCancelaciones++
		}
	}
	stats.KPIs.TotalCobrado = stats.Cobros.TotalAbonos + stats.Cobros.TotalCancelaciones

	visitasPorDia := make(map[string]*PuntoDiario)
	for _, v := range visitas {
		if v.Fecha.Before(desde) {
			continue
		}
		stats.KPIs.TotalVisitas++

		dia := v.Fecha.Format("2006-01-02")
		p, ok := visitasPorDia[dia]
		if !ok {
			p = &PuntoDiario{Fecha: dia}
			visitasPorDia[dia] = p
		}
		p.Count++
	}

	stats.KPIs.TotalPedidos = pedidos
	if pedidos > 0 {
		stats.KPIs.PromedioVenta = stats.KPIs.TotalVentas / float64(pedidos)
	}
	if stats.KPIs.TotalVisitas > 0 {
		stats.KPIs.TasaConversion = float64(pedidos) / float64(stats.KPIs.TotalVisitas) * 100
	}

	stats.VentasPorDia = sortPuntos(ventasPorDia)
	stats.VisitasPorDia = sortPuntos(visitasPorDia)
	stats.TopProductos = topProductos(productos, topProductosLimit)

	return stats, nil
}

func sortPuntos(byDay map[string]*PuntoDiario) []PuntoDiario {
	out := make([]PuntoDiario, 0, len(byDay))
	for _, p := range byDay {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Fecha < out[j].Fecha })
	return out
}

func topProductos(byName map[string]*ProductoRanking, limit int) []ProductoRanking {
	out := make([]ProductoRanking, 0, len(byName))
	for _, r := range byName {
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Cantidad != out[j].Cantidad {
			return out[i].Cantidad > out[j].Cantidad
		}
		return out[i].Nombre < out[j].Nombre
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}
