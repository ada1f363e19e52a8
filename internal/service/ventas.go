// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/aromero/farmagestor/internal/logger"
	"github.com/aromero/farmagestor/internal/repository"
	"github.com/aromero/farmagestor/internal/store"
	"github.com/aromero/farmagestor/internal/utils"
	"github.com/aromero/farmagestor/models"
)

// SaldoPendiente is the outstanding balance of one client, matched across
// documents and cobros by normalized display name.
type SaldoPendiente struct {
	Cliente string  `json:"cliente"`
	Pedidos float64 `json:"pedidos"`
	Cobrado float64 `json:"cobrado"`
	Saldo   float64 `json:"saldo"`
}

// VentasService records sales documents and derives outstanding balances.
type VentasService interface {
	// CrearDocumento appends a document to the ledger. The total is always
	// recomputed from the line items, ignoring whatever the caller set.
	CrearDocumento(ctx context.Context, d models.Documento) (models.Documento, error)

	// GetSaldosPendientes returns one entry per client whose pedido totals
	// exceed the sum of their recorded cobros.
	GetSaldosPendientes(ctx context.Context) ([]SaldoPendiente, error)
}

type ventasService struct {
	historial repository.HistorialRepository
	cobros    repository.CobroRepository
	clientes  repository.ClienteRepository
	ids       *utils.IDGenerator
	clock     utils.Clock
	logger    *logger.Logger
}

func NewVentasService(
	historial repository.HistorialRepository,
	cobros repository.CobroRepository,
	clientes repository.ClienteRepository,
	ids *utils.IDGenerator,
	clock utils.Clock,
	logger *logger.Logger,
) VentasService {
	return &ventasService{
		historial: historial,
		cobros:    cobros,
		clientes:  clientes,
		ids:       ids,
		clock:     clock,
		logger:    logger,
	}
}

func (s *ventasService) CrearDocumento(ctx context.Context, d models.Documento) (models.Documento, error) {
	if d.Cliente == "" {
		return models.Documento{}, fmt.Errorf("%w: documento needs a cliente", ErrValidation)
	}
	if d.Tipo != models.DocumentoPedido && d.Tipo != models.DocumentoProforma {
		return models.Documento{}, fmt.Errorf("%w: unknown document type %q", ErrValidation, d.Tipo)
	}
	if len(d.Productos) == 0 {
		return models.Documento{}, fmt.Errorf("%w: documento needs at least one line", ErrValidation)
	}

	now := s.clock.Now()

	if d.ID == "" {
		d.ID = s.ids.Generate(d.Tipo)
	}
	if d.Fecha.IsZero() {
		d.Fecha = now
	}
	d.CreatedAt = now
	d.Total = d.TotalLineas()

	if err := s.historial.Add(ctx, d); err != nil {
		return models.Documento{}, fmt.Errorf("error recording document: %w", err)
	}

	// classification is a cached derivation; a failure here never loses the
	// sale that was already recorded
	if err := s.reclassifyCliente(ctx, d); err != nil {
		s.logger.Err(err).
			Str("func", "ventasService.CrearDocumento").
			Str("cliente", d.Cliente).
			Msg("failed to reclassify client after sale")
	}

	return d, nil
}

// reclassifyCliente recomputes the client's purchase tier from the whole
// ledger after a new pedido.
func (s *ventasService) reclassifyCliente(ctx context.Context, d models.Documento) error {
	if d.Tipo != models.DocumentoPedido {
		return nil
	}

	cliente, err := s.clientes.FindByNombre(ctx, d.Cliente)
	if errors.Is(err, store.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	docs, err := s.historial.List(ctx)
	if err != nil {
		return err
	}

	var total float64
	wanted := repository.NormalizeNombre(d.Cliente)
	for _, doc := range docs {
		if doc.Tipo == models.DocumentoPedido && repository.NormalizeNombre(doc.Cliente) == wanted {
			total += doc.Total
		}
	}

	clasificacion := models.ClasificacionPorCompras(total)
	if clasificacion == cliente.Clasificacion {
		return nil
	}

	cliente.Clasificacion = clasificacion
	cliente.UpdatedAt = s.clock.Now()
	return s.clientes.Save(ctx, cliente)
}

func (s *ventasService) GetSaldosPendientes(ctx context.Context) ([]SaldoPendiente, error) {
	docs, err := s.historial.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing documents: %w", err)
	}

	cobros, err := s.cobros.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing cobros: %w", err)
	}

	type acc struct {
		display string
		pedidos float64
		cobrado float64
	}
	byCliente := make(map[string]*acc)

	for _, d := range docs {
		if d.Tipo != models.DocumentoPedido || d.Cliente == "" {
			continue
		}
		key := repository.NormalizeNombre(d.Cliente)
		a, ok := byCliente[key]
		if !ok {
			a = &acc{display: d.Cliente}
			byCliente[key] = a
		}
		a.pedidos += d.Total
	}

	for _, c := range cobros {
		key := repository.NormalizeNombre(c.Cliente)
		if a, ok := byCliente[key]; ok {
			a.cobrado += c.Cantidad
		}
	}

	var saldos []SaldoPendiente
	for _, a := range byCliente {
		saldo := a.pedidos - a.cobrado
		if saldo <= 0 {
			continue
		}
		saldos = append(saldos, SaldoPendiente{
			Cliente: a.display,
			Pedidos: a.pedidos,
			Cobrado: a.cobrado,
			Saldo:   saldo,
		})
	}

	sort.Slice(saldos, func(i, j int) bool { return saldos[i].Saldo > saldos[j].Saldo })
	return saldos, nil
}
