// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aromero/farmagestor/internal/logger"
	"github.com/aromero/farmagestor/models"
)

func writeLegacyFile(t *testing.T, content map[string]any) string {
	t.Helper()

	data, err := json.Marshal(content)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "legacy.json")
	require.NoError(t, os.WriteFile(path, data, 0o600))

	return path
}

func TestMigrator_Open_NoLegacyFile(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	rs := NewRecordStore(db, logger.Nop())

	m := NewMigrator(db, rs, "", logger.Nop())
	require.NoError(t, m.Open(ctx))

	assert.Equal(t, StateReady, m.State())

	// both phases must be flagged done so later opens skip the import
	v3, err := rs.Get(ctx, CollectionConfig, models.ConfigMigrationV3Done)
	require.NoError(t, err)
	assert.JSONEq(t, "true", string(v3))

	v4, err := rs.Get(ctx, CollectionConfig, models.ConfigMigrationV4Done)
	require.NoError(t, err)
	assert.JSONEq(t, "true", string(v4))
}

func TestMigrator_Open_ImportsLegacyCollections(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	rs := NewRecordStore(db, logger.Nop())

	path := writeLegacyFile(t, map[string]any{
		"ListaProductos": []map[string]any{
			{"ID": "p1", "NombreProducto": "Ibuprofeno", "PrecioFarmacia": 12.5},
		},
		"farmacia_clientes": []map[string]any{
			{"id": "c1", "nombre": "Ana", "clasificacion": "B"},
		},
		// double-encoded value: a JSON string containing JSON
		"farmacia_cobros": `[{"id":"cb1","cliente":"Ana","cantidad":50,"tipo":"Abono","fecha":"2026-08-01"}]`,
		"app_users": []map[string]any{
			{"id": 1, "username": "romero30", "role": "admin"},
			{"username": "nuevo", "role": "vendedor"}, // no id: must be assigned
		},
		"VisitasDiarias": []map[string]any{
			{"cliente": "Ana", "lugar": "Centro"}, // no id: must be generated
		},
	})

	m := NewMigrator(db, rs, path, logger.Nop())
	require.NoError(t, m.Open(ctx))
	require.Equal(t, StateReady, m.State())

	got, err := rs.Get(ctx, CollectionProductos, "p1")
	require.NoError(t, err)
	var p models.Producto
	require.NoError(t, json.Unmarshal(got, &p))
	assert.Equal(t, "Ibuprofeno", p.Nombre)

	_, err = rs.Get(ctx, CollectionClientes, "c1")
	assert.NoError(t, err)

	// double-encoded source must decode the same as a plain one
	_, err = rs.Get(ctx, CollectionCobros, "cb1")
	assert.NoError(t, err)

	// account without id gets the next free one
	users, err := rs.GetAll(ctx, CollectionUsuarios)
	require.NoError(t, err)
	require.Len(t, users, 2)
	var maxID int64
	for _, raw := range users {
		var u models.Usuario
		require.NoError(t, json.Unmarshal(raw, &u))
		require.NotZero(t, u.ID)
		if u.ID > maxID {
			maxID = u.ID
		}
	}
	assert.EqualValues(t, 2, maxID)

	visitas, err := rs.GetAll(ctx, CollectionVisitas)
	require.NoError(t, err)
	require.Len(t, visitas, 1)
	var v models.Visita
	require.NoError(t, json.Unmarshal(visitas[0], &v))
	assert.Contains(t, v.ID, "visita_")

	// legacy file is erased after a successful import
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestMigrator_Open_MergesHistorialSources(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	rs := NewRecordStore(db, logger.Nop())

	path := writeLegacyFile(t, map[string]any{
		"farmacia_historial": []map[string]any{
			// no id: receives a generated legacy_<ts>_<n> id
			{"cliente": "Ana", "productos": []map[string]any{{"nombre": "X", "precio": 10.0, "cantidad": 2}}},
			{"id": "doc1", "cliente": "Luis", "total": 99.0},
		},
		"farmacia_historial_documentos": []map[string]any{
			// same id as the old entry: the newer source wins
			{"id": "doc1", "cliente": "Luis Actualizado", "total": 120.0},
		},
	})

	m := NewMigrator(db, rs, path, logger.Nop())
	require.NoError(t, m.Open(ctx))

	records, err := rs.GetAll(ctx, CollectionHistorial)
	require.NoError(t, err)
	require.Len(t, records, 2)

	got, err := rs.Get(ctx, CollectionHistorial, "doc1")
	require.NoError(t, err)
	var d models.Documento
	require.NoError(t, json.Unmarshal(got, &d))
	assert.Equal(t, "Luis Actualizado", d.Cliente)
	assert.InDelta(t, 120.0, d.Total, 0.001)

	// the entry without an id gets a generated key and a computed total
	for _, raw := range records {
		var doc models.Documento
		require.NoError(t, json.Unmarshal(raw, &doc))
		if doc.ID == "doc1" {
			continue
		}
		assert.Contains(t, doc.ID, "legacy_")
		assert.InDelta(t, 20.0, doc.Total, 0.001)
	}
}

func TestMigrator_Open_CorruptCollectionIsIsolated(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	rs := NewRecordStore(db, logger.Nop())

	path := writeLegacyFile(t, map[string]any{
		"ListaProductos":    "{{{not json at all",
		"farmacia_clientes": []map[string]any{{"id": "c1", "nombre": "Ana"}},
	})

	m := NewMigrator(db, rs, path, logger.Nop())
	require.NoError(t, m.Open(ctx))
	assert.Equal(t, StateReady, m.State())

	// the corrupt collection is skipped, the healthy one lands
	count, err := rs.Count(ctx, CollectionProductos)
	require.NoError(t, err)
	assert.EqualValues(t, 0, count)

	_, err = rs.Get(ctx, CollectionClientes, "c1")
	assert.NoError(t, err)
}

func TestMigrator_Open_IsIdempotent(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	rs := NewRecordStore(db, logger.Nop())

	path := writeLegacyFile(t, map[string]any{
		"farmacia_clientes": []map[string]any{{"id": "c1", "nombre": "Ana"}},
	})

	m := NewMigrator(db, rs, path, logger.Nop())
	require.NoError(t, m.Open(ctx))
	require.NoError(t, m.Open(ctx))
	assert.Equal(t, StateReady, m.State())

	// a migrator on the same store with a fresh legacy file must not
	// re-import: the flags guard the phases, not the file
	stale := writeLegacyFile(t, map[string]any{
		"farmacia_clientes": []map[string]any{{"id": "c2", "nombre": "Otro"}},
	})
	m2 := NewMigrator(db, rs, stale, logger.Nop())
	require.NoError(t, m2.Open(ctx))

	count, err := rs.Count(ctx, CollectionClientes)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}
