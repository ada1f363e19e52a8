// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package repository

import (
	"context"
	"fmt"

	"github.com/aromero/farmagestor/internal/logger"
	"github.com/aromero/farmagestor/internal/store"
	"github.com/aromero/farmagestor/models"
)

// UsuarioRepository manages application accounts. An empty collection is
// seeded with the factory accounts on first use so a fresh install can
// always log in.
type UsuarioRepository interface {
	List(ctx context.Context) ([]models.Usuario, error)
	Get(ctx context.Context, id int64) (models.Usuario, error)
	FindByUsername(ctx context.Context, username string) (models.Usuario, error)

	// Add inserts a new account. The id is assigned (max existing id + 1)
	// and a duplicate username yields [store.ErrKeyConflict].
	Add(ctx context.Context, u models.Usuario) (models.Usuario, error)

	Save(ctx context.Context, u models.Usuario) error

	// SetActivo flips the account's active flag explicitly: a partial
	// update cannot clear a bool.
	SetActivo(ctx context.Context, id int64, activo bool) (models.Usuario, error)

	Delete(ctx context.Context, id int64) error
}

// defaultUsuarios are the factory accounts seeded into an empty store.
var defaultUsuarios = []models.Usuario{
	{ID: 1, Username: "romero30", Password: "romero_30", Nombre: "Antonio Romero", Role: models.RolAdmin, Activo: true},
	{ID: 2, Username: "dianita26", Password: "dianita_26", Nombre: "Dianita Benalcazar", Role: models.RolAdmin, Activo: true},
	{ID: 3, Username: "vendedor26", Password: "vendedor_26", Nombre: "Vendedor", Role: models.RolVendedor, Activo: true},
}

type usuarioRepository struct {
	cache  *entityCache[models.Usuario]
	logger *logger.Logger
}

func NewUsuarioRepository(records store.RecordStore, logger *logger.Logger) UsuarioRepository {
	return &usuarioRepository{
		cache:  newEntityCache[models.Usuario](store.CollectionUsuarios, records, logger),
		logger: logger,
	}
}

// ensureSeeded writes the factory accounts when the collection is empty.
func (r *usuarioRepository) ensureSeeded(ctx context.Context) error {
	count, err := r.cache.count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	r.logger.Info().Str("func", "usuarioRepository.ensureSeeded").Msg("seeding factory accounts")

	for _, u := range defaultUsuarios {
		if err := r.cache.add(ctx, u); err != nil {
			return err
		}
	}

	return nil
}

func (r *usuarioRepository) List(ctx context.Context) ([]models.Usuario, error) {
	if err := r.ensureSeeded(ctx); err != nil {
		return nil, err
	}

	return r.cache.list(ctx)
}

func (r *usuarioRepository) Get(ctx context.Context, id int64) (models.Usuario, error) {
	if err := r.ensureSeeded(ctx); err != nil {
		return models.Usuario{}, err
	}

	return r.cache.get(ctx, models.Usuario{ID: id}.Key())
}

func (r *usuarioRepository) FindByUsername(ctx context.Context, username string) (models.Usuario, error) {
	usuarios, err := r.List(ctx)
	if err != nil {
		return models.Usuario{}, err
	}

	for _, u := range usuarios {
		if u.Username == username {
			return u, nil
		}
	}

	return models.Usuario{}, fmt.Errorf("%w: username %s", store.ErrRecordNotFound, username)
}

func (r *usuarioRepository) Add(ctx context.Context, u models.Usuario) (models.Usuario, error) {
	usuarios, err := r.List(ctx)
	if err != nil {
		return models.Usuario{}, err
	}

	var maxID int64
	for _, existing := range usuarios {
		if existing.Username == u.Username {
			return models.Usuario{}, fmt.Errorf("%w: username %s", store.ErrKeyConflict, u.Username)
		}
		if existing.ID > maxID {
			maxID = existing.ID
		}
	}

	u.ID = maxID + 1
	u.Activo = true

	if err := r.cache.add(ctx, u); err != nil {
		return models.Usuario{}, err
	}

	return u, nil
}

func (r *usuarioRepository) Save(ctx context.Context, u models.Usuario) error {
	usuarios, err := r.List(ctx)
	if err != nil {
		return err
	}

	for _, existing := range usuarios {
		if existing.Username == u.Username && existing.ID != u.ID {
			return fmt.Errorf("%w: username %s", store.ErrKeyConflict, u.Username)
		}
	}

	return r.cache.save(ctx, u)
}

func (r *usuarioRepository) SetActivo(ctx context.Context, id int64, activo bool) (models.Usuario, error) {
	u, err := r.Get(ctx, id)
	if err != nil {
		return models.Usuario{}, err
	}

	u.Activo = activo
	if err := r.cache.save(ctx, u); err != nil {
		return models.Usuario{}, err
	}

	return u, nil
}

func (r *usuarioRepository) Delete(ctx context.Context, id int64) error {
	if err := r.ensureSeeded(ctx); err != nil {
		return err
	}

	return r.cache.remove(ctx, models.Usuario{ID: id}.Key())
}
