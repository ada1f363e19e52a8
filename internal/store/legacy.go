package store

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/aromero/farmagestor/models"
)

// Flat keys written by the old storage mechanism. Each key held a JSON blob
// (sometimes double-encoded as a quoted string) with the full content of one
// collection.
const (
	legacyKeyProductos     = "ListaProductos"
	legacyKeyClientes      = "farmacia_clientes"
	legacyKeyCobros        = "farmacia_cobros"
	legacyKeyHistorialDocs = "farmacia_historial_documentos"
	legacyKeyHistorial     = "farmacia_historial"
	legacyKeyUsuarios      = "app_users"
	legacyKeyVisitas       = "VisitasDiarias"
	legacyKeyAgenda        = "farmacia_agenda"
	legacyKeyBackups       = "farmacia_auto_backups"
)

// legacyFile is the on-disk dump of the old flat-key storage: a single JSON
// object mapping legacy key names to their raw values.
type legacyFile map[string]json.RawMessage

func readLegacyFile(path string) (legacyFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read legacy storage file: %w", err)
	}

	var lf legacyFile
	if err := json.Unmarshal(data, &lf); err != nil {
		return nil, fmt.Errorf("decode legacy storage file: %w", err)
	}

	return lf, nil
}

// safeParse decodes a legacy value into v. Old versions of the app sometimes
// stored values double-encoded (a JSON string containing JSON), so a direct
// decode is tried first and the quoted form second.
func safeParse(raw json.RawMessage, v any) error {
	if len(raw) == 0 {
		return nil
	}

	directErr := json.Unmarshal(raw, v)
	if directErr == nil {
		return nil
	}

	var quoted string
	if err := json.Unmarshal(raw, &quoted); err != nil {
		return directErr
	}
	if quoted == "" {
		return nil
	}

	if err := json.Unmarshal([]byte(quoted), v); err != nil {
		return fmt.Errorf("decode double-encoded legacy value: %w", err)
	}

	return nil
}

func parseLegacyProductos(raw json.RawMessage) (map[string]json.RawMessage, error) {
	var productos []models.Producto
	if err := safeParse(raw, &productos); err != nil {
		return nil, err
	}

	return recordsByKey(productos, func(p models.Producto) string { return p.Key() })
}

func parseLegacyClientes(raw json.RawMessage) (map[string]json.RawMessage, error) {
	var clientes []models.Cliente
	if err := safeParse(raw, &clientes); err != nil {
		return nil, err
	}

	return recordsByKey(clientes, func(c models.Cliente) string { return c.Key() })
}

func parseLegacyCobros(raw json.RawMessage) (map[string]json.RawMessage, error) {
	var cobros []models.Cobro
	if err := safeParse(raw, &cobros); err != nil {
		return nil, err
	}

	return recordsByKey(cobros, func(c models.Cobro) string { return c.Key() })
}

// parseLegacyHistorial merges the two legacy document sources. Entries of the
// newer farmacia_historial_documentos key win over same-id entries of the
// older farmacia_historial key; old entries without an id receive a
// generated legacy_<ts>_<n> id.
func parseLegacyHistorial(docsRaw, oldRaw json.RawMessage, nowMillis int64) (map[string]json.RawMessage, error) {
	var docs []models.Documento
	if err := safeParse(docsRaw, &docs); err != nil {
		return nil, err
	}

	var old []models.Documento
	if err := safeParse(oldRaw, &old); err != nil {
		return nil, err
	}

	merged := make(map[string]models.Documento, len(docs)+len(old))

	for i, d := range old {
		if d.ID == "" {
			d.ID = "legacy_" + strconv.FormatInt(nowMillis, 10) + "_" + strconv.Itoa(i)
		}
		if d.Total == 0 {
			d.Total = d.TotalLineas()
		}
		merged[d.ID] = d
	}
	for _, d := range docs {
		if d.ID == "" {
			continue
		}
		if d.Total == 0 {
			d.Total = d.TotalLineas()
		}
		merged[d.ID] = d
	}

	records := make(map[string]json.RawMessage, len(merged))
	for id, d := range merged {
		data, err := json.Marshal(d)
		if err != nil {
			return nil, err
		}
		records[id] = data
	}

	return records, nil
}

// parseLegacyUsuarios assigns sequential ids to legacy accounts that were
// stored without one.
func parseLegacyUsuarios(raw json.RawMessage) (map[string]json.RawMessage, error) {
	var usuarios []models.Usuario
	if err := safeParse(raw, &usuarios); err != nil {
		return nil, err
	}

	var maxID int64
	for _, u := range usuarios {
		if u.ID > maxID {
			maxID = u.ID
		}
	}

	records := make(map[string]json.RawMessage, len(usuarios))
	for i := range usuarios {
		if usuarios[i].ID == 0 {
			maxID++
			usuarios[i].ID = maxID
		}
		data, err := json.Marshal(usuarios[i])
		if err != nil {
			return nil, err
		}
		records[usuarios[i].Key()] = data
	}

	return records, nil
}

// parseLegacyVisitas generates visita_<ts>_<i> ids for legacy visits stored
// without one.
func parseLegacyVisitas(raw json.RawMessage, nowMillis int64) (map[string]json.RawMessage, error) {
	var visitas []models.Visita
	if err := safeParse(raw, &visitas); err != nil {
		return nil, err
	}

	records := make(map[string]json.RawMessage, len(visitas))
	for i := range visitas {
		if visitas[i].ID == "" {
			visitas[i].ID = "visita_" + strconv.FormatInt(nowMillis, 10) + "_" + strconv.Itoa(i)
		}
		data, err := json.Marshal(visitas[i])
		if err != nil {
			return nil, err
		}
		records[visitas[i].ID] = data
	}

	return records, nil
}

func parseLegacyAgenda(raw json.RawMessage) (map[string]json.RawMessage, error) {
	var eventos []models.Evento
	if err := safeParse(raw, &eventos); err != nil {
		return nil, err
	}

	return recordsByKey(eventos, func(e models.Evento) string { return e.Key() })
}

func parseLegacyBackups(raw json.RawMessage) (map[string]json.RawMessage, error) {
	var backups []models.Backup
	if err := safeParse(raw, &backups); err != nil {
		return nil, err
	}

	return recordsByKey(backups, func(b models.Backup) string { return b.ID })
}

func recordsByKey[T any](items []T, key func(T) string) (map[string]json.RawMessage, error) {
	records := make(map[string]json.RawMessage, len(items))
	for _, item := range items {
		k := key(item)
		if k == "" {
			continue
		}
		data, err := json.Marshal(item)
		if err != nil {
			return nil, err
		}
		records[k] = data
	}

	return records, nil
}
