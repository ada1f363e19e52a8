package models

import "time"

// Client classification tiers. The tier is derived from the client's total
// historical purchase amount and can be recomputed at any time; it is a
// cached value, never a source of truth.
const (
	ClasificacionA = "A"
	ClasificacionB = "B"
	ClasificacionC = "C"
)

// Purchase-amount thresholds for the classification tiers.
const (
	UmbralClasificacionA = 5000
	UmbralClasificacionB = 2000
)

// Cliente is a pharmacy client record.
type Cliente struct {
	ID            string    `json:"id"`
	Nombre        string    `json:"nombre"`
	Empresa       string    `json:"empresa"`
	Telefono      string    `json:"telefono"`
	Email         string    `json:"email"`
	Direccion     string    `json:"direccion"`
	Ciudad        string    `json:"ciudad"`
	Clasificacion string    `json:"clasificacion"`
	Notas         string    `json:"notas"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// Key returns the record-store key of the client.
func (c Cliente) Key() string { return c.ID }

// ClasificacionPorCompras maps a total purchase amount to a tier.
func ClasificacionPorCompras(total float64) string {
	switch {
	case total >= UmbralClasificacionA:
		return ClasificacionA
	case total >= UmbralClasificacionB:
		return ClasificacionB
	default:
		return ClasificacionC
	}
}
