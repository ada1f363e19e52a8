package models

import "time"

// Document types recorded in the sales ledger.
const (
	DocumentoPedido   = "pedido"
	DocumentoProforma = "proforma"
)

// LineaDocumento is one line item of a sales document.
type LineaDocumento struct {
	Nombre   string  `json:"nombre"`
	Precio   float64 `json:"precio"`
	Cantidad float64 `json:"cantidad"`
	IVA      float64 `json:"iva,omitempty"`
}

// Documento is an entry of the append-only sales ledger (historial).
//
// Total is computed once from the line items when the document is created
// and is immutable afterwards: corrections are recorded as new documents or
// cobros, never by mutating history. Legacy records written before Total
// existed are normalized during migration (see store.Migrator).
type Documento struct {
	ID        string           `json:"id"`
	Fecha     time.Time        `json:"fecha"`
	Tipo      string           `json:"tipo"`
	Cliente   string           `json:"cliente"`
	ClienteID string           `json:"clienteId,omitempty"`
	Productos []LineaDocumento `json:"productos"`
	Total     float64          `json:"total"`
	CreatedAt time.Time        `json:"createdAt"`
}

// Key returns the record-store key of the document.
func (d Documento) Key() string { return d.ID }

// TotalLineas sums precio*cantidad over the line items. It is the canonical
// way to derive a document total and is used to normalize legacy records
// that were persisted without one.
func (d Documento) TotalLineas() float64 {
	var total float64
	for _, l := range d.Productos {
		total += l.Precio * l.Cantidad
	}
	return total
}
