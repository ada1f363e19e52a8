package models

// Producto is a catalog master-data record. Field names mirror the column
// headers of the distributor price lists the catalog is imported from, which
// is also the shape persisted in the record store.
type Producto struct {
	// ID is the stable catalog identifier assigned by the distributor.
	ID string `json:"ID"`

	// Nombre is the commercial product name.
	Nombre string `json:"NombreProducto"`

	// Marca is the laboratory / brand name.
	Marca string `json:"Marca"`

	// Precio is the unit pharmacy price, VAT excluded.
	Precio float64 `json:"PrecioFarmacia"`

	// IVA is the VAT rate applied to this product, in percent (0, 10, 21...).
	IVA float64 `json:"IVA"`

	// Presentacion describes the package format (e.g. "Caja x 20").
	Presentacion string `json:"Presentacion"`
}

// Key returns the record-store key of the product.
func (p Producto) Key() string { return p.ID }
