package compresor

import (
	"fmt"

	"github.com/cbiale/evocom/flujobits"
	"github.com/cbiale/evocom/tipos"
)

// CompresorNinguno copia las unidades sin comprimir.
//
// Formato: [Rice(n)][n unidades de 8 bits]
//
// Es el compresor de la receta identidad, que acota el tamaño de cualquier
// bloque a 8 bits por unidad más la cabecera.
type CompresorNinguno struct{}

// Comprimir escribe la longitud y las unidades crudas
func (c *CompresorNinguno) Comprimir(bloque tipos.Bloque, w flujobits.EscritorBits) error {
	if err := flujobits.EscribirRice(w, uint64(len(bloque))); err != nil {
		return err
	}
	escribirUnidades(w, bloque)
	return nil
}

// Descomprimir lee la longitud y las unidades crudas
func (c *CompresorNinguno) Descomprimir(r flujobits.LectorBits) (tipos.Bloque, error) {
	n, err := leerLongitud(r, "longitud")
	if err != nil {
		return nil, err
	}
	bloque, err := leerUnidades(r, n)
	if err != nil {
		return nil, fmt.Errorf("error leyendo unidades: %w", err)
	}
	return bloque, nil
}
