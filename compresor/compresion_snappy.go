package compresor

import (
	"fmt"

	"github.com/cbiale/evocom/flujobits"
	"github.com/cbiale/evocom/tipos"
	"github.com/klauspost/compress/snappy"
)

// maxExpansionSnappy acota unidades por byte comprimido: la copia más
// eficiente produce 64 unidades con 3 bytes
const maxExpansionSnappy = 32

// CompresorSnappy implementa compresión Snappy en formato de bloque.
//
// Formato: [Rice(len comprimido)][bytes comprimidos]
type CompresorSnappy struct{}

// Comprimir comprime el bloque usando Snappy
func (c *CompresorSnappy) Comprimir(bloque tipos.Bloque, w flujobits.EscritorBits) error {
	return escribirCarga(w, snappy.Encode(nil, bloque))
}

// Descomprimir descomprime el bloque usando Snappy
func (c *CompresorSnappy) Descomprimir(r flujobits.LectorBits) (tipos.Bloque, error) {
	carga, err := leerCarga(r)
	if err != nil {
		return nil, err
	}
	n, err := snappy.DecodedLen(carga)
	if err != nil {
		return nil, fmt.Errorf("error al descomprimir con Snappy: %w", err)
	}
	if n > MaxLongitudCarga || n > maxExpansionSnappy*len(carga)+maxExpansionSnappy {
		return nil, fmt.Errorf("%w: Snappy declara %d bytes", ErrCargaInvalida, n)
	}
	descomprimido, err := snappy.Decode(nil, carga)
	if err != nil {
		return nil, fmt.Errorf("error al descomprimir con Snappy: %w", err)
	}
	return descomprimido, nil
}
