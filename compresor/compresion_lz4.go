package compresor

import (
	"fmt"

	"github.com/cbiale/evocom/flujobits"
	"github.com/cbiale/evocom/tipos"
	"github.com/pierrec/lz4/v4"
)

// maxExpansionLZ4 acota unidades por byte comprimido: cada byte extra de
// longitud de un match aporta a lo sumo 255 unidades
const maxExpansionLZ4 = 256

// CompresorLZ4 implementa compresión LZ4 con la API de bloque, sin la
// cabecera de frame que pesa más que un bloque chico.
//
// Formato:
// [Rice(n)][1 bit: comprimido]
// comprimido: [Rice(len comprimido)][bytes comprimidos]
// crudo:      [n unidades de 8 bits]
//
// CompressBlock retorna 0 cuando el bloque no es compresible; en ese caso se
// escribe crudo.
type CompresorLZ4 struct{}

// Comprimir comprime el bloque usando LZ4
func (c *CompresorLZ4) Comprimir(bloque tipos.Bloque, w flujobits.EscritorBits) error {
	if err := flujobits.EscribirRice(w, uint64(len(bloque))); err != nil {
		return err
	}
	if len(bloque) == 0 {
		return nil
	}

	var compresor lz4.Compressor
	destino := make([]byte, lz4.CompressBlockBound(len(bloque)))
	n, err := compresor.CompressBlock(bloque, destino)
	if err != nil {
		return fmt.Errorf("error al comprimir con LZ4: %w", err)
	}

	if n == 0 || n >= len(bloque) {
		w.EscribirBit(false)
		escribirUnidades(w, bloque)
		return nil
	}
	w.EscribirBit(true)
	return escribirCarga(w, destino[:n])
}

// Descomprimir descomprime el bloque usando LZ4
func (c *CompresorLZ4) Descomprimir(r flujobits.LectorBits) (tipos.Bloque, error) {
	n, err := leerLongitud(r, "longitud")
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return tipos.Bloque{}, nil
	}

	comprimido, err := r.LeerBit()
	if err != nil {
		return nil, fmt.Errorf("error leyendo marca LZ4: %w", err)
	}
	if !comprimido {
		return leerUnidades(r, n)
	}

	carga, err := leerCarga(r)
	if err != nil {
		return nil, err
	}
	if n > maxExpansionLZ4*len(carga)+maxExpansionLZ4 {
		return nil, fmt.Errorf("%w: LZ4 declara %d unidades para %d bytes comprimidos", ErrCargaInvalida, n, len(carga))
	}
	bloque := make(tipos.Bloque, n)
	leidos, err := lz4.UncompressBlock(carga, bloque)
	if err != nil {
		return nil, fmt.Errorf("error al descomprimir con LZ4: %w", err)
	}
	if leidos != n {
		return nil, fmt.Errorf("%w: LZ4 produjo %d unidades, se esperaban %d", ErrCargaInvalida, leidos, n)
	}
	return bloque, nil
}
