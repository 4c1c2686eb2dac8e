package compresor

import (
	"fmt"
	"sync"

	"github.com/cbiale/evocom/flujobits"
	"github.com/cbiale/evocom/tipos"
	"github.com/klauspost/compress/zstd"
)

// Encoder y decoder compartidos entre bloques; EncodeAll/DecodeAll son concurrentes.
var (
	encoderZSTD = sync.OnceValues(func() (*zstd.Encoder, error) {
		return zstd.NewWriter(nil, zstd.WithEncoderConcurrency(1))
	})
	decoderZSTD = sync.OnceValues(func() (*zstd.Decoder, error) {
		return zstd.NewReader(nil, zstd.WithDecoderConcurrency(0), zstd.WithDecoderMaxMemory(MaxLongitudCarga))
	})
)

// CompresorZSTD implementa compresión Zstd.
//
// Formato: [Rice(len comprimido)][bytes comprimidos]
type CompresorZSTD struct{}

// Comprimir comprime el bloque usando el algoritmo Zstd.
func (c *CompresorZSTD) Comprimir(bloque tipos.Bloque, w flujobits.EscritorBits) error {
	encoder, err := encoderZSTD()
	if err != nil {
		return fmt.Errorf("error al crear encoder con Zstd: %w", err)
	}
	comprimido := encoder.EncodeAll(bloque, make([]byte, 0, len(bloque)))
	return escribirCarga(w, comprimido)
}

// Descomprimir descomprime el bloque usando el algoritmo Zstd.
func (c *CompresorZSTD) Descomprimir(r flujobits.LectorBits) (tipos.Bloque, error) {
	carga, err := leerCarga(r)
	if err != nil {
		return nil, err
	}
	decoder, err := decoderZSTD()
	if err != nil {
		return nil, fmt.Errorf("error creando decoder con Zstd: %w", err)
	}
	descomprimido, err := decoder.DecodeAll(carga, []byte{})
	if err != nil {
		return nil, fmt.Errorf("error al descomprimir con Zstd: %w", err)
	}
	return descomprimido, nil
}
