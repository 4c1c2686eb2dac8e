package compresor

import (
	"bytes"
	"fmt"
	"io"
	"sync"

	"github.com/cbiale/evocom/flujobits"
	"github.com/cbiale/evocom/tipos"
	"github.com/klauspost/compress/gzip"
)

// escritoresGzip reutiliza writers entre evaluaciones; cada uno reserva
// varios cientos de KB de estado interno.
var escritoresGzip sync.Pool

// obtenerEscritorGzip toma un writer del pool o crea uno nuevo sobre destino
func obtenerEscritorGzip(destino io.Writer) (*gzip.Writer, error) {
	if w, ok := escritoresGzip.Get().(*gzip.Writer); ok {
		w.Reset(destino)
		return w, nil
	}
	return gzip.NewWriterLevel(destino, gzip.BestCompression)
}

// CompresorGzip implementa compresión Gzip.
//
// Formato: [Rice(len comprimido)][stream gzip]
type CompresorGzip struct{}

// Comprimir comprime el bloque usando Gzip
func (c *CompresorGzip) Comprimir(bloque tipos.Bloque, w flujobits.EscritorBits) error {
	var buf bytes.Buffer
	gzipWriter, err := obtenerEscritorGzip(&buf)
	if err != nil {
		return fmt.Errorf("error al crear writer gzip: %w", err)
	}
	defer escritoresGzip.Put(gzipWriter)

	if _, err := gzipWriter.Write(bloque); err != nil {
		return fmt.Errorf("error al escribir datos gzip: %w", err)
	}
	// Cerrar writer para forzar el flush
	if err := gzipWriter.Close(); err != nil {
		return fmt.Errorf("error al cerrar writer gzip: %w", err)
	}
	return escribirCarga(w, buf.Bytes())
}

// Descomprimir descomprime el bloque usando Gzip
func (c *CompresorGzip) Descomprimir(r flujobits.LectorBits) (tipos.Bloque, error) {
	carga, err := leerCarga(r)
	if err != nil {
		return nil, err
	}
	lector, err := gzip.NewReader(bytes.NewReader(carga))
	if err != nil {
		return nil, fmt.Errorf("error al crear reader gzip: %w", err)
	}
	defer lector.Close()

	resultado, err := io.ReadAll(io.LimitReader(lector, MaxLongitudCarga+1))
	if err != nil {
		return nil, fmt.Errorf("error al leer datos gzip: %w", err)
	}
	if len(resultado) > MaxLongitudCarga {
		return nil, fmt.Errorf("%w: gzip excede el máximo", ErrCargaInvalida)
	}
	return resultado, nil
}
