// Package compresor contiene el catálogo de compresores de entropía y el
// pipeline de recetas. Cada compresor escribe una carga autodelimitada sobre
// un flujo de bits: el descompresor sabe cuándo terminar sin conocer la
// longitud del bloque de antemano.
package compresor

import (
	"errors"
	"fmt"

	"github.com/cbiale/evocom/flujobits"
	"github.com/cbiale/evocom/tipos"
)

var (
	// ErrCodigoDesconocido indica un código de compresión o transformación fuera del catálogo
	ErrCodigoDesconocido = errors.New("compresor: código desconocido")
	// ErrFrecuenciasVacias indica un reporte de frecuencias sin ningún grupo presente
	ErrFrecuenciasVacias = errors.New("compresor: reporte de frecuencias vacío")
	// ErrCargaInvalida indica una carga que no pudo producirse con Comprimir
	ErrCargaInvalida = errors.New("compresor: carga inválida")
)

// MaxLongitudCarga acota las longitudes leídas del flujo antes de reservar memoria
const MaxLongitudCarga = 1 << 30

// maxReservaInicial acota lo que se reserva a partir de una longitud leída
// del flujo; el resto crece con append a medida que llegan los datos.
const maxReservaInicial = 1 << 16

// Compresor codifica un bloque completo sobre un flujo de bits
type Compresor interface {
	Comprimir(bloque tipos.Bloque, w flujobits.EscritorBits) error
	Descomprimir(r flujobits.LectorBits) (tipos.Bloque, error)
}

var catalogo = map[tipos.CodigoCompresion]Compresor{
	tipos.Ninguna:     &CompresorNinguno{},
	tipos.RLE:         &CompresorRLE{},
	tipos.Huffman:     &CompresorHuffman{},
	tipos.Bits:        &CompresorBits{},
	tipos.Diccionario: &CompresorDiccionario{},
	tipos.ZSTD:        &CompresorZSTD{},
	tipos.Snappy:      &CompresorSnappy{},
	tipos.Gzip:        &CompresorGzip{},
	tipos.LZ4:         &CompresorLZ4{},
}

// Para retorna el compresor asociado a un código
func Para(codigo tipos.CodigoCompresion) (Compresor, error) {
	c, ok := catalogo[codigo]
	if !ok {
		return nil, fmt.Errorf("%w: compresión %d", ErrCodigoDesconocido, uint8(codigo))
	}
	return c, nil
}

// leerLongitud lee un Rice y lo valida contra MaxLongitudCarga
func leerLongitud(r flujobits.LectorBits, campo string) (int, error) {
	n, err := flujobits.LeerRice(r)
	if err != nil {
		return 0, fmt.Errorf("error leyendo %s: %w", campo, err)
	}
	if n > MaxLongitudCarga {
		return 0, fmt.Errorf("%w: %s %d excede el máximo", ErrCargaInvalida, campo, n)
	}
	return int(n), nil
}

// escribirUnidades escribe unidades crudas de 8 bits
func escribirUnidades(w flujobits.EscritorBits, unidades []byte) {
	for _, u := range unidades {
		w.EscribirBits(uint64(u), tipos.BitsPorUnidad)
	}
}

// reservar crea un bloque vacío con capacidad para n unidades, acotada
func reservar(n int) tipos.Bloque {
	return make(tipos.Bloque, 0, min(n, maxReservaInicial))
}

// leerUnidades lee n unidades crudas de 8 bits
func leerUnidades(r flujobits.LectorBits, n int) ([]byte, error) {
	salida := reservar(n)
	for len(salida) < n {
		v, err := r.LeerBits(tipos.BitsPorUnidad)
		if err != nil {
			return nil, err
		}
		salida = append(salida, byte(v))
	}
	return salida, nil
}

// escribirCarga escribe Rice(len) seguido de los bytes. La usan los
// compresores de bibliotecas externas, que producen bytes y no bits.
func escribirCarga(w flujobits.EscritorBits, carga []byte) error {
	if err := flujobits.EscribirRice(w, uint64(len(carga))); err != nil {
		return err
	}
	escribirUnidades(w, carga)
	return nil
}

// leerCarga es la inversa de escribirCarga
func leerCarga(r flujobits.LectorBits) ([]byte, error) {
	n, err := leerLongitud(r, "longitud de carga")
	if err != nil {
		return nil, err
	}
	carga, err := leerUnidades(r, n)
	if err != nil {
		return nil, fmt.Errorf("error leyendo carga: %w", err)
	}
	return carga, nil
}
