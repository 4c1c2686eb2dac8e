package compresor

import (
	"fmt"
	"math/bits"

	"github.com/cbiale/evocom/flujobits"
	"github.com/cbiale/evocom/tipos"
)

// CompresorDiccionario implementa compresión por diccionario para bloques con
// pocas unidades distintas dispersas en todo el rango (por ejemplo estados
// codificados como 0x10, 0x80, 0xF3).
//
// Algoritmo:
// 1. Construir diccionario de unidades únicas en orden de aparición
// 2. Reemplazar cada unidad con su índice
// 3. Escribir los índices con el ancho mínimo para el tamaño del diccionario
//
// Formato de salida:
// [Rice(n)]
// si n > 0: [Rice(entradas-1)][entradas x 8 bits][n índices de ceil(log2(entradas)) bits]
//
// Con una sola entrada los índices ocupan 0 bits.
type CompresorDiccionario struct{}

func (c *CompresorDiccionario) Comprimir(bloque tipos.Bloque, w flujobits.EscritorBits) error {
	if err := flujobits.EscribirRice(w, uint64(len(bloque))); err != nil {
		return err
	}
	if len(bloque) == 0 {
		return nil
	}

	// Construir diccionario de unidades únicas
	var ids [tipos.CantidadSimbolos]int
	for i := range ids {
		ids[i] = -1
	}
	entradas := make([]tipos.Unidad, 0, 16)
	for _, v := range bloque {
		if ids[v] < 0 {
			ids[v] = len(entradas)
			entradas = append(entradas, v)
		}
	}

	if err := flujobits.EscribirRice(w, uint64(len(entradas)-1)); err != nil {
		return err
	}
	escribirUnidades(w, entradas)

	ancho := anchoIndice(len(entradas))
	for _, v := range bloque {
		w.EscribirBits(uint64(ids[v]), ancho)
	}
	return nil
}

func (c *CompresorDiccionario) Descomprimir(r flujobits.LectorBits) (tipos.Bloque, error) {
	n, err := leerLongitud(r, "longitud")
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return tipos.Bloque{}, nil
	}

	ultima, err := flujobits.LeerRice(r)
	if err != nil {
		return nil, fmt.Errorf("error leyendo número de entradas: %w", err)
	}
	if ultima >= tipos.CantidadSimbolos {
		return nil, fmt.Errorf("%w: %d entradas de diccionario", ErrCargaInvalida, ultima+1)
	}
	numEntradas := int(ultima) + 1

	entradas, err := leerUnidades(r, numEntradas)
	if err != nil {
		return nil, fmt.Errorf("error leyendo diccionario: %w", err)
	}

	ancho := anchoIndice(numEntradas)
	bloque := reservar(n)
	for i := 0; i < n; i++ {
		idx, err := r.LeerBits(ancho)
		if err != nil {
			return nil, fmt.Errorf("error leyendo índice %d: %w", i, err)
		}
		if idx >= uint64(numEntradas) {
			return nil, fmt.Errorf("%w: índice fuera de rango: %d (máximo %d)", ErrCargaInvalida, idx, numEntradas-1)
		}
		bloque = append(bloque, entradas[idx])
	}
	return bloque, nil
}

// anchoIndice retorna los bits necesarios para indexar n entradas
func anchoIndice(n int) int {
	return bits.Len(uint(n - 1))
}
