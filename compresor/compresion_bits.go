/*
## Algoritmo de Compresión Bits - Para unidades en rangos pequeños

Objetivo: Comprimir unidades que se encuentran en un rango limitado usando
el mínimo número de bits necesarios.

Formato:
• Rice(n): número de unidades
• Si n > 0: min en 8 bits, bits_por_valor en 4 bits (rango 0-8) y n valores
(v - min) empaquetados en bits_por_valor bits cada uno

Algoritmo:
 1. Calcular rango: min ← unidad mínima, max ← unidad máxima, rango ← max - min
 2. Calcular bits necesarios: 0 si rango == 0 (todas las unidades son
    iguales, solo cabecera), si no ceil(log2(rango + 1))
 3. Empaquetar cada unidad como v - min

Complejidad: O(n) tiempo, O(1) espacio adicional

Casos óptimos:
• Unidades en rango 0-15 después de una transformación Delta: 4 bits por unidad
• Unidades todas iguales: 0 bits por unidad
*/

package compresor

import (
	"fmt"
	"math/bits"

	"github.com/cbiale/evocom/flujobits"
	"github.com/cbiale/evocom/tipos"
)

const bitsAnchoEmpaquetado = 4

// CompresorBits implementa compresión por bits para unidades
type CompresorBits struct{}

// Comprimir empaqueta las unidades con el mínimo de bits necesarios
func (c *CompresorBits) Comprimir(bloque tipos.Bloque, w flujobits.EscritorBits) error {
	if err := flujobits.EscribirRice(w, uint64(len(bloque))); err != nil {
		return err
	}
	if len(bloque) == 0 {
		return nil
	}

	minimo, maximo := bloque[0], bloque[0]
	for _, v := range bloque {
		minimo = min(minimo, v)
		maximo = max(maximo, v)
	}
	bitsNecesarios := bits.Len8(maximo - minimo)

	w.EscribirBits(uint64(minimo), tipos.BitsPorUnidad)
	w.EscribirBits(uint64(bitsNecesarios), bitsAnchoEmpaquetado)
	if bitsNecesarios == 0 {
		return nil
	}
	for _, v := range bloque {
		w.EscribirBits(uint64(v-minimo), bitsNecesarios)
	}
	return nil
}

// Descomprimir lee las unidades empaquetadas
func (c *CompresorBits) Descomprimir(r flujobits.LectorBits) (tipos.Bloque, error) {
	n, err := leerLongitud(r, "count")
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return tipos.Bloque{}, nil
	}

	minimo, err := r.LeerBits(tipos.BitsPorUnidad)
	if err != nil {
		return nil, fmt.Errorf("error leyendo min: %w", err)
	}
	bitsNecesarios, err := r.LeerBits(bitsAnchoEmpaquetado)
	if err != nil {
		return nil, fmt.Errorf("error leyendo bits_por_valor: %w", err)
	}
	if bitsNecesarios > tipos.BitsPorUnidad {
		return nil, fmt.Errorf("%w: %d bits por valor", ErrCargaInvalida, bitsNecesarios)
	}

	bloque := reservar(n)
	for i := 0; i < n; i++ {
		normalizado, err := r.LeerBits(int(bitsNecesarios))
		if err != nil {
			return nil, fmt.Errorf("error leyendo valor %d: %w", i, err)
		}
		bloque = append(bloque, tipos.Unidad(normalizado+minimo))
	}
	return bloque, nil
}
