/*
## Transformación Run-Length

Objetivo: colapsar corridas de unidades iguales antes de un compresor que no
las aprovecha (Huffman, Bits, Diccionario).

Formato de salida: pares (valor, cantidad) con cantidad en 1..255.
Una corrida de más de 255 unidades se parte en varios pares.

Deshacer expande cada par. Un bloque de longitud impar o con cantidad cero no
pudo producirse con Aplicar y se rechaza.

Complejidad: O(n) tiempo; la salida puede duplicar el tamaño de la entrada
cuando no hay repeticiones.
*/

package transformador

import (
	"fmt"

	"github.com/cbiale/evocom/tipos"
)

const maxCorrida = 255

// TransformacionRunLength codifica corridas como pares (valor, cantidad)
type TransformacionRunLength struct{}

func (TransformacionRunLength) Aplicar(bloque tipos.Bloque) tipos.Bloque {
	salida := make(tipos.Bloque, 0, len(bloque))
	for i := 0; i < len(bloque); {
		valor := bloque[i]
		cantidad := 1
		for i+cantidad < len(bloque) && bloque[i+cantidad] == valor && cantidad < maxCorrida {
			cantidad++
		}
		salida = append(salida, valor, tipos.Unidad(cantidad))
		i += cantidad
	}
	return salida
}

func (TransformacionRunLength) Deshacer(bloque tipos.Bloque) (tipos.Bloque, error) {
	if len(bloque)%2 != 0 {
		return nil, fmt.Errorf("%w: run-length con longitud impar %d", ErrBloqueInvalido, len(bloque))
	}
	total := 0
	for i := 1; i < len(bloque); i += 2 {
		if bloque[i] == 0 {
			return nil, fmt.Errorf("%w: run-length con cantidad cero en posición %d", ErrBloqueInvalido, i)
		}
		total += int(bloque[i])
	}

	salida := make(tipos.Bloque, 0, total)
	for i := 0; i < len(bloque); i += 2 {
		for j := 0; j < int(bloque[i+1]); j++ {
			salida = append(salida, bloque[i])
		}
	}
	return salida, nil
}

func (TransformacionRunLength) String() string { return tipos.RunLength.String() }
