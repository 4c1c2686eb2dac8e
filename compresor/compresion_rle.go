/*
## Algoritmo de Compresión RLE (Run-Length Encoding)

Objetivo: Comprimir secuencias de unidades detectando repeticiones consecutivas.

Formato:
• Rice(cantidad de corridas)
• Por cada corrida: valor en 8 bits y Rice(largo - 1)

A diferencia de la transformación RunLength, el largo no está acotado a 255:
Rice crece con el logaritmo del largo, así una corrida de un millón de
unidades ocupa pocos bytes.

Algoritmo:
 1. Inicializar: si el bloque está vacío, escribir cero corridas; si no,
    valorPrevio ← primera unidad y largo ← 1
 2. Para cada unidad restante: si es igual a valorPrevio, largo ← largo + 1;
    si no, cerrar la corrida (valorPrevio, largo) y empezar otra
 3. Cerrar la última corrida

Complejidad: O(n) tiempo, O(k) espacio donde k ≤ n es el número de corridas.
*/

package compresor

import (
	"fmt"

	"github.com/cbiale/evocom/flujobits"
	"github.com/cbiale/evocom/tipos"
)

type corrida struct {
	valor tipos.Unidad
	largo int
}

// CompresorRLE implementa el algoritmo de compresión RLE sobre unidades
type CompresorRLE struct{}

func corridas(bloque tipos.Bloque) []corrida {
	if len(bloque) == 0 {
		return nil
	}
	resultado := make([]corrida, 0, 16)
	valorPrevio := bloque[0]
	largo := 1
	for i := 1; i < len(bloque); i++ {
		if bloque[i] == valorPrevio {
			largo++
			continue
		}
		resultado = append(resultado, corrida{valorPrevio, largo})
		valorPrevio = bloque[i]
		largo = 1
	}
	return append(resultado, corrida{valorPrevio, largo})
}

// Comprimir escribe las corridas del bloque
func (c *CompresorRLE) Comprimir(bloque tipos.Bloque, w flujobits.EscritorBits) error {
	lista := corridas(bloque)
	if err := flujobits.EscribirRice(w, uint64(len(lista))); err != nil {
		return err
	}
	for _, run := range lista {
		w.EscribirBits(uint64(run.valor), tipos.BitsPorUnidad)
		if err := flujobits.EscribirRice(w, uint64(run.largo-1)); err != nil {
			return err
		}
	}
	return nil
}

// Descomprimir expande las corridas
func (c *CompresorRLE) Descomprimir(r flujobits.LectorBits) (tipos.Bloque, error) {
	cantidad, err := leerLongitud(r, "cantidad de corridas")
	if err != nil {
		return nil, err
	}

	var bloque tipos.Bloque
	for i := 0; i < cantidad; i++ {
		valor, err := r.LeerBits(tipos.BitsPorUnidad)
		if err != nil {
			return nil, fmt.Errorf("error leyendo valor de corrida %d: %w", i, err)
		}
		largo, err := leerLongitud(r, "largo de corrida")
		if err != nil {
			return nil, err
		}
		if len(bloque)+largo+1 > MaxLongitudCarga {
			return nil, fmt.Errorf("%w: bloque RLE excede el máximo", ErrCargaInvalida)
		}
		for j := 0; j <= largo; j++ {
			bloque = append(bloque, tipos.Unidad(valor))
		}
	}
	if bloque == nil {
		bloque = tipos.Bloque{}
	}
	return bloque, nil
}
