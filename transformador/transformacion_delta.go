/*
## Transformaciones Delta y Delta XOR

Objetivo: convertir secuencias suaves o con valores repetidos en secuencias
con muchos ceros y valores pequeños, que los compresores de entropía
aprovechan mejor.

Delta:
• salida[0] = b[0]
• salida[i] = b[i] - b[i-1] (mod 256)
• Deshacer: suma acumulada

Delta XOR:
• salida[0] = b[0]
• salida[i] = b[i] XOR b[i-1]
• Deshacer: XOR acumulado

Complejidad: O(n) tiempo, O(n) espacio
*/

package transformador

import "github.com/cbiale/evocom/tipos"

// TransformacionDelta reemplaza cada unidad por su diferencia con la anterior
type TransformacionDelta struct{}

func (TransformacionDelta) Aplicar(bloque tipos.Bloque) tipos.Bloque {
	salida := make(tipos.Bloque, len(bloque))
	var anterior tipos.Unidad
	for i, v := range bloque {
		salida[i] = v - anterior
		anterior = v
	}
	return salida
}

func (TransformacionDelta) Deshacer(bloque tipos.Bloque) (tipos.Bloque, error) {
	salida := make(tipos.Bloque, len(bloque))
	var acumulado tipos.Unidad
	for i, d := range bloque {
		acumulado += d
		salida[i] = acumulado
	}
	return salida, nil
}

func (TransformacionDelta) String() string { return tipos.Delta.String() }

// TransformacionDeltaXOR reemplaza cada unidad por su XOR con la anterior
type TransformacionDeltaXOR struct{}

func (TransformacionDeltaXOR) Aplicar(bloque tipos.Bloque) tipos.Bloque {
	salida := make(tipos.Bloque, len(bloque))
	var anterior tipos.Unidad
	for i, v := range bloque {
		salida[i] = v ^ anterior
		anterior = v
	}
	return salida
}

func (TransformacionDeltaXOR) Deshacer(bloque tipos.Bloque) (tipos.Bloque, error) {
	salida := make(tipos.Bloque, len(bloque))
	var acumulado tipos.Unidad
	for i, d := range bloque {
		acumulado ^= d
		salida[i] = acumulado
	}
	return salida, nil
}

func (TransformacionDeltaXOR) String() string { return tipos.DeltaXOR.String() }
