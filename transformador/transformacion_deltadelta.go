/*
## Transformación Delta-Delta

Objetivo: llevar a cero las secuencias con pendiente constante (contadores,
rampas), donde Delta deja un valor repetido pero no nulo.

Algoritmo:
 1. Primer valor: se conserva
 2. Segundo valor: primera diferencia (b[1] - b[0])
 3. Valores subsiguientes: diferencia de diferencias,
    dd[i] = (b[i] - b[i-1]) - (b[i-1] - b[i-2])

Deshacer reconstruye la delta acumulando dd y luego el valor acumulando la delta.
Toda la aritmética es módulo 256.

Complejidad: O(n) tiempo, O(n) espacio
*/

package transformador

import "github.com/cbiale/evocom/tipos"

// TransformacionDeltaDelta aplica una diferencia de segundo orden
type TransformacionDeltaDelta struct{}

func (TransformacionDeltaDelta) Aplicar(bloque tipos.Bloque) tipos.Bloque {
	salida := make(tipos.Bloque, len(bloque))
	var anterior, deltaAnterior tipos.Unidad
	for i, v := range bloque {
		switch i {
		case 0:
			salida[i] = v
		default:
			delta := v - anterior
			if i == 1 {
				salida[i] = delta
			} else {
				salida[i] = delta - deltaAnterior
			}
			deltaAnterior = delta
		}
		anterior = v
	}
	return salida
}

func (TransformacionDeltaDelta) Deshacer(bloque tipos.Bloque) (tipos.Bloque, error) {
	salida := make(tipos.Bloque, len(bloque))
	var valor, delta tipos.Unidad
	for i, d := range bloque {
		switch i {
		case 0:
			valor = d
		case 1:
			delta = d
			valor += delta
		default:
			delta += d
			valor += delta
		}
		salida[i] = valor
	}
	return salida, nil
}

func (TransformacionDeltaDelta) String() string { return tipos.DeltaDelta.String() }
