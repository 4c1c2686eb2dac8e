package transformador

import (
	"fmt"

	"github.com/cbiale/evocom/tipos"
)

// TransformacionPaso desentrelaza el bloque en N flujos: el flujo j contiene
// las unidades en posiciones j, j+N, j+2N, ... y los flujos se concatenan en
// orden. Sirve para registros de N bytes donde cada campo evoluciona por separado.
type TransformacionPaso struct {
	N int
}

func (t TransformacionPaso) Aplicar(bloque tipos.Bloque) tipos.Bloque {
	salida := make(tipos.Bloque, 0, len(bloque))
	for j := 0; j < t.N; j++ {
		for i := j; i < len(bloque); i += t.N {
			salida = append(salida, bloque[i])
		}
	}
	return salida
}

func (t TransformacionPaso) Deshacer(bloque tipos.Bloque) (tipos.Bloque, error) {
	salida := make(tipos.Bloque, len(bloque))
	k := 0
	for j := 0; j < t.N; j++ {
		for i := j; i < len(bloque); i += t.N {
			salida[i] = bloque[k]
			k++
		}
	}
	return salida, nil
}

func (t TransformacionPaso) String() string {
	return fmt.Sprintf("Paso%d", t.N)
}
