// Package transformador contiene el catálogo de transformaciones reversibles
// que una receta aplica antes del compresor. Todas operan sobre unidades de
// 8 bits con aritmética módulo 256 y cumplen Deshacer(Aplicar(b)) == b,
// incluido el bloque vacío.
package transformador

import (
	"errors"
	"fmt"

	"github.com/cbiale/evocom/tipos"
)

var (
	// ErrTransformacionDesconocida indica un código fuera del catálogo
	ErrTransformacionDesconocida = errors.New("transformador: código de transformación desconocido")
	// ErrBloqueInvalido indica que el bloque no pudo producirse con Aplicar
	ErrBloqueInvalido = errors.New("transformador: bloque inválido para deshacer")
)

// Transformacion es una biyección sobre bloques
type Transformacion interface {
	// Aplicar retorna un bloque nuevo; la entrada no se modifica
	Aplicar(bloque tipos.Bloque) tipos.Bloque
	// Deshacer invierte Aplicar. Falla solo con entradas que Aplicar no produce.
	Deshacer(bloque tipos.Bloque) (tipos.Bloque, error)
	String() string
}

var catalogo = map[tipos.CodigoTransformacion]Transformacion{
	tipos.Delta:             TransformacionDelta{},
	tipos.DeltaXOR:          TransformacionDeltaXOR{},
	tipos.RunLength:         TransformacionRunLength{},
	tipos.Division:          TransformacionDivision{},
	tipos.Apilado:           TransformacionApilado{},
	tipos.Paso2:             TransformacionPaso{N: 2},
	tipos.Paso3:             TransformacionPaso{N: 3},
	tipos.Paso4:             TransformacionPaso{N: 4},
	tipos.RestarPromedio:    TransformacionRestarPromedio{},
	tipos.RestarPromedioXOR: TransformacionRestarPromedioXOR{},
	tipos.DeltaDelta:        TransformacionDeltaDelta{},
}

// Para retorna la transformación asociada a un código
func Para(codigo tipos.CodigoTransformacion) (Transformacion, error) {
	t, ok := catalogo[codigo]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrTransformacionDesconocida, uint8(codigo))
	}
	return t, nil
}
