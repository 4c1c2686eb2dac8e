/*
## Transformaciones RestarPromedio y RestarPromedioXOR

Objetivo: centrar los valores de un bloque alrededor de cero para que las
unidades cercanas al promedio queden pequeñas.

Formato de salida:
• salida[0] = promedio = floor(suma / n)
• salida[i+1] = b[i] - promedio (mod 256), o b[i] XOR promedio

El promedio viaja como primera unidad, así Deshacer no necesita otra
información. Un bloque vacío queda vacío.
*/

package transformador

import (
	"fmt"

	"github.com/cbiale/evocom/tipos"
)

// promedio calcula floor(suma/n) sobre las unidades
func promedio(bloque tipos.Bloque) tipos.Unidad {
	var suma uint64
	for _, v := range bloque {
		suma += uint64(v)
	}
	return tipos.Unidad(suma / uint64(len(bloque)))
}

// TransformacionRestarPromedio resta el promedio a cada unidad
type TransformacionRestarPromedio struct{}

func (TransformacionRestarPromedio) Aplicar(bloque tipos.Bloque) tipos.Bloque {
	if len(bloque) == 0 {
		return tipos.Bloque{}
	}
	p := promedio(bloque)
	salida := make(tipos.Bloque, len(bloque)+1)
	salida[0] = p
	for i, v := range bloque {
		salida[i+1] = v - p
	}
	return salida
}

func (TransformacionRestarPromedio) Deshacer(bloque tipos.Bloque) (tipos.Bloque, error) {
	p, cuerpo, err := separarPromedio(bloque)
	if err != nil {
		return nil, err
	}
	salida := make(tipos.Bloque, len(cuerpo))
	for i, v := range cuerpo {
		salida[i] = v + p
	}
	return salida, nil
}

func (TransformacionRestarPromedio) String() string { return tipos.RestarPromedio.String() }

// TransformacionRestarPromedioXOR aplica XOR con el promedio a cada unidad
type TransformacionRestarPromedioXOR struct{}

func (TransformacionRestarPromedioXOR) Aplicar(bloque tipos.Bloque) tipos.Bloque {
	if len(bloque) == 0 {
		return tipos.Bloque{}
	}
	p := promedio(bloque)
	salida := make(tipos.Bloque, len(bloque)+1)
	salida[0] = p
	for i, v := range bloque {
		salida[i+1] = v ^ p
	}
	return salida
}

func (TransformacionRestarPromedioXOR) Deshacer(bloque tipos.Bloque) (tipos.Bloque, error) {
	p, cuerpo, err := separarPromedio(bloque)
	if err != nil {
		return nil, err
	}
	salida := make(tipos.Bloque, len(cuerpo))
	for i, v := range cuerpo {
		salida[i] = v ^ p
	}
	return salida, nil
}

func (TransformacionRestarPromedioXOR) String() string { return tipos.RestarPromedioXOR.String() }

// separarPromedio lee el promedio de la primera unidad
func separarPromedio(bloque tipos.Bloque) (tipos.Unidad, tipos.Bloque, error) {
	switch len(bloque) {
	case 0:
		return 0, tipos.Bloque{}, nil
	case 1:
		// Aplicar nunca produce un promedio sin unidades
		return 0, nil, fmt.Errorf("%w: promedio sin unidades", ErrBloqueInvalido)
	}
	return bloque[0], bloque[1:], nil
}
