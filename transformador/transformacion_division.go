/*
## Transformaciones Division y Apilado

Objetivo: separar los nibbles altos de los bajos. En datos de sensores los
nibbles altos cambian poco y los bajos concentran el ruido; separados, cada
mitad tiene menos entropía que la mezcla.

Division, para cada par consecutivo (a, b):
• mitad alta: (a & 0xF0) | (b >> 4)
• mitad baja: (a & 0x0F) << 4 | (b & 0x0F)

Las mitades altas ocupan la primera mitad de la salida y las bajas la
segunda. Con longitud impar la última unidad se conserva al final.

Apilado es la biyección inversa: aplicar Apilado recombina las mitades y
deshacerlo vuelve a separarlas. Ambas conservan la longitud.
*/

package transformador

import "github.com/cbiale/evocom/tipos"

// TransformacionDivision separa nibbles altos y bajos en dos mitades
type TransformacionDivision struct{}

func (TransformacionDivision) Aplicar(bloque tipos.Bloque) tipos.Bloque {
	return separarNibbles(bloque)
}

func (TransformacionDivision) Deshacer(bloque tipos.Bloque) (tipos.Bloque, error) {
	return unirNibbles(bloque), nil
}

func (TransformacionDivision) String() string { return tipos.Division.String() }

// TransformacionApilado es la inversa de TransformacionDivision
type TransformacionApilado struct{}

func (TransformacionApilado) Aplicar(bloque tipos.Bloque) tipos.Bloque {
	return unirNibbles(bloque)
}

func (TransformacionApilado) Deshacer(bloque tipos.Bloque) (tipos.Bloque, error) {
	return separarNibbles(bloque), nil
}

func (TransformacionApilado) String() string { return tipos.Apilado.String() }

func separarNibbles(bloque tipos.Bloque) tipos.Bloque {
	salida := make(tipos.Bloque, len(bloque))
	pares := len(bloque) / 2
	for i := 0; i < pares; i++ {
		a, b := bloque[2*i], bloque[2*i+1]
		salida[i] = a&0xF0 | b>>4
		salida[pares+i] = (a&0x0F)<<4 | b&0x0F
	}
	if len(bloque)%2 == 1 {
		salida[len(salida)-1] = bloque[len(bloque)-1]
	}
	return salida
}

func unirNibbles(bloque tipos.Bloque) tipos.Bloque {
	salida := make(tipos.Bloque, len(bloque))
	pares := len(bloque) / 2
	for i := 0; i < pares; i++ {
		alto, bajo := bloque[i], bloque[pares+i]
		salida[2*i] = alto&0xF0 | bajo>>4
		salida[2*i+1] = (alto&0x0F)<<4 | bajo&0x0F
	}
	if len(bloque)%2 == 1 {
		salida[len(salida)-1] = bloque[len(bloque)-1]
	}
	return salida
}
