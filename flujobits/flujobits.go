// Package flujobits implementa la lectura y escritura secuencial de bits
// (MSB primero dentro de cada byte) sobre fuentes y destinos de bytes, junto
// con las codificaciones de enteros usadas por el formato: campos de ancho
// fijo, unario y Rice exponencial.
package flujobits

import (
	"errors"
	"fmt"
)

var (
	// ErrFlujoTruncado indica que se intentó leer más allá del final de la entrada
	ErrFlujoTruncado = errors.New("flujobits: flujo truncado")
	// ErrCantidadBitsInvalida indica un ancho de campo fuera de [0, 64]
	ErrCantidadBitsInvalida = errors.New("flujobits: cantidad de bits inválida")
	// ErrValorFueraDeRango indica un valor que no puede codificarse con Rice
	ErrValorFueraDeRango = errors.New("flujobits: valor fuera de rango para Rice")
	// ErrRiceInvalido indica un prefijo unario imposible en la entrada
	ErrRiceInvalido = errors.New("flujobits: prefijo Rice inválido")
	// ErrEscritorCerrado indica una escritura posterior a ForzarUltimo
	ErrEscritorCerrado = errors.New("flujobits: escritor cerrado")
)

// EscritorBits es el contrato de escritura de bits usado por los compresores.
// Los errores del destino son persistentes y se consultan con Err.
type EscritorBits interface {
	EscribirBit(bit bool)
	EscribirBits(valor uint64, numBits int)
	Err() error
}

// LectorBits es el contrato de lectura de bits usado por los descompresores
type LectorBits interface {
	LeerBit() (bool, error)
	LeerBits(numBits int) (uint64, error)
}

// validarCantidadBits verifica que un campo de ancho fijo quepa en un uint64
func validarCantidadBits(numBits int) error {
	if numBits < 0 || numBits > 64 {
		return fmt.Errorf("%w: %d", ErrCantidadBitsInvalida, numBits)
	}
	return nil
}

// EscribirVector escribe una secuencia explícita de bits, el primero antes
func EscribirVector(w EscritorBits, bits []bool) {
	for _, b := range bits {
		w.EscribirBit(b)
	}
}

// LeerVector lee numBits bits; el elemento [0] es el primero leído
func LeerVector(r LectorBits, numBits int) ([]bool, error) {
	resultado := make([]bool, 0, numBits)
	for i := 0; i < numBits; i++ {
		bit, err := r.LeerBit()
		if err != nil {
			return nil, err
		}
		resultado = append(resultado, bit)
	}
	return resultado, nil
}

// EscribirUnario escribe valor ceros seguidos de un uno
func EscribirUnario(w EscritorBits, valor uint64) {
	for i := uint64(0); i < valor; i++ {
		w.EscribirBit(false)
	}
	w.EscribirBit(true)
}

// LeerUnario consume bits hasta el primer uno y retorna la cantidad de ceros
func LeerUnario(r LectorBits) (uint64, error) {
	var ceros uint64
	for {
		bit, err := r.LeerBit()
		if err != nil {
			return 0, err
		}
		if bit {
			return ceros, nil
		}
		ceros++
	}
}
