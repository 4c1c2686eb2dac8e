package flujobits

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
)

// Lector consume bits de un io.Reader, MSB primero. Nunca retrocede.
type Lector struct {
	fuente    io.ByteReader
	actual    byte
	restantes int // bits aún no consumidos de actual
	leidos    uint64
}

// NuevoLector crea un nuevo Lector sobre r
func NuevoLector(r io.Reader) *Lector {
	if br, ok := r.(io.ByteReader); ok {
		return &Lector{fuente: br}
	}
	return &Lector{fuente: bufio.NewReader(r)}
}

// NuevoLectorBytes crea un Lector sobre un slice en memoria
func NuevoLectorBytes(datos []byte) *Lector {
	return &Lector{fuente: bytes.NewReader(datos)}
}

// LeerBit lee un solo bit
func (l *Lector) LeerBit() (bool, error) {
	if l.restantes == 0 {
		b, err := l.fuente.ReadByte()
		if errors.Is(err, io.EOF) {
			return false, ErrFlujoTruncado
		}
		if err != nil {
			return false, fmt.Errorf("error leyendo byte: %w", err)
		}
		l.actual = b
		l.restantes = 8
	}

	l.restantes--
	l.leidos++
	return (l.actual & (1 << uint(l.restantes))) != 0, nil
}

// LeerBits lee exactamente numBits bits y los retorna como entero, el primero leído es el más significativo
func (l *Lector) LeerBits(numBits int) (uint64, error) {
	if err := validarCantidadBits(numBits); err != nil {
		return 0, err
	}
	var result uint64
	for i := 0; i < numBits; i++ {
		bit, err := l.LeerBit()
		if err != nil {
			return 0, err
		}
		result <<= 1
		if bit {
			result |= 1
		}
	}
	return result, nil
}

// BitsLeidos retorna la cantidad de bits consumidos
func (l *Lector) BitsLeidos() uint64 {
	return l.leidos
}
