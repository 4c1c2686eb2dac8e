package flujobits

import (
	"bufio"
	"io"
)

// Escritor escribe bits individuales sobre un io.Writer, MSB primero.
// ForzarUltimo debe llamarse una vez al terminar o los últimos bits se pierden.
type Escritor struct {
	destino *bufio.Writer
	actual  byte
	count   int // número de bits escritos en el byte actual
	total   uint64
	cerrado bool
	err     error
}

// NuevoEscritor crea un nuevo Escritor sobre w
func NuevoEscritor(w io.Writer) *Escritor {
	return &Escritor{destino: bufio.NewWriter(w)}
}

// EscribirBit escribe un solo bit
func (e *Escritor) EscribirBit(bit bool) {
	if e.err != nil {
		return
	}
	if e.cerrado {
		e.err = ErrEscritorCerrado
		return
	}

	if bit {
		e.actual |= 1 << (7 - e.count)
	}

	e.count++
	e.total++
	if e.count == 8 {
		e.err = e.destino.WriteByte(e.actual)
		e.actual = 0
		e.count = 0
	}
}

// EscribirBits escribe los numBits bits menos significativos de valor, el más significativo primero
func (e *Escritor) EscribirBits(valor uint64, numBits int) {
	if err := validarCantidadBits(numBits); err != nil {
		if e.err == nil {
			e.err = err
		}
		return
	}
	for i := numBits - 1; i >= 0; i-- {
		e.EscribirBit((valor & (1 << uint(i))) != 0)
	}
}

// BitsEscritos retorna la cantidad de bits escritos hasta ahora, sin relleno
func (e *Escritor) BitsEscritos() uint64 {
	return e.total
}

// Err retorna el primer error encontrado al escribir
func (e *Escritor) Err() error {
	return e.err
}

// ForzarUltimo completa el último byte con ceros y vacía el buffer
func (e *Escritor) ForzarUltimo() error {
	if e.err != nil {
		return e.err
	}
	if e.cerrado {
		return ErrEscritorCerrado
	}
	if e.count > 0 {
		if err := e.destino.WriteByte(e.actual); err != nil {
			e.err = err
			return err
		}
		e.actual = 0
		e.count = 0
	}
	e.cerrado = true
	if err := e.destino.Flush(); err != nil {
		e.err = err
		return err
	}
	return nil
}
