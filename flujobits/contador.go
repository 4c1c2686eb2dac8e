package flujobits

// Contador cumple EscritorBits pero descarta los bits y solo los cuenta.
// Se usa para medir el tamaño de una codificación sin materializarla.
type Contador struct {
	total uint64
	err   error
}

// NuevoContador crea un contador en cero
func NuevoContador() *Contador {
	return &Contador{}
}

func (c *Contador) EscribirBit(bool) {
	c.total++
}

func (c *Contador) EscribirBits(_ uint64, numBits int) {
	if err := validarCantidadBits(numBits); err != nil {
		if c.err == nil {
			c.err = err
		}
		return
	}
	c.total += uint64(numBits)
}

func (c *Contador) Err() error {
	return c.err
}

// Total retorna la cantidad de bits contados
func (c *Contador) Total() uint64 {
	return c.total
}
