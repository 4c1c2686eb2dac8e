/*
## Codificación Rice exponencial - Para enteros no negativos pequeños

Objetivo: representar enteros con pocos bits cuando son pequeños, sin conocer
de antemano su magnitud.

Formato:
• prefijo: k codificado en unario (k ceros y un uno)
• contenido: bitSize = (k+1)*2 bits con valor - offset(bitSize)

offset(bitSize) = (4^(bitSize/2) - 1)/3 - 1

Cada incremento del prefijo agrega dos bits de contenido, y los rangos son
contiguos:
• k=0: 2 bits, valores 0..3
• k=1: 4 bits, valores 4..19
• k=2: 6 bits, valores 20..83

El escritor elige el menor k tal que valor - offset(bitSize) < 2^bitSize.
*/

package flujobits

import "fmt"

// maxPrefijoRice limita el contenido a 62 bits
const maxPrefijoRice = 30

// offsetRice calcula el primer valor representable con bitSize bits de contenido.
// Como bitSize es par, 4^(bitSize/2) = 2^bitSize.
func offsetRice(bitSize int) uint64 {
	return ((uint64(1)<<uint(bitSize))-1)/3 - 1
}

// parametrosRice retorna el prefijo y el tamaño de contenido para valor
func parametrosRice(valor uint64) (prefijo uint64, bitSize int, err error) {
	for k := 0; k <= maxPrefijoRice; k++ {
		bs := (k + 1) * 2
		if valor-offsetRice(bs) < uint64(1)<<uint(bs) {
			return uint64(k), bs, nil
		}
	}
	return 0, 0, fmt.Errorf("%w: %d", ErrValorFueraDeRango, valor)
}

// EscribirRice escribe valor en codificación Rice exponencial
func EscribirRice(w EscritorBits, valor uint64) error {
	prefijo, bitSize, err := parametrosRice(valor)
	if err != nil {
		return err
	}
	EscribirUnario(w, prefijo)
	w.EscribirBits(valor-offsetRice(bitSize), bitSize)
	return nil
}

// LeerRice lee un valor en codificación Rice exponencial
func LeerRice(r LectorBits) (uint64, error) {
	prefijo, err := leerPrefijoRice(r)
	if err != nil {
		return 0, err
	}
	bitSize := int(prefijo+1) * 2
	contenido, err := r.LeerBits(bitSize)
	if err != nil {
		return 0, err
	}
	return contenido + offsetRice(bitSize), nil
}

// leerPrefijoRice es LeerUnario acotado a maxPrefijoRice para no recorrer
// entradas corruptas hasta el final
func leerPrefijoRice(r LectorBits) (uint64, error) {
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
		if ceros > maxPrefijoRice {
			return 0, ErrRiceInvalido
		}
	}
}

// BitsRice retorna la cantidad de bits que ocupa valor codificado en Rice
func BitsRice(valor uint64) (uint64, error) {
	prefijo, bitSize, err := parametrosRice(valor)
	if err != nil {
		return 0, err
	}
	return prefijo + 1 + uint64(bitSize), nil
}
