package compresor

import (
	"fmt"

	"github.com/cbiale/evocom/flujobits"
	"github.com/cbiale/evocom/tipos"
	"github.com/cbiale/evocom/transformador"
)

// CodificarReceta escribe la cabecera de receta de un bloque:
// [4 bits: cantidad][4 bits por transformación][4 bits: compresión]
func CodificarReceta(receta tipos.Receta, w flujobits.EscritorBits) error {
	if err := receta.Valida(); err != nil {
		return fmt.Errorf("%w: %v", ErrCodigoDesconocido, err)
	}
	w.EscribirBits(uint64(len(receta.Transformaciones)), tipos.BitsCantidadTransformaciones)
	for _, t := range receta.Transformaciones {
		w.EscribirBits(uint64(t), tipos.BitsCodigoTransformacion)
	}
	w.EscribirBits(uint64(receta.Compresion), tipos.BitsCodigoCompresion)
	return nil
}

// DecodificarReceta lee una cabecera de receta y valida cada código
func DecodificarReceta(r flujobits.LectorBits) (tipos.Receta, error) {
	cantidad, err := r.LeerBits(tipos.BitsCantidadTransformaciones)
	if err != nil {
		return tipos.Receta{}, fmt.Errorf("error leyendo cantidad de transformaciones: %w", err)
	}

	transformaciones := make([]tipos.CodigoTransformacion, cantidad)
	for i := range transformaciones {
		v, err := r.LeerBits(tipos.BitsCodigoTransformacion)
		if err != nil {
			return tipos.Receta{}, fmt.Errorf("error leyendo transformación %d: %w", i, err)
		}
		codigo := tipos.CodigoTransformacion(v)
		if !codigo.Valida() {
			return tipos.Receta{}, fmt.Errorf("%w: transformación %d", ErrCodigoDesconocido, v)
		}
		transformaciones[i] = codigo
	}

	v, err := r.LeerBits(tipos.BitsCodigoCompresion)
	if err != nil {
		return tipos.Receta{}, fmt.Errorf("error leyendo compresión: %w", err)
	}
	compresion := tipos.CodigoCompresion(v)
	if !compresion.Valida() {
		return tipos.Receta{}, fmt.Errorf("%w: compresión %d", ErrCodigoDesconocido, v)
	}

	return tipos.Receta{Transformaciones: transformaciones, Compresion: compresion}, nil
}

// AplicarReceta transforma el bloque de izquierda a derecha y lo comprime.
// Solo escribe la carga; la cabecera la escribe CodificarReceta.
func AplicarReceta(receta tipos.Receta, bloque tipos.Bloque, w flujobits.EscritorBits) error {
	compresor, err := Para(receta.Compresion)
	if err != nil {
		return err
	}
	actual := bloque
	for _, codigo := range receta.Transformaciones {
		t, err := transformador.Para(codigo)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrCodigoDesconocido, err)
		}
		actual = t.Aplicar(actual)
	}
	if err := compresor.Comprimir(actual, w); err != nil {
		return fmt.Errorf("error comprimiendo con %s: %w", receta.Compresion, err)
	}
	return w.Err()
}

// DeshacerReceta descomprime la carga y deshace las transformaciones de derecha a izquierda
func DeshacerReceta(receta tipos.Receta, r flujobits.LectorBits) (tipos.Bloque, error) {
	compresor, err := Para(receta.Compresion)
	if err != nil {
		return nil, err
	}
	bloque, err := compresor.Descomprimir(r)
	if err != nil {
		return nil, fmt.Errorf("error descomprimiendo con %s: %w", receta.Compresion, err)
	}
	for i := len(receta.Transformaciones) - 1; i >= 0; i-- {
		t, err := transformador.Para(receta.Transformaciones[i])
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCodigoDesconocido, err)
		}
		if bloque, err = t.Deshacer(bloque); err != nil {
			return nil, fmt.Errorf("error deshaciendo %s: %w", t, err)
		}
	}
	return bloque, nil
}

// BitsReceta mide cabecera más carga sin materializar la salida
func BitsReceta(receta tipos.Receta, bloque tipos.Bloque) (uint64, error) {
	contador := flujobits.NuevoContador()
	if err := CodificarReceta(receta, contador); err != nil {
		return 0, err
	}
	if err := AplicarReceta(receta, bloque, contador); err != nil {
		return 0, err
	}
	return contador.Total(), nil
}
