package transformador

import (
	"bytes"
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cbiale/evocom/tipos"
)

// bloquesDePrueba cubre vacío, longitudes impares, corridas largas y ruido
func bloquesDePrueba() map[string]tipos.Bloque {
	rng := rand.New(rand.NewSource(7))
	aleatorio := make(tipos.Bloque, 1001)
	rng.Read(aleatorio)

	rampa := make(tipos.Bloque, 256)
	for i := range rampa {
		rampa[i] = tipos.Unidad(i)
	}

	return map[string]tipos.Bloque{
		"vacío":         {},
		"una unidad":    {42},
		"dos unidades":  {0xAB, 0xCD},
		"impar":         {1, 2, 3, 4, 5},
		"ceros":         make(tipos.Bloque, 8),
		"corrida larga": bytes.Repeat([]byte{9}, 600),
		"rampa":         rampa,
		"aleatorio":     aleatorio,
	}
}

// TestTransformaciones_Roundtrip verifica Deshacer(Aplicar(b)) == b para todo el catálogo
func TestTransformaciones_Roundtrip(t *testing.T) {
	for _, codigo := range tipos.TransformacionesDisponibles() {
		tr, err := Para(codigo)
		require.NoError(t, err)

		for nombre, bloque := range bloquesDePrueba() {
			t.Run(codigo.String()+"/"+nombre, func(t *testing.T) {
				original := bytes.Clone(bloque)
				aplicado := tr.Aplicar(bloque)
				assert.True(t, bytes.Equal(original, bloque), "Aplicar no debe modificar la entrada")

				recuperado, err := tr.Deshacer(aplicado)
				require.NoError(t, err)
				assert.True(t, bytes.Equal(original, recuperado),
					"roundtrip falló: %v -> %v -> %v", original, aplicado, recuperado)
			})
		}
	}
}

// TestPara_CodigoDesconocido verifica el error para códigos fuera del catálogo
func TestPara_CodigoDesconocido(t *testing.T) {
	_, err := Para(tipos.CodigoTransformacion(15))
	if !errors.Is(err, ErrTransformacionDesconocida) {
		t.Errorf("se esperaba ErrTransformacionDesconocida, obtenido %v", err)
	}
}

// TestPara_NombresCoinciden verifica que cada transformación se nombra como su código
func TestPara_NombresCoinciden(t *testing.T) {
	for _, codigo := range tipos.TransformacionesDisponibles() {
		tr, err := Para(codigo)
		require.NoError(t, err)
		assert.Equal(t, codigo.String(), tr.String())
	}
}

// TestDelta_Rampa verifica que una rampa queda en unos
func TestDelta_Rampa(t *testing.T) {
	salida := TransformacionDelta{}.Aplicar(tipos.Bloque{0, 1, 2, 3, 4})
	assert.Equal(t, tipos.Bloque{0, 1, 1, 1, 1}, salida)

	// Aritmética módulo 256
	salida = TransformacionDelta{}.Aplicar(tipos.Bloque{250, 5})
	assert.Equal(t, tipos.Bloque{250, 11}, salida)
	t.Log("✓ Delta de una rampa es constante")
}

// TestDeltaDelta_Rampa verifica que una rampa queda en ceros tras la segunda posición
func TestDeltaDelta_Rampa(t *testing.T) {
	salida := TransformacionDeltaDelta{}.Aplicar(tipos.Bloque{10, 13, 16, 19, 22})
	assert.Equal(t, tipos.Bloque{10, 3, 0, 0, 0}, salida)
}

// TestDeltaXOR_Ejemplo verifica el XOR con la unidad anterior
func TestDeltaXOR_Ejemplo(t *testing.T) {
	salida := TransformacionDeltaXOR{}.Aplicar(tipos.Bloque{0x0F, 0x0F, 0xF0})
	assert.Equal(t, tipos.Bloque{0x0F, 0x00, 0xFF}, salida)
}

// TestRunLength_Pares verifica el formato de pares y el corte en 255
func TestRunLength_Pares(t *testing.T) {
	salida := TransformacionRunLength{}.Aplicar(tipos.Bloque{7, 7, 7, 1})
	assert.Equal(t, tipos.Bloque{7, 3, 1, 1}, salida)

	salida = TransformacionRunLength{}.Aplicar(bytes.Repeat([]byte{2}, 300))
	assert.Equal(t, tipos.Bloque{2, 255, 2, 45}, salida)
}

// TestRunLength_DeshacerInvalido verifica el rechazo de bloques que Aplicar no produce
func TestRunLength_DeshacerInvalido(t *testing.T) {
	_, err := TransformacionRunLength{}.Deshacer(tipos.Bloque{1, 2, 3})
	assert.ErrorIs(t, err, ErrBloqueInvalido)

	_, err = TransformacionRunLength{}.Deshacer(tipos.Bloque{1, 0})
	assert.ErrorIs(t, err, ErrBloqueInvalido)
}

// TestDivision_Nibbles verifica la separación de nibbles por par
func TestDivision_Nibbles(t *testing.T) {
	salida := TransformacionDivision{}.Aplicar(tipos.Bloque{0x12, 0x34, 0x56, 0x78, 0x9A})
	// altos: 0x13, 0x57; bajos: 0x24, 0x68; 0x9A se conserva al final
	assert.Equal(t, tipos.Bloque{0x13, 0x57, 0x24, 0x68, 0x9A}, salida)

	apilado := TransformacionApilado{}.Aplicar(salida)
	assert.Equal(t, tipos.Bloque{0x12, 0x34, 0x56, 0x78, 0x9A}, apilado)
	t.Log("✓ Apilado invierte Division")
}

// TestPaso_Desentrelazado verifica el orden de los flujos
func TestPaso_Desentrelazado(t *testing.T) {
	bloque := tipos.Bloque{0, 1, 2, 3, 4, 5, 6}
	assert.Equal(t, tipos.Bloque{0, 2, 4, 6, 1, 3, 5}, TransformacionPaso{N: 2}.Aplicar(bloque))
	assert.Equal(t, tipos.Bloque{0, 3, 6, 1, 4, 2, 5}, TransformacionPaso{N: 3}.Aplicar(bloque))
	assert.Equal(t, tipos.Bloque{0, 4, 1, 5, 2, 6, 3}, TransformacionPaso{N: 4}.Aplicar(bloque))
}

// TestRestarPromedio_Formato verifica que el promedio viaja como primera unidad
func TestRestarPromedio_Formato(t *testing.T) {
	// suma 30, promedio 10
	salida := TransformacionRestarPromedio{}.Aplicar(tipos.Bloque{9, 10, 11})
	assert.Equal(t, tipos.Bloque{10, 255, 0, 1}, salida)

	salida = TransformacionRestarPromedioXOR{}.Aplicar(tipos.Bloque{9, 10, 11})
	assert.Equal(t, tipos.Bloque{10, 3, 0, 1}, salida)

	assert.Empty(t, TransformacionRestarPromedio{}.Aplicar(tipos.Bloque{}))

	_, err := TransformacionRestarPromedio{}.Deshacer(tipos.Bloque{5})
	assert.ErrorIs(t, err, ErrBloqueInvalido)
}
