package evolucion

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cbiale/evocom/tipos"
)

func recetaDeLargo(n int, compresion tipos.CodigoCompresion) tipos.Receta {
	lista := make([]tipos.CodigoTransformacion, n)
	for i := range lista {
		lista[i] = tipos.CodigoTransformacion(i % 11)
	}
	return tipos.NuevaReceta(compresion, lista...)
}

// TestCruzar_LongitudAcotada verifica que el hijo de listas 3 y 5 queda en [1, 6]
func TestCruzar_LongitudAcotada(t *testing.T) {
	criador := NuevoCriador(0.1, 0.3, 1, 6, NuevoAleatorio(1))
	a := recetaDeLargo(3, tipos.Huffman)
	b := recetaDeLargo(5, tipos.RLE)

	largos := map[int]int{}
	for i := 0; i < 10000; i++ {
		hijo, err := criador.Cruzar(a, b)
		require.NoError(t, err)
		n := len(hijo.Transformaciones)
		if n < 1 || n > 6 {
			t.Fatalf("hijo de longitud %d fuera de [1, 6]", n)
		}
		largos[n]++
		if hijo.Compresion != tipos.Huffman && hijo.Compresion != tipos.RLE {
			t.Fatalf("compresión %v no proviene de ningún padre", hijo.Compresion)
		}
	}
	t.Logf("✓ Distribución de longitudes: %v", largos)
}

// TestCruzar_NoModificaPadres verifica que los padres quedan intactos
func TestCruzar_NoModificaPadres(t *testing.T) {
	criador := NuevoCriador(0.1, 0.5, 0, 6, NuevoAleatorio(2))
	a := recetaDeLargo(4, tipos.Bits)
	b := tipos.NuevaReceta(tipos.ZSTD, tipos.DeltaDelta, tipos.DeltaDelta)
	copiaA, copiaB := a.Clonar(), b.Clonar()

	for i := 0; i < 500; i++ {
		_, err := criador.Cruzar(a, b)
		require.NoError(t, err)
	}
	assert.True(t, a.Igual(copiaA))
	assert.True(t, b.Igual(copiaB))
}

// TestCruzar_Insatisfacible verifica el error cuando ninguna longitud es alcanzable
func TestCruzar_Insatisfacible(t *testing.T) {
	criador := NuevoCriador(0.1, 0.3, 5, 6, NuevoAleatorio(3))
	_, err := criador.Cruzar(tipos.RecetaIdentidad(), tipos.RecetaIdentidad())
	if !errors.Is(err, ErrCruceInsatisfacible) {
		t.Errorf("se esperaba ErrCruceInsatisfacible, obtenido %v", err)
	}
}

// TestMutar_RespetaLimites verifica que la mutación nunca sale de [min, max]
func TestMutar_RespetaLimites(t *testing.T) {
	for _, limites := range [][2]int{{0, 6}, {1, 3}, {2, 2}, {0, 15}} {
		t.Run(fmt.Sprintf("%d-%d", limites[0], limites[1]), func(t *testing.T) {
			criador := NuevoCriador(1.0, 0.3, limites[0], limites[1], NuevoAleatorio(4))
			receta := criador.RecetaAleatoria()
			for i := 0; i < 2000; i++ {
				receta = criador.Mutar(receta)
				n := len(receta.Transformaciones)
				if n < limites[0] || n > limites[1] {
					t.Fatalf("longitud %d fuera de %v", n, limites)
				}
				require.NoError(t, receta.Valida())
			}
		})
	}
}

// TestMutar_ProbabilidadCero verifica que sin mutación el hijo es igual al padre
func TestMutar_ProbabilidadCero(t *testing.T) {
	criador := NuevoCriador(0, 0.3, 0, 6, NuevoAleatorio(5))
	padre := recetaDeLargo(4, tipos.Gzip)
	padre.FijarAptitud(0.5)

	hijo := criador.Mutar(padre)
	assert.True(t, hijo.Igual(padre))
	assert.False(t, hijo.Evaluada(), "el hijo debe evaluarse de nuevo")
}

// TestMutar_NoModificaPadre verifica que la mutación trabaja sobre una copia
func TestMutar_NoModificaPadre(t *testing.T) {
	criador := NuevoCriador(1.0, 0.3, 0, 6, NuevoAleatorio(6))
	padre := recetaDeLargo(5, tipos.Huffman)
	copia := padre.Clonar()
	for i := 0; i < 100; i++ {
		criador.Mutar(padre)
	}
	assert.True(t, padre.Igual(copia))
}

// TestNuevoCriador_AcotaMaximo verifica el límite de la cabecera
func TestNuevoCriador_AcotaMaximo(t *testing.T) {
	criador := NuevoCriador(0.1, 0.3, 20, 40, NuevoAleatorio(7))
	assert.Equal(t, tipos.MaxTransformacionesCodificables, criador.maxTransformaciones)
	assert.Equal(t, tipos.MaxTransformacionesCodificables, criador.minTransformaciones)
}

// TestGenerarUnicos verifica unicidad y el caso de espacio insuficiente
func TestGenerarUnicos(t *testing.T) {
	aleatorio := NuevoAleatorio(8)
	clave := func(v int) string { return fmt.Sprint(v) }

	valores, completo := GenerarUnicos(20, []int{-1}, func() int { return aleatorio.Indice(1000) }, clave, 10000)
	assert.True(t, completo)
	assert.Len(t, valores, 20)
	assert.Equal(t, -1, valores[0], "la semilla va primero")
	vistos := map[int]bool{}
	for _, v := range valores {
		assert.False(t, vistos[v], "valor repetido %d", v)
		vistos[v] = true
	}

	// Solo tres valores posibles
	valores, completo = GenerarUnicos(5, nil, func() int { return aleatorio.Indice(3) }, clave, 100)
	assert.False(t, completo)
	assert.Len(t, valores, 5)
	t.Log("✓ GenerarUnicos termina aunque el espacio sea chico")
}
