package evolucion

import (
	"math/rand"

	"github.com/cbiale/evocom/tipos"
)

// Aleatorio agrupa las elecciones al azar del algoritmo genético. Cada bloque
// usa su propia instancia, así la búsqueda en paralelo no comparte estado.
type Aleatorio struct {
	rng              *rand.Rand
	transformaciones []tipos.CodigoTransformacion
	compresiones     []tipos.CodigoCompresion
}

// NuevoAleatorio crea un generador con semilla fija
func NuevoAleatorio(semilla int64) *Aleatorio {
	return &Aleatorio{
		rng:              rand.New(rand.NewSource(semilla)),
		transformaciones: tipos.TransformacionesDisponibles(),
		compresiones:     tipos.CompresionesDisponibles(),
	}
}

// Probabilidad retorna true con probabilidad p
func (a *Aleatorio) Probabilidad(p float64) bool {
	return a.rng.Float64() < p
}

// Moneda es una elección justa
func (a *Aleatorio) Moneda() bool {
	return a.rng.Intn(2) == 0
}

// EnteroEnRango retorna un entero uniforme en [desde, hasta], ambos incluidos
func (a *Aleatorio) EnteroEnRango(desde, hasta int) int {
	return desde + a.rng.Intn(hasta-desde+1)
}

// Indice retorna un índice uniforme en [0, n)
func (a *Aleatorio) Indice(n int) int {
	return a.rng.Intn(n)
}

// TransformacionAleatoria elige un código del catálogo de transformaciones
func (a *Aleatorio) TransformacionAleatoria() tipos.CodigoTransformacion {
	return a.transformaciones[a.rng.Intn(len(a.transformaciones))]
}

// CompresionAleatoria elige un código del catálogo de compresores
func (a *Aleatorio) CompresionAleatoria() tipos.CodigoCompresion {
	return a.compresiones[a.rng.Intn(len(a.compresiones))]
}
