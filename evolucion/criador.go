package evolucion

import (
	"errors"
	"fmt"

	"github.com/cbiale/evocom/tipos"
)

// MaxIntentosCruce acota el muestreo por rechazo de los rangos de cruce
const MaxIntentosCruce = 1000

// ErrCruceInsatisfacible indica que ningún par de rangos produce un hijo de longitud válida
var ErrCruceInsatisfacible = errors.New("evolucion: restricciones de cruce insatisfacibles")

// Criador produce recetas nuevas por mutación y cruce, respetando la
// cantidad mínima y máxima de transformaciones.
type Criador struct {
	probMutacion        float64
	probCruceCompresion float64
	minTransformaciones int
	maxTransformaciones int
	aleatorio           *Aleatorio
}

// NuevoCriador crea un criador. maxTransformaciones se acota a lo que entra en la cabecera.
func NuevoCriador(probMutacion, probCruceCompresion float64, minTransformaciones, maxTransformaciones int, aleatorio *Aleatorio) *Criador {
	maxTransformaciones = min(maxTransformaciones, tipos.MaxTransformacionesCodificables)
	minTransformaciones = max(0, min(minTransformaciones, maxTransformaciones))
	return &Criador{
		probMutacion:        probMutacion,
		probCruceCompresion: probCruceCompresion,
		minTransformaciones: minTransformaciones,
		maxTransformaciones: maxTransformaciones,
		aleatorio:           aleatorio,
	}
}

// ProbMutacion retorna la probabilidad de mutación vigente
func (c *Criador) ProbMutacion() float64 {
	return c.probMutacion
}

// FijarProbMutacion cambia la probabilidad de mutación
func (c *Criador) FijarProbMutacion(p float64) {
	c.probMutacion = p
}

// RecetaAleatoria genera una receta con longitud uniforme en [min, max]
func (c *Criador) RecetaAleatoria() tipos.Receta {
	lista := make([]tipos.CodigoTransformacion, c.aleatorio.EnteroEnRango(c.minTransformaciones, c.maxTransformaciones))
	for i := range lista {
		lista[i] = c.aleatorio.TransformacionAleatoria()
	}
	return tipos.Receta{Transformaciones: lista, Compresion: c.aleatorio.CompresionAleatoria()}
}

// Mutar retorna una copia mutada: cada transformación y la compresión se
// reemplazan con probabilidad probMutacion, y con la misma probabilidad se
// agrega o quita una transformación.
func (c *Criador) Mutar(receta tipos.Receta) tipos.Receta {
	hijo := receta.Clonar()

	for i := range hijo.Transformaciones {
		if c.aleatorio.Probabilidad(c.probMutacion) {
			hijo.Transformaciones[i] = c.aleatorio.TransformacionAleatoria()
		}
	}
	if c.aleatorio.Probabilidad(c.probMutacion) {
		hijo.Compresion = c.aleatorio.CompresionAleatoria()
	}

	if c.aleatorio.Probabilidad(c.probMutacion) {
		n := len(hijo.Transformaciones)
		puedeAgregar := n < c.maxTransformaciones
		puedeQuitar := n > c.minTransformaciones
		switch {
		case puedeAgregar && puedeQuitar:
			if c.aleatorio.Moneda() {
				c.agregar(&hijo)
			} else {
				c.quitar(&hijo)
			}
		case puedeAgregar:
			c.agregar(&hijo)
		case puedeQuitar:
			c.quitar(&hijo)
		}
	}
	return hijo
}

func (c *Criador) agregar(r *tipos.Receta) {
	pos := c.aleatorio.EnteroEnRango(0, len(r.Transformaciones))
	r.Transformaciones = append(r.Transformaciones, 0)
	copy(r.Transformaciones[pos+1:], r.Transformaciones[pos:])
	r.Transformaciones[pos] = c.aleatorio.TransformacionAleatoria()
}

func (c *Criador) quitar(r *tipos.Receta) {
	pos := c.aleatorio.Indice(len(r.Transformaciones))
	r.Transformaciones = append(r.Transformaciones[:pos], r.Transformaciones[pos+1:]...)
}

// rango es un intervalo [desde, hasta) entre los bordes de una lista
type rango struct {
	desde, hasta int
}

func (c *Criador) rangoAleatorio(n int) rango {
	x := c.aleatorio.EnteroEnRango(0, n)
	y := c.aleatorio.EnteroEnRango(0, n)
	return rango{min(x, y), max(x, y)}
}

// Cruzar reemplaza un rango de a por un rango de b:
// a[:ra.desde] + b[rb.desde:rb.hasta] + a[ra.hasta:]
// Los rangos se sortean hasta que el hijo tenga longitud válida. La
// compresión se toma de a con probabilidad probCruceCompresion, si no de b.
func (c *Criador) Cruzar(a, b tipos.Receta) (tipos.Receta, error) {
	for intento := 0; intento < MaxIntentosCruce; intento++ {
		ra := c.rangoAleatorio(len(a.Transformaciones))
		rb := c.rangoAleatorio(len(b.Transformaciones))
		largo := len(a.Transformaciones) - (ra.hasta - ra.desde) + (rb.hasta - rb.desde)
		if largo < c.minTransformaciones || largo > c.maxTransformaciones {
			continue
		}

		lista := make([]tipos.CodigoTransformacion, 0, largo)
		lista = append(lista, a.Transformaciones[:ra.desde]...)
		lista = append(lista, b.Transformaciones[rb.desde:rb.hasta]...)
		lista = append(lista, a.Transformaciones[ra.hasta:]...)

		compresion := b.Compresion
		if c.aleatorio.Probabilidad(c.probCruceCompresion) {
			compresion = a.Compresion
		}
		return tipos.Receta{Transformaciones: lista, Compresion: compresion}, nil
	}
	return tipos.Receta{}, fmt.Errorf("%w: longitudes %d y %d con rango [%d, %d]",
		ErrCruceInsatisfacible, len(a.Transformaciones), len(b.Transformaciones),
		c.minTransformaciones, c.maxTransformaciones)
}
