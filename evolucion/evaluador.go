package evolucion

import (
	"math"

	"github.com/cbiale/evocom/compresor"
	"github.com/cbiale/evocom/tipos"
)

var infinito = math.Inf(1)

// FuncionAptitud mide una receta contra un bloque; menor es mejor
type FuncionAptitud func(receta tipos.Receta, bloque tipos.Bloque) float64

// RatioCompresion es la aptitud por defecto: bits de cabecera más carga sobre
// los bits crudos del bloque. Una receta que no puede codificar el bloque vale +Inf.
func RatioCompresion(receta tipos.Receta, bloque tipos.Bloque) float64 {
	if len(bloque) == 0 {
		panic("evolucion: aptitud de un bloque vacío")
	}
	bits, err := compresor.BitsReceta(receta, bloque)
	if err != nil {
		return infinito
	}
	if bits == 0 {
		panic("evolucion: receta codificada en cero bits")
	}
	return float64(bits) / float64(tipos.BitsPorUnidad*len(bloque))
}

// Evaluador calcula aptitudes contra un bloque fijo y las guarda en la receta
type Evaluador struct {
	bloque       tipos.Bloque
	funcion      FuncionAptitud
	evaluaciones int
}

// NuevoEvaluador crea un evaluador para el bloque. funcion nil usa RatioCompresion.
func NuevoEvaluador(bloque tipos.Bloque, funcion FuncionAptitud) *Evaluador {
	if funcion == nil {
		funcion = RatioCompresion
	}
	return &Evaluador{bloque: bloque, funcion: funcion}
}

// Aptitud retorna la aptitud guardada o la calcula y la guarda
func (e *Evaluador) Aptitud(receta *tipos.Receta) float64 {
	if apt, ok := receta.Aptitud(); ok {
		return apt
	}
	return e.ForzarEvaluacion(receta)
}

// ForzarEvaluacion recalcula la aptitud aunque ya esté guardada
func (e *Evaluador) ForzarEvaluacion(receta *tipos.Receta) float64 {
	apt := e.funcion(*receta, e.bloque)
	e.evaluaciones++
	receta.FijarAptitud(apt)
	return apt
}

// Evaluaciones retorna cuántas veces se ejecutó la función de aptitud
func (e *Evaluador) Evaluaciones() int {
	return e.evaluaciones
}
