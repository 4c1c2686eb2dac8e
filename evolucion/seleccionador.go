package evolucion

import (
	"errors"
	"fmt"

	"github.com/cbiale/evocom/tipos"
)

// ErrSeleccionNoImplementada indica un tipo de selección sin implementación
var ErrSeleccionNoImplementada = errors.New("evolucion: tipo de selección no implementado")

// TipoSeleccion es la estrategia con la que se eligen padres
type TipoSeleccion interface {
	tipoSeleccion()
}

// SeleccionTorneo sortea un torneo de max(1, floor(Proporcion·|pool|))
// individuos con reemplazo y se queda con el de menor aptitud.
type SeleccionTorneo struct {
	Proporcion float64
}

// SeleccionProporcional es la selección por ruleta. Se acepta en la
// configuración pero no está implementada.
type SeleccionProporcional struct{}

func (SeleccionTorneo) tipoSeleccion()       {}
func (SeleccionProporcional) tipoSeleccion() {}

// Seleccionador elige padres de un pool con aptitudes ya calculadas
type Seleccionador struct {
	tipo      TipoSeleccion
	pool      []tipos.Receta
	aleatorio *Aleatorio
}

// NuevoSeleccionador crea un seleccionador con la estrategia indicada
func NuevoSeleccionador(tipo TipoSeleccion, aleatorio *Aleatorio) *Seleccionador {
	return &Seleccionador{tipo: tipo, aleatorio: aleatorio}
}

// PrepararPool fija la población de la que se eligen padres
func (s *Seleccionador) PrepararPool(poblacion []tipos.Receta) error {
	switch s.tipo.(type) {
	case SeleccionTorneo:
		s.pool = poblacion
		return nil
	default:
		return fmt.Errorf("%w: %T", ErrSeleccionNoImplementada, s.tipo)
	}
}

// Seleccionar elige un padre del pool
func (s *Seleccionador) Seleccionar() (tipos.Receta, error) {
	torneo, ok := s.tipo.(SeleccionTorneo)
	if !ok {
		return tipos.Receta{}, fmt.Errorf("%w: %T", ErrSeleccionNoImplementada, s.tipo)
	}
	if len(s.pool) == 0 {
		return tipos.Receta{}, errors.New("evolucion: pool vacío")
	}

	participantes := max(1, int(torneo.Proporcion*float64(len(s.pool))))
	mejor := s.pool[s.aleatorio.Indice(len(s.pool))]
	for i := 1; i < participantes; i++ {
		candidato := s.pool[s.aleatorio.Indice(len(s.pool))]
		if aptitudDe(candidato) < aptitudDe(mejor) {
			mejor = candidato
		}
	}
	return mejor, nil
}

// SeleccionarElite retorna las k recetas de menor aptitud, sin ordenar.
// Usa quickselect sobre una copia del pool. k > len(pool) es un error de
// programación.
func SeleccionarElite(k int, pool []tipos.Receta) []tipos.Receta {
	if k > len(pool) {
		panic(fmt.Sprintf("evolucion: élite de %d sobre un pool de %d", k, len(pool)))
	}
	copia := append([]tipos.Receta(nil), pool...)
	quickselect(copia, k)
	return copia[:k]
}

// quickselect reordena r de modo que los k menores queden en r[:k]
func quickselect(r []tipos.Receta, k int) {
	izq, der := 0, len(r)-1
	for izq < der {
		pivote := aptitudDe(r[(izq+der)/2])
		i, j := izq, der
		for i <= j {
			for aptitudDe(r[i]) < pivote {
				i++
			}
			for aptitudDe(r[j]) > pivote {
				j--
			}
			if i <= j {
				r[i], r[j] = r[j], r[i]
				i++
				j--
			}
		}
		switch {
		case k <= j:
			der = j
		case k >= i:
			izq = i
		default:
			return
		}
	}
}

// aptitudDe lee la aptitud guardada; una receta sin evaluar es la peor posible
func aptitudDe(r tipos.Receta) float64 {
	if apt, ok := r.Aptitud(); ok {
		return apt
	}
	return infinito
}
