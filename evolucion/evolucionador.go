package evolucion

import (
	"context"
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/cbiale/evocom/tipos"
)

const (
	factorRecocido             = 1.5
	intentosUnicosPorIndividuo = 50
)

// ConfiguracionEvolucion contiene los parámetros del algoritmo genético por bloque
type ConfiguracionEvolucion struct {
	Generaciones        int     `json:"generaciones"`
	Poblacion           int     `json:"poblacion"`
	ProbMutacion        float64 `json:"prob_mutacion"`
	ProbCruceCompresion float64 `json:"prob_cruce_compresion"`
	TamanoElite         int     `json:"tamano_elite"`
	TamanoTorneo        int     `json:"tamano_torneo"`
	MinTransformaciones int     `json:"min_transformaciones"`
	MaxTransformaciones int     `json:"max_transformaciones"`

	// Recocido de la tasa de mutación
	UsaRecocido            bool    `json:"usa_recocido"`
	UmbralMutacionExcesiva float64 `json:"umbral_mutacion_excesiva"`
	UmbralInestabilidad    float64 `json:"umbral_inestabilidad"`

	// Seleccion nil usa SeleccionTorneo con TamanoTorneo/Poblacion
	Seleccion TipoSeleccion `json:"-"`
	// FuncionAptitud nil usa RatioCompresion
	FuncionAptitud FuncionAptitud `json:"-"`
}

// ConfiguracionPorDefecto retorna los valores por defecto del compresor
func ConfiguracionPorDefecto() ConfiguracionEvolucion {
	return ConfiguracionEvolucion{
		Generaciones:           36,
		Poblacion:              36,
		ProbMutacion:           0.1,
		ProbCruceCompresion:    0.3,
		TamanoElite:            3,
		TamanoTorneo:           4,
		MinTransformaciones:    0,
		MaxTransformaciones:    6,
		UsaRecocido:            true,
		UmbralMutacionExcesiva: 0.75,
		UmbralInestabilidad:    0.4,
	}
}

func (c ConfiguracionEvolucion) tipoSeleccion() TipoSeleccion {
	if c.Seleccion != nil {
		return c.Seleccion
	}
	return SeleccionTorneo{Proporcion: float64(c.TamanoTorneo) / float64(max(1, c.Poblacion))}
}

// Evolucionador busca la mejor receta para un bloque
type Evolucionador struct {
	cfg           ConfiguracionEvolucion
	aleatorio     *Aleatorio
	criador       *Criador
	seleccionador *Seleccionador
	logger        *zap.Logger
	historial     []float64
}

// NuevoEvolucionador crea un evolucionador con su propio generador aleatorio
func NuevoEvolucionador(cfg ConfiguracionEvolucion, semilla int64, logger *zap.Logger) *Evolucionador {
	if logger == nil {
		logger = zap.NewNop()
	}
	cfg.Poblacion = max(1, cfg.Poblacion)
	cfg.TamanoElite = max(0, min(cfg.TamanoElite, cfg.Poblacion))

	aleatorio := NuevoAleatorio(semilla)
	return &Evolucionador{
		cfg:           cfg,
		aleatorio:     aleatorio,
		criador:       NuevoCriador(cfg.ProbMutacion, cfg.ProbCruceCompresion, cfg.MinTransformaciones, cfg.MaxTransformaciones, aleatorio),
		seleccionador: NuevoSeleccionador(cfg.tipoSeleccion(), aleatorio),
		logger:        logger.Named("evolucion"),
	}
}

// Historial retorna la mejor aptitud vista al final de cada generación
func (e *Evolucionador) Historial() []float64 {
	return append([]float64(nil), e.historial...)
}

// poblacionInicial junta recetas distintas; con mínimo cero la identidad siempre participa
func (e *Evolucionador) poblacionInicial() []tipos.Receta {
	var semilla []tipos.Receta
	if e.criador.minTransformaciones == 0 {
		semilla = append(semilla, tipos.RecetaIdentidad())
	}
	poblacion, completo := GenerarUnicos(e.cfg.Poblacion, semilla, e.criador.RecetaAleatoria,
		tipos.Receta.Clave, e.cfg.Poblacion*intentosUnicosPorIndividuo)
	if !completo {
		e.logger.Debug("población inicial con repeticiones", zap.Int("poblacion", e.cfg.Poblacion))
	}
	return poblacion
}

// EvolucionarMejor ejecuta el algoritmo genético sobre el bloque y retorna la
// mejor receta vista en cualquier generación, con su aptitud guardada.
func (e *Evolucionador) EvolucionarMejor(ctx context.Context, bloque tipos.Bloque) (tipos.Receta, error) {
	evaluador := NuevoEvaluador(bloque, e.cfg.FuncionAptitud)
	poblacion := e.poblacionInicial()
	e.historial = e.historial[:0]

	var mejor tipos.Receta
	mejorAptitud := infinito
	hayMejor := false

	for generacion := 0; ; generacion++ {
		if err := ctx.Err(); err != nil {
			return tipos.Receta{}, err
		}

		mejoro := false
		for i := range poblacion {
			apt := evaluador.Aptitud(&poblacion[i])
			if !hayMejor || apt < mejorAptitud {
				mejor, mejorAptitud, hayMejor = poblacion[i], apt, true
				mejoro = true
			}
		}
		e.historial = append(e.historial, mejorAptitud)
		e.logger.Debug("generación evaluada",
			zap.Int("generacion", generacion),
			zap.Float64("mejor", mejorAptitud),
			zap.Float64("prob_mutacion", e.criador.ProbMutacion()))

		if generacion == e.cfg.Generaciones {
			break
		}
		if e.cfg.UsaRecocido && generacion > 0 {
			e.recocer(poblacion, mejorAptitud, mejoro)
		}

		siguiente, err := e.siguienteGeneracion(poblacion)
		if err != nil {
			return tipos.Receta{}, err
		}
		poblacion = siguiente
	}

	e.logger.Debug("evolución terminada",
		zap.Stringer("receta", mejor),
		zap.Float64("aptitud", mejorAptitud),
		zap.Int("evaluaciones", evaluador.Evaluaciones()))
	return mejor, nil
}

// siguienteGeneracion conserva la élite y completa con hijos de cruce y mutación
func (e *Evolucionador) siguienteGeneracion(poblacion []tipos.Receta) ([]tipos.Receta, error) {
	siguiente := make([]tipos.Receta, 0, e.cfg.Poblacion)
	siguiente = append(siguiente, SeleccionarElite(min(e.cfg.TamanoElite, len(poblacion)), poblacion)...)

	if err := e.seleccionador.PrepararPool(poblacion); err != nil {
		return nil, err
	}
	for len(siguiente) < e.cfg.Poblacion {
		a, err := e.seleccionador.Seleccionar()
		if err != nil {
			return nil, err
		}
		b, err := e.seleccionador.Seleccionar()
		if err != nil {
			return nil, err
		}
		hijo, err := e.criador.Cruzar(a, b)
		if err != nil {
			return nil, fmt.Errorf("error cruzando %v y %v: %w", a, b, err)
		}
		siguiente = append(siguiente, e.criador.Mutar(hijo))
	}
	return siguiente, nil
}

// recocer ajusta la tasa de mutación: sube si la generación no mejoró y baja
// si la población está demasiado dispersa, sin salir de [base, umbral excesivo].
func (e *Evolucionador) recocer(poblacion []tipos.Receta, mejor float64, mejoro bool) {
	tasa := e.criador.ProbMutacion()
	if !mejoro {
		tasa = min(tasa*factorRecocido, max(e.cfg.UmbralMutacionExcesiva, e.cfg.ProbMutacion))
	}
	if dispersionRelativa(poblacion, mejor) > e.cfg.UmbralInestabilidad {
		tasa = max(tasa/factorRecocido, e.cfg.ProbMutacion)
	}
	e.criador.FijarProbMutacion(tasa)
}

// dispersionRelativa es (media - mejor) / media sobre las aptitudes finitas
func dispersionRelativa(poblacion []tipos.Receta, mejor float64) float64 {
	var suma float64
	n := 0
	for _, r := range poblacion {
		if apt := aptitudDe(r); !math.IsInf(apt, 0) && !math.IsNaN(apt) {
			suma += apt
			n++
		}
	}
	if n == 0 || suma == 0 {
		return 0
	}
	media := suma / float64(n)
	return (media - mejor) / media
}
