/*
## Formato del archivo comprimido

	Flujo   := Rice(cantidadBloques) Bloque{cantidadBloques} relleno
	Bloque  := Cabecera Carga
	Cabecera:= Bits(n, 4) Bits(transformacion, 4){n} Bits(compresion, 4)

La carga la define el compresor de la receta y es autodelimitada. El
relleno son ceros hasta completar el último byte.

## Algoritmo de compresión

 1. Segmentar la entrada.
 2. Para cada bloque buscar la mejor receta (en paralelo si Asincrono). Si
    la caché guarda una receta que sigue codificando el bloque, se usa; si
    no, se evoluciona con semilla base + índice. Si la mejor aptitud es
    >= 1.0 se usa la receta identidad.
 3. Escribir los bloques en orden de entrada.
*/
package bloques

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"runtime"
	"time"

	"go.uber.org/zap"

	"github.com/cbiale/evocom/compresor"
	"github.com/cbiale/evocom/despachador"
	"github.com/cbiale/evocom/evolucion"
	"github.com/cbiale/evocom/flujobits"
	"github.com/cbiale/evocom/middleware"
	"github.com/cbiale/evocom/tipos"
)

// CacheRecetas guarda la receta elegida por contenido de bloque.
// *almacenamiento.CacheRecetas la implementa.
type CacheRecetas interface {
	Obtener(bloque tipos.Bloque) (tipos.Receta, bool, error)
	Guardar(bloque tipos.Bloque, receta tipos.Receta) error
}

// Opciones configura un CompresorSimple
type Opciones struct {
	Evolucion    evolucion.ConfiguracionEvolucion
	Segmentacion Segmentacion
	Asincrono    bool
	Trabajadores int   // 0 usa runtime.NumCPU()
	Semilla      int64 // 0 usa la hora actual
	Cache        CacheRecetas
	Publicador   middleware.Cliente
	Logger       *zap.Logger
}

// OpcionesPorDefecto retorna la configuración por defecto del compresor
func OpcionesPorDefecto() Opciones {
	return Opciones{
		Evolucion:    evolucion.ConfiguracionPorDefecto(),
		Segmentacion: SegmentacionPorDefecto(),
		Asincrono:    true,
	}
}

// EventoBloque se publica al terminar de codificar cada bloque
type EventoBloque struct {
	Informe string `json:"informe"`
	despachador.InformeBloque
	Milisegundos int64 `json:"milisegundos"`
}

// CompresorSimple comprime archivos bloque a bloque con recetas evolucionadas
type CompresorSimple struct {
	opciones Opciones
	logger   *zap.Logger
}

// NuevoCompresorSimple crea un compresor con las opciones dadas
func NuevoCompresorSimple(opciones Opciones) *CompresorSimple {
	if opciones.Logger == nil {
		opciones.Logger = zap.NewNop()
	}
	if opciones.Trabajadores <= 0 {
		opciones.Trabajadores = runtime.NumCPU()
	}
	return &CompresorSimple{
		opciones: opciones,
		logger:   opciones.Logger.Named("bloques"),
	}
}

// resultadoBloque es la salida de la búsqueda de un bloque
type resultadoBloque struct {
	receta     tipos.Receta
	desdeCache bool
	identidad  bool
	duracion   time.Duration
}

// Comprimir codifica datos en w y retorna el informe de la ejecución
func (c *CompresorSimple) Comprimir(ctx context.Context, datos []byte, w io.Writer) (despachador.InformeCompresion, error) {
	informe := despachador.NuevoInformeCompresion(tipos.ModoComprimir)
	if len(datos) == 0 {
		c.logger.Info("entrada vacía, no se escribe nada")
		informe.FijarTamanos(0, 0)
		return informe, nil
	}

	segmentos := c.opciones.Segmentacion.Segmentar(datos)
	semilla := c.opciones.Semilla
	if semilla == 0 {
		semilla = time.Now().UnixNano()
	}
	limite := 1
	if c.opciones.Asincrono {
		limite = c.opciones.Trabajadores
	}
	c.logger.Info("comprimiendo",
		zap.Int("bytes", len(datos)),
		zap.Int("bloques", len(segmentos)),
		zap.Int("trabajadores", limite),
		zap.Int64("semilla", semilla))

	resultados, err := despachador.Despachar(ctx, len(segmentos), limite,
		func(ctx context.Context, i int) (resultadoBloque, error) {
			inicio := time.Now()
			bloque := tipos.Bloque(datos[segmentos[i].Inicio:segmentos[i].Fin])
			r, err := c.mejorResultado(ctx, bloque, semilla+int64(i), c.logger.With(zap.Int("bloque", i)))
			r.duracion = time.Since(inicio)
			return r, err
		})
	if err != nil {
		return informe, err
	}

	escritor := flujobits.NuevoEscritor(w)
	if err := flujobits.EscribirRice(escritor, uint64(len(segmentos))); err != nil {
		return informe, err
	}
	for i, r := range resultados {
		bloque := tipos.Bloque(datos[segmentos[i].Inicio:segmentos[i].Fin])
		if err := compresor.CodificarReceta(r.receta, escritor); err != nil {
			return informe, fmt.Errorf("error codificando receta del bloque %d: %w", i, err)
		}
		if err := compresor.AplicarReceta(r.receta, bloque, escritor); err != nil {
			return informe, fmt.Errorf("error comprimiendo bloque %d con %v: %w", i, r.receta, err)
		}

		aptitud, _ := r.receta.Aptitud()
		entrada := despachador.InformeBloque{
			Indice:     i,
			Inicio:     segmentos[i].Inicio,
			Tamano:     len(bloque),
			Receta:     r.receta,
			Aptitud:    tipos.FloatNulo(aptitud),
			DesdeCache: r.desdeCache,
			Identidad:  r.identidad,
		}
		informe.Bloques = append(informe.Bloques, entrada)
		c.publicar(EventoBloque{Informe: informe.ID, InformeBloque: entrada, Milisegundos: r.duracion.Milliseconds()})
	}
	if err := escritor.ForzarUltimo(); err != nil {
		return informe, fmt.Errorf("error escribiendo salida: %w", err)
	}

	informe.FijarTamanos(int64(len(datos)), int64((escritor.BitsEscritos()+7)/8))
	c.logger.Info("compresión terminada",
		zap.Int64("original", informe.TamanoOriginal),
		zap.Int64("comprimido", informe.TamanoComprimido))
	return informe, nil
}

func (c *CompresorSimple) publicar(evento EventoBloque) {
	if c.opciones.Publicador == nil {
		return
	}
	if err := c.opciones.Publicador.Publicar(middleware.TopicoBloques, evento); err != nil {
		c.logger.Warn("no se pudo publicar el evento del bloque", zap.Int("bloque", evento.Indice), zap.Error(err))
	}
}

// MejorRecetaParaBloque retorna la receta que se usará para el bloque, con su aptitud
func (c *CompresorSimple) MejorRecetaParaBloque(ctx context.Context, bloque tipos.Bloque, semilla int64) (tipos.Receta, error) {
	r, err := c.mejorResultado(ctx, bloque, semilla, c.logger)
	return r.receta, err
}

func (c *CompresorSimple) mejorResultado(ctx context.Context, bloque tipos.Bloque, semilla int64, logger *zap.Logger) (resultadoBloque, error) {
	evaluador := evolucion.NuevoEvaluador(bloque, c.opciones.Evolucion.FuncionAptitud)

	if receta, ok := c.buscarEnCache(bloque, evaluador, logger); ok {
		return resultadoBloque{receta: receta, desdeCache: true}, nil
	}

	evolucionador := evolucion.NuevoEvolucionador(c.opciones.Evolucion, semilla, logger)
	mejor, err := evolucionador.EvolucionarMejor(ctx, bloque)
	if err != nil {
		return resultadoBloque{}, err
	}

	resultado := resultadoBloque{receta: mejor}
	if aptitud := evaluador.Aptitud(&mejor); aptitud >= 1.0 {
		logger.Debug("la mejor receta no comprime, se usa la identidad",
			zap.Stringer("receta", mejor), zap.Float64("aptitud", aptitud))
		identidad := tipos.RecetaIdentidad()
		evaluador.ForzarEvaluacion(&identidad)
		resultado = resultadoBloque{receta: identidad, identidad: true}
	}

	if c.opciones.Cache != nil {
		if err := c.opciones.Cache.Guardar(bloque, resultado.receta); err != nil {
			logger.Warn("no se pudo guardar en caché", zap.Error(err))
		}
	}
	return resultado, nil
}

// buscarEnCache retorna la receta guardada si todavía codifica el bloque.
// La aptitud se recalcula: la clave de caché puede colisionar.
func (c *CompresorSimple) buscarEnCache(bloque tipos.Bloque, evaluador *evolucion.Evaluador, logger *zap.Logger) (tipos.Receta, bool) {
	if c.opciones.Cache == nil {
		return tipos.Receta{}, false
	}
	receta, ok, err := c.opciones.Cache.Obtener(bloque)
	if err != nil {
		logger.Warn("error leyendo caché", zap.Error(err))
		return tipos.Receta{}, false
	}
	if !ok {
		return tipos.Receta{}, false
	}

	aptitud := evaluador.ForzarEvaluacion(&receta)
	if math.IsInf(aptitud, 0) || math.IsNaN(aptitud) {
		logger.Debug("receta en caché no codifica el bloque", zap.Stringer("receta", receta))
		return tipos.Receta{}, false
	}
	logger.Debug("receta tomada de caché", zap.Stringer("receta", receta), zap.Float64("aptitud", aptitud))
	return receta, true
}

// Descomprimir decodifica r en w y retorna la cantidad de bytes escritos
func (c *CompresorSimple) Descomprimir(ctx context.Context, r io.Reader, w io.Writer) (int64, error) {
	lector := flujobits.NuevoLector(r)
	cantidad, err := flujobits.LeerRice(lector)
	if errors.Is(err, flujobits.ErrFlujoTruncado) && lector.BitsLeidos() == 0 {
		c.logger.Info("entrada comprimida vacía")
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("error leyendo cantidad de bloques: %w", err)
	}
	c.logger.Info("descomprimiendo", zap.Uint64("bloques", cantidad))

	salida := bufio.NewWriter(w)
	var escritos int64
	for i := uint64(0); i < cantidad; i++ {
		if err := ctx.Err(); err != nil {
			return escritos, err
		}
		receta, err := compresor.DecodificarReceta(lector)
		if err != nil {
			return escritos, fmt.Errorf("error leyendo receta del bloque %d: %w", i, err)
		}
		bloque, err := compresor.DeshacerReceta(receta, lector)
		if err != nil {
			return escritos, fmt.Errorf("error decodificando bloque %d con %v: %w", i, receta, err)
		}
		n, err := salida.Write(bloque)
		escritos += int64(n)
		if err != nil {
			return escritos, fmt.Errorf("error escribiendo bloque %d: %w", i, err)
		}
		c.logger.Debug("bloque decodificado", zap.Uint64("bloque", i), zap.Stringer("receta", receta), zap.Int("bytes", len(bloque)))
	}
	if err := salida.Flush(); err != nil {
		return escritos, fmt.Errorf("error escribiendo salida: %w", err)
	}
	return escritos, nil
}
