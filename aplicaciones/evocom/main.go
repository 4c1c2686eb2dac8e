package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cbiale/evocom/almacenamiento"
	"github.com/cbiale/evocom/bloques"
	"github.com/cbiale/evocom/configuracion"
	"github.com/cbiale/evocom/despachador"
	"github.com/cbiale/evocom/middleware"
	"github.com/cbiale/evocom/tipos"
)

func main() {
	ctx, cancelar := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancelar()

	if err := (&aplicacion{}).ejecutarArgs(ctx, os.Args[1:]); err != nil {
		os.Exit(1)
	}
}

// aplicacion acumula las advertencias de configuración de una ejecución
type aplicacion struct {
	advertencias []configuracion.Advertencia
}

// ejecutarArgs quita los flags desconocidos antes de que cobra los rechace
func (a *aplicacion) ejecutarArgs(ctx context.Context, args []string) error {
	comando := a.comando()
	filtrados, advertencias := configuracion.FiltrarFlagsDesconocidos(comando.Flags(), args)
	a.advertencias = append(a.advertencias, advertencias...)
	comando.SetArgs(filtrados)
	return comando.ExecuteContext(ctx)
}

func (a *aplicacion) comando() *cobra.Command {
	comando := &cobra.Command{
		Use:           "evocom [archivo]",
		Short:         "Compresor por bloques con recetas evolucionadas",
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          a.ejecutar,
	}
	configuracion.RegistrarFlags(comando.Flags())
	return comando
}

func crearLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func (a *aplicacion) ejecutar(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	v := configuracion.NuevoViper(cmd.Flags())
	if len(args) > 0 && !cmd.Flags().Changed(configuracion.NombreFlag(configuracion.ClaveArchivo)) {
		v.Set(configuracion.ClaveArchivo, args[0])
		args = args[1:]
	}
	if len(args) > 0 {
		a.advertencias = append(a.advertencias, configuracion.Advertencia{
			Mensaje: fmt.Sprintf("argumentos sobrantes %q ignorados", args),
		})
	}
	cfg, advertencias := configuracion.Cargar(v)
	a.advertencias = append(a.advertencias, advertencias...)

	logger, err := crearLogger(cfg.Verbose)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error creando logger:", err)
		return err
	}
	defer logger.Sync()

	for _, adv := range a.advertencias {
		logger.Warn("configuración", zap.String("clave", adv.Clave), zap.String("detalle", adv.Mensaje))
	}
	if volcado, err := cfg.JSON(); err == nil {
		logger.Debug("configuración efectiva", zap.ByteString("json", volcado))
	}

	if err := correr(ctx, cfg, logger); err != nil {
		logger.Error("ejecución fallida", zap.Error(err))
		return err
	}
	return nil
}

func correr(ctx context.Context, cfg configuracion.Configuracion, logger *zap.Logger) (err error) {
	if cfg.Entrada == "" {
		return fmt.Errorf("falta el archivo de entrada (--%s)", configuracion.NombreFlag(configuracion.ClaveArchivo))
	}
	salida := cfg.Salida
	if salida == "" {
		salida = almacenamiento.RutaEstandar
	}
	almacen := almacenamiento.NuevoAlmacen(ctx, cfg.S3)

	fuente, err := almacen.AbrirFuente(ctx, cfg.Entrada)
	if err != nil {
		return err
	}
	defer fuente.Close()

	destino, err := almacen.CrearDestino(ctx, salida)
	if err != nil {
		return err
	}
	defer func() {
		if errCierre := destino.Close(); errCierre != nil && err == nil {
			err = errCierre
		}
	}()

	opciones := cfg.OpcionesCompresor()
	opciones.Logger = logger

	var informe despachador.InformeCompresion
	switch cfg.Modo {
	case tipos.ModoDescomprimir:
		informe, err = descomprimir(ctx, opciones, fuente, destino)
	default:
		informe, err = comprimir(ctx, cfg, opciones, fuente, destino, logger)
	}
	if err != nil {
		return err
	}

	informe.Entrada = cfg.Entrada
	informe.Salida = salida
	logger.Info("listo",
		zap.String("id", informe.ID),
		zap.Stringer("modo", cfg.Modo),
		zap.Int64("original", informe.TamanoOriginal),
		zap.Int64("comprimido", informe.TamanoComprimido))

	if cfg.Informe != "" {
		return escribirInforme(ctx, almacen, cfg.Informe, informe)
	}
	return nil
}

func comprimir(ctx context.Context, cfg configuracion.Configuracion, opciones bloques.Opciones, fuente io.Reader, destino io.Writer, logger *zap.Logger) (despachador.InformeCompresion, error) {
	datos, err := io.ReadAll(fuente)
	if err != nil {
		return despachador.InformeCompresion{}, fmt.Errorf("error leyendo %s: %w", cfg.Entrada, err)
	}

	if cfg.DirectorioCache != "" {
		cache, err := almacenamiento.AbrirCacheRecetas(cfg.DirectorioCache)
		if err != nil {
			return despachador.InformeCompresion{}, err
		}
		defer func() {
			if err := cache.Cerrar(); err != nil {
				logger.Warn("error cerrando caché", zap.Error(err))
			}
		}()
		opciones.Cache = cache
	}

	publicador, err := middleware.Conectar(cfg.URLNotificacion, logger)
	if err != nil {
		logger.Warn("sin notificaciones", zap.Error(err))
	} else {
		defer publicador.Desconectar()
		opciones.Publicador = publicador
	}

	return bloques.NuevoCompresorSimple(opciones).Comprimir(ctx, datos, destino)
}

// contadorBytes cuenta lo que pasa por un io.Reader
type contadorBytes struct {
	io.Reader
	total int64
}

func (c *contadorBytes) Read(p []byte) (int, error) {
	n, err := c.Reader.Read(p)
	c.total += int64(n)
	return n, err
}

func descomprimir(ctx context.Context, opciones bloques.Opciones, fuente io.Reader, destino io.Writer) (despachador.InformeCompresion, error) {
	informe := despachador.NuevoInformeCompresion(tipos.ModoDescomprimir)
	contador := &contadorBytes{Reader: fuente}
	escritos, err := bloques.NuevoCompresorSimple(opciones).Descomprimir(ctx, contador, destino)
	if err != nil {
		return informe, err
	}
	informe.FijarTamanos(escritos, contador.total)
	return informe, nil
}

func escribirInforme(ctx context.Context, almacen *almacenamiento.Almacen, ruta string, informe despachador.InformeCompresion) error {
	destino, err := almacen.CrearDestino(ctx, ruta)
	if err != nil {
		return err
	}
	if err := informe.EscribirJSON(destino); err != nil {
		destino.Close()
		return fmt.Errorf("error escribiendo informe: %w", err)
	}
	return destino.Close()
}
