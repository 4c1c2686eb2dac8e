/*
## Carga de la configuración

Orden de prioridad (la primera fuente que define la clave gana):
 1. flags de línea de comandos
 2. variables de entorno EVOCOM_<CLAVE>
 3. archivo indicado con --config (yaml, json, toml o KEY=VALUE sin extensión)
 4. valores por defecto

Ningún problema de configuración aborta la ejecución: archivos ilegibles,
claves desconocidas, valores que no se pueden convertir y valores fuera de
rango producen una Advertencia y se usa el valor por defecto (o el valor
acotado).
*/
package configuracion

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cast"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/cbiale/evocom/almacenamiento"
	"github.com/cbiale/evocom/bloques"
	"github.com/cbiale/evocom/evolucion"
	"github.com/cbiale/evocom/tipos"
)

// PrefijoEntorno es el prefijo de las variables de entorno
const PrefijoEntorno = "EVOCOM"

// maxTamanoBloque acota el tamaño de bloque fijo
const maxTamanoBloque = 1 << 24

// Claves de configuración
const (
	ClaveModo                 = "mode"
	ClaveArchivo              = "file"
	ClaveSalida               = "output"
	ClaveConfig               = "config"
	ClaveTipoSegmento         = "segment_type"
	ClaveTamanoSegmentoFijo   = "fixed_segment_size"
	ClaveUmbralSegmento       = "clustered_segment_threshold"
	ClaveEnfriamientoSegmento = "clustered_segment_cooldown"
	ClaveGeneraciones         = "generations"
	ClavePoblacion            = "population"
	ClaveProbMutacion         = "mutation_rate"
	ClaveProbCruceCompresion  = "compression_crossover_rate"
	ClaveUsaRecocido          = "uses_annealing"
	ClaveTamanoElite          = "elite_size"
	ClaveTamanoTorneo         = "tournament_selection_size"
	ClaveUmbralMutacion       = "excessive_mutation_threshold"
	ClaveUmbralInestabilidad  = "unstability_threshold"
	ClaveMinTransformaciones  = "min_transform_amount"
	ClaveMaxTransformaciones  = "max_transform_amount"
	ClaveAsincrono            = "async"
	ClaveSemilla              = "seed"
	ClaveTrabajadores         = "workers"
	ClaveDirectorioCache      = "cache_dir"
	ClaveURLNotificacion      = "notify_url"
	ClaveInforme              = "report"
	ClaveS3Endpoint           = "s3_endpoint"
	ClaveS3AccessKey          = "s3_access_key"
	ClaveS3SecretKey          = "s3_secret_key"
	ClaveS3Region             = "s3_region"
	ClaveVerbose              = "verbose"
)

// Advertencia es un problema de configuración que no detiene la ejecución
type Advertencia struct {
	Clave   string `json:"clave,omitempty"`
	Mensaje string `json:"mensaje"`
}

func (a Advertencia) String() string {
	if a.Clave == "" {
		return a.Mensaje
	}
	return a.Clave + ": " + a.Mensaje
}

// Configuracion es el conjunto completo de parámetros de una ejecución
type Configuracion struct {
	Modo                 tipos.Modo                       `json:"modo"`
	Entrada              string                           `json:"entrada"`
	Salida               string                           `json:"salida"`
	ArchivoConfiguracion string                           `json:"archivo_configuracion,omitempty"`
	Segmentacion         bloques.Segmentacion             `json:"segmentacion"`
	Evolucion            evolucion.ConfiguracionEvolucion `json:"evolucion"`
	Asincrono            bool                             `json:"asincrono"`
	Semilla              int64                            `json:"semilla"`
	Trabajadores         int                              `json:"trabajadores"`
	DirectorioCache      string                           `json:"directorio_cache,omitempty"`
	URLNotificacion      string                           `json:"url_notificacion,omitempty"`
	Informe              string                           `json:"informe,omitempty"`
	S3                   tipos.ConfiguracionS3            `json:"-"`
	Verbose              bool                             `json:"verbose"`
}

// clave describe una clave conocida: su flag, su valor por defecto y su ayuda
type clave struct {
	nombre      string
	porDefecto  interface{}
	descripcion string
	corto       string
}

func clavesConocidas() []clave {
	evo := evolucion.ConfiguracionPorDefecto()
	seg := bloques.SegmentacionPorDefecto()
	return []clave{
		{ClaveModo, "", "compress o decompress (por defecto según la extensión de la entrada)", ""},
		{ClaveArchivo, "", "archivo de entrada, s3://bucket/clave o - para stdin", "f"},
		{ClaveSalida, "", "archivo de salida (por defecto entrada.evo o entrada sin .evo)", "o"},
		{ClaveConfig, "", "archivo de configuración", ""},
		{ClaveTipoSegmento, seg.Metodo.String(), "segmentación: fixed o clustered", ""},
		{ClaveTamanoSegmentoFijo, seg.TamanoFijo, "tamaño de bloque con segmentación fija", ""},
		{ClaveUmbralSegmento, seg.Umbral, "distancia de variación total que abre un bloque nuevo", ""},
		{ClaveEnfriamientoSegmento, seg.Enfriamiento, "ventanas mínimas entre cortes", ""},
		{ClaveGeneraciones, evo.Generaciones, "generaciones por bloque", ""},
		{ClavePoblacion, evo.Poblacion, "individuos por generación", ""},
		{ClaveProbMutacion, evo.ProbMutacion, "probabilidad de mutación", ""},
		{ClaveProbCruceCompresion, evo.ProbCruceCompresion, "probabilidad de heredar la compresión del primer padre", ""},
		{ClaveUsaRecocido, evo.UsaRecocido, "ajustar la tasa de mutación durante la evolución", ""},
		{ClaveTamanoElite, evo.TamanoElite, "individuos que pasan sin cambios", ""},
		{ClaveTamanoTorneo, evo.TamanoTorneo, "participantes por torneo", ""},
		{ClaveUmbralMutacion, evo.UmbralMutacionExcesiva, "tasa de mutación máxima con recocido", ""},
		{ClaveUmbralInestabilidad, evo.UmbralInestabilidad, "dispersión que reduce la tasa de mutación", ""},
		{ClaveMinTransformaciones, evo.MinTransformaciones, "transformaciones mínimas por receta", ""},
		{ClaveMaxTransformaciones, evo.MaxTransformaciones, "transformaciones máximas por receta (hasta 15)", ""},
		{ClaveAsincrono, true, "evolucionar bloques en paralelo", ""},
		{ClaveSemilla, int64(0), "semilla aleatoria (0 usa la hora)", ""},
		{ClaveTrabajadores, 0, "bloques en paralelo (0 usa la cantidad de CPUs)", ""},
		{ClaveDirectorioCache, "", "directorio de la caché de recetas", ""},
		{ClaveURLNotificacion, "", "mqtt://, nats:// o coap:// para publicar eventos por bloque", ""},
		{ClaveInforme, "", "archivo donde escribir el informe JSON", ""},
		{ClaveS3Endpoint, "", "endpoint S3-compatible", ""},
		{ClaveS3AccessKey, "", "access key de S3", ""},
		{ClaveS3SecretKey, "", "secret key de S3", ""},
		{ClaveS3Region, "", "región de S3", ""},
		{ClaveVerbose, false, "log de desarrollo", "v"},
	}
}

// NombreFlag convierte una clave en su flag: fixed_segment_size -> fixed-segment-size
func NombreFlag(nombre string) string {
	return strings.ReplaceAll(nombre, "_", "-")
}

// RegistrarFlags define un flag por clave conocida
func RegistrarFlags(flags *pflag.FlagSet) {
	for _, c := range clavesConocidas() {
		nombre := NombreFlag(c.nombre)
		switch v := c.porDefecto.(type) {
		case string:
			flags.StringP(nombre, c.corto, v, c.descripcion)
		case int:
			flags.IntP(nombre, c.corto, v, c.descripcion)
		case int64:
			flags.Int64P(nombre, c.corto, v, c.descripcion)
		case float64:
			flags.Float64P(nombre, c.corto, v, c.descripcion)
		case bool:
			flags.BoolP(nombre, c.corto, v, c.descripcion)
		}
	}
}

// FiltrarFlagsDesconocidos quita de args los flags que flags no define y
// reporta cada uno como advertencia. Un flag desconocido sin "=" consume el
// argumento siguiente si no es otro flag, como en "-clave valor". Los flags
// conocidos con un solo guion o con "_" se reescriben: "-GENERATIONS 10" pasa
// a "--generations 10".
func FiltrarFlagsDesconocidos(flags *pflag.FlagSet, args []string) ([]string, []Advertencia) {
	var filtrados []string
	var advertencias []Advertencia
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			return append(filtrados, args[i:]...), advertencias
		}
		if !esFlag(arg) {
			filtrados = append(filtrados, arg)
			continue
		}

		largo := strings.HasPrefix(arg, "--")
		nombre, valor, conValor := strings.Cut(strings.TrimLeft(arg, "-"), "=")
		switch {
		case esFlagLargo(flags, nombre):
			reescrito := "--" + NombreFlag(strings.ToLower(nombre))
			if conValor {
				reescrito += "=" + valor
			}
			filtrados = append(filtrados, reescrito)
			continue
		case !largo && esGrupoCorto(flags, nombre):
			filtrados = append(filtrados, arg)
			continue
		}

		ignorado := arg
		if !conValor && i+1 < len(args) && !esFlag(args[i+1]) {
			i++
			ignorado += " " + args[i]
		}
		advertencias = append(advertencias, Advertencia{Mensaje: fmt.Sprintf("flag desconocido '%s' ignorado", ignorado)})
	}
	return filtrados, advertencias
}

// esFlag indica si arg tiene forma de flag. "-" solo es stdin y "-5" es un valor.
func esFlag(arg string) bool {
	if len(arg) < 2 || arg[0] != '-' || arg == "--" {
		return false
	}
	return !strings.ContainsRune("0123456789.", rune(arg[1]))
}

// esFlagLargo acepta el nombre del flag o la clave con "_", sin distinguir mayúsculas
func esFlagLargo(flags *pflag.FlagSet, nombre string) bool {
	if len(nombre) < 2 {
		return false
	}
	nombre = NombreFlag(strings.ToLower(nombre))
	return nombre == "help" || flags.Lookup(nombre) != nil
}

// esGrupoCorto indica si nombre es válido como "-abc": atajos lógicos
// seguidos, opcionalmente, de un atajo con valor pegado ("-vfarchivo").
func esGrupoCorto(flags *pflag.FlagSet, nombre string) bool {
	if nombre == "" {
		return false
	}
	for i := 0; i < len(nombre); i++ {
		corto := nombre[i : i+1]
		if corto == "h" {
			continue
		}
		f := flags.ShorthandLookup(corto)
		if f == nil {
			return false
		}
		if f.Value.Type() != "bool" {
			return true
		}
	}
	return true
}

// cargador acumula advertencias mientras lee valores de viper
type cargador struct {
	v            *viper.Viper
	advertencias []Advertencia
}

func (c *cargador) advertir(nombre, formato string, args ...interface{}) {
	c.advertencias = append(c.advertencias, Advertencia{Clave: nombre, Mensaje: fmt.Sprintf(formato, args...)})
}

func (c *cargador) porDefecto(nombre string) interface{} {
	for _, k := range clavesConocidas() {
		if k.nombre == nombre {
			return k.porDefecto
		}
	}
	return nil
}

func (c *cargador) texto(nombre string) string {
	v, err := cast.ToStringE(c.v.Get(nombre))
	if err != nil {
		c.advertir(nombre, "valor '%v' no es texto, se usa el valor por defecto", c.v.Get(nombre))
		return cast.ToString(c.porDefecto(nombre))
	}
	return strings.TrimSpace(v)
}

func (c *cargador) entero(nombre string) int {
	v, err := cast.ToIntE(c.v.Get(nombre))
	if err != nil {
		c.advertir(nombre, "valor '%v' no es entero, se usa el valor por defecto", c.v.Get(nombre))
		return cast.ToInt(c.porDefecto(nombre))
	}
	return v
}

func (c *cargador) entero64(nombre string) int64 {
	v, err := cast.ToInt64E(c.v.Get(nombre))
	if err != nil {
		c.advertir(nombre, "valor '%v' no es entero, se usa el valor por defecto", c.v.Get(nombre))
		return cast.ToInt64(c.porDefecto(nombre))
	}
	return v
}

func (c *cargador) real(nombre string) float64 {
	v, err := cast.ToFloat64E(c.v.Get(nombre))
	if err != nil {
		c.advertir(nombre, "valor '%v' no es un número, se usa el valor por defecto", c.v.Get(nombre))
		return cast.ToFloat64(c.porDefecto(nombre))
	}
	return v
}

func (c *cargador) logico(nombre string) bool {
	v, err := cast.ToBoolE(c.v.Get(nombre))
	if err != nil {
		c.advertir(nombre, "valor '%v' no es true/false, se usa el valor por defecto", c.v.Get(nombre))
		return cast.ToBool(c.porDefecto(nombre))
	}
	return v
}

// acotar limita v a [minimo, maximo] advirtiendo si cambia
func (c *cargador) acotar(nombre string, v, minimo, maximo int) int {
	acotado := max(minimo, min(v, maximo))
	if acotado != v {
		c.advertir(nombre, "valor %d fuera de [%d, %d], se usa %d", v, minimo, maximo, acotado)
	}
	return acotado
}

func (c *cargador) acotarReal(nombre string, v, minimo, maximo float64) float64 {
	acotado := max(minimo, min(v, maximo))
	if acotado != v {
		c.advertir(nombre, "valor %g fuera de [%g, %g], se usa %g", v, minimo, maximo, acotado)
	}
	return acotado
}

// NuevoViper crea una instancia con valores por defecto, entorno y flags enlazados
func NuevoViper(flags *pflag.FlagSet) *viper.Viper {
	v := viper.New()
	for _, c := range clavesConocidas() {
		v.SetDefault(c.nombre, c.porDefecto)
		if flags != nil {
			if f := flags.Lookup(NombreFlag(c.nombre)); f != nil {
				_ = v.BindPFlag(c.nombre, f)
			}
		}
	}
	v.SetEnvPrefix(PrefijoEntorno)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v
}

// leerArchivo incorpora el archivo de configuración si hay uno
func (c *cargador) leerArchivo() string {
	ruta := c.texto(ClaveConfig)
	if ruta == "" {
		return ""
	}
	c.v.SetConfigFile(ruta)
	if filepath.Ext(ruta) == "" {
		c.v.SetConfigType("env")
	}
	if err := c.v.ReadInConfig(); err != nil {
		c.advertir(ClaveConfig, "no se pudo leer '%s': %v", ruta, err)
		return ruta
	}

	conocidas := map[string]bool{}
	for _, k := range clavesConocidas() {
		conocidas[k.nombre] = true
	}
	for _, k := range c.v.AllKeys() {
		if !conocidas[k] {
			c.advertir(k, "clave desconocida en '%s', se ignora", ruta)
		}
	}
	return ruta
}

// Cargar arma la configuración a partir de v. Nunca falla: los problemas se
// reportan como advertencias.
func Cargar(v *viper.Viper) (Configuracion, []Advertencia) {
	c := &cargador{v: v}
	var cfg Configuracion

	cfg.ArchivoConfiguracion = c.leerArchivo()
	cfg.Verbose = c.logico(ClaveVerbose)
	cfg.Entrada = c.texto(ClaveArchivo)
	cfg.Salida = c.texto(ClaveSalida)

	cfg.Modo = tipos.ModoDesconocido
	if texto := c.texto(ClaveModo); texto != "" {
		modo, err := tipos.ParsearModo(strings.ToLower(texto))
		if err != nil {
			c.advertir(ClaveModo, "%v", err)
		} else {
			cfg.Modo = modo
		}
	}
	if cfg.Modo == tipos.ModoDesconocido {
		cfg.Modo = tipos.ModoComprimir
		if strings.HasSuffix(cfg.Entrada, tipos.ExtensionComprimida) {
			cfg.Modo = tipos.ModoDescomprimir
		}
	}
	if cfg.Salida == "" && cfg.Entrada != "" && cfg.Entrada != almacenamiento.RutaEstandar {
		cfg.Salida = tipos.RutaSalida(cfg.Entrada, cfg.Modo)
	}
	// s3://bucket/prefijo/ recibe el nombre de la entrada
	if tipos.EsURLS3(cfg.Salida) && strings.HasSuffix(cfg.Salida, "/") && cfg.Entrada != "" && cfg.Entrada != almacenamiento.RutaEstandar {
		bucket, prefijo, _ := strings.Cut(strings.TrimPrefix(cfg.Salida, "s3://"), "/")
		cfg.Salida = "s3://" + bucket + "/" + tipos.GenerarClaveS3Archivo(prefijo, cfg.Entrada, cfg.Modo)
	}

	// segmentación
	cfg.Segmentacion = bloques.SegmentacionPorDefecto()
	metodo, err := tipos.ParsearMetodoSegmentacion(strings.ToLower(c.texto(ClaveTipoSegmento)))
	if err != nil {
		c.advertir(ClaveTipoSegmento, "%v, se usa %s", err, cfg.Segmentacion.Metodo)
	} else {
		cfg.Segmentacion.Metodo = metodo
	}
	cfg.Segmentacion.TamanoFijo = c.acotar(ClaveTamanoSegmentoFijo, c.entero(ClaveTamanoSegmentoFijo), 1, maxTamanoBloque)
	cfg.Segmentacion.Umbral = c.acotarReal(ClaveUmbralSegmento, c.real(ClaveUmbralSegmento), 0, 1)
	cfg.Segmentacion.Enfriamiento = c.acotar(ClaveEnfriamientoSegmento, c.entero(ClaveEnfriamientoSegmento), 0, 1<<20)

	// evolución
	evo := evolucion.ConfiguracionPorDefecto()
	evo.Generaciones = c.acotar(ClaveGeneraciones, c.entero(ClaveGeneraciones), 0, 1<<20)
	evo.Poblacion = c.acotar(ClavePoblacion, c.entero(ClavePoblacion), 1, 1<<20)
	evo.ProbMutacion = c.acotarReal(ClaveProbMutacion, c.real(ClaveProbMutacion), 0, 1)
	evo.ProbCruceCompresion = c.acotarReal(ClaveProbCruceCompresion, c.real(ClaveProbCruceCompresion), 0, 1)
	evo.UsaRecocido = c.logico(ClaveUsaRecocido)
	evo.TamanoElite = c.acotar(ClaveTamanoElite, c.entero(ClaveTamanoElite), 0, evo.Poblacion)
	evo.TamanoTorneo = c.acotar(ClaveTamanoTorneo, c.entero(ClaveTamanoTorneo), 1, evo.Poblacion)
	evo.UmbralMutacionExcesiva = c.acotarReal(ClaveUmbralMutacion, c.real(ClaveUmbralMutacion), 0, 1)
	evo.UmbralInestabilidad = c.acotarReal(ClaveUmbralInestabilidad, c.real(ClaveUmbralInestabilidad), 0, 1)
	evo.MaxTransformaciones = c.acotar(ClaveMaxTransformaciones, c.entero(ClaveMaxTransformaciones), 0, tipos.MaxTransformacionesCodificables)
	evo.MinTransformaciones = c.acotar(ClaveMinTransformaciones, c.entero(ClaveMinTransformaciones), 0, evo.MaxTransformaciones)
	cfg.Evolucion = evo

	cfg.Asincrono = c.logico(ClaveAsincrono)
	cfg.Semilla = c.entero64(ClaveSemilla)
	cfg.Trabajadores = c.acotar(ClaveTrabajadores, c.entero(ClaveTrabajadores), 0, 1<<10)
	cfg.DirectorioCache = c.texto(ClaveDirectorioCache)
	cfg.URLNotificacion = c.texto(ClaveURLNotificacion)
	cfg.Informe = c.texto(ClaveInforme)

	cfg.S3 = tipos.ConfiguracionS3{
		Endpoint:        c.texto(ClaveS3Endpoint),
		AccessKeyID:     c.texto(ClaveS3AccessKey),
		SecretAccessKey: c.texto(ClaveS3SecretKey),
		Region:          c.texto(ClaveS3Region),
	}
	cfg.S3.AplicarDefaults()
	if err := cfg.S3.Validar(); err != nil {
		c.advertir("s3", "%v", err)
	}

	return cfg, c.advertencias
}

// JSON serializa la configuración sin credenciales
func (cfg Configuracion) JSON() ([]byte, error) {
	return json.MarshalIndent(cfg, "", "  ")
}

// OpcionesCompresor traduce la configuración a opciones del compresor.
// Caché, publicador y logger los completa quien los crea.
func (cfg Configuracion) OpcionesCompresor() bloques.Opciones {
	return bloques.Opciones{
		Evolucion:    cfg.Evolucion,
		Segmentacion: cfg.Segmentacion,
		Asincrono:    cfg.Asincrono,
		Trabajadores: cfg.Trabajadores,
		Semilla:      cfg.Semilla,
	}
}
