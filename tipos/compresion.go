package tipos

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Catálogos de códigos que viajan en la cabecera de cada bloque.
//
// Una receta se escribe como:
//   - 4 bits: cantidad de transformaciones
//   - 4 bits por transformación: CodigoTransformacion
//   - 4 bits: CodigoCompresion
//
// Los códigos son parte del formato de archivo: agregar uno nuevo al final es
// compatible, reordenar los existentes no lo es.

// Anchos de los campos de la cabecera de receta
const (
	BitsCantidadTransformaciones = 4
	BitsCodigoTransformacion     = 4
	BitsCodigoCompresion         = 4

	// MaxTransformacionesCodificables es la mayor lista que entra en BitsCantidadTransformaciones
	MaxTransformacionesCodificables = 1<<BitsCantidadTransformaciones - 1
)

// CodigoTransformacion identifica una transformación reversible
type CodigoTransformacion uint8

// Valores posibles para CodigoTransformacion
const (
	Delta             CodigoTransformacion = 0  // b[i] - b[i-1]
	DeltaXOR          CodigoTransformacion = 1  // b[i] ^ b[i-1]
	RunLength         CodigoTransformacion = 2  // pares (valor, cantidad)
	Division          CodigoTransformacion = 3  // separa nibbles altos y bajos en dos mitades
	Apilado           CodigoTransformacion = 4  // inversa de Division
	Paso2             CodigoTransformacion = 5  // desentrelazado de paso 2
	Paso3             CodigoTransformacion = 6  // desentrelazado de paso 3
	Paso4             CodigoTransformacion = 7  // desentrelazado de paso 4
	RestarPromedio    CodigoTransformacion = 8  // resta el promedio (transmitido al inicio)
	RestarPromedioXOR CodigoTransformacion = 9  // XOR con el promedio (transmitido al inicio)
	DeltaDelta        CodigoTransformacion = 10 // diferencia de segundo orden
)

var nombresTransformacion = [...]string{
	Delta:             "Delta",
	DeltaXOR:          "DeltaXOR",
	RunLength:         "RunLength",
	Division:          "Division",
	Apilado:           "Apilado",
	Paso2:             "Paso2",
	Paso3:             "Paso3",
	Paso4:             "Paso4",
	RestarPromedio:    "RestarPromedio",
	RestarPromedioXOR: "RestarPromedioXOR",
	DeltaDelta:        "DeltaDelta",
}

var transformacionesDisponibles = [...]CodigoTransformacion{
	Delta, DeltaXOR, RunLength, Division, Apilado,
	Paso2, Paso3, Paso4, RestarPromedio, RestarPromedioXOR, DeltaDelta,
}

// TransformacionesDisponibles retorna una copia del catálogo de transformaciones
func TransformacionesDisponibles() []CodigoTransformacion {
	return append([]CodigoTransformacion(nil), transformacionesDisponibles[:]...)
}

// Valida indica si el código pertenece al catálogo
func (c CodigoTransformacion) Valida() bool {
	return int(c) < len(nombresTransformacion)
}

func (c CodigoTransformacion) String() string {
	if !c.Valida() {
		return fmt.Sprintf("Transformacion(%d)", uint8(c))
	}
	return nombresTransformacion[c]
}

// MarshalJSON serializa el código por su nombre
func (c CodigoTransformacion) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

// ParsearCodigoTransformacion busca un código por nombre, sin distinguir mayúsculas
func ParsearCodigoTransformacion(nombre string) (CodigoTransformacion, error) {
	for _, c := range transformacionesDisponibles {
		if strings.EqualFold(c.String(), nombre) {
			return c, nil
		}
	}
	return 0, fmt.Errorf("transformación desconocida: '%s'", nombre)
}

// CodigoCompresion identifica un compresor de entropía
type CodigoCompresion uint8

// Valores posibles para CodigoCompresion
const (
	Ninguna     CodigoCompresion = 0 // Identidad: unidades crudas
	RLE         CodigoCompresion = 1 // Run-Length Encoding
	Huffman     CodigoCompresion = 2 // Huffman con frecuencias cuantizadas
	Bits        CodigoCompresion = 3 // Empaquetado al ancho mínimo
	Diccionario CodigoCompresion = 4 // Índices sobre diccionario de valores únicos
	ZSTD        CodigoCompresion = 5 // Zstandard - mejor compresión, más lento
	Snappy      CodigoCompresion = 6 // Snappy - muy rápido, compresión baja
	Gzip        CodigoCompresion = 7 // Gzip - compatible, compresión moderada
	LZ4         CodigoCompresion = 8 // LZ4 - rápido, compresión moderada
)

var nombresCompresion = [...]string{
	Ninguna:     "Ninguna",
	RLE:         "RLE",
	Huffman:     "Huffman",
	Bits:        "Bits",
	Diccionario: "Diccionario",
	ZSTD:        "ZSTD",
	Snappy:      "Snappy",
	Gzip:        "Gzip",
	LZ4:         "LZ4",
}

var compresionesDisponibles = [...]CodigoCompresion{
	Ninguna, RLE, Huffman, Bits, Diccionario, ZSTD, Snappy, Gzip, LZ4,
}

// CompresionesDisponibles retorna una copia del catálogo de compresores
func CompresionesDisponibles() []CodigoCompresion {
	return append([]CodigoCompresion(nil), compresionesDisponibles[:]...)
}

// Valida indica si el código pertenece al catálogo
func (c CodigoCompresion) Valida() bool {
	return int(c) < len(nombresCompresion)
}

func (c CodigoCompresion) String() string {
	if !c.Valida() {
		return fmt.Sprintf("Compresion(%d)", uint8(c))
	}
	return nombresCompresion[c]
}

// MarshalJSON serializa el código por su nombre
func (c CodigoCompresion) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

// ParsearCodigoCompresion busca un código por nombre, sin distinguir mayúsculas
func ParsearCodigoCompresion(nombre string) (CodigoCompresion, error) {
	for _, c := range compresionesDisponibles {
		if strings.EqualFold(c.String(), nombre) {
			return c, nil
		}
	}
	return 0, fmt.Errorf("compresión desconocida: '%s'", nombre)
}
