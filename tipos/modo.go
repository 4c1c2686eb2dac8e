package tipos

import (
	"fmt"
	"strings"
)

// Modo indica la operación pedida al programa
type Modo struct {
	valor string
}

// Valores posibles para Modo
var (
	ModoDesconocido  = Modo{}
	ModoComprimir    = Modo{"compress"}
	ModoDescomprimir = Modo{"decompress"}
)

func (m Modo) String() string {
	return m.valor
}

// GobEncode implementa gob.GobEncoder para serialización
func (m Modo) GobEncode() ([]byte, error) {
	return []byte(m.valor), nil
}

// GobDecode implementa gob.GobDecoder para deserialización
func (m *Modo) GobDecode(data []byte) error {
	m.valor = string(data)
	return nil
}

// MarshalJSON implementa json.Marshaler para serialización JSON
func (m Modo) MarshalJSON() ([]byte, error) {
	return []byte(`"` + m.valor + `"`), nil
}

// UnmarshalJSON implementa json.Unmarshaler para deserialización JSON
func (m *Modo) UnmarshalJSON(data []byte) error {
	m.valor = sinComillas(data)
	return nil
}

// ParsearModo acepta los nombres usados en archivos de configuración y flags
func ParsearModo(nombre string) (Modo, error) {
	switch nombre {
	case "compress", "c", "comprimir":
		return ModoComprimir, nil
	case "decompress", "d", "descomprimir":
		return ModoDescomprimir, nil
	}
	return ModoDesconocido, fmt.Errorf("modo desconocido: '%s'", nombre)
}

// MetodoSegmentacion indica cómo se divide la entrada en bloques
type MetodoSegmentacion struct {
	valor string
}

// Valores posibles para MetodoSegmentacion
var (
	SegmentacionFija     = MetodoSegmentacion{"fixed"}     // bloques de tamaño constante
	SegmentacionAgrupada = MetodoSegmentacion{"clustered"} // cortes donde cambia la distribución de unidades
)

func (s MetodoSegmentacion) String() string {
	return s.valor
}

// GobEncode implementa gob.GobEncoder para serialización
func (s MetodoSegmentacion) GobEncode() ([]byte, error) {
	return []byte(s.valor), nil
}

// GobDecode implementa gob.GobDecoder para deserialización
func (s *MetodoSegmentacion) GobDecode(data []byte) error {
	s.valor = string(data)
	return nil
}

// MarshalJSON implementa json.Marshaler para serialización JSON
func (s MetodoSegmentacion) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.valor + `"`), nil
}

// UnmarshalJSON implementa json.Unmarshaler para deserialización JSON
func (s *MetodoSegmentacion) UnmarshalJSON(data []byte) error {
	s.valor = sinComillas(data)
	return nil
}

// ParsearMetodoSegmentacion acepta "fixed" y "clustered"
func ParsearMetodoSegmentacion(nombre string) (MetodoSegmentacion, error) {
	switch nombre {
	case "fixed", "fijo":
		return SegmentacionFija, nil
	case "clustered", "agrupado":
		return SegmentacionAgrupada, nil
	}
	return MetodoSegmentacion{}, fmt.Errorf("segmentación desconocida: '%s'", nombre)
}

// sinComillas remueve las comillas de un string JSON
func sinComillas(data []byte) string {
	if len(data) >= 2 && data[0] == '"' && data[len(data)-1] == '"' {
		return string(data[1 : len(data)-1])
	}
	return string(data)
}

// ExtensionComprimida es la extensión que se agrega a los archivos comprimidos
const ExtensionComprimida = ".evo"

// RutaSalida deriva la ruta de salida cuando no se indicó una. Sirve tanto
// para rutas locales como para claves s3://bucket/clave.
func RutaSalida(entrada string, modo Modo) string {
	if modo == ModoDescomprimir {
		if strings.HasSuffix(entrada, ExtensionComprimida) {
			return strings.TrimSuffix(entrada, ExtensionComprimida)
		}
		return entrada + ".out"
	}
	return entrada + ExtensionComprimida
}
