package despachador

import (
	"encoding/json"
	"io"

	"github.com/google/uuid"

	"github.com/cbiale/evocom/tipos"
)

// ============================================================================
// TIPOS DEL INFORME DE COMPRESIÓN
// Se serializan a JSON para diagnóstico (--report)
// ============================================================================

// InformeCompresion resume una ejecución completa
type InformeCompresion struct {
	ID               string          `json:"id"`
	Modo             tipos.Modo      `json:"modo"`
	Entrada          string          `json:"entrada,omitempty"`
	Salida           string          `json:"salida,omitempty"`
	TamanoOriginal   int64           `json:"tamano_original"`   // bytes
	TamanoComprimido int64           `json:"tamano_comprimido"` // bytes
	Ratio            tipos.FloatNulo `json:"ratio"`             // comprimido / original, null si original es 0
	Bloques          []InformeBloque `json:"bloques"`
}

// InformeBloque describe la receta elegida para un bloque
type InformeBloque struct {
	Indice     int             `json:"indice"`
	Inicio     int             `json:"inicio"` // desplazamiento en la entrada
	Tamano     int             `json:"tamano"`
	Receta     tipos.Receta    `json:"receta"`
	Aptitud    tipos.FloatNulo `json:"aptitud"`
	DesdeCache bool            `json:"desde_cache"`
	Identidad  bool            `json:"identidad"` // se usó la receta de respaldo
}

// NuevoInformeCompresion crea un informe vacío con un ID nuevo
func NuevoInformeCompresion(modo tipos.Modo) InformeCompresion {
	return InformeCompresion{
		ID:      uuid.NewString(),
		Modo:    modo,
		Ratio:   tipos.FloatNuloVacio(),
		Bloques: []InformeBloque{},
	}
}

// FijarTamanos registra los tamaños de entrada y salida y calcula el ratio
func (i *InformeCompresion) FijarTamanos(original, comprimido int64) {
	i.TamanoOriginal = original
	i.TamanoComprimido = comprimido
	if original == 0 {
		i.Ratio = tipos.FloatNuloVacio()
		return
	}
	i.Ratio = tipos.FloatNulo(float64(comprimido) / float64(original))
}

// EscribirJSON serializa el informe indentado
func (i InformeCompresion) EscribirJSON(w io.Writer) error {
	codificador := json.NewEncoder(w)
	codificador.SetIndent("", "  ")
	return codificador.Encode(i)
}
