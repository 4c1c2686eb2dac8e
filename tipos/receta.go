package tipos

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Receta es el genoma que evoluciona por bloque: una lista ordenada de
// transformaciones seguida de un compresor. La aptitud se calcula una vez y
// queda guardada en la receta; cualquier copia modificada debe partir de
// Clonar, que descarta la aptitud.
type Receta struct {
	Transformaciones []CodigoTransformacion
	Compresion       CodigoCompresion

	aptitud  float64
	evaluada bool
}

// NuevaReceta crea una receta sin evaluar. La lista se copia.
func NuevaReceta(compresion CodigoCompresion, transformaciones ...CodigoTransformacion) Receta {
	return Receta{
		Transformaciones: append([]CodigoTransformacion(nil), transformaciones...),
		Compresion:       compresion,
	}
}

// RecetaIdentidad retorna la receta sin transformaciones ni compresión
func RecetaIdentidad() Receta {
	return Receta{Compresion: Ninguna}
}

// Aptitud retorna la aptitud guardada y si fue calculada
func (r *Receta) Aptitud() (float64, bool) {
	return r.aptitud, r.evaluada
}

// FijarAptitud guarda la aptitud de la receta
func (r *Receta) FijarAptitud(aptitud float64) {
	r.aptitud = aptitud
	r.evaluada = true
}

// Evaluada indica si la aptitud ya fue calculada
func (r *Receta) Evaluada() bool {
	return r.evaluada
}

// Clonar retorna una copia profunda sin aptitud
func (r Receta) Clonar() Receta {
	return NuevaReceta(r.Compresion, r.Transformaciones...)
}

// Clave identifica la receta por valor; dos recetas con la misma clave codifican igual
func (r Receta) Clave() string {
	var sb strings.Builder
	sb.Grow(2*len(r.Transformaciones) + 2)
	for _, t := range r.Transformaciones {
		fmt.Fprintf(&sb, "%x,", uint8(t))
	}
	fmt.Fprintf(&sb, "|%x", uint8(r.Compresion))
	return sb.String()
}

// Igual compara transformaciones y compresión, ignorando la aptitud
func (r Receta) Igual(otra Receta) bool {
	if r.Compresion != otra.Compresion || len(r.Transformaciones) != len(otra.Transformaciones) {
		return false
	}
	for i := range r.Transformaciones {
		if r.Transformaciones[i] != otra.Transformaciones[i] {
			return false
		}
	}
	return true
}

// Valida verifica que todos los códigos existan y que la lista entre en la cabecera
func (r Receta) Valida() error {
	if len(r.Transformaciones) > MaxTransformacionesCodificables {
		return fmt.Errorf("receta con %d transformaciones, máximo %d",
			len(r.Transformaciones), MaxTransformacionesCodificables)
	}
	for _, t := range r.Transformaciones {
		if !t.Valida() {
			return fmt.Errorf("código de transformación inválido: %d", uint8(t))
		}
	}
	if !r.Compresion.Valida() {
		return fmt.Errorf("código de compresión inválido: %d", uint8(r.Compresion))
	}
	return nil
}

func (r Receta) String() string {
	partes := make([]string, 0, len(r.Transformaciones)+1)
	for _, t := range r.Transformaciones {
		partes = append(partes, t.String())
	}
	partes = append(partes, r.Compresion.String())
	return strings.Join(partes, " -> ")
}

// MarshalJSON serializa la receta con nombres legibles
func (r Receta) MarshalJSON() ([]byte, error) {
	transformaciones := r.Transformaciones
	if transformaciones == nil {
		transformaciones = []CodigoTransformacion{}
	}
	return json.Marshal(struct {
		Transformaciones []CodigoTransformacion `json:"transformaciones"`
		Compresion       CodigoCompresion       `json:"compresion"`
	}{transformaciones, r.Compresion})
}
