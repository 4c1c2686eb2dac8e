package tipos

import (
	"encoding/json"
	"math"
)

// FloatNulo es un float64 que serializa los valores no finitos como null en JSON.
// Las aptitudes usan NaN para "no evaluada" y +Inf para "la receta falló",
// y ninguno de los dos es representable en JSON.
type FloatNulo float64

// MarshalJSON serializa el valor a JSON.
// NaN y ±Inf se serializan como null.
func (f FloatNulo) MarshalJSON() ([]byte, error) {
	if f.EsNulo() {
		return []byte("null"), nil
	}
	return json.Marshal(float64(f))
}

// UnmarshalJSON deserializa el valor desde JSON.
// Si el valor es null, deserializa como NaN.
func (f *FloatNulo) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*f = FloatNulo(math.NaN())
		return nil
	}
	var val float64
	if err := json.Unmarshal(data, &val); err != nil {
		return err
	}
	*f = FloatNulo(val)
	return nil
}

// EsNulo retorna true si el valor no es finito
func (f FloatNulo) EsNulo() bool {
	return math.IsNaN(float64(f)) || math.IsInf(float64(f), 0)
}

// Valor retorna el valor como float64.
func (f FloatNulo) Valor() float64 {
	return float64(f)
}

// FloatNuloVacio retorna un FloatNulo que representa un valor faltante (NaN).
func FloatNuloVacio() FloatNulo {
	return FloatNulo(math.NaN())
}
