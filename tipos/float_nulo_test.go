package tipos

import (
	"encoding/json"
	"math"
	"testing"
)

// TestFloatNulo_MarshalJSON_ValorNormal verifica serialización de aptitudes finitas
func TestFloatNulo_MarshalJSON_ValorNormal(t *testing.T) {
	casos := []struct {
		nombre   string
		valor    FloatNulo
		esperado string
	}{
		{"cero", FloatNulo(0), "0"},
		{"ratio", FloatNulo(0.25), "0.25"},
		{"mayor a uno", FloatNulo(1.5), "1.5"},
	}

	for _, c := range casos {
		t.Run(c.nombre, func(t *testing.T) {
			data, err := json.Marshal(c.valor)
			if err != nil {
				t.Fatalf("Error serializando: %v", err)
			}
			if string(data) != c.esperado {
				t.Errorf("Esperado %s, obtenido %s", c.esperado, string(data))
			}
		})
	}
}

// TestFloatNulo_MarshalJSON_NoFinitos verifica que NaN e Inf se serializan como null
func TestFloatNulo_MarshalJSON_NoFinitos(t *testing.T) {
	for _, v := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		data, err := json.Marshal(FloatNulo(v))
		if err != nil {
			t.Fatalf("Error serializando %v: %v", v, err)
		}
		if string(data) != "null" {
			t.Errorf("%v: esperado 'null', obtenido '%s'", v, string(data))
		}
	}
	t.Log("✓ Valores no finitos serializados como null")
}

// TestFloatNulo_UnmarshalJSON_Null verifica que null se deserializa como NaN
func TestFloatNulo_UnmarshalJSON_Null(t *testing.T) {
	var valor FloatNulo
	if err := json.Unmarshal([]byte("null"), &valor); err != nil {
		t.Fatalf("Error deserializando null: %v", err)
	}
	if !math.IsNaN(valor.Valor()) {
		t.Errorf("Esperado NaN, obtenido %f", valor.Valor())
	}
}

// TestFloatNulo_EnStruct verifica uso dentro de un struct de informe
func TestFloatNulo_EnStruct(t *testing.T) {
	type bloque struct {
		Indice  int       `json:"indice"`
		Aptitud FloatNulo `json:"aptitud"`
	}

	data, err := json.Marshal([]bloque{{0, 0.5}, {1, FloatNulo(math.Inf(1))}})
	if err != nil {
		t.Fatalf("Error serializando struct: %v", err)
	}
	esperado := `[{"indice":0,"aptitud":0.5},{"indice":1,"aptitud":null}]`
	if string(data) != esperado {
		t.Errorf("Esperado %s, obtenido %s", esperado, string(data))
	}

	var resultado []bloque
	if err := json.Unmarshal(data, &resultado); err != nil {
		t.Fatalf("Error deserializando struct: %v", err)
	}
	if !resultado[1].Aptitud.EsNulo() || resultado[0].Aptitud.Valor() != 0.5 {
		t.Errorf("valores deserializados incorrectos: %+v", resultado)
	}
}

// TestFloatNulo_EsNulo verifica el método EsNulo
func TestFloatNulo_EsNulo(t *testing.T) {
	if FloatNulo(25.5).EsNulo() {
		t.Error("25.5 no debería ser nulo")
	}
	if !FloatNuloVacio().EsNulo() {
		t.Error("FloatNuloVacio() debería ser nulo")
	}
	if !FloatNulo(math.Inf(1)).EsNulo() {
		t.Error("+Inf debería ser nulo")
	}
}
