package despachador

import (
	"bytes"
	"encoding/json"
	"math"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cbiale/evocom/tipos"
)

// TestInformeCompresion_JSON verifica la serialización del informe
func TestInformeCompresion_JSON(t *testing.T) {
	informe := NuevoInformeCompresion(tipos.ModoComprimir)
	_, err := uuid.Parse(informe.ID)
	require.NoError(t, err, "el ID debe ser un UUID")

	informe.FijarTamanos(1000, 250)
	informe.Bloques = append(informe.Bloques, InformeBloque{
		Indice:  0,
		Tamano:  1000,
		Receta:  tipos.NuevaReceta(tipos.RLE, tipos.Delta),
		Aptitud: tipos.FloatNulo(math.Inf(1)),
	})

	var buf bytes.Buffer
	require.NoError(t, informe.EscribirJSON(&buf))

	var generico map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &generico))
	assert.Equal(t, "compress", generico["modo"])
	assert.Equal(t, 0.25, generico["ratio"])

	bloques := generico["bloques"].([]interface{})
	require.Len(t, bloques, 1)
	bloque := bloques[0].(map[string]interface{})
	assert.Nil(t, bloque["aptitud"], "+Inf se serializa como null")
	assert.Equal(t, "RLE", bloque["receta"].(map[string]interface{})["compresion"])
	t.Log("✓ Informe serializado")
}

// TestInformeCompresion_RatioSinEntrada verifica el ratio de una entrada vacía
func TestInformeCompresion_RatioSinEntrada(t *testing.T) {
	informe := NuevoInformeCompresion(tipos.ModoComprimir)
	informe.FijarTamanos(0, 1)
	assert.True(t, informe.Ratio.EsNulo())

	datos, err := json.Marshal(informe)
	require.NoError(t, err)
	assert.Contains(t, string(datos), `"ratio":null`)
	assert.Contains(t, string(datos), `"bloques":[]`)
}
