package tipos

import (
	"encoding/json"
	"testing"
)

// TestCatalogos_CodigosCaben verifica que todo código entra en su campo de cabecera
func TestCatalogos_CodigosCaben(t *testing.T) {
	for _, c := range TransformacionesDisponibles() {
		if uint(c) >= 1<<BitsCodigoTransformacion {
			t.Errorf("transformación %s no entra en %d bits", c, BitsCodigoTransformacion)
		}
		if !c.Valida() {
			t.Errorf("transformación %d del catálogo no es válida", c)
		}
	}
	for _, c := range CompresionesDisponibles() {
		if uint(c) >= 1<<BitsCodigoCompresion {
			t.Errorf("compresión %s no entra en %d bits", c, BitsCodigoCompresion)
		}
	}
	if MaxTransformacionesCodificables != 15 {
		t.Errorf("MaxTransformacionesCodificables esperado 15, obtenido %d", MaxTransformacionesCodificables)
	}
	t.Log("✓ Catálogos compatibles con los anchos de cabecera")
}

// TestCatalogos_Contiguos verifica que los códigos del catálogo son 0..n-1
func TestCatalogos_Contiguos(t *testing.T) {
	for i, c := range TransformacionesDisponibles() {
		if int(c) != i {
			t.Errorf("transformación en posición %d tiene código %d", i, c)
		}
	}
	for i, c := range CompresionesDisponibles() {
		if int(c) != i {
			t.Errorf("compresión en posición %d tiene código %d", i, c)
		}
	}
}

// TestCatalogos_Copia verifica que modificar la copia no altera el catálogo
func TestCatalogos_Copia(t *testing.T) {
	copia := CompresionesDisponibles()
	copia[0] = LZ4
	if CompresionesDisponibles()[0] != Ninguna {
		t.Error("el catálogo de compresiones fue modificado a través de la copia")
	}
}

// TestCodigo_String verifica nombres de códigos conocidos y desconocidos
func TestCodigo_String(t *testing.T) {
	casos := []struct {
		obtenido string
		esperado string
	}{
		{Delta.String(), "Delta"},
		{Paso4.String(), "Paso4"},
		{DeltaDelta.String(), "DeltaDelta"},
		{CodigoTransformacion(14).String(), "Transformacion(14)"},
		{Huffman.String(), "Huffman"},
		{CodigoCompresion(15).String(), "Compresion(15)"},
	}
	for _, c := range casos {
		if c.obtenido != c.esperado {
			t.Errorf("esperado '%s', obtenido '%s'", c.esperado, c.obtenido)
		}
	}
}

// TestParsearCodigos verifica búsqueda por nombre sin distinguir mayúsculas
func TestParsearCodigos(t *testing.T) {
	c, err := ParsearCodigoCompresion("huffman")
	if err != nil || c != Huffman {
		t.Errorf("ParsearCodigoCompresion(huffman) = %v, %v", c, err)
	}
	tr, err := ParsearCodigoTransformacion("restarpromedioxor")
	if err != nil || tr != RestarPromedioXOR {
		t.Errorf("ParsearCodigoTransformacion = %v, %v", tr, err)
	}
	if _, err := ParsearCodigoCompresion("brotli"); err == nil {
		t.Error("se esperaba error para compresión desconocida")
	}
}

// TestCodigo_MarshalJSON verifica que los códigos se serializan por nombre
func TestCodigo_MarshalJSON(t *testing.T) {
	data, err := json.Marshal([]CodigoTransformacion{Delta, Division})
	if err != nil {
		t.Fatalf("Error serializando: %v", err)
	}
	if string(data) != `["Delta","Division"]` {
		t.Errorf("JSON inesperado: %s", data)
	}
}
