package tipos

import (
	"context"
	"testing"
)

// TestConfiguracionS3_Validar verifica combinaciones de credenciales y endpoint
func TestConfiguracionS3_Validar(t *testing.T) {
	casos := []struct {
		nombre string
		cfg    ConfiguracionS3
		valida bool
	}{
		{"vacía usa la cadena por defecto", ConfiguracionS3{}, true},
		{"credenciales completas", ConfiguracionS3{AccessKeyID: "AKIA", SecretAccessKey: "secret"}, true},
		{"solo access key", ConfiguracionS3{AccessKeyID: "AKIA"}, false},
		{"solo secret", ConfiguracionS3{SecretAccessKey: "secret"}, false},
		{"endpoint válido", ConfiguracionS3{Endpoint: "http://localhost:3900"}, true},
		{"endpoint sin esquema", ConfiguracionS3{Endpoint: "localhost:3900"}, false},
	}
	for _, c := range casos {
		t.Run(c.nombre, func(t *testing.T) {
			err := c.cfg.Validar()
			if c.valida && err != nil {
				t.Errorf("No se esperaba error: %v", err)
			}
			if !c.valida && err == nil {
				t.Error("Se esperaba error")
			}
		})
	}
}

// TestConfiguracionS3_AplicarDefaults verifica la región por defecto
func TestConfiguracionS3_AplicarDefaults(t *testing.T) {
	cfg := ConfiguracionS3{}
	cfg.AplicarDefaults()
	if cfg.Region != "us-east-1" {
		t.Errorf("Region esperada 'us-east-1', obtenida '%s'", cfg.Region)
	}

	cfg = ConfiguracionS3{Region: "eu-west-1"}
	cfg.AplicarDefaults()
	if cfg.Region != "eu-west-1" {
		t.Errorf("AplicarDefaults no debe pisar la región: '%s'", cfg.Region)
	}
}

// TestCrearClienteS3_ConfiguracionValida verifica creación sin contactar al servidor
func TestCrearClienteS3_ConfiguracionValida(t *testing.T) {
	cliente, err := CrearClienteS3(context.Background(), ConfiguracionS3{
		Endpoint:        "http://localhost:3900",
		AccessKeyID:     "GK123",
		SecretAccessKey: "secret",
		Region:          "garage",
	})
	if err != nil {
		t.Fatalf("Error inesperado: %v", err)
	}
	if cliente == nil {
		t.Fatal("Cliente nil")
	}
	var _ ClienteS3 = cliente
	t.Log("✓ Cliente S3 creado")
}

// TestCrearClienteS3_ConfiguracionInvalida verifica que la validación corre antes del SDK
func TestCrearClienteS3_ConfiguracionInvalida(t *testing.T) {
	_, err := CrearClienteS3(context.Background(), ConfiguracionS3{AccessKeyID: "solo"})
	if err == nil {
		t.Error("Se esperaba error con credenciales incompletas")
	}
}

// TestParsearURLS3 verifica la separación de bucket y clave
func TestParsearURLS3(t *testing.T) {
	bucket, clave, err := ParsearURLS3("s3://datos/entrada/archivo.bin")
	if err != nil {
		t.Fatalf("Error inesperado: %v", err)
	}
	if bucket != "datos" || clave != "entrada/archivo.bin" {
		t.Errorf("bucket '%s', clave '%s'", bucket, clave)
	}

	for _, invalida := range []string{"/tmp/x", "s3://", "s3://bucket", "s3://bucket/", "s3:///clave"} {
		if _, _, err := ParsearURLS3(invalida); err == nil {
			t.Errorf("Se esperaba error para '%s'", invalida)
		}
	}
}

// TestGenerarClaveS3Archivo verifica la clave de salida bajo un prefijo
func TestGenerarClaveS3Archivo(t *testing.T) {
	casos := []struct {
		prefijo, entrada string
		modo             Modo
		esperada         string
	}{
		{"salidas", "/tmp/datos.bin", ModoComprimir, "salidas/datos.bin.evo"},
		{"salidas/", "s3://origen/dir/datos.bin.evo", ModoDescomprimir, "salidas/datos.bin"},
		{"", "datos.csv", ModoComprimir, "datos.csv.evo"},
		{"a/b", "datos", ModoDescomprimir, "a/b/datos.out"},
	}
	for _, c := range casos {
		if clave := GenerarClaveS3Archivo(c.prefijo, c.entrada, c.modo); clave != c.esperada {
			t.Errorf("GenerarClaveS3Archivo(%q, %q) = %q, esperada %q", c.prefijo, c.entrada, clave, c.esperada)
		}
	}
	t.Log("✓ GenerarClaveS3Archivo genera claves correctas")
}
