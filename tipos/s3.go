package tipos

import (
	"context"
	"fmt"
	"net/url"
	"path"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// ConfiguracionS3 contiene la configuración para leer y escribir archivos en
// almacenamiento S3-compatible (AWS S3, Garage, MinIO, Cloudflare R2, etc.).
// El bucket no forma parte de la configuración: viene en cada URL s3://bucket/clave.
type ConfiguracionS3 struct {
	Endpoint        string // URL del servidor S3, vacío usa el endpoint de AWS
	AccessKeyID     string // Access Key ID de S3
	SecretAccessKey string // Secret Access Key de S3
	Region          string // Región (puede ser cualquier valor para implementaciones como Garage)
}

// Validar verifica que las credenciales estáticas estén completas o ausentes
func (cfg ConfiguracionS3) Validar() error {
	if (cfg.AccessKeyID == "") != (cfg.SecretAccessKey == "") {
		return fmt.Errorf("AccessKeyID y SecretAccessKey deben indicarse juntos")
	}
	if cfg.Endpoint != "" {
		u, err := url.Parse(cfg.Endpoint)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("Endpoint inválido: '%s'", cfg.Endpoint)
		}
	}
	return nil
}

// AplicarDefaults establece valores por defecto en campos opcionales
func (cfg *ConfiguracionS3) AplicarDefaults() {
	if cfg.Region == "" {
		cfg.Region = "us-east-1"
	}
}

// ClienteS3 define las operaciones S3 utilizadas por el sistema.
// *s3.Client la implementa; los tests inyectan un doble en memoria.
type ClienteS3 interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// CrearClienteS3 crea un cliente S3. Con Endpoint usa direccionamiento por
// ruta, como requieren Garage y MinIO. Sin credenciales estáticas se usa la
// cadena de credenciales por defecto del SDK.
func CrearClienteS3(ctx context.Context, cfg ConfiguracionS3) (*s3.Client, error) {
	cfg.AplicarDefaults()
	if err := cfg.Validar(); err != nil {
		return nil, fmt.Errorf("configuración S3 inválida: %w", err)
	}

	opciones := []func(*config.LoadOptions) error{config.WithRegion(cfg.Region)}
	if cfg.AccessKeyID != "" {
		opciones = append(opciones, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opciones...)
	if err != nil {
		return nil, fmt.Errorf("error al cargar configuración de AWS: %w", err)
	}

	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	}), nil
}

// EsURLS3 indica si la ruta usa el esquema s3://
func EsURLS3(ruta string) bool {
	return strings.HasPrefix(ruta, "s3://")
}

// ParsearURLS3 separa s3://bucket/clave en sus componentes
func ParsearURLS3(ruta string) (bucket, clave string, err error) {
	if !EsURLS3(ruta) {
		return "", "", fmt.Errorf("no es una URL S3: '%s'", ruta)
	}
	resto := strings.TrimPrefix(ruta, "s3://")
	partes := strings.SplitN(resto, "/", 2)
	if len(partes) != 2 || partes[0] == "" || partes[1] == "" {
		return "", "", fmt.Errorf("formato de URL S3 inválido: '%s' (se espera s3://bucket/clave)", ruta)
	}
	return partes[0], partes[1], nil
}

// GenerarClaveS3Archivo genera la clave de salida de una entrada dentro de un prefijo
// Formato: {prefijo}/{nombre de la entrada}.evo, o sin .evo al descomprimir
func GenerarClaveS3Archivo(prefijo, entrada string, modo Modo) string {
	nombre := RutaSalida(path.Base(filepath.ToSlash(entrada)), modo)
	prefijo = strings.Trim(prefijo, "/")
	if prefijo == "" {
		return nombre
	}
	return prefijo + "/" + nombre
}
