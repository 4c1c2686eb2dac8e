package almacenamiento

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/cbiale/evocom/tipos"
)

// RutaEstandar representa stdin como fuente y stdout como destino
const RutaEstandar = "-"

// Almacen abre fuentes y destinos locales o s3://bucket/clave.
// El cliente S3 se crea recién cuando aparece la primera ruta S3.
type Almacen struct {
	clienteS3 func() (tipos.ClienteS3, error)
}

// NuevoAlmacen crea un almacén que usará la configuración S3 dada
func NuevoAlmacen(ctx context.Context, cfg tipos.ConfiguracionS3) *Almacen {
	return &Almacen{
		clienteS3: sync.OnceValues(func() (tipos.ClienteS3, error) {
			return tipos.CrearClienteS3(ctx, cfg)
		}),
	}
}

// NuevoAlmacenConCliente crea un almacén sobre un cliente S3 ya construido
func NuevoAlmacenConCliente(cliente tipos.ClienteS3) *Almacen {
	return &Almacen{
		clienteS3: func() (tipos.ClienteS3, error) { return cliente, nil },
	}
}

// AbrirFuente abre la ruta para lectura
func AbrirFuente(ctx context.Context, ruta string, cfg tipos.ConfiguracionS3) (io.ReadCloser, error) {
	return NuevoAlmacen(ctx, cfg).AbrirFuente(ctx, ruta)
}

// CrearDestino abre la ruta para escritura
func CrearDestino(ctx context.Context, ruta string, cfg tipos.ConfiguracionS3) (io.WriteCloser, error) {
	return NuevoAlmacen(ctx, cfg).CrearDestino(ctx, ruta)
}

// AbrirFuente abre la ruta para lectura
func (a *Almacen) AbrirFuente(ctx context.Context, ruta string) (io.ReadCloser, error) {
	switch {
	case ruta == RutaEstandar:
		return io.NopCloser(os.Stdin), nil
	case tipos.EsURLS3(ruta):
		bucket, clave, err := tipos.ParsearURLS3(ruta)
		if err != nil {
			return nil, err
		}
		cliente, err := a.clienteS3()
		if err != nil {
			return nil, err
		}
		salida, err := cliente.GetObject(ctx, &s3.GetObjectInput{
			Bucket: aws.String(bucket),
			Key:    aws.String(clave),
		})
		if err != nil {
			return nil, fmt.Errorf("error leyendo %s: %w", ruta, err)
		}
		return salida.Body, nil
	default:
		archivo, err := os.Open(ruta)
		if err != nil {
			return nil, fmt.Errorf("error abriendo %s: %w", ruta, err)
		}
		return archivo, nil
	}
}

// CrearDestino abre la ruta para escritura. En S3 el objeto se sube al cerrar.
func (a *Almacen) CrearDestino(ctx context.Context, ruta string) (io.WriteCloser, error) {
	switch {
	case ruta == RutaEstandar:
		return nopWriteCloser{os.Stdout}, nil
	case tipos.EsURLS3(ruta):
		bucket, clave, err := tipos.ParsearURLS3(ruta)
		if err != nil {
			return nil, err
		}
		cliente, err := a.clienteS3()
		if err != nil {
			return nil, err
		}
		return &destinoS3{ctx: ctx, cliente: cliente, bucket: bucket, clave: clave}, nil
	default:
		archivo, err := os.Create(ruta)
		if err != nil {
			return nil, fmt.Errorf("error creando %s: %w", ruta, err)
		}
		return archivo, nil
	}
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }

// destinoS3 acumula en memoria y sube el objeto completo en Close
type destinoS3 struct {
	ctx     context.Context
	cliente tipos.ClienteS3
	bucket  string
	clave   string
	buffer  bytes.Buffer
	cerrado bool
}

func (d *destinoS3) Write(p []byte) (int, error) {
	if d.cerrado {
		return 0, os.ErrClosed
	}
	return d.buffer.Write(p)
}

func (d *destinoS3) Close() error {
	if d.cerrado {
		return nil
	}
	d.cerrado = true
	_, err := d.cliente.PutObject(d.ctx, &s3.PutObjectInput{
		Bucket:        aws.String(d.bucket),
		Key:           aws.String(d.clave),
		Body:          bytes.NewReader(d.buffer.Bytes()),
		ContentLength: aws.Int64(int64(d.buffer.Len())),
	})
	if err != nil {
		return fmt.Errorf("error subiendo s3://%s/%s: %w", d.bucket, d.clave, err)
	}
	return nil
}
