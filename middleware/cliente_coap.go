package middleware

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/plgd-dev/go-coap/v3/message"
	"github.com/plgd-dev/go-coap/v3/message/codes"
	"github.com/plgd-dev/go-coap/v3/udp"
	"github.com/plgd-dev/go-coap/v3/udp/client"
)

const esperaCoAP = 5 * time.Second

// ClienteCoAP publica con POST confirmable sobre UDP
type ClienteCoAP struct {
	conexion *client.Conn
}

// ConectarCoAP abre la conexión UDP con servidor (host:puerto)
func ConectarCoAP(servidor string) (*ClienteCoAP, error) {
	conexion, err := udp.Dial(servidor)
	if err != nil {
		return nil, fmt.Errorf("error al conectarse a CoAP %s: %w", servidor, err)
	}
	return &ClienteCoAP{conexion: conexion}, nil
}

// Publicar envía el mensaje como POST a /topico
func (c *ClienteCoAP) Publicar(topico string, mensaje interface{}) error {
	datos, err := codificarMensaje(topico, mensaje)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), esperaCoAP)
	defer cancel()

	respuesta, err := c.conexion.Post(ctx, "/"+topico, message.AppJSON, bytes.NewReader(datos))
	if err != nil {
		return fmt.Errorf("error al publicar en %s: %w", topico, err)
	}
	if respuesta.Code() >= codes.BadRequest {
		return fmt.Errorf("publicación en %s rechazada: %v", topico, respuesta.Code())
	}
	return nil
}

// Desconectar cierra la conexión
func (c *ClienteCoAP) Desconectar() {
	c.conexion.Close()
}
