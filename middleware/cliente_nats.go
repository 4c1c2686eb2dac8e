package middleware

import (
	"fmt"
	"strings"

	"github.com/nats-io/nats.go"
)

// ClienteNATS publica sobre un servidor NATS
type ClienteNATS struct {
	conexion *nats.Conn
}

// ConectarNATS se conecta a servidor (nats://host:puerto)
func ConectarNATS(servidor string) (*ClienteNATS, error) {
	conexion, err := nats.Connect(servidor, nats.Name("evocom"))
	if err != nil {
		return nil, fmt.Errorf("error al conectar a NATS %s: %w", servidor, err)
	}
	return &ClienteNATS{conexion: conexion}, nil
}

// sujetoNATS convierte un tópico con barras en un sujeto con puntos
func sujetoNATS(topico string) string {
	return strings.ReplaceAll(strings.Trim(topico, "/"), "/", ".")
}

// Publicar envía el mensaje al sujeto equivalente al tópico
func (c *ClienteNATS) Publicar(topico string, mensaje interface{}) error {
	datos, err := codificarMensaje(topico, mensaje)
	if err != nil {
		return err
	}
	return c.conexion.Publish(sujetoNATS(topico), datos)
}

// Desconectar vacía los mensajes pendientes y cierra
func (c *ClienteNATS) Desconectar() {
	if err := c.conexion.Drain(); err != nil {
		c.conexion.Close()
	}
}
