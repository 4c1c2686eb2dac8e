package middleware

import (
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"go.uber.org/zap"
)

// TopicoBloques es el tópico donde el compresor publica un evento por bloque
const TopicoBloques = "evocom/bloques"

// Cliente publica mensajes de diagnóstico en un broker
type Cliente interface {
	Publicar(topico string, mensaje interface{}) error
	Desconectar()
}

// Mensaje es el sobre común a todos los protocolos
type Mensaje struct {
	Topico  string          `json:"topico"`
	Fecha   int64           `json:"fecha"` // Unix nanosegundos
	Payload json.RawMessage `json:"payload"`
}

// codificarMensaje arma el sobre JSON de un mensaje
func codificarMensaje(topico string, mensaje interface{}) ([]byte, error) {
	payload, err := json.Marshal(mensaje)
	if err != nil {
		return nil, fmt.Errorf("error serializando mensaje para %s: %w", topico, err)
	}
	return json.Marshal(Mensaje{
		Topico:  topico,
		Fecha:   time.Now().UnixNano(),
		Payload: payload,
	})
}

// Conectar crea el cliente según el esquema de la URL:
// mqtt://host:puerto, nats://host:puerto o coap://host:puerto.
// Una URL vacía retorna un cliente que descarta los mensajes.
func Conectar(direccion string, logger *zap.Logger) (Cliente, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if direccion == "" {
		return clienteNulo{}, nil
	}

	u, err := url.Parse(direccion)
	if err != nil || u.Host == "" {
		return nil, fmt.Errorf("URL de notificación inválida: '%s'", direccion)
	}

	var cliente Cliente
	switch u.Scheme {
	case "mqtt", "tcp":
		cliente, err = ConectarMQTT("tcp://" + u.Host)
	case "nats":
		cliente, err = ConectarNATS(direccion)
	case "coap":
		cliente, err = ConectarCoAP(u.Host)
	default:
		return nil, fmt.Errorf("esquema de notificación no soportado: '%s'", u.Scheme)
	}
	if err != nil {
		return nil, err
	}
	logger.Named("middleware").Info("conectado", zap.String("url", direccion))
	return cliente, nil
}

// clienteNulo descarta todo
type clienteNulo struct{}

func (clienteNulo) Publicar(string, interface{}) error { return nil }
func (clienteNulo) Desconectar()                       {}
