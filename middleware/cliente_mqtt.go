package middleware

import (
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
)

const esperaMQTT = 5 * time.Second

// ClienteMQTT publica sobre un broker MQTT con QoS 0
type ClienteMQTT struct {
	cliente mqtt.Client
}

// ConectarMQTT se conecta a servidor (tcp://host:puerto)
func ConectarMQTT(servidor string) (*ClienteMQTT, error) {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(servidor)
	opts.SetClientID("evocom_" + uuid.NewString())
	opts.SetConnectTimeout(esperaMQTT)

	cliente := mqtt.NewClient(opts)
	token := cliente.Connect()
	if !token.WaitTimeout(esperaMQTT) {
		return nil, fmt.Errorf("tiempo agotado conectando a %s", servidor)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("error al conectar al broker MQTT %s: %w", servidor, err)
	}
	return &ClienteMQTT{cliente: cliente}, nil
}

// Publicar envía el mensaje sin retener
func (c *ClienteMQTT) Publicar(topico string, mensaje interface{}) error {
	datos, err := codificarMensaje(topico, mensaje)
	if err != nil {
		return err
	}
	token := c.cliente.Publish(topico, 0, false, datos)
	if !token.WaitTimeout(esperaMQTT) {
		return fmt.Errorf("tiempo agotado publicando en %s", topico)
	}
	return token.Error()
}

// Desconectar espera hasta 250 ms a que salgan los mensajes pendientes
func (c *ClienteMQTT) Desconectar() {
	c.cliente.Disconnect(250)
}
