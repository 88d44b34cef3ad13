package dispatch

import (
	"encoding/json"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Publisher sends a message to a broker topic
type Publisher interface {
	Publish(topic string, payload []byte) error
}

// Message is the JSON payload published for each event
type Message struct {
	Protocol string    `json:"protocol"`
	Address  uint16    `json:"address"`
	Command  uint8     `json:"command"`
	Repeat   bool      `json:"repeat"`
	Toggle   bool      `json:"toggle"`
	Profile  string    `json:"profile,omitempty"`
	Button   string    `json:"button,omitempty"`
	Time     time.Time `json:"time"`
}

// MQTTSink publishes events to <topic>/<protocol>
type MQTTSink struct {
	pub   Publisher
	topic string
}

func NewMQTTSink(pub Publisher, topic string) *MQTTSink {
	return &MQTTSink{pub: pub, topic: topic}
}

func (s *MQTTSink) Dispatch(ev Event) error {
	msg := Message{
		Protocol: ev.Command.Protocol.String(),
		Address:  ev.Command.Address,
		Command:  ev.Command.Command,
		Repeat:   ev.Command.Repeat,
		Toggle:   ev.Command.Toggle,
		Profile:  ev.Profile,
		Time:     ev.Time.UTC(),
	}
	if ev.Mapped {
		msg.Button = ev.Button.String()
	}
	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("mqtt: %w", err)
	}
	return s.pub.Publish(s.topic+"/"+msg.Protocol, payload)
}

// Close closes the publisher if it is closable
func (s *MQTTSink) Close() error {
	if c, ok := s.pub.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}

// MQTTOptions configures the broker connection
type MQTTOptions struct {
	Broker   string
	ClientID string // generated when empty
	Username string
	Password string
	QoS      byte
	Retain   bool
	Timeout  time.Duration // connect and publish timeout
}

// MQTTClient is a Publisher backed by a paho client
type MQTTClient struct {
	client  mqtt.Client
	qos     byte
	retain  bool
	timeout time.Duration
}

// DialMQTT connects to the broker. The client reconnects on its own after
// a lost connection.
func DialMQTT(o MQTTOptions, log zerolog.Logger) (*MQTTClient, error) {
	if o.ClientID == "" {
		o.ClientID = "irdecode-" + uuid.NewString()
	}
	if o.Timeout <= 0 {
		o.Timeout = 5 * time.Second
	}

	opts := mqtt.NewClientOptions()
	opts.AddBroker(o.Broker)
	opts.SetClientID(o.ClientID)
	if o.Username != "" {
		opts.SetUsername(o.Username)
	}
	if o.Password != "" {
		opts.SetPassword(o.Password)
	}
	opts.SetAutoReconnect(true)
	opts.SetConnectTimeout(o.Timeout)
	opts.SetKeepAlive(60 * time.Second)
	opts.SetOnConnectHandler(func(mqtt.Client) {
		log.Info().Str("broker", o.Broker).Msg("mqtt connected")
	})
	opts.SetConnectionLostHandler(func(_ mqtt.Client, err error) {
		log.Warn().Err(err).Msg("mqtt connection lost")
	})

	client := mqtt.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(o.Timeout) {
		return nil, fmt.Errorf("mqtt: connect to %s: timed out", o.Broker)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("mqtt: connect to %s: %w", o.Broker, err)
	}
	return &MQTTClient{client: client, qos: o.QoS, retain: o.Retain, timeout: o.Timeout}, nil
}

func (c *MQTTClient) Publish(topic string, payload []byte) error {
	token := c.client.Publish(topic, c.qos, c.retain, payload)
	if !token.WaitTimeout(c.timeout) {
		return fmt.Errorf("mqtt: publish to %s: timed out", topic)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("mqtt: publish to %s: %w", topic, err)
	}
	return nil
}

// Close disconnects, waiting briefly for in-flight messages
func (c *MQTTClient) Close() error {
	c.client.Disconnect(250)
	return nil
}
