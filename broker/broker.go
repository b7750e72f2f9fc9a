// Copyright © 2023 EcoSwell

// Package broker publishes readings over MQTT and decodes them again for
// subscribers.
package broker

import (
	"bytes"
	"encoding/json"
	"time"

	MQTT "github.com/eclipse/paho.mqtt.golang"
	"github.com/pkg/errors"
	jww "github.com/spf13/jwalterweatherman"

	"github.com/EcoSwell/RaspberryPi-Sensor/sensors"
)

// Topic carries one message per reading.
const Topic = "/envirolog/reading"

const publishTimeout = 5 * time.Second

// Message is the JSON payload of a reading.
type Message struct {
	Run      string    `json:"run"`
	Sensor   int       `json:"sensor"`
	Name     string    `json:"name"`
	Time     time.Time `json:"time"`
	Values   []float64 `json:"values"`
	Headings []string  `json:"headings"`
}

func NewMessage(r sensors.Reading) Message {
	return Message{
		Run:      r.Run,
		Sensor:   int(r.Sensor),
		Name:     r.Sensor.Name(),
		Time:     r.Time,
		Values:   r.Values,
		Headings: r.Headings(),
	}
}

// Decode parses a payload published by a Publisher.
func Decode(payload []byte) (Message, error) {
	var m Message
	err := json.NewDecoder(bytes.NewReader(payload)).Decode(&m)
	if err != nil {
		return m, errors.Wrap(err, "decode reading")
	}
	if len(m.Values) != len(m.Headings) {
		return m, errors.Errorf("%s: %d values for %d headings", m.Name, len(m.Values), len(m.Headings))
	}
	return m, nil
}

// Connect opens a clean session with the broker at server.
func Connect(server, clientID string, onConnect MQTT.OnConnectHandler) (MQTT.Client, error) {
	opts := MQTT.NewClientOptions().AddBroker(server).SetClientID(clientID).SetCleanSession(true)
	if onConnect != nil {
		opts.SetOnConnectHandler(onConnect)
	}
	client := MQTT.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, errors.Wrapf(token.Error(), "connect %s", server)
	}
	return client, nil
}

// Publisher is a reading sink that forwards every reading to the broker.
type Publisher struct {
	client MQTT.Client
	topic  string
	failed func(error)
}

func NewPublisher(client MQTT.Client) *Publisher {
	return &Publisher{client: client, topic: Topic, failed: func(err error) { jww.WARN.Println(err) }}
}

func (p *Publisher) Record(r sensors.Reading) error {
	buf := new(bytes.Buffer)
	if err := json.NewEncoder(buf).Encode(NewMessage(r)); err != nil {
		return errors.Wrap(err, "encode reading")
	}

	// Only failures the client reports immediately are returned; the
	// rest are logged once the token settles.
	token := p.client.Publish(p.topic, 0, false, buf.Bytes())
	select {
	case <-token.Done():
		if err := token.Error(); err != nil {
			return errors.Wrap(err, "publish")
		}
	default:
		go p.await(token)
	}
	jww.DEBUG.Printf("Publishing %s -> %s", p.topic, bytes.TrimSpace(buf.Bytes()))
	return nil
}

func (p *Publisher) await(token MQTT.Token) {
	if !token.WaitTimeout(publishTimeout) {
		p.failed(errors.Errorf("publish to %s timed out", p.topic))
		return
	}
	if err := token.Error(); err != nil {
		p.failed(errors.Wrap(err, "publish"))
	}
}

// Subscribe calls handle for every reading published on the broker.
// Payloads that do not decode are logged and dropped.
func Subscribe(client MQTT.Client, handle func(Message)) error {
	token := client.Subscribe(Topic, 0, func(_ MQTT.Client, msg MQTT.Message) {
		m, err := Decode(msg.Payload())
		if err != nil {
			jww.WARN.Println(err)
			return
		}
		handle(m)
	})
	if token.Wait() && token.Error() != nil {
		return errors.Wrapf(token.Error(), "subscribe %s", Topic)
	}
	return nil
}
