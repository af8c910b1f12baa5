// Package mqtt publishes telemetry payloads to MQTT broker.
// - NewClient returns only configuration errors, connection is done in background
// - unlimited reconnect attempts until Close()
// - Publish while offline fails, no in-flight storage
package mqtt

import (
	"fmt"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/juju/errors"
	"github.com/temoto/wifinfo/helpers"
	sink_config "github.com/temoto/wifinfo/internal/sink/config"
	"github.com/temoto/wifinfo/log2"
)

const (
	DefaultTopic          = "teleinfo"
	DefaultClientID       = "wifinfo"
	DefaultNetworkTimeout = 10 * time.Second
	DefaultRetryInterval  = 30 * time.Second
)

// subset of paho.Client used here
type pahoClient interface {
	Connect() paho.Token
	Disconnect(quiesce uint)
	IsConnectionOpen() bool
	Publish(topic string, qos byte, retained bool, payload interface{}) paho.Token
}

type Client struct {
	log     *log2.Log
	m       pahoClient
	topic   string
	qos     byte
	retain  bool
	timeout time.Duration

	connecting paho.Token
}

func NewClient(log *log2.Log, config sink_config.MQTT, timeout time.Duration) (*Client, error) {
	if config.Broker == "" {
		return nil, errors.NotValidf("config mqtt.broker=empty")
	}
	if config.QOS < 0 || config.QOS > 2 {
		return nil, errors.NotValidf("config mqtt.qos=%d", config.QOS)
	}
	c := newClient(log, nil, config, timeout)

	// FIXME paho logs through package globals, last client wins
	paho.ERROR = log
	paho.CRITICAL = log
	paho.WARN = log

	clientID := config.ClientID
	if clientID == "" {
		clientID = DefaultClientID
	}
	opt := paho.NewClientOptions().
		AddBroker(config.Broker).
		SetClientID(clientID).
		SetUsername(config.Username).
		SetPassword(config.Password).
		SetCleanSession(true).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(DefaultRetryInterval).
		SetConnectTimeout(c.timeout).
		SetWriteTimeout(c.timeout).
		SetOnConnectHandler(c.onConnectHandler).
		SetConnectionLostHandler(c.connectLostHandler)
	m := paho.NewClient(opt)
	c.m = m
	// with ConnectRetry token completes only on success or Disconnect
	c.connecting = m.Connect()
	return c, nil
}

func newClient(log *log2.Log, m pahoClient, config sink_config.MQTT, timeout time.Duration) *Client {
	topic := config.Topic
	if topic == "" {
		topic = DefaultTopic
	}
	return &Client{
		log:     log,
		m:       m,
		topic:   topic,
		qos:     byte(config.QOS),
		retain:  config.Retain,
		timeout: helpers.IntSecondDefault(int(timeout/time.Second), DefaultNetworkTimeout),
	}
}

func (self *Client) Topic() string { return self.topic }

// WaitConnected blocks until first successful connect or timeout.
// One-shot senders call it before Publish.
func (self *Client) WaitConnected(timeout time.Duration) bool {
	if self.connecting != nil && !self.connecting.WaitTimeout(timeout) {
		self.log.Errorf("mqtt connect timeout=%s", timeout)
		return false
	}
	return self.m.IsConnectionOpen()
}

// Publish waits for broker ack at most network timeout.
func (self *Client) Publish(payload []byte) bool {
	if !self.m.IsConnectionOpen() {
		self.log.Errorf("mqtt publish topic=%s not connected", self.topic)
		return false
	}
	start := time.Now()
	token := self.m.Publish(self.topic, self.qos, self.retain, payload)
	if !token.WaitTimeout(self.timeout) {
		self.log.Errorf("mqtt publish topic=%s timeout=%s", self.topic, self.timeout)
		return false
	}
	if err := token.Error(); err != nil {
		self.log.Errorf("mqtt publish topic=%s err=%v", self.topic, err)
		return false
	}
	self.log.Debugf("mqtt publish topic=%s len=%d in %d ms", self.topic, len(payload), time.Since(start).Milliseconds())
	return true
}

func (self *Client) Close() {
	self.log.Infof("mqtt disconnect")
	self.m.Disconnect(uint(self.timeout / time.Millisecond))
}

func (self *Client) String() string {
	return fmt.Sprintf("mqtt topic=%s qos=%d", self.topic, self.qos)
}

func (self *Client) connectLostHandler(c paho.Client, err error) {
	self.log.Infof("mqtt connection lost err=%v", err)
}

func (self *Client) onConnectHandler(c paho.Client) {
	self.log.Infof("mqtt connect")
}
