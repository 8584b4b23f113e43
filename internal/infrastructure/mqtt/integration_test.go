//go:build integration

package mqtt

import (
	"errors"
	"sync"
	"testing"
	"time"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"
)

// These tests require a running MQTT broker at 127.0.0.1:1883.
//
// Run with:
//   go test -tags=integration -v ./internal/infrastructure/mqtt/...

func TestIntegration_Connect(t *testing.T) {
	client, err := Connect(testConfig())
	if err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	defer client.Close()

	if !client.IsConnected() {
		t.Error("IsConnected() = false, want true")
	}
}

func TestIntegration_BrokerRefused(t *testing.T) {
	cfg := testConfig()
	cfg.Broker.Port = 19998

	_, err := Connect(cfg)
	if !errors.Is(err, ErrConnectionFailed) {
		t.Errorf("Connect() error = %v, want ErrConnectionFailed", err)
	}
}

func TestIntegration_AreaStatusIsRetained(t *testing.T) {
	cfg := testConfig()
	cfg.Broker.ClientID = "wayne-int-publisher"
	client, err := Connect(cfg)
	if err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	defer client.Close()

	topic := Topics{}.AreaStatus(999)
	if err := client.PublishJSON(topic, map[string]string{"status": "bloqueado"}, true); err != nil {
		t.Fatalf("PublishJSON() error = %v", err)
	}

	// A subscriber connecting afterwards still receives the retained value.
	opts := buildClientOptions(cfg)
	opts.SetClientID("wayne-int-subscriber")
	sub := pahomqtt.NewClient(opts)
	if token := sub.Connect(); !token.WaitTimeout(5*time.Second) || token.Error() != nil {
		t.Fatalf("subscriber connect failed: %v", token.Error())
	}
	defer sub.Disconnect(100)

	var (
		mu  sync.Mutex
		got []byte
	)
	received := make(chan struct{}, 1)
	sub.Subscribe(topic, 1, func(_ pahomqtt.Client, msg pahomqtt.Message) {
		mu.Lock()
		got = msg.Payload()
		mu.Unlock()
		select {
		case received <- struct{}{}:
		default:
		}
	})

	select {
	case <-received:
	case <-time.After(5 * time.Second):
		t.Fatal("retained message not received")
	}

	mu.Lock()
	defer mu.Unlock()
	if string(got) != `{"status":"bloqueado"}` {
		t.Errorf("payload = %s", got)
	}

	// Clear the retained message.
	client.Publish(topic, nil, 1, true)
}
