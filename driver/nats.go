package driver

import (
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
)

func ConnectNATS(url string) (*nats.Conn, error) {

	conn, err := nats.Connect(url,
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to nats: %w", err)
	}

	return conn, nil
}
