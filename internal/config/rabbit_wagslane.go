package config

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"net/url"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/wagslane/go-rabbitmq"
	"go.uber.org/zap"

	"github.com/stock-ahora/api-mod-semanal/internal/service/eventservice"
)

func mqURL(mq MQConfig) string {
	scheme := "amqp"
	if mq.TLS {
		scheme = "amqps"
	}
	u := url.URL{
		Scheme:  scheme,
		User:    url.UserPassword(mq.User, mq.Password),
		Host:    fmt.Sprintf("%s:%d", mq.Host, mq.Port),
		Path:    "/" + mq.VHost,
		RawPath: "/" + url.PathEscape(mq.VHost),
	}
	return u.String()
}

func tlsConfig() *tls.Config {
	rootCAs, _ := x509.SystemCertPool()
	return &tls.Config{
		RootCAs:    rootCAs,
		MinVersion: tls.VersionTLS12,
	}
}

// Conexión administrada (reconexión automática)
func RabbitConn(mq MQConfig, log *zap.Logger) (*rabbitmq.Conn, error) {
	cfg := rabbitmq.Config{
		Heartbeat: 10 * time.Second,
		Locale:    "en_US",
		Dial:      amqp.DefaultDial(30 * time.Second),
	}
	if mq.TLS {
		cfg.TLSClientConfig = tlsConfig()
	}

	return rabbitmq.NewConn(
		mqURL(mq),
		rabbitmq.WithConnectionOptionsConfig(cfg),
		rabbitmq.WithConnectionOptionsLogger(log.Sugar()),
		rabbitmq.WithConnectionOptionsReconnectInterval(5*time.Second),
	)
}

// Publisher sobre esa conexión; declara el exchange de eventos si no existe.
func RabbitPublisher(conn *rabbitmq.Conn, log *zap.Logger) (*rabbitmq.Publisher, error) {
	return rabbitmq.NewPublisher(
		conn,
		rabbitmq.WithPublisherOptionsLogger(log.Sugar()),
		rabbitmq.WithPublisherOptionsExchangeName(eventservice.ExchangeName),
		rabbitmq.WithPublisherOptionsExchangeKind(eventservice.ExchangeKindTopic),
		rabbitmq.WithPublisherOptionsExchangeDurable,
		rabbitmq.WithPublisherOptionsExchangeDeclare,
		rabbitmq.WithPublisherOptionsConfirm, // publisher confirms
	)
}
