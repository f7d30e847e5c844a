package internal

import "time"

type Config struct {
	Host                    string        `env:"HOST,default=localhost"`
	Port                    int           `env:"PORT,default=8765"`
	LogLevel                string        `env:"LOG_LEVEL,default=info"`
	BufferSize              int           `env:"BUFFER_SIZE,default=256"`
	QueueSize               int           `env:"QUEUE_SIZE,default=64"`
	TickInterval            time.Duration `env:"TICK_INTERVAL,default=33ms"`
	WriteTimeout            time.Duration `env:"WRITE_TIMEOUT,default=5s"`
	SinkTimeout             time.Duration `env:"SINK_TIMEOUT,default=2s"`
	DisconnectGracePeriod   time.Duration `env:"DISCONNECT_GRACE_PERIOD,default=30s"`
	RestartInterval         time.Duration `env:"RESTART_INTERVAL,default=1s"`
	TelemetryInterval       time.Duration `env:"TELEMETRY_INTERVAL,default=10s"`
	BadgerFilepath          string        `env:"BADGER_FILEPATH,required=true"`
	SettlementURL           string        `env:"SETTLEMENT_URL"`
	SettlementTimeout       time.Duration `env:"SETTLEMENT_TIMEOUT,default=10s"`
	SettlementRetries       int           `env:"SETTLEMENT_RETRIES,default=5"`
	SettlementRetryInterval time.Duration `env:"SETTLEMENT_RETRY_INTERVAL,default=2s"`
}
