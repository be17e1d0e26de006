package echo

import "time"

// Config contains echo client configuration.
type Config struct {
	Delay time.Duration `env:"ECHO_DELAY" envDefault:"0s"`
}
