package config

import "time"

// App is the root application configuration, loaded from the environment.
type App struct {
	Env     string  `envconfig:"APP_ENV" default:"development"`
	Server  Server  `envconfig:"SERVER"`
	DB      DB      `envconfig:"DATABASE"`
	Jwt     Jwt     `envconfig:"JWT"`
	Log     Log     `envconfig:"LOG"`
	Anomaly Anomaly `envconfig:"ANOMALY"`
}

type Server struct {
	Host string `envconfig:"HOST" default:"0.0.0.0"`
	Port int    `envconfig:"PORT" default:"3000"`
}

type DB struct {
	Url string `envconfig:"URL"`
}

type Jwt struct {
	Secret string        `envconfig:"SECRET" required:"true"`
	Expiry time.Duration `envconfig:"EXPIRY" default:"24h"`
}

type Log struct {
	Level      int    `envconfig:"LEVEL" default:"0"`
	Format     string `envconfig:"FORMAT" default:"text"`
	TimeFormat string `envconfig:"TIME_FORMAT" default:"2006-01-02 15:04:05"`
	Prefix     string `envconfig:"PREFIX" default:"[ledger]"`
}

// Anomaly tunes the screener. The defaults mirror the screening policy the
// ledger was calibrated with; raising the threshold reduces flags.
type Anomaly struct {
	Threshold  float64 `envconfig:"THRESHOLD" default:"2.5"`
	MinSamples int     `envconfig:"MIN_SAMPLES" default:"3"`
}
