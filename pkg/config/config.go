package config

// this holds the resolved configuration values from CLI
//
//nolint:lll // readablity
var (
	DB                string // connection string for the database
	WaitForServices   string // duration to wait for other services to be ready
	LogLevel          string // sets the log level (zap log level values)
	SQLLogLevel       string // sets the log level for sql subsystem
	LogFormat         string // text vs json
	LogConfig         string // path to log config file
	NatsURL           string // if set, race analysis results are published here
	EnableTelemetry   bool   // enable telemetry
	TelemetryEndpoint string // endpoint for telemetry
	OutputFormat      string // output format for analysis results (text, json)
)

// Config holds the configuration values which are used by the application
type Config struct {
	PublishResults bool // if true, finished race analyses are published via NATS
}
