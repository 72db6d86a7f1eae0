package analyze

import (
	"context"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/mpapenbr/racepace-analyzer-go/log"
	"github.com/mpapenbr/racepace-analyzer-go/pkg/config"
	"github.com/mpapenbr/racepace-analyzer-go/pkg/db/postgres"
	"github.com/mpapenbr/racepace-analyzer-go/pkg/pubsub"
	"github.com/mpapenbr/racepace-analyzer-go/pkg/utils"
)

var appConfig config.Config // holds processed config values

func NewAnalyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "computes race pace analytics",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			appConfig = config.Config{PublishResults: config.NatsURL != ""}
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&config.LogLevel,
		"logLevel",
		"info",
		"controls the log level (debug, info, warn, error, fatal)")
	cmd.PersistentFlags().StringVar(&config.SQLLogLevel,
		"sqlLogLevel",
		"debug",
		"controls the log level for sql methods")
	cmd.PersistentFlags().StringVar(&config.LogFormat,
		"logFormat",
		"json",
		"controls the log output format")
	cmd.PersistentFlags().StringVar(&config.LogConfig,
		"logConfig",
		"",
		"log config file with per-logger filter rules")
	cmd.PersistentFlags().StringVar(&config.NatsURL,
		"nats-url",
		"",
		"if set, finished analyses are published on this NATS server")
	cmd.PersistentFlags().BoolVar(&config.EnableTelemetry,
		"enable-telemetry",
		false,
		"enables telemetry")
	cmd.PersistentFlags().StringVar(&config.TelemetryEndpoint,
		"telemetry-endpoint",
		"localhost:4317",
		"Endpoint that receives open telemetry data")
	cmd.PersistentFlags().StringVar(&config.OutputFormat,
		"output-format",
		"text",
		"output format for analysis results (text, json)")

	cmd.AddCommand(newRaceCmd())
	cmd.AddCommand(newSeasonCmd())
	cmd.AddCommand(newRatiosCmd())
	return cmd
}

func useJSONOutput() bool {
	return config.OutputFormat == "json"
}

func parseLogLevel(l string, defaultVal log.Level) log.Level {
	level, err := log.ParseLevel(l)
	if err != nil {
		return defaultVal
	}
	return level
}

// runtime bundles the shared resources of the analyze subcommands.
type runtime struct {
	pool      *pgxpool.Pool
	publisher *pubsub.Publisher
	telemetry *config.Telemetry
}

//nolint:cyclop // sequential setup
func setupRuntime(ctx context.Context) (*runtime, error) {
	var logger *log.Logger
	var sqlLogger *log.Logger
	switch {
	case config.LogConfig != "":
		cfg, err := log.LoadConfig(config.LogConfig)
		if err != nil {
			return nil, err
		}
		logger, err = log.NewWithConfig(os.Stderr, cfg,
			log.WithCaller(true),
			log.AddCallerSkip(1))
		if err != nil {
			return nil, err
		}
		sqlLogger = logger.Named("sql")
	case config.LogFormat == "json":
		logger = log.New(
			os.Stderr,
			parseLogLevel(config.LogLevel, log.InfoLevel),
			log.WithCaller(true),
			log.AddCallerSkip(1))
		sqlLogger = log.New(
			os.Stderr,
			parseLogLevel(config.SQLLogLevel, log.InfoLevel),
			log.WithCaller(true),
			log.AddCallerSkip(1))

	default:
		logger = log.DevLogger(
			os.Stderr,
			parseLogLevel(config.LogLevel, log.DebugLevel),
			log.WithCaller(true),
			log.AddCallerSkip(1))

		sqlLogger = log.DevLogger(
			os.Stderr,
			parseLogLevel(config.SQLLogLevel, log.InfoLevel),
			log.WithCaller(true),
			log.AddCallerSkip(1))
	}
	log.ResetDefault(logger)

	ret := &runtime{}
	if config.EnableTelemetry {
		logger.Info("Enabling telemetry")
		telemetry, err := config.SetupTelemetry(ctx)
		if err != nil {
			logger.Warn("Could not setup telemetry", log.ErrorField(err))
		} else {
			ret.telemetry = telemetry
		}
	}

	if err := waitForDatabase(); err != nil {
		return nil, err
	}
	pgOptions := []postgres.PoolConfigOption{
		postgres.WithTracer(sqlLogger.Sugar()),
	}
	if ret.telemetry != nil {
		pgOptions = append(pgOptions, postgres.WithOtelTracer())
	}
	ret.pool = postgres.InitWithURL(config.DB, pgOptions...)

	if appConfig.PublishResults {
		publisher, err := pubsub.NewPublisher(config.NatsURL)
		if err != nil {
			logger.Warn("Could not connect NATS, publishing disabled",
				log.ErrorField(err))
		} else {
			ret.publisher = publisher
		}
	}
	return ret, nil
}

func (r *runtime) shutdown() {
	if r.publisher != nil {
		r.publisher.Close()
	}
	if r.pool != nil {
		r.pool.Close()
	}
	if r.telemetry != nil {
		r.telemetry.Shutdown()
	}
}

func waitForDatabase() error {
	timeout, err := time.ParseDuration(config.WaitForServices)
	if err != nil {
		log.Warn("Invalid duration value. Setting default 60s", log.ErrorField(err))
		timeout = 60 * time.Second
	}
	postgresAddr := utils.ExtractFromDBURL(config.DB)
	return utils.WaitForTCP(postgresAddr, timeout)
}
