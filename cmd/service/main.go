package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"strings"
	"syscall"

	"github.com/2beens/fitstats/internal"
	"github.com/2beens/fitstats/internal/config"
	"github.com/2beens/fitstats/internal/logging"
	"github.com/2beens/fitstats/pkg"

	log "github.com/sirupsen/logrus"
)

// envSettings holds everything the service reads from the environment rather than the config file.
type envSettings struct {
	redisPassword    string
	postgresPassword string
	sentryDSN        string
	honeycombEnabled bool
}

func readEnvSettings() envSettings {
	return envSettings{
		redisPassword:    os.Getenv("FITSTATS_REDIS_PASS"),
		postgresPassword: os.Getenv("FITSTATS_POSTGRES_PASS"),
		sentryDSN:        os.Getenv("SENTRY_DSN"),
		honeycombEnabled: os.Getenv("HONEYCOMB_ENABLED") == "true",
	}
}

// warnMissing logs the settings that the chosen config needs but the environment lacks.
func (e envSettings) warnMissing(cfg *config.Config) {
	if cfg.SentryEnabled && e.sentryDSN == "" {
		log.Errorln("sentry enabled, but DSN not set. use SENTRY_DSN env var to set it")
	}
	if e.redisPassword == "" {
		log.Warnln("redis password not set. use FITSTATS_REDIS_PASS")
	}
	if cfg.StoreDriver == config.StoreDriverPostgres && e.postgresPassword == "" {
		log.Warnln("postgres password not set. use FITSTATS_POSTGRES_PASS")
	}
	if os.Getenv("OTEL_SERVICE_NAME") == "" {
		log.Warnln("OTEL_SERVICE_NAME env var not set")
	}
	if !e.honeycombEnabled {
		log.Debugln("honeycomb tracing disabled")
	} else if os.Getenv("HONEYCOMB_API_KEY") == "" {
		log.Warnln("HONEYCOMB_API_KEY env var not set")
	}
}

func main() {
	fmt.Println("starting fitstats ...")

	env := flag.String("env", "development", "environment [prod | production | dev | development]")
	configPath := flag.String("config", "./config.toml", "path for the TOML config file")
	flag.Parse()

	cfg, err := config.Load(*env, *configPath)
	if err != nil {
		panic(err)
	}

	settings := readEnvSettings()
	logging.Setup(logging.LoggerSetupParams{
		LogFileName:      cfg.LogsPath,
		LogToStdout:      cfg.LogToStdout,
		LogLevel:         cfg.LogLevel,
		LogFormatJSON:    cfg.LogFormatJSON,
		Environment:      cfg.Environment,
		SentryEnabled:    cfg.SentryEnabled && settings.sentryDSN != "",
		SentryDSN:        settings.sentryDSN,
		SentryServerName: "fitstats-service",
	})

	log.Warnf("---->> running in [%s] environment", cfg.Environment)
	log.WithFields(log.Fields{
		"port":         cfg.Port,
		"store_driver": cfg.StoreDriver,
		"logs_path":    cfg.LogsPath,
	}).Debug("config loaded")
	settings.warnMissing(cfg)

	versionInfo, err := lastCommitHash()
	if err != nil {
		log.Tracef("failed to get last commit hash / version info: %s", err)
	} else {
		log.Tracef("running version: %s", versionInfo)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	server, err := internal.NewServer(
		ctx,
		internal.NewServerParams{
			Config:                  cfg,
			VersionInfo:             versionInfo,
			RedisPassword:           settings.redisPassword,
			PostgresPassword:        settings.postgresPassword,
			HoneycombTracingEnabled: settings.honeycombEnabled,
		},
	)
	if err != nil {
		log.Fatalf("new server: %s", err)
	}

	server.Serve(cfg.Host, cfg.Port)

	<-ctx.Done()
	log.Warnln("shutdown signal received, stopping ...")
	server.GracefulShutdown()
}

// lastCommitHash assumes the binary is run from within the project checkout.
func lastCommitHash() (string, error) {
	out, err := exec.Command("git", "rev-parse", "--short", "HEAD").Output()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(pkg.BytesToString(out)), nil
}
