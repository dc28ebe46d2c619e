package logging

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/2beens/fitstats/pkg"

	"github.com/getsentry/sentry-go"
	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// rotation of the service log file
const (
	maxLogFileSizeMB  = 50
	maxLogFileBackups = 30
	maxLogFileAgeDays = 90
)

type LoggerSetupParams struct {
	LogFileName      string
	LogToStdout      bool
	LogLevel         string
	LogFormatJSON    bool
	Environment      string
	SentryEnabled    bool
	SentryDSN        string
	SentryServerName string
}

// Setup configures the global logrus logger: level, format, output and the optional sentry hook.
func Setup(params LoggerSetupParams) {
	logrus.SetLevel(ParseLevel(params.LogLevel))
	logrus.SetFormatter(newFormatter(params.LogFormatJSON))

	if params.SentryEnabled {
		setupSentry(params)
	}

	out, description := newOutput(params.LogFileName, params.LogToStdout)
	logrus.SetOutput(out)
	logrus.Infof("writing logs to %s", description)
}

func newFormatter(jsonFormat bool) logrus.Formatter {
	if jsonFormat {
		return &logrus.JSONFormatter{
			TimestampFormat: time.RFC3339Nano,
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyTime: "ts",
				logrus.FieldKeyMsg:  "message",
			},
		}
	}
	return &logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	}
}

func setupSentry(params LoggerSetupParams) {
	err := sentry.Init(sentry.ClientOptions{
		Environment:      params.Environment,
		Dsn:              params.SentryDSN,
		TracesSampleRate: 1.0,
		ServerName:       params.SentryServerName,
	})
	if err != nil {
		logrus.Errorf("sentry init: %s", err)
		return
	}

	logrus.AddHook(NewSentryHook([]logrus.Level{
		logrus.PanicLevel,
		logrus.FatalLevel,
		logrus.ErrorLevel,
	}))
	logrus.Infoln("sentry hook added")
}

// newOutput returns the log destination and a short description of it.
// An empty file name means stdout only.
func newOutput(fileName string, alsoStdout bool) (io.Writer, string) {
	if fileName == "" {
		return os.Stdout, "stdout"
	}

	if filepath.Ext(fileName) != ".log" {
		fileName += ".log"
	}
	if err := pkg.EnsureParentDir(fileName); err != nil {
		logrus.Errorf("create logs dir for [%s]: %s", fileName, err)
	}

	rotating := &lumberjack.Logger{
		Filename:   fileName,
		MaxSize:    maxLogFileSizeMB,
		MaxBackups: maxLogFileBackups,
		MaxAge:     maxLogFileAgeDays,
		Compress:   true,
	}

	if alsoStdout {
		return pkg.NewTeeWriter(os.Stdout, rotating), fileName + " and stdout"
	}
	return rotating, fileName
}

// ParseLevel maps a configured level name to a logrus level, defaulting to info.
func ParseLevel(level string) logrus.Level {
	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		return logrus.InfoLevel
	}
	return parsed
}
