package logger

import (
	"io"
	"os"
	"realty/config"
	"realty/shared/constant"
	"time"

	"github.com/natefinch/lumberjack"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/rs/zerolog/pkgerrors"
)

const defaultLevel = zerolog.InfoLevel

func init() {
	zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack
}

// Setup configures the global logger: human-readable console output in
// development and JSON elsewhere, optionally mirrored into a rotating file.
// The returned func flushes and closes the file sink.
func Setup(cfg *config.Config) func() {
	zerolog.TimeFieldFormat = time.RFC3339Nano
	zerolog.SetGlobalLevel(Level(cfg.Server.LogLevel))

	var (
		out     io.Writer = os.Stdout
		cleanup           = func() {}
	)

	if cfg.Server.Env == constant.ServerEnvDevelopment {
		out = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	}

	if sink := fileSink(cfg); sink != nil {
		out = zerolog.MultiLevelWriter(out, sink)
		cleanup = func() {
			if err := sink.Close(); err != nil {
				log.Error().Err(err).Msg("Failed to close log file")
			}
		}
	}

	log.Logger = zerolog.New(out).With().
		Timestamp().
		Str("service", cfg.App.Name).
		Logger()

	log.Debug().
		Str("level", zerolog.GlobalLevel().String()).
		Str("file", cfg.Server.LogFile.Path).
		Msg("Logger configured.")

	return cleanup
}

// Level parses a zerolog level name. Unknown or empty names give info.
func Level(name string) zerolog.Level {
	level, err := zerolog.ParseLevel(name)
	if err != nil || level == zerolog.NoLevel {
		return defaultLevel
	}

	return level
}

func fileSink(cfg *config.Config) io.WriteCloser {
	file := cfg.Server.LogFile
	if file.Path == "" {
		return nil
	}

	return &lumberjack.Logger{
		Filename:   file.Path,
		MaxSize:    file.MaxSizeMB,
		MaxBackups: file.MaxBackups,
		MaxAge:     file.MaxAgeDays,
		Compress:   true,
	}
}

// ErrorWithStack logs err with the stack trace of the caller.
func ErrorWithStack(err error) {
	log.Error().Stack().Err(errors.WithStack(err)).Send()
}
