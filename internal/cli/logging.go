package cli

import (
	"flag"
	"log/slog"

	"gopkg.in/natefinch/lumberjack.v2"
)

const defaultLogFile = ".covfix.log"

type logOptions struct {
	debug   bool
	logFile string
}

func logFlags(fs *flag.FlagSet) *logOptions {
	opts := &logOptions{}
	fs.BoolVar(&opts.debug, "debug", false, "Enable debug logging")
	fs.StringVar(&opts.logFile, "log-file", defaultLogFile, "Log file path")
	return opts
}

// configureLogging installs the global slog logger. Logs go to a rotated
// file so that text and report output on stdout stay clean.
func configureLogging(opts *logOptions) {
	level := slog.LevelInfo
	if opts.debug {
		level = slog.LevelDebug
	}

	logWriter := &lumberjack.Logger{
		Filename:   opts.logFile,
		MaxSize:    10,
		MaxBackups: 3,
		MaxAge:     28,
		Compress:   true,
	}

	handler := slog.NewTextHandler(logWriter, &slog.HandlerOptions{
		AddSource: true,
		Level:     level,
	})
	slog.SetDefault(slog.New(handler))
}
