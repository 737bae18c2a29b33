package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

// component tags every log line so multiple tools sharing the same
// log directory (the CLI today, a future daemon) can be told apart.
const component = "edascan"

// Init initializes the global logger with dual sinks: os.Stderr and a rotating file.
func Init() {
	// 0. Load .env from binary directory to ensure LOGS_FOLDER is available.
	// We do this here because Init is called before config.Load.
	exePath, err := os.Executable()
	if err == nil {
		exeDir := filepath.Dir(exePath)
		_ = godotenv.Load(filepath.Join(exeDir, ".env"))
	}

	// 1. Determine log level
	level := zerolog.InfoLevel
	if os.Getenv("VERBOSE") == "true" {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)

	// 2. Setup Stderr Writer (Console)
	isTerminal := isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())
	consoleWriter := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339Nano,
		NoColor:    !isTerminal,
	}

	// 3. Setup File Writer (Rotating)
	dataPath := os.Getenv("DATA_PATH")
	if dataPath == "" {
		if err == nil {
			dataPath = filepath.Dir(exePath)
		} else {
			dataPath = "."
		}
	}

	logDir := filepath.Join(dataPath, "logs")

	// Ensure log directory exists and is writable
	if err := os.MkdirAll(logDir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to create log directory %q: %v\n", logDir, err)
		os.Exit(1)
	}

	logFile := filepath.Join(logDir, "edascan.log")

	// A single scan can emit one progress line every ProgressEveryNChunks
	// chunks over a multi-gigabyte file, so the rotation window is sized
	// for a run that logs for hours rather than a short-lived request
	// handler: bigger segments, fewer of them kept.
	fileWriter := &lumberjack.Logger{
		Filename:   logFile,
		MaxSize:    64, // megabytes
		MaxBackups: 8,
		MaxAge:     30, // days
		Compress:   true,
	}

	// 4. Combine Writers
	multi := zerolog.MultiLevelWriter(io.Writer(consoleWriter), fileWriter)

	// 5. Set Global Logger
	log.Logger = zerolog.New(multi).
		With().
		Timestamp().
		Str("component", component).
		Logger()

	log.Info().Msg("Logging initialized")
}

// ForRun returns a child logger carrying the run's analysis ID, so every
// line a single scan emits (orchestrator progress, sampler downgrades,
// schema validation warnings) can be correlated in the shared log file
// even when multiple scans interleave.
func ForRun(analysisID string) zerolog.Logger {
	return log.Logger.With().Str("analysisId", analysisID).Logger()
}
