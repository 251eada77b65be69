package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/elastic/go-ucfg"
	"github.com/elastic/go-ucfg/yaml"
	"github.com/spf13/cobra"
	"gopkg.in/natefinch/lumberjack.v2"

	"httpflow/internal/httparser"
	"httpflow/internal/response"
	"httpflow/internal/server"
)

// fileConfig mirrors the shape of the optional --config YAML file,
// unpacked with go-ucfg the way packetd's confengine unpacks packetd.yaml.
type fileConfig struct {
	Port          int    `config:"port"`
	MaxHeaderSize int    `config:"max-header-size"`
	LogLevel      string `config:"log-level"`
	LogFile       string `config:"log-file"`
}

var (
	configPath    string
	port          int
	maxHeaderSize int
	logLevel      string
	logFile       string
)

var rootCmd = &cobra.Command{
	Use:   "httpserver",
	Short: "Demo HTTP/1.x server built on the incremental parser",
	Example: "  httpserver --port 42069\n  httpserver --config httpserver.yaml",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := fileConfig{Port: port, MaxHeaderSize: maxHeaderSize, LogLevel: logLevel, LogFile: logFile}
		if configPath != "" {
			loaded, err := yaml.NewConfigWithFile(configPath, ucfg.PathSep("."))
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if err := loaded.Unpack(&cfg); err != nil {
				return fmt.Errorf("failed to unpack config: %w", err)
			}
		}

		log := newLogger(cfg.LogLevel, cfg.LogFile)

		if cfg.MaxHeaderSize <= 0 {
			cfg.MaxHeaderSize = httparser.DefaultMaxHeaderSize
		}

		srv, err := server.Serve(cfg.Port, cfg.MaxHeaderSize, rootHandler, log)
		if err != nil {
			return fmt.Errorf("error starting server: %w", err)
		}
		defer srv.Close()
		log.Info("server started", "port", cfg.Port, "max_header_size", cfg.MaxHeaderSize)

		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan
		log.Info("server gracefully stopped")
		return nil
	},
}

func init() {
	rootCmd.Flags().StringVar(&configPath, "config", "", "Configuration file path")
	rootCmd.Flags().IntVar(&port, "port", 42069, "TCP port to listen on")
	rootCmd.Flags().IntVar(&maxHeaderSize, "max-header-size", httparser.DefaultMaxHeaderSize, "Maximum cumulative header bytes per message")
	rootCmd.Flags().StringVar(&logLevel, "log-level", "info", "Log level: debug, info, warn, error")
	rootCmd.Flags().StringVar(&logFile, "log-file", "", "If set, rotate access/error logs to this file instead of stderr")
}

func newLogger(level, file string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: lvl}
	if file == "" {
		return slog.New(slog.NewTextHandler(os.Stderr, opts))
	}

	rotated := &lumberjack.Logger{
		Filename:   file,
		MaxSize:    50,
		MaxBackups: 5,
		MaxAge:     28,
	}
	return slog.New(slog.NewTextHandler(rotated, opts))
}

func rootHandler(w *response.Writer, req *server.Request) *server.HandlerError {
	w.Headers.Append("Content-Type", "text/html")

	switch req.Target {
	case "/yourproblem":
		w.Status = response.BadRequest
		w.SetBody([]byte(`<html>
  <head><title>400 Bad Request</title></head>
  <body><h1>Bad Request</h1><p>Your request honestly kinda sucked.</p></body>
</html>`))
		return nil

	case "/myproblem":
		w.Status = response.InternalServerError
		w.SetBody([]byte(`<html>
  <head><title>500 Internal Server Error</title></head>
  <body><h1>Internal Server Error</h1><p>Okay, you know what? This one is on me.</p></body>
</html>`))
		return nil
	}

	w.Status = response.OK
	w.SetBody([]byte(`<html>
  <head><title>200 OK</title></head>
  <body><h1>Success!</h1><p>Your request was an absolute banger.</p></body>
</html>`))
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
