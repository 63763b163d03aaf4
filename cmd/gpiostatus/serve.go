package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/muurk/gpiostatus/internal/board"
	"github.com/muurk/gpiostatus/internal/hostgpio"
	"github.com/muurk/gpiostatus/internal/logging"
	"github.com/muurk/gpiostatus/internal/server"
)

// Serve command flags
var (
	serveHost      string
	servePort      int
	serveAPIKey    string
	serveCert      string
	serveKey       string
	serveAdvertise bool
	serveInstance  string
	serveHeader    string
)

func init() {
	serveCmd.Flags().StringVar(&serveHost, "host", "", "Listen address (empty = all interfaces)")
	serveCmd.Flags().IntVar(&servePort, "port", server.DefaultPort, "Listen port")
	serveCmd.Flags().StringVar(&serveAPIKey, "api-key", "", "Require this X-Api-Key on every request")
	serveCmd.Flags().StringVar(&serveCert, "cert", "", "TLS certificate file (serve HTTPS)")
	serveCmd.Flags().StringVar(&serveKey, "key", "", "TLS private key file")
	serveCmd.Flags().BoolVar(&serveAdvertise, "advertise", false, "Advertise the server over mDNS")
	serveCmd.Flags().StringVar(&serveInstance, "instance", "", "mDNS instance name (default: gpiostatus on <hostname>)")
	serveCmd.Flags().StringVar(&serveHeader, "header", "auto", "Header layout: auto, 26 or 40")

	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve GPIO status from this Raspberry Pi",
	Long: `Start the GPIO status server on a Raspberry Pi.

The server answers POST /api/plugin/gpiostatus and the WebSocket stream at
/api/plugin/gpiostatus/ws. Pin state is read with raspi-gpio and interface
state with raspi-config, so both must be installed. The header layout and
board facts are detected once at startup.`,
	Example: `  # Serve on the default port
  gpiostatus serve

  # Require an API key and advertise over mDNS
  gpiostatus serve --api-key s3cret --advertise

  # Serve HTTPS with your own certificate
  gpiostatus serve --cert cert.pem --key key.pem --port 5443

  # Force the 26-pin layout of an original Model B
  gpiostatus serve --header 26`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	// The server logs requests at info unless told otherwise
	if logLevel == "" && os.Getenv(logging.LogLevelEnvVar) == "" {
		if err := logging.Initialize("info"); err != nil {
			return err
		}
	}

	if (serveCert == "") != (serveKey == "") {
		return fmt.Errorf("both --cert and --key must be provided together")
	}

	size, err := board.ParseHeaderSize(serveHeader)
	if err != nil {
		return err
	}

	info, err := board.Detect(size)
	if err != nil {
		return fmt.Errorf("failed to detect board: %w", err)
	}
	logging.Info("Board detected",
		zap.String("model", info.Hardware.Model),
		zap.String("revision", info.Hardware.Revision),
		zap.Int("pins", len(info.Header.Pins)),
	)

	provider, err := hostgpio.NewProvider(info.Header, info.Hardware, nil)
	if err != nil {
		return fmt.Errorf("failed to create status provider: %w", err)
	}

	srv, err := server.New(&server.Config{
		Host:      serveHost,
		Port:      servePort,
		APIKey:    serveAPIKey,
		CertPath:  serveCert,
		KeyPath:   serveKey,
		Advertise: serveAdvertise,
		Instance:  serveInstance,
	}, provider)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start()
}
