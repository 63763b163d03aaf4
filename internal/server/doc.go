// Package server exposes the host GPIO status over HTTP.
//
// # Endpoints
//
//	POST /api/plugin/gpiostatus     one request, one JSON response
//	GET  /api/plugin/gpiostatus/ws  WebSocket; each text message is a request
//
// The request body is
//
//	{"command": "gpio_status", "hw": true, "wants_funcs": true}
//
// where hw and wants_funcs default to true. An unknown command is answered
// with 400, a provider failure with 500 and a JSON {"error": "..."} body.
// When the host lacks raspi-config or raspi-gpio the response carries only
// the "commands" block.
//
// # Authentication
//
// When Config.APIKey is set every request must carry it in the X-Api-Key
// header; otherwise the server answers 401.
//
// # TLS
//
// Setting CertPath and KeyPath serves HTTPS (TLS 1.2 or newer).
//
// # Usage Example
//
//	srv, err := server.New(&server.Config{Port: 5000, Advertise: true}, provider)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Start blocks until SIGINT/SIGTERM or a listener error
//	if err := srv.Start(); err != nil {
//	    log.Fatal(err)
//	}
//
// # Graceful Shutdown
//
// On SIGINT or SIGTERM the server withdraws its mDNS advertisement, stops
// accepting requests, closes open streams and waits up to ten seconds for
// in-flight requests.
package server
