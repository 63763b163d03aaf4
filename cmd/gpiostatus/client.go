package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/muurk/gpiostatus/internal/discovery"
	"github.com/muurk/gpiostatus/internal/logging"
	"github.com/muurk/gpiostatus/internal/pinout"
	"github.com/muurk/gpiostatus/internal/refresh"
	"github.com/muurk/gpiostatus/internal/settings"
	"github.com/muurk/gpiostatus/internal/statusclient"
	"github.com/muurk/gpiostatus/internal/tui"
	"github.com/muurk/gpiostatus/internal/ui"
	"github.com/muurk/gpiostatus/internal/view"
)

// Transports accepted by --transport
const (
	TransportHTTP   = "http"
	TransportStream = "ws"
)

// Client command flags, shared by show and watch
var (
	serverURL     string
	apiKey        string
	transport     string
	fetchTimeout  time.Duration
	outputFormat  string
	watchInterval time.Duration
	scanTimeout   time.Duration
	optionFlags   = make(map[view.Option]*bool)
)

func addClientFlags(fs *pflag.FlagSet) {
	fs.StringVar(&serverURL, "server", "", "Status server URL (default: settings server)")
	fs.StringVar(&apiKey, "api-key", "", "API key sent as X-Api-Key (default: settings api_key)")
	fs.StringVar(&transport, "transport", TransportHTTP, "Transport: http or ws")
	fs.DurationVar(&fetchTimeout, "timeout", statusclient.DefaultTimeout, "Request timeout")
}

func init() {
	addClientFlags(showCmd.Flags())
	showCmd.Flags().StringVar(&outputFormat, "format", "terminal", "Output format (terminal, html, json)")
	for _, opt := range view.All() {
		optionFlags[opt] = showCmd.Flags().Bool(optionFlagName(opt), false, "Override the "+opt.String()+" setting")
	}

	addClientFlags(watchCmd.Flags())
	watchCmd.Flags().DurationVar(&watchInterval, "interval", 0, "Refresh automatically at this interval (0 = manual)")

	scanCmd.Flags().DurationVar(&scanTimeout, "timeout", discovery.DefaultScanTimeout, "How long to listen for servers")

	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(scanCmd)
}

// showCmd prints the status once
var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the GPIO status once",
	Long: `Fetch the GPIO status from a server and print it.

View options come from the settings file; the option flags override them
for this run only. Options follow the same rules as the watch screen, so
--compact clears --order-by-name, --hide-special-pins and --show-notes.`,
	Example: `  # Terminal table from the configured server
  gpiostatus show

  # Another server, ordered by name
  gpiostatus show --server http://192.168.1.20:5000 --compact=false --order-by-name

  # HTML fragments per region, for embedding
  gpiostatus show --format html

  # Raw status payload for scripting
  gpiostatus show --format json`,
	RunE: runShow,
}

// watchCmd opens the live screen
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Open the live GPIO status screen",
	Long: `Open a full-screen view of the GPIO status.

Option toggles and pin notes are saved to the settings file. Changes made by
another process, such as 'gpiostatus settings set', are picked up while the
screen is open.`,
	Example: `  # Watch the configured server
  gpiostatus watch

  # Refresh every 5 seconds over the WebSocket stream
  gpiostatus watch --transport ws --interval 5s`,
	RunE: runWatch,
}

// scanCmd finds servers over mDNS
var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Find gpiostatus servers on the local network",
	Long: `Listen for gpiostatus servers advertised over mDNS.

Servers started with 'gpiostatus serve --advertise' answer this scan.`,
	Example: `  # Scan for 5 seconds (default)
  gpiostatus scan

  # Longer scan for slow networks
  gpiostatus scan --timeout 15s`,
	RunE: runScan,
}

// optionFlagName is the show flag of a view option: --compact for compact
// view, the dashed settings key for the rest.
func optionFlagName(opt view.Option) string {
	if opt == view.CompactView {
		return "compact"
	}
	return strings.ReplaceAll(opt.String(), "_", "-")
}

// newFetcher builds the transport named by --transport. close releases it.
func newFetcher(base, key, kind string, timeout time.Duration) (refresh.Fetcher, func(), error) {
	switch kind {
	case TransportHTTP, "":
		c := statusclient.NewClient(base)
		c.APIKey = key
		c.SetTimeout(timeout)
		return c, func() {}, nil
	case TransportStream:
		c := statusclient.NewStreamClient(base)
		c.APIKey = key
		c.Timeout = timeout
		return c, func() {
			if err := c.Close(); err != nil {
				logging.Debug("Stream close failed", zap.Error(err))
			}
		}, nil
	}
	return nil, nil, fmt.Errorf("unknown transport %q (expected %s or %s)", kind, TransportHTTP, TransportStream)
}

// resolveServer applies the flag overrides to the stored server settings.
func resolveServer(s settings.Settings) (string, string) {
	base, key := s.Server, s.APIKey
	if serverURL != "" {
		base = serverURL
	}
	if apiKey != "" {
		key = apiKey
	}
	if base == "" {
		base = settings.DefaultServer
	}
	return base, key
}

// recorder keeps the last successful response passing through a fetcher.
type recorder struct {
	refresh.Fetcher
	mu   sync.Mutex
	last *pinout.Response
}

func (r *recorder) Fetch(ctx context.Context, req pinout.Request) (*pinout.Response, error) {
	resp, err := r.Fetcher.Fetch(ctx, req)
	if err == nil {
		r.mu.Lock()
		r.last = resp
		r.mu.Unlock()
	}
	return resp, err
}

func runShow(cmd *cobra.Command, args []string) error {
	switch outputFormat {
	case "terminal", "html", "json":
	default:
		return fmt.Errorf("unknown format %q (expected terminal, html or json)", outputFormat)
	}

	st, err := openSettings()
	if err != nil {
		return err
	}

	// Flag overrides apply to a copy; show never writes the settings file.
	s := st.Get()
	for _, opt := range view.All() {
		if cmd.Flags().Changed(optionFlagName(opt)) {
			s.Options = s.Options.Set(opt, *optionFlags[opt])
		}
	}
	prefs := settings.NewMemoryStore(s)

	base, key := resolveServer(s)
	fetcher, closeFetcher, err := newFetcher(base, key, transport, fetchTimeout)
	if err != nil {
		return err
	}
	defer closeFetcher()

	rec := &recorder{Fetcher: fetcher}
	b := refresh.NewBoard()
	ctrl := refresh.New(rec, b, prefs, refresh.Config{})
	defer ctrl.Close()

	_, refreshErr := ctrl.Refresh(cmd.Context())
	out := cmd.OutOrStdout()

	switch outputFormat {
	case "json":
		if refreshErr != nil && rec.last == nil {
			return refreshErr
		}
		data, err := json.MarshalIndent(rec.last, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Fprintln(out, string(data))
	case "html":
		writeFragments(out, b)
	default:
		fmt.Fprintln(out, ui.NewHeader("GPIO Status", "gpiostatus show",
			ui.Param{Key: "Server", Value: base},
			ui.Param{Key: "Transport", Value: transport},
		).Render())
		if refreshErr != nil && !errors.Is(refreshErr, refresh.ErrUnavailable) {
			fmt.Fprintln(out, ui.NewFetchFailureResult("Could not read GPIO status", refreshErr).Render())
			return refreshErr
		}
		fmt.Fprintln(out, ui.NewPage(b).Render())
	}
	return refreshErr
}

// writeFragments prints every region as an element the page can swap in.
func writeFragments(w io.Writer, b *refresh.Board) {
	fragments := b.Fragments()
	for _, region := range b.Regions() {
		fmt.Fprintf(w, "<div id='gpiostatus_%s'>%s</div>\n", html.EscapeString(string(region)), fragments[region])
	}
}

func runWatch(cmd *cobra.Command, args []string) error {
	st, err := openSettings()
	if err != nil {
		return err
	}
	defer st.Flush()

	base, key := resolveServer(st.Get())
	fetcher, closeFetcher, err := newFetcher(base, key, transport, fetchTimeout)
	if err != nil {
		return err
	}
	defer closeFetcher()

	b := refresh.NewBoard()
	ctrl := refresh.New(fetcher, b, st, refresh.Config{})
	defer ctrl.Close()

	cfg := tui.Config{
		Controller: ctrl,
		Board:      b,
		Prefs:      st,
		Source:     base,
		Interval:   watchInterval,
		Context:    cmd.Context(),
	}

	if path := st.Path(); path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
		watcher, err := settings.NewWatcher(path)
		if err != nil {
			logging.Warn("Settings file will not be watched", zap.Error(err))
		} else {
			defer watcher.Close()
			cfg.Changes = watcher.Changes()
			cfg.Reload = st.Reload
		}
	}

	program := tea.NewProgram(tui.New(cfg), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("watch screen failed: %w", err)
	}
	return nil
}

func runScan(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Scanning for gpiostatus servers (timeout: %s)...\n\n", scanTimeout)

	hosts, err := discovery.Scan(cmd.Context(), scanTimeout)
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	fmt.Fprintln(out, ui.RenderHosts(hosts))
	if len(hosts) == 0 {
		fmt.Fprintln(out, "\nTroubleshooting:")
		fmt.Fprintln(out, "  - Start the server with: gpiostatus serve --advertise")
		fmt.Fprintln(out, "  - Check that both machines are on the same network")
		fmt.Fprintln(out, "  - Try increasing --timeout for slower networks")
		return nil
	}

	fmt.Fprintln(out, "\nUse 'gpiostatus show --server <url>' to view a server")
	return nil
}
