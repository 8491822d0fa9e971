package commands

import (
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/diogo/personachat/internal/api"
	"github.com/diogo/personachat/internal/config"
	"github.com/diogo/personachat/internal/controller"
	"github.com/diogo/personachat/internal/logging"
)

// session is everything one command run needs to talk to the backend
type session struct {
	cfg     config.Config
	catalog *config.PersonaCatalog
	persona string
	client  api.ChatClientInterface
	host    string
	logger  zerolog.Logger
	closers []io.Closer
}

// logTarget selects where diagnostics go for a session
type logTarget int

const (
	// logConsole writes to stderr; used by one-shot runs
	logConsole logTarget = iota
	// logFile writes to the log file; used while the TUI owns the terminal
	logFile
)

// newSession loads config and personas, applies flag overrides, and builds
// the logger and backend client.
func newSession(deps *Dependencies, opts *rootOptions, stderr io.Writer, target logTarget) (*session, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(stderr, "Warning: %v (using defaults)\n", err)
	}

	if opts.backend != "" {
		cfg.BackendURL = opts.backend
	}
	if opts.logLevel != "" {
		cfg.LogLevel = opts.logLevel
	}

	catalog, err := config.LoadPersonas()
	if err != nil {
		return nil, err
	}

	persona, err := resolvePersona(catalog, opts.persona, cfg.DefaultPersona)
	if err != nil {
		return nil, err
	}

	s := &session{
		cfg:     cfg,
		catalog: catalog,
		persona: persona,
	}

	switch target {
	case logFile:
		path, err := config.GetLogPath(cfg)
		if err != nil {
			return nil, err
		}
		logger, closer, err := logging.OpenFile(path, cfg.LogLevel)
		if err != nil {
			fmt.Fprintf(stderr, "Warning: %v (logging disabled)\n", err)
		} else {
			s.closers = append(s.closers, closer)
		}
		s.logger = logger
	default:
		s.logger = logging.NewConsole(stderr, cfg.LogLevel)
	}

	s.host, err = backendHost(cfg.BackendURL)
	if err != nil {
		s.Close()
		return nil, err
	}

	if deps != nil && deps.Client != nil {
		s.client = deps.Client
		return s, nil
	}

	client, err := api.NewClient(cfg.BackendURL,
		api.WithTimeout(time.Duration(cfg.RequestTimeout)*time.Second),
		api.WithLogger(s.logger),
		api.WithUserAgent("personachat/"+Version),
	)
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("failed to create client: %w", err)
	}
	s.client = client

	return s, nil
}

// controller builds the widget controller for this session
func (s *session) controller() *controller.Controller {
	return controller.New(s.client,
		controller.WithGreeting(s.cfg.Greeting),
		controller.WithLogger(s.logger),
		controller.WithPersona(s.persona),
	)
}

// Close releases the client and log file
func (s *session) Close() {
	if c, ok := s.client.(interface{ Close() }); ok {
		c.Close()
	}
	for _, c := range s.closers {
		c.Close()
	}
	s.closers = nil
}

// resolvePersona validates the --persona flag, falling back to the configured default
func resolvePersona(catalog *config.PersonaCatalog, flag, configured string) (string, error) {
	if flag != "" {
		if _, ok := catalog.Lookup(flag); !ok {
			return "", fmt.Errorf("unknown persona %q (available: %s)", flag, strings.Join(catalog.IDs(), ", "))
		}
		return flag, nil
	}
	return catalog.Initial(configured), nil
}

// backendHost returns the host part of the backend URL, for display
func backendHost(raw string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Host == "" {
		return "", fmt.Errorf("invalid backend URL %q", raw)
	}
	return u.Host, nil
}
