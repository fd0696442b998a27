package server

import (
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"docstash/internal/blobstore"
	"docstash/internal/store"
	"docstash/internal/token"
)

const (
	allowRemoteEnvKey = "DOCSTASH_ALLOW_REMOTE"
	readHeaderTimeout = 5 * time.Second
	readTimeout       = 30 * time.Second
	writeTimeout      = 60 * time.Second
	idleTimeout       = 60 * time.Second

	defaultMaxUploadBytes     int64 = 100 * 1024 * 1024
	defaultMultipartMaxMemory int64 = 8 * 1024 * 1024
)

// Options configures upload limits of one Server.
type Options struct {
	MaxUploadBytes     int64
	MultipartMaxMemory int64
}

// Server wraps HTTP handlers for the docstash API.
type Server struct {
	addr      string
	users     *UserService
	documents *DocumentService
	notes     *NoteService
	logger    *slog.Logger

	maxUploadBytes     int64
	multipartMaxMemory int64
}

// New creates a new server instance over one store, blob store, and token
// issuer. All collaborators are passed in explicitly; there is no hidden
// global state.
func New(addr string, st *store.Store, blobs blobstore.BlobStore, issuer *token.Issuer, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	return &Server{
		addr:               addr,
		users:              NewUserService(st, issuer),
		documents:          NewDocumentService(st, blobs),
		notes:              NewNoteService(st, st),
		logger:             logger,
		maxUploadBytes:     defaultMaxUploadBytes,
		multipartMaxMemory: defaultMultipartMaxMemory,
	}
}

// Configure overrides upload limits.
func (s *Server) Configure(opts Options) {
	if s == nil {
		return
	}
	if opts.MaxUploadBytes > 0 {
		s.maxUploadBytes = opts.MaxUploadBytes
	}
	if opts.MultipartMaxMemory > 0 {
		s.multipartMaxMemory = opts.MultipartMaxMemory
	}
}

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe() error {
	s.log().Info("starting server", "addr", s.addr)
	server := &http.Server{
		Addr:              s.addr,
		Handler:           s.routes(),
		ReadHeaderTimeout: readHeaderTimeout,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
	}

	return server.ListenAndServe()
}

// ListenAddr converts a base API URL into a listen address.
func ListenAddr(apiURL string) (string, error) {
	if apiURL == "" {
		return "", fmt.Errorf("api url is required")
	}
	if u, err := url.Parse(apiURL); err == nil && u.Host != "" {
		host := u.Hostname()
		if !isAllowedListenHost(host) {
			return "", fmt.Errorf("remote listen host %q requires %s=true", host, allowRemoteEnvKey)
		}
		return u.Host, nil
	}

	host, _, err := net.SplitHostPort(apiURL)
	if err == nil && !isAllowedListenHost(host) {
		return "", fmt.Errorf("remote listen host %q requires %s=true", host, allowRemoteEnvKey)
	}

	return apiURL, nil
}

func isAllowedListenHost(host string) bool {
	if host == "" {
		return true
	}
	if strings.EqualFold(strings.TrimSpace(os.Getenv(allowRemoteEnvKey)), "true") {
		return true
	}
	if host == "localhost" {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}

func (s *Server) log() *slog.Logger {
	if s != nil && s.logger != nil {
		return s.logger
	}
	return slog.Default()
}
