// Package walletserver assembles the light-wallet server's HTTP process:
// account store, oracle client, session registry, router, and the
// http.Server that serves them, matching the teacher's plain net/http
// binary shape.
package walletserver

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"synnergy-network/internal/accountstore"
	"synnergy-network/internal/handlers"
	"synnergy-network/internal/metrics"
	"synnergy-network/internal/oracle"
	"synnergy-network/pkg/config"
	"synnergy-network/walletserver/controllers"
	"synnergy-network/walletserver/routes"
	"synnergy-network/walletserver/services"
	"synnergy-network/walletserver/session"
)

// unimplementedEndpoints lists wire-contract paths with no handler, per
// spec §6 ("entry with null handler, e.g. /get_txt_records" -> 501).
var unimplementedEndpoints = []string{"/get_txt_records"}

// maxBlockNumber is the is_locked disambiguation threshold between a
// block height and a unix timestamp (spec §8's boundary behaviour),
// matching CryptoNote's historical constant.
const maxBlockNumber = 500_000_000

// coinbaseUnlockWindow is the number of blocks a coinbase output must age
// before it unlocks.
const coinbaseUnlockWindow = 60

// sessionTTL bounds how long a logged_in session survives between the
// authenticating call and a subsequent get_random_outs/submit_raw_tx.
const sessionTTL = 10 * time.Minute

// Server owns the process's long-lived resources.
type Server struct {
	httpServer *http.Server
	store      *accountstore.Store
	sessions   *session.Store
	log        *logrus.Logger
	stopGC     chan struct{}
}

// New builds a Server from cfg. Callers own calling Run and, eventually,
// Close.
func New(cfg *config.Config) (*Server, error) {
	log := logrus.StandardLogger()
	if lvl, err := logrus.ParseLevel(cfg.Logging.Level); err == nil {
		log.SetLevel(lvl)
	}

	store, err := accountstore.Open(cfg.Storage.DBPath, 5*time.Second, cfg.Storage.BlockBufferSize, cfg.Storage.RequestQueueMax)
	if err != nil {
		return nil, fmt.Errorf("open account store: %w", err)
	}

	deps := &handlers.Deps{
		Store:                store,
		Oracle:                oracle.New(cfg.Oracle.BaseURL, cfg.Oracle.SendTimeout, cfg.Oracle.ReceiveTimeout, log),
		Log:                  log,
		CoinbaseUnlockWindow: coinbaseUnlockWindow,
		MaxBlockNumber:       maxBlockNumber,
	}
	sessions := session.New(sessionTTL)
	svc := services.New(deps, sessions)
	ctrl := controllers.NewWalletController(svc)
	reg := metrics.New()

	r := mux.NewRouter()
	routes.Register(r, ctrl, unimplementedEndpoints, cfg.Network.Workers, reg)

	addr, err := bindAddr(cfg.Network.BindAddr)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	return &Server{
		httpServer: &http.Server{Addr: addr, Handler: r},
		store:      store,
		sessions:   sessions,
		log:        log,
		stopGC:     make(chan struct{}),
	}, nil
}

// Run serves until the process receives a shutdown signal (ctx done) or
// ListenAndServe fails.
func (s *Server) Run(ctx context.Context) error {
	go s.sessions.GC(sessionTTL, s.stopGC)

	errCh := make(chan error, 1)
	go func() {
		s.log.Infof("light-wallet server listening on %s", s.httpServer.Addr)
		errCh <- s.httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.httpServer.Shutdown(shutdownCtx)
	}
}

// Close stops the session GC loop and releases the account store. Call
// after Run returns.
func (s *Server) Close() error {
	close(s.stopGC)
	return s.store.Close()
}

// bindAddr converts spec §6's `http://<host[:port]>` CLI surface into a
// net/http listen address, defaulting the port to 8080 and rejecting any
// non-http scheme.
func bindAddr(raw string) (string, error) {
	const scheme = "http://"
	if !strings.HasPrefix(raw, scheme) {
		return "", fmt.Errorf("InvalidUriScheme: bind address %q must start with http://", raw)
	}
	hostport := strings.TrimPrefix(raw, scheme)
	if hostport == "" {
		return ":8080", nil
	}
	if strings.Contains(hostport, "]") {
		// IPv6 literal, e.g. "[::1]" or "[::1]:9090".
		if strings.HasSuffix(hostport, "]") {
			return hostport + ":8080", nil
		}
		return hostport, nil
	}
	if _, _, err := splitHostPort(hostport); err == nil {
		return hostport, nil
	}
	return hostport + ":8080", nil
}

func splitHostPort(hostport string) (host, port string, err error) {
	idx := strings.LastIndex(hostport, ":")
	if idx < 0 {
		return "", "", fmt.Errorf("no port")
	}
	host = hostport[:idx]
	port = hostport[idx+1:]
	if _, perr := strconv.Atoi(port); perr != nil {
		return "", "", perr
	}
	return host, port, nil
}
