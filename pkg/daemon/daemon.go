package daemon

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/snapfriend/snapfriend/pkg/config"
	"github.com/snapfriend/snapfriend/pkg/ledger"
	"github.com/snapfriend/snapfriend/pkg/log"
	"github.com/snapfriend/snapfriend/pkg/lvm"
	"github.com/snapfriend/snapfriend/pkg/matcher"
	"github.com/snapfriend/snapfriend/pkg/metrics"
	"github.com/snapfriend/snapfriend/pkg/mounter"
	"github.com/snapfriend/snapfriend/pkg/protocol"
)

// Daemon owns the listening socket and drives one connection at a time.
type Daemon struct {
	cfg          *config.Config
	catalog      lvm.CatalogReader
	orchestrator *mounter.Orchestrator
	ledger       *ledger.Ledger // nil when no data_dir is configured

	defaultVolume lvm.Volume
	listener      *net.UnixListener
	logger        zerolog.Logger
}

// New creates a daemon. The ledger may be nil.
func New(cfg *config.Config, catalog lvm.CatalogReader, orchestrator *mounter.Orchestrator, l *ledger.Ledger) *Daemon {
	return &Daemon{
		cfg:          cfg,
		catalog:      catalog,
		orchestrator: orchestrator,
		ledger:       l,
		logger:       log.WithComponent("daemon"),
	}
}

// Start resolves the default volume and binds the listening socket. A
// missing default volume or an unreadable catalog is a startup failure; the
// process must not begin serving without a fallback source.
func (d *Daemon) Start(ctx context.Context) error {
	volumes, err := d.catalog.Catalog(ctx)
	if err != nil {
		return fmt.Errorf("startup catalog read failed: %w", err)
	}

	def, ok := lvm.FindByTag(volumes, d.cfg.DefaultTag)
	if !ok {
		return fmt.Errorf("could not find default volume (tagged `%s`)", d.cfg.DefaultTag)
	}
	d.defaultVolume = def
	d.logger.Info().
		Str("group", def.Group).
		Str("name", def.Name).
		Msg("default volume resolved")

	listener, err := listenUnix(d.cfg.SocketPath)
	if err != nil {
		return err
	}
	d.listener = listener
	d.logger.Info().Str("socket", d.cfg.SocketPath).Msg("listening")

	return nil
}

// Serve accepts and handles connections one at a time until Stop closes the
// listener. No ordering race between two clients is possible: the second
// cannot connect until the first has been fully served.
func (d *Daemon) Serve(ctx context.Context) error {
	for {
		conn, err := d.listener.AcceptUnix()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			return fmt.Errorf("accept failed: %w", err)
		}

		metrics.ConnectionsTotal.Inc()
		d.handleConn(ctx, conn)
	}
}

// Stop closes the listener; an in-flight Accept returns immediately.
func (d *Daemon) Stop() {
	if d.listener != nil {
		d.listener.Close()
	}
}

// Close releases daemon resources after Serve has returned.
func (d *Daemon) Close() error {
	if d.ledger != nil {
		return d.ledger.Close()
	}
	return nil
}

// handleConn drives the protocol session for one connection to exhaustion.
// Connection-level failures end the connection only; the daemon lives on.
func (d *Daemon) handleConn(ctx context.Context, conn *net.UnixConn) {
	defer conn.Close()

	connID := uuid.New().String()

	pid, err := peerPID(conn)
	if err != nil {
		d.logger.Warn().Err(err).Str("conn_id", connID).Msg("could not identify peer")
		metrics.ConnectionErrors.WithLabelValues("peercred").Inc()
		return
	}

	logger := d.logger.With().Str("conn_id", connID).Int("peer_pid", pid).Logger()
	logger.Info().Msg("connected")

	session := protocol.NewSession(&deadlineConn{Conn: conn, timeout: d.cfg.Timeout})

	for {
		req, err := session.Next()
		if err != nil {
			d.logConnEnd(logger, err)
			return
		}

		if err := d.handleRequest(ctx, session, pid, req, logger); err != nil {
			var catErr *lvm.CatalogError
			if errors.As(err, &catErr) {
				// catalog unavailable: abort this connection, keep serving
				logger.Error().Err(err).Msg("aborting connection")
				metrics.ConnectionErrors.WithLabelValues("catalog").Inc()
			} else {
				// the success reply could not be written back
				d.logConnEnd(logger, err)
			}
			return
		}
	}
}

// handleRequest serves one mount request and writes exactly one response
// line: "<group> <name>" of the chosen source on success, or the failing
// step's diagnostic text. It returns a *lvm.CatalogError when the catalog
// cannot be read, or the transport error when the reply cannot be written;
// either aborts the connection.
func (d *Daemon) handleRequest(ctx context.Context, session *protocol.Session, pid int, req *protocol.Request, logger zerolog.Logger) error {
	start := time.Now()
	defer func() {
		metrics.RequestDuration.Observe(time.Since(start).Seconds())
	}()

	logger.Info().
		Str("destination", req.Destination).
		Interface("find", req.FindTagGroups).
		Strs("add", req.AddTags).
		Msg("mount requested")

	// The catalog can change between requests; read it fresh every time.
	volumes, err := d.catalog.Catalog(ctx)
	if err != nil {
		metrics.CatalogReads.WithLabelValues("failure").Inc()
		return err
	}
	metrics.CatalogReads.WithLabelValues("success").Inc()

	source, matched := matcher.Resolve(req.FindTagGroups, volumes, d.cfg.TagPrefix)
	if matched {
		logger.Info().Str("group", source.Group).Str("name", source.Name).Msg("matched")
	} else {
		source = d.defaultVolume
		metrics.DefaultFallbacks.Inc()
		logger.Info().Msg("no match, using default")
	}

	name, execErr := d.orchestrator.Execute(ctx, source, req.AddTags, req.Destination, pid)
	d.recordAttempt(name, source, req, pid, execErr)

	if execErr != nil {
		metrics.RequestsTotal.WithLabelValues("failure").Inc()
		logger.Error().Err(execErr).Msg("mount failed")
		_ = session.Reply(execErr.Error())
		return nil
	}

	metrics.RequestsTotal.WithLabelValues("success").Inc()
	metrics.SnapshotsCreated.Inc()
	return session.Reply(fmt.Sprintf("%s %s", source.Group, source.Name))
}

// recordAttempt writes the ledger entry for one snapshot attempt.
func (d *Daemon) recordAttempt(name string, source lvm.Volume, req *protocol.Request, pid int, execErr error) {
	if d.ledger == nil {
		return
	}

	entry := &ledger.Entry{
		Name:        name,
		SourceGroup: source.Group,
		SourceName:  source.Name,
		Tags:        lvm.PrefixTags(d.cfg.TagPrefix, req.AddTags),
		Destination: req.Destination,
		PeerPID:     pid,
	}
	if execErr != nil {
		entry.Error = execErr.Error()
	}

	if err := d.ledger.Record(entry); err != nil {
		d.logger.Warn().Err(err).Msg("failed to record ledger entry")
	}
}

// logConnEnd classifies why a session ended.
func (d *Daemon) logConnEnd(logger zerolog.Logger, err error) {
	var netErr net.Error
	var unexpected *protocol.UnexpectedInputError

	switch {
	case err == io.EOF:
		logger.Info().Msg("disconnected")
	case errors.As(err, &unexpected):
		metrics.ConnectionErrors.WithLabelValues("protocol").Inc()
		logger.Warn().Str("line", unexpected.Line).Msg("unexpected input, closing connection")
	case errors.As(err, &netErr) && netErr.Timeout():
		metrics.ConnectionErrors.WithLabelValues("timeout").Inc()
		logger.Warn().Msg("peer timed out")
	default:
		metrics.ConnectionErrors.WithLabelValues("transport").Inc()
		logger.Warn().Err(err).Msg("peer connection error")
	}
}
