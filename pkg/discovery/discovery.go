package discovery

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"time"

	"github.com/google/uuid"
	"golang.org/x/net/ipv4"

	"github.com/roon-community/rooncore-go/pkg/log"
	"github.com/roon-community/rooncore-go/pkg/sood"
)

// Config holds discovery service configuration. The zero value uses the
// protocol's well-known port and multicast group.
type Config struct {
	// Port overrides the well-known discovery port. Probes are sent to
	// this port on every target; responses arrive on the service's own
	// ephemeral port.
	Port int

	// MulticastGroup overrides the well-known multicast group.
	MulticastGroup string

	// Resolver supplies broadcast targets; nil means an
	// InterfaceResolver over the local interfaces.
	Resolver TargetResolver

	// Logger receives operational log output; nil discards it.
	Logger *slog.Logger

	// Trace receives protocol trace events; nil discards them.
	Trace log.Logger
}

// Service performs SOOD discovery passes. A Service is stateless between
// passes and safe for concurrent use; each Discover call owns its own
// socket and session state.
type Service struct {
	port     int
	group    string
	resolver TargetResolver
	logger   *slog.Logger
	trace    log.Logger
}

// New creates a discovery service.
func New(cfg Config) *Service {
	s := &Service{
		port:     cfg.Port,
		group:    cfg.MulticastGroup,
		resolver: cfg.Resolver,
		logger:   cfg.Logger,
		trace:    cfg.Trace,
	}
	if s.port == 0 {
		s.port = Port
	}
	if s.group == "" {
		s.group = MulticastGroup
	}
	if s.logger == nil {
		s.logger = slog.New(slog.DiscardHandler)
	}
	if s.trace == nil {
		s.trace = log.NoopLogger{}
	}
	if s.resolver == nil {
		s.resolver = &InterfaceResolver{Logger: s.logger}
	}
	return s
}

// session is the state of one discovery pass: the socket, the dedup set
// and the accumulating result list in first-seen order. It lives from the
// start of Discover until the call returns.
type session struct {
	conn    *net.UDPConn
	seen    map[string]bool
	records []ServerRecord
}

// Discover sends one probe over multicast and one per broadcast target,
// then collects responses until timeout elapses (wall clock, counted from
// the start of the receive loop). Responses are deduplicated by unique id,
// first one wins. A non-positive timeout means DefaultTimeout.
//
// Discover blocks for up to the full timeout and is not cancellable
// mid-wait; callers needing to abandon a pass should run it in its own
// goroutine. All failures degrade to fewer or zero results - an empty
// list is a valid outcome, not an error.
func (s *Service) Discover(timeout time.Duration) []ServerRecord {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	attemptID := uuid.NewString()
	logger := s.logger.With("attempt_id", attemptID)

	logger.Info("starting discovery pass", "timeout", timeout)

	lc := net.ListenConfig{Control: udpSocketControl}
	pc, err := lc.ListenPacket(context.Background(), "udp4", ":0")
	if err != nil {
		logger.Error("cannot open discovery socket", "error", err)
		s.traceError(attemptID, err, "open socket")
		return nil
	}
	conn := pc.(*net.UDPConn)
	defer conn.Close()

	sess := &session{
		conn: conn,
		seen: make(map[string]bool),
	}

	s.sendProbes(sess, attemptID, logger)
	s.collect(sess, attemptID, time.Now().Add(timeout), logger)

	logger.Info("discovery pass complete", "servers", len(sess.records))
	return sess.records
}

// sendProbes emits the probe over multicast and to every broadcast
// target. Individual send failures are logged and skipped; they never
// abort the remaining sends.
func (s *Service) sendProbes(sess *session, attemptID string, logger *slog.Logger) {
	probe := sood.Probe()

	group := net.ParseIP(s.group)
	if group == nil {
		logger.Warn("invalid multicast group, skipping multicast probe", "group", s.group)
	} else {
		p := ipv4.NewPacketConn(sess.conn)
		if err := p.SetMulticastTTL(multicastTTL); err != nil {
			logger.Debug("cannot set multicast TTL", "error", err)
		}
		dst := &net.UDPAddr{IP: group, Port: s.port}
		if _, err := sess.conn.WriteToUDP(probe, dst); err != nil {
			logger.Warn("multicast probe failed", "group", dst.String(), "error", err)
		} else {
			s.traceDatagram(attemptID, log.DirectionOut, dst.String(), len(probe), "probe", false)
		}
	}

	for _, target := range s.resolver.ResolveBroadcastTargets() {
		dst := &net.UDPAddr{IP: net.ParseIP(target), Port: s.port}
		if dst.IP == nil {
			logger.Warn("skipping unparsable broadcast target", "target", target)
			continue
		}
		if _, err := sess.conn.WriteToUDP(probe, dst); err != nil {
			logger.Warn("broadcast probe failed", "target", dst.String(), "error", err)
			continue
		}
		s.traceDatagram(attemptID, log.DirectionOut, dst.String(), len(probe), "probe", false)
	}
}

// collect runs the receive loop until deadline. Malformed datagrams and
// duplicate ids are skipped without resetting the deadline; any other
// read error ends the pass early with whatever was gathered.
func (s *Service) collect(sess *session, attemptID string, deadline time.Time, logger *slog.Logger) {
	if err := sess.conn.SetReadDeadline(deadline); err != nil {
		logger.Error("cannot arm receive deadline", "error", err)
		s.traceError(attemptID, err, "set deadline")
		return
	}

	buf := make([]byte, maxDatagramSize)
	for {
		n, src, err := sess.conn.ReadFromUDP(buf)
		if err != nil {
			var netErr net.Error
			if errors.As(err, &netErr) && netErr.Timeout() {
				return
			}
			logger.Warn("receive error ends discovery pass", "error", err)
			s.traceError(attemptID, err, "receive loop")
			return
		}

		msg, err := sood.Decode(buf[:n])
		if err != nil {
			logger.Debug("discarding malformed datagram", "from", src.String(), "error", err)
			s.traceDatagram(attemptID, log.DirectionIn, src.String(), n, "malformed", false)
			continue
		}
		if !msg.IsResponse() {
			// Our own probe reflected back, or another client's query.
			continue
		}

		record, ok := recordFromResponse(msg.Props, src.IP.String())
		if !ok {
			logger.Debug("discarding response without unique_id", "from", src.String())
			s.traceDatagram(attemptID, log.DirectionIn, src.String(), n, "response", false)
			continue
		}
		if sess.seen[record.ID] {
			logger.Debug("discarding duplicate response", "core_id", record.ID, "from", src.String())
			s.traceDatagram(attemptID, log.DirectionIn, src.String(), n, "response", true)
			continue
		}

		sess.seen[record.ID] = true
		sess.records = append(sess.records, record)
		logger.Info("discovered server",
			"core_id", record.ID, "name", record.Name, "host", record.Host, "port", record.Port)
		s.traceDatagram(attemptID, log.DirectionIn, src.String(), n, "response", false)
	}
}

func (s *Service) traceDatagram(attemptID string, dir log.Direction, remote string, size int, kind string, dup bool) {
	s.trace.Log(log.Event{
		Timestamp:  time.Now(),
		AttemptID:  attemptID,
		Category:   log.CategoryDatagram,
		Direction:  dir,
		RemoteAddr: remote,
		Datagram:   &log.DatagramEvent{Size: size, Kind: kind, Duplicate: dup},
	})
}

func (s *Service) traceError(attemptID string, err error, context string) {
	s.trace.Log(log.Event{
		Timestamp: time.Now(),
		AttemptID: attemptID,
		Category:  log.CategoryError,
		Error:     &log.ErrorEventData{Message: err.Error(), Context: context},
	})
}
