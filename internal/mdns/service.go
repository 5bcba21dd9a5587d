// Package mdns advertises the widget on the local network through the
// system's Avahi daemon, so browsers and Zeroconf tools can find it.
package mdns

import (
	"fmt"
	"os"
	"sync"

	"github.com/godbus/dbus/v5"
	"github.com/holoplot/go-avahi"

	"github.com/listenupapp/swatches/internal/logger"
)

const (
	// ServiceType is the DNS-SD service type browsers understand.
	ServiceType = "_http._tcp"

	// APIVersion is the API version advertised in TXT records.
	APIVersion = "v1"
)

// Advertisement describes what to publish.
type Advertisement struct {
	// Name is the human-readable instance name. The hostname is appended.
	Name    string
	Port    int
	Version string
}

// TXT returns the TXT record entries for a.
func (a Advertisement) TXT() [][]byte {
	return [][]byte{
		[]byte("path=/"),
		[]byte("api=" + APIVersion),
		[]byte("version=" + a.Version),
	}
}

// instanceName is the DNS-SD instance label, e.g. "Swatches on studio".
func (a Advertisement) instanceName() string {
	host, err := os.Hostname()
	if err != nil || host == "" {
		return a.Name
	}
	return fmt.Sprintf("%s on %s", a.Name, host)
}

// publisher registers one service record until closed.
type publisher interface {
	Publish(name string, port uint16, txt [][]byte) error
	Close()
}

// Service manages the advertisement. Failures are reported to the caller and
// are never fatal for the server; multicast is often missing in containers.
type Service struct {
	newPublisher func() (publisher, error)
	pub          publisher
	logger       *logger.Logger
	mu           sync.Mutex
}

// NewService creates an mDNS service backed by Avahi over the system D-Bus.
func NewService(log *logger.Logger) *Service {
	return &Service{
		newPublisher: newAvahiPublisher,
		logger:       log.WithComponent("mdns"),
	}
}

// Start begins advertising. It should be called after the HTTP server is
// listening. A running advertisement is replaced.
func (s *Service) Start(ad Advertisement) error {
	if ad.Port <= 0 || ad.Port > 65535 {
		return fmt.Errorf("invalid port %d", ad.Port)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pub != nil {
		s.pub.Close()
		s.pub = nil
	}

	pub, err := s.newPublisher()
	if err != nil {
		return fmt.Errorf("connect to avahi: %w", err)
	}

	name := ad.instanceName()
	if err := pub.Publish(name, uint16(ad.Port), ad.TXT()); err != nil {
		pub.Close()
		return fmt.Errorf("publish mDNS service: %w", err)
	}
	s.pub = pub

	s.logger.Info("mDNS advertisement started",
		"service", ServiceType,
		"name", name,
		"port", ad.Port)
	return nil
}

// Running reports whether an advertisement is active.
func (s *Service) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pub != nil
}

// Stop withdraws the advertisement. Safe to call multiple times or if not
// started.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pub != nil {
		s.pub.Close()
		s.pub = nil
		s.logger.Info("mDNS advertisement stopped")
	}
}

// avahiPublisher publishes through an Avahi entry group.
type avahiPublisher struct {
	conn   *dbus.Conn
	server *avahi.Server
	group  *avahi.EntryGroup
}

func newAvahiPublisher() (publisher, error) {
	conn, err := dbus.SystemBus()
	if err != nil {
		return nil, fmt.Errorf("system bus: %w", err)
	}

	server, err := avahi.ServerNew(conn)
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("avahi server: %w", err)
	}

	group, err := server.EntryGroupNew()
	if err != nil {
		server.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("avahi entry group: %w", err)
	}

	return &avahiPublisher{conn: conn, server: server, group: group}, nil
}

func (p *avahiPublisher) Publish(name string, port uint16, txt [][]byte) error {
	host, err := p.server.GetHostNameFqdn()
	if err != nil {
		return fmt.Errorf("host name: %w", err)
	}

	err = p.group.AddService(avahi.InterfaceUnspec, avahi.ProtoUnspec, 0,
		name, ServiceType, "local", host, port, txt)
	if err != nil {
		return err
	}
	return p.group.Commit()
}

func (p *avahiPublisher) Close() {
	_ = p.group.Reset()
	p.server.EntryGroupFree(p.group)
	p.server.Close()
	_ = p.conn.Close()
}
