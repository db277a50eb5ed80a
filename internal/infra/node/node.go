package node

import (
	"net"
	"sync"

	"github.com/google/uuid"
)

// Version is stamped at build time via -ldflags.
var Version = "development"

// Identity describes this server instance for logs and diagnostics. The ID
// is generated once per process; readings carry no node affinity, so it is
// never persisted.
type Identity struct {
	ID        string
	IPAddress string
	Version   string
}

var (
	identity     Identity
	identityOnce sync.Once
)

// Current returns the process-wide identity.
func Current() Identity {
	identityOnce.Do(func() {
		identity = Identity{
			ID:        uuid.NewString(),
			IPAddress: outboundIP(),
			Version:   Version,
		}
	})
	return identity
}

// outboundIP resolves the interface address used for egress traffic. The
// udp dial only picks a route, no packet is sent.
func outboundIP() string {
	conn, err := net.Dial("udp", "8.8.8.8:80")
	if err != nil {
		return "127.0.0.1"
	}
	defer conn.Close()

	return conn.LocalAddr().(*net.UDPAddr).IP.String()
}
