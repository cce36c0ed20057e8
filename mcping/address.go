package mcping

import (
	"fmt"
	"net"
	"strconv"
	"strings"
)

// DefaultPort is the default Minecraft server port.
const DefaultPort = 25565

// ServerAddress separates where we connect from what the user typed. The
// handshake must carry the original host/port even when an SRV record redirects
// the connection elsewhere.
type ServerAddress struct {
	// Host and Port are the user's literal input, sent in the handshake
	Host string
	Port uint16
	// ConnectHost and ConnectPort are where the TCP connection goes
	ConnectHost string
	ConnectPort uint16
}

func (a ServerAddress) connectAddr() string {
	return net.JoinHostPort(a.ConnectHost, strconv.Itoa(int(a.ConnectPort)))
}

type srvLookupFunc func(service, proto, name string) (cname string, addrs []*net.SRV, err error)

// resolveAddress parses "host" or "host:port" input. An explicit port pins
// both addresses and skips SRV resolution entirely; otherwise a
// _minecraft._tcp SRV record redirects the connect address while the original
// stays at the input host and port 25565. SRV lookup failure is not an error,
// just the absence of a redirect.
func resolveAddress(input string, lookup srvLookupFunc) (ServerAddress, error) {
	addr := ServerAddress{
		Host:        input,
		Port:        DefaultPort,
		ConnectHost: input,
		ConnectPort: DefaultPort,
	}

	if host, portStr, err := net.SplitHostPort(input); err == nil {
		port, err := strconv.ParseUint(portStr, 10, 16)
		if err != nil {
			return ServerAddress{}, fmt.Errorf("invalid port %q: %w", portStr, err)
		}
		addr.Host = host
		addr.Port = uint16(port)
		addr.ConnectHost = host
		addr.ConnectPort = uint16(port)
		return addr, nil
	}

	if _, records, err := lookup("minecraft", "tcp", input); err == nil && len(records) > 0 {
		addr.ConnectHost = strings.TrimSuffix(records[0].Target, ".")
		addr.ConnectPort = records[0].Port
	}
	return addr, nil
}
