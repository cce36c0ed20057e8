package mcping

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"time"
)

const (
	// protocol version -1 signals a plain status query
	statusProtocolVersion = -1
	stateStatus           = 1
	statusPacketID        = 0

	DefaultTimeout = 5 * time.Second
)

// Pinger performs server list pings. The zero value is usable; Timeout,
// Dialer and LookupSRV exist so tests can substitute the network.
type Pinger struct {
	Timeout   time.Duration
	Dialer    *net.Dialer
	LookupSRV srvLookupFunc
}

// Ping queries a server given as "host" or "host:port" and returns its decoded
// status. Connection errors, timeouts and protocol violations all collapse
// into a single error; callers cannot distinguish a refused connection from a
// slow one.
func (p *Pinger) Ping(input string) (*ServerStatus, error) {
	status, err := p.ping(input)
	if err != nil {
		return nil, fmt.Errorf("ping %s failed: %w", input, err)
	}
	return status, nil
}

func (p *Pinger) ping(input string) (*ServerStatus, error) {
	lookup := p.LookupSRV
	if lookup == nil {
		lookup = net.LookupSRV
	}
	addr, err := resolveAddress(input, lookup)
	if err != nil {
		return nil, err
	}

	timeout := p.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	deadline := time.Now().Add(timeout)

	// copy so concurrent pings sharing one Pinger don't clobber each
	// other's deadlines
	var dialer net.Dialer
	if p.Dialer != nil {
		dialer = *p.Dialer
	}
	dialer.Deadline = deadline

	conn, err := dialer.Dial("tcp", addr.connectAddr())
	if err != nil {
		return nil, err
	}
	defer conn.Close()
	// one wall-clock deadline covers the whole exchange; it is the single
	// settlement point between "response arrived" and "timed out"
	if err := conn.SetDeadline(deadline); err != nil {
		return nil, err
	}

	if _, err := conn.Write(handshakeFrame(addr)); err != nil {
		return nil, err
	}
	if _, err := conn.Write(appendVarInt(appendVarInt(nil, 1), statusPacketID)); err != nil {
		return nil, err
	}

	return readStatus(bufio.NewReader(conn))
}

// handshakeFrame builds the length-prefixed handshake packet. It carries the
// original host and port, not the SRV-resolved connect address.
func handshakeFrame(addr ServerAddress) []byte {
	var payload []byte
	payload = appendVarInt(payload, statusPacketID)
	payload = appendVarInt(payload, statusProtocolVersion)
	payload = appendVarInt(payload, int32(len(addr.Host)))
	payload = append(payload, addr.Host...)
	payload = binary.BigEndian.AppendUint16(payload, addr.Port)
	payload = appendVarInt(payload, stateStatus)

	frame := appendVarInt(nil, int32(len(payload)))
	return append(frame, payload...)
}

// readStatus reads one length-prefixed packet and decodes the status JSON.
// Reads block until the full frame has arrived or the connection deadline
// fires, so a partial frame is simply waited out.
func readStatus(r *bufio.Reader) (*ServerStatus, error) {
	frameLen, err := readVarInt(r)
	if err != nil {
		return nil, err
	}
	if frameLen <= 0 {
		return nil, fmt.Errorf("invalid packet length %d", frameLen)
	}
	frame := make([]byte, frameLen)
	if _, err := io.ReadFull(r, frame); err != nil {
		return nil, err
	}

	payload := bytes.NewReader(frame)
	packetID, err := readVarInt(payload)
	if err != nil {
		return nil, err
	}
	if packetID != statusPacketID {
		return nil, fmt.Errorf("unexpected packet id %d", packetID)
	}
	jsonLen, err := readVarInt(payload)
	if err != nil {
		return nil, err
	}
	if int(jsonLen) != payload.Len() {
		return nil, fmt.Errorf("status payload length mismatch: declared %d, have %d", jsonLen, payload.Len())
	}

	var status ServerStatus
	if err := json.NewDecoder(payload).Decode(&status); err != nil {
		return nil, err
	}
	return &status, nil
}
