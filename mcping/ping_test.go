package mcping

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"io"
	"net"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type handshake struct {
	ProtocolVersion int32
	Host            string
	Port            uint16
	NextState       int32
}

// fakeServer accepts one connection, records the handshake and replies to the
// status request with the given JSON.
func fakeServer(t *testing.T, statusJSON string) (addr *net.TCPAddr, received chan handshake) {
	t.Helper()
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { listener.Close() })

	received = make(chan handshake, 1)
	go func() {
		conn, err := listener.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		reader := bufio.NewReader(conn)

		frame, err := readFrame(reader)
		if err != nil {
			return
		}
		payload := bytes.NewReader(frame)
		var hs handshake
		if id, _ := readVarInt(payload); id != 0 {
			return
		}
		hs.ProtocolVersion, _ = readVarInt(payload)
		hostLen, _ := readVarInt(payload)
		hostBytes := make([]byte, hostLen)
		if _, err := io.ReadFull(payload, hostBytes); err != nil {
			return
		}
		hs.Host = string(hostBytes)
		if err := binary.Read(payload, binary.BigEndian, &hs.Port); err != nil {
			return
		}
		hs.NextState, _ = readVarInt(payload)
		received <- hs

		// status request
		if _, err := readFrame(reader); err != nil {
			return
		}

		var response []byte
		response = appendVarInt(response, 0)
		response = appendVarInt(response, int32(len(statusJSON)))
		response = append(response, statusJSON...)
		out := appendVarInt(nil, int32(len(response)))
		out = append(out, response...)
		_, _ = conn.Write(out)
	}()

	return listener.Addr().(*net.TCPAddr), received
}

func readFrame(r *bufio.Reader) ([]byte, error) {
	length, err := readVarInt(r)
	if err != nil {
		return nil, err
	}
	frame := make([]byte, length)
	if _, err := io.ReadFull(r, frame); err != nil {
		return nil, err
	}
	return frame, nil
}

const testStatusJSON = `{
	"version": {"name": "1.20.1", "protocol": 763},
	"players": {"max": 20, "online": 3},
	"description": "§aA §lTest §rServer"
}`

func TestPingExplicitPort(t *testing.T) {
	addr, received := fakeServer(t, testStatusJSON)

	pinger := &Pinger{Timeout: 2 * time.Second}
	status, err := pinger.Ping("127.0.0.1:" + strconv.Itoa(addr.Port))
	require.NoError(t, err)
	assert.Equal(t, "1.20.1", status.Version.Name)
	assert.Equal(t, 3, status.Players.Online)
	assert.Equal(t, "A Test Server", status.Description.Text)

	hs := <-received
	assert.EqualValues(t, -1, hs.ProtocolVersion)
	assert.Equal(t, "127.0.0.1", hs.Host)
	assert.EqualValues(t, addr.Port, hs.Port)
	assert.EqualValues(t, 1, hs.NextState)
}

func TestPingHandshakeCarriesOriginalAddressAcrossSRV(t *testing.T) {
	addr, received := fakeServer(t, testStatusJSON)

	pinger := &Pinger{
		Timeout: 2 * time.Second,
		LookupSRV: func(service, proto, name string) (string, []*net.SRV, error) {
			return "", []*net.SRV{{Target: "127.0.0.1.", Port: uint16(addr.Port)}}, nil
		},
	}
	_, err := pinger.Ping("mc.example.com")
	require.NoError(t, err)

	// the wire handshake must name the typed address, not the SRV target
	hs := <-received
	assert.Equal(t, "mc.example.com", hs.Host)
	assert.EqualValues(t, DefaultPort, hs.Port)
}

func TestPingDoesNotMutateSharedDialer(t *testing.T) {
	addr, received := fakeServer(t, testStatusJSON)

	dialer := &net.Dialer{}
	pinger := &Pinger{Timeout: 2 * time.Second, Dialer: dialer}
	_, err := pinger.Ping("127.0.0.1:" + strconv.Itoa(addr.Port))
	require.NoError(t, err)
	<-received

	assert.True(t, dialer.Deadline.IsZero(), "the caller's dialer must not be written to")
}

func TestPingConnectionRefused(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := listener.Addr().(*net.TCPAddr).Port
	require.NoError(t, listener.Close())

	pinger := &Pinger{Timeout: 1 * time.Second}
	status, err := pinger.Ping("127.0.0.1:" + strconv.Itoa(port))
	assert.Nil(t, status)
	assert.Error(t, err)
}

func TestPingRejectsWrongPacketID(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { listener.Close() })

	go func() {
		conn, err := listener.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		reader := bufio.NewReader(conn)
		_, _ = readFrame(reader)
		_, _ = readFrame(reader)
		// respond with packet id 9
		response := appendVarInt(nil, 9)
		out := appendVarInt(nil, int32(len(response)))
		out = append(out, response...)
		_, _ = conn.Write(out)
	}()

	pinger := &Pinger{Timeout: 2 * time.Second}
	port := listener.Addr().(*net.TCPAddr).Port
	_, err = pinger.Ping("127.0.0.1:" + strconv.Itoa(port))
	assert.Error(t, err)
}

func TestStatusJSONDeclaredLengthMismatch(t *testing.T) {
	payload := appendVarInt(nil, 0)
	payload = appendVarInt(payload, 50)
	payload = append(payload, `{"description":"hi"}`...)
	frame := appendVarInt(nil, int32(len(payload)))
	frame = append(frame, payload...)

	_, err := readStatus(bufio.NewReader(bytes.NewReader(frame)))
	assert.Error(t, err)
}
