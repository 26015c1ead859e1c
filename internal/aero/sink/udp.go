package sink

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
)

// UDP sends each record as a JSON datagram to a fixed address, reproducing
// module_aero_parser.cpp's udp_clients loop (one net.UDPClient per
// configured sink, each record serialized and sent independently).
type UDP struct {
	conn net.Conn
}

// NewUDP dials a UDP "connection" (a fixed peer address) to addr:port.
func NewUDP(addr string, port int) (*UDP, error) {
	conn, err := net.Dial("udp", fmt.Sprintf("%s:%d", addr, port))
	if err != nil {
		return nil, fmt.Errorf("aero: dialing udp sink %s:%d: %w", addr, port, err)
	}
	return &UDP{conn: conn}, nil
}

// Send marshals record to JSON and writes it as a single datagram.
func (u *UDP) Send(ctx context.Context, record map[string]any) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("aero: marshaling record for udp sink: %w", err)
	}
	_, err = u.conn.Write(data)
	return err
}

// Close releases the underlying socket.
func (u *UDP) Close() error { return u.conn.Close() }
