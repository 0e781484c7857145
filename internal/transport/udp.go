package transport

/*------------------------------------------------------------------
 *
 * Purpose:	The "engine transport" external collaborator spec.md
 *		section 6 describes: an object with a method that accepts
 *		a bytes OSC datagram and dispatches it to a running
 *		scsynth server.
 *
 *------------------------------------------------------------------*/

import (
	"fmt"
	"net"
)

// Conn is a UDP socket bound to one scsynth server address.
type Conn struct {
	addr *net.UDPAddr
	sock *net.UDPConn
}

// Dial opens a UDP socket addressed to host:port. scsynth does not
// require a connection handshake; UDP "dial" here just fixes the
// destination so subsequent Send calls don't re-resolve the address.
func Dial(host string, port int) (*Conn, error) {
	addr, err := net.ResolveUDPAddr("udp", fmt.Sprintf("%s:%d", host, port))
	if err != nil {
		return nil, fmt.Errorf("transport: resolve %s:%d: %w", host, port, err)
	}
	sock, err := net.DialUDP("udp", nil, addr)
	if err != nil {
		return nil, fmt.Errorf("transport: dial %s:%d: %w", host, port, err)
	}
	return &Conn{addr: addr, sock: sock}, nil
}

// Send dispatches one OSC datagram to the server.
func (c *Conn) Send(datagram []byte) error {
	_, err := c.sock.Write(datagram)
	if err != nil {
		return fmt.Errorf("transport: send to %s: %w", c.addr, err)
	}
	return nil
}

// Close releases the underlying socket.
func (c *Conn) Close() error {
	return c.sock.Close()
}
