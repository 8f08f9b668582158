// Package probe implements the ICMP echo primitive: send one echo to
// one address, get a round-trip time or a failure within a bounded
// timeout. It picks the strongest socket mode available at startup:
// a raw ICMP socket when the process has the privilege for it, or an
// unprivileged datagram ICMP socket otherwise.
package probe

import (
	"context"
	"fmt"
	"net"
	"os"
	"sync/atomic"
	"time"

	"golang.org/x/net/icmp"
	"golang.org/x/net/ipv4"
)

const (
	rawNetwork   = "ip4:icmp"
	dgramNetwork = "udp4"

	maxPacketSize = 1500
)

var echoPayload = []byte("pingwatch")

// ICMPProber sends ICMP echo requests. Each call opens its own
// socket, so probes for different targets never interfere and a
// straggler cannot wedge a shared connection.
type ICMPProber struct {
	network string
	id      int
	seq     atomic.Uint32
}

// NewICMPProber detects the available socket mode and returns a
// prober using it. It fails only when neither a raw nor a datagram
// ICMP socket can be opened.
func NewICMPProber() (*ICMPProber, error) {
	network, err := detectNetwork()
	if err != nil {
		return nil, err
	}

	return &ICMPProber{
		network: network,
		id:      os.Getpid() & 0xffff,
	}, nil
}

// detectNetwork tries raw ICMP first, then the unprivileged datagram
// fallback.
func detectNetwork() (string, error) {
	if conn, err := icmp.ListenPacket(rawNetwork, "0.0.0.0"); err == nil {
		conn.Close()
		return rawNetwork, nil
	}

	conn, err := icmp.ListenPacket(dgramNetwork, "0.0.0.0")
	if err != nil {
		return "", fmt.Errorf("no usable ICMP socket (need root, CAP_NET_RAW, or ping group range): %w", err)
	}
	conn.Close()
	return dgramNetwork, nil
}

// Privileged reports whether the prober uses a raw socket
func (p *ICMPProber) Privileged() bool {
	return p.network == rawNetwork
}

// Probe sends one echo to the address and returns the round-trip
// time. All failure modes come back as an error; the caller maps
// timeouts and transport errors into result outcomes.
func (p *ICMPProber) Probe(ctx context.Context, address string) (time.Duration, error) {
	dst, err := net.ResolveIPAddr("ip4", address)
	if err != nil {
		return 0, fmt.Errorf("resolve %s: %w", address, err)
	}

	conn, err := icmp.ListenPacket(p.network, "0.0.0.0")
	if err != nil {
		return 0, fmt.Errorf("open icmp socket: %w", err)
	}
	defer conn.Close()

	seq := int(p.seq.Add(1) & 0xffff)

	msg := &icmp.Message{
		Type: ipv4.ICMPTypeEcho,
		Code: 0,
		Body: &icmp.Echo{
			ID:   p.id,
			Seq:  seq,
			Data: echoPayload,
		},
	}

	packet, err := msg.Marshal(nil)
	if err != nil {
		return 0, fmt.Errorf("marshal echo: %w", err)
	}

	deadline := time.Now().Add(5 * time.Second)
	if d, ok := ctx.Deadline(); ok {
		deadline = d
	}
	if err := conn.SetDeadline(deadline); err != nil {
		return 0, fmt.Errorf("set deadline: %w", err)
	}

	start := time.Now()

	if _, err := conn.WriteTo(packet, p.peerAddr(dst)); err != nil {
		return 0, fmt.Errorf("send echo: %w", err)
	}

	reply := make([]byte, maxPacketSize)
	for {
		n, peer, err := conn.ReadFrom(reply)
		if err != nil {
			return 0, err
		}

		if !peerMatches(peer, dst.IP) {
			continue
		}

		parsed, err := icmp.ParseMessage(ipv4.ICMPTypeEchoReply.Protocol(), reply[:n])
		if err != nil {
			continue
		}

		echo, ok := parsed.Body.(*icmp.Echo)
		if !ok || parsed.Type != ipv4.ICMPTypeEchoReply {
			continue
		}

		// The kernel rewrites the echo ID on datagram sockets, so the
		// ID is only checked in raw mode.
		if echo.Seq != seq {
			continue
		}
		if p.network == rawNetwork && echo.ID != p.id {
			continue
		}

		return time.Since(start), nil
	}
}

// peerAddr returns the destination in the address family the socket
// mode expects.
func (p *ICMPProber) peerAddr(dst *net.IPAddr) net.Addr {
	if p.network == dgramNetwork {
		return &net.UDPAddr{IP: dst.IP}
	}
	return dst
}

// peerMatches reports whether a reply came from the probed host
func peerMatches(peer net.Addr, want net.IP) bool {
	switch addr := peer.(type) {
	case *net.IPAddr:
		return addr.IP.Equal(want)
	case *net.UDPAddr:
		return addr.IP.Equal(want)
	default:
		return false
	}
}

// ValidateTargets resolves every address once so a malformed target
// list fails at startup instead of producing endless error rounds.
func ValidateTargets(addresses []string) error {
	for _, address := range addresses {
		if address == "" {
			return fmt.Errorf("target address must not be empty")
		}
		if _, err := net.ResolveIPAddr("ip4", address); err != nil {
			return fmt.Errorf("cannot resolve '%s' as an IPv4 address: %w", address, err)
		}
	}
	return nil
}
