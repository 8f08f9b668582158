package probe

import (
	"context"
	"testing"
	"time"
)

func TestValidateTargets(t *testing.T) {
	if err := ValidateTargets([]string{"1.1.1.1", "8.8.8.8", "127.0.0.1"}); err != nil {
		t.Errorf("literal IPs should validate: %v", err)
	}

	if err := ValidateTargets(nil); err != nil {
		t.Errorf("empty list should validate: %v", err)
	}

	if err := ValidateTargets([]string{""}); err == nil {
		t.Error("expected error for an empty address")
	}

	if err := ValidateTargets([]string{"definitely-not-a-real-host.invalid"}); err == nil {
		t.Error("expected error for an unresolvable hostname")
	}
}

func newTestProber(t *testing.T) *ICMPProber {
	t.Helper()
	prober, err := NewICMPProber()
	if err != nil {
		t.Skipf("no ICMP socket available: %v", err)
	}
	return prober
}

func TestProbeLoopback(t *testing.T) {
	prober := newTestProber(t)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	latency, err := prober.Probe(ctx, "127.0.0.1")
	if err != nil {
		t.Fatalf("Probe(127.0.0.1): %v", err)
	}
	if latency <= 0 {
		t.Errorf("latency = %v, want > 0", latency)
	}
}

func TestProbeTimeoutOnBlackhole(t *testing.T) {
	prober := newTestProber(t)

	// 192.0.2.0/24 (TEST-NET-1) never answers
	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := prober.Probe(ctx, "192.0.2.1")
	if err == nil {
		t.Fatal("expected an error probing a blackhole address")
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("probe took %v, deadline not honored", elapsed)
	}
}

func TestProbeUnresolvableHost(t *testing.T) {
	prober := newTestProber(t)

	_, err := prober.Probe(context.Background(), "definitely-not-a-real-host.invalid")
	if err == nil {
		t.Fatal("expected a resolve error")
	}
}
