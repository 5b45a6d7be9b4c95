package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetrics_RecordsCounters(t *testing.T) {
	m := New()

	m.EventReceived("offer")
	m.EventReceived("offer")
	m.SignalRelayed("offer", true)
	m.SignalRelayed("offer", false)
	m.SlotRequested("approved")

	if got := testutil.ToFloat64(m.events.WithLabelValues("offer")); got != 2 {
		t.Fatalf("events{offer}=%v, want 2", got)
	}
	if got := testutil.ToFloat64(m.signals.WithLabelValues("offer", "false")); got != 1 {
		t.Fatalf("signals{offer,false}=%v, want 1", got)
	}
	if got := testutil.ToFloat64(m.slotDecisions.WithLabelValues("approved")); got != 1 {
		t.Fatalf("slot decisions{approved}=%v, want 1", got)
	}
}

func TestMetrics_GaugesOverwrite(t *testing.T) {
	m := New()

	m.Gauges(3, 2, 1, 5)
	m.Gauges(2, 1, 0, 5)

	if got := testutil.ToFloat64(m.connections); got != 2 {
		t.Fatalf("connections=%v, want 2", got)
	}
	if got := testutil.ToFloat64(m.broadcasters); got != 0 {
		t.Fatalf("broadcasters=%v, want 0", got)
	}
	if got := testutil.ToFloat64(m.messages); got != 5 {
		t.Fatalf("messages=%v, want 5", got)
	}
}

func TestMetrics_HandlerExposition(t *testing.T) {
	m := New()
	m.Gauges(1, 1, 1, 0)
	m.SlotRequested("denied_full")

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rr := httptest.NewRecorder()

	m.Handler().ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status=%d, want %d", rr.Code, http.StatusOK)
	}

	body := rr.Body.String()
	for _, want := range []string{
		"# TYPE rtcrelay_connections gauge",
		"rtcrelay_active_broadcasters 1",
		`rtcrelay_broadcast_requests_total{decision="denied_full"} 1`,
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("missing %q in exposition:\n%s", want, body)
		}
	}
}

func TestMetrics_IndependentRegistries(t *testing.T) {
	a := New()
	b := New()

	a.EventReceived("end-broadcast")

	if got := testutil.ToFloat64(b.events.WithLabelValues("end-broadcast")); got != 0 {
		t.Fatalf("second registry saw %v events, want 0", got)
	}
}
