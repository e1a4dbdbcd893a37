package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestResult(t *testing.T) {
	tests := []struct {
		ok, changed bool
		want        string
	}{
		{true, true, "ok"},
		{true, false, "noop"},
		{false, false, "rejected"},
	}
	for _, tt := range tests {
		if got := Result(tt.ok, tt.changed); got != tt.want {
			t.Errorf("Result(%v, %v): got %q, want %q", tt.ok, tt.changed, got, tt.want)
		}
	}
}

func TestOperationsCounter(t *testing.T) {
	c := Operations.WithLabelValues("unlock", "ok")
	before := testutil.ToFloat64(c)
	c.Inc()
	if got := testutil.ToFloat64(c); got != before+1 {
		t.Errorf("got %v, want %v", got, before+1)
	}
}
