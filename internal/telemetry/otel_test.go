package telemetry

import (
	"context"
	"testing"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

func TestSamplerFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		ratio    float64
		expected string
	}{
		{name: "zero means sample everything", ratio: 0, expected: sdktrace.AlwaysSample().Description()},
		{name: "full ratio", ratio: 1, expected: sdktrace.AlwaysSample().Description()},
		{name: "above one clamps", ratio: 2.5, expected: sdktrace.AlwaysSample().Description()},
		{name: "negative clamps", ratio: -1, expected: sdktrace.AlwaysSample().Description()},
		{
			name:     "partial ratio is parent-based",
			ratio:    0.25,
			expected: sdktrace.ParentBased(sdktrace.TraceIDRatioBased(0.25)).Description(),
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := samplerFor(tt.ratio).Description(); got != tt.expected {
				t.Errorf("samplerFor(%v) = %q, expected %q", tt.ratio, got, tt.expected)
			}
		})
	}
}

func TestInitTracer_RequiresEndpoint(t *testing.T) {
	t.Parallel()

	if _, err := InitTracer(context.Background(), Config{ServiceName: "test"}); err == nil {
		t.Error("expected error for missing endpoint")
	}
}

func TestShutdown_NilProvider(t *testing.T) {
	t.Parallel()

	if err := Shutdown(context.Background(), nil); err != nil {
		t.Errorf("Shutdown(nil) = %v, expected nil", err)
	}
}
