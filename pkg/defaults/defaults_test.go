package defaults

import (
	"testing"
	"time"
)

func TestTimeoutConstants(t *testing.T) {
	tests := []struct {
		name     string
		timeout  time.Duration
		minValue time.Duration
		maxValue time.Duration
	}{
		{"GenerationInterval", GenerationInterval, 5 * time.Second, 5 * time.Minute},
		{"CycleTimeout", CycleTimeout, 5 * time.Second, 60 * time.Second},
		{"CollectionTimeout", CollectionTimeout, 100 * time.Millisecond, 10 * time.Second},
		{"FallbackDeadline", FallbackDeadline, 100 * time.Millisecond, 10 * time.Second},
		{"RenderTimeout", RenderTimeout, 1 * time.Second, 30 * time.Second},
		{"DrainTimeout", DrainTimeout, 1 * time.Second, 60 * time.Second},
		{"ServerReadTimeout", ServerReadTimeout, 5 * time.Second, 30 * time.Second},
		{"ServerWriteTimeout", ServerWriteTimeout, 5 * time.Second, 60 * time.Second},
		{"ServerShutdownTimeout", ServerShutdownTimeout, 10 * time.Second, 60 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.timeout < tt.minValue {
				t.Errorf("%s (%v) is below minimum expected value (%v)", tt.name, tt.timeout, tt.minValue)
			}
			if tt.timeout > tt.maxValue {
				t.Errorf("%s (%v) is above maximum expected value (%v)", tt.name, tt.timeout, tt.maxValue)
			}
		})
	}
}

func TestTimeoutRelationships(t *testing.T) {
	if CycleTimeout >= GenerationInterval {
		t.Error("CycleTimeout should be shorter than GenerationInterval")
	}
	if CollectionTimeout >= FallbackDeadline {
		t.Error("CollectionTimeout should leave headroom before FallbackDeadline")
	}
	if CollectionTimeout >= CycleTimeout {
		t.Error("CollectionTimeout should be a fraction of CycleTimeout")
	}
}
