package driver

import (
	"testing"

	"github.com/viteplug/inlinetask/internal/config"
)

func TestShouldProcess(t *testing.T) {
	cfg := config.DefaultConfig()
	tests := []struct {
		name string
		id   string
		code string
		want bool
	}{
		{"eligible tsx", "a.tsx", "useInlineTask(() => {})", true},
		{"unaccepted extension", "a.css", "useInlineTask(() => {})", false},
		{"hook never mentioned", "a.tsx", "const x = 1;", false},
		{"vendor directory", "node_modules/pkg/a.tsx", "useInlineTask(() => {})", false},
		{"vendor directory mid-path", "/proj/node_modules/pkg/a.tsx", "useInlineTask(() => {})", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := shouldProcess(cfg, tt.id, tt.code); got != tt.want {
				t.Errorf("shouldProcess(%q, ...) = %v, want %v", tt.id, got, tt.want)
			}
		})
	}
}
