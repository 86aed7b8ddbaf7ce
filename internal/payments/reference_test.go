package payments

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractReference(t *testing.T) {
	tests := []struct {
		name     string
		response map[string]any
		want     string
		found    bool
	}{
		{"canonical key", map[string]any{"reference": "ref_123"}, "ref_123", true},
		{"trxref alias", map[string]any{"trxref": "ref_456"}, "ref_456", true},
		{"trans alias", map[string]any{"trans": "ref_789"}, "ref_789", true},
		{"transaction alias", map[string]any{"transaction": "ref_abc"}, "ref_abc", true},
		{"txref alias", map[string]any{"txref": "ref_def"}, "ref_def", true},
		{"canonical wins over alias", map[string]any{"trxref": "other", "reference": "ref_123"}, "ref_123", true},
		{"empty string misses", map[string]any{"reference": ""}, "", false},
		{"whitespace misses", map[string]any{"reference": "   "}, "", false},
		{"non-string misses", map[string]any{"reference": 42}, "", false},
		{"absent misses", map[string]any{"status": "success"}, "", false},
		{"nil map misses", nil, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractReference(tt.response)
			assert.Equal(t, tt.found, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
