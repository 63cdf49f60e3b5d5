package cidr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubnet(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		prefix   string
		newbits  int
		netnum   int
		expected string
		wantErr  bool
	}{
		{
			name:     "first /20 inside /16",
			prefix:   "10.0.0.0/16",
			newbits:  4,
			netnum:   0,
			expected: "10.0.0.0/20",
		},
		{
			name:     "third /20 inside /16",
			prefix:   "10.0.0.0/16",
			newbits:  4,
			netnum:   2,
			expected: "10.0.32.0/20",
		},
		{
			name:     "last /20 inside /16",
			prefix:   "10.0.0.0/16",
			newbits:  4,
			netnum:   15,
			expected: "10.0.240.0/20",
		},
		{
			name:     "/24 inside /16",
			prefix:   "192.168.0.0/16",
			newbits:  8,
			netnum:   5,
			expected: "192.168.5.0/24",
		},
		{
			name:    "invalid prefix",
			prefix:  "not-a-cidr",
			newbits: 4,
			netnum:  0,
			wantErr: true,
		},
		{
			name:    "IPv6 rejected",
			prefix:  "2001:db8::/32",
			newbits: 4,
			netnum:  0,
			wantErr: true,
		},
		{
			name:    "netnum out of range",
			prefix:  "10.0.0.0/16",
			newbits: 4,
			netnum:  16,
			wantErr: true,
		},
		{
			name:    "extension exceeds address width",
			prefix:  "10.0.0.0/30",
			newbits: 4,
			netnum:  0,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := Subnet(tt.prefix, tt.newbits, tt.netnum)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}
