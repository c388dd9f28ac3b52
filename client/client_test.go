package client

import "testing"

func TestTarget(t *testing.T) {
	tests := []struct {
		address string
		want    string
	}{
		{"/tmp/regexgend.sock", "unix:///tmp/regexgend.sock"},
		{"unix:///var/run/regexgend.sock", "unix:///var/run/regexgend.sock"},
		{"localhost:50051", "localhost:50051"},
		{"regexgend.sock", "unix://regexgend.sock"},
	}
	for _, tt := range tests {
		if got := Target(tt.address); got != tt.want {
			t.Errorf("Target(%q): expected %q, got %q", tt.address, tt.want, got)
		}
	}
}
