package cmd

import (
	"reflect"
	"testing"
)

func TestParseArgPairs(t *testing.T) {
	tests := []struct {
		name    string
		pairs   []string
		want    map[string]string
		wantErr bool
	}{
		{
			name:  "empty",
			pairs: nil,
			want:  nil,
		},
		{
			name:  "single pair",
			pairs: []string{"host=example.com"},
			want:  map[string]string{"host": "example.com"},
		},
		{
			name:  "multiple pairs",
			pairs: []string{"host=example.com", "retries=3"},
			want:  map[string]string{"host": "example.com", "retries": "3"},
		},
		{
			name:  "value containing equals",
			pairs: []string{"query=a=b"},
			want:  map[string]string{"query": "a=b"},
		},
		{
			name:  "empty value",
			pairs: []string{"flag="},
			want:  map[string]string{"flag": ""},
		},
		{
			name:    "missing equals",
			pairs:   []string{"hostexample.com"},
			wantErr: true,
		},
		{
			name:    "empty key",
			pairs:   []string{"=value"},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseArgPairs(tt.pairs)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("parseArgPairs(%v) succeeded, want error", tt.pairs)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseArgPairs(%v) failed: %v", tt.pairs, err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("parseArgPairs(%v) = %v, want %v", tt.pairs, got, tt.want)
			}
		})
	}
}

func TestIsUnderDaemonCmd(t *testing.T) {
	if !isUnderDaemonCmd(daemonStartCmd) {
		t.Errorf("daemon start should be under the daemon command")
	}
	if !isUnderDaemonCmd(daemonCmd) {
		t.Errorf("daemon itself should be under the daemon command")
	}
	if isUnderDaemonCmd(eventLsCmd) {
		t.Errorf("event ls should not be under the daemon command")
	}
	if isUnderDaemonCmd(versionCmd) {
		t.Errorf("version should not be under the daemon command")
	}
}
