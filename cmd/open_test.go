/*
Copyright © 2026 The pinwatch authors
*/
package cmd

import (
	"testing"

	"github.com/pinwatch/pinwatch/internal/core"
)

func TestDoctorCmd_Flags(t *testing.T) {
	tests := []struct {
		name         string
		flagName     string
		defaultValue string
	}{
		{
			name:         "all flag defaults to false",
			flagName:     "all",
			defaultValue: "false",
		},
		{
			name:         "concurrency flag has correct default",
			flagName:     "concurrency",
			defaultValue: "4",
		},
		{
			name:         "timeout flag has correct default",
			flagName:     "timeout",
			defaultValue: core.DefaultDoctorTimeout.String(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flag := doctorCmd.Flags().Lookup(tt.flagName)
			if flag == nil {
				t.Fatalf("flag %q not found", tt.flagName)
			}
			if flag.DefValue != tt.defaultValue {
				t.Errorf("expected default %q, got %q", tt.defaultValue, flag.DefValue)
			}
		})
	}
}

func TestConsoleNotifier(t *testing.T) {
	// Logs only; must never error, since notify failures are non-fatal to
	// the open workflow.
	if err := (consoleNotifier{}).Notify("title", "body"); err != nil {
		t.Errorf("expected no error, got %v", err)
	}
}
