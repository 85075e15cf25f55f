package cmd

import (
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/vedsharma/soar/internal/model"
)

func TestParseFlagOptions(t *testing.T) {
	now := time.UnixMilli(1700000000000)

	tests := []struct {
		name string
		raw  rawFlags
		tty  bool
		want model.FlagOptions
	}{
		{
			name: "defaults",
			tty:  true,
			want: model.FlagOptions{ResponseType: "json", Prompt: true},
		},
		{
			name: "non tty forces silent",
			tty:  false,
			want: model.FlagOptions{ResponseType: "json", Prompt: true, Silent: true},
		},
		{
			name: "yaml with generated file name",
			raw:  rawFlags{YAML: true, Output: outputSentinel},
			tty:  true,
			want: model.FlagOptions{ResponseType: "yaml", WriteFile: "soar_log_1700000000000.yaml", Prompt: true},
		},
		{
			name: "extension appended",
			raw:  rawFlags{Text: true, Output: "users"},
			tty:  true,
			want: model.FlagOptions{ResponseType: "text", WriteFile: "users.text", Prompt: true},
		},
		{
			name: "extension kept",
			raw:  rawFlags{Output: "users.json"},
			tty:  true,
			want: model.FlagOptions{ResponseType: "json", WriteFile: "users.json", Prompt: true},
		},
		{
			name: "no prompt silent debug",
			raw:  rawFlags{NoPrompt: true, Silent: true, Debug: true},
			tty:  true,
			want: model.FlagOptions{ResponseType: "json", Silent: true, DebugMode: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseFlagOptions(tt.raw, tt.tty, now)
			if err != nil {
				t.Fatalf("ParseFlagOptions() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("ParseFlagOptions() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestParseFlagOptionsConflictingFormats(t *testing.T) {
	if _, err := ParseFlagOptions(rawFlags{JSON: true, YAML: true}, true, time.Now()); err == nil {
		t.Error("ParseFlagOptions() expected error for --json with --yaml")
	}
}

func TestGlobalFlagsParse(t *testing.T) {
	cmd := &cobra.Command{Use: "soar"}
	addGlobalFlags(cmd)
	flags := cmd.PersistentFlags()

	if err := flags.Parse([]string{"-o", "--yaml", "-n"}); err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	raw := readRawFlags(cmd)
	if raw.Output != outputSentinel {
		t.Errorf("-o without a value = %q, want the generated-name sentinel", raw.Output)
	}
	if !raw.YAML || !raw.NoPrompt {
		t.Errorf("readRawFlags() = %+v", raw)
	}
}
