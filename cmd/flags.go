package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/vedsharma/soar/internal/model"
	"github.com/vedsharma/soar/internal/render"
)

// outputSentinel is the value -o takes when no file name follows it
const outputSentinel = "\x00auto"

func addGlobalFlags(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()
	flags.Bool("json", false, "Send the response output as JSON (default)")
	flags.Bool("yaml", false, "Send the response output as YAML")
	flags.Bool("text", false, "Send the response output as formatted text")
	flags.StringP("output", "o", "", "Write the output to a file (generated name when none is given)")
	flags.Lookup("output").NoOptDefVal = outputSentinel
	flags.BoolP("no-prompt", "n", false, "Don't prompt for confirmation or input")
	flags.BoolP("silent", "s", false, "Don't log request messages")
	flags.BoolP("local", "l", false, "Prefer the workspace config over the global one")
	flags.Bool("no-color", false, "Disable colour output")
	flags.Bool("debug", false, "Log debug traces to stderr")
	flags.Lookup("debug").Hidden = true
}

// rawFlags are the global flags exactly as given on the command line
type rawFlags struct {
	JSON     bool
	YAML     bool
	Text     bool
	Output   string
	NoPrompt bool
	Silent   bool
	Debug    bool
}

// ParseFlagOptions turns raw flags into the options a command runs with.
// A stdout that is not a terminal forces silent mode.
func ParseFlagOptions(raw rawFlags, stdoutIsTTY bool, now time.Time) (model.FlagOptions, error) {
	selected := 0
	responseType := render.JSON
	for _, f := range []struct {
		set  bool
		name string
	}{{raw.JSON, render.JSON}, {raw.YAML, render.YAML}, {raw.Text, render.Text}} {
		if f.set {
			selected++
			responseType = f.name
		}
	}
	if selected > 1 {
		return model.FlagOptions{}, errors.New("only one of --json, --yaml and --text can be used")
	}

	file := raw.Output
	if file == outputSentinel {
		file = fmt.Sprintf("soar_log_%d", now.UnixMilli())
	}
	if file != "" {
		if ext := render.Extension(responseType); filepath.Ext(file) != ext {
			file += ext
		}
	}

	return model.FlagOptions{
		WriteFile:    file,
		ResponseType: responseType,
		Prompt:       !raw.NoPrompt,
		Silent:       raw.Silent || !stdoutIsTTY,
		DebugMode:    raw.Debug,
	}, nil
}

func readRawFlags(cmd *cobra.Command) rawFlags {
	flags := cmd.Flags()
	var raw rawFlags
	raw.JSON, _ = flags.GetBool("json")
	raw.YAML, _ = flags.GetBool("yaml")
	raw.Text, _ = flags.GetBool("text")
	raw.Output, _ = flags.GetString("output")
	raw.NoPrompt, _ = flags.GetBool("no-prompt")
	raw.Silent, _ = flags.GetBool("silent")
	raw.Debug, _ = flags.GetBool("debug")
	return raw
}

func stdoutIsTTY() bool {
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func flagOptions(cmd *cobra.Command) (model.FlagOptions, error) {
	return ParseFlagOptions(readRawFlags(cmd), stdoutIsTTY(), time.Now())
}
