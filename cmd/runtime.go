package cmd

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/vedsharma/soar/internal/config"
	"github.com/vedsharma/soar/internal/format"
	httpclient "github.com/vedsharma/soar/internal/http"
	"github.com/vedsharma/soar/internal/model"
	"github.com/vedsharma/soar/internal/prompt"
	"github.com/vedsharma/soar/internal/render"
	"github.com/vedsharma/soar/internal/reqlog"
	"github.com/vedsharma/soar/internal/storage"
)

const (
	libraryEnv = "SOAR_PATH"
	envPrefix  = "SOAR_"
)

// libraryPath returns SOAR_PATH, falling back to the user config directory
// when a soar library already exists there
func libraryPath() string {
	if p := os.Getenv(libraryEnv); p != "" {
		return p
	}

	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	p := filepath.Join(dir, "soar")
	if info, err := os.Stat(p); err == nil && info.IsDir() {
		return p
	}
	return ""
}

func newResolver() *config.Resolver {
	wd, _ := os.Getwd()
	r := config.NewResolver(libraryPath(), wd)
	r.EnvPrefix = envPrefix
	return r
}

// runtime is everything one command invocation shares
type runtime struct {
	cmd      *cobra.Command
	opts     model.FlagOptions
	resolver *config.Resolver
	cfg      *config.Config
	printer  *format.Printer
	local    bool

	stdin     io.Reader
	promptOut io.Writer
	questions *prompt.Prompt
}

func newRuntime(cmd *cobra.Command) *runtime {
	r := &runtime{cmd: cmd, resolver: newResolver(), stdin: os.Stdin, promptOut: os.Stderr}
	r.local, _ = cmd.Flags().GetBool("local")
	noColor, _ := cmd.Flags().GetBool("no-color")

	// config errors are reported by the session when it loads again
	r.cfg, _ = r.resolver.Load(r.local)

	colour := !noColor && stdoutIsTTY() && r.cfg != nil && r.cfg.Logs.UseColour
	r.printer = format.NewPrinter(os.Stdout, os.Stderr, colour)

	opts, err := flagOptions(cmd)
	if err != nil {
		r.fatal(&argumentError{msg: err.Error()})
	}
	r.opts = opts
	r.printer.SetQuiet(opts.Silent)

	return r
}

func (r *runtime) session(surface string, options ...httpclient.Option) *httpclient.Session {
	base := []httpclient.Option{
		httpclient.WithPrinter(r.printer),
		httpclient.WithPreferLocal(r.local),
	}
	return httpclient.NewSession(surface, r.resolver, r.opts, append(base, options...)...)
}

// request runs one request and exits on failure
func (r *runtime) request(s *httpclient.Session, method, path string, body any) any {
	res, err := s.HandleRequest(method, path, body)
	if err != nil {
		r.fatal(err)
	}
	return res
}

// fatal prints an error block, saves it when error logs are enabled and exits
func (r *runtime) fatal(err error) {
	kind, lines := report(err)
	r.printer.Error(kind, lines...)
	r.saveErrorLog(kind, lines)
	os.Exit(1)
}

func (r *runtime) saveErrorLog(kind string, lines []string) {
	if r.cfg == nil || !r.cfg.Core.SaveErrorLogs || r.resolver.LibraryPath == "" {
		return
	}

	store, err := storage.NewStorage(filepath.Join(r.resolver.LibraryPath, reqlog.Dir))
	if err != nil {
		// Silently fail - don't interrupt the user
		return
	}
	defer store.Close()

	_, _ = store.AddErrorLog(model.ErrorLog{
		Kind:    kind,
		Lines:   lines,
		Command: commandLine(r.cmd),
	})
}

func commandLine(cmd *cobra.Command) string {
	args := os.Args[1:]
	return strings.TrimSpace(cmd.Root().Name() + " " + strings.Join(args, " "))
}

// output renders a payload and prints it or writes it to the output file
func (r *runtime) output(payload any) {
	if payload == nil {
		return
	}

	out, err := render.Render(payload, r.opts.ResponseType)
	if err != nil {
		r.fatal(err)
	}

	if r.opts.WriteFile != "" {
		wd, _ := os.Getwd()
		path, err := format.WriteResponseFile(wd, r.opts.WriteFile, []byte(out+"\n"))
		if err != nil {
			r.printer.Warn("Internal Error", "couldn't write response file", err.Error())
			r.printer.Line(out)
			return
		}
		r.printer.Success("saved request response at:", path)
		return
	}

	r.printer.Info("request result:")
	r.printer.Line(out)
}

// diff prints how an update changed a resource
func (r *runtime) diff(before, after any) {
	view, err := render.Diff(r.opts.ResponseType, before, after)
	if err != nil {
		r.fatal(err)
	}

	r.printer.Changes(view)
	r.printer.Line("\n" + render.Highlight(view.Output, r.printer.Colour()))
}

// asker returns the prompt shared by every question of the command
func (r *runtime) asker() *prompt.Prompt {
	if r.questions == nil {
		r.questions = prompt.New(r.stdin, r.promptOut)
	}
	return r.questions
}

// close ends the command's prompt if one was opened
func (r *runtime) close() {
	if r.questions != nil {
		r.questions.Close()
	}
}

// confirm asks a yes/no question. It answers yes when prompts are disabled.
func (r *runtime) confirm(msg string) bool {
	if !r.opts.Prompt {
		return true
	}

	ok, err := r.asker().Bool("[soar] " + msg)
	return err == nil && ok
}

// ask reads free text, failing when prompts are disabled
func (r *runtime) ask(msg, flag string) string {
	if !r.opts.Prompt {
		r.fatal(argError("%s is required when prompts are disabled", flag))
	}

	answer, err := r.asker().String("[soar] "+msg, false)
	if err != nil {
		r.fatal(argError("couldn't read %s: %v", flag, err))
	}
	return answer
}
