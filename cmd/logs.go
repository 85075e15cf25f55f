package cmd

import (
	"encoding/json"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/vedsharma/soar/internal/model"
	"github.com/vedsharma/soar/internal/reqlog"
)

func init() {
	logsCmd := &cobra.Command{
		Use:   "logs",
		Short: "Inspect the local request log",
	}

	fetchCmd := &cobra.Command{
		Use:   "fetch",
		Short: "Show logged requests",
		Long: `Show requests recorded in the request log. Requests are only logged
while http.save_requests is enabled.

Examples:
  soar logs fetch
  soar logs fetch --method get --app
  soar logs fetch --from 2024-03-01 --raw --limit 10`,
		Args: cobra.NoArgs,
		Run:  runLogsFetch,
	}
	fetchCmd.Flags().String("from", "", "Only show requests on or after this date")
	fetchCmd.Flags().String("method", "", "Only show requests with this method")
	fetchCmd.Flags().Bool("app", false, "Only show application API requests")
	fetchCmd.Flags().Bool("client", false, "Only show client API requests")
	fetchCmd.Flags().Bool("raw", false, "Only show requests sent with 'soar request'")
	fetchCmd.Flags().IntP("limit", "L", 0, "Maximum number of requests to show")

	logsCmd.AddCommand(fetchCmd)
	rootCmd.AddCommand(logsCmd)
}

func runLogsFetch(cmd *cobra.Command, _ []string) {
	rt := newRuntime(cmd)
	flags := cmd.Flags()

	var f reqlog.Filter
	f.App, _ = flags.GetBool("app")
	f.Client, _ = flags.GetBool("client")
	f.Raw, _ = flags.GetBool("raw")

	if from, _ := flags.GetString("from"); from != "" {
		t, err := reqlog.ParseDate(from)
		if err != nil {
			rt.fatal(argError("%v", err))
		}
		f.From = t
	}
	if method, _ := flags.GetString("method"); method != "" {
		m, err := reqlog.NormalizeMethod(method)
		if err != nil {
			rt.fatal(argError("%v", err))
		}
		f.Method = m
	}
	limit, _ := flags.GetInt("limit")

	l, err := reqlog.Open(rt.resolver.LibraryPath, rt.printer)
	if err != nil {
		rt.fatal(err)
	}
	all, err := l.ReadAll()
	if err != nil {
		rt.fatal(err)
	}
	logs := f.Apply(all)

	if !formatRequested(cmd) && rt.opts.WriteFile == "" {
		rt.printer.PrintRequestLogs(logs, limit)
		return
	}

	if limit > 0 && len(logs) > limit {
		logs = logs[:limit]
	}
	payload := make([]any, len(logs))
	for i, entry := range logs {
		payload[i] = logPayload(entry)
	}
	rt.output(payload)
}

func formatRequested(cmd *cobra.Command) bool {
	for _, name := range []string{"json", "yaml", "text"} {
		if cmd.Flags().Changed(name) {
			return true
		}
	}
	return false
}

func logPayload(l model.ReqLog) *model.Object {
	obj := model.NewObject()
	obj.Set("date", json.Number(strconv.FormatInt(l.Date, 10)))
	obj.Set("method", l.Method)
	obj.Set("response", json.Number(strconv.Itoa(l.Response)))
	obj.Set("type", l.Type)
	obj.Set("domain", l.Domain)
	obj.Set("path", l.Path)
	obj.Set("ref", l.Ref)
	return obj
}
