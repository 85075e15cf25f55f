package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/vedsharma/soar/internal/reqlog"
	"github.com/vedsharma/soar/internal/storage"
)

func init() {
	errorsCmd := &cobra.Command{
		Use:   "errors",
		Short: "Inspect saved error reports",
		Long: `Fatal errors are saved for later inspection while core.save_error_logs
is enabled. The newest 100 reports are kept.`,
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List saved error reports",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			rt := newRuntime(cmd)
			limit, _ := cmd.Flags().GetInt("limit")

			store := openErrorStore(rt)
			defer store.Close()

			logs, err := store.LoadErrorLogs(limit)
			if err != nil {
				rt.fatal(fmt.Errorf("failed to load error logs: %w", err))
			}
			rt.printer.PrintErrorLogs(logs)
		},
	}
	listCmd.Flags().IntP("limit", "L", 20, "Number of reports to show")

	showCmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one saved error report",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			rt := newRuntime(cmd)

			store := openErrorStore(rt)
			defer store.Close()

			entry, err := store.GetErrorLog(args[0])
			if err != nil {
				rt.fatal(fmt.Errorf("failed to load error log: %w", err))
			}
			if entry == nil {
				rt.fatal(argError("no error report with id %q", args[0]))
			}
			rt.printer.PrintErrorLogDetail(entry)
		},
	}

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every saved error report",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			rt := newRuntime(cmd)
			defer rt.close()
			if !rt.confirm("Delete all saved error reports?") {
				rt.printer.Info("cancelled")
				return
			}

			store := openErrorStore(rt)
			defer store.Close()

			n, err := store.ClearErrorLogs()
			if err != nil {
				rt.fatal(fmt.Errorf("failed to clear error logs: %w", err))
			}
			rt.printer.Success(fmt.Sprintf("deleted %d error reports", n))
		},
	}

	errorsCmd.AddCommand(listCmd, showCmd, clearCmd)
	rootCmd.AddCommand(errorsCmd)
}

func openErrorStore(rt *runtime) *storage.SQLiteStorage {
	if rt.resolver.LibraryPath == "" {
		rt.fatal(reqlog.ErrMissingConfigLocation)
	}

	store, err := storage.NewStorage(filepath.Join(rt.resolver.LibraryPath, reqlog.Dir))
	if err != nil {
		rt.fatal(fmt.Errorf("failed to open error log: %w", err))
	}
	return store
}
