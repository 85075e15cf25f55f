package cmd

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/vedsharma/soar/internal/config"
)

func init() {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Show, check and create the soar config",
	}

	infoCmd := &cobra.Command{
		Use:   "info",
		Short: "Show the config that requests will use",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			rt := newRuntime(cmd)
			showKeys, _ := cmd.Flags().GetBool("show-keys")

			path, err := rt.resolver.Path(rt.local)
			if err != nil {
				rt.fatal(err)
			}
			cfg, err := rt.resolver.Load(rt.local)
			if err != nil {
				rt.fatal(err)
			}

			out, err := cfg.Format(!showKeys)
			if err != nil {
				rt.fatal(err)
			}

			rt.printer.Info("config path: " + path)
			rt.printer.Line(out)
		},
	}
	infoCmd.Flags().Bool("show-keys", false, "Show API keys instead of masking them")

	validateCmd := &cobra.Command{
		Use:   "validate",
		Short: "Check the config for missing or malformed keys",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			rt := newRuntime(cmd)

			msg, err := rt.resolver.Validate(rt.local)
			if err != nil {
				rt.fatal(err)
			}
			if msg != "" {
				rt.printer.Error("Validation Error", msg)
				os.Exit(1)
			}
			rt.printer.Success("config is valid")
		},
	}

	setupCmd := &cobra.Command{
		Use:   "setup [path]",
		Short: "Create a default config",
		Long: `Create a default config file. Without a path the global config is
created in the soar library, or the workspace config with --local.`,
		Args: cobra.MaximumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			rt := newRuntime(cmd)
			force, _ := cmd.Flags().GetBool("force")

			path := setupPath(rt)
			if len(args) == 1 {
				path = args[0]
			}
			if path == "" {
				rt.fatal(&config.Error{Kind: config.MissingEnv})
			}

			created, err := config.Create(path, force)
			if err != nil {
				rt.fatal(argError("couldn't create config: %v", err))
			}

			rt.printer.Success("created config at: " + created)
			if !rt.local && len(args) == 0 && os.Getenv(libraryEnv) == "" {
				rt.printer.Info("set " + libraryEnv + " to " + filepath.Dir(created) + " to use it from anywhere")
			}
		},
	}
	setupCmd.Flags().BoolP("force", "f", false, "Overwrite an existing soar config")

	configCmd.AddCommand(infoCmd, validateCmd, setupCmd)
	rootCmd.AddCommand(configCmd)
}

// setupPath is where 'config setup' writes without an explicit path
func setupPath(rt *runtime) string {
	if rt.local {
		return rt.resolver.LocalPath()
	}
	if p := rt.resolver.GlobalPath(); p != "" {
		return p
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "soar", config.GlobalFile)
}
