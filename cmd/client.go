package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/vedsharma/soar/internal/config"
	"github.com/vedsharma/soar/internal/model"
)

var powerSignals = []string{"start", "stop", "restart", "kill"}

var clientCmd = &cobra.Command{
	Use:   "client",
	Short: "Manage your account and servers through the client API",
}

func init() {
	rootCmd.AddCommand(clientCmd)
	clientCmd.AddCommand(accountCmd(), apiKeysCmd(), twoFactorCmd(), clientServersCmd(), powerCmd())
}

func accountCmd() *cobra.Command {
	account := &cobra.Command{Use: "account", Short: "Manage the client account"}

	get := &cobra.Command{
		Use:   "get",
		Short: "Fetch the client account",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			runGet(newRuntime(cmd), config.Client, buildAccount(""))
		},
	}

	email := &cobra.Command{
		Use:   "update-email",
		Short: "Change the account email address",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			rt := newRuntime(cmd)
			defer rt.close()
			address, _ := cmd.Flags().GetString("email")
			password, _ := cmd.Flags().GetString("password")
			if password == "" {
				password = rt.ask("Account password:", "--password")
			}

			body := model.NewObject()
			body.Set("email", address)
			body.Set("password", password)

			s := rt.session(config.Client)
			before := rt.request(s, "GET", buildAccount(""), nil)
			rt.request(s, "PUT", buildAccount("email"), body)
			after := rt.request(s, "GET", buildAccount(""), nil)

			if noDiff, _ := cmd.Flags().GetBool("no-diff"); noDiff {
				rt.printer.Success("updated account email")
				return
			}
			rt.diff(before, after)
		},
	}
	email.Flags().String("email", "", "The new email address")
	email.Flags().String("password", "", "The account password")
	email.MarkFlagRequired("email")
	addDiffFlag(email)

	password := &cobra.Command{
		Use:   "update-password",
		Short: "Change the account password",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			rt := newRuntime(cmd)
			defer rt.close()
			current, _ := cmd.Flags().GetString("current")
			next, _ := cmd.Flags().GetString("new")
			if current == "" {
				current = rt.ask("Current password:", "--current")
			}
			if next == "" {
				next = rt.ask("New password:", "--new")
			}

			body := model.NewObject()
			body.Set("current_password", current)
			body.Set("password", next)
			body.Set("password_confirmation", next)

			s := rt.session(config.Client)
			rt.request(s, "PUT", buildAccount("password"), body)
			rt.printer.Success("updated account password")
		},
	}
	password.Flags().String("current", "", "The current account password")
	password.Flags().String("new", "", "The new account password")

	account.AddCommand(get, email, password)
	return account
}

func apiKeysCmd() *cobra.Command {
	keys := &cobra.Command{Use: "apikeys", Short: "Manage account API keys"}

	get := &cobra.Command{
		Use:   "get",
		Short: "Fetch the account API keys",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			runGet(newRuntime(cmd), config.Client, buildAPIKey(""))
		},
	}

	create := &cobra.Command{
		Use:   "create",
		Short: "Create an account API key",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			rt := newRuntime(cmd)
			defer rt.close()
			description, _ := cmd.Flags().GetString("description")
			ips, _ := cmd.Flags().GetStringSlice("ips")
			if description == "" {
				description = rt.ask("Key description:", "--description")
			}

			allowed := make([]any, len(ips))
			for i, ip := range ips {
				allowed[i] = ip
			}

			body := model.NewObject()
			body.Set("description", description)
			body.Set("allowed_ips", allowed)

			runCreate(rt, config.Client, buildAPIKey(""), body)
		},
	}
	create.Flags().String("description", "", "The key description")
	create.Flags().StringSlice("ips", nil, "IP addresses allowed to use the key")

	del := &cobra.Command{
		Use:   "delete <identifier>",
		Short: "Delete an account API key",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			rt := newRuntime(cmd)
			runDelete(rt, config.Client, buildAPIKey(args[0]), "api key "+args[0], nil)
		},
	}
	addForceFlag(del)

	keys.AddCommand(get, create, del)
	return keys
}

func twoFactorCmd() *cobra.Command {
	tfa := &cobra.Command{Use: "2fa", Short: "Manage two-factor authentication"}

	get := &cobra.Command{
		Use:   "get",
		Short: "Fetch the TOTP setup data for the account",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			runGet(newRuntime(cmd), config.Client, buildAccount("two-factor"))
		},
	}

	enable := &cobra.Command{
		Use:   "enable <code>",
		Short: "Enable two-factor authentication with a TOTP code",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			rt := newRuntime(cmd)
			defer rt.close()
			password, _ := cmd.Flags().GetString("password")
			if password == "" {
				password = rt.ask("Account password:", "--password")
			}

			body := model.NewObject()
			body.Set("code", args[0])
			body.Set("password", password)

			s := rt.session(config.Client)
			rt.output(rt.request(s, "POST", buildAccount("two-factor"), body))
			rt.printer.Success("enabled 2fa")
		},
	}
	enable.Flags().String("password", "", "The account password")

	disable := &cobra.Command{
		Use:   "disable",
		Short: "Disable two-factor authentication",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			rt := newRuntime(cmd)
			defer rt.close()
			password, _ := cmd.Flags().GetString("password")
			if password == "" {
				password = rt.ask("Account password:", "--password")
			}

			body := model.NewObject()
			body.Set("password", password)

			s := rt.session(config.Client)
			rt.request(s, "DELETE", buildAccount("two-factor"), body)
			rt.printer.Success("disabled 2fa")
		},
	}
	disable.Flags().String("password", "", "The account password")

	tfa.AddCommand(get, enable, disable)
	return tfa
}

func clientServersCmd() *cobra.Command {
	servers := &cobra.Command{Use: "servers", Short: "Inspect the servers you can access"}

	get := &cobra.Command{
		Use:   "get [identifier]",
		Short: "Fetch your servers, or one server by identifier",
		Args:  cobra.MaximumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			identifier := ""
			if len(args) == 1 {
				identifier = args[0]
			}
			runGet(newRuntime(cmd), config.Client, buildClientServer(identifier))
		},
	}

	servers.AddCommand(get)
	return servers
}

func validSignal(signal string) bool {
	for _, s := range powerSignals {
		if s == signal {
			return true
		}
	}
	return false
}

func powerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "power <identifier> <signal>",
		Short: "Send a power signal (start, stop, restart, kill) to a server",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			rt := newRuntime(cmd)
			signal := strings.ToLower(args[1])
			if !validSignal(signal) {
				rt.fatal(argError("invalid power signal %q: expected one of %s", args[1], strings.Join(powerSignals, ", ")))
			}

			body := model.NewObject()
			body.Set("signal", signal)

			s := rt.session(config.Client)
			rt.request(s, "POST", buildPower(args[0]), body)
			rt.printer.Success(fmt.Sprintf("sent %s signal to server %s", signal, args[0]))
		},
	}
}
