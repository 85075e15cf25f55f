package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/vedsharma/soar/internal/config"
	"github.com/vedsharma/soar/internal/model"
)

var appCmd = &cobra.Command{
	Use:   "app",
	Short: "Manage panel resources through the application API",
}

func init() {
	rootCmd.AddCommand(appCmd)
	appCmd.AddCommand(usersCmd(), serversCmd(), nodesCmd(), locationsCmd(), nestsCmd(), eggsCmd())
}

func idArg(rt *runtime, arg, name string) int {
	id, err := strconv.Atoi(arg)
	if err != nil || id <= 0 {
		rt.fatal(argError("%s must be a positive number, got %q", name, arg))
	}
	return id
}

func usersCmd() *cobra.Command {
	users := &cobra.Command{Use: "users", Short: "Manage user accounts"}

	get := &cobra.Command{
		Use:   "get",
		Short: "Fetch all users, or one user by id or query",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			rt := newRuntime(cmd)
			var q userQuery
			q.ID, _ = cmd.Flags().GetInt("id")
			q.Email, _ = cmd.Flags().GetString("email")
			q.UUID, _ = cmd.Flags().GetString("uuid")
			q.Username, _ = cmd.Flags().GetString("username")
			q.External, _ = cmd.Flags().GetString("external")
			runGet(rt, config.Application, buildUser(q))
		},
	}
	get.Flags().Int("id", 0, "The user ID to fetch")
	get.Flags().String("email", "", "The email to query")
	get.Flags().String("uuid", "", "The UUID to query")
	get.Flags().String("username", "", "The username to query")
	get.Flags().String("external", "", "The external user ID to fetch")
	get.MarkFlagsMutuallyExclusive("id", "email", "uuid", "username", "external")

	create := &cobra.Command{
		Use:   "create",
		Short: "Create a user account",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			rt := newRuntime(cmd)
			runCreate(rt, config.Application, buildUser(userQuery{}), dataFlag(rt))
		},
	}
	addDataFlag(create, true)

	update := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a user account",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			rt := newRuntime(cmd)
			id := idArg(rt, args[0], "user id")
			runUpdate(rt, config.Application, buildUser(userQuery{ID: id}), dataFlag(rt),
				"username", "email", "first_name", "last_name", "language")
		},
	}
	addDataFlag(update, true)
	addDiffFlag(update)

	del := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a user account",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			rt := newRuntime(cmd)
			id := idArg(rt, args[0], "user id")
			runDelete(rt, config.Application, buildUser(userQuery{ID: id}), fmt.Sprintf("user %d", id), nil)
		},
	}
	addForceFlag(del)

	users.AddCommand(get, create, update, del)
	return users
}

func serversCmd() *cobra.Command {
	servers := &cobra.Command{Use: "servers", Short: "Manage servers"}

	get := &cobra.Command{
		Use:   "get",
		Short: "Fetch all servers, or one server by id or query",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			rt := newRuntime(cmd)
			var q serverQuery
			q.ID, _ = cmd.Flags().GetInt("id")
			q.UUID, _ = cmd.Flags().GetString("uuid")
			q.Name, _ = cmd.Flags().GetString("name")
			q.External, _ = cmd.Flags().GetString("external")
			q.Image, _ = cmd.Flags().GetString("image")
			runGet(rt, config.Application, buildServer(q))
		},
	}
	get.Flags().Int("id", 0, "The server ID to fetch")
	get.Flags().String("uuid", "", "The UUID to query")
	get.Flags().String("name", "", "The server name to query")
	get.Flags().String("external", "", "The external server ID to fetch")
	get.Flags().String("image", "", "The docker image to query")
	get.MarkFlagsMutuallyExclusive("id", "uuid", "name", "external", "image")

	servers.AddCommand(get)

	for _, action := range []struct{ name, short, done string }{
		{"suspend", "Suspend a server", "suspended"},
		{"unsuspend", "Unsuspend a server", "unsuspended"},
		{"reinstall", "Reinstall a server", "started reinstalling"},
	} {
		servers.AddCommand(&cobra.Command{
			Use:   action.name + " <id>",
			Short: action.short,
			Args:  cobra.ExactArgs(1),
			Run: func(cmd *cobra.Command, args []string) {
				rt := newRuntime(cmd)
				id := idArg(rt, args[0], "server id")
				runAction(rt, config.Application, serverAction(id, action.name), fmt.Sprintf("%s server %d", action.done, id))
			},
		})
	}

	del := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a server",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			rt := newRuntime(cmd)
			id := idArg(rt, args[0], "server id")
			path := buildServer(serverQuery{ID: id})
			if ignore, _ := cmd.Flags().GetBool("ignore-errors"); ignore {
				path += "/force"
			}
			runDelete(rt, config.Application, path, fmt.Sprintf("server %d", id), nil)
		},
	}
	addForceFlag(del)
	del.Flags().Bool("ignore-errors", false, "Delete the server even if the node cannot be reached")
	servers.AddCommand(del)

	return servers
}

func nodesCmd() *cobra.Command {
	nodes := &cobra.Command{Use: "nodes", Short: "Inspect nodes"}

	get := &cobra.Command{
		Use:   "get",
		Short: "Fetch all nodes, or one node by id",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			rt := newRuntime(cmd)
			id, _ := cmd.Flags().GetInt("id")
			runGet(rt, config.Application, buildNode(id, false))
		},
	}
	get.Flags().Int("id", 0, "The node ID to fetch")

	cfg := &cobra.Command{
		Use:   "config <id>",
		Short: "Fetch the wings configuration of a node",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			rt := newRuntime(cmd)
			runGet(rt, config.Application, buildNode(idArg(rt, args[0], "node id"), true))
		},
	}

	nodes.AddCommand(get, cfg)
	return nodes
}

func locationsCmd() *cobra.Command {
	locations := &cobra.Command{Use: "locations", Short: "Manage locations"}

	get := &cobra.Command{
		Use:   "get",
		Short: "Fetch all locations, or one location by id or query",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			rt := newRuntime(cmd)
			var q locationQuery
			q.ID, _ = cmd.Flags().GetInt("id")
			q.Short, _ = cmd.Flags().GetString("short")
			q.Long, _ = cmd.Flags().GetString("long")
			runGet(rt, config.Application, buildLocation(q))
		},
	}
	get.Flags().Int("id", 0, "The location ID to fetch")
	get.Flags().String("short", "", "The short code to query")
	get.Flags().String("long", "", "The description to query")
	get.MarkFlagsMutuallyExclusive("id", "short", "long")

	create := &cobra.Command{
		Use:   "create",
		Short: "Create a location",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			rt := newRuntime(cmd)
			defer rt.close()
			short, _ := cmd.Flags().GetString("short")
			long, _ := cmd.Flags().GetString("long")

			body := model.NewObject()
			if data, _ := cmd.Flags().GetString("data"); data != "" {
				body = parseBody(rt, data)
			}
			if short != "" {
				body.Set("short", short)
			}
			if long != "" {
				body.Set("long", long)
			}
			if _, ok := body.Get("short"); !ok {
				short = rt.ask("Short code for the location:", "--short")
				body.Set("short", short)
			}

			runCreate(rt, config.Application, buildLocation(locationQuery{}), body)
		},
	}
	addDataFlag(create, false)
	create.Flags().String("short", "", "The short code of the location")
	create.Flags().String("long", "", "The description of the location")

	update := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a location",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			rt := newRuntime(cmd)
			id := idArg(rt, args[0], "location id")
			runUpdate(rt, config.Application, buildLocation(locationQuery{ID: id}), dataFlag(rt), "short", "long")
		},
	}
	addDataFlag(update, true)
	addDiffFlag(update)

	del := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a location",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			rt := newRuntime(cmd)
			id := idArg(rt, args[0], "location id")
			runDelete(rt, config.Application, buildLocation(locationQuery{ID: id}), fmt.Sprintf("location %d", id), nil)
		},
	}
	addForceFlag(del)

	locations.AddCommand(get, create, update, del)
	return locations
}

func nestsCmd() *cobra.Command {
	nests := &cobra.Command{Use: "nests", Short: "Inspect nests"}

	get := &cobra.Command{
		Use:   "get",
		Short: "Fetch all nests, or one nest by id",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			rt := newRuntime(cmd)
			id, _ := cmd.Flags().GetInt("id")
			runGet(rt, config.Application, buildNest(id))
		},
	}
	get.Flags().Int("id", 0, "The nest ID to fetch")

	nests.AddCommand(get)
	return nests
}

func eggsCmd() *cobra.Command {
	eggs := &cobra.Command{Use: "eggs", Short: "Inspect eggs"}

	get := &cobra.Command{
		Use:   "get <nest>",
		Short: "Fetch the eggs of a nest, or one egg by id",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			rt := newRuntime(cmd)
			nest := idArg(rt, args[0], "nest id")
			id, _ := cmd.Flags().GetInt("id")
			runGet(rt, config.Application, buildEgg(nest, id))
		},
	}
	get.Flags().Int("id", 0, "The egg ID to fetch")

	eggs.AddCommand(get)
	return eggs
}
