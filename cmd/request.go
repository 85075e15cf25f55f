package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/vedsharma/soar/internal/config"
	httpclient "github.com/vedsharma/soar/internal/http"
	"github.com/vedsharma/soar/internal/model"
	"github.com/vedsharma/soar/internal/reqlog"
)

func init() {
	requestCmd := &cobra.Command{
		Use:   "request <method> <path>",
		Short: "Send a raw request to the panel",
		Long: `Send a request to any panel endpoint. The path is appended to the
configured url of the selected API surface.

Examples:
  soar request get /api/application/users?per_page=5
  soar request post /api/client/servers/1a7ce997/command -d '{"command": "say hi"}' --client
  soar request patch /api/application/locations/2 -d @location.json`,
		Args: cobra.ExactArgs(2),
		Run:  runRawRequest,
	}
	requestCmd.Flags().StringP("data", "d", "", "Request body (JSON string or @filename)")
	requestCmd.Flags().Bool("client", false, "Use the client API instead of the application API")
	rootCmd.AddCommand(requestCmd)
}

func runRawRequest(cmd *cobra.Command, args []string) {
	rt := newRuntime(cmd)

	method, err := reqlog.NormalizeMethod(args[0])
	if err != nil {
		rt.fatal(&argumentError{msg: err.Error()})
	}

	path := args[1]
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	var body any
	if data, _ := cmd.Flags().GetString("data"); data != "" {
		body = parseBody(rt, data)
	}

	surface := config.Application
	if useClient, _ := cmd.Flags().GetBool("client"); useClient {
		surface = config.Client
	}

	s := rt.session(surface, httpclient.WithLogType(model.LogTypeRaw))
	res := rt.request(s, method, path, body)
	if res == nil {
		rt.printer.Success(fmt.Sprintf("%s %s completed with no content", method, path))
		return
	}
	rt.output(res)
}

// parseBody decodes a -d value, reading @file values from disk. The body
// must be a non-empty JSON object.
func parseBody(rt *runtime, data string) *model.Object {
	if strings.HasPrefix(data, "@") {
		content, err := readBodyFromFile(strings.TrimPrefix(data, "@"))
		if err != nil {
			rt.fatal(argError("failed to read file: %v", err))
		}
		data = content
	}

	v, err := model.DecodeJSON([]byte(data))
	if err != nil {
		rt.fatal(argError("couldn't parse JSON data argument: %v", err))
	}

	obj, ok := v.(*model.Object)
	if !ok {
		rt.fatal(argError("the JSON data argument must be an object"))
	}
	if obj.Len() == 0 {
		rt.fatal(argError("no JSON was provided to send"))
	}

	return obj
}

// readBodyFromFile reads file content with path validation to prevent directory traversal
func readBodyFromFile(filename string) (string, error) {
	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get working directory: %w", err)
	}

	absPath, err := filepath.Abs(filename)
	if err != nil {
		return "", fmt.Errorf("invalid file path: %w", err)
	}

	cleanPath := filepath.Clean(absPath)

	// Ensure file is within working directory (prevent path traversal)
	if !strings.HasPrefix(cleanPath, wd+string(filepath.Separator)) && cleanPath != wd {
		return "", fmt.Errorf("access denied: file must be within current directory")
	}

	realPath, err := filepath.EvalSymlinks(cleanPath)
	if err != nil {
		if !os.IsNotExist(err) {
			return "", fmt.Errorf("failed to resolve path: %w", err)
		}
		realPath = cleanPath
	} else {
		if !strings.HasPrefix(realPath, wd+string(filepath.Separator)) && realPath != wd {
			return "", fmt.Errorf("access denied: symlink target must be within current directory")
		}
	}

	content, err := os.ReadFile(realPath)
	if err != nil {
		return "", err
	}

	return string(content), nil
}
