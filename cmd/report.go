package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/vedsharma/soar/internal/config"
	httpclient "github.com/vedsharma/soar/internal/http"
	"github.com/vedsharma/soar/internal/reqlog"
)

// argumentError is a bad flag, argument or payload caught before any request
type argumentError struct {
	msg string
}

func (e *argumentError) Error() string {
	return e.msg
}

func argError(format string, args ...any) error {
	return &argumentError{msg: fmt.Sprintf(format, args...)}
}

const missingDetail = "no details were provided"

// report converts an error into the kind and detail lines of an error block
func report(err error) (string, []string) {
	var (
		argErr    *argumentError
		cfgErr    *config.Error
		authErr   *httpclient.MissingAuthError
		apiErr    *httpclient.APIError
		statusErr *httpclient.StatusError
	)

	switch {
	case errors.As(err, &argErr):
		return "Argument Error", []string{argErr.msg}

	case errors.As(err, &cfgErr):
		return "Config Error", []string{cfgErr.Error(), cfgErr.Hint()}

	case errors.Is(err, reqlog.ErrMissingConfigLocation):
		return "Config Error", []string{err.Error(), "set SOAR_PATH to the path of the soar library directory"}

	case errors.As(err, &authErr):
		return "Missing Auth", []string{
			authErr.Error(),
			fmt.Sprintf("set %s.%s in the config or SOAR_%s__%s in the environment",
				authErr.Surface, authErr.Field,
				strings.ToUpper(authErr.Surface), strings.ToUpper(authErr.Field)),
		}

	case errors.As(err, &apiErr):
		lines := make([]string, 0, len(apiErr.Errors)+1)
		for _, info := range apiErr.Errors {
			detail := info.Detail
			if detail == "" {
				detail = missingDetail
			}
			lines = append(lines, fmt.Sprintf("%s (%s): %s", info.Code, info.Status, detail))
		}
		if len(lines) == 0 {
			lines = append(lines, fmt.Sprintf("the panel returned status %d: %s", apiErr.StatusCode, missingDetail))
		}
		if apiErr.Forbidden() {
			lines = append(lines, "the API key does not have the permissions needed for this request")
		}
		return "Panel Error", lines

	case errors.As(err, &statusErr):
		return "API Error", []string{
			fmt.Sprintf("status code %d received;", statusErr.StatusCode),
			"the API could not be contacted securely",
			"please contact a system administrator to resolve",
		}

	case errors.Is(err, httpclient.ErrUnsupportedMethod):
		return "Internal Error", []string{err.Error(), "only GET, POST, PATCH, PUT and DELETE are supported"}
	}

	return "Internal Error", []string{err.Error()}
}
