package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/vedsharma/soar/internal/model"
)

// attributes returns the attribute object of a resource, whether or not the
// session unwrapped it already
func attributes(v any) *model.Object {
	obj, ok := v.(*model.Object)
	if !ok {
		return nil
	}
	if inner, ok := obj.Get("attributes"); ok {
		if attrs, ok := inner.(*model.Object); ok {
			return attrs
		}
	}
	return obj
}

// fill copies keys missing from body out of the current resource
func fill(body, current *model.Object, keys ...string) {
	if current == nil {
		return
	}
	for _, key := range keys {
		if _, ok := body.Get(key); ok {
			continue
		}
		if v, ok := current.Get(key); ok {
			body.Set(key, v)
		}
	}
}

// runGet fetches path and outputs the result
func runGet(rt *runtime, surface, path string) {
	s := rt.session(surface)
	rt.output(rt.request(s, "GET", path, nil))
}

// runCreate posts body to path and outputs the created resource
func runCreate(rt *runtime, surface, path string, body *model.Object) {
	s := rt.session(surface)
	rt.output(rt.request(s, "POST", path, body))
}

// runUpdate fetches a resource, patches it and shows what changed. Keys the
// panel requires on every update are filled in from the current resource.
func runUpdate(rt *runtime, surface, path string, body *model.Object, required ...string) {
	noDiff, _ := rt.cmd.Flags().GetBool("no-diff")

	s := rt.session(surface)
	before := rt.request(s, "GET", path, nil)
	fill(body, attributes(before), required...)

	after := rt.request(s, "PATCH", path, body)
	if after == nil || noDiff {
		rt.printer.Success(fmt.Sprintf("updated %s", path))
		rt.output(after)
		return
	}

	rt.diff(before, after)
}

// runDelete deletes path after confirming unless --force or --no-prompt is set
func runDelete(rt *runtime, surface, path, what string, body any) {
	defer rt.close()

	force, _ := rt.cmd.Flags().GetBool("force")
	if !force && !rt.confirm(fmt.Sprintf("Are you sure you want to delete %s?", what)) {
		rt.printer.Info("cancelled")
		return
	}

	s := rt.session(surface)
	rt.request(s, "DELETE", path, body)
	rt.printer.Success("deleted " + what)
}

// runAction sends a bodiless POST such as suspend or reinstall
func runAction(rt *runtime, surface, path, done string) {
	s := rt.session(surface)
	rt.output(rt.request(s, "POST", path, nil))
	rt.printer.Success(done)
}

func addDataFlag(cmd *cobra.Command, required bool) {
	cmd.Flags().StringP("data", "d", "", "JSON body (string or @filename)")
	if required {
		cmd.MarkFlagRequired("data")
	}
}

func addDiffFlag(cmd *cobra.Command) {
	cmd.Flags().Bool("no-diff", false, "Don't show the properties changed in the request")
}

func addForceFlag(cmd *cobra.Command) {
	cmd.Flags().BoolP("force", "f", false, "Delete without asking for confirmation")
}

func dataFlag(rt *runtime) *model.Object {
	data, _ := rt.cmd.Flags().GetString("data")
	return parseBody(rt, data)
}
