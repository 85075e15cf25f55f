package cmd

import (
	"fmt"
	"net/url"
)

const (
	applicationAPI = "/api/application"
	clientAPI      = "/api/client"
)

// filter appends a single panel filter query to base
func filter(base, field, value string) string {
	return fmt.Sprintf("%s?filter[%s]=%s", base, field, url.QueryEscape(value))
}

type userQuery struct {
	ID       int
	Email    string
	UUID     string
	Username string
	External string
}

func buildUser(q userQuery) string {
	base := applicationAPI + "/users"
	switch {
	case q.ID != 0:
		return fmt.Sprintf("%s/%d", base, q.ID)
	case q.External != "":
		return fmt.Sprintf("%s/external/%s", base, url.PathEscape(q.External))
	case q.Email != "":
		return filter(base, "email", q.Email)
	case q.UUID != "":
		return filter(base, "uuid", q.UUID)
	case q.Username != "":
		return filter(base, "username", q.Username)
	}
	return base
}

type serverQuery struct {
	ID       int
	UUID     string
	Name     string
	External string
	Image    string
}

func buildServer(q serverQuery) string {
	base := applicationAPI + "/servers"
	switch {
	case q.ID != 0:
		return fmt.Sprintf("%s/%d", base, q.ID)
	case q.External != "":
		return fmt.Sprintf("%s/external/%s", base, url.PathEscape(q.External))
	case q.UUID != "":
		return filter(base, "uuid", q.UUID)
	case q.Name != "":
		return filter(base, "name", q.Name)
	case q.Image != "":
		return filter(base, "image", q.Image)
	}
	return base
}

// serverAction is one of suspend, unsuspend or reinstall
func serverAction(id int, action string) string {
	return fmt.Sprintf("%s/servers/%d/%s", applicationAPI, id, action)
}

func buildNode(id int, configuration bool) string {
	base := applicationAPI + "/nodes"
	if id != 0 {
		base = fmt.Sprintf("%s/%d", base, id)
	}
	if configuration {
		return base + "/configuration"
	}
	return base
}

type locationQuery struct {
	ID    int
	Short string
	Long  string
}

func buildLocation(q locationQuery) string {
	base := applicationAPI + "/locations"
	switch {
	case q.ID != 0:
		return fmt.Sprintf("%s/%d", base, q.ID)
	case q.Short != "":
		return filter(base, "short", q.Short)
	case q.Long != "":
		return filter(base, "long", q.Long)
	}
	return base
}

func buildNest(id int) string {
	base := applicationAPI + "/nests"
	if id != 0 {
		return fmt.Sprintf("%s/%d", base, id)
	}
	return base
}

func buildEgg(nest, id int) string {
	base := fmt.Sprintf("%s/nests/%d/eggs", applicationAPI, nest)
	if id != 0 {
		return fmt.Sprintf("%s/%d", base, id)
	}
	return base
}

func buildAccount(sub string) string {
	if sub == "" {
		return clientAPI + "/account"
	}
	return clientAPI + "/account/" + sub
}

func buildAPIKey(identifier string) string {
	base := buildAccount("api-keys")
	if identifier != "" {
		return base + "/" + url.PathEscape(identifier)
	}
	return base
}

func buildClientServer(identifier string) string {
	if identifier == "" {
		return clientAPI
	}
	return clientAPI + "/servers/" + url.PathEscape(identifier)
}

func buildPower(identifier string) string {
	return buildClientServer(identifier) + "/power"
}
