package cmd

import "testing"

func TestBuildPaths(t *testing.T) {
	tests := []struct {
		name string
		got  string
		want string
	}{
		{"all users", buildUser(userQuery{}), "/api/application/users"},
		{"user by id", buildUser(userQuery{ID: 4, Email: "ignored@example.com"}), "/api/application/users/4"},
		{"user by external id", buildUser(userQuery{External: "ext-1"}), "/api/application/users/external/ext-1"},
		{"user by email", buildUser(userQuery{Email: "a+b@example.com"}), "/api/application/users?filter[email]=a%2Bb%40example.com"},
		{"user by username", buildUser(userQuery{Username: "admin"}), "/api/application/users?filter[username]=admin"},
		{"server by uuid", buildServer(serverQuery{UUID: "1a7ce997"}), "/api/application/servers?filter[uuid]=1a7ce997"},
		{"server by image", buildServer(serverQuery{Image: "ghcr.io/java:17"}), "/api/application/servers?filter[image]=ghcr.io%2Fjava%3A17"},
		{"suspend", serverAction(7, "suspend"), "/api/application/servers/7/suspend"},
		{"nodes", buildNode(0, false), "/api/application/nodes"},
		{"node config", buildNode(2, true), "/api/application/nodes/2/configuration"},
		{"location by short", buildLocation(locationQuery{Short: "fra"}), "/api/application/locations?filter[short]=fra"},
		{"nest", buildNest(1), "/api/application/nests/1"},
		{"eggs", buildEgg(1, 0), "/api/application/nests/1/eggs"},
		{"egg", buildEgg(1, 5), "/api/application/nests/1/eggs/5"},
		{"account", buildAccount(""), "/api/client/account"},
		{"two factor", buildAccount("two-factor"), "/api/client/account/two-factor"},
		{"api key", buildAPIKey("abc"), "/api/client/account/api-keys/abc"},
		{"client servers", buildClientServer(""), "/api/client"},
		{"power", buildPower("1a7ce997"), "/api/client/servers/1a7ce997/power"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %q, want %q", tt.got, tt.want)
			}
		})
	}
}

func TestValidSignal(t *testing.T) {
	for _, s := range []string{"start", "stop", "restart", "kill"} {
		if !validSignal(s) {
			t.Errorf("validSignal(%q) = false", s)
		}
	}
	if validSignal("reboot") {
		t.Error("validSignal(reboot) = true")
	}
}
