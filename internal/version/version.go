package version

// Version is the client release written to request log headers and the User-Agent.
const Version = "1.2.0"

// UserAgent identifies this client to the panel.
func UserAgent() string {
	return "Soar Client v" + Version
}
