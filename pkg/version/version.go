// Package version holds the build version, overridden at link time with
// -ldflags "-X ticketdesk/pkg/version.Version=v1.2.3".
package version

// Version is the ticketdesk release.
var Version = "v0.1.0-dev"
