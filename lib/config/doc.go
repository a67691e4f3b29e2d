// Package config declares the display manager's configuration schema and the
// settings of the tool that edits it.
//
// # Daemon configuration
//
// MainConfig is layered: packages drop fragments into SystemDir, the
// administrator adds fragments to UserDir, and the primary file overrides
// both. Only the primary file is written back. StateConfig is a single file
// the daemon rewrites to remember the last user and session.
//
// Legacy section names are accepted on input: [XDisplay] is read as [X11]
// and [WaylandDisplay] as [Wayland].
//
// # Tool settings
//
// Paths and daemon timings come from Defaults, may be overridden by a YAML
// settings file (CfgFile), by SDDMCONF_* environment variables, and by
// command-line flags, in increasing order of precedence.
package config
