// Package confstore implements a layered, comment-preserving INI-style
// configuration store for long-running daemons.
//
// # Layers
//
// A Store reads three sources, lowest precedence first:
//
//   - SystemDir: fragments shipped by the distribution (e.g. /usr/lib/sddm/sddm.conf.d)
//   - UserDir: fragments dropped in by the administrator (e.g. /etc/sddm.conf.d)
//   - Path: the primary file (e.g. /etc/sddm.conf)
//
// Within a directory only regular files are read, in locale-aware filename
// order. A later file overrides an earlier one per key. Missing files and
// directories are treated as empty.
//
// # Schema
//
// The recognised sections and entries are registered once, right after New:
//
//	store := confstore.New(confstore.Options{Path: "/etc/sddm.conf"})
//	theme := store.AddSection("Theme")
//	current := theme.AddString("Current", "", "Current theme name")
//	store.Load()
//	name := current.Get()
//
// Keys before the first header belong to the implicit section
// (Options.ImplicitSection, "General" by default).
//
// # Reloading
//
// Load compares the newest modification time of every source with the one
// seen last time and does nothing when it is not newer. Daemons can call it
// on every reload signal or timer tick.
//
// # Saving
//
// Save rewrites only the primary file and only when a value actually
// changed. Comments, ordering and unknown content are preserved: unknown keys
// get an "# Unused variable" marker, unknown sections are moved to the end of
// the file below a banner, and non-default values that are not in the file yet
// are appended to their section with their description as a comment.
//
// HasUnused reports whether any of that unknown content was seen; daemons
// should surface it as a warning to the operator.
package confstore
