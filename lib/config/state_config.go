package config

import (
	"github.com/spf13/afero"

	"github.com/sddm/sddm-sub001/lib/confstore"
)

// StateConfig is the daemon's own state file. It has no overlays.
type StateConfig struct {
	*confstore.Store

	Last LastSection
}

type LastSection struct {
	*confstore.Section
	// User is the last successfully logged in user.
	User *confstore.Entry[string]
	// Session is the session file of the last login.
	Session *confstore.Entry[string]
}

// NewStateConfig declares the state schema on a store reading and writing
// path. A nil fs means the OS filesystem.
func NewStateConfig(path string, fs afero.Fs) *StateConfig {
	c := &StateConfig{Store: confstore.New(confstore.Options{Path: path, Fs: fs})}
	c.Last.Section = c.AddSection("Last")
	c.Last.User = c.Last.AddString("User", "", "Name of the last logged-in user.\n"+
		"This user will be preselected when the login screen appears")
	c.Last.Session = c.Last.AddString("Session", "", "Name of the session for the last logged-in user.\n"+
		"This session will be preselected when the login screen appears.")
	return c
}

// Remember records a successful login and writes the [Last] section.
func (c *StateConfig) Remember(user, session string) error {
	c.Last.User.Set(user)
	c.Last.Session.Set(session)
	return c.SaveSection(c.Last.Section)
}
