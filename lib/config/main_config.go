package config

import (
	"github.com/spf13/afero"

	"github.com/sddm/sddm-sub001/lib/confstore"
)

// NumState is the keyboard NumLock state applied at the greeter.
type NumState int

const (
	NumlockNone NumState = iota
	NumlockOn
	NumlockOff
)

var numStateNames = map[NumState]string{
	NumlockNone: "none",
	NumlockOn:   "on",
	NumlockOff:  "off",
}

func (n NumState) String() string { return numStateNames[n] }

// DisplayServer selects how the greeter is displayed.
type DisplayServer int

const (
	DisplayServerX11 DisplayServer = iota
	DisplayServerX11User
	DisplayServerWayland
)

var displayServerNames = map[DisplayServer]string{
	DisplayServerX11:     "x11",
	DisplayServerX11User: "x11-user",
	DisplayServerWayland: "wayland",
}

func (d DisplayServer) String() string { return displayServerNames[d] }

// LegacySections maps section names accepted on input to their current name.
var LegacySections = map[string]string{
	"XDisplay":       "X11",
	"WaylandDisplay": "Wayland",
}

// MainConfig is the display manager's layered configuration.
type MainConfig struct {
	*confstore.Store

	General   GeneralSection
	Theme     ThemeSection
	Users     UsersSection
	Autologin AutologinSection
	X11       X11Section
	Wayland   WaylandSection
}

type GeneralSection struct {
	*confstore.Section
	DisplayServer      *confstore.Entry[DisplayServer]
	HaltCommand        *confstore.Entry[string]
	RebootCommand      *confstore.Entry[string]
	Numlock            *confstore.Entry[NumState]
	InputMethod        *confstore.Entry[string]
	Namespaces         *confstore.Entry[[]string]
	GreeterEnvironment *confstore.Entry[[]string]
}

type ThemeSection struct {
	*confstore.Section
	ThemeDir                *confstore.Entry[string]
	Current                 *confstore.Entry[string]
	FacesDir                *confstore.Entry[string]
	CursorTheme             *confstore.Entry[string]
	CursorSize              *confstore.Entry[string]
	Font                    *confstore.Entry[string]
	EnableAvatars           *confstore.Entry[bool]
	DisableAvatarsThreshold *confstore.Entry[int]
}

type UsersSection struct {
	*confstore.Section
	DefaultPath         *confstore.Entry[string]
	MinimumUid          *confstore.Entry[uint]
	MaximumUid          *confstore.Entry[uint]
	HideUsers           *confstore.Entry[[]string]
	HideShells          *confstore.Entry[[]string]
	RememberLastUser    *confstore.Entry[bool]
	RememberLastSession *confstore.Entry[bool]
	ReuseSession        *confstore.Entry[bool]
}

type AutologinSection struct {
	*confstore.Section
	User    *confstore.Entry[string]
	Session *confstore.Entry[string]
	Relogin *confstore.Entry[bool]
}

type X11Section struct {
	*confstore.Section
	ServerPath         *confstore.Entry[string]
	ServerArguments    *confstore.Entry[string]
	XephyrPath         *confstore.Entry[string]
	SessionDir         *confstore.Entry[[]string]
	SessionCommand     *confstore.Entry[string]
	SessionLogFile     *confstore.Entry[string]
	DisplayCommand     *confstore.Entry[string]
	DisplayStopCommand *confstore.Entry[string]
	EnableHiDPI        *confstore.Entry[bool]
	MinimumVT          *confstore.Entry[int]
}

type WaylandSection struct {
	*confstore.Section
	CompositorCommand *confstore.Entry[string]
	SessionDir        *confstore.Entry[[]string]
	SessionCommand    *confstore.Entry[string]
	SessionLogFile    *confstore.Entry[string]
	EnableHiDPI       *confstore.Entry[bool]
}

// MainOptions builds store options for the layered configuration at paths.
// A nil fs means the OS filesystem.
func MainOptions(paths PathDefaults, fs afero.Fs) confstore.Options {
	return confstore.Options{
		Path:      paths.ConfigFile,
		UserDir:   paths.UserDir,
		SystemDir: paths.SystemDir,
		Renames:   LegacySections,
		Fs:        fs,
	}
}

// NewMainConfig declares the schema on a fresh store. Nothing is read until
// Load is called.
func NewMainConfig(opts confstore.Options) *MainConfig {
	c := &MainConfig{Store: confstore.New(opts)}
	c.buildGeneral()
	c.buildTheme()
	c.buildUsers()
	c.buildAutologin()
	c.buildX11()
	c.buildWayland()
	return c
}

func (c *MainConfig) buildGeneral() {
	g := &c.General
	g.Section = c.Implicit()
	g.DisplayServer = confstore.Enum(g.Section, "DisplayServer", DisplayServerX11,
		"Which display server should be used.\nValid values are: x11, x11-user, wayland.", displayServerNames)
	g.HaltCommand = g.AddString("HaltCommand", "/usr/bin/systemctl poweroff", "Halt command")
	g.RebootCommand = g.AddString("RebootCommand", "/usr/bin/systemctl reboot", "Reboot command")
	g.Numlock = confstore.Enum(g.Section, "Numlock", NumlockNone,
		"Initial NumLock state. Can be on, off or none.\nIf property is set to none, numlock won't be changed.", numStateNames)
	g.InputMethod = g.AddString("InputMethod", "qtvirtualkeyboard",
		"Input method module")
	g.Namespaces = g.AddStringList("Namespaces", nil,
		"Comma-separated list of Linux namespaces for user session to enter")
	g.GreeterEnvironment = g.AddStringList("GreeterEnvironment", nil,
		"Comma-separated list of environment variables to be set")
}

func (c *MainConfig) buildTheme() {
	t := &c.Theme
	t.Section = c.AddSection("Theme")
	t.ThemeDir = t.AddString("ThemeDir", "/usr/share/sddm/themes", "Theme directory path")
	t.Current = t.AddString("Current", "", "Current theme name")
	t.FacesDir = t.AddString("FacesDir", "/usr/share/sddm/faces", "Global directory for user avatars\n"+
		"The files should be named <username>.face.icon")
	t.CursorTheme = t.AddString("CursorTheme", "", "Cursor theme used in the greeter")
	t.CursorSize = t.AddString("CursorSize", "", "Cursor size used in the greeter")
	t.Font = t.AddString("Font", "", "Font used in the greeter")
	t.EnableAvatars = t.AddBool("EnableAvatars", true, "Enable display of custom user avatars")
	t.DisableAvatarsThreshold = t.AddInt("DisableAvatarsThreshold", 7,
		"Number of users to use as threshold\nabove which avatars are disabled\nunless explicitly enabled with EnableAvatars")
}

func (c *MainConfig) buildUsers() {
	u := &c.Users
	u.Section = c.AddSection("Users")
	u.DefaultPath = u.AddString("DefaultPath", "/usr/local/bin:/usr/bin:/bin", "Default $PATH for logged in users")
	u.MinimumUid = u.AddUint("MinimumUid", 1000, "Minimum user id for displayed users")
	u.MaximumUid = u.AddUint("MaximumUid", 60000, "Maximum user id for displayed users")
	u.HideUsers = u.AddStringList("HideUsers", nil, "Comma-separated list of users that should not be listed")
	u.HideShells = u.AddStringList("HideShells", nil, "Comma-separated list of shells.\n"+
		"Users with these shells as their default won't be listed")
	u.RememberLastUser = u.AddBool("RememberLastUser", true, "Remember the last successfully logged in user")
	u.RememberLastSession = u.AddBool("RememberLastSession", true,
		"Remember the session of the last successfully logged in user")
	u.ReuseSession = u.AddBool("ReuseSession", true,
		"When logging in as the same user twice, restore the original session, rather than create a new one")
}

func (c *MainConfig) buildAutologin() {
	a := &c.Autologin
	a.Section = c.AddSection("Autologin")
	a.User = a.AddString("User", "", "Username for autologin session")
	a.Session = a.AddString("Session", "", "Name of session file for autologin session (if empty try last logged in)")
	a.Relogin = a.AddBool("Relogin", false, "Whether sddm should automatically log back into sessions when they exit")
}

func (c *MainConfig) buildX11() {
	x := &c.X11
	x.Section = c.AddSection("X11")
	x.ServerPath = x.AddString("ServerPath", "/usr/bin/X", "Path to X server binary")
	x.ServerArguments = x.AddString("ServerArguments", "-nolisten tcp", "Arguments passed to the X server invocation")
	x.XephyrPath = x.AddString("XephyrPath", "/usr/bin/Xephyr", "Path to Xephyr binary")
	x.SessionDir = x.AddStringList("SessionDir",
		[]string{"/usr/local/share/xsessions", "/usr/share/xsessions"},
		"Comma-separated list of directories containing available X sessions")
	x.SessionCommand = x.AddString("SessionCommand", "/usr/share/sddm/scripts/Xsession",
		"Path to a script to execute when starting the desktop session")
	x.SessionLogFile = x.AddString("SessionLogFile", ".local/share/sddm/xorg-session.log",
		"Path to the user session log file")
	x.DisplayCommand = x.AddString("DisplayCommand", "/usr/share/sddm/scripts/Xsetup",
		"Path to a script to execute when starting the display server")
	x.DisplayStopCommand = x.AddString("DisplayStopCommand", "/usr/share/sddm/scripts/Xstop",
		"Path to a script to execute when stopping the display server")
	x.EnableHiDPI = x.AddBool("EnableHiDPI", false, "Enable Qt's automatic high-DPI scaling")
	x.MinimumVT = x.AddInt("MinimumVT", 1, "The lowest virtual terminal number that will be used.")
}

func (c *MainConfig) buildWayland() {
	w := &c.Wayland
	w.Section = c.AddSection("Wayland")
	w.CompositorCommand = w.AddString("CompositorCommand", "weston --shell=kiosk",
		"Path of the Wayland compositor to execute when starting the greeter")
	w.SessionDir = w.AddStringList("SessionDir",
		[]string{"/usr/local/share/wayland-sessions", "/usr/share/wayland-sessions"},
		"Comma-separated list of directories containing available Wayland sessions")
	w.SessionCommand = w.AddString("SessionCommand", "/usr/share/sddm/scripts/wayland-session",
		"Path to a script to execute when starting the desktop session")
	w.SessionLogFile = w.AddString("SessionLogFile", ".local/share/sddm/wayland-session.log",
		"Path to the user session log file")
	w.EnableHiDPI = w.AddBool("EnableHiDPI", false, "Enable Qt's automatic high-DPI scaling")
}
