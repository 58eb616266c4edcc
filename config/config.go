// Package config reads the ambient environment surface §6 describes:
// XKB keyboard configuration, the XCursor theme/size exported for X11
// clients, and the search path for the executable init file a backend
// launches at startup.
package config

import (
	"os"
	"strconv"
)

// XKB holds the five XKB_DEFAULT_* variables §6 names, read once at
// startup and handed to whatever keyboard-layout backend is in use.
type XKB struct {
	Model   string
	Layout  string
	Variant string
	Options string
	Rules   string
}

// XKBFromEnv reads XKB_DEFAULT_{MODEL,LAYOUT,VARIANT,OPTIONS,RULES}.
func XKBFromEnv() XKB {
	return XKB{
		Model:   os.Getenv("XKB_DEFAULT_MODEL"),
		Layout:  os.Getenv("XKB_DEFAULT_LAYOUT"),
		Variant: os.Getenv("XKB_DEFAULT_VARIANT"),
		Options: os.Getenv("XKB_DEFAULT_OPTIONS"),
		Rules:   os.Getenv("XKB_DEFAULT_RULES"),
	}
}

// ExportCursorEnv sets XCURSOR_THEME/XCURSOR_SIZE in the compositor's own
// environment so that child processes (including Xwayland) it launches
// inherit them, per §6 ("exported... when the theme is set on the
// default seat").
func ExportCursorEnv(theme string, size int) error {
	if err := os.Setenv("XCURSOR_THEME", theme); err != nil {
		return err
	}
	return os.Setenv("XCURSOR_SIZE", strconv.Itoa(size))
}

// InitSearchPaths returns the ordered candidate locations for the
// executable init file, per §6: $XDG_CONFIG_HOME/waytile/init,
// $HOME/.config/waytile/init, /etc/waytile/init. The first candidate that
// exists and is executable wins.
func InitSearchPaths() []string {
	var paths []string
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		paths = append(paths, xdg+"/waytile/init")
	}
	if home := os.Getenv("HOME"); home != "" {
		paths = append(paths, home+"/.config/waytile/init")
	}
	paths = append(paths, "/etc/waytile/init")
	return paths
}

// FindInit returns the first search path that exists and is executable by
// someone, or "" if none does.
func FindInit() string {
	for _, p := range InitSearchPaths() {
		info, err := os.Stat(p)
		if err != nil || info.IsDir() {
			continue
		}
		if info.Mode()&0o111 != 0 {
			return p
		}
	}
	return ""
}
