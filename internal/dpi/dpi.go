// Package dpi resolves the integer display scale used to size drawing.
package dpi

import (
	"os"
	"os/exec"
	"strconv"
	"strings"
)

// Resolver looks up the desktop scale hint. The zero value queries the
// real environment.
type Resolver struct {
	// Getenv defaults to os.Getenv.
	Getenv func(string) string
	// Gsettings returns the output of
	// `gsettings get org.gnome.desktop.interface scaling-factor`.
	Gsettings func() (string, error)
}

// Resolve returns configured when it is set, otherwise the first positive
// hint from GDK_SCALE or GNOME's scaling-factor, otherwise 1.
func (r Resolver) Resolve(configured *int) int {
	if configured != nil && *configured >= 1 {
		return *configured
	}
	getenv := r.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}
	if s, ok := parseScale(getenv("GDK_SCALE")); ok {
		return s
	}
	gsettings := r.Gsettings
	if gsettings == nil {
		gsettings = queryGsettings
	}
	if out, err := gsettings(); err == nil {
		if f := strings.Fields(out); len(f) > 0 {
			if s, ok := parseScale(f[len(f)-1]); ok {
				return s
			}
		}
	}
	return 1
}

// Resolve uses the real environment.
func Resolve(configured *int) int {
	return Resolver{}.Resolve(configured)
}

func parseScale(s string) (int, bool) {
	n, err := strconv.ParseUint(strings.TrimSpace(s), 10, 16)
	if err != nil || n == 0 {
		return 0, false
	}
	return int(n), true
}

func queryGsettings() (string, error) {
	out, err := exec.Command("gsettings", "get", "org.gnome.desktop.interface", "scaling-factor").Output()
	if err != nil {
		return "", err
	}
	return string(out), nil
}
