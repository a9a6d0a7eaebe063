// Package source describes recordable capture sources: whole screens and
// individual windows. It resolves a requested source into the screen and
// crop region the encoder needs.
package source

import (
	"fmt"

	"github.com/clipforge/clipforge/internal/errors"
)

// Kind distinguishes source types.
type Kind string

const (
	KindScreen Kind = "screen"
	KindWindow Kind = "window"
	KindWebcam Kind = "webcam"
)

// Rect is a rectangle in global desktop coordinates.
type Rect struct {
	X, Y          int
	Width, Height int
}

// IsZero reports whether the rectangle has no size.
func (r Rect) IsZero() bool {
	return r.Width == 0 && r.Height == 0
}

// Contains reports whether the point lies inside the rectangle.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.Width && y >= r.Y && y < r.Y+r.Height
}

// Center returns the rectangle's center point.
func (r Rect) Center() (int, int) {
	return r.X + r.Width/2, r.Y + r.Height/2
}

// Screen is a recordable display.
type Screen struct {
	// ID is the platform display identifier.
	ID string
	// Name is a human-readable label, e.g. "Built-in Retina Display".
	Name string
	// Bounds is the screen's position and size on the global desktop.
	Bounds Rect
	// Primary marks the main display.
	Primary bool
	// DeviceInput is the FFmpeg input specifier for capturing this screen.
	DeviceInput string
}

// Window is a recordable application window.
type Window struct {
	// ID is the platform window identifier.
	ID string
	// Title is the window title.
	Title string
	// App is the owning application name.
	App string
	// Bounds is the window's position and size on the global desktop.
	Bounds Rect
}

// String implements fmt.Stringer for log output.
func (w Window) String() string {
	return fmt.Sprintf("%s (%s)", w.Title, w.App)
}

// Enumerator lists the sources available for capture. Implementations are
// platform specific; tests use a fixture-backed one.
type Enumerator interface {
	// Screens returns all connected displays. The primary display is first.
	Screens() ([]Screen, error)
	// Windows returns all visible application windows.
	Windows() ([]Window, error)
}

// Placement is a resolved capture target: which screen to grab and what
// region of it, in screen-local coordinates. A zero Crop means full screen.
type Placement struct {
	Screen Screen
	Crop   Rect
}

// ResolveScreen finds a screen by ID. An empty ID selects the primary
// display. Returns a HardwareError when the screen does not exist.
func ResolveScreen(enum Enumerator, screenID string) (Placement, error) {
	screens, err := enum.Screens()
	if err != nil {
		return Placement{}, errors.Wrap(err, "failed to enumerate screens")
	}
	if len(screens) == 0 {
		return Placement{}, errors.NewHardwareError("display")
	}

	if screenID == "" {
		for _, s := range screens {
			if s.Primary {
				return Placement{Screen: s}, nil
			}
		}
		return Placement{Screen: screens[0]}, nil
	}

	for _, s := range screens {
		if s.ID == screenID {
			return Placement{Screen: s}, nil
		}
	}
	return Placement{}, errors.NewHardwareError(fmt.Sprintf("screen %s", screenID))
}

// ResolveWindow maps a window onto the screen containing its center and
// computes the crop rectangle in that screen's coordinates. Parts of the
// window hanging off the screen edge are clipped. When the window is gone,
// the fallback is the primary screen full-frame.
func ResolveWindow(enum Enumerator, windowID string) (Placement, error) {
	windows, err := enum.Windows()
	if err != nil {
		return Placement{}, errors.Wrap(err, "failed to enumerate windows")
	}

	var target *Window
	for i := range windows {
		if windows[i].ID == windowID {
			target = &windows[i]
			break
		}
	}
	if target == nil {
		// Window closed between selection and start; fall back to the
		// primary screen rather than failing the recording.
		return ResolveScreen(enum, "")
	}

	screens, err := enum.Screens()
	if err != nil {
		return Placement{}, errors.Wrap(err, "failed to enumerate screens")
	}

	cx, cy := target.Bounds.Center()
	var host *Screen
	for i := range screens {
		if screens[i].Bounds.Contains(cx, cy) {
			host = &screens[i]
			break
		}
	}
	if host == nil {
		// Center is off every screen; pick the primary
		for i := range screens {
			if screens[i].Primary {
				host = &screens[i]
				break
			}
		}
		if host == nil && len(screens) > 0 {
			host = &screens[0]
		}
		if host == nil {
			return Placement{}, errors.NewHardwareError("display")
		}
	}

	crop := clipToScreen(target.Bounds, host.Bounds)
	if crop.Width <= 0 || crop.Height <= 0 {
		return Placement{Screen: *host}, nil
	}
	return Placement{Screen: *host, Crop: crop}, nil
}

// clipToScreen converts window bounds to screen-local coordinates, clipped
// to the screen.
func clipToScreen(win, screen Rect) Rect {
	x1 := max(win.X, screen.X)
	y1 := max(win.Y, screen.Y)
	x2 := min(win.X+win.Width, screen.X+screen.Width)
	y2 := min(win.Y+win.Height, screen.Y+screen.Height)

	return Rect{
		X:      x1 - screen.X,
		Y:      y1 - screen.Y,
		Width:  x2 - x1,
		Height: y2 - y1,
	}
}
