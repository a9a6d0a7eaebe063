package source

import "runtime"

// StaticEnumerator serves a fixed set of sources. Tests use it directly,
// and it backs the default enumerator when the platform offers no richer
// discovery.
type StaticEnumerator struct {
	ScreenList []Screen
	WindowList []Window
	// Err, when set, is returned by both enumeration calls.
	Err error
}

// Screens implements Enumerator.
func (e *StaticEnumerator) Screens() ([]Screen, error) {
	if e.Err != nil {
		return nil, e.Err
	}
	return e.ScreenList, nil
}

// Windows implements Enumerator.
func (e *StaticEnumerator) Windows() ([]Window, error) {
	if e.Err != nil {
		return nil, e.Err
	}
	return e.WindowList, nil
}

// Default returns an enumerator exposing the primary desktop as a single
// full-size screen with the platform's default capture input. Window
// enumeration needs a compositor connection and is empty here; the grabber
// still captures whatever is on screen.
func Default(width, height int) Enumerator {
	return &StaticEnumerator{
		ScreenList: []Screen{
			{
				ID:          "0",
				Name:        "Primary Display",
				Bounds:      Rect{Width: width, Height: height},
				Primary:     true,
				DeviceInput: defaultDeviceInput(),
			},
		},
	}
}

// defaultDeviceInput returns the FFmpeg input specifier for the primary
// display on the current platform.
func defaultDeviceInput() string {
	switch runtime.GOOS {
	case "darwin":
		// avfoundation screen devices start after the cameras; "1" is the
		// usual first screen on a single-camera machine
		return "1:none"
	case "windows":
		return "desktop"
	default:
		return ":0.0"
	}
}
