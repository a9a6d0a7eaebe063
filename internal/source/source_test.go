package source

import (
	"testing"

	"github.com/clipforge/clipforge/internal/errors"
)

func twoScreenSetup() *StaticEnumerator {
	return &StaticEnumerator{
		ScreenList: []Screen{
			{ID: "main", Name: "Main", Bounds: Rect{0, 0, 1920, 1080}, Primary: true},
			{ID: "side", Name: "Side", Bounds: Rect{1920, 0, 1280, 1024}},
		},
		WindowList: []Window{
			{ID: "w1", Title: "Editor", App: "Code", Bounds: Rect{100, 100, 800, 600}},
			{ID: "w2", Title: "Browser", App: "Firefox", Bounds: Rect{2000, 50, 1000, 700}},
			{ID: "w3", Title: "Straddler", App: "Term", Bounds: Rect{1500, 200, 800, 400}},
		},
	}
}

func TestResolveScreenPrimaryDefault(t *testing.T) {
	p, err := ResolveScreen(twoScreenSetup(), "")
	if err != nil {
		t.Fatalf("ResolveScreen failed: %v", err)
	}
	if p.Screen.ID != "main" {
		t.Errorf("empty ID should select the primary screen, got %q", p.Screen.ID)
	}
	if !p.Crop.IsZero() {
		t.Errorf("full screen placement should have no crop, got %+v", p.Crop)
	}
}

func TestResolveScreenByID(t *testing.T) {
	p, err := ResolveScreen(twoScreenSetup(), "side")
	if err != nil {
		t.Fatalf("ResolveScreen failed: %v", err)
	}
	if p.Screen.Name != "Side" {
		t.Errorf("Screen = %+v", p.Screen)
	}
}

func TestResolveScreenUnknownID(t *testing.T) {
	_, err := ResolveScreen(twoScreenSetup(), "ghost")
	var hwErr *errors.HardwareError
	if !errors.As(err, &hwErr) {
		t.Errorf("unknown screen should return HardwareError, got %v", err)
	}
}

func TestResolveWindowOnPrimary(t *testing.T) {
	p, err := ResolveWindow(twoScreenSetup(), "w1")
	if err != nil {
		t.Fatalf("ResolveWindow failed: %v", err)
	}
	if p.Screen.ID != "main" {
		t.Errorf("window on primary resolved to screen %q", p.Screen.ID)
	}
	want := Rect{X: 100, Y: 100, Width: 800, Height: 600}
	if p.Crop != want {
		t.Errorf("Crop = %+v, want %+v", p.Crop, want)
	}
}

func TestResolveWindowOnSecondScreen(t *testing.T) {
	p, err := ResolveWindow(twoScreenSetup(), "w2")
	if err != nil {
		t.Fatalf("ResolveWindow failed: %v", err)
	}
	if p.Screen.ID != "side" {
		t.Errorf("resolved to screen %q, want side", p.Screen.ID)
	}
	// Window at global x=2000 is at x=80 in the side screen's coordinates
	if p.Crop.X != 80 || p.Crop.Y != 50 {
		t.Errorf("Crop origin = (%d, %d), want (80, 50)", p.Crop.X, p.Crop.Y)
	}
}

func TestResolveWindowStraddlingScreens(t *testing.T) {
	// w3 spans x=1500..2300; its center (1900) is on the main screen, so it
	// is clipped to the main screen's right edge
	p, err := ResolveWindow(twoScreenSetup(), "w3")
	if err != nil {
		t.Fatalf("ResolveWindow failed: %v", err)
	}
	if p.Screen.ID != "main" {
		t.Errorf("resolved to screen %q, want main", p.Screen.ID)
	}
	if p.Crop.X != 1500 || p.Crop.Width != 420 {
		t.Errorf("Crop = %+v, want clipped to x=1500 width=420", p.Crop)
	}
}

func TestResolveWindowGoneFallsBackToPrimary(t *testing.T) {
	p, err := ResolveWindow(twoScreenSetup(), "closed-window")
	if err != nil {
		t.Fatalf("ResolveWindow fallback failed: %v", err)
	}
	if p.Screen.ID != "main" {
		t.Errorf("fallback screen = %q, want main", p.Screen.ID)
	}
	if !p.Crop.IsZero() {
		t.Errorf("fallback should be full screen, got crop %+v", p.Crop)
	}
}

func TestResolveScreenNoDisplays(t *testing.T) {
	_, err := ResolveScreen(&StaticEnumerator{}, "")
	var hwErr *errors.HardwareError
	if !errors.As(err, &hwErr) {
		t.Errorf("no displays should return HardwareError, got %v", err)
	}
}

func TestRectHelpers(t *testing.T) {
	r := Rect{X: 10, Y: 10, Width: 100, Height: 50}

	if !r.Contains(10, 10) || !r.Contains(109, 59) {
		t.Error("corner points inside bounds should be contained")
	}
	if r.Contains(110, 60) {
		t.Error("exclusive far edge should not be contained")
	}

	cx, cy := r.Center()
	if cx != 60 || cy != 35 {
		t.Errorf("Center = (%d, %d), want (60, 35)", cx, cy)
	}
}
