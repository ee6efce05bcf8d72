package sim

import (
	"testing"

	"github.com/statboard/statboard/pkg/ui/backend"
	"github.com/statboard/statboard/pkg/ui/terminal"
)

func TestCaptureAndFindText(t *testing.T) {
	be := New(20, 5)
	if err := be.Init(); err != nil {
		t.Fatal(err)
	}
	defer be.Fini()

	for i, r := range "hello" {
		be.SetContent(3+i, 2, r, nil, backend.DefaultStyle())
	}
	be.Show()

	x, y := be.FindText("hello")
	if x != 3 || y != 2 {
		t.Fatalf("FindText = (%d, %d), want (3, 2)", x, y)
	}
	if x, y := be.FindText("absent"); x != -1 || y != -1 {
		t.Fatalf("FindText(absent) = (%d, %d), want (-1, -1)", x, y)
	}

	region := be.CaptureRegion(3, 2, 5, 1)
	if region != "hello" {
		t.Fatalf("region = %q", region)
	}
}

func TestInjectKeyRoundTrip(t *testing.T) {
	be := New(10, 3)
	if err := be.Init(); err != nil {
		t.Fatal(err)
	}
	defer be.Fini()

	be.InjectKeyRune('q')
	ev := be.PollEvent()

	key, ok := ev.(terminal.KeyEvent)
	if !ok {
		t.Fatalf("event type %T, want KeyEvent", ev)
	}
	if key.Key != terminal.KeyRune || key.Rune != 'q' {
		t.Fatalf("event = %+v", key)
	}
}

func TestInjectResizeRoundTrip(t *testing.T) {
	be := New(10, 3)
	if err := be.Init(); err != nil {
		t.Fatal(err)
	}
	defer be.Fini()

	be.InjectResize(42, 17)

	for {
		ev := be.PollEvent()
		if ev == nil {
			t.Fatal("screen closed before resize event arrived")
		}
		if rs, ok := ev.(terminal.ResizeEvent); ok {
			if rs.Width != 42 || rs.Height != 17 {
				t.Fatalf("resize = %+v", rs)
			}
			return
		}
	}
}
