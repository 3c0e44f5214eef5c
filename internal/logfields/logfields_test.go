package logfields

import (
	"errors"
	"log/slog"
	"testing"
	"time"
)

// TestHelperKeyNames verifies string-based helper key/value stability.
func TestHelperKeyNames(t *testing.T) {
	cases := []struct {
		name    string
		attrKey string
		attrVal string
		attr    slog.Attr
	}{
		{"Path", KeyPath, "/src/index.md", Path("/src/index.md")},
		{"Target", KeyTarget, "/out/index.html", Target("/out/index.html")},
		{"Area", KeyArea, "source", Area("source")},
		{"Locale", KeyLocale, "es", Locale("es")},
		{"Stage", KeyStage, "render", Stage("render")},
		{"Event", KeyEvent, "WRITE", Event("WRITE")},
		{"Method", KeyMethod, "GET", Method("GET")},
		{"URLPath", KeyURLPath, "/docs/", URLPath("/docs/")},
		{"RemoteAddr", KeyRemoteAddr, "127.0.0.1", RemoteAddr("127.0.0.1")},
	}
	for _, c := range cases {
		if c.attr.Key != c.attrKey {
			t.Fatalf("%s key mismatch: got %s want %s", c.name, c.attr.Key, c.attrKey)
		}
		if c.attr.Value.String() != c.attrVal {
			t.Fatalf("%s value mismatch: got %s want %s", c.name, c.attr.Value.String(), c.attrVal)
		}
	}
}

func TestNumericHelpers(t *testing.T) {
	if a := Port(5001); a.Key != KeyPort || a.Value.Int64() != 5001 {
		t.Fatalf("unexpected port attr: %v", a)
	}
	if a := Failures(2); a.Key != KeyFailures || a.Value.Int64() != 2 {
		t.Fatalf("unexpected failures attr: %v", a)
	}
	if a := Since(time.Now().Add(-10 * time.Millisecond)); a.Key != KeyDurationMS || a.Value.Float64() < 10 {
		t.Fatalf("unexpected duration attr: %v", a)
	}
}

func TestError(t *testing.T) {
	if a := Error(nil); a.Value.String() != "" {
		t.Fatalf("nil error should be empty, got %q", a.Value.String())
	}
	if a := Error(errors.New("boom")); a.Key != KeyError || a.Value.String() != "boom" {
		t.Fatalf("unexpected error attr: %v", a)
	}
}
