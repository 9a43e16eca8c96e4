package window

import (
	"io"
	"log/slog"
	"testing"
	"time"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeClockDetector builds a detector with an injected clock and fetch
// function so cache behavior can be tested without spawning processes.
func fakeClockDetector(answers *[]string) (*Detector, *time.Time) {
	now := time.Unix(1000, 0)
	d := &Detector{
		ttl:    DefaultTTL,
		logger: discardLogger(),
		now:    func() time.Time { return now },
	}
	d.fetch = func() string {
		id := (*answers)[0]
		if len(*answers) > 1 {
			*answers = (*answers)[1:]
		}
		return id
	}
	return d, &now
}

func TestCurrent_CachesWithinTTL(t *testing.T) {
	answers := []string{"firefox", "krita"}
	d, now := fakeClockDetector(&answers)

	if got := d.Current(); got != "firefox" {
		t.Fatalf("first fetch: %q", got)
	}

	// Underlying answer changes, but we are inside the TTL.
	*now = now.Add(50 * time.Millisecond)
	if got := d.Current(); got != "firefox" {
		t.Fatalf("cached fetch: got %q, want firefox", got)
	}

	// Past the TTL the detection runs again.
	*now = now.Add(200 * time.Millisecond)
	if got := d.Current(); got != "krita" {
		t.Fatalf("refetch: got %q, want krita", got)
	}
}

func TestCurrent_FailureCachedAsUnknown(t *testing.T) {
	answers := []string{"", "firefox"}
	d, now := fakeClockDetector(&answers)

	if got := d.Current(); got != "" {
		t.Fatalf("expected unknown window, got %q", got)
	}
	// The failed answer is held for the TTL too, so a broken detector
	// is not retried per keystroke.
	*now = now.Add(10 * time.Millisecond)
	if got := d.Current(); got != "" {
		t.Fatalf("expected cached unknown, got %q", got)
	}
	*now = now.Add(150 * time.Millisecond)
	if got := d.Current(); got != "firefox" {
		t.Fatalf("expected recovery after TTL, got %q", got)
	}
}

func TestTrimWindowID(t *testing.T) {
	cases := map[string]string{
		"firefox\n":          "firefox",
		"  org.kde.krita: \n": "org.kde.krita",
		"firefox:":           "firefox",
		"\n":                 "",
		"a:b":                "a:b",
	}
	for in, want := range cases {
		if got := trimWindowID(in); got != want {
			t.Fatalf("trimWindowID(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestParseSwayTree_FocusedAppID(t *testing.T) {
	tree := `{
		"app_id": null, "focused": false,
		"nodes": [
			{"app_id": "org.mozilla.firefox", "focused": false, "nodes": []},
			{"app_id": null, "focused": false, "nodes": [
				{"app_id": "foot", "focused": true, "nodes": []}
			]}
		]
	}`
	if got := parseSwayTree([]byte(tree)); got != "foot" {
		t.Fatalf("parseSwayTree = %q, want foot", got)
	}
}

func TestParseSwayTree_XWaylandClassFallback(t *testing.T) {
	tree := `{
		"focused": false,
		"floating_nodes": [
			{"focused": true, "window_properties": {"class": "Steam"}}
		]
	}`
	if got := parseSwayTree([]byte(tree)); got != "Steam" {
		t.Fatalf("parseSwayTree = %q, want Steam", got)
	}
}

func TestParseSwayTree_Garbage(t *testing.T) {
	if got := parseSwayTree([]byte("not json")); got != "" {
		t.Fatalf("expected empty id, got %q", got)
	}
}

func TestParseHyprWindow(t *testing.T) {
	out := `{"address": "0x1234", "class": "org.kde.krita", "title": "untitled"}`
	if got := parseHyprWindow([]byte(out)); got != "org.kde.krita" {
		t.Fatalf("parseHyprWindow = %q", got)
	}
	if got := parseHyprWindow([]byte("Invalid command")); got != "" {
		t.Fatalf("expected empty id for non-JSON, got %q", got)
	}
}
