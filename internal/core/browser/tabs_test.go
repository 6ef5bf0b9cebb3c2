package browser

import (
	"testing"
)

func TestOptions(t *testing.T) {
	t.Run("zero value launches locally", func(t *testing.T) {
		opts := Options{}
		if opts.RemoteURL != "" {
			t.Error("RemoteURL should default to empty")
		}
		if opts.ChromePath != "" {
			t.Error("ChromePath should default to empty")
		}
	})

	t.Run("remote endpoint", func(t *testing.T) {
		opts := Options{RemoteURL: "http://127.0.0.1:9222"}
		if opts.RemoteURL != "http://127.0.0.1:9222" {
			t.Errorf("RemoteURL = %q, want http://127.0.0.1:9222", opts.RemoteURL)
		}
	})

	t.Run("custom chrome path", func(t *testing.T) {
		opts := Options{ChromePath: "/custom/chrome"}
		if opts.ChromePath != "/custom/chrome" {
			t.Errorf("ChromePath = %q, want /custom/chrome", opts.ChromePath)
		}
	})
}

func TestOpener(t *testing.T) {
	t.Run("starts disconnected", func(t *testing.T) {
		o := NewOpener(Options{})
		if o.browserCtx != nil {
			t.Error("expected no browser context before first use")
		}
	})

	t.Run("close before connect is a no-op", func(t *testing.T) {
		o := NewOpener(Options{})
		o.Close()
		o.Close()
	})
}
