package browser

import (
	"fmt"
	"net/url"
	"os/exec"
	"runtime"
)

// Open hands a target to the platform opener. Accepted targets are
// http(s) URLs, file:// URLs and plain local paths (exported digest
// pages); anything else is refused so nothing shell-interpretable
// sneaks through.
func Open(target string) error {
	if target == "" {
		return fmt.Errorf("nothing to open")
	}
	// A one-letter scheme is a Windows drive path, not a protocol.
	if u, err := url.Parse(target); err == nil && len(u.Scheme) > 1 {
		switch u.Scheme {
		case "http", "https", "file":
		default:
			return fmt.Errorf("refusing to open scheme %q (http, https or file only)", u.Scheme)
		}
	}

	switch runtime.GOOS {
	case "darwin":
		return exec.Command("open", target).Start()
	case "linux":
		return exec.Command("xdg-open", target).Start()
	case "windows":
		// Use rundll32 instead of cmd /c start to avoid shell interpretation
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", target).Start()
	default:
		return exec.Command("xdg-open", target).Start()
	}
}
