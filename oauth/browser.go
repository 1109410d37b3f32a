package oauth

import (
	"os/exec"
	"runtime"
)

// openBrowser opens the consent URL in the user's default browser. A
// failure here is the CLI equivalent of a blocked popup and fails the
// attempt immediately.
func openBrowser(url string) error {
	switch runtime.GOOS {
	case "darwin":
		return exec.Command("open", url).Start()
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", url).Start()
	default:
		return exec.Command("xdg-open", url).Start()
	}
}
