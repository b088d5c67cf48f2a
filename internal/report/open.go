package report

import (
	"fmt"
	"os/exec"
	"runtime"
)

// Opener hands a URL or file path to something that can display it.
type Opener func(target string) error

// OpenWithSystem opens target with the platform's default handler. It
// returns once the handler has been started.
func OpenWithSystem(target string) error {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", target)
	case "linux", "freebsd", "openbsd", "netbsd":
		cmd = exec.Command("xdg-open", target)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", target)
	default:
		return fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}

	if err := cmd.Start(); err != nil {
		return err
	}
	// Reap the handler so it does not linger as a zombie.
	go func() { _ = cmd.Wait() }()
	return nil
}
