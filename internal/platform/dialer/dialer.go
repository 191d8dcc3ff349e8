// Package dialer launches telephone calls through the host platform's URI
// handler. The call is fire-and-forget; no result flows back to the caller
// beyond launch failure.
package dialer

import (
	"fmt"
	"os/exec"
	"runtime"
	"strings"
)

// Dialer initiates a call to a phone number.
type Dialer interface {
	Dial(number string) error
}

// OS opens a tel: URI with the platform opener.
type OS struct{}

func (OS) Dial(number string) error {
	number = strings.TrimSpace(number)
	if number == "" {
		return fmt.Errorf("dial: empty number")
	}
	uri := "tel:" + number

	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", uri)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", uri)
	default:
		cmd = exec.Command("xdg-open", uri)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("dial %s: %w", number, err)
	}
	return nil
}

// Nop records dialed numbers instead of launching anything; used by tests.
type Nop struct {
	Dialed []string
}

func (n *Nop) Dial(number string) error {
	n.Dialed = append(n.Dialed, number)
	return nil
}
