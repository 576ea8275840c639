//go:build linux

package notify

import (
	"context"
	"fmt"
	"os/exec"
)

// linuxNotifier implements notifications for Linux using notify-send.
type linuxNotifier struct{}

func newPlatformNotifier() Notifier {
	return linuxNotifier{}
}

// Send runs notify-send. Sound depends on the notification daemon; the
// urgency hint is the closest portable knob.
func (linuxNotifier) Send(ctx context.Context, title, message string, sound bool) error {
	args := []string{"--app-name=bitsy"}
	if sound {
		args = append(args, "--urgency=normal")
	}
	args = append(args, title, message)

	if err := exec.CommandContext(ctx, "notify-send", args...).Run(); err != nil {
		return fmt.Errorf("notify-send failed: %w", err)
	}
	return nil
}

// IsSupported returns true if notify-send is available.
func (linuxNotifier) IsSupported() bool {
	_, err := exec.LookPath("notify-send")
	return err == nil
}
