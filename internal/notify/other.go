//go:build !darwin && !linux

package notify

// Unsupported platforms fall back to the no-op notifier.
func newPlatformNotifier() Notifier {
	return noopNotifier{}
}
