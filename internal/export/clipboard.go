package export

import (
	"fmt"

	"github.com/atotto/clipboard"

	"github.com/j-veylop/token-usage-tui/internal/models"
)

// Clipboard receives copied text.
type Clipboard interface {
	WriteAll(text string) error
}

// SystemClipboard writes to the OS clipboard.
type SystemClipboard struct{}

// WriteAll implements Clipboard.
func (SystemClipboard) WriteAll(text string) error {
	if clipboard.Unsupported {
		return fmt.Errorf("no clipboard utility found: %w", models.ErrClipboardUnavailable)
	}
	if err := clipboard.WriteAll(text); err != nil {
		return fmt.Errorf("failed to write clipboard: %w: %w", models.ErrClipboardUnavailable, err)
	}
	return nil
}

// Copy writes text to c. On failure the caller keeps the text and should
// offer it for manual copying.
func Copy(c Clipboard, text string) error {
	if c == nil {
		return models.ErrClipboardUnavailable
	}
	if err := c.WriteAll(text); err != nil {
		return fmt.Errorf("%w: %w", models.ErrClipboardUnavailable, err)
	}
	return nil
}
