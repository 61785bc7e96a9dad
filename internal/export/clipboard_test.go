package export

import (
	"errors"
	"testing"

	"github.com/j-veylop/token-usage-tui/internal/models"
)

type fakeClipboard struct {
	err  error
	text string
}

func (f *fakeClipboard) WriteAll(text string) error {
	if f.err != nil {
		return f.err
	}
	f.text = text
	return nil
}

func TestCopy(t *testing.T) {
	c := &fakeClipboard{}
	if err := Copy(c, "hello"); err != nil {
		t.Fatalf("Copy() error = %v", err)
	}
	if c.text != "hello" {
		t.Errorf("clipboard = %q", c.text)
	}
}

func TestCopy_Failure(t *testing.T) {
	c := &fakeClipboard{err: errors.New("xclip missing")}
	if err := Copy(c, "hello"); !errors.Is(err, models.ErrClipboardUnavailable) {
		t.Errorf("Copy() error = %v, want ErrClipboardUnavailable", err)
	}
	if err := Copy(nil, "hello"); !errors.Is(err, models.ErrClipboardUnavailable) {
		t.Errorf("Copy(nil) error = %v, want ErrClipboardUnavailable", err)
	}
}
