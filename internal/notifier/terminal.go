package notifier

import (
	"fmt"
	"io"
	"strings"
	"sync"
)

// Notifier delivers rendered messages.
type Notifier interface {
	Send(text string) error
}

// WriterNotifier writes each message to an io.Writer followed by a newline.
type WriterNotifier struct {
	mu sync.Mutex
	w  io.Writer
}

// NewWriterNotifier creates a notifier writing to w.
func NewWriterNotifier(w io.Writer) *WriterNotifier {
	return &WriterNotifier{w: w}
}

// Send writes text to the underlying writer.
func (n *WriterNotifier) Send(text string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if _, err := io.WriteString(n.w, strings.TrimRight(text, "\n")+"\n"); err != nil {
		return fmt.Errorf("write notice: %w", err)
	}
	return nil
}

// SendNotice renders and sends a notice.
func SendNotice(n Notifier, notice Notice) error {
	return n.Send(FormatNotice(notice))
}

// NoopNotifier discards every message.
type NoopNotifier struct{}

func (NoopNotifier) Send(string) error { return nil }
