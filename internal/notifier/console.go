package notifier

import (
	"fmt"
	"io"
	"sync"

	"BTCPulse/internal/model"
)

// ConsoleNotifier writes one formatted line per snapshot.
type ConsoleNotifier struct {
	Out   io.Writer
	Color bool

	mu sync.Mutex
}

// NewConsoleNotifier creates a notifier writing to out.
func NewConsoleNotifier(out io.Writer, colorize bool) *ConsoleNotifier {
	return &ConsoleNotifier{Out: out, Color: colorize}
}

// Notify writes the snapshot line. The whole line is written in one call.
func (n *ConsoleNotifier) Notify(s *model.Snapshot) error {
	if s == nil {
		return fmt.Errorf("notify: nil snapshot")
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	if _, err := io.WriteString(n.Out, FormatLine(s, n.Color)+"\n"); err != nil {
		return fmt.Errorf("write line: %w", err)
	}
	return nil
}
