package notifier

import (
	"context"
	"fmt"
	"io"
)

// DryRunNotifier prints the digest that would be sent without delivering it.
type DryRunNotifier struct {
	out io.Writer
}

// NewDryRunNotifier creates a dry-run notifier writing to out.
func NewDryRunNotifier(out io.Writer) *DryRunNotifier {
	return &DryRunNotifier{out: out}
}

func (n *DryRunNotifier) Name() string { return "dry-run" }

// Notify prints the message body that would be posted.
func (n *DryRunNotifier) Notify(_ context.Context, d *Digest) error {
	fmt.Fprintf(n.out, "--- %s: %d courts ---\n", d.Title, len(d.Groups))
	fmt.Fprintln(n.out, d.Text())
	return nil
}
