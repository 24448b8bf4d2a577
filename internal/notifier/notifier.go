// Package notifier delivers newly-available slot digests to the configured
// outbound channels.
package notifier

import (
	"context"

	"github.com/sirupsen/logrus"
)

// Notifier posts one availability digest to a single channel.
type Notifier interface {
	Notify(ctx context.Context, d *Digest) error
	Name() string
}

// FanOut sends the digest to every notifier. A failing channel is logged and
// does not block delivery to the others.
func FanOut(ctx context.Context, notifiers []Notifier, d *Digest, log logrus.FieldLogger) {
	for _, n := range notifiers {
		if err := n.Notify(ctx, d); err != nil {
			log.WithField("channel", n.Name()).WithError(err).Error("notification failed")
		}
	}
}
