package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const messengerSender = "court-watcher"

// MessengerNotifier queues the digest text on a messenger relay API.
type MessengerNotifier struct {
	client  *http.Client
	baseURL string
	room    string
}

// NewMessengerNotifier creates a notifier posting to baseURL/message/queue,
// addressed to the given chat room.
func NewMessengerNotifier(baseURL, room string) *MessengerNotifier {
	return &MessengerNotifier{
		client:  &http.Client{Timeout: 10 * time.Second},
		baseURL: baseURL,
		room:    room,
	}
}

func (n *MessengerNotifier) Name() string { return "messenger" }

type messengerPayload struct {
	Room   string `json:"room"`
	Msg    string `json:"msg"`
	Sender string `json:"sender"`
}

// Notify enqueues one message carrying the whole digest.
func (n *MessengerNotifier) Notify(ctx context.Context, d *Digest) error {
	body, err := json.Marshal(messengerPayload{
		Room:   n.room,
		Msg:    d.Text(),
		Sender: messengerSender,
	})
	if err != nil {
		return fmt.Errorf("encoding message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.baseURL+"/message/queue", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("posting message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("messenger API returned status %d", resp.StatusCode)
	}
	return nil
}
