package notifier

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// TalkNotifier posts the digest to a Nextcloud Talk conversation through the
// Talk bot API. Every request is signed with HMAC-SHA256 over the random
// value concatenated with the message, per the bot protocol.
type TalkNotifier struct {
	client       *http.Client
	baseURL      string
	botToken     string
	sharedSecret string
}

// NewTalkNotifier creates a Talk bot notifier for the conversation token.
func NewTalkNotifier(baseURL, botToken, sharedSecret string) *TalkNotifier {
	return &TalkNotifier{
		client:       &http.Client{Timeout: 10 * time.Second},
		baseURL:      baseURL,
		botToken:     botToken,
		sharedSecret: sharedSecret,
	}
}

func (n *TalkNotifier) Name() string { return "nextcloud-talk" }

type talkPayload struct {
	Message     string `json:"message"`
	ReplyTo     *int   `json:"replyTo"`
	ReferenceID string `json:"referenceId"`
	Silent      bool   `json:"silent"`
}

// Notify sends the digest text as one chat message.
func (n *TalkNotifier) Notify(ctx context.Context, d *Digest) error {
	if d.Empty() {
		return nil
	}
	message := d.Text()

	reference, err := randomHex(16)
	if err != nil {
		return fmt.Errorf("generating reference id: %w", err)
	}

	body, err := json.Marshal(talkPayload{
		Message:     message,
		ReplyTo:     nil,
		ReferenceID: reference,
		Silent:      false,
	})
	if err != nil {
		return fmt.Errorf("encoding message: %w", err)
	}

	random, err := randomBase64(32)
	if err != nil {
		return fmt.Errorf("generating random value: %w", err)
	}

	endpoint := fmt.Sprintf("%s/ocs/v2.php/apps/spreed/api/v1/bot/%s/message", n.baseURL, n.botToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("OCS-APIRequest", "true")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Nextcloud-Talk-Bot-Random", random)
	req.Header.Set("X-Nextcloud-Talk-Bot-Signature", n.sign(random, message))

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("posting message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("talk API returned status %d", resp.StatusCode)
	}
	return nil
}

// sign computes the hex HMAC-SHA256 of random||message under the bot's
// shared secret.
func (n *TalkNotifier) sign(random, message string) string {
	mac := hmac.New(sha256.New, []byte(n.sharedSecret))
	mac.Write([]byte(random + message))
	return hex.EncodeToString(mac.Sum(nil))
}

func randomBase64(size int) (string, error) {
	buf := make([]byte, size)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf), nil
}

func randomHex(size int) (string, error) {
	buf := make([]byte, size)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
