package notifier

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestTalkNotifySignsRequest(t *testing.T) {
	const secret = "shared-secret"

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/bot/bot-token/message") {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if r.Header.Get("OCS-APIRequest") != "true" {
			t.Error("missing OCS-APIRequest header")
		}

		body, _ := io.ReadAll(r.Body)
		var payload talkPayload
		if err := json.Unmarshal(body, &payload); err != nil {
			t.Fatalf("decoding payload: %v", err)
		}
		if payload.ReferenceID == "" {
			t.Error("referenceId not set")
		}
		if !strings.Contains(payload.Message, "새물공원") {
			t.Errorf("message missing digest title: %q", payload.Message)
		}

		// The signature covers random||message under the shared secret.
		random := r.Header.Get("X-Nextcloud-Talk-Bot-Random")
		mac := hmac.New(sha256.New, []byte(secret))
		mac.Write([]byte(random + payload.Message))
		want := hex.EncodeToString(mac.Sum(nil))
		if got := r.Header.Get("X-Nextcloud-Talk-Bot-Signature"); got != want {
			t.Errorf("signature mismatch: got %q, want %q", got, want)
		}

		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	n := NewTalkNotifier(server.URL, "bot-token", secret)
	if err := n.Notify(context.Background(), BuildDigest("새물공원", sampleSlots())); err != nil {
		t.Fatalf("Notify failed: %v", err)
	}
}

func TestTalkNotifySkipsEmptyDigest(t *testing.T) {
	requested := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requested = true
	}))
	defer server.Close()

	n := NewTalkNotifier(server.URL, "bot-token", "secret")
	d := &Digest{}
	if err := n.Notify(context.Background(), d); err != nil {
		t.Fatalf("Notify failed: %v", err)
	}
	if requested {
		t.Error("empty digest should not produce a request")
	}
}
