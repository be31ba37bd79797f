package commands

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ccollicutt/chatstat/pkg/parser"
	"github.com/ccollicutt/chatstat/pkg/webhook"
)

func TestRunAnalyze_Text(t *testing.T) {
	req := require.New(t)

	// Given a transcript with a notice and six messages
	path := writeFile(t, "chat.txt", transcript)

	// When analyzing it without color
	out, _, err := execute(t, NewAnalyzeCommand(), "--no-color", path)

	// Then the full report is printed and the run succeeds
	req.NoError(err)
	req.Equal(ExitOK, ExitCode)
	for _, want := range []string{"=== Chat Report ===", "Messages:      6", "Participants:  3", "🥇", "Agosto 2023"} {
		req.Contains(out, want)
	}
}

func TestRunAnalyze_Quiet(t *testing.T) {
	path := writeFile(t, "chat.txt", transcript)

	out, _, err := execute(t, NewAnalyzeCommand(), "-q", path)
	require.NoError(t, err)
	require.Equal(t, "chatstat: 6 messages from 3 participants, 4 emojis, 1 multimedia\n", out)
}

func TestRunAnalyze_JSON(t *testing.T) {
	path := writeFile(t, "chat.txt", transcript)

	out, _, err := execute(t, NewAnalyzeCommand(), "-o", "json", path)
	require.NoError(t, err)

	var report struct {
		Overview struct {
			Messages      int `json:"messages"`
			SystemNotices int `json:"system_notices"`
		} `json:"overview"`
		Senders []struct {
			Sender string `json:"sender"`
		} `json:"senders"`
		Metadata struct {
			Source string `json:"source"`
			Locale string `json:"locale"`
		} `json:"metadata"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	require.Equal(t, 6, report.Overview.Messages)
	require.Equal(t, 1, report.Overview.SystemNotices)
	require.Equal(t, "Ana", report.Senders[0].Sender)
	require.Equal(t, path, report.Metadata.Source)
	require.Equal(t, "es", report.Metadata.Locale)
}

func TestRunAnalyze_Filters(t *testing.T) {
	path := writeFile(t, "chat.txt", transcript)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"sender", []string{"--sender", "Ana"}, "3 messages from 1 participants"},
		{"two senders", []string{"--sender", "Ana", "--sender", "Bea"}, "4 messages from 2 participants"},
		{"since", []string{"--since", "2023-08-17"}, "3 messages from 3 participants"},
		{"until covers the whole day", []string{"--until", "2023-08-15"}, "2 messages from 2 participants"},
		{"range", []string{"--since", "2023-08-16", "--until", "2023-08-17"}, "3 messages from 3 participants"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"-q"}, tt.args...)
			out, _, err := execute(t, NewAnalyzeCommand(), append(args, path)...)
			require.NoError(t, err)
			require.Contains(t, out, tt.want)
		})
	}
}

func TestRunAnalyze_TopFromConfig(t *testing.T) {
	path := writeFile(t, "chat.txt", transcript)
	configPath := writeFile(t, "chatstat.yaml", "report:\n  top_senders: 1\n")

	out, _, err := execute(t, NewAnalyzeCommand(), "--config", configPath, "--no-color", path)
	require.NoError(t, err)
	require.Contains(t, out, "🥇")
	require.NotContains(t, out, "🥈")

	// --top overrides the file
	out, _, err = execute(t, NewAnalyzeCommand(), "--config", configPath, "--top", "2", "--no-color", path)
	require.NoError(t, err)
	require.Contains(t, out, "🥈")
	require.NotContains(t, out, "🥉")
}

func TestRunAnalyze_Stdin(t *testing.T) {
	cmd := NewAnalyzeCommand()
	cmd.SetIn(strings.NewReader(transcript))

	out, _, err := execute(t, cmd, "-q", "-")
	require.NoError(t, err)
	require.Contains(t, out, "6 messages")
}

func TestRunAnalyze_EmptyResult(t *testing.T) {
	req := require.New(t)

	// Given a file with no transcript line
	path := writeFile(t, "notes.txt", "shopping list\nmilk\n")

	// When analyzing it
	out, stderr, err := execute(t, NewAnalyzeCommand(), path)

	// Then nothing is reported and the exit code flags the empty result
	req.NoError(err)
	req.Equal(ExitEmpty, ExitCode)
	req.Empty(out)
	req.Contains(stderr, "No messages extracted")
	req.Contains(stderr, "unrecognized: 2")
	req.Contains(stderr, "chatstat diagnose")
}

func TestRunAnalyze_FilteredToNothing(t *testing.T) {
	path := writeFile(t, "chat.txt", transcript)

	_, stderr, err := execute(t, NewAnalyzeCommand(), "--since", "2024-01-01", path)
	require.NoError(t, err)
	require.Equal(t, ExitEmpty, ExitCode)
	require.Contains(t, stderr, "filtered: 7")
}

func TestRunAnalyze_MissingFile(t *testing.T) {
	_, _, err := execute(t, NewAnalyzeCommand(), "/nonexistent/chat.txt")
	require.ErrorIs(t, err, parser.ErrResourceNotFound)
}

func TestRunAnalyze_InvalidFlags(t *testing.T) {
	path := writeFile(t, "chat.txt", transcript)

	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"output", []string{"-o", "xml"}, "unknown output format"},
		{"top", []string{"--top", "-1"}, "invalid --top"},
		{"since", []string{"--since", "last week"}, "invalid --since"},
		{"trigger", []string{"--webhook-trigger", "sometimes"}, "invalid --webhook-trigger"},
		{"config", []string{"--config", "/nonexistent/chatstat.yaml"}, "loading config"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := execute(t, NewAnalyzeCommand(), append(tt.args, path)...)
			require.Error(t, err)
			require.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

type capturedRequest struct {
	Auth     string
	Delivery string
	Body     []byte
}

func newWebhookServer(t *testing.T, status int) (*httptest.Server, func() []capturedRequest) {
	t.Helper()
	var mu sync.Mutex
	var got []capturedRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		mu.Lock()
		got = append(got, capturedRequest{
			Auth:     r.Header.Get("Authorization"),
			Delivery: r.Header.Get(webhook.DeliveryHeader),
			Body:     body,
		})
		mu.Unlock()
		w.WriteHeader(status)
	}))
	t.Cleanup(server.Close)

	return server, func() []capturedRequest {
		mu.Lock()
		defer mu.Unlock()
		return append([]capturedRequest(nil), got...)
	}
}

func TestRunAnalyze_WebhookCLI(t *testing.T) {
	req := require.New(t)
	server, requests := newWebhookServer(t, http.StatusOK)
	path := writeFile(t, "chat.txt", transcript)

	_, stderr, err := execute(t, NewAnalyzeCommand(), "-q", "--webhook-url", server.URL, "--webhook-token", "secret", path)

	req.NoError(err)
	req.Contains(stderr, "Webhook cli: sent (200")
	got := requests()
	req.Len(got, 1)
	req.Equal("Bearer secret", got[0].Auth)
	req.NotEmpty(got[0].Delivery)

	var payload struct {
		Overview struct {
			Messages int `json:"messages"`
		} `json:"overview"`
	}
	req.NoError(json.Unmarshal(got[0].Body, &payload))
	req.Equal(6, payload.Overview.Messages)
}

func TestRunAnalyze_WebhookNever(t *testing.T) {
	server, requests := newWebhookServer(t, http.StatusOK)
	path := writeFile(t, "chat.txt", transcript)

	_, stderr, err := execute(t, NewAnalyzeCommand(), "-q", "--webhook-url", server.URL, "--webhook-trigger", "never", path)
	require.NoError(t, err)
	require.Empty(t, requests())
	require.NotContains(t, stderr, "Webhook")
}

func TestRunAnalyze_WebhookFromConfig(t *testing.T) {
	server, requests := newWebhookServer(t, http.StatusInternalServerError)
	path := writeFile(t, "chat.txt", transcript)
	t.Setenv("CHATSTAT_TEST_TOKEN", "from-env")
	configPath := writeFile(t, "chatstat.yaml", `webhooks:
  - name: dashboard
    url: `+server.URL+`
    token: ${CHATSTAT_TEST_TOKEN}
    trigger: always
`)

	_, stderr, err := execute(t, NewAnalyzeCommand(), "-c", configPath, "-q", path)

	// A failed delivery does not fail the analysis
	require.NoError(t, err)
	require.Equal(t, ExitOK, ExitCode)
	require.Contains(t, stderr, "Webhook dashboard: failed (webhook returned status 500)")
	got := requests()
	require.Len(t, got, 1)
	require.Equal(t, "Bearer from-env", got[0].Auth)
}
