package commands

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func eventLines(t *testing.T, out string) []map[string]any {
	t.Helper()
	var events []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		if line == "" {
			continue
		}
		var e map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &e))
		events = append(events, e)
	}
	return events
}

func TestRunEvents_JSONLines(t *testing.T) {
	req := require.New(t)
	path := writeFile(t, "chat.txt", transcript)

	out, _, err := execute(t, NewEventsCommand(), path)

	req.NoError(err)
	events := eventLines(t, out)
	req.Len(events, 7)
	req.Equal("system", events[0]["kind"])
	req.Equal("Ana", events[1]["sender"])
	req.Equal("multimedia", events[2]["category"])
	req.Equal("deleted", events[3]["category"])
	req.Equal("poll", events[4]["category"])
	req.EqualValues(7, events[6]["line"])
}

func TestRunEvents_Kind(t *testing.T) {
	path := writeFile(t, "chat.txt", transcript)

	tests := []struct {
		args []string
		want int
	}{
		{[]string{"--kind", "all"}, 7},
		{[]string{"--kind", "user"}, 6},
		{[]string{"--kind", "system"}, 1},
		{[]string{"--kind", "user", "-n", "2"}, 2},
		{[]string{"--sender", "Luis"}, 3},
		{[]string{"--sender", "Luis", "--kind", "user"}, 2},
		{[]string{"--category", "multimedia"}, 1},
		{[]string{"--category", "poll", "--category", "Deleted"}, 2},
		{[]string{"--category", "system", "--kind", "user"}, 0},
	}

	for _, tt := range tests {
		t.Run(strings.Join(tt.args, " "), func(t *testing.T) {
			out, _, err := execute(t, NewEventsCommand(), append(tt.args, path)...)
			require.NoError(t, err)
			require.Len(t, eventLines(t, out), tt.want)
		})
	}
}

func TestRunEvents_Table(t *testing.T) {
	path := writeFile(t, "chat.txt", transcript)

	out, _, err := execute(t, NewEventsCommand(), "-o", "table", path)
	require.NoError(t, err)
	for _, want := range []string{"SENDER", "2023-09-01 14:00:00", "plain_text", "nos vemos mañana"} {
		require.Contains(t, out, want)
	}
}

func TestRunEvents_Errors(t *testing.T) {
	path := writeFile(t, "chat.txt", transcript)

	_, _, err := execute(t, NewEventsCommand(), "-o", "csv", path)
	require.ErrorContains(t, err, "unknown output format")

	_, _, err = execute(t, NewEventsCommand(), "--kind", "bots", path)
	require.ErrorContains(t, err, "unknown event kind")

	_, _, err = execute(t, NewEventsCommand(), "--category", "video", path)
	require.ErrorContains(t, err, "unknown category")

	_, stderr, err := execute(t, NewEventsCommand(), "--until", "2020-01-01", path)
	require.NoError(t, err)
	require.Equal(t, ExitEmpty, ExitCode)
	require.Contains(t, stderr, "No messages extracted")
}
