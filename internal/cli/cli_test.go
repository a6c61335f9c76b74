package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pfrederiksen/ticket-monitor/internal/ticket"
)

const fixturePath = "../../testdata/fixtures/district_team_page.html"

type testEnv struct {
	dir        string
	configPath string
	server     *httptest.Server
}

func newTestEnv(t *testing.T, matchID string, telegramEnabled bool) *testEnv {
	t.Helper()

	page, err := os.ReadFile(fixturePath)
	if err != nil {
		t.Fatalf("reading fixture: %v", err)
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write(page)
	}))
	t.Cleanup(server.Close)

	dir := t.TempDir()
	cfg := fmt.Sprintf(`{
	// comments are allowed
	"monitor": {
		"platform": "district",
		"url": %q,
		"match_identifier": %q,
	},
	"platforms": {
		"district": {
			"enabled": true,
			"base_url": "https://www.district.in",
			"possible_statuses": ["Booking Open", "Sold Out", "Coming Soon"],
			"notify_statuses": ["Booking Open"],
		},
	},
	"telegram": {"enabled": %t, "bot_token": "123:abc", "chat_id": "42"},
	"history": {"path": %q},
}`, server.URL, matchID, telegramEnabled, filepath.Join(dir, "status_history.json"))

	configPath := filepath.Join(dir, "config.json")
	if err := os.WriteFile(configPath, []byte(cfg), 0644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	return &testEnv{dir: dir, configPath: configPath, server: server}
}

func (e *testEnv) run(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	base := []string{"--config", e.configPath, "--env-file", "", "--log-file", ""}
	code := Run(context.Background(), append(args, base...), &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRun_CheckJSON(t *testing.T) {
	env := newTestEnv(t, "Mumbai Indians vs Chennai Super Kings", false)

	code, stdout, stderr := env.run(t, "--format", "json")
	if code != ExitSuccess {
		t.Fatalf("exit code = %d, want %d\nstderr: %s", code, ExitSuccess, stderr)
	}

	var result ticket.Result
	if err := json.Unmarshal([]byte(stdout), &result); err != nil {
		t.Fatalf("stdout is not JSON: %v\n%s", err, stdout)
	}
	if result.Status != "Booking Open" || !result.Notify {
		t.Errorf("result = %+v, want Booking Open with notify", result)
	}
	if result.MatchDetails == nil || result.MatchDetails.Time != "7:30 PM" {
		t.Errorf("match details = %+v", result.MatchDetails)
	}

	for _, want := range []string{bannerStart, bannerSuccess, "Notification results"} {
		if !strings.Contains(stderr, want) {
			t.Errorf("logs missing %q", want)
		}
	}

	if _, err := os.Stat(filepath.Join(env.dir, "status_history.json")); err != nil {
		t.Errorf("history not written: %v", err)
	}
}

func TestRun_SkipsNotificationForNonNotifyStatus(t *testing.T) {
	env := newTestEnv(t, "Mumbai Indians vs Gujarat Titans", true)

	code, stdout, stderr := env.run(t, "--exit-code")
	if code != ExitSuccess {
		t.Fatalf("exit code = %d, want %d\nstderr: %s", code, ExitSuccess, stderr)
	}
	if !strings.Contains(stdout, "Status: Coming Soon") {
		t.Errorf("stdout = %q, want Coming Soon status", stdout)
	}
	if !strings.Contains(stderr, "Skipping sending notification") {
		t.Errorf("logs should mention skipping the notification:\n%s", stderr)
	}
}

func TestRun_DryRunWithExitCode(t *testing.T) {
	env := newTestEnv(t, "Mumbai Indians vs Chennai Super Kings", true)

	code, stdout, stderr := env.run(t, "--dry-run", "--exit-code")
	if code != ExitAlertSent {
		t.Fatalf("exit code = %d, want %d\nstderr: %s", code, ExitAlertSent, stderr)
	}
	for _, want := range []string{"dry run", "telegram_message", "ALERT: Mumbai Indians vs Chennai Super Kings - Booking Open!"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("stdout missing %q:\n%s", want, stdout)
		}
	}
}

func TestRun_Errors(t *testing.T) {
	env := newTestEnv(t, "Mumbai Indians vs Chennai Super Kings", false)

	tests := []struct {
		name string
		args []string
	}{
		{name: "invalid format", args: []string{"--format", "xml", "--config", env.configPath}},
		{name: "missing config", args: []string{"--config", filepath.Join(env.dir, "nope.json")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			args := append(tt.args, "--env-file", "", "--log-file", "")
			if code := Run(context.Background(), args, &stdout, &stderr); code != ExitError {
				t.Errorf("exit code = %d, want %d", code, ExitError)
			}
			if !strings.Contains(stderr.String(), "Error:") {
				t.Errorf("stderr should report the error: %q", stderr.String())
			}
		})
	}
}

func TestRun_LogFile(t *testing.T) {
	env := newTestEnv(t, "Mumbai Indians vs Chennai Super Kings", false)
	logPath := filepath.Join(env.dir, "ticket_monitor.log")

	var stdout, stderr bytes.Buffer
	args := []string{"--config", env.configPath, "--env-file", "", "--log-file", logPath}
	if code := Run(context.Background(), args, &stdout, &stderr); code != ExitSuccess {
		t.Fatalf("exit code = %d\nstderr: %s", code, stderr.String())
	}

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}
	if !strings.Contains(string(data), bannerStart) {
		t.Errorf("log file missing start banner:\n%s", data)
	}
}

func TestRun_CanceledContext(t *testing.T) {
	env := newTestEnv(t, "Mumbai Indians vs Chennai Super Kings", false)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var stdout, stderr bytes.Buffer
	args := []string{"--config", env.configPath, "--env-file", "", "--log-file", ""}
	if code := Run(ctx, args, &stdout, &stderr); code != ExitSuccess {
		t.Fatalf("exit code = %d, want %d", code, ExitSuccess)
	}
	if !strings.Contains(stderr.String(), "Monitoring stopped by user.") {
		t.Errorf("logs should note the interruption:\n%s", stderr.String())
	}
	if _, err := os.Stat(filepath.Join(env.dir, "status_history.json")); !os.IsNotExist(err) {
		t.Errorf("canceled check should not record history, stat err = %v", err)
	}
}

func TestRun_LogLevel(t *testing.T) {
	env := newTestEnv(t, "Mumbai Indians vs Chennai Super Kings", false)

	tests := []struct {
		name      string
		level     string
		wantCode  int
		wantDebug bool
	}{
		{name: "debug", level: "debug", wantCode: ExitSuccess, wantDebug: true},
		{name: "default info", level: "info", wantCode: ExitSuccess, wantDebug: false},
		{name: "mixed case", level: "Warn", wantCode: ExitSuccess, wantDebug: false},
		{name: "unknown", level: "loud", wantCode: ExitError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, stderr := env.run(t, "--log-level", tt.level)
			if code != tt.wantCode {
				t.Fatalf("exit code = %d, want %d\nstderr: %s", code, tt.wantCode, stderr)
			}
			if tt.wantCode == ExitError {
				if !strings.Contains(stderr, "unknown log level") {
					t.Errorf("stderr should name the bad level: %q", stderr)
				}
				return
			}
			if got := strings.Contains(stderr, "Status history loaded"); got != tt.wantDebug {
				t.Errorf("debug output = %v, want %v\n%s", got, tt.wantDebug, stderr)
			}
		})
	}
}

func TestHistoryCommand(t *testing.T) {
	env := newTestEnv(t, "Mumbai Indians vs Chennai Super Kings", false)

	_, stdout, _ := env.run(t, "history")
	if !strings.Contains(stdout, "No status history recorded yet.") {
		t.Errorf("empty history output = %q", stdout)
	}

	if code, _, stderr := env.run(t); code != ExitSuccess {
		t.Fatalf("check exit code = %d\nstderr: %s", code, stderr)
	}

	code, stdout, stderr := env.run(t, "history", "--limit", "5")
	if code != ExitSuccess {
		t.Fatalf("history exit code = %d\nstderr: %s", code, stderr)
	}
	for _, want := range []string{"RECORDED AT", "Booking Open", "Mumbai Indians vs Chennai Super Kings", "Sunday, 14 April", "Last seen: Booking Open at "} {
		if !strings.Contains(stdout, want) {
			t.Errorf("history output missing %q:\n%s", want, stdout)
		}
	}
}

func TestValidateCommand(t *testing.T) {
	env := newTestEnv(t, "Mumbai Indians vs Chennai Super Kings", true)

	code, stdout, stderr := env.run(t, "validate")
	if code != ExitSuccess {
		t.Fatalf("exit code = %d\nstderr: %s", code, stderr)
	}
	for _, want := range []string{"Configuration OK", "district", "telegram_message", "Notify on: Booking Open", "Teams:     Mumbai Indians / Chennai Super Kings"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("validate output missing %q:\n%s", want, stdout)
		}
	}
	if strings.Contains(stdout, "Warning:") {
		t.Errorf("valid identifier should not warn:\n%s", stdout)
	}
}

func TestValidateCommand_WarnsOnBadIdentifier(t *testing.T) {
	env := newTestEnv(t, "Mumbai Indians", false)

	code, stdout, stderr := env.run(t, "validate")
	if code != ExitSuccess {
		t.Fatalf("exit code = %d\nstderr: %s", code, stderr)
	}
	if !strings.Contains(stdout, "Warning: match identifier") || strings.Contains(stdout, "Teams:") {
		t.Errorf("validate output = %q, want a warning and no teams line", stdout)
	}
}

func TestWriteResult_Text(t *testing.T) {
	var buf bytes.Buffer
	result := ticket.Result{
		URL:    "https://www.district.in/x",
		Status: ticket.StatusUnknown,
	}
	if err := WriteResult(&buf, result, FormatText); err != nil {
		t.Fatalf("WriteResult() error = %v", err)
	}

	out := buf.String()
	if strings.Contains(out, "Match:") {
		t.Errorf("no match line expected without details:\n%s", out)
	}
	if !strings.Contains(out, "Notify: no") {
		t.Errorf("output missing notify line:\n%s", out)
	}
	if err := WriteResult(&buf, result, "yaml"); err == nil {
		t.Error("WriteResult() with unknown format should fail")
	}
}
