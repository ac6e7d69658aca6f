package analyzer

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"go.viam.com/test"

	"github.com/osc2cr/converter/logging"
)

func writeScript(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "script.sh")
	test.That(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0o755), test.ShouldBeNil)
	return path
}

type watchdogPayload struct {
	Status string `json:"Status"`
}

func TestWatchdogRunSucceedsAndDecodesResponse(t *testing.T) {
	script := writeScript(t, `cp "$2" "$4"`)
	w := &Watchdog{Command: script, Timeout: 5 * time.Second, Logger: logging.NewTestLogger(t)}

	var result watchdogPayload
	err := w.Run(context.Background(), watchdogPayload{Status: "Succeeded"}, &result)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, result.Status, test.ShouldEqual, "Succeeded")
}

func TestWatchdogRunTimesOutOnMockClock(t *testing.T) {
	script := writeScript(t, `sleep 30`)
	mockClock := clock.NewMock()
	w := &Watchdog{Command: script, Timeout: time.Second, Logger: logging.NewTestLogger(t), Clock: mockClock}

	done := make(chan error, 1)
	var result watchdogPayload
	go func() { done <- w.Run(context.Background(), watchdogPayload{}, &result) }()

	// Give the subprocess a moment to actually start before declaring it
	// timed out, then fire the mock timeout.
	time.Sleep(100 * time.Millisecond)
	mockClock.Add(time.Second)

	select {
	case err := <-done:
		test.That(t, err, test.ShouldNotBeNil)
		test.That(t, err.Error(), test.ShouldEqual, "Timed out")
	case <-time.After(5 * time.Second):
		t.Fatal("watchdog did not return after mock timeout fired")
	}
}
