package checks

import (
	"context"
	"reflect"
	"testing"
	"time"

	"github.com/khanhnv2901/macsecscan/internal/checker"
	"github.com/khanhnv2901/macsecscan/internal/executor"
)

// sequence returns the scripted results in order, repeating the last one.
func sequence(results ...executor.Result) (executor.Executor, *int) {
	calls := 0
	return executor.Func(func(_ context.Context, argv []string, _ time.Duration) executor.Result {
		idx := min(calls, len(results)-1)
		calls++
		res := results[idx]
		res.Command = argv
		return res
	}), &calls
}

func TestMacUpdates(t *testing.T) {
	tests := []struct {
		name      string
		results   []executor.Result
		wantInfo  []string
		wantCalls int
	}{
		{
			name:      "no updates reported on stderr",
			results:   []executor.Result{{ExitCode: 0, Stdout: "Software Update Tool\n", Stderr: "No new software available."}},
			wantInfo:  []string{"No macOS updates found."},
			wantCalls: 1,
		},
		{
			name:      "updates listed",
			results:   []executor.Result{ok("Software Update found the following new or updated software:\n* Label: macOS 15.1\n")},
			wantInfo:  []string{"macOS updates may be available. Open System Settings > General > Software Update."},
			wantCalls: 1,
		},
		{
			name:      "not installed",
			results:   []executor.Result{{ExitCode: executor.ExitNotFound, Stderr: executor.MsgNotFoundPrefix + "softwareupdate"}},
			wantInfo:  []string{"`softwareupdate` tool not found. Unable to check macOS updates."},
			wantCalls: 1,
		},
		{
			name:      "timeout then success",
			results:   []executor.Result{timeout(), {ExitCode: 0, Stderr: "No new software available."}},
			wantInfo:  []string{"No macOS updates found."},
			wantCalls: 2,
		},
		{
			name:      "timeout on every attempt",
			results:   []executor.Result{timeout()},
			wantInfo:  []string{"macOS update check timed out; no result collected."},
			wantCalls: updateAttempts,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exec, calls := sequence(tt.results...)
			chk := &MacUpdates{Env: checker.Env{Exec: exec}, Delay: time.Millisecond}

			got := chk.Run(context.Background(), false)
			if !reflect.DeepEqual(got.Info, tt.wantInfo) {
				t.Errorf("info = %q, want %q", got.Info, tt.wantInfo)
			}
			if got.HasThreats() {
				t.Errorf("expected no threats, got %q", got.Threats)
			}
			if *calls != tt.wantCalls {
				t.Errorf("softwareupdate called %d times, want %d", *calls, tt.wantCalls)
			}
		})
	}
}

func TestMacUpdatesStopsRetryingWhenCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	calls := 0
	exec := executor.Func(func(_ context.Context, argv []string, _ time.Duration) executor.Result {
		calls++
		cancel()
		return executor.Result{Command: argv, ExitCode: executor.ExitTimeout, Stderr: executor.MsgTimedOut}
	})
	chk := &MacUpdates{Env: checker.Env{Exec: exec}, Delay: time.Hour}

	done := make(chan checker.Result, 1)
	go func() { done <- chk.Run(ctx, false) }()

	select {
	case got := <-done:
		want := []string{"macOS update check timed out; no result collected."}
		if !reflect.DeepEqual(got.Info, want) {
			t.Errorf("info = %q, want %q", got.Info, want)
		}
		if calls != 1 {
			t.Errorf("softwareupdate called %d times after cancel, want 1", calls)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("retry delay ignored the canceled context")
	}
}
