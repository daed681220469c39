package checks

import (
	"context"
	"reflect"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/khanhnv2901/macsecscan/internal/executor"
)

func TestMalwareAvailability(t *testing.T) {
	tests := []struct {
		name     string
		script   script
		wantInfo []string
	}{
		{
			name:   "both installed",
			script: script{"clamscan": ok("ClamAV 1.3.1"), "yara": ok("4.5.0")},
			wantInfo: []string{
				"ClamAV available. Run `macsecscan malware-scan --path <dir>` for an on-demand scan.",
				"YARA available. Run `macsecscan yara-scan --rules <dir> --path <dir>` to scan with custom rules.",
			},
		},
		{
			name:   "neither installed",
			script: script{},
			wantInfo: []string{
				"ClamAV not found. Install with `brew install clamav` to enable malware scanning.",
				"YARA not found. Install with `brew install yara` to enable rule-based scanning.",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewMalware(newEnv(tt.script)).Run(context.Background(), false)
			if !reflect.DeepEqual(got.Info, tt.wantInfo) {
				t.Fatalf("info = %q, want %q", got.Info, tt.wantInfo)
			}
			if got.HasThreats() {
				t.Fatalf("availability check must not produce threats, got %q", got.Threats)
			}
		})
	}
}

func TestMalwareScanWithoutPathFallsBack(t *testing.T) {
	chk := NewMalwareScan(newEnv(script{}), "", "")
	if chk.Mode != MalwareAvailability {
		t.Fatalf("expected availability mode without a path, got %v", chk.Mode)
	}
}

func TestMalwareScanDetections(t *testing.T) {
	clam := exit(1, "/Users/alice/Downloads/eicar.com: Eicar-Test-Signature FOUND\n"+
		"/Users/alice/Downloads/other.bin: Win.Trojan.Agent FOUND\n")

	got := NewMalwareScan(newEnv(script{"clamscan": clam}), "/Users/alice/Downloads", "").Run(context.Background(), false)

	want := []string{
		"ClamAV detection: /Users/[REDACTED]/Downloads/eicar.com: Eicar-Test-Signature FOUND. Quarantine or remove the file.",
		"ClamAV detection: /Users/[REDACTED]/Downloads/other.bin: Win.Trojan.Agent FOUND. Quarantine or remove the file.",
	}
	if !reflect.DeepEqual(got.Threats, want) {
		t.Fatalf("threats = %q, want %q", got.Threats, want)
	}
	if len(got.Info) != 0 {
		t.Fatalf("expected no informational findings, got %q", got.Info)
	}
}

func TestMalwareScanClean(t *testing.T) {
	got := NewMalwareScan(newEnv(script{"clamscan": ok("")}), "/Users/alice/Downloads", "").Run(context.Background(), false)

	want := []string{"ClamAV: no infected files found in /Users/[REDACTED]/Downloads."}
	if !reflect.DeepEqual(got.Info, want) {
		t.Fatalf("info = %q, want %q", got.Info, want)
	}
}

func TestMalwareScanUsesScanTimeout(t *testing.T) {
	var mu sync.Mutex
	var seen []time.Duration
	env := newEnv(script{})
	env.Exec = executor.Func(func(_ context.Context, argv []string, timeout time.Duration) executor.Result {
		mu.Lock()
		seen = append(seen, timeout)
		mu.Unlock()
		return executor.Result{Command: argv}
	})

	chk := NewMalwareScan(env, "/scan", "")
	chk.ScanTimeout = 3 * time.Minute
	chk.Run(context.Background(), false)

	if len(seen) != 1 || seen[0] != 3*time.Minute {
		t.Fatalf("expected one call with the scan timeout, got %v", seen)
	}
}

func TestYARAScan(t *testing.T) {
	var argvs [][]string
	env := newEnv(script{})
	env.Exec = executor.Func(func(_ context.Context, argv []string, _ time.Duration) executor.Result {
		argvs = append(argvs, argv)
		if strings.HasSuffix(argv[2], "b.yara") {
			return ok("")
		}
		return ok("SuspiciousLoader /Users/bob/tmp/x.bin\n")
	})
	mkfile(t, env.FS, "/rules/a.yar")
	mkfile(t, env.FS, "/rules/b.yara")
	mkfile(t, env.FS, "/rules/README.md")

	got := NewYARAScan(env, "/Users/bob/tmp", "/rules").Run(context.Background(), false)

	wantThreats := []string{"YARA rule SuspiciousLoader matched /Users/[REDACTED]/tmp/x.bin. Investigate and quarantine the file."}
	if !reflect.DeepEqual(got.Threats, wantThreats) {
		t.Fatalf("threats = %q, want %q", got.Threats, wantThreats)
	}
	if len(argvs) != 2 {
		t.Fatalf("expected one yara run per rule file, got %v", argvs)
	}
	if argvs[0][2] != "/rules/a.yar" || argvs[0][3] != "/Users/bob/tmp" {
		t.Fatalf("unexpected argv %v", argvs[0])
	}
}

func TestYARAScanNoMatches(t *testing.T) {
	env := newEnv(script{"yara": ok("")})
	mkfile(t, env.FS, "/rules/a.yar")

	got := NewYARAScan(env, "/scan", "/rules").Run(context.Background(), false)

	want := []string{"YARA: no rule matches in /scan."}
	if !reflect.DeepEqual(got.Info, want) || got.HasThreats() {
		t.Fatalf("got %+v, want info %q", got, want)
	}
}

func TestYARAScanRulesProblems(t *testing.T) {
	tests := []struct {
		name     string
		rulesDir string
		files    []string
		want     string
	}{
		{name: "no rules dir", rulesDir: "", want: "No YARA rules directory configured. Pass --rules or set malware.rules_dir."},
		{name: "missing dir", rulesDir: "/Users/carol/rules", want: "YARA rules directory not found: /Users/[REDACTED]/rules"},
		{name: "no rule files", rulesDir: "/rules", files: []string{"/rules/notes.txt"}, want: "No YARA rule files (.yar, .yara) found in /rules."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newEnv(script{"yara": ok("")})
			for _, f := range tt.files {
				mkfile(t, env.FS, f)
			}
			got := NewYARAScan(env, "/scan", tt.rulesDir).Run(context.Background(), false)
			if len(got.Info) != 1 || got.Info[0] != tt.want {
				t.Fatalf("info = %q, want [%q]", got.Info, tt.want)
			}
		})
	}
}

func TestMalwareScanThenYARA(t *testing.T) {
	env := newEnv(script{"clamscan": ok(""), "yara": ok("Rule1 /scan/f\n")})
	mkfile(t, env.FS, "/rules/a.yar")

	got := NewMalwareScan(env, "/scan", "/rules").Run(context.Background(), false)

	if len(got.Info) != 1 || !strings.HasPrefix(got.Info[0], "ClamAV: no infected files") {
		t.Fatalf("unexpected info %q", got.Info)
	}
	if len(got.Threats) != 1 || !strings.HasPrefix(got.Threats[0], "YARA rule Rule1 matched /scan/f") {
		t.Fatalf("unexpected threats %q", got.Threats)
	}
}
