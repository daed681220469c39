package cmd

import (
	"bufio"
	"encoding/json"
	"math"
	"path/filepath"
	"testing"
	"time"

	"github.com/khanhnv2901/macsecscan/internal/checker"
	"github.com/spf13/afero"
)

func TestRecordTelemetry_WritesCounts(t *testing.T) {
	fs := afero.NewMemMapFs()
	appCtx := &AppContext{DataDir: "/data", FS: fs}
	if err := fs.MkdirAll(appCtx.DataDir, 0o755); err != nil {
		t.Fatal(err)
	}

	result := checker.Result{
		Info:    []string{"a", "b", "c"},
		Threats: []string{"FileVault is disabled."},
	}

	if err := recordTelemetry(appCtx, "scan-all", 4, result, 2*time.Second); err != nil {
		t.Fatalf("recordTelemetry returned error: %v", err)
	}
	if err := recordTelemetry(appCtx, "brew-check", 1, checker.Result{}, time.Second); err != nil {
		t.Fatalf("recordTelemetry returned error: %v", err)
	}

	f, err := fs.Open(filepath.Join("/data", telemetryFile))
	if err != nil {
		t.Fatalf("failed to open telemetry file: %v", err)
	}
	defer f.Close()

	var records []telemetryRecord
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var rec telemetryRecord
		if err := json.Unmarshal(scanner.Bytes(), &rec); err != nil {
			t.Fatalf("failed to unmarshal record: %v", err)
		}
		records = append(records, rec)
	}

	if len(records) != 2 {
		t.Fatalf("expected 2 appended records, got %d", len(records))
	}

	rec := records[0]
	if rec.Command != "scan-all" || rec.CheckCount != 4 {
		t.Errorf("unexpected record header: %+v", rec)
	}
	if rec.InfoCount != 3 || rec.ThreatCount != 1 {
		t.Errorf("unexpected counts: %+v", rec)
	}
	if math.Abs(rec.AvgDurationPerCheck-0.5) > 0.0001 {
		t.Errorf("expected avg 0.5s, got %f", rec.AvgDurationPerCheck)
	}
	if records[1].Command != "brew-check" || records[1].InfoCount != 0 {
		t.Errorf("unexpected second record: %+v", records[1])
	}
}

func TestCountFindings(t *testing.T) {
	info, threats := countFindings(checker.Result{Info: []string{"x"}, Threats: []string{"y", "z"}}.Findings("t"))
	if info != 1 || threats != 2 {
		t.Fatalf("got info=%d threats=%d", info, threats)
	}
}
