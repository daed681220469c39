package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/khanhnv2901/macsecscan/internal/checker"
	"github.com/khanhnv2901/macsecscan/internal/shared/constants"
)

const telemetryFile = "telemetry.jsonl"

type telemetryRecord struct {
	Timestamp           time.Time `json:"timestamp"`
	Command             string    `json:"command"`
	CheckCount          int       `json:"check_count"`
	InfoCount           int       `json:"info_count"`
	ThreatCount         int       `json:"threat_count"`
	DurationSeconds     float64   `json:"duration_seconds"`
	AvgDurationPerCheck float64   `json:"avg_duration_per_check"`
}

// recordTelemetry appends one run summary to the data directory. Only counts
// are recorded, never finding text.
func recordTelemetry(appCtx *AppContext, command string, checkCount int, result checker.Result, duration time.Duration) error {
	infoCount, threatCount := countFindings(result.Findings(command))

	avgDuration := 0.0
	if checkCount > 0 {
		avgDuration = duration.Seconds() / float64(checkCount)
	}

	record := telemetryRecord{
		Timestamp:           time.Now().UTC(),
		Command:             command,
		CheckCount:          checkCount,
		InfoCount:           infoCount,
		ThreatCount:         threatCount,
		DurationSeconds:     duration.Seconds(),
		AvgDurationPerCheck: avgDuration,
	}

	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal telemetry: %w", err)
	}

	telemetryPath := filepath.Join(appCtx.DataDir, telemetryFile)
	f, err := appCtx.FS.OpenFile(telemetryPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, constants.DefaultFilePerm)
	if err != nil {
		return fmt.Errorf("open telemetry file: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("write telemetry: %w", err)
	}

	return nil
}

func countFindings(findings []checker.Finding) (infoCount, threatCount int) {
	for _, f := range findings {
		if f.Kind == checker.KindThreat {
			threatCount++
		} else {
			infoCount++
		}
	}
	return infoCount, threatCount
}
