// Package report persists merged findings as timestamped markdown documents.
//
// Every run writes <timestamp>-Informational.md. <timestamp>-security_concerns.md
// is written only when at least one threat was found, so a clean run leaves
// exactly one file behind. The two writes are not atomic as a pair.
package report

import (
	"bytes"
	"embed"
	"fmt"
	"text/template"
	"time"

	"github.com/khanhnv2901/macsecscan/internal/shared/constants"
	sharedErrors "github.com/khanhnv2901/macsecscan/internal/shared/errors"
	"github.com/khanhnv2901/macsecscan/internal/shared/security"
	"github.com/spf13/afero"
)

const (
	reportTemplatePath = "templates/report.md.tmpl"

	InformationalTitle    = "macsecscan Informational Report"
	SecurityConcernsTitle = "macsecscan Security Concerns"
	NoInformationalItems  = "No informational items."
)

//go:embed templates/report.md.tmpl
var reportTemplateFS embed.FS

var reportTemplate = template.Must(
	template.New("report.md.tmpl").ParseFS(reportTemplateFS, reportTemplatePath),
)

// Kind identifies which of the two documents an artifact is.
type Kind string

const (
	KindInformational    Kind = "informational"
	KindSecurityConcerns Kind = "security_concerns"
)

// Artifact is one persisted report file.
type Artifact struct {
	Path string `json:"path"`
	Kind Kind   `json:"kind"`
}

// Artifacts lists what a Persist call produced; threatPath may be empty.
func Artifacts(infoPath, threatPath string) []Artifact {
	out := []Artifact{{Path: infoPath, Kind: KindInformational}}
	if threatPath != "" {
		out = append(out, Artifact{Path: threatPath, Kind: KindSecurityConcerns})
	}
	return out
}

// Timestamp formats the run time used as the report name prefix.
func Timestamp(at time.Time) string {
	return at.Format(constants.TimestampLayout)
}

// InformationalName returns the informational report file name for a timestamp.
func InformationalName(ts string) string {
	return ts + constants.InformationalSuffix
}

// SecurityConcernsName returns the threat report file name for a timestamp.
func SecurityConcernsName(ts string) string {
	return ts + constants.SecurityConcernsSuffix
}

// EnsureDir creates the reports directory and its parents.
func EnsureDir(fs afero.Fs, dir string) error {
	if dir == "" {
		return sharedErrors.ErrEmptyReportsDir
	}
	if fs == nil {
		fs = afero.NewOsFs()
	}
	if err := fs.MkdirAll(dir, constants.DefaultDirPerm); err != nil {
		return fmt.Errorf("create reports directory: %w", err)
	}
	return nil
}

// Writer renders and writes the two report documents into Dir.
type Writer struct {
	Dir string
	FS  afero.Fs
}

// NewWriter creates a Writer on the OS filesystem.
func NewWriter(dir string) *Writer {
	return &Writer{Dir: dir, FS: afero.NewOsFs()}
}

// Persist writes the informational document and, when threats is non-empty,
// the security concerns document. The threat path is "" when none was written.
// The directory must already exist (see EnsureDir).
func (w *Writer) Persist(info, threats []string, at time.Time) (infoPath string, threatPath string, err error) {
	if w.Dir == "" {
		return "", "", sharedErrors.ErrEmptyReportsDir
	}
	fs := w.FS
	if fs == nil {
		fs = afero.NewOsFs()
	}

	ts := Timestamp(at)

	infoPath, err = security.ResolveWithin(w.Dir, InformationalName(ts))
	if err != nil {
		return "", "", fmt.Errorf("resolve informational report path: %w", err)
	}
	if err := w.write(fs, infoPath, InformationalTitle, informationalBody(info)); err != nil {
		return "", "", err
	}

	if len(threats) == 0 {
		return infoPath, "", nil
	}

	threatPath, err = security.ResolveWithin(w.Dir, SecurityConcernsName(ts))
	if err != nil {
		return infoPath, "", fmt.Errorf("resolve security concerns report path: %w", err)
	}
	if err := w.write(fs, threatPath, SecurityConcernsTitle, threats); err != nil {
		return infoPath, "", err
	}

	return infoPath, threatPath, nil
}

func (w *Writer) write(fs afero.Fs, path, title string, findings []string) error {
	content, err := Render(title, findings)
	if err != nil {
		return err
	}
	if err := afero.WriteFile(fs, path, content, constants.DefaultFilePerm); err != nil {
		return fmt.Errorf("%w: %s: %v", sharedErrors.ErrReportWrite, path, err)
	}
	return nil
}

// Render produces a markdown document: title line, then one bullet per finding.
func Render(title string, findings []string) ([]byte, error) {
	data := struct {
		Title    string
		Findings []string
	}{
		Title:    title,
		Findings: findings,
	}

	var buf bytes.Buffer
	if err := reportTemplate.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("render %s: %w", title, err)
	}
	return buf.Bytes(), nil
}

func informationalBody(info []string) []string {
	if len(info) == 0 {
		return []string{NoInformationalItems}
	}
	return info
}
