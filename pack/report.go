package pack

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// ReportEntry describes one animated record.
type ReportEntry struct {
	LogName       string `yaml:"log_name"`
	Target        string `yaml:"target"`
	FrameInterval int    `yaml:"frame_interval"`
	FrameCount    int    `yaml:"frame_count"`
	Error         string `yaml:"error,omitempty"`
}

// PackReport lists the animated records of one pack.
type PackReport struct {
	Name     string        `yaml:"name"`
	ID       string        `yaml:"id"`
	Animated []ReportEntry `yaml:"animated"`
}

// BuildReport summarises the animated records of packs.
func BuildReport(packs []*Pack) []PackReport {
	reports := make([]PackReport, 0, len(packs))
	for _, p := range packs {
		rep := PackReport{Name: p.Name(), ID: p.ID()}
		for _, r := range p.Animated() {
			entry := ReportEntry{
				LogName:       r.LogName,
				Target:        r.Target,
				FrameInterval: r.FrameInterval,
				FrameCount:    r.FrameCount,
			}
			if err := r.Validate(); err != nil {
				entry.Error = err.Error()
			}
			rep.Animated = append(rep.Animated, entry)
		}
		reports = append(reports, rep)
	}
	return reports
}

// Invalid counts entries with a validation error.
func Invalid(reports []PackReport) int {
	n := 0
	for _, rep := range reports {
		for _, e := range rep.Animated {
			if e.Error != "" {
				n++
			}
		}
	}
	return n
}

// WriteReport prints reports as plain text.
func WriteReport(w io.Writer, reports []PackReport) error {
	for _, rep := range reports {
		if _, err := fmt.Fprintf(w, "pack %q (%s): %d animated\n", rep.Name, rep.ID, len(rep.Animated)); err != nil {
			return err
		}
		for _, e := range rep.Animated {
			name := e.LogName
			if name == "" {
				name = "(no LogName)"
			}
			status := "ok"
			if e.Error != "" {
				status = "invalid: " + e.Error
			}
			if _, err := fmt.Fprintf(w, "  - %s: interval=%d count=%d target=%s %s\n",
				name, e.FrameInterval, e.FrameCount, e.Target, status); err != nil {
				return err
			}
		}
	}
	return nil
}

// WriteReportYAML prints reports as a YAML document.
func WriteReportYAML(w io.Writer, reports []PackReport) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(reports); err != nil {
		return fmt.Errorf("pack: encode report: %w", err)
	}
	return enc.Close()
}
