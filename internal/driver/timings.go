package driver

import (
	"encoding/json"
	"fmt"
	"strings"

	"kira/internal/observ"
)

type timingPayload struct {
	Kind    string               `json:"kind"`
	Path    string               `json:"path,omitempty"`
	TotalMS float64              `json:"total_ms"`
	Phases  []observ.PhaseReport `json:"phases"`
}

// FormatTimings renders a per-file timing report as text or as one JSON line.
func FormatTimings(path string, rep observ.Report, asJSON bool) string {
	if asJSON {
		data, err := json.Marshal(timingPayload{Kind: "compile", Path: path, TotalMS: rep.TotalMS, Phases: rep.Phases})
		if err != nil {
			return ""
		}
		return string(data) + "\n"
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "timings (%s): total %.2f ms\n", path, rep.TotalMS)
	for _, p := range rep.Phases {
		fmt.Fprintf(&sb, "  %-10s %8.2f ms", p.Name, p.DurationMS)
		if p.Note != "" {
			sb.WriteString("  // " + p.Note)
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
