// Package cli: output.go formats lifecycle reports as text or JSON.
package cli

import (
	"fmt"
	"io"

	"github.com/shinji-kodama/polyrepo/internal/lifecycle"
	"github.com/shinji-kodama/polyrepo/internal/model"
)

// reportJSON is the --json shape of a lifecycle report.
type reportJSON struct {
	Operation  string                 `json:"operation"`
	Before     string                 `json:"before"`
	After      string                 `json:"after"`
	Declined   bool                   `json:"declined"`
	Submodules []model.SubmoduleEntry `json:"submodules"`
	AnyMissing *bool                  `json:"anyMissing,omitempty"`
	Failed     []string               `json:"failed,omitempty"`
	AllRemoved *bool                  `json:"allRemoved,omitempty"`
	Removed    []string               `json:"removed,omitempty"`
	NotRemoved []string               `json:"notRemoved,omitempty"`
}

func (a *app) printReport(w io.Writer, report *lifecycle.Report) error {
	if a.jsonOutput {
		return writeJSON(w, toReportJSON(report))
	}
	printReportText(w, report)
	return nil
}

func toReportJSON(report *lifecycle.Report) reportJSON {
	out := reportJSON{
		Operation:  string(report.Operation),
		Before:     report.Before.String(),
		After:      report.After.String(),
		Declined:   report.Declined,
		Submodules: report.Entries,
	}
	if out.Submodules == nil {
		out.Submodules = []model.SubmoduleEntry{}
	}

	if r := report.Reconcile; r != nil {
		anyMissing := r.AnyMissing
		out.AnyMissing = &anyMissing
		for _, f := range r.Failed() {
			out.Failed = append(out.Failed, f.Entry.DeclaredPath)
		}
	}

	if d := report.Delete; d != nil {
		allRemoved := d.AllRemoved()
		out.AllRemoved = &allRemoved
		for _, rm := range d.Removals {
			if rm.Err != nil {
				out.NotRemoved = append(out.NotRemoved, rm.Entry.DeclaredPath)
			} else {
				out.Removed = append(out.Removed, rm.Entry.DeclaredPath)
			}
		}
	}
	return out
}

func printReportText(w io.Writer, report *lifecycle.Report) {
	if report.Declined {
		fmt.Fprintln(w, "Aborted; nothing was changed.")
		return
	}

	if report.Operation == lifecycle.OperationInit {
		for _, e := range report.Entries {
			fmt.Fprintln(w, e.String())
		}
	}

	if d := report.Delete; d != nil {
		removed := 0
		for _, rm := range d.Removals {
			if rm.Err == nil {
				removed++
				fmt.Fprintf(w, "Removed submodule %s\n", rm.Entry.DeclaredPath)
			}
		}
		if !d.AllRemoved() {
			fmt.Fprintf(w, "Removed %d of %d submodules\n", removed, len(d.Removals))
		}
	}

	if r := report.Reconcile; r != nil {
		switch failed := len(r.Failed()); {
		case !r.AnyMissing:
			fmt.Fprintln(w, "All submodules are initialized")
		case failed > 0:
			fmt.Fprintf(w, "Submodule update failed for %d of %d missing submodules\n", failed, len(r.Attempts))
		default:
			fmt.Fprintf(w, "Initialized %d missing submodules\n", len(r.Attempts))
		}
	}

	fmt.Fprintf(w, "State: %s -> %s\n", report.Before, report.After)
}
