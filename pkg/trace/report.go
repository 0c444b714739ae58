package trace

import (
	"io"
	"text/tabwriter"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/joshuapare/heapkit/pkg/heapkit"
)

// Report is the outcome of Run.
type Report struct {
	Name    string              `json:"name"`
	Backing string              `json:"backing"`
	Steps   []StepResult        `json:"steps"`
	Pools   []heapkit.PoolStats `json:"pools"`
}

// StepResult records what one step did.
type StepResult struct {
	Index  int    `json:"index"`
	Op     Op     `json:"op"`
	Pool   int    `json:"pool"`
	Size   int    `json:"size,omitempty"`
	Offset int    `json:"offset,omitempty"`
	Detail string `json:"detail,omitempty"`
	Error  string `json:"error,omitempty"`
}

// Failed reports whether any step failed.
func (r *Report) Failed() bool {
	for _, st := range r.Steps {
		if st.Error != "" {
			return true
		}
	}
	return false
}

// WriteText writes a human-readable summary with grouped byte counts.
func (r *Report) WriteText(w io.Writer) error {
	p := message.NewPrinter(language.English)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	p.Fprintf(tw, "trace: %s (backing %s)\n", r.Name, r.Backing)
	p.Fprintf(tw, "steps:\n")
	for _, st := range r.Steps {
		note := st.Detail
		if st.Error != "" {
			note = "FAILED: " + st.Error
		}
		switch st.Op {
		case OpAlloc, OpFree:
			if st.Error == "" && st.Offset > 0 {
				p.Fprintf(tw, "  #%d\t%s\tpool %d\t%d B\t@%d\t%s\n", st.Index, st.Op, st.Pool, st.Size, st.Offset, note)
			} else {
				p.Fprintf(tw, "  #%d\t%s\tpool %d\t%d B\t\t%s\n", st.Index, st.Op, st.Pool, st.Size, note)
			}
		case OpCheck:
			p.Fprintf(tw, "  #%d\t%s\tpool %d\t\t\t%s\n", st.Index, st.Op, st.Pool, note)
		default:
			p.Fprintf(tw, "  #%d\t%s\t\t\t\t%s\n", st.Index, st.Op, note)
		}
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	tw = tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	p.Fprintf(tw, "pools:\n")
	p.Fprintf(tw, "  POOL\tCAPACITY\tALLOCATED\tFREE\tLIVE\n")
	for _, ps := range r.Pools {
		p.Fprintf(tw, "  %d\t%d\t%d\t%d\t%d\n", ps.Pool, ps.Capacity, ps.Allocated, ps.Free, ps.LiveBlocks)
	}
	return tw.Flush()
}
