package report

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/leapstack-labs/calibrate/internal/calibration"
	"github.com/leapstack-labs/calibrate/internal/equation"
	"github.com/leapstack-labs/calibrate/internal/solver"
	"gopkg.in/yaml.v3"
)

// Options controls which lines are listed.
type Options struct {
	// FailuresOnly lists only lines that did not parse.
	FailuresOnly bool
	// SummaryOnly suppresses the per-line listing.
	SummaryOnly bool
}

// lineDoc is the serialized form of a LineResult.
type lineDoc struct {
	Line         int      `json:"line" yaml:"line"`
	Text         string   `json:"text" yaml:"text"`
	Status       string   `json:"status" yaml:"status"`
	Target       *uint64  `json:"target,omitempty" yaml:"target,omitempty"`
	Operands     []uint64 `json:"operands,omitempty" yaml:"operands,omitempty"`
	Matches      uint64   `json:"matches" yaml:"matches"`
	Evaluated    uint64   `json:"evaluated" yaml:"evaluated"`
	Solution     string   `json:"solution,omitempty" yaml:"solution,omitempty"`
	Error         string   `json:"error,omitempty" yaml:"error,omitempty"`
	RunningTotal  uint64   `json:"running_total" yaml:"running_total"`
	TotalOverflow bool     `json:"total_overflow,omitempty" yaml:"total_overflow,omitempty"`
}

// reportDoc is the serialized form of a Report.
type reportDoc struct {
	RunID         string    `json:"run_id" yaml:"run_id"`
	Input         string    `json:"input" yaml:"input"`
	Operators     []string  `json:"operators" yaml:"operators"`
	Overflow      string    `json:"overflow" yaml:"overflow"`
	Total         uint64    `json:"total" yaml:"total"`
	Satisfiable   int       `json:"satisfiable" yaml:"satisfiable"`
	Unsatisfiable int       `json:"unsatisfiable" yaml:"unsatisfiable"`
	Failed        int       `json:"failed" yaml:"failed"`
	Evaluated     uint64    `json:"evaluated" yaml:"evaluated"`
	ElapsedMS     int64     `json:"elapsed_ms" yaml:"elapsed_ms"`
	OverflowLines []int     `json:"total_overflow_lines,omitempty" yaml:"total_overflow_lines,omitempty"`
	Lines         []lineDoc `json:"lines,omitempty" yaml:"lines,omitempty"`
}

func newLineDoc(l calibration.LineResult) lineDoc {
	d := lineDoc{
		Line:          l.Number,
		Text:          l.Text,
		Status:        l.Status.String(),
		Matches:       l.Result.Matches,
		Evaluated:     l.Result.Evaluated,
		RunningTotal:  l.RunningTotal,
		TotalOverflow: l.TotalOverflow,
	}
	if l.Status == calibration.StatusFailed {
		if l.Err != nil {
			d.Error = l.Err.Error()
		}
		return d
	}
	target := l.Equation.Target
	d.Target = &target
	d.Operands = l.Equation.Operands
	if l.Result.First != nil {
		d.Solution = solver.Format(l.Equation.Operands, l.Result.First)
	}
	return d
}

func selectLines(lines []calibration.LineResult, opts Options) []calibration.LineResult {
	if opts.SummaryOnly {
		return nil
	}
	if !opts.FailuresOnly {
		return lines
	}
	var out []calibration.LineResult
	for _, l := range lines {
		if l.Status == calibration.StatusFailed {
			out = append(out, l)
		}
	}
	return out
}

func newReportDoc(rep *calibration.Report, opts Options) reportDoc {
	ops := make([]string, len(rep.Operators))
	for i, op := range rep.Operators {
		ops[i] = op.String()
	}
	doc := reportDoc{
		RunID:         rep.RunID,
		Input:         rep.Input,
		Operators:     ops,
		Overflow:      rep.Policy.String(),
		Total:         rep.Total,
		Satisfiable:   rep.Satisfiable,
		Unsatisfiable: rep.Unsatisfiable(),
		Failed:        rep.Failed,
		Evaluated:     rep.Evaluated(),
		ElapsedMS:     rep.Elapsed.Milliseconds(),
		OverflowLines: rep.OverflowLines(),
	}
	for _, l := range selectLines(rep.Lines, opts) {
		doc.Lines = append(doc.Lines, newLineDoc(l))
	}
	return doc
}

// Report renders a calibration report in the effective mode.
func (r *Renderer) Report(rep *calibration.Report, opts Options) error {
	switch r.EffectiveMode() {
	case ModeJSON:
		return r.encodeJSON(newReportDoc(rep, opts))
	case ModeYAML:
		return r.encodeYAML(newReportDoc(rep, opts))
	case ModeMarkdown:
		return r.reportMarkdown(rep, opts)
	default:
		return r.reportText(rep, opts)
	}
}

func (r *Renderer) encodeJSON(v any) error {
	enc := json.NewEncoder(r.w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (r *Renderer) encodeYAML(v any) error {
	enc := yaml.NewEncoder(r.w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

func formatOperands(ops []uint64) string {
	parts := make([]string, len(ops))
	for i, v := range ops {
		parts[i] = strconv.FormatUint(v, 10)
	}
	return strings.Join(parts, " ")
}

func lineNumbers(lines []int) string {
	parts := make([]string, len(lines))
	for i, n := range lines {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, ", ")
}

// mdCell escapes text for use inside a markdown table cell.
func mdCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

func operatorNames(ops []solver.Operator) string {
	names := make([]string, len(ops))
	for i, op := range ops {
		names[i] = op.String()
	}
	return strings.Join(names, ",")
}

func (r *Renderer) statusText(s calibration.Status) string {
	switch s {
	case calibration.StatusSatisfiable:
		return r.styles.Success.Render(s.String())
	case calibration.StatusUnsatisfiable:
		return r.styles.Muted.Render(s.String())
	case calibration.StatusFailed:
		return r.styles.Error.Render(s.String())
	default:
		return s.String()
	}
}

func (r *Renderer) reportText(rep *calibration.Report, opts Options) error {
	if lines := selectLines(rep.Lines, opts); len(lines) > 0 {
		t := table.NewWriter()
		t.SetOutputMirror(r.w)
		t.SetStyle(table.StyleLight)
		t.AppendHeader(table.Row{"Line", "Target", "Operands", "Matches", "Status", "Running Total"})
		for _, l := range lines {
			if l.Status == calibration.StatusFailed {
				reason := ""
				if l.Err != nil {
					reason = l.Err.Error()
				}
				t.AppendRow(table.Row{l.Number, "", r.styles.Muted.Render(reason), "", r.statusText(l.Status), r.Number(l.RunningTotal)})
				continue
			}
			t.AppendRow(table.Row{
				l.Number,
				l.Equation.Target,
				formatOperands(l.Equation.Operands),
				l.Result.Matches,
				r.statusText(l.Status),
				r.Number(l.RunningTotal),
			})
		}
		t.Render()
	}

	r.printf("%s %s\n", r.styles.Header.Render("Total calibration result:"), r.styles.Total.Render(r.Number(rep.Total)))
	r.printf("%s satisfiable, %s unsatisfiable, %s failed (%s assignments, operators %s, overflow %s)\n",
		r.Number(uint64(rep.Satisfiable)),
		r.Number(uint64(rep.Unsatisfiable())),
		r.Number(uint64(rep.Failed)),
		r.Number(rep.Evaluated()),
		operatorNames(rep.Operators),
		rep.Policy,
	)
	if overflows := rep.OverflowLines(); len(overflows) > 0 {
		r.printf("%s targets on lines %s were left out of the total\n",
			r.styles.Warning.Render("Total overflows u64:"), lineNumbers(overflows))
	}
	return nil
}

func (r *Renderer) reportMarkdown(rep *calibration.Report, opts Options) error {
	r.println("# Calibration")
	r.println()
	r.printf("- **Input:** `%s`\n", rep.Input)
	r.printf("- **Operators:** %s\n", operatorNames(rep.Operators))
	r.printf("- **Overflow:** %s\n", rep.Policy)
	r.printf("- **Total:** %d\n", rep.Total)
	r.printf("- **Satisfiable:** %d\n", rep.Satisfiable)
	r.printf("- **Unsatisfiable:** %d\n", rep.Unsatisfiable())
	r.printf("- **Failed:** %d\n", rep.Failed)
	if overflows := rep.OverflowLines(); len(overflows) > 0 {
		r.printf("- **Total overflow:** lines %s left out\n", lineNumbers(overflows))
	}

	lines := selectLines(rep.Lines, opts)
	if len(lines) == 0 {
		return nil
	}
	r.println()
	r.println("| Line | Target | Operands | Matches | Status | Running Total |")
	r.println("| --- | --- | --- | --- | --- | --- |")
	for _, l := range lines {
		d := newLineDoc(l)
		target := ""
		if d.Target != nil {
			target = strconv.FormatUint(*d.Target, 10)
		}
		operands := formatOperands(d.Operands)
		if d.Error != "" {
			operands = d.Error
		}
		r.printf("| %d | %s | %s | %d | %s | %d |\n", d.Line, target, mdCell(operands), d.Matches, d.Status, d.RunningTotal)
	}
	return nil
}

// Check renders parse-only results.
func (r *Renderer) Check(lines []calibration.LineResult, opts Options) error {
	docs := make([]lineDoc, 0, len(lines))
	failed := 0
	for _, l := range lines {
		if l.Status == calibration.StatusFailed {
			failed++
		}
	}
	for _, l := range selectLines(lines, opts) {
		docs = append(docs, newLineDoc(l))
	}

	switch r.EffectiveMode() {
	case ModeJSON:
		return r.encodeJSON(docs)
	case ModeYAML:
		return r.encodeYAML(docs)
	case ModeMarkdown:
		r.println("| Line | Status | Equation |")
		r.println("| --- | --- | --- |")
		for _, d := range docs {
			r.printf("| %d | %s | %s |\n", d.Line, d.Status, mdCell(checkDetail(d)))
		}
	default:
		t := table.NewWriter()
		t.SetOutputMirror(r.w)
		t.SetStyle(table.StyleLight)
		t.AppendHeader(table.Row{"Line", "Status", "Equation"})
		for _, d := range docs {
			status := r.styles.Success.Render(d.Status)
			if d.Error != "" {
				status = r.styles.Error.Render(d.Status)
			}
			t.AppendRow(table.Row{d.Line, status, checkDetail(d)})
		}
		t.Render()
	}
	r.printf("%d lines, %d failed to parse\n", len(lines), failed)
	return nil
}

func checkDetail(d lineDoc) string {
	if d.Error != "" {
		return d.Error
	}
	return fmt.Sprintf("%d: %s", *d.Target, formatOperands(d.Operands))
}

// explanationDoc is the serialized form of an explanation.
type explanationDoc struct {
	Target    uint64   `json:"target" yaml:"target"`
	Operands  []uint64 `json:"operands" yaml:"operands"`
	Evaluated uint64   `json:"evaluated" yaml:"evaluated"`
	Matches   uint64   `json:"matches" yaml:"matches"`
	Solutions []string `json:"solutions" yaml:"solutions"`
}

// Explain renders every matching assignment of a single equation.
func (r *Renderer) Explain(eq equation.Equation, res solver.Result, solutions []solver.Assignment) error {
	doc := explanationDoc{
		Target:    eq.Target,
		Operands:  eq.Operands,
		Evaluated: res.Evaluated,
		Matches:   res.Matches,
		Solutions: make([]string, 0, len(solutions)),
	}
	for _, a := range solutions {
		doc.Solutions = append(doc.Solutions, solver.Format(eq.Operands, a))
	}

	switch r.EffectiveMode() {
	case ModeJSON:
		return r.encodeJSON(doc)
	case ModeYAML:
		return r.encodeYAML(doc)
	}

	if len(doc.Solutions) == 0 {
		r.printf("%s %s\n", r.styles.Error.Render("no solution:"), eq)
	}
	for _, s := range doc.Solutions {
		r.printf("%s = %d\n", s, eq.Target)
	}
	r.println(r.styles.Muted.Render(fmt.Sprintf("%d of %d assignments match", res.Matches, res.Evaluated)))
	return nil
}
