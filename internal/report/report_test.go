package report

import (
	"bytes"
	"context"
	"encoding/json"
	"math"
	"strconv"
	"testing"

	"github.com/leapstack-labs/calibrate/internal/calibration"
	"github.com/leapstack-labs/calibrate/internal/equation"
	"github.com/leapstack-labs/calibrate/internal/solver"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const input = "190: 10 19\n83: 17 5\nbogus line\n156: 15 6\n"

func runReport(t *testing.T) *calibration.Report {
	t.Helper()
	r, err := calibration.NewRunner(calibration.Config{Workers: 1})
	require.NoError(t, err)
	rep, err := r.Run(context.Background(), "input.txt", input)
	require.NoError(t, err)
	return rep
}

func newTestRenderer(mode Mode, isTTY bool) (*Renderer, *bytes.Buffer) {
	out := &bytes.Buffer{}
	return NewRendererWithTTY(out, &bytes.Buffer{}, isTTY, mode), out
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in      string
		want    Mode
		wantErr bool
	}{
		{in: "", want: ModeAuto},
		{in: "auto", want: ModeAuto},
		{in: "TEXT", want: ModeText},
		{in: "md", want: ModeMarkdown},
		{in: "markdown", want: ModeMarkdown},
		{in: "json", want: ModeJSON},
		{in: "yml", want: ModeYAML},
		{in: "csv", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseMode(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEffectiveMode(t *testing.T) {
	r, _ := newTestRenderer(ModeAuto, true)
	assert.Equal(t, ModeText, r.EffectiveMode())

	r, _ = newTestRenderer(ModeAuto, false)
	assert.Equal(t, ModeMarkdown, r.EffectiveMode())

	r, _ = newTestRenderer(ModeJSON, true)
	assert.Equal(t, ModeJSON, r.EffectiveMode())
}

func TestNewRendererDetectsNonTTY(t *testing.T) {
	r := NewRenderer(&bytes.Buffer{}, &bytes.Buffer{}, ModeAuto)
	assert.Equal(t, ModeMarkdown, r.EffectiveMode())
}

func TestReportText(t *testing.T) {
	r, out := newTestRenderer(ModeText, false)
	require.NoError(t, r.Report(runReport(t), Options{}))

	got := out.String()
	assert.Contains(t, got, "Total calibration result: 346")
	assert.Contains(t, got, "Running Total")
	assert.Contains(t, got, "15 6")
	assert.Contains(t, got, "missing ':' delimiter")
	assert.Contains(t, got, "2 satisfiable, 1 unsatisfiable, 1 failed")
	assert.Contains(t, got, "operators add,mul,concat, overflow check")
	assert.NotContains(t, got, "\x1b[", "non-TTY output must not contain escape codes")
}

func TestReportTextGroupsThousands(t *testing.T) {
	r, out := newTestRenderer(ModeText, false)
	rep := &calibration.Report{Total: 11387}
	require.NoError(t, r.Report(rep, Options{}))
	assert.Contains(t, out.String(), "11,387")
}

func TestReportSummaryOnly(t *testing.T) {
	r, out := newTestRenderer(ModeText, false)
	require.NoError(t, r.Report(runReport(t), Options{SummaryOnly: true}))
	assert.NotContains(t, out.String(), "Running Total")
	assert.Contains(t, out.String(), "346")
}

func TestReportMarkdown(t *testing.T) {
	r, out := newTestRenderer(ModeAuto, false)
	require.NoError(t, r.Report(runReport(t), Options{}))

	got := out.String()
	assert.Contains(t, got, "# Calibration")
	assert.Contains(t, got, "- **Total:** 346")
	assert.Contains(t, got, "| 1 | 190 | 10 19 | 1 | satisfiable | 190 |")
	assert.Contains(t, got, "| 2 | 83 | 17 5 | 0 | unsatisfiable | 190 |")
	assert.Contains(t, got, "| 4 | 156 | 15 6 | 1 | satisfiable | 346 |")
}

func TestReportFailuresOnly(t *testing.T) {
	r, out := newTestRenderer(ModeMarkdown, false)
	require.NoError(t, r.Report(runReport(t), Options{FailuresOnly: true}))

	got := out.String()
	assert.Contains(t, got, "| 3 |")
	assert.NotContains(t, got, "| 1 | 190")
}

func TestReportJSON(t *testing.T) {
	r, out := newTestRenderer(ModeJSON, false)
	require.NoError(t, r.Report(runReport(t), Options{}))

	var doc reportDoc
	require.NoError(t, json.Unmarshal(out.Bytes(), &doc))
	assert.Equal(t, uint64(346), doc.Total)
	assert.Equal(t, []string{"add", "mul", "concat"}, doc.Operators)
	assert.Equal(t, "check", doc.Overflow)
	require.Len(t, doc.Lines, 4)
	assert.Equal(t, "10 * 19", doc.Lines[0].Solution)
	assert.Equal(t, "failed", doc.Lines[2].Status)
	assert.Nil(t, doc.Lines[2].Target)
	assert.NotEmpty(t, doc.Lines[2].Error)
	assert.Equal(t, "15 || 6", doc.Lines[3].Solution)
}

func TestReportYAML(t *testing.T) {
	r, out := newTestRenderer(ModeYAML, false)
	require.NoError(t, r.Report(runReport(t), Options{}))

	var doc map[string]any
	require.NoError(t, yaml.Unmarshal(out.Bytes(), &doc))
	assert.Equal(t, 346, doc["total"])
	assert.Equal(t, 1, doc["failed"])
}

func TestCheck(t *testing.T) {
	lines := calibration.ParseAll("10: 1 2 three 4 5\nnope\n")

	r, out := newTestRenderer(ModeText, false)
	require.NoError(t, r.Check(lines, Options{}))
	got := out.String()
	assert.Contains(t, got, "10: 1 2 4 5")
	assert.Contains(t, got, "missing ':' delimiter")
	assert.Contains(t, got, "2 lines, 1 failed to parse")

	r, out = newTestRenderer(ModeMarkdown, false)
	require.NoError(t, r.Check(lines, Options{FailuresOnly: true}))
	assert.NotContains(t, out.String(), "10: 1 2 4 5")
	assert.Contains(t, out.String(), "| 2 | failed |")

	r, out = newTestRenderer(ModeJSON, false)
	require.NoError(t, r.Check(lines, Options{}))
	var docs []lineDoc
	require.NoError(t, json.Unmarshal(out.Bytes(), &docs))
	require.Len(t, docs, 2)
	assert.Equal(t, "parsed", docs[0].Status)
}

func TestExplain(t *testing.T) {
	eval, err := solver.New()
	require.NoError(t, err)
	eq := equation.MustParse("3267: 81 40 27")
	res, err := eval.Count(context.Background(), eq)
	require.NoError(t, err)
	var solutions []solver.Assignment
	for a := range eval.Solutions(eq) {
		solutions = append(solutions, a)
	}

	r, out := newTestRenderer(ModeText, false)
	require.NoError(t, r.Explain(eq, res, solutions))
	assert.Contains(t, out.String(), "81 * 40 + 27 = 3267")
	assert.Contains(t, out.String(), "81 + 40 * 27 = 3267")
	assert.Contains(t, out.String(), "2 of 9 assignments match")

	r, out = newTestRenderer(ModeText, false)
	require.NoError(t, r.Explain(equation.MustParse("83: 17 5"), solver.Result{Evaluated: 3}, nil))
	assert.Contains(t, out.String(), "no solution: 83: 17 5")

	r, out = newTestRenderer(ModeJSON, false)
	require.NoError(t, r.Explain(eq, res, solutions))
	var doc explanationDoc
	require.NoError(t, json.Unmarshal(out.Bytes(), &doc))
	assert.Equal(t, []string{"81 * 40 + 27", "81 + 40 * 27"}, doc.Solutions)
}

func overflowReport(t *testing.T) *calibration.Report {
	t.Helper()
	r, err := calibration.NewRunner(calibration.Config{Workers: 1})
	require.NoError(t, err)
	maxU64 := strconv.FormatUint(math.MaxUint64, 10)
	rep, err := r.Run(context.Background(), "input.txt", maxU64+": "+maxU64+"\n1: 1\n")
	require.NoError(t, err)
	return rep
}

func TestReportTotalOverflow(t *testing.T) {
	rep := overflowReport(t)

	r, out := newTestRenderer(ModeText, false)
	require.NoError(t, r.Report(rep, Options{}))
	assert.Contains(t, out.String(), "Total overflows u64: targets on lines 2 were left out of the total")

	r, out = newTestRenderer(ModeMarkdown, false)
	require.NoError(t, r.Report(rep, Options{}))
	assert.Contains(t, out.String(), "- **Total overflow:** lines 2 left out")

	r, out = newTestRenderer(ModeJSON, false)
	require.NoError(t, r.Report(rep, Options{}))
	var doc struct {
		OverflowLines []int `json:"total_overflow_lines"`
		Lines         []struct {
			TotalOverflow bool `json:"total_overflow"`
		} `json:"lines"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &doc))
	assert.Equal(t, []int{2}, doc.OverflowLines)
	require.Len(t, doc.Lines, 2)
	assert.False(t, doc.Lines[0].TotalOverflow)
	assert.True(t, doc.Lines[1].TotalOverflow)
}

func TestMarkdownEscapesPipes(t *testing.T) {
	const pipes = "1|2: 3\n190: 10 19\n"

	runner, err := calibration.NewRunner(calibration.Config{Workers: 1})
	require.NoError(t, err)
	rep, err := runner.Run(context.Background(), "input.txt", pipes)
	require.NoError(t, err)

	r, out := newTestRenderer(ModeMarkdown, false)
	require.NoError(t, r.Report(rep, Options{}))
	assert.Contains(t, out.String(), `invalid target "1\|2"`)
	assert.NotContains(t, out.String(), `"1|2"`)

	r, out = newTestRenderer(ModeMarkdown, false)
	require.NoError(t, r.Check(calibration.ParseAll(pipes), Options{}))
	assert.Contains(t, out.String(), `| 1 | failed | line does not describe an equation: invalid target "1\|2" |`)
}
