package equation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Equation
		wantErr error
	}{
		{
			name:  "valid input",
			input: "10: 1 2 3 4 5",
			want:  Equation{Target: 10, Operands: []uint64{1, 2, 3, 4, 5}},
		},
		{
			name:    "no colon",
			input:   "10 1 2 3 4 5",
			wantErr: ErrMissingDelimiter,
		},
		{
			name:  "non-numeric operand is dropped",
			input: "10: 1 2 three 4 5",
			want:  Equation{Target: 10, Operands: []uint64{1, 2, 4, 5}},
		},
		{
			name:    "empty input",
			input:   "",
			wantErr: ErrEmptyLine,
		},
		{
			name:    "only colon",
			input:   ":",
			wantErr: ErrInvalidTarget,
		},
		{
			name:  "extra spaces",
			input: "  10  :  1  2  3  4  5  ",
			want:  Equation{Target: 10, Operands: []uint64{1, 2, 3, 4, 5}},
		},
		{
			name:  "tabs between tokens",
			input: "10:\t1\t2 3",
			want:  Equation{Target: 10, Operands: []uint64{1, 2, 3}},
		},
		{
			name:    "non-numeric target",
			input:   "ten: 1 2 3",
			wantErr: ErrInvalidTarget,
		},
		{
			name:    "negative target",
			input:   "-10: 1 2 3",
			wantErr: ErrInvalidTarget,
		},
		{
			name:    "target overflows u64",
			input:   "18446744073709551616: 1",
			wantErr: ErrInvalidTarget,
		},
		{
			name:  "max u64 target",
			input: "18446744073709551615: 18446744073709551615",
			want:  Equation{Target: 18446744073709551615, Operands: []uint64{18446744073709551615}},
		},
		{
			name:  "overflowing operand is dropped",
			input: "7: 3 18446744073709551616 4",
			want:  Equation{Target: 7, Operands: []uint64{3, 4}},
		},
		{
			name:    "two colons",
			input:   "10: 1: 2",
			wantErr: ErrExtraDelimiter,
		},
		{
			name:    "no operands",
			input:   "10:",
			wantErr: ErrNoOperands,
		},
		{
			name:  "signed operand is dropped",
			input: "10: +4 6",
			want:  Equation{Target: 10, Operands: []uint64{6}},
		},
		{
			name:    "signed target",
			input:   "+10: 4 6",
			wantErr: ErrInvalidTarget,
		},
		{
			name:    "only invalid operands",
			input:   "10: a b c",
			wantErr: ErrNoOperands,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.input)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				assert.ErrorIs(t, err, ErrNoMatch)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParsePaddingIsIrrelevant(t *testing.T) {
	plain, err := Parse("3267: 81 40 27")
	require.NoError(t, err)

	padded, err := Parse("\t 3267 \t:   81    40 \t 27   ")
	require.NoError(t, err)

	assert.Equal(t, plain, padded)
}

func TestEquationString(t *testing.T) {
	eq := MustParse("  190 :  10   19 ")
	assert.Equal(t, "190: 10 19", eq.String())
	assert.Equal(t, 1, eq.Gaps())
	assert.Equal(t, 0, Equation{}.Gaps())
}

func TestMustParsePanics(t *testing.T) {
	assert.Panics(t, func() { MustParse("nope") })
}

func TestLines(t *testing.T) {
	tests := []struct {
		name string
		data string
		want []string
	}{
		{name: "empty", data: "", want: nil},
		{name: "single newline", data: "\n", want: []string{""}},
		{name: "two newlines", data: "\n\n", want: []string{"", ""}},
		{name: "no trailing newline", data: "a\nb", want: []string{"a", "b"}},
		{name: "trailing newline", data: "a\nb\n", want: []string{"a", "b"}},
		{name: "blank line kept", data: "a\n\nb\n", want: []string{"a", "", "b"}},
		{name: "crlf", data: "a\r\nb\r\n", want: []string{"a", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []string
			want := 1
			for n, line := range Lines(tt.data) {
				assert.Equal(t, want, n)
				want++
				got = append(got, line)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLinesStopsEarly(t *testing.T) {
	count := 0
	for range Lines("a\nb\nc\n") {
		count++
		if count == 2 {
			break
		}
	}
	assert.Equal(t, 2, count)
}
