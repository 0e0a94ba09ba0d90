package interp

import (
	"bytes"
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"
	"github.com/jscheiny/Phoenix-sub000/internal/source"
)

// runFixture interprets a whole program from text and returns its
// stdout-equivalent output. A non-nil error fails the test immediately,
// since every fixture in this file is expected to run to completion.
func runFixture(t *testing.T, program string) string {
	t.Helper()
	src := source.FromString(t.Name()+".phx", program)
	var buf bytes.Buffer
	ip := New(src, &buf)
	if err := ip.RunProgram(); err != nil {
		t.Fatalf("RunProgram: %v", err)
	}
	return buf.String()
}

// TestFixtures runs whole Phoenix programs end to end and snapshots their
// output, comparing full-program behavior rather than individual
// executor calls.
func TestFixtures(t *testing.T) {
	tests := []struct {
		name    string
		program string
	}{
		{
			name: "RecursiveFactorial",
			program: "" +
				"function int (int n) factorial:\n" +
				"  if n <= 1:\n" +
				"    return 1\n" +
				"  return (n - 1) factorial * n\n" +
				"print (5) factorial\n",
		},
		{
			name: "OtherwiseRunsWhenLoopNeverExecutes",
			program: "" +
				"while false:\n" +
				"  print 1\n" +
				"otherwise:\n" +
				"  print 2\n",
		},
		{
			name:    "StringRepetitionOperator",
			program: "print 3 * \"ab\"\n",
		},
		{
			name: "TryCatchRecoversFromDivisionByZero",
			program: "" +
				"try:\n" +
				"  int x = 1 / 0\n" +
				"catch:\n" +
				"  print \"caught\"\n",
		},
		{
			name: "TryCatchRecoversFromUserError",
			program: "" +
				"try:\n" +
				"  error(\"boom\")\n" +
				"catch:\n" +
				"  print \"recovered\"\n",
		},
		{
			name: "ForLoopWithOtherwiseOnEmptyRange",
			program: "" +
				"for int i = 0 ; i < 0 ; i += 1 :\n" +
				"  print i\n" +
				"otherwise:\n" +
				"  print \"empty\"\n",
		},
		{
			name: "DoUntilRunsBodyAtLeastOnce",
			program: "" +
				"int n = 0\n" +
				"do:\n" +
				"  print n\n" +
				"  n += 1\n" +
				"until n >= 3:\n",
		},
		{
			name: "BreakExitsLoopEarly",
			program: "" +
				"for int i = 0 ; i < 10 ; i += 1 :\n" +
				"  if i == 3:\n" +
				"    break\n" +
				"  print i\n",
		},
		{
			name: "LenTypeofAndArrayLiteral",
			program: "" +
				"[int] xs = [1, 2, 3]\n" +
				"print len(xs)\n" +
				"print typeof(xs)\n" +
				"print typeof(\"hi\")\n",
		},
		{
			name: "TwoSidedCallPassesBothArgumentLists",
			program: "" +
				"function int (int a) plus (int b):\n" +
				"  return a + b\n" +
				"print (2) plus (3)\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := runFixture(t, tt.program)
			snaps.MatchSnapshot(t, out)
		})
	}
}
