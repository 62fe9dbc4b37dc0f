package verify

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnolang/ifnest/internal/pyast"
)

func num(v string) pyast.Expr { return &pyast.Literal{Kind: pyast.NumberLit, Value: v} }

func name(id string) pyast.Expr { return &pyast.Name{ID: id} }

func bin(l pyast.Expr, op pyast.ArithOp, r pyast.Expr) pyast.Expr {
	return &pyast.BinOp{Left: l, Op: op, Right: r}
}

func cmp(l pyast.Expr, op pyast.CmpOp, r pyast.Expr) pyast.Expr {
	return &pyast.Compare{Left: l, Ops: []pyast.CmpOp{op}, Comparators: []pyast.Expr{r}}
}

func TestEvalExprPythonSemantics(t *testing.T) {
	t.Parallel()

	ev := NewEvaluator()
	env := NewEnv()
	env.Set("a", IntValue{Val: -7})
	env.Set("b", IntValue{Val: 2})
	env.Set("h", FloatValue{Val: 1.5})

	tests := []struct {
		name string
		expr pyast.Expr
		want Value
	}{
		{"floor division rounds down", bin(name("a"), pyast.FloorDiv, name("b")), IntValue{Val: -4}},
		{"modulo follows divisor", bin(name("a"), pyast.Mod, name("b")), IntValue{Val: 1}},
		{"true division", bin(name("a"), pyast.Div, name("b")), FloatValue{Val: -3.5}},
		{"power", bin(name("b"), pyast.Pow, num("3")), IntValue{Val: 8}},
		{"negative power", bin(name("b"), pyast.Pow, num("-1")), FloatValue{Val: 0.5}},
		{"mixed float", bin(name("h"), pyast.Mult, name("b")), FloatValue{Val: 3}},
		{"float floor division", bin(num("-3.0"), pyast.FloorDiv, name("b")), FloatValue{Val: -2}},
		{"int equals float", cmp(bin(name("h"), pyast.Mult, name("b")), pyast.Eq, num("3")), BoolValue{Val: true}},
		{"chained comparison", &pyast.Compare{
			Left:        name("a"),
			Ops:         []pyast.CmpOp{pyast.Lt, pyast.Lt},
			Comparators: []pyast.Expr{name("b"), name("h")},
		}, BoolValue{Val: false}},
		{"unbound name", name("zz"), SymbolicValue{Name: "zz"}},
		{"membership", cmp(name("a"), pyast.In, name("b")), SymbolicValue{Name: "in"}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := ev.EvalExpr(tt.expr, env)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEvalDivisionByZero(t *testing.T) {
	t.Parallel()

	ev := NewEvaluator()
	env := NewEnv()
	env.Set("x", IntValue{Val: 0})

	for _, op := range []pyast.ArithOp{pyast.Div, pyast.FloorDiv, pyast.Mod} {
		_, err := ev.EvalExpr(bin(num("1"), op, name("x")), env)
		assert.ErrorIs(t, err, ErrDivisionByZero, op.String())
	}
}

func TestEvalIntOverflow(t *testing.T) {
	t.Parallel()

	ev := NewEvaluator()
	env := NewEnv()
	env.Set("big", IntValue{Val: math.MaxInt64})
	env.Set("small", IntValue{Val: math.MinInt64})

	tests := []struct {
		name string
		expr pyast.Expr
		want Value
	}{
		{"huge exponent", bin(num("2"), pyast.Pow, num("3000000000")), overflow},
		{"exponent past int64", bin(num("2"), pyast.Pow, num("63")), overflow},
		{"largest power", bin(num("2"), pyast.Pow, num("62")), IntValue{Val: 1 << 62}},
		{"negative base odd power", bin(num("-2"), pyast.Pow, num("63")), IntValue{Val: math.MinInt64}},
		{"one to a huge power", bin(num("1"), pyast.Pow, num("3000000000")), IntValue{Val: 1}},
		{"minus one to a huge power", bin(num("-1"), pyast.Pow, num("3000000001")), IntValue{Val: -1}},
		{"add wraps", bin(name("big"), pyast.Add, num("1")), overflow},
		{"sub wraps", bin(name("small"), pyast.Sub, num("1")), overflow},
		{"mult wraps", bin(name("big"), pyast.Mult, num("2")), overflow},
		{"mult to min", bin(name("small"), pyast.Mult, num("1")), IntValue{Val: math.MinInt64}},
		{"floor division wraps", bin(name("small"), pyast.FloorDiv, num("-1")), overflow},
		{"modulo by minus one", bin(name("small"), pyast.Mod, num("-1")), IntValue{Val: 0}},
		{"overflow never compares", cmp(bin(name("big"), pyast.Add, num("1")), pyast.Gt, num("0")), SymbolicValue{Name: "compare"}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := ev.EvalExpr(tt.expr, env)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCheckEquivalenceHugeExponent(t *testing.T) {
	t.Parallel()

	original := cmp(bin(name("x"), pyast.Add, num("1")), pyast.Lt, bin(num("2"), pyast.Pow, num("3000000000")))
	rewritten := cmp(name("x"), pyast.Lt, bin(bin(num("2"), pyast.Pow, num("3000000000")), pyast.Sub, num("1")))

	done := make(chan VerificationReport, 1)
	go func() { done <- NewVerifier(DefaultConfig()).CheckEquivalence(original, rewritten) }()

	select {
	case report := <-done:
		assert.Equal(t, Unknown, report.Result)
	case <-time.After(5 * time.Second):
		t.Fatal("equivalence check did not finish")
	}
}

func TestCheckEquivalence(t *testing.T) {
	t.Parallel()

	v := NewVerifier(DefaultConfig())

	tests := []struct {
		name      string
		original  pyast.Expr
		rewritten pyast.Expr
		want      VerificationResult
	}{
		{
			name:      "moved addend",
			original:  cmp(bin(name("x"), pyast.Add, num("5")), pyast.Lt, num("10")),
			rewritten: cmp(name("x"), pyast.Lt, bin(num("10"), pyast.Sub, num("5"))),
			want:      Equivalent,
		},
		{
			name:      "negative multiplier flips",
			original:  cmp(bin(name("x"), pyast.Mult, num("-2")), pyast.LtE, name("y")),
			rewritten: cmp(name("x"), pyast.GtE, bin(name("y"), pyast.Div, num("-2"))),
			want:      Equivalent,
		},
		{
			name:      "negative multiplier without flip",
			original:  cmp(bin(name("x"), pyast.Mult, num("-2")), pyast.Lt, name("y")),
			rewritten: cmp(name("x"), pyast.Lt, bin(name("y"), pyast.Div, num("-2"))),
			want:      NotEquivalent,
		},
		{
			name:      "logical negation is not a swap",
			original:  cmp(bin(name("a"), pyast.Sub, name("b")), pyast.Lt, num("3")),
			rewritten: cmp(name("b"), pyast.GtE, bin(name("a"), pyast.Sub, num("3"))),
			want:      NotEquivalent,
		},
		{
			name:      "floor division approximation",
			original:  cmp(bin(name("x"), pyast.FloorDiv, num("2")), pyast.LtE, num("1")),
			rewritten: cmp(name("x"), pyast.LtE, bin(num("1"), pyast.Mult, num("2"))),
			want:      NotEquivalent,
		},
		{
			name:      "division by a name under equality",
			original:  cmp(bin(num("12"), pyast.Div, name("x")), pyast.Eq, name("y")),
			rewritten: cmp(name("x"), pyast.Eq, bin(num("12"), pyast.Div, name("y"))),
			want:      Equivalent,
		},
		{
			name:      "identity is out of scope",
			original:  cmp(name("x"), pyast.Is, &pyast.Literal{Kind: pyast.NoneLit, Value: "None"}),
			rewritten: cmp(name("x"), pyast.Is, &pyast.Literal{Kind: pyast.NoneLit, Value: "None"}),
			want:      Unknown,
		},
		{
			name:      "always dividing by zero",
			original:  cmp(bin(name("x"), pyast.Div, num("0")), pyast.Lt, num("1")),
			rewritten: cmp(name("x"), pyast.Lt, num("0")),
			want:      Unknown,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			report := v.CheckEquivalence(tt.original, tt.rewritten)
			assert.Equal(t, tt.want, report.Result, report.Detail)
			if tt.want == NotEquivalent {
				require.NotNil(t, report.Counterexample)
				assert.True(t, IsDefinitelyUnsafe(report))
			}
			if tt.want == Equivalent {
				assert.True(t, IsSafeToApply(report))
				assert.Positive(t, report.Samples)
			}
		})
	}
}

func TestCheckEquivalenceDeterministic(t *testing.T) {
	t.Parallel()

	original := cmp(bin(name("x"), pyast.FloorDiv, num("3")), pyast.Gt, name("y"))
	rewritten := cmp(name("x"), pyast.Gt, bin(name("y"), pyast.Mult, num("3")))

	first := NewVerifier(Config{Seed: 7}).CheckEquivalence(original, rewritten)
	second := NewVerifier(Config{Seed: 7}).CheckEquivalence(original, rewritten)
	assert.Equal(t, first, second)
}

func TestEnvString(t *testing.T) {
	t.Parallel()

	env := NewEnv()
	env.Set("y", FloatValue{Val: 0.5})
	env.Set("x", IntValue{Val: 3})
	assert.Equal(t, "{x=3, y=0.5}", env.String())

	clone := env.Clone()
	clone.Set("x", BoolValue{Val: true})
	assert.Equal(t, IntValue{Val: 3}, env.Get("x"))
	assert.Equal(t, []string{"x", "y"}, clone.Keys())
}
