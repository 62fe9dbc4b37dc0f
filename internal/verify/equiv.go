package verify

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"sort"

	"github.com/gnolang/ifnest/internal/pyast"
)

// VerificationResult represents the result of equivalence verification.
type VerificationResult int

const (
	_ VerificationResult = iota
	// Equivalent means no sample told the two tests apart.
	Equivalent
	// NotEquivalent means a counterexample was found.
	NotEquivalent
	// Unknown means the tests could not be evaluated.
	Unknown
)

func (r VerificationResult) String() string {
	switch r {
	case Equivalent:
		return "Equivalent"
	case NotEquivalent:
		return "NotEquivalent"
	case Unknown:
		return "Unknown"
	default:
		return "?"
	}
}

// ReasonCode explains a VerificationResult.
type ReasonCode int

const (
	ReasonNone ReasonCode = iota
	ReasonSameResult
	ReasonDifferentValue
	ReasonSymbolicCondition
	ReasonNoSamples
)

func (r ReasonCode) String() string {
	switch r {
	case ReasonNone:
		return "none"
	case ReasonSameResult:
		return "same result for all samples"
	case ReasonDifferentValue:
		return "different truth values"
	case ReasonSymbolicCondition:
		return "symbolic condition - cannot evaluate"
	case ReasonNoSamples:
		return "every sample divided by zero"
	default:
		return "unknown"
	}
}

// VerificationReport provides detailed information about verification.
type VerificationReport struct {
	Result  VerificationResult
	Reason  ReasonCode
	Detail  string
	Samples int
	// Counterexample is set when Result is NotEquivalent.
	Counterexample *Env
}

// Config controls sampling.
type Config struct {
	Trials int
	Seed   uint64
	// Bound limits sampled integers to [-Bound, Bound].
	Bound int64
}

// DefaultConfig samples small integers, where off-by-one rewrites
// show up quickly.
func DefaultConfig() Config {
	return Config{Trials: 256, Seed: 1, Bound: 24}
}

// Verifier compares two tests on random environments.
type Verifier struct {
	evaluator *Evaluator
	config    Config
}

// NewVerifier creates a verifier. Zero fields fall back to
// DefaultConfig.
func NewVerifier(config Config) *Verifier {
	def := DefaultConfig()
	if config.Trials <= 0 {
		config.Trials = def.Trials
	}
	if config.Bound <= 0 {
		config.Bound = def.Bound
	}
	if config.Seed == 0 {
		config.Seed = def.Seed
	}
	return &Verifier{evaluator: NewEvaluator(), config: config}
}

// CheckEquivalence evaluates both tests on the same sampled
// environments and compares their truth values.
func (v *Verifier) CheckEquivalence(original, rewritten pyast.Expr) VerificationReport {
	names := freeNames(original, rewritten)
	rng := rand.New(rand.NewPCG(v.config.Seed, uint64(len(names))))

	samples := 0
	for i := 0; i < v.config.Trials; i++ {
		env := v.sample(rng, names, i)

		r1, err1 := v.evaluator.EvalExpr(original, env)
		r2, err2 := v.evaluator.EvalExpr(rewritten, env)
		if errors.Is(err1, ErrDivisionByZero) || errors.Is(err2, ErrDivisionByZero) {
			continue
		}
		if err1 != nil || err2 != nil {
			return VerificationReport{
				Result: Unknown,
				Reason: ReasonSymbolicCondition,
				Detail: fmt.Sprintf("evaluation failed: %v", errors.Join(err1, err2)),
			}
		}

		b1, ok1 := r1.(BoolValue)
		b2, ok2 := r2.(BoolValue)
		if !ok1 || !ok2 {
			return VerificationReport{
				Result: Unknown,
				Reason: ReasonSymbolicCondition,
				Detail: "evaluation produced " + r1.String() + " vs " + r2.String(),
			}
		}
		samples++
		if b1.Val != b2.Val {
			return VerificationReport{
				Result:         NotEquivalent,
				Reason:         ReasonDifferentValue,
				Detail:         fmt.Sprintf("%s gives %s vs %s", env, b1, b2),
				Samples:        samples,
				Counterexample: env,
			}
		}
	}

	if samples == 0 {
		return VerificationReport{
			Result: Unknown,
			Reason: ReasonNoSamples,
			Detail: "no sample could be evaluated",
		}
	}
	return VerificationReport{
		Result:  Equivalent,
		Reason:  ReasonSameResult,
		Detail:  fmt.Sprintf("identical on %d samples", samples),
		Samples: samples,
	}
}

// sample binds every name. The first trials walk a small fixed grid so
// boundary values are always covered; the rest are random. Every third
// random trial uses halves to exercise float division.
func (v *Verifier) sample(rng *rand.Rand, names []string, trial int) *Env {
	env := NewEnv()
	grid := []int64{0, 1, -1, 2, -2, 3}
	if trial < len(grid) {
		for j, name := range names {
			env.Set(name, IntValue{Val: grid[(trial+j)%len(grid)]})
		}
		return env
	}
	for _, name := range names {
		n := rng.Int64N(2*v.config.Bound+1) - v.config.Bound
		if trial%3 == 0 {
			env.Set(name, FloatValue{Val: float64(n) / 2})
			continue
		}
		env.Set(name, IntValue{Val: n})
	}
	return env
}

func freeNames(exprs ...pyast.Expr) []string {
	seen := make(map[string]bool)
	var visit func(pyast.Expr)
	visit = func(e pyast.Expr) {
		switch x := e.(type) {
		case *pyast.Name:
			seen[x.ID] = true
		case *pyast.BinOp:
			visit(x.Left)
			visit(x.Right)
		case *pyast.Compare:
			visit(x.Left)
			for _, c := range x.Comparators {
				visit(c)
			}
		case *pyast.Literal, *pyast.Other:
		default:
			panic(fmt.Sprintf("verify: unhandled expression %T", e))
		}
	}
	for _, e := range exprs {
		visit(e)
	}
	names := make([]string, 0, len(seen))
	for n := range seen {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// IsSafeToApply reports whether the rewrite survived verification.
func IsSafeToApply(report VerificationReport) bool {
	return report.Result == Equivalent
}

// IsDefinitelyUnsafe reports whether a counterexample was found.
func IsDefinitelyUnsafe(report VerificationReport) bool {
	return report.Result == NotEquivalent
}
