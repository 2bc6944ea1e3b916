package consair

import (
	"math"
	"math/big"
	"strconv"
	"strings"
)

// NumKind orders the tower by promotion rank. Binary operations join
// the two operand ranks, promote both sides, and compute at the join.
type NumKind int

const (
	NumInt NumKind = iota
	NumBigInt
	NumRatio
	NumBigRat
	NumFloat
)

// Number is a tagged union over the five representations. Results are
// always normalized to the smallest representation that holds them
// exactly: BigInt demotes to Int when it fits, ratios are reduced with
// a positive denominator, and a denominator of 1 collapses to Int.
type Number struct {
	Kind NumKind
	I    int64
	Big  *big.Int
	RN   int64 // ratio numerator, reduced
	RD   int64 // ratio denominator, reduced, always > 1
	Rat  *big.Rat
	F    float64
}

func IntNum(i int64) Number     { return Number{Kind: NumInt, I: i} }
func FloatNum(f float64) Number { return Number{Kind: NumFloat, F: f} }

// BigNum normalizes a big integer, demoting to Int when it fits.
func BigNum(b *big.Int) Number {
	if b.IsInt64() {
		return IntNum(b.Int64())
	}
	return Number{Kind: NumBigInt, Big: b}
}

// RatNum normalizes an exact rational: integers demote through BigNum,
// small ratios use the fixed-width representation.
func RatNum(r *big.Rat) Number {
	if r.IsInt() {
		return BigNum(new(big.Int).Set(r.Num()))
	}
	if r.Num().IsInt64() && r.Denom().IsInt64() {
		// big.Rat keeps itself reduced with a positive denominator
		return Number{Kind: NumRatio, RN: r.Num().Int64(), RD: r.Denom().Int64()}
	}
	return Number{Kind: NumBigRat, Rat: r}
}

// RatioNum builds a reduced ratio from fixed-width parts. A zero
// denominator is a division-by-zero error; a reduced denominator of 1
// yields an Int.
func RatioNum(num, denom int64) (Number, error) {
	if denom == 0 {
		return Number{}, &DivisionByZeroError{}
	}
	if num == math.MinInt64 || denom == math.MinInt64 {
		return RatNum(big.NewRat(0, 1).SetFrac(big.NewInt(num), big.NewInt(denom))), nil
	}
	g := gcd64(num, denom)
	num, denom = num/g, denom/g
	if denom < 0 {
		num, denom = -num, -denom
	}
	if denom == 1 {
		return IntNum(num), nil
	}
	return Number{Kind: NumRatio, RN: num, RD: denom}, nil
}

func gcd64(a, b int64) int64 {
	if a < 0 {
		a = -a
	}
	if b < 0 {
		b = -b
	}
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

// checked int64 helpers: ok is false on overflow.

func addInt64(a, b int64) (int64, bool) {
	c := a + b
	if (c > a) == (b > 0) || b == 0 {
		return c, true
	}
	return 0, false
}

func subInt64(a, b int64) (int64, bool) {
	c := a - b
	if (c < a) == (b > 0) || b == 0 {
		return c, true
	}
	return 0, false
}

func mulInt64(a, b int64) (int64, bool) {
	if a == 0 || b == 0 {
		return 0, true
	}
	if (a == math.MinInt64 && b == -1) || (b == math.MinInt64 && a == -1) {
		return 0, false
	}
	c := a * b
	if c/b != a {
		return 0, false
	}
	return c, true
}

// Float converts to float64, possibly losing precision.
func (n Number) Float() float64 {
	switch n.Kind {
	case NumInt:
		return float64(n.I)
	case NumBigInt:
		f, _ := new(big.Float).SetInt(n.Big).Float64()
		return f
	case NumRatio:
		return float64(n.RN) / float64(n.RD)
	case NumBigRat:
		f, _ := n.Rat.Float64()
		return f
	default:
		return n.F
	}
}

// rat converts an exact (non-float) number to a big.Rat.
func (n Number) rat() *big.Rat {
	switch n.Kind {
	case NumInt:
		return new(big.Rat).SetInt64(n.I)
	case NumBigInt:
		return new(big.Rat).SetInt(n.Big)
	case NumRatio:
		return big.NewRat(n.RN, n.RD)
	case NumBigRat:
		return n.Rat
	default:
		panic("rat: float operand")
	}
}

func (n Number) IsZero() bool {
	switch n.Kind {
	case NumInt:
		return n.I == 0
	case NumBigInt:
		return n.Big.Sign() == 0
	case NumRatio:
		return n.RN == 0
	case NumBigRat:
		return n.Rat.Sign() == 0
	default:
		return n.F == 0
	}
}

// joinKind computes the rank both operands are promoted to. Floats
// contaminate; a BigInt meeting a ratio joins at BigRat.
func joinKind(a, b NumKind) NumKind {
	if a == NumFloat || b == NumFloat {
		return NumFloat
	}
	if a == NumBigRat || b == NumBigRat {
		return NumBigRat
	}
	ratio := a == NumRatio || b == NumRatio
	bigint := a == NumBigInt || b == NumBigInt
	switch {
	case ratio && bigint:
		return NumBigRat
	case ratio:
		return NumRatio
	case bigint:
		return NumBigInt
	default:
		return NumInt
	}
}

// Add returns a+b at the joined rank, promoting Int overflow to BigInt
// and small-ratio component overflow to BigRat. Results never wrap.
func (a Number) Add(b Number) (Number, error) {
	switch joinKind(a.Kind, b.Kind) {
	case NumInt:
		if c, ok := addInt64(a.I, b.I); ok {
			return IntNum(c), nil
		}
		return BigNum(new(big.Int).Add(big.NewInt(a.I), big.NewInt(b.I))), nil
	case NumBigInt:
		return BigNum(new(big.Int).Add(a.bigInt(), b.bigInt())), nil
	case NumRatio:
		an, ad := a.ratioParts()
		bn, bd := b.ratioParts()
		// a/b + c/d = (ad + cb) / bd
		if x, ok := mulInt64(an, bd); ok {
			if y, ok := mulInt64(bn, ad); ok {
				if num, ok := addInt64(x, y); ok {
					if den, ok := mulInt64(ad, bd); ok {
						return RatioNum(num, den)
					}
				}
			}
		}
		return RatNum(new(big.Rat).Add(a.rat(), b.rat())), nil
	case NumBigRat:
		return RatNum(new(big.Rat).Add(a.rat(), b.rat())), nil
	default:
		return FloatNum(a.Float() + b.Float()), nil
	}
}

func (a Number) Sub(b Number) (Number, error) {
	switch joinKind(a.Kind, b.Kind) {
	case NumInt:
		if c, ok := subInt64(a.I, b.I); ok {
			return IntNum(c), nil
		}
		return BigNum(new(big.Int).Sub(big.NewInt(a.I), big.NewInt(b.I))), nil
	case NumBigInt:
		return BigNum(new(big.Int).Sub(a.bigInt(), b.bigInt())), nil
	case NumRatio:
		an, ad := a.ratioParts()
		bn, bd := b.ratioParts()
		if x, ok := mulInt64(an, bd); ok {
			if y, ok := mulInt64(bn, ad); ok {
				if num, ok := subInt64(x, y); ok {
					if den, ok := mulInt64(ad, bd); ok {
						return RatioNum(num, den)
					}
				}
			}
		}
		return RatNum(new(big.Rat).Sub(a.rat(), b.rat())), nil
	case NumBigRat:
		return RatNum(new(big.Rat).Sub(a.rat(), b.rat())), nil
	default:
		return FloatNum(a.Float() - b.Float()), nil
	}
}

func (a Number) Mul(b Number) (Number, error) {
	switch joinKind(a.Kind, b.Kind) {
	case NumInt:
		if c, ok := mulInt64(a.I, b.I); ok {
			return IntNum(c), nil
		}
		return BigNum(new(big.Int).Mul(big.NewInt(a.I), big.NewInt(b.I))), nil
	case NumBigInt:
		return BigNum(new(big.Int).Mul(a.bigInt(), b.bigInt())), nil
	case NumRatio:
		an, ad := a.ratioParts()
		bn, bd := b.ratioParts()
		if num, ok := mulInt64(an, bn); ok {
			if den, ok := mulInt64(ad, bd); ok {
				return RatioNum(num, den)
			}
		}
		return RatNum(new(big.Rat).Mul(a.rat(), b.rat())), nil
	case NumBigRat:
		return RatNum(new(big.Rat).Mul(a.rat(), b.rat())), nil
	default:
		return FloatNum(a.Float() * b.Float()), nil
	}
}

// Div returns a/b. Integer division is exact: evenly divisible
// operands yield an integer, anything else an exact ratio. A zero
// divisor is an error at every rank, floats included.
func (a Number) Div(b Number) (Number, error) {
	if b.IsZero() {
		return Number{}, &DivisionByZeroError{}
	}
	switch joinKind(a.Kind, b.Kind) {
	case NumInt:
		if a.I%b.I == 0 {
			if a.I == math.MinInt64 && b.I == -1 {
				return BigNum(new(big.Int).Neg(big.NewInt(a.I))), nil
			}
			return IntNum(a.I / b.I), nil
		}
		return RatioNum(a.I, b.I)
	case NumRatio:
		an, ad := a.ratioParts()
		bn, bd := b.ratioParts()
		// a/b / c/d = ad / bc
		if num, ok := mulInt64(an, bd); ok {
			if den, ok := mulInt64(ad, bn); ok {
				return RatioNum(num, den)
			}
		}
		return RatNum(new(big.Rat).Quo(a.rat(), b.rat())), nil
	case NumBigInt, NumBigRat:
		return RatNum(new(big.Rat).Quo(a.rat(), b.rat())), nil
	default:
		return FloatNum(a.Float() / b.Float()), nil
	}
}

func (a Number) Neg() (Number, error) {
	switch a.Kind {
	case NumInt:
		if a.I == math.MinInt64 {
			return BigNum(new(big.Int).Neg(big.NewInt(a.I))), nil
		}
		return IntNum(-a.I), nil
	case NumBigInt:
		return BigNum(new(big.Int).Neg(a.Big)), nil
	case NumRatio:
		if a.RN == math.MinInt64 {
			return RatNum(new(big.Rat).Neg(a.rat())), nil
		}
		return Number{Kind: NumRatio, RN: -a.RN, RD: a.RD}, nil
	case NumBigRat:
		return RatNum(new(big.Rat).Neg(a.Rat)), nil
	default:
		return FloatNum(-a.F), nil
	}
}

func (n Number) bigInt() *big.Int {
	if n.Kind == NumBigInt {
		return n.Big
	}
	return big.NewInt(n.I)
}

// ratioParts reads an Int or small Ratio as numerator/denominator.
func (n Number) ratioParts() (int64, int64) {
	if n.Kind == NumRatio {
		return n.RN, n.RD
	}
	return n.I, 1
}

// Equal is value-correct across representations: exact against exact
// compares without precision loss; a float operand compares in
// floating point.
func (a Number) Equal(b Number) bool {
	if a.Kind == NumFloat || b.Kind == NumFloat {
		return a.Float() == b.Float()
	}
	if a.Kind == NumInt && b.Kind == NumInt {
		return a.I == b.I
	}
	return a.rat().Cmp(b.rat()) == 0
}

// Compare returns -1, 0 or 1. ok is false when a NaN makes the pair
// unordered.
func (a Number) Compare(b Number) (int, bool) {
	if a.Kind == NumFloat || b.Kind == NumFloat {
		x, y := a.Float(), b.Float()
		switch {
		case math.IsNaN(x) || math.IsNaN(y):
			return 0, false
		case x < y:
			return -1, true
		case x > y:
			return 1, true
		default:
			return 0, true
		}
	}
	if a.Kind == NumInt && b.Kind == NumInt {
		switch {
		case a.I < b.I:
			return -1, true
		case a.I > b.I:
			return 1, true
		default:
			return 0, true
		}
	}
	return a.rat().Cmp(b.rat()), true
}

func (n Number) String() string {
	switch n.Kind {
	case NumInt:
		return strconv.FormatInt(n.I, 10)
	case NumBigInt:
		return n.Big.String()
	case NumRatio:
		return strconv.FormatInt(n.RN, 10) + "/" + strconv.FormatInt(n.RD, 10)
	case NumBigRat:
		return n.Rat.Num().String() + "/" + n.Rat.Denom().String()
	default:
		f := n.F
		if math.IsNaN(f) {
			return "NaN"
		}
		if math.IsInf(f, 1) {
			return "+Inf"
		}
		if math.IsInf(f, -1) {
			return "-Inf"
		}
		s := strconv.FormatFloat(f, 'g', -1, 64)
		// keep floats re-readable as floats
		if !strings.ContainsAny(s, ".eE") {
			s += ".0"
		}
		return s
	}
}

// ParseNumber recognizes integer (any magnitude), float and n/d ratio
// literals. ok is false when the token is not numeric.
func ParseNumber(token string) (Number, bool) {
	if token == "" {
		return Number{}, false
	}
	if i, err := strconv.ParseInt(token, 10, 64); err == nil {
		return IntNum(i), true
	}
	if isIntegerToken(token) {
		if b, ok := new(big.Int).SetString(token, 10); ok {
			return BigNum(b), true
		}
	}
	if num, den, ok := strings.Cut(token, "/"); ok && isIntegerToken(num) && isIntegerToken(den) {
		n, nerr := strconv.ParseInt(num, 10, 64)
		d, derr := strconv.ParseInt(den, 10, 64)
		if nerr == nil && derr == nil {
			r, err := RatioNum(n, d)
			if err != nil {
				return Number{}, false
			}
			return r, true
		}
		bn, bok := new(big.Int).SetString(num, 10)
		bd, dok := new(big.Int).SetString(den, 10)
		if bok && dok && bd.Sign() != 0 {
			return RatNum(new(big.Rat).SetFrac(bn, bd)), true
		}
		return Number{}, false
	}
	if f, err := strconv.ParseFloat(token, 64); err == nil {
		return FloatNum(f), true
	}
	return Number{}, false
}

func isIntegerToken(s string) bool {
	if s == "" {
		return false
	}
	if s[0] == '+' || s[0] == '-' {
		s = s[1:]
	}
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
