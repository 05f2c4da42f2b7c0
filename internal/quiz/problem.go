package quiz

import (
	"fmt"
	"math/rand"
	"time"
)

// Operator is the arithmetic operation of a Problem.
type Operator string

const (
	Add      Operator = "+"
	Subtract Operator = "-"
)

// Problem is a single question. It is immutable once generated.
type Problem struct {
	A  int      `json:"a"`
	B  int      `json:"b"`
	Op Operator `json:"op"`
}

// Answer returns the correct result.
func (p Problem) Answer() int {
	if p.Op == Subtract {
		return p.A - p.B
	}
	return p.A + p.B
}

func (p Problem) String() string {
	return fmt.Sprintf("%d %s %d", p.A, p.Op, p.B)
}

// Generator draws random problems. It is not safe for concurrent use; each
// dispatcher owns its own.
type Generator struct {
	rnd *rand.Rand
}

// NewGenerator returns a generator seeded from the clock.
func NewGenerator() *Generator {
	return NewSeededGenerator(time.Now().UnixNano())
}

func NewSeededGenerator(seed int64) *Generator {
	return &Generator{rnd: rand.New(rand.NewSource(seed))}
}

// Generate draws two operands from the tier's inclusive range and picks + or -
// uniformly. Subtraction operands are swapped to keep the result non-negative
// unless the tier allows negative results.
func (g *Generator) Generate(d Difficulty) Problem {
	level := d.Level()
	a := g.intn(level.Min, level.Max)
	b := g.intn(level.Min, level.Max)

	op := Add
	if g.rnd.Intn(2) == 1 {
		op = Subtract
	}

	if op == Subtract && !level.AllowNegative && a < b {
		a, b = b, a
	}

	return Problem{A: a, B: b, Op: op}
}

func (g *Generator) intn(min, max int) int {
	return min + g.rnd.Intn(max-min+1)
}
