package dice

import (
	"errors"
	"fmt"
	"math/rand"
	"regexp"
	"strconv"
)

// ErrInvalidNotation is returned when a dice expression cannot be parsed.
var ErrInvalidNotation = errors.New("dice: invalid notation")

// Roller is the random number service consumed by map builders.
type Roller interface {
	// RollDice rolls n dice with the given number of sides and returns the total.
	RollDice(n, die int) int
	// Range returns a value in [lo, hi).
	Range(lo, hi int) int
}

// RNG is a seeded Roller. Two RNGs built from the same seed produce the
// same sequence of rolls.
type RNG struct {
	seed int64
	rng  *rand.Rand
}

// New creates an RNG from a seed
func New(seed int64) *RNG {
	return &RNG{
		seed: seed,
		rng:  rand.New(rand.NewSource(seed)),
	}
}

// Seed returns the seed the RNG was created with
func (r *RNG) Seed() int64 {
	return r.seed
}

// RollDice rolls n dice with the specified number of sides and returns the total.
// A die with fewer than one side always shows 1.
func (r *RNG) RollDice(n, die int) int {
	total := 0
	for i := 0; i < n; i++ {
		if die < 1 {
			total++
			continue
		}
		total += r.rng.Intn(die) + 1
	}
	return total
}

// Range returns a value in [lo, hi). An empty range returns lo.
func (r *RNG) Range(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + r.rng.Intn(hi-lo)
}

// Dice is a parsed dice expression such as "2d6+1"
type Dice struct {
	Count int
	Sides int
	Bonus int
}

// Roll rolls the expression with the given Roller
func (d Dice) Roll(rng Roller) int {
	return rng.RollDice(d.Count, d.Sides) + d.Bonus
}

// String returns the expression in dice notation
func (d Dice) String() string {
	switch {
	case d.Bonus > 0:
		return fmt.Sprintf("%dd%d+%d", d.Count, d.Sides, d.Bonus)
	case d.Bonus < 0:
		return fmt.Sprintf("%dd%d%d", d.Count, d.Sides, d.Bonus)
	default:
		return fmt.Sprintf("%dd%d", d.Count, d.Sides)
	}
}

// diceNotationRegex matches dice notation like "1d6", "2d4+1", "1d8-2"
var diceNotationRegex = regexp.MustCompile(`^(\d+)d(\d+)([+-]\d+)?$`)

// Parse parses dice notation.
// Supports formats: "1d6", "2d4", "1d8+2", "2d6-1"
func Parse(notation string) (Dice, error) {
	matches := diceNotationRegex.FindStringSubmatch(notation)
	if matches == nil {
		return Dice{}, fmt.Errorf("%w: %q", ErrInvalidNotation, notation)
	}

	count, _ := strconv.Atoi(matches[1])
	sides, _ := strconv.Atoi(matches[2])

	bonus := 0
	if matches[3] != "" {
		bonus, _ = strconv.Atoi(matches[3])
	}

	return Dice{Count: count, Sides: sides, Bonus: bonus}, nil
}

// MustParse is like Parse but panics on invalid notation. It is meant for
// package-level defaults.
func MustParse(notation string) Dice {
	d, err := Parse(notation)
	if err != nil {
		panic(err)
	}
	return d
}
