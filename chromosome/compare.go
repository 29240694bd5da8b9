package chromosome

import (
	"fmt"
	"strings"
)

// ValidateLength returns ErrLengthMismatch unless a and b have the same length.
func ValidateLength(a, b Chromosome) error {
	if a.Length() != b.Length() {
		return fmt.Errorf("%w: %d vs %d", ErrLengthMismatch, a.Length(), b.Length())
	}
	return nil
}

// Equal reports whether a and b hold the same genes in the same order.
func Equal(a, b Chromosome) bool {
	if a.Length() != b.Length() {
		return false
	}
	ga, gb := a.Genes(), b.Genes()
	for i := range ga {
		if ga[i] != gb[i] {
			return false
		}
	}
	return true
}

// Multiset counts gene occurrences.
func Multiset(c Chromosome) map[Gene]int {
	counts := make(map[Gene]int, c.Length())
	for _, g := range c.Genes() {
		counts[g]++
	}
	return counts
}

// SameMultiset reports whether a and b contain the same genes with the same
// multiplicities, ignoring order.
func SameMultiset(a, b Chromosome) bool {
	if a.Length() != b.Length() {
		return false
	}
	counts := Multiset(a)
	for _, g := range b.Genes() {
		counts[g]--
		if counts[g] < 0 {
			return false
		}
	}
	return true
}

// HammingDistance returns the fraction of positions at which a and b differ,
// in [0.0, 1.0]. Chromosomes of different length are maximally distant.
func HammingDistance(a, b Chromosome) float64 {
	if a.Length() != b.Length() {
		return 1.0
	}
	if a.Length() == 0 {
		return 0.0
	}
	ga, gb := a.Genes(), b.Genes()
	diff := 0
	for i := range ga {
		if ga[i] != gb[i] {
			diff++
		}
	}
	return float64(diff) / float64(len(ga))
}

// Format renders the genes as a compact string. Single-character values are
// concatenated, anything longer is space separated.
func Format(c Chromosome) string {
	genes := c.Genes()
	parts := make([]string, len(genes))
	compact := true
	for i, g := range genes {
		parts[i] = g.String()
		if len(parts[i]) != 1 {
			compact = false
		}
	}
	if compact {
		return strings.Join(parts, "")
	}
	return strings.Join(parts, " ")
}
