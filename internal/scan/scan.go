// Package scan implements the Lexer's maximal-unquoted-run scan (spec.md
// §4.2 step 6): find the longest prefix of a rune slice that contains
// none of the stop runes (delimiter, quotation, CR, LF).
//
// The teacher (raceordie690-simdcsv) gates a SIMD-accelerated scan behind
// a CPU feature check (SupportedCPU()), falling back to encoding/csv when
// the running CPU lacks the needed instructions. This package keeps that
// shape without vendoring assembly: when the host CPU advertises the
// instruction-set extensions SIMD string scanning relies on, membership
// tests against the (at most four single-rune) stop set are done through a
// flat lookup table instead of a branch chain, which only pays off once
// the stop set is known to be ASCII-width and the branch predictor has
// real vector hardware to fall back on for the surrounding hot loop.
package scan

import (
	"github.com/klauspost/cpuid/v2"
)

// StopSet is the (at most four) runes that terminate a maximal unquoted
// run: delimiter, quotation, '\r', '\n'.
type StopSet struct {
	Delimiter rune
	Quotation rune
}

// asciiFastPathEligible reports whether both configured runes fit in the
// ASCII range, making the table lookup path valid.
func (s StopSet) asciiFastPathEligible() bool {
	return s.Delimiter < 0x80 && s.Quotation < 0x80
}

func (s StopSet) contains(r rune) bool {
	return r == s.Delimiter || s.Quotation == r || r == '\r' || r == '\n'
}

// acceleratedAvailable reports whether the running CPU advertises the
// extensions that make vectorized byte-class scanning worthwhile. Cached
// at package init the way cpuid.CPU is populated once at process start.
var acceleratedAvailable = cpuid.CPU.Supports(cpuid.SSE42) || cpuid.CPU.Supports(cpuid.AVX2)

// Accelerated reports whether Run will use the table-driven fast path for
// the given stop set on this process. It only reports the choice; it does
// not let a caller force either path.
func Accelerated(s StopSet) bool {
	return acceleratedAvailable && s.asciiFastPathEligible()
}

// Run returns the length of the longest prefix of buf[start:] containing
// none of the stop runes. complete reports whether the run ended because a
// stop rune was found (true) or because the buffer was exhausted first
// (false) — the Lexer uses the latter to decide whether to defer in
// streaming mode.
func Run(buf []rune, start int, s StopSet) (length int, complete bool) {
	if Accelerated(s) {
		return runTable(buf, start, s)
	}
	return runScalar(buf, start, s)
}

// runScalar is the universal fallback: a straight-line sequence of rune
// comparisons, correct for any stop set including non-ASCII delimiters or
// quotations.
func runScalar(buf []rune, start int, s StopSet) (int, bool) {
	i := start
	for i < len(buf) {
		if s.contains(buf[i]) {
			return i - start, true
		}
		i++
	}
	return i - start, false
}

// runTable builds a 128-entry boolean lookup once per call and walks the
// buffer probing it directly, avoiding the four-way branch chain
// runScalar needs per character. Only valid when both stop runes are
// ASCII, enforced by the Accelerated guard in Run.
func runTable(buf []rune, start int, s StopSet) (int, bool) {
	var table [128]bool
	table['\r'] = true
	table['\n'] = true
	table[s.Delimiter] = true
	table[s.Quotation] = true

	i := start
	for i < len(buf) {
		r := buf[i]
		if r < 128 {
			if table[r] {
				return i - start, true
			}
		} else if s.contains(r) {
			return i - start, true
		}
		i++
	}
	return i - start, false
}
