package parser

import (
	"strconv"
	"strings"

	"github.com/psflib/psf/token"
)

// FastScanValues attempts to bypass the grammar entirely for the VALUE
// section, per spec.md §4.3. The PSF files this format targets are
// dominated by the VALUE section's repeating "name val name val ..."
// cycles, and running those through the token.Lexer and recursive-descent
// parser is measurably wasted work when every cycle has the same shape
// and no sample is a composite_number tuple.
//
// Preconditions, checked directly against raw source bytes before any
// lexing is attempted:
//
//   - a "VALUE" and a later "END" keyword both occur in src;
//   - the span between the TRACE section's opening and the VALUE keyword
//     contains no "GROUP" keyword (a grouped dataset needs the grammar's
//     group-partitioning logic, not this flat scan);
//   - the VALUE..END span contains no '(' (a single composite_number
//     anywhere disqualifies the whole fast path, not just that cycle).
//
// On success it returns the ordered signal names and, for each, its
// column of float64 samples. ok is false whenever any precondition fails
// or the cycle structure cannot be determined, in which case the caller
// must fall back to the full parser.
func FastScanValues(src string) (names []string, data [][]float64, ok bool) {
	valueIdx := strings.Index(src, "\nVALUE")
	if valueIdx < 0 {
		return nil, nil, false
	}

	endIdx := strings.LastIndex(src, "\nEND")
	if endIdx < 0 || endIdx <= valueIdx {
		return nil, nil, false
	}

	traceIdx := strings.Index(src, "\nTRACE")
	if traceIdx >= 0 && traceIdx < valueIdx {
		if strings.Contains(src[traceIdx:valueIdx], "GROUP") {
			return nil, nil, false
		}
	}

	window := src[valueIdx+len("\nVALUE") : endIdx]
	if strings.ContainsRune(window, '(') {
		return nil, nil, false
	}

	fields := strings.Fields(window)
	if len(fields) == 0 || len(fields)%2 != 0 {
		return nil, nil, false
	}

	if !isQuotedField(fields[0]) {
		return nil, nil, false
	}

	firstName := fields[0]

	// Cycle length: the distance at which the first signal name
	// reappears. A flat, regular VALUE section repeats the same sequence
	// of "name val" pairs every cycle, so the second occurrence of
	// fields[0] marks the cycle boundary.
	cycleLen := -1

	for i := 2; i < len(fields); i += 2 {
		if fields[i] == firstName {
			cycleLen = i
			break
		}
	}

	if cycleLen <= 0 {
		// A single-cycle file (e.g. a DC operating point with no sweep)
		// never sees the first name repeat; the whole window is one cycle.
		cycleLen = len(fields)
	}

	if cycleLen%2 != 0 {
		return nil, nil, false
	}

	numCycles := len(fields) / cycleLen
	if numCycles == 0 {
		return nil, nil, false
	}

	fields = fields[:numCycles*cycleLen]

	return scanNameValuePairs(fields, cycleLen, numCycles)
}

func scanNameValuePairs(fields []string, cycleLen, numCycles int) ([]string, [][]float64, bool) {
	numSignals := cycleLen / 2
	names := make([]string, numSignals)
	data := make([][]float64, numSignals)

	for i := range data {
		data[i] = make([]float64, 0, numCycles)
	}

	for c := 0; c < numCycles; c++ {
		base := c * cycleLen

		for s := 0; s < numSignals; s++ {
			nameField := fields[base+2*s]
			valField := fields[base+2*s+1]

			if !isQuotedField(nameField) {
				return nil, nil, false
			}

			name := unquoteField(nameField)

			if c == 0 {
				names[s] = name
			} else if names[s] != name {
				return nil, nil, false
			}

			f, err := strconv.ParseFloat(valField, 64)
			if err != nil {
				return nil, nil, false
			}

			data[s] = append(data[s], f)
		}
	}

	return names, data, true
}

func isQuotedField(s string) bool {
	return len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"'
}

func unquoteField(s string) string {
	return token.Unescape(s[1 : len(s)-1])
}
