package codes

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/fieldvision/filmgrade/internal/domain/model"
)

// Tokens look like "ER", "C+12" or "(FD)"; sheets mix parentheses, commas,
// semicolons and plain spaces as separators.
var (
	splitPattern = regexp.MustCompile(`[\s,;]+`)
	paramPattern = regexp.MustCompile(`^([A-Za-z]+)\+(-?\d+)$`)
	parenStrip   = strings.NewReplacer("(", " ", ")", " ")
)

// Interpreter resolves codes strings against an injected legend. It holds no
// mutable state and is safe for concurrent use.
type Interpreter struct {
	legend Legend
}

// NewInterpreter creates an Interpreter over the given legend.
func NewInterpreter(legend Legend) *Interpreter {
	return &Interpreter{legend: legend}
}

// Legend returns the legend the interpreter was built with.
func (i *Interpreter) Legend() Legend {
	return i.legend
}

// Events tokenizes a codes string into the ordered sequence of matched
// CodeEvents. Tokens that match nothing in the legend are skipped here;
// Interpret accounts for them in the Unmatched bucket.
func (i *Interpreter) Events(text string) []model.CodeEvent {
	var events []model.CodeEvent
	for _, tok := range tokenize(text) {
		if ev, ok := i.resolve(tok); ok {
			events = append(events, ev)
		}
	}
	return events
}

// Interpret tokenizes and aggregates a codes string. Aggregation is a
// commutative sum, so token order never changes the result. Unrecognized
// tokens contribute no points and never abort the batch; they are tallied
// in Unmatched for diagnostics.
func (i *Interpreter) Interpret(text string) model.CodeSummary {
	summary := model.CodeSummary{Counts: make(map[string]int)}

	for _, tok := range tokenize(text) {
		ev, ok := i.resolve(tok)
		if !ok {
			summary.Unmatched++
			continue
		}
		summary.Points += ev.Points
		summary.Counts[ev.Code]++

		base, n := splitParam(ev.Code)
		switch base {
		case "C":
			summary.CatchYards += n
		case "R":
			summary.RushYards += n
		}
		if i.legend.isKeyPlay(base) {
			summary.KeyPlays++
		}
	}
	return summary
}

// resolve matches one raw token against the legend, case-insensitively.
func (i *Interpreter) resolve(tok string) (model.CodeEvent, bool) {
	canonical := strings.ToUpper(tok)

	if m := paramPattern.FindStringSubmatch(canonical); m != nil {
		rule, ok := i.legend.rule(m[1])
		if !ok || !rule.PerUnit {
			return model.CodeEvent{}, false
		}
		n, err := strconv.Atoi(m[2])
		if err != nil {
			return model.CodeEvent{}, false
		}
		return model.CodeEvent{
			Code:   m[1] + "+" + m[2],
			Points: rule.Points * float64(n),
		}, true
	}

	rule, ok := i.legend.rule(canonical)
	if !ok || rule.PerUnit {
		// A bare "C" or "R" with no yardage suffix carries no information.
		return model.CodeEvent{}, false
	}
	return model.CodeEvent{Code: canonical, Points: rule.Points}, true
}

// tokenize strips parentheses and splits on whitespace, commas and
// semicolons, dropping empty fragments.
func tokenize(text string) []string {
	text = strings.TrimSpace(parenStrip.Replace(text))
	if text == "" {
		return nil
	}
	var toks []string
	for _, t := range splitPattern.Split(text, -1) {
		if t != "" {
			toks = append(toks, t)
		}
	}
	return toks
}

// splitParam decomposes a canonical code into its base and numeric suffix.
// Plain codes return themselves with n = 0.
func splitParam(code string) (string, int) {
	m := paramPattern.FindStringSubmatch(code)
	if m == nil {
		return code, 0
	}
	n, _ := strconv.Atoi(m[2])
	return m[1], n
}
