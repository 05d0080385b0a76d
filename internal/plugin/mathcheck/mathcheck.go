// Package mathcheck is an analysis plugin that verifies simple arithmetic
// statements found in document text.
package mathcheck

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hyperjump/tensaku/internal/models"
	"github.com/hyperjump/tensaku/internal/plugin"
)

// statementRe matches statements like "2 + 2 = 5", "3.5 * 2 = 7" or
// "10 ÷ 4 equals 2.5".
var statementRe = regexp.MustCompile(`(-?\d+(?:\.\d+)?)\s*([-+*/×÷])\s*(-?\d+(?:\.\d+)?)\s*(?:=|equals)\s*(-?\d+(?:\.\d+)?)`)

// relative error above which a wrong statement is considered high severity.
const highErrorThreshold = 0.5

// Plugin checks arithmetic statements.
type Plugin struct {
	logger *zap.Logger
}

// New creates the mathcheck plugin. logger may be nil.
func New(logger *zap.Logger) *Plugin {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Plugin{logger: logger}
}

// Name implements plugin.Plugin.
func (p *Plugin) Name() string { return "mathcheck" }

// ShouldRun skips chunks with no digits at all.
func (p *Plugin) ShouldRun(chunk *models.Chunk) bool {
	return strings.ContainsAny(chunk.Text, "0123456789")
}

// Analyze scans each chunk for arithmetic statements and reports the
// incorrect ones. Chunks may overlap, so findings are deduplicated by
// statement text and line.
func (p *Plugin) Analyze(ctx context.Context, chunks []*models.Chunk, documentText string) (*plugin.Result, error) {
	seen := make(map[string]struct{})
	var findings []*models.Finding
	checked := 0

	for _, chunk := range chunks {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for _, loc := range statementRe.FindAllStringSubmatchIndex(chunk.Text, -1) {
			statement := chunk.Text[loc[0]:loc[1]]
			m := statementRe.FindStringSubmatch(statement)
			if m == nil {
				continue
			}
			checked++

			expected, err := evaluate(m[1], m[2], m[3])
			if err != nil {
				continue
			}
			claimed, err := strconv.ParseFloat(m[4], 64)
			if err != nil {
				continue
			}
			if approxEqual(expected, claimed) {
				continue
			}

			line := chunk.StartLine + strings.Count(chunk.Text[:loc[0]], "\n") + 1
			key := fmt.Sprintf("%s@%d", statement, line)
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}

			findings = append(findings, &models.Finding{
				ID:         uuid.New().String(),
				Type:       "math-error",
				Severity:   severityFor(expected, claimed),
				Message:    fmt.Sprintf("Arithmetic error: %s is incorrect; %s %s %s = %s", statement, m[1], m[2], m[3], formatNumber(expected)),
				TargetText: statement,
				LineHint:   line,
				Metadata:   map[string]interface{}{"expected": expected, "claimed": claimed},
			})
		}
	}

	p.logger.Debug("mathcheck complete",
		zap.Int("statements", checked), zap.Int("errors", len(findings)))
	return &plugin.Result{
		Summary:  fmt.Sprintf("Checked %d arithmetic statements, found %d errors", checked, len(findings)),
		Findings: findings,
	}, nil
}

func evaluate(a, op, b string) (float64, error) {
	x, err := strconv.ParseFloat(a, 64)
	if err != nil {
		return 0, err
	}
	y, err := strconv.ParseFloat(b, 64)
	if err != nil {
		return 0, err
	}
	switch op {
	case "+":
		return x + y, nil
	case "-":
		return x - y, nil
	case "*", "×":
		return x * y, nil
	case "/", "÷":
		if y == 0 {
			return 0, fmt.Errorf("division by zero")
		}
		return x / y, nil
	}
	return 0, fmt.Errorf("unknown operator %q", op)
}

func approxEqual(a, b float64) bool {
	if a == b {
		return true
	}
	scale := math.Max(math.Abs(a), math.Abs(b))
	if scale == 0 {
		return true
	}
	return math.Abs(a-b)/scale < 1e-9
}

// severityFor grades by relative error: being off by an order of magnitude
// matters more than a rounding slip.
func severityFor(expected, claimed float64) models.Severity {
	scale := math.Max(math.Abs(expected), math.Abs(claimed))
	if scale == 0 {
		return models.SeverityLow
	}
	relErr := math.Abs(expected-claimed) / scale
	switch {
	case relErr >= highErrorThreshold:
		return models.SeverityHigh
	case relErr >= 0.01:
		return models.SeverityMedium
	default:
		return models.SeverityLow
	}
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
