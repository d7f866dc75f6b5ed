package intent

import "regexp"

// AdviceKind classifies reply text that crosses the assistant's
// product-only boundary.
type AdviceKind string

const (
	AdviceWeightLoss   AdviceKind = "weight_loss"
	AdviceExercise     AdviceKind = "exercise"
	AdviceDiet         AdviceKind = "diet"
	AdviceBodyJudgment AdviceKind = "body_judgment"
	AdviceMedical      AdviceKind = "medical"
)

// AdviceViolation is one guardrail breach found in a generated reply.
type AdviceViolation struct {
	Kind    AdviceKind
	Pattern string
}

// replyGuards lists the phrasings that turn a product recommendation
// into health, fitness, or appearance advice. The model is instructed
// never to produce these; this scan is the enforcement behind that
// instruction, since model output is untrusted.
var replyGuards = []struct {
	kind     AdviceKind
	patterns []*regexp.Regexp
}{
	{
		kind: AdviceWeightLoss,
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\b(lose|losing|shed|shedding|drop|dropping)\s+(some\s+|a\s+little\s+|the\s+)?(weight|pounds|kilos)\b`),
			regexp.MustCompile(`(?i)\bweight\s+loss\b`),
			regexp.MustCompile(`(?i)\bslim(ming)?\s+(you\s+)?down\b`),
			regexp.MustCompile(`(?i)\bburn\s+(more\s+)?(fat|calories)\b`),
		},
	},
	{
		kind: AdviceExercise,
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\b(you\s+should|you\s+need\s+to|try\s+to|consider)\s+(exercise|exercising|work(ing)?\s+out|jog(ging)?)\b`),
			regexp.MustCompile(`(?i)\bhit\s+the\s+gym\b`),
			regexp.MustCompile(`(?i)\bget\s+(more\s+)?exercise\b`),
			regexp.MustCompile(`(?i)\bbe\s+more\s+active\b`),
		},
	},
	{
		kind: AdviceDiet,
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\bgo\s+on\s+a\s+diet\b`),
			regexp.MustCompile(`(?i)\beat\s+(less|fewer|healthier|better)\b`),
			regexp.MustCompile(`(?i)\b(cut|count|watch)\s+(the\s+|your\s+)?(carbs|calories|sugar)\b`),
		},
	},
	{
		kind: AdviceBodyJudgment,
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\b(hide|disguise|camouflage)\s+(your\s+)?(body|figure|belly|curves)\b`),
			regexp.MustCompile(`(?i)\bmake\s+you\s+look\s+(thinner|slimmer|skinnier|smaller|taller|shorter)\b`),
			regexp.MustCompile(`(?i)\bfor\s+(someone|people)\s+(of\s+)?your\s+(size|weight|shape|build)\b`),
			regexp.MustCompile(`(?i)\bproblem\s+areas?\b`),
		},
	},
	{
		kind: AdviceMedical,
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\b(consult(ing)?|see(ing)?|talk(ing)?\s+to)\s+(a\s+|your\s+)?(doctor|physician|nutritionist|dietitian)\b`),
			regexp.MustCompile(`(?i)\bbmi\b`),
			regexp.MustCompile(`(?i)\b(your\s+)?health\s+(risks?|concerns?|condition)\b`),
		},
	},
}

// ScanReply returns every guardrail violation in the reply, in the
// fixed order of the guard table. An empty result means the reply is
// safe to show.
func ScanReply(reply string) []AdviceViolation {
	var violations []AdviceViolation
	for _, guard := range replyGuards {
		for _, pattern := range guard.patterns {
			if pattern.MatchString(reply) {
				violations = append(violations, AdviceViolation{
					Kind:    guard.kind,
					Pattern: pattern.String(),
				})
			}
		}
	}
	return violations
}
