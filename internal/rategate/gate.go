package rategate

import (
	"context"
	"net/http"

	"github.com/yostinflorez691-commits/rapido-ochoa-replica-sub000/internal/domain"
	"github.com/yostinflorez691-commits/rapido-ochoa-replica-sub000/internal/utils"
)

// FormData is the optional form-bound portion of a gated request. When nil,
// only the rate and bot checks run.
type FormData struct {
	// Submission marks data posted from a rendered booking form. The
	// honeypot and form-age rules apply only to submissions; other JSON
	// bodies still get the input screening.
	Submission bool

	Honeypot HoneypotFields
	Fields   map[string]string
}

// Gate composes the four protection checks in a fixed order, stopping at
// the first failure: rate, bot, honeypot, suspicious input.
//
// DetectBotFn and DetectSuspiciousFn default to the package functions and
// exist for injection in tests.
type Gate struct {
	Limiter Limiter
	Tokens  *FormTokenIssuer

	DetectBotFn        func(http.Header) BotVerdict
	DetectSuspiciousFn func(map[string]string) SuspicionVerdict
}

func (g *Gate) detectBot(header http.Header) BotVerdict {
	if g.DetectBotFn != nil {
		return g.DetectBotFn(header)
	}
	return DetectBot(header)
}

func (g *Gate) detectSuspicious(data map[string]string) SuspicionVerdict {
	if g.DetectSuspiciousFn != nil {
		return g.DetectSuspiciousFn(data)
	}
	return DetectSuspiciousInput(data)
}

// Evaluate returns nil when the request may proceed, or one of the domain
// errors (RateLimitedError, BotSuspectedError, SuspiciousInputError).
//
// A limiter backend failure fails open: the gate is a heuristic shield and
// availability wins over strictness there.
func (g *Gate) Evaluate(ctx context.Context, key string, header http.Header, form *FormData) error {
	decision, err := g.Limiter.Allow(ctx, key)
	if err != nil {
		utils.LogEvent("", "rategate", "allow", "limiter backend unavailable, failing open: "+err.Error())
	} else if !decision.Allowed {
		return domain.RateLimitedError{RetryAfter: decision.RetryAfter}
	}

	if verdict := g.detectBot(header); verdict.IsBot {
		utils.LogEvent("", "rategate", "bot", "key="+key+" "+verdict.Reason)
		return domain.BotSuspectedError{Reason: verdict.Reason}
	}

	if form == nil {
		return nil
	}

	if form.Submission {
		if verdict := g.Tokens.ValidateHoneypot(form.Honeypot); !verdict.Valid {
			utils.LogEvent("", "rategate", "honeypot", "key="+key+" "+verdict.Reason)
			return domain.SuspiciousInputError{Reasons: []string{verdict.Reason}}
		}
	}

	if verdict := g.detectSuspicious(form.Fields); verdict.Suspicious {
		utils.LogEvent("", "rategate", "suspicious", "key="+key+" rejected")
		return domain.SuspiciousInputError{Reasons: verdict.Reasons}
	}

	return nil
}
