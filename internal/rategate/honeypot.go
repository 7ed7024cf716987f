package rategate

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	// Bounds on the time between form render and submit. Faster than
	// MinFormAge is automation; older than MaxFormAge is a stale or
	// replayed form.
	MinFormAge = 3 * time.Second
	MaxFormAge = time.Hour
)

// HoneypotFields carries the decoy inputs and the render timestamp of a
// booking form. The decoys are invisible to humans and must stay empty.
type HoneypotFields struct {
	Website string `json:"website"`
	Fax     string `json:"fax"`

	// FormToken is the signed token issued when the form was rendered.
	// RenderedAt (unix seconds) is accepted as a fallback for clients
	// that predate the token.
	FormToken  string `json:"form_token"`
	RenderedAt int64  `json:"rendered_at"`
}

type HoneypotVerdict struct {
	Valid  bool
	Reason string
}

// FormTokenIssuer signs and verifies form render timestamps so clients
// cannot forge the load-to-submit age.
type FormTokenIssuer struct {
	Secret []byte
	Now    func() time.Time
}

func (i *FormTokenIssuer) now() time.Time {
	if i.Now != nil {
		return i.Now()
	}
	return time.Now()
}

// Issue returns a token recording the current render time.
func (i *FormTokenIssuer) Issue() (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"purpose": "booking-form",
		"iat":     i.now().Unix(),
		"exp":     i.now().Add(MaxFormAge).Unix(),
	})
	return token.SignedString(i.Secret)
}

// RenderedAt extracts the render time of a previously issued token.
func (i *FormTokenIssuer) RenderedAt(raw string) (time.Time, error) {
	parsed, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return i.Secret, nil
	}, jwt.WithTimeFunc(i.now))
	if err != nil {
		return time.Time{}, err
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return time.Time{}, fmt.Errorf("unexpected claims type %T", parsed.Claims)
	}
	if purpose, _ := claims["purpose"].(string); purpose != "booking-form" {
		return time.Time{}, fmt.Errorf("wrong token purpose")
	}
	issued, err := claims.GetIssuedAt()
	if err != nil || issued == nil {
		return time.Time{}, fmt.Errorf("token missing issue time")
	}
	return issued.Time, nil
}

// ValidateHoneypot checks the decoy fields and the form age. A filled
// decoy invalidates the submission regardless of everything else.
func (i *FormTokenIssuer) ValidateHoneypot(fields HoneypotFields) HoneypotVerdict {
	if fields.Website != "" {
		return HoneypotVerdict{Reason: "decoy field filled: website"}
	}
	if fields.Fax != "" {
		return HoneypotVerdict{Reason: "decoy field filled: fax"}
	}

	var rendered time.Time
	switch {
	case fields.FormToken != "":
		at, err := i.RenderedAt(fields.FormToken)
		if err != nil {
			return HoneypotVerdict{Reason: "invalid form token"}
		}
		rendered = at
	case fields.RenderedAt > 0:
		rendered = time.Unix(fields.RenderedAt, 0)
	default:
		return HoneypotVerdict{Reason: "missing form timestamp"}
	}

	age := i.now().Sub(rendered)
	if age < MinFormAge {
		return HoneypotVerdict{Reason: "form submitted too fast"}
	}
	if age > MaxFormAge {
		return HoneypotVerdict{Reason: "form too old"}
	}
	return HoneypotVerdict{Valid: true}
}
