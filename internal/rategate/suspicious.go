package rategate

import (
	"fmt"
	"strings"
)

type SuspicionVerdict struct {
	Suspicious bool
	Reasons    []string
}

// Injection and script markers matched as lowercase substrings against
// every string field. Heuristic by design: the upstream API re-validates
// everything, this only cuts obvious noise early.
var suspiciousMarkers = []string{
	"<script",
	"</script",
	"javascript:",
	"onerror=",
	"onload=",
	"<iframe",
	"union select",
	"drop table",
	"insert into",
	"delete from",
	"' or '1'='1",
	"\" or \"1\"=\"1",
	"../",
	"${",
	"<?php",
	"eval(",
}

// Domains of throwaway inboxes. Bookings need a reachable address for the
// payment receipt, so these are rejected outright.
var disposableEmailDomains = []string{
	"mailinator.com",
	"guerrillamail.com",
	"10minutemail.com",
	"tempmail.com",
	"temp-mail.org",
	"yopmail.com",
	"trashmail.com",
	"sharklasers.com",
	"getnada.com",
	"dispostable.com",
	"maildrop.cc",
}

// DetectSuspiciousInput scans each field for injection markers and flags
// disposable e-mail domains. All reasons are collected, not just the first.
func DetectSuspiciousInput(data map[string]string) SuspicionVerdict {
	var reasons []string

	for field, value := range data {
		lowered := strings.ToLower(value)
		for _, marker := range suspiciousMarkers {
			if strings.Contains(lowered, marker) {
				reasons = append(reasons, fmt.Sprintf("field %q contains %q", field, marker))
			}
		}
		if strings.Contains(strings.ToLower(field), "email") && isDisposableEmail(lowered) {
			reasons = append(reasons, fmt.Sprintf("field %q uses a disposable email domain", field))
		}
	}

	return SuspicionVerdict{Suspicious: len(reasons) > 0, Reasons: reasons}
}

func isDisposableEmail(email string) bool {
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return false
	}
	domain := strings.TrimSpace(email[at+1:])
	for _, d := range disposableEmailDomains {
		if domain == d {
			return true
		}
	}
	return false
}
