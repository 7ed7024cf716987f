package rategate

import (
	"net/http"
	"strings"
)

// BotVerdict reports the bot heuristic outcome. Reason is for logs only,
// never for the client.
type BotVerdict struct {
	IsBot  bool
	Reason string
}

// Known crawler and automation signatures, matched case-insensitively as
// substrings of the User-Agent. Anything not matched is presumed human;
// false negatives are expected and acceptable.
var botSignatures = []string{
	"bot",
	"crawler",
	"spider",
	"scrapy",
	"curl/",
	"wget/",
	"python-requests",
	"python-urllib",
	"go-http-client",
	"java/",
	"okhttp",
	"httpclient",
	"headlesschrome",
	"phantomjs",
	"selenium",
	"puppeteer",
	"playwright",
}

// DetectBot applies user-agent and language-negotiation heuristics to the
// request headers.
func DetectBot(header http.Header) BotVerdict {
	ua := strings.TrimSpace(header.Get("User-Agent"))
	if ua == "" {
		return BotVerdict{IsBot: true, Reason: "missing user-agent"}
	}

	lowered := strings.ToLower(ua)
	for _, sig := range botSignatures {
		if strings.Contains(lowered, sig) {
			return BotVerdict{IsBot: true, Reason: "user-agent signature: " + sig}
		}
	}

	if strings.TrimSpace(header.Get("Accept-Language")) == "" {
		return BotVerdict{IsBot: true, Reason: "missing accept-language"}
	}

	return BotVerdict{}
}
