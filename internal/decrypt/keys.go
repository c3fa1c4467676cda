package decrypt

import (
	"regexp"
	"strings"
)

type keyPattern struct {
	name    string
	extract func(payload string) string
}

var (
	xyWsRe   = regexp.MustCompile(`window\._xy_ws\s*=\s*["']([^"']+)["']`)
	lkDbRe   = regexp.MustCompile(`window\._lk_db\s*=\s*\{([^}]+)\}`)
	lkPartRe = regexp.MustCompile(`:\s*["']([^"']+)["']`)
	nonceRe  = regexp.MustCompile(`nonce\s*=\s*["']([^"']+)["']`)
	dpiRe    = regexp.MustCompile(`data-dpi\s*=\s*["']([^"']+)["']`)
	metaRe   = regexp.MustCompile(`(?i)<meta[^>]*name\s*=\s*["']_gg_fb["'][^>]*content\s*=\s*["']([^"']+)["']`)
	isThRe   = regexp.MustCompile(`_is_th\s*:\s*([A-Za-z0-9]+)`)
)

// keyPatterns are tried in order.
var keyPatterns = []keyPattern{
	{"xy_ws", firstGroup(xyWsRe)},
	{"lk_db", joinLkDb},
	{"nonce", firstGroup(nonceRe)},
	{"data-dpi", firstGroup(dpiRe)},
	{"meta _gg_fb", firstGroup(metaRe)},
	{"is_th", firstGroup(isThRe)},
}

// ExtractKey recovers the client key embedded in a player page. The first
// pattern producing a non-empty key wins.
func ExtractKey(payload string) (string, bool) {
	for _, p := range keyPatterns {
		if key := p.extract(payload); key != "" {
			return key, true
		}
	}
	return "", false
}

func firstGroup(re *regexp.Regexp) func(string) string {
	return func(payload string) string {
		m := re.FindStringSubmatch(payload)
		if len(m) < 2 {
			return ""
		}
		return m[1]
	}
}

// joinLkDb concatenates the quoted values of the _lk_db object in order.
func joinLkDb(payload string) string {
	m := lkDbRe.FindStringSubmatch(payload)
	if len(m) < 2 {
		return ""
	}
	var b strings.Builder
	for _, part := range lkPartRe.FindAllStringSubmatch(m[1], -1) {
		b.WriteString(part[1])
	}
	return b.String()
}
