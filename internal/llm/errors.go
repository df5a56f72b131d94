package llm

import "strings"

// fatalPatterns are provider error fragments that no retry will fix:
// exhausted credits, revoked or wrong credentials, hard quota limits.
var fatalPatterns = []string{
	"credit balance",
	"rate limit",
	"quota",
	"billing",
	"invalid api key",
	"authentication",
	"unauthorized",
	"401",
	"403",
}

// IsFatalAPIError reports whether a provider error is terminal for the
// process, as opposed to a transient failure worth retrying on the next
// turn.
func IsFatalAPIError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, pattern := range fatalPatterns {
		if strings.Contains(msg, pattern) {
			return true
		}
	}
	return false
}
