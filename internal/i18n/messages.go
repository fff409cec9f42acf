// Package i18n holds the user-facing messages of the lookup service.
package i18n

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Message keys. The English catalog entry doubles as the fallback text.
const (
	MsgRateLimited    = "rate_limited"
	MsgNotFound       = "character_not_found"
	MsgRequestFailed  = "request_failed"
	MsgNetworkFailure = "network_failure"
	MsgInvalidBody    = "invalid_response"
)

// DefaultLocale is the deployment locale of the service.
var DefaultLocale = language.Korean

var entries = map[language.Tag]map[string]string{
	language.Korean: {
		MsgRateLimited:    "API 요청 한도를 초과했습니다. 잠시 후 다시 시도해주세요.",
		MsgNotFound:       "캐릭터를 찾을 수 없습니다: %s",
		MsgRequestFailed:  "API 요청 실패: %d",
		MsgNetworkFailure: "API 서버에 연결할 수 없습니다",
		MsgInvalidBody:    "API 응답 형식이 올바르지 않습니다",
	},
	language.English: {
		MsgRateLimited:    "API request limit exceeded. Please try again later.",
		MsgNotFound:       "character not found: %s",
		MsgRequestFailed:  "API request failed: %d",
		MsgNetworkFailure: "could not reach the API server",
		MsgInvalidBody:    "unexpected API response format",
	},
}

func init() {
	for tag, msgs := range entries {
		for key, text := range msgs {
			if err := message.SetString(tag, key, text); err != nil {
				panic(err)
			}
		}
	}
}

// ParseLocale maps a locale string such as "ko-KR" or "en" to a supported
// tag, falling back to DefaultLocale.
func ParseLocale(locale string) language.Tag {
	if locale == "" {
		return DefaultLocale
	}
	tag, err := language.Parse(locale)
	if err != nil {
		return DefaultLocale
	}
	matcher := language.NewMatcher([]language.Tag{DefaultLocale, language.English})
	_, idx, conf := matcher.Match(tag)
	if conf == language.No {
		return DefaultLocale
	}
	return []language.Tag{DefaultLocale, language.English}[idx]
}

// Printer returns a printer for tag.
func Printer(tag language.Tag) *message.Printer {
	return message.NewPrinter(tag)
}
