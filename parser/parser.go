// Package parser provides output parsers that reduce a model response to
// displayable text.
package parser

import (
	"context"
	"regexp"
	"strings"

	"github.com/modernice/parlance"
)

// Func allows ordinary functions to be used as a [parlance.OutputParser].
type Func func(context.Context, *parlance.ModelResult) (string, error)

// Parse calls fn(ctx, result).
func (fn Func) Parse(ctx context.Context, result *parlance.ModelResult) (string, error) {
	return fn(ctx, result)
}

// String returns a parser that extracts the response text unchanged. If the
// response has no content, its text parts are concatenated instead. A nil
// response parses to the empty string.
func String() parlance.OutputParser {
	return Func(func(_ context.Context, result *parlance.ModelResult) (string, error) {
		return text(result), nil
	})
}

// Clean returns a parser that extracts the response text like [String] and
// removes artifacts language models commonly add around a translation:
// reasoning blocks, introductory phrases such as "Here is the translation:"
// and quotes that wrap the whole text. The result is trimmed.
func Clean() parlance.OutputParser {
	return Func(func(_ context.Context, result *parlance.ModelResult) (string, error) {
		return CleanText(text(result)), nil
	})
}

// CleanText removes language model artifacts from s.
func CleanText(s string) string {
	s = removeThinkingBlocks(s)
	s = removeInstructionEchoes(s)
	s = removeQuoteWrapping(s)
	return strings.TrimSpace(s)
}

func text(result *parlance.ModelResult) string {
	if result == nil {
		return ""
	}
	if result.Content != "" {
		return result.Content
	}
	return strings.Join(result.Parts, "")
}

// RE2 has no backreferences, so every tag pair is listed.
var thinkingBlockRE = regexp.MustCompile(
	`(?is)<thinking>.*?</thinking>|<think>.*?</think>|<reasoning>.*?</reasoning>|<reflection>.*?</reflection>`,
)

// An opening tag without its closing tag; the model was cut off.
var truncatedThinkingRE = regexp.MustCompile(
	`(?is)(?:<thinking>|<think>|<reasoning>|<reflection>).*$`,
)

func removeThinkingBlocks(s string) string {
	s = thinkingBlockRE.ReplaceAllString(s, "")
	s = truncatedThinkingRE.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

// Anchored at the start and terminated by a colon to avoid eating real
// content.
var echoREs = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^here(?:'s| is)(?: the| your)? (?:translated )?(?:translation|text)(?: in [\p{L} ]+)?\s*:`),
	regexp.MustCompile(`(?i)^(?:the )?(?:translation|translated text)(?: in [\p{L} ]+)?\s*:`),
	regexp.MustCompile(`(?i)^(?:certainly|sure|of course)[,.!]? here(?:'s| is)(?: the| your)? (?:translated )?(?:translation|text)(?: in [\p{L} ]+)?\s*:`),
}

func removeInstructionEchoes(s string) string {
	for _, re := range echoREs {
		if loc := re.FindStringIndex(s); loc != nil {
			s = strings.TrimSpace(s[loc[1]:])
		}
	}
	return s
}

var quotePairs = [][2]rune{
	{'"', '"'},
	{'\'', '\''},
	{'«', '»'},
	{'“', '”'},
	{'‘', '’'},
}

func removeQuoteWrapping(s string) string {
	runes := []rune(s)
	n := len(runes)
	if n < 2 {
		return s
	}
	for _, pair := range quotePairs {
		if runes[0] != pair[0] || runes[n-1] != pair[1] {
			continue
		}
		// "Ciao" e "addio" is two quoted phrases, not one wrapped text.
		inner := runes[1 : n-1]
		if containsQuote(inner, pair) {
			return s
		}
		return strings.TrimSpace(string(inner))
	}
	return s
}

func containsQuote(runes []rune, pair [2]rune) bool {
	for i, r := range runes {
		if (r == pair[0] || r == pair[1]) && (i == 0 || runes[i-1] != '\\') {
			return true
		}
	}
	return false
}
