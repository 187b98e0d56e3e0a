// Package parlance translates free text into a target language using a
// chat-based language model. The [Controller] drives one translation request
// from form submission to a resolved [Outcome] and exposes the observable
// [State] a user interface renders from.
package parlance

import "fmt"

const (
	// RoleInstruction marks the message that instructs the model. Providers
	// send it as the "system" message.
	RoleInstruction Role = "instruction"

	// RoleContent marks the message that carries the user's text. Providers
	// send it as the "user" message.
	RoleContent Role = "content"
)

// Role is the role of a [Message] within a prompt.
type Role string

// Message is a single entry of a prompt.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// PromptMessages is the ordered message sequence sent to a [ModelClient].
// Prompts built by [BuildPrompt] always contain the instruction first and the
// content second.
type PromptMessages []Message

// Instruction returns the content of the first instruction message.
func (msgs PromptMessages) Instruction() string {
	return msgs.first(RoleInstruction)
}

// Content returns the content of the first content message.
func (msgs PromptMessages) Content() string {
	return msgs.first(RoleContent)
}

func (msgs PromptMessages) first(role Role) string {
	for _, msg := range msgs {
		if msg.Role == role {
			return msg.Content
		}
	}
	return ""
}

// TranslationRequest is a validated submission: the text to translate and the
// language to translate it into.
type TranslationRequest struct {
	SourceText     string
	TargetLanguage string
}

// Prompt builds the prompt for the request.
func (req TranslationRequest) Prompt() PromptMessages {
	return BuildPrompt(req.SourceText, req.TargetLanguage)
}

// BuildPrompt returns the two-message prompt that asks the model to translate
// sourceText from English into targetLanguage. targetLanguage is interpolated
// as-is and sourceText is passed through unchanged.
func BuildPrompt(sourceText, targetLanguage string) PromptMessages {
	return PromptMessages{
		{
			Role:    RoleInstruction,
			Content: fmt.Sprintf("Translate the following from English to %s", targetLanguage),
		},
		{
			Role:    RoleContent,
			Content: sourceText,
		},
	}
}
