package openai

import (
	"fmt"

	"github.com/modernice/parlance"
	"github.com/tiktoken-go/tokenizer"
)

// Every message is wrapped in <|start|>{role}\n{content}<|end|>\n and every
// reply is primed with <|start|>assistant<|message|>.
const (
	tokensPerMessage = 4
	tokensPerReply   = 3
)

// PromptTokens returns the number of tokens msgs consume in the context of the
// given model. Models unknown to the tokenizer are counted with the cl100k_base
// encoding.
func PromptTokens(model string, msgs parlance.PromptMessages) (int, error) {
	codec, err := tokenizer.ForModel(tokenizer.Model(model))
	if err != nil {
		if codec, err = tokenizer.Get(tokenizer.Cl100kBase); err != nil {
			return 0, fmt.Errorf("get tokenizer for %q: %w", model, err)
		}
	}

	n := tokensPerReply
	for _, msg := range msgs {
		ids, _, err := codec.Encode(msg.Content)
		if err != nil {
			return 0, fmt.Errorf("encode %s message: %w", msg.Role, err)
		}

		role, _, err := codec.Encode(chatRole(msg.Role))
		if err != nil {
			return 0, fmt.Errorf("encode role: %w", err)
		}

		n += tokensPerMessage + len(ids) + len(role)
	}

	return n, nil
}
