package parlance

import (
	"encoding/json"
	"errors"
)

const (
	// MessageRequired is shown when a submission has no message to translate.
	MessageRequired = "Please type a message to translate"

	// MessageGenericFailure is shown when the model or the parser failed.
	MessageGenericFailure = "An error occurred. Please try again later."

	// MessageEmptyModelResponse is shown when the model returned no data.
	MessageEmptyModelResponse = "No response from model"

	// MessageEmptyParsedResponse is shown when the model's response contained
	// no text.
	MessageEmptyParsedResponse = "The model response did not contain a translation"
)

var (
	// ErrValidation is reported by [Outcome.Err] for invalid form input.
	ErrValidation = errors.New("invalid form input")

	// ErrEmptyModelResponse is reported by [Outcome.Err] when the model
	// returned no data.
	ErrEmptyModelResponse = errors.New("empty model response")

	// ErrEmptyParsedResponse is reported by [Outcome.Err] when no text could
	// be extracted from the model response.
	ErrEmptyParsedResponse = errors.New("empty parsed response")

	// ErrProvider is reported by [Outcome.Err] when invoking the model or
	// parsing its response failed.
	ErrProvider = errors.New("provider failure")
)

const (
	// OutcomeSuccess is a successful translation.
	OutcomeSuccess OutcomeKind = iota + 1

	// OutcomeEmptyModelResponse means the model returned no data.
	OutcomeEmptyModelResponse

	// OutcomeEmptyParsedResponse means the model response contained no text.
	OutcomeEmptyParsedResponse

	// OutcomeFailure is a validation or provider failure. The reason is the
	// user-facing message.
	OutcomeFailure
)

// OutcomeKind discriminates the variants of an [Outcome].
type OutcomeKind int

// String returns the name of the kind.
func (k OutcomeKind) String() string {
	switch k {
	case OutcomeSuccess:
		return "success"
	case OutcomeEmptyModelResponse:
		return "empty_model_response"
	case OutcomeEmptyParsedResponse:
		return "empty_parsed_response"
	case OutcomeFailure:
		return "failure"
	default:
		return "unknown"
	}
}

// Outcome is the terminal result of one translation attempt.
type Outcome struct {
	Kind OutcomeKind

	// Text is the translated text of a successful outcome.
	Text string

	// Reason is the user-facing message of a failed outcome.
	Reason string

	err error
}

// Success returns a successful outcome for the translated text.
func Success(text string) Outcome {
	return Outcome{Kind: OutcomeSuccess, Text: text}
}

// EmptyModelResponse returns the outcome for a model that returned no data.
func EmptyModelResponse() Outcome {
	return Outcome{Kind: OutcomeEmptyModelResponse, err: ErrEmptyModelResponse}
}

// EmptyParsedResponse returns the outcome for a model response that
// contained no text.
func EmptyParsedResponse() Outcome {
	return Outcome{Kind: OutcomeEmptyParsedResponse, err: ErrEmptyParsedResponse}
}

// Failure returns a failed outcome with the given user-facing reason.
func Failure(reason string) Outcome {
	return Outcome{Kind: OutcomeFailure, Reason: reason, err: ErrProvider}
}

func validationFailure(reason string) Outcome {
	return Outcome{Kind: OutcomeFailure, Reason: reason, err: ErrValidation}
}

// Succeeded reports whether the outcome is a successful translation.
func (o Outcome) Succeeded() bool {
	return o.Kind == OutcomeSuccess
}

// Message returns the text to display: the translation on success and the
// user-facing message otherwise.
func (o Outcome) Message() string {
	switch o.Kind {
	case OutcomeSuccess:
		return o.Text
	case OutcomeEmptyModelResponse:
		return MessageEmptyModelResponse
	case OutcomeEmptyParsedResponse:
		return MessageEmptyParsedResponse
	default:
		return o.Reason
	}
}

// Err returns nil for a successful outcome and one of [ErrValidation],
// [ErrEmptyModelResponse], [ErrEmptyParsedResponse] or [ErrProvider]
// otherwise.
func (o Outcome) Err() error {
	if o.Kind == OutcomeSuccess {
		return nil
	}
	if o.err == nil {
		return ErrProvider
	}
	return o.err
}

// MarshalJSON implements [json.Marshaler].
func (o Outcome) MarshalJSON() ([]byte, error) {
	out := struct {
		Kind    string `json:"kind"`
		Text    string `json:"text,omitempty"`
		Message string `json:"message"`
	}{
		Kind:    o.Kind.String(),
		Text:    o.Text,
		Message: o.Message(),
	}
	return json.Marshal(out)
}
