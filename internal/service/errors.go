package service

import "fmt"

// ErrorKind classifies pipeline failures. Callers switch on the kind instead
// of parsing message text.
type ErrorKind string

const (
	ErrMissingParameters ErrorKind = "missing_parameters"
	ErrGenerationFailed  ErrorKind = "generation_failed"
	ErrUnexpectedFailure ErrorKind = "unexpected_failure"
)

// Guidance shown to the user when the message lacks a knowledge point or a
// teaching method.
const missingParamsGuidance = "请提供完整的信息，包括知识点和教学方法。例如：'请生成关于牛顿第二定律的教学内容，使用探究式教学法，难度级别为4'"

// PipeError is the single failure type of the pipeline. Message is a short
// internal description, Detail carries the raw remote response body or a
// diagnostic trace depending on the kind.
type PipeError struct {
	Kind    ErrorKind
	Message string
	Detail  string
}

func (e *PipeError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s: %s", e.Kind, e.Message, e.Detail)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// UserMessage renders the failure exactly as shown to the end user. No
// failure is ever surfaced as a transport error; the pipeline always answers
// with a descriptive string.
func (e *PipeError) UserMessage() string {
	switch e.Kind {
	case ErrMissingParameters:
		return missingParamsGuidance
	case ErrGenerationFailed:
		return "生成教学内容失败: " + e.Detail
	default:
		return fmt.Sprintf("处理请求时出错: %s\n\n详细错误信息: %s", e.Message, e.Detail)
	}
}

// asPipeError normalizes any error to a PipeError, classifying unknown
// failures (transport errors, malformed responses) as unexpected.
func asPipeError(err error) *PipeError {
	if perr, ok := err.(*PipeError); ok {
		return perr
	}
	return &PipeError{
		Kind:    ErrUnexpectedFailure,
		Message: err.Error(),
		Detail:  fmt.Sprintf("%+v", err),
	}
}
