package util

import (
	"strings"
)

// CleanedUpSdkError wraps an SDK error and prints only its first line, dropping
// the request and response dump the SDK appends.
type CleanedUpSdkError struct {
	Err error
}

func (e CleanedUpSdkError) Error() string {
	if e.Err == nil {
		return ""
	}
	msg := strings.TrimSpace(e.Err.Error())
	if first, _, found := strings.Cut(msg, "\n"); found {
		return strings.TrimSpace(first)
	}
	return msg
}

func (e CleanedUpSdkError) Unwrap() error {
	return e.Err
}
