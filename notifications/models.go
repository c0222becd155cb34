// Copyright (c) 2025 Telar Social
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package notifications

import "fmt"

// Result is the outcome of one notification attempt. Senders never return errors.
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

func sent(message string) Result {
	return Result{Success: true, Message: message}
}

func failed(format string, a ...interface{}) Result {
	return Result{Message: fmt.Sprintf(format, a...)}
}

// ReportedPost is the summary of a reported post attached to an escalation email
type ReportedPost struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Content     string `json:"content"`
	ReportCount int    `json:"reportCount"`
	CreatedAt   int64  `json:"createdAt"`
}
