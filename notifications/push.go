// Copyright (c) 2025 Telar Social
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package notifications

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// NotificationTypeStatusChange is the push notification type for status changes
const NotificationTypeStatusChange = "status_change"

// PushConfig configures the notification backend client
type PushConfig struct {
	BackendURL string
	Timeout    time.Duration
	ActorID    string
	ActorName  string
}

// PushService delivers in-app push notifications through the notification backend
type PushService struct {
	backendURL string
	actorID    string
	actorName  string
	client     *http.Client
}

// NewPushService creates a PushService
func NewPushService(cfg PushConfig) *PushService {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &PushService{
		backendURL: strings.TrimSpace(cfg.BackendURL),
		actorID:    cfg.ActorID,
		actorName:  cfg.ActorName,
		client:     &http.Client{Timeout: timeout},
	}
}

// PushRequest is the notification backend payload
type PushRequest struct {
	Type                string `json:"type"`
	ActorID             string `json:"actorId"`
	ActorName           string `json:"actorName"`
	TargetID            string `json:"targetId"`
	TargetUserID        string `json:"targetUserId"`
	PreviewText         string `json:"previewText"`
	OriginalPostTitle   string `json:"originalPostTitle,omitempty"`
	OriginalPostContent string `json:"originalPostContent,omitempty"`
}

var statusMessages = map[string]string{
	"normal":   "Your account status has been restored to normal. Thank you for following the community guidelines.",
	"reminded": "You have received a reminder about the community guidelines. Please review them to keep your account in good standing.",
	"warned":   "Your account has received a warning. Further violations may lead to a ban.",
	"banned":   "Your account has been banned for repeated violations of the community guidelines.",
}

// StatusMessage returns the text shown to the user for a change to newLabel
func StatusMessage(oldLabel, newLabel string) string {
	if msg, ok := statusMessages[strings.ToLower(strings.TrimSpace(newLabel))]; ok {
		return msg
	}
	return fmt.Sprintf("Your account status has changed from %s to %s.", oldLabel, newLabel)
}

// SendStatusChangedNotification pushes the status change to the user.
// Only the HTTP outcome is consumed; the response body is ignored.
func (s *PushService) SendStatusChangedNotification(ctx context.Context, userID, oldLabel, newLabel string) Result {
	if strings.TrimSpace(userID) == "" {
		return failed("missing target user")
	}
	if s.backendURL == "" {
		return failed("no notification backend configured")
	}

	req := PushRequest{
		Type:         NotificationTypeStatusChange,
		ActorID:      s.actorID,
		ActorName:    s.actorName,
		TargetID:     userID,
		TargetUserID: userID,
		PreviewText:  StatusMessage(oldLabel, newLabel),
	}
	if err := postJSON(ctx, s.client, s.backendURL, req, nil); err != nil {
		return failed("notification backend: %v", err)
	}
	return sent("notification delivered")
}
