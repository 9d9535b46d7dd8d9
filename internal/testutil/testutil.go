// Package testutil provides common test utilities and helpers for the
// line-chatbot tests.
package testutil

import (
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Arwei0/line-chatbot/internal/models"
)

// UserConversation builds a one-to-one conversation identifier.
func UserConversation(userID string) models.ConversationID {
	return models.ConversationID{Type: models.SourceUser, ID: userID}
}

// GroupConversation builds a group conversation identifier.
func GroupConversation(groupID string) models.ConversationID {
	return models.ConversationID{Type: models.SourceGroup, ID: groupID}
}

// TextEvent builds an inbound text message event for tests.
func TextEvent(conv models.ConversationID, userID, replyToken, text string) models.Event {
	return models.Event{
		Conversation: conv,
		UserID:       userID,
		ReplyToken:   replyToken,
		Kind:         models.EventText,
		Text:         text,
		Time:         time.Now().Unix(),
	}
}

// ImageEvent builds an inbound image message event for tests.
func ImageEvent(conv models.ConversationID, userID, replyToken, messageID string) models.Event {
	return models.Event{
		Conversation: conv,
		UserID:       userID,
		ReplyToken:   replyToken,
		Kind:         models.EventImage,
		MessageID:    messageID,
		Time:         time.Now().Unix(),
	}
}

// AssertHTTPStatus checks the HTTP status code and fails the test if it
// doesn't match.
func AssertHTTPStatus(t *testing.T, expected, actual int, context string) {
	t.Helper()
	if actual != expected {
		t.Errorf("%s: expected status %d, got %d", context, expected, actual)
	}
}

// AssertJSONResponse decodes a JSON response body and validates the status
// field, returning the decoded map for further checks.
func AssertJSONResponse(t *testing.T, rr *httptest.ResponseRecorder, expectedStatus string) map[string]interface{} {
	t.Helper()
	var response map[string]interface{}
	if err := json.NewDecoder(rr.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode JSON response: %v", err)
	}
	if status, ok := response["status"].(string); !ok || status != expectedStatus {
		t.Errorf("expected status %q, got %v", expectedStatus, response["status"])
	}
	return response
}
