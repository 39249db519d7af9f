package services

import (
	"context"
	"fmt"
	"testing"
)

type recordingNotifier struct {
	calls int
	userID,
	kind,
	title,
	message,
	relatedID string
	err error
}

func (n *recordingNotifier) Notify(ctx context.Context, userID, kind, title, message, relatedID string) error {
	n.calls++
	n.userID = userID
	n.kind = kind
	n.title = title
	n.message = message
	n.relatedID = relatedID
	return n.err
}

func TestNotifyBestEffortDeliversArguments(t *testing.T) {
	n := &recordingNotifier{}
	notifyBestEffort(context.Background(), n, "u1", "event", "Join request", "Alice wants to join", "e1")

	if n.calls != 1 {
		t.Fatalf("notifier called %d times, want 1", n.calls)
	}
	if n.userID != "u1" || n.kind != "event" || n.relatedID != "e1" {
		t.Errorf("notifier got (%s, %s, %s), want (u1, event, e1)", n.userID, n.kind, n.relatedID)
	}
}

func TestNotifyBestEffortSwallowsFailures(t *testing.T) {
	n := &recordingNotifier{err: fmt.Errorf("apns unavailable")}
	notifyBestEffort(context.Background(), n, "u1", "friend", "Friend request", "Bob sent you a friend request", "u2")

	if n.calls != 1 {
		t.Fatalf("notifier called %d times, want 1", n.calls)
	}
}
