package session

import (
	"sync"
	"testing"

	"github.com/Arwei0/line-chatbot/internal/models"
)

func convID(id string) models.ConversationID {
	return models.ConversationID{Type: models.SourceUser, ID: id}
}

func TestStartCreatesSession(t *testing.T) {
	store := NewStore()
	sess := store.Start(convID("U1"), ModeSpread, "愛情運勢")

	if sess.Mode != ModeSpread {
		t.Errorf("expected mode %d, got %d", ModeSpread, sess.Mode)
	}
	if sess.Remaining != ModeSpread {
		t.Errorf("expected remaining %d, got %d", ModeSpread, sess.Remaining)
	}
	if sess.Topic != "愛情運勢" {
		t.Errorf("unexpected topic %q", sess.Topic)
	}
	if len(sess.Drawn) != 0 {
		t.Errorf("expected no drawn cards, got %d", len(sess.Drawn))
	}
	if store.Len() != 1 {
		t.Errorf("expected 1 active session, got %d", store.Len())
	}
}

func TestStartReplacesExistingSession(t *testing.T) {
	store := NewStore()
	id := convID("U1")
	store.Start(id, ModeSpread, "事業運勢")
	store.Draw(id, CardDraw{Card: 3})

	sess := store.Start(id, ModeSingle, "今日運勢")
	if sess.Mode != ModeSingle || sess.Remaining != ModeSingle || len(sess.Drawn) != 0 {
		t.Errorf("expected fresh single session, got %+v", sess)
	}
	if store.Len() != 1 {
		t.Errorf("expected 1 active session, got %d", store.Len())
	}
}

func TestGetMissingSession(t *testing.T) {
	store := NewStore()
	if _, ok := store.Get(convID("U1")); ok {
		t.Error("expected no session for unknown conversation")
	}
}

func TestDrawCountdownAndCompletion(t *testing.T) {
	store := NewStore()
	id := convID("U1")
	store.Start(id, ModeSpread, "財運運勢")

	sess, ok := store.Draw(id, CardDraw{Card: 1})
	if !ok || sess.Remaining != 2 || len(sess.Drawn) != 1 {
		t.Fatalf("first draw: ok=%v session=%+v", ok, sess)
	}
	sess, ok = store.Draw(id, CardDraw{Card: 2, Reversed: true})
	if !ok || sess.Remaining != 1 || len(sess.Drawn) != 2 {
		t.Fatalf("second draw: ok=%v session=%+v", ok, sess)
	}

	sess, ok = store.Draw(id, CardDraw{Card: 3})
	if !ok || sess.Remaining != 0 {
		t.Fatalf("final draw: ok=%v session=%+v", ok, sess)
	}
	// The completed session copy keeps the whole sequence for the summary.
	if len(sess.Drawn) != 3 {
		t.Errorf("expected 3 drawn cards in final copy, got %d", len(sess.Drawn))
	}
	if sess.Drawn[1].Card != 2 || !sess.Drawn[1].Reversed {
		t.Errorf("unexpected second draw %+v", sess.Drawn[1])
	}

	// Completion removed the session.
	if _, ok := store.Get(id); ok {
		t.Error("expected session to be removed after completion")
	}
	if _, ok := store.Draw(id, CardDraw{Card: 4}); ok {
		t.Error("expected draw on completed session to report no session")
	}
}

func TestDrawWithoutSession(t *testing.T) {
	store := NewStore()
	if _, ok := store.Draw(convID("U1"), CardDraw{Card: 1}); ok {
		t.Error("expected draw without session to report no session")
	}
}

func TestStopIsIdempotent(t *testing.T) {
	store := NewStore()
	id := convID("U1")
	store.Start(id, ModeSingle, "今日運勢")

	if !store.Stop(id) {
		t.Error("expected Stop to report an existing session")
	}
	if store.Stop(id) {
		t.Error("expected second Stop to report no session")
	}
	if store.Len() != 0 {
		t.Errorf("expected 0 active sessions, got %d", store.Len())
	}
}

func TestSessionsAreIndependentPerConversation(t *testing.T) {
	store := NewStore()
	user := convID("U1")
	group := models.ConversationID{Type: models.SourceGroup, ID: "G1"}

	store.Start(user, ModeSingle, "今日運勢")
	store.Start(group, ModeSpread, "愛情運勢")

	store.Draw(user, CardDraw{Card: 5})
	groupSess, ok := store.Get(group)
	if !ok || len(groupSess.Drawn) != 0 {
		t.Errorf("group session affected by user draw: ok=%v session=%+v", ok, groupSess)
	}
}

func TestReturnedCopiesAreDetached(t *testing.T) {
	store := NewStore()
	id := convID("U1")
	sess := store.Start(id, ModeSpread, "愛情運勢")
	sess.Remaining = 99
	sess.Topic = "mutated"

	got, ok := store.Get(id)
	if !ok || got.Remaining != ModeSpread || got.Topic != "愛情運勢" {
		t.Errorf("store state mutated through returned copy: %+v", got)
	}
}

func TestConcurrentDraws(t *testing.T) {
	store := NewStore()
	const workers = 8

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		id := convID(string(rune('A' + i)))
		store.Start(id, ModeSpread, "事業運勢")
		wg.Add(1)
		go func(id models.ConversationID) {
			defer wg.Done()
			for j := 0; j < ModeSpread; j++ {
				store.Draw(id, CardDraw{Card: j})
			}
		}(id)
	}
	wg.Wait()

	if store.Len() != 0 {
		t.Errorf("expected all sessions completed, %d remain", store.Len())
	}
}
