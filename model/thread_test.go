package model

import (
	"errors"
	"testing"
)

func TestThreadSinglePending(t *testing.T) {
	th := NewThread()
	if !th.Empty() || th.HasPending() {
		t.Fatal("new thread should be empty")
	}

	if err := th.AddUserQuery("first"); err != nil {
		t.Fatalf("AddUserQuery() error = %v", err)
	}
	if th.Len() != 2 || !th.HasPending() {
		t.Fatalf("after AddUserQuery: len %d pending %v", th.Len(), th.HasPending())
	}
	if err := th.AddUserQuery("second"); !errors.Is(err, ErrTurnPending) {
		t.Errorf("second AddUserQuery() error = %v, want ErrTurnPending", err)
	}
	if th.Len() != 2 {
		t.Errorf("rejected query must not be appended, len = %d", th.Len())
	}

	msgs := th.Messages()
	if msgs[0].Sender != SenderUser || msgs[0].Text != "first" {
		t.Errorf("user turn = %+v", msgs[0])
	}
	if Classify(msgs[1]) != RenderWaiting {
		t.Errorf("placeholder classifies as %s", Classify(msgs[1]))
	}
}

func TestThreadResolvePending(t *testing.T) {
	th := NewThread()
	_ = th.AddUserQuery("q")
	placeholderID := th.Messages()[1].ID

	ok := th.ResolvePending(Message{Text: "answer", Identifier: IdentifierMarkdown, Loading: true, Sender: SenderUser})
	if !ok {
		t.Fatal("ResolvePending() = false")
	}
	got := th.Messages()[1]
	if got.Loading || got.Sender != SenderBot || got.Text != "answer" {
		t.Errorf("resolved = %+v", got)
	}
	if got.ID != placeholderID {
		t.Errorf("resolved message should keep placeholder ID when none is given")
	}
	if th.HasPending() {
		t.Error("thread still pending after resolve")
	}
	if th.ResolvePending(Message{Text: "late"}) {
		t.Error("ResolvePending() without placeholder should report false")
	}

	if err := th.AddUserQuery("next"); err != nil {
		t.Errorf("AddUserQuery() after resolve error = %v", err)
	}
}

func TestThreadFailPending(t *testing.T) {
	th := NewThread()
	_ = th.AddUserQuery("q")
	if !th.FailPending("backend down") {
		t.Fatal("FailPending() = false")
	}
	got := th.Messages()[1]
	if got.Text != "backend down" || Classify(got) != RenderMarkdownText {
		t.Errorf("failed turn = %+v", got)
	}
}

func TestThreadReplaceAndReset(t *testing.T) {
	th := NewThread()
	_ = th.AddUserQuery("q")
	gen := th.Generation()

	history := []Message{{ID: "h1", Sender: SenderUser, Text: "old"}}
	th.Replace("c9", history)
	if th.ConversationID != "c9" || th.Len() != 1 || th.HasPending() {
		t.Errorf("after Replace: %+v", th)
	}
	if th.Generation() == gen {
		t.Error("Replace should start a new generation")
	}
	gen = th.Generation()
	history[0].Text = "mutated"
	if th.Messages()[0].Text != "old" {
		t.Error("Replace should copy the slice")
	}

	th.Reset()
	if th.ConversationID != "" || !th.Empty() {
		t.Errorf("after Reset: %+v", th)
	}
	if th.Generation() == gen {
		t.Error("Reset should start a new generation")
	}
}
