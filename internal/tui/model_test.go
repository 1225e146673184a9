package tui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diogo/alimah/internal/chat"
	"github.com/diogo/alimah/internal/models"
)

func newTestModel(t *testing.T, source chat.ReplySource, opts ...chat.SessionOption) Model {
	t.Helper()
	session := chat.NewSession(source, opts...)
	m := NewChatModel(context.Background(), session, Options{})
	m = update(t, m, initDoneMsg{})
	return update(t, m, tea.WindowSizeMsg{Width: 100, Height: 40})
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	model, ok := next.(Model)
	require.True(t, ok)
	return model
}

func pressEnter(t *testing.T, m Model) Model {
	return update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
}

func simulated() chat.ReplySource {
	return chat.NewSimulated(chat.WithDelay(0))
}

func TestModel_BlankInputMarksInvalid(t *testing.T) {
	m := newTestModel(t, simulated(), chat.WithSendGuard(true))
	m.textarea.SetValue("   ")

	m = pressEnter(t, m)

	assert.True(t, m.inputInvalid)
	assert.False(t, m.sending)
	assert.Equal(t, 0, m.session.Store().Len())
}

func TestModel_SendAndReply(t *testing.T) {
	m := newTestModel(t, simulated(), chat.WithSendGuard(true))
	m.inputInvalid = true
	m.textarea.SetValue("Hello")

	m = pressEnter(t, m)

	assert.False(t, m.inputInvalid)
	assert.True(t, m.sending)
	assert.Equal(t, "Hello", m.textarea.Value(), "input kept until the reply lands")
	msgs := m.session.Store().Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, models.User, msgs[0].Sender)

	reply, err := m.session.CompleteSend(context.Background(), msgs[0])
	m = update(t, m, replyMsg{msg: reply, err: err})

	assert.False(t, m.sending)
	assert.Empty(t, m.alert)
	assert.Equal(t, 2, m.session.Store().Len())
	assert.Empty(t, m.textarea.Value())
	assert.Contains(t, m.viewport.View(), "Hello")
}

func TestModel_GuardIgnoresSecondSend(t *testing.T) {
	m := newTestModel(t, simulated(), chat.WithSendGuard(true))
	m.textarea.SetValue("first")
	m = pressEnter(t, m)

	m.textarea.SetValue("second")
	m = pressEnter(t, m)

	assert.Equal(t, 1, m.session.Store().Len())
	assert.Equal(t, "second", m.textarea.Value())
	assert.True(t, m.sendLocked())
}

func TestModel_UnguardedKeepsInputUntilReply(t *testing.T) {
	m := newTestModel(t, simulated(), chat.WithSendGuard(false))
	m.textarea.SetValue("Hello")
	m = pressEnter(t, m)

	assert.Equal(t, "Hello", m.textarea.Value())
	assert.Equal(t, "Hello", m.pendingInput)

	user := m.session.Store().Messages()[0]
	reply, err := m.session.CompleteSend(context.Background(), user)
	m = update(t, m, replyMsg{msg: reply, err: err})

	assert.Empty(t, m.textarea.Value())
	assert.Empty(t, m.pendingInput)
}

func TestModel_UnguardedKeepsEditedInput(t *testing.T) {
	m := newTestModel(t, simulated(), chat.WithSendGuard(false))
	m.textarea.SetValue("Hello")
	m = pressEnter(t, m)
	m.textarea.SetValue("something new")

	user := m.session.Store().Messages()[0]
	reply, err := m.session.CompleteSend(context.Background(), user)
	m = update(t, m, replyMsg{msg: reply, err: err})

	assert.Equal(t, "something new", m.textarea.Value())
}

func TestModel_SendFailureShowsAlert(t *testing.T) {
	failing := chat.ReplyFunc(func(context.Context, string) (string, error) {
		return "", errors.New("connection refused")
	})
	m := newTestModel(t, failing, chat.WithSendGuard(false))
	m.textarea.SetValue("Hello")
	m = pressEnter(t, m)

	user := m.session.Store().Messages()[0]
	_, err := m.session.CompleteSend(context.Background(), user)
	require.Error(t, err)
	m = update(t, m, replyMsg{err: err})

	assert.Equal(t, sendFailedAlert, m.alert)
	assert.Equal(t, "Hello", m.textarea.Value(), "input kept for retry")
	assert.Contains(t, m.View(), sendFailedAlert)

	// Keys other than dismiss are swallowed by the alert
	m = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlT})
	assert.False(t, m.translating)

	m = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Empty(t, m.alert)
	assert.NotContains(t, m.View(), sendFailedAlert)
}

func TestModel_GuardedSendFailureKeepsInput(t *testing.T) {
	failing := chat.ReplyFunc(func(context.Context, string) (string, error) {
		return "", errors.New("connection refused")
	})
	m := newTestModel(t, failing, chat.WithSendGuard(true))
	m.textarea.SetValue("Hello")
	m = pressEnter(t, m)
	assert.True(t, m.sendLocked())

	user := m.session.Store().Messages()[0]
	_, err := m.session.CompleteSend(context.Background(), user)
	require.Error(t, err)
	m = update(t, m, replyMsg{err: err})

	assert.Equal(t, sendFailedAlert, m.alert)
	assert.Equal(t, "Hello", m.textarea.Value(), "input kept for retry")
	assert.False(t, m.sendLocked())
}

func TestModel_InitFailure(t *testing.T) {
	session := chat.NewSession(simulated())
	m := NewChatModel(context.Background(), session, Options{})
	m = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 40})

	m = update(t, m, initDoneMsg{err: errors.New("Failed to initialize: backend unreachable")})
	assert.Contains(t, m.View(), "Failed to initialize")

	m.textarea.SetValue("Hello")
	m = pressEnter(t, m)
	assert.Equal(t, 0, session.Store().Len(), "no sends after a failed init")
}

func TestModel_CopyLatestReply(t *testing.T) {
	m := newTestModel(t, simulated(), chat.WithSendGuard(true))
	var copied string
	m.copyClipboard = func(s string) error {
		copied = s
		return nil
	}

	assert.Nil(t, m.copyLatest(), "nothing to copy yet")

	_, err := m.session.Submit(context.Background(), "Hello")
	require.NoError(t, err)
	latest, ok := m.session.Store().LatestAssistant()
	require.True(t, ok)

	cmd := m.copyLatest()
	require.NotNil(t, cmd)
	m = update(t, m, cmd())

	assert.Equal(t, latest.Content, copied)
	assert.Equal(t, "Copied latest reply", m.note)
}

func TestModel_ListenFillsInput(t *testing.T) {
	m := newTestModel(t, simulated())
	m.listening = true

	m = update(t, m, listenMsg{text: "nimechoka"})
	assert.False(t, m.listening)
	assert.Equal(t, "nimechoka", m.textarea.Value())

	m.textarea.Reset()
	m.listening = true
	m = update(t, m, listenMsg{err: errors.New("no speech")})
	assert.False(t, m.listening)
	assert.Empty(t, m.textarea.Value())
}

func TestModel_TranslatedUpdatesHeader(t *testing.T) {
	m := newTestModel(t, simulated())
	lang, stats := m.session.ToggleLanguage(context.Background())
	m.translating = true

	m = update(t, m, translatedMsg{lang: lang, stats: stats})

	assert.False(t, m.translating)
	assert.Equal(t, "Language: "+models.Swahili.Name(), m.note)
	assert.Contains(t, m.View(), models.Swahili.Name())
}

func TestModel_StoreChangeRefreshes(t *testing.T) {
	m := newTestModel(t, simulated())
	m.session.Store().Append(models.Assistant, "Karibu tena", models.Swahili)

	m.translating = true
	m = update(t, m, storeChangedMsg{})
	assert.NotContains(t, m.viewport.View(), "Karibu tena", "no redraw mid-translation")

	m.translating = false
	m = update(t, m, storeChangedMsg{})
	assert.Contains(t, m.viewport.View(), "Karibu tena")
}

func TestTranslationNote(t *testing.T) {
	tests := []struct {
		name  string
		stats chat.TranslateStats
		want  string
	}{
		{"nothing to translate", chat.TranslateStats{}, "Language: English"},
		{"all translated", chat.TranslateStats{Requested: 2, Translated: 2}, "English: 2 translated"},
		{"some failed", chat.TranslateStats{Requested: 3, Translated: 2, Failed: 1}, "English: 2 translated, 1 failed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, translationNote(models.English, tt.stats))
		})
	}
}

func TestModel_WelcomeAndStatusBar(t *testing.T) {
	m := newTestModel(t, simulated())
	view := m.View()

	assert.Contains(t, view, "Welcome to "+models.AssistantName)
	assert.Contains(t, view, "send")
	assert.Contains(t, view, "translate")
	assert.False(t, strings.Contains(view, "mic"), "no recognizer configured")
}
