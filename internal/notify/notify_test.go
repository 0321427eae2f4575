package notify

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"loginbot/internal/components/telemetry"

	"github.com/go-telegram/bot"
	"github.com/stretchr/testify/require"
)

type fakeBotApi struct {
	mutex   sync.Mutex
	chatIds []string
	texts   []string
	fail    bool
}

func (f *fakeBotApi) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	switch {
	case strings.HasSuffix(r.URL.Path, "/getMe"):
		w.Write([]byte(`{"ok":true,"result":{"id":1,"is_bot":true,"first_name":"t","username":"t"}}`))
	case strings.HasSuffix(r.URL.Path, "/sendMessage"):
		if f.fail {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"ok":false,"error_code":400,"description":"Bad Request: chat not found"}`))
			return
		}
		f.mutex.Lock()
		f.chatIds = append(f.chatIds, r.FormValue("chat_id"))
		f.texts = append(f.texts, r.FormValue("text"))
		f.mutex.Unlock()
		w.Write([]byte(`{"ok":true,"result":{"message_id":1,"date":0,"chat":{"id":42,"type":"private"},"text":"x"}}`))
	default:
		http.NotFound(w, r)
	}
}

func TestTelegram(t *testing.T) {
	api := &fakeBotApi{}
	server := httptest.NewServer(api)
	defer server.Close()

	tel := &telemetry.Recorder{}
	tg, err := NewTelegram(Target{BotToken: "123:abc", ChatID: "42"}, tel, bot.WithServerURL(server.URL))
	require.NoError(t, err)

	tg.Notify(context.Background(), "hello")
	require.Equal(t, []string{"42"}, api.chatIds)
	require.Equal(t, []string{"hello"}, api.texts)
	require.Empty(t, tel.Reports("warning"))

	api.fail = true
	tg.Notify(context.Background(), "lost")
	require.True(t, tel.Has("warning", report_telegram_send))
}

func TestTelegramInvalidTarget(t *testing.T) {
	_, err := NewTelegram(Target{BotToken: "123:abc"}, &telemetry.Recorder{})
	require.Error(t, err)
}

func TestFanout(t *testing.T) {
	a := &Recorder{}
	b := &Recorder{}
	Fanout{a, Nop{}, b}.Notify(context.Background(), "x")
	require.Equal(t, []string{"x"}, a.Messages())
	require.Equal(t, []string{"x"}, b.Messages())
}
