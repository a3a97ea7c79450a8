package router

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"telegram-ai-bot/clients"
	"telegram-ai-bot/models"
	"telegram-ai-bot/notes"
)

type stubAI struct {
	calls      int
	lastPrompt string
	reply      string
	err        error
}

func (s *stubAI) Ask(ctx context.Context, prompt string) (string, error) {
	s.calls++
	s.lastPrompt = prompt
	return s.reply, s.err
}

type stubWiki struct {
	calls   int
	summary string
	err     error
}

func (s *stubWiki) Summary(ctx context.Context, topic string) (string, error) {
	s.calls++
	return s.summary, s.err
}

type stubWeather struct {
	calls      int
	configured bool
	report     string
	err        error
}

func (s *stubWeather) Configured() bool { return s.configured }

func (s *stubWeather) Current(ctx context.Context, city string) (string, error) {
	s.calls++
	return s.report, s.err
}

type stubSpeech struct {
	calls int
	path  string
	err   error
}

func (s *stubSpeech) Synthesize(ctx context.Context, text string) (string, error) {
	s.calls++
	return s.path, s.err
}

type stubPDF struct {
	calls int
	path  string
	err   error
}

func (s *stubPDF) Render(text string) (string, error) {
	s.calls++
	return s.path, s.err
}

type stubAssets struct {
	saved   int
	nextRef string
	known   map[string]string
}

func (s *stubAssets) SaveBytes(name string, data []byte) (string, error) {
	s.saved++
	if s.known == nil {
		s.known = map[string]string{}
	}
	s.known[s.nextRef] = name
	return s.nextRef, nil
}

func (s *stubAssets) Resolve(ref string) (string, error) {
	if _, ok := s.known[ref]; !ok {
		return "", errors.New("riferimento non trovato")
	}
	return "/tmp/" + s.known[ref], nil
}

func (s *stubAssets) PublicURL(ref string) string {
	return "https://example.com/files/" + ref
}

type testEnv struct {
	router  *Router
	ai      *stubAI
	wiki    *stubWiki
	weather *stubWeather
	speech  *stubSpeech
	pdf     *stubPDF
	assets  *stubAssets
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	store, err := notes.NewFileStore(filepath.Join(t.TempDir(), "notes.json"))
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}

	env := &testEnv{
		ai:      &stubAI{reply: "ai answer"},
		wiki:    &stubWiki{summary: "wiki summary"},
		weather: &stubWeather{configured: true, report: "sunny"},
		speech:  &stubSpeech{path: "/tmp/out.mp3"},
		pdf:     &stubPDF{path: "/tmp/out.pdf"},
		assets:  &stubAssets{nextRef: "ref-1"},
	}
	env.router = &Router{
		AI:      env.ai,
		Wiki:    env.wiki,
		Weather: env.weather,
		Speech:  env.speech,
		PDF:     env.pdf,
		Notes:   store,
		Assets:  env.assets,
	}
	return env
}

func (e *testEnv) externalCalls() int {
	return e.ai.calls + e.wiki.calls + e.weather.calls + e.speech.calls + e.pdf.calls
}

func (e *testEnv) handleText(text string) models.Reply {
	return e.router.Handle(context.Background(), models.InboundMessage{
		Channel: "telegram",
		ChatID:  "100",
		UserID:  "100",
		Text:    text,
	})
}

func TestCommandWithoutArgumentRepliesUsageAndMakesNoCalls(t *testing.T) {
	cases := []struct {
		command string
		usage   string
	}{
		{"/ai", "Usage: /ai <your question>"},
		{"/wiki", "Usage: /wiki <topic>"},
		{"/weather", "Usage: /weather <city>"},
		{"/image", "Usage: /image <prompt>"},
		{"/meme", "Usage: /meme <text>"},
		{"/speak", "Usage: /speak <text>"},
		{"/tts", "Usage: /speak <text>"},
		{"/pdf", "Usage: /pdf <text to convert to pdf>"},
	}
	for _, tc := range cases {
		env := newTestEnv(t)
		reply := env.handleText(tc.command)
		if reply.Text != tc.usage {
			t.Fatalf("%s: reply = %q, want %q", tc.command, reply.Text, tc.usage)
		}
		if env.externalCalls() != 0 {
			t.Fatalf("%s: %d chiamate esterne, volute 0", tc.command, env.externalCalls())
		}
	}
}

func TestFreeTextGoesToAI(t *testing.T) {
	env := newTestEnv(t)
	env.ai.reply = "  the answer  "

	reply := env.handleText("what is the meaning of life?")
	if reply.Text != "  the answer  " {
		t.Fatalf("reply = %q", reply.Text)
	}
	if env.ai.calls != 1 {
		t.Fatalf("ai.calls = %d, want 1", env.ai.calls)
	}
	if env.ai.lastPrompt != "what is the meaning of life?" {
		t.Fatalf("prompt = %q", env.ai.lastPrompt)
	}
}

func TestAIErrorBecomesUserFacingText(t *testing.T) {
	env := newTestEnv(t)
	env.ai.err = errors.New("timeout")

	reply := env.handleText("hello")
	if !strings.Contains(reply.Text, "AI error") {
		t.Fatalf("reply = %q, want AI error text", reply.Text)
	}
}

func TestWikiCommandReturnsSummaryVerbatim(t *testing.T) {
	env := newTestEnv(t)
	env.wiki.summary = "Albert Einstein was a physicist. He developed relativity. He won the Nobel Prize."

	reply := env.handleText("/wiki Albert Einstein")
	if reply.Text != env.wiki.summary {
		t.Fatalf("reply = %q, want summary verbatim", reply.Text)
	}
	if env.wiki.calls != 1 {
		t.Fatalf("wiki.calls = %d, want 1", env.wiki.calls)
	}
}

func TestWikiNotFound(t *testing.T) {
	env := newTestEnv(t)
	env.wiki.err = clients.ErrNotFound
	env.wiki.summary = ""

	reply := env.handleText("/wiki qwertyuiop")
	if !strings.Contains(reply.Text, "Couldn't find") {
		t.Fatalf("reply = %q", reply.Text)
	}
}

func TestWeatherUnknownCityIsNotFoundReply(t *testing.T) {
	env := newTestEnv(t)
	env.weather.err = clients.ErrNotFound
	env.weather.report = ""

	reply := env.handleText("/weather Atlantide")
	if reply.Text != "City not found." {
		t.Fatalf("reply = %q", reply.Text)
	}
}

func TestWeatherWithoutCredentialMakesNoCall(t *testing.T) {
	env := newTestEnv(t)
	env.weather.configured = false

	reply := env.handleText("/weather Roma")
	if reply.Text != "Weather API key not configured." {
		t.Fatalf("reply = %q", reply.Text)
	}
	if env.weather.calls != 0 {
		t.Fatalf("weather.calls = %d, want 0", env.weather.calls)
	}
}

func TestImageAndMemeAreURLReplies(t *testing.T) {
	env := newTestEnv(t)

	reply := env.handleText("/image a red cat")
	if reply.PhotoURL == "" || !strings.Contains(reply.Caption, "a red cat") {
		t.Fatalf("reply = %+v", reply)
	}

	reply = env.handleText("/meme hello world")
	if !strings.Contains(reply.PhotoURL, "hello_world") {
		t.Fatalf("meme url = %q", reply.PhotoURL)
	}
	if env.externalCalls() != 0 {
		t.Fatalf("i costruttori di URL non devono fare chiamate esterne")
	}
}

func TestSpeakReturnsTransientAudio(t *testing.T) {
	env := newTestEnv(t)

	reply := env.handleText("/speak ciao")
	if reply.AudioPath != "/tmp/out.mp3" || !reply.Transient {
		t.Fatalf("reply = %+v", reply)
	}

	env.speech.err = errors.New("boom")
	reply = env.handleText("/speak ciao")
	if reply.Text != "TTS failed." {
		t.Fatalf("reply = %q", reply.Text)
	}
}

func TestPDFReturnsTransientDocument(t *testing.T) {
	env := newTestEnv(t)

	reply := env.handleText("/pdf line one\nline two")
	if reply.DocumentPath != "/tmp/out.pdf" || !reply.Transient {
		t.Fatalf("reply = %+v", reply)
	}
}

func TestPhotoAttachmentIsRegisteredWithoutModelCall(t *testing.T) {
	env := newTestEnv(t)

	reply := env.router.Handle(context.Background(), models.InboundMessage{
		Channel:   "telegram",
		ChatID:    "100",
		UserID:    "100",
		Photo:     []byte{0xFF, 0xD8},
		PhotoName: "tg.jpg",
	})
	if env.assets.saved != 1 {
		t.Fatalf("assets.saved = %d, want 1", env.assets.saved)
	}
	if !strings.Contains(reply.Text, "img:ref-1") {
		t.Fatalf("reply = %q, want img:ref-1 instructions", reply.Text)
	}
	if env.ai.calls != 0 {
		t.Fatalf("ai.calls = %d, want 0", env.ai.calls)
	}
}

func TestImageQuestionEmbedsURLAndQuestion(t *testing.T) {
	env := newTestEnv(t)
	env.assets.known = map[string]string{"ref-1": "tg.jpg"}

	question := "What is in this picture?"
	env.handleText("img:ref-1 " + question)

	if env.ai.calls != 1 {
		t.Fatalf("ai.calls = %d, want 1", env.ai.calls)
	}
	if !strings.Contains(env.ai.lastPrompt, "https://example.com/files/ref-1") {
		t.Fatalf("prompt senza URL: %q", env.ai.lastPrompt)
	}
	if !strings.Contains(env.ai.lastPrompt, question) {
		t.Fatalf("prompt senza domanda: %q", env.ai.lastPrompt)
	}
}

func TestImageQuestionUnknownReference(t *testing.T) {
	env := newTestEnv(t)

	reply := env.handleText("img:missing what is this?")
	if !strings.Contains(reply.Text, "Unknown image reference") {
		t.Fatalf("reply = %q", reply.Text)
	}
	if env.ai.calls != 0 {
		t.Fatalf("ai.calls = %d, want 0", env.ai.calls)
	}
}

func TestImageQuestionWithoutQuestion(t *testing.T) {
	env := newTestEnv(t)
	env.assets.known = map[string]string{"ref-1": "tg.jpg"}

	reply := env.handleText("img:ref-1")
	if !strings.Contains(reply.Text, "add your question") {
		t.Fatalf("reply = %q", reply.Text)
	}
	if env.ai.calls != 0 {
		t.Fatalf("ai.calls = %d, want 0", env.ai.calls)
	}
}

func TestNoteSaveAndList(t *testing.T) {
	env := newTestEnv(t)

	reply := env.handleText("/note todo buy milk")
	if reply.Text != "✅ Note saved." {
		t.Fatalf("reply = %q", reply.Text)
	}

	reply = env.handleText("/note")
	if !strings.Contains(reply.Text, "todo: buy milk") {
		t.Fatalf("list = %q, want todo: buy milk", reply.Text)
	}
	if env.externalCalls() != 0 {
		t.Fatalf("le note non devono fare chiamate esterne")
	}
}

func TestNoteOverwriteSameKey(t *testing.T) {
	env := newTestEnv(t)

	env.handleText("/note todo buy milk")
	env.handleText("/note todo buy bread")

	reply := env.handleText("/note")
	if strings.Contains(reply.Text, "buy milk") {
		t.Fatalf("la chiave deve essere sovrascritta: %q", reply.Text)
	}
	if !strings.Contains(reply.Text, "todo: buy bread") {
		t.Fatalf("list = %q", reply.Text)
	}
}

func TestNotesAreIsolatedPerUser(t *testing.T) {
	env := newTestEnv(t)

	handleAs := func(user, text string) models.Reply {
		return env.router.Handle(context.Background(), models.InboundMessage{
			Channel: "telegram",
			ChatID:  user,
			UserID:  user,
			Text:    text,
		})
	}

	handleAs("alice", "/note todo buy milk")
	reply := handleAs("bob", "/note")
	if reply.Text != "No notes saved." {
		t.Fatalf("le note di alice sono visibili a bob: %q", reply.Text)
	}
}

func TestNoteDeleteAndClear(t *testing.T) {
	env := newTestEnv(t)

	env.handleText("/note todo buy milk")
	env.handleText("/note spesa pane e latte")

	reply := env.handleText("/note del todo")
	if reply.Text != "Note deleted." {
		t.Fatalf("reply = %q", reply.Text)
	}
	reply = env.handleText("/note del todo")
	if reply.Text != "Note not found." {
		t.Fatalf("reply = %q", reply.Text)
	}

	reply = env.handleText("/note clear")
	if reply.Text != "Notes cleared." {
		t.Fatalf("reply = %q", reply.Text)
	}
	reply = env.handleText("/note")
	if reply.Text != "No notes saved." {
		t.Fatalf("list dopo clear = %q", reply.Text)
	}
}

func TestUnknownCommandIsNoOp(t *testing.T) {
	env := newTestEnv(t)

	reply := env.handleText("/frobnicate")
	if reply.Text != "" || reply.IsMedia() {
		t.Fatalf("reply = %+v, want no-op", reply)
	}
	if env.externalCalls() != 0 {
		t.Fatalf("comando sconosciuto non deve fare chiamate")
	}
}

func TestCommandWithBotMention(t *testing.T) {
	env := newTestEnv(t)

	reply := env.handleText("/joke@mio_bot")
	if reply.Text == "" {
		t.Fatalf("il comando con @mention deve essere riconosciuto")
	}
}

func TestJokeNeedsNoArgument(t *testing.T) {
	env := newTestEnv(t)

	reply := env.handleText("/joke")
	found := false
	for _, joke := range jokes {
		if reply.Text == joke {
			found = true
		}
	}
	if !found {
		t.Fatalf("reply = %q, want one of the canned jokes", reply.Text)
	}
}

func TestStartGreeting(t *testing.T) {
	env := newTestEnv(t)

	reply := env.handleText("/start")
	if !strings.Contains(reply.Text, "Hello") {
		t.Fatalf("reply = %q", reply.Text)
	}
	if env.externalCalls() != 0 {
		t.Fatalf("/start non deve fare chiamate esterne")
	}
}

func TestEmptyTextReply(t *testing.T) {
	env := newTestEnv(t)

	reply := env.handleText("   ")
	if reply.Text != "Send some text." {
		t.Fatalf("reply = %q", reply.Text)
	}
}

func TestAICommandUsesArgument(t *testing.T) {
	env := newTestEnv(t)
	env.ai.reply = "42"

	reply := env.handleText("/ai meaning of life")
	if reply.Text != "42" {
		t.Fatalf("reply = %q", reply.Text)
	}
	if env.ai.lastPrompt != "meaning of life" {
		t.Fatalf("prompt = %q", env.ai.lastPrompt)
	}
}

func TestEveryMenuCommandIsRouted(t *testing.T) {
	env := newTestEnv(t)
	for _, cmd := range Commands {
		reply := env.handleText(fmt.Sprintf("/%s", cmd.Command))
		if reply.Text == "" {
			t.Fatalf("/%s: nessuna risposta", cmd.Command)
		}
	}
}
