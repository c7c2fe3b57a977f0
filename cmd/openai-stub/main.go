// Command openai-stub serves canned OpenAI-compatible chat answers shaped
// like chapter and methodology reviews, for offline runs of proposalcheck.
package main

import (
	"encoding/json"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type chatRequest struct {
	Model    string `json:"model"`
	Messages []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

const chapterAnswer = `{"comments":[` +
	`{"type":"praise","text":"הפרק כתוב בצורה ברורה ומסודרת."},` +
	`{"type":"criticism","text":"חסרה הפניה למקורות בחלק מהטענות."},` +
	`{"type":"suggestion","text":"מומלץ לחדד את שאלת המחקר בסוף הפרק."}],` +
	`"writingQuality":"good","academicLevel":"appropriate"}`

const methodologyAnswer = "```json\n" + `{"overallAssessment":"פרק השיטה מתאר את המחקר באופן סביר.",` +
	`"comments":[{"category":"אוכלוסיית מחקר","type":"criticism","text":"לא צוין גודל המדגם.","priority":"high"}],` +
	`"clarity":"mostly_clear","completeness":"needs_expansion",` +
	`"needsExpansion":["כלי המחקר"],"canBeRemoved":[]}` + "\n```"

func answerFor(prompt string) (string, bool) {
	switch {
	case strings.Contains(prompt, "overallAssessment"):
		return methodologyAnswer, true
	case strings.Contains(prompt, "writingQuality"):
		return chapterAnswer, true
	}
	return "", false
}

func newRouter(model string) http.Handler {
	r := chi.NewRouter()
	r.Get("/v1/models", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]any{{"id": model, "object": "model"}},
		})
	})
	r.Post("/v1/chat/completions", func(w http.ResponseWriter, r *http.Request) {
		defer r.Body.Close()
		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.Messages) == 0 {
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}
		content, ok := answerFor(req.Messages[len(req.Messages)-1].Content)
		if !ok {
			http.Error(w, "unexpected prompt", http.StatusBadRequest)
			return
		}
		log.Debug().Str("model", req.Model).Int("prompt_len", len(req.Messages[0].Content)).Msg("chat completion")
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":     "stub",
			"object": "chat.completion",
			"model":  model,
			"choices": []map[string]any{
				{"index": 0, "finish_reason": "stop", "message": map[string]string{"role": "assistant", "content": content}},
			},
		})
	})
	return r
}

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	model := os.Getenv("MODEL_ID")
	if strings.TrimSpace(model) == "" {
		model = "test-model"
	}
	addr := os.Getenv("ADDR")
	if strings.TrimSpace(addr) == "" {
		addr = ":8081"
	}
	log.Info().Str("addr", addr).Str("model", model).Msg("openai-stub listening")
	if err := http.ListenAndServe(addr, newRouter(model)); err != nil {
		log.Fatal().Err(err).Msg("listen")
	}
}
