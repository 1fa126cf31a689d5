package textgen

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"

	"poster-server/internal/domain"
	"poster-server/internal/providers/genai"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

type stubGemini struct {
	calls int
	last  genai.Request
	resp  *genai.Response
	err   error
}

func (s *stubGemini) GenerateText(ctx context.Context, req genai.Request) (*genai.Response, error) {
	s.calls++
	s.last = req
	return s.resp, s.err
}

func (s *stubGemini) TextModel() string { return "gemini-text" }

func TestParseJSONToleratesFences(t *testing.T) {
	type payload struct {
		Price string `json:"price"`
	}
	cases := []string{
		`{"price":"20 dollars"}`,
		"```json\n{\"price\":\"20 dollars\"}\n```",
		"Sure! Here it is: {\"price\":\"20 dollars\"} hope it helps",
	}
	for _, raw := range cases {
		got, err := ParseJSON[payload](raw)
		if err != nil {
			t.Fatalf("ParseJSON(%q) error: %v", raw, err)
		}
		if got.Price != "20 dollars" {
			t.Fatalf("ParseJSON(%q).Price = %q", raw, got.Price)
		}
	}
	if _, err := ParseJSON[payload]("no json here"); err == nil {
		t.Fatal("ParseJSON without json expected error")
	}
}

func TestGeminiGenerateAttachesImages(t *testing.T) {
	stub := &stubGemini{resp: &genai.Response{Text: "brief", Usage: domain.TokenUsage{InputTokens: 9, OutputTokens: 4}}}
	g := NewGemini(stub)
	res, err := g.Generate(context.Background(), Request{
		System: "sys",
		Prompt: "describe",
		Images: []domain.ImagePart{{Role: domain.ImageRoleLogo, MimeType: "image/png", Data: []byte("png")}},
	})
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if res.Text != "brief" || res.Model != "gemini-text" || res.Usage.InputTokens != 9 {
		t.Fatalf("Result = %+v", res)
	}
	if len(stub.last.Parts) != 2 || stub.last.Parts[1].MimeType != "image/png" {
		t.Fatalf("parts = %+v", stub.last.Parts)
	}
}

func TestGeminiGenerateEmptyTextIsError(t *testing.T) {
	stub := &stubGemini{resp: &genai.Response{Usage: domain.TokenUsage{InputTokens: 3}}}
	res, err := NewGemini(stub).Generate(context.Background(), Request{Prompt: "x"})
	if err == nil {
		t.Fatal("expected error for empty text")
	}
	if res == nil || res.Usage.InputTokens != 3 {
		t.Fatalf("partial usage lost: %+v", res)
	}
}

func TestOpenAIGenerate(t *testing.T) {
	var body map[string]any
	client := &http.Client{Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			t.Errorf("path = %q", r.URL.Path)
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		resp := `{"id":"x","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":"{\"headline\":\"مرحبا\"}"},"finish_reason":"stop"}],"usage":{"prompt_tokens":11,"completion_tokens":7,"total_tokens":18}}`
		return &http.Response{
			StatusCode: http.StatusOK,
			Body:       io.NopCloser(strings.NewReader(resp)),
			Header:     http.Header{"Content-Type": []string{"application/json"}},
		}, nil
	})}
	o, err := NewOpenAI(OpenAIOptions{APIKey: "k", BaseURL: "https://openai.test/v1", HTTPClient: client})
	if err != nil {
		t.Fatalf("NewOpenAI returned error: %v", err)
	}
	res, err := o.Generate(context.Background(), Request{System: "translate", Prompt: "{}", JSON: true})
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if res.Usage.InputTokens != 11 || res.Usage.OutputTokens != 7 {
		t.Fatalf("Usage = %+v", res.Usage)
	}
	if res.Model != defaultOpenAIModel {
		t.Fatalf("Model = %q", res.Model)
	}
	format, _ := body["response_format"].(map[string]any)
	if format["type"] != "json_object" {
		t.Fatalf("response_format = %v", body["response_format"])
	}
}

func TestNewSelectsProvider(t *testing.T) {
	g, err := New(Config{Provider: "gemini", Gemini: &stubGemini{}})
	if err != nil {
		t.Fatalf("New(gemini) error: %v", err)
	}
	if _, ok := g.(*Gemini); !ok {
		t.Fatalf("New(gemini) = %T", g)
	}
	if _, err := New(Config{Provider: "openai"}); err == nil {
		t.Fatal("New(openai) without key expected error")
	}
}
