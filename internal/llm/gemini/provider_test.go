package gemini

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"github.com/mindflow/mindflow/internal/llm"
	"github.com/mindflow/mindflow/internal/usage"
)

type fakeModels struct {
	calls    int
	errs     []error
	reply    string
	lastCfg  *genai.GenerateContentConfig
	lastBody []*genai.Content
}

func (f *fakeModels) GenerateContent(_ context.Context, _ string, contents []*genai.Content, cfg *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.calls++
	f.lastCfg = cfg
	f.lastBody = contents
	if len(f.errs) > 0 {
		err := f.errs[0]
		f.errs = f.errs[1:]
		return nil, err
	}
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: genai.NewContentFromText(f.reply, genai.RoleModel),
		}},
		UsageMetadata: &genai.GenerateContentResponseUsageMetadata{
			PromptTokenCount:     7,
			CandidatesTokenCount: 3,
			TotalTokenCount:      10,
		},
	}, nil
}

func fastRetry() llm.RetryPolicy {
	return llm.RetryPolicy{MaxAttempts: 3, BaseDelay: time.Millisecond, MaxDelay: time.Millisecond}
}

func TestNewRequiresAPIKey(t *testing.T) {
	_, err := New(context.Background(), Config{}, nil, fastRetry(), zerolog.Nop())
	assert.True(t, errors.Is(err, llm.ErrNotConfigured))
}

func TestChatMapsRolesAndRecordsUsage(t *testing.T) {
	fm := &fakeModels{reply: `{"response":"hi","components":[]}`}
	tr := usage.NewTracker(5)
	p := newWithModels(fm, "", tr, fastRetry(), zerolog.Nop())

	out, err := p.Chat(context.Background(), []llm.Message{
		{Role: llm.RoleSystem, Content: "be kind"},
		{Role: llm.RoleUser, Content: "hello"},
		{Role: llm.RoleAssistant, Content: "hey"},
		{Role: llm.RoleUser, Content: "how are you"},
	}, llm.DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, `{"response":"hi","components":[]}`, out)

	require.NotNil(t, fm.lastCfg.SystemInstruction)
	assert.Equal(t, "be kind", fm.lastCfg.SystemInstruction.Parts[0].Text)
	require.Len(t, fm.lastBody, 3)
	assert.Equal(t, genai.RoleModel, fm.lastBody[1].Role)
	assert.Equal(t, int32(2000), fm.lastCfg.MaxOutputTokens)

	assert.Equal(t, 10, tr.Stats().TotalTokens)
}

func TestChatRetriesServerErrorsOnly(t *testing.T) {
	fm := &fakeModels{
		reply: "ok",
		errs:  []error{genai.APIError{Code: 503, Message: "unavailable"}},
	}
	p := newWithModels(fm, "m", nil, fastRetry(), zerolog.Nop())
	out, err := p.Chat(context.Background(), []llm.Message{{Role: llm.RoleUser, Content: "x"}}, llm.DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, "ok", out)
	assert.Equal(t, 2, fm.calls)

	fm = &fakeModels{errs: []error{genai.APIError{Code: 401, Message: "bad key"}}}
	p = newWithModels(fm, "m", nil, fastRetry(), zerolog.Nop())
	_, err = p.Chat(context.Background(), []llm.Message{{Role: llm.RoleUser, Content: "x"}}, llm.DefaultOptions())
	require.Error(t, err)
	assert.Equal(t, "Invalid API key. Please check your Gemini configuration.", err.Error())
	assert.Equal(t, 1, fm.calls)
}
