package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/celestia-oracle/celestia/internal/common"
	"github.com/celestia-oracle/celestia/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"
)

type fakeModel struct {
	gotMessages []llms.MessageContent
	reply       string
	err         error
}

func (f *fakeModel) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	f.gotMessages = messages
	if f.err != nil {
		return nil, f.err
	}
	return &llms.ContentResponse{
		Choices: []*llms.ContentChoice{{Content: f.reply}},
	}, nil
}

func (f *fakeModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return "", errors.New("not implemented")
}

func TestComplete_BuildsConversation(t *testing.T) {
	fake := &fakeModel{reply: "the stars say yes"}
	o := &OpenAIOracle{model: fake}

	history := []models.ChatMessage{
		{Role: models.RoleUser, Content: "hello"},
		{Role: models.RoleAssistant, Content: "greetings, seeker"},
	}
	reply, err := o.Complete(context.Background(), history, "what awaits me?")
	require.NoError(t, err)
	assert.Equal(t, "the stars say yes", reply)

	// system prompt, two history turns, new message
	require.Len(t, fake.gotMessages, 4)
	assert.Equal(t, llms.ChatMessageTypeSystem, fake.gotMessages[0].Role)
	assert.Equal(t, llms.ChatMessageTypeHuman, fake.gotMessages[1].Role)
	assert.Equal(t, llms.ChatMessageTypeAI, fake.gotMessages[2].Role)
	assert.Equal(t, llms.ChatMessageTypeHuman, fake.gotMessages[3].Role)
}

func TestComplete_EmptyChoices(t *testing.T) {
	o := &OpenAIOracle{model: &emptyModel{}}
	_, err := o.Complete(context.Background(), nil, "hi")
	assert.ErrorIs(t, err, common.ErrModelUnavailable)
}

type emptyModel struct{}

func (e *emptyModel) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	return &llms.ContentResponse{}, nil
}

func (e *emptyModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return "", errors.New("not implemented")
}

func TestClassifyErr(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"bad key", errors.New("API returned unexpected status code: 401 invalid_api_key"), common.ErrModelCredential},
		{"incorrect key", errors.New("Incorrect API key provided"), common.ErrModelCredential},
		{"rate limited", errors.New("429 too many requests"), common.ErrModelUnavailable},
		{"network", errors.New("dial tcp: connection refused"), common.ErrModelUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, classifyErr(tt.err), tt.want)
		})
	}
}

func TestNewOpenAIOracle_RequiresKey(t *testing.T) {
	_, err := NewOpenAIOracle("", "gpt-4o-mini")
	require.Error(t, err)
}
