package services

import (
	"context"
	"errors"
	"testing"

	"github.com/finedmentor/fined_mentor/ai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAIClient struct {
	response string
	err      error
	calls    int
	lastMsgs []ai.Message
}

func (c *stubAIClient) Complete(ctx context.Context, system string, messages []ai.Message) (string, error) {
	c.calls++
	c.lastMsgs = messages
	if c.err != nil {
		return "", c.err
	}
	return c.response, nil
}

func TestIsValidTopicKeywordFastPath(t *testing.T) {
	client := &stubAIClient{response: "NO"}
	svc := NewTopicValidatorService(client)

	topics := []string{
		"What is a mortgage?",
		"Stock market basics",
		"Comment fonctionne l'épargne",
		"Immobilien in Deutschland",
		"ETF vs mutual fund",
	}
	for _, topic := range topics {
		assert.True(t, svc.IsValidTopic(context.Background(), topic), "topic %q", topic)
	}
	// Keyword hits never reach the model.
	assert.Zero(t, client.calls)
}

func TestIsValidTopicBlank(t *testing.T) {
	client := &stubAIClient{response: "YES"}
	svc := NewTopicValidatorService(client)

	assert.False(t, svc.IsValidTopic(context.Background(), ""))
	assert.False(t, svc.IsValidTopic(context.Background(), "   "))
	assert.Zero(t, client.calls)
}

func TestIsValidTopicFallsBackToClassifier(t *testing.T) {
	client := &stubAIClient{response: "YES"}
	svc := NewTopicValidatorService(client)

	assert.True(t, svc.IsValidTopic(context.Background(), "maximizing my nest egg"))
	require.Equal(t, 1, client.calls)
	require.Len(t, client.lastMsgs, 1)
	assert.Contains(t, client.lastMsgs[0].Content, "maximizing my nest egg")

	client.response = "NO"
	assert.False(t, svc.IsValidTopic(context.Background(), "best pizza toppings"))
}

func TestIsValidTopicClassifierFailureRejects(t *testing.T) {
	client := &stubAIClient{err: errors.New("upstream timeout")}
	svc := NewTopicValidatorService(client)

	assert.False(t, svc.IsValidTopic(context.Background(), "growing wealth slowly"))
	assert.Equal(t, 1, client.calls)
}

func TestInvalidTopicMessageLocalization(t *testing.T) {
	svc := NewTopicValidatorService(&stubAIClient{})

	assert.Contains(t, svc.InvalidTopicMessage("les meilleures recettes"), "n'est pas lié à la finance")
	assert.Contains(t, svc.InvalidTopicMessage("das Wetter heute"), "bezieht sich nicht auf Finanzen")
	assert.Contains(t, svc.InvalidTopicMessage("cooking pasta"), "is not related to finance")
}
