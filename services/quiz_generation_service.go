package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/finedmentor/fined_mentor/ai"
	"github.com/finedmentor/fined_mentor/models"
	"gorm.io/datatypes"
)

const quizPromptTemplate = `IDENTITY: You are **Fined Mentor**, a specialized financial education assistant.

TOPIC VALIDATION (CRITICAL):
You ONLY generate quizzes for topics related to:
- Finance (personal finance, corporate finance, financial planning, banking)
- Investment (stocks, bonds, ETFs, mutual funds, portfolio management, trading)
- Real Estate (property investment, real estate markets, rental properties, mortgages)
- Immobilien (German real estate, property management, German market specifics)

LANGUAGE DETECTION (CRITICAL):
Detect the language of the topic "%[1]s" and generate the ENTIRE quiz in that language:
- If topic is in French, generate all questions, options, and explanations in French
- If topic is in English, generate all questions, options, and explanations in English
- If topic is in German, generate all questions, options, and explanations in German

TASK: Generate a 5-question beginner quiz on "%[1]s" (finance/real estate/investment domain).
You have access to a web search tool. Use it to find current information if the topic relates to recent events or trends.

CRITICAL OUTPUT FORMAT REQUIREMENTS:
- Respond with PURE JSON only, no markdown fences, matching this shape exactly:
  {"topic": "...", "questions": [{"question": "...", "type": "MULTIPLE_CHOICE" | "TRUE_FALSE", "options": ["..."], "correctAnswer": "...", "explanation": "..."}]}
- EVERY question MUST have ALL fields populated: question, type, options, correctAnswer, explanation
- The "options" field is MANDATORY for ALL question types; NEVER leave it empty or null
- For MULTIPLE_CHOICE: provide exactly 4 options as strings in an array
- For TRUE_FALSE: provide exactly 2 options in the detected language
  * English: ["True", "False"]
  * French: ["Vrai", "Faux"]
  * German: ["Wahr", "Falsch"]
- The "correctAnswer" MUST be one of the strings from the "options" array

REQUIREMENTS:
- Question mix: 3 MULTIPLE_CHOICE + 2 TRUE_FALSE
- Each explanation: 1-2 sentences maximum IN THE DETECTED LANGUAGE
- Vocabulary: 8th-grade reading level
- Balanced difficulty progression from easiest to moderate
- ALL content (questions, options, explanations) in the SAME language as the topic

AVOID:
- Generating quizzes for non-finance/investment/real estate topics
- Mixing languages within the quiz
- Complex calculations, jargon without definitions, trick questions
- Questions requiring current market data (unless using the search tool)`

// generatedQuiz is the strict JSON shape the model is instructed to emit.
type generatedQuiz struct {
	Topic     string                `json:"topic"`
	Questions []models.QuizQuestion `json:"questions"`
}

type QuizGenerationService struct {
	ai     ai.Client
	topics *TopicValidatorService
}

func NewQuizGenerationService(aiClient ai.Client, topics *TopicValidatorService) *QuizGenerationService {
	return &QuizGenerationService{ai: aiClient, topics: topics}
}

// GenerateQuiz validates the topic, drives the LLM with a strict output
// schema and parses the response. Parse or shape failures surface as a
// GenerationError, never as a silent empty quiz.
func (s *QuizGenerationService) GenerateQuiz(ctx context.Context, topic string) (*models.Quiz, error) {
	if !s.topics.IsValidTopic(ctx, topic) {
		log.Printf("Invalid topic rejected: %q", topic)
		return nil, NewValidationError(s.topics.InvalidTopicMessage(topic))
	}

	prompt := fmt.Sprintf(quizPromptTemplate, topic)
	content, err := s.ai.Complete(ctx, "", []ai.Message{{Role: ai.RoleUser, Content: prompt}})
	if err != nil {
		return nil, &GenerationError{Message: "Could not generate a valid quiz. Please try again.", Err: err}
	}

	generated, err := parseGeneratedQuiz(content)
	if err != nil {
		return nil, &GenerationError{Message: "Could not generate a valid quiz. Please try again.", Err: err}
	}
	if generated.Topic == "" {
		generated.Topic = topic
	}

	return &models.Quiz{
		Topic:     generated.Topic,
		Questions: datatypes.NewJSONType(generated.Questions),
	}, nil
}

func parseGeneratedQuiz(content string) (*generatedQuiz, error) {
	cleaned := stripJSONFences(content)

	var quiz generatedQuiz
	if err := json.Unmarshal([]byte(cleaned), &quiz); err != nil {
		return nil, fmt.Errorf("failed to parse generated quiz JSON: %w", err)
	}
	if len(quiz.Questions) == 0 {
		return nil, fmt.Errorf("generated quiz has no questions")
	}
	return &quiz, nil
}

// stripJSONFences tolerates models that wrap their JSON in markdown fences
// despite the pure-JSON instruction.
func stripJSONFences(content string) string {
	trimmed := strings.TrimSpace(content)
	if strings.HasPrefix(trimmed, "```") {
		trimmed = strings.TrimPrefix(trimmed, "```json")
		trimmed = strings.TrimPrefix(trimmed, "```")
		trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	}
	return strings.TrimSpace(trimmed)
}
