package services

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/finedmentor/fined_mentor/ai"
)

// financeKeywords is the fast-path allow list for topic validation,
// covering English, French and German finance/investment/real-estate terms.
var financeKeywords = []string{
	// English
	"finance", "investment", "stock", "bond", "portfolio", "trading", "dividend",
	"interest", "loan", "mortgage", "credit", "debt", "budget", "savings", "retirement",
	"401k", "ira", "roth", "pension", "etf", "mutual fund", "asset", "liability",
	"equity", "capital", "revenue", "profit", "loss", "tax", "banking", "insurance",
	"real estate", "property", "reit", "cryptocurrency", "forex", "commodity",
	// French
	"investissement", "actions", "obligations", "portefeuille", "épargne", "retraite",
	"crédit", "prêt", "hypothèque", "intérêt", "impôt", "banque", "assurance",
	"immobilier", "propriété", "bourse",
	// German
	"investition", "aktien", "anleihen", "sparplan", "rente", "kredit", "darlehen",
	"hypothek", "zinsen", "steuer", "versicherung", "immobilien", "eigentum", "börse",
}

type TopicValidatorService struct {
	ai ai.Client
}

func NewTopicValidatorService(aiClient ai.Client) *TopicValidatorService {
	return &TopicValidatorService{ai: aiClient}
}

// IsValidTopic reports whether a topic belongs to the finance, investment or
// real-estate domain. Keyword hits short-circuit without a model call; an LLM
// classification failure counts as invalid rather than propagating.
func (s *TopicValidatorService) IsValidTopic(ctx context.Context, topic string) bool {
	if strings.TrimSpace(topic) == "" {
		return false
	}

	normalized := strings.ToLower(strings.TrimSpace(topic))
	for _, kw := range financeKeywords {
		if strings.Contains(normalized, kw) {
			return true
		}
	}

	return s.validateWithAI(ctx, topic)
}

func (s *TopicValidatorService) validateWithAI(ctx context.Context, topic string) bool {
	prompt := fmt.Sprintf(`You are a topic classifier. Determine if the following topic is related to:
- Finance (personal finance, corporate finance, financial planning, banking)
- Investment (stocks, bonds, ETFs, mutual funds, portfolio management, trading)
- Real Estate (property investment, real estate markets, rental properties, mortgages)
- Immobilien (German real estate, property management)

Topic: "%s"

Respond with ONLY "YES" if the topic is related to any of the above domains.
Respond with ONLY "NO" if the topic is NOT related to any of the above domains.

Do not provide any explanation, just YES or NO.`, topic)

	response, err := s.ai.Complete(ctx, "", []ai.Message{{Role: ai.RoleUser, Content: prompt}})
	if err != nil {
		// Reject on failure rather than letting a bad topic through.
		log.Printf("Error validating topic with AI: %q: %v", topic, err)
		return false
	}

	return strings.Contains(strings.ToUpper(strings.TrimSpace(response)), "YES")
}

// InvalidTopicMessage localizes the rejection message by detecting French or
// German stopwords in the topic, defaulting to English.
func (s *TopicValidatorService) InvalidTopicMessage(topic string) string {
	lower := strings.ToLower(topic)

	if containsIndicator(lower, frenchIndicators) {
		return "Le sujet '" + topic + "' n'est pas lié à la finance, l'investissement ou l'immobilier. " +
			"Veuillez choisir un sujet dans ces domaines."
	}
	if containsIndicator(lower, germanIndicators) {
		return "Das Thema '" + topic + "' bezieht sich nicht auf Finanzen, Investitionen oder Immobilien. " +
			"Bitte wählen Sie ein Thema aus diesen Bereichen."
	}
	return "The topic '" + topic + "' is not related to finance, investment, or real estate. " +
		"Please choose a topic within these domains."
}

var (
	frenchIndicators = []string{"le", "la", "les", "un", "une", "des", "est", "sont", "dans", "sur", "avec"}
	germanIndicators = []string{"der", "die", "das", "ein", "eine", "ist", "sind", "und", "über", "für"}
)

func containsIndicator(text string, words []string) bool {
	for _, w := range words {
		if strings.Contains(text, w) {
			return true
		}
	}
	return false
}
