package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pharmtrack/pharmtrack-backend/pkg/errors"
	"github.com/pharmtrack/pharmtrack-backend/pkg/logger"
)

// maxRecommendationItems caps the inventory slice sent to the model.
// Anything beyond this adds tokens without improving the advice.
const maxRecommendationItems = 20

// InsightService produces pharmacist-facing text from the completion model
type InsightService struct {
	completer Completer
	logger    *logger.Logger
}

// NewInsightService creates the AI insight service
func NewInsightService(completer Completer, log *logger.Logger) *InsightService {
	return &InsightService{
		completer: completer,
		logger:    log.WithComponent("ai-insights"),
	}
}

// MedicineInfo returns reference information about a medicine by name
func (s *InsightService) MedicineInfo(ctx context.Context, medicineName string) (string, error) {
	persona := "You are a pharmaceutical expert providing accurate information to pharmacy professionals. " +
		"Always emphasize the importance of consulting official drug references and prescribing information."

	prompt := fmt.Sprintf(`Provide comprehensive information about the medicine '%s'.
Include the following details:

1. Generic and brand names
2. Primary uses and indications
3. Common dosage forms and strengths
4. Mechanism of action
5. Common side effects
6. Important contraindications
7. Storage requirements
8. Special handling considerations for pharmacy staff

Please provide accurate, up-to-date medical information suitable for pharmacy professionals.`, medicineName)

	return s.complete(ctx, "medicine info", persona, prompt)
}

// DrugInteractions analyzes a list of medications for interactions
func (s *InsightService) DrugInteractions(ctx context.Context, medications []string) (string, error) {
	persona := "You are a clinical pharmacist expert in drug interactions. Provide thorough analysis " +
		"while emphasizing the need to consult official databases and healthcare providers for clinical decisions."

	prompt := fmt.Sprintf(`Analyze the following medications for potential drug interactions:
%s

Please provide:
1. Major drug interactions (if any)
2. Moderate interactions to monitor
3. Minor interactions or considerations
4. Recommendations for pharmacy staff
5. Any special monitoring requirements

Format the response in a clear, structured manner suitable for pharmacy professionals.
If no significant interactions are found, clearly state this.
Always recommend consulting official drug interaction databases for complete information.`,
		strings.Join(medications, ", "))

	return s.complete(ctx, "drug interactions", persona, prompt)
}

// InventoryItem is the slim record shared with the model for recommendations
type InventoryItem struct {
	Name         string `json:"name"`
	CurrentStock int    `json:"current_stock"`
	ReorderPoint int    `json:"reorder_point"`
	Category     string `json:"category"`
	UnitPrice    string `json:"unit_price"`
	Supplier     string `json:"supplier"`
}

// InventoryRecommendations asks the model for stocking advice over the
// current inventory. Only the first 20 items are sent.
func (s *InsightService) InventoryRecommendations(ctx context.Context, items []InventoryItem) (string, error) {
	if len(items) > maxRecommendationItems {
		items = items[:maxRecommendationItems]
	}

	summary, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal inventory summary: %w", err)
	}

	persona := "You are an inventory management expert specializing in pharmacy operations. Provide " +
		"practical, data-driven recommendations that improve efficiency and patient care while managing costs."

	prompt := fmt.Sprintf(`Analyze the following pharmacy inventory data and provide optimization recommendations:

%s

Please provide recommendations in the following areas:
1. Stock level optimization (items that may be overstocked or understocked)
2. Reorder point adjustments based on current stock patterns
3. Cost optimization opportunities
4. Supplier diversification suggestions
5. Category-based inventory management insights
6. Risk mitigation strategies for critical medications

Provide specific, actionable recommendations that a pharmacy manager can implement.
Focus on improving efficiency, reducing costs, and ensuring medication availability.`, summary)

	return s.complete(ctx, "inventory recommendations", persona, prompt)
}

// TrendAnalysis analyzes historical stock changes and forecasts demand
func (s *InsightService) TrendAnalysis(ctx context.Context, historical interface{}) (string, error) {
	data, err := json.MarshalIndent(historical, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal historical data: %w", err)
	}

	persona := "You are a data analyst specializing in pharmaceutical inventory forecasting. " +
		"Provide analytical insights based on historical patterns."

	prompt := fmt.Sprintf(`Analyze the following historical inventory data and provide trend analysis:

%s

Please provide:
1. Usage trend analysis for key medications
2. Seasonal patterns (if any)
3. Demand forecasting for the next quarter
4. Recommendations for inventory planning
5. Risk assessment for stock-outs

Provide insights that help with strategic inventory planning.`, data)

	return s.complete(ctx, "trend analysis", persona, prompt)
}

// MedicineAlternatives suggests substitutes for a medicine. reason defaults
// to "shortage".
func (s *InsightService) MedicineAlternatives(ctx context.Context, medicineName, reason string) (string, error) {
	if reason == "" {
		reason = "shortage"
	}

	persona := "You are a clinical pharmacist providing alternative medication options. Always emphasize " +
		"the importance of prescriber consultation for any therapeutic substitutions."

	prompt := fmt.Sprintf(`Provide alternative medications for '%s' due to %s.

Please include:
1. Generic alternatives (if applicable)
2. Therapeutic alternatives with similar mechanisms
3. Considerations for substitution
4. Dosage conversion information (if different)
5. Important differences pharmacists should note

Focus on clinically appropriate alternatives that a pharmacist might recommend
in consultation with prescribers.`, medicineName, reason)

	return s.complete(ctx, "medicine alternatives", persona, prompt)
}

func (s *InsightService) complete(ctx context.Context, operation, persona, prompt string) (string, error) {
	out, err := s.completer.Complete(ctx, persona, prompt)
	if err != nil {
		s.logger.Error().Err(err).Str("operation", operation).Msg("completion failed")
		if errors.Is(err, errors.ErrExternalService) {
			return "", err
		}
		return "", errors.ExternalService("ai", err)
	}
	return out, nil
}
