package ai

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pharmtrack/pharmtrack-backend/pkg/errors"
	"github.com/pharmtrack/pharmtrack-backend/pkg/logger"
)

type fakeCompleter struct {
	persona string
	prompt  string
	reply   string
	err     error
}

func (f *fakeCompleter) Complete(_ context.Context, persona, prompt string) (string, error) {
	f.persona = persona
	f.prompt = prompt
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

func newTestInsights(reply string, err error) (*InsightService, *fakeCompleter) {
	fake := &fakeCompleter{reply: reply, err: err}
	return NewInsightService(fake, logger.New("ai-test", "development")), fake
}

func TestMedicineInfo(t *testing.T) {
	svc, fake := newTestInsights("Paracetamol is an analgesic.", nil)

	out, err := svc.MedicineInfo(context.Background(), "Paracetamol")
	require.NoError(t, err)
	assert.Equal(t, "Paracetamol is an analgesic.", out)
	assert.Contains(t, fake.prompt, "'Paracetamol'")
	assert.Contains(t, fake.persona, "pharmaceutical expert")
}

func TestMedicineInfo_CompleterError(t *testing.T) {
	svc, _ := newTestInsights("", fmt.Errorf("rate limited"))

	_, err := svc.MedicineInfo(context.Background(), "Paracetamol")
	assert.ErrorIs(t, err, errors.ErrExternalService)
}

func TestDrugInteractions_JoinsMedications(t *testing.T) {
	svc, fake := newTestInsights("No significant interactions found.", nil)

	_, err := svc.DrugInteractions(context.Background(), []string{"Warfarin", "Aspirin"})
	require.NoError(t, err)
	assert.Contains(t, fake.prompt, "Warfarin, Aspirin")
}

func TestInventoryRecommendations_TruncatesToTwenty(t *testing.T) {
	svc, fake := newTestInsights("Reduce overstock.", nil)

	items := make([]InventoryItem, 25)
	for i := range items {
		items[i] = InventoryItem{Name: fmt.Sprintf("Medicine %02d", i)}
	}

	_, err := svc.InventoryRecommendations(context.Background(), items)
	require.NoError(t, err)
	assert.Contains(t, fake.prompt, "Medicine 19")
	assert.NotContains(t, fake.prompt, "Medicine 20", "only the first 20 items are sent")
}

func TestMedicineAlternatives_DefaultReason(t *testing.T) {
	svc, fake := newTestInsights("Consider ibuprofen.", nil)

	_, err := svc.MedicineAlternatives(context.Background(), "Paracetamol", "")
	require.NoError(t, err)
	assert.Contains(t, fake.prompt, "due to shortage")
}
