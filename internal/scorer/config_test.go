package scorer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sells-group/leadscore/internal/config"
)

func TestDefaultWeightsSumToOne(t *testing.T) {
	assert.InDelta(t, 1.0, WeightSum(DefaultWeights()), 0.0001)
	assert.NoError(t, ValidateWeights(DefaultWeights()))
}

func TestValidateWeights(t *testing.T) {
	t.Run("negative weight", func(t *testing.T) {
		c := DefaultWeights()
		c.BudgetWeight = -0.1
		assert.Error(t, ValidateWeights(c))
	})

	t.Run("sum off by too much", func(t *testing.T) {
		c := DefaultWeights()
		c.EngagementWeight = 0.5
		assert.Error(t, ValidateWeights(c))
	})

	t.Run("small float tolerance allowed", func(t *testing.T) {
		c := DefaultWeights()
		c.BudgetWeight += 0.005
		assert.NoError(t, ValidateWeights(c))
	})

	t.Run("all zero", func(t *testing.T) {
		assert.Error(t, ValidateWeights(config.ScorerConfig{}))
	})
}

func TestWeightFor(t *testing.T) {
	c := DefaultWeights()
	assert.Equal(t, c.BudgetWeight, weightFor(c, FactorBudget))
	assert.Equal(t, c.IndustryWeight, weightFor(c, FactorIndustry))
	assert.Equal(t, c.CompanySizeWeight, weightFor(c, FactorCompanySize))
	assert.Equal(t, c.EngagementWeight, weightFor(c, FactorEngagement))
	assert.Equal(t, c.StatusWeight, weightFor(c, FactorStatus))
	assert.Equal(t, c.DecisionMakerWeight, weightFor(c, FactorDecisionMaker))
	assert.Zero(t, weightFor(c, "unknown"))
}
