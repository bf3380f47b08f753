package sensor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify_ExtremeBradycardiaIsEmergency(t *testing.T) {
	assessment := Classify(39, 95)

	assert.Contains(t, assessment.Labels, LabelExtremeBradycardia)
	assert.True(t, assessment.Emergency)
}

func TestClassify_CriticalDesaturationIsEmergency(t *testing.T) {
	assessment := Classify(70, 84)

	assert.Contains(t, assessment.Labels, LabelCriticalDanger)
	assert.Contains(t, assessment.Labels, LabelHypoxemia)
	assert.True(t, assessment.Emergency)
}

func TestClassify_NormalVitals(t *testing.T) {
	assessment := Classify(70, 97)

	assert.Empty(t, assessment.Labels)
	assert.False(t, assessment.Emergency)
}

func TestClassify_ImplausibleHeartRateDiscarded(t *testing.T) {
	assessment := Classify(205, 95)

	assert.Empty(t, assessment.Labels)
	assert.False(t, assessment.Emergency)
}

func TestClassify_NonPositiveHeartRateDiscarded(t *testing.T) {
	assert.Empty(t, Classify(0, 95).Labels)
	assert.Empty(t, Classify(-10, 95).Labels)
}

func TestClassify_ImplausibleSaturationDiscarded(t *testing.T) {
	assert.Empty(t, Classify(70, 101).Labels)
	assert.Empty(t, Classify(70, -1).Labels)
}

func TestClassify_Bradycardia(t *testing.T) {
	assessment := Classify(45, 97)

	assert.Equal(t, []string{LabelBradycardia}, assessment.Labels)
	assert.False(t, assessment.Emergency)
}

func TestClassify_BradycardiaBoundaries(t *testing.T) {
	// 40 is bradycardia, 50 is normal
	assert.Contains(t, Classify(40, 97).Labels, LabelBradycardia)
	assert.Empty(t, Classify(50, 97).Labels)
}

func TestClassify_Tachycardia(t *testing.T) {
	assessment := Classify(120, 97)

	assert.Equal(t, []string{LabelTachycardia}, assessment.Labels)
	assert.False(t, assessment.Emergency)

	// 100 is still normal, 200 is the upper plausibility bound
	assert.Empty(t, Classify(100, 97).Labels)
	assert.Contains(t, Classify(200, 97).Labels, LabelTachycardia)
}

func TestClassify_HypoxemiaWithoutEmergency(t *testing.T) {
	assessment := Classify(70, 88)

	assert.Equal(t, []string{LabelHypoxemia}, assessment.Labels)
	assert.False(t, assessment.Emergency)
}

func TestClassify_LabelsAreCumulative(t *testing.T) {
	// Tachycardia and critical desaturation together
	assessment := Classify(130, 80)

	assert.ElementsMatch(t, []string{LabelTachycardia, LabelHypoxemia, LabelCriticalDanger}, assessment.Labels)
	assert.True(t, assessment.Emergency)
}
