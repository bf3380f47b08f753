package sensor

// Anomaly labels produced by the detector
const (
	LabelExtremeBradycardia = "extreme bradycardia"
	LabelBradycardia        = "bradycardia"
	LabelTachycardia        = "tachycardia"
	LabelHypoxemia          = "hypoxemia"
	LabelCriticalDanger     = "critical danger"
)

// VitalsAssessment is the outcome of classifying one reading
type VitalsAssessment struct {
	Labels    []string `json:"labels"`
	Emergency bool     `json:"emergency"`
}

// Classify maps a physiological reading to anomaly labels. Pure function,
// no I/O.
//
// Implausible values (heart rate above 200 or non-positive, saturation outside
// [0,100]) are transducer glitches, not anomalies, and yield an empty
// assessment so a single bad sample cannot raise an alert. A heart rate below
// 40 is still classified: it is clinically extreme but physiologically
// possible.
func Classify(heartRate, oxygenSaturation int) VitalsAssessment {
	if heartRate <= 0 || heartRate > 200 || oxygenSaturation < 0 || oxygenSaturation > 100 {
		return VitalsAssessment{}
	}

	var assessment VitalsAssessment

	switch {
	case heartRate < 40:
		assessment.Labels = append(assessment.Labels, LabelExtremeBradycardia)
		assessment.Emergency = true
	case heartRate < 50:
		assessment.Labels = append(assessment.Labels, LabelBradycardia)
	case heartRate > 100:
		assessment.Labels = append(assessment.Labels, LabelTachycardia)
	}

	if oxygenSaturation < 90 {
		assessment.Labels = append(assessment.Labels, LabelHypoxemia)
	}
	if oxygenSaturation < 85 {
		assessment.Labels = append(assessment.Labels, LabelCriticalDanger)
		assessment.Emergency = true
	}

	return assessment
}
