package ml

import "ckdcart/i18n"

const (
	LabelCKD    = "ckd"
	LabelNotCKD = "notckd"
)

// Diagnosis is the display form of one prediction.
type Diagnosis struct {
	Label string `json:"label"`
	Text  string `json:"text"`
	Color string `json:"color"`
}

// Positive reports whether the model flagged chronic kidney disease.
func (d Diagnosis) Positive() bool {
	return d.Label == LabelCKD
}

// Diagnose runs the classifier on v. Only "ckd" is a warning, every other
// label the artifact may produce is shown as the negative result.
func Diagnose(model Classifier, v FeatureVector) (Diagnosis, error) {
	label, err := model.Predict(v.Slice())
	if err != nil {
		return Diagnosis{}, err
	}
	return DiagnosisFor(label), nil
}

// DiagnosisFor returns the Indonesian diagnosis for label.
func DiagnosisFor(label string) Diagnosis {
	return DiagnosisIn(label, "id")
}

// DiagnosisIn returns the diagnosis for label with its text in lang.
func DiagnosisIn(label, lang string) Diagnosis {
	p := i18n.Printer(lang)
	if label == LabelCKD {
		return Diagnosis{Label: label, Text: p.Sprintf("result.ckd"), Color: "red"}
	}
	return Diagnosis{Label: label, Text: p.Sprintf("result.notckd"), Color: "green"}
}
