package ml

import (
	"errors"
	"fmt"
)

// NumFeatures is the width of the vector the classifier was trained on.
const NumFeatures = 24

// FeatureVector is ordered exactly like FeatureNames.
type FeatureVector [NumFeatures]float64

// Slice returns the vector as a slice for Classifier.Predict.
func (v FeatureVector) Slice() []float64 {
	out := make([]float64, NumFeatures)
	copy(out, v[:])
	return out
}

var FeatureNames = []string{
	"age", "bp", "sg", "al", "su", "rbc", "pc", "pcc", "ba", "bgr",
	"bu", "sc", "sod", "pot", "hemo", "pcv", "wbcc", "rbcc", "htn", "dm",
	"cad", "appet", "pe", "ane",
}

var ClassNames = []string{"ckd", "notckd"}

var ErrUnknownCategory = errors.New("unknown categorical option")

// categoricalField describes a two-option selector. Options keeps the order
// shown in the form, the first one being the default.
type categoricalField struct {
	Options [2]string
	One     string
}

func (f categoricalField) encode(option string) (float64, bool) {
	switch option {
	case f.One:
		return 1, true
	case f.Options[0], f.Options[1]:
		return 0, true
	}
	return 0, false
}

func (f categoricalField) decode(value float64) string {
	if value == 1 {
		return f.One
	}
	if f.Options[0] == f.One {
		return f.Options[1]
	}
	return f.Options[0]
}

var (
	cellCondition = categoricalField{Options: [2]string{"Normal", "Abnormal"}, One: "Normal"}
	presence      = categoricalField{Options: [2]string{"Present", "Notpresent"}, One: "Present"}
	yesNo         = categoricalField{Options: [2]string{"No", "Yes"}, One: "Yes"}
	appetite      = categoricalField{Options: [2]string{"Poor", "Good"}, One: "Good"}
)

// This table must match the encoding used when the artifact was trained.
var categoricalFields = map[string]categoricalField{
	"rbc":   cellCondition,
	"pc":    cellCondition,
	"pcc":   presence,
	"ba":    presence,
	"htn":   yesNo,
	"dm":    yesNo,
	"cad":   yesNo,
	"appet": appetite,
	"pe":    yesNo,
	"ane":   yesNo,
}

// IsCategorical reports whether the named feature comes from a selector.
func IsCategorical(field string) bool {
	_, ok := categoricalFields[field]
	return ok
}

// CategoricalOptions returns the selector options for field in display order.
func CategoricalOptions(field string) ([]string, bool) {
	f, ok := categoricalFields[field]
	if !ok {
		return nil, false
	}
	return []string{f.Options[0], f.Options[1]}, true
}

// EncodeCategorical maps a selector option to 0 or 1.
func EncodeCategorical(field, option string) (float64, error) {
	f, ok := categoricalFields[field]
	if !ok {
		return 0, fmt.Errorf("%s is not a categorical field", field)
	}
	v, ok := f.encode(option)
	if !ok {
		return 0, fmt.Errorf("%w: %s=%q", ErrUnknownCategory, field, option)
	}
	return v, nil
}

// DecodeCategorical maps an encoded 0/1 back to the selector option.
func DecodeCategorical(field string, value float64) (string, error) {
	f, ok := categoricalFields[field]
	if !ok {
		return "", fmt.Errorf("%s is not a categorical field", field)
	}
	if value != 0 && value != 1 {
		return "", fmt.Errorf("%s: encoded value %v is not 0 or 1", field, value)
	}
	return f.decode(value), nil
}

// PatientForm holds the raw intake values as the form submits them.
type PatientForm struct {
	Age   int     `json:"age"`
	BP    int     `json:"bp"`
	SG    float64 `json:"sg"`
	Al    int     `json:"al"`
	Su    int     `json:"su"`
	RBC   string  `json:"rbc"`
	PC    string  `json:"pc"`
	PCC   string  `json:"pcc"`
	BA    string  `json:"ba"`
	BGR   int     `json:"bgr"`
	BU    int     `json:"bu"`
	SC    float64 `json:"sc"`
	Sod   float64 `json:"sod"`
	Pot   float64 `json:"pot"`
	Hemo  float64 `json:"hemo"`
	PCV   int     `json:"pcv"`
	WBCC  int     `json:"wbcc"`
	RBCC  float64 `json:"rbcc"`
	HTN   string  `json:"htn"`
	DM    string  `json:"dm"`
	CAD   string  `json:"cad"`
	Appet string  `json:"appet"`
	PE    string  `json:"pe"`
	ANE   string  `json:"ane"`
}

// DefaultPatientForm returns the values the intake form starts with.
func DefaultPatientForm() PatientForm {
	return PatientForm{
		Age:   50,
		BP:    80,
		SG:    1.015,
		RBC:   cellCondition.Options[0],
		PC:    cellCondition.Options[0],
		PCC:   presence.Options[0],
		BA:    presence.Options[0],
		BGR:   100,
		BU:    30,
		SC:    1.0,
		Sod:   135.0,
		Pot:   4.5,
		Hemo:  12.0,
		PCV:   40,
		WBCC:  8000,
		RBCC:  4.5,
		HTN:   yesNo.Options[0],
		DM:    yesNo.Options[0],
		CAD:   yesNo.Options[0],
		Appet: appetite.Options[0],
		PE:    yesNo.Options[0],
		ANE:   yesNo.Options[0],
	}
}

func (f PatientForm) categorical() map[string]string {
	return map[string]string{
		"rbc":   f.RBC,
		"pc":    f.PC,
		"pcc":   f.PCC,
		"ba":    f.BA,
		"htn":   f.HTN,
		"dm":    f.DM,
		"cad":   f.CAD,
		"appet": f.Appet,
		"pe":    f.PE,
		"ane":   f.ANE,
	}
}

// Encode builds the feature vector in training order.
func Encode(f PatientForm) (FeatureVector, error) {
	enc := make(map[string]float64, len(categoricalFields))
	for field, option := range f.categorical() {
		v, err := EncodeCategorical(field, option)
		if err != nil {
			return FeatureVector{}, err
		}
		enc[field] = v
	}

	return FeatureVector{
		float64(f.Age),
		float64(f.BP),
		f.SG,
		float64(f.Al),
		float64(f.Su),
		enc["rbc"],
		enc["pc"],
		enc["pcc"],
		enc["ba"],
		float64(f.BGR),
		float64(f.BU),
		f.SC,
		f.Sod,
		f.Pot,
		f.Hemo,
		float64(f.PCV),
		float64(f.WBCC),
		f.RBCC,
		enc["htn"],
		enc["dm"],
		enc["cad"],
		enc["appet"],
		enc["pe"],
		enc["ane"],
	}, nil
}

// FeatureIndex returns the position of name in the vector, or -1.
func FeatureIndex(name string) int {
	for i, n := range FeatureNames {
		if n == name {
			return i
		}
	}
	return -1
}
