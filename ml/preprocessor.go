package ml

import (
	"math"
	"net/url"
	"strconv"
	"strings"
)

// maxIntInput caps integer fields so the float to int conversion stays in
// range on every platform.
const maxIntInput = math.MaxInt32

// ParsePatientForm coerces submitted form values the way the input widgets
// do: missing or unparsable fields keep their default, negatives clamp to
// zero, integer fields drop the fraction and saturate at maxIntInput.
// Unknown selector options fall back to the first option.
func ParsePatientForm(values url.Values) PatientForm {
	form := DefaultPatientForm()

	ints := map[string]*int{
		"age":  &form.Age,
		"bp":   &form.BP,
		"al":   &form.Al,
		"su":   &form.Su,
		"bgr":  &form.BGR,
		"bu":   &form.BU,
		"pcv":  &form.PCV,
		"wbcc": &form.WBCC,
	}
	for name, dst := range ints {
		if v, ok := parseNonNegative(values.Get(name)); ok {
			*dst = int(math.Trunc(math.Min(v, maxIntInput)))
		}
	}

	floats := map[string]*float64{
		"sg":   &form.SG,
		"sc":   &form.SC,
		"sod":  &form.Sod,
		"pot":  &form.Pot,
		"hemo": &form.Hemo,
		"rbcc": &form.RBCC,
	}
	for name, dst := range floats {
		if v, ok := parseNonNegative(values.Get(name)); ok {
			*dst = v
		}
	}

	for name, dst := range form.selectors() {
		raw := strings.TrimSpace(values.Get(name))
		if raw == "" {
			continue
		}
		if _, err := EncodeCategorical(name, raw); err == nil {
			*dst = raw
		}
	}
	return form
}

// Coerce clamps negative numeric fields to zero, as the form minimums do.
func (f PatientForm) Coerce() PatientForm {
	for _, v := range []*int{&f.Age, &f.BP, &f.Al, &f.Su, &f.BGR, &f.BU, &f.PCV, &f.WBCC} {
		if *v < 0 {
			*v = 0
		}
	}
	for _, v := range []*float64{&f.SG, &f.SC, &f.Sod, &f.Pot, &f.Hemo, &f.RBCC} {
		if *v < 0 || math.IsNaN(*v) {
			*v = 0
		}
	}
	return f
}

// Values is the inverse of ParsePatientForm, used to refill the form.
func (f PatientForm) Values() url.Values {
	values := url.Values{}
	values.Set("age", strconv.Itoa(f.Age))
	values.Set("bp", strconv.Itoa(f.BP))
	values.Set("sg", strconv.FormatFloat(f.SG, 'f', -1, 64))
	values.Set("al", strconv.Itoa(f.Al))
	values.Set("su", strconv.Itoa(f.Su))
	values.Set("bgr", strconv.Itoa(f.BGR))
	values.Set("bu", strconv.Itoa(f.BU))
	values.Set("sc", strconv.FormatFloat(f.SC, 'f', -1, 64))
	values.Set("sod", strconv.FormatFloat(f.Sod, 'f', -1, 64))
	values.Set("pot", strconv.FormatFloat(f.Pot, 'f', -1, 64))
	values.Set("hemo", strconv.FormatFloat(f.Hemo, 'f', -1, 64))
	values.Set("pcv", strconv.Itoa(f.PCV))
	values.Set("wbcc", strconv.Itoa(f.WBCC))
	values.Set("rbcc", strconv.FormatFloat(f.RBCC, 'f', -1, 64))
	for name, option := range f.categorical() {
		values.Set(name, option)
	}
	return values
}

func (f *PatientForm) selectors() map[string]*string {
	return map[string]*string{
		"rbc":   &f.RBC,
		"pc":    &f.PC,
		"pcc":   &f.PCC,
		"ba":    &f.BA,
		"htn":   &f.HTN,
		"dm":    &f.DM,
		"cad":   &f.CAD,
		"appet": &f.Appet,
		"pe":    &f.PE,
		"ane":   &f.ANE,
	}
}

func parseNonNegative(raw string) (float64, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	if v < 0 {
		v = 0
	}
	return v, true
}
