package http

import (
	"ckdcart/ml"
)

type pageData struct {
	Lang    string
	Active  Page
	Pages   []pageLink
	T       map[string]string
	Fields  [][]formField
	Result  *resultView
	HasTree bool
}

func (d *pageData) IsInput() bool {
	return d.Active == PageInput
}

type pageLink struct {
	Name   string
	Label  string
	Active bool
}

type resultView struct {
	Text  string
	Color string
}

type formField struct {
	Name    string
	Label   string
	Help    string
	Value   string
	Step    string
	Options []fieldOption
}

type fieldOption struct {
	Value    string
	Selected bool
}

// formLayout groups the inputs into the rows of the intake form.
var formLayout = [][]string{
	{"age", "bp", "sg", "al", "su", "rbc"},
	{"pc", "pcc", "ba", "bgr", "bu"},
	{"sc", "sod", "pot", "hemo", "pcv"},
	{"wbcc", "rbcc"},
	{"htn", "dm", "cad"},
	{"appet", "pe", "ane"},
}

var fieldSteps = map[string]string{
	"sg":   "0.001",
	"sc":   "0.1",
	"sod":  "0.1",
	"pot":  "0.1",
	"hemo": "0.1",
	"rbcc": "0.1",
}

func buildFields(form ml.PatientForm, t map[string]string) [][]formField {
	values := form.Values()
	groups := make([][]formField, 0, len(formLayout))
	for _, names := range formLayout {
		group := make([]formField, 0, len(names))
		for _, name := range names {
			field := formField{
				Name:  name,
				Label: t["field."+name],
				Help:  t["field."+name+".help"],
				Value: values.Get(name),
			}
			if options, ok := ml.CategoricalOptions(name); ok {
				for _, option := range options {
					field.Options = append(field.Options, fieldOption{
						Value:    option,
						Selected: option == field.Value,
					})
				}
			} else if step, ok := fieldSteps[name]; ok {
				field.Step = step
			} else {
				field.Step = "1"
			}
			group = append(group, field)
		}
		groups = append(groups, group)
	}
	return groups
}
