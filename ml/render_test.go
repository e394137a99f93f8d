package ml

import (
	"bytes"
	"encoding/xml"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

func TestRenderTreeSVG(t *testing.T) {
	dt := loadTestTree(t)

	var buf bytes.Buffer
	require.NoError(t, RenderTree(&buf, dt, RenderOptions{Filled: true}))
	out := buf.String()

	assert.Contains(t, out, "<svg")
	assert.Contains(t, out, "sg &lt;= 1.017")
	assert.Contains(t, out, "hemo &lt;= 12.95")
	assert.Contains(t, out, "gini = 0.48")
	assert.Contains(t, out, "samples = 10")
	assert.Contains(t, out, "value = [6, 4]")
	assert.Contains(t, out, "class = notckd")
	assert.Contains(t, out, "#e58139")
	assert.Equal(t, 5, strings.Count(out, "<rect")-1, "one box per node plus the background")

	dec := xml.NewDecoder(strings.NewReader(out))
	for {
		_, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		require.NoError(t, err, "rendered SVG must be well-formed XML")
	}
}

func TestRenderTreeUnfilled(t *testing.T) {
	dt := loadTestTree(t)

	var buf bytes.Buffer
	require.NoError(t, RenderTree(&buf, dt, RenderOptions{}))
	assert.NotContains(t, buf.String(), "#e58139")
	assert.NotEqual(t, RenderOptions{}.CacheKey(), RenderOptions{Filled: true}.CacheKey())
}

func TestRenderTreeCategoricalSplit(t *testing.T) {
	dt := &DecisionTree{}
	require.NoError(t, dt.Decode(strings.NewReader(`[
		{"feature_idx": 18, "threshold": 0.5, "left_child": 1, "right_child": 2, "value": [3, 5]},
		{"is_leaf": true, "value": [0, 5]},
		{"is_leaf": true, "value": [3, 0]}
	]`)))

	var buf bytes.Buffer
	require.NoError(t, RenderTree(&buf, dt, RenderOptions{Filled: true}))
	assert.Contains(t, buf.String(), "htn &lt;= 0.5 (No)")
	assert.Contains(t, buf.String(), "samples = 8")
}

func TestRenderTreeEmpty(t *testing.T) {
	err := RenderTree(io.Discard, &DecisionTree{}, RenderOptions{})
	assert.ErrorIs(t, err, ErrModelNotLoaded)
}

func TestExportText(t *testing.T) {
	dt := loadTestTree(t)

	var buf bytes.Buffer
	require.NoError(t, ExportText(&buf, dt, message.NewPrinter(language.English)))
	want := strings.Join([]string{
		"|--- sg <= 1.017",
		"|   |--- class: ckd",
		"|--- sg >  1.017",
		"|   |--- hemo <= 12.95",
		"|   |   |--- class: ckd",
		"|   |--- hemo >  12.95",
		"|   |   |--- class: notckd",
		"",
	}, "\n")
	assert.Equal(t, want, buf.String())
}

func TestExportTextLocale(t *testing.T) {
	dt := loadTestTree(t)

	var buf bytes.Buffer
	require.NoError(t, ExportText(&buf, dt, message.NewPrinter(language.Indonesian)))
	assert.Contains(t, buf.String(), "hemo <= 12,95")
}

func TestDiagnosisFor(t *testing.T) {
	ckd := DiagnosisFor("ckd")
	assert.True(t, ckd.Positive())
	assert.Equal(t, "red", ckd.Color)
	assert.Equal(t, "⚠️ Terdiagnosis Gagal Ginjal Kronis", ckd.Text)

	for _, label := range []string{"notckd", "other"} {
		d := DiagnosisFor(label)
		assert.False(t, d.Positive())
		assert.Equal(t, "green", d.Color)
		assert.Equal(t, "✅ Tidak Terdiagnosis Gagal Ginjal Kronis", d.Text)
	}
}

func TestDiagnosisInEnglish(t *testing.T) {
	assert.Equal(t, "⚠️ Diagnosed with Chronic Kidney Disease", DiagnosisIn("ckd", "en").Text)
	assert.Equal(t, "✅ Not Diagnosed with Chronic Kidney Disease", DiagnosisIn("notckd", "en").Text)
	assert.Equal(t, "red", DiagnosisIn("ckd", "en").Color)
}

type constantModel string

func (m constantModel) Predict(features []float64) (string, error) {
	if len(features) != NumFeatures {
		return "", ErrShapeMismatch
	}
	return string(m), nil
}

func TestDiagnoseWithConstantModels(t *testing.T) {
	v, err := Encode(DefaultPatientForm())
	require.NoError(t, err)

	d, err := Diagnose(constantModel("ckd"), v)
	require.NoError(t, err)
	assert.Equal(t, "red", d.Color)

	d, err = Diagnose(constantModel("notckd"), v)
	require.NoError(t, err)
	assert.Equal(t, "green", d.Color)
}
