// Package i18n holds the UI strings of the intake form. Indonesian is the
// primary language, English the fallback for other Accept-Language values.
package i18n

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var supported = []language.Tag{language.Indonesian, language.English}

var matcher = language.NewMatcher(supported)

type entry struct {
	id string
	en string
}

// Values are format strings, so a literal percent sign is written %%.
var catalog = map[string]entry{
	"app.title":        {"Prediksi Gagal Ginjal Kronis", "Chronic Kidney Disease Prediction"},
	"app.heading":      {"🩺 Prediksi Gagal Ginjal Kronis Menggunakan Metode CART", "🩺 Chronic Kidney Disease Prediction Using CART"},
	"app.intro":        {"Aplikasi ini memprediksi kemungkinan gagal ginjal kronis berdasarkan data medis pasien.", "This application predicts the likelihood of chronic kidney disease from a patient's medical data."},
	"app.instructions": {"Silakan masukkan informasi pasien dengan benar dan klik tombol 'Prediksi' untuk melihat hasil.", "Enter the patient information and press 'Predict' to see the result."},
	"app.form":         {"📝 Masukkan Data Pasien", "📝 Patient Data"},
	"app.submit":       {"🔍 Prediksi", "🔍 Predict"},
	"app.footer":       {"© 2024 Aplikasi Prediksi Gagal Ginjal Kronis", "© 2024 Chronic Kidney Disease Prediction"},
	"app.tree":         {"Visualisasi Pohon Keputusan", "Decision Tree Visualisation"},

	"page.Input":       {"Input", "Input"},
	"page.Visualisasi": {"Visualisasi", "Visualisation"},

	"result.ckd":    {"⚠️ Terdiagnosis Gagal Ginjal Kronis", "⚠️ Diagnosed with Chronic Kidney Disease"},
	"result.notckd": {"✅ Tidak Terdiagnosis Gagal Ginjal Kronis", "✅ Not Diagnosed with Chronic Kidney Disease"},

	"field.age":       {"🗓️ Umur (Tahun)", "🗓️ Age (years)"},
	"field.age.help":  {"Masukkan umur pasien dalam tahun.", "Patient age in years."},
	"field.bp":        {"💓 Tekanan Darah (mmHg)", "💓 Blood Pressure (mmHg)"},
	"field.sg":        {"⚖️ Berat Jenis Urin", "⚖️ Urine Specific Gravity"},
	"field.al":        {"💧 Kandungan Albumin dalam Urin", "💧 Urine Albumin"},
	"field.su":        {"🍬 Kandungan Gula dalam Urin", "🍬 Urine Sugar"},
	"field.rbc":       {"🩸 Kondisi Sel Darah Merah", "🩸 Red Blood Cells"},
	"field.pc":        {"🧫 Kondisi Sel Nanah", "🧫 Pus Cells"},
	"field.pcc":       {"🔬 Gumpalan Sel Nanah", "🔬 Pus Cell Clumps"},
	"field.ba":        {"🦠 Bakteri dalam Urin", "🦠 Bacteria"},
	"field.bgr":       {"🩸 Kadar Gula Darah Acak (mg/dL)", "🩸 Blood Glucose Random (mg/dL)"},
	"field.bu":        {"🧪 Kadar Urea (mg/dL)", "🧪 Blood Urea (mg/dL)"},
	"field.sc":        {"🩸 Kadar Kreatinin (mg/dL)", "🩸 Serum Creatinine (mg/dL)"},
	"field.sod":       {"🧂 Kadar Natrium (mEq/L)", "🧂 Sodium (mEq/L)"},
	"field.pot":       {"🧂 Kadar Kalium (mEq/L)", "🧂 Potassium (mEq/L)"},
	"field.hemo":      {"🩸 Kadar Hemoglobin (g/dL)", "🩸 Hemoglobin (g/dL)"},
	"field.pcv":       {"📊 Persentase Sel Darah Merah (%%)", "📊 Packed Cell Volume (%%)"},
	"field.wbcc":      {"🦠 Jumlah Sel Darah Putih (sel/mm³)", "🦠 White Blood Cell Count (cells/mm³)"},
	"field.rbcc":      {"🩸 Jumlah Sel Darah Merah (juta sel/mm³)", "🩸 Red Blood Cell Count (millions/mm³)"},
	"field.htn":       {"💓 Hipertensi", "💓 Hypertension"},
	"field.dm":        {"🍬 Diabetes", "🍬 Diabetes Mellitus"},
	"field.cad":       {"❤️ Penyakit Jantung Koroner", "❤️ Coronary Artery Disease"},
	"field.appet":     {"🍽️ Nafsu Makan", "🍽️ Appetite"},
	"field.pe":        {"🦵 Pembengkakan pada Kaki", "🦵 Pedal Edema"},
	"field.ane":       {"🩸 Anemia", "🩸 Anemia"},
}

func init() {
	for key, e := range catalog {
		if err := message.SetString(language.Indonesian, key, e.id); err != nil {
			panic(err)
		}
		if err := message.SetString(language.English, key, e.en); err != nil {
			panic(err)
		}
	}
}

// Match picks the supported language for an Accept-Language header or a
// plain tag such as "en". An empty value selects Indonesian.
func Match(lang string) language.Tag {
	_, idx := language.MatchStrings(matcher, lang)
	return supported[idx]
}

// Printer returns a printer for the language matched from lang.
func Printer(lang string) *message.Printer {
	return message.NewPrinter(Match(lang))
}

// Keys lists every message key, mostly for tests.
func Keys() []string {
	keys := make([]string, 0, len(catalog))
	for k := range catalog {
		keys = append(keys, k)
	}
	return keys
}
