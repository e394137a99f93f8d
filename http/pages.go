package http

// Page is one of the two views picked from the sidebar.
type Page int

const (
	PageInput Page = iota
	PageVisualisasi
)

var Pages = []Page{PageInput, PageVisualisasi}

func (p Page) String() string {
	switch p {
	case PageVisualisasi:
		return "Visualisasi"
	default:
		return "Input"
	}
}

// ParsePage reads the sidebar selector. Anything unknown is the Input page.
func ParsePage(s string) Page {
	for _, p := range Pages {
		if p.String() == s {
			return p
		}
	}
	return PageInput
}
