package charts

// Figure is a declarative Plotly figure. The browser passes Data and Layout
// straight to Plotly.newPlot.
type Figure struct {
	Data   []Trace `json:"data"`
	Layout Layout  `json:"layout"`
}

// Trace is one Plotly trace. Cartesian traces use X and Y, pie traces use
// Labels and Values.
type Trace struct {
	Type        string        `json:"type"`
	Name        string        `json:"name,omitempty"`
	Mode        string        `json:"mode,omitempty"`
	Orientation string        `json:"orientation,omitempty"`
	X           []interface{} `json:"x,omitempty"`
	Y           []interface{} `json:"y,omitempty"`
	Labels      []string      `json:"labels,omitempty"`
	Values      []float64     `json:"values,omitempty"`
	TextInfo    string        `json:"textinfo,omitempty"`
}

// Layout is the subset of Plotly layout attributes the dashboard uses.
type Layout struct {
	Title  Text    `json:"title"`
	XAxis  *Axis   `json:"xaxis,omitempty"`
	YAxis  *Axis   `json:"yaxis,omitempty"`
	Height int     `json:"height,omitempty"`
	Width  int     `json:"width,omitempty"`
	Margin *Margin `json:"margin,omitempty"`
}

// Text is a Plotly title object.
type Text struct {
	Text string `json:"text"`
}

// Axis is a Plotly cartesian axis. Type "category" keeps bar keys in order.
type Axis struct {
	Title     *Text  `json:"title,omitempty"`
	Type      string `json:"type,omitempty"`
	TickAngle int    `json:"tickangle,omitempty"`
}

// Margin is in pixels. Zero sides are sent as zero.
type Margin struct {
	T int `json:"t"`
	B int `json:"b"`
	L int `json:"l"`
	R int `json:"r"`
}

func axis(title string) *Axis {
	return &Axis{Title: &Text{Text: title}}
}
