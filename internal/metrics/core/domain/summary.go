package domain

type SectionCount struct {
	Section string `json:"section"`
	Count   int    `json:"count"`
}

type DeviceCount struct {
	Device string `json:"device"`
	Count  int    `json:"count"`
}

type HourBucket struct {
	Hour  int `json:"hour"`
	Count int `json:"count"`
}

type PerformanceMetrics struct {
	AvgLoadTime   float64 `json:"avgLoadTime"`
	AvgFirstPaint float64 `json:"avgFirstPaint"`
	ErrorRate     float64 `json:"errorRate"` // percent of all events
}

// Summary is the dashboard view of the local event log.
type Summary struct {
	TotalEvents        int                `json:"totalEvents"`
	UniqueUsers        int                `json:"uniqueUsers"`
	PageViews          int                `json:"pageViews"`
	AvgSessionDuration float64            `json:"avgSessionDuration"` // seconds
	TopSections        []SectionCount     `json:"topSections"`
	DeviceTypes        []DeviceCount      `json:"deviceTypes"`
	HourlyActivity     []HourBucket       `json:"hourlyActivity"` // always 24 buckets
	PerformanceMetrics PerformanceMetrics `json:"performanceMetrics"`
}

// Export is a downloadable snapshot of the event log.
type Export struct {
	Filename string
	Content  []byte
	Events   int
}
