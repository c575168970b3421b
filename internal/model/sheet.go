package model

// SheetRecognition how well one worksheet header matches the expected fields
type SheetRecognition struct {
	SheetName     string   `json:"sheetName"`
	Score         float64  `json:"score"`
	Matched       int      `json:"matched"`
	MissingFields []string `json:"missingFields"`
}
