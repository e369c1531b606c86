package dto

// RecommendationResponse - amount и deadline строками; при холодном старте
// незаданные значения приходят как "N/A"
type RecommendationResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Provider string `json:"provider"`
	Category string `json:"category"`
	Amount   string `json:"amount"`
	Deadline string `json:"deadline"`
	State    string `json:"state"`
	Match    int    `json:"match"`
	Reason   string `json:"reason"`
}
