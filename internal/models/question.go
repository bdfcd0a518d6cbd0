package models

import "time"

type Question struct {
	ID        int       `json:"id" gorm:"primaryKey;autoIncrement:false"`
	Text      string    `json:"text" gorm:"not null;type:text"`
	Category  string    `json:"category" gorm:"size:50"`
	Negative  bool      `json:"negative" gorm:"default:false"`
	Hidden    bool      `json:"hidden" gorm:"default:false;index"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Question) TableName() string {
	return "questions"
}

// DefaultNegativeIDs are the burnout indicators (drained, worn out, pressure).
// A high answer on these is bad, so scoring inverts them.
var DefaultNegativeIDs = []int{1, 2, 3}

// DefaultQuestions returns the seed question bank.
func DefaultQuestions() []Question {
	return []Question{
		{ID: 1, Text: "How often do you feel emotionally drained from your work?", Category: "burnout", Negative: true},
		{ID: 2, Text: "Do you feel worn out at the end of the working day?", Category: "burnout", Negative: true},
		{ID: 3, Text: "How often do you feel under pressure to meet deadlines?", Category: "burnout", Negative: true},
		{ID: 4, Text: "I feel inspired to do my best work every day.", Category: "engagement"},
		{ID: 5, Text: "I am enthusiastic about my job.", Category: "engagement"},
		{ID: 6, Text: "Time flies when I'm working.", Category: "engagement"},
		{ID: 7, Text: "I feel my contributions are recognized and valued.", Category: "satisfaction"},
		{ID: 8, Text: "My work gives me a sense of personal accomplishment.", Category: "satisfaction"},
		{ID: 9, Text: "I have the autonomy to decide how I do my work.", Category: "satisfaction"},
		{ID: 10, Text: "I am able to disconnect from work during my personal time.", Category: "balance"},
		{ID: 11, Text: "I feel supported by my manager when I face challenges.", Category: "support"},
		{ID: 12, Text: "I understand how my work contributes to the company's goals.", Category: "alignment"},
	}
}

// IsDefaultNegative reports whether id is one of the fixed burnout ids. These
// stay negative even if the bank was emptied and the id handed out again.
func IsDefaultNegative(id int) bool {
	for _, n := range DefaultNegativeIDs {
		if n == id {
			return true
		}
	}
	return false
}

// NegativeSet builds a polarity lookup from a question list.
func NegativeSet(questions []Question) map[int]bool {
	out := make(map[int]bool, len(questions))
	for _, q := range questions {
		if q.Negative || IsDefaultNegative(q.ID) {
			out[q.ID] = true
		}
	}
	return out
}
