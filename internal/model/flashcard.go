package model

// Flashcard 语法卡片，题库固定
// swagger:model
type Flashcard struct {
	ID          string   `yaml:"id" json:"id"`
	Topic       string   `yaml:"topic" json:"topic"`
	Level       string   `yaml:"-" json:"level"`
	Question    string   `yaml:"question" json:"question"`
	Answer      string   `yaml:"answer" json:"answer"`
	Explanation string   `yaml:"explanation" json:"explanation"`
	Example     string   `yaml:"example" json:"example"`
	Options     []Option `yaml:"-" json:"options,omitempty"`
}

// Option 选择题选项
type Option struct {
	Text    string `json:"text"`
	Correct bool   `json:"correct"`
}
