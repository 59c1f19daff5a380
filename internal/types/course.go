package types

type CourseModule struct {
	ModuleNumber  int      `json:"module_number"`
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	Topics        []string `json:"topics"`
	EstimatedTime string   `json:"estimated_time"`
}

type CourseStructure struct {
	Title              string         `json:"title"`
	Overview           string         `json:"overview"`
	Modules            []CourseModule `json:"modules"`
	LearningObjectives []string       `json:"learning_objectives"`
	EstimatedDuration  string         `json:"estimated_duration"`
	DifficultyLevel    string         `json:"difficulty_level"`
	KeyTopics          []string       `json:"key_topics"`
}
