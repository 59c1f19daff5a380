package services

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/Dheolarh/SkoolMeBackend/internal/logger"
	"github.com/Dheolarh/SkoolMeBackend/internal/types"
)

// Content-signal vocabularies. Each check is a case-insensitive substring
// match against the raw content, mirroring how the quality of a hit set was
// tuned: broad and cheap.
const mathSymbols = "=+-*/∑∫√∞"

var (
	formulaWords     = []string{"formula", "equation", "function", "variable", "parameter"}
	methodWords      = []string{"method", "algorithm", "procedure", "technique", "approach"}
	problemWords     = []string{"problem", "solution", "solve", "optimization", "minimize", "maximize"}
	theoryWords      = []string{"theory", "principle", "concept", "fundamental"}
	definitionWords  = []string{"definition", "define", "means", "refers to"}
	exampleWords     = []string{"example", "instance", "case", "scenario"}
	exerciseWords    = []string{"problem", "question", "exercise", "task"}
	applicationWords = []string{"application", "use", "implement", "practice"}
)

// CourseGenService synthesizes a course structure from aggregated content.
// Generation is fully deterministic: identical (content, title, notes) inputs
// always produce an identical structure.
type CourseGenService interface {
	Generate(content, title, notes string) *types.CourseStructure
}

type courseGenService struct {
	log *logger.Logger
}

func NewCourseGenService(log *logger.Logger) CourseGenService {
	return &courseGenService{log: log.With("service", "CourseGenService")}
}

func (s *courseGenService) Generate(content, title, notes string) *types.CourseStructure {
	fullContent := content
	if notes != "" {
		fullContent += "\n\nAdditional Notes:\n" + notes
	}

	words := strings.Fields(strings.ToLower(fullContent))
	keyTopics := extractKeyTopics(words, title, content)
	sentences := extractSentences(content)

	structure := &types.CourseStructure{
		Title:              title,
		Overview:           generateOverview(content, keyTopics, sentences),
		Modules:            generateModules(content, keyTopics),
		LearningObjectives: generateObjectives(keyTopics, content),
		EstimatedDuration:  estimateDuration(len(words)),
		DifficultyLevel:    estimateDifficulty(content),
		KeyTopics:          keyTopics,
	}

	s.log.Debug("Course structure generated",
		"title", title, "topics", len(keyTopics), "modules", len(structure.Modules))
	return structure
}

// extractKeyTopics counts cleaned tokens in first-occurrence order, takes the
// top 20 by frequency (stable sort, so ties keep occurrence order), and keeps
// repeated ones. Thin content is supplemented deterministically: title words
// first, then domain-flag topics, then fixed fallbacks.
func extractKeyTopics(words []string, title, content string) []string {
	counts := make(map[string]int)
	order := make([]string, 0, len(words))
	for _, w := range words {
		clean := stripNonAlnum(w)
		if utf8.RuneCountInString(clean) <= 3 {
			continue
		}
		if _, stop := stopWords[clean]; stop {
			continue
		}
		if counts[clean] == 0 {
			order = append(order, clean)
		}
		counts[clean]++
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})
	if len(order) > 20 {
		order = order[:20]
	}

	keyTopics := make([]string, 0, len(order))
	for _, w := range order {
		if counts[w] > 1 {
			keyTopics = append(keyTopics, w)
		}
	}

	if len(keyTopics) < 3 {
		for _, w := range strings.Fields(strings.ToLower(title)) {
			if utf8.RuneCountInString(w) > 3 && !containsString(keyTopics, w) {
				keyTopics = append(keyTopics, w)
			}
		}

		lower := strings.ToLower(content)
		if strings.ContainsAny(content, mathSymbols) || containsAnyWord(lower, formulaWords) {
			keyTopics = append(keyTopics, "mathematics", "calculations", "formulas")
		}
		if containsAnyWord(lower, methodWords) {
			keyTopics = append(keyTopics, "methods", "techniques", "procedures")
		}
		if containsAnyWord(lower, problemWords) {
			keyTopics = append(keyTopics, "problem-solving", "optimization", "solutions")
		}

		if len(keyTopics) < 3 {
			keyTopics = append(keyTopics, "fundamentals", "principles", "applications")
		}
	}

	keyTopics = dedupe(keyTopics)
	if len(keyTopics) > 10 {
		keyTopics = keyTopics[:10]
	}
	return keyTopics
}

// extractSentences keeps period-split fragments longer than 20 characters,
// in original order. They only feed overview context.
func extractSentences(content string) []string {
	parts := strings.Split(content, ".")
	sentences := make([]string, 0, len(parts))
	for _, p := range parts {
		trimmed := strings.TrimSpace(p)
		if utf8.RuneCountInString(trimmed) > 20 {
			sentences = append(sentences, trimmed)
		}
	}
	return sentences
}

// courseTypeRule maps a content predicate to an overview template. Rules are
// evaluated in priority order; the first match wins.
type courseTypeRule struct {
	matches    func(content, lower string) bool
	courseType string
	focusAreas string
}

var courseTypeRules = []courseTypeRule{
	{
		matches: func(content, lower string) bool {
			return strings.ContainsAny(content, mathSymbols) || containsAnyWord(lower, formulaWords)
		},
		courseType: "mathematical and analytical",
		focusAreas: "mathematical concepts, formulas, and analytical techniques",
	},
	{
		matches:    func(_, lower string) bool { return containsAnyWord(lower, methodWords) },
		courseType: "methodological and procedural",
		focusAreas: "methods, techniques, and systematic approaches",
	},
	{
		matches:    func(_, lower string) bool { return containsAnyWord(lower, problemWords) },
		courseType: "problem-solving oriented",
		focusAreas: "problem identification, solution strategies, and practical applications",
	},
	{
		matches:    func(_, lower string) bool { return containsAnyWord(lower, theoryWords) },
		courseType: "theoretical and conceptual",
		focusAreas: "theoretical foundations, principles, and conceptual frameworks",
	},
	{
		matches:    func(_, _ string) bool { return true },
		courseType: "comprehensive",
		focusAreas: "key concepts and practical applications",
	},
}

func generateOverview(content string, keyTopics, sentences []string) string {
	wordCount := len(strings.Fields(content))
	lower := strings.ToLower(content)

	var rule courseTypeRule
	for _, r := range courseTypeRules {
		if r.matches(content, lower) {
			rule = r
			break
		}
	}

	topicsStr := "various topics"
	if len(keyTopics) > 0 {
		topicsStr = strings.Join(firstN(keyTopics, 5), ", ")
	}

	contextInfo := ""
	if len(sentences) > 0 {
		contextInfo = fmt.Sprintf(
			"\n\nBased on the analyzed content, this course covers topics such as: %s...",
			truncateRunes(sentences[0], 100))
	}

	return fmt.Sprintf(`This course is designed to provide comprehensive coverage of the analyzed content, structured as a %s learning experience.

The course material covers approximately %s words of content focusing on %s. The content has been carefully analyzed to identify key themes and learning objectives.

The course structure emphasizes %s found in the source material, providing a logical learning progression from foundational concepts to advanced applications. Each module is designed to build upon previous knowledge while introducing new concepts and practical examples.

This course is suitable for learners who want to gain a thorough understanding of the subject matter presented in the analyzed content, with a focus on practical application and real-world relevance.%s`,
		rule.courseType, formatWithCommas(wordCount), topicsStr, rule.focusAreas, contextInfo)
}

func generateModules(content string, keyTopics []string) []types.CourseModule {
	lower := strings.ToLower(content)

	hasDefinitions := containsAnyWord(lower, definitionWords)
	hasExamples := containsAnyWord(lower, exampleWords)
	hasExercises := containsAnyWord(lower, exerciseWords)
	hasMethods := containsAnyWord(lower, methodWords)
	hasTheory := containsAnyWord(lower, theoryWords)
	hasApplications := containsAnyWord(lower, applicationWords)

	if len(keyTopics) >= 3 {
		modules := make([]types.CourseModule, 0, 6)
		for i, topic := range firstN(keyTopics, 6) {
			moduleTopics := []string{}
			if hasTheory {
				moduleTopics = append(moduleTopics, "Theory and principles of "+topic)
			}
			if hasDefinitions {
				moduleTopics = append(moduleTopics, "Key definitions and concepts in "+topic)
			}
			if hasMethods {
				moduleTopics = append(moduleTopics, "Methods and techniques for "+topic)
			}
			if hasExamples {
				moduleTopics = append(moduleTopics, "Examples and case studies in "+topic)
			}
			if hasApplications {
				moduleTopics = append(moduleTopics, "Practical applications of "+topic)
			}
			if hasExercises {
				moduleTopics = append(moduleTopics, "Problem-solving with "+topic)
			}

			for len(moduleTopics) < 4 {
				switch {
				case !containsString(moduleTopics, "Introduction to "+topic):
					moduleTopics = append(moduleTopics, "Introduction to "+topic)
				case !containsString(moduleTopics, "Advanced "+topic):
					moduleTopics = append(moduleTopics, "Advanced "+topic)
				default:
					moduleTopics = append(moduleTopics, "Review and assessment of "+topic)
				}
			}

			modules = append(modules, types.CourseModule{
				ModuleNumber:  i + 1,
				Title:         fmt.Sprintf("Module %d: %s", i+1, capitalize(topic)),
				Description:   fmt.Sprintf("Comprehensive coverage of %s concepts, methods, and applications based on the analyzed content", topic),
				Topics:        moduleTopics[:4],
				EstimatedTime: "2-3 hours",
			})
		}
		return modules
	}

	// Thin topic set: fall back to template modules sized from the content's
	// blank-line sections.
	sectionCount := 0
	for _, s := range strings.Split(content, "\n\n") {
		if strings.TrimSpace(s) != "" {
			sectionCount++
		}
	}
	moduleCount := clampInt(sectionCount/2, 3, 6)

	modules := make([]types.CourseModule, 0, moduleCount)
	for i := 0; i < moduleCount; i++ {
		var m types.CourseModule
		switch {
		case hasTheory && i == 0:
			m = types.CourseModule{
				Title:       "Module 1: Theoretical Foundations",
				Description: "Understanding the fundamental theories and principles",
				Topics:      []string{"Core theoretical concepts", "Key principles", "Fundamental definitions", "Theoretical framework"},
			}
		case hasMethods && (i == 1 || !hasTheory):
			m = types.CourseModule{
				Title:       fmt.Sprintf("Module %d: Methods and Techniques", i+1),
				Description: "Learning practical methods and techniques",
				Topics:      []string{"Methodology overview", "Step-by-step procedures", "Technique applications", "Best practices"},
			}
		case hasApplications:
			m = types.CourseModule{
				Title:       fmt.Sprintf("Module %d: Practical Applications", i+1),
				Description: "Applying concepts to real-world scenarios",
				Topics:      []string{"Real-world applications", "Case studies", "Practical examples", "Implementation strategies"},
			}
		case hasExercises:
			m = types.CourseModule{
				Title:       fmt.Sprintf("Module %d: Problem Solving", i+1),
				Description: "Developing problem-solving skills",
				Topics:      []string{"Problem identification", "Solution approaches", "Problem-solving techniques", "Practice exercises"},
			}
		default:
			m = types.CourseModule{
				Title:       fmt.Sprintf("Module %d: Core Concepts", i+1),
				Description: "Essential concepts and principles",
				Topics:      []string{"Introduction and overview", "Key concepts", "Important principles", "Summary and review"},
			}
		}
		m.ModuleNumber = i + 1
		m.EstimatedTime = "2-3 hours"
		modules = append(modules, m)
	}
	return modules
}

func generateObjectives(keyTopics []string, content string) []string {
	objectives := []string{
		"Understand the fundamental concepts presented in the course material",
		"Apply key principles to practical scenarios",
		"Analyze and evaluate different approaches and methodologies",
		"Demonstrate comprehension through practical application",
	}

	lower := strings.ToLower(content)
	if containsAnyWord(lower, []string{"problem", "solution", "solve"}) {
		objectives = append(objectives, "Develop problem-solving skills and analytical thinking")
	}
	if containsAnyWord(lower, []string{"method", "algorithm", "procedure", "technique"}) {
		objectives = append(objectives, "Master specific methods and techniques relevant to the subject")
	}
	if containsAnyWord(lower, []string{"formula", "equation", "calculation"}) {
		objectives = append(objectives, "Apply mathematical concepts and perform accurate calculations")
	}
	if containsAnyWord(lower, []string{"application", "implement", "practice"}) {
		objectives = append(objectives, "Implement concepts in real-world applications and scenarios")
	}
	if containsAnyWord(lower, []string{"theory", "principle", "concept"}) {
		objectives = append(objectives, "Comprehend theoretical foundations and underlying principles")
	}

	for _, topic := range firstN(keyTopics, 3) {
		objectives = append(objectives, "Master the concepts and applications of "+topic)
	}

	objectives = dedupe(objectives)
	if len(objectives) > 8 {
		objectives = objectives[:8]
	}
	return objectives
}

// estimateDuration assumes ~200 words read per minute, times 2.5 for
// activities and comprehension.
func estimateDuration(wordCount int) string {
	readingTime := float64(wordCount) / 200
	totalTime := readingTime * 2.5

	hours := int(totalTime / 60)
	minutes := int(math.Mod(totalTime, 60))

	if hours > 0 {
		return fmt.Sprintf("%d hours %d minutes", hours, minutes)
	}
	return fmt.Sprintf("%d minutes", minutes)
}

// estimateDifficulty uses mean word length as a cheap complexity proxy.
func estimateDifficulty(content string) string {
	words := strings.Fields(content)
	if len(words) == 0 {
		return "Beginner"
	}
	var total int
	for _, w := range words {
		total += utf8.RuneCountInString(w)
	}
	avg := float64(total) / float64(len(words))

	switch {
	case avg > 6:
		return "Advanced"
	case avg > 4.5:
		return "Intermediate"
	default:
		return "Beginner"
	}
}

func stripNonAlnum(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func containsAnyWord(haystack string, words []string) bool {
	for _, w := range words {
		if strings.Contains(haystack, w) {
			return true
		}
	}
	return false
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func dedupe(list []string) []string {
	seen := make(map[string]struct{}, len(list))
	out := make([]string, 0, len(list))
	for _, v := range list {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

func firstN(list []string, n int) []string {
	if len(list) > n {
		return list[:n]
	}
	return list
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + strings.ToLower(s[size:])
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) > n {
		return string(runes[:n])
	}
	return s
}

func formatWithCommas(n int) string {
	s := fmt.Sprintf("%d", n)
	if len(s) <= 3 {
		return s
	}
	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
