package graph

import (
	"context"
	"strings"
)

// skillCatalog groups the seedable skills by category.
var skillCatalog = map[string][]string{
	"Programming": {
		"Python", "JavaScript", "Java", "C++", "PHP",
		"Ruby", "Go", "TypeScript", "Kotlin", "Swift",
	},
	"Web Development": {
		"Django", "React", "Vue.js", "Angular", "Node.js",
		"HTML/CSS", "REST API", "GraphQL", "Flask", "FastAPI",
	},
	"Data Science": {
		"Machine Learning", "Data Analysis", "Pandas", "NumPy",
		"Scikit-learn", "TensorFlow", "PyTorch", "Statistics",
		"Deep Learning", "NLP",
	},
	"Databases": {
		"SQL", "PostgreSQL", "MySQL", "MongoDB", "Neo4j",
		"Redis", "Elasticsearch", "SQLite",
	},
	"DevOps": {
		"Docker", "Kubernetes", "CI/CD", "AWS", "Azure",
		"Linux", "Git", "Jenkins", "Terraform", "Ansible",
	},
	"Design": {
		"UI/UX", "Figma", "Adobe XD", "Photoshop",
		"Responsive Design", "Accessibility", "CSS Frameworks",
	},
	"Business": {
		"Project Management", "Agile", "Scrum", "Leadership",
		"Communication", "Excel", "PowerBI", "Data Visualization",
	},
}

// keywordSkills maps substrings of course titles/descriptions to the
// skills the course presumably teaches.
var keywordSkills = map[string][]string{
	"python":           {"Python", "Programming"},
	"django":           {"Django", "Python", "Web Development", "REST API"},
	"react":            {"React", "JavaScript", "Web Development", "HTML/CSS"},
	"javascript":       {"JavaScript", "Web Development", "HTML/CSS"},
	"machine learning": {"Machine Learning", "Python", "Data Science"},
	"data":             {"Data Analysis", "Python", "Pandas", "Statistics"},
	"docker":           {"Docker", "DevOps", "Linux"},
	"kubernetes":       {"Kubernetes", "Docker", "DevOps"},
	"sql":              {"SQL", "Databases"},
	"database":         {"Databases", "SQL"},
	"neo4j":            {"Neo4j", "Databases", "GraphQL"},
	"design":           {"UI/UX", "Figma", "Design"},
	"web":              {"Web Development", "HTML/CSS"},
	"api":              {"REST API", "Web Development"},
	"java":             {"Java", "Programming"},
	"c++":              {"C++", "Programming"},
	"node":             {"Node.js", "JavaScript", "Web Development"},
	"vue":              {"Vue.js", "JavaScript", "Web Development"},
	"angular":          {"Angular", "JavaScript", "Web Development", "TypeScript"},
	"aws":              {"AWS", "DevOps"},
	"azure":            {"Azure", "DevOps"},
	"git":              {"Git", "DevOps"},
	"linux":            {"Linux", "DevOps"},
	"tensorflow":       {"TensorFlow", "Machine Learning", "Deep Learning", "Python"},
	"pytorch":          {"PyTorch", "Machine Learning", "Deep Learning", "Python"},
	"excel":            {"Excel", "Business", "Data Analysis"},
	"agile":            {"Agile", "Scrum", "Project Management"},
}

// UpsertSkillCatalog seeds every known Skill node with its category.
func UpsertSkillCatalog(ctx context.Context, run Runner) error {
	if run == nil {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}

	var rows []map[string]any
	for category, names := range skillCatalog {
		for _, name := range names {
			rows = append(rows, map[string]any{
				"key":      strings.ToLower(name),
				"name":     name,
				"category": category,
			})
		}
	}

	cypher := `
UNWIND $rows AS row
MERGE (s:Skill {key: row.key})
ON CREATE SET s.name = row.name
SET s.category = row.category
`
	return run.WriteRows(ctx, cypher, map[string]any{"rows": rows})
}

// SkillsForText returns the deduplicated skills matched by keyword
// against a course title and description.
func SkillsForText(title, description string) []string {
	search := strings.ToLower(title) + " " + strings.ToLower(description)
	seen := make(map[string]bool)
	var out []string
	for keyword, skills := range keywordSkills {
		if !strings.Contains(search, keyword) {
			continue
		}
		for _, s := range skills {
			if seen[s] {
				continue
			}
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}
