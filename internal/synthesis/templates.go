// Package synthesis is the deterministic local fallback for resume content
// generation. Rule tables keyed by role, experience level, and lightweight
// keyword heuristics produce the same structured payloads as the remote
// model path, differing only in their provenance tag.
package synthesis

import (
	"fmt"
	"strings"
)

const (
	levelFresher     = "fresher"
	levelExperienced = "experienced"
)

// fill replaces {{.Key}} placeholders in a template, mirroring the prompt
// formatting used on the remote path.
func fill(template string, data map[string]string) string {
	result := template
	for key, value := range data {
		result = strings.ReplaceAll(result, fmt.Sprintf("{{.%s}}", key), value)
	}
	return result
}

// summaryTemplates maps (role, level) to a summary template. Placeholders:
// {{.Role}}, {{.Skills}} (first two technical skills), {{.Years}}.
// Fresher templates never use experienced language and vice versa.
var summaryTemplates = map[string]map[string]string{
	"frontend developer": {
		levelFresher:     "Enthusiastic Frontend Developer with hands-on project experience in {{.Skills}}. Skilled at translating designs into responsive, accessible interfaces and eager to grow within a collaborative engineering team.",
		levelExperienced: "Frontend Developer with {{.Years}}+ years of experience building performant, accessible web applications with {{.Skills}}. Proven record of shipping user-facing features and improving page performance at scale.",
	},
	"backend developer": {
		levelFresher:     "Motivated Backend Developer trained in {{.Skills}}, with academic and personal projects covering REST APIs, data modeling, and deployment fundamentals. Keen to build reliable server-side systems.",
		levelExperienced: "Backend Developer with {{.Years}}+ years of experience designing APIs and data-intensive services using {{.Skills}}. Comfortable owning systems from schema design through production monitoring.",
	},
	"full stack developer": {
		levelFresher:     "Aspiring Full Stack Developer with project experience across {{.Skills}}. Comfortable moving between UI work and server-side logic, and quick to pick up new frameworks.",
		levelExperienced: "Full Stack Developer with {{.Years}}+ years of experience delivering end-to-end features with {{.Skills}}. Equally at home refining frontend interactions and hardening backend services.",
	},
	"software engineer": {
		levelFresher:     "Recent graduate pursuing a Software Engineer role, with solid fundamentals in {{.Skills}}, data structures, and collaborative development. Brings strong problem-solving habits from coursework and personal projects.",
		levelExperienced: "Software Engineer with {{.Years}}+ years of experience shipping production software with {{.Skills}}. Known for pragmatic design decisions, clear communication, and dependable delivery.",
	},
	"data scientist": {
		levelFresher:     "Early-career Data Scientist with hands-on exposure to {{.Skills}} through coursework and applied projects. Strong foundation in statistics and a practical approach to turning data into decisions.",
		levelExperienced: "Data Scientist with {{.Years}}+ years of experience applying {{.Skills}} to real business problems, from exploratory analysis through deployed models and measurable outcomes.",
	},
	"data analyst": {
		levelFresher:     "Detail-oriented Data Analyst candidate skilled in {{.Skills}}, with project experience cleaning, analyzing, and visualizing datasets to support concrete recommendations.",
		levelExperienced: "Data Analyst with {{.Years}}+ years of experience using {{.Skills}} to build reporting, surface trends, and inform stakeholder decisions across business functions.",
	},
	"devops engineer": {
		levelFresher:     "DevOps-focused engineer with hands-on lab experience in {{.Skills}}, CI/CD pipelines, and infrastructure automation fundamentals. Eager to support reliable, repeatable deployments.",
		levelExperienced: "DevOps Engineer with {{.Years}}+ years of experience automating infrastructure and delivery pipelines with {{.Skills}}. Track record of improving deployment frequency and reducing incident recovery time.",
	},
	"mobile developer": {
		levelFresher:     "Aspiring Mobile Developer with project experience in {{.Skills}}, including published practice apps and coursework covering the full mobile development lifecycle.",
		levelExperienced: "Mobile Developer with {{.Years}}+ years of experience building and maintaining production apps with {{.Skills}}, with attention to performance, offline behavior, and store release processes.",
	},
}

// genericSummaryTemplates are the fallback when a role has no exact entry.
var genericSummaryTemplates = map[string]string{
	levelFresher:     "Motivated {{.Role}} candidate with hands-on project experience in {{.Skills}}. Quick learner with strong fundamentals, looking to contribute to a team-oriented engineering environment.",
	levelExperienced: "{{.Role}} with {{.Years}}+ years of professional experience working with {{.Skills}}. Dependable contributor with a record of delivering quality work and collaborating across teams.",
}

// objectiveTemplates are generic by design; objectives vary less by role
// than summaries do.
var objectiveTemplates = map[string]string{
	levelFresher:     "Seeking an entry-level {{.Role}} position to apply skills in {{.Skills}} while growing within a supportive, fast-moving team.",
	levelExperienced: "Seeking a {{.Role}} role where {{.Years}}+ years of experience with {{.Skills}} can drive measurable product and engineering outcomes.",
}

// projectCategory groups description/outcome templates under a coarse
// keyword-matched category.
type projectCategory struct {
	name         string
	keywords     []string
	descriptions []string // placeholders: {{.Name}}, {{.Tech}}
	outcomes     []string
}

// projectCategories is checked in order; the first keyword hit wins.
var projectCategories = []projectCategory{
	{
		name:     "E-commerce",
		keywords: []string{"ecommerce", "e-commerce", "shop", "store", "cart", "marketplace"},
		descriptions: []string{
			"Built {{.Name}}, an e-commerce application with product catalog, cart management, and order checkout flows using {{.Tech}}.",
			"Developed {{.Name}} with secure payment handling, inventory views, and a responsive storefront built on {{.Tech}}.",
		},
		outcomes: []string{
			"Streamlined the purchase flow, reducing checkout steps and cart abandonment.",
			"Supported a growing product catalog without degrading page load times.",
		},
	},
	{
		name:     "Social Media",
		keywords: []string{"social", "chat", "messag", "forum", "community"},
		descriptions: []string{
			"Created {{.Name}}, a social platform with real-time messaging, user profiles, and feed updates built with {{.Tech}}.",
			"Implemented {{.Name}} featuring post sharing, notifications, and follower interactions using {{.Tech}}.",
		},
		outcomes: []string{
			"Enabled real-time interactions that kept early users engaged.",
			"Handled concurrent conversations reliably under test load.",
		},
	},
	{
		name:     "AI/ML",
		keywords: []string{"ai", "ml", "machine learning", "predict", "model", "classif", "recommend"},
		descriptions: []string{
			"Developed {{.Name}}, applying machine learning techniques for prediction and analysis with {{.Tech}}.",
			"Built {{.Name}}, an intelligent application combining data preprocessing, model training, and result visualization using {{.Tech}}.",
		},
		outcomes: []string{
			"Achieved solid prediction accuracy on held-out evaluation data.",
			"Automated analysis that previously required manual review.",
		},
	},
	{
		name:     "Data Analytics",
		keywords: []string{"dashboard", "analytics", "visuali", "report", "data"},
		descriptions: []string{
			"Built {{.Name}}, a data analysis project with interactive dashboards and automated reporting using {{.Tech}}.",
			"Created {{.Name}} to clean, aggregate, and visualize datasets for decision support, built with {{.Tech}}.",
		},
		outcomes: []string{
			"Turned raw data into digestible visual reports for non-technical users.",
			"Cut manual reporting effort through scheduled data refreshes.",
		},
	},
	{
		name:     "Management System",
		keywords: []string{"management", "admin", "inventory", "tracker", "booking", "attendance", "library"},
		descriptions: []string{
			"Developed {{.Name}}, a management system with role-based access, CRUD workflows, and searchable records built on {{.Tech}}.",
			"Implemented {{.Name}} to digitize record keeping with validation, filtering, and export features using {{.Tech}}.",
		},
		outcomes: []string{
			"Replaced spreadsheet-based tracking with a single consistent system.",
			"Reduced record lookup time through indexed search and filters.",
		},
	},
	{
		name:     "Mobile App",
		keywords: []string{"mobile", "android", "ios", "flutter", "app"},
		descriptions: []string{
			"Built {{.Name}}, a mobile application with offline support and a clean, responsive interface using {{.Tech}}.",
			"Developed {{.Name}} covering the full mobile lifecycle from UI design to release packaging with {{.Tech}}.",
		},
		outcomes: []string{
			"Delivered a smooth experience across device sizes and network conditions.",
			"Shipped iterative releases driven by tester feedback.",
		},
	},
	{
		name:     "General",
		keywords: nil,
		descriptions: []string{
			"Developed {{.Name}}, a well-structured application demonstrating practical software design using {{.Tech}}.",
			"Built {{.Name}} end to end, covering requirements, implementation, and testing with {{.Tech}}.",
		},
		outcomes: []string{
			"Delivered a working, documented project from concept to completion.",
			"Applied clean code practices that kept the project easy to extend.",
		},
	},
}

// achievementTemplates fill the achievements section when the caller left it
// empty. Placeholders: {{.Role}}, {{.Count}}.
var achievementTemplates = map[string][]string{
	levelFresher: {
		"Completed {{.Count}} hands-on projects demonstrating {{.Role}} fundamentals.",
		"Earned academic recognition for consistent performance in core technical coursework.",
	},
	levelExperienced: {
		"Delivered {{.Count}} significant projects with consistent on-time completion.",
		"Recognized by peers and leads for dependable ownership of {{.Role}} responsibilities.",
	},
}

// educationHighlights fill an education entry's highlights when empty.
var educationHighlights = []string{
	"Relevant coursework in data structures, algorithms, and software design.",
	"Participated in technical clubs and collaborative student projects.",
}

// expectedKeywords maps a lowercased role to the keyword set used for local
// ATS gap analysis. Unknown roles fall back to the Software Engineer table.
var expectedKeywords = map[string][]string{
	"software engineer": {
		"algorithms", "testing", "debugging", "git", "agile", "design",
		"apis", "databases", "architecture", "review",
	},
	"frontend developer": {
		"react", "javascript", "typescript", "html", "css", "responsive",
		"accessibility", "performance", "testing", "webpack",
	},
	"backend developer": {
		"apis", "databases", "microservices", "caching", "authentication",
		"testing", "docker", "scalability", "queues", "monitoring",
	},
	"full stack developer": {
		"react", "javascript", "apis", "databases", "testing", "docker",
		"responsive", "authentication", "deployment", "typescript",
	},
	"data scientist": {
		"python", "statistics", "pandas", "modeling", "visualization",
		"machine", "learning", "sql", "experimentation", "notebooks",
	},
	"data analyst": {
		"sql", "excel", "visualization", "dashboards", "reporting",
		"statistics", "python", "tableau", "cleaning", "stakeholders",
	},
	"devops engineer": {
		"docker", "kubernetes", "terraform", "pipelines", "monitoring",
		"automation", "linux", "cloud", "deployment", "incident",
	},
	"mobile developer": {
		"android", "kotlin", "swift", "flutter", "offline", "testing",
		"performance", "release", "notifications", "profiling",
	},
}

const defaultKeywordRole = "software engineer"

// techVocabulary is the union of all expected-keyword tables; used to bound
// job-description keyword extraction to recognizably technical terms.
var techVocabulary = func() map[string]bool {
	vocab := make(map[string]bool)
	for _, words := range expectedKeywords {
		for _, w := range words {
			vocab[w] = true
		}
	}
	return vocab
}()
