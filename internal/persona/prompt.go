package persona

import (
	_ "embed"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed prompts/persona.yaml
var promptPack []byte

type promptTemplates struct {
	System       string `yaml:"system"`
	UserTemplate string `yaml:"user_template"`
}

var templates promptTemplates

func init() {
	if err := yaml.Unmarshal(promptPack, &templates); err != nil {
		panic("persona: invalid embedded prompt pack: " + err.Error())
	}
	if templates.System == "" || templates.UserTemplate == "" {
		panic("persona: embedded prompt pack is incomplete")
	}
}

// SystemPrompt returns the system message sent with every persona request.
func SystemPrompt() string {
	return templates.System
}

// BuildPrompt renders the analyst prompt for one user's history.
func BuildPrompt(username string, posts, comments []Evidence) string {
	r := strings.NewReplacer(
		"{{username}}", username,
		"{{posts}}", FormatLines(posts),
		"{{comments}}", FormatLines(comments),
	)
	return r.Replace(templates.UserTemplate)
}
