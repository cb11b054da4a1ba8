package persona

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"personagen/internal/reddit"
)

func TestSystemPrompt(t *testing.T) {
	assert.Equal(t,
		"You are a helpful assistant specializing in user research and persona development.",
		SystemPrompt())
}

func TestBuildPrompt(t *testing.T) {
	posts := []Evidence{{
		Kind:      reddit.KindPost,
		Created:   time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC),
		Text:      "Visited the new ramen place downtown",
		Permalink: "/r/FoodNYC/comments/p1/ramen/",
	}}
	comments := []Evidence{{
		Kind:      reddit.KindComment,
		Created:   time.Date(2024, 3, 2, 9, 0, 0, 0, time.UTC),
		Text:      "The broth matters more than the noodles",
		Permalink: "/r/ramen/comments/c1/broth/x9/",
	}}

	prompt := BuildPrompt("kojied", posts, comments)

	assert.Contains(t, prompt, "from the user u/kojied")
	assert.Contains(t, prompt, "**Reddit History for u/kojied:**")
	assert.Contains(t, prompt, "**User Persona: u/kojied**")
	assert.NotContains(t, prompt, "{{")

	postsIdx := strings.Index(prompt, "--- POSTS ---")
	commentsIdx := strings.Index(prompt, "--- COMMENTS ---")
	require.Greater(t, postsIdx, 0)
	require.Greater(t, commentsIdx, postsIdx)

	postBlock := prompt[postsIdx:commentsIdx]
	assert.Contains(t, postBlock,
		"- (Post from 2024-03-01, https://www.reddit.com/r/FoodNYC/comments/p1/ramen/) “Visited the new ramen place downtown…”")
	assert.Contains(t, prompt[commentsIdx:],
		"- (Comment from 2024-03-02, https://www.reddit.com/r/ramen/comments/c1/broth/x9/) “The broth matters more than the noodles…”")

	assert.Contains(t, prompt, "you **must cite** one or two specific posts or comments")
	for _, section := range []string{
		"* **Summary:**",
		"* **Key Interests/Topics:**",
		"* **Hobbies & Activities:**",
		"* **Expertise Areas:**",
		"* **Communication Style & Tone:**",
		"* **Values or Motivations:**",
	} {
		assert.Contains(t, prompt, section)
	}
}

func TestBuildPromptEmptyHistory(t *testing.T) {
	prompt := BuildPrompt("ghost", nil, nil)
	assert.Contains(t, prompt, "--- POSTS ---")
	assert.Contains(t, prompt, "--- COMMENTS ---")
	assert.NotContains(t, prompt, "{{")
}
