package reddit

import "time"

// Content kinds as they appear in persona evidence.
const (
	KindPost    = "Post"
	KindComment = "Comment"
)

// Content is one public post or comment from a user's history.
type Content struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"` // Post or Comment
	Subreddit string    `json:"subreddit"`
	Text      string    `json:"text"`
	Permalink string    `json:"permalink"`
	Score     int       `json:"score"`
	Created   time.Time `json:"created"`
}

// Account holds the public facts returned by /user/{name}/about.
type Account struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Created      time.Time `json:"created"`
	LinkKarma    int       `json:"link_karma"`
	CommentKarma int       `json:"comment_karma"`
}

// Listing envelope as Reddit returns it: a "Listing" thing whose children
// are t1 (comment) or t3 (post) things.
type listingEnvelope struct {
	Kind string `json:"kind"`
	Data struct {
		After    string         `json:"after"`
		Children []listingChild `json:"children"`
	} `json:"data"`
}

type listingChild struct {
	Kind string    `json:"kind"` // t1 = comment, t3 = link
	Data thingData `json:"data"`
}

type thingData struct {
	ID         string  `json:"id"`
	Title      string  `json:"title"`
	Selftext   string  `json:"selftext"`
	Body       string  `json:"body"`
	Permalink  string  `json:"permalink"`
	Subreddit  string  `json:"subreddit"`
	Score      int     `json:"score"`
	CreatedUTC float64 `json:"created_utc"`
}

type aboutEnvelope struct {
	Kind string `json:"kind"`
	Data struct {
		ID           string  `json:"id"`
		Name         string  `json:"name"`
		CreatedUTC   float64 `json:"created_utc"`
		LinkKarma    int     `json:"link_karma"`
		CommentKarma int     `json:"comment_karma"`
		IsSuspended  bool    `json:"is_suspended"`
	} `json:"data"`
}

func fromUnixUTC(ts float64) time.Time {
	return time.Unix(int64(ts), 0).UTC()
}

// content converts a listing child into the exported Content shape.
// Posts combine title and selftext the way they read on the site.
func (c listingChild) content() Content {
	out := Content{
		ID:        c.Data.ID,
		Subreddit: c.Data.Subreddit,
		Permalink: c.Data.Permalink,
		Score:     c.Data.Score,
		Created:   fromUnixUTC(c.Data.CreatedUTC),
	}
	switch c.Kind {
	case "t3":
		out.Kind = KindPost
		out.Text = c.Data.Title
		if c.Data.Selftext != "" {
			out.Text += "\n\n" + c.Data.Selftext
		}
	default:
		out.Kind = KindComment
		out.Text = c.Data.Body
	}
	return out
}
